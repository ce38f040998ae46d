package combobox

import (
	"fmt"
	"strconv"

	"headlesskit/internal/domain"
)

// Keys names the record fields an option's value, label and disabled
// flag are read from.
type Keys struct {
	Value    string `toml:"value" yaml:"value" json:"value"`
	Label    string `toml:"label" yaml:"label" json:"label"`
	Disabled string `toml:"disabled" yaml:"disabled" json:"disabled"`
}

// DefaultKeys returns the conventional field names.
func DefaultKeys() Keys {
	return Keys{Value: "value", Label: "label", Disabled: "disabled"}
}

func (k Keys) withDefaults() Keys {
	def := DefaultKeys()
	if k.Value == "" {
		k.Value = def.Value
	}
	if k.Label == "" {
		k.Label = def.Label
	}
	if k.Disabled == "" {
		k.Disabled = def.Disabled
	}
	return k
}

// ResolvedOption is an option reduced to the fields the combobox uses.
type ResolvedOption struct {
	Value    string
	Label    string
	Disabled bool

	// Raw is the option exactly as the host supplied it.
	Raw any
	// Index is the option's position in the full option set.
	Index int
}

// Resolve extracts value, label and disabled from a raw option. Strings
// are their own value and label and are never disabled. Records are read
// through keys; a missing label falls back to the value and vice versa,
// and a missing disabled field means enabled. Null fields are missing.
func Resolve(raw any, keys Keys) (ResolvedOption, error) {
	switch opt := raw.(type) {
	case string:
		return ResolvedOption{Value: opt, Label: opt, Raw: raw}, nil

	case map[string]any:
		return resolveRecord(raw, keys, func(k string) (any, bool) {
			v, ok := opt[k]
			return v, ok
		})

	case map[string]string:
		return resolveRecord(raw, keys, func(k string) (any, bool) {
			v, ok := opt[k]
			return v, ok
		})

	default:
		return ResolvedOption{}, fmt.Errorf("%w: unsupported option type %T", domain.ErrConfig, raw)
	}
}

func resolveRecord(raw any, keys Keys, get func(string) (any, bool)) (ResolvedOption, error) {
	var res ResolvedOption
	res.Raw = raw

	// A null field (JSON or YAML null) counts as absent.
	lookup := func(k string) (any, bool) {
		v, ok := get(k)
		return v, ok && v != nil
	}

	value, hasValue := lookup(keys.Value)
	label, hasLabel := lookup(keys.Label)
	if !hasValue && !hasLabel {
		return res, fmt.Errorf("%w: option has neither %q nor %q", domain.ErrConfig, keys.Value, keys.Label)
	}
	if hasValue {
		res.Value = stringify(value)
	}
	if hasLabel {
		res.Label = stringify(label)
	}
	if !hasValue {
		res.Value = res.Label
	}
	if !hasLabel {
		res.Label = res.Value
	}

	if d, ok := lookup(keys.Disabled); ok {
		switch v := d.(type) {
		case bool:
			res.Disabled = v
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return res, fmt.Errorf("%w: option %q: %q is not a boolean", domain.ErrConfig, res.Label, v)
			}
			res.Disabled = b
		default:
			return res, fmt.Errorf("%w: option %q: disabled field has type %T", domain.ErrConfig, res.Label, d)
		}
	}
	return res, nil
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}

// ResolveAll resolves every raw option, numbering them by position.
func ResolveAll(raws []any, keys Keys) ([]ResolvedOption, error) {
	out := make([]ResolvedOption, 0, len(raws))
	for i, raw := range raws {
		opt, err := Resolve(raw, keys)
		if err != nil {
			return nil, fmt.Errorf("option %d: %w", i, err)
		}
		opt.Index = i
		out = append(out, opt)
	}
	return out, nil
}
