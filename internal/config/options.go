package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"headlesskit/internal/domain"
)

// LoadOptionsFile reads a combobox option set from path. The format
// follows the extension: .toml, .yaml/.yml, or .json/.jsonc. A file holds
// either a bare list or a document with an "options" list.
func LoadOptionsFile(path string) ([]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	opts, err := ParseOptions(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return opts, nil
}

// ParseOptions decodes an option set in the format named by ext.
func ParseOptions(data []byte, ext string) ([]any, error) {
	var doc any
	switch strings.ToLower(ext) {
	case ".toml":
		// TOML documents are always tables.
		var table struct {
			Options []any `toml:"options"`
		}
		if err := toml.NewDecoder(bytes.NewReader(data)).Decode(&table); err != nil {
			return nil, fmt.Errorf("%w: parsing options: %v", domain.ErrConfig, err)
		}
		if table.Options == nil {
			return nil, fmt.Errorf("%w: no options list", domain.ErrConfig)
		}
		return table.Options, nil
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: parsing options: %v", domain.ErrConfig, err)
		}
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
			return nil, fmt.Errorf("%w: parsing options: %v", domain.ErrConfig, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported option file type %q", domain.ErrConfig, ext)
	}
	return optionList(doc)
}

func optionList(doc any) ([]any, error) {
	switch v := doc.(type) {
	case []any:
		return v, nil
	case map[string]any:
		if list, ok := v["options"].([]any); ok {
			return list, nil
		}
	}
	return nil, fmt.Errorf("%w: no options list", domain.ErrConfig)
}
