package domain

// Align is the snap alignment of slides inside the carousel viewport
type Align string

const (
	AlignStart  Align = "start"
	AlignCenter Align = "center"
	AlignEnd    Align = "end"
)

// Valid reports whether a is one of the known alignments
func (a Align) Valid() bool {
	switch a {
	case AlignStart, AlignCenter, AlignEnd:
		return true
	}
	return false
}

// FilterKind names a built-in combobox filter predicate
type FilterKind string

const (
	FilterContains FilterKind = "contains"
	FilterPrefix   FilterKind = "prefix"
	FilterFuzzy    FilterKind = "fuzzy"
)
