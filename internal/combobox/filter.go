package combobox

import (
	"fmt"
	"strings"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"

	"headlesskit/internal/domain"
)

func init() {
	algo.Init("default")
}

// Predicate decides whether an option is listed for the typed query.
type Predicate func(opt ResolvedOption, query string) bool

// Contains matches options whose label contains the query, ignoring case.
func Contains(opt ResolvedOption, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(opt.Label), strings.ToLower(query))
}

// Prefix matches options whose label starts with the query, ignoring case.
func Prefix(opt ResolvedOption, query string) bool {
	if query == "" {
		return true
	}
	return strings.HasPrefix(strings.ToLower(opt.Label), strings.ToLower(query))
}

// Fuzzy matches options whose label contains the query's characters in
// order, fzf style. The query is matched case-insensitively.
func Fuzzy(opt ResolvedOption, query string) bool {
	return FuzzyScore(opt.Label, query) >= 0
}

// FuzzyScore returns the fzf score of text for query, or -1 when it does
// not match. An empty query matches everything with score 0.
func FuzzyScore(text, query string) int {
	query = strings.TrimSpace(query)
	if query == "" {
		return 0
	}
	chars := util.ToChars([]byte(text))
	pattern := []rune(strings.ToLower(query))

	// A nil slab makes the matcher allocate, which keeps it safe across
	// goroutines.
	result, _ := algo.FuzzyMatchV2(false, true, true, &chars, pattern, false, nil)
	if result.Start < 0 {
		return -1
	}
	return result.Score
}

// PredicateFor returns the built-in predicate for kind.
func PredicateFor(kind domain.FilterKind) (Predicate, error) {
	switch kind {
	case "", domain.FilterContains:
		return Contains, nil
	case domain.FilterPrefix:
		return Prefix, nil
	case domain.FilterFuzzy:
		return Fuzzy, nil
	default:
		return nil, fmt.Errorf("%w: unknown filter %q", domain.ErrConfig, kind)
	}
}
