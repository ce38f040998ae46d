package combobox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"headlesskit/internal/domain"
)

func opt(label string) ResolvedOption {
	return ResolvedOption{Value: label, Label: label}
}

func TestContains(t *testing.T) {
	assert.True(t, Contains(opt("Banana"), "an"))
	assert.True(t, Contains(opt("Banana"), "AN"))
	assert.True(t, Contains(opt("Banana"), ""))
	assert.False(t, Contains(opt("Cherry"), "an"))
}

func TestPrefix(t *testing.T) {
	assert.True(t, Prefix(opt("Banana"), "ba"))
	assert.False(t, Prefix(opt("Banana"), "an"))
	assert.True(t, Prefix(opt("Banana"), ""))
}

func TestFuzzy(t *testing.T) {
	assert.True(t, Fuzzy(opt("Blueberry"), "bby"))
	assert.True(t, Fuzzy(opt("Blueberry"), "BLU"))
	assert.False(t, Fuzzy(opt("Blueberry"), "yb"))
	assert.True(t, Fuzzy(opt("anything"), "  "))
}

func TestFuzzyScoreRanksTighterMatchesHigher(t *testing.T) {
	tight := FuzzyScore("apple pie", "app")
	loose := FuzzyScore("a big apricot pudding", "app")
	require.Positive(t, tight)
	require.Positive(t, loose)
	assert.Greater(t, tight, loose)
	assert.Equal(t, -1, FuzzyScore("cherry", "xyz"))
}

func TestPredicateFor(t *testing.T) {
	for _, kind := range []domain.FilterKind{"", domain.FilterContains, domain.FilterPrefix, domain.FilterFuzzy} {
		p, err := PredicateFor(kind)
		require.NoError(t, err, kind)
		assert.NotNil(t, p)
	}

	_, err := PredicateFor("regex")
	assert.ErrorIs(t, err, domain.ErrConfig)
}
