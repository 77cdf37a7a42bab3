package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDefaultRules(t *testing.T) {
	s := newTestStore(t)

	n, err := s.SeedDefaultRules("")
	require.NoError(t, err)
	assert.Equal(t, len(defaultRules), n)

	rules, err := s.GlobalRules()
	require.NoError(t, err)
	require.Len(t, rules, len(defaultRules))

	byKeyword := make(map[string]string, len(rules))
	for _, r := range rules {
		byKeyword[r.Keyword] = r.Category
	}
	assert.Equal(t, "Abonnementen", byKeyword["netflix"])
	assert.Equal(t, "Inkomen", byKeyword["salaris"])
	// Trailing spaces on short keywords survive seeding.
	assert.Equal(t, "Boodschappen", byKeyword["ah "])
	assert.Equal(t, "Benzine", byKeyword["bp "])
}

func TestSeedDefaultRulesIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	_, err := s.SeedDefaultRules("")
	require.NoError(t, err)
	_, err = s.SeedDefaultRules("")
	require.NoError(t, err)

	rules, err := s.GlobalRules()
	require.NoError(t, err)
	assert.Len(t, rules, len(defaultRules))
}

func TestSeedDefaultRulesWithExtraFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`rules:
  - keyword: gym
    category: Sport
  - keyword: ""
    category: Ignored
  - keyword: bakker
    category: Boodschappen
`), 0o600))

	s := newTestStore(t)

	n, err := s.SeedDefaultRules(file)
	require.NoError(t, err)
	// The blank keyword entry is skipped.
	assert.Equal(t, len(defaultRules)+2, n)

	rules, err := s.GlobalRules()
	require.NoError(t, err)
	byKeyword := make(map[string]string, len(rules))
	for _, r := range rules {
		byKeyword[r.Keyword] = r.Category
	}
	assert.Equal(t, "Sport", byKeyword["gym"])
	assert.Equal(t, "Boodschappen", byKeyword["bakker"])
}

func TestSeedDefaultRulesMissingFileFallsBack(t *testing.T) {
	s := newTestStore(t)

	n, err := s.SeedDefaultRules(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, len(defaultRules), n)
}

func TestSeedDefaultRulesBadFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(file, []byte("rules: [not: {valid"), 0o600))

	s := newTestStore(t)

	_, err := s.SeedDefaultRules(file)
	assert.Error(t, err)
}
