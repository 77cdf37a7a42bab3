package engine

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeroen-stam/Budgetting-app/internal/logging"
	"github.com/jeroen-stam/Budgetting-app/internal/models"
	"github.com/jeroen-stam/Budgetting-app/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func insert(t *testing.T, s *store.Store, descriptions ...string) {
	t.Helper()
	txns := make([]models.Transaction, 0, len(descriptions))
	for i, d := range descriptions {
		txns = append(txns, models.Transaction{
			Date:        "2024-01-01",
			Description: d,
			Amount:      float64(-(i + 1)),
		})
	}
	_, err := s.InsertTransactions(1, txns)
	require.NoError(t, err)
}

func categoryByDescription(t *testing.T, s *store.Store) map[string]string {
	t.Helper()
	rows, err := s.Transactions(1, 0)
	require.NoError(t, err)
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Description] = r.Category
	}
	return out
}

func TestApplyDefaultPass(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AddGlobalRule("netflix", "Abonnementen"))
	insert(t, s, "NETFLIX.COM AMSTERDAM", "ONBEKENDE WINKEL")

	summary, err := New(s, &logging.MockLogger{}).Apply(1)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.DefaultPass)
	assert.Equal(t, 0, summary.UserPass)

	cats := categoryByDescription(t, s)
	assert.Equal(t, "Abonnementen", cats["NETFLIX.COM AMSTERDAM"])
	assert.Equal(t, models.CategoryUncategorized, cats["ONBEKENDE WINKEL"])
}

func TestApplyUserRuleOverridesCategorized(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AddGlobalRule("netflix", "Abonnementen"))
	insert(t, s, "NETFLIX.COM")

	eng := New(s, &logging.MockLogger{})
	_, err := eng.Apply(1)
	require.NoError(t, err)

	// The user tier rewrites rows the default pass already categorized.
	require.NoError(t, s.AddUserRule(1, "netflix", "Entertainment"))
	summary, err := eng.Apply(1)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.DefaultPass)
	assert.Equal(t, 1, summary.UserPass)

	cats := categoryByDescription(t, s)
	assert.Equal(t, "Entertainment", cats["NETFLIX.COM"])
}

func TestApplyIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AddGlobalRule("jumbo", "Boodschappen"))
	require.NoError(t, s.AddUserRule(1, "gym", "Sport"))
	insert(t, s, "JUMBO UTRECHT", "SPORTCITY GYM")

	eng := New(s, &logging.MockLogger{})
	first, err := eng.Apply(1)
	require.NoError(t, err)
	assert.Equal(t, 1, first.DefaultPass)
	assert.Equal(t, 1, first.UserPass)

	second, err := eng.Apply(1)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, second, "rerun with unchanged data writes nothing")
}

func TestApplyDefaultPassLeavesCategorizedAlone(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AddGlobalRule("netflix", "Abonnementen"))
	insert(t, s, "NETFLIX.COM")

	rows, err := s.Uncategorized(1, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NoError(t, s.SetTransactionCategory(rows[0].ID, "Handmatig"))

	summary, err := New(s, &logging.MockLogger{}).Apply(1)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.DefaultPass)

	cats := categoryByDescription(t, s)
	assert.Equal(t, "Handmatig", cats["NETFLIX.COM"])
}

func TestApplyNoRulesIsSilentSuccess(t *testing.T) {
	s := newTestStore(t)
	insert(t, s, "IETS")

	summary, err := New(s, &logging.MockLogger{}).Apply(1)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, summary)
}

func TestApplyCaseInsensitiveMatch(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AddGlobalRule("Netflix", "Abonnementen"))
	insert(t, s, "nEtFlIx.com")

	summary, err := New(s, &logging.MockLogger{}).Apply(1)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.DefaultPass)
}

func TestSortRulesTieBreak(t *testing.T) {
	rules := []models.Rule{
		{ID: 3, Keyword: "ah"},
		{ID: 1, Keyword: "albert heijn"},
		{ID: 2, Keyword: "heijn"},
		{ID: 4, Keyword: "plus"},
		{ID: 5, Keyword: "lidl"},
	}

	sorted := sortRules(rules)
	got := make([]int64, 0, len(sorted))
	for _, r := range sorted {
		got = append(got, r.ID)
	}
	// Longest keyword first, equal lengths by lowest id.
	assert.Equal(t, []int64{1, 2, 4, 5, 3}, got)
}

func TestMatchFirstHitWins(t *testing.T) {
	rules := sortRules([]models.Rule{
		{ID: 1, Keyword: "albert", Category: "A"},
		{ID: 2, Keyword: "albert heijn", Category: "B"},
	})

	rule, ok := match(rules, "ALBERT HEIJN 1234 AMSTERDAM")
	require.True(t, ok)
	assert.Equal(t, "B", rule.Category, "the longer keyword outranks its prefix")

	_, ok = match(rules, "JUMBO")
	assert.False(t, ok)
}
