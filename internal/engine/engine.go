// Package engine applies keyword rules to transactions.
//
// A run is two passes. The default pass matches global-tier rules against
// transactions that still carry the sentinel category, filling gaps only.
// The user pass then matches the profile's own rules against every
// transaction and overwrites whatever category is present, so user rules
// always win last. Both passes use case-insensitive substring containment
// of the keyword in the description.
package engine

import (
	"sort"
	"strings"

	"github.com/jeroen-stam/Budgetting-app/internal/logging"
	"github.com/jeroen-stam/Budgetting-app/internal/models"
)

// Store is the persistence surface the engine needs.
type Store interface {
	GlobalRules() ([]models.Rule, error)
	UserRules(profileID int64) ([]models.Rule, error)
	Transactions(profileID int64, limit int) ([]models.Transaction, error)
	Uncategorized(profileID int64, limit int) ([]models.Transaction, error)
	UpdateTransactionCategories(changes map[int64]string) error
}

// Summary reports what one Apply run changed.
type Summary struct {
	// DefaultPass counts transactions the global tier categorized.
	DefaultPass int
	// UserPass counts transactions the user tier (re)categorized.
	UserPass int
}

// Engine runs rule application against a Store. It keeps no state of its
// own; every run reads the current rule and transaction tables.
type Engine struct {
	store  Store
	logger logging.Logger
}

// New creates an Engine. A nil logger gets a default one.
func New(store Store, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Engine{store: store, logger: logger}
}

// Apply runs both passes for one profile. Each pass's changes are written
// as a single batch and committed before the next pass starts. A run with
// no matching rules is a silent success, and rerunning with unchanged data
// changes nothing.
func (e *Engine) Apply(profileID int64) (Summary, error) {
	var summary Summary

	globalRules, err := e.store.GlobalRules()
	if err != nil {
		return summary, err
	}
	pending, err := e.store.Uncategorized(profileID, 0)
	if err != nil {
		return summary, err
	}

	changes := e.matchPass("default", globalRules, pending)
	if err := e.store.UpdateTransactionCategories(changes); err != nil {
		return summary, err
	}
	summary.DefaultPass = len(changes)

	userRules, err := e.store.UserRules(profileID)
	if err != nil {
		return summary, err
	}
	all, err := e.store.Transactions(profileID, 0)
	if err != nil {
		return summary, err
	}

	changes = e.matchPass("user", userRules, all)
	if err := e.store.UpdateTransactionCategories(changes); err != nil {
		return summary, err
	}
	summary.UserPass = len(changes)

	e.logger.WithFields(
		logging.Field{Key: "profile_id", Value: profileID},
		logging.Field{Key: "default_pass", Value: summary.DefaultPass},
		logging.Field{Key: "user_pass", Value: summary.UserPass},
	).Info("Applied rules")
	return summary, nil
}

// matchPass matches one rule tier against a set of transactions and returns
// the category changes to write. Transactions whose category already equals
// the winning rule's category are skipped, which keeps reruns write-free.
func (e *Engine) matchPass(pass string, rules []models.Rule, txns []models.Transaction) map[int64]string {
	changes := make(map[int64]string)
	if len(rules) == 0 || len(txns) == 0 {
		return changes
	}

	sorted := sortRules(rules)
	for _, t := range txns {
		rule, ok := match(sorted, t.Description)
		if !ok || rule.Category == t.Category {
			continue
		}
		changes[t.ID] = rule.Category

		e.logger.WithFields(
			logging.Field{Key: "pass", Value: pass},
			logging.Field{Key: "transaction_id", Value: t.ID},
			logging.Field{Key: "keyword", Value: rule.Keyword},
			logging.Field{Key: "category", Value: rule.Category},
		).Debug("Transaction matched rule")
	}
	return changes
}

// match returns the winning rule for a description. Rules must already be
// in priority order; the first containment hit wins.
func match(rules []models.Rule, description string) (models.Rule, bool) {
	desc := strings.ToLower(description)
	for _, r := range rules {
		if strings.Contains(desc, strings.ToLower(r.Keyword)) {
			return r, true
		}
	}
	return models.Rule{}, false
}

// sortRules orders a tier's rules by priority: the longest keyword first,
// then the lowest id. This makes the multi-match tie-break deterministic
// instead of depending on storage enumeration order.
func sortRules(rules []models.Rule) []models.Rule {
	sorted := append([]models.Rule{}, rules...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if len(sorted[i].Keyword) != len(sorted[j].Keyword) {
			return len(sorted[i].Keyword) > len(sorted[j].Keyword)
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}
