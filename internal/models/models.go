// Package models defines the domain types shared across the application.
package models

import "encoding/json"

const (
	// CategoryUncategorized is the sentinel category every transaction
	// carries until a rule or a manual edit categorizes it.
	CategoryUncategorized = "Uncategorized"

	// DefaultProfileID is the profile commands operate on unless told
	// otherwise. The store guarantees this profile always exists.
	DefaultProfileID int64 = 1
)

// Profile is an isolated namespace of transactions and user rules.
type Profile struct {
	ID   int64
	Name string
}

// Transaction is one bank-statement line. Date keeps the source format
// verbatim; only Category is ever mutated after insert.
type Transaction struct {
	ID          int64
	ProfileID   int64
	Date        string
	Description string
	Amount      float64
	Category    string
}

// MarshalJSON emits the fixed-order tuple the API and the inbox page share:
// [id, profile_id, date, description, amount, category].
func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{
		t.ID, t.ProfileID, t.Date, t.Description, t.Amount, t.Category,
	})
}

// Rule maps a keyword to a category. ProfileID is nil for global-tier
// (default) rules, which are visible to every profile. Keywords match as
// case-insensitive substrings of transaction descriptions.
type Rule struct {
	ID        int64
	ProfileID *int64
	Keyword   string
	Category  string
}

// IsGlobal reports whether the rule belongs to the global tier.
func (r Rule) IsGlobal() bool {
	return r.ProfileID == nil
}
