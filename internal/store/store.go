// Package store provides SQLite persistence for profiles, transactions and
// keyword rules.
package store

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/jeroen-stam/Budgetting-app/internal/models"
)

var log = logrus.New()

// SetLogger allows setting a configured logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Schema DDL. Creation is idempotent so every entry point can run it
// eagerly. The partial unique index backs idempotent upserts for the global
// rule tier: SQLite treats NULLs as pairwise distinct inside UNIQUE
// constraints, so UNIQUE(profile_id, keyword) alone does not cover rows
// with a NULL profile_id.
const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS transactions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	profile_id  INTEGER NOT NULL REFERENCES profiles(id),
	date        TEXT NOT NULL,
	description TEXT NOT NULL,
	amount      REAL NOT NULL,
	category    TEXT NOT NULL DEFAULT 'Uncategorized'
);

CREATE TABLE IF NOT EXISTS rules (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	profile_id INTEGER REFERENCES profiles(id),
	keyword    TEXT NOT NULL COLLATE NOCASE,
	category   TEXT NOT NULL,
	UNIQUE (profile_id, keyword)
);

CREATE UNIQUE INDEX IF NOT EXISTS ux_rules_global_keyword
	ON rules(keyword) WHERE profile_id IS NULL;

CREATE INDEX IF NOT EXISTS idx_transactions_profile ON transactions(profile_id);
CREATE INDEX IF NOT EXISTS idx_rules_profile ON rules(profile_id);
`

// Store wraps the SQLite database handle. Every mutating method commits
// before returning; no multi-call atomicity is offered.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path, ensures the schema
// exists and ensures the default profile (id 1) is present.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	if _, err := db.Exec(
		"INSERT OR IGNORE INTO profiles (id, name) VALUES (?, 'default')",
		models.DefaultProfileID,
	); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure default profile: %w", err)
	}

	log.WithField("path", path).Debug("Opened budget database")
	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// ---------------------------------------------------------------------------
// Profiles
// ---------------------------------------------------------------------------

// CreateProfile inserts a new profile and returns its id.
func (s *Store) CreateProfile(name string) (int64, error) {
	res, err := s.db.Exec("INSERT INTO profiles (name) VALUES (?)", name)
	if err != nil {
		return 0, fmt.Errorf("insert profile %q: %w", name, err)
	}
	return res.LastInsertId()
}

// Profiles returns all profiles ordered by id.
func (s *Store) Profiles() ([]models.Profile, error) {
	rows, err := s.db.Query("SELECT id, name FROM profiles ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	out := []models.Profile{}
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ---------------------------------------------------------------------------
// Transactions
// ---------------------------------------------------------------------------

// InsertTransactions bulk-inserts statement rows for a profile with the
// sentinel category. The whole batch is one database transaction.
func (s *Store) InsertTransactions(profileID int64, txns []models.Transaction) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin insert: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO transactions (profile_id, date, description, amount, category)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range txns {
		if _, err := stmt.Exec(
			profileID, t.Date, t.Description, t.Amount, models.CategoryUncategorized,
		); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert transaction %q: %w", t.Description, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert: %w", err)
	}

	log.WithFields(logrus.Fields{
		"profile_id": profileID,
		"count":      len(txns),
	}).Info("Inserted transactions")
	return len(txns), nil
}

// Transactions returns transactions for a profile, newest id first.
// A limit <= 0 returns all rows.
func (s *Store) Transactions(profileID int64, limit int) ([]models.Transaction, error) {
	return s.queryTransactions(
		"WHERE profile_id = ?", limit, profileID,
	)
}

// Uncategorized returns only sentinel-category transactions for a profile,
// newest id first. A limit <= 0 returns all rows.
func (s *Store) Uncategorized(profileID int64, limit int) ([]models.Transaction, error) {
	return s.queryTransactions(
		"WHERE profile_id = ? AND category = ?", limit,
		profileID, models.CategoryUncategorized,
	)
}

func (s *Store) queryTransactions(where string, limit int, args ...interface{}) ([]models.Transaction, error) {
	query := `
		SELECT id, profile_id, date, description, amount, category
		FROM transactions ` + where + `
		ORDER BY id DESC`
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	out := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.ProfileID, &t.Date, &t.Description, &t.Amount, &t.Category); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SetTransactionCategory unconditionally overwrites one transaction's
// category.
func (s *Store) SetTransactionCategory(id int64, category string) error {
	if _, err := s.db.Exec(
		"UPDATE transactions SET category = ? WHERE id = ?", category, id,
	); err != nil {
		return fmt.Errorf("set category on transaction %d: %w", id, err)
	}
	return nil
}

// UpdateTransactionCategories applies a batch of category changes inside one
// database transaction. The rule engine uses this to commit each pass as a
// whole before the next pass starts.
func (s *Store) UpdateTransactionCategories(changes map[int64]string) error {
	if len(changes) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin category update: %w", err)
	}

	stmt, err := tx.Prepare("UPDATE transactions SET category = ? WHERE id = ?")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare category update: %w", err)
	}
	defer stmt.Close()

	// Deterministic statement order keeps concurrent batches from
	// deadlocking on row order.
	ids := make([]int64, 0, len(changes))
	for id := range changes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		if _, err := stmt.Exec(changes[id], id); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("update transaction %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit category update: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Rules
// ---------------------------------------------------------------------------

// AddGlobalRule upserts a default-tier rule visible to every profile. It is
// a single constraint-backed statement, so it is a no-op when a global rule
// with the same keyword already exists.
func (s *Store) AddGlobalRule(keyword, category string) error {
	if _, err := s.db.Exec(
		"INSERT OR IGNORE INTO rules (profile_id, keyword, category) VALUES (NULL, ?, ?)",
		keyword, category,
	); err != nil {
		return fmt.Errorf("add global rule %q: %w", keyword, err)
	}
	return nil
}

// AddUserRule upserts a profile-tier rule. No-op when the (profile, keyword)
// pair already exists; the existing rule's category is left unchanged.
func (s *Store) AddUserRule(profileID int64, keyword, category string) error {
	if _, err := s.db.Exec(
		"INSERT OR IGNORE INTO rules (profile_id, keyword, category) VALUES (?, ?, ?)",
		profileID, keyword, category,
	); err != nil {
		return fmt.Errorf("add user rule %q: %w", keyword, err)
	}
	return nil
}

// GlobalRules returns all default-tier rules ordered by id.
func (s *Store) GlobalRules() ([]models.Rule, error) {
	return s.queryRules("WHERE profile_id IS NULL")
}

// UserRules returns one profile's rules ordered by id.
func (s *Store) UserRules(profileID int64) ([]models.Rule, error) {
	return s.queryRules("WHERE profile_id = ?", profileID)
}

func (s *Store) queryRules(where string, args ...interface{}) ([]models.Rule, error) {
	rows, err := s.db.Query(`
		SELECT id, profile_id, keyword, category
		FROM rules `+where+`
		ORDER BY id ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("query rules: %w", err)
	}
	defer rows.Close()

	out := []models.Rule{}
	for rows.Next() {
		var r models.Rule
		var profileID sql.NullInt64
		if err := rows.Scan(&r.ID, &profileID, &r.Keyword, &r.Category); err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		if profileID.Valid {
			id := profileID.Int64
			r.ProfileID = &id
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Categories returns the distinct categories of the global tier plus the
// profile's user tier, sorted ascending. The sentinel category is always
// present exactly once and is prepended when no rule produces it.
func (s *Store) Categories(profileID int64) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT category
		FROM rules
		WHERE profile_id IS NULL OR profile_id = ?
		ORDER BY category ASC
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	cats := []string{}
	hasSentinel := false
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if c == models.CategoryUncategorized {
			hasSentinel = true
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !hasSentinel {
		cats = append([]string{models.CategoryUncategorized}, cats...)
	}
	return cats, nil
}
