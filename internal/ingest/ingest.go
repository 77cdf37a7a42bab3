// Package ingest imports bank-statement CSV files into the store.
//
// The contract: a header row is required; the columns date, description and
// amount must be present after headers are trimmed and lowercased, or the
// ingest fails with a ValidationError naming every missing column. Amounts
// follow the amountutils convention. Rows are never deduplicated.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/jeroen-stam/Budgetting-app/internal/amountutils"
	"github.com/jeroen-stam/Budgetting-app/internal/logging"
	"github.com/jeroen-stam/Budgetting-app/internal/models"
)

var requiredColumns = []string{"date", "description", "amount"}

// csvRow maps the required statement columns. Extra columns in the input
// are ignored. Amount stays a string until amountutils parses it.
type csvRow struct {
	Date        string `csv:"date"`
	Description string `csv:"description"`
	Amount      string `csv:"amount"`
}

// TransactionWriter is the store surface the ingestor needs.
type TransactionWriter interface {
	InsertTransactions(profileID int64, txns []models.Transaction) (int, error)
}

// Ingestor reads statement CSVs and bulk-inserts their rows.
type Ingestor struct {
	store     TransactionWriter
	logger    logging.Logger
	delimiter rune
}

// New creates an Ingestor. A nil logger gets a default one; a zero
// delimiter means comma.
func New(store TransactionWriter, logger logging.Logger, delimiter rune) *Ingestor {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if delimiter == 0 {
		delimiter = ','
	}
	return &Ingestor{store: store, logger: logger, delimiter: delimiter}
}

// Ingest imports one CSV file into the given profile and returns the number
// of rows inserted. Rows are tagged with the sentinel category; a rerun on
// the same file duplicates its rows.
func (i *Ingestor) Ingest(csvPath string, profileID int64) (int, error) {
	data, err := os.ReadFile(csvPath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, &NotFoundError{Path: csvPath, Err: err}
		}
		return 0, fmt.Errorf("read CSV file: %w", err)
	}

	i.logger.WithField("file", csvPath).Info("Reading statement CSV")

	if err := i.validateHeader(csvPath, data); err != nil {
		return 0, err
	}

	rows, err := i.readRows(csvPath, data)
	if err != nil {
		return 0, err
	}

	txns := make([]models.Transaction, 0, len(rows))
	for idx, row := range rows {
		// Skip blank padding rows, a common artifact of bank exports.
		if strings.TrimSpace(row.Date) == "" {
			continue
		}

		amount, err := amountutils.ParseFloat(row.Amount)
		if err != nil {
			return 0, &ValidationError{
				Path: csvPath,
				// Row numbers are 1-based and include the header row.
				Reason: fmt.Sprintf("row %d: bad amount %q: %v", idx+2, row.Amount, err),
			}
		}

		txns = append(txns, models.Transaction{
			Date:        strings.TrimSpace(row.Date),
			Description: strings.TrimSpace(row.Description),
			Amount:      amount,
			Category:    models.CategoryUncategorized,
		})
	}

	n, err := i.store.InsertTransactions(profileID, txns)
	if err != nil {
		return 0, fmt.Errorf("save transactions: %w", err)
	}

	i.logger.WithFields(
		logging.Field{Key: "file", Value: csvPath},
		logging.Field{Key: "profile_id", Value: profileID},
		logging.Field{Key: "count", Value: n},
	).Info("Imported statement rows")
	return n, nil
}

// validateHeader checks the required columns before gocsv gets the data:
// gocsv silently zero-fills struct fields whose column is absent, and the
// contract requires an error naming each missing column.
func (i *Ingestor) validateHeader(path string, data []byte) error {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = i.delimiter
	header, err := r.Read()
	if err != nil {
		return &ValidationError{Path: path, Reason: fmt.Sprintf("cannot read header row: %v", err)}
	}

	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[normalizeHeader(h)] = true
	}

	missing := []string{}
	for _, col := range requiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &ValidationError{Path: path, Missing: missing}
	}
	return nil
}

func (i *Ingestor) readRows(path string, data []byte) ([]*csvRow, error) {
	// gocsv configuration is package-global; set it up for this read and
	// restore the defaults afterwards for other callers.
	gocsv.SetHeaderNormalizer(normalizeHeader)
	delim := i.delimiter
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.Comma = delim
		return r
	})
	defer func() {
		gocsv.SetHeaderNormalizer(gocsv.DefaultNameNormalizer())
		gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
			return csv.NewReader(in)
		})
	}()

	var rows []*csvRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, &ValidationError{Path: path, Reason: fmt.Sprintf("cannot parse CSV: %v", err)}
	}

	i.logger.WithField("count", len(rows)).Debug("Read CSV rows")
	return rows, nil
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}
