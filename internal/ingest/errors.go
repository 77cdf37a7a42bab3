package ingest

import (
	"fmt"
	"strings"
)

// ValidationError reports a CSV that does not satisfy the ingest contract,
// either because required columns are missing or because a row could not be
// converted. Validation failures never insert any rows.
type ValidationError struct {
	Path    string
	Missing []string // missing required columns, when applicable
	Reason  string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("invalid CSV %s: missing required columns: %s",
			e.Path, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("invalid CSV %s: %s", e.Path, e.Reason)
}

// NotFoundError reports a CSV path that does not resolve to a file.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("CSV not found: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}
