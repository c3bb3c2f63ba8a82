package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"timeledger/internal/errors"
)

// Format is a supported export encoding
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// DefaultPrefix is the file name prefix of exported reports
const DefaultPrefix = "time-tracker-report"

// Row is one line of tabular output. Columns must be the same for every row of an export.
type Row interface {
	Columns() []string
	Values() []string
}

// ParseFormat resolves a format name, case-insensitively
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", errors.NewInvalidInputError("format", s, "unsupported export format")
	}
}

// ContentType returns the HTTP content type of the format
func ContentType(f Format) string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/csv"
}

// Filename builds "<prefix>-YYYY-MM-DD.<ext>"
func Filename(prefix string, f Format, now time.Time) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return fmt.Sprintf("%s-%s.%s", prefix, now.Format("2006-01-02"), f)
}

// WriteCSV writes rows with a header taken from the first row
func WriteCSV(w io.Writer, rows []Row) error {
	if len(rows) == 0 {
		return errors.NewValidationError("No data provided", nil)
	}

	writer := csv.NewWriter(w)

	if err := writer.Write(rows[0].Columns()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row.Values()); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteJSON writes v as two-space indented JSON
func WriteJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// Write encodes rows in the given format. JSON output is the rows themselves
// and may be an empty array.
func Write(w io.Writer, f Format, rows []Row) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatJSON:
		if rows == nil {
			rows = []Row{}
		}
		return WriteJSON(w, rows)
	default:
		return errors.NewInvalidInputError("format", string(f), "unsupported export format")
	}
}
