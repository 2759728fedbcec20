package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/raushankrgupta/catalog-crawler/models"
	"github.com/raushankrgupta/catalog-crawler/utils"
)

// Header returns the canonical fields followed by every extra key seen in
// recs, in order of first appearance.
func Header(recs []models.ProductRecord) []string {
	cols := utils.NewOrderedSet[string]()
	cols.AddAll(models.CanonicalFields...)
	for i := range recs {
		cols.AddAll(recs[i].ExtraKeys()...)
	}
	return cols.Items()
}

// CSVWriter writes one row per record. Strings are written as-is, lists and
// objects as JSON, and absent values as empty cells.
type CSVWriter struct {
	// Columns fixes the header. When nil the header is computed from the
	// records being written.
	Columns []string
}

func (w CSVWriter) Write(ctx context.Context, recs []models.ProductRecord, destination string) error {
	columns := w.Columns
	if columns == nil {
		columns = Header(recs)
	}

	f, err := create(destination)
	if err != nil {
		return err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write %s: %w", destination, err)
	}
	row := make([]string, len(columns))
	for i := range recs {
		fields := recs[i].Fields()
		for c, col := range columns {
			cell, err := cellValue(fields[col])
			if err != nil {
				return fmt.Errorf("write %s: %s of %s: %w", destination, col, recs[i].ProductID, err)
			}
			row[c] = cell
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write %s: %w", destination, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write %s: %w", destination, err)
	}
	return f.Close()
}

func cellValue(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case *string:
		return utils.Deref(v), nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	out := bytes.TrimRight(buf.Bytes(), "\n")
	if string(out) == "null" {
		return "", nil
	}
	return string(out), nil
}
