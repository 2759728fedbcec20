// Package export persists crawled and validated records.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/raushankrgupta/catalog-crawler/models"
)

// Writer persists records to a destination. For file writers the destination
// is a path; for MongoWriter it is a collection name.
type Writer interface {
	Write(ctx context.Context, recs []models.ProductRecord, destination string) error
}

// JSONWriter writes records as one indented JSON array per file.
type JSONWriter struct{}

func (JSONWriter) Write(ctx context.Context, recs []models.ProductRecord, destination string) error {
	if recs == nil {
		recs = []models.ProductRecord{}
	}
	f, err := create(destination)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(recs); err != nil {
		return fmt.Errorf("encode %s: %w", destination, err)
	}
	return f.Close()
}

// ReadJSON loads the records of a file written by JSONWriter. Elements are
// decoded one by one; an element that does not fit the record shape is kept
// with DecodeErr set instead of failing the file.
func ReadJSON(path string) ([]models.ProductRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	recs := make([]models.ProductRecord, 0, len(items))
	for i, item := range items {
		var rec models.ProductRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			slog.Warn("undecodable record", "file", path, "index", i, "error", err)
			rec = models.UndecodableRecord(item, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func create(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}
