package export

import (
	"encoding/csv"
	"fmt"
	"path/filepath"

	"github.com/raushankrgupta/catalog-crawler/validation"
)

// ValidationPaths are the files a validation run writes for one input file.
type ValidationPaths struct {
	Valid   string
	Invalid string
	Report  string
}

// ValidationOutputs names the outputs for input base name base under dir.
func ValidationOutputs(dir, base string) ValidationPaths {
	return ValidationPaths{
		Valid:   filepath.Join(dir, base+"_valid_products.csv"),
		Invalid: filepath.Join(dir, base+"_invalid_products.csv"),
		Report:  filepath.Join(dir, base+"_validation_report.csv"),
	}
}

// WriteReport lists every rejected record with the rule that rejected it.
func WriteReport(path string, rejections []validation.Rejection) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	rows := [][]string{{"product_id", "url", "rule", "reason"}}
	for _, r := range rejections {
		rows = append(rows, []string{r.Record.ProductID, r.Record.URL, r.Result.FailedRule, r.Result.Reason})
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
