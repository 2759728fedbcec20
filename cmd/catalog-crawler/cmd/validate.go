package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/raushankrgupta/catalog-crawler/export"
	"github.com/raushankrgupta/catalog-crawler/models"
	"github.com/raushankrgupta/catalog-crawler/notify"
	"github.com/raushankrgupta/catalog-crawler/validation"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [file.json...]",
	Short: "Validates crawl output files and writes valid/invalid CSV exports.",
	Long: "Validates the given crawl output files, or every *.json file in OUTPUT_DIR. " +
		"Each input gets <name>_valid_products.csv, <name>_invalid_products.csv and " +
		"<name>_validation_report.csv in VALIDATION_DIR.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		files := args
		if len(files) == 0 {
			var err error
			files, err = filepath.Glob(filepath.Join(cfg.OutputDir, "*.json"))
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no crawl output found in %s", cfg.OutputDir)
			}
		}

		s, err := openSinks(ctx)
		if err != nil {
			return err
		}
		defer s.close(context.WithoutCancel(ctx))

		rows, err := validateFiles(ctx, s, files)
		notify.PrintSummary(os.Stdout, rows)
		s.report("validate", rows)
		return err
	},
}

func validateFiles(ctx context.Context, s *sinks, files []string) ([]notify.SiteSummary, error) {
	pipeline := validation.NewPipeline()
	var rows []notify.SiteSummary
	var errs []error
	for _, f := range files {
		row := validateFile(ctx, s, pipeline, f)
		if row.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f, row.Err))
		}
		rows = append(rows, row)
	}
	return rows, errors.Join(errs...)
}

func validateFile(ctx context.Context, s *sinks, pipeline *validation.Pipeline, path string) notify.SiteSummary {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	row := notify.SiteSummary{Site: name, State: "validated", Valid: -1, Invalid: -1}

	recs, err := export.ReadJSON(path)
	if err != nil {
		row.State = "unreadable"
		row.Err = err
		return row
	}
	row.Records = len(recs)

	valid, invalid := pipeline.Partition(recs)
	for _, r := range invalid {
		slog.Info("record rejected", "file", name, "product_id", r.Record.ProductID,
			"rule", r.Result.FailedRule, "reason", r.Result.Reason)
	}
	row.Valid, row.Invalid = len(valid), len(invalid)

	out := export.ValidationOutputs(cfg.ValidationDir, name)
	w := s.files(export.CSVWriter{Columns: export.Header(recs)})
	if err := w.Write(ctx, valid, out.Valid); err != nil {
		row.Err = err
		return row
	}
	if err := w.Write(ctx, rejected(invalid), out.Invalid); err != nil {
		row.Err = err
		return row
	}
	if err := export.WriteReport(out.Report, invalid); err != nil {
		row.Err = err
		return row
	}
	if err := s.upload(ctx, out.Report); err != nil {
		row.Err = err
		return row
	}

	slog.Info("validation written", "file", name, "valid", len(valid), "invalid", len(invalid), "dir", cfg.ValidationDir)
	return row
}

func rejected(rs []validation.Rejection) []models.ProductRecord {
	out := make([]models.ProductRecord, len(rs))
	for i, r := range rs {
		out[i] = r.Record
	}
	return out
}
