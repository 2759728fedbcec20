package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/raushankrgupta/catalog-crawler/config"
	"github.com/raushankrgupta/catalog-crawler/export"
	"github.com/raushankrgupta/catalog-crawler/models"
	"github.com/raushankrgupta/catalog-crawler/notify"
	"github.com/raushankrgupta/catalog-crawler/scrapers/base"
	"github.com/raushankrgupta/catalog-crawler/validation"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	cfg = &config.Config{OutputDir: dir, ValidationDir: filepath.Join(dir, "validation")}

	recs := []models.ProductRecord{
		{ProductID: "a", Title: ptr("A"), Description: ptr("ok"), SalePrices: []string{"$1"}, Prices: []string{"$2"}, URL: "https://x.test/a"},
		{ProductID: "b", Title: ptr("B"), Description: ptr("  "), URL: "https://x.test/b", Extra: map[string]any{"note": "x"}},
	}
	input := filepath.Join(dir, "shop.json")
	require.NoError(t, export.JSONWriter{}.Write(context.Background(), recs, input))

	row := validateFile(context.Background(), &sinks{}, validation.NewPipeline(), input)
	require.NoError(t, row.Err)
	require.Equal(t, "shop", row.Site)
	require.Equal(t, 2, row.Records)
	require.Equal(t, 1, row.Valid)
	require.Equal(t, 1, row.Invalid)

	out := export.ValidationOutputs(cfg.ValidationDir, "shop")
	for _, p := range []string{out.Valid, out.Invalid, out.Report} {
		_, err := os.Stat(p)
		require.NoError(t, err, p)
	}
	report, err := os.ReadFile(out.Report)
	require.NoError(t, err)
	require.Contains(t, string(report), "b,https://x.test/b,description_present")

	valid, err := os.ReadFile(out.Valid)
	require.NoError(t, err)
	require.Contains(t, string(valid), ",note\n")
}

func TestValidateFileUnreadable(t *testing.T) {
	cfg = &config.Config{ValidationDir: t.TempDir()}
	row := validateFile(context.Background(), &sinks{}, validation.NewPipeline(), filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, row.Err)
	require.Equal(t, "unreadable", row.State)
}

func TestSelectBindings(t *testing.T) {
	cfg = &config.Config{Sites: []string{"lechocolat"}}

	got, err := selectBindings(nil)
	require.NoError(t, err)
	require.Equal(t, []config.SiteBinding{{Name: "lechocolat"}}, got)

	got, err = selectBindings([]string{"fortune"})
	require.NoError(t, err)
	require.Equal(t, []config.SiteBinding{{Name: "fortune"}}, got)

	e, err := resolveExtractor(config.SiteBinding{RootURL: "https://www.traderjoes.com/home"})
	require.NoError(t, err)
	require.Equal(t, "traderjoes", e.Profile().Name)
}

func TestCrawlOneUnknownSite(t *testing.T) {
	cfg = &config.Config{OutputDir: t.TempDir()}
	row, path := crawlOne(context.Background(), &sinks{}, config.SiteBinding{Name: "nowhere"}, fetcherFactory(nil))
	require.Error(t, row.Err)
	require.Empty(t, path)
	require.Equal(t, "failed", row.State)
}

func TestFetcherFactory(t *testing.T) {
	cfg = &config.Config{Browser: config.BrowserConfig{Engine: "lynx"}}
	open := fetcherFactory(nil)

	f, err := open(context.Background(), base.ModeStatic)
	require.NoError(t, err)
	require.Equal(t, base.ModeStatic, f.Mode())
	require.NoError(t, f.Close())

	_, err = open(context.Background(), base.ModeRendered)
	require.ErrorContains(t, err, `unknown render engine "lynx"`)
}

func TestMergeSummaries(t *testing.T) {
	crawled := []notify.SiteSummary{
		{Site: "fortune", State: "done", Records: 3, Valid: -1, Invalid: -1},
		{Site: "traderjoes", State: "failed", Valid: -1, Invalid: -1, Err: errors.New("root down")},
	}
	validated := []notify.SiteSummary{{Site: "fortune", Valid: 2, Invalid: 1}}

	rows := mergeSummaries(crawled, validated)
	require.Equal(t, 2, rows[0].Valid)
	require.Equal(t, 1, rows[0].Invalid)
	require.Equal(t, -1, rows[1].Valid)
	require.EqualError(t, rows[1].Err, "root down")
}
