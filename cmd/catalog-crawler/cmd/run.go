package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/raushankrgupta/catalog-crawler/notify"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run [site...]",
	Short: "Crawls the sites and validates their output in one go.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSinks(ctx)
		if err != nil {
			return err
		}
		defer s.close(context.WithoutCancel(ctx))

		crawled, files, crawlErr := crawlSites(ctx, s, args)
		validated, validateErr := validateFiles(context.WithoutCancel(ctx), s, files)

		rows := mergeSummaries(crawled, validated)
		notify.PrintSummary(os.Stdout, rows)
		s.report("run", rows)
		return errors.Join(crawlErr, validateErr)
	},
}

// mergeSummaries folds validation counts into the crawl row of the same site.
func mergeSummaries(crawled, validated []notify.SiteSummary) []notify.SiteSummary {
	bySite := make(map[string]notify.SiteSummary, len(validated))
	for _, v := range validated {
		bySite[v.Site] = v
	}
	rows := make([]notify.SiteSummary, 0, len(crawled))
	for _, c := range crawled {
		if v, ok := bySite[c.Site]; ok {
			c.Valid, c.Invalid = v.Valid, v.Invalid
			c.Err = errors.Join(c.Err, v.Err)
		}
		rows = append(rows, c)
	}
	return rows
}
