package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/crm-migrate/internal/dataset"
	"github.com/sells-group/crm-migrate/internal/export"
	"github.com/sells-group/crm-migrate/internal/hubspot"
	"github.com/sells-group/crm-migrate/internal/pipeline"
)

var (
	runSource   string
	runOut      string
	runNoExport bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a full migration over the configured extracts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if runSource != "" {
			cfg.Input.Source = runSource
		}
		if runOut != "" {
			cfg.Export.Dir = runOut
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		ex, err := dataset.Load(ctx, loaderOptions(cfg))
		if err != nil {
			return eris.Wrap(err, "load extracts")
		}

		p, err := pipeline.New(cfg, st, time.Now())
		if err != nil {
			return err
		}
		result, err := p.Run(ctx, ex)
		if err != nil {
			return err
		}

		if _, err := st.SaveDeals(ctx, result.RunID, result.Deals); err != nil {
			zap.L().Warn("run: save deals failed", zap.Error(err))
		}
		if _, err := st.SaveSites(ctx, result.RunID, result.Sites); err != nil {
			zap.L().Warn("run: save site records failed", zap.Error(err))
		}

		if !runNoExport {
			ref, err := referenceTime(cfg, time.Now())
			if err != nil {
				return err
			}
			tr := hubspot.NewTransformer(ref)
			wb := export.Workbook{
				Deals:       tr.Deals(result.Deals),
				Companies:   tr.Companies(result.Sites),
				Contacts:    tr.Contacts(result.Normalized.Contacts, result.Normalized.Companies),
				Engagements: tr.Engagements(result.Comms),
				SocialLinks: result.Socials,
			}
			if err := export.WriteAll(cfg.Export.Dir, wb, result.Report); err != nil {
				return err
			}
		}

		fmt.Fprintf(os.Stdout, "Run %s complete: %d deals, %d site records, %d communications, %d social links\n",
			result.RunID, len(result.Deals), len(result.Sites), len(result.Comms), len(result.Socials))
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runSource, "source", "", "extract source directory or ftp:// URL (default from config)")
	runCmd.Flags().StringVar(&runOut, "out", "", "output directory (default from config)")
	runCmd.Flags().BoolVar(&runNoExport, "no-export", false, "persist the run without writing output files")
	rootCmd.AddCommand(runCmd)
}
