package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/crm-migrate/internal/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Write the stored report of a completed run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "export")
		}
		if run.Result == nil || run.Result.Report == nil {
			return eris.Errorf("run %s has no stored report", run.ID)
		}

		dir := exportOut
		if dir == "" {
			dir = cfg.Export.Dir
		}
		path := filepath.Join(dir, export.FileReport)
		if err := export.WriteReport(run.Result.Report, path); err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "Report for run %s written to %s\n", run.ID, path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output directory (default from config)")
	rootCmd.AddCommand(exportCmd)
}
