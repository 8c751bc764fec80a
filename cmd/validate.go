package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/crm-migrate/internal/dataset"
	"github.com/sells-group/crm-migrate/internal/model"
	"github.com/sells-group/crm-migrate/internal/pipeline"
)

var validateSource string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate extract data quality without running a migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := pipeline.ValidateRules(); err != nil {
			return err
		}

		if validateSource != "" {
			cfg.Input.Source = validateSource
		}

		ex, err := dataset.Load(ctx, loaderOptions(cfg))
		if err != nil {
			return eris.Wrap(err, "load extracts")
		}

		normalized := pipeline.NewNormalizer().Normalize(ex)

		failed := formatValidation(os.Stdout, normalized.Validation)
		if failed > 0 {
			return eris.Errorf("validation found errors in %d entities", failed)
		}
		return nil
	},
}

// formatValidation writes per-entity quality results and returns the number
// of entities with hard errors.
func formatValidation(out io.Writer, results map[string]model.ValidationResult) int {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ENTITY\tRECORDS\tQUALITY\tERRORS\tWARNINGS")
	_, _ = fmt.Fprintln(w, "------\t-------\t-------\t------\t--------")

	failed := 0
	for _, entity := range dataset.Entities {
		v, ok := results[entity]
		if !ok {
			continue
		}
		if len(v.Errors) > 0 {
			failed++
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%.2f\t%d\t%d\n",
			entity, v.TotalRecords, v.QualityScore, len(v.Errors), len(v.Warnings))
	}
	_ = w.Flush()

	for _, entity := range dataset.Entities {
		v := results[entity]
		for _, e := range v.Errors {
			_, _ = fmt.Fprintf(out, "ERROR [%s]: %s\n", entity, e)
		}
		for _, warn := range v.Warnings {
			_, _ = fmt.Fprintf(out, "WARN  [%s]: %s\n", entity, warn)
		}
	}
	return failed
}

func init() {
	validateCmd.Flags().StringVar(&validateSource, "source", "", "extract source directory or ftp:// URL (default from config)")
	rootCmd.AddCommand(validateCmd)
}
