package export

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/crm-migrate/internal/hubspot"
	"github.com/sells-group/crm-migrate/internal/model"
)

// WriteReport writes the run's transformation report as indented JSON.
func WriteReport(report *model.Report, path string) error {
	return writeJSON(path, report)
}

// WriteSummary writes the import-readiness summary as indented JSON.
func WriteSummary(summary hubspot.Summary, path string) error {
	return writeJSON(path, summary)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "export: create output dir for %s", path)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrapf(err, "export: marshal %s", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "export: write %s", path)
	}

	zap.L().Info("export: json written", zap.String("path", path))
	return nil
}
