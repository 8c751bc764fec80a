package dataset

import (
	"context"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/crm-migrate/internal/fetcher"
)

// Entity names the five legacy extracts consumed by the pipeline.
const (
	EntityCompanies      = "companies"
	EntityContacts       = "contacts"
	EntityOpportunities  = "opportunities"
	EntityCommunications = "communications"
	EntitySocialLinks    = "social_links"
)

// Entities lists all extract names in a stable order.
var Entities = []string{
	EntityCompanies,
	EntityContacts,
	EntityOpportunities,
	EntityCommunications,
	EntitySocialLinks,
}

// LoaderOptions configures extract loading.
type LoaderOptions struct {
	// Source is either a local directory or an ftp:// base URL.
	Source string
	// Files maps entity name to file name within Source.
	Files map[string]string
	// FTP credentials, used only for ftp:// sources.
	FTP fetcher.FTPOptions
	CSV fetcher.CSVOptions
}

// Extract is the full set of raw tables for one run.
type Extract struct {
	Tables map[string]*Table
}

// Table returns the named table, or nil when the extract is absent.
func (e *Extract) Table(entity string) *Table {
	if e == nil {
		return nil
	}
	return e.Tables[entity]
}

// Load reads all five extracts concurrently. A missing or unreadable file
// fails the load for that entity only; the entity's table is left nil and
// the caller decides how to degrade.
func Load(ctx context.Context, opts LoaderOptions) (*Extract, error) {
	if opts.Source == "" {
		return nil, eris.New("dataset: empty source")
	}

	ex := &Extract{Tables: make(map[string]*Table, len(Entities))}
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	for _, entity := range Entities {
		file, ok := opts.Files[entity]
		if !ok || file == "" {
			zap.L().Warn("dataset: no file configured for entity", zap.String("entity", entity))
			continue
		}

		g.Go(func() error {
			t, err := loadOne(gCtx, opts, entity, file)
			if err != nil {
				// Per-entity failure is recorded, not fatal: the owning
				// pipeline stage fails and downstream sees an empty dataset.
				zap.L().Warn("dataset: load failed",
					zap.String("entity", entity),
					zap.String("file", file),
					zap.Error(err),
				)
				return nil
			}
			mu.Lock()
			ex.Tables[entity] = t
			mu.Unlock()
			zap.L().Info("dataset: loaded extract",
				zap.String("entity", entity),
				zap.Int("rows", t.Len()),
				zap.Int("columns", len(t.Columns)),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return ex, eris.Wrap(err, "dataset: load extracts")
	}
	return ex, nil
}

func loadOne(ctx context.Context, opts LoaderOptions, entity, file string) (*Table, error) {
	if strings.HasPrefix(opts.Source, "ftp://") {
		return loadFTP(ctx, opts, entity, file)
	}
	return loadLocal(ctx, opts, entity, file)
}

func loadLocal(ctx context.Context, opts LoaderOptions, entity, file string) (*Table, error) {
	full := path.Join(opts.Source, file)

	if strings.HasSuffix(strings.ToLower(file), ".xlsx") {
		header, rows, err := fetcher.ReadXLSX(full, fetcher.XLSXOptions{})
		if err != nil {
			return nil, err
		}
		return New(entity, header, rows), nil
	}

	f, err := os.Open(full)
	if err != nil {
		return nil, eris.Wrapf(err, "open extract %s", full)
	}
	defer f.Close()

	header, rows, err := fetcher.ReadCSV(ctx, f, opts.CSV)
	if err != nil {
		return nil, err
	}
	return New(entity, header, rows), nil
}

func loadFTP(ctx context.Context, opts LoaderOptions, entity, file string) (*Table, error) {
	ftpURL := strings.TrimRight(opts.Source, "/") + "/" + file

	rc, err := fetcher.NewFTPFetcher(opts.FTP).Download(ctx, ftpURL)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	header, rows, err := fetcher.ReadCSV(ctx, rc, opts.CSV)
	if err != nil {
		return nil, err
	}
	return New(entity, header, rows), nil
}
