package source

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/listing-enrichment-etl/internal/domain"
	"golang.org/x/sync/errgroup"
)

// FileExtractor reads the listings and climate tables from disk.
// It implements pipeline.Extractor.
type FileExtractor struct {
	listingsPath string
	climatePath  string
	logger       *slog.Logger
}

// NewFileExtractor creates an extractor for the two source files.
func NewFileExtractor(listingsPath, climatePath string, logger *slog.Logger) *FileExtractor {
	return &FileExtractor{
		listingsPath: listingsPath,
		climatePath:  climatePath,
		logger:       logger,
	}
}

// Extract reads both tables concurrently. Either failure aborts the run.
func (e *FileExtractor) Extract(ctx context.Context) (domain.Dataset, error) {
	var ds domain.Dataset
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t, err := readIfLive(ctx, e.listingsPath)
		if err != nil {
			return fmt.Errorf("listings: %w", err)
		}
		ds.Listings, err = Listings(t)
		if err != nil {
			return fmt.Errorf("listings: %w", err)
		}
		e.logger.Info("source loaded", "table", "listings", "path", e.listingsPath, "rows", len(ds.Listings))
		return nil
	})

	g.Go(func() error {
		t, err := readIfLive(ctx, e.climatePath)
		if err != nil {
			return fmt.Errorf("climate: %w", err)
		}
		ds.Climate, err = ClimateRows(t)
		if err != nil {
			return fmt.Errorf("climate: %w", err)
		}
		e.logger.Info("source loaded", "table", "climate", "path", e.climatePath, "rows", len(ds.Climate))
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.Dataset{}, err
	}
	return ds, nil
}

func readIfLive(ctx context.Context, path string) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ReadTable(path)
}
