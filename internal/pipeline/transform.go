package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/listing-enrichment-etl/internal/domain"
)

// ListingTransformer implements Transformer using the domain cleaning stages.
type ListingTransformer struct {
	logger *slog.Logger
}

// NewTransformer creates a ListingTransformer.
func NewTransformer(logger *slog.Logger) *ListingTransformer {
	return &ListingTransformer{logger: logger}
}

func (t *ListingTransformer) Transform(ctx context.Context, ds domain.Dataset) (domain.Result, error) {
	if err := ctx.Err(); err != nil {
		return domain.Result{}, err
	}

	res := domain.Transform(ds.Listings, ds.Climate)

	s := res.Stats
	for _, reason := range domain.DropReasons {
		if n := s.Dropped[reason]; n > 0 {
			t.logger.Debug("listings dropped", "reason", reason, "rows", n)
		}
	}
	t.logger.Info("transform complete",
		"listings_in", s.ListingsIn,
		"climate_in", s.ClimateIn,
		"dropped", s.DroppedTotal(),
		"duplicates", s.Duplicates,
		"matched", s.Matched,
		"records", s.Output,
	)
	return res, nil
}
