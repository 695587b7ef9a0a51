package services

import (
	"context"
	"fmt"

	"github.com/fanbase/fanbase/internal/domain/entities"
	"github.com/fanbase/fanbase/internal/domain/errs"
	"github.com/fanbase/fanbase/internal/domain/ports"
)

// SeriesService reads the series catalog. Series are seeded out of band.
type SeriesService struct {
	store ports.Store
}

// NewSeriesService creates a new SeriesService.
func NewSeriesService(store ports.Store) *SeriesService {
	return &SeriesService{store: store}
}

// List returns all series ordered by name.
func (s *SeriesService) List(ctx context.Context) ([]*entities.Series, error) {
	return s.store.ListSeries(ctx)
}

// Get finds a series by ID.
func (s *SeriesService) Get(ctx context.Context, seriesID string) (*entities.Series, error) {
	series, err := s.store.FindSeriesByID(ctx, seriesID)
	if err != nil {
		return nil, fmt.Errorf("finding series: %w", err)
	}
	if series == nil {
		return nil, errs.NotFound("series", seriesID)
	}
	return series, nil
}
