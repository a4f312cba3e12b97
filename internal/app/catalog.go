package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"travel_planner/internal/domain"
)

// ImportService copies destinations from an external catalog into storage.
// It is the seeding path; the API never writes destination attributes.
type ImportService struct {
	catalog domain.CatalogSource
	repo    domain.DestinationRepository
}

func NewImportService(c domain.CatalogSource, r domain.DestinationRepository) *ImportService {
	return &ImportService{catalog: c, repo: r}
}

// CatalogEntryID reads a positive destination id from a raw catalog entry,
// accepting every id alias and numeric strings.
func CatalogEntryID(e map[string]any) (int64, bool) {
	id := firstInt64Flexible(e, destinationAliases["id"]...)
	if id == nil || *id <= 0 {
		return 0, false
	}
	return *id, true
}

// IndexIDs lists the catalog and returns the distinct destination ids in order.
func (s *ImportService) IndexIDs(ctx context.Context) ([]int64, error) {
	entries, err := s.catalog.ListDestinations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	seen := make(map[int64]struct{}, len(entries))
	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		id, ok := CatalogEntryID(e)
		if !ok {
			log.Warn().Interface("entry", e).Msg("catalog entry without id skipped")
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// ImportDestination fetches one destination and upserts it. A catalog 404 is
// a skip (false, nil), not a failure. View counts are never touched.
func (s *ImportService) ImportDestination(ctx context.Context, id int64) (bool, error) {
	p, err := s.catalog.GetDestination(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Warn().Int64("id", id).Msg("destination missing from catalog")
			return false, nil
		}
		return false, err
	}

	d, err := mapDestination(p)
	if err != nil {
		return false, fmt.Errorf("map destination %d: %w", id, err)
	}
	if d.ID == 0 {
		d.ID = id
	}
	if d.ID != id {
		return false, fmt.Errorf("catalog returned destination %d for id %d", d.ID, id)
	}
	if err := s.repo.UpsertDestination(ctx, d); err != nil {
		return false, err
	}
	return true, nil
}
