package app

import (
	"context"

	"travel_planner/internal/domain"
)

// DestinationService serves destinations with their monthly views and records
// view events. It holds no state; every call goes to the repository.
type DestinationService struct {
	repo domain.DestinationRepository
}

func NewDestinationService(r domain.DestinationRepository) *DestinationService {
	return &DestinationService{repo: r}
}

// List returns every destination, most viewed first, ties broken by rating.
func (s *DestinationService) List(ctx context.Context) ([]domain.Destination, error) {
	return s.repo.ListDestinations(ctx)
}

func (s *DestinationService) Get(ctx context.Context, id int64) (domain.Destination, error) {
	return s.repo.GetDestination(ctx, id)
}

// RecordView appends one view and returns the new monthly total. Repeated
// calls are not deduplicated.
func (s *DestinationService) RecordView(ctx context.Context, id int64) (int64, error) {
	ok, err := s.repo.DestinationExists(ctx, id)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, domain.NotFoundError{Resource: "Destination"}
	}
	if err := s.repo.AppendView(ctx, id); err != nil {
		return 0, err
	}
	return s.repo.CurrentViews(ctx, id)
}
