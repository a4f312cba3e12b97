package app

import (
	"context"
	"strings"

	"travel_planner/internal/domain"
)

// PlannedTripInput is the client-supplied shape of a planned trip. Dates are
// raw strings and may carry a time of day, which is dropped.
type PlannedTripInput struct {
	Title         string
	DepartureDate string
	ReturnDate    string
	Status        string
	Destinations  []string
}

type TripService struct {
	repo domain.TripRepository
}

func NewTripService(r domain.TripRepository) *TripService {
	return &TripService{repo: r}
}

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return domain.ValidationError{Field: "userId", Msg: "is required"}
	}
	return nil
}

// ---- saved destinations ----

func (s *TripService) ListSaved(ctx context.Context, userID string) ([]domain.SavedDestination, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.repo.ListSaved(ctx, userID)
}

// AddSaved bookmarks a destination; a second save of the same pair is a ConflictError.
func (s *TripService) AddSaved(ctx context.Context, destinationID int64, userID string) (domain.SavedTrip, error) {
	if err := requireUser(userID); err != nil {
		return domain.SavedTrip{}, err
	}
	if destinationID <= 0 {
		return domain.SavedTrip{}, domain.ValidationError{Field: "destinationId", Msg: "must be a positive integer"}
	}
	return s.repo.AddSaved(ctx, destinationID, userID)
}

func (s *TripService) RemoveSaved(ctx context.Context, destinationID int64, userID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	return s.repo.RemoveSaved(ctx, destinationID, userID)
}

// ---- planned trips ----

func (s *TripService) ListPlanned(ctx context.Context, userID string) ([]domain.PlannedTrip, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.repo.ListPlanned(ctx, userID)
}

func (s *TripService) GetPlanned(ctx context.Context, id int64, userID string) (domain.PlannedTrip, error) {
	if err := requireUser(userID); err != nil {
		return domain.PlannedTrip{}, err
	}
	return s.repo.GetPlanned(ctx, id, userID)
}

// AddPlanned stores a new trip. Status defaults to Planning. The return date
// is optional, and a return before departure is accepted.
func (s *TripService) AddPlanned(ctx context.Context, userID string, in PlannedTripInput) (domain.PlannedTrip, error) {
	p, err := buildPlanned(userID, in)
	if err != nil {
		return domain.PlannedTrip{}, err
	}
	return s.repo.AddPlanned(ctx, p)
}

// UpdatePlanned replaces every field of an existing trip; there are no partial updates.
func (s *TripService) UpdatePlanned(ctx context.Context, id int64, userID string, in PlannedTripInput) (domain.PlannedTrip, error) {
	p, err := buildPlanned(userID, in)
	if err != nil {
		return domain.PlannedTrip{}, err
	}
	p.ID = id
	return s.repo.UpdatePlanned(ctx, p)
}

func (s *TripService) RemovePlanned(ctx context.Context, id int64, userID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	return s.repo.RemovePlanned(ctx, id, userID)
}

func buildPlanned(userID string, in PlannedTripInput) (domain.PlannedTrip, error) {
	if err := requireUser(userID); err != nil {
		return domain.PlannedTrip{}, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.PlannedTrip{}, domain.ValidationError{Field: "title", Msg: "is required"}
	}
	dep, err := domain.ParseDate(in.DepartureDate)
	if err != nil {
		return domain.PlannedTrip{}, domain.ValidationError{Field: "departureDate", Msg: err.Error()}
	}
	var ret domain.Date
	if strings.TrimSpace(in.ReturnDate) != "" {
		if ret, err = domain.ParseDate(in.ReturnDate); err != nil {
			return domain.PlannedTrip{}, domain.ValidationError{Field: "returnDate", Msg: err.Error()}
		}
	}
	status, err := domain.ParseTripStatus(in.Status)
	if err != nil {
		return domain.PlannedTrip{}, err
	}
	dests := make([]string, 0, len(in.Destinations))
	for _, d := range in.Destinations {
		if t := strings.TrimSpace(d); t != "" {
			dests = append(dests, t)
		}
	}
	return domain.PlannedTrip{
		Title:         title,
		DepartureDate: dep,
		ReturnDate:    ret,
		Status:        status,
		Destinations:  dests,
		UserID:        userID,
	}, nil
}
