package domain

import "context"

type DestinationRepository interface {
	// Read paths. Views follow the repository's ViewMode.
	ListDestinations(ctx context.Context) ([]Destination, error)
	GetDestination(ctx context.Context, id int64) (Destination, error)
	DestinationExists(ctx context.Context, id int64) (bool, error)
	CurrentViews(ctx context.Context, id int64) (int64, error)

	// Write paths
	AppendView(ctx context.Context, id int64) error
	UpsertDestination(ctx context.Context, d Destination) error
}

type TripRepository interface {
	ListSaved(ctx context.Context, userID string) ([]SavedDestination, error)
	AddSaved(ctx context.Context, destinationID int64, userID string) (SavedTrip, error)
	RemoveSaved(ctx context.Context, destinationID int64, userID string) error

	ListPlanned(ctx context.Context, userID string) ([]PlannedTrip, error)
	GetPlanned(ctx context.Context, id int64, userID string) (PlannedTrip, error)
	AddPlanned(ctx context.Context, p PlannedTrip) (PlannedTrip, error)
	UpdatePlanned(ctx context.Context, p PlannedTrip) (PlannedTrip, error)
	RemovePlanned(ctx context.Context, id int64, userID string) error
}

// HealthChecker reports live storage connectivity.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// CatalogSource serves raw destination payloads for seeding.
type CatalogSource interface {
	ListDestinations(ctx context.Context) ([]map[string]any, error)
	GetDestination(ctx context.Context, id int64) (map[string]any, error)
}
