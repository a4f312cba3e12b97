package domain

import "time"

type TripStatus string

const (
	StatusPlanning  TripStatus = "Planning"
	StatusConfirmed TripStatus = "Confirmed"
	StatusCancelled TripStatus = "Cancelled"
)

// ParseTripStatus accepts the three statuses; empty means Planning.
func ParseTripStatus(s string) (TripStatus, error) {
	switch TripStatus(s) {
	case "":
		return StatusPlanning, nil
	case StatusPlanning, StatusConfirmed, StatusCancelled:
		return TripStatus(s), nil
	}
	return "", ValidationError{Field: "status", Msg: "must be one of Planning, Confirmed, Cancelled"}
}

// SavedTrip is a user's bookmark of a destination.
type SavedTrip struct {
	ID            int64     `json:"id"`
	DestinationID int64     `json:"destination_id"`
	UserID        string    `json:"user_id"`
	DateAdded     time.Time `json:"date_added"`
}

// SavedDestination is a SavedTrip joined with its destination.
type SavedDestination struct {
	TripID    int64     `json:"trip_id"`
	DateAdded time.Time `json:"date_added"`
	Destination
}

type PlannedTrip struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	DepartureDate Date       `json:"departure_date"`
	ReturnDate    Date       `json:"return_date"`
	Status        TripStatus `json:"status"`
	Destinations  []string   `json:"destinations"`
	UserID        string     `json:"user_id"`
}

// Days is the inclusive length of the trip, 0 when dates are missing or reversed.
func (p PlannedTrip) Days() int {
	if p.DepartureDate.IsZero() || p.ReturnDate.IsZero() || p.ReturnDate.Before(p.DepartureDate.Time) {
		return 0
	}
	return int(p.ReturnDate.Sub(p.DepartureDate.Time).Hours()/24) + 1
}
