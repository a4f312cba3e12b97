package domain

// Destination is a travel location. Views is derived: the current month's
// event total, or the static counter column in counter mode.
type Destination struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Image       string            `json:"image"`
	Rating      float64           `json:"rating"` // 0..5
	Tagline     string            `json:"tagline"`
	Attractions []string          `json:"attractions"`
	Cuisine     string            `json:"cuisine"`
	TripInfo    map[string]string `json:"trip_info"`
	Views       int64             `json:"views"`
}

// ViewMode selects how destination views are persisted.
type ViewMode string

const (
	// ViewsEvents appends one row per view to the `views` table and reports
	// the sum over the current calendar month.
	ViewsEvents ViewMode = "events"
	// ViewsCounter increments destinations.views in place.
	ViewsCounter ViewMode = "counter"
)

func (m ViewMode) Valid() bool { return m == ViewsEvents || m == ViewsCounter }
