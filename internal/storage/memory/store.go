// Package memory is an in-process store with the same semantics as the MySQL
// repo. State lives for the life of the process.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"travel_planner/internal/domain"
)

type viewEvent struct {
	destinationID int64
	count         int64
	at            time.Time
}

type savedKey struct {
	destinationID int64
	userID        string
}

type Store struct {
	mu   sync.Mutex
	mode domain.ViewMode
	now  func() time.Time

	destinations map[int64]domain.Destination // Views holds the static counter
	events       []viewEvent
	saved        map[savedKey]domain.SavedTrip
	planned      map[int64]domain.PlannedTrip
	nextSavedID  int64
	nextPlanID   int64
}

func New(mode domain.ViewMode) *Store {
	if !mode.Valid() {
		mode = domain.ViewsEvents
	}
	return &Store{
		mode:         mode,
		now:          time.Now,
		destinations: map[int64]domain.Destination{},
		saved:        map[savedKey]domain.SavedTrip{},
		planned:      map[int64]domain.PlannedTrip{},
	}
}

// WithClock replaces the clock used for view timestamps and the month window.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Mode() domain.ViewMode { return s.mode }

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

// AddViewAt records an event with an explicit timestamp, for backfills.
func (s *Store) AddViewAt(destinationID, count int64, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, viewEvent{destinationID: destinationID, count: count, at: at})
}

func monthWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, 0)
}

// views must be called with s.mu held.
func (s *Store) views(d domain.Destination) int64 {
	if s.mode == domain.ViewsCounter {
		return d.Views
	}
	from, to := monthWindow(s.now())
	var n int64
	for _, e := range s.events {
		if e.destinationID == d.ID && !e.at.Before(from) && e.at.Before(to) {
			n += e.count
		}
	}
	return n
}

func (s *Store) withViews(d domain.Destination) domain.Destination {
	d.Views = s.views(d)
	d.Attractions = append([]string{}, d.Attractions...)
	info := make(map[string]string, len(d.TripInfo))
	for k, v := range d.TripInfo {
		info[k] = v
	}
	d.TripInfo = info
	return d
}

// ---- destinations ----

func (s *Store) ListDestinations(ctx context.Context) ([]domain.Destination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Destination, 0, len(s.destinations))
	for _, d := range s.destinations {
		out = append(out, s.withViews(d))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Views != out[j].Views {
			return out[i].Views > out[j].Views
		}
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetDestination(ctx context.Context, id int64) (domain.Destination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.destinations[id]
	if !ok {
		return domain.Destination{}, domain.NotFoundError{Resource: "Destination"}
	}
	return s.withViews(d), nil
}

func (s *Store) DestinationExists(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.destinations[id]
	return ok, nil
}

func (s *Store) CurrentViews(ctx context.Context, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.destinations[id]
	if !ok {
		return 0, domain.NotFoundError{Resource: "Destination"}
	}
	return s.views(d), nil
}

func (s *Store) AppendView(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.destinations[id]
	if !ok {
		return domain.NotFoundError{Resource: "Destination"}
	}
	if s.mode == domain.ViewsCounter {
		d.Views++
		s.destinations[id] = d
		return nil
	}
	s.events = append(s.events, viewEvent{destinationID: id, count: 1, at: s.now()})
	return nil
}

func (s *Store) UpsertDestination(ctx context.Context, d domain.Destination) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.destinations[d.ID]; ok {
		d.Views = prev.Views
	} else {
		d.Views = 0
	}
	s.destinations[d.ID] = d
	return nil
}

// ---- saved trips ----

func (s *Store) ListSaved(ctx context.Context, userID string) ([]domain.SavedDestination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.SavedDestination{}
	for k, st := range s.saved {
		if k.userID != userID {
			continue
		}
		d, ok := s.destinations[k.destinationID]
		if !ok {
			continue
		}
		out = append(out, domain.SavedDestination{TripID: st.ID, DateAdded: st.DateAdded, Destination: s.withViews(d)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TripID > out[j].TripID })
	return out, nil
}

func (s *Store) AddSaved(ctx context.Context, destinationID int64, userID string) (domain.SavedTrip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.destinations[destinationID]; !ok {
		return domain.SavedTrip{}, domain.NotFoundError{Resource: "Destination"}
	}
	k := savedKey{destinationID: destinationID, userID: userID}
	if _, dup := s.saved[k]; dup {
		return domain.SavedTrip{}, domain.ConflictError{Resource: "saved trip", Msg: "Already saved"}
	}
	s.nextSavedID++
	st := domain.SavedTrip{ID: s.nextSavedID, DestinationID: destinationID, UserID: userID, DateAdded: s.now().UTC()}
	s.saved[k] = st
	return st, nil
}

func (s *Store) RemoveSaved(ctx context.Context, destinationID int64, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := savedKey{destinationID: destinationID, userID: userID}
	if _, ok := s.saved[k]; !ok {
		return domain.NotFoundError{Resource: "Saved trip"}
	}
	delete(s.saved, k)
	return nil
}

// ---- planned trips ----

func clonePlanned(p domain.PlannedTrip) domain.PlannedTrip {
	p.Destinations = append([]string{}, p.Destinations...)
	return p
}

func (s *Store) ListPlanned(ctx context.Context, userID string) ([]domain.PlannedTrip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.PlannedTrip{}
	for _, p := range s.planned {
		if p.UserID == userID {
			out = append(out, clonePlanned(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) GetPlanned(ctx context.Context, id int64, userID string) (domain.PlannedTrip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.planned[id]
	if !ok || p.UserID != userID {
		return domain.PlannedTrip{}, domain.NotFoundError{Resource: "Planned trip"}
	}
	return clonePlanned(p), nil
}

func (s *Store) AddPlanned(ctx context.Context, p domain.PlannedTrip) (domain.PlannedTrip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextPlanID++
	p.ID = s.nextPlanID
	p = clonePlanned(p)
	s.planned[p.ID] = p
	return clonePlanned(p), nil
}

func (s *Store) UpdatePlanned(ctx context.Context, p domain.PlannedTrip) (domain.PlannedTrip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.planned[p.ID]
	if !ok || cur.UserID != p.UserID {
		return domain.PlannedTrip{}, domain.NotFoundError{Resource: "Planned trip"}
	}
	p = clonePlanned(p)
	s.planned[p.ID] = p
	return clonePlanned(p), nil
}

func (s *Store) RemovePlanned(ctx context.Context, id int64, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.planned[id]
	if !ok || p.UserID != userID {
		return domain.NotFoundError{Resource: "Planned trip"}
	}
	delete(s.planned, id)
	return nil
}
