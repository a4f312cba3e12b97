package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	drv "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"travel_planner/internal/domain"
)

const (
	errDuplicateEntry  = 1062
	errNoReferencedRow = 1452
)

func isMySQLError(err error, number uint16) bool {
	var me *drv.MySQLError
	return errors.As(err, &me) && me.Number == number
}

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func valJSON(v any) any {
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return nil
	}
	return string(b)
}

type destinationRow struct {
	ID          int64          `db:"id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	Image       sql.NullString `db:"image"`
	Rating      float64        `db:"rating"`
	Tagline     sql.NullString `db:"tagline"`
	Attractions []byte         `db:"attractions"`
	Cuisine     sql.NullString `db:"cuisine"`
	TripInfo    []byte         `db:"trip_info"`
	Views       int64          `db:"views"`
}

func (r destinationRow) toDomain() domain.Destination {
	d := domain.Destination{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description.String,
		Image:       r.Image.String,
		Rating:      r.Rating,
		Tagline:     r.Tagline.String,
		Cuisine:     r.Cuisine.String,
		Views:       r.Views,
		Attractions: []string{},
		TripInfo:    map[string]string{},
	}
	if len(r.Attractions) > 0 {
		if err := json.Unmarshal(r.Attractions, &d.Attractions); err != nil {
			log.Warn().Err(err).Int64("destination_id", r.ID).Msg("bad attractions JSON")
		}
	}
	if len(r.TripInfo) > 0 {
		if err := json.Unmarshal(r.TripInfo, &d.TripInfo); err != nil {
			log.Warn().Err(err).Int64("destination_id", r.ID).Msg("bad trip_info JSON")
		}
	}
	return d
}

type savedRow struct {
	TripID    int64     `db:"trip_id"`
	DateAdded time.Time `db:"date_added"`
	destinationRow
}

type savedTripRow struct {
	ID            int64     `db:"id"`
	DestinationID int64     `db:"destination_id"`
	UserID        string    `db:"user_id"`
	DateAdded     time.Time `db:"date_added"`
}

type plannedRow struct {
	ID            int64       `db:"id"`
	Title         string      `db:"title"`
	DepartureDate domain.Date `db:"departure_date"`
	ReturnDate    domain.Date `db:"return_date"`
	Status        string      `db:"status"`
	Destinations  []byte      `db:"destinations"`
	UserID        string      `db:"user_id"`
}

func (r plannedRow) toDomain() domain.PlannedTrip {
	p := domain.PlannedTrip{
		ID:            r.ID,
		Title:         r.Title,
		DepartureDate: r.DepartureDate,
		ReturnDate:    r.ReturnDate,
		Status:        domain.TripStatus(r.Status),
		UserID:        r.UserID,
		Destinations:  []string{},
	}
	if len(r.Destinations) > 0 {
		if err := json.Unmarshal(r.Destinations, &p.Destinations); err != nil {
			log.Warn().Err(err).Int64("planned_trip_id", r.ID).Msg("bad destinations JSON")
		}
	}
	return p
}

// Repo implements domain.DestinationRepository and domain.TripRepository on MySQL.
type Repo struct {
	db   *sqlx.DB
	mode domain.ViewMode
	q    queries
}

func New(db *sql.DB, mode domain.ViewMode) *Repo {
	if !mode.Valid() {
		mode = domain.ViewsEvents
	}
	return &Repo{db: sqlx.NewDb(db, "mysql"), mode: mode, q: queriesFor(mode)}
}

// DetectViewMode picks the event log when the `views` table exists.
func DetectViewMode(ctx context.Context, db *sql.DB) (domain.ViewMode, error) {
	var n int
	if err := db.QueryRowContext(ctx, detectViewsTableSQL).Scan(&n); err != nil {
		return "", fmt.Errorf("detect view mode: %w", err)
	}
	if n > 0 {
		return domain.ViewsEvents, nil
	}
	return domain.ViewsCounter, nil
}

func (r *Repo) Mode() domain.ViewMode { return r.mode }

func (r *Repo) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

// ---- destinations ----

func (r *Repo) ListDestinations(ctx context.Context) ([]domain.Destination, error) {
	var rows []destinationRow
	if err := r.db.SelectContext(ctx, &rows, r.q.listDestinations); err != nil {
		return nil, fmt.Errorf("list destinations: %w", err)
	}
	out := make([]domain.Destination, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *Repo) GetDestination(ctx context.Context, id int64) (domain.Destination, error) {
	var row destinationRow
	if err := r.db.GetContext(ctx, &row, r.q.getDestination, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Destination{}, domain.NotFoundError{Resource: "Destination"}
		}
		return domain.Destination{}, fmt.Errorf("get destination %d: %w", id, err)
	}
	return row.toDomain(), nil
}

func (r *Repo) DestinationExists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	if err := r.db.GetContext(ctx, &ok, destinationExistsSQL, id); err != nil {
		return false, fmt.Errorf("destination exists %d: %w", id, err)
	}
	return ok, nil
}

func (r *Repo) CurrentViews(ctx context.Context, id int64) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, r.q.currentViews, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.NotFoundError{Resource: "Destination"}
		}
		return 0, fmt.Errorf("current views %d: %w", id, err)
	}
	return n, nil
}

func (r *Repo) AppendView(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.q.appendView, id)
	if err != nil {
		if isMySQLError(err, errNoReferencedRow) {
			return domain.NotFoundError{Resource: "Destination", Err: err}
		}
		return fmt.Errorf("append view %d: %w", id, err)
	}
	if r.mode == domain.ViewsCounter {
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.NotFoundError{Resource: "Destination"}
		}
	}
	return nil
}

func (r *Repo) UpsertDestination(ctx context.Context, d domain.Destination) error {
	_, err := r.db.ExecContext(ctx, upsertDestinationSQL,
		d.ID,
		d.Name,
		valStr(d.Description),
		valStr(d.Image),
		d.Rating,
		valStr(d.Tagline),
		valJSON(d.Attractions),
		valStr(d.Cuisine),
		valJSON(d.TripInfo),
	)
	if err != nil {
		return fmt.Errorf("upsert destination %d: %w", d.ID, err)
	}
	return nil
}

// ---- saved trips ----

func (r *Repo) ListSaved(ctx context.Context, userID string) ([]domain.SavedDestination, error) {
	var rows []savedRow
	if err := r.db.SelectContext(ctx, &rows, r.q.listSaved, userID); err != nil {
		return nil, fmt.Errorf("list saved: %w", err)
	}
	out := make([]domain.SavedDestination, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.SavedDestination{
			TripID:      row.TripID,
			DateAdded:   row.DateAdded,
			Destination: row.destinationRow.toDomain(),
		})
	}
	return out, nil
}

// AddSaved relies on the (destination_id, user_id) unique key instead of a
// read-before-write check.
func (r *Repo) AddSaved(ctx context.Context, destinationID int64, userID string) (domain.SavedTrip, error) {
	res, err := r.db.ExecContext(ctx, insertSavedSQL, destinationID, userID)
	switch {
	case isMySQLError(err, errDuplicateEntry):
		return domain.SavedTrip{}, domain.ConflictError{Resource: "saved trip", Msg: "Already saved", Err: err}
	case isMySQLError(err, errNoReferencedRow):
		return domain.SavedTrip{}, domain.NotFoundError{Resource: "Destination", Err: err}
	case err != nil:
		return domain.SavedTrip{}, fmt.Errorf("insert saved: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.SavedTrip{}, fmt.Errorf("insert saved: %w", err)
	}
	var row savedTripRow
	if err := r.db.GetContext(ctx, &row, getSavedSQL, id); err != nil {
		return domain.SavedTrip{}, fmt.Errorf("reload saved %d: %w", id, err)
	}
	return domain.SavedTrip(row), nil
}

func (r *Repo) RemoveSaved(ctx context.Context, destinationID int64, userID string) error {
	res, err := r.db.ExecContext(ctx, deleteSavedSQL, destinationID, userID)
	if err != nil {
		return fmt.Errorf("delete saved: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "Saved trip"}
	}
	return nil
}

// ---- planned trips ----

func (r *Repo) ListPlanned(ctx context.Context, userID string) ([]domain.PlannedTrip, error) {
	var rows []plannedRow
	if err := r.db.SelectContext(ctx, &rows, listPlannedSQL, userID); err != nil {
		return nil, fmt.Errorf("list planned: %w", err)
	}
	out := make([]domain.PlannedTrip, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *Repo) GetPlanned(ctx context.Context, id int64, userID string) (domain.PlannedTrip, error) {
	var row plannedRow
	if err := r.db.GetContext(ctx, &row, getPlannedSQL, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.PlannedTrip{}, domain.NotFoundError{Resource: "Planned trip"}
		}
		return domain.PlannedTrip{}, fmt.Errorf("get planned %d: %w", id, err)
	}
	return row.toDomain(), nil
}

func (r *Repo) AddPlanned(ctx context.Context, p domain.PlannedTrip) (domain.PlannedTrip, error) {
	res, err := r.db.ExecContext(ctx, insertPlannedSQL,
		p.Title,
		p.DepartureDate,
		p.ReturnDate,
		string(p.Status),
		valJSON(nonNil(p.Destinations)),
		p.UserID,
	)
	if err != nil {
		return domain.PlannedTrip{}, fmt.Errorf("insert planned: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.PlannedTrip{}, fmt.Errorf("insert planned: %w", err)
	}
	return r.GetPlanned(ctx, id, p.UserID)
}

// UpdatePlanned replaces every mutable column. MySQL reports zero affected
// rows for a no-op update, so existence is decided by the reload.
func (r *Repo) UpdatePlanned(ctx context.Context, p domain.PlannedTrip) (domain.PlannedTrip, error) {
	if _, err := r.db.ExecContext(ctx, updatePlannedSQL,
		p.Title,
		p.DepartureDate,
		p.ReturnDate,
		string(p.Status),
		valJSON(nonNil(p.Destinations)),
		p.ID,
		p.UserID,
	); err != nil {
		return domain.PlannedTrip{}, fmt.Errorf("update planned %d: %w", p.ID, err)
	}
	return r.GetPlanned(ctx, p.ID, p.UserID)
}

func (r *Repo) RemovePlanned(ctx context.Context, id int64, userID string) error {
	res, err := r.db.ExecContext(ctx, deletePlannedSQL, id, userID)
	if err != nil {
		return fmt.Errorf("delete planned %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "Planned trip"}
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
