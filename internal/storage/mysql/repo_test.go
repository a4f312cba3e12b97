package mysql

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	drv "github.com/go-sql-driver/mysql"

	"travel_planner/internal/app"
	"travel_planner/internal/domain"
)

var destCols = []string{"id", "name", "description", "image", "rating", "tagline", "attractions", "cuisine", "trip_info", "views"}

func newMockRepo(t *testing.T, mode domain.ViewMode) (*Repo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		db.Close()
	})
	return New(db, mode), mock
}

func TestListDestinations_EventsModeAggregatesMonth(t *testing.T) {
	repo, mock := newMockRepo(t, domain.ViewsEvents)

	mock.ExpectQuery(`(?s)SUM\(v\.` + "`count`" + `\).*FROM views v.*DATE_FORMAT\(CURRENT_DATE.*ORDER BY views DESC, d\.rating DESC`).
		WillReturnRows(sqlmock.NewRows(destCols).
			AddRow(2, "Rome", "Ruins", "rome.jpg", "4.7", "Eternal", []byte(`["Colosseum"]`), "Pasta", []byte(`{"Currency":"EUR"}`), "12").
			AddRow(1, "Kyoto", nil, nil, "4.9", nil, nil, nil, nil, "0"))

	out, err := repo.ListDestinations(context.Background())
	if err != nil {
		t.Fatalf("ListDestinations: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d destinations", len(out))
	}
	if out[0].Views != 12 || out[0].Rating != 4.7 || out[0].Attractions[0] != "Colosseum" || out[0].TripInfo["Currency"] != "EUR" {
		t.Fatalf("unexpected first row: %+v", out[0])
	}
	if out[1].Views != 0 || out[1].Description != "" || len(out[1].Attractions) != 0 || out[1].TripInfo == nil {
		t.Fatalf("unexpected second row: %+v", out[1])
	}
}

func TestListDestinations_CounterModeUsesStaticColumn(t *testing.T) {
	repo, mock := newMockRepo(t, domain.ViewsCounter)

	mock.ExpectQuery(`(?s)d\.views AS views\s+FROM destinations d\s+ORDER BY views DESC, d\.rating DESC`).
		WillReturnRows(sqlmock.NewRows(destCols).
			AddRow(3, "Santorini", "", "", "4.8", "", nil, "", nil, "41"))

	out, err := repo.ListDestinations(context.Background())
	if err != nil {
		t.Fatalf("ListDestinations: %v", err)
	}
	if len(out) != 1 || out[0].Views != 41 {
		t.Fatalf("unexpected: %+v", out)
	}
}

func TestGetDestination_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t, domain.ViewsEvents)

	mock.ExpectQuery(`WHERE d\.id = \?`).WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(destCols))

	_, err := repo.GetDestination(context.Background(), 99)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAppendViewAndCurrentViews_Events(t *testing.T) {
	repo, mock := newMockRepo(t, domain.ViewsEvents)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO views (destination_id, `count`, viewed_at) VALUES (?, 1, CURRENT_TIMESTAMP)")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`(?s)COALESCE\(SUM\(v\.` + "`count`" + `\), 0\) FROM views v WHERE v\.destination_id = \? AND`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"views"}).AddRow("3"))

	ctx := context.Background()
	if err := repo.AppendView(ctx, 5); err != nil {
		t.Fatalf("AppendView: %v", err)
	}
	n, err := repo.CurrentViews(ctx, 5)
	if err != nil {
		t.Fatalf("CurrentViews: %v", err)
	}
	if n != 3 {
		t.Fatalf("views = %d, want 3", n)
	}
}

func TestRecordView_MissingDestinationWritesNothing(t *testing.T) {
	for _, mode := range []domain.ViewMode{domain.ViewsEvents, domain.ViewsCounter} {
		t.Run(string(mode), func(t *testing.T) {
			repo, mock := newMockRepo(t, mode)
			// no Exec is expected; sqlmock fails on any INSERT or UPDATE
			mock.ExpectQuery(regexp.QuoteMeta(destinationExistsSQL)).
				WithArgs(int64(404)).
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(int64(0)))

			_, err := app.NewDestinationService(repo).RecordView(context.Background(), 404)
			if !domain.IsNotFound(err) {
				t.Fatalf("expected not found, got %v", err)
			}
		})
	}
}

func TestAppendView_OrphanMapsToNotFound(t *testing.T) {
	repo, mock := newMockRepo(t, domain.ViewsEvents)

	mock.ExpectExec("INSERT INTO views").
		WillReturnError(&drv.MySQLError{Number: errNoReferencedRow, Message: "foreign key"})

	if err := repo.AppendView(context.Background(), 404); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAppendView_CounterMissingRow(t *testing.T) {
	repo, mock := newMockRepo(t, domain.ViewsCounter)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE destinations SET views = COALESCE(views, 0) + 1 WHERE id = ?")).
		WithArgs(int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.AppendView(context.Background(), 8); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddSaved_DuplicateIsConflict(t *testing.T) {
	repo, mock := newMockRepo(t, domain.ViewsEvents)

	mock.ExpectExec("INSERT INTO user_trips").WithArgs(int64(1), "ana").
		WillReturnError(&drv.MySQLError{Number: errDuplicateEntry, Message: "Duplicate entry"})

	_, err := repo.AddSaved(context.Background(), 1, "ana")
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err.Error() != "Already saved" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestAddSaved_InsertsAndReloads(t *testing.T) {
	repo, mock := newMockRepo(t, domain.ViewsEvents)
	added := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO user_trips").WithArgs(int64(2), "ana").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery(`FROM user_trips\s+WHERE id = \?`).WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "destination_id", "user_id", "date_added"}).
			AddRow(7, 2, "ana", added))

	st, err := repo.AddSaved(context.Background(), 2, "ana")
	if err != nil {
		t.Fatalf("AddSaved: %v", err)
	}
	if st.ID != 7 || st.DestinationID != 2 || st.UserID != "ana" || !st.DateAdded.Equal(added) {
		t.Fatalf("unexpected saved trip: %+v", st)
	}
}

func TestListSaved_JoinsDestination(t *testing.T) {
	repo, mock := newMockRepo(t, domain.ViewsEvents)
	added := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	cols := append([]string{"trip_id", "date_added"}, destCols...)
	mock.ExpectQuery(`(?s)FROM user_trips ut\s+JOIN destinations d.*WHERE ut\.user_id = \?\s+ORDER BY ut\.id DESC`).
		WithArgs("ana").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(9, added, 2, "Rome", "Ruins", "rome.jpg", "4.7", "", nil, "", nil, "4"))

	out, err := repo.ListSaved(context.Background(), "ana")
	if err != nil {
		t.Fatalf("ListSaved: %v", err)
	}
	if len(out) != 1 || out[0].TripID != 9 || out[0].ID != 2 || out[0].Name != "Rome" || out[0].Views != 4 {
		t.Fatalf("unexpected: %+v", out)
	}
}

func TestRemoveSaved_NoRowIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t, domain.ViewsEvents)

	mock.ExpectExec("DELETE FROM user_trips").WithArgs(int64(3), "ana").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.RemoveSaved(context.Background(), 3, "ana"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListPlanned_DatesAreDateOnly(t *testing.T) {
	repo, mock := newMockRepo(t, domain.ViewsEvents)

	mock.ExpectQuery(`(?s)FROM planned_trips\s+WHERE user_id = \?\s+ORDER BY id DESC`).WithArgs("ana").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "departure_date", "return_date", "status", "destinations", "user_id"}).
			AddRow(4, "Rome Trip",
				time.Date(2025, 6, 1, 22, 30, 0, 0, time.UTC),
				[]byte("2025-06-10"),
				"Planning", []byte(`["Rome"]`), "ana"))

	out, err := repo.ListPlanned(context.Background(), "ana")
	if err != nil {
		t.Fatalf("ListPlanned: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d trips", len(out))
	}
	p := out[0]
	if p.DepartureDate.String() != "2025-06-01" || p.ReturnDate.String() != "2025-06-10" {
		t.Fatalf("dates not normalized: %s %s", p.DepartureDate, p.ReturnDate)
	}
	if p.Status != domain.StatusPlanning || len(p.Destinations) != 1 || p.Destinations[0] != "Rome" {
		t.Fatalf("unexpected trip: %+v", p)
	}
}

func TestUpdatePlanned_MissingIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t, domain.ViewsEvents)

	mock.ExpectExec("UPDATE planned_trips").
		WithArgs("T", sqlmock.AnyArg(), sqlmock.AnyArg(), "Confirmed", `["Rome"]`, int64(77), "ana").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`FROM planned_trips\s+WHERE id = \? AND user_id = \?`).WithArgs(int64(77), "ana").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdatePlanned(context.Background(), domain.PlannedTrip{
		ID: 77, Title: "T", Status: domain.StatusConfirmed, Destinations: []string{"Rome"}, UserID: "ana",
		DepartureDate: domain.NewDate(2025, 6, 1), ReturnDate: domain.NewDate(2025, 6, 2),
	})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRemovePlanned(t *testing.T) {
	repo, mock := newMockRepo(t, domain.ViewsEvents)

	mock.ExpectExec("DELETE FROM planned_trips").WithArgs(int64(1), "ana").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM planned_trips").WithArgs(int64(1), "ana").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ctx := context.Background()
	if err := repo.RemovePlanned(ctx, 1, "ana"); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := repo.RemovePlanned(ctx, 1, "ana"); !domain.IsNotFound(err) {
		t.Fatalf("second delete should be not found, got %v", err)
	}
}

func TestDetectViewMode(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("information_schema\\.tables").WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectQuery("information_schema\\.tables").WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))

	ctx := context.Background()
	if m, err := DetectViewMode(ctx, db); err != nil || m != domain.ViewsEvents {
		t.Fatalf("want events, got %q (%v)", m, err)
	}
	if m, err := DetectViewMode(ctx, db); err != nil || m != domain.ViewsCounter {
		t.Fatalf("want counter, got %q (%v)", m, err)
	}
}
