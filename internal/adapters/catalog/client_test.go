package catalog_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"travel_planner/internal/adapters/catalog"
	"travel_planner/internal/app"
	"travel_planner/internal/domain"
	"travel_planner/internal/storage/memory"
)

func TestClient_GetDestination_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			w.WriteHeader(500)
		default:
			w.WriteHeader(200)
			_ = json.NewEncoder(w).Encode(map[string]any{"id": 2.0, "name": "Rome"})
		}
	}))
	defer ts.Close()

	cl, err := catalog.New(ts.URL, "test-key", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	got, err := cl.GetDestination(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got["name"] != "Rome" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
}

func TestClient_GetDestination_404MatchesDomainNotFound(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	cl, _ := catalog.New(ts.URL, "", 100)
	_, err := cl.GetDestination(context.Background(), 1)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected domain.ErrNotFound, got %v", err)
	}
}

func TestClient_ListDestinations_Envelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/destinations" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"id":1},{"id":2}]}`))
	}))
	defer ts.Close()

	cl, _ := catalog.New(ts.URL+"/", "", 100)
	list, err := cl.ListDestinations(context.Background())
	if err != nil || len(list) != 2 {
		t.Fatalf("ListDestinations = %v, %v", list, err)
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(`[{"id":1,"name":"Santorini"},{"id":3,"name":"Kyoto"}]`), 0o600); err != nil {
		t.Fatal(err)
	}
	fs, err := catalog.OpenFile(path, app.CatalogEntryID)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	list, _ := fs.ListDestinations(context.Background())
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	got, err := fs.GetDestination(context.Background(), 3)
	if err != nil || got["name"] != "Kyoto" {
		t.Fatalf("GetDestination = %v, %v", got, err)
	}
	if _, err := fs.GetDestination(context.Background(), 2); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFileSource_IDAliasesImport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	body := `[{"destination_id":5,"name":"Lisbon"},{"id":"6","name":"Porto"},{"destinationId":"7","name":"Braga"}]`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	fs, err := catalog.OpenFile(path, app.CatalogEntryID)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}

	store := memory.New(domain.ViewsEvents)
	imp := app.NewImportService(fs, store)
	ctx := context.Background()

	ids, err := imp.IndexIDs(ctx)
	if err != nil {
		t.Fatalf("IndexIDs: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("ids = %v, want 3", ids)
	}
	for _, id := range ids {
		ok, err := imp.ImportDestination(ctx, id)
		if err != nil || !ok {
			t.Fatalf("ImportDestination(%d) = %v, %v", id, ok, err)
		}
	}
	list, _ := store.ListDestinations(ctx)
	if len(list) != 3 {
		t.Fatalf("stored %d destinations, want 3", len(list))
	}
}
