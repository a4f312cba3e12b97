package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel_planner/internal/domain"
	"travel_planner/internal/storage/memory"
)

type fakeCatalog struct {
	list    []map[string]any
	details map[int64]map[string]any
}

func (f fakeCatalog) ListDestinations(context.Context) ([]map[string]any, error) { return f.list, nil }

func (f fakeCatalog) GetDestination(_ context.Context, id int64) (map[string]any, error) {
	if d, ok := f.details[id]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("catalog: %w", domain.ErrNotFound)
}

func TestImportService(t *testing.T) {
	cat := fakeCatalog{
		list: []map[string]any{{"id": 2.0}, {"id": "3"}, {"id": 2.0}, {"name": "no id"}},
		details: map[int64]map[string]any{
			2: {
				"id":          2.0,
				"name":        "Rome",
				"rating":      "4,7",
				"highlights":  []any{"Colosseum", map[string]any{"name": "Pantheon"}},
				"trip_info":   map[string]any{"Currency": "EUR", "Best time": []any{"Apr", "May"}},
				"description": "The Eternal City",
			},
		},
	}
	store := memory.New(domain.ViewsCounter)
	svc := NewImportService(cat, store)
	ctx := context.Background()

	ids, err := svc.IndexIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, ids)

	// views survive a re-import
	require.NoError(t, store.UpsertDestination(ctx, domain.Destination{ID: 2, Name: "old"}))
	require.NoError(t, store.AppendView(ctx, 2))

	ok, err := svc.ImportDestination(ctx, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.ImportDestination(ctx, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	d, err := store.GetDestination(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Rome", d.Name)
	assert.Equal(t, 4.7, d.Rating)
	assert.Equal(t, []string{"Colosseum", "Pantheon"}, d.Attractions)
	assert.Equal(t, map[string]string{"Currency": "EUR", "Best time": "Apr, May"}, d.TripInfo)
	assert.Equal(t, int64(1), d.Views)
}

func TestMapDestination(t *testing.T) {
	d, err := mapDestination(map[string]any{
		"destinationId": "9",
		"title":         "Reykjavik",
		"score":         7.0,
		"practical":     []any{map[string]any{"label": "Language", "value": "Icelandic"}},
		"attractions":   "Blue Lagoon, Hallgrímskirkja",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), d.ID)
	assert.Equal(t, 5.0, d.Rating)
	assert.Equal(t, []string{"Blue Lagoon", "Hallgrímskirkja"}, d.Attractions)
	assert.Equal(t, "Icelandic", d.TripInfo["Language"])

	_, err = mapDestination(map[string]any{"id": 1.0})
	require.Error(t, err)
}
