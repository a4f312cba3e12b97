package app

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel_planner/internal/domain"
	"travel_planner/internal/storage/memory"
)

func TestBuildItineraryPDF(t *testing.T) {
	p := domain.PlannedTrip{
		ID:            7,
		Title:         "Rome & Florence: Spring",
		DepartureDate: domain.NewDate(2025, 4, 1),
		ReturnDate:    domain.NewDate(2025, 4, 8),
		Status:        domain.StatusConfirmed,
		Destinations:  []string{"Rome", "Florence", "Città del Vaticano"},
	}
	b, name, err := buildItineraryPDF(p, time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
	assert.Equal(t, "ITINERARY_7_Rome_Florence_Spring.pdf", name)
}

func TestItineraryPDF_ScopedToOwner(t *testing.T) {
	svc := NewTripService(memory.New(domain.ViewsEvents))
	ctx := context.Background()
	p, err := svc.AddPlanned(ctx, "ana", PlannedTripInput{Title: "Kyoto", DepartureDate: "2025-11-02", ReturnDate: "2025-11-06"})
	require.NoError(t, err)

	_, _, err = svc.ItineraryPDF(ctx, p.ID, "bob")
	assert.True(t, domain.IsNotFound(err))

	b, name, err := svc.ItineraryPDF(ctx, p.ID, "ana")
	require.NoError(t, err)
	assert.NotEmpty(t, b)
	assert.Contains(t, name, "Kyoto")
}

func TestSafeFilenamePart(t *testing.T) {
	assert.Equal(t, "trip", safeFilenamePart("  ***  "))
	assert.Equal(t, "a_b", safeFilenamePart("a / b"))
	assert.Len(t, safeFilenamePart(string(bytes.Repeat([]byte("x"), 80))), 40)
}
