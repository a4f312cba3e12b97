package app

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"travel_planner/internal/domain"
)

// ItineraryPDF renders one of the user's planned trips as an A4 document and
// returns it with a download filename.
func (s *TripService) ItineraryPDF(ctx context.Context, id int64, userID string) ([]byte, string, error) {
	p, err := s.GetPlanned(ctx, id, userID)
	if err != nil {
		return nil, "", err
	}
	return buildItineraryPDF(p, time.Now())
}

func buildItineraryPDF(p domain.PlannedTrip, generated time.Time) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Itinerary - "+p.Title, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, tr(p.Title))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Status      : %s", p.Status),
		fmt.Sprintf("Departure   : %s", orDash(p.DepartureDate.String())),
		fmt.Sprintf("Return      : %s", orDash(p.ReturnDate.String())),
	}
	if days := p.Days(); days > 0 {
		lines = append(lines, fmt.Sprintf("Length      : %d day(s)", days))
	}
	for _, l := range lines {
		pdf.Cell(0, 7, l)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Destinations")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	if len(p.Destinations) == 0 {
		pdf.Cell(0, 6, "-")
		pdf.Ln(6)
	}
	for i, d := range p.Destinations {
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%d) %s", i+1, d)), "", "", false)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, "Generated "+generated.UTC().Format("2006-01-02 15:04")+" UTC")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("ITINERARY_%d_%s.pdf", p.ID, safeFilenamePart(p.Title))
	return buf.Bytes(), filename, nil
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

func safeFilenamePart(s string) string {
	s = unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(s), "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "trip"
	}
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
