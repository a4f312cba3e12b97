package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"travel_planner/internal/adapters/identity"
	"travel_planner/internal/adapters/observability"
	"travel_planner/internal/app"
	"travel_planner/internal/domain"
)

const genericError = "Something went wrong!"

type Handlers struct {
	Destinations *app.DestinationService
	Trips        *app.TripService
	Health       domain.HealthChecker
	Identity     identity.Resolver
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Tourism API Server is running!"})
	})
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(200)
		_, _ = w.Write([]byte("ok"))
	})
	s.mux.Get("/health", h.health)

	s.mux.Route("/api", func(r chi.Router) {
		r.Use(h.Identity.Middleware(writeAuthError))

		r.Get("/destinations", h.listDestinations)
		r.Get("/destinations/{id}", h.getDestination)
		r.Patch("/destinations/{id}/views", h.recordView)

		r.Get("/trips/saved", h.listSaved)
		r.Post("/trips/saved", h.addSaved)
		r.Delete("/trips/saved/{id}", h.removeSaved)

		r.Get("/trips/planned", h.listPlanned)
		r.Post("/trips/planned", h.addPlanned)
		r.Put("/trips/planned/{id}", h.updatePlanned)
		r.Delete("/trips/planned/{id}", h.removePlanned)
		r.Get("/trips/planned/{id}/itinerary.pdf", h.itineraryPDF)
	})
}

// ---- response helpers ----

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// failureMessages holds the 500 body per operation.
var failureMessages = map[string]string{
	"listDestinations": "Internal server error",
	"getDestination":   "Internal server error",
	"recordView":       "Internal server error",
	"listSaved":        "Failed to fetch saved trips",
	"addSaved":         "Failed to save trip",
	"removeSaved":      "Failed to remove saved trip",
	"listPlanned":      "Failed to fetch planned trips",
	"addPlanned":       "Failed to create planned trip",
	"updatePlanned":    "Failed to update planned trip",
	"removePlanned":    "Failed to delete planned trip",
	"itineraryPDF":     "Failed to render itinerary",
}

// fail maps domain errors to statuses. Anything unclassified is logged with
// the operation name and reported with that operation's message.
func fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case domain.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case domain.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case domain.IsConflict(err):
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.Error().Err(err).Str("op", op).Str("path", r.URL.Path).Msg("request failed")
		msg, ok := failureMessages[op]
		if !ok {
			msg = genericError
		}
		writeError(w, http.StatusInternalServerError, msg)
	}
}

func writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	msg := "Invalid token"
	if errors.Is(err, identity.ErrMissingToken) {
		msg = "Authentication required"
	}
	log.Debug().Err(err).Str("path", r.URL.Path).Msg("identity rejected")
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, msg)
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ValidationError{Field: "id", Msg: "must be a positive integer"}
	}
	return id, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return domain.ValidationError{Msg: fmt.Sprintf("invalid JSON body: %v", err)}
	}
	return nil
}

func (h *Handlers) userID(r *http.Request, bodyUser string) string {
	if strings.TrimSpace(bodyUser) != "" {
		return h.Identity.UserID(r.Context(), bodyUser)
	}
	return h.Identity.UserID(r.Context(), r.URL.Query().Get("userId"))
}

// ---- health ----

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if err := h.Health.Ping(r.Context()); err != nil {
		log.Error().Err(err).Msg("health check failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status": "unhealthy", "database": "disconnected", "error": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy", "database": "connected", "timestamp": now,
	})
}

// ---- destinations ----

func (h *Handlers) listDestinations(w http.ResponseWriter, r *http.Request) {
	out, err := h.Destinations.List(r.Context())
	if err != nil {
		fail(w, r, "listDestinations", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) getDestination(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, r, "getDestination", err)
		return
	}
	d, err := h.Destinations.Get(r.Context(), id)
	if err != nil {
		fail(w, r, "getDestination", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Handlers) recordView(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, r, "recordView", err)
		return
	}
	n, err := h.Destinations.RecordView(r.Context(), id)
	if err != nil {
		fail(w, r, "recordView", err)
		return
	}
	observability.ObserveView()
	writeJSON(w, http.StatusOK, map[string]int64{"views": n})
}

// ---- saved trips ----

type savedRequest struct {
	DestinationID int64  `json:"destinationId"`
	UserID        string `json:"userId"`
}

func (h *Handlers) listSaved(w http.ResponseWriter, r *http.Request) {
	out, err := h.Trips.ListSaved(r.Context(), h.userID(r, ""))
	if err != nil {
		fail(w, r, "listSaved", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) addSaved(w http.ResponseWriter, r *http.Request) {
	var req savedRequest
	if err := decodeBody(w, r, &req); err != nil {
		fail(w, r, "addSaved", err)
		return
	}
	st, err := h.Trips.AddSaved(r.Context(), req.DestinationID, h.userID(r, req.UserID))
	if err != nil {
		fail(w, r, "addSaved", err)
		return
	}
	observability.ObserveTripMutation("saved", "create")
	writeJSON(w, http.StatusCreated, st)
}

// removeSaved takes the destination id in the path.
func (h *Handlers) removeSaved(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, r, "removeSaved", err)
		return
	}
	if err := h.Trips.RemoveSaved(r.Context(), id, h.userID(r, "")); err != nil {
		fail(w, r, "removeSaved", err)
		return
	}
	observability.ObserveTripMutation("saved", "delete")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Saved trip removed successfully"})
}

// ---- planned trips ----

type plannedRequest struct {
	Title         string   `json:"title"`
	DepartureDate string   `json:"departureDate"`
	ReturnDate    string   `json:"returnDate"`
	Status        string   `json:"status"`
	Destinations  []string `json:"destinations"`
	UserID        string   `json:"userId"`
}

func (p plannedRequest) input() app.PlannedTripInput {
	return app.PlannedTripInput{
		Title:         p.Title,
		DepartureDate: p.DepartureDate,
		ReturnDate:    p.ReturnDate,
		Status:        p.Status,
		Destinations:  p.Destinations,
	}
}

func (h *Handlers) listPlanned(w http.ResponseWriter, r *http.Request) {
	out, err := h.Trips.ListPlanned(r.Context(), h.userID(r, ""))
	if err != nil {
		fail(w, r, "listPlanned", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) addPlanned(w http.ResponseWriter, r *http.Request) {
	var req plannedRequest
	if err := decodeBody(w, r, &req); err != nil {
		fail(w, r, "addPlanned", err)
		return
	}
	p, err := h.Trips.AddPlanned(r.Context(), h.userID(r, req.UserID), req.input())
	if err != nil {
		fail(w, r, "addPlanned", err)
		return
	}
	observability.ObserveTripMutation("planned", "create")
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handlers) updatePlanned(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, r, "updatePlanned", err)
		return
	}
	var req plannedRequest
	if err := decodeBody(w, r, &req); err != nil {
		fail(w, r, "updatePlanned", err)
		return
	}
	p, err := h.Trips.UpdatePlanned(r.Context(), id, h.userID(r, req.UserID), req.input())
	if err != nil {
		fail(w, r, "updatePlanned", err)
		return
	}
	observability.ObserveTripMutation("planned", "update")
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) removePlanned(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, r, "removePlanned", err)
		return
	}
	if err := h.Trips.RemovePlanned(r.Context(), id, h.userID(r, "")); err != nil {
		fail(w, r, "removePlanned", err)
		return
	}
	observability.ObserveTripMutation("planned", "delete")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Planned trip deleted successfully"})
}

func (h *Handlers) itineraryPDF(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, r, "itineraryPDF", err)
		return
	}
	b, name, err := h.Trips.ItineraryPDF(r.Context(), id, h.userID(r, ""))
	if err != nil {
		fail(w, r, "itineraryPDF", err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(b); err != nil {
		log.Error().Err(err).Msg("failed to write itinerary body")
	}
}
