package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"fasilitas/internal/database"
	"fasilitas/internal/interval"
	"fasilitas/internal/models"
	"fasilitas/internal/service"
)

func (s *HTTPServer) handleAvailability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	kind := models.Kind(strings.TrimSpace(r.URL.Query().Get("kind")))
	span, err := spanFromQuery(r, kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resources, err := s.availability.FindAvailable(r.Context(), kind, span, strings.TrimSpace(r.URL.Query().Get("type")))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"resources": resources})
}

func (s *HTTPServer) handleResources(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		kind := models.Kind(strings.TrimSpace(r.URL.Query().Get("kind")))
		resources, err := s.catalog.ListByKind(r.Context(), kind)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"resources": resources})
	case http.MethodPost:
		var res models.Resource
		if err := decodeJSON(r, &res); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := s.catalog.Create(r.Context(), &res); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleResourceByID(w http.ResponseWriter, r *http.Request) {
	kind, id, rest, err := parseKindID(r.URL.Path, "/api/v1/resources/")
	if err != nil || rest != "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		resource, err := s.catalog.Get(r.Context(), kind, id)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resource)
	case http.MethodPut:
		var res models.Resource
		if err := decodeJSON(r, &res); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		res.Kind, res.ID = kind, id
		if err := s.catalog.Update(r.Context(), &res); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	case http.MethodDelete:
		if err := s.catalog.Delete(r.Context(), kind, id); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// createReservationRequest is the wire form of a booking request.
type createReservationRequest struct {
	Kind          string `json:"kind"`
	ResourceID    int64  `json:"resource_id"`
	RequesterID   int64  `json:"requester_id"`
	RequesterName string `json:"requester_name"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Destination   string `json:"destination"`
	Purpose       string `json:"purpose"`
}

func (s *HTTPServer) handleReservations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if raw := strings.TrimSpace(r.URL.Query().Get("requester_id")); raw != "" {
			requesterID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid requester_id")
				return
			}
			records, err := s.booking.ListByRequester(r.Context(), requesterID)
			if err != nil {
				s.writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"reservations": records})
			return
		}

		kind := models.Kind(strings.TrimSpace(r.URL.Query().Get("kind")))
		records, err := s.booking.ListRecords(r.Context(), kind)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"reservations": records})
	case http.MethodPost:
		var body createReservationRequest
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		req, err := body.toCreateRequest()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		reservation, err := s.booking.Create(r.Context(), req)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, reservation)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleReservationAction(w http.ResponseWriter, r *http.Request) {
	kind, id, rest, err := parseKindID(r.URL.Path, "/api/v1/reservations/")
	if err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch {
	case rest == "" && r.Method == http.MethodGet:
		reservation, err := s.booking.Get(r.Context(), kind, id)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, reservation)
	case rest == "cancel" && r.Method == http.MethodPost:
		if err := s.booking.Cancel(r.Context(), kind, id); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": models.StatusCancelled})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	stats, err := s.booking.Statistics(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.exports == nil {
		writeError(w, http.StatusServiceUnavailable, "export is not configured")
		return
	}
	if err := s.exports.EnqueueExport(r.Context()); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "scheduled"})
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	account, err := s.directory.Verify(r.Context(), body.Username, body.Password)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (s *HTTPServer) handleAccounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	accounts, err := s.directory.List(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"accounts": accounts})
}

func (b *createReservationRequest) toCreateRequest() (service.CreateRequest, error) {
	req := service.CreateRequest{
		Kind:          models.Kind(strings.TrimSpace(b.Kind)),
		ResourceID:    b.ResourceID,
		RequesterID:   b.RequesterID,
		RequesterName: b.RequesterName,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		Destination:   b.Destination,
		Purpose:       b.Purpose,
	}
	if b.StartDate != "" {
		start, err := interval.ParseDate(b.StartDate)
		if err != nil {
			return req, err
		}
		req.StartDate = start
	}
	if b.EndDate != "" {
		end, err := interval.ParseDate(b.EndDate)
		if err != nil {
			return req, err
		}
		req.EndDate = end
	}
	return req, nil
}

// spanFromQuery reads the requested extent. start_date is required; end_date
// defaults to start_date. Time-of-day kinds must supply an ordered
// start_time/end_time pair, date-span kinds an ordered date pair.
func spanFromQuery(r *http.Request, kind models.Kind) (interval.Span, error) {
	var span interval.Span

	rawStart := strings.TrimSpace(r.URL.Query().Get("start_date"))
	if rawStart == "" {
		return span, fmt.Errorf("start_date is required")
	}
	start, err := interval.ParseDate(rawStart)
	if err != nil {
		return span, err
	}
	span.StartDate, span.EndDate = start, start

	if rawEnd := strings.TrimSpace(r.URL.Query().Get("end_date")); rawEnd != "" {
		end, err := interval.ParseDate(rawEnd)
		if err != nil {
			return span, err
		}
		span.EndDate = end
	}
	if span.EndDate.Before(span.StartDate) {
		return span, fmt.Errorf("end_date must not be before start_date")
	}

	if rawTime := strings.TrimSpace(r.URL.Query().Get("start_time")); rawTime != "" {
		t, err := interval.ParseTime(rawTime)
		if err != nil {
			return span, err
		}
		span.StartTime = t
	}
	if rawTime := strings.TrimSpace(r.URL.Query().Get("end_time")); rawTime != "" {
		t, err := interval.ParseTime(rawTime)
		if err != nil {
			return span, err
		}
		span.EndTime = t
	}

	if kind == models.KindRoom || kind == models.KindVehicle {
		if span.StartTime == "" || span.EndTime == "" {
			return span, fmt.Errorf("start_time and end_time are required for %s", kind)
		}
		if span.EndTime <= span.StartTime {
			return span, fmt.Errorf("end_time must be after start_time")
		}
	}
	return span, nil
}

// parseKindID splits "{kind}/{id}" or "{kind}/{id}/{action}" path suffixes.
func parseKindID(path, prefix string) (models.Kind, int64, string, error) {
	if !strings.HasPrefix(path, prefix) {
		return "", 0, "", fmt.Errorf("bad path")
	}
	parts := strings.SplitN(strings.Trim(strings.TrimPrefix(path, prefix), "/"), "/", 3)
	if len(parts) < 2 {
		return "", 0, "", fmt.Errorf("bad path")
	}
	kind := models.Kind(parts[0])
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id <= 0 {
		return "", 0, "", fmt.Errorf("bad id")
	}
	rest := ""
	if len(parts) == 3 {
		rest = parts[2]
	}
	return kind, id, rest, nil
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// writeServiceError maps domain errors onto HTTP status codes.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case service.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, database.ErrNotAvailable):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error().Err(err).Msg("internal error")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
