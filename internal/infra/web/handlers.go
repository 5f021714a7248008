// File: internal/infra/web/handlers.go
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"academy-platform/internal/domain"
	"academy-platform/internal/infra/metrics"
	red "academy-platform/internal/infra/redis"
	"academy-platform/internal/usecase"
)

// Every endpoint answers the same envelope: {"success": bool, "data": ...}
// on success, {"success": false, "error": "..."} otherwise.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Success: false, Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

// writeDomainError maps domain sentinels onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotEnrolled),
		errors.Is(err, domain.ErrStudentInactive),
		errors.Is(err, domain.ErrCheckInClosed),
		errors.Is(err, domain.ErrTerminalStatus),
		errors.Is(err, domain.ErrSubscriptionNotActive):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "too many requests")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func observeRequest(route, method string, code int, elapsed time.Duration) {
	metrics.ObserveHTTPRequest(route, method, code, elapsed.Seconds())
}

func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// ---------------- students ----------------

type studentCreateRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Document  string `json:"document"`
	Phone     string `json:"phone"`
	BeltRank  string `json:"belt_rank"`
}

func (s *Server) studentCreateHandler(w http.ResponseWriter, r *http.Request) {
	var req studentCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	student, err := s.studentUC.Register(r.Context(), s.orgID, usecase.RegisterStudentInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Document:  req.Document,
		Phone:     req.Phone,
		BeltRank:  req.BeltRank,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusCreated, student)
}

func (s *Server) studentListHandler(w http.ResponseWriter, r *http.Request) {
	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", 50)
	students, err := s.studentUC.List(r.Context(), s.orgID, offset, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, students)
}

func (s *Server) studentGetHandler(w http.ResponseWriter, r *http.Request) {
	student, err := s.studentUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, student)
}

func (s *Server) studentDeactivateHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.studentUC.Deactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

func (s *Server) studentPromoteHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BeltRank string `json:"belt_rank"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.studentUC.Promote(r.Context(), chi.URLParam(r, "id"), req.BeltRank); err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

// ---------------- plans ----------------

type planCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"` // centavos
	BillingType string `json:"billing_type"`
}

func (s *Server) planCreateHandler(w http.ResponseWriter, r *http.Request) {
	var req planCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	plan, err := s.planUC.Create(r.Context(), s.orgID, req.Name, req.Description, req.Price, req.BillingType)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusCreated, plan)
}

func (s *Server) planListHandler(w http.ResponseWriter, r *http.Request) {
	plans, err := s.planUC.ListActive(r.Context(), s.orgID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, plans)
}

func (s *Server) planDeactivateHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.planUC.Deactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

// ---------------- subscriptions ----------------

type subscriptionCreateRequest struct {
	StudentID        string    `json:"student_id"`
	PlanID           string    `json:"plan_id"`
	FirstBillingDate time.Time `json:"first_billing_date"`
}

func (s *Server) subscriptionCreateHandler(w http.ResponseWriter, r *http.Request) {
	var req subscriptionCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sub, err := s.subUC.Enroll(r.Context(), s.orgID, req.StudentID, req.PlanID, req.FirstBillingDate)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusCreated, sub)
}

func (s *Server) subscriptionGetHandler(w http.ResponseWriter, r *http.Request) {
	sub, err := s.subUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, sub)
}

func (s *Server) subscriptionCancelHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.subUC.Cancel(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

func (s *Server) subscriptionScheduleEndHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		At time.Time `json:"at"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.subUC.ScheduleEnd(r.Context(), chi.URLParam(r, "id"), req.At); err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

// ---------------- class occurrences ----------------

type occurrenceCreateRequest struct {
	CourseID     string    `json:"course_id"`
	InstructorID string    `json:"instructor_id"`
	Type         string    `json:"type"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	MaxStudents  int       `json:"max_students"`
}

func (s *Server) occurrenceCreateHandler(w http.ResponseWriter, r *http.Request) {
	var req occurrenceCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	occ, err := s.scheduleUC.ScheduleOccurrence(r.Context(), s.orgID, usecase.ScheduleOccurrenceInput{
		CourseID:     req.CourseID,
		InstructorID: req.InstructorID,
		Type:         req.Type,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		MaxStudents:  req.MaxStudents,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusCreated, occ)
}

func (s *Server) occurrenceListHandler(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	from, to := now.AddDate(0, 0, -7), now.AddDate(0, 0, 7)
	if v := r.URL.Query().Get("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			from = t
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			to = t
		}
	}
	occs, err := s.scheduleUC.ListBetween(r.Context(), s.orgID, from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, occs)
}

func (s *Server) occurrenceGetHandler(w http.ResponseWriter, r *http.Request) {
	occ, err := s.scheduleUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, occ)
}

func (s *Server) occurrenceEnrollHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StudentID string `json:"student_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.scheduleUC.Enroll(r.Context(), chi.URLParam(r, "id"), req.StudentID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

func (s *Server) occurrenceUnenrollHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StudentID string `json:"student_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.scheduleUC.Unenroll(r.Context(), chi.URLParam(r, "id"), req.StudentID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

// ---------------- check-in and attendance ----------------

type checkInRequest struct {
	StudentID        string `json:"student_id"`
	Method           string `json:"method"`
	PositionExecuted string `json:"position_executed"`
}

const (
	checkInRateLimit  = 10
	checkInRateWindow = time.Minute
)

func (s *Server) checkInHandler(w http.ResponseWriter, r *http.Request) {
	var req checkInRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if s.limiter != nil && req.StudentID != "" {
		ok, err := s.limiter.Allow(r.Context(), red.CheckInKey(req.StudentID), checkInRateLimit, checkInRateWindow)
		if err != nil {
			// Redis being down must not block the mat; let the check-in through.
			s.log.Warn().Err(err).Msg("rate limiter unavailable")
		} else if !ok {
			writeDomainError(w, domain.ErrRateLimited)
			return
		}
	}

	rec, err := s.attendanceUC.Track(r.Context(), chi.URLParam(r, "id"), req.StudentID, usecase.CheckInEvidence{
		Method:           req.Method,
		PositionExecuted: req.PositionExecuted,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, rec)
}

func (s *Server) rosterHandler(w http.ResponseWriter, r *http.Request) {
	recs, err := s.attendanceUC.OccurrenceRoster(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, recs)
}

func (s *Server) attendanceHistoryHandler(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	from, to := now.AddDate(0, -3, 0), now
	if v := r.URL.Query().Get("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			from = t
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			to = t
		}
	}
	recs, err := s.attendanceUC.History(r.Context(), chi.URLParam(r, "id"), from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, recs)
}

func (s *Server) attendanceStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.attendanceUC.Stats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, stats)
}

// ---------------- billing, payments, stats, insights ----------------

func (s *Server) billingRunHandler(w http.ResponseWriter, r *http.Request) {
	lookahead := queryInt(r, "lookahead_days", s.lookaheadDays)
	res, err := s.billingUC.GenerateCharges(r.Context(), s.orgID, lookahead)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, res)
}

func (s *Server) paymentListHandler(w http.ResponseWriter, r *http.Request) {
	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", 50)
	payments, err := s.paymentUC.ListByStudent(r.Context(), chi.URLParam(r, "id"), offset, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, payments)
}

func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	dash, err := s.statsUC.Dashboard(r.Context(), s.orgID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, dash)
}

func (s *Server) insightHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := s.insightUC.StudentSummary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"summary": summary})
}
