package http

import (
	"net/http"
	"strconv"
	"time"

	"tutortrack/internal/core"
)

// visitRequest carries a new visit. Cost is optional; when omitted the
// tutor's default cost applies.
type visitRequest struct {
	OwnerID   string      `json:"ownerId"`
	TutorName string      `json:"tutorName"`
	Cost      *core.Money `json:"cost"`
	VisitDate *time.Time  `json:"visitDate"`
}

func (s *Server) handleVisits(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listVisits(w, r)
	case http.MethodPost:
		s.createVisit(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) createVisit(w http.ResponseWriter, r *http.Request) {
	var req visitRequest
	if !decodeBody(w, r, &req) {
		return
	}

	visit := core.Visit{
		OwnerID:   req.OwnerID,
		TutorName: req.TutorName,
	}
	if req.Cost != nil {
		visit.Cost = *req.Cost
	}
	if req.VisitDate != nil {
		visit.VisitDate = *req.VisitDate
	}

	created, err := s.visits.Record(r.Context(), visit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toVisitView(created))
}

// listVisits returns the owner's visits, newest first, optionally filtered
// to one UTC calendar month via year= and month= query params.
func (s *Server) listVisits(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var period *core.Range
	if q.Get("year") != "" || q.Get("month") != "" {
		year, err := strconv.Atoi(q.Get("year"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		month, err := strconv.Atoi(q.Get("month"))
		if err != nil || month < 1 || month > 12 {
			writeError(w, http.StatusBadRequest, "invalid month")
			return
		}
		rng := core.MonthRange(year, time.Month(month))
		period = &rng
	}

	visits, err := s.visits.List(r.Context(), q.Get("ownerId"), period)
	if err != nil {
		respondError(w, r, err)
		return
	}

	views := make([]visitView, 0, len(visits))
	for _, v := range visits {
		views = append(views, toVisitView(v))
	}
	writeJSON(w, http.StatusOK, views)
}
