package http

import (
	"net/http"

	"tutortrack/internal/core"
)

type tutorRequest struct {
	OwnerID     string      `json:"ownerId"`
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	DefaultCost *core.Money `json:"defaultCost"`
	Aliases     []string    `json:"aliases"`
}

func (req tutorRequest) toDomain() core.Tutor {
	t := core.Tutor{
		ID:      req.ID,
		OwnerID: req.OwnerID,
		Name:    req.Name,
		Aliases: req.Aliases,
	}
	if req.DefaultCost != nil {
		t.DefaultCost = *req.DefaultCost
	}
	return t
}

func (s *Server) handleTutors(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTutors(w, r)
	case http.MethodPost:
		s.createTutor(w, r)
	case http.MethodPut:
		s.updateTutor(w, r)
	case http.MethodDelete:
		s.deleteTutor(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listTutors(w http.ResponseWriter, r *http.Request) {
	tutors, err := s.tutors.List(r.Context(), r.URL.Query().Get("ownerId"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	views := make([]tutorView, 0, len(tutors))
	for _, t := range tutors {
		views = append(views, toTutorView(t))
	}
	writeJSON(w, http.StatusOK, map[string][]tutorView{"tutors": views})
}

func (s *Server) createTutor(w http.ResponseWriter, r *http.Request) {
	var req tutorRequest
	if !decodeBody(w, r, &req) {
		return
	}

	created, err := s.tutors.Create(r.Context(), req.toDomain())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTutorView(created))
}

func (s *Server) updateTutor(w http.ResponseWriter, r *http.Request) {
	var req tutorRequest
	if !decodeBody(w, r, &req) {
		return
	}

	updated, err := s.tutors.Update(r.Context(), req.toDomain())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTutorView(updated))
}

func (s *Server) deleteTutor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OwnerID string `json:"ownerId"`
		ID      int64  `json:"id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	purged, err := s.tutors.Delete(r.Context(), req.OwnerID, req.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"purgedVisits": purged})
}
