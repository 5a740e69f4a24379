package http

import (
	"net/http"

	"tutortrack/internal/core"
)

type paymentRequest struct {
	OwnerID      string      `json:"ownerId"`
	TutorName    string      `json:"tutorName"`
	Amount       *core.Money `json:"amount"`
	PaymentMonth string      `json:"paymentMonth"`
}

func (s *Server) handlePayments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listPayments(w, r)
	case http.MethodPost:
		s.createPayment(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) createPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	payment := core.Payment{
		OwnerID:      req.OwnerID,
		TutorName:    req.TutorName,
		PaymentMonth: req.PaymentMonth,
	}
	if req.Amount != nil {
		payment.Amount = *req.Amount
	}

	created, err := s.payments.Record(r.Context(), payment)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentView(created))
}

func (s *Server) listPayments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	payments, err := s.payments.List(r.Context(), q.Get("ownerId"), q.Get("paymentMonth"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	views := make([]paymentView, 0, len(payments))
	for _, p := range payments {
		views = append(views, toPaymentView(p))
	}
	writeJSON(w, http.StatusOK, views)
}
