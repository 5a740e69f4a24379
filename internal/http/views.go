package http

import (
	"time"

	"tutortrack/internal/core"
)

// View types fix the JSON wire shape independently of the domain structs.
// Money fields render as 2-decimal strings, timestamps as RFC 3339.

type tutorView struct {
	ID          int64      `json:"id"`
	OwnerID     string     `json:"ownerId"`
	Name        string     `json:"name"`
	DefaultCost core.Money `json:"defaultCost"`
	Aliases     []string   `json:"aliases,omitempty"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func toTutorView(t core.Tutor) tutorView {
	return tutorView{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		Name:        t.Name,
		DefaultCost: t.DefaultCost,
		Aliases:     t.Aliases,
		IsActive:    t.IsActive,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

type visitView struct {
	ID        int64      `json:"id"`
	OwnerID   string     `json:"ownerId"`
	TutorName string     `json:"tutorName"`
	Cost      core.Money `json:"cost"`
	VisitDate time.Time  `json:"visitDate"`
	CreatedAt time.Time  `json:"createdAt"`
}

func toVisitView(v core.Visit) visitView {
	return visitView{
		ID:        v.ID,
		OwnerID:   v.OwnerID,
		TutorName: v.TutorName,
		Cost:      v.Cost,
		VisitDate: v.VisitDate,
		CreatedAt: v.CreatedAt,
	}
}

type paymentView struct {
	ID           int64      `json:"id"`
	OwnerID      string     `json:"ownerId"`
	TutorName    string     `json:"tutorName"`
	Amount       core.Money `json:"amount"`
	PaymentMonth string     `json:"paymentMonth"`
	PaymentDate  time.Time  `json:"paymentDate"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func toPaymentView(p core.Payment) paymentView {
	return paymentView{
		ID:           p.ID,
		OwnerID:      p.OwnerID,
		TutorName:    p.TutorName,
		Amount:       p.Amount,
		PaymentMonth: p.PaymentMonth,
		PaymentDate:  p.PaymentDate,
		CreatedAt:    p.CreatedAt,
	}
}

type totalsView struct {
	Count int        `json:"count"`
	Total core.Money `json:"total"`
}

type summaryView struct {
	CurrentMonth        map[string]totalsView `json:"currentMonth"`
	PreviousMonth       map[string]totalsView `json:"previousMonth"`
	YearToDate          map[string]totalsView `json:"ytd"`
	PaidTutors          map[string]bool       `json:"paidTutors"`
	PreviousMonthString string                `json:"previousMonthString"`
}

func toGroupView(g core.VisitGroup) map[string]totalsView {
	out := make(map[string]totalsView, len(g))
	for name, totals := range g {
		out[name] = totalsView{Count: totals.Count, Total: totals.Total}
	}
	return out
}

func toSummaryView(s core.Summary) summaryView {
	paid := s.PaidTutors
	if paid == nil {
		paid = map[string]bool{}
	}
	return summaryView{
		CurrentMonth:        toGroupView(s.CurrentMonth),
		PreviousMonth:       toGroupView(s.PreviousMonth),
		YearToDate:          toGroupView(s.YearToDate),
		PaidTutors:          paid,
		PreviousMonthString: s.PreviousMonthString,
	}
}
