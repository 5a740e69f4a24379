package core

// TutorTotals is the per-tutor aggregate for one period: how many visits
// and what they add up to.
type TutorTotals struct {
	Count int
	Total Money
}

// VisitGroup maps tutor name to that tutor's totals within a period.
// Tutors with no visits in the period are simply absent; callers treat a
// missing key as zero.
type VisitGroup map[string]TutorTotals

// Summary is the combined reporting view for one owner at one instant:
// three period groupings plus the paid-tutor flags for the previous month.
type Summary struct {
	CurrentMonth  VisitGroup
	PreviousMonth VisitGroup
	YearToDate    VisitGroup
	// PaidTutors flags tutors with a recorded payment for PreviousMonth.
	PaidTutors map[string]bool
	// PreviousMonthString is the "YYYY-MM" key clients submit new payment
	// acknowledgements against.
	PreviousMonthString string
}
