package core

import (
	"errors"
	"strings"
	"time"
)

// Field limits mirror the storage schema.
const (
	maxOwnerLen = 50
	maxNameLen  = 50
)

type (
	// Tutor is a billable service provider an owner tracks visits for.
	// Tutors are soft-deleted: inactive tutors disappear from listings but
	// their historical visits and payments stay in place.
	Tutor struct {
		ID          int64
		OwnerID     string
		Name        string
		DefaultCost Money
		// Aliases are extra display labels for the same tutor, rendered as
		// separate affordances by clients. Purely presentational.
		Aliases   []string
		IsActive  bool
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	// Visit is one billable occurrence of service. Visits are immutable
	// once recorded; they reference the tutor by display name.
	Visit struct {
		ID        int64
		OwnerID   string
		TutorName string
		Cost      Money
		VisitDate time.Time
		CreatedAt time.Time
	}

	// Payment acknowledges that a tutor was paid for a calendar month.
	// At most one payment may exist per (owner, tutor, month).
	Payment struct {
		ID           int64
		OwnerID      string
		TutorName    string
		Amount       Money
		PaymentMonth string
		PaymentDate  time.Time
		CreatedAt    time.Time
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyOwner       = errors.New("empty owner id")
	ErrOwnerTooLong     = errors.New("owner id too long (max 50 characters)")
	ErrEmptyName        = errors.New("empty tutor name")
	ErrNameTooLong      = errors.New("tutor name too long (max 50 characters)")
	ErrInvalidAlias     = errors.New("invalid alias label")
	ErrZeroVisitDate    = errors.New("visit date cannot be zero")
	ErrInvalidMonthKey  = errors.New("invalid payment month, expected YYYY-MM")
	ErrTutorNotFound    = errors.New("tutor not found")
	ErrDuplicatePayment = errors.New("payment already recorded for this month")
)

// IsValidation reports whether err is one of the request-validation
// failures, as opposed to not-found, conflict or storage errors.
func IsValidation(err error) bool {
	for _, sentinel := range []error{
		ErrInvalidAmount, ErrEmptyOwner, ErrOwnerTooLong, ErrEmptyName,
		ErrNameTooLong, ErrInvalidAlias, ErrZeroVisitDate, ErrInvalidMonthKey,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// ValidateOwnerID checks the free-text owner identifier that scopes all
// data. Owners are not verified principals, just a chosen name.
func ValidateOwnerID(ownerID string) error {
	return validateOwner(ownerID)
}

func validateOwner(ownerID string) error {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return ErrEmptyOwner
	}
	if len(ownerID) > maxOwnerLen {
		return ErrOwnerTooLong
	}
	return nil
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > maxNameLen {
		return ErrNameTooLong
	}
	return nil
}

func (t Tutor) Validate() error {
	if err := validateOwner(t.OwnerID); err != nil {
		return err
	}
	if err := validateName(t.Name); err != nil {
		return err
	}
	if err := t.DefaultCost.Validate(); err != nil {
		return err
	}
	for _, a := range t.Aliases {
		if strings.TrimSpace(a) == "" || len(a) > maxNameLen {
			return ErrInvalidAlias
		}
	}
	return nil
}

func (v Visit) Validate() error {
	if err := validateOwner(v.OwnerID); err != nil {
		return err
	}
	if err := validateName(v.TutorName); err != nil {
		return err
	}
	if err := v.Cost.Validate(); err != nil {
		return err
	}
	if v.VisitDate.IsZero() {
		return ErrZeroVisitDate
	}
	return nil
}

func (p Payment) Validate() error {
	if err := validateOwner(p.OwnerID); err != nil {
		return err
	}
	if err := validateName(p.TutorName); err != nil {
		return err
	}
	if err := p.Amount.Validate(); err != nil {
		return err
	}
	if _, _, err := ParseMonthKey(p.PaymentMonth); err != nil {
		return err
	}
	return nil
}
