package models

import (
	"time"
)

// PlanType represents the billing cadence of a membership
type PlanType string

const (
	PlanMonthly    PlanType = "monthly"
	PlanQuarterly  PlanType = "quarterly"
	PlanSemiannual PlanType = "semiannual"
	PlanAnnual     PlanType = "annual"
)

// ParsePlanType validates a raw plan string against the known plan types
func ParsePlanType(s string) (PlanType, bool) {
	switch PlanType(s) {
	case PlanMonthly, PlanQuarterly, PlanSemiannual, PlanAnnual:
		return PlanType(s), true
	default:
		return "", false
	}
}

// Valid reports whether the plan type is one of the known cadences
func (p PlanType) Valid() bool {
	_, ok := ParsePlanType(string(p))
	return ok
}

// Label returns a human-readable form of the plan type for display
func (p PlanType) Label() string {
	switch p {
	case PlanMonthly:
		return "Monthly"
	case PlanQuarterly:
		return "Quarterly"
	case PlanSemiannual:
		return "Semiannual"
	case PlanAnnual:
		return "Annual"
	default:
		return string(p)
	}
}

// Member represents a gym member and their current subscription period
type Member struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// MemberID is the public identifier (MG + 6 digits) printed on the
	// member card and embedded in the QR payload. Immutable after creation.
	MemberID string `gorm:"type:varchar(20);uniqueIndex" json:"member_id"`

	// RegisteredAt is the start of the current subscription period. Renewal
	// moves it forward to the previous expiry date.
	RegisteredAt time.Time `json:"registered_at"`
	ExpiresAt    time.Time `gorm:"index" json:"expires_at"`

	PlanType        PlanType `gorm:"type:varchar(20)" json:"plan_type"`
	MonthlyFee      float64  `gorm:"type:decimal(15,2)" json:"monthly_fee"`
	RegistrationFee float64  `gorm:"type:decimal(15,2)" json:"registration_fee"`
	Total           float64  `gorm:"type:decimal(15,2)" json:"total"`

	Name       string `gorm:"type:varchar(100)" json:"name"`
	Address    string `gorm:"type:text" json:"address"`
	Gender     string `gorm:"type:varchar(20)" json:"gender"`
	Occupation string `gorm:"type:varchar(100)" json:"occupation"`
	Phone      string `gorm:"type:varchar(20)" json:"phone"`

	// Relationships
	Attendances []Attendance `gorm:"foreignKey:MemberID;references:MemberID" json:"attendances,omitempty"`
}

// DaysLeft returns the whole days between asOf and the expiry date.
// Negative means the membership lapsed that many days ago.
func (m Member) DaysLeft(asOf time.Time) int {
	expiry := time.Date(m.ExpiresAt.Year(), m.ExpiresAt.Month(), m.ExpiresAt.Day(), 0, 0, 0, 0, m.ExpiresAt.Location())
	day := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, asOf.Location())
	return int(expiry.Sub(day).Hours() / 24)
}

// Expired reports whether the membership has lapsed as of the given time
func (m Member) Expired(asOf time.Time) bool {
	return m.ExpiresAt.Before(asOf)
}
