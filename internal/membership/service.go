package membership

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rhanierex/Gym-Management/internal/models"
)

const (
	memberIDPrefix = "MG"

	// registerAttempts bounds how many identifier collisions a single
	// registration will ride out before giving up with a ConflictError.
	registerAttempts = 5

	generateAttempts = 100
)

// DefaultAlertWindow is how far ahead the expiry alerts look
const DefaultAlertWindow = 72 * time.Hour

// MemberIDPattern is the public identifier format. It is part of the QR
// contract and must not change while member cards are in circulation.
var MemberIDPattern = regexp.MustCompile(`^MG\d{6}$`)

// Alerter receives best-effort notifications about registry events. A failed
// delivery is logged by the registry and never fails the operation.
type Alerter interface {
	MemberRegistered(ctx context.Context, m models.Member) error
}

// Registry owns member records and applies the subscription policy on every
// create, edit and renewal.
type Registry struct {
	store  Store
	alerts Alerter
	now    func() time.Time
}

func NewRegistry(store Store, alerts Alerter) *Registry {
	return &Registry{
		store:  store,
		alerts: alerts,
		now:    time.Now,
	}
}

// MemberInput carries the caller-supplied fields for registration and edit
type MemberInput struct {
	Name            string  `json:"name"`
	Address         string  `json:"address"`
	Gender          string  `json:"gender"`
	Occupation      string  `json:"occupation"`
	Phone           string  `json:"phone"`
	PlanType        string  `json:"plan_type"`
	MonthlyFee      float64 `json:"monthly_fee"`
	RegistrationFee float64 `json:"registration_fee"`
}

func (in MemberInput) validate() (models.PlanType, error) {
	required := []struct {
		field, value string
	}{
		{"name", in.Name},
		{"address", in.Address},
		{"gender", in.Gender},
		{"occupation", in.Occupation},
		{"phone", in.Phone},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return "", &ValidationError{Field: f.field, Reason: "must not be empty"}
		}
	}
	plan, ok := models.ParsePlanType(in.PlanType)
	if !ok {
		return "", &ValidationError{Field: "plan_type", Reason: "unknown plan type " + in.PlanType}
	}
	if in.MonthlyFee < 0 {
		return "", &ValidationError{Field: "monthly_fee", Reason: "must not be negative"}
	}
	if in.RegistrationFee < 0 {
		return "", &ValidationError{Field: "registration_fee", Reason: "must not be negative"}
	}
	return plan, nil
}

func randomMemberID() string {
	digits := make([]byte, 6)
	for i := range digits {
		digits[i] = byte('0' + rand.Intn(10))
	}
	return memberIDPrefix + string(digits)
}

// GenerateMemberID produces a fresh unused identifier. The returned id is
// only reserved once a member row is created with it; Register relies on the
// unique index rather than this check-then-act probe.
func (r *Registry) GenerateMemberID(ctx context.Context) (string, error) {
	for i := 0; i < generateAttempts; i++ {
		id := randomMemberID()
		exists, err := r.store.ExistsID(ctx, id)
		if err != nil {
			return "", fmt.Errorf("check member id: %w", err)
		}
		if !exists {
			return id, nil
		}
	}
	return "", &ConflictError{Op: "generate member id"}
}

// Register creates a new member. The subscription clock starts now; expiry
// and total come from the subscription policy. A best-effort alert goes out
// after the row is committed.
func (r *Registry) Register(ctx context.Context, in MemberInput) (*models.Member, error) {
	plan, err := in.validate()
	if err != nil {
		return nil, err
	}

	registeredAt := r.now()
	for i := 0; i < registerAttempts; i++ {
		m := &models.Member{
			MemberID:        randomMemberID(),
			RegisteredAt:    registeredAt,
			ExpiresAt:       ExpiryFrom(registeredAt, plan),
			PlanType:        plan,
			MonthlyFee:      in.MonthlyFee,
			RegistrationFee: in.RegistrationFee,
			Total:           InitialTotal(plan, in.MonthlyFee, in.RegistrationFee),
			Name:            in.Name,
			Address:         in.Address,
			Gender:          in.Gender,
			Occupation:      in.Occupation,
			Phone:           in.Phone,
		}

		err := r.store.Create(ctx, m)
		if errors.Is(err, ErrDuplicateID) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create member: %w", err)
		}

		if r.alerts != nil {
			if err := r.alerts.MemberRegistered(ctx, *m); err != nil {
				log.Printf("new member alert for %s not delivered: %v", m.MemberID, err)
			}
		}
		return m, nil
	}
	return nil, &ConflictError{Op: "register"}
}

// Edit updates a member's profile and plan fields. The expiry date is
// recomputed from the EXISTING registration date: editing never resets the
// subscription clock.
func (r *Registry) Edit(ctx context.Context, memberID string, in MemberInput) (*models.Member, error) {
	plan, err := in.validate()
	if err != nil {
		return nil, err
	}

	m, err := r.findByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	m.Name = in.Name
	m.Address = in.Address
	m.Gender = in.Gender
	m.Occupation = in.Occupation
	m.Phone = in.Phone
	m.PlanType = plan
	m.MonthlyFee = in.MonthlyFee
	m.RegistrationFee = in.RegistrationFee
	m.ExpiresAt = ExpiryFrom(m.RegisteredAt, plan)
	m.Total = InitialTotal(plan, in.MonthlyFee, in.RegistrationFee)

	if err := r.store.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("update member: %w", err)
	}
	return m, nil
}

// Renew extends a member's subscription by one period starting from the
// current expiry date; periods chain back-to-back regardless of when the
// renewal is paid. A lapsed member's new period still starts at the old
// expiry date so the cadence of expiry dates never drifts. The registration
// fee is waived.
func (r *Registry) Renew(ctx context.Context, memberID string) (*models.Member, error) {
	m, err := r.findByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	m.RegisteredAt = m.ExpiresAt
	m.ExpiresAt = ExpiryFrom(m.RegisteredAt, m.PlanType)
	m.Total = RenewalTotal(m.PlanType, m.MonthlyFee)

	if err := r.store.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("renew member: %w", err)
	}
	return m, nil
}

// Delete removes a member together with their attendance history
func (r *Registry) Delete(ctx context.Context, memberID string) error {
	err := r.store.Delete(ctx, memberID)
	if errors.Is(err, ErrRecordNotFound) {
		return &NotFoundError{MemberID: memberID}
	}
	return err
}

func (r *Registry) findByID(ctx context.Context, memberID string) (*models.Member, error) {
	m, err := r.store.FindByID(ctx, memberID)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, &NotFoundError{MemberID: memberID}
	}
	if err != nil {
		return nil, fmt.Errorf("find member: %w", err)
	}
	return m, nil
}

// FindByID returns the member with the given public identifier
func (r *Registry) FindByID(ctx context.Context, memberID string) (*models.Member, error) {
	return r.findByID(ctx, memberID)
}

// FindByName returns members whose name contains the substring,
// case-insensitively
func (r *Registry) FindByName(ctx context.Context, substring string) ([]models.Member, error) {
	return r.store.SearchByName(ctx, substring)
}

// ListActive returns members whose subscription has not lapsed as of asOf,
// soonest expiry first
func (r *Registry) ListActive(ctx context.Context, asOf time.Time) ([]models.Member, error) {
	return r.store.ListActive(ctx, asOf)
}

// ListExpired returns members whose subscription lapsed before asOf
func (r *Registry) ListExpired(ctx context.Context, asOf time.Time) ([]models.Member, error) {
	return r.store.ListExpired(ctx, asOf)
}

// ListExpiringWithin returns members whose expiry falls inside
// [asOf, asOf+window], soonest first
func (r *Registry) ListExpiringWithin(ctx context.Context, asOf time.Time, window time.Duration) ([]models.Member, error) {
	return r.store.ListExpiringBetween(ctx, asOf, asOf.Add(window))
}

// TotalRevenue sums the stored totals of all members
func (r *Registry) TotalRevenue(ctx context.Context) (float64, error) {
	return r.store.SumTotals(ctx)
}

// MonthlyRevenue aggregates registrations for one calendar month
type MonthlyRevenue struct {
	Period  string          `json:"period"` // YYYY-MM
	Label   string          `json:"label"`  // e.g. "January 2024"
	Count   int             `json:"count"`
	Total   float64         `json:"total"`
	Members []models.Member `json:"members"`
}

// All returns every member, newest period first
func (r *Registry) All(ctx context.Context) ([]models.Member, error) {
	return r.store.All(ctx)
}

// RevenueByPeriod groups all members by the year and month of their current
// registration date, newest period first
func (r *Registry) RevenueByPeriod(ctx context.Context) ([]MonthlyRevenue, error) {
	members, err := r.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	byPeriod := make(map[string]*MonthlyRevenue)
	for _, m := range members {
		period := m.RegisteredAt.Format("2006-01")
		row, ok := byPeriod[period]
		if !ok {
			row = &MonthlyRevenue{
				Period: period,
				Label:  m.RegisteredAt.Format("January 2006"),
			}
			byPeriod[period] = row
		}
		row.Count++
		row.Total += m.Total
		row.Members = append(row.Members, m)
	}

	out := make([]MonthlyRevenue, 0, len(byPeriod))
	for _, row := range byPeriod {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period > out[j].Period })
	return out, nil
}

// GymStats are the headline numbers shown on the dashboard and in the bot's
// stats reply
type GymStats struct {
	ActiveMembers  int64   `json:"active_members"`
	ExpiredMembers int64   `json:"expired_members"`
	ExpiringSoon   int64   `json:"expiring_soon"`
	TotalRevenue   float64 `json:"total_revenue"`
}

// Stats computes the headline numbers as of the given time
func (r *Registry) Stats(ctx context.Context, asOf time.Time) (GymStats, error) {
	var stats GymStats
	var err error

	if stats.ActiveMembers, err = r.store.CountActive(ctx, asOf); err != nil {
		return stats, fmt.Errorf("count active: %w", err)
	}
	if stats.ExpiredMembers, err = r.store.CountExpired(ctx, asOf); err != nil {
		return stats, fmt.Errorf("count expired: %w", err)
	}
	if stats.ExpiringSoon, err = r.store.CountExpiringBetween(ctx, asOf, asOf.Add(DefaultAlertWindow)); err != nil {
		return stats, fmt.Errorf("count expiring: %w", err)
	}
	if stats.TotalRevenue, err = r.store.SumTotals(ctx); err != nil {
		return stats, fmt.Errorf("sum revenue: %w", err)
	}
	return stats, nil
}
