package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/rhanierex/Gym-Management/internal/membership"
	"github.com/rhanierex/Gym-Management/internal/models"
)

// ScanAction reports which way a scan toggled the member
type ScanAction string

const (
	ActionCheckIn  ScanAction = "check_in"
	ActionCheckOut ScanAction = "check_out"
)

// ScanResult is what the front-desk screen shows after a scan
type ScanResult struct {
	Action   ScanAction        `json:"action"`
	Member   models.Member     `json:"member"`
	Record   models.Attendance `json:"record"`
	Duration time.Duration     `json:"duration,omitempty"`
}

// Filter narrows attendance listings
type Filter struct {
	// Date restricts to records whose check-in falls on this calendar day
	Date *time.Time
	// MemberID is matched as a substring of the member identifier
	MemberID string
}

// Summary are the day counters shown above the attendance table
type Summary struct {
	CheckedIn  int64 `json:"checked_in"`
	TotalScans int64 `json:"total_scans"`
}

// TxStore is the slice of the store visible inside a member-locked toggle
type TxStore interface {
	// LatestOpen returns the member's most recent record if it is still
	// open, nil otherwise.
	LatestOpen(ctx context.Context, memberID string) (*models.Attendance, error)
	Create(ctx context.Context, a *models.Attendance) error
	Update(ctx context.Context, a *models.Attendance) error
}

// Store is the persistence boundary of the tracker. WithMemberLock must
// serialize concurrent toggles for the same member: the Postgres
// implementation locks the member row FOR UPDATE for the duration of fn.
type Store interface {
	WithMemberLock(ctx context.Context, memberID string, fn func(tx TxStore) error) error
	List(ctx context.Context, f Filter) ([]models.Attendance, error)
	SummaryOn(ctx context.Context, day time.Time) (Summary, error)
}

// MemberFinder resolves member identifiers; satisfied by membership.Registry
type MemberFinder interface {
	FindByID(ctx context.Context, memberID string) (*models.Member, error)
}

// Tracker enforces the per-member check-in/check-out state machine. A member
// is either inside (one open record) or outside; every accepted scan toggles
// between the two. There is no "already inside" rejection: the scan is the
// only input the kiosk has, so a second scan always means check-out.
type Tracker struct {
	store   Store
	members MemberFinder
	now     func() time.Time
}

func NewTracker(store Store, members MemberFinder) *Tracker {
	return &Tracker{
		store:   store,
		members: members,
		now:     time.Now,
	}
}

// Scan toggles the member between inside and outside. Expired members are
// rejected before any record is touched.
func (t *Tracker) Scan(ctx context.Context, memberID string) (*ScanResult, error) {
	m, err := t.members.FindByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	now := t.now()
	if m.Expired(now) {
		return nil, &membership.ExpiredError{
			MemberID:  m.MemberID,
			Name:      m.Name,
			ExpiresAt: m.ExpiresAt,
		}
	}

	var result *ScanResult
	err = t.store.WithMemberLock(ctx, memberID, func(tx TxStore) error {
		open, err := tx.LatestOpen(ctx, memberID)
		if err != nil {
			return fmt.Errorf("load open record: %w", err)
		}

		if open != nil {
			out := now
			open.CheckOut = &out
			open.Status = models.AttendanceCheckedOut
			if err := tx.Update(ctx, open); err != nil {
				return fmt.Errorf("close record: %w", err)
			}
			result = &ScanResult{
				Action:   ActionCheckOut,
				Member:   *m,
				Record:   *open,
				Duration: open.Duration(),
			}
			return nil
		}

		rec := &models.Attendance{
			MemberID: memberID,
			CheckIn:  now,
			Status:   models.AttendanceCheckedIn,
		}
		if err := tx.Create(ctx, rec); err != nil {
			return fmt.Errorf("open record: %w", err)
		}
		result = &ScanResult{
			Action: ActionCheckIn,
			Member: *m,
			Record: *rec,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListByFilter returns attendance records, newest check-in first
func (t *Tracker) ListByFilter(ctx context.Context, f Filter) ([]models.Attendance, error) {
	return t.store.List(ctx, f)
}

// TodaySummary counts today's scans and how many members are inside now
func (t *Tracker) TodaySummary(ctx context.Context, asOf time.Time) (Summary, error) {
	return t.store.SummaryOn(ctx, asOf)
}
