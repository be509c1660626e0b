package membership

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rhanierex/Gym-Management/internal/models"
)

// fakeStore is an in-memory Store. It mirrors the unique-index behavior of
// the real implementation so the registration retry path can be exercised.
type fakeStore struct {
	members    map[string]models.Member
	attendance map[string][]models.Attendance
	// forceDuplicates makes Create fail this many times before succeeding
	forceDuplicates int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		members:    make(map[string]models.Member),
		attendance: make(map[string][]models.Attendance),
	}
}

func (s *fakeStore) Create(ctx context.Context, m *models.Member) error {
	if s.forceDuplicates > 0 {
		s.forceDuplicates--
		return ErrDuplicateID
	}
	if _, exists := s.members[m.MemberID]; exists {
		return ErrDuplicateID
	}
	s.members[m.MemberID] = *m
	return nil
}

func (s *fakeStore) Update(ctx context.Context, m *models.Member) error {
	if _, exists := s.members[m.MemberID]; !exists {
		return ErrRecordNotFound
	}
	s.members[m.MemberID] = *m
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, memberID string) error {
	if _, exists := s.members[memberID]; !exists {
		return ErrRecordNotFound
	}
	delete(s.members, memberID)
	delete(s.attendance, memberID)
	return nil
}

func (s *fakeStore) FindByID(ctx context.Context, memberID string) (*models.Member, error) {
	m, exists := s.members[memberID]
	if !exists {
		return nil, ErrRecordNotFound
	}
	return &m, nil
}

func (s *fakeStore) ExistsID(ctx context.Context, memberID string) (bool, error) {
	_, exists := s.members[memberID]
	return exists, nil
}

func (s *fakeStore) SearchByName(ctx context.Context, substring string) ([]models.Member, error) {
	var out []models.Member
	for _, m := range s.members {
		if strings.Contains(strings.ToLower(m.Name), strings.ToLower(substring)) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *fakeStore) list(pred func(models.Member) bool) []models.Member {
	var out []models.Member
	for _, m := range s.members {
		if pred(m) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	return out
}

func (s *fakeStore) ListActive(ctx context.Context, asOf time.Time) ([]models.Member, error) {
	return s.list(func(m models.Member) bool { return !m.ExpiresAt.Before(asOf) }), nil
}

func (s *fakeStore) ListExpired(ctx context.Context, asOf time.Time) ([]models.Member, error) {
	return s.list(func(m models.Member) bool { return m.ExpiresAt.Before(asOf) }), nil
}

func (s *fakeStore) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]models.Member, error) {
	return s.list(func(m models.Member) bool {
		return !m.ExpiresAt.Before(from) && !m.ExpiresAt.After(to)
	}), nil
}

func (s *fakeStore) All(ctx context.Context) ([]models.Member, error) {
	out := s.list(func(models.Member) bool { return true })
	sort.Slice(out, func(i, j int) bool { return out[i].RegisteredAt.After(out[j].RegisteredAt) })
	return out, nil
}

func (s *fakeStore) SumTotals(ctx context.Context) (float64, error) {
	var sum float64
	for _, m := range s.members {
		sum += m.Total
	}
	return sum, nil
}

func (s *fakeStore) CountActive(ctx context.Context, asOf time.Time) (int64, error) {
	return int64(len(s.list(func(m models.Member) bool { return !m.ExpiresAt.Before(asOf) }))), nil
}

func (s *fakeStore) CountExpired(ctx context.Context, asOf time.Time) (int64, error) {
	return int64(len(s.list(func(m models.Member) bool { return m.ExpiresAt.Before(asOf) }))), nil
}

func (s *fakeStore) CountExpiringBetween(ctx context.Context, from, to time.Time) (int64, error) {
	members, _ := s.ListExpiringBetween(ctx, from, to)
	return int64(len(members)), nil
}

func testRegistry(store Store, at time.Time) *Registry {
	r := NewRegistry(store, nil)
	r.now = func() time.Time { return at }
	return r
}

func validInput() MemberInput {
	return MemberInput{
		Name:            "Budi Santoso",
		Address:         "Jl. Merdeka 1",
		Gender:          "male",
		Occupation:      "engineer",
		Phone:           "081234567890",
		PlanType:        "monthly",
		MonthlyFee:      100,
		RegistrationFee: 50,
	}
}

func TestGenerateMemberIDFormatAndUniqueness(t *testing.T) {
	store := newFakeStore()
	r := testRegistry(store, time.Now())

	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		id, err := r.GenerateMemberID(context.Background())
		if err != nil {
			t.Fatalf("GenerateMemberID() error on draw %d: %v", i+1, err)
		}
		if !MemberIDPattern.MatchString(id) {
			t.Fatalf("GenerateMemberID() = %q; want MG followed by six digits", id)
		}
		if seen[id] {
			t.Fatalf("GenerateMemberID() returned %q twice", id)
		}
		seen[id] = true

		// Persist the id so later draws must avoid it
		store.members[id] = models.Member{MemberID: id}
	}
}

func TestRegisterComputesExpiryAndTotal(t *testing.T) {
	registeredAt := date(2024, time.January, 1)
	r := testRegistry(newFakeStore(), registeredAt)

	m, err := r.Register(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	if !MemberIDPattern.MatchString(m.MemberID) {
		t.Errorf("member id %q does not match the MG format", m.MemberID)
	}
	if !m.RegisteredAt.Equal(registeredAt) {
		t.Errorf("RegisteredAt = %v; want %v", m.RegisteredAt, registeredAt)
	}
	if want := date(2024, time.January, 31); !m.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v; want %v", m.ExpiresAt, want)
	}
	if m.Total != 150 {
		t.Errorf("Total = %v; want 150 (one month plus registration fee)", m.Total)
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*MemberInput)
	}{
		{"empty name", func(in *MemberInput) { in.Name = "" }},
		{"empty phone", func(in *MemberInput) { in.Phone = "" }},
		{"unknown plan", func(in *MemberInput) { in.PlanType = "weekly" }},
		{"negative monthly fee", func(in *MemberInput) { in.MonthlyFee = -1 }},
		{"negative registration fee", func(in *MemberInput) { in.RegistrationFee = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testRegistry(newFakeStore(), time.Now())
			in := validInput()
			tt.mutate(&in)

			_, err := r.Register(context.Background(), in)
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Errorf("Register() error = %v; want ValidationError", err)
			}
		})
	}
}

func TestRegisterRetriesOnDuplicateID(t *testing.T) {
	store := newFakeStore()
	store.forceDuplicates = registerAttempts - 1
	r := testRegistry(store, time.Now())

	m, err := r.Register(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Register() error after collisions: %v", err)
	}
	if m == nil || m.MemberID == "" {
		t.Fatal("Register() returned no member after retries")
	}
}

func TestRegisterGivesUpAfterRepeatedCollisions(t *testing.T) {
	store := newFakeStore()
	store.forceDuplicates = registerAttempts
	r := testRegistry(store, time.Now())

	_, err := r.Register(context.Background(), validInput())
	var conflictErr *ConflictError
	if !errors.As(err, &conflictErr) {
		t.Errorf("Register() error = %v; want ConflictError", err)
	}
}

func TestEditKeepsRegistrationDate(t *testing.T) {
	registeredAt := date(2024, time.January, 1)
	r := testRegistry(newFakeStore(), registeredAt)

	m, err := r.Register(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	// Upgrade to quarterly a week later: the period still starts January 1
	r.now = func() time.Time { return date(2024, time.January, 8) }
	in := validInput()
	in.PlanType = "quarterly"

	edited, err := r.Edit(context.Background(), m.MemberID, in)
	if err != nil {
		t.Fatalf("Edit() error: %v", err)
	}
	if !edited.RegisteredAt.Equal(registeredAt) {
		t.Errorf("RegisteredAt = %v; editing must not reset the subscription clock", edited.RegisteredAt)
	}
	if want := date(2024, time.March, 31); !edited.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v; want %v (90 days from original registration)", edited.ExpiresAt, want)
	}
	if edited.Total != 350 {
		t.Errorf("Total = %v; want 350", edited.Total)
	}
}

func TestEditUnknownMember(t *testing.T) {
	r := testRegistry(newFakeStore(), time.Now())

	_, err := r.Edit(context.Background(), "MG000000", validInput())
	var notFoundErr *NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Errorf("Edit() error = %v; want NotFoundError", err)
	}
}

func TestRenewChainsPeriods(t *testing.T) {
	registeredAt := date(2024, time.January, 1)
	r := testRegistry(newFakeStore(), registeredAt)

	m, err := r.Register(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	renewed, err := r.Renew(context.Background(), m.MemberID)
	if err != nil {
		t.Fatalf("Renew() error: %v", err)
	}

	if want := date(2024, time.January, 31); !renewed.RegisteredAt.Equal(want) {
		t.Errorf("RegisteredAt = %v; want %v (previous expiry)", renewed.RegisteredAt, want)
	}
	if want := date(2024, time.March, 1); !renewed.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v; want %v", renewed.ExpiresAt, want)
	}
	if renewed.Total != 100 {
		t.Errorf("Total = %v; want 100 (registration fee waived)", renewed.Total)
	}

	// A second renewal chains from the new expiry, not from today
	again, err := r.Renew(context.Background(), m.MemberID)
	if err != nil {
		t.Fatalf("second Renew() error: %v", err)
	}
	if want := date(2024, time.March, 1); !again.RegisteredAt.Equal(want) {
		t.Errorf("second RegisteredAt = %v; want %v", again.RegisteredAt, want)
	}
}

func TestRenewLapsedMemberStartsAtOldExpiry(t *testing.T) {
	registeredAt := date(2024, time.January, 1)
	r := testRegistry(newFakeStore(), registeredAt)

	m, err := r.Register(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	// Renewal paid months after the membership lapsed
	r.now = func() time.Time { return date(2024, time.June, 1) }
	renewed, err := r.Renew(context.Background(), m.MemberID)
	if err != nil {
		t.Fatalf("Renew() error: %v", err)
	}
	if want := date(2024, time.January, 31); !renewed.RegisteredAt.Equal(want) {
		t.Errorf("RegisteredAt = %v; want %v, periods chain back-to-back", renewed.RegisteredAt, want)
	}
}

func TestDeleteCascadesAttendance(t *testing.T) {
	registeredAt := date(2024, time.January, 1)
	store := newFakeStore()
	r := testRegistry(store, registeredAt)

	m, err := r.Register(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	store.attendance[m.MemberID] = []models.Attendance{
		{MemberID: m.MemberID, CheckIn: registeredAt.Add(8 * time.Hour)},
		{MemberID: m.MemberID, CheckIn: registeredAt.AddDate(0, 0, 1)},
	}

	if err := r.Delete(context.Background(), m.MemberID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	if _, exists := store.members[m.MemberID]; exists {
		t.Error("member row still present after Delete()")
	}
	if got := len(store.attendance[m.MemberID]); got != 0 {
		t.Errorf("%d attendance records left after Delete(); want 0, no orphans", got)
	}

	_, err = r.FindByID(context.Background(), m.MemberID)
	var notFoundErr *NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Errorf("FindByID() after delete error = %v; want NotFoundError", err)
	}
}

func TestDeleteUnknownMember(t *testing.T) {
	r := testRegistry(newFakeStore(), time.Now())

	err := r.Delete(context.Background(), "MG999999")
	var notFoundErr *NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Errorf("Delete() error = %v; want NotFoundError", err)
	}
}

func TestListExpiringWithin(t *testing.T) {
	now := date(2024, time.June, 10)
	store := newFakeStore()
	r := testRegistry(store, now)

	seed := func(id string, expires time.Time) {
		store.members[id] = models.Member{MemberID: id, Name: id, ExpiresAt: expires, RegisteredAt: now}
	}
	seed("MG000001", now.Add(24*time.Hour))
	seed("MG000002", now.Add(72*time.Hour))
	seed("MG000003", now.Add(96*time.Hour))
	seed("MG000004", now.Add(-24*time.Hour))

	expiring, err := r.ListExpiringWithin(context.Background(), now, DefaultAlertWindow)
	if err != nil {
		t.Fatalf("ListExpiringWithin() error: %v", err)
	}

	if len(expiring) != 2 {
		t.Fatalf("got %d expiring members; want 2", len(expiring))
	}
	if expiring[0].MemberID != "MG000001" || expiring[1].MemberID != "MG000002" {
		t.Errorf("expiring order = %s, %s; want soonest first", expiring[0].MemberID, expiring[1].MemberID)
	}
}

func TestRevenueByPeriod(t *testing.T) {
	store := newFakeStore()
	r := testRegistry(store, date(2024, time.March, 1))

	seed := func(id string, registered time.Time, total float64) {
		store.members[id] = models.Member{MemberID: id, RegisteredAt: registered, ExpiresAt: registered.AddDate(0, 0, 30), Total: total}
	}
	seed("MG000001", date(2024, time.January, 5), 150)
	seed("MG000002", date(2024, time.January, 20), 350)
	seed("MG000003", date(2024, time.February, 2), 150)

	periods, err := r.RevenueByPeriod(context.Background())
	if err != nil {
		t.Fatalf("RevenueByPeriod() error: %v", err)
	}

	if len(periods) != 2 {
		t.Fatalf("got %d periods; want 2", len(periods))
	}
	if periods[0].Period != "2024-02" {
		t.Errorf("first period = %s; want 2024-02 (newest first)", periods[0].Period)
	}
	if periods[1].Period != "2024-01" || periods[1].Count != 2 || periods[1].Total != 500 {
		t.Errorf("january period = %+v; want count 2 and total 500", periods[1])
	}
}

func TestStats(t *testing.T) {
	now := date(2024, time.June, 10)
	store := newFakeStore()
	r := testRegistry(store, now)

	seed := func(id string, expires time.Time, total float64) {
		store.members[id] = models.Member{MemberID: id, RegisteredAt: now, ExpiresAt: expires, Total: total}
	}
	seed("MG000001", now.Add(48*time.Hour), 150)
	seed("MG000002", now.Add(30*24*time.Hour), 350)
	seed("MG000003", now.Add(-24*time.Hour), 150)

	stats, err := r.Stats(context.Background(), now)
	if err != nil {
		t.Fatalf("Stats() error: %v", err)
	}

	if stats.ActiveMembers != 2 {
		t.Errorf("ActiveMembers = %d; want 2", stats.ActiveMembers)
	}
	if stats.ExpiredMembers != 1 {
		t.Errorf("ExpiredMembers = %d; want 1", stats.ExpiredMembers)
	}
	if stats.ExpiringSoon != 1 {
		t.Errorf("ExpiringSoon = %d; want 1", stats.ExpiringSoon)
	}
	if stats.TotalRevenue != 650 {
		t.Errorf("TotalRevenue = %v; want 650", stats.TotalRevenue)
	}
}
