package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rhanierex/Gym-Management/internal/membership"
	"github.com/rhanierex/Gym-Management/internal/models"
)

// GormStore is the Postgres-backed attendance store
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

type gormTxStore struct {
	tx *gorm.DB
}

func (s *gormTxStore) LatestOpen(ctx context.Context, memberID string) (*models.Attendance, error) {
	var a models.Attendance
	err := s.tx.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("id desc").
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !a.Open() {
		return nil, nil
	}
	return &a, nil
}

func (s *gormTxStore) Create(ctx context.Context, a *models.Attendance) error {
	return s.tx.WithContext(ctx).Create(a).Error
}

func (s *gormTxStore) Update(ctx context.Context, a *models.Attendance) error {
	return s.tx.WithContext(ctx).Save(a).Error
}

// WithMemberLock runs fn inside a transaction holding a FOR UPDATE lock on
// the member row, so two concurrent scans for the same member serialize and
// cannot both observe the same open record.
func (s *GormStore) WithMemberLock(ctx context.Context, memberID string, fn func(tx TxStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m models.Member
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("member_id = ?", memberID).
			First(&m).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &membership.NotFoundError{MemberID: memberID}
		}
		if err != nil {
			return fmt.Errorf("lock member row: %w", err)
		}
		return fn(&gormTxStore{tx: tx})
	})
}

func (s *GormStore) List(ctx context.Context, f Filter) ([]models.Attendance, error) {
	q := s.db.WithContext(ctx).Model(&models.Attendance{})

	if f.Date != nil {
		start := time.Date(f.Date.Year(), f.Date.Month(), f.Date.Day(), 0, 0, 0, 0, f.Date.Location())
		q = q.Where("check_in >= ? AND check_in < ?", start, start.AddDate(0, 0, 1))
	}
	if f.MemberID != "" {
		q = q.Where("member_id LIKE ?", "%"+f.MemberID+"%")
	}

	var records []models.Attendance
	err := q.Order("check_in desc").Find(&records).Error
	return records, err
}

func (s *GormStore) SummaryOn(ctx context.Context, day time.Time) (Summary, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var summary Summary
	err := s.db.WithContext(ctx).Model(&models.Attendance{}).
		Where("check_in >= ? AND check_in < ?", start, end).
		Count(&summary.TotalScans).Error
	if err != nil {
		return summary, err
	}

	err = s.db.WithContext(ctx).Model(&models.Attendance{}).
		Where("check_in >= ? AND check_in < ? AND check_out IS NULL", start, end).
		Count(&summary.CheckedIn).Error
	return summary, err
}
