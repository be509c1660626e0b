package membership

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/rhanierex/Gym-Management/internal/models"
)

// GormStore is the Postgres-backed Store implementation
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, m *models.Member) error {
	err := s.db.WithContext(ctx).Create(m).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateID
	}
	return err
}

func (s *GormStore) Update(ctx context.Context, m *models.Member) error {
	return s.db.WithContext(ctx).Save(m).Error
}

func (s *GormStore) Delete(ctx context.Context, memberID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("member_id = ?", memberID).Delete(&models.Member{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRecordNotFound
		}
		if err := tx.Where("member_id = ?", memberID).Delete(&models.Attendance{}).Error; err != nil {
			return fmt.Errorf("cascade attendance delete: %w", err)
		}
		return nil
	})
}

func (s *GormStore) FindByID(ctx context.Context, memberID string) (*models.Member, error) {
	var m models.Member
	err := s.db.WithContext(ctx).Where("member_id = ?", memberID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *GormStore) ExistsID(ctx context.Context, memberID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Member{}).Where("member_id = ?", memberID).Count(&count).Error
	return count > 0, err
}

func (s *GormStore) SearchByName(ctx context.Context, substring string) ([]models.Member, error) {
	var members []models.Member
	err := s.db.WithContext(ctx).
		Where("name ILIKE ?", "%"+substring+"%").
		Order("name asc").
		Find(&members).Error
	return members, err
}

func (s *GormStore) ListActive(ctx context.Context, asOf time.Time) ([]models.Member, error) {
	var members []models.Member
	err := s.db.WithContext(ctx).
		Where("expires_at >= ?", asOf).
		Order("expires_at asc").
		Find(&members).Error
	return members, err
}

func (s *GormStore) ListExpired(ctx context.Context, asOf time.Time) ([]models.Member, error) {
	var members []models.Member
	err := s.db.WithContext(ctx).
		Where("expires_at < ?", asOf).
		Order("expires_at asc").
		Find(&members).Error
	return members, err
}

func (s *GormStore) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]models.Member, error) {
	var members []models.Member
	err := s.db.WithContext(ctx).
		Where("expires_at >= ? AND expires_at <= ?", from, to).
		Order("expires_at asc").
		Find(&members).Error
	return members, err
}

func (s *GormStore) All(ctx context.Context) ([]models.Member, error) {
	var members []models.Member
	err := s.db.WithContext(ctx).Order("registered_at desc").Find(&members).Error
	return members, err
}

func (s *GormStore) SumTotals(ctx context.Context) (float64, error) {
	var sum float64
	err := s.db.WithContext(ctx).Model(&models.Member{}).
		Select("COALESCE(SUM(total), 0)").
		Scan(&sum).Error
	return sum, err
}

func (s *GormStore) CountActive(ctx context.Context, asOf time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Member{}).
		Where("expires_at >= ?", asOf).
		Count(&count).Error
	return count, err
}

func (s *GormStore) CountExpired(ctx context.Context, asOf time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Member{}).
		Where("expires_at < ?", asOf).
		Count(&count).Error
	return count, err
}

func (s *GormStore) CountExpiringBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Member{}).
		Where("expires_at >= ? AND expires_at <= ?", from, to).
		Count(&count).Error
	return count, err
}
