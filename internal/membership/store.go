package membership

import (
	"context"
	"errors"
	"time"

	"github.com/rhanierex/Gym-Management/internal/models"
)

// Store errors. The GORM implementation translates driver errors into these;
// fakes in tests return them directly.
var (
	ErrRecordNotFound = errors.New("membership: record not found")
	ErrDuplicateID    = errors.New("membership: member id already taken")
)

// Store is the persistence boundary of the member registry. Each method is a
// single transactional unit; Create relies on the unique index on member_id
// so concurrent registrations cannot both claim the same identifier.
type Store interface {
	Create(ctx context.Context, m *models.Member) error
	Update(ctx context.Context, m *models.Member) error
	// Delete removes the member and all of their attendance history in one
	// transaction. Returns ErrRecordNotFound if the member does not exist.
	Delete(ctx context.Context, memberID string) error

	FindByID(ctx context.Context, memberID string) (*models.Member, error)
	ExistsID(ctx context.Context, memberID string) (bool, error)
	SearchByName(ctx context.Context, substring string) ([]models.Member, error)

	// Expiry-ordered listings, ascending by expires_at.
	ListActive(ctx context.Context, asOf time.Time) ([]models.Member, error)
	ListExpired(ctx context.Context, asOf time.Time) ([]models.Member, error)
	ListExpiringBetween(ctx context.Context, from, to time.Time) ([]models.Member, error)

	All(ctx context.Context) ([]models.Member, error)
	SumTotals(ctx context.Context) (float64, error)
	CountActive(ctx context.Context, asOf time.Time) (int64, error)
	CountExpired(ctx context.Context, asOf time.Time) (int64, error)
	CountExpiringBetween(ctx context.Context, from, to time.Time) (int64, error)
}
