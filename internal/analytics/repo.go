package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/subtrackr/backend/pkg/db/models"
)

// SnapshotRepository persists monthly spend captures.
type SnapshotRepository interface {
	WithTx(tx *gorm.DB) SnapshotRepository
	Upsert(ctx context.Context, snapshot *models.SpendSnapshot) error
	ListRecent(ctx context.Context, userID uuid.UUID, months int) ([]models.SpendSnapshot, error)
}

type snapshotRepositoryImpl struct {
	db *gorm.DB
}

// NewSnapshotRepository returns a spend snapshot repository bound to the provided database.
func NewSnapshotRepository(db *gorm.DB) SnapshotRepository {
	return &snapshotRepositoryImpl{db: db}
}

func (r *snapshotRepositoryImpl) WithTx(tx *gorm.DB) SnapshotRepository {
	if tx == nil {
		return r
	}
	return &snapshotRepositoryImpl{db: tx}
}

// Upsert writes one row per user per month. Re-running a capture inside the
// same month overwrites the stored cost with the latest value.
func (r *snapshotRepositoryImpl) Upsert(ctx context.Context, snapshot *models.SpendSnapshot) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "month"}},
			DoUpdates: clause.AssignmentColumns([]string{"monthly_cost"}),
		}).
		Create(snapshot).Error
}

func (r *snapshotRepositoryImpl) ListRecent(ctx context.Context, userID uuid.UUID, months int) ([]models.SpendSnapshot, error) {
	var snapshots []models.SpendSnapshot
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("month DESC").
		Limit(months).
		Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

// MonthOf truncates a timestamp to the first of its UTC month, the key
// snapshots are stored under.
func MonthOf(t time.Time) time.Time {
	return time.Date(t.UTC().Year(), t.UTC().Month(), 1, 0, 0, 0, 0, time.UTC)
}
