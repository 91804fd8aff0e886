package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SpendSnapshot captures a user's total monthly-normalized spend at a point in
// time, one row per user per calendar month. The analytics trend is read from
// these rows instead of being synthesized.
type SpendSnapshot struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_spend_snapshots_user_month"`
	Month       time.Time       `gorm:"column:month;not null;uniqueIndex:idx_spend_snapshots_user_month"`
	MonthlyCost decimal.Decimal `gorm:"column:monthly_cost;type:numeric(12,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (s *SpendSnapshot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
