package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/subtrackr/backend/pkg/enums"
)

// Subscription is a user's recurring paid service. PaymentDate anchors renewal
// boundaries: the next renewal is PaymentDate plus one billing-cycle unit.
// MonthlyCost is derived at write time so analytics never re-normalize.
type Subscription struct {
	ID                uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID            uuid.UUID          `gorm:"column:user_id;type:uuid;not null;index"`
	ServiceID         uuid.UUID          `gorm:"column:service_id;type:uuid;not null;index"`
	Account           string             `gorm:"column:account;not null"`
	PaymentDate       time.Time          `gorm:"column:payment_date;not null"`
	Cost              decimal.Decimal    `gorm:"column:cost;type:numeric(12,2);not null"`
	BillingCycle      enums.BillingCycle `gorm:"column:billing_cycle;type:text;not null;default:'monthly'"`
	MonthlyCost       decimal.Decimal    `gorm:"column:monthly_cost;type:numeric(12,2);not null"`
	AutoPay           bool               `gorm:"column:auto_pay;not null;default:false"`
	IsTrial           bool               `gorm:"column:is_trial;not null;default:false"`
	TrialStartDate    *time.Time         `gorm:"column:trial_start_date"`
	TrialEndDate      *time.Time         `gorm:"column:trial_end_date"`
	TrialDurationDays int                `gorm:"column:trial_duration_days;not null;default:0"`
	CreatedAt         time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time          `gorm:"column:updated_at;autoUpdateTime"`

	Service *Service `gorm:"foreignKey:ServiceID"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
