package subscriptions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/subtrackr/backend/internal/expiration"
	"github.com/subtrackr/backend/pkg/db/models"
	"github.com/subtrackr/backend/pkg/enums"
)

// CreateRequest captures the fields needed to record a subscription.
type CreateRequest struct {
	ServiceName       string          `json:"service_name" validate:"required,max=120"`
	Account           string          `json:"account" validate:"required,max=200"`
	PaymentDate       time.Time       `json:"payment_date" validate:"required"`
	Cost              decimal.Decimal `json:"cost"`
	BillingCycle      string          `json:"billing_cycle" validate:"omitempty,oneof=monthly yearly weekly"`
	AutoPay           bool            `json:"auto_pay"`
	IsTrial           bool            `json:"is_trial"`
	TrialStartDate    *time.Time      `json:"trial_start_date,omitempty"`
	TrialEndDate      *time.Time      `json:"trial_end_date,omitempty"`
	TrialDurationDays int             `json:"trial_duration_days" validate:"gte=0"`
}

// UpdateRequest carries partial updates; nil fields are left untouched.
type UpdateRequest struct {
	Account           *string          `json:"account,omitempty" validate:"omitempty,max=200"`
	PaymentDate       *time.Time       `json:"payment_date,omitempty"`
	Cost              *decimal.Decimal `json:"cost,omitempty"`
	BillingCycle      *string          `json:"billing_cycle,omitempty" validate:"omitempty,oneof=monthly yearly weekly"`
	AutoPay           *bool            `json:"auto_pay,omitempty"`
	IsTrial           *bool            `json:"is_trial,omitempty"`
	TrialStartDate    *time.Time       `json:"trial_start_date,omitempty"`
	TrialEndDate      *time.Time       `json:"trial_end_date,omitempty"`
	TrialDurationDays *int             `json:"trial_duration_days,omitempty" validate:"omitempty,gte=0"`
}

// ServiceSummaryDTO surfaces limited catalog data for subscription responses.
type ServiceSummaryDTO struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	IconURL  string    `json:"icon_url,omitempty"`
}

// SubscriptionDTO represents the subscription payload returned to clients.
type SubscriptionDTO struct {
	ID                uuid.UUID          `json:"id"`
	Service           ServiceSummaryDTO  `json:"service"`
	Account           string             `json:"account"`
	PaymentDate       time.Time          `json:"payment_date"`
	Cost              decimal.Decimal    `json:"cost"`
	BillingCycle      enums.BillingCycle `json:"billing_cycle"`
	MonthlyCost       decimal.Decimal    `json:"monthly_cost"`
	AutoPay           bool               `json:"auto_pay"`
	IsTrial           bool               `json:"is_trial"`
	TrialStartDate    *time.Time         `json:"trial_start_date,omitempty"`
	TrialEndDate      *time.Time         `json:"trial_end_date,omitempty"`
	TrialDurationDays int                `json:"trial_duration_days,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// TrialStatusDTO is the wire form of a trial evaluation.
type TrialStatusDTO struct {
	TotalDays     int    `json:"total_days"`
	DaysRemaining int    `json:"days_remaining"`
	IsExpired     bool   `json:"is_expired"`
	IsInTrial     bool   `json:"is_in_trial"`
	Color         string `json:"color"`
	Label         string `json:"label"`
}

// NewSubscriptionDTO builds a DTO from the persisted model.
func NewSubscriptionDTO(sub *models.Subscription) *SubscriptionDTO {
	dto := &SubscriptionDTO{
		ID:                sub.ID,
		Account:           sub.Account,
		PaymentDate:       sub.PaymentDate,
		Cost:              sub.Cost,
		BillingCycle:      sub.BillingCycle,
		MonthlyCost:       sub.MonthlyCost,
		AutoPay:           sub.AutoPay,
		IsTrial:           sub.IsTrial,
		TrialStartDate:    sub.TrialStartDate,
		TrialEndDate:      sub.TrialEndDate,
		TrialDurationDays: sub.TrialDurationDays,
		CreatedAt:         sub.CreatedAt,
		UpdatedAt:         sub.UpdatedAt,
	}
	if sub.Service != nil {
		dto.Service = ServiceSummaryDTO{
			ID:       sub.Service.ID,
			Name:     sub.Service.Name,
			Category: sub.Service.Category,
			IconURL:  sub.Service.IconURL,
		}
	} else {
		dto.Service = ServiceSummaryDTO{ID: sub.ServiceID}
	}
	return dto
}

// NewTrialStatusDTO maps an engine evaluation to its wire form.
func NewTrialStatusDTO(status expiration.TrialStatus) *TrialStatusDTO {
	return &TrialStatusDTO{
		TotalDays:     status.TotalDays,
		DaysRemaining: status.DaysRemaining,
		IsExpired:     status.IsExpired,
		IsInTrial:     status.IsInTrial,
		Color:         string(status.Color),
		Label:         status.Label,
	}
}
