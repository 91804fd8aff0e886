package analytics

import (
	"github.com/shopspring/decimal"
)

// CategorySpendDTO is one slice of the per-category cost breakdown.
type CategorySpendDTO struct {
	Category    string          `json:"category"`
	MonthlyCost decimal.Decimal `json:"monthly_cost"`
	Count       int             `json:"count"`
}

// TrendPointDTO is one month of captured spend.
type TrendPointDTO struct {
	Month       string          `json:"month"`
	MonthlyCost decimal.Decimal `json:"monthly_cost"`
}

// OverviewDTO is the analytics report for a single user.
type OverviewDTO struct {
	TotalMonthlyCost  decimal.Decimal    `json:"total_monthly_cost"`
	TotalAnnualCost   decimal.Decimal    `json:"total_annual_cost"`
	SubscriptionCount int                `json:"subscription_count"`
	TrialCount        int                `json:"trial_count"`
	Categories        []CategorySpendDTO `json:"categories"`
	Trend             []TrendPointDTO    `json:"trend"`
}
