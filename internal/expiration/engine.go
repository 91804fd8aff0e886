// Package expiration decides which subscriptions need user attention: which
// are inside an active trial, which renew soon, and how urgently. Everything
// here is a pure function over an in-memory snapshot so callers can invoke it
// from request handlers and cron jobs alike without coordination.
package expiration

import (
	"sort"
	"time"

	"github.com/subtrackr/backend/pkg/dates"
	"github.com/subtrackr/backend/pkg/db/models"
	"github.com/subtrackr/backend/pkg/enums"
)

// DefaultThresholdDays is the upcoming-expiration window used when callers do
// not supply one.
const DefaultThresholdDays = 7

// Expiring is a subscription annotated with the boundary that will bill or
// expire it next. Recomputed on every query, never persisted.
type Expiring struct {
	Subscription models.Subscription
	BoundaryDate time.Time
	DaysUntil    int
	Type         enums.ExpirationType
	Urgency      enums.UrgencyLevel
}

// FindExpiring returns the subscriptions whose next boundary falls within
// thresholdDays of today, most urgent first.
//
// Auto-pay subscriptions never alert. A subscription inside an active trial
// uses its trial end date as the boundary; everything else uses the next
// renewal date (payment date plus one billing-cycle unit). Records already
// past their boundary are excluded: this is an upcoming window, not an
// overdue list.
func FindExpiring(subs []models.Subscription, today time.Time, thresholdDays int) []Expiring {
	out := make([]Expiring, 0, len(subs))

	for _, sub := range subs {
		if sub.AutoPay {
			continue
		}

		boundary, expType := selectBoundary(sub, today)
		daysUntil := dates.DaysBetween(today, boundary)
		if daysUntil < 0 || daysUntil > thresholdDays {
			continue
		}

		out = append(out, Expiring{
			Subscription: sub,
			BoundaryDate: boundary,
			DaysUntil:    daysUntil,
			Type:         expType,
			Urgency:      classifyUrgency(daysUntil),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Urgency.Rank() != out[j].Urgency.Rank() {
			return out[i].Urgency.Rank() < out[j].Urgency.Rank()
		}
		return out[i].DaysUntil < out[j].DaysUntil
	})

	return out
}

func selectBoundary(sub models.Subscription, today time.Time) (time.Time, enums.ExpirationType) {
	if status, ok := EvaluateTrial(sub, today); ok && status.IsInTrial {
		return *sub.TrialEndDate, enums.ExpirationTypeTrial
	}
	return dates.AddCycle(sub.PaymentDate, sub.BillingCycle), enums.ExpirationTypeRenewal
}

func classifyUrgency(daysUntil int) enums.UrgencyLevel {
	switch {
	case daysUntil <= 1:
		return enums.UrgencyCritical
	case daysUntil <= 3:
		return enums.UrgencyHigh
	default:
		return enums.UrgencyMedium
	}
}
