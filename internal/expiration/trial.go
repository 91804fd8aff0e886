package expiration

import (
	"fmt"
	"time"

	"github.com/subtrackr/backend/pkg/dates"
	"github.com/subtrackr/backend/pkg/db/models"
)

// TrialColor is the presentational bucket for a trial's remaining time.
type TrialColor string

const (
	TrialColorRed    TrialColor = "red"
	TrialColorYellow TrialColor = "yellow"
	TrialColorGreen  TrialColor = "green"
)

// TrialStatus describes where a subscription sits inside its trial window.
type TrialStatus struct {
	TotalDays     int
	DaysRemaining int
	IsExpired     bool
	IsInTrial     bool
	Color         TrialColor
	Label         string
}

// EvaluateTrial computes the trial status for a subscription. The second
// return value is false when the subscription has no trial status at all
// (not a trial, or trial dates missing); callers must treat that as a
// distinct case from an expired trial.
func EvaluateTrial(sub models.Subscription, today time.Time) (TrialStatus, bool) {
	if !sub.IsTrial || sub.TrialStartDate == nil || sub.TrialEndDate == nil {
		return TrialStatus{}, false
	}

	totalDays := dates.DaysBetween(*sub.TrialStartDate, *sub.TrialEndDate)
	daysRemaining := dates.DaysBetween(today, *sub.TrialEndDate)
	isExpired := daysRemaining < 0

	status := TrialStatus{
		TotalDays:     totalDays,
		DaysRemaining: daysRemaining,
		IsExpired:     isExpired,
		IsInTrial:     !isExpired && daysRemaining >= 0,
	}

	switch {
	case isExpired:
		status.Color = TrialColorRed
		status.Label = "trial expired"
	case daysRemaining == 0:
		status.Color = TrialColorRed
		status.Label = "expires today"
	case daysRemaining <= 7:
		status.Color = TrialColorYellow
		status.Label = fmt.Sprintf("%d %s left", daysRemaining, pluralDay(daysRemaining))
	default:
		status.Color = TrialColorGreen
		status.Label = fmt.Sprintf("%d days left", daysRemaining)
	}

	return status, true
}

func pluralDay(n int) string {
	if n == 1 {
		return "day"
	}
	return "days"
}
