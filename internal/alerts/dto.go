package alerts

import (
	"time"

	"github.com/subtrackr/backend/internal/expiration"
	"github.com/subtrackr/backend/internal/subscriptions"
	"github.com/subtrackr/backend/pkg/enums"
)

// AlertDTO is the wire form of one upcoming expiration.
type AlertDTO struct {
	Subscription *subscriptions.SubscriptionDTO `json:"subscription"`
	BoundaryDate time.Time                      `json:"boundary_date"`
	DaysUntil    int                            `json:"days_until_expiration"`
	Type         enums.ExpirationType           `json:"expiration_type"`
	Urgency      enums.UrgencyLevel             `json:"urgency_level"`
}

// AlertsResult wraps the ranked alert list and its one-line summary.
type AlertsResult struct {
	Alerts  []AlertDTO `json:"alerts"`
	Summary string     `json:"summary"`
}

// Decision reports whether alerts should be surfaced right now.
type Decision struct {
	ShouldNotify bool       `json:"should_notify"`
	LastShownAt  *time.Time `json:"last_shown_at,omitempty"`
	Summary      string     `json:"summary"`
	Alerts       []AlertDTO `json:"alerts"`
}

func toDTOs(expiring []expiration.Expiring) []AlertDTO {
	out := make([]AlertDTO, 0, len(expiring))
	for i := range expiring {
		out = append(out, AlertDTO{
			Subscription: subscriptions.NewSubscriptionDTO(&expiring[i].Subscription),
			BoundaryDate: expiring[i].BoundaryDate,
			DaysUntil:    expiring[i].DaysUntil,
			Type:         expiring[i].Type,
			Urgency:      expiring[i].Urgency,
		})
	}
	return out
}
