package expiration

import (
	"fmt"
	"time"

	"github.com/subtrackr/backend/pkg/enums"
)

// notificationWindow is the wall-clock throttle between repeat alerts.
const notificationWindow = 24 * time.Hour

// ShouldNotify decides whether to surface expiration alerts to the user.
// Critical entries always alert; otherwise alerts are throttled to once per
// 24 hours measured against lastShown. A nil lastShown means never shown.
func ShouldNotify(expiring []Expiring, lastShown *time.Time, now time.Time) bool {
	for _, entry := range expiring {
		if entry.Urgency == enums.UrgencyCritical {
			return true
		}
	}
	if len(expiring) == 0 {
		return false
	}
	if lastShown != nil && now.Sub(*lastShown) < notificationWindow {
		return false
	}
	return true
}

// Summary renders a one-line digest of the most urgent bucket present.
func Summary(expiring []Expiring) string {
	if len(expiring) == 0 {
		return "No subscriptions need attention."
	}

	highest := enums.UrgencyMedium
	for _, entry := range expiring {
		if entry.Urgency.Rank() < highest.Rank() {
			highest = entry.Urgency
		}
	}

	count := 0
	for _, entry := range expiring {
		if entry.Urgency == highest {
			count++
		}
	}

	noun := "subscriptions"
	verb := "expire"
	if count == 1 {
		noun = "subscription"
		verb = "expires"
	}

	switch highest {
	case enums.UrgencyCritical:
		return fmt.Sprintf("%d %s %s today or tomorrow!", count, noun, verb)
	case enums.UrgencyHigh:
		return fmt.Sprintf("%d %s %s in the next few days.", count, noun, verb)
	default:
		return fmt.Sprintf("%d %s %s this week.", count, noun, verb)
	}
}
