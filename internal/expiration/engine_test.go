package expiration

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/subtrackr/backend/pkg/db/models"
	"github.com/subtrackr/backend/pkg/enums"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func monthlySub(paymentDate time.Time, autoPay bool) models.Subscription {
	return models.Subscription{
		ID:           uuid.New(),
		Account:      "someone@example.com",
		PaymentDate:  paymentDate,
		BillingCycle: enums.BillingCycleMonthly,
		AutoPay:      autoPay,
	}
}

func trialSub(start, end time.Time) models.Subscription {
	return models.Subscription{
		ID:             uuid.New(),
		Account:        "someone@example.com",
		PaymentDate:    start,
		BillingCycle:   enums.BillingCycleMonthly,
		IsTrial:        true,
		TrialStartDate: &start,
		TrialEndDate:   &end,
	}
}

func TestFindExpiringSkipsAutoPay(t *testing.T) {
	today := day(2025, time.January, 10)
	// renews tomorrow but renewal is automatic
	sub := monthlySub(day(2024, time.December, 11), true)

	got := FindExpiring([]models.Subscription{sub}, today, DefaultThresholdDays)
	if len(got) != 0 {
		t.Fatalf("expected no alerts for auto-pay, got %d", len(got))
	}
}

func TestFindExpiringThresholdBoundaries(t *testing.T) {
	today := day(2025, time.March, 1)
	cases := []struct {
		name        string
		paymentDate time.Time
		want        int
	}{
		{"exactly at threshold", day(2025, time.February, 8), 1},  // renewal 2025-03-08, 7 days out
		{"one past threshold", day(2025, time.February, 9), 0},    // renewal 2025-03-09, 8 days out
		{"already expired", day(2025, time.January, 28), 0},       // renewal 2025-02-28, -1 day
		{"expires today", day(2025, time.February, 1), 1},         // renewal 2025-03-01, 0 days
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FindExpiring([]models.Subscription{monthlySub(tc.paymentDate, false)}, today, DefaultThresholdDays)
			if len(got) != tc.want {
				t.Fatalf("expected %d results, got %d", tc.want, len(got))
			}
		})
	}
}

func TestFindExpiringUrgencyPartition(t *testing.T) {
	today := day(2025, time.June, 1)
	wantByDays := map[int]enums.UrgencyLevel{
		0: enums.UrgencyCritical,
		1: enums.UrgencyCritical,
		2: enums.UrgencyHigh,
		3: enums.UrgencyHigh,
		4: enums.UrgencyMedium,
		5: enums.UrgencyMedium,
		6: enums.UrgencyMedium,
		7: enums.UrgencyMedium,
	}

	for daysOut, want := range wantByDays {
		sub := monthlySub(today.AddDate(0, -1, daysOut), false)
		got := FindExpiring([]models.Subscription{sub}, today, DefaultThresholdDays)
		if len(got) != 1 {
			t.Fatalf("days=%d: expected 1 result, got %d", daysOut, len(got))
		}
		if got[0].DaysUntil != daysOut {
			t.Fatalf("days=%d: computed delta %d", daysOut, got[0].DaysUntil)
		}
		if got[0].Urgency != want {
			t.Fatalf("days=%d: expected urgency %s, got %s", daysOut, want, got[0].Urgency)
		}
	}
}

func TestFindExpiringOrdering(t *testing.T) {
	today := day(2025, time.June, 1)
	// renewal deltas: 1, 5, 2, 0
	subs := []models.Subscription{
		monthlySub(today.AddDate(0, -1, 1), false),
		monthlySub(today.AddDate(0, -1, 5), false),
		monthlySub(today.AddDate(0, -1, 2), false),
		monthlySub(today.AddDate(0, -1, 0), false),
	}

	got := FindExpiring(subs, today, DefaultThresholdDays)
	var gotDays []int
	for _, entry := range got {
		gotDays = append(gotDays, entry.DaysUntil)
	}
	if !reflect.DeepEqual(gotDays, []int{0, 1, 2, 5}) {
		t.Fatalf("unexpected order %v", gotDays)
	}
	wantUrgencies := []enums.UrgencyLevel{
		enums.UrgencyCritical, enums.UrgencyCritical, enums.UrgencyHigh, enums.UrgencyMedium,
	}
	for i, entry := range got {
		if entry.Urgency != wantUrgencies[i] {
			t.Fatalf("position %d: expected %s, got %s", i, wantUrgencies[i], entry.Urgency)
		}
	}
}

func TestFindExpiringTrialBoundaryPrecedence(t *testing.T) {
	today := day(2025, time.January, 10)
	sub := trialSub(day(2025, time.January, 1), day(2025, time.January, 13))
	// payment date would imply a renewal boundary of 2025-02-01, far outside
	// the window; the active trial must win.
	got := FindExpiring([]models.Subscription{sub}, today, DefaultThresholdDays)
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	if got[0].Type != enums.ExpirationTypeTrial {
		t.Fatalf("expected trial boundary, got %s", got[0].Type)
	}
	if got[0].DaysUntil != 3 {
		t.Fatalf("expected 3 days until trial end, got %d", got[0].DaysUntil)
	}
}

func TestFindExpiringExpiredTrialFallsBackToRenewal(t *testing.T) {
	today := day(2025, time.January, 10)
	sub := trialSub(day(2024, time.December, 1), day(2024, time.December, 15))
	sub.PaymentDate = day(2024, time.December, 12)

	got := FindExpiring([]models.Subscription{sub}, today, DefaultThresholdDays)
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	if got[0].Type != enums.ExpirationTypeRenewal {
		t.Fatalf("expected renewal boundary after trial expiry, got %s", got[0].Type)
	}
	if got[0].DaysUntil != 2 {
		t.Fatalf("expected 2 days until renewal, got %d", got[0].DaysUntil)
	}
}

func TestFindExpiringTrialMissingDatesFallsBack(t *testing.T) {
	today := day(2025, time.January, 10)
	sub := monthlySub(day(2024, time.December, 11), false)
	sub.IsTrial = true // trial flag set but no trial dates

	got := FindExpiring([]models.Subscription{sub}, today, DefaultThresholdDays)
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	if got[0].Type != enums.ExpirationTypeRenewal {
		t.Fatalf("expected renewal fallback, got %s", got[0].Type)
	}
}

func TestFindExpiringUnknownCycleTreatedAsMonthly(t *testing.T) {
	today := day(2025, time.January, 10)
	sub := monthlySub(day(2024, time.December, 11), false)
	sub.BillingCycle = "bogus"

	got := FindExpiring([]models.Subscription{sub}, today, DefaultThresholdDays)
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	if got[0].DaysUntil != 1 {
		t.Fatalf("expected monthly fallback delta 1, got %d", got[0].DaysUntil)
	}
}

func TestFindExpiringZeroThreshold(t *testing.T) {
	today := day(2025, time.January, 10)
	dueToday := monthlySub(day(2024, time.December, 10), false)
	dueTomorrow := monthlySub(day(2024, time.December, 11), false)

	got := FindExpiring([]models.Subscription{dueToday, dueTomorrow}, today, 0)
	if len(got) != 1 {
		t.Fatalf("expected only today's renewal, got %d", len(got))
	}
	if got[0].DaysUntil != 0 {
		t.Fatalf("expected delta 0, got %d", got[0].DaysUntil)
	}
}

func TestFindExpiringIdempotent(t *testing.T) {
	today := day(2025, time.January, 10)
	subs := []models.Subscription{
		monthlySub(day(2024, time.December, 11), false),
		trialSub(day(2025, time.January, 1), day(2025, time.January, 13)),
		monthlySub(day(2025, time.January, 15), false),
	}

	first := FindExpiring(subs, today, DefaultThresholdDays)
	second := FindExpiring(subs, today, DefaultThresholdDays)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("expected identical output for identical inputs")
	}
}

func TestFindExpiringScenario(t *testing.T) {
	today := day(2025, time.January, 10)

	// A: renews 2025-02-15, far outside the window
	a := monthlySub(day(2025, time.January, 15), false)
	// B: renews 2025-01-11, critical
	b := monthlySub(day(2024, time.December, 11), false)
	// C: trial ends 2025-01-13, high
	c := trialSub(day(2025, time.January, 3), day(2025, time.January, 13))

	got := FindExpiring([]models.Subscription{a, b, c}, today, DefaultThresholdDays)
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}

	if got[0].Subscription.ID != b.ID || got[0].Urgency != enums.UrgencyCritical || got[0].DaysUntil != 1 {
		t.Fatalf("unexpected first entry: %+v", got[0])
	}
	if got[1].Subscription.ID != c.ID || got[1].Urgency != enums.UrgencyHigh || got[1].DaysUntil != 3 || got[1].Type != enums.ExpirationTypeTrial {
		t.Fatalf("unexpected second entry: %+v", got[1])
	}
}

func TestFindExpiringEmptyInput(t *testing.T) {
	got := FindExpiring(nil, day(2025, time.January, 10), DefaultThresholdDays)
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}
