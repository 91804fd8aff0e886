package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/subtrackr/backend/pkg/db/models"
)

type fakeSnapshotSink struct {
	captured []models.SpendSnapshot
	err      error
}

func (f *fakeSnapshotSink) Upsert(ctx context.Context, snapshot *models.SpendSnapshot) error {
	if f.err != nil {
		return f.err
	}
	f.captured = append(f.captured, *snapshot)
	return nil
}

func newSnapshotJob(t *testing.T, users *fakeUserSource, subs *fakeSubscriptionSource, sink *fakeSnapshotSink, now time.Time) *spendSnapshotJob {
	t.Helper()
	jobIface, err := NewSpendSnapshotJob(SpendSnapshotJobParams{
		Logger:        testLogger(),
		Users:         users,
		Subscriptions: subs,
		Snapshots:     sink,
	})
	if err != nil {
		t.Fatalf("NewSpendSnapshotJob: %v", err)
	}
	job, ok := jobIface.(*spendSnapshotJob)
	if !ok {
		t.Fatalf("expected spendSnapshotJob, got %T", jobIface)
	}
	job.now = func() time.Time { return now }
	return job
}

func TestSpendSnapshotJobCapturesEachUser(t *testing.T) {
	now := time.Date(2025, 1, 17, 3, 0, 0, 0, time.UTC)
	userA := uuid.New()
	userB := uuid.New()

	users := &fakeUserSource{ids: []uuid.UUID{userA, userB}}
	subs := &fakeSubscriptionSource{byUser: map[uuid.UUID][]models.Subscription{
		userA: {
			{MonthlyCost: decimal.RequireFromString("15.99")},
			{MonthlyCost: decimal.RequireFromString("10.00")},
		},
	}}
	sink := &fakeSnapshotSink{}
	job := newSnapshotJob(t, users, subs, sink, now)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(sink.captured) != 2 {
		t.Fatalf("captured = %d snapshots, want 2", len(sink.captured))
	}
	wantMonth := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if !sink.captured[0].Month.Equal(wantMonth) {
		t.Errorf("month = %s, want %s", sink.captured[0].Month, wantMonth)
	}
	if got, want := sink.captured[0].MonthlyCost.String(), "25.99"; got != want {
		t.Errorf("user A spend = %s, want %s", got, want)
	}
	// users with no subscriptions still get a zero snapshot
	if !sink.captured[1].MonthlyCost.IsZero() {
		t.Errorf("user B spend = %s, want 0", sink.captured[1].MonthlyCost)
	}
}

func TestSpendSnapshotJobPropagatesErrors(t *testing.T) {
	now := time.Date(2025, 1, 17, 3, 0, 0, 0, time.UTC)
	userID := uuid.New()
	users := &fakeUserSource{ids: []uuid.UUID{userID}}
	sink := &fakeSnapshotSink{err: errors.New("boom")}
	job := newSnapshotJob(t, users, &fakeSubscriptionSource{}, sink, now)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
