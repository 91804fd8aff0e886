package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/subtrackr/backend/internal/analytics"
	"github.com/subtrackr/backend/pkg/db/models"
	"github.com/subtrackr/backend/pkg/logger"
)

type snapshotSink interface {
	Upsert(ctx context.Context, snapshot *models.SpendSnapshot) error
}

// SpendSnapshotJobParams configure the monthly spend capture.
type SpendSnapshotJobParams struct {
	Logger        *logger.Logger
	Users         activeUserSource
	Subscriptions userSubscriptionSource
	Snapshots     snapshotSink
}

// NewSpendSnapshotJob builds the job that records each user's current total
// monthly cost under the current month. Re-running within the same month
// overwrites the stored value.
func NewSpendSnapshotJob(params SpendSnapshotJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user source required")
	}
	if params.Subscriptions == nil {
		return nil, fmt.Errorf("subscription source required")
	}
	if params.Snapshots == nil {
		return nil, fmt.Errorf("snapshot sink required")
	}
	return &spendSnapshotJob{
		logg:          params.Logger,
		users:         params.Users,
		subscriptions: params.Subscriptions,
		snapshots:     params.Snapshots,
		now:           time.Now,
	}, nil
}

type spendSnapshotJob struct {
	logg          *logger.Logger
	users         activeUserSource
	subscriptions userSubscriptionSource
	snapshots     snapshotSink
	now           func() time.Time
}

func (j *spendSnapshotJob) Name() string { return "spend-snapshot" }

func (j *spendSnapshotJob) Run(ctx context.Context) error {
	month := analytics.MonthOf(j.now())
	userIDs, err := j.users.ListActiveIDs(ctx)
	if err != nil {
		return fmt.Errorf("list active users: %w", err)
	}

	captured := 0
	for _, userID := range userIDs {
		subs, err := j.subscriptions.ListByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("list subscriptions for %s: %w", userID, err)
		}

		snapshot := &models.SpendSnapshot{
			UserID:      userID,
			Month:       month,
			MonthlyCost: analytics.TotalMonthly(subs),
		}
		if err := j.snapshots.Upsert(ctx, snapshot); err != nil {
			return fmt.Errorf("capture snapshot for %s: %w", userID, err)
		}
		captured++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"month":    month.Format("2006-01"),
		"captured": captured,
	})
	j.logg.Info(logCtx, "spend snapshot complete")
	return nil
}
