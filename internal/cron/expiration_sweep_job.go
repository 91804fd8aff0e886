package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/subtrackr/backend/internal/expiration"
	"github.com/subtrackr/backend/pkg/db/models"
	"github.com/subtrackr/backend/pkg/enums"
	"github.com/subtrackr/backend/pkg/logger"
	"github.com/subtrackr/backend/pkg/metrics"
)

const defaultSweepThresholdDays = expiration.DefaultThresholdDays

type activeUserSource interface {
	ListActiveIDs(ctx context.Context) ([]uuid.UUID, error)
}

type userSubscriptionSource interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error)
}

type notificationSink interface {
	CreateMany(ctx context.Context, notifications []models.Notification) (int64, error)
}

// ExpirationSweepJobParams configure the expiration sweep.
type ExpirationSweepJobParams struct {
	Logger        *logger.Logger
	Users         activeUserSource
	Subscriptions userSubscriptionSource
	Notifications notificationSink
	Metrics       *metrics.CronJobMetrics
	ThresholdDays int
}

// NewExpirationSweepJob builds the job that materializes engine output into
// notification rows. The dedup index makes re-running a day's sweep a no-op.
func NewExpirationSweepJob(params ExpirationSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user source required")
	}
	if params.Subscriptions == nil {
		return nil, fmt.Errorf("subscription source required")
	}
	if params.Notifications == nil {
		return nil, fmt.Errorf("notification sink required")
	}
	threshold := params.ThresholdDays
	if threshold <= 0 {
		threshold = defaultSweepThresholdDays
	}
	return &expirationSweepJob{
		logg:          params.Logger,
		users:         params.Users,
		subscriptions: params.Subscriptions,
		notifications: params.Notifications,
		metrics:       params.Metrics,
		threshold:     threshold,
		now:           time.Now,
	}, nil
}

type expirationSweepJob struct {
	logg          *logger.Logger
	users         activeUserSource
	subscriptions userSubscriptionSource
	notifications notificationSink
	metrics       *metrics.CronJobMetrics
	threshold     int
	now           func() time.Time
}

func (j *expirationSweepJob) Name() string { return "expiration-sweep" }

func (j *expirationSweepJob) Run(ctx context.Context) error {
	today := j.now().UTC()
	userIDs, err := j.users.ListActiveIDs(ctx)
	if err != nil {
		return fmt.Errorf("list active users: %w", err)
	}

	// one broken user must not starve the rest of the sweep
	var errs error
	var scanned, created int64
	for _, userID := range userIDs {
		subs, err := j.subscriptions.ListByUser(ctx, userID)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("list subscriptions for %s: %w", userID, err))
			continue
		}
		scanned += int64(len(subs))

		rows := buildNotifications(userID, expiration.FindExpiring(subs, today, j.threshold))
		if len(rows) == 0 {
			continue
		}
		inserted, err := j.createByType(ctx, rows)
		created += inserted
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("create notifications for %s: %w", userID, err))
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"users":                 len(userIDs),
		"subscriptions_scanned": scanned,
		"notifications_created": created,
		"threshold_days":        j.threshold,
	})
	j.logg.Info(logCtx, "expiration sweep complete")
	return errs
}

// createByType inserts notifications grouped by type so per-type counters
// reflect what actually landed after deduplication.
func (j *expirationSweepJob) createByType(ctx context.Context, rows []models.Notification) (int64, error) {
	byType := map[enums.NotificationType][]models.Notification{}
	for _, row := range rows {
		byType[row.Type] = append(byType[row.Type], row)
	}

	var total int64
	for notificationType, batch := range byType {
		inserted, err := j.notifications.CreateMany(ctx, batch)
		if err != nil {
			return total, err
		}
		total += inserted
		if j.metrics != nil && inserted > 0 {
			j.metrics.AddNotificationsCreated(j.Name(), string(notificationType), int(inserted))
		}
	}
	return total, nil
}

func buildNotifications(userID uuid.UUID, expiring []expiration.Expiring) []models.Notification {
	rows := make([]models.Notification, 0, len(expiring))
	for _, e := range expiring {
		rows = append(rows, models.Notification{
			UserID:         userID,
			SubscriptionID: e.Subscription.ID,
			Type:           enums.NotificationForExpiration(e.Type),
			BoundaryDate:   e.BoundaryDate,
			Urgency:        e.Urgency,
			Title:          notificationTitle(e),
			Body:           notificationBody(e),
		})
	}
	return rows
}

func notificationTitle(e expiration.Expiring) string {
	name := serviceName(e.Subscription)
	verb := "renews"
	if e.Type == enums.ExpirationTypeTrial {
		verb = "trial ends"
	}
	switch e.DaysUntil {
	case 0:
		return fmt.Sprintf("%s %s today", name, verb)
	case 1:
		return fmt.Sprintf("%s %s tomorrow", name, verb)
	default:
		return fmt.Sprintf("%s %s in %d days", name, verb, e.DaysUntil)
	}
}

func notificationBody(e expiration.Expiring) string {
	name := serviceName(e.Subscription)
	if e.Type == enums.ExpirationTypeTrial {
		return fmt.Sprintf("Your %s trial ends on %s. Cancel before then to avoid being charged.",
			name, e.BoundaryDate.Format("Jan 2, 2006"))
	}
	return fmt.Sprintf("Your %s subscription renews on %s for %s.",
		name, e.BoundaryDate.Format("Jan 2, 2006"), e.Subscription.Cost.StringFixed(2))
}

func serviceName(sub models.Subscription) string {
	if sub.Service != nil && sub.Service.Name != "" {
		return sub.Service.Name
	}
	if sub.Account != "" {
		return sub.Account
	}
	return "A subscription"
}
