package alerts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/subtrackr/backend/internal/expiration"
	"github.com/subtrackr/backend/pkg/config"
	"github.com/subtrackr/backend/pkg/db/models"
	pkgerrors "github.com/subtrackr/backend/pkg/errors"
)

// Service exposes upcoming-expiration queries and the notification decision.
type Service interface {
	Upcoming(ctx context.Context, userID uuid.UUID, thresholdDays int) (*AlertsResult, error)
	Decide(ctx context.Context, userID uuid.UUID, thresholdDays int) (*Decision, error)
	Acknowledge(ctx context.Context, userID uuid.UUID) error
}

type subscriptionLister interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error)
}

type shownStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	AlertShownKey(userID string) string
}

type service struct {
	subs  subscriptionLister
	store shownStore
	cfg   config.AlertsConfig
	now   func() time.Time
}

// ServiceParams bundles the dependencies required to build an alerts service.
type ServiceParams struct {
	Subscriptions subscriptionLister
	Store         shownStore
	Config        config.AlertsConfig
}

// NewService wires alert dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Subscriptions == nil {
		return nil, fmt.Errorf("subscriptions repository is required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("shown store is required")
	}
	return &service{
		subs:  params.Subscriptions,
		store: params.Store,
		cfg:   params.Config,
		now:   func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Upcoming(ctx context.Context, userID uuid.UUID, thresholdDays int) (*AlertsResult, error) {
	expiring, err := s.findExpiring(ctx, userID, thresholdDays)
	if err != nil {
		return nil, err
	}
	return &AlertsResult{
		Alerts:  toDTOs(expiring),
		Summary: expiration.Summary(expiring),
	}, nil
}

func (s *service) Decide(ctx context.Context, userID uuid.UUID, thresholdDays int) (*Decision, error) {
	expiring, err := s.findExpiring(ctx, userID, thresholdDays)
	if err != nil {
		return nil, err
	}

	lastShown, err := s.lastShown(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Decision{
		ShouldNotify: expiration.ShouldNotify(expiring, lastShown, s.now()),
		LastShownAt:  lastShown,
		Summary:      expiration.Summary(expiring),
		Alerts:       toDTOs(expiring),
	}, nil
}

// Acknowledge records that alerts were surfaced to the user, starting the
// 24 hour throttle window.
func (s *service) Acknowledge(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	key := s.store.AlertShownKey(userID.String())
	value := s.now().Format(time.RFC3339)
	if err := s.store.Set(ctx, key, value, s.cfg.ShownTTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record alerts shown")
	}
	return nil
}

func (s *service) findExpiring(ctx context.Context, userID uuid.UUID, thresholdDays int) ([]expiration.Expiring, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	subs, err := s.subs.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list subscriptions")
	}
	return expiration.FindExpiring(subs, s.now(), thresholdDays), nil
}

func (s *service) lastShown(ctx context.Context, userID uuid.UUID) (*time.Time, error) {
	raw, err := s.store.Get(ctx, s.store.AlertShownKey(userID.String()))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read alerts shown marker")
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		// a corrupt marker behaves like no marker
		return nil, nil
	}
	return &at, nil
}
