package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/subtrackr/backend/pkg/db/models"
	pkgerrors "github.com/subtrackr/backend/pkg/errors"
)

const (
	// trendMonths bounds how far back the overview trend reaches.
	trendMonths = 6

	uncategorized = "Other"
)

var monthsPerYear = decimal.NewFromInt(12)

// Service produces per-user spending reports.
type Service interface {
	Overview(ctx context.Context, userID uuid.UUID) (*OverviewDTO, error)
}

type subscriptionLister interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error)
}

type service struct {
	subscriptions subscriptionLister
	snapshots     SnapshotRepository
}

// ServiceParams bundles the dependencies required to build an analytics service.
type ServiceParams struct {
	Subscriptions subscriptionLister
	Snapshots     SnapshotRepository
}

// NewService wires analytics dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Subscriptions == nil {
		return nil, fmt.Errorf("subscription lister is required")
	}
	if params.Snapshots == nil {
		return nil, fmt.Errorf("snapshot repository is required")
	}
	return &service{
		subscriptions: params.Subscriptions,
		snapshots:     params.Snapshots,
	}, nil
}

// Overview sums the user's normalized monthly costs, breaks them down by
// catalog category, and attaches the captured spend trend. The trend reports
// only months a snapshot exists for; it never fabricates points.
func (s *service) Overview(ctx context.Context, userID uuid.UUID) (*OverviewDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	subs, err := s.subscriptions.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list subscriptions")
	}

	total := decimal.Zero
	trialCount := 0
	byCategory := map[string]*CategorySpendDTO{}
	for i := range subs {
		sub := &subs[i]
		total = total.Add(sub.MonthlyCost)
		if sub.IsTrial {
			trialCount++
		}

		category := uncategorized
		if sub.Service != nil && sub.Service.Category != "" {
			category = sub.Service.Category
		}
		slice, ok := byCategory[category]
		if !ok {
			slice = &CategorySpendDTO{Category: category, MonthlyCost: decimal.Zero}
			byCategory[category] = slice
		}
		slice.MonthlyCost = slice.MonthlyCost.Add(sub.MonthlyCost)
		slice.Count++
	}

	categories := make([]CategorySpendDTO, 0, len(byCategory))
	for _, slice := range byCategory {
		categories = append(categories, *slice)
	}
	sort.Slice(categories, func(i, j int) bool {
		if !categories[i].MonthlyCost.Equal(categories[j].MonthlyCost) {
			return categories[i].MonthlyCost.GreaterThan(categories[j].MonthlyCost)
		}
		return categories[i].Category < categories[j].Category
	})

	trend, err := s.trend(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &OverviewDTO{
		TotalMonthlyCost:  total.Round(2),
		TotalAnnualCost:   total.Mul(monthsPerYear).Round(2),
		SubscriptionCount: len(subs),
		TrialCount:        trialCount,
		Categories:        categories,
		Trend:             trend,
	}, nil
}

func (s *service) trend(ctx context.Context, userID uuid.UUID) ([]TrendPointDTO, error) {
	snapshots, err := s.snapshots.ListRecent(ctx, userID, trendMonths)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list spend snapshots")
	}

	points := make([]TrendPointDTO, 0, len(snapshots))
	for i := len(snapshots) - 1; i >= 0; i-- {
		points = append(points, TrendPointDTO{
			Month:       snapshots[i].Month.Format("2006-01"),
			MonthlyCost: snapshots[i].MonthlyCost,
		})
	}
	return points, nil
}

// TotalMonthly sums the normalized monthly cost across subscriptions. The
// spend snapshot job uses it when capturing a user's month.
func TotalMonthly(subs []models.Subscription) decimal.Decimal {
	total := decimal.Zero
	for i := range subs {
		total = total.Add(subs[i].MonthlyCost)
	}
	return total.Round(2)
}
