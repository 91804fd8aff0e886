package subscriptions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/subtrackr/backend/internal/expiration"
	"github.com/subtrackr/backend/pkg/db/models"
	"github.com/subtrackr/backend/pkg/enums"
	pkgerrors "github.com/subtrackr/backend/pkg/errors"
)

var (
	weeksPerYear  = decimal.NewFromInt(52)
	monthsPerYear = decimal.NewFromInt(12)
)

// Service defines subscription CRUD and trial operations.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*SubscriptionDTO, error)
	List(ctx context.Context, userID uuid.UUID) ([]SubscriptionDTO, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*SubscriptionDTO, error)
	Update(ctx context.Context, userID, id uuid.UUID, req UpdateRequest) (*SubscriptionDTO, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	TrialStatus(ctx context.Context, userID, id uuid.UUID) (*TrialStatusDTO, error)
}

type serviceResolver interface {
	Resolve(ctx context.Context, name string) (*models.Service, error)
}

type service struct {
	repo    Repository
	catalog serviceResolver
	now     func() time.Time
}

// ServiceParams bundles the dependencies required to build a subscriptions service.
type ServiceParams struct {
	Repo    Repository
	Catalog serviceResolver
}

// NewService wires subscription dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("subscriptions repository is required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("service catalog is required")
	}
	return &service{
		repo:    params.Repo,
		catalog: params.Catalog,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*SubscriptionDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if req.Cost.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost cannot be negative")
	}

	cycle := normalizeCycle(req.BillingCycle)
	if err := validateTrialWindow(req.IsTrial, req.TrialStartDate, req.TrialEndDate); err != nil {
		return nil, err
	}

	catalogEntry, err := s.catalog.Resolve(ctx, req.ServiceName)
	if err != nil {
		return nil, err
	}

	sub := &models.Subscription{
		UserID:            userID,
		ServiceID:         catalogEntry.ID,
		Account:           strings.TrimSpace(req.Account),
		PaymentDate:       req.PaymentDate,
		Cost:              req.Cost,
		BillingCycle:      cycle,
		MonthlyCost:       NormalizeMonthly(req.Cost, cycle),
		AutoPay:           req.AutoPay,
		IsTrial:           req.IsTrial,
		TrialStartDate:    req.TrialStartDate,
		TrialEndDate:      req.TrialEndDate,
		TrialDurationDays: req.TrialDurationDays,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create subscription")
	}
	sub.Service = catalogEntry

	return NewSubscriptionDTO(sub), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]SubscriptionDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	subs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list subscriptions")
	}
	out := make([]SubscriptionDTO, 0, len(subs))
	for i := range subs {
		out = append(out, *NewSubscriptionDTO(&subs[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, userID, id uuid.UUID) (*SubscriptionDTO, error) {
	sub, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return NewSubscriptionDTO(sub), nil
}

func (s *service) Update(ctx context.Context, userID, id uuid.UUID, req UpdateRequest) (*SubscriptionDTO, error) {
	sub, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Account != nil {
		sub.Account = strings.TrimSpace(*req.Account)
	}
	if req.PaymentDate != nil {
		sub.PaymentDate = *req.PaymentDate
	}
	if req.Cost != nil {
		if req.Cost.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost cannot be negative")
		}
		sub.Cost = *req.Cost
	}
	if req.BillingCycle != nil {
		sub.BillingCycle = normalizeCycle(*req.BillingCycle)
	}
	if req.AutoPay != nil {
		sub.AutoPay = *req.AutoPay
	}
	if req.IsTrial != nil {
		sub.IsTrial = *req.IsTrial
	}
	if req.TrialStartDate != nil {
		sub.TrialStartDate = req.TrialStartDate
	}
	if req.TrialEndDate != nil {
		sub.TrialEndDate = req.TrialEndDate
	}
	if req.TrialDurationDays != nil {
		sub.TrialDurationDays = *req.TrialDurationDays
	}

	if err := validateTrialWindow(sub.IsTrial, sub.TrialStartDate, sub.TrialEndDate); err != nil {
		return nil, err
	}

	// cost or cycle changes re-derive the normalized monthly figure
	sub.MonthlyCost = NormalizeMonthly(sub.Cost, sub.BillingCycle)

	if err := s.repo.Save(ctx, sub); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update subscription")
	}
	return NewSubscriptionDTO(sub), nil
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if userID == uuid.Nil || id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "subscription id required")
	}
	deleted, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete subscription")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "subscription not found")
	}
	return nil
}

func (s *service) TrialStatus(ctx context.Context, userID, id uuid.UUID) (*TrialStatusDTO, error) {
	sub, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	// non-trial subscriptions report a nil status rather than an error
	status, ok := expiration.EvaluateTrial(*sub, s.now())
	if !ok {
		return nil, nil
	}
	return NewTrialStatusDTO(status), nil
}

func (s *service) find(ctx context.Context, userID, id uuid.UUID) (*models.Subscription, error) {
	if userID == uuid.Nil || id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subscription id required")
	}
	sub, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get subscription")
	}
	if sub == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "subscription not found")
	}
	return sub, nil
}

// NormalizeMonthly converts a cost in the given billing cycle to its monthly
// equivalent: yearly divides by 12, weekly multiplies by 52 weeks and divides
// by 12 months. Results round to cents.
func NormalizeMonthly(cost decimal.Decimal, cycle enums.BillingCycle) decimal.Decimal {
	switch cycle {
	case enums.BillingCycleYearly:
		return cost.Div(monthsPerYear).Round(2)
	case enums.BillingCycleWeekly:
		return cost.Mul(weeksPerYear).Div(monthsPerYear).Round(2)
	default:
		return cost.Round(2)
	}
}

// normalizeCycle falls back to monthly for blank or unknown values so bad
// input degrades instead of failing.
func normalizeCycle(raw string) enums.BillingCycle {
	cycle, err := enums.ParseBillingCycle(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil {
		return enums.BillingCycleMonthly
	}
	return cycle
}

func validateTrialWindow(isTrial bool, start, end *time.Time) error {
	if !isTrial || start == nil || end == nil {
		return nil
	}
	if end.Before(*start) {
		return pkgerrors.New(pkgerrors.CodeValidation, "trial end date precedes start date")
	}
	return nil
}
