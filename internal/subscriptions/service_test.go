package subscriptions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/subtrackr/backend/pkg/db/models"
	"github.com/subtrackr/backend/pkg/enums"
	pkgerrors "github.com/subtrackr/backend/pkg/errors"
)

type fakeRepo struct {
	created []*models.Subscription
	byID    map[uuid.UUID]*models.Subscription
	saved   []*models.Subscription
	deleted []uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[uuid.UUID]*models.Subscription)}
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, sub *models.Subscription) error {
	sub.ID = uuid.New()
	f.created = append(f.created, sub)
	f.byID[sub.ID] = sub
	return nil
}

func (f *fakeRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error) {
	var out []models.Subscription
	for _, sub := range f.byID {
		if sub.UserID == userID {
			out = append(out, *sub)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Subscription, error) {
	sub, ok := f.byID[id]
	if !ok || sub.UserID != userID {
		return nil, nil
	}
	copied := *sub
	return &copied, nil
}

func (f *fakeRepo) Save(ctx context.Context, sub *models.Subscription) error {
	f.saved = append(f.saved, sub)
	f.byID[sub.ID] = sub
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	sub, ok := f.byID[id]
	if !ok || sub.UserID != userID {
		return false, nil
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return true, nil
}

type fakeCatalog struct {
	resolved map[string]*models.Service
}

func (f *fakeCatalog) Resolve(ctx context.Context, name string) (*models.Service, error) {
	if f.resolved == nil {
		f.resolved = make(map[string]*models.Service)
	}
	if entry, ok := f.resolved[name]; ok {
		return entry, nil
	}
	entry := &models.Service{ID: uuid.New(), Name: name, Category: "Other"}
	f.resolved[name] = entry
	return entry, nil
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, Catalog: &fakeCatalog{}})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestCreateNormalizesMonthlyCost(t *testing.T) {
	cases := []struct {
		name  string
		cycle string
		cost  string
		want  string
	}{
		{"monthly passthrough", "monthly", "15.99", "15.99"},
		{"yearly divided", "yearly", "120", "10"},
		{"weekly scaled", "weekly", "3", "13"},
		{"unknown treated as monthly", "fortnightly", "9.50", "9.5"},
		{"blank treated as monthly", "", "9.50", "9.5"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepo()
			svc := newTestService(t, repo)

			cost, err := decimal.NewFromString(tc.cost)
			if err != nil {
				t.Fatalf("parse cost: %v", err)
			}
			dto, err := svc.Create(context.Background(), uuid.New(), CreateRequest{
				ServiceName:  "Streamly",
				Account:      "me@example.com",
				PaymentDate:  time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
				Cost:         cost,
				BillingCycle: tc.cycle,
			})
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			want, _ := decimal.NewFromString(tc.want)
			if !dto.MonthlyCost.Equal(want) {
				t.Fatalf("monthly cost %s, want %s", dto.MonthlyCost, want)
			}
		})
	}
}

func TestCreateValidation(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()
	paymentDate := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	_, err := svc.Create(ctx, uuid.Nil, CreateRequest{ServiceName: "X", Account: "a", PaymentDate: paymentDate})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for nil user, got %v", err)
	}

	_, err = svc.Create(ctx, uuid.New(), CreateRequest{
		ServiceName: "X", Account: "a", PaymentDate: paymentDate,
		Cost: decimal.NewFromInt(-1),
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative cost, got %v", err)
	}

	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = svc.Create(ctx, uuid.New(), CreateRequest{
		ServiceName: "X", Account: "a", PaymentDate: paymentDate,
		IsTrial: true, TrialStartDate: &start, TrialEndDate: &end,
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for inverted trial window, got %v", err)
	}
}

func TestUpdatePartialFields(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, CreateRequest{
		ServiceName:  "Streamly",
		Account:      "me@example.com",
		PaymentDate:  time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		Cost:         decimal.NewFromInt(120),
		BillingCycle: "yearly",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newCycle := "monthly"
	updated, err := svc.Update(ctx, userID, created.ID, UpdateRequest{BillingCycle: &newCycle})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.BillingCycle != enums.BillingCycleMonthly {
		t.Fatalf("cycle not updated: %s", updated.BillingCycle)
	}
	if !updated.MonthlyCost.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("monthly cost not re-derived, got %s", updated.MonthlyCost)
	}
	// untouched fields survive
	if updated.Account != "me@example.com" {
		t.Fatalf("account unexpectedly changed: %q", updated.Account)
	}
}

func TestUpdateWrongUser(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, uuid.New(), CreateRequest{
		ServiceName: "Streamly",
		Account:     "me@example.com",
		PaymentDate: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	account := "them@example.com"
	_, err = svc.Update(ctx, uuid.New(), created.ID, UpdateRequest{Account: &account})
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for another user's row, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, CreateRequest{
		ServiceName: "Streamly",
		Account:     "me@example.com",
		PaymentDate: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, userID, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, userID, created.ID); pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestTrialStatus(t *testing.T) {
	repo := newFakeRepo()
	svcIface, err := NewService(ServiceParams{Repo: repo, Catalog: &fakeCatalog{}})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	svc := svcIface.(*service)
	svc.now = func() time.Time { return time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC) }

	ctx := context.Background()
	userID := uuid.New()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)

	created, err := svc.Create(ctx, userID, CreateRequest{
		ServiceName:    "Streamly",
		Account:        "me@example.com",
		PaymentDate:    start,
		IsTrial:        true,
		TrialStartDate: &start,
		TrialEndDate:   &end,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	status, err := svc.TrialStatus(ctx, userID, created.ID)
	if err != nil {
		t.Fatalf("trial status: %v", err)
	}
	if !status.IsInTrial || status.DaysRemaining != 3 || status.Color != "yellow" {
		t.Fatalf("unexpected status %+v", status)
	}

	// non-trial subscription has no trial status
	plain, err := svc.Create(ctx, userID, CreateRequest{
		ServiceName: "Streamly",
		Account:     "me@example.com",
		PaymentDate: start,
	})
	if err != nil {
		t.Fatalf("create plain: %v", err)
	}
	noTrial, err := svc.TrialStatus(ctx, userID, plain.ID)
	if err != nil {
		t.Fatalf("trial status for non-trial: %v", err)
	}
	if noTrial != nil {
		t.Fatalf("expected nil status for non-trial, got %+v", noTrial)
	}
}
