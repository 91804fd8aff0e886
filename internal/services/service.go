package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/subtrackr/backend/pkg/db"
	"github.com/subtrackr/backend/pkg/db/models"
	pkgerrors "github.com/subtrackr/backend/pkg/errors"
)

// DefaultCategory is assigned when a lazily created catalog entry has no
// known category.
const DefaultCategory = "Other"

// Service defines catalog operations.
type Service interface {
	List(ctx context.Context) ([]models.Service, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Service, error)
	Resolve(ctx context.Context, name string) (*models.Service, error)
}

type service struct {
	repo Repository
}

// NewService wires catalog dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("services repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]models.Service, error) {
	services, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list services")
	}
	return services, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service id required")
	}
	found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get service")
	}
	if found == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
	}
	return found, nil
}

// Resolve returns the catalog entry matching name, creating one with the
// default category when the catalog has never seen it.
func (s *service) Resolve(ctx context.Context, name string) (*models.Service, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service name required")
	}

	found, err := s.repo.FindByName(ctx, trimmed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup service")
	}
	if found != nil {
		return found, nil
	}

	created := &models.Service{
		Name:     trimmed,
		Category: DefaultCategory,
	}
	if err := s.repo.Create(ctx, created); err != nil {
		// concurrent create of the same name loses the race; re-read
		if db.IsUniqueViolation(err, "") {
			found, lookupErr := s.repo.FindByName(ctx, trimmed)
			if lookupErr == nil && found != nil {
				return found, nil
			}
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create service")
	}
	return created, nil
}
