package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/subtrackr/backend/pkg/db/models"
)

// Repository exposes persistence helpers for the service catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, service *models.Service) error
	List(ctx context.Context) ([]models.Service, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
	FindByName(ctx context.Context, name string) (*models.Service, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a catalog repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, service *models.Service) error {
	return r.db.WithContext(ctx).Create(service).Error
}

func (r *repositoryImpl) List(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *repositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var service models.Service
	err := r.db.WithContext(ctx).First(&service, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &service, nil
}

// FindByName matches on the canonical name first, then scans aliases.
// Matching is case-insensitive; the catalog is small enough that the alias
// scan stays in SQL-free Go for portability across postgres and sqlite.
func (r *repositoryImpl) FindByName(ctx context.Context, name string) (*models.Service, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, nil
	}

	var service models.Service
	err := r.db.WithContext(ctx).First(&service, "LOWER(name) = ?", needle).Error
	if err == nil {
		return &service, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	services, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range services {
		for _, alias := range services[i].Aliases {
			if strings.ToLower(alias) == needle {
				return &services[i], nil
			}
		}
	}
	return nil, nil
}
