package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Service is a catalog entry for a subscribable product (Netflix, Spotify, ...).
// Rows are shared across users and created lazily when a subscription names a
// service the catalog has not seen yet.
type Service struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string         `gorm:"type:text;not null;uniqueIndex"`
	IconURL   string         `gorm:"column:icon_url"`
	Category  string         `gorm:"column:category;not null;default:'Other'"`
	Aliases   pq.StringArray `gorm:"type:text[];column:aliases"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
