package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/subtrackr/backend/pkg/enums"
)

// Notification is a persisted reminder produced by the expiration sweep.
// The (subscription, type, boundary date) unique index keeps the sweep
// idempotent across repeated runs.
type Notification struct {
	ID             uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index"`
	SubscriptionID uuid.UUID              `gorm:"column:subscription_id;type:uuid;not null;uniqueIndex:idx_notifications_dedup"`
	Type           enums.NotificationType `gorm:"column:type;type:text;not null;uniqueIndex:idx_notifications_dedup"`
	BoundaryDate   time.Time              `gorm:"column:boundary_date;not null;uniqueIndex:idx_notifications_dedup"`
	Urgency        enums.UrgencyLevel     `gorm:"column:urgency;type:text;not null"`
	Title          string                 `gorm:"column:title;not null"`
	Body           string                 `gorm:"column:body"`
	ReadAt         *time.Time             `gorm:"column:read_at"`
	CreatedAt      time.Time              `gorm:"column:created_at;autoCreateTime"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
