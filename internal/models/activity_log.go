package models

import "time"

// ActivityLog is the audit trail of creations and status transitions.
type ActivityLog struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UserID     string    `gorm:"size:64;index" json:"user_id"`
	UserName   string    `gorm:"size:100" json:"user_name"`
	EntityType string    `gorm:"size:30;index:idx_activity_entity" json:"entity_type"`
	EntityID   string    `gorm:"size:64;index:idx_activity_entity" json:"entity_id"`
	Action     string    `gorm:"size:30" json:"action"`
	FromStatus Status    `gorm:"size:30" json:"from_status"`
	ToStatus   Status    `gorm:"size:30" json:"to_status"`

	Description string `gorm:"size:255" json:"description"`
	Details     string `gorm:"type:jsonb" json:"details"`
}

type Notification struct {
	ID        string           `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string           `gorm:"size:64;index;not null" json:"user_id"`
	Title     string           `gorm:"size:150;not null" json:"title"`
	Message   string           `gorm:"type:text" json:"message"`
	Type      NotificationType `gorm:"size:10;not null;default:info" json:"type"`
	Read      bool             `gorm:"not null;default:false;index" json:"read"`
	Link      *string          `gorm:"size:255" json:"link"`
	CreatedAt time.Time        `json:"created_at"`
}
