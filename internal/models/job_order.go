package models

import "time"

type JobOrder struct {
	ID          string       `gorm:"type:uuid;primaryKey" json:"id"`
	OrderNumber string       `gorm:"size:20;uniqueIndex;not null" json:"order_number"`
	Type        JobOrderType `gorm:"size:30;not null" json:"type"`
	Status      Status       `gorm:"size:20;index;not null" json:"status"`
	Priority    Priority     `gorm:"size:10;not null" json:"priority"`
	ProjectID   *string      `gorm:"type:uuid;index" json:"project_id"`
	ProjectName string       `gorm:"size:150" json:"project_name"`
	RequestedBy string       `gorm:"size:64;not null" json:"requested_by"`
	ApprovedBy  *string      `gorm:"size:64" json:"approved_by"`
	Description string       `gorm:"type:text" json:"description"`
	Notes       string       `gorm:"type:text" json:"notes"`
	DueDate     *time.Time   `gorm:"type:date" json:"due_date"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (j JobOrder) RecordID() string      { return j.ID }
func (j JobOrder) CurrentStatus() Status { return j.Status }
func (j JobOrder) Number() string        { return j.OrderNumber }
