package gormstore

import (
	"context"

	"github.com/arahman1700/nit-logistics-portal/internal/models"
	"github.com/arahman1700/nit-logistics-portal/internal/repository"
)

func (s *Store) CreateOSD(ctx context.Context, o *models.OSDReport) error {
	return translate(s.conn(ctx).Create(o).Error)
}

func (s *Store) GetOSD(ctx context.Context, id string) (*models.OSDReport, error) {
	return first[models.OSDReport](s.conn(ctx), id, false)
}

func (s *Store) UpdateOSD(ctx context.Context, o *models.OSDReport, expect models.Status) error {
	return conditional[models.OSDReport](s.conn(ctx), o.ID, expect, map[string]any{
		"status":      o.Status,
		"resolved_by": o.ResolvedBy,
		"resolved_at": o.ResolvedAt,
		"description": o.Description,
	})
}

func (s *Store) ListOSDs(ctx context.Context, mrrvID string) ([]models.OSDReport, error) {
	var rows []models.OSDReport
	q := s.conn(ctx).Order("created_at DESC")
	if mrrvID != "" {
		q = q.Where("mrrv_id = ?", mrrvID)
	}
	return rows, translate(q.Find(&rows).Error)
}

func (s *Store) CreateScrapEntry(ctx context.Context, e *models.ScrapEntry) error {
	return translate(s.conn(ctx).Create(e).Error)
}

func (s *Store) ListScrapEntries(ctx context.Context, mrvID string) ([]models.ScrapEntry, error) {
	var rows []models.ScrapEntry
	q := s.conn(ctx).Order("created_at ASC")
	if mrvID != "" {
		q = q.Where("mrv_id = ?", mrvID)
	}
	return rows, translate(q.Find(&rows).Error)
}

func (s *Store) CreateJobOrder(ctx context.Context, j *models.JobOrder) error {
	return translate(s.conn(ctx).Create(j).Error)
}

func (s *Store) GetJobOrder(ctx context.Context, id string) (*models.JobOrder, error) {
	return first[models.JobOrder](s.conn(ctx), id, false)
}

func (s *Store) UpdateJobOrder(ctx context.Context, j *models.JobOrder, expect models.Status) error {
	return conditional[models.JobOrder](s.conn(ctx), j.ID, expect, map[string]any{
		"status":      j.Status,
		"approved_by": j.ApprovedBy,
		"notes":       j.Notes,
	})
}

func (s *Store) ListJobOrders(ctx context.Context, f repository.ListFilter) ([]models.JobOrder, error) {
	var rows []models.JobOrder
	err := filtered(s.conn(ctx), f, columns{project: true, number: "order_number"}).Find(&rows).Error
	return rows, translate(err)
}

func (s *Store) RecordActivity(ctx context.Context, a *models.ActivityLog) error {
	if a.ID == "" {
		a.ID = models.NewID()
	}
	if a.Details == "" {
		a.Details = "null"
	}
	return translate(s.conn(ctx).Create(a).Error)
}

func (s *Store) ListActivity(ctx context.Context, entityType, entityID string) ([]models.ActivityLog, error) {
	var rows []models.ActivityLog
	err := s.conn(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at ASC").Find(&rows).Error
	return rows, translate(err)
}

func (s *Store) AddAttachment(ctx context.Context, a *models.Attachment) error {
	return translate(s.conn(ctx).Create(a).Error)
}

func (s *Store) ListAttachments(ctx context.Context, ownerType, ownerID string) ([]models.Attachment, error) {
	var rows []models.Attachment
	err := s.conn(ctx).
		Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).
		Order("created_at ASC").Find(&rows).Error
	return rows, translate(err)
}
