package documents

import (
	"context"
	"fmt"
	"time"

	"github.com/arahman1700/nit-logistics-portal/internal/apperr"
	"github.com/arahman1700/nit-logistics-portal/internal/auth"
	"github.com/arahman1700/nit-logistics-portal/internal/models"
	"github.com/arahman1700/nit-logistics-portal/internal/numbering"
	"github.com/arahman1700/nit-logistics-portal/internal/repository"
	"github.com/arahman1700/nit-logistics-portal/internal/workflow"
)

type CreateJobOrderInput struct {
	Type        models.JobOrderType `json:"type" validate:"required,oneof=material_request transfer return inspection"`
	Priority    models.Priority     `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	ProjectID   string              `json:"project_id" validate:"omitempty,uuid"`
	Description string              `json:"description" validate:"required"`
	Notes       string              `json:"notes"`
	DueDate     string              `json:"due_date"`
}

func jobLink(id string) string { return "/job-orders/" + id }

func (s *Service) CreateJobOrder(ctx context.Context, actor auth.Session, in CreateJobOrderInput) (*models.JobOrder, error) {
	if err := apperr.Validate(in); err != nil {
		return nil, err
	}
	if err := authorizeCreate(workflow.KindJobOrder, actor); err != nil {
		return nil, err
	}
	var due *time.Time
	if in.DueDate != "" {
		d, err := parseDate("due_date", in.DueDate, time.Time{})
		if err != nil {
			return nil, err
		}
		due = &d
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}

	var created *models.JobOrder
	err := s.create(ctx, workflow.KindJobOrder, numbering.PrefixJobOrder, func(tx repository.Store, number string, out *outbox) error {
		j := &models.JobOrder{
			ID:          models.NewID(),
			OrderNumber: number,
			Type:        in.Type,
			Status:      models.StatusPending,
			Priority:    in.Priority,
			RequestedBy: actor.UserID,
			Description: in.Description,
			Notes:       in.Notes,
			DueDate:     due,
		}
		if in.ProjectID != "" {
			project, err := tx.GetProject(ctx, in.ProjectID)
			if err != nil {
				return notFound(err, "project", in.ProjectID)
			}
			j.ProjectID = &project.ID
			j.ProjectName = project.Name
		}
		if err := tx.CreateJobOrder(ctx, j); err != nil {
			return err
		}
		created = j
		return s.logTransition(ctx, tx, actor, workflow.KindJobOrder, j.ID, actionCreate, "", j.Status, map[string]any{
			"order_number": number,
			"type":         in.Type,
			"priority":     in.Priority,
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) GetJobOrder(ctx context.Context, id string) (*models.JobOrder, error) {
	j, err := s.store.GetJobOrder(ctx, id)
	if err != nil {
		return nil, translate(notFound(err, "job order", id))
	}
	return j, nil
}

func (s *Service) ListJobOrders(ctx context.Context, f repository.ListFilter) ([]models.JobOrder, error) {
	rows, err := s.store.ListJobOrders(ctx, f)
	if err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

// TransitionJobOrder applies a named action to a job order.
func (s *Service) TransitionJobOrder(ctx context.Context, actor auth.Session, id string, action workflow.Action) (*models.JobOrder, error) {
	return transition(ctx, s, jobTable, actor, id, action, hooks[*models.JobOrder]{
		prepare: func(j *models.JobOrder) {
			if action == workflow.ActionApprove {
				j.ApprovedBy = models.StrPtr(actor.UserID)
			}
		},
		effect: func(tx repository.Store, j *models.JobOrder, out *outbox) error {
			out.add(j.RequestedBy, "Job order "+string(j.Status), fmt.Sprintf("%s is now %s", j.OrderNumber, j.Status), models.NotificationInfo, jobLink(j.ID))
			return nil
		},
	})
}

// MoveJobOrder is the board drag: it finds the action that leads from the
// current column to target and applies it.
func (s *Service) MoveJobOrder(ctx context.Context, actor auth.Session, id string, target models.Status) (*models.JobOrder, error) {
	j, err := s.GetJobOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if j.Status == target {
		return j, nil
	}
	action, ok := workflow.ActionFor(workflow.KindJobOrder, j.Status, target)
	if !ok {
		return nil, apperr.Conflict("job order cannot move from %s to %s", j.Status, target)
	}
	return s.TransitionJobOrder(ctx, actor, id, action)
}
