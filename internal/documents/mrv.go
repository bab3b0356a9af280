package documents

import (
	"context"
	"fmt"

	"github.com/arahman1700/nit-logistics-portal/internal/apperr"
	"github.com/arahman1700/nit-logistics-portal/internal/auth"
	"github.com/arahman1700/nit-logistics-portal/internal/models"
	"github.com/arahman1700/nit-logistics-portal/internal/numbering"
	"github.com/arahman1700/nit-logistics-portal/internal/repository"
	"github.com/arahman1700/nit-logistics-portal/internal/workflow"
)

type CreateMRVInput struct {
	ReturnType   models.ReturnType `json:"return_type" validate:"required,oneof=surplus damaged wrong_item project_complete"`
	ProjectID    string            `json:"project_id" validate:"required,uuid"`
	WarehouseID  string            `json:"warehouse_id" validate:"required,uuid"`
	JobOrderID   string            `json:"job_order_id" validate:"omitempty,uuid"`
	DocumentDate string            `json:"document_date"`
	Reason       string            `json:"reason"`
	Notes        string            `json:"notes"`
	Lines        []LineInput       `json:"lines" validate:"required,min=1,dive"`
}

func mrvLink(id string) string { return "/documents/mrv/" + id }

func (s *Service) CreateMRV(ctx context.Context, actor auth.Session, in CreateMRVInput) (*models.MRV, error) {
	if err := apperr.Validate(in); err != nil {
		return nil, err
	}
	if err := authorizeCreate(workflow.KindMRV, actor); err != nil {
		return nil, err
	}
	docDate, err := parseDate("document_date", in.DocumentDate, s.now())
	if err != nil {
		return nil, err
	}

	var created *models.MRV
	err = s.create(ctx, workflow.KindMRV, numbering.PrefixMRV, func(tx repository.Store, number string, out *outbox) error {
		project, err := tx.GetProject(ctx, in.ProjectID)
		if err != nil {
			return notFound(err, "project", in.ProjectID)
		}
		if _, err := tx.GetWarehouse(ctx, in.WarehouseID); err != nil {
			return notFound(err, "warehouse", in.WarehouseID)
		}
		if in.JobOrderID != "" {
			if _, err := tx.GetJobOrder(ctx, in.JobOrderID); err != nil {
				return notFound(err, "job order", in.JobOrderID)
			}
		}
		sheet, err := buildLines(ctx, tx, in.WarehouseID, in.Lines, priceFromInput)
		if err != nil {
			return err
		}
		m := &models.MRV{
			VoucherHeader: models.VoucherHeader{
				ID:           models.NewID(),
				FormNumber:   number,
				Status:       models.StatusPending,
				DocumentDate: docDate,
				JobOrderID:   models.StrPtr(in.JobOrderID),
				Notes:        in.Notes,
				TotalValue:   sheet.GrandTotal(),
				CreatedBy:    actor.UserID,
			},
			ReturnType:  in.ReturnType,
			ProjectID:   project.ID,
			ProjectName: project.Name,
			WarehouseID: in.WarehouseID,
			Reason:      in.Reason,
			Lines:       toVoucherLines(sheet.Lines()),
		}
		if err := tx.CreateMRV(ctx, m); err != nil {
			return err
		}
		created = m
		return s.logTransition(ctx, tx, actor, workflow.KindMRV, m.ID, actionCreate, "", m.Status, map[string]any{
			"form_number": number,
			"return_type": in.ReturnType,
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) GetMRV(ctx context.Context, id string) (*models.MRV, error) {
	m, err := s.store.GetMRV(ctx, id)
	if err != nil {
		return nil, translate(notFound(err, "mrv", id))
	}
	return m, nil
}

func (s *Service) ListMRVs(ctx context.Context, f repository.ListFilter) ([]models.MRV, error) {
	rows, err := s.store.ListMRVs(ctx, f)
	if err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

func (s *Service) ApproveMRV(ctx context.Context, actor auth.Session, id string) (*models.MRV, error) {
	return transition(ctx, s, mrvTable, actor, id, workflow.ActionApprove, hooks[*models.MRV]{
		prepare: func(m *models.MRV) {
			m.ApprovedBy = models.StrPtr(actor.UserID)
			m.ApprovedAt = s.stamp()
		},
	})
}

// CompleteMRV takes the returned goods back. Damaged returns are written
// off to the scrap ledger and never become issuable stock again.
func (s *Service) CompleteMRV(ctx context.Context, actor auth.Session, id string) (*models.MRV, error) {
	return transition(ctx, s, mrvTable, actor, id, workflow.ActionComplete, hooks[*models.MRV]{
		effect: func(tx repository.Store, m *models.MRV, out *outbox) error {
			if m.ReturnType == models.ReturnDamaged {
				for _, l := range m.Lines {
					entry := &models.ScrapEntry{
						ID:          models.NewID(),
						MRVID:       m.ID,
						ItemID:      models.StrVal(l.ItemID),
						WarehouseID: m.WarehouseID,
						Quantity:    l.Quantity,
						UnitPrice:   l.UnitPrice,
						Reason:      orDefault(m.Reason, "damaged return"),
						CreatedBy:   actor.UserID,
					}
					if err := tx.CreateScrapEntry(ctx, entry); err != nil {
						return err
					}
				}
				out.add(m.CreatedBy, "MRV completed", fmt.Sprintf("%s was written off as damaged", m.FormNumber), models.NotificationInfo, mrvLink(m.ID))
				return nil
			}
			order, sums := perItem(m.Lines)
			for _, itemID := range order {
				if err := tx.AdjustInventory(ctx, itemID, sums[itemID]); err != nil {
					return notFound(err, "inventory item", itemID)
				}
			}
			out.add(m.CreatedBy, "MRV completed", fmt.Sprintf("%s was returned to stock", m.FormNumber), models.NotificationSuccess, mrvLink(m.ID))
			return nil
		},
		details: func(m *models.MRV) any { return map[string]any{"return_type": m.ReturnType} },
	})
}

func (s *Service) ScrapEntries(ctx context.Context, mrvID string) ([]models.ScrapEntry, error) {
	rows, err := s.store.ListScrapEntries(ctx, mrvID)
	if err != nil {
		return nil, translate(err)
	}
	return rows, nil
}
