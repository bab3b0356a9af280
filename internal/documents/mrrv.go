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

type CreateMRRVInput struct {
	SupplierID   string      `json:"supplier_id" validate:"required,uuid"`
	WarehouseID  string      `json:"warehouse_id" validate:"required,uuid"`
	JobOrderID   string      `json:"job_order_id" validate:"omitempty,uuid"`
	DocumentDate string      `json:"document_date"`
	PONumber     string      `json:"po_number" validate:"max=50"`
	DeliveryNote string      `json:"delivery_note" validate:"max=50"`
	ReceivedBy   string      `json:"received_by" validate:"max=64"`
	RFIMRequired bool        `json:"rfim_required"`
	Notes        string      `json:"notes"`
	Submit       bool        `json:"submit"`
	Lines        []LineInput `json:"lines" validate:"required,min=1,dive"`
}

func mrrvLink(id string) string { return "/documents/mrrv/" + id }

func (s *Service) CreateMRRV(ctx context.Context, actor auth.Session, in CreateMRRVInput) (*models.MRRV, error) {
	if err := apperr.Validate(in); err != nil {
		return nil, err
	}
	if err := authorizeCreate(workflow.KindMRRV, actor); err != nil {
		return nil, err
	}
	docDate, err := parseDate("document_date", in.DocumentDate, s.now())
	if err != nil {
		return nil, err
	}
	status := models.StatusDraft
	if in.Submit {
		status = models.StatusPendingApproval
	}

	var created *models.MRRV
	err = s.create(ctx, workflow.KindMRRV, numbering.PrefixMRRV, func(tx repository.Store, number string, out *outbox) error {
		if _, err := tx.GetSupplier(ctx, in.SupplierID); err != nil {
			return notFound(err, "supplier", in.SupplierID)
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
		m := &models.MRRV{
			VoucherHeader: models.VoucherHeader{
				ID:           models.NewID(),
				FormNumber:   number,
				Status:       status,
				DocumentDate: docDate,
				JobOrderID:   models.StrPtr(in.JobOrderID),
				Notes:        in.Notes,
				TotalValue:   sheet.GrandTotal(),
				CreatedBy:    actor.UserID,
			},
			SupplierID:   in.SupplierID,
			WarehouseID:  in.WarehouseID,
			PONumber:     in.PONumber,
			DeliveryNote: in.DeliveryNote,
			ReceivedBy:   orDefault(in.ReceivedBy, actor.UserID),
			RFIMRequired: in.RFIMRequired,
			Lines:        toVoucherLines(sheet.Lines()),
		}
		if err := tx.CreateMRRV(ctx, m); err != nil {
			return err
		}
		created = m
		return s.logTransition(ctx, tx, actor, workflow.KindMRRV, m.ID, actionCreate, "", status, map[string]any{"form_number": number})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) GetMRRV(ctx context.Context, id string) (*models.MRRV, error) {
	m, err := s.store.GetMRRV(ctx, id)
	if err != nil {
		return nil, translate(notFound(err, "mrrv", id))
	}
	return m, nil
}

func (s *Service) ListMRRVs(ctx context.Context, f repository.ListFilter) ([]models.MRRV, error) {
	rows, err := s.store.ListMRRVs(ctx, f)
	if err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

func (s *Service) SubmitMRRV(ctx context.Context, actor auth.Session, id string) (*models.MRRV, error) {
	return transition(ctx, s, mrrvTable, actor, id, workflow.ActionSubmit, hooks[*models.MRRV]{})
}

// ApproveMRRV receives every line into inventory. When inspection is
// required the receipt is left with an open RFIM obligation.
func (s *Service) ApproveMRRV(ctx context.Context, actor auth.Session, id string) (*models.MRRV, error) {
	return transition(ctx, s, mrrvTable, actor, id, workflow.ActionApprove, hooks[*models.MRRV]{
		prepare: func(m *models.MRRV) {
			m.ApprovedBy = models.StrPtr(actor.UserID)
			m.ApprovedAt = s.stamp()
			m.RFIMCreated = false
		},
		effect: func(tx repository.Store, m *models.MRRV, out *outbox) error {
			order, sums := perItem(m.Lines)
			for _, itemID := range order {
				if err := tx.AdjustInventory(ctx, itemID, sums[itemID]); err != nil {
					return notFound(err, "inventory item", itemID)
				}
			}
			link := mrrvLink(m.ID)
			out.add(m.CreatedBy, "MRRV approved", fmt.Sprintf("%s was approved and received into stock", m.FormNumber), models.NotificationSuccess, link)
			if w, err := tx.GetWarehouse(ctx, m.WarehouseID); err == nil && w.ManagerID != nil {
				out.add(*w.ManagerID, "Goods received", fmt.Sprintf("%s received into %s", m.FormNumber, w.Name), models.NotificationInfo, link)
			}
			if m.RFIMRequired {
				out.add(m.CreatedBy, "Inspection required", fmt.Sprintf("%s needs an RFIM before it can be inspected", m.FormNumber), models.NotificationWarning, link)
			}
			return nil
		},
	})
}

func (s *Service) RejectMRRV(ctx context.Context, actor auth.Session, id, reason string) (*models.MRRV, error) {
	return transition(ctx, s, mrrvTable, actor, id, workflow.ActionReject, hooks[*models.MRRV]{
		prepare: func(m *models.MRRV) { m.RejectReason = reason },
		effect: func(tx repository.Store, m *models.MRRV, out *outbox) error {
			out.add(m.CreatedBy, "MRRV rejected", fmt.Sprintf("%s was rejected: %s", m.FormNumber, reason), models.NotificationError, mrrvLink(m.ID))
			return nil
		},
		details: func(m *models.MRRV) any { return map[string]string{"reason": reason} },
	})
}

// InspectMRRV closes a receipt whose inspection passed, with or without
// conditions. A failed inspection never satisfies it.
func (s *Service) InspectMRRV(ctx context.Context, actor auth.Session, id string) (*models.MRRV, error) {
	return transition(ctx, s, mrrvTable, actor, id, workflow.ActionInspect, hooks[*models.MRRV]{
		check: func(tx repository.Store, m *models.MRRV) error {
			if !m.RFIMRequired {
				return apperr.Conflict("%s does not require inspection", m.FormNumber)
			}
			rfims, err := tx.ListRFIMsByMRRV(ctx, m.ID)
			if err != nil {
				return err
			}
			for _, r := range rfims {
				if r.Status == models.StatusPass || r.Status == models.StatusConditional {
					return nil
				}
			}
			return apperr.Conflict("%s has no passed inspection", m.FormNumber)
		},
	})
}
