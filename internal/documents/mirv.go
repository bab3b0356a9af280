package documents

import (
	"context"
	"fmt"
	"sort"

	"github.com/arahman1700/nit-logistics-portal/internal/apperr"
	"github.com/arahman1700/nit-logistics-portal/internal/auth"
	"github.com/arahman1700/nit-logistics-portal/internal/lineitems"
	"github.com/arahman1700/nit-logistics-portal/internal/models"
	"github.com/arahman1700/nit-logistics-portal/internal/numbering"
	"github.com/arahman1700/nit-logistics-portal/internal/repository"
	"github.com/arahman1700/nit-logistics-portal/internal/workflow"
)

type CreateMIRVInput struct {
	ProjectID    string      `json:"project_id" validate:"required,uuid"`
	WarehouseID  string      `json:"warehouse_id" validate:"required,uuid"`
	JobOrderID   string      `json:"job_order_id" validate:"omitempty,uuid"`
	DocumentDate string      `json:"document_date"`
	RequestedBy  string      `json:"requested_by" validate:"max=64"`
	Notes        string      `json:"notes"`
	Submit       bool        `json:"submit"`
	Lines        []LineInput `json:"lines" validate:"required,min=1,dive"`
}

// MIRVResult carries the soft shortage warnings seen at creation. They never
// block submission; approval re-checks stock.
type MIRVResult struct {
	MIRV     *models.MIRV         `json:"mirv"`
	Warnings []lineitems.Shortage `json:"warnings"`
}

type GatePassInput struct {
	VehicleNumber string `json:"vehicle_number" validate:"required,max=30"`
	DriverName    string `json:"driver_name" validate:"required,max=100"`
	Destination   string `json:"destination" validate:"max=150"`
}

func mirvLink(id string) string { return "/documents/mirv/" + id }

func (s *Service) CreateMIRV(ctx context.Context, actor auth.Session, in CreateMIRVInput) (*MIRVResult, error) {
	if err := apperr.Validate(in); err != nil {
		return nil, err
	}
	if err := authorizeCreate(workflow.KindMIRV, actor); err != nil {
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

	var res MIRVResult
	err = s.create(ctx, workflow.KindMIRV, numbering.PrefixMIRV, func(tx repository.Store, number string, out *outbox) error {
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
		sheet, err := buildLines(ctx, tx, in.WarehouseID, in.Lines, priceFromInventory)
		if err != nil {
			return err
		}
		total := sheet.GrandTotal()
		m := &models.MIRV{
			VoucherHeader: models.VoucherHeader{
				ID:           models.NewID(),
				FormNumber:   number,
				Status:       status,
				DocumentDate: docDate,
				JobOrderID:   models.StrPtr(in.JobOrderID),
				Notes:        in.Notes,
				TotalValue:   total,
				CreatedBy:    actor.UserID,
			},
			ProjectID:     project.ID,
			ProjectName:   project.Name,
			WarehouseID:   in.WarehouseID,
			RequestedBy:   orDefault(in.RequestedBy, actor.UserID),
			ApprovalLevel: ApprovalLevelFor(total),
			Lines:         toVoucherLines(sheet.Lines()),
		}
		if err := tx.CreateMIRV(ctx, m); err != nil {
			return err
		}
		res.MIRV = m
		res.Warnings = sheet.Shortages()
		return s.logTransition(ctx, tx, actor, workflow.KindMIRV, m.ID, actionCreate, "", status, map[string]any{
			"form_number": number,
			"shortages":   len(res.Warnings),
		})
	})
	if err != nil {
		return nil, err
	}
	if res.Warnings == nil {
		res.Warnings = []lineitems.Shortage{}
	}
	return &res, nil
}

func (s *Service) GetMIRV(ctx context.Context, id string) (*models.MIRV, error) {
	m, err := s.store.GetMIRV(ctx, id)
	if err != nil {
		return nil, translate(notFound(err, "mirv", id))
	}
	return m, nil
}

func (s *Service) ListMIRVs(ctx context.Context, f repository.ListFilter) ([]models.MIRV, error) {
	rows, err := s.store.ListMIRVs(ctx, f)
	if err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

func (s *Service) SubmitMIRV(ctx context.Context, actor auth.Session, id string) (*models.MIRV, error) {
	return transition(ctx, s, mirvTable, actor, id, workflow.ActionSubmit, hooks[*models.MIRV]{})
}

// ApproveMIRV issues stock for every line or for none. All items are checked
// against the stored quantities before the first decrement; the decrement
// itself is guarded as well, so a concurrent issue still cannot overdraw.
func (s *Service) ApproveMIRV(ctx context.Context, actor auth.Session, id string) (*models.MIRV, error) {
	return transition(ctx, s, mirvTable, actor, id, workflow.ActionApprove, hooks[*models.MIRV]{
		prepare: func(m *models.MIRV) {
			m.ApprovedBy = models.StrPtr(actor.UserID)
			m.ApprovedAt = s.stamp()
			m.GatePassCreated = false
		},
		effect: func(tx repository.Store, m *models.MIRV, out *outbox) error {
			order, sums := perItem(m.Lines)
			sort.Strings(order)

			short := map[string]string{}
			for _, itemID := range order {
				item, err := tx.GetInventoryItem(ctx, itemID)
				if err != nil {
					return notFound(err, "inventory item", itemID)
				}
				if item.Quantity.LessThan(sums[itemID]) {
					short[item.SKU] = fmt.Sprintf("requested %s, available %s", sums[itemID], item.Quantity)
				}
			}
			if len(short) > 0 {
				return &apperr.Error{Kind: apperr.KindConflict, Message: "insufficient stock to issue " + m.FormNumber, Fields: short}
			}
			for _, itemID := range order {
				if err := tx.AdjustInventory(ctx, itemID, sums[itemID].Neg()); err != nil {
					return err
				}
			}
			out.add(m.CreatedBy, "MIRV approved", fmt.Sprintf("%s was approved; a gate pass can now be issued", m.FormNumber), models.NotificationSuccess, mirvLink(m.ID))
			return nil
		},
	})
}

func (s *Service) RejectMIRV(ctx context.Context, actor auth.Session, id, reason string) (*models.MIRV, error) {
	return transition(ctx, s, mirvTable, actor, id, workflow.ActionReject, hooks[*models.MIRV]{
		prepare: func(m *models.MIRV) { m.RejectReason = reason },
		effect: func(tx repository.Store, m *models.MIRV, out *outbox) error {
			out.add(m.CreatedBy, "MIRV rejected", fmt.Sprintf("%s was rejected: %s", m.FormNumber, reason), models.NotificationError, mirvLink(m.ID))
			return nil
		},
		details: func(m *models.MIRV) any { return map[string]string{"reason": reason} },
	})
}

// CreateGatePass issues the single gate pass of an approved MIRV and moves
// the MIRV to issued.
func (s *Service) CreateGatePass(ctx context.Context, actor auth.Session, mirvID string, in GatePassInput) (*models.GatePass, error) {
	if err := apperr.Validate(in); err != nil {
		return nil, err
	}
	if m, err := s.store.GetMIRV(ctx, mirvID); err == nil && (m.GatePassCreated || m.Status == models.StatusIssued) {
		return nil, apperr.Conflict("%s already has a gate pass", m.FormNumber)
	}
	var created *models.GatePass
	err := s.numbered(ctx, workflow.KindMIRV, workflow.ActionIssue, numbering.PrefixGatePass, func(tx repository.Store, number string, out *outbox) error {
		_, err := transitionIn(ctx, s, tx, out, mirvTable, actor, mirvID, workflow.ActionIssue, hooks[*models.MIRV]{
			check: func(tx repository.Store, m *models.MIRV) error {
				if m.GatePassCreated {
					return apperr.Conflict("%s already has a gate pass", m.FormNumber)
				}
				return nil
			},
			prepare: func(m *models.MIRV) { m.GatePassCreated = true },
			effect: func(tx repository.Store, m *models.MIRV, out *outbox) error {
				gp := &models.GatePass{
					ID:            models.NewID(),
					PassNumber:    number,
					MIRVID:        m.ID,
					VehicleNumber: in.VehicleNumber,
					DriverName:    in.DriverName,
					Destination:   in.Destination,
					IssuedBy:      actor.UserID,
					IssuedAt:      s.now(),
				}
				if err := tx.CreateGatePass(ctx, gp); err != nil {
					return err
				}
				created = gp
				out.add(m.CreatedBy, "Gate pass issued", fmt.Sprintf("%s left site under %s", m.FormNumber, number), models.NotificationInfo, mirvLink(m.ID))
				return nil
			},
			details: func(m *models.MIRV) any { return map[string]string{"gate_pass": number} },
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) GetGatePass(ctx context.Context, mirvID string) (*models.GatePass, error) {
	g, err := s.store.GetGatePassByMIRV(ctx, mirvID)
	if err != nil {
		return nil, translate(notFound(err, "gate pass for mirv", mirvID))
	}
	return g, nil
}
