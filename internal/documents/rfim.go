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

type CreateRFIMInput struct {
	MRRVID         string                    `json:"mrrv_id" validate:"required,uuid"`
	InspectionType models.InspectionType     `json:"inspection_type" validate:"required,oneof=visual dimensional functional documentation"`
	Priority       models.InspectionPriority `json:"priority" validate:"omitempty,oneof=normal urgent critical"`
	InspectorID    string                    `json:"inspector_id" validate:"max=64"`
	Notes          string                    `json:"notes"`
	// Lines defaults to a copy of the receipt lines.
	Lines []LineInput `json:"lines" validate:"omitempty,dive"`
}

type RFIMResultInput struct {
	Result models.Status `json:"result" validate:"required,oneof=pass fail conditional"`
	Notes  string        `json:"notes"`
}

var resultActions = map[models.Status]workflow.Action{
	models.StatusPass:        workflow.ActionPass,
	models.StatusFail:        workflow.ActionFail,
	models.StatusConditional: workflow.ActionConditional,
}

func rfimLink(id string) string { return "/documents/rfim/" + id }

// CreateRFIM opens an inspection against an approved receipt. Only one
// inspection per receipt may be pending; re-inspection after a failure is a
// new record.
func (s *Service) CreateRFIM(ctx context.Context, actor auth.Session, in CreateRFIMInput) (*models.RFIM, error) {
	if err := apperr.Validate(in); err != nil {
		return nil, err
	}
	if err := authorizeCreate(workflow.KindRFIM, actor); err != nil {
		return nil, err
	}
	if in.Priority == "" {
		in.Priority = models.InspectionNormal
	}

	var created *models.RFIM
	err := s.create(ctx, workflow.KindRFIM, numbering.PrefixRFIM, func(tx repository.Store, number string, out *outbox) error {
		mrrv, err := tx.GetMRRV(ctx, in.MRRVID)
		if err != nil {
			return notFound(err, "mrrv", in.MRRVID)
		}
		if mrrv.Status != models.StatusApproved {
			return apperr.Conflict("%s must be approved before inspection, it is %s", mrrv.FormNumber, mrrv.Status)
		}
		existing, err := tx.ListRFIMsByMRRV(ctx, mrrv.ID)
		if err != nil {
			return err
		}
		for _, r := range existing {
			if r.Status == models.StatusPending {
				return apperr.Conflict("%s already has pending inspection %s", mrrv.FormNumber, r.FormNumber)
			}
		}

		lines := copyLines(mrrv.Lines)
		if len(in.Lines) > 0 {
			sheet, err := buildLines(ctx, tx, mrrv.WarehouseID, in.Lines, priceFromInput)
			if err != nil {
				return err
			}
			lines = toVoucherLines(sheet.Lines())
		}
		r := &models.RFIM{
			VoucherHeader: models.VoucherHeader{
				ID:           models.NewID(),
				FormNumber:   number,
				Status:       models.StatusPending,
				DocumentDate: s.now(),
				JobOrderID:   mrrv.JobOrderID,
				Notes:        in.Notes,
				TotalValue:   models.TotalOf(lines),
				CreatedBy:    actor.UserID,
			},
			MRRVID:         mrrv.ID,
			InspectionType: in.InspectionType,
			Priority:       in.Priority,
			InspectorID:    models.StrPtr(in.InspectorID),
			Lines:          lines,
		}
		if err := tx.CreateRFIM(ctx, r); err != nil {
			return err
		}
		if !mrrv.RFIMCreated {
			mrrv.RFIMCreated = true
			if err := tx.UpdateMRRV(ctx, mrrv, models.StatusApproved); err != nil {
				return err
			}
		}
		created = r
		if in.InspectorID != "" {
			out.add(in.InspectorID, "Inspection requested", fmt.Sprintf("%s requests %s inspection of %s", number, in.InspectionType, mrrv.FormNumber), models.NotificationInfo, rfimLink(r.ID))
		}
		return s.logTransition(ctx, tx, actor, workflow.KindRFIM, r.ID, actionCreate, "", r.Status, map[string]string{
			"form_number": number,
			"mrrv":        mrrv.FormNumber,
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) GetRFIM(ctx context.Context, id string) (*models.RFIM, error) {
	r, err := s.store.GetRFIM(ctx, id)
	if err != nil {
		return nil, translate(notFound(err, "rfim", id))
	}
	return r, nil
}

func (s *Service) ListRFIMs(ctx context.Context, f repository.ListFilter) ([]models.RFIM, error) {
	rows, err := s.store.ListRFIMs(ctx, f)
	if err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

func (s *Service) RFIMsForMRRV(ctx context.Context, mrrvID string) ([]models.RFIM, error) {
	rows, err := s.store.ListRFIMsByMRRV(ctx, mrrvID)
	if err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

// RecordRFIMResult closes an inspection. A failure leaves the receipt
// approved and makes an OSD report createable against it.
func (s *Service) RecordRFIMResult(ctx context.Context, actor auth.Session, id string, in RFIMResultInput) (*models.RFIM, error) {
	if err := apperr.Validate(in); err != nil {
		return nil, err
	}
	action := resultActions[in.Result]
	return transition(ctx, s, rfimTable, actor, id, action, hooks[*models.RFIM]{
		prepare: func(r *models.RFIM) {
			if r.InspectorID == nil {
				r.InspectorID = models.StrPtr(actor.UserID)
			}
			r.ResultNotes = in.Notes
			r.InspectedAt = s.stamp()
		},
		effect: func(tx repository.Store, r *models.RFIM, out *outbox) error {
			mrrv, err := tx.GetMRRV(ctx, r.MRRVID)
			if err != nil {
				return notFound(err, "mrrv", r.MRRVID)
			}
			switch in.Result {
			case models.StatusFail:
				out.add(mrrv.CreatedBy, "Inspection failed", fmt.Sprintf("%s failed inspection %s; raise an OSD report", mrrv.FormNumber, r.FormNumber), models.NotificationError, mrrvLink(mrrv.ID))
			default:
				out.add(mrrv.CreatedBy, "Inspection passed", fmt.Sprintf("%s passed inspection %s (%s)", mrrv.FormNumber, r.FormNumber, in.Result), models.NotificationSuccess, mrrvLink(mrrv.ID))
			}
			return nil
		},
		details: func(r *models.RFIM) any { return map[string]string{"notes": in.Notes} },
	})
}
