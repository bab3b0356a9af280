package documents

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/arahman1700/nit-logistics-portal/internal/apperr"
	"github.com/arahman1700/nit-logistics-portal/internal/auth"
	"github.com/arahman1700/nit-logistics-portal/internal/models"
	"github.com/arahman1700/nit-logistics-portal/internal/numbering"
	"github.com/arahman1700/nit-logistics-portal/internal/repository"
	"github.com/arahman1700/nit-logistics-portal/internal/workflow"
)

type CreateOSDInput struct {
	MRRVID         string           `json:"mrrv_id" validate:"required,uuid"`
	RFIMID         string           `json:"rfim_id" validate:"omitempty,uuid"`
	ReportType     models.OSDType   `json:"report_type" validate:"required,oneof=over short damage"`
	QtyAffected    decimal.Decimal  `json:"qty_affected"`
	Description    string           `json:"description" validate:"required"`
	ActionRequired models.OSDAction `json:"action_required" validate:"required,oneof=rms credit replace"`
}

func osdLink(id string) string { return "/documents/osd/" + id }

// CreateOSD raises an over/short/damage report. A receipt only becomes
// reportable once one of its inspections has failed.
func (s *Service) CreateOSD(ctx context.Context, actor auth.Session, in CreateOSDInput) (*models.OSDReport, error) {
	if err := apperr.Validate(in); err != nil {
		return nil, err
	}
	if !in.QtyAffected.IsPositive() {
		return nil, apperr.Field("qty_affected", "must be greater than zero")
	}
	if err := authorizeCreate(workflow.KindOSD, actor); err != nil {
		return nil, err
	}

	var created *models.OSDReport
	err := s.create(ctx, workflow.KindOSD, numbering.PrefixOSD, func(tx repository.Store, number string, out *outbox) error {
		mrrv, err := tx.GetMRRV(ctx, in.MRRVID)
		if err != nil {
			return notFound(err, "mrrv", in.MRRVID)
		}
		failed, err := failedInspection(ctx, tx, mrrv, in.RFIMID)
		if err != nil {
			return err
		}
		o := &models.OSDReport{
			ID:             models.NewID(),
			FormNumber:     number,
			MRRVID:         mrrv.ID,
			RFIMID:         models.StrPtr(failed),
			ReportType:     in.ReportType,
			QtyAffected:    in.QtyAffected,
			Description:    in.Description,
			ActionRequired: in.ActionRequired,
			Status:         models.StatusOpen,
			CreatedBy:      actor.UserID,
		}
		if err := tx.CreateOSD(ctx, o); err != nil {
			return err
		}
		created = o
		out.add(mrrv.CreatedBy, "OSD report raised", fmt.Sprintf("%s raised against %s (%s)", number, mrrv.FormNumber, in.ReportType), models.NotificationWarning, osdLink(o.ID))
		return s.logTransition(ctx, tx, actor, workflow.KindOSD, o.ID, actionCreate, "", o.Status, map[string]string{
			"form_number": number,
			"mrrv":        mrrv.FormNumber,
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// failedInspection returns the id of the failed inspection an OSD report
// hangs off. If rfimID is given it must be that inspection.
func failedInspection(ctx context.Context, tx repository.Store, mrrv *models.MRRV, rfimID string) (string, error) {
	if rfimID != "" {
		r, err := tx.GetRFIM(ctx, rfimID)
		if err != nil {
			return "", notFound(err, "rfim", rfimID)
		}
		if r.MRRVID != mrrv.ID {
			return "", apperr.Field("rfim_id", fmt.Sprintf("%s does not belong to %s", r.FormNumber, mrrv.FormNumber))
		}
		if r.Status != models.StatusFail {
			return "", apperr.Conflict("%s has not failed inspection", r.FormNumber)
		}
		return r.ID, nil
	}
	rfims, err := tx.ListRFIMsByMRRV(ctx, mrrv.ID)
	if err != nil {
		return "", err
	}
	for _, r := range rfims {
		if r.Status == models.StatusFail {
			return r.ID, nil
		}
	}
	return "", apperr.Conflict("%s has no failed inspection", mrrv.FormNumber)
}

func (s *Service) GetOSD(ctx context.Context, id string) (*models.OSDReport, error) {
	o, err := s.store.GetOSD(ctx, id)
	if err != nil {
		return nil, translate(notFound(err, "osd", id))
	}
	return o, nil
}

// ListOSDs lists reports, optionally for one receipt.
func (s *Service) ListOSDs(ctx context.Context, mrrvID string) ([]models.OSDReport, error) {
	rows, err := s.store.ListOSDs(ctx, mrrvID)
	if err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

func (s *Service) ResolveOSD(ctx context.Context, actor auth.Session, id string) (*models.OSDReport, error) {
	return transition(ctx, s, osdTable, actor, id, workflow.ActionResolve, hooks[*models.OSDReport]{
		prepare: func(o *models.OSDReport) {
			o.ResolvedBy = models.StrPtr(actor.UserID)
			o.ResolvedAt = s.stamp()
		},
		effect: func(tx repository.Store, o *models.OSDReport, out *outbox) error {
			out.add(o.CreatedBy, "OSD report resolved", o.FormNumber+" was resolved", models.NotificationSuccess, osdLink(o.ID))
			return nil
		},
	})
}
