package gormstore

import (
	"context"

	"github.com/arahman1700/nit-logistics-portal/internal/models"
	"github.com/arahman1700/nit-logistics-portal/internal/repository"
)

func (s *Store) CreateMRRV(ctx context.Context, m *models.MRRV) error {
	return translate(s.conn(ctx).Create(m).Error)
}

func (s *Store) GetMRRV(ctx context.Context, id string) (*models.MRRV, error) {
	return first[models.MRRV](s.conn(ctx), id, true)
}

func (s *Store) UpdateMRRV(ctx context.Context, m *models.MRRV, expect models.Status) error {
	cols := headerColumns(m.VoucherHeader)
	cols["received_by"] = m.ReceivedBy
	cols["rfim_required"] = m.RFIMRequired
	cols["rfim_created"] = m.RFIMCreated
	return conditional[models.MRRV](s.conn(ctx), m.ID, expect, cols)
}

func (s *Store) ListMRRVs(ctx context.Context, f repository.ListFilter) ([]models.MRRV, error) {
	var rows []models.MRRV
	err := filtered(s.conn(ctx), f, columns{warehouse: true, number: "form_number"}).
		Preload("Lines", byPosition).Find(&rows).Error
	return rows, translate(err)
}

func (s *Store) CreateMIRV(ctx context.Context, m *models.MIRV) error {
	return translate(s.conn(ctx).Create(m).Error)
}

func (s *Store) GetMIRV(ctx context.Context, id string) (*models.MIRV, error) {
	return first[models.MIRV](s.conn(ctx), id, true)
}

func (s *Store) UpdateMIRV(ctx context.Context, m *models.MIRV, expect models.Status) error {
	cols := headerColumns(m.VoucherHeader)
	cols["approval_level"] = m.ApprovalLevel
	cols["gate_pass_created"] = m.GatePassCreated
	return conditional[models.MIRV](s.conn(ctx), m.ID, expect, cols)
}

func (s *Store) ListMIRVs(ctx context.Context, f repository.ListFilter) ([]models.MIRV, error) {
	var rows []models.MIRV
	err := filtered(s.conn(ctx), f, columns{warehouse: true, project: true, number: "form_number"}).
		Preload("Lines", byPosition).Find(&rows).Error
	return rows, translate(err)
}

func (s *Store) CreateMRV(ctx context.Context, m *models.MRV) error {
	return translate(s.conn(ctx).Create(m).Error)
}

func (s *Store) GetMRV(ctx context.Context, id string) (*models.MRV, error) {
	return first[models.MRV](s.conn(ctx), id, true)
}

func (s *Store) UpdateMRV(ctx context.Context, m *models.MRV, expect models.Status) error {
	return conditional[models.MRV](s.conn(ctx), m.ID, expect, headerColumns(m.VoucherHeader))
}

func (s *Store) ListMRVs(ctx context.Context, f repository.ListFilter) ([]models.MRV, error) {
	var rows []models.MRV
	err := filtered(s.conn(ctx), f, columns{warehouse: true, project: true, number: "form_number"}).
		Preload("Lines", byPosition).Find(&rows).Error
	return rows, translate(err)
}

func (s *Store) CreateRFIM(ctx context.Context, r *models.RFIM) error {
	return translate(s.conn(ctx).Create(r).Error)
}

func (s *Store) GetRFIM(ctx context.Context, id string) (*models.RFIM, error) {
	return first[models.RFIM](s.conn(ctx), id, true)
}

func (s *Store) UpdateRFIM(ctx context.Context, r *models.RFIM, expect models.Status) error {
	cols := headerColumns(r.VoucherHeader)
	cols["inspector_id"] = r.InspectorID
	cols["result_notes"] = r.ResultNotes
	cols["inspected_at"] = r.InspectedAt
	return conditional[models.RFIM](s.conn(ctx), r.ID, expect, cols)
}

func (s *Store) ListRFIMs(ctx context.Context, f repository.ListFilter) ([]models.RFIM, error) {
	var rows []models.RFIM
	err := filtered(s.conn(ctx), f, columns{number: "form_number"}).
		Preload("Lines", byPosition).Find(&rows).Error
	return rows, translate(err)
}

func (s *Store) ListRFIMsByMRRV(ctx context.Context, mrrvID string) ([]models.RFIM, error) {
	var rows []models.RFIM
	err := s.conn(ctx).Where("mrrv_id = ?", mrrvID).Order("created_at DESC").
		Preload("Lines", byPosition).Find(&rows).Error
	return rows, translate(err)
}

func (s *Store) CreateGatePass(ctx context.Context, g *models.GatePass) error {
	return translate(s.conn(ctx).Create(g).Error)
}

func (s *Store) GetGatePassByMIRV(ctx context.Context, mirvID string) (*models.GatePass, error) {
	var g models.GatePass
	if err := s.conn(ctx).First(&g, "mirv_id = ?", mirvID).Error; err != nil {
		return nil, translate(err)
	}
	return &g, nil
}
