package memory

import (
	"context"
	"time"

	"github.com/arahman1700/nit-logistics-portal/internal/models"
	"github.com/arahman1700/nit-logistics-portal/internal/repository"
)

func (s *Store) CreateMRRV(ctx context.Context, m *models.MRRV) error {
	return s.write(func(st *state) error {
		if err := claim(st, m.FormNumber); err != nil {
			return err
		}
		s.stamp(&m.CreatedAt, &m.UpdatedAt)
		v := *m
		v.Lines = cloneLines(m.Lines)
		st.mrrvs[m.ID] = v
		return nil
	})
}

func (s *Store) GetMRRV(ctx context.Context, id string) (*models.MRRV, error) {
	var out models.MRRV
	err := s.read(func(st *state) (err error) { out, err = find(st.mrrvs, id); return })
	if err != nil {
		return nil, err
	}
	out.Lines = cloneLines(out.Lines)
	return &out, nil
}

func (s *Store) UpdateMRRV(ctx context.Context, m *models.MRRV, expect models.Status) error {
	return s.write(func(st *state) error {
		cur, err := find(st.mrrvs, m.ID)
		if err != nil {
			return err
		}
		if cur.Status != expect {
			return repository.ErrStatusConflict
		}
		s.stamp(nil, &m.UpdatedAt)
		v := *m
		v.FormNumber, v.CreatedAt, v.Lines = cur.FormNumber, cur.CreatedAt, cur.Lines
		st.mrrvs[m.ID] = v
		return nil
	})
}

func (s *Store) ListMRRVs(ctx context.Context, f repository.ListFilter) ([]models.MRRV, error) {
	var rows []models.MRRV
	_ = s.read(func(st *state) error {
		for _, m := range st.mrrvs {
			if matches(f, m.VoucherHeader, m.WarehouseID, "") {
				m.Lines = cloneLines(m.Lines)
				rows = append(rows, m)
			}
		}
		return nil
	})
	return page(rows, func(m models.MRRV) time.Time { return m.CreatedAt }, f), nil
}

func (s *Store) CreateMIRV(ctx context.Context, m *models.MIRV) error {
	return s.write(func(st *state) error {
		if err := claim(st, m.FormNumber); err != nil {
			return err
		}
		s.stamp(&m.CreatedAt, &m.UpdatedAt)
		v := *m
		v.Lines = cloneLines(m.Lines)
		st.mirvs[m.ID] = v
		return nil
	})
}

func (s *Store) GetMIRV(ctx context.Context, id string) (*models.MIRV, error) {
	var out models.MIRV
	err := s.read(func(st *state) (err error) { out, err = find(st.mirvs, id); return })
	if err != nil {
		return nil, err
	}
	out.Lines = cloneLines(out.Lines)
	return &out, nil
}

func (s *Store) UpdateMIRV(ctx context.Context, m *models.MIRV, expect models.Status) error {
	return s.write(func(st *state) error {
		cur, err := find(st.mirvs, m.ID)
		if err != nil {
			return err
		}
		if cur.Status != expect {
			return repository.ErrStatusConflict
		}
		s.stamp(nil, &m.UpdatedAt)
		v := *m
		v.FormNumber, v.CreatedAt, v.Lines = cur.FormNumber, cur.CreatedAt, cur.Lines
		st.mirvs[m.ID] = v
		return nil
	})
}

func (s *Store) ListMIRVs(ctx context.Context, f repository.ListFilter) ([]models.MIRV, error) {
	var rows []models.MIRV
	_ = s.read(func(st *state) error {
		for _, m := range st.mirvs {
			if matches(f, m.VoucherHeader, m.WarehouseID, m.ProjectID) {
				m.Lines = cloneLines(m.Lines)
				rows = append(rows, m)
			}
		}
		return nil
	})
	return page(rows, func(m models.MIRV) time.Time { return m.CreatedAt }, f), nil
}

func (s *Store) CreateMRV(ctx context.Context, m *models.MRV) error {
	return s.write(func(st *state) error {
		if err := claim(st, m.FormNumber); err != nil {
			return err
		}
		s.stamp(&m.CreatedAt, &m.UpdatedAt)
		v := *m
		v.Lines = cloneLines(m.Lines)
		st.mrvs[m.ID] = v
		return nil
	})
}

func (s *Store) GetMRV(ctx context.Context, id string) (*models.MRV, error) {
	var out models.MRV
	err := s.read(func(st *state) (err error) { out, err = find(st.mrvs, id); return })
	if err != nil {
		return nil, err
	}
	out.Lines = cloneLines(out.Lines)
	return &out, nil
}

func (s *Store) UpdateMRV(ctx context.Context, m *models.MRV, expect models.Status) error {
	return s.write(func(st *state) error {
		cur, err := find(st.mrvs, m.ID)
		if err != nil {
			return err
		}
		if cur.Status != expect {
			return repository.ErrStatusConflict
		}
		s.stamp(nil, &m.UpdatedAt)
		v := *m
		v.FormNumber, v.CreatedAt, v.Lines = cur.FormNumber, cur.CreatedAt, cur.Lines
		st.mrvs[m.ID] = v
		return nil
	})
}

func (s *Store) ListMRVs(ctx context.Context, f repository.ListFilter) ([]models.MRV, error) {
	var rows []models.MRV
	_ = s.read(func(st *state) error {
		for _, m := range st.mrvs {
			if matches(f, m.VoucherHeader, m.WarehouseID, m.ProjectID) {
				m.Lines = cloneLines(m.Lines)
				rows = append(rows, m)
			}
		}
		return nil
	})
	return page(rows, func(m models.MRV) time.Time { return m.CreatedAt }, f), nil
}

func (s *Store) CreateRFIM(ctx context.Context, r *models.RFIM) error {
	return s.write(func(st *state) error {
		if err := claim(st, r.FormNumber); err != nil {
			return err
		}
		s.stamp(&r.CreatedAt, &r.UpdatedAt)
		v := *r
		v.Lines = cloneLines(r.Lines)
		st.rfims[r.ID] = v
		return nil
	})
}

func (s *Store) GetRFIM(ctx context.Context, id string) (*models.RFIM, error) {
	var out models.RFIM
	err := s.read(func(st *state) (err error) { out, err = find(st.rfims, id); return })
	if err != nil {
		return nil, err
	}
	out.Lines = cloneLines(out.Lines)
	return &out, nil
}

func (s *Store) UpdateRFIM(ctx context.Context, r *models.RFIM, expect models.Status) error {
	return s.write(func(st *state) error {
		cur, err := find(st.rfims, r.ID)
		if err != nil {
			return err
		}
		if cur.Status != expect {
			return repository.ErrStatusConflict
		}
		s.stamp(nil, &r.UpdatedAt)
		v := *r
		v.FormNumber, v.CreatedAt, v.MRRVID, v.Lines = cur.FormNumber, cur.CreatedAt, cur.MRRVID, cur.Lines
		st.rfims[r.ID] = v
		return nil
	})
}

func (s *Store) ListRFIMs(ctx context.Context, f repository.ListFilter) ([]models.RFIM, error) {
	var rows []models.RFIM
	_ = s.read(func(st *state) error {
		for _, r := range st.rfims {
			if matches(f, r.VoucherHeader, "", "") {
				r.Lines = cloneLines(r.Lines)
				rows = append(rows, r)
			}
		}
		return nil
	})
	return page(rows, func(r models.RFIM) time.Time { return r.CreatedAt }, f), nil
}

func (s *Store) ListRFIMsByMRRV(ctx context.Context, mrrvID string) ([]models.RFIM, error) {
	var rows []models.RFIM
	_ = s.read(func(st *state) error {
		for _, r := range st.rfims {
			if r.MRRVID == mrrvID {
				r.Lines = cloneLines(r.Lines)
				rows = append(rows, r)
			}
		}
		return nil
	})
	return page(rows, func(r models.RFIM) time.Time { return r.CreatedAt }, repository.ListFilter{Limit: 500}), nil
}

func (s *Store) CreateGatePass(ctx context.Context, g *models.GatePass) error {
	return s.write(func(st *state) error {
		for _, existing := range st.gatePasses {
			if existing.MIRVID == g.MIRVID {
				return repository.ErrDuplicate
			}
		}
		if err := claim(st, g.PassNumber); err != nil {
			return err
		}
		s.stamp(&g.IssuedAt, nil)
		st.gatePasses[g.ID] = *g
		return nil
	})
}

func (s *Store) GetGatePassByMIRV(ctx context.Context, mirvID string) (*models.GatePass, error) {
	var out *models.GatePass
	_ = s.read(func(st *state) error {
		for _, g := range st.gatePasses {
			if g.MIRVID == mirvID {
				out = &g
			}
		}
		return nil
	})
	if out == nil {
		return nil, repository.ErrNotFound
	}
	return out, nil
}
