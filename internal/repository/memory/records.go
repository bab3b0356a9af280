package memory

import (
	"context"
	"time"

	"github.com/arahman1700/nit-logistics-portal/internal/models"
	"github.com/arahman1700/nit-logistics-portal/internal/repository"
)

func (s *Store) CreateOSD(ctx context.Context, o *models.OSDReport) error {
	return s.write(func(st *state) error {
		if err := claim(st, o.FormNumber); err != nil {
			return err
		}
		s.stamp(&o.CreatedAt, &o.UpdatedAt)
		st.osds[o.ID] = *o
		return nil
	})
}

func (s *Store) GetOSD(ctx context.Context, id string) (*models.OSDReport, error) {
	var out models.OSDReport
	err := s.read(func(st *state) (err error) { out, err = find(st.osds, id); return })
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) UpdateOSD(ctx context.Context, o *models.OSDReport, expect models.Status) error {
	return s.write(func(st *state) error {
		cur, err := find(st.osds, o.ID)
		if err != nil {
			return err
		}
		if cur.Status != expect {
			return repository.ErrStatusConflict
		}
		s.stamp(nil, &o.UpdatedAt)
		v := *o
		v.FormNumber, v.CreatedAt = cur.FormNumber, cur.CreatedAt
		st.osds[o.ID] = v
		return nil
	})
}

func (s *Store) ListOSDs(ctx context.Context, mrrvID string) ([]models.OSDReport, error) {
	var rows []models.OSDReport
	_ = s.read(func(st *state) error {
		for _, o := range st.osds {
			if mrrvID == "" || o.MRRVID == mrrvID {
				rows = append(rows, o)
			}
		}
		return nil
	})
	return page(rows, func(o models.OSDReport) time.Time { return o.CreatedAt }, repository.ListFilter{Limit: 500}), nil
}

func (s *Store) CreateScrapEntry(ctx context.Context, e *models.ScrapEntry) error {
	return s.write(func(st *state) error {
		s.stamp(&e.CreatedAt, nil)
		st.scrap = append(st.scrap, *e)
		return nil
	})
}

func (s *Store) ListScrapEntries(ctx context.Context, mrvID string) ([]models.ScrapEntry, error) {
	var rows []models.ScrapEntry
	_ = s.read(func(st *state) error {
		for _, e := range st.scrap {
			if mrvID == "" || e.MRVID == mrvID {
				rows = append(rows, e)
			}
		}
		return nil
	})
	return rows, nil
}

func (s *Store) CreateJobOrder(ctx context.Context, j *models.JobOrder) error {
	return s.write(func(st *state) error {
		if err := claim(st, j.OrderNumber); err != nil {
			return err
		}
		s.stamp(&j.CreatedAt, &j.UpdatedAt)
		st.jobs[j.ID] = *j
		return nil
	})
}

func (s *Store) GetJobOrder(ctx context.Context, id string) (*models.JobOrder, error) {
	var out models.JobOrder
	err := s.read(func(st *state) (err error) { out, err = find(st.jobs, id); return })
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) UpdateJobOrder(ctx context.Context, j *models.JobOrder, expect models.Status) error {
	return s.write(func(st *state) error {
		cur, err := find(st.jobs, j.ID)
		if err != nil {
			return err
		}
		if cur.Status != expect {
			return repository.ErrStatusConflict
		}
		s.stamp(nil, &j.UpdatedAt)
		v := *j
		v.OrderNumber, v.CreatedAt = cur.OrderNumber, cur.CreatedAt
		st.jobs[j.ID] = v
		return nil
	})
}

func (s *Store) ListJobOrders(ctx context.Context, f repository.ListFilter) ([]models.JobOrder, error) {
	var rows []models.JobOrder
	_ = s.read(func(st *state) error {
		for _, j := range st.jobs {
			if f.Status != "" && j.Status != f.Status {
				continue
			}
			if f.ProjectID != "" && models.StrVal(j.ProjectID) != f.ProjectID {
				continue
			}
			if f.Number != "" && j.OrderNumber != f.Number {
				continue
			}
			rows = append(rows, j)
		}
		return nil
	})
	return page(rows, func(j models.JobOrder) time.Time { return j.CreatedAt }, f), nil
}

func (s *Store) RecordActivity(ctx context.Context, a *models.ActivityLog) error {
	return s.write(func(st *state) error {
		if a.ID == "" {
			a.ID = models.NewID()
		}
		s.stamp(&a.CreatedAt, nil)
		st.activity = append(st.activity, *a)
		return nil
	})
}

// ListActivity returns entries oldest first.
func (s *Store) ListActivity(ctx context.Context, entityType, entityID string) ([]models.ActivityLog, error) {
	var rows []models.ActivityLog
	_ = s.read(func(st *state) error {
		for _, a := range st.activity {
			if a.EntityType == entityType && a.EntityID == entityID {
				rows = append(rows, a)
			}
		}
		return nil
	})
	return rows, nil
}

func (s *Store) AddAttachment(ctx context.Context, a *models.Attachment) error {
	return s.write(func(st *state) error {
		s.stamp(&a.CreatedAt, nil)
		st.attachments = append(st.attachments, *a)
		return nil
	})
}

func (s *Store) ListAttachments(ctx context.Context, ownerType, ownerID string) ([]models.Attachment, error) {
	var rows []models.Attachment
	_ = s.read(func(st *state) error {
		for _, a := range st.attachments {
			if a.OwnerType == ownerType && a.OwnerID == ownerID {
				rows = append(rows, a)
			}
		}
		return nil
	})
	return rows, nil
}
