package documents

import (
	"context"

	"github.com/arahman1700/nit-logistics-portal/internal/auth"
	"github.com/arahman1700/nit-logistics-portal/internal/models"
	"github.com/arahman1700/nit-logistics-portal/internal/repository"
	"github.com/arahman1700/nit-logistics-portal/internal/workflow"
)

type record interface {
	RecordID() string
	CurrentStatus() models.Status
}

// table tells transition how to load and conditionally save one kind.
type table[T record] struct {
	kind      workflow.Kind
	get       func(ctx context.Context, tx repository.Store, id string) (T, error)
	save      func(ctx context.Context, tx repository.Store, d T, expect models.Status) error
	setStatus func(d T, st models.Status)
}

// hooks customise a transition. check and prepare run before anything is
// written; effect runs after the status has been claimed, in the same
// transaction, so a failing effect undoes the claim.
type hooks[T record] struct {
	check   func(tx repository.Store, d T) error
	prepare func(d T)
	effect  func(tx repository.Store, d T, out *outbox) error
	details func(d T) any
}

func transition[T record](ctx context.Context, s *Service, t table[T], actor auth.Session, id string, action workflow.Action, h hooks[T]) (T, error) {
	var result T
	err := s.run(ctx, t.kind, action, func(tx repository.Store, out *outbox) error {
		d, err := transitionIn(ctx, s, tx, out, t, actor, id, action, h)
		result = d
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// transitionIn is transition inside a transaction the caller already holds.
func transitionIn[T record](ctx context.Context, s *Service, tx repository.Store, out *outbox, t table[T], actor auth.Session, id string, action workflow.Action, h hooks[T]) (T, error) {
	var zero T
	d, err := t.get(ctx, tx, id)
	if err != nil {
		return zero, notFound(err, string(t.kind), id)
	}
	from := d.CurrentStatus()
	to, err := workflow.Resolve(t.kind, action, from, actor.Role)
	if err != nil {
		return zero, err
	}
	if h.check != nil {
		if err := h.check(tx, d); err != nil {
			return zero, err
		}
	}
	t.setStatus(d, to)
	if h.prepare != nil {
		h.prepare(d)
	}
	if err := t.save(ctx, tx, d, from); err != nil {
		return zero, err
	}
	if h.effect != nil {
		if err := h.effect(tx, d, out); err != nil {
			return zero, err
		}
	}
	var details any
	if h.details != nil {
		details = h.details(d)
	}
	if err := s.logTransition(ctx, tx, actor, t.kind, d.RecordID(), action, from, to, details); err != nil {
		return zero, err
	}
	return d, nil
}

var (
	mrrvTable = table[*models.MRRV]{
		kind: workflow.KindMRRV,
		get: func(ctx context.Context, tx repository.Store, id string) (*models.MRRV, error) {
			return tx.GetMRRV(ctx, id)
		},
		save: func(ctx context.Context, tx repository.Store, d *models.MRRV, expect models.Status) error {
			return tx.UpdateMRRV(ctx, d, expect)
		},
		setStatus: func(d *models.MRRV, st models.Status) { d.Status = st },
	}
	mirvTable = table[*models.MIRV]{
		kind: workflow.KindMIRV,
		get: func(ctx context.Context, tx repository.Store, id string) (*models.MIRV, error) {
			return tx.GetMIRV(ctx, id)
		},
		save: func(ctx context.Context, tx repository.Store, d *models.MIRV, expect models.Status) error {
			return tx.UpdateMIRV(ctx, d, expect)
		},
		setStatus: func(d *models.MIRV, st models.Status) { d.Status = st },
	}
	mrvTable = table[*models.MRV]{
		kind: workflow.KindMRV,
		get: func(ctx context.Context, tx repository.Store, id string) (*models.MRV, error) {
			return tx.GetMRV(ctx, id)
		},
		save: func(ctx context.Context, tx repository.Store, d *models.MRV, expect models.Status) error {
			return tx.UpdateMRV(ctx, d, expect)
		},
		setStatus: func(d *models.MRV, st models.Status) { d.Status = st },
	}
	rfimTable = table[*models.RFIM]{
		kind: workflow.KindRFIM,
		get: func(ctx context.Context, tx repository.Store, id string) (*models.RFIM, error) {
			return tx.GetRFIM(ctx, id)
		},
		save: func(ctx context.Context, tx repository.Store, d *models.RFIM, expect models.Status) error {
			return tx.UpdateRFIM(ctx, d, expect)
		},
		setStatus: func(d *models.RFIM, st models.Status) { d.Status = st },
	}
	osdTable = table[*models.OSDReport]{
		kind: workflow.KindOSD,
		get: func(ctx context.Context, tx repository.Store, id string) (*models.OSDReport, error) {
			return tx.GetOSD(ctx, id)
		},
		save: func(ctx context.Context, tx repository.Store, d *models.OSDReport, expect models.Status) error {
			return tx.UpdateOSD(ctx, d, expect)
		},
		setStatus: func(d *models.OSDReport, st models.Status) { d.Status = st },
	}
	jobTable = table[*models.JobOrder]{
		kind: workflow.KindJobOrder,
		get: func(ctx context.Context, tx repository.Store, id string) (*models.JobOrder, error) {
			return tx.GetJobOrder(ctx, id)
		},
		save: func(ctx context.Context, tx repository.Store, d *models.JobOrder, expect models.Status) error {
			return tx.UpdateJobOrder(ctx, d, expect)
		},
		setStatus: func(d *models.JobOrder, st models.Status) { d.Status = st },
	}
)
