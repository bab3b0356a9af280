// Package documents implements the voucher lifecycle: MRRV receipts, MIRV
// issues, MRV returns, RFIM inspections, OSD reports, gate passes and job
// orders. Every operation is one transaction; notifications go out only
// after it commits.
package documents

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/arahman1700/nit-logistics-portal/internal/apperr"
	"github.com/arahman1700/nit-logistics-portal/internal/audit"
	"github.com/arahman1700/nit-logistics-portal/internal/auth"
	"github.com/arahman1700/nit-logistics-portal/internal/metrics"
	"github.com/arahman1700/nit-logistics-portal/internal/models"
	"github.com/arahman1700/nit-logistics-portal/internal/notify"
	"github.com/arahman1700/nit-logistics-portal/internal/numbering"
	"github.com/arahman1700/nit-logistics-portal/internal/repository"
	"github.com/arahman1700/nit-logistics-portal/internal/workflow"
)

const actionCreate workflow.Action = "create"

type Notifier interface {
	Notify(ctx context.Context, msgs ...notify.Message)
}

type Service struct {
	store    repository.Store
	numbers  *numbering.Generator
	notifier Notifier
	logger   logrus.FieldLogger
	now      func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store repository.Store, numbers *numbering.Generator, notifier Notifier, logger logrus.FieldLogger, opts ...Option) *Service {
	s := &Service{
		store:    store,
		numbers:  numbers,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
	if s.notifier == nil {
		s.notifier = (*notify.Dispatcher)(nil)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// outbox collects notifications raised inside a transaction.
type outbox []notify.Message

func (o *outbox) add(recipient, title, message string, typ models.NotificationType, link string) {
	*o = append(*o, notify.Message{Recipient: recipient, Title: title, Message: message, Type: typ, Link: link})
}

// run executes fn in a transaction and dispatches its notifications after
// commit.
func (s *Service) run(ctx context.Context, kind workflow.Kind, action workflow.Action, fn func(tx repository.Store, out *outbox) error) error {
	var out outbox
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		out = out[:0]
		return fn(tx, &out)
	})
	if err = s.observe(kind, action, err); err != nil {
		return err
	}
	s.notifier.Notify(ctx, out...)
	return nil
}

func (s *Service) create(ctx context.Context, kind workflow.Kind, prefix numbering.Prefix, fn func(tx repository.Store, number string, out *outbox) error) error {
	return s.numbered(ctx, kind, actionCreate, prefix, fn)
}

// numbered runs fn with a freshly drawn form number per attempt. A number
// taken by a concurrent insert rolls the attempt back and draws again.
func (s *Service) numbered(ctx context.Context, kind workflow.Kind, action workflow.Action, prefix numbering.Prefix, fn func(tx repository.Store, number string, out *outbox) error) error {
	var out outbox
	err := s.numbers.Assign(prefix, isDuplicate, func(number string) error {
		return s.store.WithinTx(ctx, func(tx repository.Store) error {
			out = out[:0]
			return fn(tx, number, &out)
		})
	})
	if err = s.observe(kind, action, err); err != nil {
		return err
	}
	s.notifier.Notify(ctx, out...)
	return nil
}

func isDuplicate(err error) bool {
	return errors.Is(err, repository.ErrDuplicateNumber)
}

// observe records the outcome and maps store and workflow errors onto the
// apperr taxonomy.
func (s *Service) observe(kind workflow.Kind, action workflow.Action, err error) error {
	if err == nil {
		metrics.Transitions.WithLabelValues(string(kind), string(action), metrics.OutcomeOK).Inc()
		return nil
	}
	mapped := translate(err)
	outcome := metrics.OutcomeRejected
	switch mapped.Kind {
	case apperr.KindConflict:
		outcome = metrics.OutcomeConflict
	case apperr.KindInternal:
		outcome = metrics.OutcomeError
	}
	metrics.Transitions.WithLabelValues(string(kind), string(action), outcome).Inc()

	entry := s.logger.WithFields(logrus.Fields{"kind": kind, "action": action, "outcome": outcome})
	if mapped.Kind == apperr.KindInternal {
		entry.WithError(err).Error("document operation failed")
	} else {
		entry.WithField("reason", mapped.Message).Warn("document operation rejected")
	}
	return mapped
}

func translate(err error) *apperr.Error {
	var ae *apperr.Error
	switch {
	case errors.As(err, &ae):
		return ae
	case errors.Is(err, workflow.ErrForbidden):
		return apperr.Wrap(apperr.KindForbidden, "not permitted", err)
	case errors.Is(err, workflow.ErrInvalidTransition):
		return apperr.Wrap(apperr.KindConflict, "invalid status transition", err)
	case errors.Is(err, repository.ErrStatusConflict):
		return apperr.Wrap(apperr.KindConflict, "document was changed by another request", err)
	case errors.Is(err, repository.ErrDuplicate):
		return apperr.Wrap(apperr.KindConflict, "record already exists", err)
	case errors.Is(err, repository.ErrInsufficientStock):
		return apperr.Wrap(apperr.KindConflict, "insufficient stock", err)
	case errors.Is(err, numbering.ErrExhausted):
		return apperr.Wrap(apperr.KindConflict, "could not allocate a form number", err)
	case errors.Is(err, repository.ErrNotFound):
		return apperr.Wrap(apperr.KindNotFound, "not found", err)
	}
	return apperr.Internal("document operation failed", err)
}

// notFound maps a missing reference to a not-found error naming it.
func notFound(err error, what, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("%s %s not found", what, id)
	}
	return err
}

func authorizeCreate(kind workflow.Kind, actor auth.Session) error {
	if !workflow.CanCreate(kind, actor.Role) {
		return apperr.Forbidden("role %s may not create %s", actor.Role, kind)
	}
	return nil
}

func (s *Service) logTransition(ctx context.Context, tx repository.Store, actor auth.Session, kind workflow.Kind, id string, action workflow.Action, from, to models.Status, details any) error {
	return audit.WriteLog(ctx, tx, audit.LogOptions{
		UserID:     actor.UserID,
		UserName:   actor.Name,
		EntityType: string(kind),
		EntityID:   id,
		Action:     string(action),
		From:       from,
		To:         to,
		Details:    details,
	})
}

func (s *Service) stamp() *time.Time {
	t := s.now()
	return &t
}

// History returns the activity trail of one document, oldest first.
func (s *Service) History(ctx context.Context, kind workflow.Kind, id string) ([]models.ActivityLog, error) {
	rows, err := s.store.ListActivity(ctx, string(kind), id)
	if err != nil {
		return nil, apperr.Internal("could not load history", err)
	}
	return rows, nil
}

func (s *Service) statusOf(ctx context.Context, kind workflow.Kind, id string) (models.Status, error) {
	var (
		r   record
		err error
	)
	switch kind {
	case workflow.KindMRRV:
		r, err = s.store.GetMRRV(ctx, id)
	case workflow.KindMIRV:
		r, err = s.store.GetMIRV(ctx, id)
	case workflow.KindMRV:
		r, err = s.store.GetMRV(ctx, id)
	case workflow.KindRFIM:
		r, err = s.store.GetRFIM(ctx, id)
	case workflow.KindOSD:
		r, err = s.store.GetOSD(ctx, id)
	case workflow.KindJobOrder:
		r, err = s.store.GetJobOrder(ctx, id)
	default:
		return "", apperr.NotFound("unknown document kind %s", kind)
	}
	if err != nil {
		return "", translate(notFound(err, string(kind), id))
	}
	return r.CurrentStatus(), nil
}
