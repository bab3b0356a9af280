// Package workflow holds the status machines of every document kind. It is
// pure: callers load the current status, resolve the action here, then apply
// the result with a conditional write.
package workflow

import (
	"errors"
	"fmt"

	"github.com/arahman1700/nit-logistics-portal/internal/models"
)

type Kind string

const (
	KindMRRV     Kind = "mrrv"
	KindMIRV     Kind = "mirv"
	KindMRV      Kind = "mrv"
	KindRFIM     Kind = "rfim"
	KindJobOrder Kind = "job_order"
	KindOSD      Kind = "osd"
)

type Action string

const (
	ActionSubmit      Action = "submit"
	ActionApprove     Action = "approve"
	ActionReject      Action = "reject"
	ActionInspect     Action = "inspect"
	ActionIssue       Action = "issue"
	ActionComplete    Action = "complete"
	ActionPass        Action = "pass"
	ActionFail        Action = "fail"
	ActionConditional Action = "conditional"
	ActionStart       Action = "start"
	ActionCancel      Action = "cancel"
	ActionResolve     Action = "resolve"
)

var (
	ErrUnknownKind       = errors.New("unknown document kind")
	ErrInvalidTransition = errors.New("transition not allowed")
	ErrForbidden         = errors.New("role not permitted")
)

type Transition struct {
	Action Action
	From   []models.Status
	To     models.Status
	Roles  []models.Role
}

type machine struct {
	initial     []models.Status
	creators    []models.Role
	transitions []Transition
}

var (
	admin     = models.RoleAdmin
	warehouse = models.RoleWarehouse
	transport = models.RoleTransport
	engineer  = models.RoleEngineer
)

func from(s ...models.Status) []models.Status { return s }
func roles(r ...models.Role) []models.Role     { return r }

var machines = map[Kind]machine{
	KindMRRV: {
		initial:  from(models.StatusDraft, models.StatusPendingApproval),
		creators: roles(admin, warehouse),
		transitions: []Transition{
			{ActionSubmit, from(models.StatusDraft), models.StatusPendingApproval, roles(admin, warehouse)},
			{ActionApprove, from(models.StatusPendingApproval), models.StatusApproved, roles(admin)},
			{ActionReject, from(models.StatusPendingApproval), models.StatusRejected, roles(admin)},
			{ActionInspect, from(models.StatusApproved), models.StatusInspected, roles(admin, warehouse)},
		},
	},
	KindMIRV: {
		initial:  from(models.StatusDraft, models.StatusPendingApproval),
		creators: roles(admin, warehouse, engineer),
		transitions: []Transition{
			{ActionSubmit, from(models.StatusDraft), models.StatusPendingApproval, roles(admin, warehouse, engineer)},
			{ActionApprove, from(models.StatusPendingApproval), models.StatusApproved, roles(admin)},
			{ActionReject, from(models.StatusPendingApproval), models.StatusRejected, roles(admin)},
			{ActionIssue, from(models.StatusApproved), models.StatusIssued, roles(admin, warehouse, transport)},
		},
	},
	KindMRV: {
		initial:  from(models.StatusPending),
		creators: roles(admin, warehouse, engineer),
		transitions: []Transition{
			{ActionApprove, from(models.StatusPending), models.StatusApproved, roles(admin)},
			{ActionComplete, from(models.StatusPending, models.StatusApproved), models.StatusCompleted, roles(admin, warehouse)},
		},
	},
	KindRFIM: {
		initial:  from(models.StatusPending),
		creators: roles(admin, warehouse),
		transitions: []Transition{
			{ActionPass, from(models.StatusPending), models.StatusPass, roles(admin, engineer)},
			{ActionFail, from(models.StatusPending), models.StatusFail, roles(admin, engineer)},
			{ActionConditional, from(models.StatusPending), models.StatusConditional, roles(admin, engineer)},
		},
	},
	KindJobOrder: {
		initial:  from(models.StatusPending),
		creators: roles(admin, warehouse, transport, engineer),
		transitions: []Transition{
			{ActionApprove, from(models.StatusPending), models.StatusApproved, roles(admin)},
			{ActionStart, from(models.StatusApproved), models.StatusInProgress, roles(admin, transport)},
			{ActionComplete, from(models.StatusInProgress), models.StatusCompleted, roles(admin, transport)},
			{ActionCancel, from(models.StatusPending, models.StatusApproved, models.StatusInProgress), models.StatusCancelled, roles(admin)},
		},
	},
	KindOSD: {
		initial:  from(models.StatusOpen),
		creators: roles(admin, warehouse, engineer),
		transitions: []Transition{
			{ActionResolve, from(models.StatusOpen), models.StatusResolved, roles(admin, warehouse)},
		},
	},
}

func lookup(kind Kind) (machine, error) {
	m, ok := machines[kind]
	if !ok {
		return machine{}, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return m, nil
}

// Resolve returns the status that action moves a document of kind out of
// current into. Unknown actions and actions that do not apply to current
// yield ErrInvalidTransition; a known action outside the caller's role
// yields ErrForbidden regardless of current.
func Resolve(kind Kind, action Action, current models.Status, role models.Role) (models.Status, error) {
	m, err := lookup(kind)
	if err != nil {
		return "", err
	}
	var candidates []Transition
	for _, t := range m.transitions {
		if t.Action == action {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: %s cannot %s", ErrInvalidTransition, kind, action)
	}
	permitted := false
	for _, t := range candidates {
		if contains(t.Roles, role) {
			permitted = true
			if contains(t.From, current) {
				return t.To, nil
			}
		}
	}
	if !permitted {
		return "", fmt.Errorf("%w: %s may not %s a %s", ErrForbidden, role, action, kind)
	}
	return "", fmt.Errorf("%w: %s %s from %s", ErrInvalidTransition, action, kind, current)
}

// CanTransition reports whether any role may move kind from one status to another.
func CanTransition(kind Kind, fromStatus, to models.Status) bool {
	_, ok := ActionFor(kind, fromStatus, to)
	return ok
}

// ActionFor finds the action that moves kind from one status to another.
// Board moves use it to turn a dropped card into a real transition.
func ActionFor(kind Kind, fromStatus, to models.Status) (Action, bool) {
	m, err := lookup(kind)
	if err != nil {
		return "", false
	}
	for _, t := range m.transitions {
		if t.To == to && contains(t.From, fromStatus) {
			return t.Action, true
		}
	}
	return "", false
}

// IsTerminal reports whether no transition leaves status.
func IsTerminal(kind Kind, status models.Status) bool {
	m, err := lookup(kind)
	if err != nil {
		return false
	}
	for _, t := range m.transitions {
		if contains(t.From, status) {
			return false
		}
	}
	return true
}

// IsInitial reports whether a new document of kind may start in status.
func IsInitial(kind Kind, status models.Status) bool {
	m, err := lookup(kind)
	if err != nil {
		return false
	}
	return contains(m.initial, status)
}

func CanCreate(kind Kind, role models.Role) bool {
	m, err := lookup(kind)
	if err != nil {
		return false
	}
	return contains(m.creators, role)
}

// Statuses lists every status kind can be in, initial ones first.
func Statuses(kind Kind) []models.Status {
	m, err := lookup(kind)
	if err != nil {
		return nil
	}
	out := append([]models.Status(nil), m.initial...)
	add := func(s models.Status) {
		if !contains(out, s) {
			out = append(out, s)
		}
	}
	for _, t := range m.transitions {
		for _, s := range t.From {
			add(s)
		}
		add(t.To)
	}
	return out
}

// Actions lists the actions role can take on kind from status.
func Actions(kind Kind, status models.Status, role models.Role) []Action {
	m, err := lookup(kind)
	if err != nil {
		return nil
	}
	var out []Action
	for _, t := range m.transitions {
		if contains(t.From, status) && contains(t.Roles, role) {
			out = append(out, t.Action)
		}
	}
	return out
}

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
