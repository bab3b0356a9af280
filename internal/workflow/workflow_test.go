package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arahman1700/nit-logistics-portal/internal/models"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		action  Action
		from    models.Status
		role    models.Role
		want    models.Status
		wantErr error
	}{
		{"mrrv submit", KindMRRV, ActionSubmit, models.StatusDraft, models.RoleWarehouse, models.StatusPendingApproval, nil},
		{"mrrv approve", KindMRRV, ActionApprove, models.StatusPendingApproval, models.RoleAdmin, models.StatusApproved, nil},
		{"mrrv approve by warehouse", KindMRRV, ActionApprove, models.StatusPendingApproval, models.RoleWarehouse, "", ErrForbidden},
		{"mrrv approve draft", KindMRRV, ActionApprove, models.StatusDraft, models.RoleAdmin, "", ErrInvalidTransition},
		{"mrrv approve twice", KindMRRV, ActionApprove, models.StatusApproved, models.RoleAdmin, "", ErrInvalidTransition},
		{"mrrv inspect", KindMRRV, ActionInspect, models.StatusApproved, models.RoleWarehouse, models.StatusInspected, nil},
		{"mrrv no rollback", KindMRRV, ActionSubmit, models.StatusApproved, models.RoleAdmin, "", ErrInvalidTransition},
		{"mirv issue", KindMIRV, ActionIssue, models.StatusApproved, models.RoleTransport, models.StatusIssued, nil},
		{"mirv issue pending", KindMIRV, ActionIssue, models.StatusPendingApproval, models.RoleAdmin, "", ErrInvalidTransition},
		{"mirv reject rejected", KindMIRV, ActionReject, models.StatusRejected, models.RoleAdmin, "", ErrInvalidTransition},
		{"mrv complete from pending", KindMRV, ActionComplete, models.StatusPending, models.RoleWarehouse, models.StatusCompleted, nil},
		{"mrv complete from approved", KindMRV, ActionComplete, models.StatusApproved, models.RoleAdmin, models.StatusCompleted, nil},
		{"mrv submit unknown", KindMRV, ActionSubmit, models.StatusPending, models.RoleAdmin, "", ErrInvalidTransition},
		{"rfim pass", KindRFIM, ActionPass, models.StatusPending, models.RoleEngineer, models.StatusPass, nil},
		{"rfim fail after pass", KindRFIM, ActionFail, models.StatusPass, models.RoleAdmin, "", ErrInvalidTransition},
		{"rfim result by transport", KindRFIM, ActionConditional, models.StatusPending, models.RoleTransport, "", ErrForbidden},
		{"job start", KindJobOrder, ActionStart, models.StatusApproved, models.RoleTransport, models.StatusInProgress, nil},
		{"job cancel in progress", KindJobOrder, ActionCancel, models.StatusInProgress, models.RoleAdmin, models.StatusCancelled, nil},
		{"job cancel completed", KindJobOrder, ActionCancel, models.StatusCompleted, models.RoleAdmin, "", ErrInvalidTransition},
		{"osd resolve", KindOSD, ActionResolve, models.StatusOpen, models.RoleWarehouse, models.StatusResolved, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.kind, tt.action, tt.from, tt.role)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveUnknownKind(t *testing.T) {
	_, err := Resolve("shipment", ActionApprove, models.StatusPending, models.RoleAdmin)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestTerminalStatusesHaveNoActions(t *testing.T) {
	terminal := map[Kind][]models.Status{
		KindMRRV:     {models.StatusRejected, models.StatusInspected},
		KindMIRV:     {models.StatusRejected, models.StatusIssued},
		KindMRV:      {models.StatusCompleted},
		KindRFIM:     {models.StatusPass, models.StatusFail, models.StatusConditional},
		KindJobOrder: {models.StatusCompleted, models.StatusCancelled},
		KindOSD:      {models.StatusResolved},
	}
	for kind, statuses := range terminal {
		for _, s := range statuses {
			assert.True(t, IsTerminal(kind, s), "%s %s", kind, s)
			assert.Empty(t, Actions(kind, s, models.RoleAdmin), "%s %s", kind, s)
		}
	}
	assert.False(t, IsTerminal(KindMRRV, models.StatusApproved))
	assert.False(t, IsTerminal(KindMRV, models.StatusApproved))
}

func TestActionFor(t *testing.T) {
	a, ok := ActionFor(KindJobOrder, models.StatusApproved, models.StatusInProgress)
	require.True(t, ok)
	assert.Equal(t, ActionStart, a)

	_, ok = ActionFor(KindJobOrder, models.StatusPending, models.StatusCompleted)
	assert.False(t, ok)
	assert.False(t, CanTransition(KindJobOrder, models.StatusCompleted, models.StatusPending))
	assert.True(t, CanTransition(KindMRV, models.StatusPending, models.StatusCompleted))
}

func TestCanCreate(t *testing.T) {
	assert.True(t, CanCreate(KindMRRV, models.RoleWarehouse))
	assert.False(t, CanCreate(KindMRRV, models.RoleEngineer))
	assert.True(t, CanCreate(KindMIRV, models.RoleEngineer))
	assert.False(t, CanCreate(KindRFIM, models.RoleTransport))
	assert.True(t, CanCreate(KindJobOrder, models.RoleTransport))
	assert.False(t, CanCreate("scrap", models.RoleAdmin))
}

func TestStatuses(t *testing.T) {
	assert.Equal(t, []models.Status{
		models.StatusDraft,
		models.StatusPendingApproval,
		models.StatusApproved,
		models.StatusRejected,
		models.StatusInspected,
	}, Statuses(KindMRRV))
	assert.True(t, IsInitial(KindMIRV, models.StatusDraft))
	assert.False(t, IsInitial(KindMIRV, models.StatusApproved))
}

func TestActions(t *testing.T) {
	assert.ElementsMatch(t, []Action{ActionApprove, ActionReject}, Actions(KindMIRV, models.StatusPendingApproval, models.RoleAdmin))
	assert.Empty(t, Actions(KindMIRV, models.StatusPendingApproval, models.RoleEngineer))
	assert.ElementsMatch(t, []Action{ActionApprove, ActionCancel}, Actions(KindJobOrder, models.StatusPending, models.RoleAdmin))
}
