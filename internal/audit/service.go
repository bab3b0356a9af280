package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/arahman1700/nit-logistics-portal/internal/models"
)

type LogOptions struct {
	UserID      string
	UserName    string
	EntityType  string
	EntityID    string
	Action      string
	From        models.Status
	To          models.Status
	Description string
	Details     any
}

type Recorder interface {
	RecordActivity(ctx context.Context, a *models.ActivityLog) error
}

// Entry builds the activity row. Details are stored as JSON; jsonb needs
// "null" rather than an empty string.
func Entry(opts LogOptions) *models.ActivityLog {
	details := "null"
	if opts.Details != nil {
		if b, err := json.Marshal(opts.Details); err == nil {
			details = string(b)
		}
	}
	desc := opts.Description
	if desc == "" && opts.To != "" {
		if opts.From == "" {
			desc = fmt.Sprintf("%s created as %s", opts.EntityType, opts.To)
		} else {
			desc = fmt.Sprintf("%s %s: %s -> %s", opts.EntityType, opts.Action, opts.From, opts.To)
		}
	}
	return &models.ActivityLog{
		ID:          models.NewID(),
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		FromStatus:  opts.From,
		ToStatus:    opts.To,
		Description: desc,
		Details:     details,
	}
}

// WriteLog records through r, which is normally the transaction that also
// applies the change.
func WriteLog(ctx context.Context, r Recorder, opts LogOptions) error {
	if err := r.RecordActivity(ctx, Entry(opts)); err != nil {
		return fmt.Errorf("write activity log: %w", err)
	}
	return nil
}
