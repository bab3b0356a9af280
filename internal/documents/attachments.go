package documents

import (
	"context"

	"github.com/arahman1700/nit-logistics-portal/internal/apperr"
	"github.com/arahman1700/nit-logistics-portal/internal/auth"
	"github.com/arahman1700/nit-logistics-portal/internal/models"
	"github.com/arahman1700/nit-logistics-portal/internal/repository"
	"github.com/arahman1700/nit-logistics-portal/internal/workflow"
)

type AttachmentInput struct {
	Name string `json:"name" validate:"required,max=255"`
	URL  string `json:"url" validate:"required,url,max=1024"`
}

func ownerExists(ctx context.Context, tx repository.Store, kind workflow.Kind, id string) error {
	var err error
	switch kind {
	case workflow.KindMRRV:
		_, err = tx.GetMRRV(ctx, id)
	case workflow.KindMIRV:
		_, err = tx.GetMIRV(ctx, id)
	case workflow.KindMRV:
		_, err = tx.GetMRV(ctx, id)
	case workflow.KindRFIM:
		_, err = tx.GetRFIM(ctx, id)
	case workflow.KindOSD:
		_, err = tx.GetOSD(ctx, id)
	case workflow.KindJobOrder:
		_, err = tx.GetJobOrder(ctx, id)
	default:
		return apperr.Validation("unknown document kind "+string(kind), nil)
	}
	return notFound(err, string(kind), id)
}

// AddAttachment links an uploaded file to a document. Files themselves live
// in object storage; only the reference is kept here.
func (s *Service) AddAttachment(ctx context.Context, actor auth.Session, kind workflow.Kind, id string, in AttachmentInput) (*models.Attachment, error) {
	if err := apperr.Validate(in); err != nil {
		return nil, err
	}
	a := &models.Attachment{
		ID:         models.NewID(),
		OwnerType:  string(kind),
		OwnerID:    id,
		Name:       in.Name,
		URL:        in.URL,
		UploadedBy: actor.UserID,
	}
	err := s.run(ctx, kind, "attach", func(tx repository.Store, out *outbox) error {
		if err := ownerExists(ctx, tx, kind, id); err != nil {
			return err
		}
		if err := tx.AddAttachment(ctx, a); err != nil {
			return err
		}
		return s.logTransition(ctx, tx, actor, kind, id, "attach", "", "", map[string]string{"name": in.Name})
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Attachments(ctx context.Context, kind workflow.Kind, id string) ([]models.Attachment, error) {
	rows, err := s.store.ListAttachments(ctx, string(kind), id)
	if err != nil {
		return nil, translate(err)
	}
	return rows, nil
}
