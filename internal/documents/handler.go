package documents

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/arahman1700/nit-logistics-portal/internal/apperr"
	"github.com/arahman1700/nit-logistics-portal/internal/auth"
	"github.com/arahman1700/nit-logistics-portal/internal/models"
	"github.com/arahman1700/nit-logistics-portal/internal/repository"
	"github.com/arahman1700/nit-logistics-portal/internal/workflow"
)

var documentKinds = map[string]workflow.Kind{
	string(workflow.KindMRRV):     workflow.KindMRRV,
	string(workflow.KindMIRV):     workflow.KindMIRV,
	string(workflow.KindMRV):      workflow.KindMRV,
	string(workflow.KindRFIM):     workflow.KindRFIM,
	string(workflow.KindOSD):      workflow.KindOSD,
	string(workflow.KindJobOrder): workflow.KindJobOrder,
}

func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return apperr.Validation("invalid request body", nil)
	}
	return nil
}

func listFilter(c *fiber.Ctx) repository.ListFilter {
	return repository.ListFilter{
		Status:      models.Status(c.Query("status")),
		WarehouseID: c.Query("warehouse_id"),
		ProjectID:   c.Query("project_id"),
		Number:      c.Query("q"),
		Limit:       c.QueryInt("limit", repository.DefaultLimit),
		Offset:      c.QueryInt("offset", 0),
	}
}

func kindParam(c *fiber.Ctx) (workflow.Kind, error) {
	k, ok := documentKinds[c.Params("kind")]
	if !ok {
		return "", apperr.NotFound("unknown document kind %s", c.Params("kind"))
	}
	return k, nil
}

func createHandler[In, Out any](fn func(context.Context, auth.Session, In) (Out, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.MustSession(c)
		if err != nil {
			return err
		}
		var in In
		if err := parseBody(c, &in); err != nil {
			return err
		}
		out, err := fn(c.UserContext(), actor, in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(out)
	}
}

func getHandler[Out any](fn func(context.Context, string) (Out, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := fn(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(out)
	}
}

func listHandler[Out any](fn func(context.Context, repository.ListFilter) ([]Out, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := fn(c.UserContext(), listFilter(c))
		if err != nil {
			return err
		}
		return c.JSON(rows)
	}
}

func actionHandler[Out any](fn func(context.Context, auth.Session, string) (Out, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.MustSession(c)
		if err != nil {
			return err
		}
		out, err := fn(c.UserContext(), actor, c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(out)
	}
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func rejectHandler[Out any](fn func(context.Context, auth.Session, string, string) (Out, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.MustSession(c)
		if err != nil {
			return err
		}
		var body rejectRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		out, err := fn(c.UserContext(), actor, c.Params("id"), body.Reason)
		if err != nil {
			return err
		}
		return c.JSON(out)
	}
}

// POST /api/documents/mirv/:id/gate-pass
func CreateGatePassHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.MustSession(c)
		if err != nil {
			return err
		}
		var in GatePassInput
		if err := parseBody(c, &in); err != nil {
			return err
		}
		gp, err := svc.CreateGatePass(c.UserContext(), actor, c.Params("id"), in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(gp)
	}
}

// POST /api/documents/rfim/:id/result
func RFIMResultHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.MustSession(c)
		if err != nil {
			return err
		}
		var in RFIMResultInput
		if err := parseBody(c, &in); err != nil {
			return err
		}
		r, err := svc.RecordRFIMResult(c.UserContext(), actor, c.Params("id"), in)
		if err != nil {
			return err
		}
		return c.JSON(r)
	}
}

// GET /api/documents/osd?mrrv_id=
func ListOSDHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := svc.ListOSDs(c.UserContext(), c.Query("mrrv_id"))
		if err != nil {
			return err
		}
		return c.JSON(rows)
	}
}

type transitionRequest struct {
	Action workflow.Action `json:"action"`
}

// POST /api/job-orders/:id/transition
func JobOrderTransitionHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.MustSession(c)
		if err != nil {
			return err
		}
		var body transitionRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		if body.Action == "" {
			return apperr.Field("action", "is required")
		}
		j, err := svc.TransitionJobOrder(c.UserContext(), actor, c.Params("id"), body.Action)
		if err != nil {
			return err
		}
		return c.JSON(j)
	}
}

type moveRequest struct {
	Status models.Status `json:"status"`
}

// POST /api/job-orders/:id/move
func JobOrderMoveHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.MustSession(c)
		if err != nil {
			return err
		}
		var body moveRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		if body.Status == "" {
			return apperr.Field("status", "is required")
		}
		j, err := svc.MoveJobOrder(c.UserContext(), actor, c.Params("id"), body.Status)
		if err != nil {
			return err
		}
		return c.JSON(j)
	}
}

// GET /api/documents/:kind/:id/history
func HistoryHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, err := kindParam(c)
		if err != nil {
			return err
		}
		rows, err := svc.History(c.UserContext(), kind, c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(rows)
	}
}

// GET /api/documents/:kind/:id/attachments
func ListAttachmentsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, err := kindParam(c)
		if err != nil {
			return err
		}
		rows, err := svc.Attachments(c.UserContext(), kind, c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(rows)
	}
}

// POST /api/documents/:kind/:id/attachments
func AddAttachmentHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.MustSession(c)
		if err != nil {
			return err
		}
		kind, err := kindParam(c)
		if err != nil {
			return err
		}
		var in AttachmentInput
		if err := parseBody(c, &in); err != nil {
			return err
		}
		a, err := svc.AddAttachment(c.UserContext(), actor, kind, c.Params("id"), in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(a)
	}
}

// POST /api/documents/lines/preview
func PreviewLinesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in PreviewInput
		if err := parseBody(c, &in); err != nil {
			return err
		}
		p, err := PreviewLines(in)
		if err != nil {
			return err
		}
		return c.JSON(p)
	}
}

// GET /api/documents/:kind/:id/actions lists what the caller may do next.
func ActionsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.MustSession(c)
		if err != nil {
			return err
		}
		kind, err := kindParam(c)
		if err != nil {
			return err
		}
		status, err := svc.statusOf(c.UserContext(), kind, c.Params("id"))
		if err != nil {
			return err
		}
		actions := workflow.Actions(kind, status, actor.Role)
		if actions == nil {
			actions = []workflow.Action{}
		}
		return c.JSON(fiber.Map{
			"status":   status,
			"terminal": workflow.IsTerminal(kind, status),
			"actions":  actions,
		})
	}
}

func RegisterRoutes(r fiber.Router, svc *Service) {
	d := r.Group("/documents")
	d.Post("/lines/preview", PreviewLinesHandler())

	mrrv := d.Group("/mrrv")
	mrrv.Get("/", listHandler(svc.ListMRRVs))
	mrrv.Post("/", createHandler(svc.CreateMRRV))
	mrrv.Get("/:id", getHandler(svc.GetMRRV))
	mrrv.Get("/:id/rfims", getHandler(svc.RFIMsForMRRV))
	mrrv.Post("/:id/submit", actionHandler(svc.SubmitMRRV))
	mrrv.Post("/:id/approve", actionHandler(svc.ApproveMRRV))
	mrrv.Post("/:id/reject", rejectHandler(svc.RejectMRRV))
	mrrv.Post("/:id/inspect", actionHandler(svc.InspectMRRV))

	mirv := d.Group("/mirv")
	mirv.Get("/", listHandler(svc.ListMIRVs))
	mirv.Post("/", createHandler(svc.CreateMIRV))
	mirv.Get("/:id", getHandler(svc.GetMIRV))
	mirv.Post("/:id/submit", actionHandler(svc.SubmitMIRV))
	mirv.Post("/:id/approve", actionHandler(svc.ApproveMIRV))
	mirv.Post("/:id/reject", rejectHandler(svc.RejectMIRV))
	mirv.Get("/:id/gate-pass", getHandler(svc.GetGatePass))
	mirv.Post("/:id/gate-pass", CreateGatePassHandler(svc))

	mrv := d.Group("/mrv")
	mrv.Get("/", listHandler(svc.ListMRVs))
	mrv.Post("/", createHandler(svc.CreateMRV))
	mrv.Get("/:id", getHandler(svc.GetMRV))
	mrv.Get("/:id/scrap", getHandler(svc.ScrapEntries))
	mrv.Post("/:id/approve", actionHandler(svc.ApproveMRV))
	mrv.Post("/:id/complete", actionHandler(svc.CompleteMRV))

	rfim := d.Group("/rfim")
	rfim.Get("/", listHandler(svc.ListRFIMs))
	rfim.Post("/", createHandler(svc.CreateRFIM))
	rfim.Get("/:id", getHandler(svc.GetRFIM))
	rfim.Post("/:id/result", RFIMResultHandler(svc))

	osd := d.Group("/osd")
	osd.Get("/", ListOSDHandler(svc))
	osd.Post("/", createHandler(svc.CreateOSD))
	osd.Get("/:id", getHandler(svc.GetOSD))
	osd.Post("/:id/resolve", actionHandler(svc.ResolveOSD))

	d.Get("/:kind/:id/history", HistoryHandler(svc))
	d.Get("/:kind/:id/actions", ActionsHandler(svc))
	d.Get("/:kind/:id/attachments", ListAttachmentsHandler(svc))
	d.Post("/:kind/:id/attachments", AddAttachmentHandler(svc))

	jo := r.Group("/job-orders")
	jo.Get("/", listHandler(svc.ListJobOrders))
	jo.Post("/", createHandler(svc.CreateJobOrder))
	jo.Get("/:id", getHandler(svc.GetJobOrder))
	jo.Post("/:id/transition", JobOrderTransitionHandler(svc))
	jo.Post("/:id/move", JobOrderMoveHandler(svc))
}
