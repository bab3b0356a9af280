package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lineInput struct {
	Quantity string `json:"quantity" validate:"required"`
}

type createInput struct {
	WarehouseID string      `json:"warehouse_id" validate:"required,uuid"`
	Priority    string      `json:"priority" validate:"omitempty,oneof=low high"`
	Lines       []lineInput `json:"lines" validate:"required,min=1,dive"`
}

func TestValidateNamesJSONFields(t *testing.T) {
	err := Validate(createInput{Priority: "mid", Lines: []lineInput{{}}})
	require.Error(t, err)

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, KindValidation, e.Kind)
	assert.Equal(t, "is required", e.Fields["warehouse_id"])
	assert.Equal(t, "must be one of low high", e.Fields["priority"])
	assert.Equal(t, "is required", e.Fields["lines[0].quantity"])
}

func TestValidateOK(t *testing.T) {
	err := Validate(createInput{
		WarehouseID: "7a0c5f0e-1b9f-4c38-9d57-0b8c0f6b7f10",
		Lines:       []lineInput{{Quantity: "1"}},
	})
	assert.NoError(t, err)
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("approve: %w", Conflict("already approved"))
	assert.Equal(t, KindConflict, KindOf(err))
	assert.True(t, Is(err, KindConflict))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/nf", func(c *fiber.Ctx) error { return NotFound("mrrv %s not found", "x") })
	app.Get("/val", func(c *fiber.Ctx) error { return Field("lines", "must not be empty") })
	app.Get("/fiber", func(c *fiber.Ctx) error { return fiber.ErrForbidden })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("boom") })

	tests := []struct {
		path   string
		status int
		kind   Kind
	}{
		{"/nf", 404, KindNotFound},
		{"/val", 400, KindValidation},
		{"/fiber", 403, KindForbidden},
		{"/boom", 500, KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			raw, _ := io.ReadAll(resp.Body)
			var body map[string]any
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, string(tt.kind), body["kind"])
		})
	}
}
