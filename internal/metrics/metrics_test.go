package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersExported(t *testing.T) {
	NumberCollisions.WithLabelValues("MRRV").Inc()
	Transitions.WithLabelValues("mirv", "approve", OutcomeConflict).Inc()
	NotificationsFailed.Inc()

	app := fiber.New()
	app.Get("/metrics", Handler())
	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	body := string(raw)

	assert.Contains(t, body, "portal_transitions_total{")
	assert.Contains(t, body, `outcome="conflict"`)
	assert.Contains(t, body, `portal_number_collisions_total{prefix="MRRV"}`)
	assert.Contains(t, body, "portal_notifications_failed_total")
}
