// Package metrics exposes the portal's Prometheus counters.
package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

var (
	Transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_transitions_total",
		Help: "Document status transitions by kind, action and outcome.",
	}, []string{"kind", "action", "outcome"})

	NumberCollisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_number_collisions_total",
		Help: "Form numbers regenerated after a unique constraint violation.",
	}, []string{"prefix"})

	NotificationsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_notifications_failed_total",
		Help: "Notifications a sink failed to deliver.",
	})
)

// Handler serves the default registry on fiber.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
