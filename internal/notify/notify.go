// Package notify delivers user notifications raised by document
// transitions. Delivery is best effort: failures are logged and counted,
// never returned to the business operation that raised them.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/arahman1700/nit-logistics-portal/internal/config"
	"github.com/arahman1700/nit-logistics-portal/internal/metrics"
	"github.com/arahman1700/nit-logistics-portal/internal/models"
)

type Message struct {
	Recipient string                  `json:"recipient"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	Type      models.NotificationType `json:"type"`
	Link      string                  `json:"link,omitempty"`
}

type Sink interface {
	Deliver(ctx context.Context, msg Message) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, msg Message) error

func (f SinkFunc) Deliver(ctx context.Context, msg Message) error { return f(ctx, msg) }

// StoreSink persists notifications for the in-app inbox.
type StoreSink struct {
	db *gorm.DB
}

func NewStoreSink(db *gorm.DB) *StoreSink {
	return &StoreSink{db: db}
}

func (s *StoreSink) Deliver(ctx context.Context, msg Message) error {
	n := models.Notification{
		ID:      models.NewID(),
		UserID:  msg.Recipient,
		Title:   msg.Title,
		Message: msg.Message,
		Type:    msg.Type,
		Link:    models.StrPtr(msg.Link),
	}
	if n.Type == "" {
		n.Type = models.NotificationInfo
	}
	return s.db.WithContext(ctx).Create(&n).Error
}

// NATSSink publishes each message on <prefix>.<recipient> for live clients.
type NATSSink struct {
	conn   *nats.Conn
	prefix string
}

func NewNATSSink(conn *nats.Conn, prefix string) *NATSSink {
	return &NATSSink{conn: conn, prefix: prefix}
}

func ConnectNATS(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("logistics-portal"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}

func (s *NATSSink) Subject(recipient string) string {
	return fmt.Sprintf("%s.%s", s.prefix, recipient)
}

func (s *NATSSink) Deliver(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.conn.Publish(s.Subject(msg.Recipient), data)
}

type Dispatcher struct {
	sinks  []Sink
	logger logrus.FieldLogger
}

func NewDispatcher(logger logrus.FieldLogger, sinks ...Sink) *Dispatcher {
	return &Dispatcher{sinks: sinks, logger: logger}
}

// Notify hands every message with a recipient to every sink. An identical
// message addressed to the same recipient twice is sent once.
func (d *Dispatcher) Notify(ctx context.Context, msgs ...Message) {
	if d == nil {
		return
	}
	seen := make(map[string]bool, len(msgs))
	for _, m := range msgs {
		key := m.Recipient + "\x00" + m.Title + "\x00" + m.Message
		if m.Recipient == "" || seen[key] {
			continue
		}
		seen[key] = true
		for _, s := range d.sinks {
			if err := s.Deliver(ctx, m); err != nil {
				metrics.NotificationsFailed.Inc()
				config.LogError(d.logger, "notify", "Notify", fmt.Sprintf("%T", s), m, err)
			}
		}
	}
}
