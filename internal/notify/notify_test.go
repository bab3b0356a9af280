package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherFansOutAndSwallowsFailures(t *testing.T) {
	logger, hook := test.NewNullLogger()

	var got []Message
	ok := SinkFunc(func(ctx context.Context, m Message) error {
		got = append(got, m)
		return nil
	})
	broken := SinkFunc(func(ctx context.Context, m Message) error {
		return errors.New("broker down")
	})

	d := NewDispatcher(logger, broken, ok)
	d.Notify(context.Background(),
		Message{Recipient: "u1", Title: "MRRV approved"},
		Message{Recipient: "u1", Title: "MRRV approved"},
		Message{Recipient: "", Title: "nobody"},
		Message{Recipient: "u2", Title: "MRRV approved"},
	)

	require.Len(t, got, 2)
	assert.Equal(t, "u1", got[0].Recipient)
	assert.Equal(t, "u2", got[1].Recipient)

	require.Len(t, hook.AllEntries(), 2)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "notify", hook.LastEntry().Data["module"])
}

func TestDispatcherKeepsDistinctMessagesWithSameTitle(t *testing.T) {
	logger, _ := test.NewNullLogger()
	var got []string
	d := NewDispatcher(logger, SinkFunc(func(ctx context.Context, m Message) error {
		got = append(got, m.Message)
		return nil
	}))
	d.Notify(context.Background(),
		Message{Recipient: "u-manager", Title: "Low stock", Message: "RB-12 is below its minimum"},
		Message{Recipient: "u-manager", Title: "Low stock", Message: "CM-50 is below its minimum"},
		Message{Recipient: "u-manager", Title: "Low stock", Message: "CM-50 is below its minimum"},
	)
	assert.Equal(t, []string{"RB-12 is below its minimum", "CM-50 is below its minimum"}, got)
}

func TestNilDispatcher(t *testing.T) {
	var d *Dispatcher
	assert.NotPanics(t, func() { d.Notify(context.Background(), Message{Recipient: "u1"}) })
}

func TestNATSSubject(t *testing.T) {
	s := NewNATSSink(nil, "portal.notifications")
	assert.Equal(t, "portal.notifications.u1", s.Subject("u1"))
}
