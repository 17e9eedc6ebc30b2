package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/journal_engine/internal/core/domain"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(ctx, exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

func postedEvent() domain.EntryEvent {
	return domain.EntryEvent{
		Type:         domain.EventEntryPosted,
		WorkplaceID:  "wp-1",
		EntryID:      "e-1",
		EntryNumber:  7,
		ActorID:      "user-1",
		OccurredAt:   time.Date(2024, 4, 10, 9, 30, 0, 0, time.UTC),
		TotalAmount:  "100.00",
		CurrencyCode: "USD",
	}
}

func TestRabbitMQNotifier_PublishesJSON(t *testing.T) {
	pub := new(MockPublisher)
	var sent amqp.Publishing
	pub.On("PublishWithContext", mock.Anything, "journal", "journal.entry.posted", false, false, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(5).(amqp.Publishing) }).
		Return(nil).Once()

	n := NewRabbitMQNotifier(pub, "journal", BreakerOptions{})
	require.NoError(t, n.Notify(context.Background(), postedEvent()))
	pub.AssertExpectations(t)

	assert.Equal(t, "application/json", sent.ContentType)
	assert.Equal(t, amqp.Persistent, sent.DeliveryMode)
	assert.Equal(t, "e-1:journal.entry.posted", sent.MessageId)
	assert.Equal(t, "wp-1", sent.Headers["workplace_id"])

	var decoded domain.EntryEvent
	require.NoError(t, json.Unmarshal(sent.Body, &decoded))
	assert.Equal(t, postedEvent(), decoded)
}

func TestRabbitMQNotifier_PublishError(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("PublishWithContext", mock.Anything, "journal", mock.Anything, false, false, mock.Anything).
		Return(errors.New("channel closed"))

	n := NewRabbitMQNotifier(pub, "journal", BreakerOptions{})
	err := n.Notify(context.Background(), postedEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel closed")
}

func TestRabbitMQNotifier_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("PublishWithContext", mock.Anything, mock.Anything, mock.Anything, false, false, mock.Anything).
		Return(errors.New("broker down")).Times(2)

	n := NewRabbitMQNotifier(pub, "journal", BreakerOptions{ConsecutiveFailures: 2, OpenTimeout: time.Minute})
	ctx := context.Background()

	require.Error(t, n.Notify(ctx, postedEvent()))
	require.Error(t, n.Notify(ctx, postedEvent()))
	assert.Equal(t, "open", n.State())

	err := n.Notify(ctx, postedEvent())
	require.Error(t, err)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	pub.AssertNumberOfCalls(t, "PublishWithContext", 2)
}

func TestLogNotifier(t *testing.T) {
	assert.NoError(t, LogNotifier{}.Notify(context.Background(), postedEvent()))
}

func TestConnectionClose_Nil(t *testing.T) {
	var c *Connection
	assert.NoError(t, c.Close())
}
