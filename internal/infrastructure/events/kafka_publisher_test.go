package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/salestrack-api/internal/domain/entity"
	"github.com/jhoicas/salestrack-api/pkg/logger"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

type recorder struct {
	got []*entity.ActivityLog
	err error
}

func (r *recorder) Publish(_ context.Context, l *entity.ActivityLog) error {
	r.got = append(r.got, l)
	return r.err
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{w: w, topic: "salestrack.audit", log: logger.Nop()}
	actor, entityID := int64(4), int64(12)
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	err := p.Publish(context.Background(), &entity.ActivityLog{
		ID: 7, UserID: &actor, Type: entity.LogTypeCustomer, EntityID: &entityID,
		Activity: "Created customer Uno", CreatedAt: created,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "salestrack.audit", msg.Topic)
	assert.Equal(t, "CUSTOMER", string(msg.Key))
	assert.Equal(t, "7", string(msg.Headers[0].Value))

	var ev AuditEvent
	require.NoError(t, json.Unmarshal(msg.Value, &ev))
	assert.Equal(t, int64(7), ev.ID)
	assert.Equal(t, &actor, ev.UserID)
	assert.Equal(t, "Created customer Uno", ev.Activity)
	assert.True(t, created.Equal(ev.CreatedAt))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	p := &KafkaPublisher{w: &fakeWriter{err: errors.New("broker caído")}, topic: "t", log: logger.Nop()}
	err := p.Publish(context.Background(), &entity.ActivityLog{ID: 1, Type: entity.LogTypeAuth})
	assert.ErrorContains(t, err, "broker caído")
}

func TestMulti(t *testing.T) {
	a, b := &recorder{}, &recorder{err: errors.New("fallo")}
	m := Multi{a, nil, b, NopPublisher{}}
	l := &entity.ActivityLog{ID: 3, Type: entity.LogTypeLocation}

	err := m.Publish(context.Background(), l)
	assert.ErrorContains(t, err, "fallo")
	assert.Len(t, a.got, 1)
	assert.Len(t, b.got, 1)
}
