// Package events publica las entradas de auditoría confirmadas hacia sistemas externos.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/salestrack-api/internal/application/ports"
	"github.com/jhoicas/salestrack-api/internal/domain/entity"
	"github.com/jhoicas/salestrack-api/pkg/logger"
)

var (
	_ ports.AuditPublisher = (*KafkaPublisher)(nil)
	_ ports.AuditPublisher = NopPublisher{}
	_ ports.AuditPublisher = Multi(nil)
)

// AuditEvent es el payload JSON publicado por cada entrada de auditoría.
type AuditEvent struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"user_id"`
	Type      string    `json:"log_type"`
	EntityID  *int64    `json:"entity_id,omitempty"`
	Activity  string    `json:"activity"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAuditEvent construye el payload a partir de la entrada persistida.
func NewAuditEvent(l *entity.ActivityLog) AuditEvent {
	return AuditEvent{
		ID:        l.ID,
		UserID:    l.UserID,
		Type:      string(l.Type),
		EntityID:  l.EntityID,
		Activity:  l.Activity,
		CreatedAt: l.CreatedAt,
	}
}

// messageWriter es la parte de kafka.Writer que usa el publicador.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher escribe cada entrada en un topic. El writer es asíncrono:
// WriteMessages no espera la confirmación del broker.
type KafkaPublisher struct {
	w     messageWriter
	topic string
	log   *logger.Logger
}

// NewKafkaPublisher crea el writer hacia brokers/topic.
func NewKafkaPublisher(brokers []string, topic string, log *logger.Logger) *KafkaPublisher {
	log = log.Named("kafka")
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.LeastBytes{},
		Async:                  true,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Error().Err(err).Int("messages", len(messages)).Msg("fallo al entregar eventos de auditoría")
			}
		},
	}
	return &KafkaPublisher{w: w, topic: topic, log: log}
}

// Publish serializa la entrada. La clave es el tipo de log para conservar el orden por tipo.
func (p *KafkaPublisher) Publish(ctx context.Context, l *entity.ActivityLog) error {
	if l == nil {
		return nil
	}
	b, err := json.Marshal(NewAuditEvent(l))
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	err = p.w.WriteMessages(ctx, kafka.Message{
		Topic: p.topic,
		Key:   []byte(string(l.Type)),
		Value: b,
		Headers: []kafka.Header{
			{Key: "log_id", Value: []byte(strconv.FormatInt(l.ID, 10))},
		},
	})
	if err != nil {
		return fmt.Errorf("write kafka message: %w", err)
	}
	return nil
}

// Close vacía los mensajes pendientes y cierra el writer.
func (p *KafkaPublisher) Close() error {
	if err := p.w.Close(); err != nil {
		return fmt.Errorf("close kafka writer: %w", err)
	}
	return nil
}

// NopPublisher descarta los eventos (Kafka deshabilitado).
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *entity.ActivityLog) error { return nil }

// Multi reenvía a todos los publicadores y une los errores.
type Multi []ports.AuditPublisher

func (m Multi) Publish(ctx context.Context, l *entity.ActivityLog) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, l); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
