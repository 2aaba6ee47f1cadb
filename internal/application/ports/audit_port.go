package ports

import (
	"context"

	"github.com/jhoicas/salestrack-api/internal/domain/entity"
)

// AuditPublisher recibe las entradas de auditoría ya confirmadas (después del Commit).
// Los adaptadores (Kafka, métricas) no deben bloquear la petición.
type AuditPublisher interface {
	Publish(ctx context.Context, log *entity.ActivityLog) error
}
