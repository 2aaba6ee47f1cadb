package ports

import (
	"context"

	"github.com/jhoicas/salestrack-api/internal/domain/repository"
)

// Repos agrupa los repositorios; dentro de TxRunner.Run todos comparten la transacción.
type Repos struct {
	Users       repository.UserRepository
	Locations   repository.LocationRepository
	Customers   repository.CustomerRepository
	Assignments repository.AssignmentRepository
	Logs        repository.ActivityLogRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback si no.
// La mutación y su entrada de auditoría se escriben siempre en la misma transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
