package entity

import "time"

// Location representa una sede. Agrupa usuarios y clientes.
type Location struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
