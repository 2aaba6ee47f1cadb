package entity

import (
	"fmt"
	"time"
)

// CustomerStatus es el estado comercial de un cliente.
type CustomerStatus string

const (
	CustomerPending   CustomerStatus = "pending"
	CustomerOngoing   CustomerStatus = "ongoing"
	CustomerCompleted CustomerStatus = "completed"
	CustomerCancelled CustomerStatus = "cancelled"
)

// Valid indica si el estado es uno de los permitidos.
func (s CustomerStatus) Valid() bool {
	switch s {
	case CustomerPending, CustomerOngoing, CustomerCompleted, CustomerCancelled:
		return true
	}
	return false
}

// ParseCustomerStatus valida un estado recibido desde el exterior.
func ParseCustomerStatus(s string) (CustomerStatus, error) {
	st := CustomerStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("estado de cliente desconocido %q", s)
	}
	return st, nil
}

// Customer pertenece a una sede y a un vendedor.
type Customer struct {
	ID            int64
	Name          string
	Email         string
	Phone         string
	LocationID    int64
	SalespersonID int64
	VisitDate     time.Time
	Status        CustomerStatus
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
