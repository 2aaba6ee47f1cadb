package ports

import (
	"context"

	"github.com/jhoicas/salestrack-api/internal/application/dto"
)

// CustomerReportGenerator renderiza el listado de clientes (PDF).
type CustomerReportGenerator interface {
	GenerateCustomerReport(ctx context.Context, report dto.CustomerReport) ([]byte, error)
}
