package dto

import "time"

// CustomerReportRow fila del reporte PDF con nombres ya resueltos.
type CustomerReportRow struct {
	Name        string
	Email       string
	Phone       string
	Location    string
	Salesperson string
	VisitDate   time.Time
	Status      string
}

// CustomerReport datos de entrada del generador PDF.
type CustomerReport struct {
	Title       string
	GeneratedBy string
	GeneratedAt time.Time
	Rows        []CustomerReportRow
}
