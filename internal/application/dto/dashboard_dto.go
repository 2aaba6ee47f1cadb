package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary, acotada al alcance del actor.
type DashboardSummaryDTO struct {
	TotalCustomers    int64           `json:"total_customers"`
	Pending           int64           `json:"pending"`
	Ongoing           int64           `json:"ongoing"`
	Completed         int64           `json:"completed"`
	Cancelled         int64           `json:"cancelled"`
	CompletionRate    decimal.Decimal `json:"completion_rate"` // % completados
	TodayAppointments int64           `json:"today_appointments"`
	ActiveSalespeople int64           `json:"active_salespeople"`
	DateLabel         string          `json:"date_label"` // ej: "19 de octubre de 2026"
}
