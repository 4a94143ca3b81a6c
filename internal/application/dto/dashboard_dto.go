package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/resumen.
// Capital por banco, flujo del día y del mes, y alertas de sobregiro.
type DashboardSummaryDTO struct {
	CapitalTotal decimal.Decimal `json:"capital_total"`

	// Flujo externo del día actual (00:00 – 23:59)
	TodayIngresos decimal.Decimal `json:"today_ingresos"`
	TodayGastos   decimal.Decimal `json:"today_gastos"`

	// Flujo externo del mes en curso (día 1 – hoy)
	MonthlyIngresos decimal.Decimal `json:"monthly_ingresos"`
	MonthlyGastos   decimal.Decimal `json:"monthly_gastos"`

	Bancos []BankBalanceDTO `json:"bancos"`
	// Bancos con capital negativo
	Alertas []BankBalanceDTO `json:"alertas"`

	DateLabel string `json:"date_label"` // ej: "Febrero 2026"
}

// BankBalanceDTO saldo de un banco para el widget del dashboard.
type BankBalanceDTO struct {
	BancoID       string          `json:"banco_id"`
	Nombre        string          `json:"nombre"`
	CapitalActual decimal.Decimal `json:"capital_actual"`
}
