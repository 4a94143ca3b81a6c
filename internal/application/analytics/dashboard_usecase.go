// Package analytics contiene el read-model del dashboard de tesorería.
// Las métricas de margen y rotación por orden quedan fuera del núcleo del ledger.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Tesoreria-api/internal/application/dto"
	"github.com/jhoicas/Tesoreria-api/internal/domain/entity"
	"github.com/jhoicas/Tesoreria-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// DashboardUseCase genera el resumen de capital y flujo del día y del mes en curso.
//
// Fuente de datos: repositorios de bancos y movimientos (solo lectura).
type DashboardUseCase struct {
	banks     repository.BankAccountRepository
	movements repository.MovementRepository
	now       func() time.Time
}

// NewDashboardUseCase construye el caso de uso. now nil usa time.Now.
func NewDashboardUseCase(banks repository.BankAccountRepository, movements repository.MovementRepository, now func() time.Time) *DashboardUseCase {
	if now == nil {
		now = time.Now
	}
	return &DashboardUseCase{banks: banks, movements: movements, now: now}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Tres llamadas en paralelo:
//  1. Banks.List            → capital total, saldos y alertas de sobregiro
//  2. Movements.List(hoy)   → ingresos/gastos del día
//  3. Movements.List(mes)   → ingresos/gastos del mes
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	type banksResult struct {
		list []*entity.BankAccount
		err  error
	}
	type flowResult struct {
		ingresos decimal.Decimal
		gastos   decimal.Decimal
		err      error
	}

	banksCh := make(chan banksResult, 1)
	todayCh := make(chan flowResult, 1)
	monthCh := make(chan flowResult, 1)

	go func() {
		list, err := uc.banks.List(ctx)
		banksCh <- banksResult{list, err}
	}()
	go func() {
		in, out, err := uc.flow(ctx, todayStart, todayEnd)
		todayCh <- flowResult{in, out, err}
	}()
	go func() {
		in, out, err := uc.flow(ctx, monthStart, todayEnd)
		monthCh <- flowResult{in, out, err}
	}()

	banks := <-banksCh
	today := <-todayCh
	month := <-monthCh

	if banks.err != nil {
		return nil, fmt.Errorf("dashboard: bancos: %w", banks.err)
	}
	if today.err != nil {
		return nil, fmt.Errorf("dashboard: flujo de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: flujo del mes: %w", month.err)
	}

	out := &dto.DashboardSummaryDTO{
		CapitalTotal:    decimal.Zero,
		TodayIngresos:   today.ingresos,
		TodayGastos:     today.gastos,
		MonthlyIngresos: month.ingresos,
		MonthlyGastos:   month.gastos,
		Bancos:          make([]dto.BankBalanceDTO, 0, len(banks.list)),
		Alertas:         []dto.BankBalanceDTO{},
		DateLabel:       monthLabel(now),
	}
	for _, b := range banks.list {
		item := dto.BankBalanceDTO{BancoID: string(b.ID), Nombre: b.Nombre, CapitalActual: b.CapitalActual}
		out.CapitalTotal = out.CapitalTotal.Add(b.CapitalActual)
		out.Bancos = append(out.Bancos, item)
		if b.EnSobregiro() {
			out.Alertas = append(out.Alertas, item)
		}
	}
	return out, nil
}

// flow suma ingresos y gastos aplicados del rango. Los reversos cuentan en sentido
// opuesto al original, de modo que una venta reembolsada no infla los ingresos.
func (uc *DashboardUseCase) flow(ctx context.Context, from, to time.Time) (ingresos, gastos decimal.Decimal, err error) {
	list, err := uc.movements.List(ctx, entity.MovementFilter{From: &from, To: &to})
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	ingresos, gastos = decimal.Zero, decimal.Zero
	for _, m := range list {
		if !m.Estado.Applied() {
			continue
		}
		reversal := m.ReversaDeID != ""
		switch m.Tipo {
		case entity.MovementIngreso:
			if reversal {
				gastos = gastos.Sub(m.Monto)
			} else {
				ingresos = ingresos.Add(m.Monto)
			}
		case entity.MovementGasto:
			if reversal {
				ingresos = ingresos.Sub(m.Monto)
			} else {
				gastos = gastos.Add(m.Monto)
			}
		}
	}
	return ingresos, gastos, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
