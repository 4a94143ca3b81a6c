package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CorteState clasificación de la diferencia de un corte.
type CorteState string

const (
	CorteCorrecto CorteState = "correcto"
	CorteFaltante CorteState = "faltante" // merma
	CorteSobrante CorteState = "sobrante"
)

// Valid indica si el estado es conocido.
func (s CorteState) Valid() bool {
	switch s {
	case CorteCorrecto, CorteFaltante, CorteSobrante:
		return true
	}
	return false
}

// CorteInventario conteo físico contra el stock registrado en sistema.
type CorteInventario struct {
	ID                 string
	ProductoID         string
	StockSistema       decimal.Decimal
	StockFisico        decimal.Decimal
	Diferencia         decimal.Decimal // stockFisico − stockSistema al momento del corte
	Estado             CorteState
	AjusteRealizado    bool
	MovimientoAjusteID string
	Fecha              time.Time
	AjustadoEn         *time.Time
}
