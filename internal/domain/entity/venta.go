package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleState estado de cobro de una venta.
type SaleState string

const (
	SalePendiente   SaleState = "pendiente"
	SaleParcial     SaleState = "parcial"
	SalePagada      SaleState = "pagada"
	SaleReembolsada SaleState = "reembolsada"
)

// Valid indica si el estado es conocido.
func (s SaleState) Valid() bool {
	switch s {
	case SalePendiente, SaleParcial, SalePagada, SaleReembolsada:
		return true
	}
	return false
}

// Venta registro de una venta con los precios unitarios fijados al crearla.
// Los precios nunca se recalculan desde el catálogo.
type Venta struct {
	ID            string
	ClienteID     string
	ProductoID    string // opcional
	OrdenCompraID string // opcional: lote de origen
	Cantidad      decimal.Decimal
	PrecioVenta   decimal.Decimal
	PrecioCompra  decimal.Decimal
	PrecioFlete   decimal.Decimal
	MontoPagado   decimal.Decimal

	// Montos ya distribuidos a cada banco destino
	PagadoBovedaMonte decimal.Decimal
	PagadoFletes      decimal.Decimal
	PagadoUtilidades  decimal.Decimal

	Estado    SaleState
	Fecha     time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Total precioVenta × cantidad.
func (v *Venta) Total() decimal.Decimal { return v.PrecioVenta.Mul(v.Cantidad) }

// MontoBovedaMonte precioCompra × cantidad.
func (v *Venta) MontoBovedaMonte() decimal.Decimal { return v.PrecioCompra.Mul(v.Cantidad) }

// MontoFletes precioFlete × cantidad.
func (v *Venta) MontoFletes() decimal.Decimal { return v.PrecioFlete.Mul(v.Cantidad) }

// MontoUtilidades (precioVenta − precioCompra − precioFlete) × cantidad.
func (v *Venta) MontoUtilidades() decimal.Decimal {
	return v.PrecioVenta.Sub(v.PrecioCompra).Sub(v.PrecioFlete).Mul(v.Cantidad)
}

// MontoRestante saldo por cobrar.
func (v *Venta) MontoRestante() decimal.Decimal { return v.Total().Sub(v.MontoPagado) }
