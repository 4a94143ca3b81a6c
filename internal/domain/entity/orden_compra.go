package entity

import (
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// OrderState estado de pago de una orden de compra.
type OrderState string

const (
	OrderPendiente OrderState = "pendiente"
	OrderParcial   OrderState = "parcial"
	OrderCompleto  OrderState = "completo"
	OrderCancelado OrderState = "cancelado"
)

// Valid indica si el estado es canónico.
func (s OrderState) Valid() bool {
	switch s {
	case OrderPendiente, OrderParcial, OrderCompleto, OrderCancelado:
		return true
	}
	return false
}

// Closed indica que la orden ya no admite pagos.
func (s OrderState) Closed() bool {
	return s == OrderCompleto || s == OrderCancelado
}

// Sinónimos de presentación aceptados en la ingesta.
var orderStateAliases = map[string]OrderState{
	"pendiente":  OrderPendiente,
	"parcial":    OrderParcial,
	"completo":   OrderCompleto,
	"completada": OrderCompleto,
	"completado": OrderCompleto,
	"cancelado":  OrderCancelado,
	"cancelada":  OrderCancelado,
}

// ParseOrderState normaliza el estado recibido en la frontera del sistema
// (mayúsculas, acentos y sinónimos) al valor canónico.
func ParseOrderState(raw string) (OrderState, bool) {
	s, ok := orderStateAliases[foldKey(raw)]
	return s, ok
}

var foldCaser = cases.Fold()

// foldKey pasa a minúsculas sin distinción de mayúsculas y elimina diacríticos.
func foldKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = strings.TrimSpace(s)
	}
	return foldCaser.String(out)
}

// OrdenCompra orden de compra a un distribuidor, pagada desde un banco origen.
type OrdenCompra struct {
	ID             string
	DistribuidorID string
	ProductoID     string
	BancoOrigenID  BankID
	Cantidad       decimal.Decimal
	CostoTotal     decimal.Decimal
	MontoPagado    decimal.Decimal
	StockVendido   decimal.Decimal
	Estado         OrderState
	Fecha          time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// MontoRestante costoTotal − montoPagado.
func (o *OrdenCompra) MontoRestante() decimal.Decimal {
	return o.CostoTotal.Sub(o.MontoPagado)
}

// StockDisponible unidades del lote aún no vendidas.
func (o *OrdenCompra) StockDisponible() decimal.Decimal {
	return o.Cantidad.Sub(o.StockVendido)
}
