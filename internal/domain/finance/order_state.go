package finance

import (
	"github.com/jhoicas/Tesoreria-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// OrderStateFor es la única función que decide el estado de una orden de compra:
//
//	cancelado                        -> cancelado
//	montoPagado <= 0                 -> pendiente
//	0 < montoPagado < costoTotal     -> parcial
//	montoPagado >= costoTotal        -> completo
func OrderStateFor(montoPagado, costoTotal decimal.Decimal, cancelado bool) entity.OrderState {
	switch {
	case cancelado:
		return entity.OrderCancelado
	case !montoPagado.IsPositive():
		return entity.OrderPendiente
	case montoPagado.LessThan(costoTotal):
		return entity.OrderParcial
	default:
		return entity.OrderCompleto
	}
}

// SaleStateFor estado de cobro de una venta con la misma regla que las órdenes.
func SaleStateFor(montoPagado, total decimal.Decimal, reembolsada bool) entity.SaleState {
	switch {
	case reembolsada:
		return entity.SaleReembolsada
	case !montoPagado.IsPositive():
		return entity.SalePendiente
	case montoPagado.LessThan(total):
		return entity.SaleParcial
	default:
		return entity.SalePagada
	}
}
