// Package finance contiene los servicios de dominio puros del ledger:
// distribución de cobros de ventas y estado de órdenes de compra.
package finance

import (
	"github.com/jhoicas/Tesoreria-api/internal/domain"
	"github.com/jhoicas/Tesoreria-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// DefaultScale decimales de la unidad monetaria mínima (centavos).
const DefaultScale int32 = 2

// CheckScale rechaza montos con más decimales que la moneda. No redondea: un monto
// que no cabe en la unidad mínima nunca llega a un saldo.
func CheckScale(field string, amount decimal.Decimal, scale int32) error {
	if !amount.Equal(amount.RoundBank(scale)) {
		return domain.Validation(field, "excede la precisión de la moneda")
	}
	return nil
}

// Split montos por banco destino de una venta: costo, flete y utilidad.
type Split struct {
	BovedaMonte decimal.Decimal
	Fletes      decimal.Decimal
	Utilidades  decimal.Decimal
}

// Total suma de los tres buckets.
func (s Split) Total() decimal.Decimal {
	return s.BovedaMonte.Add(s.Fletes).Add(s.Utilidades)
}

// Add suma bucket a bucket.
func (s Split) Add(o Split) Split {
	return Split{
		BovedaMonte: s.BovedaMonte.Add(o.BovedaMonte),
		Fletes:      s.Fletes.Add(o.Fletes),
		Utilidades:  s.Utilidades.Add(o.Utilidades),
	}
}

// Banks pares (banco, monto) en orden fijo: boveda_monte, flete_sur, utilidades.
func (s Split) Banks() []BankAmount {
	return []BankAmount{
		{Bank: entity.BankBovedaMonte, Amount: s.BovedaMonte},
		{Bank: entity.BankFleteSur, Amount: s.Fletes},
		{Bank: entity.BankUtilidades, Amount: s.Utilidades},
	}
}

// BankAmount monto asignado a un banco.
type BankAmount struct {
	Bank   entity.BankID
	Amount decimal.Decimal
}

// TargetsOf montos objetivo de una venta según sus precios unitarios fijos.
func TargetsOf(v *entity.Venta) Split {
	return Split{
		BovedaMonte: v.MontoBovedaMonte(),
		Fletes:      v.MontoFletes(),
		Utilidades:  v.MontoUtilidades(),
	}
}

// PaidOf montos ya distribuidos de una venta.
func PaidOf(v *entity.Venta) Split {
	return Split{
		BovedaMonte: v.PagadoBovedaMonte,
		Fletes:      v.PagadoFletes,
		Utilidades:  v.PagadoUtilidades,
	}
}

// Distribute reparte un pago entre costo, flete y utilidad proporcionalmente a la
// participación de cada bucket en el total de la venta.
//
// El reparto es acumulado: tras el pago, el objetivo de cada bucket es
// RoundBank(pagadoTotal × bucket / total); la porción de este pago es el objetivo menos
// lo ya distribuido. El residuo de redondeo va a utilidades. En el pago que completa la
// venta se usan los montos completos de cada bucket, así que la suma cobrada es
// exactamente precioVenta × cantidad.
func Distribute(targets, paid Split, payment decimal.Decimal, scale int32) (Split, error) {
	if !payment.IsPositive() {
		return Split{}, domain.Validation("monto", "debe ser mayor que cero")
	}
	total := targets.Total()
	if !total.IsPositive() {
		return Split{}, domain.Validation("venta", "total debe ser mayor que cero")
	}
	if err := CheckScale("monto", payment, scale); err != nil {
		return Split{}, err
	}
	paidTotal := paid.Total()
	after := paidTotal.Add(payment)
	if after.GreaterThan(total) {
		return Split{}, domain.Conflict("venta", "", domain.ErrOverpayment)
	}

	if after.Equal(total) {
		share := Split{
			BovedaMonte: targets.BovedaMonte.Sub(paid.BovedaMonte),
			Fletes:      targets.Fletes.Sub(paid.Fletes),
			Utilidades:  targets.Utilidades.Sub(paid.Utilidades),
		}
		return settleDeficit(share), nil
	}

	cumCosto := after.Mul(targets.BovedaMonte).Div(total).RoundBank(scale)
	cumFlete := after.Mul(targets.Fletes).Div(total).RoundBank(scale)

	costo := clamp(cumCosto.Sub(paid.BovedaMonte), decimal.Zero, payment)
	flete := clamp(cumFlete.Sub(paid.Fletes), decimal.Zero, payment.Sub(costo))
	return Split{
		BovedaMonte: costo,
		Fletes:      flete,
		Utilidades:  payment.Sub(costo).Sub(flete),
	}, nil
}

// settleDeficit absorbe un bucket de utilidad negativo (solo ocurre con márgenes por
// debajo de un centavo) descontándolo de flete y luego de costo. El total no cambia.
func settleDeficit(s Split) Split {
	if !s.Utilidades.IsNegative() {
		return s
	}
	deficit := s.Utilidades.Neg()
	s.Utilidades = decimal.Zero
	take := decimal.Min(s.Fletes, deficit)
	s.Fletes = s.Fletes.Sub(take)
	s.BovedaMonte = s.BovedaMonte.Sub(deficit.Sub(take))
	return s
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
