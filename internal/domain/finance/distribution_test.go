package finance_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tesoreria-api/internal/domain"
	"github.com/jhoicas/Tesoreria-api/internal/domain/entity"
	"github.com/jhoicas/Tesoreria-api/internal/domain/finance"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ventaBase 5 unidades a 10000, costo 6300 y flete 500 → total 50000.
func ventaBase() *entity.Venta {
	return &entity.Venta{
		Cantidad:     dec("5"),
		PrecioVenta:  dec("10000"),
		PrecioCompra: dec("6300"),
		PrecioFlete:  dec("500"),
	}
}

func assertSplit(t *testing.T, s finance.Split, costo, flete, util string) {
	t.Helper()
	assert.True(t, s.BovedaMonte.Equal(dec(costo)), "boveda_monte: esperado %s, obtenido %s", costo, s.BovedaMonte)
	assert.True(t, s.Fletes.Equal(dec(flete)), "flete_sur: esperado %s, obtenido %s", flete, s.Fletes)
	assert.True(t, s.Utilidades.Equal(dec(util)), "utilidades: esperado %s, obtenido %s", util, s.Utilidades)
}

// ──────────────────────────────────────────────────────────────────────────────
// Distribute
// ──────────────────────────────────────────────────────────────────────────────

func TestDistribute_PagoCompletoRepartePorBucket(t *testing.T) {
	v := ventaBase()
	share, err := finance.Distribute(finance.TargetsOf(v), finance.PaidOf(v), dec("50000"), finance.DefaultScale)
	require.NoError(t, err)
	assertSplit(t, share, "31500", "2500", "16000")
	assert.True(t, share.Total().Equal(dec("50000")))
}

func TestDistribute_PagoParcialProporcional(t *testing.T) {
	v := ventaBase()
	share, err := finance.Distribute(finance.TargetsOf(v), finance.PaidOf(v), dec("25000"), finance.DefaultScale)
	require.NoError(t, err)
	assertSplit(t, share, "15750", "1250", "8000")
}

func TestDistribute_PagosSucesivosSumanExactoElTotal(t *testing.T) {
	// Montos que no dividen limpio: 3 unidades a 333.33 con costo 111.11 y flete 22.22.
	v := &entity.Venta{
		Cantidad:     dec("3"),
		PrecioVenta:  dec("333.33"),
		PrecioCompra: dec("111.11"),
		PrecioFlete:  dec("22.22"),
	}
	targets := finance.TargetsOf(v)
	paid := finance.PaidOf(v)
	pagos := []string{"100", "0.01", "333.33", "99.99", "466.66"}

	for _, p := range pagos {
		share, err := finance.Distribute(targets, paid, dec(p), finance.DefaultScale)
		require.NoError(t, err, "pago %s", p)
		assert.True(t, share.Total().Equal(dec(p)), "la porción debe sumar el pago %s", p)
		for _, b := range share.Banks() {
			assert.False(t, b.Amount.IsNegative(), "ningún bucket puede ser negativo (%s)", b.Bank)
		}
		paid = paid.Add(share)
	}

	assert.True(t, paid.Total().Equal(v.Total()), "la suma cobrada debe ser precioVenta × cantidad")
	assert.True(t, paid.BovedaMonte.Equal(targets.BovedaMonte))
	assert.True(t, paid.Fletes.Equal(targets.Fletes))
	assert.True(t, paid.Utilidades.Equal(targets.Utilidades))
}

func TestDistribute_Sobrepago(t *testing.T) {
	v := ventaBase()
	v.PagadoBovedaMonte = dec("15750")
	v.PagadoFletes = dec("1250")
	v.PagadoUtilidades = dec("8000")

	_, err := finance.Distribute(finance.TargetsOf(v), finance.PaidOf(v), dec("25000.01"), finance.DefaultScale)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrOverpayment))
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestDistribute_RechazaPrecisionMayorQueLaMoneda(t *testing.T) {
	v := ventaBase()
	_, err := finance.Distribute(finance.TargetsOf(v), finance.PaidOf(v), dec("10.005"), finance.DefaultScale)
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestDistribute_RechazaMontoNoPositivo(t *testing.T) {
	v := ventaBase()
	for _, p := range []string{"0", "-1"} {
		_, err := finance.Distribute(finance.TargetsOf(v), finance.PaidOf(v), dec(p), finance.DefaultScale)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err), "pago %s", p)
	}
}

func TestDistribute_MargenMenorAUnCentavoNoDejaUtilidadNegativa(t *testing.T) {
	v := &entity.Venta{
		Cantidad:     dec("1"),
		PrecioVenta:  dec("0.03"),
		PrecioCompra: dec("0.02"),
		PrecioFlete:  dec("0.01"),
	}
	targets := finance.TargetsOf(v)
	first, err := finance.Distribute(targets, finance.PaidOf(v), dec("0.02"), finance.DefaultScale)
	require.NoError(t, err)
	second, err := finance.Distribute(targets, first, dec("0.01"), finance.DefaultScale)
	require.NoError(t, err)

	total := first.Add(second)
	assert.True(t, total.Total().Equal(dec("0.03")))
	assert.False(t, second.Utilidades.IsNegative())
}

// ──────────────────────────────────────────────────────────────────────────────
// Estados derivados
// ──────────────────────────────────────────────────────────────────────────────

func TestOrderStateFor(t *testing.T) {
	costo := dec("1000")
	cases := []struct {
		name      string
		pagado    string
		cancelado bool
		want      entity.OrderState
	}{
		{"sin pagos", "0", false, entity.OrderPendiente},
		{"pago parcial", "400", false, entity.OrderParcial},
		{"pago exacto", "1000", false, entity.OrderCompleto},
		{"pago por encima", "1000.01", false, entity.OrderCompleto},
		{"cancelada con pagos", "400", true, entity.OrderCancelado},
		{"cancelada sin pagos", "0", true, entity.OrderCancelado},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, finance.OrderStateFor(dec(tc.pagado), costo, tc.cancelado))
		})
	}
}

func TestSaleStateFor(t *testing.T) {
	total := dec("50000")
	assert.Equal(t, entity.SalePendiente, finance.SaleStateFor(decimal.Zero, total, false))
	assert.Equal(t, entity.SaleParcial, finance.SaleStateFor(dec("25000"), total, false))
	assert.Equal(t, entity.SalePagada, finance.SaleStateFor(total, total, false))
	assert.Equal(t, entity.SaleReembolsada, finance.SaleStateFor(total, total, true))
}
