package coordinator_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tesoreria-api/internal/application/coordinator"
	"github.com/jhoicas/Tesoreria-api/internal/application/dto"
	"github.com/jhoicas/Tesoreria-api/internal/application/ledger"
	"github.com/jhoicas/Tesoreria-api/internal/domain"
	"github.com/jhoicas/Tesoreria-api/internal/domain/entity"
	"github.com/jhoicas/Tesoreria-api/internal/domain/repository"
	"github.com/jhoicas/Tesoreria-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var fixedNow = time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)

func testConfig() coordinator.Config {
	return coordinator.Config{
		Ledger:     ledger.Config{AllowOverdraft: true, Now: func() time.Time { return fixedNow }},
		Scale:      2,
		MaxRetries: 3,
		RetryBase:  time.Millisecond,
	}
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// newCoordinator Coordinator en memoria con los siete bancos sembrados con 100000.
func newCoordinator(t *testing.T, tx ledger.TxRunner, store *memory.Store) *coordinator.Coordinator {
	t.Helper()
	c := coordinator.New(tx, store.Repositories(), testConfig(), zerolog.Nop())
	seeds := make(map[entity.BankID]decimal.Decimal)
	for _, id := range entity.AllBanks() {
		seeds[id] = d(100000)
	}
	require.NoError(t, c.Bootstrap(context.Background(), seeds))
	return c
}

func setup(t *testing.T) (*coordinator.Coordinator, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return newCoordinator(t, memory.NewTxRunner(store), store), store
}

func capital(t *testing.T, c *coordinator.Coordinator, id entity.BankID) decimal.Decimal {
	t.Helper()
	acc, err := c.GetBankAccount(context.Background(), string(id))
	require.NoError(t, err)
	return acc.CapitalActual
}

func totalCapital(t *testing.T, c *coordinator.Coordinator) decimal.Decimal {
	t.Helper()
	list, err := c.ListBankAccounts(context.Background())
	require.NoError(t, err)
	total := decimal.Zero
	for _, b := range list {
		total = total.Add(b.CapitalActual)
	}
	return total
}

// flakyRunner falla las primeras n ejecuciones con err y luego delega en el runner real.
type flakyRunner struct {
	inner ledger.TxRunner
	fails int32
	err   error
	calls atomic.Int32
}

func (r *flakyRunner) Run(ctx context.Context, fn func(repository.Repositories) error) error {
	if r.calls.Add(1) <= r.fails {
		return r.err
	}
	return r.inner.Run(ctx, fn)
}

// ──────────────────────────────────────────────────────────────────────────────
// Idempotencia
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterExpense_ClaveRepetidaDebitaUnaSolaVez(t *testing.T) {
	ctx := context.Background()
	c, _ := setup(t)
	req := dto.BankMovementRequest{BancoID: "profit", Monto: d(2500), Concepto: "renta"}

	first, err := c.RegisterExpense(ctx, "gasto-001", req)
	require.NoError(t, err)
	second, err := c.RegisterExpense(ctx, "gasto-001", req)
	require.NoError(t, err)

	assert.Equal(t, first.Movimiento.ID, second.Movimiento.ID, "la repetición devuelve el mismo resultado")
	assert.True(t, capital(t, c, entity.BankProfit).Equal(d(97500)))

	movs, err := c.ListMovements(ctx, dto.MovementListRequest{BancoID: "profit"})
	require.NoError(t, err)
	assert.Len(t, movs, 1)
}

func TestRegisterExpense_ClaveReutilizadaConOtroPayload(t *testing.T) {
	ctx := context.Background()
	c, _ := setup(t)

	_, err := c.RegisterExpense(ctx, "gasto-002", dto.BankMovementRequest{BancoID: "profit", Monto: d(100)})
	require.NoError(t, err)

	_, err = c.RegisterExpense(ctx, "gasto-002", dto.BankMovementRequest{BancoID: "profit", Monto: d(200)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrIdempotencyMismatch))

	// Misma clave con otro comando también es un conflicto
	_, err = c.RegisterIncome(ctx, "gasto-002", dto.BankMovementRequest{BancoID: "profit", Monto: d(100)})
	assert.True(t, errors.Is(err, domain.ErrIdempotencyMismatch))
	assert.True(t, capital(t, c, entity.BankProfit).Equal(d(99900)))
}

func TestExecute_ClaveVaciaRechazada(t *testing.T) {
	c, _ := setup(t)
	_, err := c.RegisterExpense(context.Background(), "  ", dto.BankMovementRequest{BancoID: "profit", Monto: d(1)})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestExecute_ErrorNoConsumeLaClave(t *testing.T) {
	ctx := context.Background()
	c, _ := setup(t)

	_, err := c.RegisterSalePayment(ctx, "pago-x", dto.SalePaymentRequest{VentaID: "no-existe", Monto: d(100)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSaleNotFound))
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	for _, id := range []entity.BankID{entity.BankBovedaMonte, entity.BankFleteSur, entity.BankUtilidades} {
		assert.True(t, capital(t, c, id).Equal(d(100000)), "sin efectos en %s", id)
	}
	movs, err := c.ListMovements(ctx, dto.MovementListRequest{})
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestValidacion_ReportaNombreJSON(t *testing.T) {
	c, _ := setup(t)
	_, err := c.RegisterTransfer(context.Background(), "t-1", dto.TransferRequest{BancoOrigenID: "profit", BancoDestinoID: "profit", Monto: d(1)})
	require.Error(t, err)
	var de *domain.Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, domain.KindValidation, de.Kind)
	assert.Equal(t, "banco_destino_id", de.Field)

	_, err = c.RegisterExpense(context.Background(), "g-1", dto.BankMovementRequest{BancoID: "profit", Monto: d(-5)})
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "monto", de.Field)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reintentos y clasificación
// ──────────────────────────────────────────────────────────────────────────────

func TestExecute_ReintentaErroresDeConcurrencia(t *testing.T) {
	store := memory.NewStore()
	runner := &flakyRunner{inner: memory.NewTxRunner(store), err: domain.Concurrency(errors.New("deadlock detected"))}
	c := newCoordinator(t, runner, store)
	runner.calls.Store(0)
	runner.fails = 2

	res, err := c.RegisterIncome(context.Background(), "ing-1", dto.BankMovementRequest{BancoID: "azteca", Monto: d(300)})
	require.NoError(t, err)
	assert.Equal(t, "ingreso", res.Movimiento.Tipo)
	assert.Equal(t, int32(3), runner.calls.Load())
	assert.True(t, capital(t, c, entity.BankAzteca).Equal(d(100300)))
}

func TestExecute_AgotaReintentos(t *testing.T) {
	store := memory.NewStore()
	runner := &flakyRunner{inner: memory.NewTxRunner(store), err: domain.Concurrency(nil)}
	c := newCoordinator(t, runner, store)
	runner.calls.Store(0)
	runner.fails = 100

	_, err := c.RegisterIncome(context.Background(), "ing-2", dto.BankMovementRequest{BancoID: "azteca", Monto: d(1)})
	require.Error(t, err)
	assert.Equal(t, domain.KindConcurrency, domain.KindOf(err))
	assert.Equal(t, int32(testConfig().MaxRetries+1), runner.calls.Load())
}

func TestExecute_ClasificaTimeoutYErroresNoTipados(t *testing.T) {
	store := memory.NewStore()
	runner := &flakyRunner{inner: memory.NewTxRunner(store), err: context.DeadlineExceeded}
	c := newCoordinator(t, runner, store)

	runner.calls.Store(0)
	runner.fails = 1
	_, err := c.RegisterExpense(context.Background(), "g-t", dto.BankMovementRequest{BancoID: "leftie", Monto: d(1)})
	assert.True(t, errors.Is(err, domain.ErrTransactionTimeout))

	runner.calls.Store(0)
	runner.err = errors.New("conexión cerrada")
	_, err = c.RegisterExpense(context.Background(), "g-p", dto.BankMovementRequest{BancoID: "leftie", Monto: d(1)})
	assert.True(t, errors.Is(err, domain.ErrPersistence))
	assert.True(t, capital(t, c, entity.BankLeftie).Equal(d(100000)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia
// ──────────────────────────────────────────────────────────────────────────────

func TestComandosConcurrentes_ConservanElCapital(t *testing.T) {
	ctx := context.Background()
	c, _ := setup(t)
	before := totalCapital(t, c)

	const n = 40
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := c.RegisterTransfer(ctx, fmt.Sprintf("tr-%d", i), dto.TransferRequest{
				BancoOrigenID: "profit", BancoDestinoID: "azteca", Monto: d(100),
			})
			assert.NoError(t, err)
			_, err = c.RegisterExpense(ctx, fmt.Sprintf("gs-%d", i), dto.BankMovementRequest{BancoID: "azteca", Monto: d(10)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.True(t, totalCapital(t, c).Equal(before.Sub(d(10*n))), "solo los gastos cambian el capital total")
	assert.True(t, capital(t, c, entity.BankProfit).Equal(d(100000-100*n)))

	list, err := c.ListBankAccounts(ctx)
	require.NoError(t, err)
	for _, b := range list {
		assert.True(t, b.CapitalActual.Equal(b.CapitalInicial.
			Add(b.HistoricoIngresos).Sub(b.HistoricoGastos).
			Add(b.HistoricoTransferenciasEntrada).Sub(b.HistoricoTransferenciasSalida)), "banco %s concilia", b.ID)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujos completos
// ──────────────────────────────────────────────────────────────────────────────

func TestFlujo_VentaPagoYReembolso(t *testing.T) {
	ctx := context.Background()
	c, _ := setup(t)

	prod, err := c.RegisterProduct(ctx, "prod-1", dto.CreateProductRequest{Nombre: "Caja", StockInicial: d(10)})
	require.NoError(t, err)

	sale, err := c.RegisterSale(ctx, "venta-1", dto.RegisterSaleRequest{
		ClienteID: "cli-1", ProductoID: prod.ID,
		Cantidad: d(5), PrecioVenta: d(10000), PrecioCompra: d(6300), PrecioFlete: d(500),
		PagoInicial: d(25000),
	})
	require.NoError(t, err)
	assert.Equal(t, "parcial", sale.Venta.Estado)
	assert.Len(t, sale.Movimientos, 3)

	paid, err := c.RegisterSalePayment(ctx, "venta-1-pago-2", dto.SalePaymentRequest{VentaID: sale.Venta.ID, Monto: d(25000)})
	require.NoError(t, err)
	assert.Equal(t, "pagada", paid.Venta.Estado)
	assert.True(t, capital(t, c, entity.BankBovedaMonte).Equal(d(131500)))
	assert.True(t, capital(t, c, entity.BankFleteSur).Equal(d(102500)))
	assert.True(t, capital(t, c, entity.BankUtilidades).Equal(d(116000)))

	trace, err := c.ListByTrace(ctx, string(entity.TraceVenta), sale.Venta.ID)
	require.NoError(t, err)
	assert.Len(t, trace, 6)

	refund, err := c.RefundSale(ctx, "venta-1-reembolso", dto.RefundSaleRequest{VentaID: sale.Venta.ID})
	require.NoError(t, err)
	assert.Equal(t, "reembolsada", refund.Venta.Estado)
	assert.True(t, capital(t, c, entity.BankUtilidades).Equal(d(100000)))

	got, err := c.GetSale(ctx, sale.Venta.ID)
	require.NoError(t, err)
	assert.True(t, got.MontoPagado.IsZero())
}

func TestFlujo_OrdenDeCompraParcialYCompleta(t *testing.T) {
	ctx := context.Background()
	c, _ := setup(t)

	prod, err := c.RegisterProduct(ctx, "p", dto.CreateProductRequest{Nombre: "Caja"})
	require.NoError(t, err)
	dist, err := c.RegisterDistributor(ctx, "dst", dto.CreateDistributorRequest{Nombre: "Proveedor"})
	require.NoError(t, err)

	order, err := c.RegisterPurchaseOrder(ctx, "oc-1", dto.PurchaseOrderRequest{
		DistribuidorID: dist.ID, ProductoID: prod.ID, BancoOrigenID: "Bóveda Monte",
		Cantidad: d(100), CostoTotal: d(61500), PagoInicial: d(30000),
	})
	require.NoError(t, err)
	assert.Equal(t, "parcial", order.Orden.Estado)
	assert.True(t, order.Orden.MontoRestante.Equal(d(31500)))

	order, err = c.RegisterPurchasePayment(ctx, "oc-1-pago", dto.PurchasePaymentRequest{OrdenCompraID: order.Orden.ID, Monto: d(31500)})
	require.NoError(t, err)
	assert.Equal(t, "completo", order.Orden.Estado)
	assert.True(t, capital(t, c, entity.BankBovedaMonte).Equal(d(100000-61500)))

	_, err = c.CancelPurchaseOrder(ctx, "oc-1-cancelar", dto.OrderActionRequest{OrdenCompraID: order.Orden.ID})
	assert.True(t, errors.Is(err, domain.ErrOrderClosed))

	got, err := c.GetOrder(ctx, order.Orden.ID)
	require.NoError(t, err)
	assert.Equal(t, "completo", got.Estado)
}

func TestFlujo_CorteYAjuste(t *testing.T) {
	ctx := context.Background()
	c, _ := setup(t)

	prod, err := c.RegisterProduct(ctx, "p", dto.CreateProductRequest{Nombre: "Caja", StockInicial: d(100)})
	require.NoError(t, err)
	corte, err := c.RegisterInventoryCut(ctx, "corte-1", dto.InventoryCutRequest{ProductoID: prod.ID, StockFisico: d(92)})
	require.NoError(t, err)
	assert.Equal(t, "faltante", corte.Estado)
	assert.True(t, corte.Diferencia.Equal(d(-8)))

	pend, err := c.ListCortesPendientesDeAjuste(ctx)
	require.NoError(t, err)
	assert.Len(t, pend, 1)

	adj, err := c.ApplyInventoryAdjustment(ctx, "ajuste-1", dto.ApplyAdjustmentRequest{CorteID: corte.ID})
	require.NoError(t, err)
	require.NotNil(t, adj.Movimiento)
	assert.True(t, adj.Movimiento.Monto.Equal(d(8)))

	// Clave nueva sobre el mismo corte: conflicto, sin segundo movimiento
	_, err = c.ApplyInventoryAdjustment(ctx, "ajuste-2", dto.ApplyAdjustmentRequest{CorteID: corte.ID})
	assert.True(t, errors.Is(err, domain.ErrAlreadyAdjusted))

	// Misma clave: repetición del resultado original
	again, err := c.ApplyInventoryAdjustment(ctx, "ajuste-1", dto.ApplyAdjustmentRequest{CorteID: corte.ID})
	require.NoError(t, err)
	assert.Equal(t, adj.Movimiento.ID, again.Movimiento.ID)

	assert.True(t, totalCapital(t, c).Equal(d(700000)), "un ajuste no toca bancos")
}

func TestBootstrap_NoPisaBancosExistentes(t *testing.T) {
	ctx := context.Background()
	c, _ := setup(t)

	_, err := c.RegisterExpense(ctx, "g", dto.BankMovementRequest{BancoID: "profit", Monto: d(1000)})
	require.NoError(t, err)
	require.NoError(t, c.Bootstrap(ctx, map[entity.BankID]decimal.Decimal{entity.BankProfit: d(5)}))
	assert.True(t, capital(t, c, entity.BankProfit).Equal(d(99000)))

	err = c.Bootstrap(ctx, map[entity.BankID]decimal.Decimal{"banco_fantasma": d(1)})
	assert.True(t, errors.Is(err, domain.ErrUnknownBank))
}

func TestComandos_MontosFueraDePrecisionNoTocanSaldos(t *testing.T) {
	ctx := context.Background()
	c, _ := setup(t)
	tiny := decimal.RequireFromString("0.0000001")

	_, err := c.RegisterExpense(ctx, "g-fino", dto.BankMovementRequest{BancoID: "azteca", Monto: tiny})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err), "gasto")
	_, err = c.RegisterIncome(ctx, "i-fino", dto.BankMovementRequest{BancoID: "azteca", Monto: decimal.RequireFromString("10.00005")})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err), "ingreso")
	_, err = c.RegisterTransfer(ctx, "t-fino", dto.TransferRequest{BancoOrigenID: "azteca", BancoDestinoID: "profit", Monto: decimal.RequireFromString("1.001")})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err), "transferencia")

	assert.True(t, capital(t, c, entity.BankAzteca).Equal(d(100000)))
	assert.True(t, totalCapital(t, c).Equal(d(700000)))

	// La clave no queda consumida: el mismo comando con un monto válido se ejecuta.
	res, err := c.RegisterExpense(ctx, "g-fino", dto.BankMovementRequest{BancoID: "azteca", Monto: decimal.RequireFromString("0.01")})
	require.NoError(t, err)
	assert.True(t, res.Movimiento.Monto.Equal(decimal.RequireFromString("0.01")))
}

func TestBootstrap_CapitalInicialFueraDePrecision(t *testing.T) {
	store := memory.NewStore()
	c := coordinator.New(memory.NewTxRunner(store), store.Repositories(), testConfig(), zerolog.Nop())

	err := c.Bootstrap(context.Background(), map[entity.BankID]decimal.Decimal{entity.BankProfit: decimal.RequireFromString("100.001")})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	list, err := c.ListBankAccounts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list, "no se crea ningún banco")
}

func TestQueries_BancoDesconocidoYFiltros(t *testing.T) {
	ctx := context.Background()
	c, _ := setup(t)

	_, err := c.GetBankAccount(ctx, "banco_fantasma")
	assert.True(t, errors.Is(err, domain.ErrUnknownBank))

	_, err = c.ListMovements(ctx, dto.MovementListRequest{Tipo: "otro"})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = c.ListByTrace(ctx, "monto", "1")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = c.RegisterIncome(ctx, "i-1", dto.BankMovementRequest{BancoID: "leftie", Monto: d(50), Fecha: &fixedNow})
	require.NoError(t, err)
	day := fixedNow.Format("2006-01-02")
	movs, err := c.ListMovements(ctx, dto.MovementListRequest{Tipo: "ingreso", Desde: day, Hasta: day})
	require.NoError(t, err)
	assert.Len(t, movs, 1)
}
