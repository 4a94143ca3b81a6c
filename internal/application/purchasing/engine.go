// Package purchasing implementa la máquina de estados de órdenes de compra:
// pagos contra el banco origen, deuda del distribuidor y stock del lote.
package purchasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Tesoreria-api/internal/application/ledger"
	"github.com/jhoicas/Tesoreria-api/internal/domain"
	"github.com/jhoicas/Tesoreria-api/internal/domain/entity"
	"github.com/jhoicas/Tesoreria-api/internal/domain/finance"
	"github.com/jhoicas/Tesoreria-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Engine motor de órdenes de compra. Sin estado propio.
type Engine struct {
	cfg ledger.Config
}

// NewEngine construye el motor con la política del ledger.
func NewEngine(cfg ledger.Config) *Engine {
	return &Engine{cfg: cfg}
}

// NewOrderInput datos de una orden nueva.
type NewOrderInput struct {
	DistribuidorID string
	ProductoID     string
	BancoOrigenID  entity.BankID
	Cantidad       decimal.Decimal
	CostoTotal     decimal.Decimal
	PagoInicial    decimal.Decimal
	Referencia     string
	Fecha          time.Time
}

func (in NewOrderInput) validate(scale int32) error {
	if in.DistribuidorID == "" {
		return domain.Validation("distribuidor_id", "requerido")
	}
	if in.ProductoID == "" {
		return domain.Validation("producto_id", "requerido")
	}
	if !in.BancoOrigenID.Valid() {
		return domain.NotFound("banco", string(in.BancoOrigenID), domain.ErrUnknownBank)
	}
	if !in.Cantidad.IsPositive() {
		return domain.Validation("cantidad", "debe ser mayor que cero")
	}
	if !in.CostoTotal.IsPositive() {
		return domain.Validation("costo_total", "debe ser mayor que cero")
	}
	if in.PagoInicial.IsNegative() {
		return domain.Validation("pago_inicial", "no puede ser negativo")
	}
	if err := finance.CheckScale("costo_total", in.CostoTotal, scale); err != nil {
		return err
	}
	return finance.CheckScale("pago_inicial", in.PagoInicial, scale)
}

// Result orden actualizada y movimientos generados.
type Result struct {
	Orden     *entity.OrdenCompra
	Movements []*entity.Movement
}

// RegisterOrder crea la orden, suma el lote al stock del producto y acumula la deuda
// del distribuidor. El pago inicial, si lo hay, se registra como un pago normal.
func (e *Engine) RegisterOrder(ctx context.Context, repos repository.Repositories, in NewOrderInput) (*Result, error) {
	if err := in.validate(e.cfg.MoneyScale()); err != nil {
		return nil, err
	}
	if in.PagoInicial.GreaterThan(in.CostoTotal) {
		return nil, domain.Conflict("orden_compra", "", domain.ErrOverpayment)
	}
	now := e.now()

	dist, err := lockDistributor(ctx, repos, in.DistribuidorID)
	if err != nil {
		return nil, err
	}
	prod, err := lockProduct(ctx, repos, in.ProductoID)
	if err != nil {
		return nil, err
	}

	prod.StockSistema = prod.StockSistema.Add(in.Cantidad)
	prod.UpdatedAt = now
	if err := repos.Products.Update(ctx, prod); err != nil {
		return nil, err
	}
	dist.Deuda = dist.Deuda.Add(in.CostoTotal)
	dist.UpdatedAt = now
	if err := repos.Distribuidores.Update(ctx, dist); err != nil {
		return nil, err
	}

	fecha := in.Fecha
	if fecha.IsZero() {
		fecha = now
	}
	order := &entity.OrdenCompra{
		ID:             uuid.New().String(),
		DistribuidorID: in.DistribuidorID,
		ProductoID:     in.ProductoID,
		BancoOrigenID:  in.BancoOrigenID,
		Cantidad:       in.Cantidad,
		CostoTotal:     in.CostoTotal,
		MontoPagado:    decimal.Zero,
		StockVendido:   decimal.Zero,
		Estado:         entity.OrderPendiente,
		Fecha:          fecha,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := repos.Orders.Create(ctx, order); err != nil {
		return nil, err
	}
	res := &Result{Orden: order}
	if in.PagoInicial.IsPositive() {
		m, err := e.applyPayment(ctx, repos, order, dist, in.PagoInicial, in.Referencia)
		if err != nil {
			return nil, err
		}
		res.Movements = append(res.Movements, m)
	}
	return res, nil
}

// RegisterPayment debita el banco origen con un gasto trazado a la orden y al
// distribuidor, y recalcula el estado. El estado nunca lo fija el caller.
func (e *Engine) RegisterPayment(ctx context.Context, repos repository.Repositories, orderID string, monto decimal.Decimal, referencia string) (*Result, error) {
	if !monto.IsPositive() {
		return nil, domain.Validation("monto", "debe ser mayor que cero")
	}
	if err := finance.CheckScale("monto", monto, e.cfg.MoneyScale()); err != nil {
		return nil, err
	}
	order, err := lockOrder(ctx, repos, orderID)
	if err != nil {
		return nil, err
	}
	if order.Estado.Closed() {
		return nil, domain.Conflict("orden_compra", order.ID, domain.ErrOrderClosed)
	}
	if monto.GreaterThan(order.MontoRestante()) {
		return nil, domain.Conflict("orden_compra", order.ID, domain.ErrOverpayment)
	}
	dist, err := lockDistributor(ctx, repos, order.DistribuidorID)
	if err != nil {
		return nil, err
	}
	m, err := e.applyPayment(ctx, repos, order, dist, monto, referencia)
	if err != nil {
		return nil, err
	}
	return &Result{Orden: order, Movements: []*entity.Movement{m}}, nil
}

func (e *Engine) applyPayment(ctx context.Context, repos repository.Repositories, order *entity.OrdenCompra, dist *entity.Distribuidor, monto decimal.Decimal, referencia string) (*entity.Movement, error) {
	now := e.now()
	m := &entity.Movement{
		Tipo:           entity.MovementGasto,
		Monto:          monto,
		BancoOrigenID:  order.BancoOrigenID,
		Estado:         entity.MovementCompletado,
		OrdenCompraID:  order.ID,
		DistribuidorID: order.DistribuidorID,
		ProductoID:     order.ProductoID,
		Referencia:     referencia,
		Concepto:       "pago a distribuidor",
	}
	if _, err := ledger.New(repos, e.cfg).Append(ctx, m); err != nil {
		return nil, err
	}

	dist.Deuda = dist.Deuda.Sub(monto)
	dist.UpdatedAt = now
	if err := repos.Distribuidores.Update(ctx, dist); err != nil {
		return nil, err
	}
	order.MontoPagado = order.MontoPagado.Add(monto)
	order.Estado = finance.OrderStateFor(order.MontoPagado, order.CostoTotal, false)
	order.UpdatedAt = now
	if err := repos.Orders.Update(ctx, order); err != nil {
		return nil, err
	}
	return m, nil
}

// Cancel cancela una orden pendiente o parcial: revierte cada gasto contra el banco
// origen, revierte la deuda restante y retira del producto las unidades no vendidas.
// montoPagado se conserva para auditoría.
func (e *Engine) Cancel(ctx context.Context, repos repository.Repositories, orderID, referencia string) (*Result, error) {
	order, err := lockOrder(ctx, repos, orderID)
	if err != nil {
		return nil, err
	}
	if order.Estado.Closed() {
		return nil, domain.Conflict("orden_compra", order.ID, domain.ErrOrderClosed)
	}
	reversals, err := e.unwind(ctx, repos, order, order.StockDisponible(), referencia)
	if err != nil {
		return nil, err
	}
	order.Estado = finance.OrderStateFor(order.MontoPagado, order.CostoTotal, true)
	order.UpdatedAt = e.now()
	if err := repos.Orders.Update(ctx, order); err != nil {
		return nil, err
	}
	return &Result{Orden: order, Movements: reversals}, nil
}

// Delete elimina una orden sin unidades vendidas. Si no estaba cancelada revierte
// primero gastos, deuda y stock; los movimientos quedan como rastro de auditoría.
func (e *Engine) Delete(ctx context.Context, repos repository.Repositories, orderID, referencia string) (*Result, error) {
	order, err := lockOrder(ctx, repos, orderID)
	if err != nil {
		return nil, err
	}
	if order.StockVendido.IsPositive() {
		return nil, domain.Conflict("orden_compra", order.ID, domain.ErrOrderHasSales)
	}
	var reversals []*entity.Movement
	if order.Estado != entity.OrderCancelado {
		reversals, err = e.unwind(ctx, repos, order, order.Cantidad, referencia)
		if err != nil {
			return nil, err
		}
	}
	if err := repos.Orders.Delete(ctx, order.ID); err != nil {
		return nil, err
	}
	return &Result{Orden: order, Movements: reversals}, nil
}

// unwind revierte los efectos de la orden: gastos, deuda pendiente y stock del lote.
func (e *Engine) unwind(ctx context.Context, repos repository.Repositories, order *entity.OrdenCompra, stock decimal.Decimal, referencia string) ([]*entity.Movement, error) {
	now := e.now()
	dist, err := lockDistributor(ctx, repos, order.DistribuidorID)
	if err != nil {
		return nil, err
	}
	prod, err := lockProduct(ctx, repos, order.ProductoID)
	if err != nil {
		return nil, err
	}
	if stock.IsPositive() {
		if prod.StockSistema.LessThan(stock) {
			return nil, domain.Conflict("producto", prod.ID, domain.ErrInsufficientStock)
		}
		prod.StockSistema = prod.StockSistema.Sub(stock)
		prod.UpdatedAt = now
		if err := repos.Products.Update(ctx, prod); err != nil {
			return nil, err
		}
	}

	reversals, err := ledger.New(repos, e.cfg).ReverseAll(ctx, entity.MovementFilter{
		Tipo:       entity.MovementGasto,
		Trace:      entity.TraceOrdenCompra,
		TraceValue: order.ID,
	}, referencia)
	if err != nil {
		return nil, err
	}

	// Los pagos ya redujeron la deuda; al revertirlos solo queda por anular el restante.
	dist.Deuda = dist.Deuda.Sub(order.MontoRestante())
	dist.UpdatedAt = now
	if err := repos.Distribuidores.Update(ctx, dist); err != nil {
		return nil, err
	}
	return reversals, nil
}

func lockOrder(ctx context.Context, repos repository.Repositories, id string) (*entity.OrdenCompra, error) {
	order, err := repos.Orders.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.NotFound("orden_compra", id, domain.ErrOrderNotFound)
	}
	return order, nil
}

func lockDistributor(ctx context.Context, repos repository.Repositories, id string) (*entity.Distribuidor, error) {
	d, err := repos.Distribuidores.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.NotFound("distribuidor", id, domain.ErrDistributorNotFound)
	}
	return d, nil
}

func lockProduct(ctx context.Context, repos repository.Repositories, id string) (*entity.Producto, error) {
	p, err := repos.Products.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("producto", id, domain.ErrProductNotFound)
	}
	return p, nil
}

func (e *Engine) now() time.Time { return e.cfg.Clock() }
