// Package sales contiene el motor de distribución de cobros de ventas: cada pago se
// reparte entre boveda_monte (costo), flete_sur (flete) y utilidades (ganancia).
package sales

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

// Engine motor de ventas. No guarda estado: opera sobre los repos de la transacción.
type Engine struct {
	cfg   ledger.Config
	scale int32
}

// NewEngine construye el motor con la política del ledger y los decimales de la moneda.
func NewEngine(cfg ledger.Config, scale int32) *Engine {
	if scale <= 0 {
		scale = finance.DefaultScale
	}
	return &Engine{cfg: cfg, scale: scale}
}

// NewSaleInput datos de una venta nueva. Los precios son unitarios y quedan fijos.
type NewSaleInput struct {
	ClienteID     string
	ProductoID    string
	OrdenCompraID string
	Cantidad      decimal.Decimal
	PrecioVenta   decimal.Decimal
	PrecioCompra  decimal.Decimal
	PrecioFlete   decimal.Decimal
	PagoInicial   decimal.Decimal
	Referencia    string
	Fecha         time.Time
}

func (in NewSaleInput) validate(scale int32) error {
	if in.ClienteID == "" {
		return domain.Validation("cliente_id", "requerido")
	}
	if !in.Cantidad.IsPositive() {
		return domain.Validation("cantidad", "debe ser mayor que cero")
	}
	if !in.PrecioVenta.IsPositive() {
		return domain.Validation("precio_venta", "debe ser mayor que cero")
	}
	if in.PrecioCompra.IsNegative() {
		return domain.Validation("precio_compra", "no puede ser negativo")
	}
	if in.PrecioFlete.IsNegative() {
		return domain.Validation("precio_flete", "no puede ser negativo")
	}
	if in.PrecioVenta.LessThan(in.PrecioCompra.Add(in.PrecioFlete)) {
		return domain.Validation("precio_venta", "menor que costo más flete")
	}
	if in.PagoInicial.IsNegative() {
		return domain.Validation("pago_inicial", "no puede ser negativo")
	}
	// Total y buckets deben caber en la moneda; si no, el último centavo nunca se
	// podría cobrar y la venta quedaría parcial para siempre.
	targets := finance.TargetsOf(&entity.Venta{
		Cantidad:     in.Cantidad,
		PrecioVenta:  in.PrecioVenta,
		PrecioCompra: in.PrecioCompra,
		PrecioFlete:  in.PrecioFlete,
	})
	for _, t := range []struct {
		field  string
		amount decimal.Decimal
	}{
		{"precio_venta", targets.Total()},
		{"precio_compra", targets.BovedaMonte},
		{"precio_flete", targets.Fletes},
	} {
		if err := finance.CheckScale(t.field, t.amount, scale); err != nil {
			return err
		}
	}
	return finance.CheckScale("pago_inicial", in.PagoInicial, scale)
}

// Result venta actualizada y movimientos generados por la operación.
type Result struct {
	Venta     *entity.Venta
	Movements []*entity.Movement
}

// RegisterSale crea la venta con sus precios fijos, descuenta stock del producto y del
// lote de origen, y distribuye el pago inicial si lo hay.
func (e *Engine) RegisterSale(ctx context.Context, repos repository.Repositories, in NewSaleInput) (*Result, error) {
	if err := in.validate(e.scale); err != nil {
		return nil, err
	}
	now := e.now()
	productID := in.ProductoID

	if in.OrdenCompraID != "" {
		order, err := repos.Orders.GetForUpdate(ctx, in.OrdenCompraID)
		if err != nil {
			return nil, err
		}
		if order == nil {
			return nil, domain.NotFound("orden_compra", in.OrdenCompraID, domain.ErrOrderNotFound)
		}
		if order.Estado == entity.OrderCancelado {
			return nil, domain.Conflict("orden_compra", order.ID, domain.ErrOrderClosed)
		}
		if productID != "" && productID != order.ProductoID {
			return nil, domain.Validation("producto_id", "no corresponde a la orden")
		}
		if order.StockDisponible().LessThan(in.Cantidad) {
			return nil, domain.Conflict("orden_compra", order.ID, domain.ErrInsufficientStock)
		}
		if productID == "" {
			productID = order.ProductoID
		}
		order.StockVendido = order.StockVendido.Add(in.Cantidad)
		order.UpdatedAt = now
		if err := repos.Orders.Update(ctx, order); err != nil {
			return nil, err
		}
	}

	if productID != "" {
		p, err := repos.Products.GetForUpdate(ctx, productID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.NotFound("producto", productID, domain.ErrProductNotFound)
		}
		if p.StockSistema.LessThan(in.Cantidad) {
			return nil, domain.Conflict("producto", productID, domain.ErrInsufficientStock)
		}
		p.StockSistema = p.StockSistema.Sub(in.Cantidad)
		p.UpdatedAt = now
		if err := repos.Products.Update(ctx, p); err != nil {
			return nil, err
		}
	}

	fecha := in.Fecha
	if fecha.IsZero() {
		fecha = now
	}
	v := &entity.Venta{
		ID:                uuid.New().String(),
		ClienteID:         in.ClienteID,
		ProductoID:        productID,
		OrdenCompraID:     in.OrdenCompraID,
		Cantidad:          in.Cantidad,
		PrecioVenta:       in.PrecioVenta,
		PrecioCompra:      in.PrecioCompra,
		PrecioFlete:       in.PrecioFlete,
		MontoPagado:       decimal.Zero,
		PagadoBovedaMonte: decimal.Zero,
		PagadoFletes:      decimal.Zero,
		PagadoUtilidades:  decimal.Zero,
		Estado:            entity.SalePendiente,
		Fecha:             fecha,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := repos.Ventas.Create(ctx, v); err != nil {
		return nil, err
	}
	res := &Result{Venta: v}
	if in.PagoInicial.IsPositive() {
		movs, err := e.applyPayment(ctx, repos, v, in.PagoInicial, in.Referencia)
		if err != nil {
			return nil, err
		}
		res.Movements = movs
	}
	return res, nil
}

// RegisterPayment distribuye un cobro (total o parcial) de la venta en tres ingresos.
// Si la venta no existe falla con ErrSaleNotFound sin efectos.
func (e *Engine) RegisterPayment(ctx context.Context, repos repository.Repositories, ventaID string, monto decimal.Decimal, referencia string) (*Result, error) {
	if !monto.IsPositive() {
		return nil, domain.Validation("monto", "debe ser mayor que cero")
	}
	v, err := repos.Ventas.GetForUpdate(ctx, ventaID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.NotFound("venta", ventaID, domain.ErrSaleNotFound)
	}
	movs, err := e.applyPayment(ctx, repos, v, monto, referencia)
	if err != nil {
		return nil, err
	}
	return &Result{Venta: v, Movements: movs}, nil
}

func (e *Engine) applyPayment(ctx context.Context, repos repository.Repositories, v *entity.Venta, monto decimal.Decimal, referencia string) ([]*entity.Movement, error) {
	if v.Estado == entity.SaleReembolsada {
		return nil, domain.Conflict("venta", v.ID, domain.ErrSaleClosed)
	}
	if monto.GreaterThan(v.MontoRestante()) {
		return nil, domain.Conflict("venta", v.ID, domain.ErrOverpayment)
	}
	share, err := finance.Distribute(finance.TargetsOf(v), finance.PaidOf(v), monto, e.scale)
	if err != nil {
		return nil, err
	}

	led := ledger.New(repos, e.cfg)
	if err := led.Banks().Lock(ctx, entity.BankBovedaMonte, entity.BankFleteSur, entity.BankUtilidades); err != nil {
		return nil, err
	}
	var movs []*entity.Movement
	for _, part := range share.Banks() {
		if !part.Amount.IsPositive() {
			continue
		}
		m := &entity.Movement{
			Tipo:          entity.MovementIngreso,
			Monto:         part.Amount,
			BancoOrigenID: part.Bank,
			Estado:        entity.MovementCompletado,
			VentaID:       v.ID,
			ClienteID:     v.ClienteID,
			ProductoID:    v.ProductoID,
			OrdenCompraID: v.OrdenCompraID,
			Referencia:    referencia,
			Concepto:      "cobro de venta",
		}
		if _, err := led.Append(ctx, m); err != nil {
			return nil, err
		}
		movs = append(movs, m)
	}

	v.MontoPagado = v.MontoPagado.Add(monto)
	v.PagadoBovedaMonte = v.PagadoBovedaMonte.Add(share.BovedaMonte)
	v.PagadoFletes = v.PagadoFletes.Add(share.Fletes)
	v.PagadoUtilidades = v.PagadoUtilidades.Add(share.Utilidades)
	v.Estado = finance.SaleStateFor(v.MontoPagado, v.Total(), false)
	v.UpdatedAt = e.now()
	if err := repos.Ventas.Update(ctx, v); err != nil {
		return nil, err
	}
	return movs, nil
}

// Refund reembolsa la venta completa: revierte cada cobro (estado cancelado, con
// referencia al movimiento original), devuelve las unidades al stock y cierra la venta.
func (e *Engine) Refund(ctx context.Context, repos repository.Repositories, ventaID, referencia string) (*Result, error) {
	v, err := repos.Ventas.GetForUpdate(ctx, ventaID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.NotFound("venta", ventaID, domain.ErrSaleNotFound)
	}
	if v.Estado == entity.SaleReembolsada {
		return nil, domain.Conflict("venta", v.ID, domain.ErrSaleClosed)
	}
	now := e.now()

	if v.OrdenCompraID != "" {
		order, err := repos.Orders.GetForUpdate(ctx, v.OrdenCompraID)
		if err != nil {
			return nil, err
		}
		if order != nil {
			order.StockVendido = decimal.Max(order.StockVendido.Sub(v.Cantidad), decimal.Zero)
			order.UpdatedAt = now
			if err := repos.Orders.Update(ctx, order); err != nil {
				return nil, err
			}
		}
	}
	if v.ProductoID != "" {
		p, err := repos.Products.GetForUpdate(ctx, v.ProductoID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			p.StockSistema = p.StockSistema.Add(v.Cantidad)
			p.UpdatedAt = now
			if err := repos.Products.Update(ctx, p); err != nil {
				return nil, err
			}
		}
	}

	led := ledger.New(repos, e.cfg)
	if err := led.Banks().Lock(ctx, entity.BankBovedaMonte, entity.BankFleteSur, entity.BankUtilidades); err != nil {
		return nil, err
	}
	reversals, err := led.ReverseAll(ctx, entity.MovementFilter{
		Tipo:       entity.MovementIngreso,
		Trace:      entity.TraceVenta,
		TraceValue: v.ID,
	}, referencia)
	if err != nil {
		return nil, err
	}

	v.MontoPagado = decimal.Zero
	v.PagadoBovedaMonte = decimal.Zero
	v.PagadoFletes = decimal.Zero
	v.PagadoUtilidades = decimal.Zero
	v.Estado = finance.SaleStateFor(v.MontoPagado, v.Total(), true)
	v.UpdatedAt = now
	if err := repos.Ventas.Update(ctx, v); err != nil {
		return nil, err
	}
	return &Result{Venta: v, Movements: reversals}, nil
}

func (e *Engine) now() time.Time { return e.cfg.Clock() }
