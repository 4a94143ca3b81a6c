package coordinator

import (
	"context"
	"time"

	"github.com/jhoicas/Tesoreria-api/internal/application/dto"
	"github.com/jhoicas/Tesoreria-api/internal/application/ledger"
	"github.com/jhoicas/Tesoreria-api/internal/application/purchasing"
	"github.com/jhoicas/Tesoreria-api/internal/application/sales"
	"github.com/jhoicas/Tesoreria-api/internal/domain"
	"github.com/jhoicas/Tesoreria-api/internal/domain/entity"
	"github.com/jhoicas/Tesoreria-api/internal/domain/repository"
)

// Nombres de comando guardados junto a cada clave de idempotencia.
const (
	CmdRegisterSale             = "RegisterSale"
	CmdRegisterSalePayment      = "RegisterSalePayment"
	CmdRefundSale               = "RefundSale"
	CmdRegisterExpense          = "RegisterExpense"
	CmdRegisterIncome           = "RegisterIncome"
	CmdRegisterTransfer         = "RegisterTransfer"
	CmdRegisterPurchaseOrder    = "RegisterPurchaseOrder"
	CmdRegisterPurchasePayment  = "RegisterPurchasePayment"
	CmdCancelPurchaseOrder      = "CancelPurchaseOrder"
	CmdDeletePurchaseOrder      = "DeletePurchaseOrder"
	CmdRegisterInventoryCut     = "RegisterInventoryCut"
	CmdApplyInventoryAdjustment = "ApplyInventoryAdjustment"
	CmdRegisterProduct          = "RegisterProduct"
	CmdRegisterDistributor      = "RegisterDistributor"
)

// ── Ventas ────────────────────────────────────────────────────────────────────

// RegisterSale crea una venta y distribuye el pago inicial si lo hay.
func (c *Coordinator) RegisterSale(ctx context.Context, key string, in dto.RegisterSaleRequest) (*dto.SaleResult, error) {
	return execute(ctx, c, CmdRegisterSale, key, in, func(ctx context.Context, repos repository.Repositories) (*dto.SaleResult, error) {
		res, err := c.sales.RegisterSale(ctx, repos, sales.NewSaleInput{
			ClienteID:     in.ClienteID,
			ProductoID:    in.ProductoID,
			OrdenCompraID: in.OrdenCompraID,
			Cantidad:      in.Cantidad,
			PrecioVenta:   in.PrecioVenta,
			PrecioCompra:  in.PrecioCompra,
			PrecioFlete:   in.PrecioFlete,
			PagoInicial:   in.PagoInicial,
			Referencia:    in.Referencia,
			Fecha:         derefTime(in.Fecha),
		})
		if err != nil {
			return nil, err
		}
		return toSaleResult(res), nil
	})
}

// RegisterSalePayment distribuye un cobro entre boveda_monte, flete_sur y utilidades.
func (c *Coordinator) RegisterSalePayment(ctx context.Context, key string, in dto.SalePaymentRequest) (*dto.SaleResult, error) {
	return execute(ctx, c, CmdRegisterSalePayment, key, in, func(ctx context.Context, repos repository.Repositories) (*dto.SaleResult, error) {
		res, err := c.sales.RegisterPayment(ctx, repos, in.VentaID, in.Monto, in.Referencia)
		if err != nil {
			return nil, err
		}
		return toSaleResult(res), nil
	})
}

// RefundSale revierte todos los cobros de la venta y la cierra como reembolsada.
func (c *Coordinator) RefundSale(ctx context.Context, key string, in dto.RefundSaleRequest) (*dto.SaleResult, error) {
	return execute(ctx, c, CmdRefundSale, key, in, func(ctx context.Context, repos repository.Repositories) (*dto.SaleResult, error) {
		res, err := c.sales.Refund(ctx, repos, in.VentaID, in.Referencia)
		if err != nil {
			return nil, err
		}
		return toSaleResult(res), nil
	})
}

// ── Movimientos directos ──────────────────────────────────────────────────────

// RegisterExpense registra un gasto contra un banco.
func (c *Coordinator) RegisterExpense(ctx context.Context, key string, in dto.BankMovementRequest) (*dto.MovementResult, error) {
	return c.bankMovement(ctx, CmdRegisterExpense, entity.MovementGasto, key, in)
}

// RegisterIncome registra un ingreso externo a un banco.
func (c *Coordinator) RegisterIncome(ctx context.Context, key string, in dto.BankMovementRequest) (*dto.MovementResult, error) {
	return c.bankMovement(ctx, CmdRegisterIncome, entity.MovementIngreso, key, in)
}

func (c *Coordinator) bankMovement(ctx context.Context, command string, tipo entity.MovementType, key string, in dto.BankMovementRequest) (*dto.MovementResult, error) {
	return execute(ctx, c, command, key, in, func(ctx context.Context, repos repository.Repositories) (*dto.MovementResult, error) {
		bank, err := parseBank(in.BancoID)
		if err != nil {
			return nil, err
		}
		estado := entity.MovementCompletado
		if in.Estado != "" {
			estado = entity.MovementState(in.Estado)
		}
		m := &entity.Movement{
			Tipo:           tipo,
			Monto:          in.Monto,
			BancoOrigenID:  bank,
			Estado:         estado,
			DistribuidorID: in.DistribuidorID,
			ClienteID:      in.ClienteID,
			Referencia:     in.Referencia,
			Concepto:       in.Concepto,
			Fecha:          derefTime(in.Fecha),
		}
		if _, err := ledger.New(repos, c.cfg.Ledger).Append(ctx, m); err != nil {
			return nil, err
		}
		return &dto.MovementResult{Movimiento: toMovementResponse(m)}, nil
	})
}

// RegisterTransfer mueve capital entre dos bancos; el capital total no cambia.
func (c *Coordinator) RegisterTransfer(ctx context.Context, key string, in dto.TransferRequest) (*dto.MovementResult, error) {
	return execute(ctx, c, CmdRegisterTransfer, key, in, func(ctx context.Context, repos repository.Repositories) (*dto.MovementResult, error) {
		origen, err := parseBank(in.BancoOrigenID)
		if err != nil {
			return nil, err
		}
		destino, err := parseBank(in.BancoDestinoID)
		if err != nil {
			return nil, err
		}
		m := &entity.Movement{
			Tipo:           entity.MovementTransferencia,
			Monto:          in.Monto,
			BancoOrigenID:  origen,
			BancoDestinoID: destino,
			Estado:         entity.MovementCompletado,
			Referencia:     in.Referencia,
			Concepto:       in.Concepto,
			Fecha:          derefTime(in.Fecha),
		}
		if _, err := ledger.New(repos, c.cfg.Ledger).Append(ctx, m); err != nil {
			return nil, err
		}
		return &dto.MovementResult{Movimiento: toMovementResponse(m)}, nil
	})
}

// ── Órdenes de compra ─────────────────────────────────────────────────────────

// RegisterPurchaseOrder crea una orden de compra con pago inicial opcional.
func (c *Coordinator) RegisterPurchaseOrder(ctx context.Context, key string, in dto.PurchaseOrderRequest) (*dto.OrderResult, error) {
	return execute(ctx, c, CmdRegisterPurchaseOrder, key, in, func(ctx context.Context, repos repository.Repositories) (*dto.OrderResult, error) {
		bank, err := parseBank(in.BancoOrigenID)
		if err != nil {
			return nil, err
		}
		res, err := c.purchasing.RegisterOrder(ctx, repos, purchasing.NewOrderInput{
			DistribuidorID: in.DistribuidorID,
			ProductoID:     in.ProductoID,
			BancoOrigenID:  bank,
			Cantidad:       in.Cantidad,
			CostoTotal:     in.CostoTotal,
			PagoInicial:    in.PagoInicial,
			Referencia:     in.Referencia,
			Fecha:          derefTime(in.Fecha),
		})
		if err != nil {
			return nil, err
		}
		return toOrderResult(res, false), nil
	})
}

// RegisterPurchasePayment paga (total o parcialmente) una orden desde su banco origen.
func (c *Coordinator) RegisterPurchasePayment(ctx context.Context, key string, in dto.PurchasePaymentRequest) (*dto.OrderResult, error) {
	return execute(ctx, c, CmdRegisterPurchasePayment, key, in, func(ctx context.Context, repos repository.Repositories) (*dto.OrderResult, error) {
		res, err := c.purchasing.RegisterPayment(ctx, repos, in.OrdenCompraID, in.Monto, in.Referencia)
		if err != nil {
			return nil, err
		}
		return toOrderResult(res, false), nil
	})
}

// CancelPurchaseOrder cancela una orden pendiente o parcial.
func (c *Coordinator) CancelPurchaseOrder(ctx context.Context, key string, in dto.OrderActionRequest) (*dto.OrderResult, error) {
	return execute(ctx, c, CmdCancelPurchaseOrder, key, in, func(ctx context.Context, repos repository.Repositories) (*dto.OrderResult, error) {
		res, err := c.purchasing.Cancel(ctx, repos, in.OrdenCompraID, in.Referencia)
		if err != nil {
			return nil, err
		}
		return toOrderResult(res, false), nil
	})
}

// DeletePurchaseOrder elimina una orden sin ventas, revirtiendo todos sus efectos.
func (c *Coordinator) DeletePurchaseOrder(ctx context.Context, key string, in dto.OrderActionRequest) (*dto.OrderResult, error) {
	return execute(ctx, c, CmdDeletePurchaseOrder, key, in, func(ctx context.Context, repos repository.Repositories) (*dto.OrderResult, error) {
		res, err := c.purchasing.Delete(ctx, repos, in.OrdenCompraID, in.Referencia)
		if err != nil {
			return nil, err
		}
		return toOrderResult(res, true), nil
	})
}

// ── Inventario ────────────────────────────────────────────────────────────────

// RegisterInventoryCut registra un conteo físico.
func (c *Coordinator) RegisterInventoryCut(ctx context.Context, key string, in dto.InventoryCutRequest) (*dto.CorteResponse, error) {
	return execute(ctx, c, CmdRegisterInventoryCut, key, in, func(ctx context.Context, repos repository.Repositories) (*dto.CorteResponse, error) {
		corte, err := c.inventory.RegisterCut(ctx, repos, in.ProductoID, in.StockFisico)
		if err != nil {
			return nil, err
		}
		out := toCorteResponse(corte)
		return &out, nil
	})
}

// ApplyInventoryAdjustment aplica el ajuste de un corte (una sola vez).
func (c *Coordinator) ApplyInventoryAdjustment(ctx context.Context, key string, in dto.ApplyAdjustmentRequest) (*dto.AdjustmentResult, error) {
	return execute(ctx, c, CmdApplyInventoryAdjustment, key, in, func(ctx context.Context, repos repository.Repositories) (*dto.AdjustmentResult, error) {
		res, err := c.inventory.ApplyAdjustment(ctx, repos, in.CorteID)
		if err != nil {
			return nil, err
		}
		out := &dto.AdjustmentResult{Corte: toCorteResponse(res.Corte)}
		if res.Movement != nil {
			m := toMovementResponse(res.Movement)
			out.Movimiento = &m
		}
		return out, nil
	})
}

// ── Catálogo ──────────────────────────────────────────────────────────────────

// RegisterProduct crea un producto.
func (c *Coordinator) RegisterProduct(ctx context.Context, key string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	return execute(ctx, c, CmdRegisterProduct, key, in, func(ctx context.Context, repos repository.Repositories) (*dto.ProductResponse, error) {
		p, err := c.catalog.CreateProduct(ctx, repos, in.Nombre, in.StockInicial)
		if err != nil {
			return nil, err
		}
		return toProductResponse(p), nil
	})
}

// RegisterDistributor crea un distribuidor.
func (c *Coordinator) RegisterDistributor(ctx context.Context, key string, in dto.CreateDistributorRequest) (*dto.DistributorResponse, error) {
	return execute(ctx, c, CmdRegisterDistributor, key, in, func(ctx context.Context, repos repository.Repositories) (*dto.DistributorResponse, error) {
		d, err := c.catalog.CreateDistributor(ctx, repos, in.Nombre)
		if err != nil {
			return nil, err
		}
		return toDistributorResponse(d), nil
	})
}

func parseBank(raw string) (entity.BankID, error) {
	id, ok := entity.ParseBankID(raw)
	if !ok {
		return "", domain.NotFound("banco", raw, domain.ErrUnknownBank)
	}
	return id, nil
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
