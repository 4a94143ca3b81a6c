// Package inventory implementa la conciliación de inventario: cortes físicos contra el
// stock en sistema y su ajuste idempotente.
package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Tesoreria-api/internal/application/ledger"
	"github.com/jhoicas/Tesoreria-api/internal/domain"
	"github.com/jhoicas/Tesoreria-api/internal/domain/entity"
	"github.com/jhoicas/Tesoreria-api/internal/domain/inventory"
	"github.com/jhoicas/Tesoreria-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Engine motor de cortes de inventario.
type Engine struct {
	cfg ledger.Config
}

// NewEngine construye el motor.
func NewEngine(cfg ledger.Config) *Engine {
	return &Engine{cfg: cfg}
}

// AdjustmentResult corte ajustado y el movimiento de ajuste (nil si la diferencia era cero).
type AdjustmentResult struct {
	Corte    *entity.CorteInventario
	Movement *entity.Movement
}

// RegisterCut toma una foto del stock en sistema y la compara con el conteo físico.
// No modifica el stock: eso solo ocurre en ApplyAdjustment.
func (e *Engine) RegisterCut(ctx context.Context, repos repository.Repositories, productID string, stockFisico decimal.Decimal) (*entity.CorteInventario, error) {
	if productID == "" {
		return nil, domain.Validation("producto_id", "requerido")
	}
	if stockFisico.IsNegative() {
		return nil, domain.Validation("stock_fisico", "no puede ser negativo")
	}
	p, err := repos.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("producto", productID, domain.ErrProductNotFound)
	}

	diff, estado := inventory.ClassifyDifference(p.StockSistema, stockFisico)
	c := &entity.CorteInventario{
		ID:           uuid.New().String(),
		ProductoID:   productID,
		StockSistema: p.StockSistema,
		StockFisico:  stockFisico,
		Diferencia:   diff,
		Estado:       estado,
		Fecha:        e.now(),
	}
	if err := repos.Cortes.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ApplyAdjustment fija stockSistema := stockFisico y emite un movimiento ajuste por
// |diferencia|. Un segundo llamado devuelve ErrAlreadyAdjusted sin efectos.
// Si el stock se movió después del corte (ventas, órdenes) el conteo ya no describe el
// stock actual y se rechaza con ErrStaleCorte.
func (e *Engine) ApplyAdjustment(ctx context.Context, repos repository.Repositories, corteID string) (*AdjustmentResult, error) {
	c, err := repos.Cortes.GetForUpdate(ctx, corteID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("corte", corteID, domain.ErrCorteNotFound)
	}
	if c.AjusteRealizado {
		return nil, domain.Conflict("corte", c.ID, domain.ErrAlreadyAdjusted)
	}
	p, err := repos.Products.GetForUpdate(ctx, c.ProductoID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("producto", c.ProductoID, domain.ErrProductNotFound)
	}
	if !p.StockSistema.Equal(c.StockSistema) {
		return nil, domain.Conflict("corte", c.ID, domain.ErrStaleCorte)
	}
	now := e.now()

	p.StockSistema = c.StockFisico
	p.UpdatedAt = now
	if err := repos.Products.Update(ctx, p); err != nil {
		return nil, err
	}

	res := &AdjustmentResult{Corte: c}
	if !c.Diferencia.IsZero() {
		m := &entity.Movement{
			Tipo:       entity.MovementAjuste,
			Monto:      c.Diferencia.Abs(),
			Estado:     entity.MovementCompletado,
			CorteID:    c.ID,
			ProductoID: c.ProductoID,
			Concepto:   "ajuste de inventario (" + string(c.Estado) + ")",
		}
		if _, err := ledger.New(repos, e.cfg).Append(ctx, m); err != nil {
			return nil, err
		}
		c.MovimientoAjusteID = m.ID
		res.Movement = m
	}

	c.StockSistema = c.StockFisico
	c.AjusteRealizado = true
	c.AjustadoEn = &now
	if err := repos.Cortes.Update(ctx, c); err != nil {
		return nil, err
	}
	return res, nil
}

// ListPendientes cortes aún sin ajustar.
func (e *Engine) ListPendientes(ctx context.Context, repos repository.Repositories) ([]*entity.CorteInventario, error) {
	return repos.Cortes.ListPendientes(ctx)
}

func (e *Engine) now() time.Time { return e.cfg.Clock() }
