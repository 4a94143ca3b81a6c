package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Tesoreria-api/internal/domain"
	"github.com/jhoicas/Tesoreria-api/internal/domain/entity"
	"github.com/jhoicas/Tesoreria-api/internal/domain/repository"
)

var _ repository.OrdenCompraRepository = (*OrdenCompraRepo)(nil)

// OrdenCompraRepo implementación de OrdenCompraRepository.
type OrdenCompraRepo struct {
	q Querier
}

// NewOrdenCompraRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrdenCompraRepository(q Querier) *OrdenCompraRepo {
	return &OrdenCompraRepo{q: q}
}

const orderColumns = `id, distribuidor_id, producto_id, banco_origen_id, cantidad, costo_total,
	monto_pagado, stock_vendido, estado, fecha, created_at, updated_at`

func (r *OrdenCompraRepo) Create(ctx context.Context, o *entity.OrdenCompra) error {
	query := `INSERT INTO orders (` + orderColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.DistribuidorID, o.ProductoID, string(o.BancoOrigenID), o.Cantidad, o.CostoTotal,
		o.MontoPagado, o.StockVendido, string(o.Estado), o.Fecha, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("orden_compra", o.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrdenCompraRepo) GetByID(ctx context.Context, id string) (*entity.OrdenCompra, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

func (r *OrdenCompraRepo) GetForUpdate(ctx context.Context, id string) (*entity.OrdenCompra, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *OrdenCompraRepo) get(ctx context.Context, query, id string) (*entity.OrdenCompra, error) {
	var (
		o             entity.OrdenCompra
		banco, estado string
	)
	err := r.q.QueryRow(ctx, query, id).Scan(&o.ID, &o.DistribuidorID, &o.ProductoID, &banco, &o.Cantidad,
		&o.CostoTotal, &o.MontoPagado, &o.StockVendido, &estado, &o.Fecha, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	o.BancoOrigenID = entity.BankID(banco)
	if o.Estado, err = scanOrderState(estado); err != nil {
		return nil, fmt.Errorf("get order %s: %w", o.ID, err)
	}
	return &o, nil
}

// scanOrderState convierte el texto de la columna al enum cerrado. Un valor fuera del
// enum es dato corrupto y se reporta, nunca cae en un default.
func scanOrderState(raw string) (entity.OrderState, error) {
	s, ok := entity.ParseOrderState(raw)
	if !ok {
		return "", fmt.Errorf("estado de orden desconocido %q", raw)
	}
	return s, nil
}

func (r *OrdenCompraRepo) Update(ctx context.Context, o *entity.OrdenCompra) error {
	query := `
		UPDATE orders SET monto_pagado = $2, stock_vendido = $3, estado = $4, updated_at = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, o.ID, o.MontoPagado, o.StockVendido, string(o.Estado), o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("orden_compra", o.ID, domain.ErrOrderNotFound)
	}
	return nil
}

// Delete borra la orden. Sus movimientos conservan orden_compra_id como rastro.
func (r *OrdenCompraRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("orden_compra", id, domain.ErrOrderNotFound)
	}
	return nil
}
