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

var _ repository.VentaRepository = (*VentaRepo)(nil)

// VentaRepo implementación de VentaRepository.
type VentaRepo struct {
	q Querier
}

// NewVentaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVentaRepository(q Querier) *VentaRepo {
	return &VentaRepo{q: q}
}

const ventaColumns = `id, cliente_id, COALESCE(producto_id, ''), COALESCE(orden_compra_id, ''), cantidad,
	precio_venta, precio_compra, precio_flete, monto_pagado, pagado_boveda_monte, pagado_fletes,
	pagado_utilidades, estado, fecha, created_at, updated_at`

func (r *VentaRepo) Create(ctx context.Context, v *entity.Venta) error {
	query := `
		INSERT INTO ventas (id, cliente_id, producto_id, orden_compra_id, cantidad, precio_venta, precio_compra,
			precio_flete, monto_pagado, pagado_boveda_monte, pagado_fletes, pagado_utilidades, estado, fecha,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		v.ID, v.ClienteID, nullable(v.ProductoID), nullable(v.OrdenCompraID), v.Cantidad, v.PrecioVenta,
		v.PrecioCompra, v.PrecioFlete, v.MontoPagado, v.PagadoBovedaMonte, v.PagadoFletes, v.PagadoUtilidades,
		string(v.Estado), v.Fecha, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("venta", v.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert venta: %w", err)
	}
	return nil
}

func (r *VentaRepo) GetByID(ctx context.Context, id string) (*entity.Venta, error) {
	return r.get(ctx, `SELECT `+ventaColumns+` FROM ventas WHERE id = $1`, id)
}

// GetForUpdate bloquea la venta mientras se aplica un pago o reembolso.
func (r *VentaRepo) GetForUpdate(ctx context.Context, id string) (*entity.Venta, error) {
	return r.get(ctx, `SELECT `+ventaColumns+` FROM ventas WHERE id = $1 FOR UPDATE`, id)
}

func (r *VentaRepo) get(ctx context.Context, query, id string) (*entity.Venta, error) {
	var (
		v      entity.Venta
		estado string
	)
	err := r.q.QueryRow(ctx, query, id).Scan(&v.ID, &v.ClienteID, &v.ProductoID, &v.OrdenCompraID, &v.Cantidad,
		&v.PrecioVenta, &v.PrecioCompra, &v.PrecioFlete, &v.MontoPagado, &v.PagadoBovedaMonte, &v.PagadoFletes,
		&v.PagadoUtilidades, &estado, &v.Fecha, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get venta: %w", err)
	}
	v.Estado = entity.SaleState(estado)
	return &v, nil
}

func (r *VentaRepo) Update(ctx context.Context, v *entity.Venta) error {
	query := `
		UPDATE ventas SET monto_pagado = $2, pagado_boveda_monte = $3, pagado_fletes = $4,
			pagado_utilidades = $5, estado = $6, updated_at = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, v.ID, v.MontoPagado, v.PagadoBovedaMonte, v.PagadoFletes,
		v.PagadoUtilidades, string(v.Estado), v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update venta: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("venta", v.ID, domain.ErrSaleNotFound)
	}
	return nil
}
