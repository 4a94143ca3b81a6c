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

var _ repository.CorteRepository = (*CorteRepo)(nil)

// CorteRepo implementación de CorteRepository.
type CorteRepo struct {
	q Querier
}

// NewCorteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCorteRepository(q Querier) *CorteRepo {
	return &CorteRepo{q: q}
}

const corteColumns = `id, producto_id, stock_sistema, stock_fisico, diferencia, estado, ajuste_realizado,
	COALESCE(movimiento_ajuste_id, ''), fecha, ajustado_en`

func (r *CorteRepo) Create(ctx context.Context, c *entity.CorteInventario) error {
	query := `
		INSERT INTO cortes_inventario (id, producto_id, stock_sistema, stock_fisico, diferencia, estado,
			ajuste_realizado, movimiento_ajuste_id, fecha, ajustado_en)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query, c.ID, c.ProductoID, c.StockSistema, c.StockFisico, c.Diferencia,
		string(c.Estado), c.AjusteRealizado, nullable(c.MovimientoAjusteID), c.Fecha, c.AjustadoEn)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("corte", c.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert corte: %w", err)
	}
	return nil
}

func (r *CorteRepo) GetByID(ctx context.Context, id string) (*entity.CorteInventario, error) {
	return r.get(ctx, `SELECT `+corteColumns+` FROM cortes_inventario WHERE id = $1`, id)
}

func (r *CorteRepo) GetForUpdate(ctx context.Context, id string) (*entity.CorteInventario, error) {
	return r.get(ctx, `SELECT `+corteColumns+` FROM cortes_inventario WHERE id = $1 FOR UPDATE`, id)
}

func (r *CorteRepo) get(ctx context.Context, query, id string) (*entity.CorteInventario, error) {
	c, err := scanCorte(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get corte: %w", err)
	}
	return c, nil
}

func (r *CorteRepo) Update(ctx context.Context, c *entity.CorteInventario) error {
	query := `
		UPDATE cortes_inventario SET stock_sistema = $2, ajuste_realizado = $3, movimiento_ajuste_id = $4,
			ajustado_en = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, c.ID, c.StockSistema, c.AjusteRealizado, nullable(c.MovimientoAjusteID), c.AjustadoEn)
	if err != nil {
		return fmt.Errorf("update corte: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("corte", c.ID, domain.ErrCorteNotFound)
	}
	return nil
}

func (r *CorteRepo) ListPendientes(ctx context.Context) ([]*entity.CorteInventario, error) {
	rows, err := r.q.Query(ctx, `SELECT `+corteColumns+` FROM cortes_inventario WHERE NOT ajuste_realizado ORDER BY fecha, id`)
	if err != nil {
		return nil, fmt.Errorf("list cortes pendientes: %w", err)
	}
	defer rows.Close()
	var list []*entity.CorteInventario
	for rows.Next() {
		c, err := scanCorte(rows)
		if err != nil {
			return nil, fmt.Errorf("scan corte: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanCorte(row pgx.Row) (*entity.CorteInventario, error) {
	var (
		c      entity.CorteInventario
		estado string
	)
	err := row.Scan(&c.ID, &c.ProductoID, &c.StockSistema, &c.StockFisico, &c.Diferencia, &estado,
		&c.AjusteRealizado, &c.MovimientoAjusteID, &c.Fecha, &c.AjustadoEn)
	if err != nil {
		return nil, err
	}
	c.Estado = entity.CorteState(estado)
	return &c, nil
}
