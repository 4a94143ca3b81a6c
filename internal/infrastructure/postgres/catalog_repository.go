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

var (
	_ repository.ProductRepository      = (*ProductRepo)(nil)
	_ repository.DistribuidorRepository = (*DistribuidorRepo)(nil)
)

// ProductRepo implementación de ProductRepository.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func (r *ProductRepo) Create(ctx context.Context, p *entity.Producto) error {
	query := `INSERT INTO productos (id, nombre, stock_sistema, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.Exec(ctx, query, p.ID, p.Nombre, p.StockSistema, p.CreatedAt, p.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("producto", p.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert producto: %w", err)
	}
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Producto, error) {
	return r.get(ctx, `SELECT id, nombre, stock_sistema, created_at, updated_at FROM productos WHERE id = $1`, id)
}

func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Producto, error) {
	return r.get(ctx, `SELECT id, nombre, stock_sistema, created_at, updated_at FROM productos WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProductRepo) get(ctx context.Context, query, id string) (*entity.Producto, error) {
	var p entity.Producto
	err := r.q.QueryRow(ctx, query, id).Scan(&p.ID, &p.Nombre, &p.StockSistema, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get producto: %w", err)
	}
	return &p, nil
}

func (r *ProductRepo) Update(ctx context.Context, p *entity.Producto) error {
	cmd, err := r.q.Exec(ctx, `UPDATE productos SET nombre = $2, stock_sistema = $3, updated_at = $4 WHERE id = $1`,
		p.ID, p.Nombre, p.StockSistema, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update producto: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("producto", p.ID, domain.ErrProductNotFound)
	}
	return nil
}

// DistribuidorRepo implementación de DistribuidorRepository.
type DistribuidorRepo struct {
	q Querier
}

// NewDistribuidorRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDistribuidorRepository(q Querier) *DistribuidorRepo {
	return &DistribuidorRepo{q: q}
}

func (r *DistribuidorRepo) Create(ctx context.Context, d *entity.Distribuidor) error {
	query := `INSERT INTO distribuidores (id, nombre, deuda, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.Exec(ctx, query, d.ID, d.Nombre, d.Deuda, d.CreatedAt, d.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("distribuidor", d.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert distribuidor: %w", err)
	}
	return nil
}

func (r *DistribuidorRepo) GetByID(ctx context.Context, id string) (*entity.Distribuidor, error) {
	return r.get(ctx, `SELECT id, nombre, deuda, created_at, updated_at FROM distribuidores WHERE id = $1`, id)
}

func (r *DistribuidorRepo) GetForUpdate(ctx context.Context, id string) (*entity.Distribuidor, error) {
	return r.get(ctx, `SELECT id, nombre, deuda, created_at, updated_at FROM distribuidores WHERE id = $1 FOR UPDATE`, id)
}

func (r *DistribuidorRepo) get(ctx context.Context, query, id string) (*entity.Distribuidor, error) {
	var d entity.Distribuidor
	err := r.q.QueryRow(ctx, query, id).Scan(&d.ID, &d.Nombre, &d.Deuda, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get distribuidor: %w", err)
	}
	return &d, nil
}

func (r *DistribuidorRepo) Update(ctx context.Context, d *entity.Distribuidor) error {
	cmd, err := r.q.Exec(ctx, `UPDATE distribuidores SET nombre = $2, deuda = $3, updated_at = $4 WHERE id = $1`,
		d.ID, d.Nombre, d.Deuda, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update distribuidor: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("distribuidor", d.ID, domain.ErrDistributorNotFound)
	}
	return nil
}
