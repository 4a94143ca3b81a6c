package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Tesoreria-api/internal/domain"
	"github.com/jhoicas/Tesoreria-api/internal/domain/entity"
	"github.com/jhoicas/Tesoreria-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// movementSeqLock clave del advisory lock que ordena las inserciones de movimientos:
// se libera al commit, de modo que seq crece en el mismo orden en que se confirman
// las transacciones y el feed de cambios nunca salta un movimiento. Serializa todas
// las transacciones que escriben movimientos.
const movementSeqLock int64 = 7_301_001

// MovementRepo implementación append-only de MovementRepository.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `seq, id, tipo, monto, COALESCE(banco_origen_id, ''), COALESCE(banco_destino_id, ''),
	fecha, estado, COALESCE(venta_id, ''), COALESCE(orden_compra_id, ''), COALESCE(distribuidor_id, ''),
	COALESCE(cliente_id, ''), COALESCE(producto_id, ''), COALESCE(corte_id, ''), COALESCE(referencia, ''),
	COALESCE(concepto, ''), COALESCE(reversa_de_id, ''), created_at`

// Create inserta el movimiento y devuelve seq en m.Seq.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, movementSeqLock); err != nil {
		return fmt.Errorf("lock movement seq: %w", err)
	}
	query := `
		INSERT INTO movements (id, tipo, monto, banco_origen_id, banco_destino_id, fecha, estado,
			venta_id, orden_compra_id, distribuidor_id, cliente_id, producto_id, corte_id,
			referencia, concepto, reversa_de_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		m.ID, string(m.Tipo), m.Monto, nullable(string(m.BancoOrigenID)), nullable(string(m.BancoDestinoID)),
		m.Fecha, string(m.Estado), nullable(m.VentaID), nullable(m.OrdenCompraID), nullable(m.DistribuidorID),
		nullable(m.ClienteID), nullable(m.ProductoID), nullable(m.CorteID), nullable(m.Referencia),
		nullable(m.Concepto), nullable(m.ReversaDeID), m.CreatedAt,
	).Scan(&m.Seq)
	if err != nil {
		if isUniqueViolation(err) {
			// id repetido o segundo reverso concurrente del mismo original
			return domain.Concurrency(err)
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM movements WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// traceColumns columnas indexadas por campo de trazabilidad (lista cerrada, sin SQL dinámico del caller).
var traceColumns = map[entity.TraceField]string{
	entity.TraceVenta:        "venta_id",
	entity.TraceOrdenCompra:  "orden_compra_id",
	entity.TraceDistribuidor: "distribuidor_id",
	entity.TraceCliente:      "cliente_id",
	entity.TraceProducto:     "producto_id",
	entity.TraceCorte:        "corte_id",
}

// List movimientos por filtro en orden de seq. Limit 0 = sin límite.
func (r *MovementRepo) List(ctx context.Context, f entity.MovementFilter) ([]*entity.Movement, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}
	if f.Tipo != "" {
		add("tipo = ?", string(f.Tipo))
	}
	if f.Estado != "" {
		add("estado = ?", string(f.Estado))
	}
	if f.BancoID != "" {
		add("(banco_origen_id = ? OR banco_destino_id = ?)", string(f.BancoID))
	}
	if f.Trace != "" {
		col, ok := traceColumns[f.Trace]
		if !ok {
			return nil, domain.Validation("campo", "no es un campo de trazabilidad")
		}
		add(col+" = ?", f.TraceValue)
	}
	if f.ReversaDeID != "" {
		add("reversa_de_id = ?", f.ReversaDeID)
	}
	if f.From != nil {
		add("fecha >= ?", *f.From)
	}
	if f.To != nil {
		add("fecha <= ?", *f.To)
	}

	query := `SELECT ` + movementColumns + ` FROM movements`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY seq`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}
	return r.query(ctx, query, args...)
}

// ListAfter movimientos con seq > after (feed de cambios).
func (r *MovementRepo) ListAfter(ctx context.Context, after int64, limit int) ([]*entity.Movement, error) {
	if limit <= 0 {
		limit = 100
	}
	return r.query(ctx, `SELECT `+movementColumns+` FROM movements WHERE seq > $1 ORDER BY seq LIMIT $2`, after, limit)
}

func (r *MovementRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var (
		m                              entity.Movement
		tipo, estado, origen, destino string
	)
	err := row.Scan(&m.Seq, &m.ID, &tipo, &m.Monto, &origen, &destino, &m.Fecha, &estado,
		&m.VentaID, &m.OrdenCompraID, &m.DistribuidorID, &m.ClienteID, &m.ProductoID, &m.CorteID,
		&m.Referencia, &m.Concepto, &m.ReversaDeID, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.Tipo = entity.MovementType(tipo)
	m.Estado = entity.MovementState(estado)
	m.BancoOrigenID = entity.BankID(origen)
	m.BancoDestinoID = entity.BankID(destino)
	return &m, nil
}
