// Package postgres implementa los repositorios del ledger sobre pgx.
//
// Escrituras: los bancos se bloquean con FOR UPDATE en orden alfabético, pero toda
// transacción que inserta movimientos toma además el advisory lock movementSeqLock
// hasta el commit. En la práctica las escrituras de movimientos van en un solo carril
// (una tx a la vez) a cambio de que seq respete el orden de commit para el feed.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Tesoreria-api/internal/application/ledger"
	"github.com/jhoicas/Tesoreria-api/internal/domain/repository"
)

var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (READ COMMITTED +
// bloqueos de fila explícitos).
type TxRunner struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewTxRunner construye el runner con el pool. lockTimeout acota la espera por un
// bloqueo de fila; vencido, el error se reporta como contención y se reintenta.
func NewTxRunner(pool *pgxpool.Pool, lockTimeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, lockTimeout: lockTimeout}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return classifyError(ctx, fmt.Errorf("begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	if r.lockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = %d", r.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return classifyError(ctx, fmt.Errorf("set lock_timeout: %w", err))
		}
	}

	if err := fn(Repositories(tx)); err != nil {
		return classifyError(ctx, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return classifyError(ctx, fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// Repositories todos los repositorios atados al mismo Querier (pool o tx).
func Repositories(q Querier) repository.Repositories {
	return repository.Repositories{
		Banks:          NewBankAccountRepository(q),
		Movements:      NewMovementRepository(q),
		Ventas:         NewVentaRepository(q),
		Orders:         NewOrdenCompraRepository(q),
		Distribuidores: NewDistribuidorRepository(q),
		Products:       NewProductRepository(q),
		Cortes:         NewCorteRepository(q),
		Idempotency:    NewIdempotencyRepository(q),
	}
}
