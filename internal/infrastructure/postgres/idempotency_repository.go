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

var _ repository.IdempotencyRepository = (*IdempotencyRepo)(nil)

// IdempotencyRepo guarda resultados de comandos en idempotency_keys.
type IdempotencyRepo struct {
	q Querier
}

// NewIdempotencyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewIdempotencyRepository(q Querier) *IdempotencyRepo {
	return &IdempotencyRepo{q: q}
}

func (r *IdempotencyRepo) Get(ctx context.Context, key string) (*entity.IdempotencyRecord, error) {
	var rec entity.IdempotencyRecord
	err := r.q.QueryRow(ctx,
		`SELECT key, command, fingerprint, result, created_at FROM idempotency_keys WHERE key = $1`, key,
	).Scan(&rec.Key, &rec.Command, &rec.Fingerprint, &rec.Result, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get idempotency key: %w", err)
	}
	return &rec, nil
}

// Save inserta el registro. Si otra transacción ganó la misma clave se devuelve un
// error de concurrencia: el reintento verá el registro y hará replay.
func (r *IdempotencyRepo) Save(ctx context.Context, rec *entity.IdempotencyRecord) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO idempotency_keys (key, command, fingerprint, result, created_at) VALUES ($1, $2, $3, $4, $5)`,
		rec.Key, rec.Command, rec.Fingerprint, rec.Result, rec.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Concurrency(domain.ErrDuplicate)
		}
		return fmt.Errorf("insert idempotency key: %w", err)
	}
	return nil
}
