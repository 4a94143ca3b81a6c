package repository

import (
	"context"

	"github.com/jhoicas/Tesoreria-api/internal/domain/entity"
)

// IdempotencyRepository guarda el resultado de cada comando por clave.
type IdempotencyRepository interface {
	// Get devuelve (nil, nil) si la clave no existe.
	Get(ctx context.Context, key string) (*entity.IdempotencyRecord, error)
	// Save falla con domain.ErrDuplicate (o un error de concurrencia) si la clave ya existe.
	Save(ctx context.Context, rec *entity.IdempotencyRecord) error
}
