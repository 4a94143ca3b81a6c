package repository

import (
	"context"

	"github.com/jhoicas/Tesoreria-api/internal/domain/entity"
)

// MovementRepository puerto append-only de movimientos. No existe Update ni Delete.
type MovementRepository interface {
	// Create persiste el movimiento y asigna Seq (orden de commit).
	Create(ctx context.Context, m *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	List(ctx context.Context, filter entity.MovementFilter) ([]*entity.Movement, error)
	// ListAfter devuelve movimientos con Seq > after en orden ascendente (feed de cambios).
	ListAfter(ctx context.Context, after int64, limit int) ([]*entity.Movement, error)
}
