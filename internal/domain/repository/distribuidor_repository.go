package repository

import (
	"context"

	"github.com/jhoicas/Tesoreria-api/internal/domain/entity"
)

// DistribuidorRepository puerto de persistencia de distribuidores y su deuda.
type DistribuidorRepository interface {
	Create(ctx context.Context, d *entity.Distribuidor) error
	GetByID(ctx context.Context, id string) (*entity.Distribuidor, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Distribuidor, error)
	Update(ctx context.Context, d *entity.Distribuidor) error
}
