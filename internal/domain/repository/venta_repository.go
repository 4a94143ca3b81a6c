package repository

import (
	"context"

	"github.com/jhoicas/Tesoreria-api/internal/domain/entity"
)

// VentaRepository puerto de persistencia de ventas.
type VentaRepository interface {
	Create(ctx context.Context, v *entity.Venta) error
	GetByID(ctx context.Context, id string) (*entity.Venta, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Venta, error)
	Update(ctx context.Context, v *entity.Venta) error
}
