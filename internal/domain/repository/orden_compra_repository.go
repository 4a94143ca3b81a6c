package repository

import (
	"context"

	"github.com/jhoicas/Tesoreria-api/internal/domain/entity"
)

// OrdenCompraRepository puerto de persistencia de órdenes de compra.
type OrdenCompraRepository interface {
	Create(ctx context.Context, o *entity.OrdenCompra) error
	GetByID(ctx context.Context, id string) (*entity.OrdenCompra, error)
	GetForUpdate(ctx context.Context, id string) (*entity.OrdenCompra, error)
	Update(ctx context.Context, o *entity.OrdenCompra) error
	Delete(ctx context.Context, id string) error
}
