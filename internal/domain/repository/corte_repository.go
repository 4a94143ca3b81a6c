package repository

import (
	"context"

	"github.com/jhoicas/Tesoreria-api/internal/domain/entity"
)

// CorteRepository puerto de persistencia de cortes de inventario.
type CorteRepository interface {
	Create(ctx context.Context, c *entity.CorteInventario) error
	GetByID(ctx context.Context, id string) (*entity.CorteInventario, error)
	GetForUpdate(ctx context.Context, id string) (*entity.CorteInventario, error)
	Update(ctx context.Context, c *entity.CorteInventario) error
	// ListPendientes cortes con ajuste_realizado = false, más antiguos primero.
	ListPendientes(ctx context.Context) ([]*entity.CorteInventario, error)
}
