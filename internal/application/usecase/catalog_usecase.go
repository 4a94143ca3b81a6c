package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Tesoreria-api/internal/domain"
	"github.com/jhoicas/Tesoreria-api/internal/domain/entity"
	"github.com/jhoicas/Tesoreria-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// CatalogUseCase alta de productos y distribuidores. El stock y la deuda cambian
// después solo vía órdenes, ventas y cortes.
type CatalogUseCase struct {
	now func() time.Time
}

// NewCatalogUseCase construye el caso de uso. now nil usa time.Now.
func NewCatalogUseCase(now func() time.Time) *CatalogUseCase {
	if now == nil {
		now = time.Now
	}
	return &CatalogUseCase{now: now}
}

// CreateProduct crea un producto con su stock inicial en sistema.
func (uc *CatalogUseCase) CreateProduct(ctx context.Context, repos repository.Repositories, nombre string, stockInicial decimal.Decimal) (*entity.Producto, error) {
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return nil, domain.Validation("nombre", "requerido")
	}
	if stockInicial.IsNegative() {
		return nil, domain.Validation("stock_inicial", "no puede ser negativo")
	}
	now := uc.now()
	p := &entity.Producto{
		ID:           uuid.New().String(),
		Nombre:       nombre,
		StockSistema: stockInicial,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repos.Products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// CreateDistributor crea un distribuidor sin deuda.
func (uc *CatalogUseCase) CreateDistributor(ctx context.Context, repos repository.Repositories, nombre string) (*entity.Distribuidor, error) {
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return nil, domain.Validation("nombre", "requerido")
	}
	now := uc.now()
	d := &entity.Distribuidor{
		ID:        uuid.New().String(),
		Nombre:    nombre,
		Deuda:     decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repos.Distribuidores.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}
