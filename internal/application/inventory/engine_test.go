package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tesoreria-api/internal/application/inventory"
	"github.com/jhoicas/Tesoreria-api/internal/application/ledger"
	"github.com/jhoicas/Tesoreria-api/internal/domain"
	"github.com/jhoicas/Tesoreria-api/internal/domain/entity"
	"github.com/jhoicas/Tesoreria-api/internal/domain/repository"
	"github.com/jhoicas/Tesoreria-api/internal/infrastructure/memory"
)

var cfg = ledger.Config{Now: func() time.Time { return time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC) }}

func setup(t *testing.T, stock int64) (repository.Repositories, *inventory.Engine) {
	t.Helper()
	repos := memory.NewStore().Repositories()
	require.NoError(t, repos.Products.Create(context.Background(), &entity.Producto{
		ID: "p-1", Nombre: "Caja", StockSistema: decimal.NewFromInt(stock),
	}))
	return repos, inventory.NewEngine(cfg)
}

func TestRegisterCut_NoModificaElStock(t *testing.T) {
	ctx := context.Background()
	repos, eng := setup(t, 100)

	c, err := eng.RegisterCut(ctx, repos, "p-1", decimal.NewFromInt(92))
	require.NoError(t, err)
	assert.True(t, c.Diferencia.Equal(decimal.NewFromInt(-8)))
	assert.Equal(t, entity.CorteFaltante, c.Estado)
	assert.False(t, c.AjusteRealizado)

	p, err := repos.Products.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.True(t, p.StockSistema.Equal(decimal.NewFromInt(100)))

	pend, err := eng.ListPendientes(ctx, repos)
	require.NoError(t, err)
	require.Len(t, pend, 1)
	assert.Equal(t, c.ID, pend[0].ID)
}

func TestApplyAdjustment_FijaStockYEmiteAjuste(t *testing.T) {
	ctx := context.Background()
	repos, eng := setup(t, 100)
	c, err := eng.RegisterCut(ctx, repos, "p-1", decimal.NewFromInt(92))
	require.NoError(t, err)

	res, err := eng.ApplyAdjustment(ctx, repos, c.ID)
	require.NoError(t, err)
	require.NotNil(t, res.Movement)
	assert.Equal(t, entity.MovementAjuste, res.Movement.Tipo)
	assert.True(t, res.Movement.Monto.Equal(decimal.NewFromInt(8)))
	assert.Equal(t, c.ID, res.Movement.CorteID)
	assert.Equal(t, res.Movement.ID, res.Corte.MovimientoAjusteID)
	assert.True(t, res.Corte.AjusteRealizado)
	assert.NotNil(t, res.Corte.AjustadoEn)

	p, err := repos.Products.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.True(t, p.StockSistema.Equal(decimal.NewFromInt(92)))

	pend, err := eng.ListPendientes(ctx, repos)
	require.NoError(t, err)
	assert.Empty(t, pend)
}

func TestApplyAdjustment_SegundoAjusteRechazadoSinEfectos(t *testing.T) {
	ctx := context.Background()
	repos, eng := setup(t, 100)
	c, err := eng.RegisterCut(ctx, repos, "p-1", decimal.NewFromInt(110))
	require.NoError(t, err)
	_, err = eng.ApplyAdjustment(ctx, repos, c.ID)
	require.NoError(t, err)

	_, err = eng.ApplyAdjustment(ctx, repos, c.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAlreadyAdjusted))

	movs, err := repos.Movements.List(ctx, entity.MovementFilter{Trace: entity.TraceCorte, TraceValue: c.ID})
	require.NoError(t, err)
	assert.Len(t, movs, 1, "solo un movimiento de ajuste por corte")
}

func TestApplyAdjustment_SinDiferenciaNoEmiteMovimiento(t *testing.T) {
	ctx := context.Background()
	repos, eng := setup(t, 40)
	c, err := eng.RegisterCut(ctx, repos, "p-1", decimal.NewFromInt(40))
	require.NoError(t, err)
	assert.Equal(t, entity.CorteCorrecto, c.Estado)

	res, err := eng.ApplyAdjustment(ctx, repos, c.ID)
	require.NoError(t, err)
	assert.Nil(t, res.Movement)
	assert.True(t, res.Corte.AjusteRealizado)
}

func TestRegisterCut_Validaciones(t *testing.T) {
	ctx := context.Background()
	repos, eng := setup(t, 10)

	_, err := eng.RegisterCut(ctx, repos, "p-1", decimal.NewFromInt(-1))
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = eng.RegisterCut(ctx, repos, "otro", decimal.NewFromInt(1))
	assert.True(t, errors.Is(err, domain.ErrProductNotFound))

	_, err = eng.ApplyAdjustment(ctx, repos, "no-existe")
	assert.True(t, errors.Is(err, domain.ErrCorteNotFound))
}

func TestApplyAdjustment_StockMovidoDespuesDelCorteSeRechaza(t *testing.T) {
	ctx := context.Background()
	repos, eng := setup(t, 100)
	c, err := eng.RegisterCut(ctx, repos, "p-1", decimal.NewFromInt(92))
	require.NoError(t, err)

	// Una venta de 10 unidades entre el conteo y el ajuste.
	p, err := repos.Products.GetForUpdate(ctx, "p-1")
	require.NoError(t, err)
	p.StockSistema = decimal.NewFromInt(90)
	require.NoError(t, repos.Products.Update(ctx, p))

	_, err = eng.ApplyAdjustment(ctx, repos, c.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStaleCorte))
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	p, err = repos.Products.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.True(t, p.StockSistema.Equal(decimal.NewFromInt(90)), "las unidades vendidas no se borran")

	movs, err := repos.Movements.List(ctx, entity.MovementFilter{Trace: entity.TraceCorte, TraceValue: c.ID})
	require.NoError(t, err)
	assert.Empty(t, movs, "sin movimiento de ajuste")

	pend, err := eng.ListPendientes(ctx, repos)
	require.NoError(t, err)
	assert.Len(t, pend, 1, "el corte sigue pendiente")
}
