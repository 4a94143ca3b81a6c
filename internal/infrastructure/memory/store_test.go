package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tesoreria-api/internal/domain"
	"github.com/jhoicas/Tesoreria-api/internal/domain/entity"
	"github.com/jhoicas/Tesoreria-api/internal/domain/repository"
	"github.com/jhoicas/Tesoreria-api/internal/infrastructure/memory"
)

func seed(t *testing.T, store *memory.Store) {
	t.Helper()
	err := store.Repositories().Banks.Create(context.Background(), entity.NewBankAccount(entity.BankProfit, decimal.NewFromInt(100), time.Now()))
	require.NoError(t, err)
}

func TestTxRunner_ErrorRestauraSnapshot(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seed(t, store)
	tx := memory.NewTxRunner(store)
	boom := errors.New("falla a mitad de comando")

	err := tx.Run(ctx, func(repos repository.Repositories) error {
		acc, err := repos.Banks.GetForUpdate(ctx, entity.BankProfit)
		require.NoError(t, err)
		acc.CapitalActual = decimal.NewFromInt(5)
		require.NoError(t, repos.Banks.Update(ctx, acc))
		require.NoError(t, repos.Movements.Create(ctx, &entity.Movement{ID: "m-1", Tipo: entity.MovementGasto}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	acc, err := store.Repositories().Banks.GetByID(ctx, entity.BankProfit)
	require.NoError(t, err)
	assert.True(t, acc.CapitalActual.Equal(decimal.NewFromInt(100)), "el saldo vuelve al valor previo")

	m, err := store.Repositories().Movements.GetByID(ctx, "m-1")
	require.NoError(t, err)
	assert.Nil(t, m, "el movimiento no debe sobrevivir al rollback")
}

func TestTxRunner_CommitAsignaSeqCreciente(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, tx.Run(ctx, func(repos repository.Repositories) error {
			return repos.Movements.Create(ctx, &entity.Movement{ID: id})
		}))
	}
	list, err := store.Repositories().Movements.ListAfter(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, int64(3), list[1].Seq)
}

func TestTxRunner_ContextoVencido(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	err := memory.NewTxRunner(memory.NewStore()).Run(ctx, func(repository.Repositories) error { return nil })
	assert.True(t, errors.Is(err, domain.ErrTransactionTimeout))
}

func TestIdempotency_SaveDuplicadoEsReintentable(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repositories()
	rec := &entity.IdempotencyRecord{Key: "k-1", Command: "gasto", Fingerprint: "f"}

	require.NoError(t, repos.Idempotency.Save(ctx, rec))
	err := repos.Idempotency.Save(ctx, rec)
	assert.True(t, domain.IsRetryable(err))

	got, err := repos.Idempotency.Get(ctx, "k-1")
	require.NoError(t, err)
	assert.Equal(t, "f", got.Fingerprint)
}

func TestCortes_ListPendientesExcluyeAjustados(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repositories()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repos.Cortes.Create(ctx, &entity.CorteInventario{ID: "c-2", Fecha: base.Add(time.Hour)}))
	require.NoError(t, repos.Cortes.Create(ctx, &entity.CorteInventario{ID: "c-1", Fecha: base}))
	require.NoError(t, repos.Cortes.Create(ctx, &entity.CorteInventario{ID: "c-3", Fecha: base, AjusteRealizado: true}))

	list, err := repos.Cortes.ListPendientes(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c-1", list[0].ID)
	assert.Equal(t, "c-2", list[1].ID)
}
