package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tesoreria-api/internal/application/ledger"
	"github.com/jhoicas/Tesoreria-api/internal/domain"
	"github.com/jhoicas/Tesoreria-api/internal/domain/entity"
	"github.com/jhoicas/Tesoreria-api/internal/domain/repository"
	"github.com/jhoicas/Tesoreria-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var fixedNow = time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// newRepos store en memoria con los siete bancos sembrados con 1000.
func newRepos(t *testing.T) repository.Repositories {
	t.Helper()
	repos := memory.NewStore().Repositories()
	for _, id := range entity.AllBanks() {
		require.NoError(t, repos.Banks.Create(context.Background(), entity.NewBankAccount(id, decimal.NewFromInt(1000), fixedNow)))
	}
	return repos
}

func balance(t *testing.T, repos repository.Repositories, id entity.BankID) decimal.Decimal {
	t.Helper()
	acc, err := repos.Banks.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, acc)
	return acc.CapitalActual
}

func amount(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// ──────────────────────────────────────────────────────────────────────────────
// Append
// ──────────────────────────────────────────────────────────────────────────────

func TestAppend_IngresoGastoYTransferencia(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	l := ledger.New(repos, ledger.Config{AllowOverdraft: true, Now: clock})

	_, err := l.Append(ctx, &entity.Movement{Tipo: entity.MovementIngreso, Monto: amount(500), BancoOrigenID: entity.BankProfit, Estado: entity.MovementCompletado})
	require.NoError(t, err)
	_, err = l.Append(ctx, &entity.Movement{Tipo: entity.MovementGasto, Monto: amount(200), BancoOrigenID: entity.BankProfit, Estado: entity.MovementCompletado})
	require.NoError(t, err)
	_, err = l.Append(ctx, &entity.Movement{Tipo: entity.MovementTransferencia, Monto: amount(300), BancoOrigenID: entity.BankProfit, BancoDestinoID: entity.BankAzteca, Estado: entity.MovementCompletado})
	require.NoError(t, err)

	assert.True(t, balance(t, repos, entity.BankProfit).Equal(amount(1000)))
	assert.True(t, balance(t, repos, entity.BankAzteca).Equal(amount(1300)))

	acc, err := repos.Banks.GetByID(ctx, entity.BankProfit)
	require.NoError(t, err)
	assert.True(t, acc.Reconciles())
	assert.True(t, acc.HistoricoTransferenciasSalida.Equal(amount(300)))

	movs, err := l.List(ctx, entity.MovementFilter{BancoID: entity.BankProfit})
	require.NoError(t, err)
	assert.Len(t, movs, 3)
	for i := 1; i < len(movs); i++ {
		assert.Greater(t, movs[i].Seq, movs[i-1].Seq, "los movimientos se listan en orden de commit")
	}
}

func TestAppend_PendienteNoTocaSaldos(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	l := ledger.New(repos, ledger.Config{AllowOverdraft: true, Now: clock})

	id, err := l.Append(ctx, &entity.Movement{Tipo: entity.MovementGasto, Monto: amount(999), BancoOrigenID: entity.BankLeftie, Estado: entity.MovementPendiente})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.True(t, balance(t, repos, entity.BankLeftie).Equal(amount(1000)))
}

func TestAppend_Validaciones(t *testing.T) {
	ctx := context.Background()
	l := ledger.New(newRepos(t), ledger.Config{AllowOverdraft: true, Now: clock})

	cases := []struct {
		name string
		m    *entity.Movement
		kind domain.Kind
	}{
		{"monto cero", &entity.Movement{Tipo: entity.MovementIngreso, Monto: decimal.Zero, BancoOrigenID: entity.BankProfit, Estado: entity.MovementCompletado}, domain.KindValidation},
		{"transferencia al mismo banco", &entity.Movement{Tipo: entity.MovementTransferencia, Monto: amount(1), BancoOrigenID: entity.BankProfit, BancoDestinoID: entity.BankProfit, Estado: entity.MovementCompletado}, domain.KindValidation},
		{"gasto con destino", &entity.Movement{Tipo: entity.MovementGasto, Monto: amount(1), BancoOrigenID: entity.BankProfit, BancoDestinoID: entity.BankAzteca, Estado: entity.MovementCompletado}, domain.KindValidation},
		{"ajuste sin corte", &entity.Movement{Tipo: entity.MovementAjuste, Monto: amount(1), Estado: entity.MovementCompletado}, domain.KindValidation},
		{"banco desconocido", &entity.Movement{Tipo: entity.MovementIngreso, Monto: amount(1), BancoOrigenID: "banco_fantasma", Estado: entity.MovementCompletado}, domain.KindNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := l.Append(ctx, tc.m)
			require.Error(t, err)
			assert.Equal(t, tc.kind, domain.KindOf(err))
		})
	}
}

func TestAppend_MontoConMasDecimalesQueLaMoneda(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	l := ledger.New(repos, ledger.Config{AllowOverdraft: true, Scale: 2, Now: clock})

	for _, raw := range []string{"0.0000001", "10.00005", "0.001"} {
		_, err := l.Append(ctx, &entity.Movement{Tipo: entity.MovementGasto, Monto: decimal.RequireFromString(raw), BancoOrigenID: entity.BankAzteca, Estado: entity.MovementCompletado})
		require.Error(t, err, "monto %s", raw)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err), "monto %s", raw)
	}
	assert.True(t, balance(t, repos, entity.BankAzteca).Equal(amount(1000)), "ningún saldo cambia")

	_, err := l.Append(ctx, &entity.Movement{Tipo: entity.MovementGasto, Monto: decimal.RequireFromString("10.25"), BancoOrigenID: entity.BankAzteca, Estado: entity.MovementCompletado})
	require.NoError(t, err)
	assert.True(t, balance(t, repos, entity.BankAzteca).Equal(decimal.RequireFromString("989.75")))
}

func TestAppend_EscalaPorDefectoSonCentavos(t *testing.T) {
	l := ledger.New(newRepos(t), ledger.Config{AllowOverdraft: true, Now: clock})
	_, err := l.Append(context.Background(), &entity.Movement{Tipo: entity.MovementIngreso, Monto: decimal.RequireFromString("1.005"), BancoOrigenID: entity.BankProfit, Estado: entity.MovementCompletado})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestAppend_AjusteAceptaCantidadesFraccionarias(t *testing.T) {
	l := ledger.New(newRepos(t), ledger.Config{AllowOverdraft: true, Now: clock})
	_, err := l.Append(context.Background(), &entity.Movement{Tipo: entity.MovementAjuste, Monto: decimal.RequireFromString("0.125"), CorteID: "c-1", Estado: entity.MovementCompletado})
	require.NoError(t, err)
}

// lockRecorder registra el orden de GetForUpdate sobre los bancos.
type lockRecorder struct {
	repository.BankAccountRepository
	order []entity.BankID
}

func (r *lockRecorder) GetForUpdate(ctx context.Context, id entity.BankID) (*entity.BankAccount, error) {
	r.order = append(r.order, id)
	return r.BankAccountRepository.GetForUpdate(ctx, id)
}

func TestAppend_TransferenciaBloqueaEnOrdenAlfabetico(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	rec := &lockRecorder{BankAccountRepository: repos.Banks}
	repos.Banks = rec
	l := ledger.New(repos, ledger.Config{AllowOverdraft: true, Now: clock})

	// utilidades → azteca: el origen es posterior al destino en el orden global.
	_, err := l.Append(ctx, &entity.Movement{Tipo: entity.MovementTransferencia, Monto: amount(10), BancoOrigenID: entity.BankUtilidades, BancoDestinoID: entity.BankAzteca, Estado: entity.MovementCompletado})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rec.order), 2)
	assert.Equal(t, []entity.BankID{entity.BankAzteca, entity.BankUtilidades}, rec.order[:2], "primer bloqueo de cada fila en orden alfabético")

	rec.order = nil
	_, err = l.Append(ctx, &entity.Movement{Tipo: entity.MovementTransferencia, Monto: amount(10), BancoOrigenID: entity.BankAzteca, BancoDestinoID: entity.BankUtilidades, Estado: entity.MovementCompletado})
	require.NoError(t, err)
	assert.Equal(t, []entity.BankID{entity.BankAzteca, entity.BankUtilidades}, rec.order[:2], "el sentido de la transferencia no cambia el orden")
}

func TestAppend_SobregiroSegunPolitica(t *testing.T) {
	ctx := context.Background()
	gasto := func() *entity.Movement {
		return &entity.Movement{Tipo: entity.MovementGasto, Monto: amount(1500), BancoOrigenID: entity.BankAzteca, Estado: entity.MovementCompletado}
	}

	permitido := newRepos(t)
	_, err := ledger.New(permitido, ledger.Config{AllowOverdraft: true, Now: clock}).Append(ctx, gasto())
	require.NoError(t, err)
	assert.True(t, balance(t, permitido, entity.BankAzteca).Equal(amount(-500)))

	estricto := newRepos(t)
	_, err = ledger.New(estricto, ledger.Config{AllowOverdraft: false, Now: clock}).Append(ctx, gasto())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientCapital))
}

// ──────────────────────────────────────────────────────────────────────────────
// Reverse
// ──────────────────────────────────────────────────────────────────────────────

func TestReverse_AsientoCompensatorio(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	l := ledger.New(repos, ledger.Config{AllowOverdraft: true, Now: clock})

	orig := &entity.Movement{Tipo: entity.MovementTransferencia, Monto: amount(250), BancoOrigenID: entity.BankBovedaUSA, BancoDestinoID: entity.BankLeftie, Estado: entity.MovementCompletado}
	_, err := l.Append(ctx, orig)
	require.NoError(t, err)

	rev, err := l.Reverse(ctx, orig.ID, "corrección")
	require.NoError(t, err)
	assert.Equal(t, entity.MovementCancelado, rev.Estado)
	assert.Equal(t, orig.ID, rev.ReversaDeID)
	assert.Equal(t, entity.BankLeftie, rev.BancoOrigenID)
	assert.True(t, balance(t, repos, entity.BankBovedaUSA).Equal(amount(1000)))
	assert.True(t, balance(t, repos, entity.BankLeftie).Equal(amount(1000)))

	// El original queda intacto
	stored, err := repos.Movements.GetByID(ctx, orig.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementCompletado, stored.Estado)

	reversed, err := l.IsReversed(ctx, orig.ID)
	require.NoError(t, err)
	assert.True(t, reversed)
}

func TestReverse_DobleReversoRechazado(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	l := ledger.New(repos, ledger.Config{AllowOverdraft: true, Now: clock})

	orig := &entity.Movement{Tipo: entity.MovementIngreso, Monto: amount(100), BancoOrigenID: entity.BankProfit, Estado: entity.MovementCompletado}
	_, err := l.Append(ctx, orig)
	require.NoError(t, err)
	_, err = l.Reverse(ctx, orig.ID, "")
	require.NoError(t, err)

	_, err = l.Reverse(ctx, orig.ID, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAlreadyReversed))
	assert.True(t, balance(t, repos, entity.BankProfit).Equal(amount(1000)))
}

func TestReverse_NoRevierteReversosNiInexistentes(t *testing.T) {
	ctx := context.Background()
	l := ledger.New(newRepos(t), ledger.Config{AllowOverdraft: true, Now: clock})

	_, err := l.Reverse(ctx, "no-existe", "")
	assert.True(t, errors.Is(err, domain.ErrMovementNotFound))

	orig := &entity.Movement{Tipo: entity.MovementGasto, Monto: amount(10), BancoOrigenID: entity.BankProfit, Estado: entity.MovementCompletado}
	_, err = l.Append(ctx, orig)
	require.NoError(t, err)
	rev, err := l.Reverse(ctx, orig.ID, "")
	require.NoError(t, err)

	_, err = l.Reverse(ctx, rev.ID, "")
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestReverseAll_SoloPendientesDeReverso(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	l := ledger.New(repos, ledger.Config{AllowOverdraft: true, Now: clock})

	for i := 0; i < 3; i++ {
		_, err := l.Append(ctx, &entity.Movement{Tipo: entity.MovementIngreso, Monto: amount(100), BancoOrigenID: entity.BankProfit, Estado: entity.MovementCompletado, VentaID: "v-1"})
		require.NoError(t, err)
	}
	filter := entity.MovementFilter{Trace: entity.TraceVenta, TraceValue: "v-1"}

	revs, err := l.ReverseAll(ctx, filter, "reembolso")
	require.NoError(t, err)
	assert.Len(t, revs, 3)

	revs, err = l.ReverseAll(ctx, filter, "reembolso")
	require.NoError(t, err)
	assert.Empty(t, revs)
	assert.True(t, balance(t, repos, entity.BankProfit).Equal(amount(1000)))
}

func TestListByTrace_CampoInvalido(t *testing.T) {
	l := ledger.New(newRepos(t), ledger.Config{Now: clock})
	_, err := l.ListByTrace(context.Background(), "monto", "x")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

// ──────────────────────────────────────────────────────────────────────────────
// BankStore
// ──────────────────────────────────────────────────────────────────────────────

func TestBankStore_ApplyDeltaValidaSigno(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewBankStore(newRepos(t).Banks, ledger.Config{AllowOverdraft: true, Now: clock})

	err := store.ApplyDelta(ctx, entity.BankProfit, amount(-10), entity.AccumIngreso)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	err = store.ApplyDelta(ctx, entity.BankProfit, amount(10), entity.AccumGasto)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	require.NoError(t, store.ApplyDelta(ctx, entity.BankProfit, amount(-10), entity.AccumGasto))
	bal, err := store.GetBalance(ctx, entity.BankProfit)
	require.NoError(t, err)
	assert.True(t, bal.Equal(amount(990)))
}

func TestBankStore_BancoDesconocido(t *testing.T) {
	store := ledger.NewBankStore(newRepos(t).Banks, ledger.Config{Now: clock})
	_, err := store.Get(context.Background(), "banco_fantasma")
	assert.True(t, errors.Is(err, domain.ErrUnknownBank))
	assert.True(t, errors.Is(store.Lock(context.Background(), entity.BankProfit, "otro"), domain.ErrUnknownBank))
}
