package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Tesoreria-api/internal/domain"
	"github.com/jhoicas/Tesoreria-api/internal/domain/entity"
)

func TestClassifyError(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name string
		err  error
		kind domain.Kind
		is   error
	}{
		{"deadlock", &pgconn.PgError{Code: codeDeadlockDetected}, domain.KindConcurrency, domain.ErrConcurrency},
		{"serialización", &pgconn.PgError{Code: codeSerializationFailure}, domain.KindConcurrency, domain.ErrConcurrency},
		{"lock_timeout", fmt.Errorf("update: %w", &pgconn.PgError{Code: codeLockNotAvailable}), domain.KindConcurrency, domain.ErrConcurrency},
		{"statement_timeout", &pgconn.PgError{Code: codeQueryCanceled}, domain.KindPersistence, domain.ErrTransactionTimeout},
		{"deadline", context.DeadlineExceeded, domain.KindPersistence, domain.ErrTransactionTimeout},
		{"otro", errors.New("connection reset"), domain.KindPersistence, domain.ErrPersistence},
		{"dominio", domain.Conflict("venta", "v", domain.ErrOverpayment), domain.KindConflict, domain.ErrOverpayment},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyError(ctx, tc.err)
			assert.Equal(t, tc.kind, domain.KindOf(got))
			assert.True(t, errors.Is(got, tc.is))
		})
	}
	assert.NoError(t, classifyError(ctx, nil))
}

func TestClassifyError_ContextoVencido(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	<-ctx.Done()
	got := classifyError(ctx, errors.New("conn closed"))
	assert.True(t, errors.Is(got, domain.ErrTransactionTimeout))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: codeUniqueViolation}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: codeDeadlockDetected}))
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	assert.Equal(t, "v-1", nullable("v-1"))
}

func TestScanOrderState(t *testing.T) {
	for raw, want := range map[string]entity.OrderState{
		"parcial":    entity.OrderParcial,
		"Completada": entity.OrderCompleto,
		"CANCELADA":  entity.OrderCancelado,
	} {
		got, err := scanOrderState(raw)
		assert.NoError(t, err, "%q", raw)
		assert.Equal(t, want, got, "%q", raw)
	}

	_, err := scanOrderState("pagada")
	assert.Error(t, err, "un estado fuera del enum no cae en un default")
}
