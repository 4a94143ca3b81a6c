package domain_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Tesoreria-api/internal/domain"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, domain.Kind(0), domain.KindOf(nil))
	assert.Equal(t, domain.KindValidation, domain.KindOf(domain.Validation("monto", "debe ser mayor que cero")))
	assert.Equal(t, domain.KindNotFound, domain.KindOf(domain.NotFound("venta", "v-1", domain.ErrSaleNotFound)))
	assert.Equal(t, domain.KindConflict, domain.KindOf(domain.Conflict("orden", "o-1", domain.ErrOrderClosed)))
	assert.Equal(t, domain.KindConcurrency, domain.KindOf(domain.Concurrency(errors.New("deadlock"))))
	assert.Equal(t, domain.KindPersistence, domain.KindOf(domain.Timeout(context.DeadlineExceeded)))

	// Los errores no tipados se tratan como persistencia
	assert.Equal(t, domain.KindPersistence, domain.KindOf(errors.New("conexión perdida")))
}

func TestError_EnvueltoConservaSentinelaYKind(t *testing.T) {
	base := domain.NotFound("venta", "v-1", domain.ErrSaleNotFound)
	wrapped := fmt.Errorf("registrar pago: %w", base)

	assert.True(t, errors.Is(wrapped, domain.ErrSaleNotFound))
	assert.Equal(t, domain.KindNotFound, domain.KindOf(wrapped))
	assert.Contains(t, wrapped.Error(), "venta v-1")
}

func TestError_SentinelasPorDefecto(t *testing.T) {
	assert.True(t, errors.Is(domain.NotFound("banco", "x", nil), domain.ErrNotFound))
	assert.True(t, errors.Is(domain.Conflict("banco", "x", nil), domain.ErrConflict))
	assert.True(t, errors.Is(domain.Validation("campo", "razón"), domain.ErrInvalidInput))
	assert.True(t, errors.Is(domain.Timeout(nil), domain.ErrTransactionTimeout))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, domain.IsRetryable(domain.Concurrency(nil)))
	assert.True(t, domain.IsRetryable(fmt.Errorf("tx: %w", domain.Concurrency(nil))))
	assert.False(t, domain.IsRetryable(domain.Timeout(nil)))
	assert.False(t, domain.IsRetryable(domain.Conflict("venta", "v", domain.ErrOverpayment)))
	assert.False(t, domain.IsRetryable(nil))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "conflict", domain.KindConflict.String())
	assert.Equal(t, "unknown", domain.Kind(99).String())
}
