package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/Tesoreria-api/internal/domain/finance"
	"github.com/jhoicas/Tesoreria-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit si fn devuelve nil, Rollback en cualquier otro caso. Es la única frontera de commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repositories) error) error
}

// Config política del ledger.
type Config struct {
	// AllowOverdraft permite saldos negativos (se muestran como alertas).
	AllowOverdraft bool
	// Scale decimales de la moneda; 0 usa finance.DefaultScale.
	Scale int32
	// Now reloj inyectable; nil usa time.Now.
	Now func() time.Time
}

// Clock hora actual según Now.
func (c Config) Clock() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// MoneyScale decimales efectivos de la moneda.
func (c Config) MoneyScale() int32 {
	if c.Scale > 0 {
		return c.Scale
	}
	return finance.DefaultScale
}
