package ledger

import (
	"context"

	"github.com/jhoicas/Tesoreria-api/internal/domain"
	"github.com/jhoicas/Tesoreria-api/internal/domain/entity"
	"github.com/jhoicas/Tesoreria-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// BankStore saldos autoritativos por banco. Opera sobre repositorios atados a la
// unidad de trabajo del caller; nunca hace commit por sí mismo.
type BankStore struct {
	repo repository.BankAccountRepository
	cfg  Config
}

// NewBankStore construye el store sobre el repositorio de la transacción en curso.
func NewBankStore(repo repository.BankAccountRepository, cfg Config) *BankStore {
	return &BankStore{repo: repo, cfg: cfg}
}

// Get devuelve la cuenta o NotFound(ErrUnknownBank).
func (s *BankStore) Get(ctx context.Context, id entity.BankID) (*entity.BankAccount, error) {
	if !id.Valid() {
		return nil, domain.NotFound("banco", string(id), domain.ErrUnknownBank)
	}
	acc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, domain.NotFound("banco", string(id), domain.ErrUnknownBank)
	}
	return acc, nil
}

// GetBalance capital actual del banco.
func (s *BankStore) GetBalance(ctx context.Context, id entity.BankID) (decimal.Decimal, error) {
	acc, err := s.Get(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return acc.CapitalActual, nil
}

// Lock bloquea las filas de los bancos indicados en orden alfabético (orden global),
// de modo que dos comandos que tocan varios bancos nunca se bloqueen mutuamente.
func (s *BankStore) Lock(ctx context.Context, ids ...entity.BankID) error {
	for _, id := range entity.SortedBankIDs(ids...) {
		if !id.Valid() {
			return domain.NotFound("banco", string(id), domain.ErrUnknownBank)
		}
		acc, err := s.repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if acc == nil {
			return domain.NotFound("banco", string(id), domain.ErrUnknownBank)
		}
	}
	return nil
}

// ApplyDelta suma delta (con signo) al capital del banco y lo registra en el acumulador.
// Los acumuladores de entrada exigen delta > 0 y los de salida delta < 0, de modo que
// ningún acumulador decrece.
func (s *BankStore) ApplyDelta(ctx context.Context, id entity.BankID, delta decimal.Decimal, acc entity.Accumulator) error {
	if !acc.Valid() {
		return domain.Validation("acumulador", "desconocido")
	}
	if delta.IsZero() || delta.IsPositive() != acc.Credits() {
		return domain.Validation("delta", "signo incompatible con el acumulador")
	}
	if !id.Valid() {
		return domain.NotFound("banco", string(id), domain.ErrUnknownBank)
	}
	account, err := s.repo.GetForUpdate(ctx, id)
	if err != nil {
		return err
	}
	if account == nil {
		return domain.NotFound("banco", string(id), domain.ErrUnknownBank)
	}
	account.Apply(delta.Abs(), acc, s.cfg.Clock())
	if !s.cfg.AllowOverdraft && account.EnSobregiro() {
		return domain.Conflict("banco", string(id), domain.ErrInsufficientCapital)
	}
	return s.repo.Update(ctx, account)
}
