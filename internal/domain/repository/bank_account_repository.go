package repository

import (
	"context"

	"github.com/jhoicas/Tesoreria-api/internal/domain/entity"
)

// BankAccountRepository define el puerto de persistencia de los bancos.
// GetByID y GetForUpdate devuelven (nil, nil) si el banco no existe.
type BankAccountRepository interface {
	Create(ctx context.Context, account *entity.BankAccount) error
	GetByID(ctx context.Context, id entity.BankID) (*entity.BankAccount, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE). Los callers deben respetar
	// el orden alfabético de ids cuando bloquean varios bancos.
	GetForUpdate(ctx context.Context, id entity.BankID) (*entity.BankAccount, error)
	List(ctx context.Context) ([]*entity.BankAccount, error)
	Update(ctx context.Context, account *entity.BankAccount) error
}
