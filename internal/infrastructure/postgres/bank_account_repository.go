package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Tesoreria-api/internal/domain"
	"github.com/jhoicas/Tesoreria-api/internal/domain/entity"
	"github.com/jhoicas/Tesoreria-api/internal/domain/repository"
)

var _ repository.BankAccountRepository = (*BankAccountRepo)(nil)

// BankAccountRepo implementación de BankAccountRepository sobre PostgreSQL (pool o tx).
type BankAccountRepo struct {
	q Querier
}

// NewBankAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBankAccountRepository(q Querier) *BankAccountRepo {
	return &BankAccountRepo{q: q}
}

const bankColumns = `id, nombre, capital_inicial, capital_actual, historico_ingresos, historico_gastos,
	historico_transferencias_entrada, historico_transferencias_salida, updated_at`

// Create inserta la cuenta (solo en el bootstrap).
func (r *BankAccountRepo) Create(ctx context.Context, a *entity.BankAccount) error {
	query := `INSERT INTO bank_accounts (` + bankColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		string(a.ID), a.Nombre, a.CapitalInicial, a.CapitalActual, a.HistoricoIngresos, a.HistoricoGastos,
		a.HistoricoTransferenciasEntrada, a.HistoricoTransferenciasSalida, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("banco", string(a.ID), domain.ErrDuplicate)
		}
		return fmt.Errorf("insert bank account: %w", err)
	}
	return nil
}

// GetByID lectura sin bloqueo.
func (r *BankAccountRepo) GetByID(ctx context.Context, id entity.BankID) (*entity.BankAccount, error) {
	return r.get(ctx, `SELECT `+bankColumns+` FROM bank_accounts WHERE id = $1`, id)
}

// GetForUpdate obtiene la cuenta y bloquea la fila (SELECT FOR UPDATE).
func (r *BankAccountRepo) GetForUpdate(ctx context.Context, id entity.BankID) (*entity.BankAccount, error) {
	return r.get(ctx, `SELECT `+bankColumns+` FROM bank_accounts WHERE id = $1 FOR UPDATE`, id)
}

func (r *BankAccountRepo) get(ctx context.Context, query string, id entity.BankID) (*entity.BankAccount, error) {
	a, err := scanBank(r.q.QueryRow(ctx, query, string(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bank account: %w", err)
	}
	return a, nil
}

// List los bancos en orden alfabético.
func (r *BankAccountRepo) List(ctx context.Context) ([]*entity.BankAccount, error) {
	rows, err := r.q.Query(ctx, `SELECT `+bankColumns+` FROM bank_accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list bank accounts: %w", err)
	}
	defer rows.Close()
	var list []*entity.BankAccount
	for rows.Next() {
		a, err := scanBank(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bank account: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Update persiste saldo y acumuladores.
func (r *BankAccountRepo) Update(ctx context.Context, a *entity.BankAccount) error {
	query := `
		UPDATE bank_accounts SET capital_actual = $2, historico_ingresos = $3, historico_gastos = $4,
			historico_transferencias_entrada = $5, historico_transferencias_salida = $6, updated_at = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		string(a.ID), a.CapitalActual, a.HistoricoIngresos, a.HistoricoGastos,
		a.HistoricoTransferenciasEntrada, a.HistoricoTransferenciasSalida, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update bank account: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("banco", string(a.ID), domain.ErrUnknownBank)
	}
	return nil
}

func scanBank(row pgx.Row) (*entity.BankAccount, error) {
	var (
		a  entity.BankAccount
		id string
	)
	err := row.Scan(&id, &a.Nombre, &a.CapitalInicial, &a.CapitalActual, &a.HistoricoIngresos, &a.HistoricoGastos,
		&a.HistoricoTransferenciasEntrada, &a.HistoricoTransferenciasSalida, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.ID = entity.BankID(id)
	return &a, nil
}
