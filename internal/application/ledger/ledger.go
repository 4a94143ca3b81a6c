// Package ledger implementa el store de saldos bancarios y el libro de movimientos.
// Todo cambio de saldo pasa por Ledger.Append, que registra el movimiento y lo aplica
// exactamente una vez dentro de la unidad de trabajo del caller.
package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/jhoicas/Tesoreria-api/internal/domain"
	"github.com/jhoicas/Tesoreria-api/internal/domain/entity"
	"github.com/jhoicas/Tesoreria-api/internal/domain/finance"
	"github.com/jhoicas/Tesoreria-api/internal/domain/repository"
)

// Ledger libro append-only de movimientos con aplicación de saldos.
type Ledger struct {
	banks *BankStore
	movs  repository.MovementRepository
	cfg   Config
}

// New construye el ledger sobre los repositorios de la transacción en curso.
func New(repos repository.Repositories, cfg Config) *Ledger {
	return &Ledger{
		banks: NewBankStore(repos.Banks, cfg),
		movs:  repos.Movements,
		cfg:   cfg,
	}
}

// Banks store de saldos usado por el ledger.
func (l *Ledger) Banks() *BankStore { return l.banks }

// Append valida, aplica los saldos (completado y reversos) y persiste el movimiento.
// Devuelve el ID asignado.
func (l *Ledger) Append(ctx context.Context, m *entity.Movement) (string, error) {
	if err := validateMovement(m, l.cfg.MoneyScale()); err != nil {
		return "", err
	}
	now := l.cfg.Clock()
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Fecha.IsZero() {
		m.Fecha = now
	}
	m.CreatedAt = now

	if m.Estado.Applied() {
		if err := l.banks.Lock(ctx, m.TouchedBanks()...); err != nil {
			return "", err
		}
		if err := l.apply(ctx, m); err != nil {
			return "", err
		}
	}
	if err := l.movs.Create(ctx, m); err != nil {
		return "", err
	}
	return m.ID, nil
}

func (l *Ledger) apply(ctx context.Context, m *entity.Movement) error {
	switch m.Tipo {
	case entity.MovementIngreso:
		return l.banks.ApplyDelta(ctx, m.BancoOrigenID, m.Monto, entity.AccumIngreso)
	case entity.MovementGasto:
		return l.banks.ApplyDelta(ctx, m.BancoOrigenID, m.Monto.Neg(), entity.AccumGasto)
	case entity.MovementTransferencia:
		// Ambos bancos ya están bloqueados en orden alfabético por Append.
		if err := l.banks.ApplyDelta(ctx, m.BancoOrigenID, m.Monto.Neg(), entity.AccumTransferenciaSalida); err != nil {
			return err
		}
		return l.banks.ApplyDelta(ctx, m.BancoDestinoID, m.Monto, entity.AccumTransferenciaEntrada)
	case entity.MovementAjuste:
		return nil
	}
	return domain.Validation("tipo", "desconocido")
}

func validateMovement(m *entity.Movement, scale int32) error {
	if !m.Tipo.Valid() {
		return domain.Validation("tipo", "desconocido")
	}
	if !m.Estado.Valid() {
		return domain.Validation("estado", "desconocido")
	}
	if !m.Monto.IsPositive() {
		return domain.Validation("monto", "debe ser mayor que cero")
	}
	// Los ajustes registran unidades de stock, no dinero.
	if m.Tipo != entity.MovementAjuste {
		if err := finance.CheckScale("monto", m.Monto, scale); err != nil {
			return err
		}
	}
	switch m.Tipo {
	case entity.MovementIngreso, entity.MovementGasto:
		if m.BancoOrigenID == "" {
			return domain.Validation("banco_origen_id", "requerido")
		}
		if m.BancoDestinoID != "" {
			return domain.Validation("banco_destino_id", "solo aplica a transferencias")
		}
	case entity.MovementTransferencia:
		if m.BancoOrigenID == "" || m.BancoDestinoID == "" {
			return domain.Validation("banco_destino_id", "origen y destino requeridos")
		}
		if m.BancoOrigenID == m.BancoDestinoID {
			return domain.Validation("banco_destino_id", "debe ser distinto del origen")
		}
	case entity.MovementAjuste:
		if m.CorteID == "" {
			return domain.Validation("corte_id", "requerido en ajustes")
		}
		if m.BancoOrigenID != "" || m.BancoDestinoID != "" {
			return domain.Validation("banco_origen_id", "un ajuste no toca bancos")
		}
	}
	for _, id := range []entity.BankID{m.BancoOrigenID, m.BancoDestinoID} {
		if id != "" && !id.Valid() {
			return domain.NotFound("banco", string(id), domain.ErrUnknownBank)
		}
	}
	return nil
}

// Reverse registra el asiento compensatorio de un movimiento: sentido opuesto,
// estado cancelado y ReversaDeID apuntando al original. El original no se modifica.
func (l *Ledger) Reverse(ctx context.Context, originalID, referencia string) (*entity.Movement, error) {
	orig, err := l.movs.GetByID(ctx, originalID)
	if err != nil {
		return nil, err
	}
	if orig == nil {
		return nil, domain.NotFound("movimiento", originalID, domain.ErrMovementNotFound)
	}
	if orig.Estado != entity.MovementCompletado {
		return nil, domain.Conflict("movimiento", originalID, domain.ErrConflict)
	}
	reversed, err := l.IsReversed(ctx, originalID)
	if err != nil {
		return nil, err
	}
	if reversed {
		return nil, domain.Conflict("movimiento", originalID, domain.ErrAlreadyReversed)
	}

	rev := &entity.Movement{
		Monto:          orig.Monto,
		Estado:         entity.MovementCancelado,
		VentaID:        orig.VentaID,
		OrdenCompraID:  orig.OrdenCompraID,
		DistribuidorID: orig.DistribuidorID,
		ClienteID:      orig.ClienteID,
		ProductoID:     orig.ProductoID,
		CorteID:        orig.CorteID,
		Referencia:     referencia,
		Concepto:       "reverso de " + orig.ID,
		ReversaDeID:    orig.ID,
	}
	switch orig.Tipo {
	case entity.MovementIngreso:
		rev.Tipo = entity.MovementGasto
		rev.BancoOrigenID = orig.BancoOrigenID
	case entity.MovementGasto:
		rev.Tipo = entity.MovementIngreso
		rev.BancoOrigenID = orig.BancoOrigenID
	case entity.MovementTransferencia:
		rev.Tipo = entity.MovementTransferencia
		rev.BancoOrigenID = orig.BancoDestinoID
		rev.BancoDestinoID = orig.BancoOrigenID
	default:
		return nil, domain.Conflict("movimiento", originalID, domain.ErrConflict)
	}
	if _, err := l.Append(ctx, rev); err != nil {
		return nil, err
	}
	return rev, nil
}

// IsReversed indica si ya existe un reverso del movimiento.
func (l *Ledger) IsReversed(ctx context.Context, movementID string) (bool, error) {
	existing, err := l.movs.List(ctx, entity.MovementFilter{ReversaDeID: movementID, Limit: 1})
	if err != nil {
		return false, err
	}
	return len(existing) > 0, nil
}

// ReverseAll revierte los movimientos completados que coinciden con el filtro y aún no
// tienen reverso. Devuelve los reversos creados.
func (l *Ledger) ReverseAll(ctx context.Context, filter entity.MovementFilter, referencia string) ([]*entity.Movement, error) {
	filter.Estado = entity.MovementCompletado
	filter.Limit, filter.Offset = 0, 0
	originals, err := l.movs.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	var out []*entity.Movement
	for _, orig := range originals {
		done, err := l.IsReversed(ctx, orig.ID)
		if err != nil {
			return nil, err
		}
		if done {
			continue
		}
		rev, err := l.Reverse(ctx, orig.ID, referencia)
		if err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, nil
}

// ListByTrace movimientos por campo de trazabilidad (paneles de trazabilidad).
func (l *Ledger) ListByTrace(ctx context.Context, field entity.TraceField, value string) ([]*entity.Movement, error) {
	if !field.Valid() {
		return nil, domain.Validation("campo", "no es un campo de trazabilidad")
	}
	if value == "" {
		return nil, domain.Validation("valor", "requerido")
	}
	return l.movs.List(ctx, entity.MovementFilter{Trace: field, TraceValue: value})
}

// List movimientos por filtro.
func (l *Ledger) List(ctx context.Context, filter entity.MovementFilter) ([]*entity.Movement, error) {
	return l.movs.List(ctx, filter)
}
