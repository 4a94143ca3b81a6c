package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrUnknownBank         = errors.New("banco desconocido")
	ErrSaleNotFound        = errors.New("venta no encontrada")
	ErrOrderNotFound       = errors.New("orden de compra no encontrada")
	ErrCorteNotFound       = errors.New("corte de inventario no encontrado")
	ErrProductNotFound     = errors.New("producto no encontrado")
	ErrDistributorNotFound = errors.New("distribuidor no encontrado")
	ErrMovementNotFound    = errors.New("movimiento no encontrado")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrOverpayment         = errors.New("el pago excede el monto restante")
	ErrOrderClosed         = errors.New("la orden de compra está cerrada")
	ErrOrderHasSales       = errors.New("la orden tiene unidades vendidas")
	ErrSaleClosed          = errors.New("la venta está cerrada")
	ErrAlreadyAdjusted     = errors.New("el corte ya fue ajustado")
	ErrStaleCorte          = errors.New("el stock cambió desde el corte, registre un conteo nuevo")
	ErrAlreadyReversed     = errors.New("el movimiento ya fue revertido")
	ErrInsufficientCapital = errors.New("capital insuficiente")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrIdempotencyMismatch = errors.New("clave de idempotencia reutilizada con otro contenido")
	ErrConcurrency         = errors.New("contención de bloqueo, reintentar")
	ErrTransactionTimeout  = errors.New("tiempo de transacción agotado")
	ErrPersistence         = errors.New("falla de persistencia")
)

// Kind clasifica un error para decidir reintento o respuesta al caller.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindConcurrency
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindConcurrency:
		return "concurrency"
	case KindPersistence:
		return "persistence"
	}
	return "unknown"
}

// Error es el error tipado del núcleo: Kind + entidad/campo afectado + sentinela.
type Error struct {
	Kind   Kind
	Entity string
	ID     string
	Field  string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Err.Error()
	switch {
	case e.Field != "" && e.Reason != "":
		msg = fmt.Sprintf("%s: %s %s", msg, e.Field, e.Reason)
	case e.Field != "":
		msg = fmt.Sprintf("%s: %s", msg, e.Field)
	case e.Reason != "":
		msg = fmt.Sprintf("%s: %s", msg, e.Reason)
	}
	if e.Entity != "" && e.ID != "" {
		msg = fmt.Sprintf("%s (%s %s)", msg, e.Entity, e.ID)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Validation error de comando mal formado, rechazado antes de cualquier efecto.
func Validation(field, reason string) *Error {
	return &Error{Kind: KindValidation, Field: field, Reason: reason, Err: ErrInvalidInput}
}

// NotFound referencia a banco, venta, orden o corte inexistente.
func NotFound(entity, id string, sentinel error) *Error {
	if sentinel == nil {
		sentinel = ErrNotFound
	}
	return &Error{Kind: KindNotFound, Entity: entity, ID: id, Err: sentinel}
}

// Conflict violación de una regla de estado (sobrepago, orden cerrada, doble ajuste...).
func Conflict(entity, id string, sentinel error) *Error {
	if sentinel == nil {
		sentinel = ErrConflict
	}
	return &Error{Kind: KindConflict, Entity: entity, ID: id, Err: sentinel}
}

// Concurrency contención de bloqueos; seguro de reintentar.
func Concurrency(cause error) *Error {
	return &Error{Kind: KindConcurrency, Reason: causeText(cause), Err: ErrConcurrency}
}

// Persistence falla de la capa de commit.
func Persistence(cause error) *Error {
	return &Error{Kind: KindPersistence, Reason: causeText(cause), Err: ErrPersistence}
}

// Timeout vencimiento del primitivo de commit; reintentar con la misma clave.
func Timeout(cause error) *Error {
	return &Error{Kind: KindPersistence, Reason: causeText(cause), Err: ErrTransactionTimeout}
}

func causeText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// KindOf clasifica cualquier error. Los errores no tipados se tratan como persistencia.
func KindOf(err error) Kind {
	if err == nil {
		return 0
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindPersistence
}

// IsRetryable indica si el Coordinator puede reintentar internamente.
func IsRetryable(err error) bool {
	return KindOf(err) == KindConcurrency
}
