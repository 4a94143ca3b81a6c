package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento de dinero (o de stock, en el caso de ajuste).
type MovementType string

const (
	MovementIngreso       MovementType = "ingreso"
	MovementGasto         MovementType = "gasto"
	MovementTransferencia MovementType = "transferencia"
	MovementAjuste        MovementType = "ajuste" // ajuste de stock por corte; no toca bancos
)

// Valid indica si el tipo es conocido.
func (t MovementType) Valid() bool {
	switch t {
	case MovementIngreso, MovementGasto, MovementTransferencia, MovementAjuste:
		return true
	}
	return false
}

// MovementState estado de un movimiento.
type MovementState string

const (
	MovementCompletado MovementState = "completado"
	MovementPendiente  MovementState = "pendiente"
	MovementCancelado  MovementState = "cancelado" // reverso append-only
)

// Valid indica si el estado es conocido.
func (s MovementState) Valid() bool {
	switch s {
	case MovementCompletado, MovementPendiente, MovementCancelado:
		return true
	}
	return false
}

// Applied indica si el movimiento se refleja en los saldos.
// Los reversos (cancelado) son asientos compensatorios y también se aplican.
func (s MovementState) Applied() bool {
	return s == MovementCompletado || s == MovementCancelado
}

// Movement evento que mueve dinero entre bancos o hacia/desde fuera del sistema.
// Inmutable una vez persistido; las correcciones son movimientos nuevos (ReversaDeID).
type Movement struct {
	ID             string
	Seq            int64 // orden de commit, lo asigna el repositorio
	Tipo           MovementType
	Monto          decimal.Decimal // siempre > 0
	BancoOrigenID  BankID
	BancoDestinoID BankID // solo transferencias
	Fecha          time.Time
	Estado         MovementState

	// Trazabilidad (opcionales, nunca fabricados)
	VentaID        string
	OrdenCompraID  string
	DistribuidorID string
	ClienteID      string
	ProductoID     string
	CorteID        string
	Referencia     string

	Concepto    string
	ReversaDeID string
	CreatedAt   time.Time
}

// TouchedBanks bancos cuyos saldos modifica el movimiento.
func (m *Movement) TouchedBanks() []BankID {
	return SortedBankIDs(m.BancoOrigenID, m.BancoDestinoID)
}

// TraceField campo de trazabilidad indexado.
type TraceField string

const (
	TraceVenta        TraceField = "venta_id"
	TraceOrdenCompra  TraceField = "orden_compra_id"
	TraceDistribuidor TraceField = "distribuidor_id"
	TraceCliente      TraceField = "cliente_id"
	TraceProducto     TraceField = "producto_id"
	TraceCorte        TraceField = "corte_id"
)

// Valid indica si el campo es indexable.
func (f TraceField) Valid() bool {
	switch f {
	case TraceVenta, TraceOrdenCompra, TraceDistribuidor, TraceCliente, TraceProducto, TraceCorte:
		return true
	}
	return false
}

// TraceValue devuelve el valor del campo de trazabilidad indicado.
func (m *Movement) TraceValue(f TraceField) string {
	switch f {
	case TraceVenta:
		return m.VentaID
	case TraceOrdenCompra:
		return m.OrdenCompraID
	case TraceDistribuidor:
		return m.DistribuidorID
	case TraceCliente:
		return m.ClienteID
	case TraceProducto:
		return m.ProductoID
	case TraceCorte:
		return m.CorteID
	}
	return ""
}

// MovementFilter criterios para listar movimientos. Campos vacíos no filtran.
type MovementFilter struct {
	Tipo        MovementType
	Estado      MovementState
	BancoID     BankID // origen o destino
	Trace       TraceField
	TraceValue  string
	ReversaDeID string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// Matches evalúa el filtro en memoria (sin paginación).
func (f MovementFilter) Matches(m *Movement) bool {
	if f.Tipo != "" && m.Tipo != f.Tipo {
		return false
	}
	if f.Estado != "" && m.Estado != f.Estado {
		return false
	}
	if f.BancoID != "" && m.BancoOrigenID != f.BancoID && m.BancoDestinoID != f.BancoID {
		return false
	}
	if f.Trace != "" && m.TraceValue(f.Trace) != f.TraceValue {
		return false
	}
	if f.ReversaDeID != "" && m.ReversaDeID != f.ReversaDeID {
		return false
	}
	if f.From != nil && m.Fecha.Before(*f.From) {
		return false
	}
	if f.To != nil && m.Fecha.After(*f.To) {
		return false
	}
	return true
}
