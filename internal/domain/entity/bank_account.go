package entity

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BankID identificador de uno de los siete bancos fijos del sistema.
type BankID string

const (
	BankBovedaMonte BankID = "boveda_monte" // reserva de costo (pago a distribuidores)
	BankBovedaUSA   BankID = "boveda_usa"
	BankProfit      BankID = "profit"
	BankLeftie      BankID = "leftie"
	BankAzteca      BankID = "azteca"
	BankFleteSur    BankID = "flete_sur"  // reserva de fletes
	BankUtilidades  BankID = "utilidades" // reserva de utilidades
)

var allBanks = []BankID{
	BankBovedaMonte, BankBovedaUSA, BankProfit, BankLeftie, BankAzteca, BankFleteSur, BankUtilidades,
}

var bankNames = map[BankID]string{
	BankBovedaMonte: "Bóveda Monte",
	BankBovedaUSA:   "Bóveda USA",
	BankProfit:      "Profit",
	BankLeftie:      "Leftie",
	BankAzteca:      "Azteca",
	BankFleteSur:    "Flete Sur",
	BankUtilidades:  "Utilidades",
}

// AllBanks devuelve los siete bancos en orden de declaración.
func AllBanks() []BankID {
	out := make([]BankID, len(allBanks))
	copy(out, allBanks)
	return out
}

// Valid indica si el id pertenece al conjunto cerrado de bancos.
func (id BankID) Valid() bool {
	_, ok := bankNames[id]
	return ok
}

// ParseBankID normaliza el id recibido en la frontera (mayúsculas, acentos, espacios).
// El segundo valor es false si el banco no pertenece al conjunto cerrado.
func ParseBankID(raw string) (BankID, bool) {
	id := BankID(strings.ReplaceAll(foldKey(raw), " ", "_"))
	return id, id.Valid()
}

// Nombre nombre visible del banco.
func (id BankID) Nombre() string { return bankNames[id] }

// SortedBankIDs de-duplica, descarta vacíos y ordena alfabéticamente.
// Es el orden global de adquisición de bloqueos.
func SortedBankIDs(ids ...BankID) []BankID {
	seen := make(map[BankID]struct{}, len(ids))
	out := make([]BankID, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Accumulator indica qué acumulador histórico alimenta un delta de saldo.
type Accumulator string

const (
	AccumIngreso              Accumulator = "ingreso"
	AccumGasto                Accumulator = "gasto"
	AccumTransferenciaEntrada Accumulator = "transferencia_entrada"
	AccumTransferenciaSalida  Accumulator = "transferencia_salida"
)

// Valid indica si el acumulador es conocido.
func (a Accumulator) Valid() bool {
	switch a {
	case AccumIngreso, AccumGasto, AccumTransferenciaEntrada, AccumTransferenciaSalida:
		return true
	}
	return false
}

// Credits indica si el acumulador suma al capital (true) o resta (false).
func (a Accumulator) Credits() bool {
	return a == AccumIngreso || a == AccumTransferenciaEntrada
}

// BankAccount saldo autoritativo y acumuladores de por vida de un banco.
type BankAccount struct {
	ID                             BankID
	Nombre                         string
	CapitalInicial                 decimal.Decimal
	CapitalActual                  decimal.Decimal // puede ser negativo (sobregiro)
	HistoricoIngresos              decimal.Decimal
	HistoricoGastos                decimal.Decimal
	HistoricoTransferenciasEntrada decimal.Decimal
	HistoricoTransferenciasSalida  decimal.Decimal
	UpdatedAt                      time.Time
}

// NewBankAccount cuenta con saldo inicial y acumuladores en cero.
func NewBankAccount(id BankID, capitalInicial decimal.Decimal, now time.Time) *BankAccount {
	return &BankAccount{
		ID:                             id,
		Nombre:                         id.Nombre(),
		CapitalInicial:                 capitalInicial,
		CapitalActual:                  capitalInicial,
		HistoricoIngresos:              decimal.Zero,
		HistoricoGastos:                decimal.Zero,
		HistoricoTransferenciasEntrada: decimal.Zero,
		HistoricoTransferenciasSalida:  decimal.Zero,
		UpdatedAt:                      now,
	}
}

// Apply suma o resta amount (positivo) según el acumulador y alimenta el histórico.
func (b *BankAccount) Apply(amount decimal.Decimal, acc Accumulator, now time.Time) {
	switch acc {
	case AccumIngreso:
		b.HistoricoIngresos = b.HistoricoIngresos.Add(amount)
	case AccumGasto:
		b.HistoricoGastos = b.HistoricoGastos.Add(amount)
	case AccumTransferenciaEntrada:
		b.HistoricoTransferenciasEntrada = b.HistoricoTransferenciasEntrada.Add(amount)
	case AccumTransferenciaSalida:
		b.HistoricoTransferenciasSalida = b.HistoricoTransferenciasSalida.Add(amount)
	}
	if acc.Credits() {
		b.CapitalActual = b.CapitalActual.Add(amount)
	} else {
		b.CapitalActual = b.CapitalActual.Sub(amount)
	}
	b.UpdatedAt = now
}

// Reconciles verifica capitalActual == inicial + ingresos - gastos + entradas - salidas.
func (b *BankAccount) Reconciles() bool {
	expected := b.CapitalInicial.
		Add(b.HistoricoIngresos).
		Sub(b.HistoricoGastos).
		Add(b.HistoricoTransferenciasEntrada).
		Sub(b.HistoricoTransferenciasSalida)
	return expected.Equal(b.CapitalActual)
}

// EnSobregiro indica saldo negativo (alerta en dashboards).
func (b *BankAccount) EnSobregiro() bool {
	return b.CapitalActual.IsNegative()
}
