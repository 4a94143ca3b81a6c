package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Producto artículo con stock registrado en sistema.
type Producto struct {
	ID           string
	Nombre       string
	StockSistema decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Distribuidor proveedor con deuda acumulada por órdenes de compra.
type Distribuidor struct {
	ID        string
	Nombre    string
	Deuda     decimal.Decimal // saldo pendiente de pago
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IdempotencyRecord resultado guardado de un comando ya ejecutado.
type IdempotencyRecord struct {
	Key         string
	Command     string
	Fingerprint string
	Result      []byte // JSON del resultado devuelto al caller
	CreatedAt   time.Time
}
