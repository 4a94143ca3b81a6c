package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Comandos ──────────────────────────────────────────────────────────────────
// Los campos de ruta (ids) se copian al payload antes de validar, de modo que
// forman parte de la huella de idempotencia.

// RegisterSaleRequest body para POST /api/ventas.
type RegisterSaleRequest struct {
	ClienteID     string          `json:"cliente_id" validate:"required"`
	ProductoID    string          `json:"producto_id,omitempty"`
	OrdenCompraID string          `json:"orden_compra_id,omitempty"`
	Cantidad      decimal.Decimal `json:"cantidad" validate:"gt=0"`
	PrecioVenta   decimal.Decimal `json:"precio_venta" validate:"gt=0"`
	PrecioCompra  decimal.Decimal `json:"precio_compra" validate:"gte=0"`
	PrecioFlete   decimal.Decimal `json:"precio_flete" validate:"gte=0"`
	PagoInicial   decimal.Decimal `json:"pago_inicial" validate:"gte=0"`
	Referencia    string          `json:"referencia,omitempty" validate:"max=200"`
	Fecha         *time.Time      `json:"fecha,omitempty"`
}

// SalePaymentRequest body para POST /api/ventas/:id/pagos.
type SalePaymentRequest struct {
	VentaID    string          `json:"venta_id" validate:"required"`
	Monto      decimal.Decimal `json:"monto" validate:"gt=0"`
	Referencia string          `json:"referencia,omitempty" validate:"max=200"`
}

// RefundSaleRequest body para POST /api/ventas/:id/reembolso.
type RefundSaleRequest struct {
	VentaID    string `json:"venta_id" validate:"required"`
	Referencia string `json:"referencia,omitempty" validate:"max=200"`
}

// BankMovementRequest body para POST /api/gastos y POST /api/ingresos.
// Estado vacío equivale a completado; pendiente se registra sin tocar saldos.
type BankMovementRequest struct {
	BancoID        string          `json:"banco_id" validate:"required"`
	Monto          decimal.Decimal `json:"monto" validate:"gt=0"`
	Estado         string          `json:"estado,omitempty" validate:"omitempty,oneof=completado pendiente"`
	Concepto       string          `json:"concepto,omitempty" validate:"max=200"`
	Referencia     string          `json:"referencia,omitempty" validate:"max=200"`
	DistribuidorID string          `json:"distribuidor_id,omitempty"`
	ClienteID      string          `json:"cliente_id,omitempty"`
	Fecha          *time.Time      `json:"fecha,omitempty"`
}

// TransferRequest body para POST /api/transferencias.
type TransferRequest struct {
	BancoOrigenID  string          `json:"banco_origen_id" validate:"required"`
	BancoDestinoID string          `json:"banco_destino_id" validate:"required,nefield=BancoOrigenID"`
	Monto          decimal.Decimal `json:"monto" validate:"gt=0"`
	Concepto       string          `json:"concepto,omitempty" validate:"max=200"`
	Referencia     string          `json:"referencia,omitempty" validate:"max=200"`
	Fecha          *time.Time      `json:"fecha,omitempty"`
}

// PurchaseOrderRequest body para POST /api/ordenes-compra.
type PurchaseOrderRequest struct {
	DistribuidorID string          `json:"distribuidor_id" validate:"required"`
	ProductoID     string          `json:"producto_id" validate:"required"`
	BancoOrigenID  string          `json:"banco_origen_id" validate:"required"`
	Cantidad       decimal.Decimal `json:"cantidad" validate:"gt=0"`
	CostoTotal     decimal.Decimal `json:"costo_total" validate:"gt=0"`
	PagoInicial    decimal.Decimal `json:"pago_inicial" validate:"gte=0"`
	Referencia     string          `json:"referencia,omitempty" validate:"max=200"`
	Fecha          *time.Time      `json:"fecha,omitempty"`
}

// PurchasePaymentRequest body para POST /api/ordenes-compra/:id/pagos.
type PurchasePaymentRequest struct {
	OrdenCompraID string          `json:"orden_compra_id" validate:"required"`
	Monto         decimal.Decimal `json:"monto" validate:"gt=0"`
	Referencia    string          `json:"referencia,omitempty" validate:"max=200"`
}

// OrderActionRequest cancelar o eliminar una orden.
type OrderActionRequest struct {
	OrdenCompraID string `json:"orden_compra_id" validate:"required"`
	Referencia    string `json:"referencia,omitempty" validate:"max=200"`
}

// InventoryCutRequest body para POST /api/cortes.
type InventoryCutRequest struct {
	ProductoID  string          `json:"producto_id" validate:"required"`
	StockFisico decimal.Decimal `json:"stock_fisico" validate:"gte=0"`
}

// ApplyAdjustmentRequest POST /api/cortes/:id/ajuste.
type ApplyAdjustmentRequest struct {
	CorteID string `json:"corte_id" validate:"required"`
}

// CreateProductRequest body para POST /api/productos.
type CreateProductRequest struct {
	Nombre       string          `json:"nombre" validate:"required,max=200"`
	StockInicial decimal.Decimal `json:"stock_inicial" validate:"gte=0"`
}

// CreateDistributorRequest body para POST /api/distribuidores.
type CreateDistributorRequest struct {
	Nombre string `json:"nombre" validate:"required,max=200"`
}

// MovementListRequest query de GET /api/movimientos.
type MovementListRequest struct {
	Tipo    string `query:"tipo" validate:"omitempty,oneof=ingreso gasto transferencia ajuste"`
	Estado  string `query:"estado" validate:"omitempty,oneof=completado pendiente cancelado"`
	BancoID string `query:"banco_id"`
	Desde   string `query:"desde" validate:"omitempty,datetime=2006-01-02"` // inclusive
	Hasta   string `query:"hasta" validate:"omitempty,datetime=2006-01-02"` // inclusive, hasta fin del día
	PageRequest
}

// ── Respuestas ────────────────────────────────────────────────────────────────

// BankAccountResponse saldo y acumuladores de un banco.
type BankAccountResponse struct {
	ID                             string          `json:"id"`
	Nombre                         string          `json:"nombre"`
	CapitalInicial                 decimal.Decimal `json:"capital_inicial"`
	CapitalActual                  decimal.Decimal `json:"capital_actual"`
	HistoricoIngresos              decimal.Decimal `json:"historico_ingresos"`
	HistoricoGastos                decimal.Decimal `json:"historico_gastos"`
	HistoricoTransferenciasEntrada decimal.Decimal `json:"historico_transferencias_entrada"`
	HistoricoTransferenciasSalida  decimal.Decimal `json:"historico_transferencias_salida"`
	EnSobregiro                    bool            `json:"en_sobregiro"`
	UpdatedAt                      time.Time       `json:"updated_at"`
}

// MovementResponse movimiento del ledger.
type MovementResponse struct {
	ID             string          `json:"id"`
	Seq            int64           `json:"seq"`
	Tipo           string          `json:"tipo"`
	Monto          decimal.Decimal `json:"monto"`
	BancoOrigenID  string          `json:"banco_origen_id,omitempty"`
	BancoDestinoID string          `json:"banco_destino_id,omitempty"`
	Fecha          time.Time       `json:"fecha"`
	Estado         string          `json:"estado"`
	VentaID        string          `json:"venta_id,omitempty"`
	OrdenCompraID  string          `json:"orden_compra_id,omitempty"`
	DistribuidorID string          `json:"distribuidor_id,omitempty"`
	ClienteID      string          `json:"cliente_id,omitempty"`
	ProductoID     string          `json:"producto_id,omitempty"`
	CorteID        string          `json:"corte_id,omitempty"`
	Referencia     string          `json:"referencia,omitempty"`
	Concepto       string          `json:"concepto,omitempty"`
	ReversaDeID    string          `json:"reversa_de_id,omitempty"`
}

// VentaResponse venta con sus montos derivados.
type VentaResponse struct {
	ID                string          `json:"id"`
	ClienteID         string          `json:"cliente_id"`
	ProductoID        string          `json:"producto_id,omitempty"`
	OrdenCompraID     string          `json:"orden_compra_id,omitempty"`
	Cantidad          decimal.Decimal `json:"cantidad"`
	PrecioVenta       decimal.Decimal `json:"precio_venta"`
	PrecioCompra      decimal.Decimal `json:"precio_compra"`
	PrecioFlete       decimal.Decimal `json:"precio_flete"`
	Total             decimal.Decimal `json:"total"`
	MontoPagado       decimal.Decimal `json:"monto_pagado"`
	MontoRestante     decimal.Decimal `json:"monto_restante"`
	PagadoBovedaMonte decimal.Decimal `json:"pagado_boveda_monte"`
	PagadoFletes      decimal.Decimal `json:"pagado_fletes"`
	PagadoUtilidades  decimal.Decimal `json:"pagado_utilidades"`
	Estado            string          `json:"estado"`
	Fecha             time.Time       `json:"fecha"`
}

// OrdenCompraResponse orden de compra con saldo y stock disponibles.
type OrdenCompraResponse struct {
	ID              string          `json:"id"`
	DistribuidorID  string          `json:"distribuidor_id"`
	ProductoID      string          `json:"producto_id"`
	BancoOrigenID   string          `json:"banco_origen_id"`
	Cantidad        decimal.Decimal `json:"cantidad"`
	CostoTotal      decimal.Decimal `json:"costo_total"`
	MontoPagado     decimal.Decimal `json:"monto_pagado"`
	MontoRestante   decimal.Decimal `json:"monto_restante"`
	StockVendido    decimal.Decimal `json:"stock_vendido"`
	StockDisponible decimal.Decimal `json:"stock_disponible"`
	Estado          string          `json:"estado"`
	Fecha           time.Time       `json:"fecha"`
}

// CorteResponse corte de inventario.
type CorteResponse struct {
	ID                 string          `json:"id"`
	ProductoID         string          `json:"producto_id"`
	StockSistema       decimal.Decimal `json:"stock_sistema"`
	StockFisico        decimal.Decimal `json:"stock_fisico"`
	Diferencia         decimal.Decimal `json:"diferencia"`
	Estado             string          `json:"estado"`
	AjusteRealizado    bool            `json:"ajuste_realizado"`
	MovimientoAjusteID string          `json:"movimiento_ajuste_id,omitempty"`
	Fecha              time.Time       `json:"fecha"`
	AjustadoEn         *time.Time      `json:"ajustado_en,omitempty"`
}

// ProductResponse producto con stock en sistema.
type ProductResponse struct {
	ID           string          `json:"id"`
	Nombre       string          `json:"nombre"`
	StockSistema decimal.Decimal `json:"stock_sistema"`
}

// DistributorResponse distribuidor con su deuda.
type DistributorResponse struct {
	ID     string          `json:"id"`
	Nombre string          `json:"nombre"`
	Deuda  decimal.Decimal `json:"deuda"`
}

// SaleResult resultado de los comandos de venta.
type SaleResult struct {
	Venta       VentaResponse      `json:"venta"`
	Movimientos []MovementResponse `json:"movimientos"`
}

// OrderResult resultado de los comandos de órdenes de compra.
type OrderResult struct {
	Orden       OrdenCompraResponse `json:"orden"`
	Movimientos []MovementResponse  `json:"movimientos"`
	Eliminada   bool                `json:"eliminada,omitempty"`
}

// MovementResult resultado de gasto, ingreso o transferencia.
type MovementResult struct {
	Movimiento MovementResponse `json:"movimiento"`
}

// AdjustmentResult resultado de aplicar un ajuste de inventario.
type AdjustmentResult struct {
	Corte      CorteResponse     `json:"corte"`
	Movimiento *MovementResponse `json:"movimiento,omitempty"`
}
