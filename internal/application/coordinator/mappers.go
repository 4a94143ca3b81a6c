package coordinator

import (
	"github.com/jhoicas/Tesoreria-api/internal/application/dto"
	"github.com/jhoicas/Tesoreria-api/internal/application/purchasing"
	"github.com/jhoicas/Tesoreria-api/internal/application/sales"
	"github.com/jhoicas/Tesoreria-api/internal/domain/entity"
)

func toBankAccountResponse(b *entity.BankAccount) *dto.BankAccountResponse {
	return &dto.BankAccountResponse{
		ID:                             string(b.ID),
		Nombre:                         b.Nombre,
		CapitalInicial:                 b.CapitalInicial,
		CapitalActual:                  b.CapitalActual,
		HistoricoIngresos:              b.HistoricoIngresos,
		HistoricoGastos:                b.HistoricoGastos,
		HistoricoTransferenciasEntrada: b.HistoricoTransferenciasEntrada,
		HistoricoTransferenciasSalida:  b.HistoricoTransferenciasSalida,
		EnSobregiro:                    b.EnSobregiro(),
		UpdatedAt:                      b.UpdatedAt,
	}
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:             m.ID,
		Seq:            m.Seq,
		Tipo:           string(m.Tipo),
		Monto:          m.Monto,
		BancoOrigenID:  string(m.BancoOrigenID),
		BancoDestinoID: string(m.BancoDestinoID),
		Fecha:          m.Fecha,
		Estado:         string(m.Estado),
		VentaID:        m.VentaID,
		OrdenCompraID:  m.OrdenCompraID,
		DistribuidorID: m.DistribuidorID,
		ClienteID:      m.ClienteID,
		ProductoID:     m.ProductoID,
		CorteID:        m.CorteID,
		Referencia:     m.Referencia,
		Concepto:       m.Concepto,
		ReversaDeID:    m.ReversaDeID,
	}
}

func toMovementResponses(ms []*entity.Movement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, toMovementResponse(m))
	}
	return out
}

func toVentaResponse(v *entity.Venta) dto.VentaResponse {
	return dto.VentaResponse{
		ID:                v.ID,
		ClienteID:         v.ClienteID,
		ProductoID:        v.ProductoID,
		OrdenCompraID:     v.OrdenCompraID,
		Cantidad:          v.Cantidad,
		PrecioVenta:       v.PrecioVenta,
		PrecioCompra:      v.PrecioCompra,
		PrecioFlete:       v.PrecioFlete,
		Total:             v.Total(),
		MontoPagado:       v.MontoPagado,
		MontoRestante:     v.MontoRestante(),
		PagadoBovedaMonte: v.PagadoBovedaMonte,
		PagadoFletes:      v.PagadoFletes,
		PagadoUtilidades:  v.PagadoUtilidades,
		Estado:            string(v.Estado),
		Fecha:             v.Fecha,
	}
}

func toOrdenResponse(o *entity.OrdenCompra) dto.OrdenCompraResponse {
	return dto.OrdenCompraResponse{
		ID:              o.ID,
		DistribuidorID:  o.DistribuidorID,
		ProductoID:      o.ProductoID,
		BancoOrigenID:   string(o.BancoOrigenID),
		Cantidad:        o.Cantidad,
		CostoTotal:      o.CostoTotal,
		MontoPagado:     o.MontoPagado,
		MontoRestante:   o.MontoRestante(),
		StockVendido:    o.StockVendido,
		StockDisponible: o.StockDisponible(),
		Estado:          string(o.Estado),
		Fecha:           o.Fecha,
	}
}

func toCorteResponse(c *entity.CorteInventario) dto.CorteResponse {
	return dto.CorteResponse{
		ID:                 c.ID,
		ProductoID:         c.ProductoID,
		StockSistema:       c.StockSistema,
		StockFisico:        c.StockFisico,
		Diferencia:         c.Diferencia,
		Estado:             string(c.Estado),
		AjusteRealizado:    c.AjusteRealizado,
		MovimientoAjusteID: c.MovimientoAjusteID,
		Fecha:              c.Fecha,
		AjustadoEn:         c.AjustadoEn,
	}
}

func toProductResponse(p *entity.Producto) *dto.ProductResponse {
	return &dto.ProductResponse{ID: p.ID, Nombre: p.Nombre, StockSistema: p.StockSistema}
}

func toDistributorResponse(d *entity.Distribuidor) *dto.DistributorResponse {
	return &dto.DistributorResponse{ID: d.ID, Nombre: d.Nombre, Deuda: d.Deuda}
}

func toSaleResult(r *sales.Result) *dto.SaleResult {
	return &dto.SaleResult{
		Venta:       toVentaResponse(r.Venta),
		Movimientos: toMovementResponses(r.Movements),
	}
}

func toOrderResult(r *purchasing.Result, eliminada bool) *dto.OrderResult {
	return &dto.OrderResult{
		Orden:       toOrdenResponse(r.Orden),
		Movimientos: toMovementResponses(r.Movements),
		Eliminada:   eliminada,
	}
}
