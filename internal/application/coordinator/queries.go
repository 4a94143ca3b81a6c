package coordinator

import (
	"context"
	"time"

	"github.com/jhoicas/Tesoreria-api/internal/application/dto"
	"github.com/jhoicas/Tesoreria-api/internal/application/ledger"
	"github.com/jhoicas/Tesoreria-api/internal/domain"
	"github.com/jhoicas/Tesoreria-api/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// GetBankAccount saldo y acumuladores de un banco.
func (c *Coordinator) GetBankAccount(ctx context.Context, id string) (*dto.BankAccountResponse, error) {
	bank, err := parseBank(id)
	if err != nil {
		return nil, err
	}
	acc, err := ledger.NewBankStore(c.reads.Banks, c.cfg.Ledger).Get(ctx, bank)
	if err != nil {
		return nil, classify(err)
	}
	return toBankAccountResponse(acc), nil
}

// ListBankAccounts los siete bancos.
func (c *Coordinator) ListBankAccounts(ctx context.Context) ([]*dto.BankAccountResponse, error) {
	list, err := c.reads.Banks.List(ctx)
	if err != nil {
		return nil, classify(err)
	}
	out := make([]*dto.BankAccountResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toBankAccountResponse(b))
	}
	return out, nil
}

// ListMovements movimientos filtrados por tipo, estado, banco y rango de fechas.
func (c *Coordinator) ListMovements(ctx context.Context, in dto.MovementListRequest) ([]dto.MovementResponse, error) {
	if err := c.validateStruct(in); err != nil {
		return nil, err
	}
	in.DefaultPage()
	filter := entity.MovementFilter{
		Tipo:   entity.MovementType(in.Tipo),
		Estado: entity.MovementState(in.Estado),
		Limit:  in.Limit,
		Offset: in.Offset,
	}
	if in.BancoID != "" {
		bank, err := parseBank(in.BancoID)
		if err != nil {
			return nil, err
		}
		filter.BancoID = bank
	}
	if in.Desde != "" {
		t, err := time.Parse(dateLayout, in.Desde)
		if err != nil {
			return nil, domain.Validation("desde", "fecha inválida")
		}
		filter.From = &t
	}
	if in.Hasta != "" {
		t, err := time.Parse(dateLayout, in.Hasta)
		if err != nil {
			return nil, domain.Validation("hasta", "fecha inválida")
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.To = &end
	}
	list, err := ledger.New(c.reads, c.cfg.Ledger).List(ctx, filter)
	if err != nil {
		return nil, classify(err)
	}
	return toMovementResponses(list), nil
}

// ListByTrace movimientos asociados a una venta, orden, distribuidor, cliente, producto o corte.
func (c *Coordinator) ListByTrace(ctx context.Context, field, value string) ([]dto.MovementResponse, error) {
	list, err := ledger.New(c.reads, c.cfg.Ledger).ListByTrace(ctx, entity.TraceField(field), value)
	if err != nil {
		return nil, classify(err)
	}
	return toMovementResponses(list), nil
}

// GetOrder orden de compra por id.
func (c *Coordinator) GetOrder(ctx context.Context, id string) (*dto.OrdenCompraResponse, error) {
	o, err := c.reads.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, classify(err)
	}
	if o == nil {
		return nil, domain.NotFound("orden_compra", id, domain.ErrOrderNotFound)
	}
	out := toOrdenResponse(o)
	return &out, nil
}

// GetSale venta por id.
func (c *Coordinator) GetSale(ctx context.Context, id string) (*dto.VentaResponse, error) {
	v, err := c.reads.Ventas.GetByID(ctx, id)
	if err != nil {
		return nil, classify(err)
	}
	if v == nil {
		return nil, domain.NotFound("venta", id, domain.ErrSaleNotFound)
	}
	out := toVentaResponse(v)
	return &out, nil
}

// ListCortesPendientesDeAjuste cortes registrados aún sin ajustar.
func (c *Coordinator) ListCortesPendientesDeAjuste(ctx context.Context) ([]dto.CorteResponse, error) {
	list, err := c.inventory.ListPendientes(ctx, c.reads)
	if err != nil {
		return nil, classify(err)
	}
	out := make([]dto.CorteResponse, 0, len(list))
	for _, corte := range list {
		out = append(out, toCorteResponse(corte))
	}
	return out, nil
}
