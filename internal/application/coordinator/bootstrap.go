package coordinator

import (
	"context"

	"github.com/jhoicas/Tesoreria-api/internal/domain"
	"github.com/jhoicas/Tesoreria-api/internal/domain/entity"
	"github.com/jhoicas/Tesoreria-api/internal/domain/finance"
	"github.com/jhoicas/Tesoreria-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Bootstrap crea los siete bancos con su capital inicial. Los bancos que ya existen no
// se tocan, así que es seguro llamarlo en cada arranque.
func (c *Coordinator) Bootstrap(ctx context.Context, seeds map[entity.BankID]decimal.Decimal) error {
	for id, capital := range seeds {
		if !id.Valid() {
			return domain.NotFound("banco", string(id), domain.ErrUnknownBank)
		}
		if err := finance.CheckScale("capital_inicial", capital, c.cfg.Ledger.MoneyScale()); err != nil {
			return err
		}
	}
	created := 0
	err := c.retry(ctx, c.log, func(ctx context.Context) error {
		created = 0
		return c.tx.Run(ctx, func(repos repository.Repositories) error {
			now := c.cfg.Ledger.Clock()
			for _, id := range entity.AllBanks() {
				existing, err := repos.Banks.GetByID(ctx, id)
				if err != nil {
					return err
				}
				if existing != nil {
					continue
				}
				capital, ok := seeds[id]
				if !ok {
					capital = decimal.Zero
				}
				if err := repos.Banks.Create(ctx, entity.NewBankAccount(id, capital, now)); err != nil {
					return err
				}
				created++
			}
			return nil
		})
	})
	if err != nil {
		c.log.Error().Err(err).Msg("bootstrap de bancos fallido")
		return err
	}
	c.log.Info().Int("creados", created).Msg("bancos inicializados")
	return nil
}
