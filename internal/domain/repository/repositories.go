package repository

// Repositories agrupa los repositorios atados a una misma unidad de trabajo
// (pool para lecturas, o la transacción en curso dentro de TxRunner.Run).
type Repositories struct {
	Banks          BankAccountRepository
	Movements      MovementRepository
	Ventas         VentaRepository
	Orders         OrdenCompraRepository
	Distribuidores DistribuidorRepository
	Products       ProductRepository
	Cortes         CorteRepository
	Idempotency    IdempotencyRepository
}
