// Package memory implementa los repositorios y el TxRunner en memoria (desarrollo y tests).
// Las unidades de trabajo se serializan y un error restaura el snapshot previo.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/Tesoreria-api/internal/domain"
	"github.com/jhoicas/Tesoreria-api/internal/domain/entity"
	"github.com/jhoicas/Tesoreria-api/internal/domain/repository"
)

// Store estado en memoria compartido por todos los repositorios.
type Store struct {
	mu sync.RWMutex
	st *state
}

// NewStore crea un store vacío (sin bancos; ver Coordinator.Bootstrap).
func NewStore() *Store {
	return &Store{st: newState()}
}

type state struct {
	banks    map[entity.BankID]entity.BankAccount
	movs     []entity.Movement // orden de Seq
	movIdx   map[string]int
	ventas   map[string]entity.Venta
	orders   map[string]entity.OrdenCompra
	dists    map[string]entity.Distribuidor
	products map[string]entity.Producto
	cortes   map[string]entity.CorteInventario
	idem     map[string]entity.IdempotencyRecord
	seq      int64
}

func newState() *state {
	return &state{
		banks:    make(map[entity.BankID]entity.BankAccount),
		movIdx:   make(map[string]int),
		ventas:   make(map[string]entity.Venta),
		orders:   make(map[string]entity.OrdenCompra),
		dists:    make(map[string]entity.Distribuidor),
		products: make(map[string]entity.Producto),
		cortes:   make(map[string]entity.CorteInventario),
		idem:     make(map[string]entity.IdempotencyRecord),
	}
}

// snapshot copia profunda de mapas y slices; los valores son structs por valor.
func (s *state) snapshot() *state {
	c := &state{
		banks:    make(map[entity.BankID]entity.BankAccount, len(s.banks)),
		movs:     append([]entity.Movement(nil), s.movs...),
		movIdx:   make(map[string]int, len(s.movIdx)),
		ventas:   make(map[string]entity.Venta, len(s.ventas)),
		orders:   make(map[string]entity.OrdenCompra, len(s.orders)),
		dists:    make(map[string]entity.Distribuidor, len(s.dists)),
		products: make(map[string]entity.Producto, len(s.products)),
		cortes:   make(map[string]entity.CorteInventario, len(s.cortes)),
		idem:     make(map[string]entity.IdempotencyRecord, len(s.idem)),
		seq:      s.seq,
	}
	for k, v := range s.banks {
		c.banks[k] = v
	}
	for k, v := range s.movIdx {
		c.movIdx[k] = v
	}
	for k, v := range s.ventas {
		c.ventas[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.dists {
		c.dists[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.cortes {
		c.cortes[k] = v
	}
	for k, v := range s.idem {
		c.idem[k] = v
	}
	return c
}

// Repositories repositorios fuera de transacción (cada operación toma el lock).
func (s *Store) Repositories() repository.Repositories {
	return s.view(false)
}

func (s *Store) view(inTx bool) repository.Repositories {
	v := &view{store: s, inTx: inTx}
	return repository.Repositories{
		Banks:          &bankRepo{v},
		Movements:      &movementRepo{v},
		Ventas:         &ventaRepo{v},
		Orders:         &orderRepo{v},
		Distribuidores: &distribuidorRepo{v},
		Products:       &productRepo{v},
		Cortes:         &corteRepo{v},
		Idempotency:    &idempotencyRepo{v},
	}
}

// TxRunner implementa ledger.TxRunner sobre el Store.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con el lock exclusivo tomado. Si fn falla, o el contexto vence antes
// del "commit", el estado vuelve al snapshot tomado al inicio.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return mapContextErr(err)
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	snapshot := r.store.st.snapshot()
	if err := fn(r.store.view(true)); err != nil {
		r.store.st = snapshot
		return err
	}
	if err := ctx.Err(); err != nil {
		r.store.st = snapshot
		return mapContextErr(err)
	}
	return nil
}

func mapContextErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.Timeout(err)
	}
	return domain.Persistence(err)
}

// view acceso al estado: dentro de una tx el lock ya está tomado por Run.
type view struct {
	store *Store
	inTx  bool
}

func (v *view) read(fn func(st *state)) {
	if !v.inTx {
		v.store.mu.RLock()
		defer v.store.mu.RUnlock()
	}
	fn(v.store.st)
}

func (v *view) write(fn func(st *state) error) error {
	if !v.inTx {
		v.store.mu.Lock()
		defer v.store.mu.Unlock()
	}
	return fn(v.store.st)
}
