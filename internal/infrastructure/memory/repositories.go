package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Tesoreria-api/internal/domain"
	"github.com/jhoicas/Tesoreria-api/internal/domain/entity"
)

// En memoria no hay bloqueo de fila: GetForUpdate equivale a GetByID porque Run ya
// serializa las unidades de trabajo.

// ── Bancos ────────────────────────────────────────────────────────────────────

type bankRepo struct{ v *view }

func (r *bankRepo) Create(_ context.Context, a *entity.BankAccount) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.banks[a.ID]; ok {
			return domain.Conflict("banco", string(a.ID), domain.ErrDuplicate)
		}
		st.banks[a.ID] = *a
		return nil
	})
}

func (r *bankRepo) GetByID(_ context.Context, id entity.BankID) (*entity.BankAccount, error) {
	var out *entity.BankAccount
	r.v.read(func(st *state) {
		if a, ok := st.banks[id]; ok {
			out = &a
		}
	})
	return out, nil
}

func (r *bankRepo) GetForUpdate(ctx context.Context, id entity.BankID) (*entity.BankAccount, error) {
	return r.GetByID(ctx, id)
}

func (r *bankRepo) List(_ context.Context) ([]*entity.BankAccount, error) {
	var out []*entity.BankAccount
	r.v.read(func(st *state) {
		for _, id := range entity.AllBanks() {
			if a, ok := st.banks[id]; ok {
				out = append(out, &a)
			}
		}
	})
	return out, nil
}

func (r *bankRepo) Update(_ context.Context, a *entity.BankAccount) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.banks[a.ID]; !ok {
			return domain.NotFound("banco", string(a.ID), domain.ErrUnknownBank)
		}
		st.banks[a.ID] = *a
		return nil
	})
}

// ── Movimientos ───────────────────────────────────────────────────────────────

type movementRepo struct{ v *view }

func (r *movementRepo) Create(_ context.Context, m *entity.Movement) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.movIdx[m.ID]; ok {
			return domain.Conflict("movimiento", m.ID, domain.ErrDuplicate)
		}
		st.seq++
		m.Seq = st.seq
		st.movIdx[m.ID] = len(st.movs)
		st.movs = append(st.movs, *m)
		return nil
	})
}

func (r *movementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	var out *entity.Movement
	r.v.read(func(st *state) {
		if i, ok := st.movIdx[id]; ok {
			m := st.movs[i]
			out = &m
		}
	})
	return out, nil
}

func (r *movementRepo) List(_ context.Context, f entity.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	r.v.read(func(st *state) {
		skipped := 0
		for i := range st.movs {
			if !f.Matches(&st.movs[i]) {
				continue
			}
			if skipped < f.Offset {
				skipped++
				continue
			}
			m := st.movs[i]
			out = append(out, &m)
			if f.Limit > 0 && len(out) >= f.Limit {
				return
			}
		}
	})
	return out, nil
}

func (r *movementRepo) ListAfter(_ context.Context, after int64, limit int) ([]*entity.Movement, error) {
	var out []*entity.Movement
	r.v.read(func(st *state) {
		start := sort.Search(len(st.movs), func(i int) bool { return st.movs[i].Seq > after })
		for i := start; i < len(st.movs); i++ {
			m := st.movs[i]
			out = append(out, &m)
			if limit > 0 && len(out) >= limit {
				return
			}
		}
	})
	return out, nil
}

// ── Ventas ────────────────────────────────────────────────────────────────────

type ventaRepo struct{ v *view }

func (r *ventaRepo) Create(_ context.Context, v *entity.Venta) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.ventas[v.ID]; ok {
			return domain.Conflict("venta", v.ID, domain.ErrDuplicate)
		}
		st.ventas[v.ID] = *v
		return nil
	})
}

func (r *ventaRepo) GetByID(_ context.Context, id string) (*entity.Venta, error) {
	var out *entity.Venta
	r.v.read(func(st *state) {
		if v, ok := st.ventas[id]; ok {
			out = &v
		}
	})
	return out, nil
}

func (r *ventaRepo) GetForUpdate(ctx context.Context, id string) (*entity.Venta, error) {
	return r.GetByID(ctx, id)
}

func (r *ventaRepo) Update(_ context.Context, v *entity.Venta) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.ventas[v.ID]; !ok {
			return domain.NotFound("venta", v.ID, domain.ErrSaleNotFound)
		}
		st.ventas[v.ID] = *v
		return nil
	})
}

// ── Órdenes de compra ─────────────────────────────────────────────────────────

type orderRepo struct{ v *view }

func (r *orderRepo) Create(_ context.Context, o *entity.OrdenCompra) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.orders[o.ID]; ok {
			return domain.Conflict("orden_compra", o.ID, domain.ErrDuplicate)
		}
		st.orders[o.ID] = *o
		return nil
	})
}

func (r *orderRepo) GetByID(_ context.Context, id string) (*entity.OrdenCompra, error) {
	var out *entity.OrdenCompra
	r.v.read(func(st *state) {
		if o, ok := st.orders[id]; ok {
			out = &o
		}
	})
	return out, nil
}

func (r *orderRepo) GetForUpdate(ctx context.Context, id string) (*entity.OrdenCompra, error) {
	return r.GetByID(ctx, id)
}

func (r *orderRepo) Update(_ context.Context, o *entity.OrdenCompra) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.orders[o.ID]; !ok {
			return domain.NotFound("orden_compra", o.ID, domain.ErrOrderNotFound)
		}
		st.orders[o.ID] = *o
		return nil
	})
}

func (r *orderRepo) Delete(_ context.Context, id string) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.orders[id]; !ok {
			return domain.NotFound("orden_compra", id, domain.ErrOrderNotFound)
		}
		delete(st.orders, id)
		return nil
	})
}

// ── Distribuidores ────────────────────────────────────────────────────────────

type distribuidorRepo struct{ v *view }

func (r *distribuidorRepo) Create(_ context.Context, d *entity.Distribuidor) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.dists[d.ID]; ok {
			return domain.Conflict("distribuidor", d.ID, domain.ErrDuplicate)
		}
		st.dists[d.ID] = *d
		return nil
	})
}

func (r *distribuidorRepo) GetByID(_ context.Context, id string) (*entity.Distribuidor, error) {
	var out *entity.Distribuidor
	r.v.read(func(st *state) {
		if d, ok := st.dists[id]; ok {
			out = &d
		}
	})
	return out, nil
}

func (r *distribuidorRepo) GetForUpdate(ctx context.Context, id string) (*entity.Distribuidor, error) {
	return r.GetByID(ctx, id)
}

func (r *distribuidorRepo) Update(_ context.Context, d *entity.Distribuidor) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.dists[d.ID]; !ok {
			return domain.NotFound("distribuidor", d.ID, domain.ErrDistributorNotFound)
		}
		st.dists[d.ID] = *d
		return nil
	})
}

// ── Productos ─────────────────────────────────────────────────────────────────

type productRepo struct{ v *view }

func (r *productRepo) Create(_ context.Context, p *entity.Producto) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.products[p.ID]; ok {
			return domain.Conflict("producto", p.ID, domain.ErrDuplicate)
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Producto, error) {
	var out *entity.Producto
	r.v.read(func(st *state) {
		if p, ok := st.products[id]; ok {
			out = &p
		}
	})
	return out, nil
}

func (r *productRepo) GetForUpdate(ctx context.Context, id string) (*entity.Producto, error) {
	return r.GetByID(ctx, id)
}

func (r *productRepo) Update(_ context.Context, p *entity.Producto) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.products[p.ID]; !ok {
			return domain.NotFound("producto", p.ID, domain.ErrProductNotFound)
		}
		st.products[p.ID] = *p
		return nil
	})
}

// ── Cortes de inventario ──────────────────────────────────────────────────────

type corteRepo struct{ v *view }

func (r *corteRepo) Create(_ context.Context, c *entity.CorteInventario) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.cortes[c.ID]; ok {
			return domain.Conflict("corte", c.ID, domain.ErrDuplicate)
		}
		st.cortes[c.ID] = *c
		return nil
	})
}

func (r *corteRepo) GetByID(_ context.Context, id string) (*entity.CorteInventario, error) {
	var out *entity.CorteInventario
	r.v.read(func(st *state) {
		if c, ok := st.cortes[id]; ok {
			out = &c
		}
	})
	return out, nil
}

func (r *corteRepo) GetForUpdate(ctx context.Context, id string) (*entity.CorteInventario, error) {
	return r.GetByID(ctx, id)
}

func (r *corteRepo) Update(_ context.Context, c *entity.CorteInventario) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.cortes[c.ID]; !ok {
			return domain.NotFound("corte", c.ID, domain.ErrCorteNotFound)
		}
		st.cortes[c.ID] = *c
		return nil
	})
}

func (r *corteRepo) ListPendientes(_ context.Context) ([]*entity.CorteInventario, error) {
	var out []*entity.CorteInventario
	r.v.read(func(st *state) {
		for _, c := range st.cortes {
			if !c.AjusteRealizado {
				out = append(out, &c)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Fecha.Equal(out[j].Fecha) {
			return out[i].ID < out[j].ID
		}
		return out[i].Fecha.Before(out[j].Fecha)
	})
	return out, nil
}

// ── Idempotencia ──────────────────────────────────────────────────────────────

type idempotencyRepo struct{ v *view }

func (r *idempotencyRepo) Get(_ context.Context, key string) (*entity.IdempotencyRecord, error) {
	var out *entity.IdempotencyRecord
	r.v.read(func(st *state) {
		if rec, ok := st.idem[key]; ok {
			out = &rec
		}
	})
	return out, nil
}

func (r *idempotencyRepo) Save(_ context.Context, rec *entity.IdempotencyRecord) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.idem[rec.Key]; ok {
			return domain.Concurrency(domain.ErrDuplicate)
		}
		st.idem[rec.Key] = *rec
		return nil
	})
}
