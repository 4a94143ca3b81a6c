// Package feed publica los movimientos confirmados hacia consumidores externos.
// Corre fuera de la frontera de commit: un fallo se registra y se reintenta en el
// siguiente tick sin afectar al ledger.
package feed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jhoicas/Tesoreria-api/internal/domain/entity"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Source lee movimientos confirmados en orden de seq.
type Source interface {
	ListAfter(ctx context.Context, after int64, limit int) ([]*entity.Movement, error)
}

// Sink recibe lotes de envelopes ya serializados.
type Sink interface {
	Publish(ctx context.Context, envelopes [][]byte) error
}

// CursorStore persiste el último seq publicado.
type CursorStore interface {
	Load(ctx context.Context) (int64, error)
	Save(ctx context.Context, seq int64) error
}

// Envelope formato JSON publicado por cada movimiento.
type Envelope struct {
	Type      string          `json:"type"`
	Seq       int64           `json:"seq"`
	ID        string          `json:"id"`
	Tipo      string          `json:"tipo"`
	Estado    string          `json:"estado"`
	Monto     decimal.Decimal `json:"monto"`
	Origen    string          `json:"banco_origen_id,omitempty"`
	Destino   string          `json:"banco_destino_id,omitempty"`
	VentaID   string          `json:"venta_id,omitempty"`
	OrdenID   string          `json:"orden_compra_id,omitempty"`
	CorteID   string          `json:"corte_id,omitempty"`
	ReversaDe string          `json:"reversa_de_id,omitempty"`
	Fecha     time.Time       `json:"fecha"`
}

const envelopeType = "movimiento.confirmado"

// NewEnvelope arma el envelope de un movimiento.
func NewEnvelope(m *entity.Movement) Envelope {
	return Envelope{
		Type:      envelopeType,
		Seq:       m.Seq,
		ID:        m.ID,
		Tipo:      string(m.Tipo),
		Estado:    string(m.Estado),
		Monto:     m.Monto,
		Origen:    string(m.BancoOrigenID),
		Destino:   string(m.BancoDestinoID),
		VentaID:   m.VentaID,
		OrdenID:   m.OrdenCompraID,
		CorteID:   m.CorteID,
		ReversaDe: m.ReversaDeID,
		Fecha:     m.Fecha,
	}
}

// Config ritmo del relay.
type Config struct {
	Interval  time.Duration
	BatchSize int
}

// Relay copia movimientos nuevos desde Source hacia Sink avanzando el cursor.
type Relay struct {
	src    Source
	sink   Sink
	cursor CursorStore
	cfg    Config
	log    zerolog.Logger
}

// NewRelay construye el relay. Valores no positivos toman 1s y 100.
func NewRelay(src Source, sink Sink, cursor CursorStore, cfg Config, log zerolog.Logger) *Relay {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	return &Relay{src: src, sink: sink, cursor: cursor, cfg: cfg, log: log.With().Str("component", "feed").Logger()}
}

// Run publica en cada tick hasta que ctx se cancele.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()
	r.log.Info().Dur("interval", r.cfg.Interval).Msg("relay de movimientos iniciado")
	for {
		select {
		case <-ctx.Done():
			r.log.Info().Msg("relay de movimientos detenido")
			return
		case <-ticker.C:
			if _, err := r.Drain(ctx); err != nil && ctx.Err() == nil {
				r.log.Warn().Err(err).Msg("no se pudo publicar el lote, se reintenta en el próximo tick")
			}
		}
	}
}

// Drain publica todos los lotes pendientes y devuelve cuántos movimientos salieron.
func (r *Relay) Drain(ctx context.Context) (int, error) {
	total := 0
	for {
		n, err := r.Tick(ctx)
		total += n
		if err != nil || n < r.cfg.BatchSize {
			return total, err
		}
	}
}

// Tick publica un lote. El cursor solo avanza tras un Publish exitoso, de modo que
// la entrega es al menos una vez.
func (r *Relay) Tick(ctx context.Context) (int, error) {
	after, err := r.cursor.Load(ctx)
	if err != nil {
		return 0, err
	}
	movs, err := r.src.ListAfter(ctx, after, r.cfg.BatchSize)
	if err != nil {
		return 0, err
	}
	if len(movs) == 0 {
		return 0, nil
	}
	batch := make([][]byte, 0, len(movs))
	for _, m := range movs {
		raw, err := json.Marshal(NewEnvelope(m))
		if err != nil {
			return 0, err
		}
		batch = append(batch, raw)
	}
	if err := r.sink.Publish(ctx, batch); err != nil {
		return 0, err
	}
	last := movs[len(movs)-1].Seq
	if err := r.cursor.Save(ctx, last); err != nil {
		return 0, err
	}
	r.log.Debug().Int("count", len(movs)).Int64("seq", last).Msg("lote publicado")
	return len(movs), nil
}
