// Package coordinator envuelve los motores del ledger en operaciones atómicas e
// idempotentes. Es el único punto que decide reintentar o devolver un error al caller.
package coordinator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jhoicas/Tesoreria-api/internal/application/inventory"
	"github.com/jhoicas/Tesoreria-api/internal/application/ledger"
	"github.com/jhoicas/Tesoreria-api/internal/application/purchasing"
	"github.com/jhoicas/Tesoreria-api/internal/application/sales"
	"github.com/jhoicas/Tesoreria-api/internal/application/usecase"
	"github.com/jhoicas/Tesoreria-api/internal/domain"
	"github.com/jhoicas/Tesoreria-api/internal/domain/entity"
	"github.com/jhoicas/Tesoreria-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Config política de ejecución de comandos.
type Config struct {
	Ledger        ledger.Config
	Scale         int32         // decimales de la moneda
	MaxRetries    int           // reintentos ante errores de concurrencia
	RetryBase     time.Duration // base del backoff exponencial
	CommitTimeout time.Duration // plazo de cada intento; 0 = sin plazo propio
}

func (c Config) withDefaults() Config {
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryBase <= 0 {
		c.RetryBase = 25 * time.Millisecond
	}
	return c
}

// Coordinator ejecuta comandos en una unidad de trabajo por comando y sirve las consultas.
type Coordinator struct {
	tx       ledger.TxRunner
	reads    repository.Repositories
	cfg      Config
	log      zerolog.Logger
	validate *validator.Validate

	sales      *sales.Engine
	purchasing *purchasing.Engine
	inventory  *inventory.Engine
	catalog    *usecase.CatalogUseCase
}

// New construye el Coordinator. reads son repositorios fuera de transacción (pool).
func New(tx ledger.TxRunner, reads repository.Repositories, cfg Config, log zerolog.Logger) *Coordinator {
	cfg = cfg.withDefaults()
	if cfg.Ledger.Scale <= 0 {
		cfg.Ledger.Scale = cfg.Scale
	}
	return &Coordinator{
		tx:         tx,
		reads:      reads,
		cfg:        cfg,
		log:        log,
		validate:   newValidator(),
		sales:      sales.NewEngine(cfg.Ledger, cfg.Ledger.MoneyScale()),
		purchasing: purchasing.NewEngine(cfg.Ledger),
		inventory:  inventory.NewEngine(cfg.Ledger),
		catalog:    usecase.NewCatalogUseCase(cfg.Ledger.Now),
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	// decimal.Decimal como numérico para que gt=0, gte=0 funcionen sobre montos.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	// Los errores reportan el nombre json del campo.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return v
}

func (c *Coordinator) validateStruct(payload any) error {
	err := c.validate.Struct(payload)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return domain.Validation(fe.Field(), "no cumple "+fe.Tag())
	}
	return domain.Validation("payload", err.Error())
}

// execute corre fn como un comando idempotente: valida, busca la clave, ejecuta y
// guarda el resultado en la misma unidad de trabajo. Reintenta errores de concurrencia.
func execute[T any](ctx context.Context, c *Coordinator, command, key string, payload any, fn func(ctx context.Context, repos repository.Repositories) (T, error)) (T, error) {
	var zero T
	key = strings.TrimSpace(key)
	if key == "" {
		return zero, domain.Validation("idempotency_key", "requerida")
	}
	if err := c.validateStruct(payload); err != nil {
		return zero, err
	}
	fp, err := fingerprint(command, payload)
	if err != nil {
		return zero, domain.Validation("payload", err.Error())
	}

	log := c.log.With().Str("command", command).Str("key", key).Logger()
	log.Debug().Msg("ejecutando comando")

	var (
		out      T
		replayed bool
	)
	err = c.retry(ctx, log, func(ctx context.Context) error {
		out, replayed = zero, false
		return c.tx.Run(ctx, func(repos repository.Repositories) error {
			rec, err := repos.Idempotency.Get(ctx, key)
			if err != nil {
				return err
			}
			if rec != nil {
				if rec.Command != command || rec.Fingerprint != fp {
					return domain.Conflict("idempotencia", key, domain.ErrIdempotencyMismatch)
				}
				replayed = true
				return json.Unmarshal(rec.Result, &out)
			}

			res, err := fn(ctx, repos)
			if err != nil {
				return err
			}
			raw, err := json.Marshal(res)
			if err != nil {
				return domain.Persistence(err)
			}
			if err := repos.Idempotency.Save(ctx, &entity.IdempotencyRecord{
				Key:         key,
				Command:     command,
				Fingerprint: fp,
				Result:      raw,
				CreatedAt:   c.cfg.Ledger.Clock(),
			}); err != nil {
				return err
			}
			out = res
			return nil
		})
	})
	if err != nil {
		if domain.KindOf(err) == domain.KindPersistence {
			log.Error().Err(err).Msg("comando fallido")
		}
		return zero, err
	}
	if replayed {
		log.Info().Msg("comando repetido, se devuelve el resultado guardado")
	}
	return out, nil
}

// retry reintenta op mientras falle por concurrencia, con backoff exponencial y jitter completo.
func (c *Coordinator) retry(ctx context.Context, log zerolog.Logger, op func(context.Context) error) error {
	for attempt := 0; ; attempt++ {
		err := c.attempt(ctx, op)
		if err == nil || !domain.IsRetryable(err) || attempt >= c.cfg.MaxRetries {
			return err
		}
		wait := c.backoff(attempt)
		log.Warn().Err(err).Int("attempt", attempt+1).Dur("backoff", wait).Msg("contención de bloqueo, reintentando")
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return classify(ctx.Err())
		case <-timer.C:
		}
	}
}

func (c *Coordinator) attempt(ctx context.Context, op func(context.Context) error) error {
	if c.cfg.CommitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.CommitTimeout)
		defer cancel()
	}
	return classify(op(ctx))
}

func (c *Coordinator) backoff(attempt int) time.Duration {
	ceiling := c.cfg.RetryBase << attempt
	return rand.N(ceiling) + time.Millisecond
}

// classify garantiza que todo error que sale del Coordinator sea un domain.Error.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.Timeout(err)
	}
	return domain.Persistence(err)
}

// fingerprint SHA-256 del comando y su payload en JSON.
func fingerprint(command string, payload any) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(append([]byte(command+"\x00"), raw...))
	return hex.EncodeToString(sum[:]), nil
}
