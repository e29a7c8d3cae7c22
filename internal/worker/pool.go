package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/JoaoGabrielll7/pdvconveniencia/internal/model"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/repository"
)

const QueueAuditoria = "jobs:auditoria"

// AuditEvent é o payload enfileirado para cada ação auditável.
type AuditEvent struct {
	UsuarioID  uuid.UUID `json:"usuario_id"`
	Acao       string    `json:"acao"`
	IP         *string   `json:"ip,omitempty"`
	UserAgent  *string   `json:"user_agent,omitempty"`
	OcorridoEm string    `json:"ocorrido_em"` // RFC 3339
}

type metaKey struct{}

type requestMeta struct {
	IP        string
	UserAgent string
}

// WithRequestMeta anexa IP e user-agent da requisição ao contexto, para que
// os services registrem auditoria sem conhecer o transporte HTTP.
func WithRequestMeta(ctx context.Context, ip, userAgent string) context.Context {
	return context.WithValue(ctx, metaKey{}, requestMeta{IP: ip, UserAgent: userAgent})
}

func metaFromCtx(ctx context.Context) (string, string, bool) {
	m, ok := ctx.Value(metaKey{}).(requestMeta)
	return m.IP, m.UserAgent, ok
}

// Dispatcher enfileira eventos de auditoria numa lista Redis.
// O worker pool consome via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// Registrar enfileira o evento em best-effort: falha de fila é logada e
// descartada, nunca propagada — auditoria não derruba a operação principal.
func (d *Dispatcher) Registrar(ctx context.Context, usuarioID uuid.UUID, acao string) {
	ev := AuditEvent{
		UsuarioID:  usuarioID,
		Acao:       acao,
		OcorridoEm: time.Now().UTC().Format(time.RFC3339),
	}
	if ip, ua, ok := metaFromCtx(ctx); ok {
		if ip != "" {
			ev.IP = &ip
		}
		if ua != "" {
			ev.UserAgent = &ua
		}
	}

	data, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("acao", acao).Msg("auditoria: falha ao serializar evento")
		return
	}
	if err := d.rdb.LPush(ctx, QueueAuditoria, data).Err(); err != nil {
		log.Error().Err(err).Str("acao", acao).Msg("auditoria: falha ao enfileirar evento")
	}
}

// StartWorkerPool sobe numWorkers goroutines consumindo a fila de auditoria.
// Cada goroutine bloqueia em BRPOP — zero CPU quando ociosa.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, audit repository.AuditRepository, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, audit, i)
	}
	log.Info().Msgf("worker pool iniciado com %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, audit repository.AuditRepository, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d encerrando", id)
			return
		default:
			// Pop bloqueante — espera até 5s e volta a checar o ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueAuditoria).Result()
			if err != nil {
				continue // timeout ou contexto cancelado
			}
			if len(result) < 2 {
				continue
			}
			processAuditEvent(ctx, rdb, audit, result[1])
		}
	}
}

func processAuditEvent(ctx context.Context, rdb *redis.Client, audit repository.AuditRepository, raw string) {
	var ev AuditEvent
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		log.Error().Err(err).Msg("auditoria: evento ilegível")
		SendToDLQ(ctx, rdb, QueueAuditoria, "auditoria", json.RawMessage(raw), "unmarshal: "+err.Error(), 1)
		return
	}

	entry := &model.AuditLog{
		UsuarioID: ev.UsuarioID,
		Acao:      ev.Acao,
		IP:        ev.IP,
		UserAgent: ev.UserAgent,
	}
	if t, err := time.Parse(time.RFC3339, ev.OcorridoEm); err == nil {
		entry.CreatedAt = t
	}

	if err := audit.Create(ctx, entry); err != nil {
		log.Error().Err(err).Str("acao", ev.Acao).Msg("auditoria: falha ao persistir")
		SendToDLQ(ctx, rdb, QueueAuditoria, "auditoria", json.RawMessage(raw), "persist: "+err.Error(), 1)
	}
}
