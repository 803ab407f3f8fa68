package infra

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisNotifier publishes change events over Redis pub/sub so list views can
// refetch when another session modifies a collection. Delivery is best-effort:
// a failed publish is logged and ignored, never surfaced to the caller.
type RedisNotifier struct {
	rdb *redis.Client
}

func NewRedisNotifier(rdb *redis.Client) *RedisNotifier {
	return &RedisNotifier{rdb: rdb}
}

type cambioEvent struct {
	Coleccion string    `json:"coleccion"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func (n *RedisNotifier) PublicarCambio(ctx context.Context, coleccion string, id uuid.UUID) {
	payload, _ := json.Marshal(cambioEvent{
		Coleccion: coleccion,
		ID:        id.String(),
		Timestamp: time.Now(),
	})
	if err := n.rdb.Publish(ctx, "cambios:"+coleccion, payload).Err(); err != nil {
		log.Warn().Err(err).Str("coleccion", coleccion).Msg("no se pudo publicar el cambio")
	}
}
