// Package cache caché fail-safe sobre Redis: un fallo de Redis se comporta como un miss.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/gestao-entregas/pkg/logger"
)

// Store operaciones mínimas de caché por clave.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// Redis envuelve redis.Client tragándose los errores de conectividad.
type Redis struct {
	client *redis.Client
	log    *logger.Logger
}

// NewRedis crea el cliente. No conecta todavía; Ping informa si Redis responde.
func NewRedis(addr, password string, db int, log *logger.Logger) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}),
		log:    log,
	}
}

// Ping verifica la conexión.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close libera las conexiones.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Get devuelve el valor o ok=false si falta o Redis no responde.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	if r == nil || r.client == nil {
		return nil, false
	}
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn().Err(err).Str("key", key).Msg("redis get falló; se trata como miss")
		}
		return nil, false
	}
	return val, true
}

// Set guarda el valor con TTL ignorando errores de Redis.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if r == nil || r.client == nil {
		return
	}
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("redis set falló")
	}
}
