package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jhoicas/gestao-entregas/internal/application/ports"
)

var _ ports.CompanyRegistry = (*CachedRegistry)(nil)

const registryKeyPrefix = "cnpj:office:"

// CachedRegistry decorador de CompanyRegistry que guarda las respuestas positivas.
// Los "no encontrado" y los errores no se cachean.
type CachedRegistry struct {
	next  ports.CompanyRegistry
	store Store
	ttl   time.Duration
}

// NewCachedRegistry construye el decorador.
func NewCachedRegistry(next ports.CompanyRegistry, store Store, ttl time.Duration) *CachedRegistry {
	return &CachedRegistry{next: next, store: store, ttl: ttl}
}

// Lookup consulta la caché y, en miss, el registro subyacente.
func (c *CachedRegistry) Lookup(ctx context.Context, cnpj string) (*ports.RegistryCompany, error) {
	key := registryKeyPrefix + cnpj
	if raw, ok := c.store.Get(ctx, key); ok {
		var hit ports.RegistryCompany
		if err := json.Unmarshal(raw, &hit); err == nil {
			return &hit, nil
		}
	}
	found, err := c.next.Lookup(ctx, cnpj)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(found); err == nil {
		c.store.Set(ctx, key, raw, c.ttl)
	}
	return found, nil
}
