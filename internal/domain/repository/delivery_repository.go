package repository

import (
	"context"
	"time"

	"github.com/jhoicas/gestao-entregas/internal/domain/entity"
)

// DeliveryFilter criterios de listado. Campos vacíos no filtran.
type DeliveryFilter struct {
	CompanyID string
	Status    entity.DeliveryStatus
	From      *time.Time // inclusive
	To        *time.Time // exclusive
	Limit     int
	Offset    int
}

// DeliveryRepository define el puerto de persistencia para Delivery (DIP).
// Las lecturas devuelven la entrega con producto y entregador desnormalizados.
type DeliveryRepository interface {
	Create(ctx context.Context, d *entity.Delivery) error
	GetByID(ctx context.Context, id string) (*entity.Delivery, error)
	// Update y UpdateStatus escriben solo si el estado guardado sigue siendo from; si otra
	// petición lo cambió devuelven domain.ErrConflict.
	Update(ctx context.Context, d *entity.Delivery, from entity.DeliveryStatus) error
	UpdateStatus(ctx context.Context, id string, from, to entity.DeliveryStatus, delivererID *string, updatedAt time.Time) error
	List(ctx context.Context, f DeliveryFilter) ([]*entity.Delivery, error)
	// CountByStatus devuelve el conteo crudo por valor de la columna status.
	CountByStatus(ctx context.Context, companyID string) (map[string]int, error)
	Delete(ctx context.Context, id string) error
}
