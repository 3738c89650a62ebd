package repository

import (
	"context"

	"github.com/jhoicas/gestao-entregas/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// ListByCompany lista productos de la company; companyID vacío lista todos (master).
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
}
