package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/gestao-entregas/internal/application/dto"
	"github.com/jhoicas/gestao-entregas/internal/domain"
	"github.com/jhoicas/gestao-entregas/internal/domain/access"
	"github.com/jhoicas/gestao-entregas/internal/domain/entity"
	"github.com/jhoicas/gestao-entregas/internal/domain/repository"
)

// ProductUseCase aplica reglas de negocio para productos. Admin opera sobre su empresa; master sobre todas.
type ProductUseCase struct {
	repo        repository.ProductRepository
	companyRepo repository.CompanyRepository
}

// NewProductUseCase construye el caso de uso con los puertos de persistencia.
func NewProductUseCase(repo repository.ProductRepository, companyRepo repository.CompanyRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, companyRepo: companyRepo}
}

// Create crea un producto. Master puede indicar empresa_id; admin siempre crea en su empresa.
func (uc *ProductUseCase) Create(ctx context.Context, actor Actor, in dto.ProductRequest) (*dto.ProductResponse, error) {
	if err := actor.require(access.PageProducts); err != nil {
		return nil, err
	}
	if err := checkPrices(in); err != nil {
		return nil, err
	}
	companyID, err := uc.targetCompany(ctx, actor, in.EmpresaID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Description: strings.TrimSpace(in.Descricao),
		CostPrice:   in.PrecoCusto,
		SalePrice:   in.PrecoVenda,
		Stock:       in.Estoque,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto visible para el actor.
func (uc *ProductUseCase) GetByID(ctx context.Context, actor Actor, id string) (*dto.ProductResponse, error) {
	if err := actor.require(access.PageProducts); err != nil {
		return nil, err
	}
	product, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista los productos del alcance del actor.
func (uc *ProductUseCase) List(ctx context.Context, actor Actor, page dto.PageRequest) ([]dto.ProductResponse, error) {
	if err := actor.require(access.PageProducts); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(ctx, actor.scope(), page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// Update reemplaza los campos editables del producto.
func (uc *ProductUseCase) Update(ctx context.Context, actor Actor, id string, in dto.ProductRequest) (*dto.ProductResponse, error) {
	if err := actor.require(access.PageProducts); err != nil {
		return nil, err
	}
	if err := checkPrices(in); err != nil {
		return nil, err
	}
	product, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	product.Description = strings.TrimSpace(in.Descricao)
	product.CostPrice = in.PrecoCusto
	product.SalePrice = in.PrecoVenda
	product.Stock = in.Estoque
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete elimina un producto. Con entregas que lo referencian el repositorio devuelve ErrConflict.
func (uc *ProductUseCase) Delete(ctx context.Context, actor Actor, id string) error {
	if err := actor.require(access.PageProducts); err != nil {
		return err
	}
	if _, err := uc.load(ctx, actor, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *ProductUseCase) load(ctx context.Context, actor Actor, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || !actor.owns(product.CompanyID) {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

func (uc *ProductUseCase) targetCompany(ctx context.Context, actor Actor, requested string) (string, error) {
	if !actor.IsMaster() || requested == "" || requested == actor.CompanyID {
		return actor.CompanyID, nil
	}
	company, err := uc.companyRepo.GetByID(ctx, requested)
	if err != nil {
		return "", err
	}
	if company == nil {
		return "", fmt.Errorf("%w: empresa_id no existe", domain.ErrInvalidInput)
	}
	return company.ID, nil
}

func checkPrices(in dto.ProductRequest) error {
	if in.PrecoCusto.IsNegative() || in.PrecoVenda.IsNegative() {
		return fmt.Errorf("%w: los precios no pueden ser negativos", domain.ErrInvalidInput)
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:         p.ID,
		Descricao:  p.Description,
		PrecoCusto: p.CostPrice,
		PrecoVenda: p.SalePrice,
		Estoque:    p.Stock,
		EmpresaID:  p.CompanyID,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
