package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/gestao-entregas/internal/application/dto"
	"github.com/jhoicas/gestao-entregas/internal/application/ports"
	"github.com/jhoicas/gestao-entregas/internal/domain"
	"github.com/jhoicas/gestao-entregas/internal/domain/access"
	"github.com/jhoicas/gestao-entregas/internal/domain/entity"
	"github.com/jhoicas/gestao-entregas/internal/domain/repository"
	"github.com/jhoicas/gestao-entregas/pkg/taxid"
)

// CompanyUseCase aplica reglas de negocio para empresas. Todas las operaciones son exclusivas de master.
type CompanyUseCase struct {
	repo     repository.CompanyRepository
	registry ports.CompanyRegistry
}

// NewCompanyUseCase construye el caso de uso. registry puede ser nil (consulta deshabilitada).
func NewCompanyUseCase(repo repository.CompanyRepository, registry ports.CompanyRegistry) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, registry: registry}
}

// Create crea una nueva empresa. Devuelve domain.ErrDuplicate si el CNPJ/CPF ya existe.
func (uc *CompanyUseCase) Create(ctx context.Context, actor Actor, in dto.CompanyRequest) (*dto.CompanyResponse, error) {
	if err := actor.require(access.PageCompanies); err != nil {
		return nil, err
	}
	digits, _, err := taxid.Validate(in.CNPJCPF)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	existing, err := uc.repo.GetByTaxID(ctx, digits)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		TaxID:     digits,
		LegalName: strings.TrimSpace(in.RazaoSocial),
		Address:   strings.TrimSpace(in.Endereco),
		LogoURL:   strings.TrimSpace(in.Logo),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// GetByID obtiene una empresa por ID.
func (uc *CompanyUseCase) GetByID(ctx context.Context, actor Actor, id string) (*dto.CompanyResponse, error) {
	if err := actor.require(access.PageCompanies); err != nil {
		return nil, err
	}
	company, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// List lista empresas.
func (uc *CompanyUseCase) List(ctx context.Context, actor Actor, page dto.PageRequest) ([]dto.CompanyResponse, error) {
	if err := actor.require(access.PageCompanies); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCompanyResponse(c))
	}
	return items, nil
}

// Update reemplaza los datos de la empresa. El CNPJ/CPF no puede colisionar con otra empresa.
func (uc *CompanyUseCase) Update(ctx context.Context, actor Actor, id string, in dto.CompanyRequest) (*dto.CompanyResponse, error) {
	if err := actor.require(access.PageCompanies); err != nil {
		return nil, err
	}
	company, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	digits, _, err := taxid.Validate(in.CNPJCPF)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if digits != company.TaxID {
		other, err := uc.repo.GetByTaxID(ctx, digits)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != company.ID {
			return nil, domain.ErrDuplicate
		}
	}
	company.TaxID = digits
	company.LegalName = strings.TrimSpace(in.RazaoSocial)
	company.Address = strings.TrimSpace(in.Endereco)
	company.LogoURL = strings.TrimSpace(in.Logo)
	company.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// Delete elimina la empresa.
func (uc *CompanyUseCase) Delete(ctx context.Context, actor Actor, id string) error {
	if err := actor.require(access.PageCompanies); err != nil {
		return err
	}
	if _, err := uc.load(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// Lookup consulta el registro público por CNPJ (14 dígitos, con o sin máscara).
func (uc *CompanyUseCase) Lookup(ctx context.Context, actor Actor, cnpj string) (*dto.CompanyLookupResponse, error) {
	if err := actor.require(access.PageCompanies); err != nil {
		return nil, err
	}
	if uc.registry == nil {
		return nil, fmt.Errorf("%w: consulta de CNPJ deshabilitada", domain.ErrNotFound)
	}
	digits, kind, err := taxid.Validate(cnpj)
	if err != nil || kind != taxid.KindCNPJ {
		return nil, fmt.Errorf("%w: se requiere un CNPJ válido de 14 dígitos", domain.ErrInvalidInput)
	}
	found, err := uc.registry.Lookup(ctx, digits)
	if err != nil {
		if errors.Is(err, ports.ErrRegistryNotFound) {
			return nil, fmt.Errorf("%w: %v", domain.ErrNotFound, err)
		}
		return nil, err
	}
	return &dto.CompanyLookupResponse{CNPJ: digits, RazaoSocial: found.RazaoSocial, Endereco: found.Endereco}, nil
}

func (uc *CompanyUseCase) load(ctx context.Context, id string) (*entity.Company, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return company, nil
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:          c.ID,
		CNPJCPF:     c.TaxID,
		RazaoSocial: c.LegalName,
		Endereco:    c.Address,
		Logo:        c.LogoURL,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
