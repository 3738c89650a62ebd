package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/gestao-entregas/internal/domain"
	"github.com/jhoicas/gestao-entregas/internal/domain/entity"
	"github.com/jhoicas/gestao-entregas/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `id, tax_id, legal_name, address, logo_url, created_at, updated_at`

// Create persiste una nueva empresa.
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	query := `
		INSERT INTO companies (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, c.ID, c.TaxID, c.LegalName, c.Address, c.LogoURL, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	row := r.q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
	c, err := scanCompany(row)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// GetByTaxID obtiene una empresa por CNPJ/CPF (solo dígitos).
func (r *CompanyRepo) GetByTaxID(ctx context.Context, taxID string) (*entity.Company, error) {
	row := r.q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE tax_id = $1`, taxID)
	c, err := scanCompany(row)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company by tax id: %w", err)
	}
	return c, nil
}

// Update actualiza los datos de una empresa.
func (r *CompanyRepo) Update(ctx context.Context, c *entity.Company) error {
	query := `
		UPDATE companies SET tax_id = $2, legal_name = $3, address = $4, logo_url = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, c.ID, c.TaxID, c.LegalName, c.Address, c.LogoURL, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista empresas por razón social.
func (r *CompanyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+companyColumns+` FROM companies ORDER BY legal_name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()
	var list []*entity.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Delete elimina una empresa. Con usuarios, productos o entregas asociados devuelve ErrConflict.
func (r *CompanyRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: la empresa tiene registros asociados", domain.ErrConflict)
		}
		return fmt.Errorf("delete company: %w", err)
	}
	return nil
}

func scanCompany(s rowScanner) (*entity.Company, error) {
	var c entity.Company
	if err := s.Scan(&c.ID, &c.TaxID, &c.LegalName, &c.Address, &c.LogoURL, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
