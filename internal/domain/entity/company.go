package entity

import "time"

// Company representa una empresa/tenant dueña de productos, usuarios y entregas.
type Company struct {
	ID        string
	TaxID     string // CNPJ o CPF, solo dígitos
	LegalName string // razão social
	Address   string
	LogoURL   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
