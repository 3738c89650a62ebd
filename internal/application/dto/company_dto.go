package dto

import "time"

// CompanyRequest entrada para crear o editar una empresa. El cnpj_cpf admite máscara.
type CompanyRequest struct {
	CNPJCPF     string `json:"cnpj_cpf" validate:"required,taxid"`
	RazaoSocial string `json:"razao_social" validate:"required,min=1,max=255"`
	Endereco    string `json:"endereco" validate:"max=500"`
	Logo        string `json:"logo" validate:"omitempty,max=2048"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID          string    `json:"id"`
	CNPJCPF     string    `json:"cnpj_cpf"`
	RazaoSocial string    `json:"razao_social"`
	Endereco    string    `json:"endereco"`
	Logo        string    `json:"logo"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CompanyLookupResponse datos del registro público para autocompletar el formulario.
type CompanyLookupResponse struct {
	CNPJ        string `json:"cnpj"`
	RazaoSocial string `json:"razao_social"`
	Endereco    string `json:"endereco"`
}
