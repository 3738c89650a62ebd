package ports

import (
	"context"
	"errors"
)

// ErrRegistryNotFound el registro público no conoce el CNPJ consultado.
var ErrRegistryNotFound = errors.New("cnpj no encontrado en el registro")

// RegistryCompany datos mínimos devueltos por el registro público de empresas.
type RegistryCompany struct {
	CNPJ        string `json:"cnpj"`
	RazaoSocial string `json:"razao_social"`
	Endereco    string `json:"endereco"`
}

// CompanyRegistry define el puerto de salida hacia el registro público de empresas (CNPJ).
// Cualquier adaptador (open.cnpja.com, caché, mock) implementa esta interfaz.
type CompanyRegistry interface {
	// Lookup consulta un CNPJ de 14 dígitos. El contexto debe llevar timeout.
	Lookup(ctx context.Context, cnpj string) (*RegistryCompany, error)
}
