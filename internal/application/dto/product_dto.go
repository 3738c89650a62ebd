package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRequest entrada para crear o editar un producto (PUT reemplaza todos los campos).
type ProductRequest struct {
	Descricao  string          `json:"descricao" validate:"required,min=1,max=255"`
	PrecoCusto decimal.Decimal `json:"preco_custo"`
	PrecoVenda decimal.Decimal `json:"preco_venda"`
	Estoque    int             `json:"estoque" validate:"min=0"`
	EmpresaID  string          `json:"empresa_id" validate:"omitempty,uuid"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID         string          `json:"id"`
	Descricao  string          `json:"descricao"`
	PrecoCusto decimal.Decimal `json:"preco_custo"`
	PrecoVenda decimal.Decimal `json:"preco_venda"`
	Estoque    int             `json:"estoque"`
	EmpresaID  string          `json:"empresa_id"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
