package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de una empresa.
type Product struct {
	ID          string
	CompanyID   string
	Description string
	CostPrice   decimal.Decimal // preço de custo
	SalePrice   decimal.Decimal // preço de venda
	Stock       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
