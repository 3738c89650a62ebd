package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryItem un producto y su cantidad dentro de una creación múltiple.
type DeliveryItem struct {
	ProdutoID  string `json:"produto_id" validate:"required,uuid"`
	Quantidade int    `json:"quantidade" validate:"required,min=1"`
}

// CreateDeliveryRequest entrada para crear entregas. Acepta un único produto_id+quantidade
// o la lista produtos; cada ítem genera una entrega pendente.
type CreateDeliveryRequest struct {
	Descricao    string         `json:"descricao" validate:"required,min=1,max=500"`
	Cliente      string         `json:"cliente" validate:"required,min=1,max=255"`
	ProdutoID    string         `json:"produto_id" validate:"omitempty,uuid"`
	Quantidade   int            `json:"quantidade" validate:"omitempty,min=1"`
	Produtos     []DeliveryItem `json:"produtos" validate:"omitempty,dive"`
	Data         *time.Time     `json:"data"`
	EntregadorID *string        `json:"entregador_id" validate:"omitempty,uuid"`
}

// Items normaliza las dos formas de entrada. La lista produtos tiene prioridad.
func (r CreateDeliveryRequest) Items() []DeliveryItem {
	if len(r.Produtos) > 0 {
		return r.Produtos
	}
	if r.ProdutoID == "" {
		return nil
	}
	return []DeliveryItem{{ProdutoID: r.ProdutoID, Quantidade: r.Quantidade}}
}

// UpdateDeliveryRequest entrada del PUT completo de una entrega.
type UpdateDeliveryRequest struct {
	Descricao    string     `json:"descricao" validate:"required,min=1,max=500"`
	Cliente      string     `json:"cliente" validate:"required,min=1,max=255"`
	ProdutoID    string     `json:"produto_id" validate:"required,uuid"`
	Quantidade   int        `json:"quantidade" validate:"required,min=1"`
	Status       string     `json:"status" validate:"required"`
	Data         *time.Time `json:"data"`
	EntregadorID *string    `json:"entregador_id" validate:"omitempty,uuid"`
}

// UpdateStatusRequest entrada del PATCH /entregas/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// DeliveryProduct producto embebido en la lectura de una entrega.
type DeliveryProduct struct {
	ID         string          `json:"id"`
	Descricao  string          `json:"descricao"`
	PrecoVenda decimal.Decimal `json:"preco_venda"`
}

// DeliveryUser entregador embebido en la lectura de una entrega.
type DeliveryUser struct {
	ID   string `json:"id"`
	Nome string `json:"nome"`
}

// DeliveryResponse salida de una entrega.
type DeliveryResponse struct {
	ID           string           `json:"id"`
	Descricao    string           `json:"descricao"`
	Cliente      string           `json:"cliente"`
	Quantidade   int              `json:"quantidade"`
	ProdutoID    string           `json:"produto_id"`
	Produto      *DeliveryProduct `json:"produto"`
	EntregadorID *string          `json:"entregador_id"`
	Entregador   *DeliveryUser    `json:"entregador"`
	Status       string           `json:"status"`
	Data         time.Time        `json:"data"`
	EmpresaID    string           `json:"empresa_id"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// DeliveryStatsResponse conteo de entregas por estado. Desconhecidos solo aparece si la
// base contiene estados fuera del conjunto conocido.
type DeliveryStatsResponse struct {
	Total         int            `json:"total"`
	Pendente      int            `json:"pendente"`
	EmTransito    int            `json:"em_transito"`
	Entregue      int            `json:"entregue"`
	Cancelada     int            `json:"cancelada"`
	Desconhecidos map[string]int `json:"desconhecidos,omitempty"`
}

// ReportRange rango de fechas del informe (inicio inclusive, fim inclusive).
type ReportRange struct {
	Inicio time.Time
	Fim    time.Time
}
