package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryStatus estado del ciclo de vida de una entrega.
type DeliveryStatus string

// Estados de entrega. StatusInTransit es un estado heredado: se acepta al leer y se cuenta en
// las estadísticas, pero ningún flujo actual lo asigna.
const (
	StatusPending   DeliveryStatus = "pendente"
	StatusInTransit DeliveryStatus = "em_transito"
	StatusDelivered DeliveryStatus = "entregue"
	StatusCancelled DeliveryStatus = "cancelada"
)

// DeliveryStatuses devuelve todos los estados conocidos en orden de presentación.
func DeliveryStatuses() []DeliveryStatus {
	return []DeliveryStatus{StatusPending, StatusInTransit, StatusDelivered, StatusCancelled}
}

// Known informa si el estado pertenece al conjunto conocido.
func (s DeliveryStatus) Known() bool {
	switch s {
	case StatusPending, StatusInTransit, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Terminal informa si el estado no admite transiciones de salida.
func (s DeliveryStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Delivery representa una entrega de una cantidad de un producto a un cliente.
type Delivery struct {
	ID          string
	CompanyID   string
	ProductID   string
	Description string
	ClientName  string
	Quantity    int
	DelivererID *string // nil = sin entregador asignado
	Status      DeliveryStatus
	Date        time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Datos desnormalizados para lectura (JOIN); no se persisten desde aquí.
	ProductDescription string
	ProductSalePrice   decimal.Decimal
	DelivererName      string
}

// AssignedTo informa si la entrega está asignada al usuario indicado.
func (d *Delivery) AssignedTo(userID string) bool {
	return d.DelivererID != nil && *d.DelivererID == userID
}

// TotalValue devuelve quantidade × preço de venda.
func (d *Delivery) TotalValue() decimal.Decimal {
	return d.ProductSalePrice.Mul(decimal.NewFromInt(int64(d.Quantity)))
}
