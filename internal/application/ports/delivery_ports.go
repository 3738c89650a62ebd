package ports

import (
	"context"

	"github.com/jhoicas/gestao-entregas/internal/domain/entity"
	"github.com/jhoicas/gestao-entregas/internal/domain/repository"
)

// DeliveryTxRunner ejecuta fn dentro de una transacción con repos atados a ella.
type DeliveryTxRunner interface {
	RunDeliveries(ctx context.Context, fn func(
		deliveryRepo repository.DeliveryRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// DeliveryReport datos de entrada del informe de entregas.
type DeliveryReport struct {
	Company    *entity.Company // nil si el informe abarca todas las empresas
	Deliveries []*entity.Delivery
	ByStatus   map[entity.DeliveryStatus]int
	Title      string
}

// ReportGenerator genera el documento del informe y devuelve sus bytes.
type ReportGenerator interface {
	GenerateDeliveryReport(ctx context.Context, report DeliveryReport) ([]byte, error)
}
