package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/gestao-entregas/internal/domain"
	"github.com/jhoicas/gestao-entregas/internal/domain/entity"
	"github.com/jhoicas/gestao-entregas/internal/domain/repository"
)

var _ repository.DeliveryRepository = (*DeliveryRepo)(nil)

// DeliveryRepo implementación del puerto DeliveryRepository sobre PostgreSQL (usable con pool o tx).
type DeliveryRepo struct {
	q Querier
}

// NewDeliveryRepository construye el adaptador de persistencia para entregas.
func NewDeliveryRepository(q Querier) *DeliveryRepo {
	return &DeliveryRepo{q: q}
}

// La lectura trae producto y entregador desnormalizados.
const deliverySelect = `
	SELECT d.id, d.company_id, d.product_id, d.description, d.client_name, d.quantity,
	       d.deliverer_id, d.status, d.delivery_date, d.created_at, d.updated_at,
	       COALESCE(p.description, ''), COALESCE(p.sale_price, 0), COALESCE(u.name, '')
	FROM deliveries d
	LEFT JOIN products p ON p.id = d.product_id
	LEFT JOIN users u ON u.id = d.deliverer_id`

// Create persiste una nueva entrega.
func (r *DeliveryRepo) Create(ctx context.Context, d *entity.Delivery) error {
	query := `
		INSERT INTO deliveries (id, company_id, product_id, description, client_name, quantity,
		                        deliverer_id, status, delivery_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.CompanyID, d.ProductID, d.Description, d.ClientName, d.Quantity,
		d.DelivererID, string(d.Status), d.Date, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: producto o entregador inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

// GetByID obtiene una entrega por ID.
func (r *DeliveryRepo) GetByID(ctx context.Context, id string) (*entity.Delivery, error) {
	d, err := scanDelivery(r.q.QueryRow(ctx, deliverySelect+` WHERE d.id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery: %w", err)
	}
	return d, nil
}

// Update reemplaza los campos editables de la entrega si su estado sigue siendo from.
func (r *DeliveryRepo) Update(ctx context.Context, d *entity.Delivery, from entity.DeliveryStatus) error {
	query := `
		UPDATE deliveries SET product_id = $2, description = $3, client_name = $4, quantity = $5,
		       deliverer_id = $6, status = $7, delivery_date = $8, updated_at = $9
		WHERE id = $1 AND status = $10`
	tag, err := r.q.Exec(ctx, query,
		d.ID, d.ProductID, d.Description, d.ClientName, d.Quantity,
		d.DelivererID, string(d.Status), d.Date, d.UpdatedAt, string(from),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: producto o entregador inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update delivery: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return staleStatus(from)
	}
	return nil
}

// UpdateStatus cambia estado y entregador si el estado guardado sigue siendo from.
func (r *DeliveryRepo) UpdateStatus(ctx context.Context, id string, from, to entity.DeliveryStatus, delivererID *string, updatedAt time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE deliveries SET status = $2, deliverer_id = $3, updated_at = $4 WHERE id = $1 AND status = $5`,
		id, string(to), delivererID, updatedAt, string(from),
	)
	if err != nil {
		return fmt.Errorf("update delivery status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return staleStatus(from)
	}
	return nil
}

// staleStatus la fila ya no está en el estado leído (o fue eliminada entre medio).
func staleStatus(from entity.DeliveryStatus) error {
	return fmt.Errorf("%w: la entrega ya no está en estado %s", domain.ErrConflict, from)
}

// List lista entregas, más recientes primero.
func (r *DeliveryRepo) List(ctx context.Context, f repository.DeliveryFilter) ([]*entity.Delivery, error) {
	where, args := deliveryWhere(f)
	query := deliverySelect + where + ` ORDER BY d.delivery_date DESC, d.created_at DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()
	var list []*entity.Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// CountByStatus agrupa por la columna status tal cual está en la base.
func (r *DeliveryRepo) CountByStatus(ctx context.Context, companyID string) (map[string]int, error) {
	rows, err := r.q.Query(ctx, `
		SELECT status, COUNT(*) FROM deliveries
		WHERE ($1 = '' OR company_id::text = $1)
		GROUP BY status`, companyID)
	if err != nil {
		return nil, fmt.Errorf("count deliveries: %w", err)
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan delivery count: %w", err)
		}
		out[status] = n
	}
	return out, rows.Err()
}

// Delete elimina una entrega por ID.
func (r *DeliveryRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM deliveries WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete delivery: %w", err)
	}
	return nil
}

func deliveryWhere(f repository.DeliveryFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.CompanyID != "" {
		add("d.company_id = $%d", f.CompanyID)
	}
	if f.Status != "" {
		add("d.status = $%d", string(f.Status))
	}
	if f.From != nil {
		add("d.delivery_date >= $%d", *f.From)
	}
	if f.To != nil {
		add("d.delivery_date < $%d", *f.To)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanDelivery(s rowScanner) (*entity.Delivery, error) {
	var d entity.Delivery
	var status string
	err := s.Scan(
		&d.ID, &d.CompanyID, &d.ProductID, &d.Description, &d.ClientName, &d.Quantity,
		&d.DelivererID, &status, &d.Date, &d.CreatedAt, &d.UpdatedAt,
		&d.ProductDescription, &d.ProductSalePrice, &d.DelivererName,
	)
	if err != nil {
		return nil, err
	}
	d.Status = entity.DeliveryStatus(status)
	return &d, nil
}
