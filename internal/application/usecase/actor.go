package usecase

import (
	"fmt"

	"github.com/jhoicas/gestao-entregas/internal/application/dto"
	"github.com/jhoicas/gestao-entregas/internal/domain"
	"github.com/jhoicas/gestao-entregas/internal/domain/access"
	"github.com/jhoicas/gestao-entregas/internal/domain/entity"
)

// Actor identidad de quien ejecuta el caso de uso (viene del JWT).
type Actor struct {
	UserID    string
	CompanyID string
	Role      entity.Role
}

// IsMaster informa si el actor administra todas las empresas.
func (a Actor) IsMaster() bool { return a.Role == entity.RoleMaster }

// require devuelve ErrForbidden si el rol del actor no alcanza la página.
func (a Actor) require(p access.Page) error {
	if !access.Allowed(a.Role, p) {
		return fmt.Errorf("%w: %s no accede a %s", domain.ErrForbidden, a.Role, p)
	}
	return nil
}

// scope company visible para el actor; vacío significa todas (master).
func (a Actor) scope() string {
	if a.IsMaster() {
		return ""
	}
	return a.CompanyID
}

// owns informa si el recurso de companyID entra en el alcance del actor.
func (a Actor) owns(companyID string) bool {
	return a.IsMaster() || a.CompanyID == companyID
}

// ToUserResponse mapea la entidad a su DTO de salida (sin hash).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	out := &dto.UserResponse{
		ID:          u.ID,
		Nome:        u.Name,
		Email:       u.Email,
		TipoUsuario: string(u.Role),
		EmpresaID:   u.CompanyID,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
	if u.CompanyName != "" {
		out.Empresa = &dto.CompanySummary{ID: u.CompanyID, RazaoSocial: u.CompanyName}
	}
	return out
}
