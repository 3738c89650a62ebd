package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/gestao-entregas/internal/application/dto"
	"github.com/jhoicas/gestao-entregas/internal/domain"
	"github.com/jhoicas/gestao-entregas/internal/domain/access"
	"github.com/jhoicas/gestao-entregas/internal/domain/entity"
	"github.com/jhoicas/gestao-entregas/internal/domain/repository"
)

// UserUseCase aplica reglas de negocio para usuarios.
//
// Reglas:
//   - admin gestiona solo usuarios de su empresa y no crea ni promueve master;
//   - nadie se elimina a sí mismo ni cambia su propio rol;
//   - editar con senha vacía conserva la contraseña actual.
type UserUseCase struct {
	repo        repository.UserRepository
	companyRepo repository.CompanyRepository
	hashCost    int
}

// NewUserUseCase construye el caso de uso con los puertos de persistencia.
func NewUserUseCase(repo repository.UserRepository, companyRepo repository.CompanyRepository) *UserUseCase {
	return &UserUseCase{repo: repo, companyRepo: companyRepo, hashCost: bcrypt.DefaultCost}
}

// Create crea un usuario con la senha hasheada (bcrypt).
func (uc *UserUseCase) Create(ctx context.Context, actor Actor, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := actor.require(access.PageUsers); err != nil {
		return nil, err
	}
	role := entity.Role(in.TipoUsuario)
	if err := checkAssignableRole(actor, role); err != nil {
		return nil, err
	}
	companyID, err := uc.targetCompany(ctx, actor, in.EmpresaID)
	if err != nil {
		return nil, err
	}
	email := normalizeEmail(in.Email)
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Senha), uc.hashCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Name:         strings.TrimSpace(in.Nome),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// GetByID obtiene un usuario del alcance del actor.
func (uc *UserUseCase) GetByID(ctx context.Context, actor Actor, id string) (*dto.UserResponse, error) {
	if err := actor.require(access.PageUsers); err != nil {
		return nil, err
	}
	user, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// List lista usuarios del alcance del actor.
func (uc *UserUseCase) List(ctx context.Context, actor Actor, page dto.PageRequest) ([]dto.UserResponse, error) {
	if err := actor.require(access.PageUsers); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(ctx, actor.scope(), page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *ToUserResponse(u))
	}
	return items, nil
}

// Update edita un usuario. Senha vacía conserva la actual.
func (uc *UserUseCase) Update(ctx context.Context, actor Actor, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if err := actor.require(access.PageUsers); err != nil {
		return nil, err
	}
	user, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	role := entity.Role(in.TipoUsuario)
	if role != user.Role {
		if user.ID == actor.UserID {
			return nil, domain.ErrSelfRoleChange
		}
		if err := checkAssignableRole(actor, role); err != nil {
			return nil, err
		}
	}
	// admin tampoco edita a un master existente.
	if user.Role == entity.RoleMaster && !actor.IsMaster() {
		return nil, fmt.Errorf("%w: solo master edita usuarios master", domain.ErrForbidden)
	}
	email := normalizeEmail(in.Email)
	if email != user.Email {
		other, err := uc.repo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != user.ID {
			return nil, domain.ErrEmailAlreadyExists
		}
	}
	if in.EmpresaID != "" && in.EmpresaID != user.CompanyID {
		companyID, err := uc.targetCompany(ctx, actor, in.EmpresaID)
		if err != nil {
			return nil, err
		}
		user.CompanyID = companyID
	}
	if in.Senha != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Senha), uc.hashCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	user.Name = strings.TrimSpace(in.Nome)
	user.Email = email
	user.Role = role
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// Delete elimina un usuario distinto del actor.
func (uc *UserUseCase) Delete(ctx context.Context, actor Actor, id string) error {
	if err := actor.require(access.PageUsers); err != nil {
		return err
	}
	if id == actor.UserID {
		return domain.ErrSelfDelete
	}
	user, err := uc.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if user.Role == entity.RoleMaster && !actor.IsMaster() {
		return fmt.Errorf("%w: solo master elimina usuarios master", domain.ErrForbidden)
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *UserUseCase) load(ctx context.Context, actor Actor, id string) (*entity.User, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || !actor.owns(user.CompanyID) {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// targetCompany resuelve la empresa del usuario: admin siempre la propia; master la indicada.
func (uc *UserUseCase) targetCompany(ctx context.Context, actor Actor, requested string) (string, error) {
	if requested == "" || requested == actor.CompanyID {
		return actor.CompanyID, nil
	}
	if !actor.IsMaster() {
		return "", fmt.Errorf("%w: admin solo gestiona usuarios de su empresa", domain.ErrForbidden)
	}
	company, err := uc.companyRepo.GetByID(ctx, requested)
	if err != nil {
		return "", err
	}
	if company == nil {
		return "", fmt.Errorf("%w: empresa_id no existe", domain.ErrInvalidInput)
	}
	return company.ID, nil
}

func checkAssignableRole(actor Actor, role entity.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: tipo_usuario %q", domain.ErrInvalidInput, role)
	}
	if role == entity.RoleMaster && !actor.IsMaster() {
		return fmt.Errorf("%w: solo master asigna el rol master", domain.ErrForbidden)
	}
	return nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
