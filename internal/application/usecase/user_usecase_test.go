package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/gestao-entregas/internal/application/dto"
	"github.com/jhoicas/gestao-entregas/internal/application/usecase"
	"github.com/jhoicas/gestao-entregas/internal/domain"
	"github.com/jhoicas/gestao-entregas/internal/domain/entity"
)

func newUserFixture(t *testing.T) (*usecase.UserUseCase, *memUsers) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("senha-antiga"), bcrypt.MinCost)
	require.NoError(t, err)
	users := newMemUsers(
		&entity.User{ID: "master-1", CompanyID: companyA, Name: "Master", Email: "master@exemplo.com", Role: entity.RoleMaster, PasswordHash: string(hash)},
		&entity.User{ID: adminA, CompanyID: companyA, Name: "Admin", Email: "admin@exemplo.com", Role: entity.RoleAdmin, PasswordHash: string(hash)},
		&entity.User{ID: driver1, CompanyID: companyA, Name: "Carlos", Email: "carlos@exemplo.com", Role: entity.RoleEntregador, PasswordHash: string(hash)},
		&entity.User{ID: "driver-b", CompanyID: companyB, Name: "Bia", Email: "bia@exemplo.com", Role: entity.RoleEntregador, PasswordHash: string(hash)},
	)
	companies := newMemCompanies(
		&entity.Company{ID: companyA, TaxID: "11222333000181", LegalName: "Alfa"},
		&entity.Company{ID: companyB, TaxID: "19111222000100", LegalName: "Beta"},
	)
	return usecase.NewUserUseCase(users, companies), users
}

func TestUserCreate_AdminEnSuEmpresa(t *testing.T) {
	uc, users := newUserFixture(t)
	out, err := uc.Create(context.Background(), actorAdmin, dto.CreateUserRequest{
		Nome: "Nova", Email: " Nova@Exemplo.com ", Senha: "segredo1", TipoUsuario: "entregador",
	})
	require.NoError(t, err)
	assert.Equal(t, companyA, out.EmpresaID)
	assert.Equal(t, "nova@exemplo.com", out.Email)

	stored, _ := users.GetByID(context.Background(), out.ID)
	require.NotNil(t, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("segredo1")))
}

func TestUserCreate_AdminNoCreaMaster(t *testing.T) {
	uc, _ := newUserFixture(t)
	_, err := uc.Create(context.Background(), actorAdmin, dto.CreateUserRequest{
		Nome: "X", Email: "x@exemplo.com", Senha: "segredo1", TipoUsuario: "master",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUserCreate_AdminNoCreaEnOtraEmpresa(t *testing.T) {
	uc, _ := newUserFixture(t)
	_, err := uc.Create(context.Background(), actorAdmin, dto.CreateUserRequest{
		Nome: "X", Email: "x@exemplo.com", Senha: "segredo1", TipoUsuario: "entregador", EmpresaID: companyB,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUserCreate_EmailDuplicado(t *testing.T) {
	uc, _ := newUserFixture(t)
	_, err := uc.Create(context.Background(), actorMaster, dto.CreateUserRequest{
		Nome: "X", Email: "carlos@exemplo.com", Senha: "segredo1", TipoUsuario: "entregador",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestUserUpdate_SenhaVaciaConservaLaActual(t *testing.T) {
	uc, users := newUserFixture(t)
	out, err := uc.Update(context.Background(), actorAdmin, driver1, dto.UpdateUserRequest{
		Nome: "Carlos Silva", Email: "carlos@exemplo.com", TipoUsuario: "entregador",
	})
	require.NoError(t, err)
	assert.Equal(t, "Carlos Silva", out.Nome)

	stored, _ := users.GetByID(context.Background(), driver1)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("senha-antiga")))
}

func TestUserUpdate_NoCambiaSuPropioRol(t *testing.T) {
	uc, _ := newUserFixture(t)
	_, err := uc.Update(context.Background(), actorAdmin, adminA, dto.UpdateUserRequest{
		Nome: "Admin", Email: "admin@exemplo.com", TipoUsuario: "entregador",
	})
	assert.ErrorIs(t, err, domain.ErrSelfRoleChange)
}

func TestUserUpdate_AdminNoPromueveAMaster(t *testing.T) {
	uc, _ := newUserFixture(t)
	_, err := uc.Update(context.Background(), actorAdmin, driver1, dto.UpdateUserRequest{
		Nome: "Carlos", Email: "carlos@exemplo.com", TipoUsuario: "master",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUserDelete_NoSeEliminaASiMismo(t *testing.T) {
	uc, _ := newUserFixture(t)
	assert.ErrorIs(t, uc.Delete(context.Background(), actorAdmin, adminA), domain.ErrSelfDelete)
}

func TestUserDelete_OtraEmpresaNoEncontrado(t *testing.T) {
	uc, _ := newUserFixture(t)
	assert.ErrorIs(t, uc.Delete(context.Background(), actorAdmin, "driver-b"), domain.ErrUserNotFound)
	assert.NoError(t, uc.Delete(context.Background(), actorMaster, "driver-b"))
}

func TestUserList_AlcancePorRol(t *testing.T) {
	uc, _ := newUserFixture(t)
	own, err := uc.List(context.Background(), actorAdmin, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, own, 3)

	all, err := uc.List(context.Background(), actorMaster, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	_, err = uc.List(context.Background(), actorDriver, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
