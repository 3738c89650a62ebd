package dto

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestao-entregas/internal/domain"
)

func TestValidate_CreateDeliveryMultiProducto(t *testing.T) {
	req := CreateDeliveryRequest{
		Descricao: "Pedido 42",
		Cliente:   "Mercado Central",
		Produtos: []DeliveryItem{
			{ProdutoID: "6f1c1f2e-8a4b-4c1d-9a4e-1b2c3d4e5f60", Quantidade: 2},
			{ProdutoID: "not-a-uuid", Quantidade: 0},
		},
	}
	err := Validate(req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Contains(t, err.Error(), "produtos[1].produto_id")
	assert.Contains(t, err.Error(), "produtos[1].quantidade")
	assert.NotContains(t, err.Error(), "produtos[0]")
}

func TestCreateDeliveryRequest_Items(t *testing.T) {
	single := CreateDeliveryRequest{ProdutoID: "p1", Quantidade: 3}
	assert.Equal(t, []DeliveryItem{{ProdutoID: "p1", Quantidade: 3}}, single.Items())

	multi := CreateDeliveryRequest{
		ProdutoID:  "p1",
		Quantidade: 3,
		Produtos:   []DeliveryItem{{ProdutoID: "p2", Quantidade: 1}, {ProdutoID: "p3", Quantidade: 4}},
	}
	assert.Len(t, multi.Items(), 2)
	assert.Equal(t, "p2", multi.Items()[0].ProdutoID)

	assert.Empty(t, CreateDeliveryRequest{}.Items())
}

func TestValidate_CompanyTaxID(t *testing.T) {
	ok := CompanyRequest{CNPJCPF: "11.222.333/0001-81", RazaoSocial: "Distribuidora Alfa"}
	assert.NoError(t, Validate(ok))

	bad := CompanyRequest{CNPJCPF: "11.222.333/0001-82", RazaoSocial: "Distribuidora Alfa"}
	err := Validate(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cnpj_cpf no es un CNPJ/CPF válido")
}

func TestValidate_UserRoleFueraDelConjunto(t *testing.T) {
	req := CreateUserRequest{Nome: "Ana", Email: "ana@exemplo.com", Senha: "segredo1", TipoUsuario: "vendedor"}
	err := Validate(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tipo_usuario debe ser uno de: master admin entregador")
}

func TestValidate_UpdateUserSenhaVaciaPermitida(t *testing.T) {
	req := UpdateUserRequest{Nome: "Ana", Email: "ana@exemplo.com", TipoUsuario: "admin"}
	assert.NoError(t, Validate(req))
}
