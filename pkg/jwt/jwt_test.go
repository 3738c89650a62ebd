package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/gestao-entregas/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

var testIdentity = pkgjwt.Identity{
	UserID:    "00000000-0000-0000-0000-000000000001",
	CompanyID: "00000000-0000-0000-0000-000000000002",
	Role:      "entregador",
}

func TestGenerateAndParse_ConRole(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testIdentity, "gestao-test", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	id, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testIdentity, id)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testIdentity, "gestao-test", -time.Minute)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testIdentity, "gestao-test", time.Hour)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", testIdentity, "gestao-test", time.Hour)
	assert.Error(t, err)
}
