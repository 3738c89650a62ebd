package taxid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestao-entregas/pkg/taxid"
)

func TestValidate_CNPJConMascara(t *testing.T) {
	d, kind, err := taxid.Validate("11.222.333/0001-81")
	require.NoError(t, err)
	assert.Equal(t, "11222333000181", d)
	assert.Equal(t, taxid.KindCNPJ, kind)
}

func TestValidate_CNPJConDigitoCero(t *testing.T) {
	_, _, err := taxid.Validate("19111222000100")
	assert.NoError(t, err)
}

func TestValidate_CPF(t *testing.T) {
	d, kind, err := taxid.Validate("529.982.247-25")
	require.NoError(t, err)
	assert.Equal(t, "52998224725", d)
	assert.Equal(t, taxid.KindCPF, kind)
}

func TestValidate_DigitoInvalido(t *testing.T) {
	_, _, err := taxid.Validate("11.222.333/0001-82")
	assert.Error(t, err)
	_, _, err = taxid.Validate("529.982.247-26")
	assert.Error(t, err)
}

func TestValidate_SecuenciaRepetida(t *testing.T) {
	_, _, err := taxid.Validate("000.000.000-00")
	assert.Error(t, err)
	_, _, err = taxid.Validate("11111111111111")
	assert.Error(t, err)
}

func TestValidate_LongitudIncorrecta(t *testing.T) {
	_, kind, err := taxid.Validate("1234")
	assert.Error(t, err)
	assert.Empty(t, kind)
}

func TestFormatYCandidato(t *testing.T) {
	assert.Equal(t, "11.222.333/0001-81", taxid.Format("11222333000181"))
	assert.Equal(t, "529.982.247-25", taxid.Format("52998224725"))
	assert.Equal(t, "abc", taxid.Format("abc"))
	assert.True(t, taxid.IsCNPJCandidate("11.222.333/0001-81"))
	assert.False(t, taxid.IsCNPJCandidate("529.982.247-25"))
}
