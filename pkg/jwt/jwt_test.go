package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/invorya/erp-admin-gateway/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testSID    = "4f2c7a1e-0000-0000-0000-000000000001"
)

func TestGenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testSID, "erp-admin-gateway", 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	sid, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testSID, sid)
}

func TestGenerate_EntradasVacias(t *testing.T) {
	_, err := pkgjwt.Generate("", testSID, "iss", 60)
	assert.Error(t, err, "secret vacío no debe firmar nada")

	_, err = pkgjwt.Generate(testSecret, "", "iss", 60)
	assert.Error(t, err, "sin SID no hay cookie que emitir")
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testSID, "iss", -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err, "una cookie vencida se trata como sesión ausente")
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testSID, "iss", 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err)
}

func TestParse_TokenMalformado(t *testing.T) {
	_, err := pkgjwt.Parse(testSecret, "cookie.adulterada.aqui")
	assert.Error(t, err)
}
