package jwt_test

import (
	"testing"

	"github.com/jhoicas/inventario-ledger/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse(t *testing.T) {
	tok, err := jwt.Generate("s3cret", "user-1", jwt.RoleBodeguero, "test", 5)
	require.NoError(t, err)

	user, role, err := jwt.Parse("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", user)
	assert.Equal(t, jwt.RoleBodeguero, role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := jwt.Generate("s3cret", "user-1", jwt.RoleAdmin, "test", 5)
	require.NoError(t, err)

	_, _, err = jwt.Parse("otro", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := jwt.Generate("s3cret", "user-1", jwt.RoleAdmin, "test", -1)
	require.NoError(t, err)

	_, _, err = jwt.Parse("s3cret", tok)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "user-1", jwt.RoleAdmin, "test", 5)
	assert.Error(t, err)
	_, _, err = jwt.Parse("", "x")
	assert.Error(t, err)
}
