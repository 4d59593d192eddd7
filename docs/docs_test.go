package docs_test

import (
	"encoding/json"
	"os"
	"testing"

	_ "github.com/jhoicas/inventario-ledger/docs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestDocumentoRegistrado(t *testing.T) {
	doc, err := swag.ReadDoc()
	require.NoError(t, err)

	var spec struct {
		BasePath string         `json:"basePath"`
		Paths    map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &spec))
	assert.Equal(t, "/api", spec.BasePath)
	for _, p := range []string{"/movements", "/transfers/{id}/cancel", "/damages/{id}/dispose", "/replenishment"} {
		assert.Contains(t, spec.Paths, p)
	}
}

func TestSwaggerJSONCoincideConRegistro(t *testing.T) {
	raw, err := os.ReadFile("swagger.json")
	require.NoError(t, err)
	var file, registered map[string]any
	require.NoError(t, json.Unmarshal(raw, &file))

	doc, err := swag.ReadDoc()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(doc), &registered))
	assert.Equal(t, file["paths"], registered["paths"])
	assert.Equal(t, file["definitions"], registered["definitions"])
}
