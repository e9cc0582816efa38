package http_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"

	_ "github.com/thiagoschoeffel/TSAdmin-sub000/docs"
)

// ──────────────────────────────────────────────────────────────────────────────
// Documento OpenAPI
// ──────────────────────────────────────────────────────────────────────────────

type swaggerDoc struct {
	BasePath string                                `json:"basePath"`
	Paths    map[string]map[string]json.RawMessage `json:"paths"`
}

func TestSwagger_CubreTodasLasRutasDelLibro(t *testing.T) {
	raw, err := swag.ReadDoc()
	require.NoError(t, err)
	var doc swaggerDoc
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "/", doc.BasePath)

	app := buildTestApp(t)
	documented := map[string]bool{}
	for _, r := range app.GetRoutes(true) {
		if !strings.HasPrefix(r.Path, "/api/ledger") {
			continue
		}
		switch r.Method {
		case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
		default:
			continue
		}
		path := swaggerPath(r.Path)
		ops, ok := doc.Paths[path]
		if assert.True(t, ok, "ruta sin documentar: %s", path) {
			_, ok = ops[strings.ToLower(r.Method)]
			assert.True(t, ok, "método sin documentar: %s %s", r.Method, path)
		}
		documented[strings.ToLower(r.Method)+" "+path] = true
	}

	for path, ops := range doc.Paths {
		for method := range ops {
			assert.True(t, documented[method+" "+path], "documentada pero no registrada: %s %s", method, path)
		}
	}
}

// swaggerPath convierte /movements/:id/ en /movements/{id}.
func swaggerPath(p string) string {
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	parts := strings.Split(p, "/")
	for i, part := range parts {
		if strings.HasPrefix(part, ":") {
			parts[i] = "{" + part[1:] + "}"
		}
	}
	return strings.Join(parts, "/")
}
