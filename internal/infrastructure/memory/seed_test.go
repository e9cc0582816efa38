package memory_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/infrastructure/memory"
)

const seedYAML = `
block_types:
  - id: bt-1
    name: Bloque estándar
    raw_material_percentage: "70.5"
  - id: bt-2
    name: Bloque reciclado
mold_types:
  - id: mt-1
    name: Moldura
    pieces_per_package: 50
raw_materials:
  - id: mp-1
    name: EPS virgen
`

func writeSeed(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSeed_CargaRegistros(t *testing.T) {
	seed, err := memory.LoadSeed(writeSeed(t, "seed.yaml", seedYAML))
	require.NoError(t, err)
	require.Len(t, seed.BlockTypes, 2)

	s := memory.NewStore()
	require.NoError(t, s.ApplySeed(seed))
	ctx := context.Background()

	bt, err := s.BlockTypes().GetByID(ctx, "bt-1")
	require.NoError(t, err)
	require.NotNil(t, bt)
	assert.Equal(t, "70.5", bt.VirginPercentage().String())

	recycled, err := s.BlockTypes().GetByID(ctx, "bt-2")
	require.NoError(t, err)
	require.NotNil(t, recycled)
	assert.Nil(t, recycled.RawMaterialPercentage, "sin porcentaje = todo reciclado")

	mt, err := s.MoldTypes().GetByID(ctx, "mt-1")
	require.NoError(t, err)
	require.NotNil(t, mt)
	assert.Equal(t, 50, mt.PiecesPerPackage)

	rm, err := s.RawMaterials().GetByID(ctx, "mp-1")
	require.NoError(t, err)
	require.NotNil(t, rm)
	assert.Equal(t, "EPS virgen", rm.Name)
}

func TestLoadSeed_JSON(t *testing.T) {
	seed, err := memory.LoadSeed(writeSeed(t, "seed.json", `{"raw_materials":[{"id":"mp-9","name":"EPS"}]}`))
	require.NoError(t, err)
	require.Len(t, seed.RawMaterials, 1)
	assert.Equal(t, "mp-9", seed.RawMaterials[0].ID)
}

func TestLoadSeed_ArchivoInexistente(t *testing.T) {
	_, err := memory.LoadSeed(filepath.Join(t.TempDir(), "no-existe.yaml"))
	assert.Error(t, err)
}

func TestApplySeed_InvalidoNoCargaNada(t *testing.T) {
	s := memory.NewStore()
	err := s.ApplySeed(&memory.Seed{
		BlockTypes:   []memory.SeedBlockType{{ID: "bt-1", RawMaterialPercentage: "setenta"}},
		RawMaterials: []memory.SeedRawMaterial{{ID: "mp-1"}},
	})
	require.Error(t, err)

	rm, err := s.RawMaterials().GetByID(context.Background(), "mp-1")
	require.NoError(t, err)
	assert.Nil(t, rm)
}
