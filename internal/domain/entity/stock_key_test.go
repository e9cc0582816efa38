package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/entity"
)

func TestResolveStockKey_MateriaPrima(t *testing.T) {
	key, err := entity.ResolveStockKey(rawIn("5"))
	require.NoError(t, err)
	assert.Equal(t, entity.StockKey{
		ItemType: entity.ItemTypeRawMaterial,
		ItemID:   "mp-1",
		Location: entity.SiloLocation("silo-a"),
	}, key)
}

func TestResolveStockKey_BloqueIgnoraItemID(t *testing.T) {
	m := rawIn("1")
	m.Item = block(250)
	m.Unit = entity.UnitUnit
	m.Location = entity.Location{}

	key, err := entity.ResolveStockKey(m)
	require.NoError(t, err)
	assert.Empty(t, key.ItemID)
	assert.Equal(t, "bt-1", key.BlockTypeID)
	assert.Equal(t, 250, key.HeightMM)
	assert.Equal(t, entity.NoLocation, key.Location, "ubicación vacía se normaliza a none")
}

func TestResolveStockKey_BloqueSinDimensiones(t *testing.T) {
	m := rawIn("1")
	m.Item = entity.BlockItem{BlockTypeID: "bt-1", HeightMM: 250}
	_, err := entity.ResolveStockKey(m)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = entity.ResolveStockKey(&entity.Movement{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStockKeyMatches_SinUbicacionAgregaTodas(t *testing.T) {
	m := rawIn("5")
	key := entity.StockKey{ItemType: entity.ItemTypeRawMaterial, ItemID: "mp-1"}
	assert.True(t, key.Matches(m), "clave sin ubicación coincide con cualquier silo")

	key.Location = entity.SiloLocation("silo-b")
	assert.False(t, key.Matches(m))

	key.Location = entity.SiloLocation("silo-a")
	assert.True(t, key.Matches(m))
}

func TestStockKeyMatches_DimensionesDistintasNoCoinciden(t *testing.T) {
	m := rawIn("1")
	m.Item = block(250)
	m.Unit = entity.UnitUnit

	key, err := entity.ResolveStockKey(m)
	require.NoError(t, err)
	assert.True(t, key.Matches(m))

	key.HeightMM = 300
	assert.False(t, key.Matches(m))
}

func TestStockKeyValidate(t *testing.T) {
	assert.ErrorIs(t, entity.StockKey{ItemType: entity.ItemTypeMolded}.Validate(), domain.ErrInvalidInput)
	assert.ErrorIs(t, entity.StockKey{ItemType: entity.ItemTypeBlock, BlockTypeID: "bt-1"}.Validate(), domain.ErrInvalidInput)
	assert.ErrorIs(t, entity.StockKey{ItemType: "pallet", ItemID: "x"}.Validate(), domain.ErrInvalidInput)
	assert.NoError(t, entity.StockKey{ItemType: entity.ItemTypeMolded, ItemID: "mt-1"}.Validate())
}

func TestStockKeyString_Estable(t *testing.T) {
	key := entity.StockKey{ItemType: entity.ItemTypeBlock, BlockTypeID: "bt-1", LengthMM: 4060, WidthMM: 1020, HeightMM: 250, Location: entity.NoLocation}
	assert.Equal(t, "block/bt-1/4060x1020x250@none:", key.String())
	assert.Equal(t, key, key.WithoutLocation())
}
