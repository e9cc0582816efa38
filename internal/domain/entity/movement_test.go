package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

var t0 = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func rawIn(qty string) *entity.Movement {
	return &entity.Movement{
		OccurredAt: t0,
		Item:       entity.RawMaterialItem{RawMaterialID: "mp-1"},
		Direction:  entity.DirectionIn,
		Quantity:   decimal.RequireFromString(qty),
		Unit:       entity.UnitKg,
		Location:   entity.SiloLocation("silo-a"),
	}
}

func block(h int) entity.BlockItem {
	return entity.BlockItem{BlockTypeID: "bt-1", LengthMM: 4060, WidthMM: 1020, HeightMM: h}
}

// ──────────────────────────────────────────────────────────────────────────────
// Movement.Validate
// ──────────────────────────────────────────────────────────────────────────────

func TestMovementValidate_MovimientoValido(t *testing.T) {
	m := rawIn("100")
	require.NoError(t, m.Validate())
	assert.Equal(t, entity.NoReference{}, m.Reference, "una referencia nil se normaliza a NoReference")
}

func TestMovementValidate_Rechazos(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(m *entity.Movement)
	}{
		{"sin ítem", func(m *entity.Movement) { m.Item = nil }},
		{"materia prima sin id", func(m *entity.Movement) { m.Item = entity.RawMaterialItem{} }},
		{"bloque sin altura", func(m *entity.Movement) {
			m.Item = entity.BlockItem{BlockTypeID: "bt-1", LengthMM: 4060, WidthMM: 1020}
			m.Unit = entity.UnitUnit
		}},
		{"sin fecha", func(m *entity.Movement) { m.OccurredAt = time.Time{} }},
		{"unidad incorrecta", func(m *entity.Movement) { m.Unit = entity.UnitUnit }},
		{"entrada con cantidad cero", func(m *entity.Movement) { m.Quantity = decimal.Zero }},
		{"salida con cantidad negativa", func(m *entity.Movement) {
			m.Direction = entity.DirectionOut
			m.Quantity = decimal.NewFromInt(-5)
		}},
		{"ajuste cero", func(m *entity.Movement) {
			m.Direction = entity.DirectionAdjust
			m.Quantity = decimal.Zero
		}},
		{"dirección desconocida", func(m *entity.Movement) { m.Direction = "transfer" }},
		{"silo sin id", func(m *entity.Movement) { m.Location = entity.Location{Type: entity.LocationSilo} }},
		{"id sin tipo de ubicación", func(m *entity.Movement) { m.Location = entity.Location{ID: "x"} }},
		{"producción sin id", func(m *entity.Movement) {
			m.Reference = entity.ProductionReference{Type: entity.ProductionTypeBlock}
		}},
		{"tipo de producción desconocido", func(m *entity.Movement) {
			m.Reference = entity.ProductionReference{Type: "Other", ID: "1"}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := rawIn("10")
			tc.mutate(m)
			assert.ErrorIs(t, m.Validate(), domain.ErrInvalidInput)
		})
	}
}

func TestMovementValidate_AjusteNegativoPermitido(t *testing.T) {
	m := rawIn("-3.5")
	m.Direction = entity.DirectionAdjust
	require.NoError(t, m.Validate())
	assert.True(t, m.SignedQuantity().Equal(decimal.RequireFromString("-3.5")))
}

func TestSignedQuantity_SalidaResta(t *testing.T) {
	m := rawIn("12")
	m.Direction = entity.DirectionOut
	assert.True(t, m.SignedQuantity().Equal(decimal.NewFromInt(-12)))
}

func TestUnitFor(t *testing.T) {
	assert.Equal(t, entity.UnitKg, entity.UnitFor(entity.ItemTypeRawMaterial))
	assert.Equal(t, entity.UnitUnit, entity.UnitFor(entity.ItemTypeBlock))
	assert.Equal(t, entity.UnitUnit, entity.UnitFor(entity.ItemTypeMolded))
}

// ──────────────────────────────────────────────────────────────────────────────
// BlockItem
// ──────────────────────────────────────────────────────────────────────────────

func TestBlockItemVolumeM3(t *testing.T) {
	vol := block(250).VolumeM3()
	assert.Equal(t, "1.0353", vol.String(), "4.06 × 1.02 × 0.25")
}

// ──────────────────────────────────────────────────────────────────────────────
// References
// ──────────────────────────────────────────────────────────────────────────────

func TestReferenceFromColumns(t *testing.T) {
	assert.Equal(t, entity.NoReference{}, entity.ReferenceFromColumns("", ""))
	assert.Equal(t, entity.MovementReference{MovementID: "m-1"},
		entity.ReferenceFromColumns(entity.MovementReferenceType, "m-1"))
	assert.Equal(t, entity.ProductionReference{Type: entity.ProductionTypeMolded, ID: "p-9"},
		entity.ReferenceFromColumns("MoldedProduction", "p-9"))
}

func TestReferenceColumns_IdaYVuelta(t *testing.T) {
	refs := []entity.Reference{
		entity.NoReference{},
		entity.MovementReference{MovementID: "m-1"},
		entity.ProductionReference{Type: entity.ProductionTypeBlock, ID: "b-1"},
	}
	for _, r := range refs {
		assert.Equal(t, r, entity.ReferenceFromColumns(r.Columns()))
	}
}

func TestIsManual(t *testing.T) {
	assert.True(t, entity.IsManual(nil))
	assert.True(t, entity.IsManual(entity.NoReference{}))
	assert.False(t, entity.IsManual(entity.MovementReference{MovementID: "x"}))
	assert.False(t, entity.IsManual(entity.ProductionReference{Type: entity.ProductionTypeBlock, ID: "1"}))
}

func TestBlockProductionCompletedAt_FallbackAlInicio(t *testing.T) {
	p := entity.BlockProduction{StartedAt: t0}
	assert.Equal(t, t0, p.CompletedAt())

	end := t0.Add(2 * time.Hour)
	p.EndedAt = end
	assert.Equal(t, end, p.CompletedAt())
}

func TestBlockTypeVirginPercentage_NilEsCero(t *testing.T) {
	assert.True(t, entity.BlockType{}.VirginPercentage().IsZero())
	pct := decimal.NewFromInt(70)
	assert.True(t, entity.BlockType{RawMaterialPercentage: &pct}.VirginPercentage().Equal(pct))
}
