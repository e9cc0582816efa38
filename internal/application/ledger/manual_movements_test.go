package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/application/ledger"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/entity"
)

func blockInput(qty string) ledger.ManualMovementInput {
	return ledger.ManualMovementInput{
		OccurredAt: t0,
		Item:       entity.BlockItem{BlockTypeID: "bt-1", LengthMM: 4060, WidthMM: 1020, HeightMM: 250},
		Direction:  entity.DirectionIn,
		Quantity:   d(qty),
		Location:   entity.Location{Type: entity.LocationAlmoxarifado, ID: "alm-1"},
		Notes:      "ajuste de inventario",
		UserID:     "u-1",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// PostManualMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestPostManualMovement_MateriaPrima(t *testing.T) {
	f := newFixture(t)
	id := f.post(t, entity.DirectionIn, "mp-1", "silo-a", "500", t0)

	m, err := f.manual.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entity.UnitKg, m.Unit, "la unidad se deriva del ítem")
	assert.Equal(t, entity.NoReference{}, m.Reference)
	assert.Equal(t, "u-1", m.CreatedBy)
	assert.True(t, f.rawFinal(t, "mp-1").Equal(d("500")))
}

func TestPostManualMovement_ConConsumicionEncadenada(t *testing.T) {
	f := newFixture(t)
	in := blockInput("2")
	in.Consumption = &entity.RawMaterialConsumption{RawMaterialID: "mp-1", Quantity: d("800"), Location: entity.SiloLocation("silo-a")}

	res, err := f.manual.PostManualMovement(context.Background(), in)
	require.NoError(t, err)
	require.NotEmpty(t, res.ConsumptionID)

	c, err := f.manual.Get(context.Background(), res.ConsumptionID)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementReference{MovementID: res.MovementID}, c.Reference)
	assert.Equal(t, entity.DirectionOut, c.Direction)
	assert.Equal(t, entity.UnitKg, c.Unit)
	assert.Equal(t, t0, c.OccurredAt, "misma fecha que la entrada")
	assert.True(t, f.rawFinal(t, "mp-1").Equal(d("-800")))
}

func TestPostManualMovement_SinFechaUsaAhora(t *testing.T) {
	f := newFixture(t)
	in := blockInput("1")
	in.OccurredAt = time.Time{}

	res, err := f.manual.PostManualMovement(context.Background(), in)
	require.NoError(t, err)
	m, err := f.manual.Get(context.Background(), res.MovementID)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), m.OccurredAt, time.Minute)
}

func TestPostManualMovement_Rechazos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := blockInput("1")
	in.Item = entity.RawMaterialItem{RawMaterialID: "mp-1"}
	in.Location = entity.SiloLocation("silo-a")
	in.Consumption = &entity.RawMaterialConsumption{RawMaterialID: "mp-2", Quantity: d("1")}
	_, err := f.manual.PostManualMovement(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "materia prima no declara consumición")

	in = blockInput("1")
	in.Item = entity.MoldedItem{MoldTypeID: "mt-x"}
	_, err = f.manual.PostManualMovement(ctx, in)
	assert.ErrorIs(t, err, domain.ErrReferencedEntityMissing)

	in = blockInput("0")
	_, err = f.manual.PostManualMovement(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = blockInput("1")
	in.Item = nil
	_, err = f.manual.PostManualMovement(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Empty(t, f.all(t))
}

func TestPostManualMovement_AjusteNegativo(t *testing.T) {
	f := newFixture(t)
	f.post(t, entity.DirectionIn, "mp-1", "silo-a", "100", t0)
	f.post(t, entity.DirectionAdjust, "mp-1", "silo-a", "-12.5", at(1))
	assert.True(t, f.rawFinal(t, "mp-1").Equal(d("87.5")))
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateManualMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateManualMovement_EnSitio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := blockInput("2")
	in.Consumption = &entity.RawMaterialConsumption{RawMaterialID: "mp-1", Quantity: d("800")}
	created, err := f.manual.PostManualMovement(ctx, in)
	require.NoError(t, err)
	before, err := f.manual.Get(ctx, created.MovementID)
	require.NoError(t, err)

	in.Quantity = d("3")
	in.Consumption = nil
	in.UserID = "u-2"
	res, err := f.manual.UpdateManualMovement(ctx, created.MovementID, in)
	require.NoError(t, err)
	assert.Equal(t, created.MovementID, res.MovementID)
	assert.Empty(t, res.ConsumptionID)

	after, err := f.manual.Get(ctx, created.MovementID)
	require.NoError(t, err)
	assert.True(t, after.Quantity.Equal(d("3")))
	assert.Equal(t, before.CreatedAt, after.CreatedAt)
	assert.Equal(t, "u-1", after.CreatedBy, "el autor original se conserva")

	_, err = f.manual.Get(ctx, created.ConsumptionID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "la consumición quitada se retira")
	assert.Len(t, f.all(t), 1)
}

func TestUpdateManualMovement_AgregaConsumicion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.manual.PostManualMovement(ctx, blockInput("1"))
	require.NoError(t, err)

	in := blockInput("1")
	in.Consumption = &entity.RawMaterialConsumption{RawMaterialID: "mp-2", Quantity: d("40")}
	res, err := f.manual.UpdateManualMovement(ctx, created.MovementID, in)
	require.NoError(t, err)
	assert.NotEmpty(t, res.ConsumptionID)
	assert.True(t, f.rawFinal(t, "mp-2").Equal(d("-40")))
}

func TestUpdateManualMovement_MovimientoDeProduccionEsConflicto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	synced, err := f.sync.SyncBlockProduction(ctx, blockRecord("bp-1"))
	require.NoError(t, err)

	_, err = f.manual.UpdateManualMovement(ctx, synced.Owned.StockInID, blockInput("5"))
	assert.ErrorIs(t, err, domain.ErrConflict)

	m, err := f.manual.Get(ctx, synced.Owned.StockInID)
	require.NoError(t, err)
	assert.True(t, m.Quantity.Equal(d("1")), "sin cambios")
}

func TestUpdateManualMovement_Inexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.manual.UpdateManualMovement(context.Background(), "no-existe", blockInput("1"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// DeleteManualMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteManualMovement_SiempreRechazado(t *testing.T) {
	f := newFixture(t)
	id := f.post(t, entity.DirectionIn, "mp-1", "silo-a", "10", t0)

	err := f.manual.DeleteManualMovement(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrAuditViolation)

	_, err = f.manual.Get(context.Background(), id)
	assert.NoError(t, err)
	assert.True(t, f.rawFinal(t, "mp-1").Equal(d("10")))
}
