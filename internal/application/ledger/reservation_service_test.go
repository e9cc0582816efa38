package ledger_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/application/ledger"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/entity"
)

func qty(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func silos(ids ...string) []entity.PointingSilo {
	out := make([]entity.PointingSilo, len(ids))
	for i, id := range ids {
		out[i] = entity.PointingSilo{SiloID: id}
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// SplitAcrossSilos
// ──────────────────────────────────────────────────────────────────────────────

func TestSplitAcrossSilos_RepartoEquitativo(t *testing.T) {
	got, err := ledger.SplitAcrossSilos(d("100"), silos("s-1", "s-2", "s-3"))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "33.3333", got[0].String())
	assert.Equal(t, "33.3333", got[1].String())
	assert.Equal(t, "33.3334", got[2].String(), "el redondeo va al último silo")
	assert.True(t, got[0].Add(got[1]).Add(got[2]).Equal(d("100")))
}

func TestSplitAcrossSilos_CantidadesExplicitas(t *testing.T) {
	in := []entity.PointingSilo{
		{SiloID: "s-1", Quantity: qty("40")},
		{SiloID: "s-2"},
		{SiloID: "s-3"},
	}
	got, err := ledger.SplitAcrossSilos(d("100"), in)
	require.NoError(t, err)
	assert.True(t, got[0].Equal(d("40")))
	assert.True(t, got[1].Equal(d("30")))
	assert.True(t, got[2].Equal(d("30")))
}

func TestSplitAcrossSilos_TodasExplicitas(t *testing.T) {
	in := []entity.PointingSilo{{SiloID: "s-1", Quantity: qty("10")}, {SiloID: "s-2", Quantity: qty("5")}}
	got, err := ledger.SplitAcrossSilos(d("100"), in)
	require.NoError(t, err)
	assert.True(t, got[0].Equal(d("10")))
	assert.True(t, got[1].Equal(d("5")), "lo no asignado queda sin reservar")
}

func TestSplitAcrossSilos_Rechazos(t *testing.T) {
	cases := []struct {
		name    string
		planned string
		silos   []entity.PointingSilo
	}{
		{"sin silos", "10", nil},
		{"silo repetido", "10", silos("s-1", "s-1")},
		{"silo sin id", "10", silos("")},
		{"planificado negativo", "-1", silos("s-1")},
		{"cantidad negativa", "10", []entity.PointingSilo{{SiloID: "s-1", Quantity: qty("-2")}}},
		{"explícitas superan lo planificado", "10", []entity.PointingSilo{{SiloID: "s-1", Quantity: qty("7")}, {SiloID: "s-2", Quantity: qty("4")}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ledger.SplitAcrossSilos(d(tc.planned), tc.silos)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// ReserveForProductionPointing / Release
// ──────────────────────────────────────────────────────────────────────────────

func TestReserveForProductionPointing_SustituyeReservas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := entity.ProductionPointing{ID: "pp-1", RawMaterialID: "mp-1", PlannedQuantity: d("300"), Silos: silos("silo-a", "silo-b")}

	first, err := f.reserve.ReserveForProductionPointing(ctx, p)
	require.NoError(t, err)
	require.Len(t, first, 2)

	p.Silos = silos("silo-c")
	_, err = f.reserve.ReserveForProductionPointing(ctx, p)
	require.NoError(t, err)

	list, err := f.reserve.ListForProductionPointing(ctx, "pp-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "silo-c", list[0].SiloID)
	assert.True(t, list[0].ReservedQuantity.Equal(d("300")))
	assert.Empty(t, f.all(t), "las reservas no registran movimientos")
}

func TestReserveForProductionPointing_Disponibilidad(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.post(t, entity.DirectionIn, "mp-1", "silo-a", "500", t0)
	f.post(t, entity.DirectionIn, "mp-1", "silo-b", "200", t0)

	p := entity.ProductionPointing{ID: "pp-1", RawMaterialID: "mp-1", PlannedQuantity: d("240"), Silos: silos("silo-a", "silo-b")}
	_, err := f.reserve.ReserveForProductionPointing(ctx, p)
	require.NoError(t, err)

	av, err := f.balances.Availability(ctx, "mp-1", "silo-a")
	require.NoError(t, err)
	assert.True(t, av.BalanceKg.Equal(d("500")))
	assert.True(t, av.ReservedKg.Equal(d("120")))
	assert.True(t, av.AvailableKg.Equal(d("380")))

	all, err := f.balances.Availability(ctx, "mp-1", "")
	require.NoError(t, err)
	assert.True(t, all.AvailableKg.Equal(d("460")), "700 − 240")

	reserved, err := f.reserve.Reserved(ctx, "mp-1", "")
	require.NoError(t, err)
	assert.True(t, reserved.Equal(d("240")))
	assert.True(t, f.rawFinal(t, "mp-1").Equal(d("700")), "reservar no altera el saldo")
}

func TestReleaseForProductionPointing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := entity.ProductionPointing{ID: "pp-1", RawMaterialID: "mp-1", PlannedQuantity: d("90"), Silos: silos("silo-a", "silo-b", "silo-c")}
	_, err := f.reserve.ReserveForProductionPointing(ctx, p)
	require.NoError(t, err)

	n, err := f.reserve.ReleaseForProductionPointing(ctx, "pp-1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	list, err := f.reserve.ListForProductionPointing(ctx, "pp-1")
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.reserve.ReleaseForProductionPointing(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReserveForProductionPointing_Errores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.reserve.ReserveForProductionPointing(ctx, entity.ProductionPointing{ID: "pp-1", RawMaterialID: "mp-x", PlannedQuantity: d("1"), Silos: silos("s")})
	assert.ErrorIs(t, err, domain.ErrReferencedEntityMissing)

	_, err = f.reserve.ReserveForProductionPointing(ctx, entity.ProductionPointing{RawMaterialID: "mp-1", PlannedQuantity: d("1"), Silos: silos("s")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.reserve.Reserved(ctx, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
