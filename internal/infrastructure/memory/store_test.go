package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/entity"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/repository"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/infrastructure/memory"
)

var t0 = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

func movement(id string, ref entity.Reference) *entity.Movement {
	return &entity.Movement{
		ID:         id,
		OccurredAt: t0,
		Item:       entity.RawMaterialItem{RawMaterialID: "mp-1"},
		Direction:  entity.DirectionIn,
		Quantity:   decimal.NewFromInt(10),
		Unit:       entity.UnitKg,
		Location:   entity.SiloLocation("silo-a"),
		Reference:  ref,
		CreatedAt:  t0,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Transacciones
// ──────────────────────────────────────────────────────────────────────────────

func TestRun_RollbackRestauraElEstado(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, s.Movements().Create(ctx, movement("m-0", entity.NoReference{})))

	boom := errors.New("falla a mitad de la tx")
	err := s.Run(ctx, func(movRepo repository.MovementRepository, resRepo repository.ReservationRepository) error {
		require.NoError(t, movRepo.Create(ctx, movement("m-1", entity.NoReference{})))
		_, err := movRepo.DeleteOwned(ctx, []string{"m-0"})
		require.NoError(t, err)
		require.NoError(t, resRepo.ReplaceForPointing(ctx, "pp-1", []*entity.Reservation{{ID: "r-1", RawMaterialID: "mp-1", SiloID: "silo-a", ReservedQuantity: decimal.NewFromInt(5)}}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Movements().GetByID(ctx, "m-0")
	require.NoError(t, err)
	assert.NotNil(t, got, "el borrado se deshace")
	got, err = s.Movements().GetByID(ctx, "m-1")
	require.NoError(t, err)
	assert.Nil(t, got, "la inserción se deshace")

	reserved, err := s.Reservations().SumReserved(ctx, "mp-1", "")
	require.NoError(t, err)
	assert.True(t, reserved.IsZero())
}

func TestRun_CommitVisibleFuera(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	err := s.Run(ctx, func(movRepo repository.MovementRepository, _ repository.ReservationRepository) error {
		return movRepo.Create(ctx, movement("m-1", entity.NoReference{}))
	})
	require.NoError(t, err)

	got, err := s.Movements().GetByID(ctx, "m-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "m-1", got.ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// MovementRepo
// ──────────────────────────────────────────────────────────────────────────────

func TestMovementRepo_ReferenciaUnica(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	ref := entity.ProductionReference{Type: entity.ProductionTypeBlock, ID: "bp-1"}

	require.NoError(t, s.Movements().Create(ctx, movement("m-1", ref)))
	assert.ErrorIs(t, s.Movements().Create(ctx, movement("m-2", ref)), domain.ErrConflict)
	assert.ErrorIs(t, s.Movements().Create(ctx, movement("m-1", entity.NoReference{})), domain.ErrConflict, "id duplicado")

	// los movimientos manuales no comparten restricción
	require.NoError(t, s.Movements().Create(ctx, movement("m-3", entity.NoReference{})))
	require.NoError(t, s.Movements().Create(ctx, movement("m-4", entity.NoReference{})))
}

func TestMovementRepo_UpdateConservaCreatedAt(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, s.Movements().Create(ctx, movement("m-1", entity.NoReference{})))

	next := movement("m-1", entity.NoReference{})
	next.Quantity = decimal.NewFromInt(99)
	next.CreatedAt = t0.Add(time.Hour)
	require.NoError(t, s.Movements().Update(ctx, next))

	got, err := s.Movements().GetByID(ctx, "m-1")
	require.NoError(t, err)
	assert.True(t, got.Quantity.Equal(decimal.NewFromInt(99)))
	assert.Equal(t, t0, got.CreatedAt)

	assert.ErrorIs(t, s.Movements().Update(ctx, movement("m-x", entity.NoReference{})), domain.ErrNotFound)
}

func TestMovementRepo_ListFiltraYOrdena(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	late := movement("m-late", entity.NoReference{})
	late.OccurredAt = t0.Add(48 * time.Hour)
	other := movement("m-other", entity.NoReference{})
	other.Location = entity.SiloLocation("silo-b")
	molded := movement("m-molded", entity.NoReference{})
	molded.Item = entity.MoldedItem{MoldTypeID: "mt-1"}
	molded.Unit = entity.UnitUnit
	early := movement("m-early", entity.NoReference{})
	early.OccurredAt = t0.Add(-time.Hour)

	for _, m := range []*entity.Movement{late, other, molded, early} {
		require.NoError(t, s.Movements().Create(ctx, m))
	}

	until := t0.Add(time.Hour)
	got, err := s.Movements().List(ctx, repository.MovementFilter{
		ItemTypes:    []entity.ItemType{entity.ItemTypeRawMaterial},
		LocationType: entity.LocationSilo,
		LocationID:   "silo-a",
		Until:        &until,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "m-early", got[0].ID)

	all, err := s.Movements().List(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "m-early", all[0].ID, "orden por occurred_at")
	assert.Equal(t, "m-late", all[3].ID)

	n, err := s.Movements().Count(ctx, repository.MovementFilter{
		ItemTypes: []entity.ItemType{entity.ItemTypeRawMaterial},
		Limit:     1,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestMovementRepo_FindByReference(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, s.Movements().Create(ctx, movement("m-1", entity.ProductionReference{Type: entity.ProductionTypeMolded, ID: "mo-1"})))
	require.NoError(t, s.Movements().Create(ctx, movement("m-2", entity.MovementReference{MovementID: "m-1"})))

	got, err := s.Movements().FindByReference(ctx, entity.MovementReference{MovementID: "m-1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "m-2", got[0].ID)

	_, err = s.Movements().FindByReference(ctx, entity.NoReference{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Registros
// ──────────────────────────────────────────────────────────────────────────────

func TestRegistros_AltaYConsulta(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	s.PutRawMaterial(entity.RawMaterial{ID: "mp-1", Name: "EPS"})

	rm, err := s.RawMaterials().GetByID(ctx, "mp-1")
	require.NoError(t, err)
	require.NotNil(t, rm)
	assert.Equal(t, "EPS", rm.Name)

	missing, err := s.BlockTypes().GetByID(ctx, "bt-x")
	require.NoError(t, err)
	assert.Nil(t, missing, "inexistente = nil, nil")
}
