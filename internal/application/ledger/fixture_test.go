package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/application/ledger"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/entity"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/inventory"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/repository"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/infrastructure/lock"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture compartido: casos de uso sobre el almacén en memoria
// ──────────────────────────────────────────────────────────────────────────────

var t0 = time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC)

type fixture struct {
	mem      *memory.Store
	stats    *memory.ProductionStats
	sync     *ledger.ProductionSync
	manual   *ledger.ManualMovements
	balances *ledger.BalanceService
	reserve  *ledger.ReservationService
}

// newFixture registra:
//   - bt-1: tipo de bloque con 70 % virgen
//   - mt-1: tipo de molde con 50 piezas por paquete
//   - mp-1 y mp-2: materias primas
func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := memory.NewStore()
	pct := decimal.NewFromInt(70)
	mem.PutBlockType(entity.BlockType{ID: "bt-1", Name: "Bloque estándar", RawMaterialPercentage: &pct})
	mem.PutMoldType(entity.MoldType{ID: "mt-1", Name: "Moldura", PiecesPerPackage: 50})
	mem.PutRawMaterial(entity.RawMaterial{ID: "mp-1", Name: "EPS virgen"})
	mem.PutRawMaterial(entity.RawMaterial{ID: "mp-2", Name: "EPS reciclado"})

	locker := lock.NewKeyedMutex()
	stats := memory.NewProductionStats()
	log := zerolog.Nop()
	return &fixture{
		mem:      mem,
		stats:    stats,
		sync:     ledger.NewProductionSync(mem, locker, mem.BlockTypes(), mem.MoldTypes(), mem.RawMaterials(), ledger.DefaultSyncConfig(), log).WithRecorder(stats),
		manual:   ledger.NewManualMovements(mem, locker, mem.Movements(), mem.BlockTypes(), mem.MoldTypes(), mem.RawMaterials(), log),
		balances: ledger.NewBalanceService(mem.Movements(), mem.Reservations(), stats, ledger.DefaultSiloEpsilon, log),
		reserve:  ledger.NewReservationService(mem, locker, mem.Reservations(), mem.RawMaterials(), log),
	}
}

// all devuelve todos los movimientos del libro.
func (f *fixture) all(t *testing.T) []*entity.Movement {
	t.Helper()
	movs, err := f.mem.Movements().List(context.Background(), repository.MovementFilter{})
	require.NoError(t, err)
	return movs
}

// post registra un movimiento manual de materia prima en un silo.
func (f *fixture) post(t *testing.T, dir entity.Direction, rawMaterialID, siloID, qty string, at time.Time) string {
	t.Helper()
	res, err := f.manual.PostManualMovement(context.Background(), ledger.ManualMovementInput{
		OccurredAt: at,
		Item:       entity.RawMaterialItem{RawMaterialID: rawMaterialID},
		Direction:  dir,
		Quantity:   d(qty),
		Location:   entity.SiloLocation(siloID),
		UserID:     "u-1",
	})
	require.NoError(t, err)
	return res.MovementID
}

// rawFinal saldo histórico de una materia prima (todas las ubicaciones).
func (f *fixture) rawFinal(t *testing.T, rawMaterialID string) decimal.Decimal {
	t.Helper()
	key := entity.StockKey{ItemType: entity.ItemTypeRawMaterial, ItemID: rawMaterialID, Location: entity.NoLocation}
	b, err := f.balances.PeriodBalance(context.Background(), key, inventory.Window{})
	require.NoError(t, err)
	return b.Final
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func at(days int) time.Time { return t0.AddDate(0, 0, days) }

func ptr(t time.Time) *time.Time { return &t }

func blockRecord(id string) entity.BlockProduction {
	return entity.BlockProduction{
		ID:          id,
		BlockTypeID: "bt-1",
		Weight:      d("2000"),
		HeightMM:    250,
		SheetNumber: 3,
		StartedAt:   t0,
		EndedAt:     t0.Add(40 * time.Minute),
		UpdatedBy:   "u-1",
	}
}

func moldedRecord(id string) entity.MoldedProduction {
	return entity.MoldedProduction{
		ID:              id,
		MoldTypeID:      "mt-1",
		Quantity:        100,
		PackageWeight:   d("25.0"),
		PackageQuantity: 50,
		ProducedAt:      t0,
		UpdatedBy:       "u-1",
	}
}
