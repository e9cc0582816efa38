package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/entity"
)

// BlockProductionTotals agregados de producción de bloques en un rango.
type BlockProductionTotals struct {
	VirginKg   decimal.Decimal
	RecycledKg decimal.Decimal
	ScrapUnits int64
	ScrapKg    decimal.Decimal
}

// LossRankingItem pérdida de moldeados agrupada por motivo.
type LossRankingItem struct {
	ReasonID   string
	ReasonName string
	Units      int64
}

// ProductionStatsRepository consultas de solo lectura sobre los registros de producción
// (externos al libro) para el resumen de producción.
type ProductionStatsRepository interface {
	BlockTotals(ctx context.Context, from, to *time.Time) (BlockProductionTotals, error)
	MoldedLossUnits(ctx context.Context, from, to *time.Time) (int64, error)
	MoldedLossRanking(ctx context.Context, from, to *time.Time, limit int) ([]LossRankingItem, error)
}

// BlockProductionFact producción de bloque ya sincronizada, tal como la lee el resumen.
type BlockProductionFact struct {
	ID         string
	At         time.Time
	Weight     decimal.Decimal
	VirginKg   decimal.Decimal
	RecycledKg decimal.Decimal
	IsScrap    bool
}

// MoldedLossFact piezas perdidas de una producción de moldeados por motivo.
type MoldedLossFact struct {
	At         time.Time
	ReasonID   string
	ReasonName string
	Units      int64
}

// ProductionRecorder recibe los datos de producción después de cada sincronización.
// Donde las tablas de producción pertenecen a otro módulo no se usa.
type ProductionRecorder interface {
	RecordBlockProduction(ctx context.Context, fact BlockProductionFact) error
	// RecordMoldedLosses reemplaza las pérdidas registradas de la producción.
	RecordMoldedLosses(ctx context.Context, productionID string, losses []MoldedLossFact) error
	RemoveProduction(ctx context.Context, ref entity.ProductionReference) error
}
