package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/repository"
)

var _ repository.ProductionStatsRepository = (*ProductionStatsRepo)(nil)

// ProductionStatsRepo consultas de solo lectura sobre las tablas de producción.
// Los extremos nil del rango no filtran.
type ProductionStatsRepo struct {
	pool *pgxpool.Pool
}

// NewProductionStatsRepository construye el adaptador.
func NewProductionStatsRepository(pool *pgxpool.Pool) *ProductionStatsRepo {
	return &ProductionStatsRepo{pool: pool}
}

// BlockTotals reparto virgen/reciclado de todos los bloques y pérdidas (scrap) del período.
// La fecha de un bloque es su fin de producción o, en su defecto, el inicio.
func (r *ProductionStatsRepo) BlockTotals(ctx context.Context, from, to *time.Time) (repository.BlockProductionTotals, error) {
	const query = `
	SELECT
	    COALESCE(SUM(virgin_mp_kg), 0)                       AS virgin_kg,
	    COALESCE(SUM(recycled_mp_kg), 0)                     AS recycled_kg,
	    COUNT(*) FILTER (WHERE is_scrap)                     AS scrap_units,
	    COALESCE(SUM(weight) FILTER (WHERE is_scrap), 0)     AS scrap_kg
	FROM block_productions
	WHERE ($1::timestamptz IS NULL OR COALESCE(ended_at, started_at) >= $1)
	  AND ($2::timestamptz IS NULL OR COALESCE(ended_at, started_at) <= $2)`

	var t repository.BlockProductionTotals
	if err := r.pool.QueryRow(ctx, query, from, to).Scan(&t.VirginKg, &t.RecycledKg, &t.ScrapUnits, &t.ScrapKg); err != nil {
		return repository.BlockProductionTotals{}, fmt.Errorf("stats.BlockTotals: %w", err)
	}
	return t, nil
}

// MoldedLossUnits piezas moldeadas perdidas en el período.
func (r *ProductionStatsRepo) MoldedLossUnits(ctx context.Context, from, to *time.Time) (int64, error) {
	const query = `
	SELECT COALESCE(SUM(l.quantity), 0)
	FROM molded_production_losses l
	JOIN molded_productions mp ON mp.id = l.molded_production_id
	WHERE ($1::timestamptz IS NULL OR mp.produced_at >= $1)
	  AND ($2::timestamptz IS NULL OR mp.produced_at <= $2)`

	var units int64
	if err := r.pool.QueryRow(ctx, query, from, to).Scan(&units); err != nil {
		return 0, fmt.Errorf("stats.MoldedLossUnits: %w", err)
	}
	return units, nil
}

// MoldedLossRanking pérdidas de moldeados por motivo, de mayor a menor.
func (r *ProductionStatsRepo) MoldedLossRanking(ctx context.Context, from, to *time.Time, limit int) ([]repository.LossRankingItem, error) {
	const query = `
	SELECT
	    lr.id                      AS reason_id,
	    lr.name                    AS reason_name,
	    COALESCE(SUM(l.quantity), 0) AS units
	FROM molded_production_losses l
	JOIN molded_productions mp ON mp.id = l.molded_production_id
	JOIN loss_reasons       lr ON lr.id = l.loss_reason_id
	WHERE ($1::timestamptz IS NULL OR mp.produced_at >= $1)
	  AND ($2::timestamptz IS NULL OR mp.produced_at <= $2)
	GROUP BY lr.id, lr.name
	ORDER BY units DESC, lr.name
	LIMIT $3`

	rows, err := r.pool.Query(ctx, query, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("stats.MoldedLossRanking: %w", err)
	}
	defer rows.Close()

	var items []repository.LossRankingItem
	for rows.Next() {
		var it repository.LossRankingItem
		if err := rows.Scan(&it.ReasonID, &it.ReasonName, &it.Units); err != nil {
			return nil, fmt.Errorf("stats.MoldedLossRanking scan: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
