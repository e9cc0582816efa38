package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/entity"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/repository"
)

var _ repository.ReservationRepository = (*ReservationRepo)(nil)

// ReservationRepo reservas de materia prima sobre PostgreSQL (usable con pool o tx).
type ReservationRepo struct {
	q Querier
}

// NewReservationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReservationRepository(q Querier) *ReservationRepo {
	return &ReservationRepo{q: q}
}

// ReplaceForPointing borra las reservas del apontamiento e inserta las nuevas.
// Debe ejecutarse dentro de una tx para que la sustitución sea atómica.
func (r *ReservationRepo) ReplaceForPointing(ctx context.Context, pointingID string, reservations []*entity.Reservation) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM raw_material_reservations WHERE production_pointing_id = $1`, pointingID); err != nil {
		return fmt.Errorf("delete reservations: %w", err)
	}
	query := `
		INSERT INTO raw_material_reservations
			(id, production_pointing_id, raw_material_id, silo_id, reserved_quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, res := range reservations {
		_, err := r.q.Exec(ctx, query,
			res.ID, pointingID, res.RawMaterialID, res.SiloID,
			res.ReservedQuantity, res.CreatedAt, res.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert reservation: %w", err)
		}
	}
	return nil
}

// ListByPointing reservas del apontamiento ordenadas por silo.
func (r *ReservationRepo) ListByPointing(ctx context.Context, pointingID string) ([]*entity.Reservation, error) {
	query := `
		SELECT id, production_pointing_id, raw_material_id, silo_id, reserved_quantity, created_at, updated_at
		FROM raw_material_reservations
		WHERE production_pointing_id = $1
		ORDER BY silo_id`
	rows, err := r.q.Query(ctx, query, pointingID)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Reservation
	for rows.Next() {
		var res entity.Reservation
		if err := rows.Scan(&res.ID, &res.ProductionPointingID, &res.RawMaterialID, &res.SiloID,
			&res.ReservedQuantity, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		list = append(list, &res)
	}
	return list, rows.Err()
}

// DeleteByPointing elimina las reservas del apontamiento.
func (r *ReservationRepo) DeleteByPointing(ctx context.Context, pointingID string) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM raw_material_reservations WHERE production_pointing_id = $1`, pointingID)
	if err != nil {
		return 0, fmt.Errorf("delete reservations: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SumReserved total reservado; siloID vacío suma todos los silos.
func (r *ReservationRepo) SumReserved(ctx context.Context, rawMaterialID, siloID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(reserved_quantity), 0)
		FROM raw_material_reservations
		WHERE raw_material_id = $1 AND ($2 = '' OR silo_id = $2)`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, rawMaterialID, siloID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum reservations: %w", err)
	}
	return total, nil
}
