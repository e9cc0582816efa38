package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/entity"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/repository"
)

var _ repository.ReservationRepository = (*ReservationRepo)(nil)

// ReservationRepo reservas en memoria.
type ReservationRepo struct {
	s    *Store
	inTx bool
}

// ReplaceForPointing sustituye las reservas del apontamiento.
func (r *ReservationRepo) ReplaceForPointing(_ context.Context, pointingID string, reservations []*entity.Reservation) error {
	r.s.write(r.inTx, func() {
		r.deleteLocked(pointingID)
		for _, res := range reservations {
			cp := *res
			cp.ProductionPointingID = pointingID
			r.s.reservations[cp.ID] = cp
		}
	})
	return nil
}

// ListByPointing reservas del apontamiento ordenadas por silo.
func (r *ReservationRepo) ListByPointing(_ context.Context, pointingID string) ([]*entity.Reservation, error) {
	var out []*entity.Reservation
	r.s.read(r.inTx, func() {
		for _, res := range r.s.reservations {
			if res.ProductionPointingID == pointingID {
				res := res
				out = append(out, &res)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].SiloID < out[j].SiloID })
	return out, nil
}

// DeleteByPointing elimina las reservas del apontamiento.
func (r *ReservationRepo) DeleteByPointing(_ context.Context, pointingID string) (int64, error) {
	var n int64
	r.s.write(r.inTx, func() { n = r.deleteLocked(pointingID) })
	return n, nil
}

// SumReserved total reservado; siloID vacío suma todos los silos.
func (r *ReservationRepo) SumReserved(_ context.Context, rawMaterialID, siloID string) (decimal.Decimal, error) {
	total := decimal.Zero
	r.s.read(r.inTx, func() {
		for _, res := range r.s.reservations {
			if res.RawMaterialID != rawMaterialID || (siloID != "" && res.SiloID != siloID) {
				continue
			}
			total = total.Add(res.ReservedQuantity)
		}
	})
	return total, nil
}

func (r *ReservationRepo) deleteLocked(pointingID string) int64 {
	var n int64
	for id, res := range r.s.reservations {
		if res.ProductionPointingID == pointingID {
			delete(r.s.reservations, id)
			n++
		}
	}
	return n
}
