package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/entity"
)

// ReservationRepository puerto de persistencia de reservas de materia prima.
type ReservationRepository interface {
	// ReplaceForPointing sustituye todas las reservas de un apontamiento.
	ReplaceForPointing(ctx context.Context, pointingID string, reservations []*entity.Reservation) error
	ListByPointing(ctx context.Context, pointingID string) ([]*entity.Reservation, error)
	DeleteByPointing(ctx context.Context, pointingID string) (int64, error)
	// SumReserved total reservado de una materia prima; siloID vacío = todos los silos.
	SumReserved(ctx context.Context, rawMaterialID, siloID string) (decimal.Decimal, error)
}
