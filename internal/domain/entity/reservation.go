package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reservation reserva de materia prima para un apontamiento, independiente de los
// movimientos. No afecta saldos y no expira.
type Reservation struct {
	ID                   string
	ProductionPointingID string
	RawMaterialID        string
	SiloID               string
	ReservedQuantity     decimal.Decimal
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
