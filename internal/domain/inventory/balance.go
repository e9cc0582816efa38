package inventory

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/entity"
)

// Window rango [From, To] de un cálculo de saldo. Cualquiera de los extremos puede omitirse;
// sin ambos el cálculo es el saldo histórico completo.
type Window struct {
	From *time.Time
	To   *time.Time
}

// Validate rechaza rangos invertidos.
func (w Window) Validate() error {
	if w.From != nil && w.To != nil && w.From.After(*w.To) {
		return fmt.Errorf("%w: from posterior a to", domain.ErrInvalidInput)
	}
	return nil
}

func (w Window) before(t time.Time) bool { return w.From != nil && t.Before(*w.From) }
func (w Window) after(t time.Time) bool  { return w.To != nil && t.After(*w.To) }

// Contains indica si t cae dentro del rango (extremos incluidos).
func (w Window) Contains(t time.Time) bool { return !w.before(t) && !w.after(t) }

// PeriodBalance saldo de una clave en un rango.
//
//	Initial = Σ movimientos estrictamente antes de From (0 si From no está definido)
//	Inflow/Outflow/Adjust = Σ por dirección con From ≤ occurred_at ≤ To
//	Final = Initial + Inflow − Outflow + Adjust
type PeriodBalance struct {
	Initial decimal.Decimal
	Inflow  decimal.Decimal
	Outflow decimal.Decimal
	Adjust  decimal.Decimal
	Final   decimal.Decimal
}

// Apply acumula un movimiento. Los posteriores a To se ignoran.
func (b *PeriodBalance) Apply(m *entity.Movement, w Window) {
	switch {
	case w.after(m.OccurredAt):
		return
	case w.before(m.OccurredAt):
		b.Initial = b.Initial.Add(m.SignedQuantity())
	default:
		switch m.Direction {
		case entity.DirectionIn:
			b.Inflow = b.Inflow.Add(m.Quantity)
		case entity.DirectionOut:
			b.Outflow = b.Outflow.Add(m.Quantity)
		case entity.DirectionAdjust:
			b.Adjust = b.Adjust.Add(m.Quantity)
		}
	}
	b.Final = b.Initial.Add(b.Inflow).Sub(b.Outflow).Add(b.Adjust)
}

// IsZero indica si no hubo saldo inicial ni actividad y el final es cero.
func (b PeriodBalance) IsZero() bool {
	return b.Initial.IsZero() && b.Inflow.IsZero() && b.Outflow.IsZero() && b.Adjust.IsZero() && b.Final.IsZero()
}

// CalculatePeriodBalance suma los movimientos de una sola clave.
func CalculatePeriodBalance(movements []*entity.Movement, w Window) PeriodBalance {
	var b PeriodBalance
	for _, m := range movements {
		b.Apply(m, w)
	}
	return b
}

// GroupBalances aplica el mismo algoritmo agrupando por la clave que devuelve keyFn.
// Los movimientos para los que keyFn devuelve false se descartan.
func GroupBalances[K comparable](movements []*entity.Movement, w Window, keyFn func(*entity.Movement) (K, bool)) map[K]*PeriodBalance {
	out := make(map[K]*PeriodBalance)
	for _, m := range movements {
		k, ok := keyFn(m)
		if !ok {
			continue
		}
		b, exists := out[k]
		if !exists {
			b = &PeriodBalance{}
			out[k] = b
		}
		b.Apply(m, w)
	}
	return out
}
