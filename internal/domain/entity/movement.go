package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain"
)

// ItemType familia de ítem de inventario.
type ItemType string

const (
	ItemTypeRawMaterial ItemType = "raw_material" // materia prima (kg)
	ItemTypeBlock       ItemType = "block"        // bloque (unidad, identidad dimensional)
	ItemTypeMolded      ItemType = "molded"       // moldeado (unidad)
)

// Valid indica si el tipo de ítem es uno de los conocidos.
func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeRawMaterial, ItemTypeBlock, ItemTypeMolded:
		return true
	}
	return false
}

// Direction sentido del movimiento.
type Direction string

const (
	DirectionIn     Direction = "in"     // entrada
	DirectionOut    Direction = "out"    // salida
	DirectionAdjust Direction = "adjust" // ajuste con signo
)

// Valid indica si la dirección es una de las conocidas.
func (d Direction) Valid() bool {
	switch d {
	case DirectionIn, DirectionOut, DirectionAdjust:
		return true
	}
	return false
}

// Unit unidad de medida del movimiento.
type Unit string

const (
	UnitKg   Unit = "kg"
	UnitUnit Unit = "unit"
)

// UnitFor devuelve la unidad que corresponde a una familia de ítem.
func UnitFor(t ItemType) Unit {
	if t == ItemTypeRawMaterial {
		return UnitKg
	}
	return UnitUnit
}

// Movement representa un asiento del libro de inventario. Es el único hecho persistido:
// los saldos siempre se derivan de la suma de movimientos.
type Movement struct {
	ID         string
	OccurredAt time.Time // los saldos se ordenan por esta fecha, no por la de inserción
	Item       Item
	Direction  Direction
	Quantity   decimal.Decimal // magnitud positiva en in/out; con signo en adjust
	Unit       Unit
	Location   Location
	Reference  Reference
	Notes      string
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ItemType devuelve la familia del ítem del movimiento (vacío si no tiene ítem).
func (m *Movement) ItemType() ItemType {
	if m.Item == nil {
		return ""
	}
	return m.Item.ItemType()
}

// SignedQuantity devuelve la contribución del movimiento al saldo.
func (m *Movement) SignedQuantity() decimal.Decimal {
	if m.Direction == DirectionOut {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// Validate aplica las reglas de integridad antes de persistir. Todos los errores
// envuelven domain.ErrInvalidInput.
func (m *Movement) Validate() error {
	if m.Item == nil {
		return fmt.Errorf("%w: ítem requerido", domain.ErrInvalidInput)
	}
	if err := m.Item.validate(); err != nil {
		return err
	}
	if m.OccurredAt.IsZero() {
		return fmt.Errorf("%w: occurred_at requerido", domain.ErrInvalidInput)
	}
	if m.Unit != UnitFor(m.Item.ItemType()) {
		return fmt.Errorf("%w: unidad %q no corresponde a %s", domain.ErrInvalidInput, m.Unit, m.Item.ItemType())
	}
	switch m.Direction {
	case DirectionIn, DirectionOut:
		if !m.Quantity.IsPositive() {
			return fmt.Errorf("%w: la cantidad debe ser mayor que cero para %s", domain.ErrInvalidInput, m.Direction)
		}
	case DirectionAdjust:
		if m.Quantity.IsZero() {
			return fmt.Errorf("%w: el ajuste no puede ser cero", domain.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: dirección %q desconocida", domain.ErrInvalidInput, m.Direction)
	}
	if err := m.Location.Validate(); err != nil {
		return err
	}
	if m.Reference == nil {
		m.Reference = NoReference{}
	}
	return m.Reference.validate()
}
