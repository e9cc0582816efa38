package entity

import (
	"fmt"

	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain"
)

// ProductionType tipo de registro de producción dueño de movimientos.
type ProductionType string

const (
	ProductionTypeBlock  ProductionType = "BlockProduction"
	ProductionTypeMolded ProductionType = "MoldedProduction"
)

// MovementReferenceType marcador persistido en reference_type para una consumición
// encadenada a su movimiento de entrada.
const MovementReferenceType = "inventory_movement"

// Reference es el vínculo polimórfico de un movimiento con quien lo causó:
// ProductionReference, MovementReference o NoReference.
type Reference interface {
	// Columns devuelve el par persistido (reference_type, reference_id); vacío para NoReference.
	Columns() (refType, refID string)
	validate() error
}

// ProductionReference movimiento de entrada propiedad de un registro de producción.
type ProductionReference struct {
	Type ProductionType
	ID   string
}

func (r ProductionReference) Columns() (string, string) { return string(r.Type), r.ID }

func (r ProductionReference) validate() error {
	if r.Type != ProductionTypeBlock && r.Type != ProductionTypeMolded {
		return fmt.Errorf("%w: tipo de producción %q desconocido", domain.ErrInvalidInput, r.Type)
	}
	if r.ID == "" {
		return fmt.Errorf("%w: id de producción requerido", domain.ErrInvalidInput)
	}
	return nil
}

// LockKey clave de serialización de escrituras para la producción.
func (r ProductionReference) LockKey() string { return string(r.Type) + ":" + r.ID }

// MovementReference consumición de materia prima encadenada a un movimiento de entrada.
type MovementReference struct {
	MovementID string
}

func (r MovementReference) Columns() (string, string) { return MovementReferenceType, r.MovementID }

func (r MovementReference) validate() error {
	if r.MovementID == "" {
		return fmt.Errorf("%w: movimiento de referencia requerido", domain.ErrInvalidInput)
	}
	return nil
}

// NoReference movimiento manual sin dueño.
type NoReference struct{}

func (NoReference) Columns() (string, string) { return "", "" }
func (NoReference) validate() error           { return nil }

// ReferenceFromColumns reconstruye la referencia desde las columnas persistidas.
func ReferenceFromColumns(refType, refID string) Reference {
	switch {
	case refType == "" && refID == "":
		return NoReference{}
	case refType == MovementReferenceType:
		return MovementReference{MovementID: refID}
	default:
		return ProductionReference{Type: ProductionType(refType), ID: refID}
	}
}

// IsManual indica si el movimiento no pertenece a ninguna producción ni a otro movimiento.
func IsManual(r Reference) bool {
	if r == nil {
		return true
	}
	_, ok := r.(NoReference)
	return ok
}
