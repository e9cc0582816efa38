package entity

import (
	"fmt"

	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain"
)

// LocationType tipo de ubicación física del stock.
type LocationType string

const (
	LocationNone         LocationType = "none"
	LocationSilo         LocationType = "silo"
	LocationAlmoxarifado LocationType = "almoxarifado"
)

// Location ubicación de un movimiento. El ID es obligatorio si y solo si Type ≠ none.
type Location struct {
	Type LocationType
	ID   string
}

// NoLocation movimiento sin ubicación.
var NoLocation = Location{Type: LocationNone}

// SiloLocation atajo para una ubicación de silo.
func SiloLocation(id string) Location { return Location{Type: LocationSilo, ID: id} }

// Normalized trata el tipo vacío como none.
func (l Location) Normalized() Location {
	if l.Type == "" {
		l.Type = LocationNone
	}
	return l
}

// IsNone indica si no hay ubicación.
func (l Location) IsNone() bool { return l.Normalized().Type == LocationNone }

// Validate comprueba la coherencia tipo/ID.
func (l Location) Validate() error {
	l = l.Normalized()
	switch l.Type {
	case LocationNone:
		if l.ID != "" {
			return fmt.Errorf("%w: location_id sin location_type", domain.ErrInvalidInput)
		}
	case LocationSilo, LocationAlmoxarifado:
		if l.ID == "" {
			return fmt.Errorf("%w: location_id requerido para %s", domain.ErrInvalidInput, l.Type)
		}
	default:
		return fmt.Errorf("%w: location_type %q desconocido", domain.ErrInvalidInput, l.Type)
	}
	return nil
}
