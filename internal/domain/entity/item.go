package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain"
)

// Item es la unión cerrada de ítems de inventario. Cada variante lleva solo los
// campos que le son válidos; no se puede implementar fuera de este paquete.
type Item interface {
	ItemType() ItemType
	validate() error
}

// RawMaterialItem materia prima identificada por ID.
type RawMaterialItem struct {
	RawMaterialID string
}

func (RawMaterialItem) ItemType() ItemType { return ItemTypeRawMaterial }

func (i RawMaterialItem) validate() error {
	if i.RawMaterialID == "" {
		return fmt.Errorf("%w: raw_material_id requerido", domain.ErrInvalidInput)
	}
	return nil
}

// BlockItem bloque identificado por su firma dimensional (tipo + largo × ancho × alto).
type BlockItem struct {
	BlockTypeID string
	LengthMM    int
	WidthMM     int
	HeightMM    int
}

func (BlockItem) ItemType() ItemType { return ItemTypeBlock }

func (i BlockItem) validate() error {
	if i.BlockTypeID == "" {
		return fmt.Errorf("%w: block_type_id requerido", domain.ErrInvalidInput)
	}
	if i.LengthMM <= 0 || i.WidthMM <= 0 || i.HeightMM <= 0 {
		return fmt.Errorf("%w: dimensiones del bloque incompletas (%dx%dx%d)",
			domain.ErrInvalidInput, i.LengthMM, i.WidthMM, i.HeightMM)
	}
	return nil
}

var mm3PerM3 = decimal.NewFromInt(1_000_000_000)

// VolumeM3 volumen de un bloque en metros cúbicos.
func (i BlockItem) VolumeM3() decimal.Decimal {
	return decimal.NewFromInt(int64(i.LengthMM)).
		Mul(decimal.NewFromInt(int64(i.WidthMM))).
		Mul(decimal.NewFromInt(int64(i.HeightMM))).
		Div(mm3PerM3)
}

// MoldedItem moldeado identificado por el tipo de molde.
type MoldedItem struct {
	MoldTypeID string
}

func (MoldedItem) ItemType() ItemType { return ItemTypeMolded }

func (i MoldedItem) validate() error {
	if i.MoldTypeID == "" {
		return fmt.Errorf("%w: mold_type_id requerido", domain.ErrInvalidInput)
	}
	return nil
}

// ItemID devuelve la identidad simple del ítem (vacía para bloques).
func ItemID(i Item) string {
	switch v := i.(type) {
	case RawMaterialItem:
		return v.RawMaterialID
	case MoldedItem:
		return v.MoldTypeID
	}
	return ""
}
