package entity

import (
	"fmt"

	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain"
)

// StockKey identidad de agrupación sobre la que se calculan saldos. No se persiste.
//   - materia prima / moldeado: (tipo, item_id, ubicación)
//   - bloque: (tipo, block_type_id, largo, ancho, alto, ubicación); sin item_id
type StockKey struct {
	ItemType    ItemType
	ItemID      string
	BlockTypeID string
	LengthMM    int
	WidthMM     int
	HeightMM    int
	Location    Location
}

// ResolveStockKey deriva la clave canónica de un movimiento. Solo falla ante un
// movimiento mal formado (sin ítem o bloque sin dimensiones).
func ResolveStockKey(m *Movement) (StockKey, error) {
	if m == nil || m.Item == nil {
		return StockKey{}, fmt.Errorf("%w: movimiento sin ítem", domain.ErrInvalidInput)
	}
	if err := m.Item.validate(); err != nil {
		return StockKey{}, err
	}
	key := StockKey{ItemType: m.Item.ItemType(), Location: m.Location.Normalized()}
	switch it := m.Item.(type) {
	case BlockItem:
		key.BlockTypeID = it.BlockTypeID
		key.LengthMM, key.WidthMM, key.HeightMM = it.LengthMM, it.WidthMM, it.HeightMM
	default:
		key.ItemID = ItemID(it)
	}
	return key, nil
}

// WithoutLocation devuelve la clave agregando todas las ubicaciones.
func (k StockKey) WithoutLocation() StockKey {
	k.Location = NoLocation
	return k
}

// Matches indica si el movimiento pertenece a la clave. Si la clave no tiene ubicación,
// coincide con cualquier ubicación.
func (k StockKey) Matches(m *Movement) bool {
	mk, err := ResolveStockKey(m)
	if err != nil {
		return false
	}
	if k.Location.IsNone() {
		mk.Location = NoLocation
	}
	return mk == k.normalized()
}

func (k StockKey) normalized() StockKey {
	k.Location = k.Location.Normalized()
	return k
}

// String forma textual estable, útil para logs.
func (k StockKey) String() string {
	loc := k.Location.Normalized()
	if k.ItemType == ItemTypeBlock {
		return fmt.Sprintf("block/%s/%dx%dx%d@%s:%s", k.BlockTypeID, k.LengthMM, k.WidthMM, k.HeightMM, loc.Type, loc.ID)
	}
	return fmt.Sprintf("%s/%s@%s:%s", k.ItemType, k.ItemID, loc.Type, loc.ID)
}

// Validate comprueba que la clave identifique un ítem: ID para materia prima y moldeado,
// tipo y dimensiones completas para bloque.
func (k StockKey) Validate() error {
	switch k.ItemType {
	case ItemTypeRawMaterial, ItemTypeMolded:
		if k.ItemID == "" {
			return fmt.Errorf("%w: item_id requerido para %s", domain.ErrInvalidInput, k.ItemType)
		}
	case ItemTypeBlock:
		if err := (BlockItem{BlockTypeID: k.BlockTypeID, LengthMM: k.LengthMM, WidthMM: k.WidthMM, HeightMM: k.HeightMM}).validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: item_type %q desconocido", domain.ErrInvalidInput, k.ItemType)
	}
	return k.Location.Validate()
}
