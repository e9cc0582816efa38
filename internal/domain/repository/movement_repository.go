package repository

import (
	"context"
	"time"

	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/entity"
)

// MovementFilter criterios de consulta de movimientos. Los campos vacíos no filtran.
type MovementFilter struct {
	ItemTypes    []entity.ItemType
	ItemID       string // raw_material_id o mold_type_id
	BlockTypeID  string
	LocationType entity.LocationType
	LocationID   string
	Until        *time.Time // occurred_at <= Until
	Limit        int        // 0 = sin límite
	Offset       int
}

// MovementRepository puerto de persistencia del libro de movimientos.
// No expone un borrado general: solo DeleteOwned, usado por la retracción de producciones
// y por la limpieza de una consumición encadenada.
type MovementRepository interface {
	Create(ctx context.Context, m *entity.Movement) error
	// Update modifica en sitio un movimiento existente, preservando ID y CreatedAt.
	Update(ctx context.Context, m *entity.Movement) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// FindByReference devuelve los movimientos cuyo (reference_type, reference_id) coincide.
	// Dentro de una transacción bloquea las filas encontradas.
	FindByReference(ctx context.Context, ref entity.Reference) ([]*entity.Movement, error)
	// DeleteOwned elimina los movimientos indicados; devuelve cuántos se eliminaron.
	DeleteOwned(ctx context.Context, ids []string) (int64, error)
	// List devuelve movimientos ordenados por occurred_at ascendente.
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
	// Count cuenta los movimientos que cumplen el filtro; ignora Limit y Offset.
	Count(ctx context.Context, filter MovementFilter) (int64, error)
}
