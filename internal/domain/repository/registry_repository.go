package repository

import (
	"context"

	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/entity"
)

// Registros de referencia (mantenidos fuera de este servicio). Todos devuelven nil, nil
// cuando el ID no existe.

// BlockTypeRepository consulta tipos de bloque.
type BlockTypeRepository interface {
	GetByID(ctx context.Context, id string) (*entity.BlockType, error)
}

// MoldTypeRepository consulta tipos de molde.
type MoldTypeRepository interface {
	GetByID(ctx context.Context, id string) (*entity.MoldType, error)
}

// RawMaterialRepository consulta materias primas.
type RawMaterialRepository interface {
	GetByID(ctx context.Context, id string) (*entity.RawMaterial, error)
}
