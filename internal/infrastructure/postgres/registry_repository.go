package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/entity"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/repository"
)

var (
	_ repository.BlockTypeRepository   = (*BlockTypeRepo)(nil)
	_ repository.MoldTypeRepository    = (*MoldTypeRepo)(nil)
	_ repository.RawMaterialRepository = (*RawMaterialRepo)(nil)
)

// BlockTypeRepo lectura de tipos de bloque. Las tablas de registro las mantiene el módulo
// de cadastros; aquí solo se consultan.
type BlockTypeRepo struct {
	q Querier
}

// NewBlockTypeRepository construye el adaptador de tipos de bloque.
func NewBlockTypeRepository(q Querier) *BlockTypeRepo {
	return &BlockTypeRepo{q: q}
}

// GetByID tipo de bloque por ID (nil, nil si no existe).
func (r *BlockTypeRepo) GetByID(ctx context.Context, id string) (*entity.BlockType, error) {
	var bt entity.BlockType
	var pct *decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT id, name, raw_material_percentage FROM block_types WHERE id = $1`, id,
	).Scan(&bt.ID, &bt.Name, &pct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get block type: %w", err)
	}
	bt.RawMaterialPercentage = pct
	return &bt, nil
}

// MoldTypeRepo lectura de tipos de molde.
type MoldTypeRepo struct {
	q Querier
}

// NewMoldTypeRepository construye el adaptador de tipos de molde.
func NewMoldTypeRepository(q Querier) *MoldTypeRepo {
	return &MoldTypeRepo{q: q}
}

// GetByID tipo de molde por ID (nil, nil si no existe).
func (r *MoldTypeRepo) GetByID(ctx context.Context, id string) (*entity.MoldType, error) {
	var mt entity.MoldType
	var pieces *int
	err := r.q.QueryRow(ctx,
		`SELECT id, name, pieces_per_package FROM mold_types WHERE id = $1`, id,
	).Scan(&mt.ID, &mt.Name, &pieces)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get mold type: %w", err)
	}
	mt.PiecesPerPackage = derefInt(pieces)
	return &mt, nil
}

// RawMaterialRepo lectura de materias primas.
type RawMaterialRepo struct {
	q Querier
}

// NewRawMaterialRepository construye el adaptador de materias primas.
func NewRawMaterialRepository(q Querier) *RawMaterialRepo {
	return &RawMaterialRepo{q: q}
}

// GetByID materia prima por ID (nil, nil si no existe).
func (r *RawMaterialRepo) GetByID(ctx context.Context, id string) (*entity.RawMaterial, error) {
	var rm entity.RawMaterial
	err := r.q.QueryRow(ctx, `SELECT id, name FROM raw_materials WHERE id = $1`, id).Scan(&rm.ID, &rm.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get raw material: %w", err)
	}
	return &rm, nil
}
