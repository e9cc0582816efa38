package memory

import (
	"context"

	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/entity"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/repository"
)

var (
	_ repository.BlockTypeRepository   = (*BlockTypeRepo)(nil)
	_ repository.MoldTypeRepository    = (*MoldTypeRepo)(nil)
	_ repository.RawMaterialRepository = (*RawMaterialRepo)(nil)
)

// BlockTypeRepo tipos de bloque cargados con Store.PutBlockType.
type BlockTypeRepo struct{ s *Store }

// GetByID copia del tipo o nil, nil.
func (r *BlockTypeRepo) GetByID(_ context.Context, id string) (*entity.BlockType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	bt, ok := r.s.blockTypes[id]
	if !ok {
		return nil, nil
	}
	return &bt, nil
}

// MoldTypeRepo tipos de molde cargados con Store.PutMoldType.
type MoldTypeRepo struct{ s *Store }

// GetByID copia del tipo o nil, nil.
func (r *MoldTypeRepo) GetByID(_ context.Context, id string) (*entity.MoldType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	mt, ok := r.s.moldTypes[id]
	if !ok {
		return nil, nil
	}
	return &mt, nil
}

// RawMaterialRepo materias primas cargadas con Store.PutRawMaterial.
type RawMaterialRepo struct{ s *Store }

// GetByID copia de la materia prima o nil, nil.
func (r *RawMaterialRepo) GetByID(_ context.Context, id string) (*entity.RawMaterial, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rm, ok := r.s.rawMaterials[id]
	if !ok {
		return nil, nil
	}
	return &rm, nil
}
