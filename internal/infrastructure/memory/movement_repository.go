package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/entity"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo libro de movimientos en memoria. Replica las restricciones de la tabla:
// ID único y a lo sumo un movimiento por (reference_type, reference_id).
type MovementRepo struct {
	s    *Store
	inTx bool
}

// Create inserta una copia del movimiento.
func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	var err error
	r.s.write(r.inTx, func() {
		if _, exists := r.s.movements[m.ID]; exists {
			err = fmt.Errorf("%w: movimiento %s duplicado", domain.ErrConflict, m.ID)
			return
		}
		if err = r.checkReferenceLocked(m); err != nil {
			return
		}
		r.s.movements[m.ID] = *m
	})
	return err
}

// Update reemplaza el movimiento conservando su created_at.
func (r *MovementRepo) Update(_ context.Context, m *entity.Movement) error {
	var err error
	r.s.write(r.inTx, func() {
		existing, ok := r.s.movements[m.ID]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		if err = r.checkReferenceLocked(m); err != nil {
			return
		}
		next := *m
		next.CreatedAt = existing.CreatedAt
		r.s.movements[m.ID] = next
	})
	return err
}

// GetByID copia del movimiento o nil, nil.
func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	var out *entity.Movement
	r.s.read(r.inTx, func() {
		if m, ok := r.s.movements[id]; ok {
			out = &m
		}
	})
	return out, nil
}

// FindByReference movimientos con la referencia dada, en orden de creación.
func (r *MovementRepo) FindByReference(_ context.Context, ref entity.Reference) ([]*entity.Movement, error) {
	refType, refID := ref.Columns()
	if refType == "" {
		return nil, fmt.Errorf("%w: referencia vacía", domain.ErrInvalidInput)
	}
	var out []*entity.Movement
	r.s.read(r.inTx, func() {
		for _, m := range r.s.movements {
			if m.Reference == nil {
				continue
			}
			t, id := m.Reference.Columns()
			if t == refType && id == refID {
				m := m
				out = append(out, &m)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// DeleteOwned elimina los IDs indicados y devuelve cuántos existían.
func (r *MovementRepo) DeleteOwned(_ context.Context, ids []string) (int64, error) {
	var n int64
	r.s.write(r.inTx, func() {
		for _, id := range ids {
			if _, ok := r.s.movements[id]; ok {
				delete(r.s.movements, id)
				n++
			}
		}
	})
	return n, nil
}

// List movimientos filtrados, ordenados por occurred_at (y created_at, id como desempate).
func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	r.s.read(r.inTx, func() {
		for _, m := range r.s.movements {
			if matches(&m, f) {
				m := m
				out = append(out, &m)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.OccurredAt.Equal(b.OccurredAt) {
			return a.OccurredAt.Before(b.OccurredAt)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return nil, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// Count movimientos que cumplen el filtro, sin paginar.
func (r *MovementRepo) Count(_ context.Context, f repository.MovementFilter) (int64, error) {
	var n int64
	r.s.read(r.inTx, func() {
		for _, m := range r.s.movements {
			if matches(&m, f) {
				n++
			}
		}
	})
	return n, nil
}

func matches(m *entity.Movement, f repository.MovementFilter) bool {
	if len(f.ItemTypes) > 0 {
		found := false
		for _, t := range f.ItemTypes {
			if m.ItemType() == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.ItemID != "" && entity.ItemID(m.Item) != f.ItemID {
		return false
	}
	if f.BlockTypeID != "" {
		b, ok := m.Item.(entity.BlockItem)
		if !ok || b.BlockTypeID != f.BlockTypeID {
			return false
		}
	}
	loc := m.Location.Normalized()
	if f.LocationType != "" && loc.Type != f.LocationType {
		return false
	}
	if f.LocationID != "" && loc.ID != f.LocationID {
		return false
	}
	if f.Until != nil && m.OccurredAt.After(*f.Until) {
		return false
	}
	return true
}

// checkReferenceLocked equivalente al índice único parcial sobre (reference_type, reference_id).
func (r *MovementRepo) checkReferenceLocked(m *entity.Movement) error {
	if m.Reference == nil {
		return nil
	}
	refType, refID := m.Reference.Columns()
	if refType == "" {
		return nil
	}
	for id, other := range r.s.movements {
		if id == m.ID || other.Reference == nil {
			continue
		}
		t, oid := other.Reference.Columns()
		if t == refType && oid == refID {
			return fmt.Errorf("%w: %s:%s ya tiene el movimiento %s", domain.ErrConflict, refType, refID, id)
		}
	}
	return nil
}
