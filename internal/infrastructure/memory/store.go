// Package memory implementa los puertos del libro en memoria. Sirve para desarrollo local
// (STORAGE_DRIVER=memory) y para los tests de los casos de uso; las transacciones se
// simulan con snapshot + restore.
package memory

import (
	"context"
	"sync"

	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/application/ledger"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/entity"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/repository"
)

var _ ledger.TxRunner = (*Store)(nil)

// Store estado compartido de todos los repos en memoria.
type Store struct {
	mu sync.RWMutex
	state

	blockTypes   map[string]entity.BlockType
	moldTypes    map[string]entity.MoldType
	rawMaterials map[string]entity.RawMaterial
}

// state lo que una transacción puede modificar (y por tanto lo que se copia en el snapshot).
type state struct {
	movements    map[string]entity.Movement
	reservations map[string]entity.Reservation
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		state: state{
			movements:    make(map[string]entity.Movement),
			reservations: make(map[string]entity.Reservation),
		},
		blockTypes:   make(map[string]entity.BlockType),
		moldTypes:    make(map[string]entity.MoldType),
		rawMaterials: make(map[string]entity.RawMaterial),
	}
}

// Run ejecuta fn con repos que escriben directo sobre el estado, bajo el lock exclusivo.
// Si fn falla, el estado vuelve al snapshot tomado al empezar.
func (s *Store) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	resRepo repository.ReservationRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(&MovementRepo{s: s, inTx: true}, &ReservationRepo{s: s, inTx: true}); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

func (st state) clone() state {
	out := state{
		movements:    make(map[string]entity.Movement, len(st.movements)),
		reservations: make(map[string]entity.Reservation, len(st.reservations)),
	}
	for k, v := range st.movements {
		out.movements[k] = v
	}
	for k, v := range st.reservations {
		out.reservations[k] = v
	}
	return out
}

// Movements repo de movimientos fuera de transacción.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s: s} }

// Reservations repo de reservas fuera de transacción.
func (s *Store) Reservations() *ReservationRepo { return &ReservationRepo{s: s} }

// BlockTypes registro de tipos de bloque.
func (s *Store) BlockTypes() *BlockTypeRepo { return &BlockTypeRepo{s: s} }

// MoldTypes registro de tipos de molde.
func (s *Store) MoldTypes() *MoldTypeRepo { return &MoldTypeRepo{s: s} }

// RawMaterials registro de materias primas.
func (s *Store) RawMaterials() *RawMaterialRepo { return &RawMaterialRepo{s: s} }

// PutBlockType alta o reemplazo de un tipo de bloque.
func (s *Store) PutBlockType(bt entity.BlockType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blockTypes[bt.ID] = bt
}

// PutMoldType alta o reemplazo de un tipo de molde.
func (s *Store) PutMoldType(mt entity.MoldType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moldTypes[mt.ID] = mt
}

// PutRawMaterial alta o reemplazo de una materia prima.
func (s *Store) PutRawMaterial(rm entity.RawMaterial) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawMaterials[rm.ID] = rm
}

// read ejecuta fn con lock compartido, salvo dentro de una tx (el lock ya está tomado).
func (s *Store) read(inTx bool, fn func()) {
	if !inTx {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	fn()
}

// write ejecuta fn con lock exclusivo, salvo dentro de una tx.
func (s *Store) write(inTx bool, fn func()) {
	if !inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	fn()
}
