package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/entity"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/repository"
)

// Store almacén del libro sobre un MovementRepository (normalmente atado a una tx).
//
// Política de inmutabilidad: ningún movimiento se borra por la vía general (Delete siempre
// falla con ErrAuditViolation). Las únicas retiradas permitidas son explícitas y quedan
// registradas en el log: RetractOwned, al borrarse la producción dueña, y la limpieza de
// una consumición encadenada cuando su entrada deja de declararla.
type Store struct {
	movements repository.MovementRepository
	log       zerolog.Logger
}

// NewStore construye el almacén.
func NewStore(movements repository.MovementRepository, log zerolog.Logger) *Store {
	return &Store{movements: movements, log: log}
}

// OwnedMovements movimientos que representan un registro de producción.
type OwnedMovements struct {
	StockInID     string
	ConsumptionID string // vacío si no hay consumo declarado
}

// Append valida e inserta un movimiento nuevo. Nunca modifica filas existentes.
func (s *Store) Append(ctx context.Context, m *entity.Movement) (string, error) {
	if err := m.Validate(); err != nil {
		return "", err
	}
	now := time.Now().UTC()
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.Location = m.Location.Normalized()
	m.CreatedAt, m.UpdatedAt = now, now
	if err := s.movements.Create(ctx, m); err != nil {
		return "", err
	}
	return m.ID, nil
}

// Get devuelve un movimiento o domain.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*entity.Movement, error) {
	m, err := s.movements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

// List movimientos que cumplen el filtro, por occurred_at ascendente.
func (s *Store) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, fmt.Errorf("%w: limit/offset negativos", domain.ErrInvalidInput)
	}
	return s.movements.List(ctx, filter)
}

// Count total de movimientos que cumplen el filtro, sin paginar.
func (s *Store) Count(ctx context.Context, filter repository.MovementFilter) (int64, error) {
	return s.movements.Count(ctx, filter)
}

// ReplaceOwned deja el libro representando exactamente el estado actual de una producción:
// una entrada propia (actualizada en sitio si ya existía) y, si consumption no es nil, una
// consumición encadenada. Una consumición previa que ya no se declara se retira.
func (s *Store) ReplaceOwned(ctx context.Context, ref entity.ProductionReference, stockIn entity.Movement, consumption *entity.Movement) (OwnedMovements, error) {
	owned, err := s.movements.FindByReference(ctx, ref)
	if err != nil {
		return OwnedMovements{}, err
	}
	if len(owned) > 1 {
		return OwnedMovements{}, fmt.Errorf("%w: %s posee %d entradas", domain.ErrConsistency, ref.LockKey(), len(owned))
	}

	stockIn.Reference = ref
	if len(owned) == 1 {
		if err := s.updateInPlace(ctx, owned[0], &stockIn); err != nil {
			return OwnedMovements{}, err
		}
	} else if _, err := s.Append(ctx, &stockIn); err != nil {
		return OwnedMovements{}, err
	}

	consID, err := s.syncChained(ctx, stockIn.ID, consumption)
	if err != nil {
		return OwnedMovements{}, err
	}
	return OwnedMovements{StockInID: stockIn.ID, ConsumptionID: consID}, nil
}

// RetractOwned elimina las entradas propiedad de la producción y la consumición encadenada
// a cada una. Es la excepción explícita a la inmutabilidad; cada ID retirado queda en el log.
func (s *Store) RetractOwned(ctx context.Context, ref entity.ProductionReference) ([]string, error) {
	owned, err := s.movements.FindByReference(ctx, ref)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(owned)*2)
	for _, m := range owned {
		ids = append(ids, m.ID)
		linked, err := s.movements.FindByReference(ctx, entity.MovementReference{MovementID: m.ID})
		if err != nil {
			return nil, err
		}
		for _, l := range linked {
			ids = append(ids, l.ID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}
	n, err := s.movements.DeleteOwned(ctx, ids)
	if err != nil {
		return nil, err
	}
	if n != int64(len(ids)) {
		return nil, fmt.Errorf("%w: se esperaban %d movimientos retirados, se retiraron %d", domain.ErrConsistency, len(ids), n)
	}
	refType, refID := ref.Columns()
	for _, id := range ids {
		s.log.Info().
			Str("reference_type", refType).
			Str("reference_id", refID).
			Str("movement_id", id).
			Msg("movimiento retirado por borrado de producción")
	}
	return ids, nil
}

// Delete rechaza siempre el borrado por la vía general. El movimiento sigue legible.
func (s *Store) Delete(ctx context.Context, id string) error {
	m, err := s.movements.GetByID(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Str("movement_id", id).Msg("intento de borrado de movimiento")
	} else {
		s.log.Warn().
			Str("movement_id", id).
			Bool("exists", m != nil).
			Msg("intento de borrado de movimiento rechazado")
	}
	return domain.ErrAuditViolation
}

// syncChained crea, actualiza o retira la consumición encadenada a stockInID.
func (s *Store) syncChained(ctx context.Context, stockInID string, consumption *entity.Movement) (string, error) {
	link := entity.MovementReference{MovementID: stockInID}
	linked, err := s.movements.FindByReference(ctx, link)
	if err != nil {
		return "", err
	}
	if len(linked) > 1 {
		return "", fmt.Errorf("%w: la entrada %s tiene %d consumiciones", domain.ErrConsistency, stockInID, len(linked))
	}

	if consumption == nil {
		if len(linked) == 1 {
			if _, err := s.movements.DeleteOwned(ctx, []string{linked[0].ID}); err != nil {
				return "", err
			}
			s.log.Info().
				Str("reference_type", entity.MovementReferenceType).
				Str("reference_id", stockInID).
				Str("movement_id", linked[0].ID).
				Msg("consumición encadenada retirada")
		}
		return "", nil
	}

	if _, ok := consumption.Item.(entity.RawMaterialItem); !ok {
		return "", fmt.Errorf("%w: la consumición debe ser de materia prima", domain.ErrInvalidInput)
	}
	consumption.Direction = entity.DirectionOut
	consumption.Unit = entity.UnitKg
	consumption.Reference = link
	if len(linked) == 1 {
		if err := s.updateInPlace(ctx, linked[0], consumption); err != nil {
			return "", err
		}
		return consumption.ID, nil
	}
	return s.Append(ctx, consumption)
}

// updateInPlace copia la identidad y auditoría de existing sobre next y persiste.
func (s *Store) updateInPlace(ctx context.Context, existing, next *entity.Movement) error {
	next.ID = existing.ID
	next.CreatedAt = existing.CreatedAt
	if existing.CreatedBy != "" {
		next.CreatedBy = existing.CreatedBy
	}
	if next.Reference == nil {
		next.Reference = existing.Reference
	}
	next.Location = next.Location.Normalized()
	if err := next.Validate(); err != nil {
		return err
	}
	next.UpdatedAt = time.Now().UTC()
	return s.movements.Update(ctx, next)
}
