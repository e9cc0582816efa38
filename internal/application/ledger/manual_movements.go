package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/entity"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/repository"
	"go.opentelemetry.io/otel/attribute"
)

// ManualMovementInput datos de un movimiento cargado a mano (entrada, salida o ajuste).
type ManualMovementInput struct {
	OccurredAt  time.Time
	Item        entity.Item
	Direction   entity.Direction
	Quantity    decimal.Decimal
	Location    entity.Location
	Notes       string
	Consumption *entity.RawMaterialConsumption // solo para bloques y moldeados
	UserID      string
}

// ManualMovementResult IDs del movimiento y de su consumición encadenada (si hay).
type ManualMovementResult struct {
	MovementID    string
	ConsumptionID string
}

// ManualMovements caso de uso de movimientos manuales.
type ManualMovements struct {
	txRunner     TxRunner
	locker       Locker
	movements    repository.MovementRepository
	blockTypes   repository.BlockTypeRepository
	moldTypes    repository.MoldTypeRepository
	rawMaterials repository.RawMaterialRepository
	log          zerolog.Logger
}

// NewManualMovements construye el caso de uso. movements se usa para lecturas fuera de tx.
func NewManualMovements(
	txRunner TxRunner,
	locker Locker,
	movements repository.MovementRepository,
	blockTypes repository.BlockTypeRepository,
	moldTypes repository.MoldTypeRepository,
	rawMaterials repository.RawMaterialRepository,
	log zerolog.Logger,
) *ManualMovements {
	return &ManualMovements{
		txRunner:     txRunner,
		locker:       locker,
		movements:    movements,
		blockTypes:   blockTypes,
		moldTypes:    moldTypes,
		rawMaterials: rawMaterials,
		log:          log,
	}
}

// Get devuelve un movimiento por ID.
func (uc *ManualMovements) Get(ctx context.Context, id string) (*entity.Movement, error) {
	return NewStore(uc.movements, uc.log).Get(ctx, id)
}

// List consulta paginada del libro (todos los movimientos, no solo los manuales).
// Devuelve también el total sin paginar.
func (uc *ManualMovements) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, int64, error) {
	store := NewStore(uc.movements, uc.log)
	list, err := store.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := store.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// PostManualMovement registra un movimiento manual y, si se declaró, su consumición
// de materia prima encadenada, en una sola transacción.
func (uc *ManualMovements) PostManualMovement(ctx context.Context, in ManualMovementInput) (res *ManualMovementResult, err error) {
	ctx, span := startSpan(ctx, "ledger.PostManualMovement", attribute.String("direction", string(in.Direction)))
	defer func() { endSpan(span, err) }()

	mov, consumption, err := uc.build(ctx, in)
	if err != nil {
		return nil, err
	}

	res = &ManualMovementResult{}
	err = uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository, _ repository.ReservationRepository) error {
		store := NewStore(movRepo, uc.log)
		id, err := store.Append(ctx, mov)
		if err != nil {
			return err
		}
		res.MovementID = id
		if consumption == nil {
			return nil
		}
		consumption.Reference = entity.MovementReference{MovementID: id}
		res.ConsumptionID, err = store.Append(ctx, consumption)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("movement_id", res.MovementID).
		Str("consumption_id", res.ConsumptionID).
		Str("user_id", in.UserID).
		Msg("movimiento manual registrado")
	return res, nil
}

// UpdateManualMovement modifica en sitio un movimiento manual. Los movimientos propiedad
// de una producción, o encadenados a otro, no se editan por esta vía (ErrConflict).
// Si la consumición se quita, la encadenada anterior se retira (queda en el log).
func (uc *ManualMovements) UpdateManualMovement(ctx context.Context, id string, in ManualMovementInput) (res *ManualMovementResult, err error) {
	ctx, span := startSpan(ctx, "ledger.UpdateManualMovement", attribute.String("movement.id", id))
	defer func() { endSpan(span, err) }()

	next, consumption, err := uc.build(ctx, in)
	if err != nil {
		return nil, err
	}

	release, err := uc.locker.Acquire(ctx, entity.MovementReferenceType+":"+id)
	if err != nil {
		return nil, err
	}
	defer release()

	res = &ManualMovementResult{MovementID: id}
	err = uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository, _ repository.ReservationRepository) error {
		store := NewStore(movRepo, uc.log)
		existing, err := store.Get(ctx, id)
		if err != nil {
			return err
		}
		if !entity.IsManual(existing.Reference) {
			refType, refID := existing.Reference.Columns()
			return fmt.Errorf("%w: el movimiento pertenece a %s %s", domain.ErrConflict, refType, refID)
		}
		next.Reference = entity.NoReference{}
		if err := store.updateInPlace(ctx, existing, next); err != nil {
			return err
		}
		res.ConsumptionID, err = store.syncChained(ctx, id, consumption)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("movement_id", id).
		Str("consumption_id", res.ConsumptionID).
		Str("user_id", in.UserID).
		Msg("movimiento manual actualizado")
	return res, nil
}

// DeleteManualMovement siempre rechazado: los movimientos no pueden eliminarse.
func (uc *ManualMovements) DeleteManualMovement(ctx context.Context, id string) error {
	return NewStore(uc.movements, uc.log).Delete(ctx, id)
}

// build valida referencias externas y arma el movimiento y su consumición.
func (uc *ManualMovements) build(ctx context.Context, in ManualMovementInput) (*entity.Movement, *entity.Movement, error) {
	if in.Item == nil {
		return nil, nil, fmt.Errorf("%w: ítem requerido", domain.ErrInvalidInput)
	}
	occurredAt := in.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	mov := &entity.Movement{
		OccurredAt: occurredAt,
		Item:       in.Item,
		Direction:  in.Direction,
		Quantity:   in.Quantity,
		Unit:       entity.UnitFor(in.Item.ItemType()),
		Location:   in.Location,
		Reference:  entity.NoReference{},
		Notes:      in.Notes,
		CreatedBy:  in.UserID,
	}
	if err := mov.Validate(); err != nil {
		return nil, nil, err
	}
	if err := uc.checkItemExists(ctx, in.Item); err != nil {
		return nil, nil, err
	}
	if in.Consumption != nil && in.Item.ItemType() == entity.ItemTypeRawMaterial {
		return nil, nil, fmt.Errorf("%w: una entrada de materia prima no puede declarar consumición", domain.ErrInvalidInput)
	}
	consumption, err := buildConsumption(ctx, uc.rawMaterials, in.Consumption, *mov)
	if err != nil {
		return nil, nil, err
	}
	return mov, consumption, nil
}

func (uc *ManualMovements) checkItemExists(ctx context.Context, item entity.Item) error {
	switch it := item.(type) {
	case entity.RawMaterialItem:
		rm, err := uc.rawMaterials.GetByID(ctx, it.RawMaterialID)
		if err != nil {
			return err
		}
		if rm == nil {
			return fmt.Errorf("%w: materia prima %q", domain.ErrReferencedEntityMissing, it.RawMaterialID)
		}
	case entity.BlockItem:
		bt, err := uc.blockTypes.GetByID(ctx, it.BlockTypeID)
		if err != nil {
			return err
		}
		if bt == nil {
			return fmt.Errorf("%w: tipo de bloque %q", domain.ErrReferencedEntityMissing, it.BlockTypeID)
		}
	case entity.MoldedItem:
		mt, err := uc.moldTypes.GetByID(ctx, it.MoldTypeID)
		if err != nil {
			return err
		}
		if mt == nil {
			return fmt.Errorf("%w: tipo de molde %q", domain.ErrReferencedEntityMissing, it.MoldTypeID)
		}
	}
	return nil
}
