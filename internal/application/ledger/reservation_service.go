package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/entity"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/repository"
	"go.opentelemetry.io/otel/attribute"
)

const reservationScale = 4 // decimales del reparto entre silos

// ReservationService reservas de materia prima por apontamiento. Nunca registra
// movimientos ni altera saldos; solo responde cuánto material está comprometido.
type ReservationService struct {
	txRunner     TxRunner
	locker       Locker
	reservations repository.ReservationRepository
	rawMaterials repository.RawMaterialRepository
	log          zerolog.Logger
}

// NewReservationService construye el servicio. reservations se usa para lecturas fuera de tx.
func NewReservationService(
	txRunner TxRunner,
	locker Locker,
	reservations repository.ReservationRepository,
	rawMaterials repository.RawMaterialRepository,
	log zerolog.Logger,
) *ReservationService {
	return &ReservationService{
		txRunner:     txRunner,
		locker:       locker,
		reservations: reservations,
		rawMaterials: rawMaterials,
		log:          log,
	}
}

// ReserveForProductionPointing sustituye las reservas del apontamiento por una fila por silo.
// Los silos con cantidad propia la conservan; el resto reparte a partes iguales lo que
// falta del planificado, con el redondeo acumulado en el último silo.
func (s *ReservationService) ReserveForProductionPointing(ctx context.Context, p entity.ProductionPointing) (out []*entity.Reservation, err error) {
	ctx, span := startSpan(ctx, "ledger.ReserveForProductionPointing", attribute.String("pointing.id", p.ID))
	defer func() { endSpan(span, err) }()

	if p.ID == "" {
		return nil, fmt.Errorf("%w: id de apontamiento requerido", domain.ErrInvalidInput)
	}
	rm, err := s.rawMaterials.GetByID(ctx, p.RawMaterialID)
	if err != nil {
		return nil, err
	}
	if rm == nil {
		return nil, fmt.Errorf("%w: materia prima %q", domain.ErrReferencedEntityMissing, p.RawMaterialID)
	}
	quantities, err := SplitAcrossSilos(p.PlannedQuantity, p.Silos)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	out = make([]*entity.Reservation, 0, len(p.Silos))
	for i, silo := range p.Silos {
		out = append(out, &entity.Reservation{
			ID:                   uuid.New().String(),
			ProductionPointingID: p.ID,
			RawMaterialID:        p.RawMaterialID,
			SiloID:               silo.SiloID,
			ReservedQuantity:     quantities[i],
			CreatedAt:            now,
			UpdatedAt:            now,
		})
	}

	release, err := s.locker.Acquire(ctx, "ProductionPointing:"+p.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	err = s.txRunner.Run(ctx, func(_ repository.MovementRepository, resRepo repository.ReservationRepository) error {
		return resRepo.ReplaceForPointing(ctx, p.ID, out)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("pointing_id", p.ID).
		Str("raw_material_id", p.RawMaterialID).
		Int("silos", len(out)).
		Msg("reservas de apontamiento actualizadas")
	return out, nil
}

// ReleaseForProductionPointing elimina las reservas del apontamiento (al borrarse este).
func (s *ReservationService) ReleaseForProductionPointing(ctx context.Context, pointingID string) (int64, error) {
	if pointingID == "" {
		return 0, fmt.Errorf("%w: id de apontamiento requerido", domain.ErrInvalidInput)
	}
	release, err := s.locker.Acquire(ctx, "ProductionPointing:"+pointingID)
	if err != nil {
		return 0, err
	}
	defer release()

	var n int64
	err = s.txRunner.Run(ctx, func(_ repository.MovementRepository, resRepo repository.ReservationRepository) error {
		var txErr error
		n, txErr = resRepo.DeleteByPointing(ctx, pointingID)
		return txErr
	})
	if err != nil {
		return 0, err
	}
	s.log.Info().Str("pointing_id", pointingID).Int64("released", n).Msg("reservas liberadas")
	return n, nil
}

// ListForProductionPointing reservas vigentes del apontamiento.
func (s *ReservationService) ListForProductionPointing(ctx context.Context, pointingID string) ([]*entity.Reservation, error) {
	return s.reservations.ListByPointing(ctx, pointingID)
}

// Reserved total comprometido de una materia prima; siloID vacío = todos los silos.
func (s *ReservationService) Reserved(ctx context.Context, rawMaterialID, siloID string) (decimal.Decimal, error) {
	if rawMaterialID == "" {
		return decimal.Zero, fmt.Errorf("%w: raw_material_id requerido", domain.ErrInvalidInput)
	}
	return s.reservations.SumReserved(ctx, rawMaterialID, siloID)
}

// SplitAcrossSilos reparte planned entre los silos. Devuelve una cantidad por silo en el
// mismo orden. Falla si no hay silos, si se repite un silo, si hay cantidades negativas o
// si las cantidades explícitas superan lo planificado.
func SplitAcrossSilos(planned decimal.Decimal, silos []entity.PointingSilo) ([]decimal.Decimal, error) {
	if len(silos) == 0 {
		return nil, fmt.Errorf("%w: el apontamiento no tiene silos", domain.ErrInvalidInput)
	}
	if planned.IsNegative() {
		return nil, fmt.Errorf("%w: cantidad planificada negativa", domain.ErrInvalidInput)
	}

	seen := make(map[string]struct{}, len(silos))
	explicit := decimal.Zero
	var shared []int
	for i, s := range silos {
		if s.SiloID == "" {
			return nil, fmt.Errorf("%w: silo_id requerido", domain.ErrInvalidInput)
		}
		if _, dup := seen[s.SiloID]; dup {
			return nil, fmt.Errorf("%w: silo %q repetido", domain.ErrInvalidInput, s.SiloID)
		}
		seen[s.SiloID] = struct{}{}
		if s.Quantity == nil {
			shared = append(shared, i)
			continue
		}
		if s.Quantity.IsNegative() {
			return nil, fmt.Errorf("%w: cantidad negativa para el silo %q", domain.ErrInvalidInput, s.SiloID)
		}
		explicit = explicit.Add(*s.Quantity)
	}
	if explicit.GreaterThan(planned) {
		return nil, fmt.Errorf("%w: las cantidades por silo (%s) superan lo planificado (%s)",
			domain.ErrInvalidInput, explicit.String(), planned.String())
	}

	out := make([]decimal.Decimal, len(silos))
	for i, s := range silos {
		if s.Quantity != nil {
			out[i] = *s.Quantity
		}
	}
	if len(shared) == 0 {
		return out, nil
	}
	remaining := planned.Sub(explicit)
	each := remaining.DivRound(decimal.NewFromInt(int64(len(shared))), reservationScale+2).Truncate(reservationScale)
	assigned := decimal.Zero
	for _, idx := range shared[:len(shared)-1] {
		out[idx] = each
		assigned = assigned.Add(each)
	}
	out[shared[len(shared)-1]] = remaining.Sub(assigned)
	return out, nil
}
