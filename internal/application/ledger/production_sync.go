package ledger

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/entity"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/inventory"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/repository"
	"go.opentelemetry.io/otel/attribute"
)

// SyncConfig constantes de negocio del sincronizador (configurables, ver pkg/config).
type SyncConfig struct {
	DefaultLossFactor    decimal.Decimal
	DefaultBlockLengthMM int
	DefaultBlockWidthMM  int
}

// DefaultSyncConfig valores por defecto: pérdida 0.42 y bloque de 4060×1020 mm.
func DefaultSyncConfig() SyncConfig {
	return SyncConfig{
		DefaultLossFactor:    decimal.RequireFromString("0.42"),
		DefaultBlockLengthMM: 4060,
		DefaultBlockWidthMM:  1020,
	}
}

// ProductionSync mantiene el libro consistente con las producciones de bloques y moldeados.
// Cada operación se ejecuta bajo el lock de la producción y en una única transacción:
// o se aplican entrada y consumición juntas o no se aplica nada.
type ProductionSync struct {
	txRunner     TxRunner
	locker       Locker
	blockTypes   repository.BlockTypeRepository
	moldTypes    repository.MoldTypeRepository
	rawMaterials repository.RawMaterialRepository
	recorder     repository.ProductionRecorder
	cfg          SyncConfig
	log          zerolog.Logger
}

// nopRecorder descarta los datos de producción: con postgres el módulo de producción
// ya los guarda en sus tablas.
type nopRecorder struct{}

func (nopRecorder) RecordBlockProduction(context.Context, repository.BlockProductionFact) error {
	return nil
}

func (nopRecorder) RecordMoldedLosses(context.Context, string, []repository.MoldedLossFact) error {
	return nil
}

func (nopRecorder) RemoveProduction(context.Context, entity.ProductionReference) error { return nil }

// NewProductionSync construye el sincronizador.
func NewProductionSync(
	txRunner TxRunner,
	locker Locker,
	blockTypes repository.BlockTypeRepository,
	moldTypes repository.MoldTypeRepository,
	rawMaterials repository.RawMaterialRepository,
	cfg SyncConfig,
	log zerolog.Logger,
) *ProductionSync {
	return &ProductionSync{
		txRunner:     txRunner,
		locker:       locker,
		blockTypes:   blockTypes,
		moldTypes:    moldTypes,
		rawMaterials: rawMaterials,
		recorder:     nopRecorder{},
		cfg:          cfg,
		log:          log,
	}
}

// WithRecorder registra r como destino de los datos de producción sincronizados.
func (s *ProductionSync) WithRecorder(r repository.ProductionRecorder) *ProductionSync {
	if r != nil {
		s.recorder = r
	}
	return s
}

// BlockSyncResult cantidades derivadas de una producción de bloque. El llamador las
// guarda en su propio registro; el libro no las duplica.
type BlockSyncResult struct {
	Owned    OwnedMovements
	Mass     inventory.MassSplit
	LengthMM int
	WidthMM  int
	VolumeM3 decimal.Decimal
	Density  decimal.Decimal // kg/m³
}

// MoldedSyncResult cantidades derivadas de una producción de moldeados.
type MoldedSyncResult struct {
	Owned           OwnedMovements
	PackageQuantity int
	Weight          inventory.MoldedWeight
}

// SyncBlockProduction upsert de la entrada de 1 bloque (y su consumición opcional).
// Ejecutarlo dos veces con los mismos datos deja exactamente los mismos movimientos.
func (s *ProductionSync) SyncBlockProduction(ctx context.Context, rec entity.BlockProduction) (res *BlockSyncResult, err error) {
	ctx, span := startSpan(ctx, "ledger.SyncBlockProduction", attribute.String("block_production.id", rec.ID))
	defer func() { endSpan(span, err) }()

	if rec.ID == "" {
		return nil, fmt.Errorf("%w: id de producción requerido", domain.ErrInvalidInput)
	}
	if rec.Weight.IsNegative() {
		return nil, fmt.Errorf("%w: peso negativo", domain.ErrInvalidInput)
	}
	if rec.CompletedAt().IsZero() {
		return nil, fmt.Errorf("%w: la producción no tiene fecha de inicio ni de fin", domain.ErrInvalidInput)
	}

	blockType, err := s.blockTypes.GetByID(ctx, rec.BlockTypeID)
	if err != nil {
		return nil, err
	}
	if blockType == nil {
		return nil, fmt.Errorf("%w: tipo de bloque %q", domain.ErrReferencedEntityMissing, rec.BlockTypeID)
	}

	item := entity.BlockItem{
		BlockTypeID: rec.BlockTypeID,
		LengthMM:    orDefault(rec.LengthMM, s.cfg.DefaultBlockLengthMM),
		WidthMM:     orDefault(rec.WidthMM, s.cfg.DefaultBlockWidthMM),
		HeightMM:    rec.HeightMM,
	}
	volume := item.VolumeM3()
	res = &BlockSyncResult{
		Mass:     inventory.SplitBlockMass(rec.Weight, blockType.VirginPercentage()),
		LengthMM: item.LengthMM,
		WidthMM:  item.WidthMM,
		VolumeM3: volume,
		Density:  inventory.Density(rec.Weight, volume),
	}

	stockIn := entity.Movement{
		OccurredAt: rec.CompletedAt(),
		Item:       item,
		Direction:  entity.DirectionIn,
		Quantity:   decimal.NewFromInt(1),
		Unit:       entity.UnitUnit,
		Location:   rec.Location,
		Notes:      fmt.Sprintf("Producción de bloque (hoja %d)", rec.SheetNumber),
		CreatedBy:  rec.UpdatedBy,
	}
	consumption, err := s.consumptionMovement(ctx, rec.Consumption, stockIn)
	if err != nil {
		return nil, err
	}

	owned, err := s.replace(ctx, rec.Reference(), stockIn, consumption)
	if err != nil {
		return nil, err
	}
	res.Owned = owned

	s.record(rec.Reference(), s.recorder.RecordBlockProduction(ctx, repository.BlockProductionFact{
		ID:         rec.ID,
		At:         rec.CompletedAt(),
		Weight:     rec.Weight,
		VirginKg:   res.Mass.VirginKg,
		RecycledKg: res.Mass.RecycledKg,
		IsScrap:    rec.IsScrap,
	}))
	return res, nil
}

// SyncMoldedProduction upsert de la entrada de moldeados (y su consumición opcional).
func (s *ProductionSync) SyncMoldedProduction(ctx context.Context, rec entity.MoldedProduction) (res *MoldedSyncResult, err error) {
	ctx, span := startSpan(ctx, "ledger.SyncMoldedProduction", attribute.String("molded_production.id", rec.ID))
	defer func() { endSpan(span, err) }()

	if rec.ID == "" {
		return nil, fmt.Errorf("%w: id de producción requerido", domain.ErrInvalidInput)
	}
	if rec.Quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad producida debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if rec.ProducedAt.IsZero() {
		return nil, fmt.Errorf("%w: fecha de producción requerida", domain.ErrInvalidInput)
	}

	moldType, err := s.moldTypes.GetByID(ctx, rec.MoldTypeID)
	if err != nil {
		return nil, err
	}
	if moldType == nil {
		return nil, fmt.Errorf("%w: tipo de molde %q", domain.ErrReferencedEntityMissing, rec.MoldTypeID)
	}

	packageQty := orDefault(rec.PackageQuantity, moldType.PiecesPerPackage)
	lossFactor := s.cfg.DefaultLossFactor
	if rec.LossFactorEnabled {
		lossFactor = rec.LossFactor
	}
	weight, err := inventory.ComputeMoldedWeight(rec.Quantity, rec.PackageWeight, packageQty, lossFactor)
	if err != nil {
		return nil, err
	}
	res = &MoldedSyncResult{PackageQuantity: packageQty, Weight: weight}

	stockIn := entity.Movement{
		OccurredAt: rec.ProducedAt,
		Item:       entity.MoldedItem{MoldTypeID: rec.MoldTypeID},
		Direction:  entity.DirectionIn,
		Quantity:   decimal.NewFromInt(int64(rec.Quantity)),
		Unit:       entity.UnitUnit,
		Location:   rec.Location,
		Notes:      "Producción de moldeados",
		CreatedBy:  rec.UpdatedBy,
	}
	consumption, err := s.consumptionMovement(ctx, rec.Consumption, stockIn)
	if err != nil {
		return nil, err
	}

	owned, err := s.replace(ctx, rec.Reference(), stockIn, consumption)
	if err != nil {
		return nil, err
	}
	res.Owned = owned

	losses := make([]repository.MoldedLossFact, 0, len(rec.Losses))
	for _, l := range rec.Losses {
		losses = append(losses, repository.MoldedLossFact{
			At:         rec.ProducedAt,
			ReasonID:   l.ReasonID,
			ReasonName: l.ReasonName,
			Units:      int64(l.Units),
		})
	}
	s.record(rec.Reference(), s.recorder.RecordMoldedLosses(ctx, rec.ID, losses))
	return res, nil
}

// Retract retira los movimientos de una producción que acaba de borrarse.
func (s *ProductionSync) Retract(ctx context.Context, ref entity.ProductionReference) (ids []string, err error) {
	ctx, span := startSpan(ctx, "ledger.Retract",
		attribute.String("reference.type", string(ref.Type)),
		attribute.String("reference.id", ref.ID))
	defer func() { endSpan(span, err) }()

	if ref.Type != entity.ProductionTypeBlock && ref.Type != entity.ProductionTypeMolded || ref.ID == "" {
		return nil, fmt.Errorf("%w: referencia de producción inválida", domain.ErrInvalidInput)
	}
	release, err := s.locker.Acquire(ctx, ref.LockKey())
	if err != nil {
		return nil, err
	}
	defer release()

	err = s.txRunner.Run(ctx, func(movRepo repository.MovementRepository, _ repository.ReservationRepository) error {
		var txErr error
		ids, txErr = NewStore(movRepo, s.log).RetractOwned(ctx, ref)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	s.record(ref, s.recorder.RemoveProduction(ctx, ref))
	return ids, nil
}

// record el libro ya quedó confirmado: un fallo del recorder solo se registra en el log.
func (s *ProductionSync) record(ref entity.ProductionReference, err error) {
	if err != nil {
		s.log.Warn().Err(err).Str("reference", ref.LockKey()).Msg("datos de producción no registrados")
	}
}

func (s *ProductionSync) replace(ctx context.Context, ref entity.ProductionReference, stockIn entity.Movement, consumption *entity.Movement) (OwnedMovements, error) {
	release, err := s.locker.Acquire(ctx, ref.LockKey())
	if err != nil {
		return OwnedMovements{}, err
	}
	defer release()

	var owned OwnedMovements
	err = s.txRunner.Run(ctx, func(movRepo repository.MovementRepository, _ repository.ReservationRepository) error {
		var txErr error
		owned, txErr = NewStore(movRepo, s.log).ReplaceOwned(ctx, ref, stockIn, consumption)
		return txErr
	})
	if err != nil {
		s.log.Error().Err(err).Str("reference", ref.LockKey()).Msg("sincronización de producción fallida")
		return OwnedMovements{}, err
	}
	s.log.Debug().
		Str("reference", ref.LockKey()).
		Str("stock_in_id", owned.StockInID).
		Str("consumption_id", owned.ConsumptionID).
		Msg("producción sincronizada")
	return owned, nil
}

// consumptionMovement construye la salida de materia prima encadenada, o nil si no se declaró.
func (s *ProductionSync) consumptionMovement(ctx context.Context, c *entity.RawMaterialConsumption, stockIn entity.Movement) (*entity.Movement, error) {
	return buildConsumption(ctx, s.rawMaterials, c, stockIn)
}

func buildConsumption(ctx context.Context, rawMaterials repository.RawMaterialRepository, c *entity.RawMaterialConsumption, stockIn entity.Movement) (*entity.Movement, error) {
	if c == nil {
		return nil, nil
	}
	rm, err := rawMaterials.GetByID(ctx, c.RawMaterialID)
	if err != nil {
		return nil, err
	}
	if rm == nil {
		return nil, fmt.Errorf("%w: materia prima %q", domain.ErrReferencedEntityMissing, c.RawMaterialID)
	}
	return &entity.Movement{
		OccurredAt: stockIn.OccurredAt,
		Item:       entity.RawMaterialItem{RawMaterialID: c.RawMaterialID},
		Direction:  entity.DirectionOut,
		Quantity:   c.Quantity,
		Unit:       entity.UnitKg,
		Location:   c.Location,
		Notes:      stockIn.Notes,
		CreatedBy:  stockIn.CreatedBy,
	}, nil
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
