package ledger

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/application/dto"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/entity"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/inventory"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/repository"
)

const summaryLossRankingLimit = 10 // motivos en el ranking de pérdidas del resumen

// DefaultSiloEpsilon cargas de silo con |saldo| ≤ ε se consideran vacías.
var DefaultSiloEpsilon = decimal.RequireFromString("0.0001")

// BalanceService calcula saldos y reportes de stock. Nunca guarda saldos: cada llamada
// los recalcula desde los movimientos confirmados.
//
// Fuente de datos: MovementRepository (libro), ReservationRepository (disponibilidad)
// y ProductionStatsRepository (agregados de producción para el resumen).
type BalanceService struct {
	movements    repository.MovementRepository
	reservations repository.ReservationRepository
	stats        repository.ProductionStatsRepository
	siloEpsilon  decimal.Decimal
	log          zerolog.Logger
}

// NewBalanceService construye el servicio.
func NewBalanceService(
	movements repository.MovementRepository,
	reservations repository.ReservationRepository,
	stats repository.ProductionStatsRepository,
	siloEpsilon decimal.Decimal,
	log zerolog.Logger,
) *BalanceService {
	return &BalanceService{
		movements:    movements,
		reservations: reservations,
		stats:        stats,
		siloEpsilon:  siloEpsilon,
		log:          log,
	}
}

// PeriodBalance saldo completo (inicial, entradas, salidas, ajustes, final) de una clave.
// Una clave sin ubicación agrega todas las ubicaciones.
func (s *BalanceService) PeriodBalance(ctx context.Context, key entity.StockKey, w inventory.Window) (*dto.PeriodBalanceDTO, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if err := key.Validate(); err != nil {
		return nil, err
	}
	filter := repository.MovementFilter{
		ItemTypes:   []entity.ItemType{key.ItemType},
		ItemID:      key.ItemID,
		BlockTypeID: key.BlockTypeID,
		Until:       w.To,
	}
	if loc := key.Location.Normalized(); !loc.IsNone() {
		filter.LocationType, filter.LocationID = loc.Type, loc.ID
	}
	movs, err := s.movements.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	var b inventory.PeriodBalance
	for _, m := range movs {
		if key.Matches(m) {
			b.Apply(m, w)
		}
	}
	return &dto.PeriodBalanceDTO{
		Key:     key.String(),
		Initial: b.Initial,
		Inflow:  b.Inflow,
		Outflow: b.Outflow,
		Adjust:  b.Adjust,
		Final:   b.Final,
	}, nil
}

// GetRawMaterialStock saldo por materia prima (todas las ubicaciones). Solo filas con saldo ≠ 0.
func (s *BalanceService) GetRawMaterialStock(ctx context.Context, w inventory.Window) ([]dto.RawMaterialStockDTO, error) {
	movs, err := s.list(ctx, w, repository.MovementFilter{ItemTypes: []entity.ItemType{entity.ItemTypeRawMaterial}})
	if err != nil {
		return nil, err
	}
	groups := inventory.GroupBalances(movs, w, func(m *entity.Movement) (string, bool) {
		return entity.ItemID(m.Item), true
	})

	out := make([]dto.RawMaterialStockDTO, 0, len(groups))
	for id, b := range groups {
		if b.Final.IsZero() {
			continue
		}
		out = append(out, dto.RawMaterialStockDTO{
			RawMaterialID: id,
			InitialKg:     b.Initial,
			InputKg:       b.Inflow,
			RequestedKg:   b.Outflow,
			BalanceKg:     b.Final,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RawMaterialID < out[j].RawMaterialID })
	return out, nil
}

type siloMaterial struct {
	siloID        string
	rawMaterialID string
}

// GetSiloLoads carga de cada silo por materia prima. Se omiten cargas con |saldo| ≤ ε
// y los silos que quedan sin materiales.
func (s *BalanceService) GetSiloLoads(ctx context.Context, w inventory.Window) ([]dto.SiloLoadDTO, error) {
	movs, err := s.list(ctx, w, repository.MovementFilter{
		ItemTypes:    []entity.ItemType{entity.ItemTypeRawMaterial},
		LocationType: entity.LocationSilo,
	})
	if err != nil {
		return nil, err
	}
	groups := inventory.GroupBalances(movs, w, func(m *entity.Movement) (siloMaterial, bool) {
		loc := m.Location.Normalized()
		if loc.Type != entity.LocationSilo {
			return siloMaterial{}, false
		}
		return siloMaterial{siloID: loc.ID, rawMaterialID: entity.ItemID(m.Item)}, true
	})

	bySilo := make(map[string][]dto.SiloMaterialDTO)
	for k, b := range groups {
		if b.Final.Abs().LessThanOrEqual(s.siloEpsilon) {
			continue
		}
		bySilo[k.siloID] = append(bySilo[k.siloID], dto.SiloMaterialDTO{RawMaterialID: k.rawMaterialID, BalanceKg: b.Final})
	}

	out := make([]dto.SiloLoadDTO, 0, len(bySilo))
	for siloID, materials := range bySilo {
		sort.Slice(materials, func(i, j int) bool { return materials[i].RawMaterialID < materials[j].RawMaterialID })
		out = append(out, dto.SiloLoadDTO{SiloID: siloID, Materials: materials})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SiloID < out[j].SiloID })
	return out, nil
}

type blockTypeHeight struct {
	blockTypeID string
	heightMM    int
}

// GetBlockStock saldo de bloques por tipo × altura. cubic_meters es el volumen con signo
// del saldo final (Σ cantidad con signo × L×A×H). Se omiten filas todo cero.
func (s *BalanceService) GetBlockStock(ctx context.Context, w inventory.Window) ([]dto.BlockStockDTO, error) {
	movs, err := s.list(ctx, w, repository.MovementFilter{ItemTypes: []entity.ItemType{entity.ItemTypeBlock}})
	if err != nil {
		return nil, err
	}
	keyFn := func(m *entity.Movement) (blockTypeHeight, bool) {
		it, ok := m.Item.(entity.BlockItem)
		if !ok {
			return blockTypeHeight{}, false
		}
		return blockTypeHeight{blockTypeID: it.BlockTypeID, heightMM: it.HeightMM}, true
	}
	groups := inventory.GroupBalances(movs, w, keyFn)

	volumes := make(map[blockTypeHeight]decimal.Decimal, len(groups))
	for _, m := range movs {
		k, ok := keyFn(m)
		if !ok || (w.To != nil && m.OccurredAt.After(*w.To)) {
			continue
		}
		vol := m.Item.(entity.BlockItem).VolumeM3()
		volumes[k] = volumes[k].Add(m.SignedQuantity().Mul(vol))
	}

	out := make([]dto.BlockStockDTO, 0, len(groups))
	for k, b := range groups {
		if b.IsZero() {
			continue
		}
		out = append(out, dto.BlockStockDTO{
			BlockTypeID:  k.blockTypeID,
			HeightMM:     k.heightMM,
			InitialUnits: b.Initial,
			InputUnits:   b.Inflow,
			OutputUnits:  b.Outflow,
			BalanceUnits: b.Final,
			CubicMeters:  volumes[k].Round(4),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BlockTypeID != out[j].BlockTypeID {
			return out[i].BlockTypeID < out[j].BlockTypeID
		}
		return out[i].HeightMM < out[j].HeightMM
	})
	return out, nil
}

// GetMoldedStock entradas del período y saldo por tipo de molde.
func (s *BalanceService) GetMoldedStock(ctx context.Context, w inventory.Window) ([]dto.MoldedStockDTO, error) {
	movs, err := s.list(ctx, w, repository.MovementFilter{ItemTypes: []entity.ItemType{entity.ItemTypeMolded}})
	if err != nil {
		return nil, err
	}
	groups := inventory.GroupBalances(movs, w, func(m *entity.Movement) (string, bool) {
		return entity.ItemID(m.Item), true
	})

	out := make([]dto.MoldedStockDTO, 0, len(groups))
	for id, b := range groups {
		if b.Inflow.IsZero() && b.Final.IsZero() {
			continue
		}
		out = append(out, dto.MoldedStockDTO{MoldTypeID: id, InputUnits: b.Inflow, BalanceUnits: b.Final})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MoldTypeID < out[j].MoldTypeID })
	return out, nil
}

// GetStockReport los cuatro reportes de stock para la misma ventana.
func (s *BalanceService) GetStockReport(ctx context.Context, w inventory.Window) (_ *dto.StockReportDTO, err error) {
	ctx, span := startSpan(ctx, "ledger.GetStockReport")
	defer func() { endSpan(span, err) }()

	raw, err := s.GetRawMaterialStock(ctx, w)
	if err != nil {
		return nil, err
	}
	silos, err := s.GetSiloLoads(ctx, w)
	if err != nil {
		return nil, err
	}
	blocks, err := s.GetBlockStock(ctx, w)
	if err != nil {
		return nil, err
	}
	molded, err := s.GetMoldedStock(ctx, w)
	if err != nil {
		return nil, err
	}
	return &dto.StockReportDTO{From: w.From, To: w.To, RawMaterials: raw, Silos: silos, Blocks: blocks, Molded: molded}, nil
}

// GetSummary resumen de producción del período.
//
// Del libro: entradas/consumo de materia prima y bloques/moldeados producidos (entradas
// propiedad de una producción). De las producciones (stats): reparto virgen/reciclado,
// pérdidas de bloques (scrap) y de moldeados con su ranking por motivo.
//
// Las consultas a stats van en paralelo con la lectura del libro.
func (s *BalanceService) GetSummary(ctx context.Context, w inventory.Window) (_ *dto.ProductionSummaryDTO, err error) {
	ctx, span := startSpan(ctx, "ledger.GetSummary")
	defer func() { endSpan(span, err) }()

	if err := w.Validate(); err != nil {
		return nil, err
	}

	type totalsResult struct {
		totals repository.BlockProductionTotals
		err    error
	}
	type lossResult struct {
		units int64
		err   error
	}
	type rankingResult struct {
		items []repository.LossRankingItem
		err   error
	}
	totalsCh := make(chan totalsResult, 1)
	lossCh := make(chan lossResult, 1)
	rankingCh := make(chan rankingResult, 1)

	go func() {
		t, err := s.stats.BlockTotals(ctx, w.From, w.To)
		totalsCh <- totalsResult{t, err}
	}()
	go func() {
		u, err := s.stats.MoldedLossUnits(ctx, w.From, w.To)
		lossCh <- lossResult{u, err}
	}()
	go func() {
		items, err := s.stats.MoldedLossRanking(ctx, w.From, w.To, summaryLossRankingLimit)
		rankingCh <- rankingResult{items, err}
	}()

	movs, listErr := s.movements.List(ctx, repository.MovementFilter{Until: w.To})
	totals := <-totalsCh
	loss := <-lossCh
	ranking := <-rankingCh

	if listErr != nil {
		return nil, listErr
	}
	for _, err := range []error{totals.err, loss.err, ranking.err} {
		if err != nil {
			return nil, err
		}
	}

	sum := &dto.ProductionSummaryDTO{
		RawMaterialInputKg:    decimal.Zero,
		RawMaterialConsumedKg: decimal.Zero,
		BlocksProducedUnits:   decimal.Zero,
		BlocksProducedM3:      decimal.Zero,
		MoldedProducedUnits:   decimal.Zero,
		VirginMPKgForBlocks:   totals.totals.VirginKg,
		RecycledMPKgForBlocks: totals.totals.RecycledKg,
		BlockLossUnits:        totals.totals.ScrapUnits,
		BlockLossKg:           totals.totals.ScrapKg,
		MoldedLossUnits:       loss.units,
		MoldedLossRanking:     make([]dto.LossRankingDTO, 0, len(ranking.items)),
	}
	for _, m := range movs {
		if !w.Contains(m.OccurredAt) {
			continue
		}
		_, fromProduction := m.Reference.(entity.ProductionReference)
		switch it := m.Item.(type) {
		case entity.RawMaterialItem:
			switch m.Direction {
			case entity.DirectionIn:
				sum.RawMaterialInputKg = sum.RawMaterialInputKg.Add(m.Quantity)
			case entity.DirectionOut:
				sum.RawMaterialConsumedKg = sum.RawMaterialConsumedKg.Add(m.Quantity)
			}
		case entity.BlockItem:
			if fromProduction && m.Direction == entity.DirectionIn {
				sum.BlocksProducedUnits = sum.BlocksProducedUnits.Add(m.Quantity)
				sum.BlocksProducedM3 = sum.BlocksProducedM3.Add(m.Quantity.Mul(it.VolumeM3()))
			}
		case entity.MoldedItem:
			if fromProduction && m.Direction == entity.DirectionIn {
				sum.MoldedProducedUnits = sum.MoldedProducedUnits.Add(m.Quantity)
			}
		}
	}
	sum.BlocksProducedM3 = sum.BlocksProducedM3.Round(4)
	for _, r := range ranking.items {
		sum.MoldedLossRanking = append(sum.MoldedLossRanking, dto.LossRankingDTO{
			ReasonID:   r.ReasonID,
			ReasonName: r.ReasonName,
			Units:      r.Units,
		})
	}
	return sum, nil
}

// Availability saldo histórico de la materia prima (en el silo, o en todos) menos lo reservado.
func (s *BalanceService) Availability(ctx context.Context, rawMaterialID, siloID string) (*dto.AvailabilityDTO, error) {
	key := entity.StockKey{ItemType: entity.ItemTypeRawMaterial, ItemID: rawMaterialID, Location: entity.NoLocation}
	if siloID != "" {
		key.Location = entity.SiloLocation(siloID)
	}
	bal, err := s.PeriodBalance(ctx, key, inventory.Window{})
	if err != nil {
		return nil, err
	}
	reserved, err := s.reservations.SumReserved(ctx, rawMaterialID, siloID)
	if err != nil {
		return nil, err
	}
	return &dto.AvailabilityDTO{
		RawMaterialID: rawMaterialID,
		SiloID:        siloID,
		BalanceKg:     bal.Final,
		ReservedKg:    reserved,
		AvailableKg:   bal.Final.Sub(reserved),
	}, nil
}

func (s *BalanceService) list(ctx context.Context, w inventory.Window, filter repository.MovementFilter) ([]*entity.Movement, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	filter.Until = w.To
	movs, err := s.movements.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.log.Debug().Int("movements", len(movs)).Msg("movimientos leídos para reporte")
	return movs, nil
}
