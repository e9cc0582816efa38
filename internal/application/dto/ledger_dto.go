package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Query parameters ─────────────────────────────────────────────────────────

// ReportWindowRequest parámetros ?from&to de los reportes (RFC3339 o YYYY-MM-DD).
type ReportWindowRequest struct {
	From string `query:"from"`
	To   string `query:"to"`
}

// BalanceQuery parámetros de GET /api/ledger/balance.
type BalanceQuery struct {
	ReportWindowRequest
	ItemType     string `query:"item_type" validate:"required,oneof=raw_material block molded"`
	ItemID       string `query:"item_id"`
	BlockTypeID  string `query:"block_type_id"`
	LengthMM     int    `query:"length_mm" validate:"min=0"`
	WidthMM      int    `query:"width_mm" validate:"min=0"`
	HeightMM     int    `query:"height_mm" validate:"min=0"`
	LocationType string `query:"location_type" validate:"omitempty,oneof=none silo almoxarifado"`
	LocationID   string `query:"location_id"`
}

// AvailabilityQuery parámetros de GET /api/ledger/availability.
type AvailabilityQuery struct {
	RawMaterialID string `query:"raw_material_id" validate:"required"`
	SiloID        string `query:"silo_id"`
}

// MovementListQuery parámetros de GET /api/ledger/movements.
type MovementListQuery struct {
	PageRequest
	ItemType     string `query:"item_type" validate:"omitempty,oneof=raw_material block molded"`
	ItemID       string `query:"item_id"`
	BlockTypeID  string `query:"block_type_id"`
	LocationType string `query:"location_type" validate:"omitempty,oneof=none silo almoxarifado"`
	LocationID   string `query:"location_id"`
}

// ── Requests ─────────────────────────────────────────────────────────────────

// LocationRequest ubicación en requests. Vacío = sin ubicación.
type LocationRequest struct {
	Type string `json:"type" validate:"omitempty,oneof=none silo almoxarifado"`
	ID   string `json:"id"`
}

// ConsumptionRequest consumo de materia prima declarado junto a una entrada.
type ConsumptionRequest struct {
	RawMaterialID string          `json:"raw_material_id" validate:"required"`
	Quantity      decimal.Decimal `json:"quantity"`
	Location      LocationRequest `json:"location"`
}

// ManualMovementRequest body de POST/PUT /api/ledger/movements.
// Según item_type se usan raw_material_id, mold_type_id o los campos de bloque.
type ManualMovementRequest struct {
	OccurredAt    *time.Time          `json:"occurred_at,omitempty"`
	ItemType      string              `json:"item_type" validate:"required,oneof=raw_material block molded"`
	RawMaterialID string              `json:"raw_material_id,omitempty"`
	MoldTypeID    string              `json:"mold_type_id,omitempty"`
	BlockTypeID   string              `json:"block_type_id,omitempty"`
	LengthMM      int                 `json:"length_mm,omitempty" validate:"min=0"`
	WidthMM       int                 `json:"width_mm,omitempty" validate:"min=0"`
	HeightMM      int                 `json:"height_mm,omitempty" validate:"min=0"`
	Direction     string              `json:"direction" validate:"required,oneof=in out adjust"`
	Quantity      decimal.Decimal     `json:"quantity"`
	Location      LocationRequest     `json:"location"`
	Notes         string              `json:"notes,omitempty" validate:"max=1000"`
	Consumption   *ConsumptionRequest `json:"consumption,omitempty"`
}

// BlockProductionRequest body de PUT /api/ledger/productions/blocks/:id.
type BlockProductionRequest struct {
	ProductionPointingID string              `json:"production_pointing_id,omitempty"`
	BlockTypeID          string              `json:"block_type_id" validate:"required"`
	Weight               decimal.Decimal     `json:"weight"`
	LengthMM             int                 `json:"length_mm,omitempty" validate:"min=0"`
	WidthMM              int                 `json:"width_mm,omitempty" validate:"min=0"`
	HeightMM             int                 `json:"height_mm" validate:"required,min=1"`
	SheetNumber          int                 `json:"sheet_number" validate:"min=0"`
	StartedAt            *time.Time          `json:"started_at,omitempty"`
	EndedAt              *time.Time          `json:"ended_at,omitempty"`
	IsScrap              bool                `json:"is_scrap"`
	Location             LocationRequest     `json:"location"`
	Consumption          *ConsumptionRequest `json:"consumption,omitempty"`
}

// MoldedProductionRequest body de PUT /api/ledger/productions/molded/:id.
type MoldedProductionRequest struct {
	ProductionPointingID string              `json:"production_pointing_id,omitempty"`
	MoldTypeID           string              `json:"mold_type_id" validate:"required"`
	Quantity             int                 `json:"quantity" validate:"required,min=1"`
	PackageWeight        decimal.Decimal     `json:"package_weight"`
	PackageQuantity      int                 `json:"package_quantity,omitempty" validate:"min=0"`
	LossFactorEnabled    bool                `json:"loss_factor_enabled"`
	LossFactor           decimal.Decimal     `json:"loss_factor"`
	ProducedAt           time.Time           `json:"produced_at" validate:"required"`
	Location             LocationRequest     `json:"location"`
	Consumption          *ConsumptionRequest `json:"consumption,omitempty"`
	Losses               []MoldedLossRequest `json:"losses,omitempty" validate:"omitempty,dive"`
}

// MoldedLossRequest piezas perdidas por motivo.
type MoldedLossRequest struct {
	ReasonID   string `json:"reason_id" validate:"required"`
	ReasonName string `json:"reason_name"`
	Units      int    `json:"units" validate:"required,min=1"`
}

// PointingSiloRequest silo participante; quantity omitida = reparto equitativo.
type PointingSiloRequest struct {
	SiloID   string           `json:"silo_id" validate:"required"`
	Quantity *decimal.Decimal `json:"quantity,omitempty"`
}

// ReservationRequest body de PUT /api/ledger/pointings/:id/reservations.
type ReservationRequest struct {
	RawMaterialID   string                `json:"raw_material_id" validate:"required"`
	PlannedQuantity decimal.Decimal       `json:"planned_quantity"`
	Silos           []PointingSiloRequest `json:"silos" validate:"required,min=1,dive"`
}

// ── Responses ────────────────────────────────────────────────────────────────

// MovementDTO movimiento del libro.
type MovementDTO struct {
	ID            string          `json:"id"`
	OccurredAt    time.Time       `json:"occurred_at"`
	ItemType      string          `json:"item_type"`
	ItemID        string          `json:"item_id,omitempty"`
	BlockTypeID   string          `json:"block_type_id,omitempty"`
	LengthMM      int             `json:"length_mm,omitempty"`
	WidthMM       int             `json:"width_mm,omitempty"`
	HeightMM      int             `json:"height_mm,omitempty"`
	Direction     string          `json:"direction"`
	Quantity      decimal.Decimal `json:"quantity"`
	Unit          string          `json:"unit"`
	LocationType  string          `json:"location_type"`
	LocationID    string          `json:"location_id,omitempty"`
	ReferenceType string          `json:"reference_type,omitempty"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedBy     string          `json:"created_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// MovementListResponse página de movimientos.
type MovementListResponse struct {
	Items []MovementDTO `json:"items"`
	Page  PageResponse  `json:"page"`
}

// ManualMovementResponse IDs creados/actualizados.
type ManualMovementResponse struct {
	MovementID    string `json:"movement_id"`
	ConsumptionID string `json:"consumption_id,omitempty"`
}

// PeriodBalanceDTO saldo de una clave en un rango.
type PeriodBalanceDTO struct {
	Key     string          `json:"key"`
	Initial decimal.Decimal `json:"initial"`
	Inflow  decimal.Decimal `json:"inflow"`
	Outflow decimal.Decimal `json:"outflow"`
	Adjust  decimal.Decimal `json:"adjust"`
	Final   decimal.Decimal `json:"final"`
}

// RawMaterialStockDTO fila del reporte de materia prima.
type RawMaterialStockDTO struct {
	RawMaterialID string          `json:"raw_material_id"`
	InitialKg     decimal.Decimal `json:"initial_kg"`
	InputKg       decimal.Decimal `json:"input_kg"`
	RequestedKg   decimal.Decimal `json:"requested_kg"` // salidas del período
	BalanceKg     decimal.Decimal `json:"balance_kg"`
}

// SiloMaterialDTO carga de una materia prima en un silo.
type SiloMaterialDTO struct {
	RawMaterialID string          `json:"raw_material_id"`
	BalanceKg     decimal.Decimal `json:"balance_kg"`
}

// SiloLoadDTO fila del reporte de silos.
type SiloLoadDTO struct {
	SiloID    string            `json:"silo_id"`
	Materials []SiloMaterialDTO `json:"materials"`
}

// BlockStockDTO fila del reporte de bloques (tipo × altura).
type BlockStockDTO struct {
	BlockTypeID  string          `json:"block_type_id"`
	HeightMM     int             `json:"height_mm"`
	InitialUnits decimal.Decimal `json:"initial_units"`
	InputUnits   decimal.Decimal `json:"input_units"`
	OutputUnits  decimal.Decimal `json:"output_units"`
	BalanceUnits decimal.Decimal `json:"balance_units"`
	CubicMeters  decimal.Decimal `json:"cubic_meters"`
}

// MoldedStockDTO fila del reporte de moldeados.
type MoldedStockDTO struct {
	MoldTypeID   string          `json:"mold_type_id"`
	InputUnits   decimal.Decimal `json:"input_units"`
	BalanceUnits decimal.Decimal `json:"balance_units"`
}

// LossRankingDTO pérdida de moldeados por motivo.
type LossRankingDTO struct {
	ReasonID   string `json:"reason_id"`
	ReasonName string `json:"reason_name"`
	Units      int64  `json:"units"`
}

// ProductionSummaryDTO respuesta de GET /api/ledger/reports/summary.
type ProductionSummaryDTO struct {
	RawMaterialInputKg     decimal.Decimal  `json:"raw_material_input_kg"`
	RawMaterialConsumedKg  decimal.Decimal  `json:"raw_material_consumed_kg"`
	BlocksProducedUnits    decimal.Decimal  `json:"blocks_produced_units"`
	BlocksProducedM3       decimal.Decimal  `json:"blocks_produced_m3"`
	VirginMPKgForBlocks    decimal.Decimal  `json:"virgin_mp_kg_for_blocks"`
	RecycledMPKgForBlocks  decimal.Decimal  `json:"recycled_mp_kg_for_blocks"`
	MoldedProducedUnits    decimal.Decimal  `json:"molded_produced_units"`
	MoldedLossUnits        int64            `json:"molded_loss_units"`
	BlockLossUnits         int64            `json:"block_loss_units"`
	BlockLossKg            decimal.Decimal  `json:"block_loss_kg"`
	MoldedLossRanking      []LossRankingDTO `json:"molded_loss_ranking"`
}

// StockReportDTO los cuatro reportes de stock juntos (exportación XLSX).
type StockReportDTO struct {
	From         *time.Time            `json:"from,omitempty"`
	To           *time.Time            `json:"to,omitempty"`
	RawMaterials []RawMaterialStockDTO `json:"raw_materials"`
	Silos        []SiloLoadDTO         `json:"silos"`
	Blocks       []BlockStockDTO       `json:"blocks"`
	Molded       []MoldedStockDTO      `json:"molded"`
}

// AvailabilityDTO respuesta de GET /api/ledger/availability.
type AvailabilityDTO struct {
	RawMaterialID string          `json:"raw_material_id"`
	SiloID        string          `json:"silo_id,omitempty"`
	BalanceKg     decimal.Decimal `json:"balance_kg"`
	ReservedKg    decimal.Decimal `json:"reserved_kg"`
	AvailableKg   decimal.Decimal `json:"available_kg"`
}

// ReservationDTO reserva de materia prima.
type ReservationDTO struct {
	ID                   string          `json:"id"`
	ProductionPointingID string          `json:"production_pointing_id"`
	RawMaterialID        string          `json:"raw_material_id"`
	SiloID               string          `json:"silo_id"`
	ReservedQuantity     decimal.Decimal `json:"reserved_quantity"`
}

// BlockSyncDTO cantidades derivadas que el módulo de producción guarda en su registro.
type BlockSyncDTO struct {
	StockInMovementID     string          `json:"stock_in_movement_id"`
	ConsumptionMovementID string          `json:"consumption_movement_id,omitempty"`
	VirginPct             decimal.Decimal `json:"virgin_pct"`
	RecycledPct           decimal.Decimal `json:"recycled_pct"`
	VirginKg              decimal.Decimal `json:"virgin_kg"`
	RecycledKg            decimal.Decimal `json:"recycled_kg"`
	LengthMM              int             `json:"length_mm"`
	WidthMM               int             `json:"width_mm"`
	VolumeM3              decimal.Decimal `json:"volume_m3"`
	Density               decimal.Decimal `json:"density"`
}

// MoldedSyncDTO cantidades derivadas de una producción de moldeados.
type MoldedSyncDTO struct {
	StockInMovementID     string          `json:"stock_in_movement_id"`
	ConsumptionMovementID string          `json:"consumption_movement_id,omitempty"`
	PackageQuantity       int             `json:"package_quantity"`
	PerUnitWeight         decimal.Decimal `json:"per_unit_weight"`
	LossFactor            decimal.Decimal `json:"loss_factor"`
	WeightConsideredUnit  decimal.Decimal `json:"weight_considered_unit"`
	TotalWeightConsidered decimal.Decimal `json:"total_weight_considered"`
}

// ReleaseResponse reservas liberadas.
type ReleaseResponse struct {
	Released int64 `json:"released"`
}

// RetractResponse IDs retirados al borrar una producción.
type RetractResponse struct {
	RetractedMovementIDs []string `json:"retracted_movement_ids"`
}
