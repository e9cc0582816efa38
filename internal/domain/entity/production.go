package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawMaterialConsumption consumo de materia prima declarado junto a una entrada
// (producción o movimiento manual). Genera un movimiento de salida encadenado.
type RawMaterialConsumption struct {
	RawMaterialID string
	Quantity      decimal.Decimal // kg
	Location      Location        // normalmente el silo de origen
}

// BlockProduction campos de una producción de bloque que consume el libro.
// El registro en sí pertenece al módulo de producción.
type BlockProduction struct {
	ID                   string
	ProductionPointingID string
	BlockTypeID          string
	Weight               decimal.Decimal // kg
	LengthMM             int             // 0 = largo por defecto configurado
	WidthMM              int             // 0 = ancho por defecto configurado
	HeightMM             int
	SheetNumber          int
	StartedAt            time.Time
	EndedAt              time.Time
	IsScrap              bool // se lee en reportes de pérdida; no se copia al movimiento
	Location             Location
	Consumption          *RawMaterialConsumption
	UpdatedBy            string
}

// CompletedAt fecha del movimiento de entrada: fin de producción o, en su defecto, el inicio.
func (p BlockProduction) CompletedAt() time.Time {
	if !p.EndedAt.IsZero() {
		return p.EndedAt
	}
	return p.StartedAt
}

// Reference referencia de propiedad de los movimientos de esta producción.
func (p BlockProduction) Reference() ProductionReference {
	return ProductionReference{Type: ProductionTypeBlock, ID: p.ID}
}

// MoldedProduction campos de una producción de moldeados que consume el libro.
type MoldedProduction struct {
	ID                   string
	ProductionPointingID string
	MoldTypeID           string
	Quantity             int
	PackageWeight        decimal.Decimal // kg por paquete
	PackageQuantity      int             // piezas por paquete; 0 = tomar del tipo de molde
	LossFactorEnabled    bool
	LossFactor           decimal.Decimal
	ProducedAt           time.Time
	Location             Location
	Consumption          *RawMaterialConsumption
	Losses               []MoldedLoss // solo alimentan el resumen de pérdidas
	UpdatedBy            string
}

// MoldedLoss piezas descartadas de una producción de moldeados y su motivo.
type MoldedLoss struct {
	ReasonID   string
	ReasonName string
	Units      int
}

// Reference referencia de propiedad de los movimientos de esta producción.
func (p MoldedProduction) Reference() ProductionReference {
	return ProductionReference{Type: ProductionTypeMolded, ID: p.ID}
}

// PointingSilo silo que participa en un apontamiento. Quantity nil = reparto equitativo.
type PointingSilo struct {
	SiloID   string
	Quantity *decimal.Decimal
}

// ProductionPointing apontamiento de producción: planificación de consumo de materia prima.
type ProductionPointing struct {
	ID              string
	RawMaterialID   string
	PlannedQuantity decimal.Decimal // kg
	Silos           []PointingSilo
}
