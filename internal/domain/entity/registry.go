package entity

import "github.com/shopspring/decimal"

// BlockType tipo de bloque. RawMaterialPercentage es el % de materia prima virgen;
// nil se trata como 0 (todo reciclado).
type BlockType struct {
	ID                    string
	Name                  string
	RawMaterialPercentage *decimal.Decimal
}

// VirginPercentage porcentaje virgen efectivo.
func (b BlockType) VirginPercentage() decimal.Decimal {
	if b.RawMaterialPercentage == nil {
		return decimal.Zero
	}
	return *b.RawMaterialPercentage
}

// MoldType tipo de molde.
type MoldType struct {
	ID               string
	Name             string
	PiecesPerPackage int
}

// RawMaterial materia prima.
type RawMaterial struct {
	ID   string
	Name string
}
