package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// MassSplit reparto virgen/reciclado de la masa de un bloque.
type MassSplit struct {
	VirginPct   decimal.Decimal
	RecycledPct decimal.Decimal
	VirginKg    decimal.Decimal
	RecycledKg  decimal.Decimal
}

// SplitBlockMass reparte el peso del bloque según el % virgen del tipo.
// VirginKg = peso × pct / 100; RecycledKg = peso − VirginKg, así la suma es exacta.
// El porcentaje se limita a [0, 100].
func SplitBlockMass(weight, virginPct decimal.Decimal) MassSplit {
	pct := clamp(virginPct, decimal.Zero, hundred)
	virginKg := weight.Mul(pct).Div(hundred)
	return MassSplit{
		VirginPct:   pct,
		RecycledPct: hundred.Sub(pct),
		VirginKg:    virginKg,
		RecycledKg:  weight.Sub(virginKg),
	}
}

// MoldedWeight pesos derivados de una producción de moldeados.
type MoldedWeight struct {
	PerUnitWeight         decimal.Decimal
	LossFactor            decimal.Decimal
	WeightConsideredUnit  decimal.Decimal
	TotalWeightConsidered decimal.Decimal
}

// ComputeMoldedWeight calcula:
//
//	per_unit = package_weight / package_quantity
//	considered_unit = per_unit × (1 − loss_factor)
//	total = quantity × considered_unit
func ComputeMoldedWeight(quantity int, packageWeight decimal.Decimal, packageQuantity int, lossFactor decimal.Decimal) (MoldedWeight, error) {
	if packageQuantity <= 0 {
		return MoldedWeight{}, fmt.Errorf("%w: piezas por paquete debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if packageWeight.IsNegative() {
		return MoldedWeight{}, fmt.Errorf("%w: peso del paquete negativo", domain.ErrInvalidInput)
	}
	lf := ClampLossFactor(lossFactor)
	perUnit := packageWeight.Div(decimal.NewFromInt(int64(packageQuantity)))
	consideredUnit := perUnit.Mul(decimal.NewFromInt(1).Sub(lf))
	return MoldedWeight{
		PerUnitWeight:         perUnit,
		LossFactor:            lf,
		WeightConsideredUnit:  consideredUnit,
		TotalWeightConsidered: decimal.NewFromInt(int64(quantity)).Mul(consideredUnit),
	}, nil
}

// ClampLossFactor limita el factor de pérdida a [0, 1].
func ClampLossFactor(f decimal.Decimal) decimal.Decimal {
	return clamp(f, decimal.Zero, decimal.NewFromInt(1))
}

// Density kg/m³; cero si el volumen es cero.
func Density(weight, volumeM3 decimal.Decimal) decimal.Decimal {
	if volumeM3.IsZero() {
		return decimal.Zero
	}
	return weight.Div(volumeM3)
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
