package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/entity"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/repository"
)

var (
	_ repository.ProductionStatsRepository = (*ProductionStats)(nil)
	_ repository.ProductionRecorder        = (*ProductionStats)(nil)
)

// ProductionStats agregados de producción en memoria. Se alimenta desde el sincronizador;
// en postgres estos datos viven en las tablas del módulo de producción.
type ProductionStats struct {
	mu     sync.RWMutex
	blocks map[string]repository.BlockProductionFact
	losses map[string][]repository.MoldedLossFact // por producción de moldeados
}

// NewProductionStats crea el repo vacío.
func NewProductionStats() *ProductionStats {
	return &ProductionStats{
		blocks: make(map[string]repository.BlockProductionFact),
		losses: make(map[string][]repository.MoldedLossFact),
	}
}

// RecordBlockProduction alta o reemplazo de una producción de bloque.
func (p *ProductionStats) RecordBlockProduction(_ context.Context, fact repository.BlockProductionFact) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.blocks[fact.ID] = fact
	return nil
}

// RecordMoldedLosses reemplaza las pérdidas de una producción de moldeados.
func (p *ProductionStats) RecordMoldedLosses(_ context.Context, productionID string, losses []repository.MoldedLossFact) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(losses) == 0 {
		delete(p.losses, productionID)
		return nil
	}
	p.losses[productionID] = append([]repository.MoldedLossFact(nil), losses...)
	return nil
}

// RemoveProduction olvida los datos de una producción borrada.
func (p *ProductionStats) RemoveProduction(_ context.Context, ref entity.ProductionReference) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch ref.Type {
	case entity.ProductionTypeBlock:
		delete(p.blocks, ref.ID)
	case entity.ProductionTypeMolded:
		delete(p.losses, ref.ID)
	}
	return nil
}

// BlockTotals reparto virgen/reciclado y scrap del período.
func (p *ProductionStats) BlockTotals(_ context.Context, from, to *time.Time) (repository.BlockProductionTotals, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	t := repository.BlockProductionTotals{VirginKg: decimal.Zero, RecycledKg: decimal.Zero, ScrapKg: decimal.Zero}
	for _, b := range p.blocks {
		if !inRange(b.At, from, to) {
			continue
		}
		t.VirginKg = t.VirginKg.Add(b.VirginKg)
		t.RecycledKg = t.RecycledKg.Add(b.RecycledKg)
		if b.IsScrap {
			t.ScrapUnits++
			t.ScrapKg = t.ScrapKg.Add(b.Weight)
		}
	}
	return t, nil
}

// MoldedLossUnits piezas perdidas en el período.
func (p *ProductionStats) MoldedLossUnits(_ context.Context, from, to *time.Time) (int64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var n int64
	for _, ls := range p.losses {
		for _, l := range ls {
			if inRange(l.At, from, to) {
				n += l.Units
			}
		}
	}
	return n, nil
}

// MoldedLossRanking pérdidas por motivo, de mayor a menor.
func (p *ProductionStats) MoldedLossRanking(_ context.Context, from, to *time.Time, limit int) ([]repository.LossRankingItem, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	byReason := make(map[string]*repository.LossRankingItem)
	for _, ls := range p.losses {
		for _, l := range ls {
			if !inRange(l.At, from, to) {
				continue
			}
			it, ok := byReason[l.ReasonID]
			if !ok {
				it = &repository.LossRankingItem{ReasonID: l.ReasonID, ReasonName: l.ReasonName}
				byReason[l.ReasonID] = it
			}
			it.Units += l.Units
		}
	}
	out := make([]repository.LossRankingItem, 0, len(byReason))
	for _, it := range byReason {
		out = append(out, *it)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Units != out[j].Units {
			return out[i].Units > out[j].Units
		}
		return out[i].ReasonName < out[j].ReasonName
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}
