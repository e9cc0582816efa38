// Package xlsx exporta los reportes de stock a una planilla Excel.
package xlsx

import (
	"fmt"
	"io"

	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/application/dto"
	"github.com/xuri/excelize/v2"
)

// Nombres de las hojas del libro exportado.
const (
	SheetRawMaterials = "Materia prima"
	SheetSilos        = "Silos"
	SheetBlocks       = "Blocos"
	SheetMolded       = "Moldados"
)

// ContentType cabecera HTTP del archivo generado.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// StockReportExporter escribe un dto.StockReportDTO como libro XLSX.
type StockReportExporter struct{}

// NewStockReportExporter crea el exportador.
func NewStockReportExporter() *StockReportExporter {
	return &StockReportExporter{}
}

// Write genera el libro completo (una hoja por reporte) y lo escribe en w.
func (e *StockReportExporter) Write(w io.Writer, report *dto.StockReportDTO) error {
	if report == nil {
		return fmt.Errorf("xlsx: reporte nil")
	}
	f := excelize.NewFile()
	defer f.Close()

	// la hoja por defecto se renombra en lugar de dejarla vacía
	if err := f.SetSheetName("Sheet1", SheetRawMaterials); err != nil {
		return fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	for _, name := range []string{SheetSilos, SheetBlocks, SheetMolded} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("xlsx: crear hoja %s: %w", name, err)
		}
	}

	if err := writeRows(f, SheetRawMaterials, rawMaterialRows(report)); err != nil {
		return err
	}
	if err := writeRows(f, SheetSilos, siloRows(report)); err != nil {
		return err
	}
	if err := writeRows(f, SheetBlocks, blockRows(report)); err != nil {
		return err
	}
	if err := writeRows(f, SheetMolded, moldedRows(report)); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx: escribir libro: %w", err)
	}
	return nil
}

func rawMaterialRows(r *dto.StockReportDTO) [][]interface{} {
	rows := [][]interface{}{{"Materia prima", "Saldo inicial (kg)", "Entradas (kg)", "Salidas (kg)", "Saldo (kg)"}}
	for _, it := range r.RawMaterials {
		rows = append(rows, []interface{}{
			it.RawMaterialID,
			it.InitialKg.InexactFloat64(),
			it.InputKg.InexactFloat64(),
			it.RequestedKg.InexactFloat64(),
			it.BalanceKg.InexactFloat64(),
		})
	}
	return rows
}

func siloRows(r *dto.StockReportDTO) [][]interface{} {
	rows := [][]interface{}{{"Silo", "Materia prima", "Saldo (kg)"}}
	for _, s := range r.Silos {
		for _, m := range s.Materials {
			rows = append(rows, []interface{}{s.SiloID, m.RawMaterialID, m.BalanceKg.InexactFloat64()})
		}
	}
	return rows
}

func blockRows(r *dto.StockReportDTO) [][]interface{} {
	rows := [][]interface{}{{"Tipo de bloque", "Altura (mm)", "Saldo inicial", "Entradas", "Salidas", "Saldo", "m³"}}
	for _, b := range r.Blocks {
		rows = append(rows, []interface{}{
			b.BlockTypeID,
			b.HeightMM,
			b.InitialUnits.InexactFloat64(),
			b.InputUnits.InexactFloat64(),
			b.OutputUnits.InexactFloat64(),
			b.BalanceUnits.InexactFloat64(),
			b.CubicMeters.InexactFloat64(),
		})
	}
	return rows
}

func moldedRows(r *dto.StockReportDTO) [][]interface{} {
	rows := [][]interface{}{{"Tipo de molde", "Producidas", "Saldo"}}
	for _, m := range r.Molded {
		rows = append(rows, []interface{}{m.MoldTypeID, m.InputUnits.InexactFloat64(), m.BalanceUnits.InexactFloat64()})
	}
	return rows
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return fmt.Errorf("xlsx: celda %d,%d: %w", j+1, i+1, err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("xlsx: %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
