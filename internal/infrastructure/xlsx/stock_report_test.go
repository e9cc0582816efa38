package xlsx_test

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/application/dto"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/infrastructure/xlsx"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleReport() *dto.StockReportDTO {
	return &dto.StockReportDTO{
		RawMaterials: []dto.RawMaterialStockDTO{
			{RawMaterialID: "mp-1", InitialKg: dec("500"), InputKg: dec("100"), RequestedKg: dec("250.5"), BalanceKg: dec("349.5")},
		},
		Silos: []dto.SiloLoadDTO{
			{SiloID: "silo-a", Materials: []dto.SiloMaterialDTO{
				{RawMaterialID: "mp-1", BalanceKg: dec("300")},
				{RawMaterialID: "mp-2", BalanceKg: dec("49.5")},
			}},
		},
		Blocks: []dto.BlockStockDTO{
			{BlockTypeID: "bt-1", HeightMM: 250, InitialUnits: dec("0"), InputUnits: dec("2"), OutputUnits: dec("0"), BalanceUnits: dec("2"), CubicMeters: dec("2.0706")},
		},
		Molded: []dto.MoldedStockDTO{
			{MoldTypeID: "mt-1", InputUnits: dec("100"), BalanceUnits: dec("80")},
		},
	}
}

func TestStockReportExporter_HojasYFilas(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, xlsx.NewStockReportExporter().Write(&buf, sampleReport()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{xlsx.SheetRawMaterials, xlsx.SheetSilos, xlsx.SheetBlocks, xlsx.SheetMolded}, f.GetSheetList())

	raw, err := f.GetRows(xlsx.SheetRawMaterials)
	require.NoError(t, err)
	require.Len(t, raw, 2)
	assert.Equal(t, "Materia prima", raw[0][0])
	assert.Equal(t, []string{"mp-1", "500", "100", "250.5", "349.5"}, raw[1])

	silos, err := f.GetRows(xlsx.SheetSilos)
	require.NoError(t, err)
	require.Len(t, silos, 3, "una fila por silo y material")
	assert.Equal(t, []string{"silo-a", "mp-2", "49.5"}, silos[2])

	blocks, err := f.GetRows(xlsx.SheetBlocks)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "m³", blocks[0][6])
	assert.Equal(t, "2.0706", blocks[1][6])

	molded, err := f.GetRows(xlsx.SheetMolded)
	require.NoError(t, err)
	assert.Equal(t, []string{"mt-1", "100", "80"}, molded[1])
}

func TestStockReportExporter_ReporteVacio(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, xlsx.NewStockReportExporter().Write(&buf, &dto.StockReportDTO{}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(xlsx.SheetBlocks)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "solo la cabecera")
}

func TestStockReportExporter_ReporteNil(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, xlsx.NewStockReportExporter().Write(&buf, nil))
	assert.Zero(t, buf.Len())
}
