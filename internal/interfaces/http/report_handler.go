package http

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/application/dto"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/application/ledger"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/inventory"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/infrastructure/xlsx"
)

// ReportHandler reportes de stock y saldo derivados del libro.
type ReportHandler struct {
	uc       *ledger.BalanceService
	exporter *xlsx.StockReportExporter
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *ledger.BalanceService, exporter *xlsx.StockReportExporter) *ReportHandler {
	return &ReportHandler{uc: uc, exporter: exporter}
}

// window lee ?from&to. Sin parámetros el rango es abierto.
func window(c *fiber.Ctx) (inventory.Window, error) {
	return parseWindow(dto.ReportWindowRequest{From: c.Query("from"), To: c.Query("to")})
}

// RawMaterials godoc
// @Summary      Stock de materia prima
// @Tags         reports
// @Produce      json
// @Param        from  query    string  false  "RFC3339 o YYYY-MM-DD"
// @Param        to    query    string  false  "RFC3339 o YYYY-MM-DD (inclusive)"
// @Success      200   {array}  dto.RawMaterialStockDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/ledger/reports/raw-materials [get]
func (h *ReportHandler) RawMaterials(c *fiber.Ctx) error {
	w, err := window(c)
	if err != nil {
		return writeError(c, err)
	}
	rows, err := h.uc.GetRawMaterialStock(c.Context(), w)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(rows)
}

// Silos godoc
// @Summary      Carga de silos
// @Tags         reports
// @Produce      json
// @Param        from  query    string  false  "RFC3339 o YYYY-MM-DD"
// @Param        to    query    string  false  "RFC3339 o YYYY-MM-DD (inclusive)"
// @Success      200   {array}  dto.SiloLoadDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/ledger/reports/silos [get]
func (h *ReportHandler) Silos(c *fiber.Ctx) error {
	w, err := window(c)
	if err != nil {
		return writeError(c, err)
	}
	rows, err := h.uc.GetSiloLoads(c.Context(), w)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(rows)
}

// Blocks godoc
// @Summary      Stock de bloques por tipo y altura
// @Tags         reports
// @Produce      json
// @Param        from  query    string  false  "RFC3339 o YYYY-MM-DD"
// @Param        to    query    string  false  "RFC3339 o YYYY-MM-DD (inclusive)"
// @Success      200   {array}  dto.BlockStockDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/ledger/reports/blocks [get]
func (h *ReportHandler) Blocks(c *fiber.Ctx) error {
	w, err := window(c)
	if err != nil {
		return writeError(c, err)
	}
	rows, err := h.uc.GetBlockStock(c.Context(), w)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(rows)
}

// Molded godoc
// @Summary      Stock de moldeados
// @Tags         reports
// @Produce      json
// @Param        from  query    string  false  "RFC3339 o YYYY-MM-DD"
// @Param        to    query    string  false  "RFC3339 o YYYY-MM-DD (inclusive)"
// @Success      200   {array}  dto.MoldedStockDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/ledger/reports/molded [get]
func (h *ReportHandler) Molded(c *fiber.Ctx) error {
	w, err := window(c)
	if err != nil {
		return writeError(c, err)
	}
	rows, err := h.uc.GetMoldedStock(c.Context(), w)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(rows)
}

// Summary godoc
// @Summary      Resumen de producción del período
// @Description  Entradas y consumo de materia prima, bloques y moldeados producidos salen del libro;
// @Description  reparto virgen/reciclado y pérdidas salen de los datos de producción.
// @Tags         reports
// @Produce      json
// @Param        from  query     string  false  "RFC3339 o YYYY-MM-DD"
// @Param        to    query     string  false  "RFC3339 o YYYY-MM-DD (inclusive)"
// @Success      200   {object}  dto.ProductionSummaryDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/ledger/reports/summary [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	w, err := window(c)
	if err != nil {
		return writeError(c, err)
	}
	sum, err := h.uc.GetSummary(c.Context(), w)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(sum)
}

// StockXLSX godoc
// @Summary      Exportar reportes de stock (XLSX)
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        from  query     string  false  "RFC3339 o YYYY-MM-DD"
// @Param        to    query     string  false  "RFC3339 o YYYY-MM-DD (inclusive)"
// @Success      200   {file}    file
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/ledger/reports/stock.xlsx [get]
func (h *ReportHandler) StockXLSX(c *fiber.Ctx) error {
	w, err := window(c)
	if err != nil {
		return writeError(c, err)
	}
	report, err := h.uc.GetStockReport(c.Context(), w)
	if err != nil {
		return writeError(c, err)
	}
	var buf bytes.Buffer
	if err := h.exporter.Write(&buf, report); err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, xlsx.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="stock.xlsx"`)
	return c.Send(buf.Bytes())
}

// Balance godoc
// @Summary      Saldo de una clave de stock
// @Description  initial + inflow - outflow + adjust en el rango. Sin location_* suma todas las ubicaciones.
// @Tags         reports
// @Produce      json
// @Param        item_type      query     string  true   "raw_material, block o molded"
// @Param        item_id        query     string  false  "raw_material_id o mold_type_id"
// @Param        block_type_id  query     string  false  "tipo de bloque"
// @Param        length_mm      query     int     false  "largo del bloque"
// @Param        width_mm       query     int     false  "ancho del bloque"
// @Param        height_mm      query     int     false  "altura del bloque"
// @Param        location_type  query     string  false  "none, silo o almoxarifado"
// @Param        location_id    query     string  false  "ID de la ubicación"
// @Param        from           query     string  false  "RFC3339 o YYYY-MM-DD"
// @Param        to             query     string  false  "RFC3339 o YYYY-MM-DD (inclusive)"
// @Success      200            {object}  dto.PeriodBalanceDTO
// @Failure      400            {object}  dto.ErrorResponse
// @Router       /api/ledger/balance [get]
func (h *ReportHandler) Balance(c *fiber.Ctx) error {
	var q dto.BalanceQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	w, err := window(c)
	if err != nil {
		return writeError(c, err)
	}
	bal, err := h.uc.PeriodBalance(c.Context(), toStockKey(q), w)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(bal)
}
