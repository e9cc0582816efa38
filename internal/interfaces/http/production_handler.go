package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/application/dto"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/application/ledger"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/entity"
)

// ProductionHandler ganchos que llama el módulo de producción al guardar o borrar un registro.
type ProductionHandler struct {
	uc *ledger.ProductionSync
}

// NewProductionHandler construye el handler.
func NewProductionHandler(uc *ledger.ProductionSync) *ProductionHandler {
	return &ProductionHandler{uc: uc}
}

// SyncBlock godoc
// @Summary      Sincronizar producción de bloque
// @Description  Alta o edición de una producción de bloque. Idempotente: deja una entrada y,
// @Description  si se declara, una consumición encadenada.
// @Tags         productions
// @Accept       json
// @Produce      json
// @Param        X-User-ID  header  string                      false  "usuario que editó la producción"
// @Param        id         path    string                      true   "ID de la producción"
// @Param        body       body    dto.BlockProductionRequest  true   "datos de la producción"
// @Success      200  {object}  dto.BlockSyncDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/ledger/productions/blocks/{id} [put]
func (h *ProductionHandler) SyncBlock(c *fiber.Ctx) error {
	var in dto.BlockProductionRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	res, err := h.uc.SyncBlockProduction(c.Context(), entity.BlockProduction{
		ID:                   c.Params("id"),
		ProductionPointingID: in.ProductionPointingID,
		BlockTypeID:          in.BlockTypeID,
		Weight:               in.Weight,
		LengthMM:             in.LengthMM,
		WidthMM:              in.WidthMM,
		HeightMM:             in.HeightMM,
		SheetNumber:          in.SheetNumber,
		StartedAt:            derefTime(in.StartedAt),
		EndedAt:              derefTime(in.EndedAt),
		IsScrap:              in.IsScrap,
		Location:             toLocation(in.Location),
		Consumption:          toConsumption(in.Consumption),
		UpdatedBy:            GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.BlockSyncDTO{
		StockInMovementID:     res.Owned.StockInID,
		ConsumptionMovementID: res.Owned.ConsumptionID,
		VirginPct:             res.Mass.VirginPct,
		RecycledPct:           res.Mass.RecycledPct,
		VirginKg:              res.Mass.VirginKg,
		RecycledKg:            res.Mass.RecycledKg,
		LengthMM:              res.LengthMM,
		WidthMM:               res.WidthMM,
		VolumeM3:              res.VolumeM3,
		Density:               res.Density,
	})
}

// RetractBlock godoc
// @Summary      Retirar movimientos de una producción de bloque borrada
// @Tags         productions
// @Produce      json
// @Param        id   path      string  true  "ID de la producción"
// @Success      200  {object}  dto.RetractResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/productions/blocks/{id} [delete]
func (h *ProductionHandler) RetractBlock(c *fiber.Ctx) error {
	return h.retract(c, entity.ProductionTypeBlock)
}

// SyncMolded godoc
// @Summary      Sincronizar producción de moldeados
// @Description  Alta o edición de una producción de moldeados. Idempotente.
// @Tags         productions
// @Accept       json
// @Produce      json
// @Param        X-User-ID  header  string                       false  "usuario que editó la producción"
// @Param        id         path    string                       true   "ID de la producción"
// @Param        body       body    dto.MoldedProductionRequest  true   "datos de la producción y pérdidas"
// @Success      200  {object}  dto.MoldedSyncDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/ledger/productions/molded/{id} [put]
func (h *ProductionHandler) SyncMolded(c *fiber.Ctx) error {
	var in dto.MoldedProductionRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	res, err := h.uc.SyncMoldedProduction(c.Context(), entity.MoldedProduction{
		ID:                   c.Params("id"),
		ProductionPointingID: in.ProductionPointingID,
		MoldTypeID:           in.MoldTypeID,
		Quantity:             in.Quantity,
		PackageWeight:        in.PackageWeight,
		PackageQuantity:      in.PackageQuantity,
		LossFactorEnabled:    in.LossFactorEnabled,
		LossFactor:           in.LossFactor,
		ProducedAt:           in.ProducedAt,
		Location:             toLocation(in.Location),
		Consumption:          toConsumption(in.Consumption),
		Losses:               toMoldedLosses(in.Losses),
		UpdatedBy:            GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MoldedSyncDTO{
		StockInMovementID:     res.Owned.StockInID,
		ConsumptionMovementID: res.Owned.ConsumptionID,
		PackageQuantity:       res.PackageQuantity,
		PerUnitWeight:         res.Weight.PerUnitWeight,
		LossFactor:            res.Weight.LossFactor,
		WeightConsideredUnit:  res.Weight.WeightConsideredUnit,
		TotalWeightConsidered: res.Weight.TotalWeightConsidered,
	})
}

// RetractMolded godoc
// @Summary      Retirar movimientos de una producción de moldeados borrada
// @Tags         productions
// @Produce      json
// @Param        id   path      string  true  "ID de la producción"
// @Success      200  {object}  dto.RetractResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/productions/molded/{id} [delete]
func (h *ProductionHandler) RetractMolded(c *fiber.Ctx) error {
	return h.retract(c, entity.ProductionTypeMolded)
}

func (h *ProductionHandler) retract(c *fiber.Ctx, t entity.ProductionType) error {
	ids, err := h.uc.Retract(c.Context(), entity.ProductionReference{Type: t, ID: c.Params("id")})
	if err != nil {
		return writeError(c, err)
	}
	if ids == nil {
		ids = []string{}
	}
	return c.JSON(dto.RetractResponse{RetractedMovementIDs: ids})
}
