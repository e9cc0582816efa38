package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/application/dto"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/application/ledger"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/entity"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/repository"
)

// MovementHandler movimientos manuales del libro.
type MovementHandler struct {
	uc *ledger.ManualMovements
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *ledger.ManualMovements) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar movimiento manual
// @Description  Entrada, salida o ajuste cargado a mano. Si trae consumption, la salida de
// @Description  materia prima encadenada se registra en la misma transacción.
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        X-User-ID  header  string                     true  "usuario que registra"
// @Param        body       body    dto.ManualMovementRequest  true  "item_type, direction, quantity, location, consumption opcional"
// @Success      201  {object}  dto.ManualMovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/ledger/movements [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	var in dto.ManualMovementRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	input, err := toManualInput(in, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.uc.PostManualMovement(c.Context(), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ManualMovementResponse{MovementID: res.MovementID, ConsumptionID: res.ConsumptionID})
}

// Update godoc
// @Summary      Editar movimiento manual
// @Description  Edita en sitio; ID y created_at se conservan. Los movimientos de producción responden 409.
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        X-User-ID  header  string                     true  "usuario que edita"
// @Param        id         path    string                     true  "ID del movimiento"
// @Param        body       body    dto.ManualMovementRequest  true  "nuevo estado del movimiento"
// @Success      200  {object}  dto.ManualMovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/ledger/movements/{id} [put]
func (h *MovementHandler) Update(c *fiber.Ctx) error {
	var in dto.ManualMovementRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	input, err := toManualInput(in, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.uc.UpdateManualMovement(c.Context(), c.Params("id"), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ManualMovementResponse{MovementID: res.MovementID, ConsumptionID: res.ConsumptionID})
}

// Delete godoc
// @Summary      Borrar movimiento (siempre rechazado)
// @Description  El libro no admite borrados: responde 403 y el movimiento sigue legible.
// @Tags         movements
// @Produce      json
// @Param        id   path      string  true  "ID del movimiento"
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/ledger/movements/{id} [delete]
func (h *MovementHandler) Delete(c *fiber.Ctx) error {
	return writeError(c, h.uc.DeleteManualMovement(c.Context(), c.Params("id")))
}

// GetByID godoc
// @Summary      Obtener movimiento
// @Tags         movements
// @Produce      json
// @Param        id   path      string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ledger/movements/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	m, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toMovementDTO(m))
}

// List godoc
// @Summary      Listar movimientos
// @Description  Movimientos del libro por occurred_at ascendente, paginados.
// @Tags         movements
// @Produce      json
// @Param        item_type      query  string  false  "raw_material, block o molded"
// @Param        item_id        query  string  false  "raw_material_id o mold_type_id"
// @Param        block_type_id  query  string  false  "tipo de bloque"
// @Param        location_type  query  string  false  "none, silo o almoxarifado"
// @Param        location_id    query  string  false  "ID de la ubicación"
// @Param        limit          query  int     false  "1..100 (por defecto 20)"
// @Param        offset         query  int     false  "desplazamiento"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var q dto.MovementListQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	q.DefaultPage()
	filter := repository.MovementFilter{
		ItemID:       q.ItemID,
		BlockTypeID:  q.BlockTypeID,
		LocationType: entity.LocationType(q.LocationType),
		LocationID:   q.LocationID,
		Limit:        q.Limit,
		Offset:       q.Offset,
	}
	if q.ItemType != "" {
		filter.ItemTypes = []entity.ItemType{entity.ItemType(q.ItemType)}
	}
	list, total, err := h.uc.List(c.Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.MovementDTO, 0, len(list))
	for _, m := range list {
		items = append(items, toMovementDTO(m))
	}
	return c.JSON(dto.MovementListResponse{Items: items, Page: dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total}})
}

func toManualInput(in dto.ManualMovementRequest, userID string) (ledger.ManualMovementInput, error) {
	item, err := toItem(in.ItemType, in.RawMaterialID, in.MoldTypeID, in.BlockTypeID, in.LengthMM, in.WidthMM, in.HeightMM)
	if err != nil {
		return ledger.ManualMovementInput{}, err
	}
	return ledger.ManualMovementInput{
		OccurredAt:  derefTime(in.OccurredAt),
		Item:        item,
		Direction:   entity.Direction(in.Direction),
		Quantity:    in.Quantity,
		Location:    toLocation(in.Location),
		Notes:       in.Notes,
		Consumption: toConsumption(in.Consumption),
		UserID:      userID,
	}, nil
}
