package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/application/dto"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/application/ledger"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/entity"
)

// ReservationHandler reservas de materia prima por apontamiento y disponibilidad.
type ReservationHandler struct {
	reservations *ledger.ReservationService
	balances     *ledger.BalanceService
}

// NewReservationHandler construye el handler.
func NewReservationHandler(reservations *ledger.ReservationService, balances *ledger.BalanceService) *ReservationHandler {
	return &ReservationHandler{reservations: reservations, balances: balances}
}

// Reserve godoc
// @Summary      Reservar materia prima para un apontamiento
// @Description  Reemplaza las reservas del apontamiento. Silos sin quantity reparten el resto en partes iguales.
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Param        id    path      string                  true  "ID del apontamiento"
// @Param        body  body      dto.ReservationRequest  true  "materia prima, cantidad planificada y silos"
// @Success      200   {array}   dto.ReservationDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/ledger/pointings/{id}/reservations [put]
func (h *ReservationHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReservationRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	p := entity.ProductionPointing{
		ID:              c.Params("id"),
		RawMaterialID:   in.RawMaterialID,
		PlannedQuantity: in.PlannedQuantity,
		Silos:           make([]entity.PointingSilo, 0, len(in.Silos)),
	}
	for _, s := range in.Silos {
		p.Silos = append(p.Silos, entity.PointingSilo{SiloID: s.SiloID, Quantity: s.Quantity})
	}
	out, err := h.reservations.ReserveForProductionPointing(c.Context(), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toReservationDTOs(out))
}

// List godoc
// @Summary      Reservas de un apontamiento
// @Tags         reservations
// @Produce      json
// @Param        id   path     string  true  "ID del apontamiento"
// @Success      200  {array}  dto.ReservationDTO
// @Router       /api/ledger/pointings/{id}/reservations [get]
func (h *ReservationHandler) List(c *fiber.Ctx) error {
	out, err := h.reservations.ListForProductionPointing(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toReservationDTOs(out))
}

// Release godoc
// @Summary      Liberar reservas de un apontamiento
// @Tags         reservations
// @Produce      json
// @Param        id   path      string  true  "ID del apontamiento"
// @Success      200  {object}  dto.ReleaseResponse
// @Router       /api/ledger/pointings/{id}/reservations [delete]
func (h *ReservationHandler) Release(c *fiber.Ctx) error {
	n, err := h.reservations.ReleaseForProductionPointing(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ReleaseResponse{Released: n})
}

// Availability godoc
// @Summary      Disponibilidad de materia prima
// @Description  Saldo histórico menos lo reservado, en un silo o en todos.
// @Tags         reservations
// @Produce      json
// @Param        raw_material_id  query     string  true   "materia prima"
// @Param        silo_id          query     string  false  "silo; vacío = todos"
// @Success      200              {object}  dto.AvailabilityDTO
// @Failure      400              {object}  dto.ErrorResponse
// @Router       /api/ledger/availability [get]
func (h *ReservationHandler) Availability(c *fiber.Ctx) error {
	var q dto.AvailabilityQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	av, err := h.balances.Availability(c.Context(), q.RawMaterialID, q.SiloID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(av)
}
