package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/application/dto"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/entity"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/inventory"
)

const dateLayout = "2006-01-02"

// parseWindow acepta RFC3339 o YYYY-MM-DD. Con fecha sola, `to` cubre el día completo.
func parseWindow(req dto.ReportWindowRequest) (inventory.Window, error) {
	var w inventory.Window
	from, err := parseBound(req.From, false)
	if err != nil {
		return w, err
	}
	to, err := parseBound(req.To, true)
	if err != nil {
		return w, err
	}
	w.From, w.To = from, to
	return w, w.Validate()
}

func parseBound(s string, endOfDay bool) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha %q (usar RFC3339 o YYYY-MM-DD)", domain.ErrInvalidInput, s)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func toLocation(r dto.LocationRequest) entity.Location {
	return entity.Location{Type: entity.LocationType(r.Type), ID: r.ID}.Normalized()
}

func toConsumption(r *dto.ConsumptionRequest) *entity.RawMaterialConsumption {
	if r == nil {
		return nil
	}
	return &entity.RawMaterialConsumption{
		RawMaterialID: r.RawMaterialID,
		Quantity:      r.Quantity,
		Location:      toLocation(r.Location),
	}
}

// toItem arma la variante del ítem según item_type.
func toMoldedLosses(in []dto.MoldedLossRequest) []entity.MoldedLoss {
	if len(in) == 0 {
		return nil
	}
	out := make([]entity.MoldedLoss, 0, len(in))
	for _, l := range in {
		out = append(out, entity.MoldedLoss{ReasonID: l.ReasonID, ReasonName: l.ReasonName, Units: l.Units})
	}
	return out
}

func toItem(itemType, rawMaterialID, moldTypeID, blockTypeID string, length, width, height int) (entity.Item, error) {
	switch entity.ItemType(itemType) {
	case entity.ItemTypeRawMaterial:
		return entity.RawMaterialItem{RawMaterialID: rawMaterialID}, nil
	case entity.ItemTypeMolded:
		return entity.MoldedItem{MoldTypeID: moldTypeID}, nil
	case entity.ItemTypeBlock:
		return entity.BlockItem{BlockTypeID: blockTypeID, LengthMM: length, WidthMM: width, HeightMM: height}, nil
	}
	return nil, fmt.Errorf("%w: item_type %q desconocido", domain.ErrInvalidInput, itemType)
}

func toStockKey(q dto.BalanceQuery) entity.StockKey {
	key := entity.StockKey{
		ItemType: entity.ItemType(q.ItemType),
		Location: entity.Location{Type: entity.LocationType(q.LocationType), ID: q.LocationID}.Normalized(),
	}
	if key.ItemType == entity.ItemTypeBlock {
		key.BlockTypeID = q.BlockTypeID
		key.LengthMM, key.WidthMM, key.HeightMM = q.LengthMM, q.WidthMM, q.HeightMM
	} else {
		key.ItemID = q.ItemID
	}
	return key
}

func toMovementDTO(m *entity.Movement) dto.MovementDTO {
	refType, refID := m.Reference.Columns()
	out := dto.MovementDTO{
		ID:            m.ID,
		OccurredAt:    m.OccurredAt,
		ItemType:      string(m.ItemType()),
		Direction:     string(m.Direction),
		Quantity:      m.Quantity,
		Unit:          string(m.Unit),
		LocationType:  string(m.Location.Normalized().Type),
		LocationID:    m.Location.ID,
		ReferenceType: refType,
		ReferenceID:   refID,
		Notes:         m.Notes,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	switch it := m.Item.(type) {
	case entity.BlockItem:
		out.BlockTypeID = it.BlockTypeID
		out.LengthMM, out.WidthMM, out.HeightMM = it.LengthMM, it.WidthMM, it.HeightMM
	default:
		out.ItemID = entity.ItemID(m.Item)
	}
	return out
}

func toReservationDTOs(rs []*entity.Reservation) []dto.ReservationDTO {
	out := make([]dto.ReservationDTO, 0, len(rs))
	for _, r := range rs {
		out = append(out, dto.ReservationDTO{
			ID:                   r.ID,
			ProductionPointingID: r.ProductionPointingID,
			RawMaterialID:        r.RawMaterialID,
			SiloID:               r.SiloID,
			ReservedQuantity:     r.ReservedQuantity,
		})
	}
	return out
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
