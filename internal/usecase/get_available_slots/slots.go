package get_available_slots

import "github.com/m04kA/SMC-SmartQueue/internal/domain"

// openSlots оставляет только слоты со свободными местами, порядок сохраняется
func openSlots(occupancies []domain.SlotOccupancy) []domain.SlotOccupancy {
	result := make([]domain.SlotOccupancy, 0, len(occupancies))
	for _, occ := range occupancies {
		if occ.IsFull() {
			continue
		}
		result = append(result, occ)
	}
	return result
}

func toSlot(occ domain.SlotOccupancy, recommended bool) Slot {
	return Slot{
		ID:             occ.Slot.ID,
		StartTime:      occ.Slot.StartTime,
		EndTime:        occ.Slot.EndTime,
		Label:          occ.Slot.Label(),
		Status:         string(occ.Status()),
		Capacity:       occ.Slot.Capacity,
		AvailableSpots: occ.Remaining(),
		IsRecommended:  recommended,
	}
}
