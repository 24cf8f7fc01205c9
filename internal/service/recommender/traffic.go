package recommender

import (
	"sort"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
)

// Median возвращает медиану: среднее двух центральных значений при четной длине, 0 для пустого набора
func Median(values []int) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return float64(sorted[mid-1]+sorted[mid]) / 2
	}
	return float64(sorted[mid])
}

// LowTrafficHours возвращает часы с трафиком не выше медианы
// и все часы рабочего дня, по которым бронирований не было
func LowTrafficHours(traffic []domain.HourCount) map[int]bool {
	counts := make([]int, 0, len(traffic))
	seen := make(map[int]bool, len(traffic))
	for _, hc := range traffic {
		counts = append(counts, hc.Count)
		seen[hc.Hour] = true
	}

	median := Median(counts)

	low := make(map[int]bool)
	for _, hc := range traffic {
		if float64(hc.Count) <= median {
			low[hc.Hour] = true
		}
	}
	for h := domain.OperatingHourFrom; h <= domain.OperatingHourTo; h++ {
		if !seen[h] {
			low[h] = true
		}
	}
	return low
}

// IsRecommended слот рекомендуется, если он начинается в малозагруженный час и в нем есть места
func IsRecommended(lowHours map[int]bool, occ domain.SlotOccupancy) bool {
	return lowHours[occ.Slot.StartHour()] && occ.Remaining() > 0
}
