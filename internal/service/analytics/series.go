package analytics

import (
	"time"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
)

// fillDays возвращает ровно n дней, заканчивая днем to; дни без данных получают 0
func fillDays(counts []domain.DayCount, to time.Time, n int) []domain.DayCount {
	byDay := make(map[string]int, len(counts))
	for _, c := range counts {
		byDay[c.Date.Format(domain.DateFormat)] += c.Count
	}

	result := make([]domain.DayCount, 0, n)
	for i := n - 1; i >= 0; i-- {
		d := to.AddDate(0, 0, -i)
		result = append(result, domain.DayCount{Date: d, Count: byDay[d.Format(domain.DateFormat)]})
	}
	return result
}

// fillMonths возвращает ровно n месяцев, заканчивая месяцем to
func fillMonths(counts []domain.MonthCount, to time.Time, n int) []domain.MonthCount {
	const monthKey = "2006-01"

	byMonth := make(map[string]int, len(counts))
	for _, c := range counts {
		byMonth[c.Month.Format(monthKey)] += c.Count
	}

	first := monthStart(to)
	result := make([]domain.MonthCount, 0, n)
	for i := n - 1; i >= 0; i-- {
		m := first.AddDate(0, -i, 0)
		result = append(result, domain.MonthCount{Month: m, Count: byMonth[m.Format(monthKey)]})
	}
	return result
}

// fillOperatingHours возвращает часы рабочего дня, часы вне диапазона отбрасываются
func fillOperatingHours(counts []domain.HourCount) []domain.HourCount {
	byHour := make(map[int]int, len(counts))
	for _, c := range counts {
		byHour[c.Hour] += c.Count
	}

	result := make([]domain.HourCount, 0, domain.OperatingHourTo-domain.OperatingHourFrom+1)
	for h := domain.OperatingHourFrom; h <= domain.OperatingHourTo; h++ {
		result = append(result, domain.HourCount{Hour: h, Count: byHour[h]})
	}
	return result
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
