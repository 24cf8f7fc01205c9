package models

import (
	"fmt"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
	bookingModels "github.com/m04kA/SMC-SmartQueue/internal/service/bookings/models"
)

// Point точка графика
type Point struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ServiceStat статистика по услуге
type ServiceStat struct {
	ServiceID   int64  `json:"serviceId"`
	ServiceName string `json:"serviceName"`
	Count       int    `json:"count"`
}

// StatusTotals количество бронирований по статусам
type StatusTotals struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Approved  int `json:"approved"`
	CheckedIn int `json:"checkedIn"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
	Rejected  int `json:"rejected"`
}

// DashboardResponse обзор для персонала
type DashboardResponse struct {
	Totals      StatusTotals                    `json:"totals"`
	Daily       []Point                         `json:"daily"`
	PeakHours   []Point                         `json:"peakHours"`
	TopServices []ServiceStat                   `json:"topServices"`
	Recent      []bookingModels.BookingResponse `json:"recent"`
}

// AnalyticsResponse аналитика для администратора
type AnalyticsResponse struct {
	Totals         StatusTotals  `json:"totals"`
	Monthly        []Point       `json:"monthly"`
	TopServices    []ServiceStat `json:"topServices"`
	ActiveServices int           `json:"activeServices"`
}

// FromStatusCounts конвертирует счетчики в DTO
func FromStatusCounts(c domain.StatusCounts) StatusTotals {
	return StatusTotals{
		Total:     c.Total(),
		Pending:   c[domain.StatusPending],
		Approved:  c[domain.StatusApproved],
		CheckedIn: c[domain.StatusCheckedIn],
		Completed: c[domain.StatusCompleted],
		Cancelled: c[domain.StatusCancelled],
		Rejected:  c[domain.StatusRejected],
	}
}

// FromDayCounts подписи вида "Jan 02"
func FromDayCounts(days []domain.DayCount) []Point {
	points := make([]Point, 0, len(days))
	for _, d := range days {
		points = append(points, Point{Label: d.Date.Format("Jan 02"), Count: d.Count})
	}
	return points
}

// FromHourCounts подписи вида "9:00"
func FromHourCounts(hours []domain.HourCount) []Point {
	points := make([]Point, 0, len(hours))
	for _, h := range hours {
		points = append(points, Point{Label: fmt.Sprintf("%d:00", h.Hour), Count: h.Count})
	}
	return points
}

// FromMonthCounts подписи вида "Jan 2026"
func FromMonthCounts(months []domain.MonthCount) []Point {
	points := make([]Point, 0, len(months))
	for _, m := range months {
		points = append(points, Point{Label: m.Month.Format("Jan 2006"), Count: m.Count})
	}
	return points
}

// FromServiceCounts конвертирует статистику услуг в DTO
func FromServiceCounts(services []domain.ServiceCount) []ServiceStat {
	stats := make([]ServiceStat, 0, len(services))
	for _, s := range services {
		stats = append(stats, ServiceStat{ServiceID: s.ServiceID, ServiceName: s.ServiceName, Count: s.Count})
	}
	return stats
}
