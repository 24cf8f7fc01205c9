package domain

// Default values
const (
	DefaultSlotCapacity           = 3
	DefaultServiceDurationMinutes = 30
	DefaultRecommendationLimit    = 3
)

// Recommender parameters
const (
	TrafficLookbackDays = 30
	OperatingHourFrom   = 7
	OperatingHourTo     = 19 // inclusive
)

// Analytics parameters
const (
	DashboardDays        = 30
	DashboardTopServices = 5
	DashboardRecent      = 10
	AnalyticsMonths      = 12
	AnalyticsTopServices = 10
)

// Business validation constants
const (
	MaxNotesLength       = 1000
	MaxServiceNameLength = 100
	MaxSlotCapacity      = 100
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
