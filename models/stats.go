package models

import "time"

// DefaultTopN is the default cap on the equipment distribution
const DefaultTopN = 8

// DefaultTrendWindow is the default length of one trend period
const DefaultTrendWindow = 30 * 24 * time.Hour

// EquipmentCount is one bar of the equipment distribution
type EquipmentCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// StatusCount is one slice of the status distribution
type StatusCount struct {
	Status     DefectStatus `json:"status"`
	Label      string       `json:"label"`
	Count      int          `json:"count"`
	Percentage float64      `json:"percentage"`
}

// TrendDelta compares the closure rate of the current period with the one before it
type TrendDelta struct {
	ReferenceDate  string  `json:"referenceDate"`
	WindowDays     int     `json:"windowDays"`
	CurrentTotal   int     `json:"currentTotal"`
	CurrentClosed  int     `json:"currentClosed"`
	CurrentRate    float64 `json:"currentRate"`
	PreviousTotal  int     `json:"previousTotal"`
	PreviousClosed int     `json:"previousClosed"`
	PreviousRate   float64 `json:"previousRate"`
	Delta          float64 `json:"delta"`
}

// DefectStats is the aggregate view over a (usually filtered) defect collection
type DefectStats struct {
	Total              int              `json:"total"`
	Equipment          []EquipmentCount `json:"equipment"`
	Status             []StatusCount    `json:"status"`
	Critical           int              `json:"critical"`
	CriticalPercentage float64          `json:"criticalPercentage"`
	Trend              TrendDelta       `json:"trend"`
}

// StatsOptions carries the presentation policy and the reference clock for aggregation
type StatsOptions struct {
	// TopN caps the equipment distribution; zero or negative keeps every group
	TopN int
	// Now is the trend reference instant; zero means time.Now
	Now time.Time
	// Window is the length of one trend period; zero means DefaultTrendWindow
	Window time.Duration
}
