package services

import (
	"defects-register/models"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var statsNow = time.Date(2024, 6, 30, 15, 30, 0, 0, time.UTC)

func TestAggregateStatsEmpty(t *testing.T) {
	stats := AggregateStats(nil, models.StatsOptions{TopN: 8, Now: statsNow})

	assert.Equal(t, 0, stats.Total)
	assert.Empty(t, stats.Equipment)
	require.Len(t, stats.Status, 3)
	for _, s := range stats.Status {
		assert.Equal(t, 0, s.Count)
		assert.Equal(t, 0.0, s.Percentage)
		assert.False(t, math.IsNaN(s.Percentage))
	}
	assert.Equal(t, 0, stats.Critical)
	assert.Equal(t, 0.0, stats.CriticalPercentage)
	assert.Equal(t, 0.0, stats.Trend.CurrentRate)
	assert.Equal(t, 0.0, stats.Trend.PreviousRate)
	assert.Equal(t, 0.0, stats.Trend.Delta)
}

func TestStatusDistributionTotals(t *testing.T) {
	records := []models.DefectRecord{
		defect("a", "V1", models.StatusOpen, models.CriticalityHigh, "Steam", "2024-06-01"),
		defect("b", "V1", models.StatusOpen, models.CriticalityLow, "Steam", "2024-06-02"),
		defect("c", "V1", models.StatusInProgress, models.CriticalityLow, "BWTS", "2024-06-03"),
		defect("d", "V2", models.StatusClosed, models.CriticalityMedium, "BWTS", "2024-06-04"),
		defect("e", "V2", models.StatusClosed, models.CriticalityHigh, "Navigation", "2024-06-05"),
		defect("f", "V2", models.StatusClosed, models.CriticalityLow, "Navigation", "2024-06-06"),
	}

	dist := StatusDistribution(records)
	require.Len(t, dist, 3)
	assert.Equal(t, models.StatusOpen, dist[0].Status)
	assert.Equal(t, "Open", dist[0].Label)
	assert.Equal(t, models.StatusInProgress, dist[1].Status)
	assert.Equal(t, models.StatusClosed, dist[2].Status)

	sumCount := 0
	sumPct := 0.0
	for _, s := range dist {
		sumCount += s.Count
		sumPct += s.Percentage
	}
	assert.Equal(t, len(records), sumCount)
	assert.InDelta(t, 100.0, sumPct, 0.0001)
	assert.InDelta(t, 50.0, dist[2].Percentage, 0.0001)
}

func TestEquipmentDistributionOrderingAndCap(t *testing.T) {
	var records []models.DefectRecord
	add := func(equipment string, n int) {
		for i := 0; i < n; i++ {
			records = append(records, defect(equipment, "V1", models.StatusOpen, models.CriticalityLow, equipment, "2024-06-01"))
		}
	}
	add("Main Engine", 5)
	add("BWTS", 3)
	add("Air System", 3)
	add("Steam", 1)
	add("Navigation", 2)

	all := EquipmentDistribution(records, 0)
	assert.Equal(t, []models.EquipmentCount{
		{Name: "Main Engine", Count: 5},
		{Name: "Air System", Count: 3},
		{Name: "BWTS", Count: 3},
		{Name: "Navigation", Count: 2},
		{Name: "Steam", Count: 1},
	}, all)

	top := EquipmentDistribution(records, 2)
	assert.Equal(t, []models.EquipmentCount{{Name: "Main Engine", Count: 5}, {Name: "Air System", Count: 3}}, top)

	assert.Len(t, EquipmentDistribution(records, 8), 5)
}

func TestCriticalCount(t *testing.T) {
	records := []models.DefectRecord{
		defect("a", "V1", models.StatusOpen, models.CriticalityHigh, "Steam", "2024-06-01"),
		defect("b", "V1", models.StatusOpen, models.CriticalityLow, "Steam", "2024-06-01"),
		defect("c", "V1", models.StatusOpen, models.CriticalityHigh, "Steam", "2024-06-01"),
		defect("d", "V1", models.StatusOpen, models.CriticalityMedium, "Steam", "2024-06-01"),
	}
	stats := AggregateStats(records, models.StatsOptions{Now: statsNow})
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Critical)
	assert.InDelta(t, 50.0, stats.CriticalPercentage, 0.0001)
}

func TestClosureTrend(t *testing.T) {
	records := []models.DefectRecord{
		// current period (2024-05-31, 2024-06-30]
		defect("c1", "V1", models.StatusClosed, models.CriticalityLow, "Steam", "2024-06-30"),
		defect("c2", "V1", models.StatusOpen, models.CriticalityLow, "Steam", "2024-06-15"),
		defect("c3", "V1", models.StatusClosed, models.CriticalityLow, "Steam", "2024-06-01"),
		defect("c4", "V1", models.StatusInProgress, models.CriticalityLow, "Steam", "2024-06-01"),
		// previous period (2024-05-01, 2024-05-31]
		defect("p1", "V1", models.StatusClosed, models.CriticalityLow, "Steam", "2024-05-31"),
		defect("p2", "V1", models.StatusOpen, models.CriticalityLow, "Steam", "2024-05-02"),
		defect("p3", "V1", models.StatusOpen, models.CriticalityLow, "Steam", "2024-05-10"),
		defect("p4", "V1", models.StatusOpen, models.CriticalityLow, "Steam", "2024-05-11"),
		// outside both periods
		defect("o1", "V1", models.StatusClosed, models.CriticalityLow, "Steam", "2024-05-01"),
		defect("o2", "V1", models.StatusClosed, models.CriticalityLow, "Steam", "2024-07-01"),
		defect("o3", "V1", models.StatusClosed, models.CriticalityLow, "Steam", ""),
	}

	trend := ClosureTrend(records, statsNow, 30*24*time.Hour)
	assert.Equal(t, "2024-06-30", trend.ReferenceDate)
	assert.Equal(t, 30, trend.WindowDays)
	assert.Equal(t, 4, trend.CurrentTotal)
	assert.Equal(t, 2, trend.CurrentClosed)
	assert.InDelta(t, 50.0, trend.CurrentRate, 0.0001)
	assert.Equal(t, 4, trend.PreviousTotal)
	assert.Equal(t, 1, trend.PreviousClosed)
	assert.InDelta(t, 25.0, trend.PreviousRate, 0.0001)
	assert.InDelta(t, 25.0, trend.Delta, 0.0001)
}

func TestClosureTrendEmptyPreviousPeriod(t *testing.T) {
	records := []models.DefectRecord{
		defect("c1", "V1", models.StatusClosed, models.CriticalityLow, "Steam", "2024-06-20"),
		defect("c2", "V1", models.StatusClosed, models.CriticalityLow, "Steam", "2024-06-21"),
		defect("c3", "V1", models.StatusOpen, models.CriticalityLow, "Steam", "2024-06-22"),
		defect("c4", "V1", models.StatusOpen, models.CriticalityLow, "Steam", "2024-06-23"),
	}

	trend := ClosureTrend(records, statsNow, 0)
	assert.Equal(t, 0, trend.PreviousTotal)
	assert.Equal(t, 0.0, trend.PreviousRate)
	assert.InDelta(t, 50.0, trend.CurrentRate, 0.0001)
	assert.Equal(t, trend.CurrentRate, trend.Delta)
}

func TestClosureTrendCustomWindow(t *testing.T) {
	records := []models.DefectRecord{
		defect("c1", "V1", models.StatusClosed, models.CriticalityLow, "Steam", "2024-06-25"),
		defect("p1", "V1", models.StatusOpen, models.CriticalityLow, "Steam", "2024-06-20"),
	}

	trend := ClosureTrend(records, statsNow, 7*24*time.Hour)
	assert.Equal(t, 7, trend.WindowDays)
	assert.InDelta(t, 100.0, trend.CurrentRate, 0.0001)
	assert.Equal(t, 0.0, trend.PreviousRate)
	assert.Equal(t, 1, trend.PreviousTotal)
	assert.InDelta(t, 100.0, trend.Delta, 0.0001)
}
