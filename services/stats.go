package services

import (
	"defects-register/models"
	"sort"
	"time"
)

// AggregateStats derives the equipment and status distributions, the critical count
// and the closure-rate trend from records. It never fails; an empty input yields zeros.
func AggregateStats(records []models.DefectRecord, opts models.StatsOptions) models.DefectStats {
	total := len(records)
	stats := models.DefectStats{
		Total:     total,
		Equipment: EquipmentDistribution(records, opts.TopN),
		Status:    StatusDistribution(records),
		Trend:     ClosureTrend(records, opts.Now, opts.Window),
	}
	for _, r := range records {
		if r.Criticality == models.CriticalityHigh {
			stats.Critical++
		}
	}
	stats.CriticalPercentage = percentage(stats.Critical, total)
	return stats
}

// EquipmentDistribution counts records per equipment, sorted by count descending then
// name ascending, capped at topN entries. topN <= 0 keeps every group.
func EquipmentDistribution(records []models.DefectRecord, topN int) []models.EquipmentCount {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Equipment]++
	}

	dist := make([]models.EquipmentCount, 0, len(counts))
	for name, count := range counts {
		dist = append(dist, models.EquipmentCount{Name: name, Count: count})
	}
	sort.Slice(dist, func(i, j int) bool {
		if dist[i].Count != dist[j].Count {
			return dist[i].Count > dist[j].Count
		}
		return dist[i].Name < dist[j].Name
	})

	if topN > 0 && len(dist) > topN {
		dist = dist[:topN]
	}
	return dist
}

// StatusDistribution counts records per canonical status, always in
// OPEN, IN PROGRESS, CLOSED order. Records with any other status are not counted.
func StatusDistribution(records []models.DefectRecord) []models.StatusCount {
	counts := make(map[models.DefectStatus]int, len(models.DefectStatuses))
	for _, r := range records {
		counts[r.Status]++
	}

	total := len(records)
	dist := make([]models.StatusCount, 0, len(models.DefectStatuses))
	for _, status := range models.DefectStatuses {
		dist = append(dist, models.StatusCount{
			Status:     status,
			Label:      status.Label(),
			Count:      counts[status],
			Percentage: percentage(counts[status], total),
		})
	}
	return dist
}

// ClosureTrend compares the closure rate of the window ending on now's calendar day
// with the window immediately before it. Each period is half-open on its older end:
// current is (ref-window, ref], previous is (ref-2*window, ref-window].
// Records without a parsable dateReported belong to neither period.
func ClosureTrend(records []models.DefectRecord, now time.Time, window time.Duration) models.TrendDelta {
	if now.IsZero() {
		now = time.Now()
	}
	if window <= 0 {
		window = models.DefaultTrendWindow
	}
	ref := models.CalendarDay(now.UTC())
	currentStart := ref.Add(-window)
	previousStart := currentStart.Add(-window)

	trend := models.TrendDelta{
		ReferenceDate: ref.Format(models.DateLayout),
		WindowDays:    int(window / (24 * time.Hour)),
	}
	for _, r := range records {
		reported, ok := r.ReportedOn()
		if !ok {
			continue
		}
		closed := r.Status == models.StatusClosed
		switch {
		case reported.After(currentStart) && !reported.After(ref):
			trend.CurrentTotal++
			if closed {
				trend.CurrentClosed++
			}
		case reported.After(previousStart) && !reported.After(currentStart):
			trend.PreviousTotal++
			if closed {
				trend.PreviousClosed++
			}
		}
	}

	trend.CurrentRate = percentage(trend.CurrentClosed, trend.CurrentTotal)
	trend.PreviousRate = percentage(trend.PreviousClosed, trend.PreviousTotal)
	trend.Delta = trend.CurrentRate - trend.PreviousRate
	return trend
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
