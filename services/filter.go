package services

import (
	"defects-register/models"
	"sort"
	"strings"
)

// FilterDefects returns the records that pass every active predicate of criteria,
// in input order. The input slice is never modified and the result is never nil.
func FilterDefects(records []models.DefectRecord, criteria models.FilterCriteria) []models.DefectRecord {
	m := newMatcher(criteria)
	visible := make([]models.DefectRecord, 0, len(records))
	for _, r := range records {
		if m.matches(r) {
			visible = append(visible, r)
		}
	}
	return visible
}

// MatchesCriteria reports whether a single record passes every active predicate
func MatchesCriteria(record models.DefectRecord, criteria models.FilterCriteria) bool {
	return newMatcher(criteria).matches(record)
}

// matcher holds the criteria in the form the predicates compare against
type matcher struct {
	vessels     map[string]struct{}
	status      models.DefectStatus
	criticality models.Criticality
	search      string
	from        *int64
	to          *int64
}

func newMatcher(c models.FilterCriteria) matcher {
	m := matcher{
		status:      c.Status,
		criticality: c.Criticality,
		search:      strings.ToLower(c.SearchTerm),
	}
	if len(c.VesselIDs) > 0 {
		m.vessels = make(map[string]struct{}, len(c.VesselIDs))
		for _, id := range c.VesselIDs {
			m.vessels[id] = struct{}{}
		}
	}
	if c.DateFrom != nil {
		day := models.CalendarDay(*c.DateFrom).Unix()
		m.from = &day
	}
	if c.DateTo != nil {
		day := models.CalendarDay(*c.DateTo).Unix()
		m.to = &day
	}
	return m
}

func (m matcher) matches(r models.DefectRecord) bool {
	if m.vessels != nil {
		if _, ok := m.vessels[r.VesselID]; !ok {
			return false
		}
	}
	if m.status != "" && r.Status != m.status {
		return false
	}
	if m.criticality != "" && r.Criticality != m.criticality {
		return false
	}
	if !m.matchesDate(r) {
		return false
	}
	return m.matchesSearch(r)
}

// matchesDate compares civil dates inclusively. A record without a parsable
// dateReported fails whenever any bound is set.
func (m matcher) matchesDate(r models.DefectRecord) bool {
	if m.from == nil && m.to == nil {
		return true
	}
	reported, ok := r.ReportedOn()
	if !ok {
		return false
	}
	day := reported.Unix()
	if m.from != nil && day < *m.from {
		return false
	}
	if m.to != nil && day > *m.to {
		return false
	}
	return true
}

func (m matcher) matchesSearch(r models.DefectRecord) bool {
	if m.search == "" {
		return true
	}
	for _, v := range r.SearchableValues() {
		if strings.Contains(strings.ToLower(v), m.search) {
			return true
		}
	}
	return false
}

// SortByMostRecent orders records by dateReported descending, ties broken by id.
// Records without a parsable date sort last. The input slice is not modified.
func SortByMostRecent(records []models.DefectRecord) []models.DefectRecord {
	sorted := make([]models.DefectRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, okI := sorted[i].ReportedOn()
		dj, okJ := sorted[j].ReportedOn()
		switch {
		case okI && !okJ:
			return true
		case !okI && okJ:
			return false
		case okI && okJ && !di.Equal(dj):
			return di.After(dj)
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}
