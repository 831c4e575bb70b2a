package models

import "time"

// FilterCriteria selects the visible subset of a defect collection.
// Empty fields are inactive predicates; an empty VesselIDs means all vessels.
type FilterCriteria struct {
	VesselIDs   []string     `json:"vesselIds,omitempty" yaml:"vesselIds,omitempty"`
	Status      DefectStatus `json:"status,omitempty" yaml:"status,omitempty"`
	Criticality Criticality  `json:"criticality,omitempty" yaml:"criticality,omitempty"`
	SearchTerm  string       `json:"searchTerm,omitempty" yaml:"searchTerm,omitempty"`
	DateFrom    *time.Time   `json:"dateFrom,omitempty" yaml:"dateFrom,omitempty"`
	DateTo      *time.Time   `json:"dateTo,omitempty" yaml:"dateTo,omitempty"`
}

// IsEmpty reports whether no predicate is active
func (c FilterCriteria) IsEmpty() bool {
	return len(c.VesselIDs) == 0 && c.Status == "" && c.Criticality == "" &&
		c.SearchTerm == "" && c.DateFrom == nil && c.DateTo == nil
}

// ListQuery is the query string accepted by the list, stats and export endpoints
type ListQuery struct {
	Vessels     []string `form:"vessel" json:"vessel,omitempty"`
	Status      string   `form:"status" json:"status,omitempty"`
	Criticality string   `form:"criticality" json:"criticality,omitempty"`
	Search      string   `form:"search" json:"search,omitempty" validate:"max=200"`
	From        string   `form:"from" json:"from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	To          string   `form:"to" json:"to,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Now         string   `form:"now" json:"now,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Top         int      `form:"top" json:"top,omitempty" validate:"omitempty,min=1,max=50"`
	Page        int      `form:"page" json:"page,omitempty" validate:"omitempty,min=1"`
	Limit       int      `form:"limit" json:"limit,omitempty" validate:"omitempty,min=1,max=500"`
}

// DefectPage is one page of the visible defect set
type DefectPage struct {
	Items []DefectRecord `json:"items"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
