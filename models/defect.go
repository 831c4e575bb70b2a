package models

import (
	"strconv"
	"strings"
	"time"
)

// DefectStatus is the canonical upper-case status encoding stored with every defect
type DefectStatus string

const (
	StatusOpen       DefectStatus = "OPEN"
	StatusInProgress DefectStatus = "IN PROGRESS"
	StatusClosed     DefectStatus = "CLOSED"
)

// DefectStatuses lists the canonical statuses in reporting order
var DefectStatuses = []DefectStatus{StatusOpen, StatusInProgress, StatusClosed}

// Label returns the title-cased display form of the status
func (s DefectStatus) Label() string {
	switch s {
	case StatusOpen:
		return "Open"
	case StatusInProgress:
		return "In Progress"
	case StatusClosed:
		return "Closed"
	}
	return string(s)
}

// Criticality represents the severity classification of a defect
type Criticality string

const (
	CriticalityHigh   Criticality = "High"
	CriticalityMedium Criticality = "Medium"
	CriticalityLow    Criticality = "Low"
)

// Criticalities lists the valid criticality values
var Criticalities = []Criticality{CriticalityHigh, CriticalityMedium, CriticalityLow}

// TempIDPrefix marks a draft that has never been persisted
const TempIDPrefix = "temp-"

// DateLayout is the calendar date encoding used for dateReported and dateCompleted
const DateLayout = "2006-01-02"

// EquipmentCategories is the equipment taxonomy offered when recording a defect
var EquipmentCategories = []string{
	"Air System",
	"BWTS",
	"Main Engine",
	"Aux Engine",
	"LO System",
	"FO System",
	"FW-SW System",
	"SOLAS",
	"MARPOL",
	"Load Line",
	"Navigation",
	"Anchor/Mooring",
	"Steam",
	"Steering Gear",
	"Others",
}

// AssociatedFile is the metadata of an attachment; binary content lives elsewhere
type AssociatedFile struct {
	Name        string    `json:"name" dynamodbav:"name"`
	Key         string    `json:"key,omitempty" dynamodbav:"key,omitempty"`
	ContentType string    `json:"contentType,omitempty" dynamodbav:"contentType,omitempty"`
	Size        int64     `json:"size,omitempty" dynamodbav:"size,omitempty"`
	UploadedAt  time.Time `json:"uploadedAt,omitempty" dynamodbav:"uploadedAt,omitempty"`
}

// DefectRecord represents one equipment defect on a vessel
type DefectRecord struct {
	ID              string           `json:"id" dynamodbav:"id"`
	VesselID        string           `json:"vesselId" dynamodbav:"vesselId"`
	VesselName      string           `json:"vesselName" dynamodbav:"vesselName"`
	Equipment       string           `json:"equipment" dynamodbav:"equipment"`
	Description     string           `json:"description" dynamodbav:"description"`
	ActionPlanned   string           `json:"actionPlanned" dynamodbav:"actionPlanned"`
	Comments        string           `json:"comments,omitempty" dynamodbav:"comments,omitempty"`
	Criticality     Criticality      `json:"criticality" dynamodbav:"criticality"`
	Status          DefectStatus     `json:"status" dynamodbav:"status"`
	DateReported    string           `json:"dateReported" dynamodbav:"dateReported"`
	DateCompleted   string           `json:"dateCompleted,omitempty" dynamodbav:"dateCompleted,omitempty"`
	AssociatedFiles []AssociatedFile `json:"associatedFiles" dynamodbav:"associatedFiles"`

	// Soft delete
	IsDeleted bool       `json:"isDeleted" dynamodbav:"isDeleted"`
	DeletedBy string     `json:"deletedBy,omitempty" dynamodbav:"deletedBy,omitempty"`
	DeletedAt *time.Time `json:"deletedAt,omitempty" dynamodbav:"deletedAt,omitempty"`

	// Audit fields
	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" dynamodbav:"updatedAt"`
	CreatedBy string    `json:"createdBy,omitempty" dynamodbav:"createdBy,omitempty"`
	UpdatedBy string    `json:"updatedBy,omitempty" dynamodbav:"updatedBy,omitempty"`
}

// IsDraft reports whether the record carries a temporary id
func (d DefectRecord) IsDraft() bool {
	return d.ID == "" || strings.HasPrefix(d.ID, TempIDPrefix)
}

// ReportedOn returns the parsed dateReported
func (d DefectRecord) ReportedOn() (time.Time, bool) {
	return ParseCalendarDate(d.DateReported)
}

// Canonical returns the record with status and criticality in their canonical
// encoding. A value that does not parse is kept as stored.
func (d DefectRecord) Canonical() DefectRecord {
	if status, ok := NormalizeStatus(string(d.Status)); ok {
		d.Status = status
	}
	if criticality, ok := NormalizeCriticality(string(d.Criticality)); ok {
		d.Criticality = criticality
	}
	return d
}

// SearchableValues returns the string form of every field a free-text search looks at.
// Soft-delete and audit metadata are excluded; the attachment count and names are included.
func (d DefectRecord) SearchableValues() []string {
	values := []string{
		d.ID,
		d.VesselID,
		d.VesselName,
		d.Equipment,
		d.Description,
		d.ActionPlanned,
		d.Comments,
		string(d.Criticality),
		string(d.Status),
		d.DateReported,
		d.DateCompleted,
		strconv.Itoa(len(d.AssociatedFiles)),
	}
	for _, f := range d.AssociatedFiles {
		values = append(values, f.Name)
	}
	return values
}

// ParseCalendarDate parses a calendar date stored either as YYYY-MM-DD or as an RFC3339
// timestamp. The result is midnight UTC of that civil date.
func ParseCalendarDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return CalendarDay(t), true
	}
	return time.Time{}, false
}

// CalendarDay truncates t to midnight UTC of its own civil date
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NormalizeStatus maps any accepted spelling of a status onto its canonical encoding
func NormalizeStatus(s string) (DefectStatus, bool) {
	key := strings.ToUpper(strings.Join(strings.Fields(strings.ReplaceAll(s, "_", " ")), " "))
	switch key {
	case "OPEN":
		return StatusOpen, true
	case "IN PROGRESS", "INPROGRESS":
		return StatusInProgress, true
	case "CLOSED", "COMPLETED", "COMPLETE":
		return StatusClosed, true
	}
	return "", false
}

// NormalizeCriticality maps any casing of a criticality onto its canonical encoding
func NormalizeCriticality(s string) (Criticality, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return CriticalityHigh, true
	case "medium":
		return CriticalityMedium, true
	case "low":
		return CriticalityLow, true
	}
	return "", false
}

// SaveDefectRequest is the request body for creating or updating a defect
type SaveDefectRequest struct {
	ID              string           `json:"id,omitempty" example:"temp-1718000000000"`
	VesselID        string           `json:"vesselId" validate:"required" example:"V1"`
	Equipment       string           `json:"equipment" validate:"required" example:"Main Engine"`
	Description     string           `json:"description" validate:"required,max=2000" example:"Fuel pump leaking"`
	ActionPlanned   string           `json:"actionPlanned" validate:"required,max=2000" example:"Replace seal at next port"`
	Comments        string           `json:"comments,omitempty" validate:"omitempty,max=2000"`
	Criticality     string           `json:"criticality" validate:"required" example:"High"`
	Status          string           `json:"status" validate:"required" example:"OPEN"`
	DateReported    string           `json:"dateReported" validate:"required,datetime=2006-01-02" example:"2024-06-01"`
	DateCompleted   string           `json:"dateCompleted,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AssociatedFiles []AssociatedFile `json:"associatedFiles,omitempty"`
}
