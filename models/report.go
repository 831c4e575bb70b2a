package models

import "time"

const (
	ContentTypeCSV = "text/csv;charset=utf-8"
	ContentTypePDF = "application/pdf"

	DefaultReportTitle  = "Defects List"
	DefaultReportFooter = "Confidential Document"
)

// ReportMeta carries the title context printed on a generated report
type ReportMeta struct {
	Title          string    `json:"title"`
	ScopeLabel     string    `json:"scopeLabel"`
	DateRangeLabel string    `json:"dateRangeLabel,omitempty"`
	GeneratedAt    time.Time `json:"generatedAt"`
	Footer         string    `json:"footer"`
}

// Artifact is a fully generated export ready to be handed to a client or archived
type Artifact struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"-"`
	ArchiveKey  string `json:"archiveKey,omitempty"`
}
