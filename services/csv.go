package services

import (
	"defects-register/models"
	"strconv"
	"strings"
	"time"
)

// CSVHeader is the fixed export column set
var CSVHeader = []string{
	"S.No",
	"Status",
	"Criticality",
	"Equipment",
	"Description",
	"Action Planned",
	"Date Reported",
	"Date Completed",
}

// EncodeCSV filters records with criteria and serializes the visible set.
// Rows are joined with "\n" and there is no trailing newline; an empty
// selection yields the header line alone.
func EncodeCSV(records []models.DefectRecord, criteria models.FilterCriteria) string {
	visible := FilterDefects(records, criteria)

	var b strings.Builder
	writeCSVRow(&b, CSVHeader)
	for i, r := range visible {
		b.WriteByte('\n')
		writeCSVRow(&b, csvRow(i+1, r))
	}
	return b.String()
}

// CSVFilename returns defects-report-<date>.csv for the calendar day of now
func CSVFilename(now time.Time) string {
	return "defects-report-" + now.Format(models.DateLayout) + ".csv"
}

func csvRow(seq int, r models.DefectRecord) []string {
	return []string{
		strconv.Itoa(seq),
		string(r.Status),
		string(r.Criticality),
		r.Equipment,
		r.Description,
		r.ActionPlanned,
		formatCalendarDate(r.DateReported),
		formatCalendarDate(r.DateCompleted),
	}
}

// formatCalendarDate renders a stored date as YYYY-MM-DD, or "" when it is missing or unparsable
func formatCalendarDate(s string) string {
	t, ok := models.ParseCalendarDate(s)
	if !ok {
		return ""
	}
	return t.Format(models.DateLayout)
}

func writeCSVRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(EscapeCSVField(f))
	}
}

// EscapeCSVField quotes a field only when it contains a comma, a double quote or a
// newline, doubling any embedded quotes.
func EscapeCSVField(field string) string {
	if !strings.ContainsAny(field, ",\"\n") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
