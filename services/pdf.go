package services

import (
	"bytes"
	"defects-register/models"
	"defects-register/utils/logger"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

// PDFColumn is one column of the report table
type PDFColumn struct {
	Header string
	Width  float64
	Value  func(models.DefectRecord) string
}

// PDFLayout describes page geometry and table styling of the defects report
type PDFLayout struct {
	PageWidth    float64
	PageHeight   float64
	MarginTop    float64
	MarginLeft   float64
	MarginRight  float64
	MarginBottom float64

	FontFamily     string
	HeaderFontSize float64
	BodyFontSize   float64
	TitleFontSize  float64

	TitleBandHeight  float64
	HeaderBandHeight float64
	RowHeight        float64
	CellPadding      float64

	HeaderShade int
	StripeShade int

	// RepeatHeader draws the column header band again on continuation pages
	RepeatHeader bool

	Columns []PDFColumn
}

// DefaultPDFLayout returns the landscape 842x595pt layout used for reports
func DefaultPDFLayout() PDFLayout {
	return PDFLayout{
		PageWidth:    842,
		PageHeight:   595,
		MarginTop:    40,
		MarginLeft:   30,
		MarginRight:  30,
		MarginBottom: 40,

		FontFamily:     "Helvetica",
		HeaderFontSize: 8,
		BodyFontSize:   7.5,
		TitleFontSize:  16,

		TitleBandHeight:  50,
		HeaderBandHeight: 18,
		RowHeight:        16,
		CellPadding:      3,

		HeaderShade: 220,
		StripeShade: 245,

		Columns: DefaultPDFColumns(),
	}
}

// DefaultPDFColumns returns the report column schema; widths add up to the usable width
func DefaultPDFColumns() []PDFColumn {
	return []PDFColumn{
		{Header: "Vessel", Width: 85, Value: func(r models.DefectRecord) string {
			if r.VesselName != "" {
				return r.VesselName
			}
			return r.VesselID
		}},
		{Header: "Status", Width: 60, Value: func(r models.DefectRecord) string { return r.Status.Label() }},
		{Header: "Equipment", Width: 90, Value: func(r models.DefectRecord) string { return r.Equipment }},
		{Header: "Description", Width: 180, Value: func(r models.DefectRecord) string { return r.Description }},
		{Header: "Action Planned", Width: 160, Value: func(r models.DefectRecord) string { return r.ActionPlanned }},
		{Header: "Criticality", Width: 55, Value: func(r models.DefectRecord) string { return string(r.Criticality) }},
		{Header: "Reported", Width: 60, Value: func(r models.DefectRecord) string { return formatCalendarDate(r.DateReported) }},
		{Header: "Completed", Width: 60, Value: func(r models.DefectRecord) string { return formatCalendarDate(r.DateCompleted) }},
		{Header: "Files", Width: 32, Value: func(r models.DefectRecord) string { return strconv.Itoa(len(r.AssociatedFiles)) }},
	}
}

// UsableWidth is the page width between the side margins
func (l PDFLayout) UsableWidth() float64 {
	return l.PageWidth - l.MarginLeft - l.MarginRight
}

// TableWidth is the sum of the column widths
func (l PDFLayout) TableWidth() float64 {
	total := 0.0
	for _, c := range l.Columns {
		total += c.Width
	}
	return total
}

// RenderedReport is the outcome of a successful report rendering
type RenderedReport struct {
	Body         []byte
	Pages        int
	Rows         int
	Placeholders int
}

// PDFRenderer lays out defect records as a paginated table
type PDFRenderer struct {
	layout PDFLayout
	logger logger.Logger
}

// NewPDFRenderer creates a renderer for the given layout
func NewPDFRenderer(layout PDFLayout, log logger.Logger) *PDFRenderer {
	return &PDFRenderer{layout: layout, logger: log}
}

// pageState is the cursor of a single rendering run. tableTop and rowsTop
// record where the header band and the first row sit on the first page;
// continuation pages start at the same offsets.
type pageState struct {
	pdf          *fpdf.Fpdf
	y            float64
	tableTop     float64
	rowsTop      float64
	placeholders int
}

// Render draws records in input order. Per-cell failures are replaced by
// CellPlaceholder; document-level failures return an error wrapping
// models.ErrFatalGeneration and no bytes.
func (r *PDFRenderer) Render(records []models.DefectRecord, meta models.ReportMeta) (*RenderedReport, error) {
	l := r.layout
	if len(l.Columns) == 0 {
		return nil, fmt.Errorf("%w: report has no columns", models.ErrFatalGeneration)
	}
	if l.TableWidth() > l.UsableWidth()+0.001 {
		return nil, fmt.Errorf("%w: columns need %.1f but only %.1f is usable", models.ErrFatalGeneration, l.TableWidth(), l.UsableWidth())
	}
	if meta.GeneratedAt.IsZero() {
		meta.GeneratedAt = time.Now()
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: l.PageWidth, Ht: l.PageHeight},
	})
	pdf.SetMargins(l.MarginLeft, l.MarginTop, l.MarginRight)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreationDate(meta.GeneratedAt)
	pdf.SetModificationDate(meta.GeneratedAt)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(SanitizeCellText(meta.Title), false)
	pdf.SetCreator("defects-register", false)

	footer := SanitizeCellText(meta.Footer)
	pdf.SetFooterFunc(func() {
		if footer == "" {
			return
		}
		pdf.SetFont(l.FontFamily, "", l.BodyFontSize)
		pdf.SetTextColor(102, 102, 102)
		w := pdf.GetStringWidth(footer)
		pdf.Text((l.PageWidth-w)/2, l.PageHeight-l.MarginBottom/2, footer)
	})

	st := &pageState{pdf: pdf}
	pdf.AddPage()
	for _, style := range []string{"", "B"} {
		pdf.SetFont(l.FontFamily, style, l.BodyFontSize)
	}
	if pdf.Err() {
		return nil, fmt.Errorf("%w: %v", models.ErrFatalGeneration, pdf.Error())
	}
	r.drawTitleBand(st, meta)
	st.tableTop = st.y
	r.drawHeaderBand(st)
	st.rowsTop = st.y
	if pdf.Err() {
		return nil, fmt.Errorf("%w: %v", models.ErrFatalGeneration, pdf.Error())
	}

	for i, rec := range records {
		if st.y+l.RowHeight > l.PageHeight-l.MarginBottom {
			pdf.AddPage()
			if l.RepeatHeader {
				st.y = st.tableTop
				r.drawHeaderBand(st)
			} else {
				st.y = st.rowsTop
			}
		}
		r.drawRow(st, i, rec)
		if pdf.Err() {
			return nil, fmt.Errorf("%w: row %d: %v", models.ErrFatalGeneration, i+1, pdf.Error())
		}
	}

	pages := pdf.PageNo()
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrFatalGeneration, err)
	}

	return &RenderedReport{
		Body:         buf.Bytes(),
		Pages:        pages,
		Rows:         len(records),
		Placeholders: st.placeholders,
	}, nil
}

func (r *PDFRenderer) drawTitleBand(st *pageState, meta models.ReportMeta) {
	l := r.layout
	pdf := st.pdf

	title := SanitizeCellText(meta.Title)
	if title == "" {
		title = models.DefaultReportTitle
	}
	pdf.SetFont(l.FontFamily, "B", l.TitleFontSize)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(l.MarginLeft, l.MarginTop+l.TitleFontSize, title)

	sub := "Generated: " + meta.GeneratedAt.Format(models.DateLayout)
	if scope := SanitizeCellText(meta.ScopeLabel); scope != "" {
		sub = scope + " | " + sub
	}
	if rng := SanitizeCellText(meta.DateRangeLabel); rng != "" {
		sub += " | " + rng
	}
	pdf.SetFont(l.FontFamily, "", l.HeaderFontSize+1)
	pdf.SetTextColor(102, 102, 102)
	pdf.Text(l.MarginLeft, l.MarginTop+l.TitleFontSize+16, sub)

	st.y = l.MarginTop + l.TitleBandHeight
}

func (r *PDFRenderer) drawHeaderBand(st *pageState) {
	l := r.layout
	pdf := st.pdf

	pdf.SetFillColor(l.HeaderShade, l.HeaderShade, l.HeaderShade)
	pdf.Rect(l.MarginLeft, st.y, l.TableWidth(), l.HeaderBandHeight, "F")
	pdf.SetFont(l.FontFamily, "B", l.HeaderFontSize)
	pdf.SetTextColor(0, 0, 0)

	x := l.MarginLeft
	for _, col := range l.Columns {
		text, err := TruncateToWidth(SanitizeCellText(col.Header), col.Width-2*l.CellPadding, pdf.GetStringWidth)
		if err != nil {
			text = CellPlaceholder
		}
		pdf.Text(x+l.CellPadding, baseline(st.y, l.HeaderBandHeight, l.HeaderFontSize), text)
		x += col.Width
	}
	st.y += l.HeaderBandHeight
}

func (r *PDFRenderer) drawRow(st *pageState, index int, rec models.DefectRecord) {
	l := r.layout
	pdf := st.pdf

	if index%2 == 1 {
		pdf.SetFillColor(l.StripeShade, l.StripeShade, l.StripeShade)
		pdf.Rect(l.MarginLeft, st.y, l.TableWidth(), l.RowHeight, "F")
	}
	pdf.SetFont(l.FontFamily, "", l.BodyFontSize)
	pdf.SetTextColor(0, 0, 0)

	x := l.MarginLeft
	for _, col := range l.Columns {
		text, err := r.cellText(col, rec, pdf.GetStringWidth)
		if err != nil {
			st.placeholders++
			r.logger.Warnf("Replacing %s cell of defect %s with placeholder: %v", col.Header, rec.ID, err)
			text = CellPlaceholder
		}
		pdf.Text(x+l.CellPadding, baseline(st.y, l.RowHeight, l.BodyFontSize), text)
		x += col.Width
	}
	st.y += l.RowHeight
}

// cellText sanitizes and fits one cell value, converting a panic into models.ErrRender
func (r *PDFRenderer) cellText(col PDFColumn, rec models.DefectRecord, measure func(string) float64) (text string, err error) {
	defer func() {
		if p := recover(); p != nil {
			text, err = "", fmt.Errorf("%w: %v", models.ErrRender, p)
		}
	}()
	return TruncateToWidth(SanitizeCellText(col.Value(rec)), col.Width-2*r.layout.CellPadding, measure)
}

// baseline places text vertically centred in a band starting at y
func baseline(y, height, fontSize float64) float64 {
	return y + height/2 + fontSize*0.35
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-z0-9]+`)

// PDFFilename returns defects-report-<scope>-<date>.pdf with the scope label
// lower-cased and reduced to dash separated alphanumerics
func PDFFilename(scopeLabel string, now time.Time) string {
	scope := strings.Trim(unsafeFilenameChars.ReplaceAllString(strings.ToLower(scopeLabel), "-"), "-")
	if scope == "" {
		scope = "all-vessels"
	}
	return "defects-report-" + scope + "-" + now.Format(models.DateLayout) + ".pdf"
}
