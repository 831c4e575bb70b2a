package services

import (
	"bytes"
	"context"
	"defects-register/dal"
	"defects-register/models"
	"defects-register/utils/logger"
	"fmt"
	"time"
)

type ReportService struct {
	defects  *DefectService
	renderer *PDFRenderer
	store    dal.ObjectStoreInterface
	config   *models.Config
	logger   logger.Logger
}

// NewReportService wires the export pipeline. store may be nil, in which case nothing is archived.
func NewReportService(defects *DefectService, store dal.ObjectStoreInterface, cfg *models.Config, logger logger.Logger) *ReportService {
	layout := DefaultPDFLayout()
	layout.RepeatHeader = cfg.ReportRepeatHeaderBand

	return &ReportService{
		defects:  defects,
		renderer: NewPDFRenderer(layout, logger),
		store:    store,
		config:   cfg,
		logger:   logger,
	}
}

// ExportCSV encodes the caller's visible defects matching criteria
func (s *ReportService) ExportCSV(ctx context.Context, userID string, criteria models.FilterCriteria, now time.Time) (*models.Artifact, error) {
	records, err := s.defects.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	artifact := &models.Artifact{
		Filename:    CSVFilename(now),
		ContentType: models.ContentTypeCSV,
		Body:        []byte(EncodeCSV(records, criteria)),
	}
	s.logger.Infof("Generated %s for user %s (%d bytes)", artifact.Filename, userID, len(artifact.Body))

	s.archive(ctx, userID, artifact)
	return artifact, nil
}

// ExportPDF renders the caller's visible defects matching criteria as a landscape A4 table
func (s *ReportService) ExportPDF(ctx context.Context, userID string, criteria models.FilterCriteria, now time.Time) (*models.Artifact, error) {
	records, vessels, err := s.defects.listWithVessels(ctx, userID)
	if err != nil {
		return nil, err
	}

	meta := models.ReportMeta{
		Title:          models.DefaultReportTitle,
		ScopeLabel:     ScopeLabel(criteria.VesselIDs, vesselNames(vessels)),
		DateRangeLabel: DateRangeLabel(criteria),
		GeneratedAt:    now,
		Footer:         s.config.ReportFooter,
	}

	report, err := s.renderer.Render(FilterDefects(records, criteria), meta)
	if err != nil {
		s.logger.Errorf("Failed to render PDF for user %s: %v", userID, err)
		return nil, err
	}

	artifact := &models.Artifact{
		Filename:    PDFFilename(meta.ScopeLabel, now),
		ContentType: models.ContentTypePDF,
		Body:        report.Body,
	}
	s.logger.Infof("Generated %s for user %s (%d rows, %d pages, %d placeholders)",
		artifact.Filename, userID, report.Rows, report.Pages, report.Placeholders)

	s.archive(ctx, userID, artifact)
	return artifact, nil
}

// Stats aggregates the caller's visible defects matching criteria
func (s *ReportService) Stats(ctx context.Context, userID string, criteria models.FilterCriteria, now time.Time, topN int) (*models.DefectStats, error) {
	records, err := s.defects.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if topN <= 0 {
		topN = s.config.ReportTopN
	}

	stats := AggregateStats(FilterDefects(records, criteria), models.StatsOptions{
		TopN:   topN,
		Now:    now,
		Window: s.config.TrendWindow(),
	})
	return &stats, nil
}

// archive copies an artifact to object storage. Failures are logged and never reach the caller.
func (s *ReportService) archive(ctx context.Context, userID string, artifact *models.Artifact) {
	if s.store == nil || !s.config.S3ArchiveEnabled {
		return
	}

	key := ArchiveKey(userID, artifact.Filename)
	if err := s.store.PutObject(ctx, key, bytes.NewReader(artifact.Body), artifact.ContentType); err != nil {
		s.logger.Warnf("Failed to archive %s: %v", key, err)
		return
	}
	artifact.ArchiveKey = key
}

// ArchiveKey is the object key a user's report is archived under
func ArchiveKey(userID, filename string) string {
	return fmt.Sprintf("reports/%s/%s", userID, filename)
}

// DateRangeLabel describes the date predicates of criteria for the report title band
func DateRangeLabel(c models.FilterCriteria) string {
	switch {
	case c.DateFrom != nil && c.DateTo != nil:
		return fmt.Sprintf("%s to %s", c.DateFrom.Format(models.DateLayout), c.DateTo.Format(models.DateLayout))
	case c.DateFrom != nil:
		return "From " + c.DateFrom.Format(models.DateLayout)
	case c.DateTo != nil:
		return "Until " + c.DateTo.Format(models.DateLayout)
	}
	return ""
}
