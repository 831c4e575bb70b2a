package controller

import (
	"context"
	"defects-register/middelware"
	"defects-register/models"
	"defects-register/services"
	"defects-register/utils"
	"defects-register/utils/logger"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type DefectController struct {
	defects   services.DefectServiceInterface
	reports   services.ReportServiceInterface
	validator *validator.Validate
	logger    logger.Logger
	now       func() time.Time
}

func NewDefectController(defects services.DefectServiceInterface, reports services.ReportServiceInterface, logger logger.Logger) *DefectController {
	return &DefectController{
		defects:   defects,
		reports:   reports,
		validator: utils.NewValidator(),
		logger:    logger,
		now:       time.Now,
	}
}

// CriteriaFromQuery turns the list query string into filter criteria and the reference date
// used by statistics. A missing now falls back to fallback.
func CriteriaFromQuery(q models.ListQuery, fallback time.Time) (models.FilterCriteria, time.Time, error) {
	var criteria models.FilterCriteria

	for _, raw := range q.Vessels {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				criteria.VesselIDs = append(criteria.VesselIDs, id)
			}
		}
	}

	if q.Status != "" {
		status, ok := models.NormalizeStatus(q.Status)
		if !ok {
			return criteria, fallback, &services.ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", q.Status)}
		}
		criteria.Status = status
	}
	if q.Criticality != "" {
		crit, ok := models.NormalizeCriticality(q.Criticality)
		if !ok {
			return criteria, fallback, &services.ValidationError{Field: "criticality", Message: fmt.Sprintf("unknown criticality %q", q.Criticality)}
		}
		criteria.Criticality = crit
	}
	criteria.SearchTerm = strings.TrimSpace(q.Search)

	if q.From != "" {
		from, _ := models.ParseCalendarDate(q.From)
		criteria.DateFrom = &from
	}
	if q.To != "" {
		to, _ := models.ParseCalendarDate(q.To)
		criteria.DateTo = &to
	}
	if criteria.DateFrom != nil && criteria.DateTo != nil && criteria.DateFrom.After(*criteria.DateTo) {
		return criteria, fallback, &services.ValidationError{Field: "from", Message: "from must not be after to"}
	}

	now := fallback
	if q.Now != "" {
		now, _ = models.ParseCalendarDate(q.Now)
	}
	return criteria, now, nil
}

// bindCriteria reads and validates the filter query; it writes the error response itself
func (h *DefectController) bindCriteria(c *gin.Context) (models.ListQuery, models.FilterCriteria, time.Time, bool) {
	var q models.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, h.logger, err)
		return q, models.FilterCriteria{}, time.Time{}, false
	}
	if err := h.validator.Struct(&q); err != nil {
		respondBindError(c, h.logger, err)
		return q, models.FilterCriteria{}, time.Time{}, false
	}

	criteria, now, err := CriteriaFromQuery(q, h.now())
	if err != nil {
		respondError(c, h.logger, "Invalid filter", err)
		return q, criteria, now, false
	}
	return q, criteria, now, true
}

// List handles GET /api/v1/defects
// @Summary List defects
// @Description The visible defects of the caller's vessels, most recently reported first
// @Tags Defects
// @Security BearerAuth
// @Produce json
// @Param vessel query []string false "Vessel id, repeatable" collectionFormat(multi)
// @Param status query string false "OPEN, IN PROGRESS or CLOSED"
// @Param criticality query string false "High, Medium or Low"
// @Param search query string false "Case-insensitive free text"
// @Param from query string false "Earliest dateReported (YYYY-MM-DD)"
// @Param to query string false "Latest dateReported (YYYY-MM-DD)"
// @Param page query int false "Page number, starting at 1"
// @Param limit query int false "Page size; omitted returns every match"
// @Success 200 {object} models.APIResponse{data=models.DefectPage} "Defects retrieved successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid filter"
// @Failure 401 {object} models.APIResponse "Unauthorized - Authentication required"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Failed to load defects"
// @Router /defects [get]
func (h *DefectController) List(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	q, criteria, _, ok := h.bindCriteria(c)
	if !ok {
		return
	}

	records, err := h.defects.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, "Failed to load defects", err)
		return
	}

	visible := services.FilterDefects(records, criteria)
	respondOK(c, http.StatusOK, "Defects retrieved successfully", paginate(visible, q.Page, q.Limit))
}

func paginate(records []models.DefectRecord, page, limit int) models.DefectPage {
	if page < 1 {
		page = 1
	}
	result := models.DefectPage{Items: records, Total: len(records), Page: page, Limit: limit}
	if limit <= 0 {
		return result
	}

	start := (page - 1) * limit
	if start >= len(records) {
		result.Items = []models.DefectRecord{}
		return result
	}
	end := start + limit
	if end > len(records) {
		end = len(records)
	}
	result.Items = records[start:end]
	return result
}

// Draft handles GET /api/v1/defects/draft
// @Summary New defect draft
// @Description A pre-filled unsaved defect on the caller's first assigned vessel
// @Tags Defects
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.DefectRecord} "Draft created"
// @Failure 400 {object} models.APIResponse "Bad Request - No vessels assigned"
// @Failure 401 {object} models.APIResponse "Unauthorized - Authentication required"
// @Router /defects/draft [get]
func (h *DefectController) Draft(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	draft, err := h.defects.Draft(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, "Failed to create draft", err)
		return
	}
	respondOK(c, http.StatusOK, "Draft created", draft)
}

// Equipment handles GET /api/v1/defects/equipment
// @Summary Equipment categories
// @Description The equipment taxonomy offered when recording a defect
// @Tags Defects
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse{data=[]string} "Equipment categories retrieved"
// @Failure 401 {object} models.APIResponse "Unauthorized - Authentication required"
// @Router /defects/equipment [get]
func (h *DefectController) Equipment(c *gin.Context) {
	respondOK(c, http.StatusOK, "Equipment categories retrieved", models.EquipmentCategories)
}

// Create handles POST /api/v1/defects
// @Summary Save a defect
// @Description Creates the defect when its id is empty or temporary, otherwise updates it
// @Tags Defects
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.SaveDefectRequest true "Defect"
// @Success 200 {object} models.APIResponse{data=models.DefectRecord} "Defect updated"
// @Success 201 {object} models.APIResponse{data=models.DefectRecord} "Defect created"
// @Failure 400 {object} models.APIResponse "Bad Request - Validation failed"
// @Failure 403 {object} models.APIResponse "Forbidden - Vessel not assigned"
// @Failure 404 {object} models.APIResponse "Not Found - Defect does not exist"
// @Router /defects [post]
func (h *DefectController) Create(c *gin.Context) {
	var req models.SaveDefectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}
	h.save(c, &req)
}

// Update handles PUT /api/v1/defects/:id
// @Summary Update a defect
// @Tags Defects
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Defect ID"
// @Param request body models.SaveDefectRequest true "Defect"
// @Success 200 {object} models.APIResponse{data=models.DefectRecord} "Defect updated"
// @Failure 400 {object} models.APIResponse "Bad Request - Validation failed"
// @Failure 403 {object} models.APIResponse "Forbidden - Vessel not assigned"
// @Failure 404 {object} models.APIResponse "Not Found - Defect does not exist"
// @Router /defects/{id} [put]
func (h *DefectController) Update(c *gin.Context) {
	var req models.SaveDefectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}

	req.ID = c.Param("id")
	if (models.DefectRecord{ID: req.ID}).IsDraft() {
		respondError(c, h.logger, "Invalid defect id", &services.ValidationError{Field: "id", Message: "a draft cannot be updated, save it with POST first"})
		return
	}
	h.save(c, &req)
}

func (h *DefectController) save(c *gin.Context, req *models.SaveDefectRequest) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	creating := (models.DefectRecord{ID: req.ID}).IsDraft()
	record, err := h.defects.Save(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, h.logger, "Failed to save defect", err)
		return
	}

	if creating {
		respondOK(c, http.StatusCreated, "Defect created", record)
		return
	}
	respondOK(c, http.StatusOK, "Defect updated", record)
}

// Delete handles DELETE /api/v1/defects/:id
// @Summary Delete a defect
// @Description Soft deletes the defect; it disappears from lists, statistics and exports
// @Tags Defects
// @Security BearerAuth
// @Produce json
// @Param id path string true "Defect ID"
// @Success 200 {object} models.APIResponse "Defect deleted"
// @Failure 403 {object} models.APIResponse "Forbidden - Vessel not assigned"
// @Failure 404 {object} models.APIResponse "Not Found - Defect does not exist"
// @Router /defects/{id} [delete]
func (h *DefectController) Delete(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := h.defects.SoftDelete(c.Request.Context(), userID, id); err != nil {
		respondError(c, h.logger, "Failed to delete defect", err)
		return
	}
	respondOK(c, http.StatusOK, "Defect deleted", gin.H{"id": id})
}

// Stats handles GET /api/v1/defects/stats
// @Summary Defect statistics
// @Description Equipment and status distribution plus the closure trend of the visible set
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Param vessel query []string false "Vessel id, repeatable" collectionFormat(multi)
// @Param status query string false "Status filter"
// @Param criticality query string false "Criticality filter"
// @Param search query string false "Free text"
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Param top query int false "Number of equipment categories"
// @Param now query string false "Reference date for the closure trend (YYYY-MM-DD)"
// @Success 200 {object} models.APIResponse{data=models.DefectStats} "Statistics computed"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid filter"
// @Router /defects/stats [get]
func (h *DefectController) Stats(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	q, criteria, now, ok := h.bindCriteria(c)
	if !ok {
		return
	}

	stats, err := h.reports.Stats(c.Request.Context(), userID, criteria, now, q.Top)
	if err != nil {
		respondError(c, h.logger, "Failed to compute statistics", err)
		return
	}
	respondOK(c, http.StatusOK, "Statistics computed", stats)
}

// ExportCSV handles GET /api/v1/defects/export/csv
// @Summary Export defects as CSV
// @Tags Reports
// @Security BearerAuth
// @Produce text/csv
// @Param vessel query []string false "Vessel id, repeatable" collectionFormat(multi)
// @Param status query string false "Status filter"
// @Param criticality query string false "Criticality filter"
// @Param search query string false "Free text"
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Success 200 {file} file "CSV document"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid filter"
// @Router /defects/export/csv [get]
func (h *DefectController) ExportCSV(c *gin.Context) {
	h.export(c, h.reports.ExportCSV)
}

// ExportPDF handles GET /api/v1/defects/export/pdf
// @Summary Export defects as a PDF report
// @Tags Reports
// @Security BearerAuth
// @Produce application/pdf
// @Param vessel query []string false "Vessel id, repeatable" collectionFormat(multi)
// @Param status query string false "Status filter"
// @Param criticality query string false "Criticality filter"
// @Param search query string false "Free text"
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Success 200 {file} file "PDF document"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid filter"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Report generation failed"
// @Router /defects/export/pdf [get]
func (h *DefectController) ExportPDF(c *gin.Context) {
	h.export(c, h.reports.ExportPDF)
}

type exportFunc func(ctx context.Context, userID string, criteria models.FilterCriteria, now time.Time) (*models.Artifact, error)

func (h *DefectController) export(c *gin.Context, generate exportFunc) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	_, criteria, _, ok := h.bindCriteria(c)
	if !ok {
		return
	}

	artifact, err := generate(c.Request.Context(), userID, criteria, h.now())
	if err != nil {
		respondError(c, h.logger, "Failed to export defects", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	if artifact.ArchiveKey != "" {
		c.Header(ArchiveKeyHeader, artifact.ArchiveKey)
	}
	c.Data(http.StatusOK, artifact.ContentType, artifact.Body)
}

// ArchiveKeyHeader carries the object key of an archived export
const ArchiveKeyHeader = middelware.ArchiveKeyHeader
