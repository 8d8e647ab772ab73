package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/statement_import/internal/apperrors"
	"github.com/SscSPs/statement_import/internal/core/domain"
	portssvc "github.com/SscSPs/statement_import/internal/core/ports/services"
	"github.com/SscSPs/statement_import/internal/dto"
	"github.com/SscSPs/statement_import/internal/middleware"
	"github.com/SscSPs/statement_import/internal/utils/pagination"
	"github.com/gin-gonic/gin"
)

// templateHandler handles HTTP requests related to CSV mapping templates.
type templateHandler struct {
	templateService portssvc.TemplateSvcFacade
}

// newTemplateHandler creates a new templateHandler.
func newTemplateHandler(ts portssvc.TemplateSvcFacade) *templateHandler {
	return &templateHandler{templateService: ts}
}

// RegisterTemplateRoutes registers routes related to mapping templates.
func RegisterTemplateRoutes(rg *gin.RouterGroup, templateService portssvc.TemplateSvcFacade) {
	h := newTemplateHandler(templateService)

	templates := rg.Group("/templates")
	{
		templates.GET("", h.listTemplates)
		templates.GET("/:bank", h.getTemplate)
		templates.PUT("/:bank", h.saveTemplate)
	}
}

// listTemplates godoc
// @Summary List mapping templates
// @Description Retrieves saved CSV mapping templates sorted by bank name
// @Tags templates
// @Produce  json
// @Param   limit query int false "Page size" minimum(1) maximum(500)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTemplatesResponse
// @Failure 400 {object} map[string]string "Invalid limit or page token"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list mapping templates"
// @Security BearerAuth
// @Router /templates [get]
func (h *templateHandler) listTemplates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListTemplatesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid query parameters for ListTemplates", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	templates, err := h.templateService.ListTemplates(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list mapping templates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list mapping templates"})
		return
	}

	page, next, err := pagination.Page(templates, func(t domain.MappingTemplate) string { return t.BankName }, params.NextToken, params.Limit)
	if err != nil {
		logger.Warn("Invalid pagination token", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ListTemplatesResponse{
		Templates: dto.ToListTemplateResponse(page),
		NextToken: next,
	})
}

// getTemplate godoc
// @Summary Get a bank's mapping template
// @Tags templates
// @Produce  json
// @Param   bank path string true "Bank name"
// @Success 200 {object} dto.TemplateResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Mapping template not found"
// @Failure 500 {object} map[string]string "Failed to retrieve mapping template"
// @Security BearerAuth
// @Router /templates/{bank} [get]
func (h *templateHandler) getTemplate(c *gin.Context) {
	bank := c.Param("bank")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("bank_name", bank))

	tmpl, err := h.templateService.GetTemplate(c.Request.Context(), bank)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Mapping template not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Mapping template not found"})
		} else {
			logger.Error("Failed to get mapping template", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve mapping template"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToTemplateResponse(tmpl))
}

// saveTemplate godoc
// @Summary Save a reviewed mapping template
// @Description Stores a reviewed header mapping for the bank in the path, replacing any earlier template
// @Tags templates
// @Accept  json
// @Produce  json
// @Param   bank path string true "Bank name"
// @Param   template body dto.SaveTemplateRequest true "Headers, mapping and metadata"
// @Success 200 {object} dto.TemplateResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to save mapping template"
// @Security BearerAuth
// @Router /templates/{bank} [put]
func (h *templateHandler) saveTemplate(c *gin.Context) {
	bank := c.Param("bank")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("bank_name", bank))

	var req dto.SaveTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SaveTemplate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	hm := domain.HeaderMapping(req.Mapping)
	if err := hm.Validate(req.Headers); err != nil {
		logger.Warn("Invalid mapping in SaveTemplate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	metadata := make(map[string]any, len(req.Metadata)+2)
	for k, v := range req.Metadata {
		metadata[k] = v
	}
	metadata["auto_created"] = false
	metadata["reviewed"] = true

	if !h.templateService.SaveTemplate(c.Request.Context(), bank, req.Headers, hm, metadata) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save mapping template"})
		return
	}

	tmpl, err := h.templateService.GetTemplate(c.Request.Context(), bank)
	if err != nil {
		logger.Error("Saved mapping template could not be read back", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve mapping template"})
		return
	}
	logger.Info("Reviewed mapping template saved")
	c.JSON(http.StatusOK, dto.ToTemplateResponse(tmpl))
}
