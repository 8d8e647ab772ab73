package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/SscSPs/statement_import/internal/apperrors"
	"github.com/SscSPs/statement_import/internal/core/domain"
	portssvc "github.com/SscSPs/statement_import/internal/core/ports/services"
	"github.com/SscSPs/statement_import/internal/dto"
	"github.com/SscSPs/statement_import/internal/middleware"
	"github.com/SscSPs/statement_import/internal/utils"
	"github.com/gin-gonic/gin"
)

// maxUploadBytes caps the size of an uploaded statement file.
const maxUploadBytes = 10 << 20

// importHandler handles HTTP requests that parse statement files.
type importHandler struct {
	importService portssvc.ImportSvc
	posthogClient *utils.PosthogClientWrapper
}

// newImportHandler creates a new importHandler.
func newImportHandler(is portssvc.ImportSvc, posthogClient *utils.PosthogClientWrapper) *importHandler {
	return &importHandler{importService: is, posthogClient: posthogClient}
}

// RegisterImportRoutes registers the import and mapping suggestion routes.
func RegisterImportRoutes(rg *gin.RouterGroup, importService portssvc.ImportSvc, posthogClient *utils.PosthogClientWrapper) {
	h := newImportHandler(importService, posthogClient)

	imports := rg.Group("/imports")
	{
		imports.POST("/ofx", h.importOFX)
		imports.POST("/csv", h.importCSV)
	}
	rg.POST("/mappings/suggest", h.suggestMapping)
}

// importOFX godoc
// @Summary Import an OFX or QFX statement
// @Description Parses an OFX/QFX document into statements. The body is the raw document, or JSON {content, accountName, accountCode}. For raw bodies the account defaults come from the accountName and accountCode query parameters.
// @Tags imports
// @Accept  plain
// @Accept  json
// @Produce  json
// @Param   accountName query string false "Account name used when the document names no institution"
// @Param   accountCode query string false "Account code used when the document names no institution"
// @Param   request body dto.OFXImportRequest false "Document wrapped in JSON"
// @Success 200 {object} dto.ImportResponse
// @Failure 400 {object} map[string]string "Empty or unreadable body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} map[string]string "Malformed OFX document"
// @Failure 500 {object} map[string]string "Failed to import statement"
// @Security BearerAuth
// @Router /imports/ofx [post]
func (h *importHandler) importOFX(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	var req portssvc.OFXImportRequest
	if c.ContentType() == gin.MIMEJSON {
		var body dto.OFXImportRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			logger.Warn("Failed to bind JSON for ImportOFX", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
		req = portssvc.OFXImportRequest{Content: body.Content, AccountName: body.AccountName, AccountCode: body.AccountCode}
	} else {
		content, err := readRawBody(c)
		if err != nil {
			logger.Warn("Failed to read OFX upload", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
			return
		}
		req = portssvc.OFXImportRequest{Content: content, AccountName: c.Query("accountName"), AccountCode: c.Query("accountCode")}
	}

	statements, err := h.importService.ImportOFX(c.Request.Context(), req)
	if err != nil {
		writeImportError(c, logger, err)
		return
	}

	resp := dto.ToOFXImportResponse(statements)
	middleware.PosthogEvent(c, h.posthogClient, "statement_imported", map[string]any{
		"format":       resp.Format,
		"statements":   len(resp.Statements),
		"transactions": resp.TransactionCount,
	})
	c.JSON(http.StatusOK, resp)
}

// importCSV godoc
// @Summary Import a CSV statement
// @Description Parses a CSV export. The body is the raw file with the bank name in the bank query parameter, or JSON {content, bankName, mapping}. A file whose headers need review answers 202 with the suggested mapping and no statements.
// @Tags imports
// @Accept  plain
// @Accept  json
// @Produce  json
// @Param   bank query string false "Bank name used for template lookup and saving"
// @Param   request body dto.CSVImportRequest false "File wrapped in JSON, optionally with a reviewed mapping"
// @Success 200 {object} dto.ImportResponse
// @Success 202 {object} dto.MappingReviewResponse "Mapping needs review"
// @Failure 400 {object} map[string]string "Empty or unreadable body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} map[string]string "Invalid mapping"
// @Failure 500 {object} map[string]string "Failed to import statement"
// @Security BearerAuth
// @Router /imports/csv [post]
func (h *importHandler) importCSV(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	var req portssvc.CSVImportRequest
	if c.ContentType() == gin.MIMEJSON {
		var body dto.CSVImportRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			logger.Warn("Failed to bind JSON for ImportCSV", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
		req = portssvc.CSVImportRequest{Content: body.Content, BankName: body.BankName, Mapping: domain.HeaderMapping(body.Mapping)}
	} else {
		content, err := readRawBody(c)
		if err != nil {
			logger.Warn("Failed to read CSV upload", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
			return
		}
		req = portssvc.CSVImportRequest{Content: content, BankName: c.Query("bank")}
	}

	result, err := h.importService.ImportCSV(c.Request.Context(), req)
	if err != nil {
		writeImportError(c, logger, err)
		return
	}

	if result.NeedsReview() {
		logger.Info("CSV import needs mapping review", slog.String("import_id", result.ImportID))
		c.JSON(http.StatusAccepted, dto.ToMappingReviewResponse(result))
		return
	}

	resp := dto.ToCSVImportResponse(result)
	middleware.PosthogEvent(c, h.posthogClient, "statement_imported", map[string]any{
		"format":         resp.Format,
		"mapping_source": resp.MappingSource,
		"statements":     len(resp.Statements),
		"transactions":   resp.TransactionCount,
		"template_saved": resp.TemplateSaved,
	})
	c.JSON(http.StatusOK, resp)
}

// suggestMapping godoc
// @Summary Suggest a header mapping
// @Description Proposes a header to field mapping for a set of CSV headers and optional sample rows, with its evaluation
// @Tags mappings
// @Accept  json
// @Produce  json
// @Param   request body dto.SuggestMappingRequest true "Headers and sample rows"
// @Success 200 {object} dto.SuggestMappingResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /mappings/suggest [post]
func (h *importHandler) suggestMapping(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SuggestMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SuggestMapping", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	suggested, eval := h.importService.SuggestMapping(c.Request.Context(), req.Headers, req.Samples())
	c.JSON(http.StatusOK, dto.ToSuggestMappingResponse(suggested, eval))
}

func readRawBody(c *gin.Context) (string, error) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// writeImportError maps service errors to HTTP statuses.
func writeImportError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrEmptyInput):
		logger.Warn("Empty statement upload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "The uploaded file is empty"})
	case errors.Is(err, apperrors.ErrMalformedDocument):
		logger.Warn("Malformed statement upload", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Statement failed validation", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.Error("Failed to import statement", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import statement"})
	}
}
