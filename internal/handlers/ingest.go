package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/telinsight/employee-insights-api/internal/logger"
	"github.com/telinsight/employee-insights-api/internal/normalization"
	"github.com/telinsight/employee-insights-api/internal/services"
)

type IngestHandler struct {
	log           *logger.Logger
	importService services.ImportService
}

func NewIngestHandler(log *logger.Logger, importService services.ImportService) *IngestHandler {
	return &IngestHandler{
		log:           log.With("handler", "IngestHandler"),
		importService: importService,
	}
}

type importRequest struct {
	Records []normalization.RawFeedback `json:"records"`
}

// POST /api/insights/import
// Destructive: wipes everything and reloads from the request body.
func (h *IngestHandler) FullReload(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	summary, err := h.importService.FullReload(c.Request.Context(), req.Records)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	RespondOK(c, summary, "Successfully reloaded feedback data")
}

// POST /api/insights/import/incremental
// Additive: existing rows are untouched.
func (h *IngestHandler) IncrementalAppend(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	summary, err := h.importService.IncrementalAppend(c.Request.Context(), req.Records)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	RespondOK(c, summary, "Successfully appended feedback data")
}
