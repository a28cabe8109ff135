package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/telinsight/employee-insights-api/internal/logger"
	"github.com/telinsight/employee-insights-api/internal/services"
)

type BookmarkHandler struct {
	log             *logger.Logger
	bookmarkService services.BookmarkService
}

func NewBookmarkHandler(log *logger.Logger, bookmarkService services.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{
		log:             log.With("handler", "BookmarkHandler"),
		bookmarkService: bookmarkService,
	}
}

type createBookmarkRequest struct {
	FeedbackID  uint   `json:"feedback_id" binding:"required"`
	WordInsight string `json:"word_insight" binding:"required"`
}

// POST /api/bookmarks
func (h *BookmarkHandler) Create(c *gin.Context) {
	var req createBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	bookmark, err := h.bookmarkService.Create(c.Request.Context(), req.FeedbackID, req.WordInsight)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	RespondOK(c, bookmark, "Successfully created bookmark")
}

// GET /api/bookmarks
func (h *BookmarkHandler) List(c *gin.Context) {
	rows, err := h.bookmarkService.List(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	RespondOK(c, rows, "Successfully retrieved bookmarks")
}

// DELETE /api/bookmarks/:id
func (h *BookmarkHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := h.bookmarkService.Delete(c.Request.Context(), uint(id)); err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	RespondOK(c, nil, "Successfully deleted bookmark")
}
