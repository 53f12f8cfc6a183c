package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"drawbook/internal/service"
)

// UsageHandler serves usage history and reporting endpoints.
type UsageHandler struct {
	usageService service.UsageService
}

// NewUsageHandler creates a new UsageHandler.
func NewUsageHandler(usageService service.UsageService) *UsageHandler {
	return &UsageHandler{usageService: usageService}
}

// Summary handles GET /api/v1/usage/summary
func (h *UsageHandler) Summary(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	summary, err := h.usageService.Summary(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, summary)
}

// List handles GET /api/v1/usage
func (h *UsageHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	offset, limit := pagination(c)

	entries, total, err := h.usageService.List(c.Request.Context(), userID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, entries, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Export handles GET /api/v1/usage/export. Streams an xlsx workbook covering
// the requested period (default: last 30 days).
func (h *UsageHandler) Export(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)
	if s := c.Query("from"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "VALIDATION_FAILED", "from must be YYYY-MM-DD")
			return
		}
		from = t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "VALIDATION_FAILED", "to must be YYYY-MM-DD")
			return
		}
		to = t.AddDate(0, 0, 1)
	}

	filename := fmt.Sprintf("usage_%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := h.usageService.ExportXLSX(c.Request.Context(), c.Writer, userID, from, to); err != nil {
		HandleError(c, err)
		return
	}
}
