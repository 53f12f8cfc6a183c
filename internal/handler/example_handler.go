package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"drawbook/internal/service"
)

// ExampleHandler serves the shared example library. Examples are public and
// parsing them never costs balance.
type ExampleHandler struct {
	exampleService service.ExampleService
	parseService   service.ParseService
}

// NewExampleHandler creates a new ExampleHandler.
func NewExampleHandler(exampleService service.ExampleService, parseService service.ParseService) *ExampleHandler {
	return &ExampleHandler{exampleService: exampleService, parseService: parseService}
}

// List handles GET /api/v1/examples
func (h *ExampleHandler) List(c *gin.Context) {
	examples, err := h.exampleService.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, examples)
}

// Parse handles POST /api/v1/examples/:id/parse
func (h *ExampleHandler) Parse(c *gin.Context) {
	exampleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid example id")
		return
	}

	outcome, err := h.parseService.ParseExample(c.Request.Context(), exampleID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, outcome)
}
