package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mbertin/radio-tracker-api/internal/service"
	"github.com/mbertin/radio-tracker-api/pkg/response"
)

type exportService interface {
	ExportRecords(ctx context.Context, format string) (*service.ExportResult, error)
	ExportFlashcards(ctx context.Context, format string) (*service.ExportResult, error)
}

// ExportHandler serves document downloads of the reading list and the deck.
type ExportHandler struct {
	service exportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc exportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Records godoc
// @Summary Export the reading list
// @Tags Export
// @Produce text/csv,application/pdf
// @Param format query string false "csv or pdf (default csv)"
// @Success 200 {file} byte
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /export/records [get]
func (h *ExportHandler) Records(c *gin.Context) {
	res, err := h.service.ExportRecords(c.Request.Context(), format(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	serve(c, res)
}

// Flashcards godoc
// @Summary Export the flashcard deck
// @Tags Export
// @Produce text/csv,application/pdf
// @Param format query string false "csv or pdf (default csv)"
// @Success 200 {file} byte
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /export/flashcards [get]
func (h *ExportHandler) Flashcards(c *gin.Context) {
	res, err := h.service.ExportFlashcards(c.Request.Context(), format(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	serve(c, res)
}

func format(c *gin.Context) string {
	return c.DefaultQuery("format", service.ExportFormatCSV)
}

func serve(c *gin.Context, res *service.ExportResult) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	c.Data(http.StatusOK, res.ContentType, res.Content)
}
