package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mbertin/radio-tracker-api/internal/dto"
	"github.com/mbertin/radio-tracker-api/internal/models"
	"github.com/mbertin/radio-tracker-api/internal/repository"
	appErrors "github.com/mbertin/radio-tracker-api/pkg/errors"
	"github.com/mbertin/radio-tracker-api/pkg/response"
)

type recordService interface {
	List(ctx context.Context, filter dto.ViewFilterRequest) (*dto.ListRecordsResponse, error)
	Create(ctx context.Context, req dto.CreateRecordRequest) (*models.Record, error)
	Reload(ctx context.Context) (*repository.Table, error)
	Tags(ctx context.Context, column string) (*dto.TagListResponse, error)
	Selection(ctx context.Context) (*dto.SelectionResponse, error)
}

type editService interface {
	ApplyEdits(ctx context.Context, req dto.EditBatchRequest, defaultCap int) (*dto.EditBatchResponse, []string, error)
}

// RecordHandler wires the reading-list endpoints to the record and edit
// services.
type RecordHandler struct {
	records    recordService
	edits      editService
	defaultCap int
}

// NewRecordHandler creates a new handler.
func NewRecordHandler(records recordService, edits editService, defaultCap int) *RecordHandler {
	return &RecordHandler{records: records, edits: edits, defaultCap: defaultCap}
}

// List godoc
// @Summary List visible records
// @Description Computes the visible subset of the reading list for the given filter
// @Tags Records
// @Produce json
// @Param status query string false "active, ignored or all (default active)"
// @Param category_tags query []string false "category tags, all must match"
// @Param section_tags query []string false "section tags, all must match"
// @Param q query string false "case-insensitive title substring"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /records [get]
func (h *RecordHandler) List(c *gin.Context) {
	var filter dto.ViewFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid filter parameters"))
		return
	}

	res, err := h.records.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, map[string]interface{}{
		"total":   res.Total,
		"visible": res.Visible,
		"capped":  res.Capped,
	})
}

// Create godoc
// @Summary Create a reading-list item
// @Tags Records
// @Accept json
// @Produce json
// @Param payload body dto.CreateRecordRequest true "New record"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /records [post]
func (h *RecordHandler) Create(c *gin.Context) {
	var req dto.CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid record payload"))
		return
	}

	rec, err := h.records.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, rec)
}

// Reload godoc
// @Summary Reload the table from the sheet
// @Description Discards the session snapshot and refetches the full table
// @Tags Records
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /records/reload [post]
func (h *RecordHandler) Reload(c *gin.Context) {
	table, err := h.records.Reload(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"records": len(table.Records)})
}

// Tags godoc
// @Summary List distinct tags for a column
// @Tags Records
// @Produce json
// @Param column query string true "tag column, e.g. category_tags"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /records/tags [get]
func (h *RecordHandler) Tags(c *gin.Context) {
	res, err := h.records.Tags(c.Request.Context(), c.Query("column"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res)
}

// EditBatch godoc
// @Summary Apply a sparse edit batch
// @Description Applies per-cell edits keyed by view index against the filter that produced the view
// @Tags Records
// @Accept json
// @Produce json
// @Param payload body dto.EditBatchRequest true "Edit batch"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /records [patch]
func (h *RecordHandler) EditBatch(c *gin.Context) {
	var req dto.EditBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid edit payload"))
		return
	}

	res, warnings, err := h.edits.ApplyEdits(c.Request.Context(), req, h.defaultCap)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSONWithWarnings(c, http.StatusOK, res, warnings)
}

// Selection godoc
// @Summary Get the record selected for the viewer
// @Tags Records
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /session/selection [get]
func (h *RecordHandler) Selection(c *gin.Context) {
	res, err := h.records.Selection(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res)
}
