package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mbertin/radio-tracker-api/internal/dto"
	appErrors "github.com/mbertin/radio-tracker-api/pkg/errors"
	"github.com/mbertin/radio-tracker-api/pkg/response"
)

type flashcardService interface {
	Generate(ctx context.Context, req dto.GenerateRequest) (*dto.DraftResponse, error)
	Draft(ctx context.Context) (*dto.DraftResponse, error)
	UpdateDraft(ctx context.Context, req dto.UpdateDraftRequest) (*dto.DraftResponse, error)
	Commit(ctx context.Context) (*dto.CommitResponse, []string, error)
}

// FlashcardHandler wires the draft lifecycle endpoints to the flashcard
// service.
type FlashcardHandler struct {
	service flashcardService
}

// NewFlashcardHandler creates a new handler.
func NewFlashcardHandler(svc flashcardService) *FlashcardHandler {
	return &FlashcardHandler{service: svc}
}

// Generate godoc
// @Summary Generate a flashcard draft
// @Description Generates cards from one record's body text, replacing any existing draft
// @Tags Flashcards
// @Accept json
// @Produce json
// @Param payload body dto.GenerateRequest true "Source record"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /flashcards/generate [post]
func (h *FlashcardHandler) Generate(c *gin.Context) {
	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}

	res, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res)
}

// Draft godoc
// @Summary Get the current draft batch
// @Tags Flashcards
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /flashcards/draft [get]
func (h *FlashcardHandler) Draft(c *gin.Context) {
	res, err := h.service.Draft(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res)
}

// UpdateDraft godoc
// @Summary Replace the draft batch
// @Description Replaces the cards of the current draft after manual editing
// @Tags Flashcards
// @Accept json
// @Produce json
// @Param payload body dto.UpdateDraftRequest true "Edited cards"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /flashcards/draft [put]
func (h *FlashcardHandler) UpdateDraft(c *gin.Context) {
	var req dto.UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid draft payload"))
		return
	}

	res, err := h.service.UpdateDraft(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res)
}

// Commit godoc
// @Summary Commit the draft batch
// @Description Appends the draft to the flashcards tab and flags the source record
// @Tags Flashcards
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /flashcards/commit [post]
func (h *FlashcardHandler) Commit(c *gin.Context) {
	res, warnings, err := h.service.Commit(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSONWithWarnings(c, http.StatusOK, res, warnings)
}
