package dto

import (
	"time"

	"github.com/mbertin/radio-tracker-api/internal/models"
)

// GenerateRequest asks for a flashcard draft from one record's body text.
type GenerateRequest struct {
	RecordID string `json:"record_id" validate:"required"`
}

// DraftCard is a manually editable card in the draft batch.
type DraftCard struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
	Tags     string `json:"tags"`
}

// UpdateDraftRequest replaces the current draft batch.
type UpdateDraftRequest struct {
	Cards []DraftCard `json:"cards" validate:"required,min=1,dive"`
}

// DraftResponse carries the current draft batch.
type DraftResponse struct {
	BatchID     string             `json:"batch_id"`
	SourceID    string             `json:"source_id"`
	SourceTitle string             `json:"source_title"`
	Cards       []models.Flashcard `json:"cards"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// CommitResponse reports a committed draft.
type CommitResponse struct {
	Appended int    `json:"appended"`
	SourceID string `json:"source_id"`
}
