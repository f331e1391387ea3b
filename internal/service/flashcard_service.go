package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mbertin/radio-tracker-api/internal/dto"
	"github.com/mbertin/radio-tracker-api/internal/models"
	appErrors "github.com/mbertin/radio-tracker-api/pkg/errors"
)

type textGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	ModelName() string
}

type flashcardAppender interface {
	AppendCards(ctx context.Context, cards []models.Flashcard) error
}

type sourceMarker interface {
	ApplyRecordEdit(ctx context.Context, id string, fields map[string]interface{}) ([]string, error)
}

// FlashcardServiceConfig tunes generation behaviour.
type FlashcardServiceConfig struct {
	MaxCards int
	Timeout  time.Duration
}

// FlashcardService owns the draft batch lifecycle: generate from a record's
// body text, edit manually, commit to the flashcards tab. Committed cards
// are append-only; a commit also marks the source record.
type FlashcardService struct {
	generator textGenerator
	appender  flashcardAppender
	loader    tableLoader
	marker    sourceMarker
	session   *Session
	validator *validator.Validate
	logger    *zap.Logger
	cfg       FlashcardServiceConfig
}

// NewFlashcardService constructs a FlashcardService.
func NewFlashcardService(generator textGenerator, appender flashcardAppender, loader tableLoader, marker sourceMarker, session *Session, validate *validator.Validate, logger *zap.Logger, cfg FlashcardServiceConfig) *FlashcardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.MaxCards <= 0 {
		cfg.MaxCards = 20
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &FlashcardService{
		generator: generator,
		appender:  appender,
		loader:    loader,
		marker:    marker,
		session:   session,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// Generate calls the model on one record's body text and installs the
// parsed batch as the current draft. On failure the draft is left empty;
// nothing is ever partially applied.
func (s *FlashcardService) Generate(ctx context.Context, req dto.GenerateRequest) (*dto.DraftResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation payload")
	}
	if s.generator == nil {
		return nil, appErrors.Clone(appErrors.ErrGeneration, "generation is not configured")
	}

	table, err := s.loader.EnsureLoaded(ctx)
	if err != nil {
		return nil, err
	}

	position, err := LocateByID(table.Records, req.RecordID)
	if err != nil {
		return nil, err
	}

	rec := table.Records[position]
	if rec.BodyText == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "record has no body text to generate from")
	}

	genCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	raw, err := s.generator.Generate(genCtx, BuildCardPrompt(rec, s.cfg.MaxCards))
	if err != nil {
		s.session.ClearDraft()
		return nil, appErrors.Wrap(err, appErrors.ErrGeneration.Code, appErrors.ErrGeneration.Status, "model call failed")
	}

	cards := ParseGeneratedCards(raw, rec, s.cfg.MaxCards)
	if len(cards) == 0 {
		s.session.ClearDraft()
		return nil, appErrors.Clone(appErrors.ErrGeneration, "model output contained no parseable cards")
	}

	draft := &Draft{
		BatchID:     uuid.NewString(),
		SourceID:    rec.ID,
		SourceTitle: rec.Title,
		Cards:       cards,
		GeneratedAt: time.Now().UTC(),
	}
	s.session.SetDraft(draft)

	s.logger.Info("flashcard draft generated",
		zap.String("rid", rec.ID),
		zap.String("model", s.generator.ModelName()),
		zap.Int("cards", len(cards)))

	return draftResponse(draft), nil
}

// Draft returns the current draft batch.
func (s *FlashcardService) Draft(ctx context.Context) (*dto.DraftResponse, error) {
	draft := s.session.Draft()
	if draft == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no draft batch")
	}
	return draftResponse(draft), nil
}

// UpdateDraft replaces the draft's cards with a manually edited set. The
// source binding of the existing draft is preserved.
func (s *FlashcardService) UpdateDraft(ctx context.Context, req dto.UpdateDraftRequest) (*dto.DraftResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid draft payload")
	}

	draft := s.session.Draft()
	if draft == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no draft batch to edit")
	}

	table, err := s.loader.EnsureLoaded(ctx)
	if err != nil {
		return nil, err
	}

	categoryTags := ""
	if position, err := LocateByID(table.Records, draft.SourceID); err == nil {
		categoryTags = table.Records[position].CategoryTags
	}

	cards := make([]models.Flashcard, 0, len(req.Cards))
	for _, card := range req.Cards {
		cards = append(cards, models.Flashcard{
			SourceID:     draft.SourceID,
			SourceTitle:  draft.SourceTitle,
			CategoryTags: categoryTags,
			CardType:     models.InferCardType(card.Question),
			Question:     card.Question,
			Answer:       card.Answer,
			Tags:         card.Tags,
		})
	}

	updated := &Draft{
		BatchID:     draft.BatchID,
		SourceID:    draft.SourceID,
		SourceTitle: draft.SourceTitle,
		Cards:       cards,
		GeneratedAt: draft.GeneratedAt,
	}
	s.session.SetDraft(updated)

	return draftResponse(updated), nil
}

// Commit appends the draft batch to the flashcards tab, marks the source
// record as carded, and clears the draft. Schema warnings from the marking
// write are surfaced, not fatal.
func (s *FlashcardService) Commit(ctx context.Context) (*dto.CommitResponse, []string, error) {
	draft := s.session.Draft()
	if draft == nil || len(draft.Cards) == 0 {
		return nil, nil, appErrors.Clone(appErrors.ErrEmptyDraft, "draft batch is empty")
	}

	if err := s.appender.AppendCards(ctx, draft.Cards); err != nil {
		return nil, nil, err
	}

	warnings, err := s.marker.ApplyRecordEdit(ctx, draft.SourceID, map[string]interface{}{
		models.FieldCardMade: true,
	})
	if err != nil {
		// Cards are already appended; surface the marking failure as a
		// warning so the commit is not reported as failed.
		appErr := appErrors.FromError(err)
		warnings = append(warnings, "source record not marked: "+appErr.Message)
		s.logger.Warn("failed to mark source record after commit",
			zap.String("rid", draft.SourceID), zap.Error(err))
	}

	appended := len(draft.Cards)
	s.session.ClearDraft()

	s.logger.Info("flashcard draft committed",
		zap.String("rid", draft.SourceID),
		zap.Int("cards", appended))

	return &dto.CommitResponse{Appended: appended, SourceID: draft.SourceID}, warnings, nil
}

func draftResponse(draft *Draft) *dto.DraftResponse {
	return &dto.DraftResponse{
		BatchID:     draft.BatchID,
		SourceID:    draft.SourceID,
		SourceTitle: draft.SourceTitle,
		Cards:       draft.Cards,
		GeneratedAt: draft.GeneratedAt,
	}
}
