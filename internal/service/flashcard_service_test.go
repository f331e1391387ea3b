package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbertin/radio-tracker-api/internal/dto"
	"github.com/mbertin/radio-tracker-api/internal/models"
	"github.com/mbertin/radio-tracker-api/internal/repository"
	appErrors "github.com/mbertin/radio-tracker-api/pkg/errors"
)

type generatorStub struct {
	output string
	err    error
	prompt string
}

func (s *generatorStub) Generate(ctx context.Context, prompt string) (string, error) {
	s.prompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.output, nil
}

func (s *generatorStub) ModelName() string { return "stub-model" }

type appenderStub struct {
	cards []models.Flashcard
	err   error
}

func (s *appenderStub) AppendCards(ctx context.Context, cards []models.Flashcard) error {
	if s.err != nil {
		return s.err
	}
	s.cards = append(s.cards, cards...)
	return nil
}

type markerStub struct {
	id     string
	fields map[string]interface{}
	err    error
}

func (s *markerStub) ApplyRecordEdit(ctx context.Context, id string, fields map[string]interface{}) ([]string, error) {
	s.id = id
	s.fields = fields
	return nil, s.err
}

func flashcardFixture(generator *generatorStub) (*FlashcardService, *appenderStub, *markerStub, *Session) {
	table := &repository.Table{
		Records: []models.Record{
			{ID: "r1", Title: "ECG basics", CategoryTags: "cardio", BodyText: "The PR interval runs 120-200 ms."},
			{ID: "r2", Title: "No body"},
		},
	}
	appender := &appenderStub{}
	marker := &markerStub{}
	session := NewSession()
	session.SetTable(table)

	svc := NewFlashcardService(generator, appender, &tableLoaderStub{table: table}, marker, session, nil, nil, FlashcardServiceConfig{
		MaxCards: 5,
		Timeout:  time.Second,
	})
	return svc, appender, marker, session
}

func TestFlashcardGenerateInstallsDraft(t *testing.T) {
	generator := &generatorStub{output: "What is the PR interval?|120-200 ms|ecg\nQ2|A2|"}
	svc, _, _, session := flashcardFixture(generator)

	res, err := svc.Generate(context.Background(), dto.GenerateRequest{RecordID: "r1"})
	require.NoError(t, err)
	require.Len(t, res.Cards, 2)
	assert.NotEmpty(t, res.BatchID)
	assert.Equal(t, "r1", res.SourceID)
	assert.Equal(t, "ECG basics", res.SourceTitle)

	draft := session.Draft()
	require.NotNil(t, draft)
	assert.Equal(t, res.BatchID, draft.BatchID)

	// The prompt carries the record's body text.
	assert.Contains(t, generator.prompt, "The PR interval runs 120-200 ms.")
}

func TestFlashcardGenerateFailureClearsDraft(t *testing.T) {
	generator := &generatorStub{err: errors.New("model unavailable")}
	svc, _, _, session := flashcardFixture(generator)
	session.SetDraft(&Draft{BatchID: "stale"})

	_, err := svc.Generate(context.Background(), dto.GenerateRequest{RecordID: "r1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrGeneration.Code, appErrors.FromError(err).Code)
	assert.Nil(t, session.Draft())
}

func TestFlashcardGenerateUnparseableOutputClearsDraft(t *testing.T) {
	generator := &generatorStub{output: "no delimiters anywhere in this output"}
	svc, _, _, session := flashcardFixture(generator)
	session.SetDraft(&Draft{BatchID: "stale"})

	_, err := svc.Generate(context.Background(), dto.GenerateRequest{RecordID: "r1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrGeneration.Code, appErrors.FromError(err).Code)
	assert.Nil(t, session.Draft())
}

func TestFlashcardGenerateRequiresBodyText(t *testing.T) {
	svc, _, _, _ := flashcardFixture(&generatorStub{output: "q|a|"})

	_, err := svc.Generate(context.Background(), dto.GenerateRequest{RecordID: "r2"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestFlashcardGenerateUnknownRecord(t *testing.T) {
	svc, _, _, _ := flashcardFixture(&generatorStub{output: "q|a|"})

	_, err := svc.Generate(context.Background(), dto.GenerateRequest{RecordID: "missing"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestFlashcardDraftWithoutBatch(t *testing.T) {
	svc, _, _, _ := flashcardFixture(&generatorStub{})

	_, err := svc.Draft(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestFlashcardUpdateDraftPreservesSourceBinding(t *testing.T) {
	svc, _, _, session := flashcardFixture(&generatorStub{})
	session.SetDraft(&Draft{
		BatchID:     "batch-1",
		SourceID:    "r1",
		SourceTitle: "ECG basics",
		Cards:       []models.Flashcard{{Question: "old", Answer: "old"}},
	})

	res, err := svc.UpdateDraft(context.Background(), dto.UpdateDraftRequest{
		Cards: []dto.DraftCard{
			{Question: "The QT interval is {{c1::under 440 ms}}", Answer: "duration", Tags: "ecg"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "batch-1", res.BatchID)
	require.Len(t, res.Cards, 1)
	assert.Equal(t, "r1", res.Cards[0].SourceID)
	assert.Equal(t, "cardio", res.Cards[0].CategoryTags)
	assert.Equal(t, models.CardTypeCloze, res.Cards[0].CardType)
}

func TestFlashcardUpdateDraftRequiresExistingBatch(t *testing.T) {
	svc, _, _, _ := flashcardFixture(&generatorStub{})

	_, err := svc.UpdateDraft(context.Background(), dto.UpdateDraftRequest{
		Cards: []dto.DraftCard{{Question: "q", Answer: "a"}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestFlashcardCommitAppendsAndMarksSource(t *testing.T) {
	svc, appender, marker, session := flashcardFixture(&generatorStub{})
	session.SetDraft(&Draft{
		BatchID:  "batch-1",
		SourceID: "r1",
		Cards: []models.Flashcard{
			{SourceID: "r1", Question: "q1", Answer: "a1"},
			{SourceID: "r1", Question: "q2", Answer: "a2"},
		},
	})

	res, warnings, err := svc.Commit(context.Background())
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, 2, res.Appended)
	assert.Equal(t, "r1", res.SourceID)

	assert.Len(t, appender.cards, 2)
	assert.Equal(t, "r1", marker.id)
	assert.Equal(t, map[string]interface{}{models.FieldCardMade: true}, marker.fields)
	assert.Nil(t, session.Draft())
}

func TestFlashcardCommitEmptyDraft(t *testing.T) {
	svc, _, _, _ := flashcardFixture(&generatorStub{})

	_, _, err := svc.Commit(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrEmptyDraft.Code, appErrors.FromError(err).Code)
}

func TestFlashcardCommitMarkFailureBecomesWarning(t *testing.T) {
	svc, appender, marker, session := flashcardFixture(&generatorStub{})
	marker.err = appErrors.Clone(appErrors.ErrNotFound, "record not found in backend")
	session.SetDraft(&Draft{
		BatchID:  "batch-1",
		SourceID: "r1",
		Cards:    []models.Flashcard{{Question: "q", Answer: "a"}},
	})

	res, warnings, err := svc.Commit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Appended)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "source record not marked")
	assert.Len(t, appender.cards, 1)
	assert.Nil(t, session.Draft())
}

func TestFlashcardCommitAppendFailureKeepsDraft(t *testing.T) {
	svc, appender, _, session := flashcardFixture(&generatorStub{})
	appender.err = appErrors.Clone(appErrors.ErrConnection, "backing store unreachable")
	session.SetDraft(&Draft{
		BatchID:  "batch-1",
		SourceID: "r1",
		Cards:    []models.Flashcard{{Question: "q", Answer: "a"}},
	})

	_, _, err := svc.Commit(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConnection.Code, appErrors.FromError(err).Code)
	assert.NotNil(t, session.Draft())
}
