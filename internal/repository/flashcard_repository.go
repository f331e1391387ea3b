package repository

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mbertin/radio-tracker-api/internal/models"
	appErrors "github.com/mbertin/radio-tracker-api/pkg/errors"
)

// FlashcardRepository appends generated cards to the flashcards tab. The
// tab is append-only from this service's perspective; bulk rewrites are a
// separate guarded operation that does not live here.
type FlashcardRepository struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	sheetName     string
	timeout       time.Duration
	logger        *zap.Logger
}

// NewFlashcardRepository constructs the flashcards adapter. A positive
// timeout bounds each remote call.
func NewFlashcardRepository(svc *sheetsapi.Service, spreadsheetID, sheetName string, timeout time.Duration, logger *zap.Logger) *FlashcardRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FlashcardRepository{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		timeout:       timeout,
		logger:        logger,
	}
}

// AppendCards appends the batch as rows in FlashcardHeaders order.
func (r *FlashcardRepository) AppendCards(ctx context.Context, cards []models.Flashcard) error {
	if len(cards) == 0 {
		return nil
	}

	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()

	rows := make([][]interface{}, 0, len(cards))
	for _, card := range cards {
		rows = append(rows, card.Row())
	}

	vr := &sheetsapi.ValueRange{Values: rows}
	_, err := r.svc.Spreadsheets.Values.Append(r.spreadsheetID, r.sheetName, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrConnection.Code, appErrors.ErrConnection.Status, "failed to append flashcards")
	}

	r.logger.Info("flashcards appended", zap.Int("count", len(cards)))
	return nil
}

// ListRows reads the whole flashcards tab and returns its header row plus
// the data rows as strings. An empty tab yields nil headers and rows.
func (r *FlashcardRepository) ListRows(ctx context.Context) ([]string, [][]string, error) {
	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()

	resp, err := r.svc.Spreadsheets.Values.Get(r.spreadsheetID, r.sheetName).Context(ctx).Do()
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrConnection.Code, appErrors.ErrConnection.Status, "failed to read flashcards sheet")
	}
	if len(resp.Values) == 0 {
		return nil, nil, nil
	}

	headers := make([]string, 0, len(resp.Values[0]))
	for _, raw := range resp.Values[0] {
		headers = append(headers, strings.TrimSpace(CellString(raw)))
	}

	rows := make([][]string, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		row := make([]string, len(headers))
		for i := range headers {
			if i < len(raw) {
				row[i] = CellString(raw[i])
			}
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}
