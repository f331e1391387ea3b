package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mbertin/radio-tracker-api/internal/models"
	appErrors "github.com/mbertin/radio-tracker-api/pkg/errors"
)

// Table is the full records tab loaded into memory: the header row plus one
// Record per data row, in sheet order.
type Table struct {
	Headers []string        `json:"headers"`
	Records []models.Record `json:"records"`
}

// RecordRepository is the remote adapter for the records tab. All writes go
// through single-cell updates, matching the backing store contract.
type RecordRepository struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	sheetName     string
	codec         *SheetCodec
	timeout       time.Duration
	logger        *zap.Logger
}

// NewRecordRepository constructs the records adapter. A positive timeout
// bounds each remote call.
func NewRecordRepository(svc *sheetsapi.Service, spreadsheetID, sheetName string, codec *SheetCodec, timeout time.Duration, logger *zap.Logger) *RecordRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordRepository{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		codec:         codec,
		timeout:       timeout,
		logger:        logger,
	}
}

// opContext derives a per-call context when a request timeout is configured.
func opContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// Codec exposes the boundary codec so callers encode values exactly once,
// at write time.
func (r *RecordRepository) Codec() *SheetCodec {
	return r.codec
}

// LoadTable reads the whole records tab.
func (r *RecordRepository) LoadTable(ctx context.Context) (*Table, error) {
	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()

	resp, err := r.svc.Spreadsheets.Values.Get(r.spreadsheetID, r.sheetName).Context(ctx).Do()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrConnection.Code, appErrors.ErrConnection.Status, "failed to read records sheet")
	}

	table := &Table{}
	if len(resp.Values) == 0 {
		return table, nil
	}

	table.Headers = make([]string, len(resp.Values[0]))
	for i, cell := range resp.Values[0] {
		table.Headers[i] = strings.TrimSpace(CellString(cell))
	}

	table.Records = make([]models.Record, 0, len(resp.Values)-1)
	for _, row := range resp.Values[1:] {
		table.Records = append(table.Records, r.codec.RecordFromRow(table.Headers, row))
	}

	r.logger.Debug("records table loaded",
		zap.Int("rows", len(table.Records)),
		zap.Int("columns", len(table.Headers)))

	return table, nil
}

// Headers reads the current header row. Field-to-column mapping is by exact
// name match against this list.
func (r *RecordRepository) Headers(ctx context.Context) ([]string, error) {
	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()

	rng := fmt.Sprintf("%s!1:1", r.sheetName)
	resp, err := r.svc.Spreadsheets.Values.Get(r.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrConnection.Code, appErrors.ErrConnection.Status, "failed to read header row")
	}
	if len(resp.Values) == 0 {
		return nil, appErrors.Clone(appErrors.ErrSchema, "records sheet has no header row")
	}

	headers := make([]string, len(resp.Values[0]))
	for i, cell := range resp.Values[0] {
		headers[i] = strings.TrimSpace(CellString(cell))
	}
	return headers, nil
}

// FindRowByID locates the data row holding the given record id, re-reading
// the id column so a stale in-memory position can never misdirect a write.
// Zero matches is NotFound; more than one is a data-integrity violation.
func (r *RecordRepository) FindRowByID(ctx context.Context, id string) (int, error) {
	headers, err := r.Headers(ctx)
	if err != nil {
		return 0, err
	}

	idCol := -1
	for i, h := range headers {
		if h == models.FieldID {
			idCol = i
			break
		}
	}
	if idCol < 0 {
		return 0, appErrors.Clone(appErrors.ErrSchema, fmt.Sprintf("records sheet has no %q column", models.FieldID))
	}

	letter := ColumnLetter(idCol)
	rng := fmt.Sprintf("%s!%s2:%s", r.sheetName, letter, letter)
	opCtx, cancel := opContext(ctx, r.timeout)
	defer cancel()
	resp, err := r.svc.Spreadsheets.Values.Get(r.spreadsheetID, rng).Context(opCtx).Do()
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrConnection.Code, appErrors.ErrConnection.Status, "failed to read id column")
	}

	ids := make([]string, len(resp.Values))
	for i, row := range resp.Values {
		if len(row) > 0 {
			ids[i] = CellString(row[0])
		}
	}

	matches := matchRowPositions(ids, id)
	switch len(matches) {
	case 0:
		return 0, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("record %q not found in backend", id))
	case 1:
		return matches[0], nil
	default:
		return 0, appErrors.Clone(appErrors.ErrDuplicateID, fmt.Sprintf("record id %q matches %d rows", id, len(matches)))
	}
}

// UpdateCell writes one value into the given zero-based data row and column.
func (r *RecordRepository) UpdateCell(ctx context.Context, dataRow, column int, value string) error {
	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()

	rng := fmt.Sprintf("%s!%s%d", r.sheetName, ColumnLetter(column), dataRow+2)
	vr := &sheetsapi.ValueRange{Values: [][]interface{}{{value}}}
	_, err := r.svc.Spreadsheets.Values.Update(r.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrConnection.Code, appErrors.ErrConnection.Status, fmt.Sprintf("failed to write cell %s", rng))
	}
	return nil
}

// AppendRecord appends a new row rendered in the sheet's header order.
func (r *RecordRepository) AppendRecord(ctx context.Context, headers []string, rec models.Record) error {
	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()

	vr := &sheetsapi.ValueRange{Values: [][]interface{}{r.codec.RowFromRecord(headers, rec)}}
	_, err := r.svc.Spreadsheets.Values.Append(r.spreadsheetID, r.sheetName, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrConnection.Code, appErrors.ErrConnection.Status, "failed to append record")
	}
	return nil
}

// matchRowPositions returns zero-based positions of ids equal to id after
// string normalisation (the sheet may hand numeric ids back as numbers).
func matchRowPositions(ids []string, id string) []int {
	want := strings.TrimSpace(id)
	var matches []int
	for i, candidate := range ids {
		if strings.TrimSpace(candidate) == want && want != "" {
			matches = append(matches, i)
		}
	}
	return matches
}
