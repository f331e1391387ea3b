package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mbertin/radio-tracker-api/internal/repository"
	appErrors "github.com/mbertin/radio-tracker-api/pkg/errors"
	"github.com/mbertin/radio-tracker-api/pkg/export"
)

// Supported export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type exportTableLoader interface {
	EnsureLoaded(ctx context.Context) (*repository.Table, error)
}

type flashcardRowLister interface {
	ListRows(ctx context.Context) ([]string, [][]string, error)
}

// ExportResult is a rendered document ready to be served as a download.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders the reading list and the flashcard deck as CSV or
// PDF documents.
type ExportService struct {
	records exportTableLoader
	cards   flashcardRowLister
	codec   *repository.SheetCodec
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(records exportTableLoader, cards flashcardRowLister, codec *repository.SheetCodec, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if codec == nil {
		codec = repository.NewSheetCodec("")
	}
	return &ExportService{
		records: records,
		cards:   cards,
		codec:   codec,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
	}
}

// ExportRecords renders the full reading list in the requested format.
func (s *ExportService) ExportRecords(ctx context.Context, format string) (*ExportResult, error) {
	table, err := s.records.EnsureLoaded(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]string, 0, len(table.Records))
	for _, rec := range table.Records {
		raw := s.codec.RowFromRecord(table.Headers, rec)
		row := make(map[string]string, len(table.Headers))
		for i, header := range table.Headers {
			if i < len(raw) {
				row[header] = repository.CellString(raw[i])
			}
		}
		rows = append(rows, row)
	}

	return s.render(format, "records", "Reading List", export.NewDataset(table.Headers, rows))
}

// ExportFlashcards renders the committed flashcard deck in the requested format.
func (s *ExportService) ExportFlashcards(ctx context.Context, format string) (*ExportResult, error) {
	headers, cardRows, err := s.cards.ListRows(ctx)
	if err != nil {
		return nil, err
	}
	if len(headers) == 0 {
		return nil, appErrors.New(appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "flashcards sheet is empty")
	}

	rows := make([]map[string]string, 0, len(cardRows))
	for _, cardRow := range cardRows {
		row := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(cardRow) {
				row[header] = cardRow[i]
			}
		}
		rows = append(rows, row)
	}

	return s.render(format, "flashcards", "Flashcard Deck", export.NewDataset(headers, rows))
}

func (s *ExportService) render(format, name, title string, data export.Dataset) (*ExportResult, error) {
	stamp := time.Now().UTC().Format("20060102-150405")
	switch format {
	case ExportFormatCSV:
		content, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("%s-%s.csv", name, stamp),
		}, nil
	case ExportFormatPDF:
		content, err := s.pdf.Render(data, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("%s-%s.pdf", name, stamp),
		}, nil
	default:
		return nil, appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("unsupported export format %q", format))
	}
}
