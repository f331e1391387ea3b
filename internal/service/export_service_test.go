package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbertin/radio-tracker-api/internal/models"
	"github.com/mbertin/radio-tracker-api/internal/repository"
	appErrors "github.com/mbertin/radio-tracker-api/pkg/errors"
)

type cardRowsStub struct {
	headers []string
	rows    [][]string
	err     error
}

func (s *cardRowsStub) ListRows(ctx context.Context) ([]string, [][]string, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.headers, s.rows, nil
}

func exportFixture() *ExportService {
	table := &repository.Table{
		Headers: []string{"rid", "title", "read_status"},
		Records: []models.Record{
			{ID: "r1", Title: "First", Read: true},
			{ID: "r2", Title: "Second"},
		},
	}
	cards := &cardRowsStub{
		headers: []string{"source_id", "question", "answer"},
		rows: [][]string{
			{"r1", "q1", "a1"},
		},
	}
	return NewExportService(&tableLoaderStub{table: table}, cards, repository.NewSheetCodec("Oui"), nil)
}

func TestExportRecordsCSV(t *testing.T) {
	svc := exportFixture()

	res, err := svc.ExportRecords(context.Background(), ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", res.ContentType)
	assert.True(t, strings.HasPrefix(res.Filename, "records-"))

	lines := strings.Split(strings.TrimSpace(string(res.Content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "rid,title,read_status", lines[0])
	// Boolean flags export in their sheet encoding.
	assert.Equal(t, "r1,First,Oui", lines[1])
	assert.Equal(t, "r2,Second,", lines[2])
}

func TestExportRecordsPDF(t *testing.T) {
	svc := exportFixture()

	res, err := svc.ExportRecords(context.Background(), ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", res.ContentType)
	assert.True(t, strings.HasPrefix(string(res.Content), "%PDF"))
}

func TestExportFlashcardsCSV(t *testing.T) {
	svc := exportFixture()

	res, err := svc.ExportFlashcards(context.Background(), ExportFormatCSV)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(res.Content)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "source_id,question,answer", lines[0])
	assert.Equal(t, "r1,q1,a1", lines[1])
}

func TestExportFlashcardsEmptySheet(t *testing.T) {
	svc := NewExportService(&tableLoaderStub{table: &repository.Table{}}, &cardRowsStub{}, nil, nil)

	_, err := svc.ExportFlashcards(context.Background(), ExportFormatCSV)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestExportUnsupportedFormat(t *testing.T) {
	svc := exportFixture()

	_, err := svc.ExportRecords(context.Background(), "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
