package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbertin/radio-tracker-api/internal/models"
)

func TestSheetCodecFlagRoundTrip(t *testing.T) {
	codec := NewSheetCodec("Oui")

	assert.Equal(t, "Oui", codec.EncodeFlag(true))
	assert.Equal(t, "", codec.EncodeFlag(false))

	assert.True(t, codec.DecodeFlag("Oui"))
	assert.True(t, codec.DecodeFlag("yes"))
	assert.True(t, codec.DecodeFlag("x"))
	assert.False(t, codec.DecodeFlag(""))
	assert.False(t, codec.DecodeFlag("   "))
}

func TestSheetCodecDefaultSentinel(t *testing.T) {
	codec := NewSheetCodec("")
	assert.Equal(t, "Oui", codec.EncodeFlag(true))
}

func TestSheetCodecEncodeField(t *testing.T) {
	codec := NewSheetCodec("Oui")

	assert.Equal(t, "Oui", codec.EncodeField(models.FieldRead, true))
	assert.Equal(t, "", codec.EncodeField(models.FieldRead, false))
	// A sentinel string passed for a boolean field is normalised, not
	// written verbatim.
	assert.Equal(t, "Oui", codec.EncodeField(models.FieldIgnored, "anything"))
	assert.Equal(t, "", codec.EncodeField(models.FieldIgnored, ""))
	// Non-boolean fields keep their string form.
	assert.Equal(t, "new title", codec.EncodeField(models.FieldTitle, "new title"))
	assert.Equal(t, "42", codec.EncodeField(models.FieldNotes, float64(42)))
}

func TestSheetCodecRecordFromRow(t *testing.T) {
	codec := NewSheetCodec("Oui")
	headers := []string{"rid", "title", "read_status", "ignored", "notes"}

	rec := codec.RecordFromRow(headers, []interface{}{" 123 ", "Cardiology review", "Oui", "", "wip"})
	assert.Equal(t, "123", rec.ID)
	assert.Equal(t, "Cardiology review", rec.Title)
	assert.True(t, rec.Read)
	assert.False(t, rec.Ignored)
	assert.Equal(t, "wip", rec.Notes)
}

func TestSheetCodecRecordFromRowShortRow(t *testing.T) {
	codec := NewSheetCodec("Oui")
	headers := []string{"rid", "title", "read_status", "notes"}

	// Trailing cells the API omitted read as empty.
	rec := codec.RecordFromRow(headers, []interface{}{"r1", "Short row"})
	assert.Equal(t, "r1", rec.ID)
	assert.False(t, rec.Read)
	assert.Equal(t, "", rec.Notes)
}

func TestSheetCodecRecordFromRowNumericID(t *testing.T) {
	codec := NewSheetCodec("Oui")
	headers := []string{"rid", "title"}

	rec := codec.RecordFromRow(headers, []interface{}{float64(12345678), "Numeric id"})
	assert.Equal(t, "12345678", rec.ID)
}

func TestSheetCodecRowFromRecordFollowsHeaderOrder(t *testing.T) {
	codec := NewSheetCodec("Oui")
	headers := []string{"title", "rid", "ignored"}
	rec := models.Record{ID: "r1", Title: "Out of order", Ignored: true}

	row := codec.RowFromRecord(headers, rec)
	require.Len(t, row, 3)
	assert.Equal(t, "Out of order", row[0])
	assert.Equal(t, "r1", row[1])
	assert.Equal(t, "Oui", row[2])
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "", CellString(nil))
	assert.Equal(t, "plain", CellString("plain"))
	assert.Equal(t, "12345678", CellString(float64(12345678)))
	assert.Equal(t, "1.5", CellString(float64(1.5)))
	assert.Equal(t, "true", CellString(true))
}

func TestColumnLetter(t *testing.T) {
	assert.Equal(t, "A", ColumnLetter(0))
	assert.Equal(t, "B", ColumnLetter(1))
	assert.Equal(t, "Z", ColumnLetter(25))
	assert.Equal(t, "AA", ColumnLetter(26))
	assert.Equal(t, "AB", ColumnLetter(27))
	assert.Equal(t, "AZ", ColumnLetter(51))
	assert.Equal(t, "BA", ColumnLetter(52))
}

func TestMatchRowPositions(t *testing.T) {
	ids := []string{"a", " b ", "c", "b", ""}

	assert.Equal(t, []int{0}, matchRowPositions(ids, "a"))
	assert.Equal(t, []int{1, 3}, matchRowPositions(ids, "b"))
	assert.Nil(t, matchRowPositions(ids, "missing"))
	// Empty wanted id never matches, even against empty cells.
	assert.Nil(t, matchRowPositions(ids, ""))
}
