package repository

import (
	"fmt"
	"strings"

	"github.com/mbertin/radio-tracker-api/internal/models"
)

// SheetCodec translates between in-memory records and the backing sheet's
// row representation. The sheet stores booleans as a two-valued sentinel:
// any non-empty cell decodes to true, and true always encodes to the
// configured sentinel. The encoding must never leak past this package.
type SheetCodec struct {
	sentinelTrue string
}

// NewSheetCodec builds a codec with the given true-sentinel ("Oui" in the
// production sheet).
func NewSheetCodec(sentinelTrue string) *SheetCodec {
	if sentinelTrue == "" {
		sentinelTrue = "Oui"
	}
	return &SheetCodec{sentinelTrue: sentinelTrue}
}

// EncodeFlag renders a boolean as the sheet's sentinel pair.
func (c *SheetCodec) EncodeFlag(value bool) string {
	if value {
		return c.sentinelTrue
	}
	return ""
}

// DecodeFlag interprets a sentinel cell. Whitespace-only counts as empty.
func (c *SheetCodec) DecodeFlag(cell string) bool {
	return strings.TrimSpace(cell) != ""
}

// EncodeField renders an edit value for the named field. Boolean fields go
// through the sentinel; everything else is written as its string form.
func (c *SheetCodec) EncodeField(field string, value interface{}) string {
	if models.BooleanFields[field] {
		switch v := value.(type) {
		case bool:
			return c.EncodeFlag(v)
		case string:
			return c.EncodeFlag(c.DecodeFlag(v))
		default:
			return c.EncodeFlag(false)
		}
	}
	return CellString(value)
}

// RecordFromRow maps one data row onto a Record using the header row for
// field positions. Missing trailing cells read as empty.
func (c *SheetCodec) RecordFromRow(headers []string, row []interface{}) models.Record {
	cell := func(field string) string {
		for i, h := range headers {
			if h == field {
				if i < len(row) {
					return CellString(row[i])
				}
				return ""
			}
		}
		return ""
	}

	return models.Record{
		ID:           strings.TrimSpace(cell(models.FieldID)),
		Title:        cell(models.FieldTitle),
		CategoryTags: cell(models.FieldCategoryTags),
		SectionTags:  cell(models.FieldSectionTags),
		SourceURL:    cell(models.FieldSourceURL),
		BodyText:     cell(models.FieldBodyText),
		Read:         c.DecodeFlag(cell(models.FieldRead)),
		CardMade:     c.DecodeFlag(cell(models.FieldCardMade)),
		Ignored:      c.DecodeFlag(cell(models.FieldIgnored)),
		Notes:        cell(models.FieldNotes),
		LastAccess:   cell(models.FieldLastAccess),
	}
}

// RowFromRecord renders a record in header order for appending.
func (c *SheetCodec) RowFromRecord(headers []string, rec models.Record) []interface{} {
	values := map[string]string{
		models.FieldID:           rec.ID,
		models.FieldTitle:        rec.Title,
		models.FieldCategoryTags: rec.CategoryTags,
		models.FieldSectionTags:  rec.SectionTags,
		models.FieldSourceURL:    rec.SourceURL,
		models.FieldBodyText:     rec.BodyText,
		models.FieldRead:         c.EncodeFlag(rec.Read),
		models.FieldCardMade:     c.EncodeFlag(rec.CardMade),
		models.FieldIgnored:      c.EncodeFlag(rec.Ignored),
		models.FieldNotes:        rec.Notes,
		models.FieldLastAccess:   rec.LastAccess,
	}

	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = values[h]
	}
	return row
}

// CellString normalises an API cell value to a string. Identifiers can come
// back as numbers depending on the sheet's cell formatting.
func CellString(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		// Avoid the "1.23457e+07" form for large numeric ids.
		if value == float64(int64(value)) {
			return fmt.Sprintf("%d", int64(value))
		}
		return fmt.Sprintf("%v", value)
	default:
		return fmt.Sprintf("%v", value)
	}
}

// ColumnLetter converts a zero-based column index to A1 notation.
func ColumnLetter(index int) string {
	letter := ""
	for index >= 0 {
		letter = string(rune('A'+index%26)) + letter
		index = index/26 - 1
	}
	return letter
}
