package models

import "time"

// Field names match the header row of the records tab exactly. Field
// lookups against the backend are by exact name, so these are the single
// source of truth for column naming.
const (
	FieldID           = "rid"
	FieldTitle        = "title"
	FieldCategoryTags = "category_tags"
	FieldSectionTags  = "section_tags"
	FieldSourceURL    = "url"
	FieldBodyText     = "body_text"
	FieldRead         = "read_status"
	FieldCardMade     = "flashcards_made"
	FieldIgnored      = "ignored"
	FieldNotes        = "notes"
	FieldLastAccess   = "last_access"
)

// FieldSelected is a synthetic view-state field. It drives which record is
// shown in the document viewer and must never reach the backing store.
const FieldSelected = "selected"

// BooleanFields lists the columns stored as a sentinel string pair.
var BooleanFields = map[string]bool{
	FieldRead:     true,
	FieldCardMade: true,
	FieldIgnored:  true,
}

// EditableFields lists the columns an edit batch may target.
var EditableFields = map[string]bool{
	FieldTitle:        true,
	FieldCategoryTags: true,
	FieldSectionTags:  true,
	FieldSourceURL:    true,
	FieldRead:         true,
	FieldCardMade:     true,
	FieldIgnored:      true,
	FieldNotes:        true,
}

// Record is a single tracked study item. Boolean flags are strictly bool
// in memory; the sentinel encoding lives at the repository boundary only.
type Record struct {
	ID           string `json:"rid"`
	Title        string `json:"title"`
	CategoryTags string `json:"category_tags"`
	SectionTags  string `json:"section_tags"`
	SourceURL    string `json:"url"`
	BodyText     string `json:"-"`
	Read         bool   `json:"read_status"`
	CardMade     bool   `json:"flashcards_made"`
	Ignored      bool   `json:"ignored"`
	Notes        string `json:"notes"`
	LastAccess   string `json:"last_access"`
}

// TimestampFormat is the layout written to last_access on every edit.
const TimestampFormat = "2006-01-02 15:04:05"

// Timestamp renders ts in the backend's last_access layout.
func Timestamp(ts time.Time) string {
	return ts.UTC().Format(TimestampFormat)
}
