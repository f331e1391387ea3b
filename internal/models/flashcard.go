package models

import "strings"

// Card types recognised in the flashcards tab.
const (
	CardTypeBasic = "basic"
	CardTypeCloze = "cloze"
)

// ClozeMarker is the Anki-style cloze-deletion opener ("{{c1::...}}").
const ClozeMarker = "{{c"

// FlashcardHeaders is the column order of the flashcards tab.
var FlashcardHeaders = []string{
	"source_id",
	"source_title",
	"category_tags",
	"card_type",
	"question",
	"answer",
	"tags",
}

// Flashcard is a generated study card. The flashcards tab is append-only
// from this service's perspective.
type Flashcard struct {
	SourceID     string `json:"source_id"`
	SourceTitle  string `json:"source_title"`
	CategoryTags string `json:"category_tags"`
	CardType     string `json:"card_type"`
	Question     string `json:"question"`
	Answer       string `json:"answer"`
	Tags         string `json:"tags"`
}

// InferCardType classifies a question as cloze or basic.
func InferCardType(question string) string {
	if strings.Contains(question, ClozeMarker) {
		return CardTypeCloze
	}
	return CardTypeBasic
}

// Row renders the card in FlashcardHeaders order for appending.
func (f Flashcard) Row() []interface{} {
	return []interface{}{
		f.SourceID,
		f.SourceTitle,
		f.CategoryTags,
		f.CardType,
		f.Question,
		f.Answer,
		f.Tags,
	}
}
