package service

import (
	"fmt"
	"strings"

	"github.com/mbertin/radio-tracker-api/internal/models"
)

// Lines shorter than this cannot hold a question and an answer.
const minCardLineLength = 5

const cardPromptTemplate = `You are a medical study assistant. From the article text below, write up to %d flashcards.
Output one card per line, pipe-delimited, no numbering and no extra commentary:
question|answer|tags
Use Anki cloze syntax ({{c1::...}}) in the question when a cloze deletion fits better than a direct question.
Tags are optional, comma-separated, lowercase.

Article: %s
Categories: %s

%s`

// BuildCardPrompt renders the generation prompt for one record's body text.
func BuildCardPrompt(rec models.Record, maxCards int) string {
	if maxCards <= 0 {
		maxCards = 20
	}
	return fmt.Sprintf(cardPromptTemplate, maxCards, rec.Title, rec.CategoryTags, rec.BodyText)
}

// ParseGeneratedCards turns raw model output into flashcard candidates.
// Pipe-delimited lines become cards; fences, blank lines, undelimited
// lines, too-short lines and header echoes are each skipped on their own,
// never failing the whole batch. Card type is inferred from the presence of
// a cloze-deletion marker in the question.
func ParseGeneratedCards(raw string, source models.Record, maxCards int) []models.Flashcard {
	var cards []models.Flashcard

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") {
			continue
		}
		if len(line) < minCardLineLength || !strings.Contains(line, "|") {
			continue
		}

		parts := strings.SplitN(line, "|", 3)
		question := strings.TrimSpace(parts[0])
		answer := ""
		if len(parts) > 1 {
			answer = strings.TrimSpace(parts[1])
		}
		tags := ""
		if len(parts) > 2 {
			tags = strings.TrimSpace(parts[2])
		}

		if question == "" || answer == "" {
			continue
		}
		if isHeaderEcho(question, answer) {
			continue
		}

		cards = append(cards, models.Flashcard{
			SourceID:     source.ID,
			SourceTitle:  source.Title,
			CategoryTags: source.CategoryTags,
			CardType:     models.InferCardType(question),
			Question:     question,
			Answer:       answer,
			Tags:         tags,
		})

		if maxCards > 0 && len(cards) >= maxCards {
			break
		}
	}

	return cards
}

// isHeaderEcho catches the model repeating the requested output format.
func isHeaderEcho(question, answer string) bool {
	if strings.EqualFold(question, "question") || strings.EqualFold(answer, "answer") {
		return true
	}
	return strings.HasPrefix(question, "---")
}
