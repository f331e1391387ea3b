package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbertin/radio-tracker-api/internal/dto"
	"github.com/mbertin/radio-tracker-api/internal/models"
	appErrors "github.com/mbertin/radio-tracker-api/pkg/errors"
)

func sampleRecords() []models.Record {
	return []models.Record{
		{ID: "r1", Title: "Acute coronary syndrome", CategoryTags: "cardio, urgence", SectionTags: "s1"},
		{ID: "r2", Title: "Pneumonia management", CategoryTags: "pneumo", SectionTags: "s1, s2"},
		{ID: "r3", Title: "Old cardio notes", CategoryTags: "cardio", Ignored: true},
		{ID: "r4", Title: "Sepsis bundle", CategoryTags: "infectio, urgence"},
		{ID: "r5", Title: "Archived draft", Ignored: true},
	}
}

func TestExtractTagsDeduplicatesAndSorts(t *testing.T) {
	tags := ExtractTags(sampleRecords(), models.FieldCategoryTags)
	assert.Equal(t, []string{"cardio", "infectio", "pneumo", "urgence"}, tags)
}

func TestExtractTagsOrderIndependent(t *testing.T) {
	records := sampleRecords()
	reversed := make([]models.Record, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		reversed = append(reversed, records[i])
	}

	assert.Equal(t,
		ExtractTags(records, models.FieldCategoryTags),
		ExtractTags(reversed, models.FieldCategoryTags))
}

func TestExtractTagsTrimsTokens(t *testing.T) {
	records := []models.Record{{CategoryTags: "  a ,b,, a  "}}
	assert.Equal(t, []string{"a", "b"}, ExtractTags(records, models.FieldCategoryTags))
}

func TestExtractTagsUnknownColumn(t *testing.T) {
	assert.Empty(t, ExtractTags(sampleRecords(), "no_such_column"))
}

func TestApplyViewFilterDefaultExcludesIgnored(t *testing.T) {
	positions, capped := ApplyViewFilter(sampleRecords(), dto.ViewFilterRequest{}, 100)
	assert.Equal(t, []int{0, 1, 3}, positions)
	assert.False(t, capped)
}

func TestApplyViewFilterIgnoredStatus(t *testing.T) {
	positions, _ := ApplyViewFilter(sampleRecords(), dto.ViewFilterRequest{Status: dto.StatusIgnored}, 100)
	assert.Equal(t, []int{2, 4}, positions)
}

func TestApplyViewFilterAllStatus(t *testing.T) {
	positions, _ := ApplyViewFilter(sampleRecords(), dto.ViewFilterRequest{Status: dto.StatusAll}, 100)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, positions)
}

func TestApplyViewFilterTagsCombineWithAnd(t *testing.T) {
	positions, _ := ApplyViewFilter(sampleRecords(), dto.ViewFilterRequest{
		CategoryTags: []string{"cardio", "urgence"},
	}, 100)
	assert.Equal(t, []int{0}, positions)
}

func TestApplyViewFilterTagsCaseInsensitive(t *testing.T) {
	positions, _ := ApplyViewFilter(sampleRecords(), dto.ViewFilterRequest{
		CategoryTags: []string{"CARDIO"},
	}, 100)
	assert.Equal(t, []int{0}, positions)
}

func TestApplyViewFilterQueryMatchesTitleSubstring(t *testing.T) {
	positions, _ := ApplyViewFilter(sampleRecords(), dto.ViewFilterRequest{Query: "PNEUMO"}, 100)
	assert.Equal(t, []int{1}, positions)
}

func TestApplyViewFilterCapAppliesWithoutCriteria(t *testing.T) {
	records := make([]models.Record, 10)
	for i := range records {
		records[i] = models.Record{ID: "r", Title: "t"}
	}

	positions, capped := ApplyViewFilter(records, dto.ViewFilterRequest{}, 3)
	assert.Len(t, positions, 3)
	assert.True(t, capped)
}

func TestApplyViewFilterCapSkippedWithActiveFilter(t *testing.T) {
	records := make([]models.Record, 10)
	for i := range records {
		records[i] = models.Record{ID: "r", Title: "match"}
	}

	positions, capped := ApplyViewFilter(records, dto.ViewFilterRequest{Query: "match"}, 3)
	assert.Len(t, positions, 10)
	assert.False(t, capped)
}

func TestLocateByIDFindsUniqueMatch(t *testing.T) {
	pos, err := LocateByID(sampleRecords(), "r2")
	require.NoError(t, err)
	assert.Equal(t, 1, pos)
}

func TestLocateByIDNormalisesWhitespace(t *testing.T) {
	records := []models.Record{{ID: " r1 "}}
	pos, err := LocateByID(records, "r1")
	require.NoError(t, err)
	assert.Equal(t, 0, pos)
}

func TestLocateByIDNotFound(t *testing.T) {
	_, err := LocateByID(sampleRecords(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestLocateByIDDuplicate(t *testing.T) {
	records := []models.Record{{ID: "dup"}, {ID: "other"}, {ID: "dup"}}
	_, err := LocateByID(records, "dup")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateID.Code, appErrors.FromError(err).Code)
}

func TestLocateByIDEmptyID(t *testing.T) {
	_, err := LocateByID(sampleRecords(), "  ")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
