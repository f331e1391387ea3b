package dto

import "github.com/mbertin/radio-tracker-api/internal/models"

// Status buckets for the view filter.
const (
	StatusActive  = "active"
	StatusIgnored = "ignored"
	StatusAll     = "all"
)

// ViewFilterRequest mirrors the interactive filter controls. The same block
// is sent with an edit batch so the server can recompute the visible subset
// the edits were made against.
type ViewFilterRequest struct {
	Status       string   `form:"status" json:"status"`
	CategoryTags []string `form:"category_tags" json:"category_tags"`
	SectionTags  []string `form:"section_tags" json:"section_tags"`
	Query        string   `form:"q" json:"q"`
}

// Active reports whether any filter criterion is set; the default cap only
// applies when none is.
func (f ViewFilterRequest) Active() bool {
	return f.Status == StatusIgnored ||
		len(f.CategoryTags) > 0 ||
		len(f.SectionTags) > 0 ||
		f.Query != ""
}

// RecordView is a record as shown in the grid. Body text stays out of the
// payload; view index is only valid for the filter that produced it.
type RecordView struct {
	ViewIndex int `json:"view_index"`
	models.Record
}

// ListRecordsResponse carries the visible subset.
type ListRecordsResponse struct {
	Records []RecordView `json:"records"`
	Total   int          `json:"total"`
	Visible int          `json:"visible"`
	Capped  bool         `json:"capped"`
}

// CreateRecordRequest adds a new reading-list item.
type CreateRecordRequest struct {
	Title        string `json:"title" validate:"required"`
	CategoryTags string `json:"category_tags"`
	SectionTags  string `json:"section_tags"`
	SourceURL    string `json:"url" validate:"omitempty,url"`
	BodyText     string `json:"body_text"`
	Notes        string `json:"notes"`
}

// EditBatchRequest is a sparse edit map over the visible subset produced by
// the accompanying filter. Outer key: view index; inner key: field name.
type EditBatchRequest struct {
	Filter ViewFilterRequest              `json:"filter"`
	Edits  map[int]map[string]interface{} `json:"edits" validate:"required,min=1"`
}

// EditBatchResponse reports what was written. Skipped fields surface as
// warnings in the response envelope, not here.
type EditBatchResponse struct {
	UpdatedIDs    []string `json:"updated_ids"`
	WritesApplied int      `json:"writes_applied"`
}

// TagListResponse holds the deduplicated sorted tag set of one column.
type TagListResponse struct {
	Column string   `json:"column"`
	Tags   []string `json:"tags"`
}

// SelectionResponse describes the record currently chosen for the viewer.
type SelectionResponse struct {
	Record    *models.Record `json:"record,omitempty"`
	SourceURL string         `json:"url,omitempty"`
}
