package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/mbertin/radio-tracker-api/internal/dto"
	"github.com/mbertin/radio-tracker-api/internal/models"
	"github.com/mbertin/radio-tracker-api/internal/repository"
	appErrors "github.com/mbertin/radio-tracker-api/pkg/errors"
)

type cellWriter interface {
	Headers(ctx context.Context) ([]string, error)
	FindRowByID(ctx context.Context, id string) (int, error)
	UpdateCell(ctx context.Context, dataRow, column int, value string) error
}

type tableLoader interface {
	EnsureLoaded(ctx context.Context) (*repository.Table, error)
}

type cacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// FieldWrite is one pending cell write, addressed by record id. Values stay
// in their in-memory representation until the moment of writing.
type FieldWrite struct {
	ID    string
	Field string
	Value interface{}
}

// RecordPlan is the reconciled write set for one edited record.
type RecordPlan struct {
	Position int
	ID       string
	Writes   []FieldWrite
	Touch    bool
	Select   bool
}

// EditService reconciles sparse view-level edit maps into absolute cell
// writes against the backing sheet, then patches the in-memory table to
// match each confirmed write.
type EditService struct {
	repo    cellWriter
	loader  tableLoader
	cache   cacheInvalidator
	session *Session
	codec   *repository.SheetCodec
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewEditService constructs an EditService.
func NewEditService(repo cellWriter, loader tableLoader, cache cacheInvalidator, session *Session, codec *repository.SheetCodec, metrics *MetricsService, logger *zap.Logger) *EditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EditService{
		repo:    repo,
		loader:  loader,
		cache:   cache,
		session: session,
		codec:   codec,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// BuildWritePlan maps a sparse {viewIndex: {field: value}} edit set over the
// visible subset back to record ids and per-field write instructions.
// The synthetic selection field never becomes a write; editing a field and
// selecting the same record are independent effects. Invalid view indices
// and non-editable fields are reported as warnings, not failures.
func BuildWritePlan(records []models.Record, positions []int, edits map[int]map[string]interface{}) ([]RecordPlan, []string) {
	var warnings []string

	viewIndices := make([]int, 0, len(edits))
	for viewIndex := range edits {
		viewIndices = append(viewIndices, viewIndex)
	}
	sort.Ints(viewIndices)

	plans := make([]RecordPlan, 0, len(viewIndices))
	for _, viewIndex := range viewIndices {
		if viewIndex < 0 || viewIndex >= len(positions) {
			warnings = append(warnings, fmt.Sprintf("view index %d is outside the visible subset; edit skipped", viewIndex))
			continue
		}

		position := positions[viewIndex]
		rec := records[position]
		plan := RecordPlan{Position: position, ID: rec.ID}

		fields := make([]string, 0, len(edits[viewIndex]))
		for field := range edits[viewIndex] {
			fields = append(fields, field)
		}
		sort.Strings(fields)

		for _, field := range fields {
			value := edits[viewIndex][field]

			if field == models.FieldSelected {
				if selected, ok := value.(bool); ok && selected {
					plan.Select = true
				}
				continue
			}

			if !models.EditableFields[field] {
				warnings = append(warnings, fmt.Sprintf("field %q is not editable; write skipped for record %s", field, rec.ID))
				continue
			}

			plan.Writes = append(plan.Writes, FieldWrite{ID: rec.ID, Field: field, Value: value})
		}

		plan.Touch = len(plan.Writes) > 0
		if len(plan.Writes) > 0 || plan.Select {
			plans = append(plans, plan)
		}
	}

	return plans, warnings
}

// ApplyEdits reconciles and applies an edit batch. The filter block is the
// one that produced the view the edits were made against; the visible
// subset is recomputed from it so view indices resolve deterministically.
func (s *EditService) ApplyEdits(ctx context.Context, req dto.EditBatchRequest, defaultCap int) (*dto.EditBatchResponse, []string, error) {
	if len(req.Edits) == 0 {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "edit map is empty")
	}
	if err := validFilterStatus(req.Filter.Status); err != nil {
		return nil, nil, err
	}

	table, err := s.loader.EnsureLoaded(ctx)
	if err != nil {
		return nil, nil, err
	}

	positions, _ := ApplyViewFilter(table.Records, req.Filter, defaultCap)
	plans, warnings := BuildWritePlan(table.Records, positions, req.Edits)
	if len(plans) == 0 {
		return nil, warnings, appErrors.Clone(appErrors.ErrValidation, "no applicable edits in batch")
	}

	headers, err := s.repo.Headers(ctx)
	if err != nil {
		return nil, warnings, err
	}

	resp := &dto.EditBatchResponse{}
	touched := false

	for _, plan := range plans {
		if plan.Select {
			s.session.SetSelectedID(plan.ID)
		}
		if len(plan.Writes) == 0 {
			continue
		}

		applied, warns, planErr := s.applyRecordPlan(ctx, table, headers, plan)
		warnings = append(warnings, warns...)
		if applied > 0 {
			resp.WritesApplied += applied
			resp.UpdatedIDs = append(resp.UpdatedIDs, plan.ID)
			touched = true
		}
		if planErr != nil {
			// Writes confirmed before the failure are already on the sheet;
			// the snapshot must not outlive them.
			if touched && s.cache != nil {
				if err := s.cache.Invalidate(ctx); err != nil {
					s.logger.Warn("table snapshot invalidation failed", zap.Error(err))
				}
			}
			return nil, warnings, planErr
		}
	}

	if touched && s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("table snapshot invalidation failed", zap.Error(err))
		}
	}

	return resp, warnings, nil
}

// ApplyRecordEdit applies a field map to a single record addressed by id,
// outside any view context. Used to mark a source record after a draft
// commit.
func (s *EditService) ApplyRecordEdit(ctx context.Context, id string, fields map[string]interface{}) ([]string, error) {
	table, err := s.loader.EnsureLoaded(ctx)
	if err != nil {
		return nil, err
	}

	position, err := LocateByID(table.Records, id)
	if err != nil {
		return nil, err
	}

	var writes []FieldWrite
	fieldNames := make([]string, 0, len(fields))
	for field := range fields {
		fieldNames = append(fieldNames, field)
	}
	sort.Strings(fieldNames)

	var warnings []string
	for _, field := range fieldNames {
		if !models.EditableFields[field] {
			warnings = append(warnings, fmt.Sprintf("field %q is not editable; write skipped for record %s", field, id))
			continue
		}
		writes = append(writes, FieldWrite{ID: id, Field: field, Value: fields[field]})
	}
	if len(writes) == 0 {
		return warnings, appErrors.Clone(appErrors.ErrValidation, "no applicable fields")
	}

	plan := RecordPlan{Position: position, ID: id, Writes: writes, Touch: true}
	applied, warns, err := s.applyRecordPlan(ctx, table, nil, plan)
	warnings = append(warnings, warns...)
	if err != nil {
		return warnings, err
	}

	if applied > 0 && s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("table snapshot invalidation failed", zap.Error(err))
		}
	}

	return warnings, nil
}

// applyRecordPlan executes one record's writes: locate the backend row by
// id, write each targeted cell, then the last_access touch, patching local
// state only after each remote write is confirmed. A missing header skips
// that field with a warning; a missing record skips the whole record; a
// connection failure aborts the batch.
func (s *EditService) applyRecordPlan(ctx context.Context, table *repository.Table, headers []string, plan RecordPlan) (int, []string, error) {
	var warnings []string

	if headers == nil {
		var err error
		headers, err = s.repo.Headers(ctx)
		if err != nil {
			return 0, warnings, err
		}
	}

	dataRow, err := s.repo.FindRowByID(ctx, plan.ID)
	if err != nil {
		appErr := appErrors.FromError(err)
		switch appErr.Code {
		case appErrors.ErrNotFound.Code, appErrors.ErrDuplicateID.Code:
			warnings = append(warnings, fmt.Sprintf("record %s: %s", plan.ID, appErr.Message))
			return 0, warnings, nil
		default:
			return 0, warnings, err
		}
	}

	rec := table.Records[plan.Position]
	applied := 0

	for _, write := range plan.Writes {
		column := headerIndex(headers, write.Field)
		if column < 0 {
			warnings = append(warnings, fmt.Sprintf("field %q missing from backend headers; write skipped for record %s", write.Field, plan.ID))
			continue
		}

		encoded := s.codec.EncodeField(write.Field, write.Value)
		start := s.now()
		if err := s.repo.UpdateCell(ctx, dataRow, column, encoded); err != nil {
			return applied, warnings, err
		}
		if s.metrics != nil {
			s.metrics.ObserveSheetsOp("update_cell", time.Since(start))
		}

		applyFieldLocally(&rec, write.Field, write.Value, s.codec)
		applied++
		s.session.ReplaceRecord(plan.Position, rec)
	}

	if applied > 0 && plan.Touch {
		ts := models.Timestamp(s.now())
		column := headerIndex(headers, models.FieldLastAccess)
		if column < 0 {
			warnings = append(warnings, fmt.Sprintf("field %q missing from backend headers; timestamp skipped for record %s", models.FieldLastAccess, plan.ID))
		} else {
			if err := s.repo.UpdateCell(ctx, dataRow, column, ts); err != nil {
				return applied, warnings, err
			}
			rec.LastAccess = ts
			s.session.ReplaceRecord(plan.Position, rec)
		}
	}

	return applied, warnings, nil
}

// applyFieldLocally mirrors a confirmed write into the in-memory record.
func applyFieldLocally(rec *models.Record, field string, value interface{}, codec *repository.SheetCodec) {
	asBool := func() bool {
		switch v := value.(type) {
		case bool:
			return v
		case string:
			return codec.DecodeFlag(v)
		default:
			return false
		}
	}

	switch field {
	case models.FieldTitle:
		rec.Title = repository.CellString(value)
	case models.FieldCategoryTags:
		rec.CategoryTags = repository.CellString(value)
	case models.FieldSectionTags:
		rec.SectionTags = repository.CellString(value)
	case models.FieldSourceURL:
		rec.SourceURL = repository.CellString(value)
	case models.FieldNotes:
		rec.Notes = repository.CellString(value)
	case models.FieldRead:
		rec.Read = asBool()
	case models.FieldCardMade:
		rec.CardMade = asBool()
	case models.FieldIgnored:
		rec.Ignored = asBool()
	}
}

func headerIndex(headers []string, field string) int {
	for i, h := range headers {
		if h == field {
			return i
		}
	}
	return -1
}
