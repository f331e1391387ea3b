package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mbertin/radio-tracker-api/internal/dto"
	"github.com/mbertin/radio-tracker-api/internal/models"
	appErrors "github.com/mbertin/radio-tracker-api/pkg/errors"
)

// columnValue returns the raw text of a taggable or filterable column.
// Unknown columns report ok=false rather than erroring.
func columnValue(rec models.Record, column string) (string, bool) {
	switch column {
	case models.FieldTitle:
		return rec.Title, true
	case models.FieldCategoryTags:
		return rec.CategoryTags, true
	case models.FieldSectionTags:
		return rec.SectionTags, true
	case models.FieldNotes:
		return rec.Notes, true
	default:
		return "", false
	}
}

// ExtractTags splits the comma-separated text of one column across all
// records into a deduplicated, lexicographically sorted token set. Pure and
// order-independent; an absent column yields an empty set.
func ExtractTags(records []models.Record, column string) []string {
	seen := make(map[string]struct{})
	for _, rec := range records {
		raw, ok := columnValue(rec, column)
		if !ok || raw == "" {
			continue
		}
		for _, token := range strings.Split(raw, ",") {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}
			seen[token] = struct{}{}
		}
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// containsAllTags reports whether raw contains every selected tag as a
// case-insensitive substring. Multiple selections combine with AND.
func containsAllTags(raw string, tags []string) bool {
	lowered := strings.ToLower(raw)
	for _, tag := range tags {
		if !strings.Contains(lowered, strings.ToLower(tag)) {
			return false
		}
	}
	return true
}

// ApplyViewFilter computes the visible subset as absolute positions into
// records, preserving table order. When no filter criterion is active the
// result is truncated to defaultCap to bound render cost; truncation never
// happens with an active filter.
func ApplyViewFilter(records []models.Record, filter dto.ViewFilterRequest, defaultCap int) (positions []int, capped bool) {
	status := filter.Status
	if status == "" {
		status = dto.StatusActive
	}

	for i, rec := range records {
		switch status {
		case dto.StatusActive:
			if rec.Ignored {
				continue
			}
		case dto.StatusIgnored:
			if !rec.Ignored {
				continue
			}
		}

		if len(filter.CategoryTags) > 0 && !containsAllTags(rec.CategoryTags, filter.CategoryTags) {
			continue
		}
		if len(filter.SectionTags) > 0 && !containsAllTags(rec.SectionTags, filter.SectionTags) {
			continue
		}

		if filter.Query != "" {
			if rec.Title == "" || !strings.Contains(strings.ToLower(rec.Title), strings.ToLower(filter.Query)) {
				continue
			}
		}

		positions = append(positions, i)
	}

	if !filter.Active() && defaultCap > 0 && len(positions) > defaultCap {
		positions = positions[:defaultCap]
		capped = true
	}

	return positions, capped
}

// LocateByID returns the zero-based position of the unique record matching
// id after string normalisation. Zero matches is NotFound; more than one is
// a data-integrity violation, never resolved silently.
func LocateByID(records []models.Record, id string) (int, error) {
	want := strings.TrimSpace(id)
	if want == "" {
		return 0, appErrors.Clone(appErrors.ErrValidation, "record id is required")
	}

	found := -1
	for i, rec := range records {
		if strings.TrimSpace(rec.ID) != want {
			continue
		}
		if found >= 0 {
			return 0, appErrors.Clone(appErrors.ErrDuplicateID, fmt.Sprintf("record id %q matches more than one row", want))
		}
		found = i
	}

	if found < 0 {
		return 0, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("record %q not found", want))
	}
	return found, nil
}
