package service

import (
	"sync"
	"time"

	"github.com/mbertin/radio-tracker-api/internal/models"
	"github.com/mbertin/radio-tracker-api/internal/repository"
)

// Draft is the current flashcard draft batch. It lives only in session
// state until committed.
type Draft struct {
	BatchID     string
	SourceID    string
	SourceTitle string
	Cards       []models.Flashcard
	GeneratedAt time.Time
}

// Session is the explicit application state for the single interactive
// operator: the loaded table, the current viewer selection, and the draft
// batch. It replaces the original tool's global mutable session variables;
// only the services mutate it.
type Session struct {
	mu         sync.RWMutex
	table      *repository.Table
	selectedID string
	draft      *Draft
}

// NewSession creates empty session state.
func NewSession() *Session {
	return &Session{}
}

// Table returns the loaded table, or nil when no load happened yet.
func (s *Session) Table() *repository.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

// SetTable installs a freshly loaded table.
func (s *Session) SetTable(table *repository.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = table
}

// ReplaceRecord patches the in-memory table at the given position after a
// confirmed remote write, keeping the UI consistent without a full reload.
func (s *Session) ReplaceRecord(position int, rec models.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.table == nil || position < 0 || position >= len(s.table.Records) {
		return
	}
	s.table.Records[position] = rec
}

// AppendRecord adds a newly created record to the in-memory table.
func (s *Session) AppendRecord(rec models.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.table == nil {
		return
	}
	s.table.Records = append(s.table.Records, rec)
}

// SelectedID returns the id of the record chosen for the viewer.
func (s *Session) SelectedID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedID
}

// SetSelectedID records the viewer selection.
func (s *Session) SetSelectedID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = id
}

// Draft returns the current draft batch, or nil.
func (s *Session) Draft() *Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft
}

// SetDraft installs a draft batch.
func (s *Session) SetDraft(draft *Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = draft
}

// ClearDraft drops the draft batch.
func (s *Session) ClearDraft() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = nil
}
