package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbertin/radio-tracker-api/internal/dto"
	"github.com/mbertin/radio-tracker-api/internal/models"
	"github.com/mbertin/radio-tracker-api/internal/repository"
	appErrors "github.com/mbertin/radio-tracker-api/pkg/errors"
)

type recordServiceMock struct {
	listResp      *dto.ListRecordsResponse
	listErr       error
	listFilter    dto.ViewFilterRequest
	createResp    *models.Record
	selectionResp *dto.SelectionResponse
}

func (m *recordServiceMock) List(ctx context.Context, filter dto.ViewFilterRequest) (*dto.ListRecordsResponse, error) {
	m.listFilter = filter
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.listResp, nil
}

func (m *recordServiceMock) Create(ctx context.Context, req dto.CreateRecordRequest) (*models.Record, error) {
	if m.createResp == nil {
		return nil, appErrors.ErrValidation
	}
	return m.createResp, nil
}

func (m *recordServiceMock) Reload(ctx context.Context) (*repository.Table, error) {
	return &repository.Table{}, nil
}

func (m *recordServiceMock) Tags(ctx context.Context, column string) (*dto.TagListResponse, error) {
	return &dto.TagListResponse{Column: column, Tags: []string{"cardio"}}, nil
}

func (m *recordServiceMock) Selection(ctx context.Context) (*dto.SelectionResponse, error) {
	return m.selectionResp, nil
}

type editServiceMock struct {
	resp     *dto.EditBatchResponse
	warnings []string
	err      error
	req      dto.EditBatchRequest
	cap      int
}

func (m *editServiceMock) ApplyEdits(ctx context.Context, req dto.EditBatchRequest, defaultCap int) (*dto.EditBatchResponse, []string, error) {
	m.req = req
	m.cap = defaultCap
	if m.err != nil {
		return nil, m.warnings, m.err
	}
	return m.resp, m.warnings, nil
}

func TestRecordHandlerListBindsQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	records := &recordServiceMock{listResp: &dto.ListRecordsResponse{Total: 1}}
	handler := NewRecordHandler(records, &editServiceMock{}, 100)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/records?status=ignored&category_tags=cardio&category_tags=urgence&q=ecg", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.StatusIgnored, records.listFilter.Status)
	assert.Equal(t, []string{"cardio", "urgence"}, records.listFilter.CategoryTags)
	assert.Equal(t, "ecg", records.listFilter.Query)
}

func TestRecordHandlerListServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	records := &recordServiceMock{listErr: appErrors.ErrConnection}
	handler := NewRecordHandler(records, &editServiceMock{}, 100)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/records", nil)
	c.Request = req

	handler.List(c)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestRecordHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	records := &recordServiceMock{createResp: &models.Record{ID: "r1", Title: "New"}}
	handler := NewRecordHandler(records, &editServiceMock{}, 100)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.CreateRecordRequest{Title: "New"})
	req, _ := http.NewRequest(http.MethodPost, "/records", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestRecordHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRecordHandler(&recordServiceMock{}, &editServiceMock{}, 100)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/records", bytes.NewReader([]byte(`invalid`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordHandlerEditBatchSurfacesWarnings(t *testing.T) {
	gin.SetMode(gin.TestMode)
	edits := &editServiceMock{
		resp:     &dto.EditBatchResponse{UpdatedIDs: []string{"r1"}, WritesApplied: 2},
		warnings: []string{`field "rid" is not editable; write skipped for record r1`},
	}
	handler := NewRecordHandler(&recordServiceMock{}, edits, 100)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.EditBatchRequest{
		Edits: map[int]map[string]interface{}{0: {"notes": "n"}},
	})
	req, _ := http.NewRequest(http.MethodPatch, "/records", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.EditBatch(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 100, edits.cap)

	var envelope struct {
		Warnings []string `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Warnings, 1)
}

func TestRecordHandlerEditBatchDuplicateID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	edits := &editServiceMock{err: appErrors.ErrDuplicateID}
	handler := NewRecordHandler(&recordServiceMock{}, edits, 100)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.EditBatchRequest{
		Edits: map[int]map[string]interface{}{0: {"notes": "n"}},
	})
	req, _ := http.NewRequest(http.MethodPatch, "/records", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.EditBatch(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRecordHandlerSelection(t *testing.T) {
	gin.SetMode(gin.TestMode)
	records := &recordServiceMock{
		selectionResp: &dto.SelectionResponse{
			Record:    &models.Record{ID: "r2"},
			SourceURL: "https://example.com/doc",
		},
	}
	handler := NewRecordHandler(records, &editServiceMock{}, 100)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/session/selection", nil)
	c.Request = req

	handler.Selection(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://example.com/doc")
}
