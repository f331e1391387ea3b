package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mbertin/radio-tracker-api/internal/dto"
	"github.com/mbertin/radio-tracker-api/internal/models"
	"github.com/mbertin/radio-tracker-api/internal/repository"
	appErrors "github.com/mbertin/radio-tracker-api/pkg/errors"
)

type recordTableRepository interface {
	LoadTable(ctx context.Context) (*repository.Table, error)
	Headers(ctx context.Context) ([]string, error)
	AppendRecord(ctx context.Context, headers []string, rec models.Record) error
}

type tableCache interface {
	GetTable(ctx context.Context) (*repository.Table, error)
	SetTable(ctx context.Context, table *repository.Table, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// RecordServiceConfig tunes view computation and cache behaviour.
type RecordServiceConfig struct {
	DefaultCap int
	CacheTTL   time.Duration
}

// RecordService owns the records table: loading it once per session,
// computing visible subsets, extracting tag sets and handling selection.
type RecordService struct {
	repo      recordTableRepository
	cache     tableCache
	session   *Session
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       RecordServiceConfig
}

// NewRecordService constructs a RecordService.
func NewRecordService(repo recordTableRepository, cache tableCache, session *Session, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg RecordServiceConfig) *RecordService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.DefaultCap <= 0 {
		cfg.DefaultCap = 100
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	return &RecordService{
		repo:      repo,
		cache:     cache,
		session:   session,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// EnsureLoaded returns the session table, loading it from the snapshot
// cache or the sheet on first use.
func (s *RecordService) EnsureLoaded(ctx context.Context) (*repository.Table, error) {
	if table := s.session.Table(); table != nil {
		return table, nil
	}

	if s.cache != nil {
		start := time.Now()
		cached, err := s.cache.GetTable(ctx)
		if s.metrics != nil {
			s.metrics.RecordCacheOperation(err == nil, time.Since(start))
		}
		if err == nil {
			s.session.SetTable(cached)
			return cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("table snapshot cache read failed", zap.Error(err))
		}
	}

	return s.Reload(ctx)
}

// Reload fetches the full table from the sheet, replacing session state and
// refreshing the snapshot cache.
func (s *RecordService) Reload(ctx context.Context) (*repository.Table, error) {
	start := time.Now()
	table, err := s.repo.LoadTable(ctx)
	if s.metrics != nil {
		s.metrics.ObserveSheetsOp("load_table", time.Since(start))
	}
	if err != nil {
		return nil, err
	}

	s.session.SetTable(table)

	if s.cache != nil {
		if err := s.cache.SetTable(ctx, table, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("table snapshot cache write failed", zap.Error(err))
		}
	}

	s.logger.Info("records table loaded", zap.Int("records", len(table.Records)))
	return table, nil
}

// List computes the visible subset for the given filter.
func (s *RecordService) List(ctx context.Context, filter dto.ViewFilterRequest) (*dto.ListRecordsResponse, error) {
	if err := validFilterStatus(filter.Status); err != nil {
		return nil, err
	}

	table, err := s.EnsureLoaded(ctx)
	if err != nil {
		return nil, err
	}

	positions, capped := ApplyViewFilter(table.Records, filter, s.cfg.DefaultCap)

	views := make([]dto.RecordView, 0, len(positions))
	for viewIndex, pos := range positions {
		views = append(views, dto.RecordView{ViewIndex: viewIndex, Record: table.Records[pos]})
	}

	return &dto.ListRecordsResponse{
		Records: views,
		Total:   len(table.Records),
		Visible: len(views),
		Capped:  capped,
	}, nil
}

// Tags returns the deduplicated sorted tag set for one column.
func (s *RecordService) Tags(ctx context.Context, column string) (*dto.TagListResponse, error) {
	if column == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "column is required")
	}

	table, err := s.EnsureLoaded(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.TagListResponse{
		Column: column,
		Tags:   ExtractTags(table.Records, column),
	}, nil
}

// Create appends a new reading-list item with a generated id.
func (s *RecordService) Create(ctx context.Context, req dto.CreateRecordRequest) (*models.Record, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid record payload")
	}

	table, err := s.EnsureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	if len(table.Headers) == 0 {
		return nil, appErrors.Clone(appErrors.ErrSchema, "records sheet has no header row")
	}

	rec := models.Record{
		ID:           uuid.NewString(),
		Title:        req.Title,
		CategoryTags: req.CategoryTags,
		SectionTags:  req.SectionTags,
		SourceURL:    req.SourceURL,
		BodyText:     req.BodyText,
		Notes:        req.Notes,
	}

	start := time.Now()
	err = s.repo.AppendRecord(ctx, table.Headers, rec)
	if s.metrics != nil {
		s.metrics.ObserveSheetsOp("append_record", time.Since(start))
	}
	if err != nil {
		return nil, err
	}

	s.session.AppendRecord(rec)
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("table snapshot invalidation failed", zap.Error(err))
		}
	}

	s.logger.Info("record created", zap.String("rid", rec.ID), zap.String("title", rec.Title))
	return &rec, nil
}

// Selection returns the record currently chosen for the document viewer.
func (s *RecordService) Selection(ctx context.Context) (*dto.SelectionResponse, error) {
	id := s.session.SelectedID()
	if id == "" {
		return &dto.SelectionResponse{}, nil
	}

	table, err := s.EnsureLoaded(ctx)
	if err != nil {
		return nil, err
	}

	pos, err := LocateByID(table.Records, id)
	if err != nil {
		return nil, err
	}

	rec := table.Records[pos]
	return &dto.SelectionResponse{Record: &rec, SourceURL: rec.SourceURL}, nil
}

func validFilterStatus(status string) error {
	switch status {
	case "", dto.StatusActive, dto.StatusIgnored, dto.StatusAll:
		return nil
	default:
		return appErrors.Clone(appErrors.ErrValidation, "status must be active, ignored or all")
	}
}
