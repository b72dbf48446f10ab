// Package report turns an uploaded transition log into a stored, rendered usage report.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"usage-report/internal/analysis"
	"usage-report/internal/data"
	"usage-report/internal/model"
	"usage-report/internal/storage"
	"usage-report/internal/usage"
)

// Renderer draws a chart specification as PNG and PDF.
type Renderer interface {
	Render(spec usage.ChartSpec) (png []byte, pdf []byte, err error)
}

// Publisher receives every stored artifact. Failures are logged, never returned to the caller.
type Publisher interface {
	PublishSummary(ctx context.Context, a *storage.Artifact) error
}

// Request is one report submission.
type Request struct {
	CSV     io.Reader
	EntryID string
	Range   model.TimeRange
	Motor   model.Motor
	Tariff  model.Tariff
}

// Result is a successful submission.
type Result struct {
	Artifact *storage.Artifact
	Chart    usage.ChartSpec
}

type Service struct {
	store     storage.Store
	renderer  Renderer
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

type Option func(*Service)

// WithPublisher sets a summary publisher.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store storage.Store, renderer Renderer, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		store:    store,
		renderer: renderer,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate parses, aggregates, renders and stores one report.
// On failure nothing is stored and the returned error is a *model.Error.
func (s *Service) Generate(ctx context.Context, req Request) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("report generation panicked", zap.Any("panic", r), zap.String("entry_id", req.EntryID))
			res = nil
			err = model.NewError(model.KindInternal, "an unexpected error occurred", fmt.Errorf("panic: %v", r))
		}
	}()

	if req.CSV == nil {
		return nil, model.NewError(model.KindInvalidInput, "no CSV file was sent", nil)
	}

	parsed, err := data.ParseLogCSV(req.CSV)
	if err != nil {
		return nil, err
	}
	if len(parsed.Warnings) > 0 {
		s.logger.Warn("skipped malformed CSV rows",
			zap.Int("skipped", parsed.Skipped),
			zap.Int("warnings", len(parsed.Warnings)),
			zap.String("first", parsed.Warnings[0]))
	}
	if len(parsed.Records) == 0 {
		return nil, model.NewError(model.KindNoData, "the CSV file is empty or invalid", nil)
	}

	rep, err := usage.Aggregate(parsed.Records, usage.Params{
		EntryID: req.EntryID,
		Range:   req.Range,
		Motor:   req.Motor,
		Tariff:  req.Tariff,
	})
	if err != nil {
		return nil, err
	}

	spec := usage.BuildChart(rep)
	png, pdf, err := s.renderer.Render(spec)
	if err != nil {
		return nil, model.NewError(model.KindInternal, "failed to render chart", err)
	}

	a := &storage.Artifact{
		ID:        s.newID(),
		CreatedAt: s.now().UTC(),
		EntryID:   rep.EntryID,
		Range:     rep.Range,
		Hourly:    rep.Hourly,
		Summary:   rep.Summary,
		Pairing:   rep.Pairing,
		Warnings:  parsed.Warnings,
		PDF:       pdf,
		PNG:       png,
	}
	if err := s.store.Save(ctx, a); err != nil {
		return nil, model.NewError(model.KindInternal, "failed to store report", err)
	}

	s.logger.Info("report generated",
		zap.String("id", a.ID),
		zap.String("entry_id", a.EntryID),
		zap.Int("records", rep.Filtered),
		zap.Float64("total_minutes", rep.Summary.TotalMinutes),
		zap.Float64("energy_kwh", rep.Summary.EnergyKWh))

	if s.publisher != nil {
		if err := s.publisher.PublishSummary(ctx, a); err != nil {
			s.logger.Warn("failed to publish summary", zap.String("id", a.ID), zap.Error(err))
		}
	}

	return &Result{Artifact: a, Chart: spec}, nil
}

// Channels ranks every channel in the log by active time inside rng.
func (s *Service) Channels(ctx context.Context, csv io.Reader, rng model.TimeRange) ([]analysis.ChannelUsage, []string, error) {
	if csv == nil {
		return nil, nil, model.NewError(model.KindInvalidInput, "no CSV file was sent", nil)
	}
	parsed, err := data.ParseLogCSV(csv)
	if err != nil {
		return nil, nil, err
	}
	if len(parsed.Records) == 0 {
		return nil, parsed.Warnings, model.NewError(model.KindNoData, "the CSV file is empty or invalid", nil)
	}
	ranked, err := analysis.RankChannels(parsed.Records, rng)
	if err != nil {
		return nil, parsed.Warnings, err
	}
	return ranked, parsed.Warnings, nil
}

// Artifact fetches a stored report by ID.
func (s *Service) Artifact(ctx context.Context, id string) (*storage.Artifact, error) {
	a, err := s.store.Get(ctx, id)
	return a, notFound(err, "report not found")
}

// Latest fetches the most recently generated report.
func (s *Service) Latest(ctx context.Context) (*storage.Artifact, error) {
	a, err := s.store.Latest(ctx)
	return a, notFound(err, "PDF file not found")
}

func notFound(err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return model.NewError(model.KindNotFound, msg, err)
	default:
		return model.NewError(model.KindInternal, "failed to read report", err)
	}
}
