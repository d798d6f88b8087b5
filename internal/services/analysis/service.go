package analysis

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redclay/finwire/internal/common"
	"github.com/redclay/finwire/internal/interfaces"
	"github.com/redclay/finwire/internal/models"
	"github.com/ternarybob/arbor"
)

// ErrRunInProgress is returned when an analysis run is requested while
// another one is still executing.
var ErrRunInProgress = errors.New("analysis run already in progress")

// Options parameterizes one analysis run. Zero fields fall back to the
// configured on-demand defaults.
type Options struct {
	Hours            int
	MaxNews          int
	SummaryLimit     int
	FocusedCompanies []string
}

// Service builds analysis windows, drives the LLM, and persists the
// resulting reports. At most one run executes at a time; concurrent
// requests fail fast with ErrRunInProgress.
type Service struct {
	articles interfaces.ArticleStorage
	reports  interfaces.ReportStorage
	llm      interfaces.LLMService
	config   *common.AnalysisConfig
	logger   arbor.ILogger

	mu      sync.Mutex
	running bool
}

// NewService creates an analysis service instance.
func NewService(articles interfaces.ArticleStorage, reports interfaces.ReportStorage, llm interfaces.LLMService, config *common.AnalysisConfig, logger arbor.ILogger) *Service {
	return &Service{
		articles: articles,
		reports:  reports,
		llm:      llm,
		config:   config,
		logger:   logger,
	}
}

// IsRunning reports whether an analysis run is currently executing.
func (s *Service) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Run executes one analysis pass: select recent articles, prompt the
// LLM, recover the structured fields, and persist the report. The
// report is saved even when the structured fields cannot be recovered;
// the raw narrative and reasoning trace are always kept.
func (s *Service) Run(ctx context.Context, opts Options) (*models.Report, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrRunInProgress
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	opts = s.applyDefaults(opts)
	startTime := time.Now()

	window, err := BuildWindow(s.articles, WindowOptions{
		Hours:        opts.Hours,
		MaxNews:      opts.MaxNews,
		SummaryLimit: opts.SummaryLimit,
		MaxChars:     s.config.MaxPromptChars,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("articles", window.Count).
		Int("hours", opts.Hours).
		Bool("truncated", window.Truncated).
		Msg("Analysis window built")

	prompt := BuildPrompt(window.Text, opts.Hours, opts.FocusedCompanies)

	completion, err := s.generateWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	report := s.buildReport(window, completion, opts.FocusedCompanies)
	if err := s.reports.SaveReport(report); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("report_id", report.ID).
		Int("news_count", report.NewsCount).
		Dur("duration", time.Since(startTime)).
		Msg("Analysis run completed")

	return report, nil
}

// RunScheduled executes an analysis pass with the scheduled defaults
// and the configured company watchlist.
func (s *Service) RunScheduled(ctx context.Context) (*models.Report, error) {
	return s.Run(ctx, Options{
		Hours:            s.config.ScheduledHours,
		MaxNews:          s.config.ScheduledMaxNews,
		FocusedCompanies: s.config.FocusedCompanies,
	})
}

// generateWithRetry retries the LLM call once on transport failure.
// Parse problems downstream are never retried.
func (s *Service) generateWithRetry(ctx context.Context, prompt string) (*models.Completion, error) {
	completion, err := s.llm.GenerateAnalysis(ctx, prompt)
	if err == nil {
		return completion, nil
	}

	s.logger.Warn().Err(err).Msg("LLM call failed, retrying once")
	return s.llm.GenerateAnalysis(ctx, prompt)
}

func (s *Service) buildReport(window *Window, completion *models.Completion, focusedCompanies []string) *models.Report {
	report := &models.Report{
		ID:                 common.NewReportID(),
		CreatedAt:          time.Now(),
		NewsCount:          window.Count,
		TimeRange:          window.TimeRange,
		ReasoningTrace:     completion.Reasoning,
		Narrative:          completion.Content,
		FocusedCompanies:   focusedCompanies,
		CompanyPredictions: []models.CompanyPrediction{},
	}
	if report.FocusedCompanies == nil {
		report.FocusedCompanies = []string{}
	}

	parsed := ExtractJSON(completion.Content)
	if parsed == nil {
		s.logger.Warn().
			Int("content_length", len(completion.Content)).
			Msg("No JSON object recovered from model response, keeping narrative only")
		return report
	}

	report.NewsImpact = parsed.NewsImpact
	report.PolicyImpact = parsed.PolicyImpact
	report.MarketPrediction = parsed.MarketPrediction
	report.CompanyPredictions = normalizeCompanyPredictions(parsed.CompanyPredictions, s.logger)
	return report
}

func (s *Service) applyDefaults(opts Options) Options {
	if opts.Hours <= 0 {
		opts.Hours = s.config.Hours
	}
	if opts.MaxNews <= 0 {
		opts.MaxNews = s.config.MaxNews
	}
	if opts.SummaryLimit <= 0 {
		opts.SummaryLimit = s.config.SummaryLimit
	}
	return opts
}
