package services

import (
	"context"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/thomas-vilte/matereview/internal/ai"
	"github.com/thomas-vilte/matereview/internal/config"
	"github.com/thomas-vilte/matereview/internal/dependency"
	domainErrors "github.com/thomas-vilte/matereview/internal/errors"
	"github.com/thomas-vilte/matereview/internal/i18n"
	"github.com/thomas-vilte/matereview/internal/logger"
	"github.com/thomas-vilte/matereview/internal/models"
	"github.com/thomas-vilte/matereview/internal/selection"
	"github.com/thomas-vilte/matereview/internal/services/cost"
	"github.com/thomas-vilte/matereview/internal/vcs"
)

const (
	minAssignmentChars  = 10
	maxAssignmentChars  = 1000
	minAssignmentNonWS  = 10
	repositoryURLPrefix = "https://github.com/"
)

// reviewHost defines the methods needed by ReviewService from a hosting service.
type reviewHost interface {
	ListTree(ctx context.Context, ref models.RepositoryReference) ([]models.TreeEntry, error)
	FetchFile(ctx context.Context, ref models.RepositoryReference, path string) ([]byte, error)
}

// reviewCompleter defines the methods needed by ReviewService from an AI provider.
type reviewCompleter interface {
	Complete(ctx context.Context, req models.CompletionRequest) (models.Completion, error)
}

type ReviewService struct {
	host   reviewHost
	ai     reviewCompleter
	config *config.Config
	trans  *i18n.Translations
	costs  *cost.Calculator
	deps   *dependency.AnalyzerRegistry
}

type ReviewOption func(*ReviewService)

func WithReviewHost(host reviewHost) ReviewOption {
	return func(s *ReviewService) {
		s.host = host
	}
}

func WithReviewCompleter(completer reviewCompleter) ReviewOption {
	return func(s *ReviewService) {
		s.ai = completer
	}
}

func WithReviewConfig(cfg *config.Config) ReviewOption {
	return func(s *ReviewService) {
		s.config = cfg
	}
}

func WithReviewTranslations(trans *i18n.Translations) ReviewOption {
	return func(s *ReviewService) {
		s.trans = trans
	}
}

func NewReviewService(opts ...ReviewOption) *ReviewService {
	s := &ReviewService{
		costs: cost.NewCalculator(),
		deps:  dependency.NewAnalyzerRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.config == nil {
		s.config = config.Default()
	}
	return s
}

// ValidateReviewRequest checks the request fields before any network call.
func ValidateReviewRequest(req models.ReviewRequest) error {
	invalid := func(field, reason string) error {
		return domainErrors.ErrInvalidRequest.
			WithContext("field", field).
			WithContext("reason", reason)
	}

	n := utf8.RuneCountInString(req.AssignmentDescription)
	if n < minAssignmentChars || n > maxAssignmentChars {
		return invalid("assignment_description", "must be between 10 and 1000 characters")
	}
	if nonSpace(req.AssignmentDescription) < minAssignmentNonWS {
		return invalid("assignment_description", "must contain at least 10 non-blank characters")
	}
	if !strings.HasPrefix(req.RepositoryURL, repositoryURLPrefix) {
		return invalid("github_repo_url", "must start with "+repositoryURLPrefix)
	}
	if !req.CandidateLevel.Valid() {
		return invalid("candidate_level", "must be one of Junior, Mid, Senior")
	}
	return nil
}

func nonSpace(s string) int {
	count := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			count++
		}
	}
	return count
}

// Preview runs the selection pipeline only: locate, list, filter, order and
// render. No model is called.
func (s *ReviewService) Preview(ctx context.Context, rawURL string) (models.RenderedDocument, error) {
	ref, err := vcs.ParseRepositoryURL(rawURL, s.config.Selection.DefaultRef)
	if err != nil {
		return models.RenderedDocument{}, err
	}

	ctx = logger.With(ctx, "repo", ref.String())
	log := logger.FromContext(ctx)

	entries, err := s.host.ListTree(ctx, ref)
	if err != nil {
		return models.RenderedDocument{}, err
	}

	candidates := selection.Order(selection.Classify(entries, selection.NewRules(s.config.Selection)))

	log.Debug("candidates selected",
		"entries", len(entries),
		"candidates", len(candidates))

	fetcher := selection.HostFetcher(s.host, ref)
	doc, err := selection.Render(ctx, candidates, fetcher, selection.BudgetFromConfig(s.config.Selection))
	if err != nil {
		return models.RenderedDocument{}, err
	}
	doc.Repository = ref

	log.Debug("dependency manifests found", "analyzers", s.deps.GetSupportedAnalyzers(entries))
	doc.Dependencies, err = s.deps.Analyze(ctx, entries, fetcher)
	if err != nil {
		return models.RenderedDocument{}, err
	}

	log.Info("repository rendered",
		"files_included", doc.FilesIncluded,
		"total_bytes", doc.TotalBytes,
		"truncated", doc.Truncated,
		"dependencies", len(doc.Dependencies))

	return doc, nil
}

// Review runs the whole pipeline for one request. Empty repositories produce
// an empty review without calling the model; undecodable model replies are
// returned with RawText set.
func (s *ReviewService) Review(ctx context.Context, req models.ReviewRequest) (models.ReviewResult, error) {
	log := logger.FromContext(ctx)

	if err := ValidateReviewRequest(req); err != nil {
		return models.ReviewResult{}, err
	}

	if s.ai == nil {
		log.Error("AI service not configured")
		return models.ReviewResult{}, domainErrors.ErrAPIKeyMissing
	}

	log.Info("reviewing repository",
		"url", req.RepositoryURL,
		"level", req.CandidateLevel)

	doc, err := s.Preview(ctx, req.RepositoryURL)
	if err != nil {
		if errors.Is(err, domainErrors.ErrRepositoryEmpty) {
			log.Info("repository is empty, skipping model call", "url", req.RepositoryURL)
			return s.emptyResult(), nil
		}
		return models.ReviewResult{}, err
	}

	prompt, err := ai.BuildPrompt(req.AssignmentDescription, req.CandidateLevel, doc, s.config.Prompt.MaxContentChars)
	if err != nil {
		return models.ReviewResult{}, domainErrors.NewAppError(domainErrors.TypeInternal, "error building prompt", err)
	}

	completion, err := s.ai.Complete(ctx, prompt)
	if err != nil {
		log.Error("failed to generate review",
			"error", err)
		return models.ReviewResult{}, err
	}

	usage := completion.Usage
	if usage != nil {
		if !usage.CacheHit {
			usage.CostUSD = s.costs.EstimateCost(s.config.AI.Provider, usage.Model, usage.InputTokens, usage.OutputTokens)
		}
		log.Info("model usage",
			"model", usage.Model,
			"input_tokens", usage.InputTokens,
			"output_tokens", usage.OutputTokens,
			"total_tokens", usage.TotalTokens,
			"cost_usd", usage.CostUSD,
			"cache_hit", usage.CacheHit,
			"duration_ms", usage.DurationMs)
	}

	result := ai.Interpret(completion.Text, ai.Provenance{Document: doc, ContentTruncated: prompt.ContentTruncated})
	result.Usage = usage
	if result.RawText != nil {
		log.Warn("model reply is not a review object, returning raw text",
			"reply_length", len(completion.Text))
	}

	return result, nil
}

func (s *ReviewService) emptyResult() models.ReviewResult {
	summary := "The repository has no files to review."
	if s.trans != nil {
		summary = s.trans.GetMessage("repository_empty_summary", 0, nil)
	}
	return models.ReviewResult{
		FilesFound: []string{},
		Summary:    summary,
		Findings:   []models.Finding{},
	}
}
