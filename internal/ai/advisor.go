package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/the-ledger-must-flow/internal/common"
	"github.com/Veraticus/the-ledger-must-flow/internal/service"
)

// Config holds configuration for the AI advisor.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	MaxRetries  int
	RetryDelay  time.Duration
	CacheTTL    time.Duration
	Timeout     time.Duration
	RateLimit   int
	Temperature float64
	MaxTokens   int
}

// Service implements Advisor on top of a provider client, adding caching,
// rate limiting, bounded retries, and a per-request timeout.
type Service struct {
	client    Client
	cache     *adviceCache
	limiter   *rateLimiter
	logger    *slog.Logger
	retryOpts service.RetryOptions
	timeout   time.Duration
}

// NewAdvisor creates an advisor for the configured provider.
func NewAdvisor(cfg Config, logger *slog.Logger) (*Service, error) {
	var client Client
	var err error

	switch strings.ToLower(cfg.Provider) {
	case "openai":
		client, err = newOpenAIClient(cfg)
	case "anthropic":
		client, err = newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		client:    client,
		cache:     newAdviceCache(cfg.CacheTTL),
		limiter:   newRateLimiter(cfg.RateLimit),
		logger:    logger,
		retryOpts: retryOpts,
		timeout:   timeout,
	}, nil
}

// SuggestAccounts asks the provider for account suggestions. The whole
// exchange is bounded by the configured timeout; callers treat any error as
// "no AI suggestions".
func (s *Service) SuggestAccounts(ctx context.Context, req Request) ([]AccountAdvice, error) {
	key := req.cacheKey()
	if advice, found := s.cache.get(key); found {
		s.logger.Debug("advice cache hit", "description", req.Description)
		return advice, nil
	}

	if err := s.limiter.wait(ctx); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt := buildPrompt(req)

	var advice []AccountAdvice
	err := common.WithRetry(ctx, func() error {
		var callErr error
		advice, callErr = s.client.SuggestAccounts(ctx, prompt)
		return callErr
	}, s.retryOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrAdvisorUnavailable, err)
	}

	s.cache.set(key, advice)

	s.logger.Info("advisor returned suggestions",
		"description", req.Description,
		"count", len(advice))

	return advice, nil
}

// Close releases the advisor's background resources.
func (s *Service) Close() {
	s.cache.Close()
	s.limiter.Close()
}
