package ai

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Veraticus/the-ledger-must-flow/internal/common"
	"github.com/Veraticus/the-ledger-must-flow/internal/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeClient is a scripted provider client.
type fakeClient struct {
	err    error
	advice []AccountAdvice
	calls  int
}

func (f *fakeClient) SuggestAccounts(_ context.Context, _ string) ([]AccountAdvice, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.advice, nil
}

func newTestService(client Client) *Service {
	return &Service{
		client:  client,
		cache:   newAdviceCache(time.Minute),
		limiter: newRateLimiter(1000),
		logger:  testLogger(),
		retryOpts: service.RetryOptions{
			MaxAttempts:  1,
			InitialDelay: time.Millisecond,
			MaxDelay:     time.Millisecond,
			Multiplier:   1.0,
		},
		timeout: time.Second,
	}
}

func TestNewAdvisorUnknownProvider(t *testing.T) {
	_, err := NewAdvisor(Config{Provider: "oracle", APIKey: "k"}, nil)
	if err == nil {
		t.Error("Expected error for unknown provider")
	}
}

func TestNewAdvisorRequiresAPIKey(t *testing.T) {
	for _, provider := range []string{"openai", "anthropic"} {
		if _, err := NewAdvisor(Config{Provider: provider}, nil); err == nil {
			t.Errorf("Expected error for %s without API key", provider)
		}
	}
}

func TestServiceCachesAdvice(t *testing.T) {
	client := &fakeClient{advice: []AccountAdvice{{Account: "Groceries", Confidence: 0.9}}}
	svc := newTestService(client)
	defer svc.Close()

	req := Request{Description: "WHOLE FOODS"}
	ctx := context.Background()

	first, err := svc.SuggestAccounts(ctx, req)
	if err != nil {
		t.Fatalf("First call failed: %v", err)
	}
	second, err := svc.SuggestAccounts(ctx, req)
	if err != nil {
		t.Fatalf("Second call failed: %v", err)
	}

	if client.calls != 1 {
		t.Errorf("Provider called %d times, want 1 (second call should hit the cache)", client.calls)
	}
	if len(first) != 1 || len(second) != 1 {
		t.Errorf("Unexpected advice lengths: %d, %d", len(first), len(second))
	}
}

func TestServiceWrapsProviderErrors(t *testing.T) {
	client := &fakeClient{err: errors.New("connection refused")}
	svc := newTestService(client)
	defer svc.Close()

	_, err := svc.SuggestAccounts(context.Background(), Request{Description: "AMAZON"})
	if err == nil {
		t.Fatal("Expected error from failing provider")
	}
	if !errors.Is(err, common.ErrAdvisorUnavailable) {
		t.Errorf("Expected ErrAdvisorUnavailable, got %v", err)
	}
}

func TestServiceDoesNotCacheFailures(t *testing.T) {
	client := &fakeClient{err: errors.New("boom")}
	svc := newTestService(client)
	defer svc.Close()

	ctx := context.Background()
	req := Request{Description: "AMAZON"}

	_, _ = svc.SuggestAccounts(ctx, req)

	client.err = nil
	client.advice = []AccountAdvice{{Account: "Shopping", Confidence: 0.7}}

	advice, err := svc.SuggestAccounts(ctx, req)
	if err != nil {
		t.Fatalf("Expected recovery after provider came back: %v", err)
	}
	if len(advice) != 1 || advice[0].Account != "Shopping" {
		t.Errorf("Unexpected advice after recovery: %+v", advice)
	}
}
