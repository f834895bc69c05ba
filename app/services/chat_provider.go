package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shashiranjanraj/bizadmin/config"
	"github.com/shashiranjanraj/bizadmin/pkg/errs"
	"github.com/shashiranjanraj/bizadmin/pkg/http"
	"github.com/shashiranjanraj/bizadmin/pkg/logger"
)

// Turn is one transcript entry sent to a provider.
type Turn struct {
	Role    string `json:"role"    validate:"required,in=user|assistant"`
	Content string `json:"content" validate:"required"`
}

// ChatProvider produces the assistant reply for a transcript.
type ChatProvider interface {
	Name() string
	Reply(ctx context.Context, transcript []Turn) (string, error)
}

// NewProvider returns the HTTP provider when CHAT_API_URL is set. Without
// it development falls back to echoing, production to a provider that
// always reports the service as unavailable.
func NewProvider() ChatProvider {
	if u := config.ChatAPIURL(); u != "" {
		return &HTTPProvider{URL: u, Key: config.ChatAPIKey(), Timeout: config.ChatTimeout()}
	}
	if config.IsProduction() {
		logger.Warn("chat: CHAT_API_URL not set, replies disabled")
		return unavailableProvider{}
	}
	return EchoProvider{}
}

// HTTPProvider posts {messages} to URL and expects {reply}.
type HTTPProvider struct {
	URL     string
	Key     string
	Timeout time.Duration
	Retries int
}

func (p *HTTPProvider) Name() string { return "http" }

func (p *HTTPProvider) Reply(ctx context.Context, transcript []Turn) (string, error) {
	retries := p.Retries
	if retries <= 0 {
		retries = 3
	}
	var out struct {
		Reply string `json:"reply"`
	}
	err := http.Post(p.URL).
		Bearer(p.Key).
		Body(map[string]any{"messages": transcript}).
		Timeout(p.Timeout).
		Retry(retries, 200*time.Millisecond).
		Into(ctx, &out)
	if err != nil {
		return "", errs.Unavailable("Chat provider unavailable", err)
	}
	if out.Reply == "" {
		return "", errs.Unavailable("Chat provider returned no reply", errors.New("empty reply"))
	}
	return out.Reply, nil
}

// EchoProvider answers with the latest user message.
type EchoProvider struct{}

func (EchoProvider) Name() string { return "echo" }

func (EchoProvider) Reply(_ context.Context, transcript []Turn) (string, error) {
	for i := len(transcript) - 1; i >= 0; i-- {
		if transcript[i].Role == "user" {
			return fmt.Sprintf("You said: %s", transcript[i].Content), nil
		}
	}
	return "", errors.New("echo: transcript has no user message")
}

type unavailableProvider struct{}

func (unavailableProvider) Name() string { return "none" }

func (unavailableProvider) Reply(context.Context, []Turn) (string, error) {
	return "", errs.Unavailable("Chat is not configured", nil)
}
