package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/bizadmin/app/models"
	"github.com/shashiranjanraj/bizadmin/app/repositories"
	"github.com/shashiranjanraj/bizadmin/pkg/cache"
	"github.com/shashiranjanraj/bizadmin/pkg/errs"
	"github.com/shashiranjanraj/bizadmin/pkg/event"
	"github.com/shashiranjanraj/bizadmin/pkg/logger"
	"github.com/shashiranjanraj/bizadmin/pkg/metrics"
	"github.com/shashiranjanraj/bizadmin/pkg/report"
)

const (
	summaryKey = "chat:sessions-summary"
	summaryTTL = time.Minute

	// EventChatMessage is fired once per stored message.
	EventChatMessage = "chat.message"
)

type ChatService struct {
	repo     *repositories.ChatRepository
	provider ChatProvider
	cache    cache.Store
	bus      *event.Bus
}

func NewChatService(repo *repositories.ChatRepository, provider ChatProvider, store cache.Store, bus *event.Bus) *ChatService {
	return &ChatService{repo: repo, provider: provider, cache: store, bus: bus}
}

// NewSession issues and stores a fresh session id.
func (s *ChatService) NewSession(ctx context.Context) (string, error) {
	id := uuid.NewString()
	if _, err := s.repo.CreateSession(ctx, id); err != nil {
		return "", err
	}
	return id, nil
}

// Chat stores the latest user turn, asks the provider for a reply to the
// whole transcript and stores that reply. The transcript must end with a
// user turn.
func (s *ChatService) Chat(ctx context.Context, sessionID string, transcript []Turn) (string, error) {
	if len(transcript) == 0 || transcript[len(transcript)-1].Role != models.RoleUser {
		return "", errs.Validation(map[string]string{"messages": "The last message must come from the user."})
	}

	ok, err := s.repo.SessionExists(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errs.NotFound("Session not found")
	}

	latest := transcript[len(transcript)-1]
	question := &models.ChatMessage{SessionID: sessionID, Role: models.RoleUser, Content: latest.Content}
	if err := s.repo.Append(ctx, question); err != nil {
		return "", err
	}
	s.stored(ctx, question)

	reply, err := s.provider.Reply(ctx, transcript)
	if err != nil {
		metrics.ChatReplies.WithLabelValues(s.provider.Name(), "error").Inc()
		logger.WithCtx(ctx).Warn("chat: provider failed", "provider", s.provider.Name(), "error", err)
		return "", err
	}
	metrics.ChatReplies.WithLabelValues(s.provider.Name(), "ok").Inc()

	answer := &models.ChatMessage{SessionID: sessionID, Role: models.RoleAssistant, Content: reply}
	if err := s.repo.Append(ctx, answer); err != nil {
		return "", fmt.Errorf("store reply: %w", err)
	}
	s.stored(ctx, answer)
	return reply, nil
}

// History returns every message of every session in arrival order.
func (s *ChatService) History(ctx context.Context) ([]report.Message, error) {
	rows, err := s.repo.History(ctx)
	if err != nil {
		return nil, err
	}
	return toReport(rows), nil
}

func (s *ChatService) Session(ctx context.Context, id string) ([]report.Message, error) {
	rows, err := s.repo.BySession(ctx, id)
	if err != nil {
		return nil, err
	}
	return toReport(rows), nil
}

// SessionsSummary is cached until the next stored message.
func (s *ChatService) SessionsSummary(ctx context.Context) ([]report.Summary, error) {
	return cache.Remember(ctx, s.cache, summaryKey, summaryTTL, func() ([]report.Summary, error) {
		msgs, err := s.History(ctx)
		if err != nil {
			return nil, err
		}
		return report.Summarize(msgs), nil
	})
}

func (s *ChatService) stored(ctx context.Context, m *models.ChatMessage) {
	_ = cache.Invalidate(ctx, s.cache, summaryKey)
	if s.bus != nil {
		s.bus.Fire(ctx, EventChatMessage, m.Report())
	}
}

func toReport(rows []models.ChatMessage) []report.Message {
	out := make([]report.Message, len(rows))
	for i, r := range rows {
		out[i] = r.Report()
	}
	return out
}
