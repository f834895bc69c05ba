package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/bizadmin/app/services"
	"github.com/shashiranjanraj/bizadmin/pkg/ctx"
	"github.com/shashiranjanraj/bizadmin/pkg/errs"
)

// Chat routes answer with bare JSON documents ({sessionId}, {reply},
// {messages}, {sessions}) instead of the envelope.
type ChatController struct {
	svc *services.ChatService
}

func NewChatController(svc *services.ChatService) *ChatController {
	return &ChatController{svc: svc}
}

type chatRequest struct {
	SessionID string          `json:"sessionId" validate:"required,uuid"`
	Messages  []services.Turn `json:"messages"  validate:"required,min=1,dive"`
}

func (cc *ChatController) NewSession(c *ctx.Context) error {
	id, err := cc.svc.NewSession(c.Context())
	if err != nil {
		return err
	}
	c.JSON(http.StatusOK, map[string]string{"sessionId": id})
	return nil
}

func (cc *ChatController) Chat(c *ctx.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	reply, err := cc.svc.Chat(c.Context(), req.SessionID, req.Messages)
	if err != nil {
		return err
	}
	c.JSON(http.StatusOK, map[string]string{"reply": reply})
	return nil
}

func (cc *ChatController) History(c *ctx.Context) error {
	msgs, err := cc.svc.History(c.Context())
	if err != nil {
		return err
	}
	c.JSON(http.StatusOK, map[string]any{"messages": msgs})
	return nil
}

func (cc *ChatController) SessionsSummary(c *ctx.Context) error {
	sessions, err := cc.svc.SessionsSummary(c.Context())
	if err != nil {
		return err
	}
	c.JSON(http.StatusOK, map[string]any{"sessions": sessions})
	return nil
}

func (cc *ChatController) Session(c *ctx.Context) error {
	id := c.Param("id")
	if id == "" {
		return errs.BadRequest("missing session id", nil)
	}
	msgs, err := cc.svc.Session(c.Context(), id)
	if err != nil {
		return err
	}
	c.JSON(http.StatusOK, map[string]any{"messages": msgs})
	return nil
}
