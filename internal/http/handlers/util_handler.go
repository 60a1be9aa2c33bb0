// Utility HTTP handlers.
//
// This file exposes the misc endpoints:
//   - GET  /utils/health-check
//   - GET  /utils/download   (stored file by name, as attachment)
//   - POST /utils/chat       (AI completion)
//
// It also declares the Handlers aggregate that all handler files hang off.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dida1024/AideX/internal/bizerr"
	"github.com/dida1024/AideX/internal/storage"
)

// ChatCompleter produces an AI reply for a user prompt under a named
// prompt strategy.
type ChatCompleter interface {
	Chat(ctx context.Context, strategy, userPrompt string) (string, error)
}

// Handlers groups HTTP endpoints for login, users, items, papers, and utils.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	users  UserService
	items  ItemService
	papers PaperService
	tokens TokenIssuer
	chat   ChatCompleter // nil when AI is disabled
	store  storage.FileStore
}

// New constructs and returns a Handlers instance bound to the given services.
func New(users UserService, items ItemService, papers PaperService, tokens TokenIssuer, chat ChatCompleter, store storage.FileStore) *Handlers {
	return &Handlers{
		users:  users,
		items:  items,
		papers: papers,
		tokens: tokens,
		chat:   chat,
		store:  store,
	}
}

// ChatRequest is the JSON payload for the AI chat endpoint.
type ChatRequest struct {
	Prompt   string `json:"prompt" binding:"required,min=1,max=4000"`
	Strategy string `json:"strategy" binding:"omitempty,oneof=chat summary" example:"chat"`
}

// ChatData is the `data` payload of a chat reply.
type ChatData struct {
	Reply string `json:"reply"`
}

// HealthCheck godoc
// @ID          utilsHealthCheck
// @Summary     Health check
// @Tags        Utils
// @Produce     json
//
// @Success     200  {object}  handlers.Envelope{data=bool}
// @Router      /utils/health-check [get]
func (h *Handlers) HealthCheck(c *gin.Context) {
	ok(c, true)
}

// Download godoc
// @ID          utilsDownload
// @Summary     Download a stored file
// @Description Streams a previously uploaded file as an attachment.
// @Tags        Utils
// @Produce     octet-stream
//
// @Param       file_name  query  string  true  "Stored file name"
//
// @Success     200  {file}    file
// @Failure     400  {object}  handlers.Envelope  "Missing file_name"
// @Router      /utils/download [get]
func (h *Handlers) Download(c *gin.Context) {
	name := c.Query("file_name")
	if name == "" {
		badRequest(c, "file_name is required")
		return
	}
	path := h.store.Resolve(name)
	if path == "" {
		failBiz(c, bizerr.New(bizerr.FileNotFound))
		return
	}
	c.FileAttachment(path, name)
}

// Chat godoc
// @ID          utilsChat
// @Summary     Ask the AI assistant
// @Tags        Utils
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.ChatRequest  true  "Prompt"
//
// @Success     200  {object}  handlers.Envelope{data=handlers.ChatData}
// @Failure     400  {object}  handlers.Envelope  "Malformed body"
// @Failure     503  {object}  handlers.Envelope  "AI disabled"
// @Router      /utils/chat [post]
func (h *Handlers) Chat(c *gin.Context) {
	if h.chat == nil {
		FailStatus(c, http.StatusServiceUnavailable, "chat is not configured")
		return
	}
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "prompt is required (1-4000 chars)")
		return
	}
	reply, err := h.chat.Chat(c.Request.Context(), req.Strategy, req.Prompt)
	if err != nil {
		failBiz(c, err)
		return
	}
	ok(c, ChatData{Reply: reply})
}
