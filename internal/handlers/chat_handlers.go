package handlers

import (
	"net/http"

	"preppulse/internal/services"

	"github.com/labstack/echo/v4"
)

type ChatHandlers struct {
	chatService services.ChatService
}

func NewChatHandlers(chatService services.ChatService) *ChatHandlers {
	return &ChatHandlers{chatService: chatService}
}

// ChatRequest carries the user message and optional context, which may be a
// string or any JSON value.
type ChatRequest struct {
	Message string `json:"message"`
	Context any    `json:"context"`
}

// Chat
//
//	@Summary	Ask the placement assistant
//	@Tags		chat
//	@Accept		json
//	@Produce	json
//	@Param		body	body		ChatRequest	true	"Message and optional context"
//	@Success	200		{object}	services.ChatReply
//	@Failure	400		{object}	common.ErrorResponse
//	@Failure	429		{object}	common.ErrorResponse
//	@Failure	502		{object}	common.ErrorResponse
//	@Failure	503		{object}	common.ErrorResponse
//	@Router		/api/chat [post]
func (h *ChatHandlers) Chat(c echo.Context) error {
	rc, err := identity(c)
	if err != nil {
		return err
	}

	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	reply, err := h.chatService.Chat(c.Request().Context(), rc.Email, req.Message, req.Context)
	if err != nil {
		return toHTTPError(err, "Not found")
	}
	return c.JSON(http.StatusOK, reply)
}
