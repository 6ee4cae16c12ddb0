package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"social-app/internal/model/requestresponse"
	"social-app/internal/ports"
	"social-app/internal/util"
)

// ChatHandler : история переписки, отправка сообщений идёт через websocket шлюз
type ChatHandler struct {
	chatService ports.ChatService
}

func NewChatHandler(chatService ports.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// GetChat godoc
// @Summary История личной переписки
// @Tags Chat
// @Produce json
// @Param Authorization header string true "Access токен" default(Bearer <access_token>)
// @Param userId path string true "UUID собеседника"
// @Success 200 {object} requestresponse.ChatResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/chat/{userId} [get]
func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	chat, err := h.chatService.GetChat(r.Context(), user, chi.URLParam(r, "userId"))
	if err != nil {
		util.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestresponse.ChatResponse{Data: chat})
}
