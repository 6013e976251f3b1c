package handler

import (
	"net/http"

	"pony-express/internal/middleware"
	"pony-express/internal/service"
	"pony-express/pkg/apierror"
)

type RequestHandler struct {
	chats *service.ChatService
}

func NewRequestHandler(chats *service.ChatService) *RequestHandler {
	return &RequestHandler{chats: chats}
}

// Create records the authenticated account's request to join a chat.
func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		writeError(w, apierror.TokenNotProvided())
		return
	}

	chatID, err := idParam(r, "chat_id", "chat")
	if err != nil {
		writeError(w, err)
		return
	}

	request, err := h.chats.CreateJoinRequest(r.Context(), actor, chatID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, request)
}
