package handler

import (
	"encoding/json"
	"net/http"

	"pony-express/internal/middleware"
	"pony-express/internal/model"
	"pony-express/internal/service"
	"pony-express/pkg/apierror"
)

type ChatHandler struct {
	chats *service.ChatService
}

func NewChatHandler(chats *service.ChatService) *ChatHandler {
	return &ChatHandler{chats: chats}
}

func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	chats, err := h.chats.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"metadata": model.Metadata{Count: len(chats)},
		"chats":    chats,
	})
}

func (h *ChatHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	chatID, err := idParam(r, "chat_id", "chat")
	if err != nil {
		writeError(w, err)
		return
	}

	chat, err := h.chats.GetByID(r.Context(), chatID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chat)
}

func (h *ChatHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		writeError(w, apierror.TokenNotProvided())
		return
	}

	defer r.Body.Close()
	var payload model.CreateChatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New(http.StatusBadRequest, "invalid_request", "Malformed JSON body"))
		return
	}

	chat, err := h.chats.Create(r.Context(), actor, payload.Name, payload.OwnerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, chat)
}

func (h *ChatHandler) Update(w http.ResponseWriter, r *http.Request) {
	chatID, err := idParam(r, "chat_id", "chat")
	if err != nil {
		writeError(w, err)
		return
	}

	defer r.Body.Close()
	var payload model.UpdateChatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New(http.StatusBadRequest, "invalid_request", "Malformed JSON body"))
		return
	}

	chat, err := h.chats.Update(r.Context(), chatID, payload.ChatName, payload.OwnerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chat)
}

func (h *ChatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	chatID, err := idParam(r, "chat_id", "chat")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.chats.Delete(r.Context(), chatID); err != nil {
		writeError(w, err)
		return
	}

	noContent(w)
}

func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	chatID, err := idParam(r, "chat_id", "chat")
	if err != nil {
		writeError(w, err)
		return
	}

	messages, err := h.chats.Messages(r.Context(), chatID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"metadata": model.Metadata{Count: len(messages)},
		"messages": messages,
	})
}

func (h *ChatHandler) Members(w http.ResponseWriter, r *http.Request) {
	chatID, err := idParam(r, "chat_id", "chat")
	if err != nil {
		writeError(w, err)
		return
	}

	members, err := h.chats.Members(r.Context(), chatID)
	if err != nil {
		writeError(w, err)
		return
	}

	public := make([]model.PublicAccount, 0, len(members))
	for _, m := range members {
		public = append(public, m.Public())
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"metadata": model.Metadata{Count: len(public)},
		"accounts": public,
	})
}

func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
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

	defer r.Body.Close()
	var payload model.CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New(http.StatusBadRequest, "invalid_request", "Malformed JSON body"))
		return
	}

	message, err := h.chats.PostMessage(r.Context(), actor, chatID, payload.AccountID, payload.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, message)
}

func (h *ChatHandler) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	chatID, err := idParam(r, "chat_id", "chat")
	if err != nil {
		writeError(w, err)
		return
	}
	messageID, err := idParam(r, "message_id", "message")
	if err != nil {
		writeError(w, err)
		return
	}

	defer r.Body.Close()
	var payload model.UpdateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New(http.StatusBadRequest, "invalid_request", "Malformed JSON body"))
		return
	}

	message, err := h.chats.UpdateMessage(r.Context(), chatID, messageID, payload.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, message)
}

func (h *ChatHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	chatID, err := idParam(r, "chat_id", "chat")
	if err != nil {
		writeError(w, err)
		return
	}
	messageID, err := idParam(r, "message_id", "message")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.chats.DeleteMessage(r.Context(), chatID, messageID); err != nil {
		writeError(w, err)
		return
	}

	noContent(w)
}

func (h *ChatHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	chatID, err := idParam(r, "chat_id", "chat")
	if err != nil {
		writeError(w, err)
		return
	}

	defer r.Body.Close()
	var payload model.AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New(http.StatusBadRequest, "invalid_request", "Malformed JSON body"))
		return
	}

	membership, alreadyMember, err := h.chats.AddMember(r.Context(), chatID, payload.AccountID)
	if err != nil {
		writeError(w, err)
		return
	}

	if alreadyMember {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Account is a member of the chat"})
		return
	}

	writeJSON(w, http.StatusCreated, membership)
}

func (h *ChatHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	chatID, err := idParam(r, "chat_id", "chat")
	if err != nil {
		writeError(w, err)
		return
	}
	accountID, err := idParam(r, "account_id", "account")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.chats.RemoveMember(r.Context(), chatID, accountID); err != nil {
		writeError(w, err)
		return
	}

	noContent(w)
}
