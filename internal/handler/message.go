package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/swaps/swaps-go/internal/model"
	"github.com/swaps/swaps-go/internal/service"
)

// MessageHandler handles HTTP requests for messaging between matched users.
type MessageHandler struct {
	messages  *service.MessageService
	projector *service.Projector
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messages *service.MessageService, projector *service.Projector) *MessageHandler {
	return &MessageHandler{messages: messages, projector: projector}
}

// HandleSend handles POST /api/messages requests.
func (h *MessageHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req model.SendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg, err := h.messages.SendMessage(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.MessageEnvelope{Success: true, Message: msg})
}

// HandleConversation handles GET /api/messages/conversation/{otherUserId} requests.
func (h *MessageHandler) HandleConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	msgs, err := h.messages.GetConversation(r.Context(), userID, chi.URLParam(r, "otherUserId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ConversationMessages{Success: true, Messages: msgs})
}

// HandleConversations handles GET /api/messages/conversations requests.
func (h *MessageHandler) HandleConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	convs, err := h.projector.ListConversations(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ConversationList{Success: true, Conversations: convs})
}
