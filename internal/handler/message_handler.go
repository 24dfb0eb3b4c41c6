package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"gatortrader/internal/service"
)

type SendMessagePayload struct {
	RecipientID int64  `json:"recipient_id" validate:"required,gt=0"`
	PostID      int64  `json:"post_id" validate:"required,gt=0"`
	Body        string `json:"message_body" validate:"required"`
}

// GetMessage handles /api/message?id=N.
func (h *Handlers) GetMessage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		WriteError(w, "message id must be numeric", http.StatusBadRequest)
		return
	}

	message, err := h.MessageService.GetMessage(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, message, http.StatusOK)
}

// PostMessages handles /api/message/all?post_id=N.
func (h *Handlers) PostMessages(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(r.URL.Query().Get("post_id"), 10, 64)
	if err != nil {
		WriteError(w, "post_id must be numeric", http.StatusBadRequest)
		return
	}

	messages, err := h.MessageService.GetPostMessages(r.Context(), postID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, messages, http.StatusOK)
}

// SendMessage creates a message about a post on behalf of the
// authenticated sender.
func (h *Handlers) SendMessage(w http.ResponseWriter, r *http.Request) {
	senderID, _ := r.Context().Value(ContextKeyUserID).(int64)
	if senderID == 0 {
		WriteError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var payload SendMessagePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(payload); err != nil {
		WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	message, err := h.MessageService.SendMessage(r.Context(), service.SendMessageRequest{
		SenderID:    senderID,
		RecipientID: payload.RecipientID,
		PostID:      payload.PostID,
		Body:        payload.Body,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, message, http.StatusCreated)
}
