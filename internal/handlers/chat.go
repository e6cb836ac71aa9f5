package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"aws-tutor/internal/models"
	"aws-tutor/internal/services"
)

const maxChatBody = 64 * 1024

type ChatHandler struct {
	tutor  services.Tutor
	logger *zap.Logger
}

func NewChatHandler(tutor services.Tutor, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		tutor:  tutor,
		logger: logger,
	}
}

// AskQuestion answers POST /chat. The question is passed to the tutor as
// sent; an empty question is a valid question.
func (h *ChatHandler) AskQuestion(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChatRequest(r)
	if !ok {
		resp := errorResp("VALIDATION_ERROR", "Request body must be a JSON object with a string question", r)
		resp.Error.Fields = map[string]string{"question": "required, must be a string"}
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	answer, err := h.tutor.Answer(r.Context(), req.Question)
	if err != nil {
		h.logger.Error("tutor failed to answer", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResp("AI_ERROR", "Failed to get AI response", r))
		return
	}

	if answer == "" {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Answer not found", r))
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Response: answer})
}

// decodeChatRequest requires a JSON object whose question field is present
// and is a string.
func decodeChatRequest(r *http.Request) (models.ChatRequest, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxChatBody+1))
	if err != nil || len(body) > maxChatBody {
		return models.ChatRequest{}, false
	}

	var raw struct {
		Question *string `json:"question"`
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return models.ChatRequest{}, false
	}
	if err := json.Unmarshal(body, &raw); err != nil || raw.Question == nil {
		return models.ChatRequest{}, false
	}
	return models.ChatRequest{Question: *raw.Question}, true
}
