package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cloo-solutions/documind/internal/api"
	"github.com/cloo-solutions/documind/internal/domain"
	"github.com/cloo-solutions/documind/internal/service"
)

// ChatService defines the query operations the handler needs
type ChatService interface {
	Ask(ctx context.Context, input service.AskInput) (string, error)
}

type ChatHandler struct {
	svc             ChatService
	defaultLanguage string
}

func NewChatHandler(svc ChatService, defaultLanguage string) *ChatHandler {
	if defaultLanguage == "" {
		defaultLanguage = "en"
	}
	return &ChatHandler{svc: svc, defaultLanguage: defaultLanguage}
}

type ChatRequest struct {
	Question string `json:"question"`
	Language string `json:"language,omitempty"`
}

type ChatResponse struct {
	Answer string `json:"answer"`
}

// noInfoMessages are the user-facing refusal messages per language code.
// The service itself only ever deals in the internal sentinel; translation
// happens here at the boundary.
var noInfoMessages = map[string]string{
	"en": "No information related to the question was found in the ingested documents.",
	"es": "No se encontró información relacionada con la pregunta en los documentos.",
}

// Ask answers a question grounded in the ingested documents. Negative
// results (nothing retrieved, or the model declined) both map to 404 with
// a localized message.
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	answer, err := h.svc.Ask(r.Context(), service.AskInput{
		Question: req.Question,
		Language: req.Language,
	})
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == domain.ErrCodeNoRelevantContext {
			api.Error(w, http.StatusNotFound, h.noInfoMessage(req.Language))
			return
		}
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, ChatResponse{Answer: answer})
}

func (h *ChatHandler) noInfoMessage(language string) string {
	if language == "" {
		language = h.defaultLanguage
	}
	if msg, ok := noInfoMessages[language]; ok {
		return msg
	}
	return noInfoMessages["en"]
}
