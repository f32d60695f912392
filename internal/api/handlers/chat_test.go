package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/documind/internal/api"
	"github.com/cloo-solutions/documind/internal/domain"
	"github.com/cloo-solutions/documind/internal/service"
)

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) Ask(ctx context.Context, input service.AskInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func chatRequest(t *testing.T, body interface{}) *http.Request {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/api/chat", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestChatHandler_Ask_Success(t *testing.T) {
	svc := new(MockChatService)
	handler := NewChatHandler(svc, "en")

	svc.On("Ask", mock.Anything, service.AskInput{Question: "What is the warranty?"}).
		Return("24 months.", nil)

	rec := httptest.NewRecorder()
	handler.Ask(rec, chatRequest(t, ChatRequest{Question: "What is the warranty?"}))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data ChatResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "24 months.", resp.Data.Answer)
	svc.AssertExpectations(t)
}

func TestChatHandler_Ask_InvalidBody(t *testing.T) {
	svc := new(MockChatService)
	handler := NewChatHandler(svc, "en")

	req := httptest.NewRequest("POST", "/api/chat", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	handler.Ask(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Ask")
}

func TestChatHandler_Ask_EmptyQuestion(t *testing.T) {
	svc := new(MockChatService)
	handler := NewChatHandler(svc, "en")

	svc.On("Ask", mock.Anything, mock.Anything).Return("", domain.ErrEmptyQuestion)

	rec := httptest.NewRecorder()
	handler.Ask(rec, chatRequest(t, ChatRequest{Question: "  "}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatHandler_Ask_NoRelevantContext_LocalizedEnglish(t *testing.T) {
	svc := new(MockChatService)
	handler := NewChatHandler(svc, "en")

	svc.On("Ask", mock.Anything, mock.Anything).Return("", domain.ErrNoRelevantContext)

	rec := httptest.NewRecorder()
	handler.Ask(rec, chatRequest(t, ChatRequest{Question: "off topic"}))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, noInfoMessages["en"], resp.Error)
}

func TestChatHandler_Ask_NoGroundedAnswer_LocalizedSpanish(t *testing.T) {
	svc := new(MockChatService)
	handler := NewChatHandler(svc, "en")

	svc.On("Ask", mock.Anything, service.AskInput{Question: "fuera de tema", Language: "es"}).
		Return("", domain.ErrNoGroundedAnswer)

	rec := httptest.NewRecorder()
	handler.Ask(rec, chatRequest(t, ChatRequest{Question: "fuera de tema", Language: "es"}))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, noInfoMessages["es"], resp.Error)
}

func TestChatHandler_Ask_UnknownLanguageFallsBackToEnglish(t *testing.T) {
	svc := new(MockChatService)
	handler := NewChatHandler(svc, "en")

	svc.On("Ask", mock.Anything, mock.Anything).Return("", domain.ErrNoRelevantContext)

	rec := httptest.NewRecorder()
	handler.Ask(rec, chatRequest(t, ChatRequest{Question: "q", Language: "fr"}))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, noInfoMessages["en"], resp.Error)
}

func TestChatHandler_Ask_ModelFailure(t *testing.T) {
	svc := new(MockChatService)
	handler := NewChatHandler(svc, "en")

	svc.On("Ask", mock.Anything, mock.Anything).
		Return("", domain.NewDomainError(domain.ErrCodeModelFailure, "chat completion failed"))

	rec := httptest.NewRecorder()
	handler.Ask(rec, chatRequest(t, ChatRequest{Question: "q"}))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
