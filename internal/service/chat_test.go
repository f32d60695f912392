package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/documind/internal/domain"
)

// MockVectorSearcher mocks the similarity-search repository
type MockVectorSearcher struct {
	mock.Mock
}

func (m *MockVectorSearcher) SearchByEmbedding(ctx context.Context, embedding []float32, threshold float32, limit int) ([]domain.ScoredChunk, error) {
	args := m.Called(ctx, embedding, threshold, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScoredChunk), args.Error(1)
}

// MockChatClient mocks the chat-completion client
type MockChatClient struct {
	mock.Mock
}

func (m *MockChatClient) Complete(ctx context.Context, system, user string) (string, error) {
	args := m.Called(ctx, system, user)
	return args.String(0), args.Error(1)
}

func newTestChatService(embedder *MockEmbeddingClient, searcher *MockVectorSearcher, chat *MockChatClient) *ChatService {
	return NewChatService(embedder, searcher, chat, ChatConfig{
		TopK:                8,
		SimilarityThreshold: 0.45,
		DefaultLanguage:     "en",
		MaxAnswerWords:      50,
	})
}

func relevantChunks() []domain.ScoredChunk {
	return []domain.ScoredChunk{
		{Chunk: domain.Chunk{Text: "The warranty period is 24 months."}, Score: 0.91},
		{Chunk: domain.Chunk{Text: "Warranty claims require the receipt."}, Score: 0.72},
	}
}

func TestChatService_Ask_Success(t *testing.T) {
	embedder := new(MockEmbeddingClient)
	searcher := new(MockVectorSearcher)
	chat := new(MockChatClient)
	svc := newTestChatService(embedder, searcher, chat)

	ctx := context.Background()
	embedding := make([]float32, 1536)

	embedder.On("GenerateEmbedding", ctx, "What is the warranty period?").Return(embedding, nil)
	searcher.On("SearchByEmbedding", ctx, embedding, float32(0.45), 8).Return(relevantChunks(), nil)
	chat.On("Complete", mock.Anything, mock.Anything, "What is the warranty period?").
		Return("24 months.", nil)

	answer, err := svc.Ask(ctx, AskInput{Question: "What is the warranty period?"})

	require.NoError(t, err)
	assert.Equal(t, "24 months.", answer)
	embedder.AssertExpectations(t)
	searcher.AssertExpectations(t)
	chat.AssertExpectations(t)
}

func TestChatService_Ask_EmptyQuestion(t *testing.T) {
	embedder := new(MockEmbeddingClient)
	searcher := new(MockVectorSearcher)
	chat := new(MockChatClient)
	svc := newTestChatService(embedder, searcher, chat)

	_, err := svc.Ask(context.Background(), AskInput{Question: "   "})

	assert.ErrorIs(t, err, domain.ErrEmptyQuestion)
	embedder.AssertNotCalled(t, "GenerateEmbedding")
}

func TestChatService_Ask_NoResultsSkipsModel(t *testing.T) {
	embedder := new(MockEmbeddingClient)
	searcher := new(MockVectorSearcher)
	chat := new(MockChatClient)
	svc := newTestChatService(embedder, searcher, chat)

	embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(make([]float32, 1536), nil)
	searcher.On("SearchByEmbedding", mock.Anything, mock.Anything, float32(0.45), 8).
		Return([]domain.ScoredChunk{}, nil)

	_, err := svc.Ask(context.Background(), AskInput{Question: "anything relevant?"})

	assert.ErrorIs(t, err, domain.ErrNoRelevantContext)
	// Empty retrieval short-circuits; the model is never consulted
	chat.AssertNotCalled(t, "Complete")
}

func TestChatService_Ask_ModelRefusal(t *testing.T) {
	embedder := new(MockEmbeddingClient)
	searcher := new(MockVectorSearcher)
	chat := new(MockChatClient)
	svc := newTestChatService(embedder, searcher, chat)

	embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(make([]float32, 1536), nil)
	searcher.On("SearchByEmbedding", mock.Anything, mock.Anything, float32(0.45), 8).
		Return(relevantChunks(), nil)
	chat.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return(NoInfoMarker, nil)

	_, err := svc.Ask(context.Background(), AskInput{Question: "something off-topic"})

	assert.ErrorIs(t, err, domain.ErrNoGroundedAnswer)
}

func TestChatService_Ask_EmbeddingFailure(t *testing.T) {
	embedder := new(MockEmbeddingClient)
	searcher := new(MockVectorSearcher)
	chat := new(MockChatClient)
	svc := newTestChatService(embedder, searcher, chat)

	embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).
		Return(nil, errors.New("rate limit exceeded"))

	_, err := svc.Ask(context.Background(), AskInput{Question: "q"})

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeStoreFailure, domainErr.Code)
	searcher.AssertNotCalled(t, "SearchByEmbedding")
}

func TestChatService_Ask_SearchFailure(t *testing.T) {
	embedder := new(MockEmbeddingClient)
	searcher := new(MockVectorSearcher)
	chat := new(MockChatClient)
	svc := newTestChatService(embedder, searcher, chat)

	embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(make([]float32, 1536), nil)
	searcher.On("SearchByEmbedding", mock.Anything, mock.Anything, float32(0.45), 8).
		Return(nil, errors.New("connection refused"))

	_, err := svc.Ask(context.Background(), AskInput{Question: "q"})

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeStoreFailure, domainErr.Code)
	chat.AssertNotCalled(t, "Complete")
}

func TestChatService_Ask_ModelFailure(t *testing.T) {
	embedder := new(MockEmbeddingClient)
	searcher := new(MockVectorSearcher)
	chat := new(MockChatClient)
	svc := newTestChatService(embedder, searcher, chat)

	embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(make([]float32, 1536), nil)
	searcher.On("SearchByEmbedding", mock.Anything, mock.Anything, float32(0.45), 8).
		Return(relevantChunks(), nil)
	chat.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("model timeout"))

	_, err := svc.Ask(context.Background(), AskInput{Question: "q"})

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeModelFailure, domainErr.Code)
}

func TestChatService_Ask_LanguageFallsBackToDefault(t *testing.T) {
	embedder := new(MockEmbeddingClient)
	searcher := new(MockVectorSearcher)
	chat := new(MockChatClient)
	svc := newTestChatService(embedder, searcher, chat)

	var systemPrompt string
	embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(make([]float32, 1536), nil)
	searcher.On("SearchByEmbedding", mock.Anything, mock.Anything, float32(0.45), 8).
		Return(relevantChunks(), nil)
	chat.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			systemPrompt = args.String(1)
		}).
		Return("an answer", nil)

	_, err := svc.Ask(context.Background(), AskInput{Question: "q"})

	require.NoError(t, err)
	assert.Contains(t, systemPrompt, `language with code "en"`)
}

func TestChatService_Ask_ExplicitLanguage(t *testing.T) {
	embedder := new(MockEmbeddingClient)
	searcher := new(MockVectorSearcher)
	chat := new(MockChatClient)
	svc := newTestChatService(embedder, searcher, chat)

	var systemPrompt string
	embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(make([]float32, 1536), nil)
	searcher.On("SearchByEmbedding", mock.Anything, mock.Anything, float32(0.45), 8).
		Return(relevantChunks(), nil)
	chat.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			systemPrompt = args.String(1)
		}).
		Return("una respuesta", nil)

	answer, err := svc.Ask(context.Background(), AskInput{Question: "q", Language: "es"})

	require.NoError(t, err)
	assert.Equal(t, "una respuesta", answer)
	assert.Contains(t, systemPrompt, `language with code "es"`)
}
