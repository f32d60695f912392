package service

import (
	"context"
	"strings"

	"github.com/cloo-solutions/documind/internal/domain"
	"github.com/cloo-solutions/documind/internal/telemetry"
)

// VectorSearcherInterface defines the similarity-search capability
type VectorSearcherInterface interface {
	SearchByEmbedding(ctx context.Context, embedding []float32, threshold float32, limit int) ([]domain.ScoredChunk, error)
}

// ChatClient defines the chat-completion capability
type ChatClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// ChatConfig controls retrieval and prompting for the query engine
type ChatConfig struct {
	TopK                int
	SimilarityThreshold float32
	DefaultLanguage     string
	MaxAnswerWords      int
}

// DefaultChatConfig provides sane defaults for the query engine.
func DefaultChatConfig() ChatConfig {
	return ChatConfig{
		TopK:                8,
		SimilarityThreshold: 0.45,
		DefaultLanguage:     "en",
		MaxAnswerWords:      DefaultMaxAnswerWords,
	}
}

// ChatService answers questions strictly grounded in the vector index
type ChatService struct {
	embedder EmbeddingClient
	searcher VectorSearcherInterface
	chat     ChatClient
	cfg      ChatConfig
}

// NewChatService creates a new ChatService instance
func NewChatService(
	embedder EmbeddingClient,
	searcher VectorSearcherInterface,
	chat ChatClient,
	cfg ChatConfig,
) *ChatService {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultChatConfig().TopK
	}
	if cfg.SimilarityThreshold <= 0 {
		cfg.SimilarityThreshold = DefaultChatConfig().SimilarityThreshold
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = DefaultChatConfig().DefaultLanguage
	}
	return &ChatService{
		embedder: embedder,
		searcher: searcher,
		chat:     chat,
		cfg:      cfg,
	}
}

// AskInput carries one question and an optional language code
type AskInput struct {
	Question string
	Language string
}

// Ask retrieves context for the question and prompts the chat model. Empty
// retrieval short-circuits with ErrNoRelevantContext before the model is
// ever called; a model refusal maps to ErrNoGroundedAnswer. Both are
// negative results, not failures, and surface identically to callers.
func (s *ChatService) Ask(ctx context.Context, input AskInput) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "ChatService.Ask", telemetry.SpanAttributes{
		Operation: "ask",
	})
	defer span.End()

	question := strings.TrimSpace(input.Question)
	if question == "" {
		return "", domain.ErrEmptyQuestion
	}

	chunks, err := s.retrieve(ctx, question)
	if err != nil {
		return "", err
	}
	if len(chunks) == 0 {
		return "", domain.ErrNoRelevantContext
	}

	language := strings.TrimSpace(input.Language)
	if language == "" {
		language = s.cfg.DefaultLanguage
	}

	prompt := BuildPrompt(chunks, question, language, s.cfg.MaxAnswerWords)

	raw, err := s.chat.Complete(ctx, prompt.System, prompt.User)
	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeModelFailure, "chat completion failed", err)
	}

	answer, ok := ProcessAnswer(raw, NoInfoMarker)
	if !ok {
		return "", domain.ErrNoGroundedAnswer
	}

	return answer, nil
}

// retrieve embeds the question and runs similarity search with the
// configured topK and threshold. An empty result is a normal outcome.
func (s *ChatService) retrieve(ctx context.Context, question string) ([]domain.ScoredChunk, error) {
	embedding, err := s.embedder.GenerateEmbedding(ctx, question)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeStoreFailure, "failed to embed question", err)
	}

	chunks, err := s.searcher.SearchByEmbedding(ctx, embedding, s.cfg.SimilarityThreshold, s.cfg.TopK)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeStoreFailure, "similarity search failed", err)
	}

	return chunks, nil
}
