package domain

// Metadata keys attached to extracted pages and chunks
const (
	MetaPageNumber = "page_number"
	MetaSource     = "source"
)

// Page is one extracted unit of source text with its metadata
type Page struct {
	Text     string
	Metadata map[string]string
}

// Chunk is the unit of retrievable text stored in the vector index.
// Text is always non-blank and trimmed; Metadata is carried from the
// source page and immutable after creation.
type Chunk struct {
	Text     string
	Metadata map[string]string
}

// ChunkEmbedding pairs a chunk with its embedding vector for persistence
type ChunkEmbedding struct {
	Chunk
	Embedding []float32
}

// ScoredChunk is a chunk returned by similarity search with its
// relevance score
type ScoredChunk struct {
	Chunk
	Score float32
}
