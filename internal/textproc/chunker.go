package textproc

import (
	"strings"
	"unicode"

	"github.com/cloo-solutions/documind/internal/domain"
)

// ChunkConfig controls how page text is split into retrievable chunks.
type ChunkConfig struct {
	Size      int
	Overlap   int
	MinSize   int
	MaxChunks int
}

// DefaultChunkConfig provides sane defaults for chunking.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		Size:      800,
		Overlap:   200,
		MinSize:   5,
		MaxChunks: 10000,
	}
}

// ChunkPages splits normalized pages into chunks. Ordering is
// deterministic: source-page order first, then intra-page split order.
// Page metadata is copied onto every chunk derived from that page. A page
// shorter than MinSize still yields exactly one chunk; blank pages yield
// none.
func ChunkPages(pages []domain.Page, cfg ChunkConfig) []domain.Chunk {
	if cfg.Size <= 0 {
		cfg = DefaultChunkConfig()
	}

	chunks := make([]domain.Chunk, 0, len(pages))
	for _, page := range pages {
		for _, text := range splitText(page.Text, cfg) {
			if cfg.MaxChunks > 0 && len(chunks) >= cfg.MaxChunks {
				return chunks
			}
			chunks = append(chunks, domain.Chunk{
				Text:     text,
				Metadata: cloneMetadata(page.Metadata),
			})
		}
	}
	return chunks
}

// splitText cuts text into overlapping chunks of at most cfg.Size runes,
// preferring to break on whitespace past cfg.MinSize. Every returned chunk
// is trimmed and non-blank.
func splitText(text string, cfg ChunkConfig) []string {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return nil
	}
	runes := []rune(clean)
	if len(runes) <= cfg.Size {
		return []string{clean}
	}

	chunks := make([]string, 0, 8)
	start := 0
	for start < len(runes) {
		end := start + cfg.Size
		if end > len(runes) {
			end = len(runes)
		}

		if end < len(runes) {
			cut := end
			minCut := start + cfg.MinSize
			if minCut > end {
				minCut = start
			}
			for i := end; i > minCut; i-- {
				if unicode.IsSpace(runes[i-1]) {
					cut = i
					break
				}
			}
			end = cut
		}

		if end <= start {
			break
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end >= len(runes) {
			break
		}

		nextStart := end
		if cfg.Overlap > 0 && end-start > cfg.Overlap {
			nextStart = end - cfg.Overlap
		}
		if nextStart <= start {
			nextStart = end
		}
		start = nextStart
	}

	return chunks
}

func cloneMetadata(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
