package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/cloo-solutions/documind/internal/domain"
	"github.com/cloo-solutions/documind/internal/jobs"
	"github.com/cloo-solutions/documind/internal/telemetry"
	"github.com/cloo-solutions/documind/internal/textproc"
)

// pdfContentType is the only accepted upload media type
const pdfContentType = "application/pdf"

// ExtractorInterface defines the text extraction capability
type ExtractorInterface interface {
	Extract(ctx context.Context, path, source string) ([]domain.Page, error)
}

// EmbeddingClient defines the interface for generating embeddings
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// VectorWriterInterface defines the vector-store operations ingestion needs
type VectorWriterInterface interface {
	InsertChunks(ctx context.Context, chunks []domain.ChunkEmbedding) error
	Truncate(ctx context.Context) error
}

// JobStoreInterface defines the job-status tracking operations
type JobStoreInterface interface {
	Create(jobID string) error
	Update(jobID string, state domain.JobState, progress int, message string) error
	Get(jobID string) domain.Job
	Clear()
}

// TaskRunner executes background tasks off the caller's goroutine
type TaskRunner interface {
	Submit(task jobs.Task)
}

// ArchiveClient stores original uploads after a successful ingest.
// Optional; a nil client disables archiving.
type ArchiveClient interface {
	StoreObject(ctx context.Context, key string, body io.Reader, contentType string) error
}

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}

// IngestConfig controls chunking and batching for the pipeline
type IngestConfig struct {
	Chunking textproc.ChunkConfig

	// EmbedBatchSize is the number of chunks embedded and stored per
	// progress update. Policy knob, not a correctness constraint.
	EmbedBatchSize int
}

// DefaultIngestConfig provides sane defaults for ingestion.
func DefaultIngestConfig() IngestConfig {
	return IngestConfig{
		Chunking:       textproc.DefaultChunkConfig(),
		EmbedBatchSize: 10,
	}
}

// IngestService orchestrates the asynchronous ingestion pipeline:
// extract, normalize, chunk, then embed and store in batches, recording
// progress in the job store as it goes.
type IngestService struct {
	extractor  ExtractorInterface
	embedder   EmbeddingClient
	vectorRepo VectorWriterInterface
	jobStore   JobStoreInterface
	runner     TaskRunner
	archive    ArchiveClient
	uuidGen    UUIDGenerator
	cfg        IngestConfig
	stagingDir string
}

// NewIngestService creates a new IngestService instance
func NewIngestService(
	extractor ExtractorInterface,
	embedder EmbeddingClient,
	vectorRepo VectorWriterInterface,
	jobStore JobStoreInterface,
	runner TaskRunner,
	cfg IngestConfig,
) *IngestService {
	return &IngestService{
		extractor:  extractor,
		embedder:   embedder,
		vectorRepo: vectorRepo,
		jobStore:   jobStore,
		runner:     runner,
		uuidGen:    &DefaultUUIDGenerator{},
		cfg:        cfg,
	}
}

// WithArchive enables best-effort archiving of original uploads
func (s *IngestService) WithArchive(archive ArchiveClient) *IngestService {
	s.archive = archive
	return s
}

// WithUUIDGen overrides the job ID generator (for testing)
func (s *IngestService) WithUUIDGen(gen UUIDGenerator) *IngestService {
	s.uuidGen = gen
	return s
}

// SubmitInput carries one uploaded document
type SubmitInput struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// Submit validates the upload, stages its bytes to a temp file, registers
// the job, and hands processing to a background worker. Validation errors
// are returned synchronously and never create a job entry.
func (s *IngestService) Submit(ctx context.Context, input SubmitInput) (string, error) {
	_, span := telemetry.StartSpan(ctx, "IngestService.Submit", telemetry.SpanAttributes{
		Source:    input.Filename,
		Operation: "submit",
	})
	defer span.End()

	if input.ContentType != pdfContentType {
		return "", domain.ErrInvalidFileType
	}

	staged, err := s.stageUpload(input.Content)
	if err != nil {
		return "", err
	}

	jobID := s.uuidGen.NewString()
	if err := s.jobStore.Create(jobID); err != nil {
		removeStagingFile(jobID, staged)
		return "", err
	}

	source := input.Filename
	s.runner.Submit(func(taskCtx context.Context) {
		s.run(taskCtx, jobID, staged, source)
	})

	return jobID, nil
}

// stageUpload copies the upload stream to a temp file so the request body
// can be released back to the caller immediately.
func (s *IngestService) stageUpload(content io.Reader) (string, error) {
	f, err := os.CreateTemp(s.stagingDir, "documind-upload-*.pdf")
	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to stage upload", err)
	}

	written, err := io.Copy(f, content)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		removeStagingFile("", f.Name())
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to stage upload", err)
	}
	if written == 0 {
		removeStagingFile("", f.Name())
		return "", domain.ErrEmptyUpload
	}

	return f.Name(), nil
}

// run executes the pipeline for one job. It owns the job's store entry
// exclusively; no other goroutine writes it. The staging file is always
// removed, success or failure.
func (s *IngestService) run(ctx context.Context, jobID, path, source string) {
	defer removeStagingFile(jobID, path)

	ctx, span := telemetry.StartSpan(ctx, "IngestService.run", telemetry.SpanAttributes{
		JobID:     jobID,
		Source:    source,
		Operation: "ingest",
	})
	defer span.End()

	pages, err := s.extractor.Extract(ctx, path, source)
	if err != nil {
		s.fail(ctx, jobID, 0, err)
		return
	}

	pages = textproc.NormalizePages(pages)
	chunks := textproc.ChunkPages(pages, s.cfg.Chunking)
	if len(chunks) == 0 {
		s.fail(ctx, jobID, 0, domain.NewDomainError(domain.ErrCodeExtractionFailure, "document produced no chunks"))
		return
	}
	log.Printf("job %s: %d pages extracted, %d chunks", jobID, len(pages), len(chunks))

	total := len(chunks)
	batchSize := s.cfg.EmbedBatchSize
	if batchSize <= 0 {
		batchSize = 1
	}

	stored := 0
	for start := 0; start < total; start += batchSize {
		end := start + batchSize
		if end > total {
			end = total
		}

		batch := make([]domain.ChunkEmbedding, 0, end-start)
		for _, chunk := range chunks[start:end] {
			embedding, err := s.embedder.GenerateEmbedding(ctx, chunk.Text)
			if err != nil {
				s.fail(ctx, jobID, progressPercent(stored, total),
					domain.NewDomainErrorWithCause(domain.ErrCodeStoreFailure, "failed to embed chunk", err))
				return
			}
			batch = append(batch, domain.ChunkEmbedding{Chunk: chunk, Embedding: embedding})
		}

		if err := s.vectorRepo.InsertChunks(ctx, batch); err != nil {
			s.fail(ctx, jobID, progressPercent(stored, total),
				domain.NewDomainErrorWithCause(domain.ErrCodeStoreFailure, "failed to store chunk batch", err))
			return
		}

		stored = end
		if err := s.jobStore.Update(jobID, domain.JobStateProcessing, progressPercent(stored, total), ""); err != nil {
			log.Printf("job %s: failed to update progress: %v", jobID, err)
		}
	}

	if err := s.jobStore.Update(jobID, domain.JobStateCompleted, 100, ""); err != nil {
		log.Printf("job %s: failed to mark completed: %v", jobID, err)
	}
	log.Printf("job %s: completed, %d chunks stored", jobID, total)

	s.archiveUpload(ctx, jobID, path)
}

// archiveUpload stores the original PDF after a successful ingest.
// Best-effort: failures are logged, never reflected in the job state.
func (s *IngestService) archiveUpload(ctx context.Context, jobID, path string) {
	if s.archive == nil {
		return
	}

	f, err := os.Open(path)
	if err != nil {
		log.Printf("job %s: archive skipped, cannot reopen staging file: %v", jobID, err)
		return
	}
	defer f.Close()

	key := fmt.Sprintf("%s.pdf", jobID)
	if err := s.archive.StoreObject(ctx, key, f, pdfContentType); err != nil {
		log.Printf("job %s: archive upload failed: %v", jobID, err)
		return
	}
	log.Printf("job %s: original archived as %s", jobID, key)
}

func (s *IngestService) fail(ctx context.Context, jobID string, progress int, err error) {
	log.Printf("job %s: failed: %v", jobID, err)
	telemetry.CaptureError(ctx, err)
	if updateErr := s.jobStore.Update(jobID, domain.JobStateError, progress, err.Error()); updateErr != nil {
		log.Printf("job %s: failed to record error state: %v", jobID, updateErr)
	}
}

// Status returns a snapshot of the job. Unknown IDs yield the NOT_FOUND
// sentinel, never an error.
func (s *IngestService) Status(jobID string) domain.Job {
	return s.jobStore.Get(jobID)
}

// Reset truncates the vector store and clears all job state.
func (s *IngestService) Reset(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "IngestService.Reset", telemetry.SpanAttributes{
		Operation: "reset",
	})
	defer span.End()

	if err := s.vectorRepo.Truncate(ctx); err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeStoreFailure, "failed to truncate vector store", err)
	}
	s.jobStore.Clear()
	log.Println("vector store truncated and job state cleared")
	return nil
}

func progressPercent(stored, total int) int {
	if total <= 0 {
		return 0
	}
	return stored * 100 / total
}

func removeStagingFile(jobID, path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		// Non-fatal: the job outcome does not depend on cleanup
		log.Printf("job %s: failed to remove staging file %s: %v", jobID, path, err)
	}
}
