package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cloo-solutions/documind/internal/api"
	"github.com/cloo-solutions/documind/internal/domain"
	"github.com/cloo-solutions/documind/internal/service"
)

// DocumentService defines the ingestion operations the handler needs
type DocumentService interface {
	Submit(ctx context.Context, input service.SubmitInput) (string, error)
	Status(jobID string) domain.Job
	Reset(ctx context.Context) error
}

type DocumentHandler struct {
	svc DocumentService
}

func NewDocumentHandler(svc DocumentService) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

type UploadResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

type JobStatusResponse struct {
	JobID    string `json:"job_id"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Message  string `json:"message,omitempty"`
}

// Upload accepts a multipart PDF upload and returns 202 with the job ID.
// Validation failures (wrong media type, empty file) are synchronous.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	jobID, err := h.svc.Submit(r.Context(), service.SubmitInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusAccepted, UploadResponse{
		JobID:  jobID,
		Status: string(domain.JobStateProcessing),
	})
}

// Status reports ingestion progress for a job ID
func (h *DocumentHandler) Status(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	job := h.svc.Status(jobID)
	if job.State == domain.JobStateNotFound {
		api.Error(w, http.StatusNotFound, "job not found")
		return
	}

	api.Success(w, http.StatusOK, JobStatusResponse{
		JobID:    job.ID,
		Status:   string(job.State),
		Progress: job.Progress,
		Message:  job.Message,
	})
}

// Reset clears the vector store and all job state
func (h *DocumentHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Reset(r.Context()); err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusNoContent, nil)
}
