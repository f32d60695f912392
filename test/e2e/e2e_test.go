//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var samplePages = []string{
	"Product Manual - Model X200",
	"The warranty period is two years from the date of purchase.",
	"For service requests contact the regional support center.",
}

func TestDocumentLifecycle(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()

	pdfBytes := minimalPDF(samplePages)
	var jobID string

	t.Run("health reports up", func(t *testing.T) {
		resp, err := env.HTTPClient.Get(env.ServerURL + "/health")
		if err != nil {
			t.Fatalf("health request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
	})

	t.Run("rejects non-PDF upload", func(t *testing.T) {
		_, code, err := env.UploadPDF("notes.txt", []byte("plain text"), "text/plain")
		if err != nil {
			t.Fatalf("upload request failed: %v", err)
		}
		if code != http.StatusUnsupportedMediaType {
			t.Fatalf("expected 415, got %d", code)
		}
	})

	t.Run("upload runs to completion", func(t *testing.T) {
		resp, code, err := env.UploadPDF("manual.pdf", pdfBytes, "application/pdf")
		if err != nil {
			t.Fatalf("upload failed: %v", err)
		}
		if code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d", code)
		}

		var result struct {
			JobID  string `json:"job_id"`
			Status string `json:"status"`
		}
		if err := json.Unmarshal(resp.Data, &result); err != nil {
			t.Fatalf("failed to parse upload response: %v", err)
		}
		if result.JobID == "" {
			t.Fatal("expected a job ID")
		}
		if result.Status != "PROCESSING" {
			t.Fatalf("expected PROCESSING, got %s", result.Status)
		}
		jobID = result.JobID

		status := env.WaitForJob(jobID, 30*time.Second)
		if status.Status != "COMPLETED" {
			t.Fatalf("expected COMPLETED, got %s (%s)", status.Status, status.Message)
		}
		if status.Progress != 100 {
			t.Fatalf("expected progress 100, got %d", status.Progress)
		}
	})

	t.Run("archives the original upload", func(t *testing.T) {
		// Archiving runs after the job is marked COMPLETED, so allow a
		// short settle window before expecting the object.
		url, err := env.S3Client.GenerateDownloadURL(env.Ctx, jobID+".pdf")
		if err != nil {
			t.Fatalf("failed to generate download URL: %v", err)
		}

		var archived []byte
		deadline := time.Now().Add(10 * time.Second)
		for time.Now().Before(deadline) {
			archived, err = env.DownloadFile(url)
			if err == nil {
				break
			}
			time.Sleep(200 * time.Millisecond)
		}
		if err != nil {
			t.Fatalf("archived object never became available: %v", err)
		}
		if !bytes.Equal(archived, pdfBytes) {
			t.Fatal("archived object does not match the uploaded PDF")
		}
	})

	t.Run("answers a grounded question", func(t *testing.T) {
		resp, code, err := env.Post("/api/chat", map[string]string{
			"question": "What is the warranty period?",
		})
		if err != nil {
			t.Fatalf("chat request failed: %v", err)
		}
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d (%s)", code, resp.Error)
		}

		var result struct {
			Answer string `json:"answer"`
		}
		if err := json.Unmarshal(resp.Data, &result); err != nil {
			t.Fatalf("failed to parse chat response: %v", err)
		}
		if !strings.Contains(result.Answer, "warranty period is two years") {
			t.Fatalf("unexpected answer: %q", result.Answer)
		}
	})

	t.Run("refuses when the model finds nothing", func(t *testing.T) {
		resp, code, err := env.Post("/api/chat", map[string]string{
			"question": "What is on the moon?",
		})
		if err != nil {
			t.Fatalf("chat request failed: %v", err)
		}
		if code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", code)
		}
		if !strings.Contains(resp.Error, "No information related to the question") {
			t.Fatalf("unexpected refusal message: %q", resp.Error)
		}
	})

	t.Run("localizes the refusal", func(t *testing.T) {
		resp, code, err := env.Post("/api/chat", map[string]string{
			"question": "What is on the moon?",
			"language": "es",
		})
		if err != nil {
			t.Fatalf("chat request failed: %v", err)
		}
		if code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", code)
		}
		if !strings.Contains(resp.Error, "No se encontró") {
			t.Fatalf("expected Spanish refusal, got %q", resp.Error)
		}
	})

	t.Run("unknown job returns not found", func(t *testing.T) {
		_, code, err := env.Get("/api/docs/status/no-such-job")
		if err != nil {
			t.Fatalf("status request failed: %v", err)
		}
		if code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", code)
		}
	})

	t.Run("reset clears the knowledge base", func(t *testing.T) {
		_, code, err := env.Delete("/api/docs/")
		if err != nil {
			t.Fatalf("reset request failed: %v", err)
		}
		if code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", code)
		}

		_, code, err = env.Get("/api/docs/status/" + jobID)
		if err != nil {
			t.Fatalf("status request failed: %v", err)
		}
		if code != http.StatusNotFound {
			t.Fatalf("expected job to be forgotten after reset, got %d", code)
		}

		_, code, err = env.Post("/api/chat", map[string]string{
			"question": "What is the warranty period?",
		})
		if err != nil {
			t.Fatalf("chat request failed: %v", err)
		}
		if code != http.StatusNotFound {
			t.Fatalf("expected 404 on empty store, got %d", code)
		}
	})
}

func TestCLIWorkflow(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()
	env.BuildBinaries()

	workDir := t.TempDir()
	pdfPath := filepath.Join(workDir, "manual.pdf")
	if err := os.WriteFile(pdfPath, minimalPDF(samplePages), 0o644); err != nil {
		t.Fatalf("failed to write test PDF: %v", err)
	}

	t.Run("upload --wait polls to completion", func(t *testing.T) {
		out, err := env.RunDocumind(workDir, "upload", pdfPath, "--wait", "--poll-interval", "200ms")
		if err != nil {
			t.Fatalf("upload failed: %v\n%s", err, out)
		}
		if !strings.Contains(out, "COMPLETED") {
			t.Fatalf("expected COMPLETED in output, got:\n%s", out)
		}
	})

	t.Run("ask prints the answer", func(t *testing.T) {
		out, err := env.RunDocumind(workDir, "ask", "What", "is", "the", "warranty", "period?")
		if err != nil {
			t.Fatalf("ask failed: %v\n%s", err, out)
		}
		if !strings.Contains(out, "warranty period is two years") {
			t.Fatalf("unexpected answer output:\n%s", out)
		}
	})

	t.Run("ask prints the refusal as a normal result", func(t *testing.T) {
		out, err := env.RunDocumind(workDir, "ask", "What", "is", "on", "the", "moon?")
		if err != nil {
			t.Fatalf("ask failed: %v\n%s", err, out)
		}
		if !strings.Contains(out, "No information related to the question") {
			t.Fatalf("expected refusal message in output:\n%s", out)
		}
	})

	t.Run("rejects non-PDF paths before uploading", func(t *testing.T) {
		txtPath := filepath.Join(workDir, "notes.txt")
		if err := os.WriteFile(txtPath, []byte("plain"), 0o644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		out, err := env.RunDocumind(workDir, "upload", txtPath)
		if err == nil {
			t.Fatalf("expected upload to fail, got:\n%s", out)
		}
		if !strings.Contains(out, "only PDF files are supported") {
			t.Fatalf("unexpected error output:\n%s", out)
		}
	})

	t.Run("reset --force wipes the store", func(t *testing.T) {
		out, err := env.RunDocumind(workDir, "reset", "--force")
		if err != nil {
			t.Fatalf("reset failed: %v\n%s", err, out)
		}
		if !strings.Contains(out, "Knowledge base reset.") {
			t.Fatalf("unexpected reset output:\n%s", out)
		}

		out, err = env.RunDocumind(workDir, "ask", "What", "is", "the", "warranty", "period?")
		if err != nil {
			t.Fatalf("ask failed: %v\n%s", err, out)
		}
		if !strings.Contains(out, "No information related to the question") {
			t.Fatalf("expected empty-store refusal, got:\n%s", out)
		}
	})
}
