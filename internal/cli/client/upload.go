package client

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// UploadResult represents the upload API response.
type UploadResult struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// JobStatus represents the status API response.
type JobStatus struct {
	JobID    string `json:"job_id"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Message  string `json:"message,omitempty"`
}

// UploadCmd creates the upload command.
func UploadCmd() *cobra.Command {
	var wait bool
	var pollInterval time.Duration

	cmd := &cobra.Command{
		Use:   "upload <file.pdf>",
		Short: "Upload a PDF for ingestion",
		Long: `Upload a PDF document for asynchronous ingestion.

The server responds immediately with a job ID; use 'documind status <job-id>'
to track progress, or pass --wait to poll until the job finishes.

Examples:
  documind upload report.pdf
  documind upload report.pdf --wait`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runUpload(cmd, args[0], wait, pollInterval, outputJSON)
		},
	}

	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "Poll until the job completes or fails")
	cmd.Flags().DurationVar(&pollInterval, "poll-interval", 2*time.Second, "Polling interval with --wait")

	return cmd
}

func runUpload(cmd *cobra.Command, filePath string, wait bool, pollInterval time.Duration, outputJSON bool) error {
	if !strings.HasSuffix(strings.ToLower(filePath), ".pdf") {
		return fmt.Errorf("only PDF files are supported: %s", filePath)
	}

	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.UploadPDF("/api/docs/upload", filePath)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	var result UploadResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if !wait {
		if outputJSON {
			output, _ := json.MarshalIndent(result, "", "  ")
			fmt.Println(string(output))
		} else {
			fmt.Printf("Job ID: %s\n", result.JobID)
			fmt.Printf("Status: %s\n", result.Status)
		}
		return nil
	}

	return pollJob(api, result.JobID, pollInterval, outputJSON)
}

func pollJob(api *APIClient, jobID string, interval time.Duration, outputJSON bool) error {
	for {
		status, err := fetchStatus(api, jobID)
		if err != nil {
			return err
		}

		if !outputJSON {
			fmt.Printf("%s: %d%%\n", status.Status, status.Progress)
		}

		switch status.Status {
		case "COMPLETED":
			if outputJSON {
				output, _ := json.MarshalIndent(status, "", "  ")
				fmt.Println(string(output))
			}
			return nil
		case "ERROR":
			if outputJSON {
				output, _ := json.MarshalIndent(status, "", "  ")
				fmt.Println(string(output))
			}
			return fmt.Errorf("ingestion failed: %s", status.Message)
		}

		time.Sleep(interval)
	}
}

func fetchStatus(api *APIClient, jobID string) (*JobStatus, error) {
	resp, err := api.Get("/api/docs/status/" + jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch status: %w", err)
	}

	var status JobStatus
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status response: %w", err)
	}
	return &status, nil
}
