package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

// AskRequest represents the chat API request.
type AskRequest struct {
	Question string `json:"question"`
	Language string `json:"language,omitempty"`
}

// AskResult represents the chat API response.
type AskResult struct {
	Answer string `json:"answer"`
}

// AskCmd creates the ask command.
func AskCmd() *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question about the ingested documents",
		Long: `Ask a question answered strictly from the ingested documents.

Examples:
  documind ask "What is the warranty period?"
  documind ask --language es "¿Cuál es el período de garantía?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runAsk(cmd, strings.Join(args, " "), language, outputJSON)
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "Answer language code (default: server default)")

	return cmd
}

func runAsk(cmd *cobra.Command, question, language string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Post("/api/chat", AskRequest{Question: question, Language: language})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			// Negative result, not a transport failure
			fmt.Println(apiErr.Message)
			return nil
		}
		return fmt.Errorf("failed to ask: %w", err)
	}

	var result AskResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
	} else {
		fmt.Println(result.Answer)
	}

	return nil
}
