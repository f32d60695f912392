package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cloo-solutions/documind/internal/cli"
	"github.com/cloo-solutions/documind/internal/cli/client"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "documind",
		Short: "Documind CLI - Document ingestion and question answering",
		Long: `Documind CLI provides commands to ingest PDF documents and ask
questions answered strictly from their content.

Environment variables:
  DOCUMIND_API_URL   API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.UploadCmd())
	rootCmd.AddCommand(client.StatusCmd())
	rootCmd.AddCommand(client.AskCmd())
	rootCmd.AddCommand(client.ResetCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
