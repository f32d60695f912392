package client

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// ResetCmd creates the reset command.
func ResetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all ingested documents and job state",
		Long:  "Delete every stored chunk and all job tracking state. This cannot be undone.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReset(cmd, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

func runReset(cmd *cobra.Command, force bool) error {
	if !force {
		fmt.Print("This deletes all ingested documents. Continue? [y/N]: ")
		reader := bufio.NewReader(os.Stdin)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	if _, err := api.Delete("/api/docs/"); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}

	fmt.Println("Knowledge base reset.")
	return nil
}
