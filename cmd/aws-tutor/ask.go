package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"aws-tutor/internal/fetcher"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the tutor API one question and print the answer",
	Long: `Posts the question to BACKEND_URL/chat exactly as the web UI does and prints
whatever the UI would display, including the fallback message on failure.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	f := fetcher.New(cfg.BackendURL, logger)
	defer f.Close()

	answer := f.Ask(cmd.Context(), strings.Join(args, " "))
	fmt.Fprintln(cmd.OutOrStdout(), answer)
	return nil
}
