package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"company_research/internal/app/config"
)

var rootArgs struct {
	envFile string
	debug   bool
}

var rootCmd = &cobra.Command{
	Use:   "research",
	Short: "Research companies listed in a spreadsheet and write AI-generated summaries back",
	Long: "research reads company names from a Google Sheets worksheet, asks Gemini for a structured\n" +
		"research summary of each company, and writes the summaries with extracted metadata to a new worksheet.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	// サブコマンドなしで実行した場合はワークフローを実行する
	RunE: runWorkflow,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootArgs.envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().BoolVar(&rootArgs.debug, "debug", false, "enable debug logging")
	addRunFlags(rootCmd)

	rootCmd.AddCommand(runCmd, serveCmd, tokenCmd)
}

func setup(cmd *cobra.Command, _ []string) error {
	level := slog.LevelInfo
	if rootArgs.debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return config.LoadDotEnv(rootArgs.envFile)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errWorkflowNotCompleted) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}
