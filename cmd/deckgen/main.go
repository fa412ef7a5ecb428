package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	// Version is set during build
	Version = "dev"

	// BuildDate is set during build
	BuildDate = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "deckgen",
	Short: "Generate PowerPoint decks from a topic with an LLM",
	Long: `deckgen turns a topic into a slide deck. It drafts an outline you can
review and edit, writes the content of every slide, and exports a
16:9 .pptx built on your own template.

Run "deckgen serve" for the browser UI or "deckgen generate" for a
one-shot export.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build Date: ` + BuildDate + `
`)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("dir", "C", ".", "Working directory for deckgen.toml, .env and relative paths")
	rootCmd.PersistentFlags().String("provider", "", "LLM provider: openai, eino or mock (overrides config)")
	rootCmd.PersistentFlags().String("model", "", "Model name (overrides config)")
	rootCmd.PersistentFlags().String("template", "", "Template .pptx path (overrides config)")
	rootCmd.PersistentFlags().Bool("no-history", false, "Do not record exported decks")
}
