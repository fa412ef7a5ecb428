package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fredcamaral/deckgen/internal/domain/services"
)

// outlineCmd represents the outline command
var outlineCmd = &cobra.Command{
	Use:   "outline [topic...]",
	Short: "Print the slide topics for a presentation",
	Long: `Draft the slide outline for a topic and print it as YAML (or JSON
with --json). Nothing is exported.

Example:
  deckgen outline "Introduction to Go" --slides 6
  deckgen outline --from-file brief.md --json`,
	RunE: runOutline,
}

func init() {
	rootCmd.AddCommand(outlineCmd)
	addPresentationFlags(outlineCmd)

	outlineCmd.Flags().Bool("json", false, "Print JSON instead of YAML")
}

func runOutline(cmd *cobra.Command, args []string) error {
	cfg, dir, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// outline never exports
	cfg.Storage.Enabled = false

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg, dir)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	pres, err := presentationFromFlags(ctx, cmd, args, dir, a.catalog)
	if err != nil {
		return err
	}

	topics := a.outline.GenerateOutline(ctx, services.OutlineRequest{
		Topic:      pres.Topic,
		SlideCount: pres.SlideCount,
		Context:    pres.Context(),
	})
	if err := ctx.Err(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(topics)
	}

	data, err := yaml.Marshal(topics)
	if err != nil {
		return fmt.Errorf("encoding outline: %w", err)
	}
	_, err = out.Write(data)
	return err
}
