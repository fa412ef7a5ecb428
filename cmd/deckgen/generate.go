package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/deckgen/internal/adapters/secondary/presets"
	"github.com/fredcamaral/deckgen/internal/adapters/secondary/textinput"
	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/services"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate [topic...]",
	Short: "Generate a .pptx deck in one shot",
	Long: `Generate an outline, write every slide and export the deck without
opening the browser.

Example:
  deckgen generate "Renewable energy in 2030"
  deckgen generate --from-file notes.md --slides 8 --format paragraph
  deckgen generate "Quarterly review" --audience management --out review.pptx`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	addPresentationFlags(generateCmd)

	generateCmd.Flags().String("format", string(entities.ContentFormatBulleted), "Content format: bulleted_list or paragraph")
	generateCmd.Flags().String("background", entities.DefaultBackgroundColor, "Slide background colour (hex)")
	generateCmd.Flags().String("text-color", entities.DefaultTextColor, "Slide text colour (hex)")
	generateCmd.Flags().StringP("out", "o", "", "Output file or directory (default: <topic>.pptx in the working directory)")
}

// addPresentationFlags registers the flags shared by generate and outline
func addPresentationFlags(cmd *cobra.Command) {
	cmd.Flags().String("from-file", "", "Read the topic from a .txt or .md file")
	cmd.Flags().IntP("slides", "n", entities.DefaultSlideCount, "Number of slides")
	cmd.Flags().String("audience", entities.DefaultAudience, "Audience preset key")
	cmd.Flags().String("tone", entities.DefaultTone, "Tone preset key")
	cmd.Flags().String("scene", entities.DefaultScene, "Scene preset key")
}

// presentationFromFlags builds the presentation config from args and flags
func presentationFromFlags(ctx context.Context, cmd *cobra.Command, args []string, dir string, catalog *presets.Catalog) (entities.PresentationConfig, error) {
	cfg := entities.DefaultPresentationConfig()

	topic, err := readTopic(ctx, cmd, args, dir)
	if err != nil {
		return cfg, err
	}
	cfg.Topic = topic

	slides, _ := cmd.Flags().GetInt("slides")
	cfg.SlideCount = entities.ParseSlideCount(fmt.Sprint(slides))

	cfg.Audience, _ = cmd.Flags().GetString("audience")
	cfg.Tone, _ = cmd.Flags().GetString("tone")
	cfg.Scene, _ = cmd.Flags().GetString("scene")

	switch {
	case !catalog.HasAudience(cfg.Audience):
		return cfg, fmt.Errorf("unknown audience %q", cfg.Audience)
	case !catalog.HasTone(cfg.Tone):
		return cfg, fmt.Errorf("unknown tone %q", cfg.Tone)
	case !catalog.HasScene(cfg.Scene):
		return cfg, fmt.Errorf("unknown scene %q", cfg.Scene)
	}

	if f := cmd.Flags().Lookup("format"); f != nil {
		cfg.ContentFormat = entities.ContentFormat(f.Value.String()).Normalize()
	}
	if f := cmd.Flags().Lookup("background"); f != nil {
		cfg.BackgroundColor = f.Value.String()
	}
	if f := cmd.Flags().Lookup("text-color"); f != nil {
		cfg.TextColor = f.Value.String()
	}
	if err := cfg.Style().Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// readTopic takes the topic from --from-file or the positional arguments
func readTopic(ctx context.Context, cmd *cobra.Command, args []string, dir string) (string, error) {
	fromFile, _ := cmd.Flags().GetString("from-file")
	if fromFile != "" {
		if len(args) > 0 {
			return "", fmt.Errorf("use either a topic or --from-file, not both")
		}
		path := resolvePath(dir, fromFile)
		data, err := os.ReadFile(path) // #nosec G304 - user supplied input file
		if err != nil {
			return "", fmt.Errorf("reading topic file: %w", err)
		}
		topic, err := textinput.NewExtractor().Extract(ctx, filepath.Base(path), data)
		if err != nil {
			return "", fmt.Errorf("reading topic file %s: %w", fromFile, err)
		}
		return topic, nil
	}

	topic := strings.TrimSpace(strings.Join(args, " "))
	if topic == "" {
		return "", entities.ErrEmptyTopic
	}
	return topic, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, dir, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg, dir)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.logger.Warn("closing history: %v", err)
		}
	}()

	pres, err := presentationFromFlags(ctx, cmd, args, dir, a.catalog)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Drafting %d slide topics...\n", pres.SlideCount)
	topics := a.outline.GenerateOutline(ctx, services.OutlineRequest{
		Topic:      pres.Topic,
		SlideCount: pres.SlideCount,
		Context:    pres.Context(),
	})
	if err := ctx.Err(); err != nil {
		return err
	}

	fmt.Fprintf(out, "Writing %d slides...\n", len(topics))
	records := a.content.GenerateContent(ctx, services.ContentRequest{
		Topics:  topics,
		Format:  pres.ContentFormat,
		Context: pres.Context(),
	})
	if err := ctx.Err(); err != nil {
		return err
	}

	deck, err := a.decks.BuildDeck(ctx, pres.Topic, records, pres.Style())
	if err != nil {
		return err
	}

	outFlag, _ := cmd.Flags().GetString("out")
	path := outputPath(dir, outFlag, deck.Filename)
	if err := os.WriteFile(path, deck.Data, 0o600); err != nil {
		return fmt.Errorf("writing deck: %w", err)
	}

	a.logger.Success("wrote %s", path)
	fmt.Fprintf(out, "Saved %d slides to %s\n", deck.SlideCount, path)
	return nil
}

// outputPath resolves --out against dir. A directory target gets the deck's filename.
func outputPath(dir, out, filename string) string {
	if out == "" {
		return filepath.Join(dir, filename)
	}
	path := resolvePath(dir, out)
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, filename)
	}
	return path
}
