package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage deckgen configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write the default configuration to the global config file
(~/.config/deckgen/config.toml), or to ./deckgen.toml with --local.
Existing files are left alone unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration after defaults, config files, environment
and flags are merged. API keys are never printed.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd)

	configInitCmd.Flags().Bool("local", false, "Write deckgen.toml in the working directory")
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")

	configShowCmd.Flags().String("format", "toml", "Output format: toml or yaml")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	dir, err := workDir(cmd)
	if err != nil {
		return err
	}

	local, _ := cmd.Flags().GetBool("local")
	force, _ := cmd.Flags().GetBool("force")

	svc := newConfigService()
	path := svc.ConfigPath(local, dir)
	if err := svc.InitConfig(cmd.Context(), path, force); err != nil {
		if errors.Is(err, entities.ErrConfigExists) {
			return fmt.Errorf("%w (use --force to overwrite)", err)
		}
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	loaded, _, err := loadLayeredConfig(cmd)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# sources: %s\n", strings.Join(loaded.Sources, ", "))
	return writeConfig(out, loaded.Config, format)
}

// writeConfig encodes cfg as toml or yaml. Both use the toml key names.
func writeConfig(w io.Writer, cfg *entities.Config, format string) error {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = "  "
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	switch format {
	case "toml", "":
		_, err := w.Write(buf.Bytes())
		return err
	case "yaml", "yml":
		var tree map[string]interface{}
		if _, err := toml.Decode(buf.String(), &tree); err != nil {
			return fmt.Errorf("re-reading config: %w", err)
		}
		data, err := yaml.Marshal(tree)
		if err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown format %q (want toml or yaml)", format)
	}
}
