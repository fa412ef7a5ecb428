package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/cobra"

	httpadapter "github.com/fredcamaral/deckgen/internal/adapters/primary/http"
	"github.com/fredcamaral/deckgen/internal/adapters/secondary/browser"
	"github.com/fredcamaral/deckgen/internal/adapters/secondary/monitoring"
	"github.com/fredcamaral/deckgen/internal/adapters/secondary/textinput"
	"github.com/fredcamaral/deckgen/internal/adapters/secondary/watcher"
	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
	"github.com/fredcamaral/deckgen/internal/domain/services"
)

const templateDebounce = 250 * time.Millisecond

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the deckgen web UI",
	Long: `Start a local HTTP server with the deckgen editor. Pick a topic,
generate and edit the outline, then generate slides and download the
.pptx. Progress is pushed to the browser over a WebSocket.

Example:
  deckgen serve
  deckgen serve --port 8080 --no-browser
  deckgen serve --provider mock`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 0, "Port to serve on (overrides config)")
	serveCmd.Flags().String("host", "", "Host to bind to (overrides config)")
	serveCmd.Flags().Bool("no-browser", false, "Don't open browser automatically (overrides config)")
}

// validateServeConfig validates configuration after it's loaded
func validateServeConfig(config *entities.Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", config.Server.Port)
	}

	if strings.ContainsAny(config.Server.Host, " !") {
		return fmt.Errorf("invalid host: %s", config.Server.Host)
	}

	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, dir, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := validateServeConfig(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a, err := newApp(ctx, cfg, dir)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.logger.Warn("closing history: %v", err)
		}
	}()

	monitor := monitoring.NewPerformanceMonitor(nil)
	monitor.Start(ctx)
	defer monitor.Stop()

	server := httpadapter.NewServer(httpadapter.Dependencies{
		Presets:  a.catalog,
		Template: a.exporter,
		History:  a.decks,
		Metrics:  monitor,
		SaveDir:  dir,
		Version:  Version,
	}, &cfg.Server, a.logger.Named("http"))
	publisher := monitor.Wrap(server)

	workspace := services.NewWorkspace(services.WorkspaceDeps{
		Outline:   a.outline,
		Content:   a.content,
		Decks:     a.decks,
		Extractor: textinput.NewExtractor(),
		Publisher: publisher,
		Logger:    a.logger.Named("workspace"),
	})
	server.SetWorkspace(workspace)

	workspaceDone := make(chan struct{})
	go func() {
		workspace.Run(ctx)
		close(workspaceDone)
	}()

	if cfg.Export.WatchTemplate {
		startTemplateMonitor(ctx, a, publisher)
	}

	if err := server.Start(ctx, cfg.Server.Port, cfg.Server.Host); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}

	url := "http://" + net.JoinHostPort(displayHost(cfg.Server.Host), fmt.Sprint(cfg.Server.Port))
	a.logger.Success("deckgen is running at %s", url)
	fmt.Fprintf(cmd.OutOrStdout(), "deckgen is running at %s (Ctrl+C to stop)\n", url)

	launcher := browser.NewLauncher(cfg.Browser.Browser)
	if err := launcher.Launch(url, !cfg.Browser.AutoOpen); err != nil {
		a.logger.Warn("could not open browser: %v", err)
	}

	<-ctx.Done()
	a.logger.Info("shutting down")

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.Server.GetShutdownTimeout())
	defer stop()
	stopErr := server.Stop(shutdownCtx)

	cancel()
	<-workspaceDone

	if stopErr != nil && !errors.Is(stopErr, context.Canceled) {
		return stopErr
	}
	return nil
}

// startTemplateMonitor pushes template_changed events while ctx is live
func startTemplateMonitor(ctx context.Context, a *app, publisher ports.EventPublisher) {
	poller := watcher.NewPollingWatcher(a.cfg.Export.GetPollInterval(), templateDebounce, a.logger.Named("watcher"))
	monitor := services.NewTemplateMonitor(poller, a.exporter, publisher, nil, a.logger.Named("template"))

	go func() {
		defer func() { _ = poller.Stop() }()
		if err := monitor.Run(ctx, a.exporter.TemplatePath()); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Warn("template watcher stopped: %v", err)
		}
	}()
}

// displayHost maps wildcard binds to an address a browser can open
func displayHost(host string) string {
	switch host {
	case "", "0.0.0.0", "::":
		return "localhost"
	default:
		return host
	}
}
