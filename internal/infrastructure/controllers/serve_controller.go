package controllers

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/cdlist/internal/domain/commands"
	"github.com/rios0rios0/cdlist/internal/domain/entities"
	"github.com/rios0rios0/cdlist/internal/infrastructure/server"
	"github.com/rios0rios0/cdlist/internal/infrastructure/telemetry"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// ServeController handles the "serve" subcommand.
type ServeController struct {
	workspace   *entities.Workspace
	settings    *entities.Settings
	definitions commands.Definitions
	lists       commands.Lists
	importer    commands.Import
	share       commands.Share
	metrics     *telemetry.Metrics
}

// NewServeController creates a new ServeController.
func NewServeController(
	workspace *entities.Workspace,
	settings *entities.Settings,
	definitions commands.Definitions,
	lists commands.Lists,
	importer commands.Import,
	share commands.Share,
	metrics *telemetry.Metrics,
) *ServeController {
	return &ServeController{
		workspace:   workspace,
		settings:    settings,
		definitions: definitions,
		lists:       lists,
		importer:    importer,
		share:       share,
		metrics:     metrics,
	}
}

// GetBind returns the Cobra command metadata for the serve controller.
func (it *ServeController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "serve",
		Short: "Serve the working list over HTTP",
		Long: `Start an HTTP server exposing the working list: import content, transform,
share, load shared lists, look up definitions, stream list, cache and loading
events over a WebSocket (/api/events) and expose Prometheus metrics (/metrics).`,
	}
}

// Execute runs the server until interrupted.
func (it *ServeController) Execute(cmd *cobra.Command, _ []string) {
	address, _ := cmd.Flags().GetString("address")
	if address == "" {
		address = it.settings.Server.Address
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := server.NewEventHub()
	defer hub.Close()
	defer hub.Attach(it.workspace.Bus)()
	defer attachNotices(it.workspace)()
	defer it.metrics.Attach(it.workspace)()

	//nolint:exhaustruct // Minimal Server initialization with required fields only
	httpServer := &http.Server{
		Addr: address,
		Handler: server.NewRouter(server.Dependencies{
			Workspace:   it.workspace,
			Definitions: it.definitions,
			Lists:       it.lists,
			Import:      it.importer,
			Share:       it.share,
			Hub:         hub,
			Registry:    it.metrics.Registry(),
		}),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Shutdown failed: %v", err)
		}
	}()

	logger.Infof("Serving on %s", address)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorf("Server failed: %v", err)
	}
	it.workspace.Reset()
}

// AddFlags adds the serve-specific flags to the given Cobra command.
func (it *ServeController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("address", "", "Listen address (default: server.address or :8080)")
}
