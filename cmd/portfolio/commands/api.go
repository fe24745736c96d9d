package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jaudi/Portfolio-analysis/internal/api"
	"github.com/jaudi/Portfolio-analysis/internal/api/handlers"
	"github.com/jaudi/Portfolio-analysis/internal/external/yahoo"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health                - Health check (store and cache included)
  GET  /api/profile           - Active analysis profile
  GET  /api/instruments       - Selectable instruments
  GET  /api/periods           - Lookback options
  GET  /api/sources           - Price sources
  POST /api/analyze           - Run an analysis
  POST /api/allocation/chart  - Allocation pie chart (PNG)

Example:
  go run ./cmd/portfolio api
  go run ./cmd/portfolio api --port 8080 --source demo`,
	RunE: runAPIServer,
}

var (
	apiPort   string
	apiSource string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default: PORT)")
	apiCmd.Flags().StringVar(&apiSource, "source", yahoo.SourceName, "default price source for requests that name none")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd.Context(), setupOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	// Override port if flag is set
	if apiPort != "" {
		a.cfg.Port = apiPort
	}
	if _, err := a.sources.Get(apiSource); err != nil {
		return err
	}

	a.log.WithFields(map[string]interface{}{
		"port":    a.cfg.Port,
		"env":     a.cfg.Env,
		"profile": a.profile.Meta.ProfileID,
		"source":  apiSource,
	}).Info("Initializing API server")

	analysisHandler := handlers.NewAnalysisHandler(a.profile, a.profileHash, a.sources, apiSource, a.log)
	healthHandler := handlers.NewHealthHandler("portfolio-api", a.db, a.redis)
	router := api.NewRouter(analysisHandler, healthHandler, a.log)
	server := api.New(a.cfg, a.log, router)
	if err := server.Listen(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ Server running on http://%s (Ctrl+C to stop)\n", server.Addr())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Serve(ctx)
}
