package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/symptomlab/triagent/internal/engine"
	"github.com/symptomlab/triagent/internal/model"
	"github.com/symptomlab/triagent/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serve exposes symptom analysis over HTTP:
- POST /api/v1/analyze accepts a JSON symptom request
- GET /healthz reports liveness

Example:
  triagent serve
  triagent serve --addr :9090 --reasoner openai`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result caching")

	// Reasoner flags
	serveCmd.Flags().StringVar(&reasonerName, "reasoner", "", "AI reasoner provider (openai, gemini, ollama; empty = rules only)")
	serveCmd.Flags().StringVar(&reasonerModel, "model", "", "reasoner model name (provider default when empty)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := model.DefaultConfig()
	cfg.Server.Addr = serveAddr
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	if err := applyReasonerEnv(cfg, reasonerName, reasonerModel); err != nil {
		return err
	}

	eng, err := engine.New(cfg)
	if err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}

	srv := server.New(cfg.Server, eng)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		fmt.Fprintf(os.Stderr, "\nReceived %s, shutting down...\n", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
