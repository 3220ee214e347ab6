package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"kalebbot/internal/adapter/embedding"
	"kalebbot/internal/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web dashboard and API",
	Long: `Serve the HTTP API used by the dashboard: chat, knowledge search,
document upload and reindexing.

Example:
  kalebbot serve --addr :5001`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	retriever := newRetriever()
	router, repo, err := newAssistant(retriever)
	if err != nil {
		return err
	}
	defer repo.Close()

	embedder, err := embedding.NewFromConfig(cfg.Embedding)
	if err != nil {
		return err
	}

	handler := api.NewHandler(
		router,
		retriever,
		newBuilder(embedder),
		retriever,
		cfg.CorpusPath(rootDir),
		log,
	)

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	srv := api.NewServer(addr, api.SetupRouter(handler, log), log)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
