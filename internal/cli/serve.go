package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpadapter "github.com/couchcryptid/quake-catalogue-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/quake-catalogue-etl/internal/adapter/kafka"
	"github.com/couchcryptid/quake-catalogue-etl/internal/config"
	"github.com/couchcryptid/quake-catalogue-etl/internal/isf"
	"github.com/couchcryptid/quake-catalogue-etl/internal/observability"
	"github.com/couchcryptid/quake-catalogue-etl/internal/pipeline"
	"github.com/couchcryptid/quake-catalogue-etl/internal/spool"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the catalogue curation daemon",
	Long: `Serve watches a spool directory for incoming ISF bulletins, parses
each one, merges it into the in-memory master catalogue, and optionally
publishes the harmonized events to Kafka. Health, readiness, catalogue
summary, and Prometheus metrics are exposed over HTTP.

Configuration is read from EQCAT_* environment variables.
EQCAT_SPOOL_DIR is required.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	sel := &config.Selection{}
	if cfg.SelectionFile != "" {
		sel, err = config.LoadSelection(cfg.SelectionFile)
		if err != nil {
			return err
		}
	}
	readerCfg, err := sel.ReaderConfig()
	if err != nil {
		return err
	}
	reader, err := isf.NewReader(readerCfg)
	if err != nil {
		return err
	}

	store := pipeline.NewStore(cfg.CatalogueID, cfg.CatalogueName)

	// Publishing is feature-flagged via EQCAT_KAFKA_ENABLED.
	var publisher pipeline.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaSinkTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka publishing disabled")
	}

	p := pipeline.New(reader, store, publisher, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, store, logger)
	watcher := spool.NewWatcher(cfg.SpoolDir, cfg.SpoolDebounce, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bulletins, err := watcher.Watch(ctx)
	if err != nil {
		return err
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := p.Run(ctx, bulletins); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}
