// Command fragilityd serves climate fragility assessments over HTTP:
// it reconstructs HBOM trees from flat component records, evaluates
// fragility curves against prepared climate data, and optionally publishes
// assessment summaries to Kafka.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tbphil/final-ACCLIMATE/internal/adapter/climatefile"
	"github.com/tbphil/final-ACCLIMATE/internal/adapter/hbomfile"
	httpadapter "github.com/tbphil/final-ACCLIMATE/internal/adapter/http"
	kafkaadapter "github.com/tbphil/final-ACCLIMATE/internal/adapter/kafka"
	"github.com/tbphil/final-ACCLIMATE/internal/config"
	"github.com/tbphil/final-ACCLIMATE/internal/domain"
	"github.com/tbphil/final-ACCLIMATE/internal/engine"
	"github.com/tbphil/final-ACCLIMATE/internal/observability"
	"github.com/tbphil/final-ACCLIMATE/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	selector := domain.SelectFirst
	if cfg.CurveSelection == "priority" {
		selector = domain.SelectHighestPriority
	}

	hazards := domain.DefaultHazards()
	composites := domain.NewCompositeRegistry()
	recon := domain.NewReconstructor(selector, cfg.MaxTreeDepth, logger)
	computer := engine.New(nil, logger, metrics)

	hboms := hbomfile.New(cfg.DataDir, logger)
	climate := climatefile.New(cfg.DataDir, composites, logger)

	// Summary publishing is feature-flagged via kafka_enabled.
	var publisher service.SummaryPublisher
	var kafkaWriter *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		kafkaWriter = kafkaadapter.NewWriter(cfg, logger)
		publisher = kafkaWriter
		logger.Info("summary publishing enabled", "topic", cfg.KafkaSinkTopic, "brokers", cfg.Brokers())
	} else {
		logger.Info("summary publishing disabled")
	}

	svc := service.New(hboms, climate, computer, recon, hazards, publisher, logger, metrics)
	srv := httpadapter.NewServer(cfg.Addr, svc, cfg.RequestTimeout(), logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
