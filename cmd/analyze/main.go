// Command analyze runs the bubble-front kinematics batch: it reads the
// digitized point tables from the points directory, derives per-event
// width/height series, speeds, expansion rates, and linear fits, writes
// the numeric results as CSV, and prints a run report.
//
// Configuration comes from the environment (POINTS_DIR, OUTPUT_DIR,
// WORKERS, ...); the directory settings may be overridden with flags:
//
//	go run ./cmd/analyze -points-dir output -out-dir output/derived
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/heliophys/cme-kinematics/internal/adapter/http"
	kafkaadapter "github.com/heliophys/cme-kinematics/internal/adapter/kafka"
	"github.com/heliophys/cme-kinematics/internal/adapter/table"
	"github.com/heliophys/cme-kinematics/internal/config"
	"github.com/heliophys/cme-kinematics/internal/observability"
	"github.com/heliophys/cme-kinematics/internal/pipeline"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pointsDir := flag.String("points-dir", cfg.PointsDir, "directory containing digitized point tables")
	outDir := flag.String("out-dir", cfg.OutputDir, "directory for derived CSV output")
	workers := flag.Int("workers", cfg.Workers, "concurrent event workers")
	flag.Parse()

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	reader := table.NewDirReader(*pointsDir)
	writer, err := table.NewDirWriter(*outDir)
	if err != nil {
		return err
	}

	// The summary publisher is feature-flagged via KAFKA_BROKERS.
	var publisher pipeline.SummaryPublisher
	var kafkaPub *kafkaadapter.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPub = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPub
		logger.Info("summary publishing enabled", "topic", cfg.KafkaSummaryTopic)
	}

	p := pipeline.New(reader, writer, publisher, logger, metrics, *workers)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The observability listener is feature-flagged via HTTP_ADDR; a short
	// batch rarely needs one.
	var srv *httpadapter.Server
	if cfg.HTTPAddr != "" {
		srv = httpadapter.NewServer(cfg.HTTPAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	report, runErr := p.Run(ctx)
	if runErr == nil {
		fmt.Print(report.Render())
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}
	if kafkaPub != nil {
		if err := kafkaPub.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	return runErr
}
