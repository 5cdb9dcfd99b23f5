// Command server boots the ZenThera platform: in-memory stores with seeded
// demo data, the five feature APIs, the HTML dashboard and the metrics
// endpoint, all behind one HTTP server with graceful shutdown.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	complianceHandler "zenthera/internal/compliance/handler"
	complianceMetrics "zenthera/internal/compliance/metrics"
	complianceService "zenthera/internal/compliance/service"
	complianceStore "zenthera/internal/compliance/store"
	failureHandler "zenthera/internal/failure/handler"
	failureMetrics "zenthera/internal/failure/metrics"
	failureService "zenthera/internal/failure/service"
	failureStore "zenthera/internal/failure/store"
	llmHandler "zenthera/internal/llmobs/handler"
	llmMetrics "zenthera/internal/llmobs/metrics"
	llmService "zenthera/internal/llmobs/service"
	llmStore "zenthera/internal/llmobs/store"
	narrativeHandler "zenthera/internal/narrative/handler"
	narrativeMetrics "zenthera/internal/narrative/metrics"
	narrativeService "zenthera/internal/narrative/service"
	narrativeStore "zenthera/internal/narrative/store"
	"zenthera/internal/platform/config"
	"zenthera/internal/platform/httpserver"
	"zenthera/internal/platform/logger"
	"zenthera/internal/platform/metrics"
	regulationHandler "zenthera/internal/regulation/handler"
	regulationService "zenthera/internal/regulation/service"
	regulationStore "zenthera/internal/regulation/store"
	httptransport "zenthera/internal/transport/http"
	"zenthera/internal/web"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	httpMetrics := metrics.New()
	now := time.Now().UTC()

	complianceSt := complianceStore.NewInMemory()
	regulationSt := regulationStore.NewInMemory()
	llmSt := llmStore.NewInMemory()
	narrativeSt := narrativeStore.NewInMemory()
	failureSt := failureStore.NewInMemory()

	if cfg.SeedDemoData {
		complianceStore.SeedDemoData(complianceSt, cfg.DefaultOrgID, now)
		regulationStore.SeedReferenceData(regulationSt, now)
		llmStore.SeedDemoData(llmSt, cfg.DefaultOrgID, now)
		narrativeStore.SeedDemoData(narrativeSt, cfg.DefaultOrgID, now)
		failureStore.SeedDemoData(failureSt, cfg.DefaultOrgID, now)
		log.Info("seeded demo data", "organization_id", cfg.DefaultOrgID)
	}

	router := httptransport.NewRouter(
		web.New(log),
		complianceHandler.New(
			complianceService.New(complianceSt, log, complianceMetrics.New()),
			log, httpMetrics, cfg.DefaultOrgID,
		),
		regulationHandler.New(
			regulationService.New(regulationSt, log),
			log, httpMetrics,
		),
		llmHandler.New(
			llmService.New(llmSt, log, llmMetrics.New()),
			log, httpMetrics, cfg.DefaultOrgID,
		),
		narrativeHandler.New(
			narrativeService.New(narrativeSt, log, narrativeMetrics.New()),
			log, httpMetrics, cfg.DefaultOrgID,
		),
		failureHandler.New(
			failureService.New(failureSt, log, failureMetrics.New()),
			log, httpMetrics, cfg.DefaultOrgID,
		),
	)

	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting zenthera server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
	log.Info("server stopped")
}
