package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"catchrec/internal/blob"
	"catchrec/internal/detector"
	"catchrec/internal/drain"
	"catchrec/internal/extdata"
	"catchrec/internal/landings"
	"catchrec/internal/platform/config"
	"catchrec/internal/platform/httpserver"
	"catchrec/internal/platform/logger"
	"catchrec/internal/platform/metrics"
	"catchrec/internal/platform/redis"
	"catchrec/internal/queue"
	"catchrec/internal/refdata"
	"catchrec/internal/report"
	"catchrec/internal/risk"
	"catchrec/internal/rules"
	"catchrec/internal/trade"
)

// main wires high-level dependencies and keeps the process lifecycle small.
// Business logic lives in the internal packages; the tickers here stand in
// for the external scheduler.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	if err := run(context.Background(), cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("pipeline exited", "error", err)
		os.Exit(1)
	}
}

type refresher interface {
	Refresh(ctx context.Context) error
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	var cacheOpts []refdata.Option
	if cfg.Features.VesselNotFound {
		cacheOpts = append(cacheOpts, refdata.WithSentinelVessel(cfg.Features.SentinelVesselName, cfg.Features.SentinelVesselPLN))
	}
	cache := refdata.New(cacheOpts...)

	db, err := sql.Open("postgres", cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		return err
	}
	var salesNotes extdata.SalesNoteStore
	if redisClient != nil {
		defer redisClient.Close()
		if salesNotes, err = extdata.NewRedisSalesNotes(redisClient); err != nil {
			return err
		}
	} else {
		log.Warn("redis not configured, sales note probes run against empty store")
		salesNotes = extdata.NewMemorySalesNotes()
	}

	publisher, err := queue.NewKafka(ctx, cfg.Queue.Brokers,
		[]string{cfg.Queue.CaseTopic, cfg.Queue.TradeTopic},
		queue.WithLogger(log))
	if err != nil {
		return err
	}
	defer publisher.Close()

	store, err := blob.NewS3(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	ref, err := buildRefresher(cfg, cache, store, log)
	if err != nil {
		return err
	}

	scorer := risk.NewScorer(cache)
	det, err := detector.New(cache, detector.WithLogger(log))
	if err != nil {
		return err
	}

	dispatcher, err := report.NewQueueDispatcher(publisher, cfg.Queue.CaseTopic, cfg.Queue.Enabled)
	if err != nil {
		return err
	}
	certs := report.NewPostgresCertificates(db)
	reports := report.NewPostgres(db)
	orchestrator, err := report.New(
		certs,
		reports,
		rules.StdReportMapper{},
		report.NewPostgresLandingUpdater(db),
		dispatcher,
		salesNotes,
		scorer,
		report.WithLogger(log),
		report.WithMetrics(m),
	)
	if err != nil {
		return err
	}

	policy := trade.PolicyValidated
	if cfg.Features.DisableTradeValidation {
		policy = trade.PolicyRaw
	}
	gateway, err := trade.New(publisher, rules.StdTradeMapper{}, cfg.Queue.TradeTopic, cfg.Queue.Enabled,
		policy, cfg.Features.TradeSchemaPath,
		trade.WithLogger(log), trade.WithMetrics(m))
	if err != nil {
		return err
	}

	drainer, err := drain.New(reports, store, drain.InferEnvironment(cfg.Storage.BaseURL), cfg.Drain.MaxBatch,
		drain.WithLogger(log), drain.WithMetrics(m))
	if err != nil {
		return err
	}

	source := landings.NewPostgresSource(db)
	srv := httpserver.New(cfg.OpsAddr, httpserver.NewOpsRouter())

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting ops server", "addr", cfg.OpsAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return every(ctx, 0, cfg.Refresh.Interval, func() error {
			if err := ref.Refresh(ctx); err != nil {
				m.RefreshFailures.Inc()
				return err
			}
			return nil
		})
	})

	g.Go(func() error {
		return every(ctx, cfg.Drain.Interval, cfg.Drain.Interval, func() error {
			return drainer.ProcessReports(ctx)
		})
	})

	g.Go(func() error {
		return every(ctx, cfg.Drain.Interval, cfg.Drain.Interval, func() error {
			return reconcile(ctx, source, certs, det, orchestrator, gateway, m, log)
		})
	})

	return g.Wait()
}

func buildRefresher(cfg config.Config, cache *refdata.Cache, store blob.Store, log *slog.Logger) (refresher, error) {
	if cfg.Refresh.Mode == config.RefreshLocal {
		return refdata.NewLocalRefresher(cache, cfg.Refresh.FixtureDir, log)
	}
	blobSource, err := refdata.NewBlobSource(store, "reference/")
	if err != nil {
		return nil, err
	}
	rulesClient, err := refdata.NewRuleProviderClient(cfg.Refresh.RuleProviderURL, &http.Client{Timeout: 30 * time.Second})
	if err != nil {
		return nil, err
	}
	return refdata.NewRemoteRefresher(cache, blobSource, rulesClient, log)
}

// reconcile is one detector-to-orchestrator run: fetch this run's records and
// observed landings, detect reportable changes, report the submitted and
// escalated batches, and push trade exports for successful certificates.
func reconcile(ctx context.Context, source landings.Source, certs report.CertificateStore, det *detector.Detector, orchestrator *report.Service, gateway *trade.Gateway, m *metrics.Metrics, log *slog.Logger) error {
	ref := time.Now().UTC()
	records, err := source.FetchValidated(ctx, ref)
	if err != nil {
		return err
	}
	observed, err := source.FetchObserved(ctx, ref)
	if err != nil {
		return err
	}

	detected := det.DetectNew(records, observed, ref)
	m.LandingsDetected.Add(float64(len(detected)))
	if len(detected) == 0 {
		return nil
	}

	var submitted, escalated []landings.ValidatedLandingRecord
	for _, rec := range detected {
		if rec.ExceedsTimeLimit {
			escalated = append(escalated, rec)
		} else {
			submitted = append(submitted, rec)
		}
	}

	outcomes := orchestrator.ReportLandings(ctx, submitted, orchestrator.ReportSubmitted, "cc-submitted")
	outcomes = append(outcomes,
		orchestrator.ReportLandings(ctx, escalated, orchestrator.Report14DayLimitReached, "cc-14-day-limit")...)

	byCert := make(map[string][]landings.ValidatedLandingRecord)
	for _, rec := range detected {
		byCert[rec.DocumentNumber] = append(byCert[rec.DocumentNumber], rec)
	}
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			continue
		}
		// The full certificate document feeds the export: the schema requires
		// its document type and the message properties carry its org/user ids.
		cert, err := certs.FindByDocumentNumber(ctx, outcome.DocumentNumber)
		if err != nil {
			log.ErrorContext(ctx, "certificate lookup for trade export failed",
				"documentNumber", outcome.DocumentNumber, "error", err)
			continue
		}
		group := byCert[outcome.DocumentNumber]
		results := make([]trade.QueryResult, len(group))
		for i, rec := range group {
			status := trade.StatusComplete
			if rec.IsOverusedThisCert {
				status = trade.StatusBlocked
			}
			results[i] = trade.QueryResult{Status: string(status)}
		}
		mappedCase := map[string]any{"correlationId": outcome.DocumentNumber}
		if err := gateway.Report(ctx, cert, "trade-export", mappedCase, results); err != nil {
			log.ErrorContext(ctx, "trade export failed",
				"documentNumber", outcome.DocumentNumber, "error", err)
		}
	}
	return nil
}

// every runs fn after delay and then on the interval until the context ends.
// Errors propagate, matching the no-retry-in-core contract.
func every(ctx context.Context, delay, interval time.Duration, fn func() error) error {
	if delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	if err := fn(); err != nil {
		return err
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := fn(); err != nil {
				return err
			}
		}
	}
}
