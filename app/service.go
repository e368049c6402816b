package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kilianp07/roadcast/api"
	"github.com/kilianp07/roadcast/config"
	"github.com/kilianp07/roadcast/core/forecast"
	"github.com/kilianp07/roadcast/core/jobs"
	coremetrics "github.com/kilianp07/roadcast/core/metrics"
	"github.com/kilianp07/roadcast/core/prediction"
	"github.com/kilianp07/roadcast/core/roadcache"
	"github.com/kilianp07/roadcast/core/roads"
	"github.com/kilianp07/roadcast/core/speeddata"
	"github.com/kilianp07/roadcast/infra/jobstore"
	"github.com/kilianp07/roadcast/infra/logger"
	"github.com/kilianp07/roadcast/infra/metrics"
	"github.com/kilianp07/roadcast/infra/mqtt"
	"github.com/kilianp07/roadcast/internal/eventbus"
)

// Service wires the data directory, the road cache, the forecast service and
// their infrastructure from the configuration.
type Service struct {
	Config    *config.Config
	Scanner   *speeddata.Scanner
	Cache     *roadcache.Cache
	Directory *roads.Memory
	Importer  *speeddata.Importer
	Forecast  *forecast.Service
	Store     jobs.Store

	bus       *eventbus.Bus
	sink      coremetrics.MetricsSink
	publisher *mqtt.PahoPublisher
	log       logger.Logger
}

// New creates a Service from the configuration. Nothing runs until Run.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	dir := cfg.Data.Directory()
	cal := cfg.Data.Calendar()

	scanner := speeddata.NewScanner(dir, cal, logger.New("scanner"))
	loader := speeddata.NewLoader(dir, cal, cfg.Data.ScanWorkers, logger.New("loader"))
	bus := eventbus.New()
	cache := roadcache.New(loader, roadcache.Options{
		MaxRoads: cfg.Cache.MaxRoads,
		Roads:    scanner,
		Bus:      bus,
		Logger:   logger.New("roadcache"),
	})

	directory, err := roads.NewMemoryFromFile(cfg.Roads.Path)
	if err != nil {
		return nil, fmt.Errorf("road directory: %w", err)
	}
	pred, err := prediction.New(cfg.Prediction.ModuleConfig())
	if err != nil {
		return nil, fmt.Errorf("predictor: %w", err)
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	store, err := jobstore.New(cfg.Jobs)
	if err != nil {
		return nil, fmt.Errorf("job store: %w", err)
	}

	svc := &Service{
		Config:    cfg,
		Scanner:   scanner,
		Cache:     cache,
		Directory: directory,
		Importer:  speeddata.NewImporter(dir, scanner, cache, directory, logger.New("importer")),
		Store:     store,
		bus:       bus,
		sink:      sink,
		log:       logg,
	}

	opts := forecast.Options{
		Cache:      cache,
		Directory:  directory,
		Predictor:  pred,
		Store:      store,
		Bus:        bus,
		Logger:     logger.New("forecast"),
		WindowSize: cfg.Prediction.WindowSize,
	}
	if cfg.MQTT.Enabled {
		pub, err := mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		svc.publisher = pub
		opts.Publisher = pub
	}
	svc.Forecast, err = forecast.NewService(opts)
	if err != nil {
		_ = svc.Close()
		return nil, err
	}
	return svc, nil
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	var rec coremetrics.RequestRecorder
	if r, ok := s.sink.(coremetrics.RequestRecorder); ok {
		rec = r
	}
	return api.NewRouter(api.Deps{
		Cache:      s.Cache,
		Directory:  s.Directory,
		Sources:    s.Scanner,
		Importer:   s.Importer,
		Forecast:   s.Forecast,
		Thresholds: s.Config.Prediction.Thresholds(),
		Metrics:    rec,
		Token:      s.Config.API.Token,

		MaxUploadBytes: s.Config.API.MaxUploadBytes(),
	})
}

// Invalidate drops the cached series and the scanner memo so that the next
// request reads the data directory again.
func (s *Service) Invalidate() {
	s.Scanner.Invalidate()
	s.Cache.Clear()
}

// StartBackground starts the metrics collector, the Prometheus endpoint and
// the periodic invalidation. They stop with ctx.
func (s *Service) StartBackground(ctx context.Context) {
	metrics.StartEventCollector(ctx, s.bus, s.sink, s.Cache)
	if addr := s.Config.Metrics.PrometheusAddr; addr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if sec := s.Config.Cache.InvalidateIntervalSeconds; sec > 0 {
		go s.invalidateEvery(ctx, time.Duration(sec)*time.Second)
	}
}

func (s *Service) invalidateEvery(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Invalidate()
			s.log.Debugf("road cache invalidated")
		}
	}
}

// Run serves the HTTP API and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	s.StartBackground(ctx)
	srv := &http.Server{
		Addr:              s.Config.API.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Warnf("api shutdown: %v", err)
		}
	}()
	s.log.Infof("serving API on %s", s.Config.API.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.publisher != nil {
		s.publisher.Disconnect()
	}
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	s.bus.Close()
	return s.Store.Close()
}
