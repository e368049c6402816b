package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/roadcast/app"
	"github.com/kilianp07/roadcast/config"
	coremon "github.com/kilianp07/roadcast/core/monitoring"
	"github.com/kilianp07/roadcast/infra/logger"
	"github.com/kilianp07/roadcast/infra/monitoring"
)

var (
	cfgPath  string
	logLevel string
	cfg      *config.Config
	logFile  io.Closer
)

var rootCmd = &cobra.Command{
	Use:               "roadcast",
	Short:             "Road speed history, congestion dashboard and short-term forecasts",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              serve,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level")
}

// Execute runs the CLI.
func Execute() error {
	defer coremon.Flush(2 * time.Second)
	defer func() {
		if logFile != nil {
			_ = logFile.Close()
		}
	}()
	return rootCmd.Execute()
}

func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		loaded.Logging.Level = logLevel
	}
	if err := logger.SetLevel(loaded.Logging.Level); err != nil {
		return err
	}
	if loaded.Logging.File != "" && logFile == nil {
		f, err := logger.UseFile(logger.FileOptions{
			Path:       loaded.Logging.File,
			MaxSizeMB:  loaded.Logging.MaxSizeMB,
			MaxBackups: loaded.Logging.MaxBackups,
			MaxAgeDays: loaded.Logging.MaxAgeDays,
		})
		if err != nil {
			return fmt.Errorf("log file: %w", err)
		}
		logFile = f
	}
	mon, err := monitoring.NewSentryMonitor(loaded.Sentry)
	if err != nil {
		return fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)
	cfg = loaded
	return nil
}

// withService builds the service, runs fn and releases the service.
func withService(fn func(ctx context.Context, svc *app.Service) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return fn(ctx, svc)
}

func serve(cmd *cobra.Command, _ []string) error {
	return withService(func(ctx context.Context, svc *app.Service) error {
		return svc.Run(ctx)
	})
}
