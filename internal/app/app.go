// Package app wires configuration, logging, metrics and the API client for
// the commands.
package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/johan/hyblock-capital-sdk/internal/config"
	"github.com/johan/hyblock-capital-sdk/internal/hyblock"
	"github.com/johan/hyblock-capital-sdk/internal/logger"
	"github.com/johan/hyblock-capital-sdk/internal/metrics"
)

// App is the shared state of one command run.
type App struct {
	Config  *config.Config
	Log     *logger.Logger
	Metrics *metrics.Metrics
}

// Load reads the config file (defaults when missing), validates it and
// builds the logger. logLevel overrides the configured level when set.
func Load(configPath, logLevel string) (*App, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		return nil, err
	}
	return &App{Config: cfg, Log: log, Metrics: metrics.New()}, nil
}

// Client loads credentials from the environment (after .env) and builds the
// Hyblock client.
func (a *App) Client() (*hyblock.Client, config.Credentials, error) {
	creds, err := config.LoadCredentials(".env")
	if err != nil {
		return nil, config.Credentials{}, err
	}
	if err := creds.Require(); err != nil {
		return nil, creds, err
	}

	client, err := hyblock.NewClient(hyblock.Config{
		BaseURL:           creds.APIURL,
		APIKey:            creds.APIKey,
		HTTPClient:        &http.Client{Timeout: a.Config.API.Timeout},
		RequestsPerMinute: a.Config.API.RequestsPerMinute,
		Observer:          a.Metrics,
	})
	if err != nil {
		return nil, creds, fmt.Errorf("creating client: %w", err)
	}
	a.Log.Debugw("Client configured", "url", client.BaseURL(), "key", creds.MaskedKey())
	return client, creds, nil
}

// Close writes the metrics textfile when path is set and flushes the logger.
func (a *App) Close(metricsPath string) {
	if err := a.Metrics.WriteTextfile(metricsPath); err != nil {
		a.Log.Warnw("Writing metrics failed", "path", metricsPath, "error", err)
	}
	_ = a.Log.Sync()
}

// Fatal logs err, closes the app and exits with status 1.
func (a *App) Fatal(metricsPath, msg string, err error) {
	a.Log.Errorw(msg, "error", err)
	a.Close(metricsPath)
	os.Exit(1)
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
