package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/folioscope/folioscope/internal/clients/sharesight"
	"github.com/folioscope/folioscope/internal/common"
	"github.com/folioscope/folioscope/internal/interfaces"
	"github.com/folioscope/folioscope/internal/models"
	"github.com/folioscope/folioscope/internal/services/aggregator"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	configPath := os.Getenv("FOLIOSCOPE_CONFIG")
	config, err := common.LoadConfig(configPath, "folioscope.toml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := common.NewLogger(config.Logging.Level)
	common.PrintBanner(config, logger)

	if len(config.Portfolios) == 0 {
		logger.Fatal().Msg("No portfolios configured")
	}

	client := sharesight.NewClient(
		buildTokenSource(config),
		sharesight.WithBaseURL(config.Sharesight.ResolveBaseURL()),
		sharesight.WithRateLimit(config.Sharesight.RateLimit),
		sharesight.WithTimeout(config.Sharesight.GetTimeout()),
		sharesight.WithLogger(logger),
	)

	scheduler := aggregator.NewScheduler(logger)
	widgets := models.DefaultWidgets()

	for _, portfolioID := range config.Portfolios {
		agg := aggregator.New(portfolioID, client, logger)

		poller := aggregator.NewPoller(agg, logger, func(snapshot models.Snapshot) {
			logWidgetValues(agg, snapshot, widgets, logger)
		})
		rescan := aggregator.NewRescan(poller, logger, nil)

		if err := scheduler.AddJob(config.Poll.GetInterval(), poller); err != nil {
			logger.Fatal().Err(err).Str("portfolio", portfolioID).Msg("Failed to register poll job")
		}
		if err := scheduler.AddJob(config.Poll.GetRescanInterval(), rescan); err != nil {
			logger.Fatal().Err(err).Str("portfolio", portfolioID).Msg("Failed to register rescan job")
		}

		// First cycle up front so values are available before the timer fires
		if err := scheduler.RunNow(poller); err != nil {
			logger.Warn().Err(err).Str("portfolio", portfolioID).Msg("Initial poll cycle failed")
		}
	}

	scheduler.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("Shutdown signal received")
	scheduler.Stop()
	common.PrintShutdownBanner(logger)
}

// buildTokenSource selects a static token when one is configured, and
// the OAuth2 refresh flow otherwise.
func buildTokenSource(config *common.Config) interfaces.TokenSource {
	if config.Sharesight.AccessToken != "" {
		return sharesight.StaticTokenSource(config.Sharesight.AccessToken)
	}
	return sharesight.NewRefreshTokenSource(
		config.Sharesight.ResolveTokenURL(),
		config.Sharesight.ClientID,
		config.Sharesight.ClientSecret,
		config.Sharesight.RefreshToken,
	)
}

// logWidgetValues resolves every standard widget against the fresh
// snapshot and logs the available ones.
func logWidgetValues(agg *aggregator.Aggregator, snapshot models.Snapshot, widgets []models.Widget, logger *common.Logger) {
	available := 0
	event := logger.Info()
	for _, w := range widgets {
		value, ok := agg.ResolveValue(snapshot, w.Key)
		if !ok {
			continue
		}
		available++
		event = event.Interface(w.Name, value)
	}
	event.
		Str("portfolio", agg.PortfolioID()).
		Int("available", available).
		Int("registered", len(widgets)).
		Msg("Snapshot values")
}
