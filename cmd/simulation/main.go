package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/jskimlam/iranwar-simulation/internal/config"
	"github.com/jskimlam/iranwar-simulation/internal/logger"
	"github.com/jskimlam/iranwar-simulation/internal/models"
	"github.com/jskimlam/iranwar-simulation/internal/report"
	"github.com/jskimlam/iranwar-simulation/internal/simulation"
	"github.com/jskimlam/iranwar-simulation/internal/telegram"
	"github.com/jskimlam/iranwar-simulation/internal/yahoo"
)

var configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Debug("Configuration loaded from %s", *configPath)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.MarketData.Timeout)
	defer cancel()

	// 1) Reference price. Never fails; fetch problems degrade to the
	// fallback constant inside the client.
	client := yahoo.NewClient(cfg.MarketData)
	quote := client.LatestClose(ctx)

	// 2) Cost model.
	model := simulation.New(cfg.Simulation)
	snap := model.Compute(quote.Price, cfg.Simulation.RiskPremium, quote.Source, time.Now().UTC())
	logger.Info("Computed snapshot: SM market $%.1f/t, cost $%.1f/t, margin $%+.1f/t (%s)",
		snap.SMMarket, snap.SMCost, snap.Margin, snap.Status)

	// 3) Persist. A failure here aborts before the chart is rendered.
	if err := report.WriteCSV(cfg.Report.CSVPath, snap); err != nil {
		logger.Fatal("Failed to write %s: %v", cfg.Report.CSVPath, err)
	}
	logger.Info("Wrote %s", cfg.Report.CSVPath)

	// 4) Render. A failure here leaves the CSV in place and aborts.
	if err := report.WriteChart(cfg.Report.ChartPath, cfg.Report.DPI, snap, model.TargetMargin()); err != nil {
		logger.Fatal("Failed to render %s: %v", cfg.Report.ChartPath, err)
	}
	logger.Info("Wrote %s", cfg.Report.ChartPath)

	// 5) Alert on squeeze, when enabled.
	if cfg.Telegram.Enabled && snap.Status == models.StatusMarginSqueeze {
		tg, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.MaxRetries, cfg.Telegram.RetryDelayBase)
		if err != nil {
			logger.Error("Failed to initialize Telegram client: %v", err)
		} else if err := tg.SendMarginAlert(snap, model.TargetMargin()); err != nil {
			logger.Error("Failed to send margin alert: %v", err)
		}
	}

	// 6) Report.
	fmt.Printf("WTI $%.2f/bbl (%s) | SM margin $%+.2f/t (%s)\n", snap.WTI, snap.Source, snap.Margin, snap.Status)

	printScenarios(model)
}

// printScenarios prints the fixed escalation ladder below the summary line.
func printScenarios(model *simulation.Model) {
	fmt.Println("\nRisk scenarios:")
	for _, res := range model.EvaluateScenarios(models.DefaultScenarios(), time.Now().UTC()) {
		mark := "ok"
		if res.Snapshot.Status == models.StatusMarginSqueeze {
			mark = "squeeze"
		}
		fmt.Printf("  %-8s | WTI $%6.2f | risk +$%3.0f | SM margin $%+8.2f/t | %s\n",
			res.Scenario.Label, res.Scenario.WTI, res.Scenario.RiskPremium, res.Snapshot.Margin, mark)
	}
}
