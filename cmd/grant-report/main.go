package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"grantlens/internal/analytics"
	"grantlens/internal/collab"
	"grantlens/internal/config"
	"grantlens/internal/dataset"
	"grantlens/internal/exporter"
	"grantlens/internal/forecast"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	inputPath := flag.String("input", "", "grant dataset file (.csv or .xlsx), overrides config")
	outputDir := flag.String("out", "", "output directory for reports, overrides config")
	yearsFlag := flag.String("years", "", "comma-separated fiscal years to include (default: all observed)")
	statesFlag := flag.String("states", "", "comma-separated state codes to include (default: all observed)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg.Logging)

	if *inputPath != "" {
		cfg.Dataset.Path = *inputPath
	}
	if *outputDir != "" {
		cfg.Report.OutputDir = *outputDir
	}
	if cfg.Dataset.Path == "" {
		slog.Error("No input dataset configured", "hint", "pass -input or set dataset.path")
		os.Exit(1)
	}

	if err := run(context.Background(), cfg, *yearsFlag, *statesFlag); err != nil {
		slog.Error("Report generation failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, yearsFlag, statesFlag string) error {
	records, err := dataset.Load(cfg.Dataset.Path, dataset.Options{
		InvalidTypeCode: cfg.Dataset.InvalidTypeCode,
	})
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	sel, err := buildSelection(records, yearsFlag, statesFlag)
	if err != nil {
		return err
	}

	filtered := dataset.Filter(records, sel)
	slog.Info("applied filter selection",
		"years", len(sel.Years),
		"states", len(sel.States),
		"records", len(filtered),
	)
	if len(filtered) == 0 {
		slog.Warn("selection matches no records; reports will be empty")
	}

	fcCfg := forecast.Config{
		Alpha:        cfg.Forecast.Alpha,
		Beta:         cfg.Forecast.Beta,
		Gamma:        cfg.Forecast.Gamma,
		SeasonLength: cfg.Forecast.SeasonLength,
	}
	layoutOpts := collab.LayoutOptions{
		Seed:       cfg.Layout.Seed,
		Iterations: cfg.Layout.Iterations,
	}

	// The views are pure functions of the filtered set, so they can be
	// derived concurrently.
	var (
		trend         analytics.TrendView
		byAgency      analytics.Series
		byState       analytics.Series
		byActivity    analytics.Series
		investigators []analytics.Investigator
		graph         *collab.Graph
		layout        map[string]collab.Position
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		trend, err = analytics.FundingTrends(filtered, fcCfg)
		if errors.Is(err, forecast.ErrInsufficientHistory) {
			slog.Warn("forecast omitted", "reason", err)
			return nil
		}
		return err
	})
	g.Go(func() error {
		byAgency = analytics.FundingByAgency(filtered, cfg.Report.TopAgencies)
		return nil
	})
	g.Go(func() error {
		byState = analytics.FundingByState(filtered)
		return nil
	})
	g.Go(func() error {
		byActivity = analytics.ActivityBreakdown(filtered, cfg.Report.TopActivities)
		return nil
	})
	g.Go(func() error {
		investigators = analytics.TopInvestigators(filtered, cfg.Report.TopInvestigators)
		return nil
	})
	g.Go(func() error {
		graph = collab.Build(filtered)
		layout = collab.SpringLayout(graph, layoutOpts)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	w := exporter.NewWriter(cfg.Report.OutputDir, slog.Default())
	slog.Info("writing reports", "run_id", w.RunID(), "out", cfg.Report.OutputDir)

	steps := []func() error{
		func() error { return w.WriteTrendCSV("funding_trends.csv", trend) },
		func() error { return w.WriteSeriesCSV("funding_by_agency.csv", "Administering IC", byAgency) },
		func() error { return w.WriteSeriesCSV("funding_by_state.csv", "Organization State", byState) },
		func() error { return w.WriteSeriesCSV("funding_by_activity.csv", "Activity", byActivity) },
		func() error { return w.WriteInvestigatorsCSV("top_investigators.csv", investigators) },
		func() error { return w.WriteNetworkJSON("collaboration_network.json", graph, layout) },
		func() error { return w.WriteManifest("manifest.json") },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	slog.Info("report generation complete",
		"run_id", w.RunID(),
		"nodes", graph.NodeCount(),
		"edges", graph.EdgeCount(),
	)
	return nil
}

// buildSelection parses the filter flags, defaulting an empty flag to every
// observed value the way the dashboard's dropdowns start out.
func buildSelection(records []dataset.Record, yearsFlag, statesFlag string) (dataset.Selection, error) {
	sel := dataset.AllOf(records)

	if yearsFlag != "" {
		sel.Years = sel.Years[:0]
		for _, part := range strings.Split(yearsFlag, ",") {
			year, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return dataset.Selection{}, fmt.Errorf("invalid year %q: %w", part, err)
			}
			sel.Years = append(sel.Years, year)
		}
	}
	if statesFlag != "" {
		sel.States = sel.States[:0]
		for _, part := range strings.Split(statesFlag, ",") {
			if s := strings.TrimSpace(part); s != "" {
				sel.States = append(sel.States, strings.ToUpper(s))
			}
		}
	}
	return sel, nil
}

func setupLogger(cfg config.LoggingConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
