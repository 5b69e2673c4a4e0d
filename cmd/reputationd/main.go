package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/brandguard/reputation/internal/collab"
	"github.com/brandguard/reputation/internal/config"
	"github.com/brandguard/reputation/internal/engine"
	"github.com/brandguard/reputation/internal/knowledge"
	"github.com/brandguard/reputation/internal/metrics"
	"github.com/brandguard/reputation/internal/signal"
)

const (
	appName = "reputationd"
	version = "v1.2.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	var configPath string

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Sentiment-driven reputation strategy engine",
		Version: version,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to yaml config")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [signals.json]",
		Short: "Run the analysis pipeline over a signal batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(configPath, args[0])
		},
	}

	briefCmd := &cobra.Command{
		Use:   "brief",
		Short: "Generate a trust-score brief from the registered collaborators",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrief(configPath)
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve metrics and health endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}

	rootCmd.AddCommand(analyzeCmd, briefCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

func loadConfig(path string) (*config.AppConfig, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// buildEngine wires the engine with offline stand-in collaborators so
// the pure analysis pipeline works from the CLI. Real deployments
// register live transports instead.
func buildEngine(cfg *config.AppConfig, m *metrics.Registry) (*engine.Engine, error) {
	registry := collab.NewRegistry()
	for _, capability := range []collab.Capability{
		collab.CapabilityReviewResponder,
		collab.CapabilityListingOptimizer,
		collab.CapabilityDeepSentiment,
	} {
		registry.Register(capability, collab.WithBreaker(capability, offlineCollaborator{}, cfg.Engine.Breaker))
	}

	store, err := buildStore(cfg.Knowledge)
	if err != nil {
		return nil, err
	}

	return engine.New(cfg.Engine, registry, store, m)
}

func buildStore(cfg config.KnowledgeConfig) (knowledge.Store, error) {
	switch cfg.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		return knowledge.NewRedisStore(client, int64(cfg.MaxEntries)), nil
	case "postgres":
		return knowledge.OpenPostgresStore(cfg.PostgresDSN)
	default:
		return knowledge.NewMemoryStore(cfg.MaxEntries), nil
	}
}

// offlineCollaborator stands in for unreachable collaborators in CLI
// runs; every call reports itself unavailable.
type offlineCollaborator struct{}

func (offlineCollaborator) Handle(context.Context, collab.Request) (*collab.Response, error) {
	return &collab.Response{Status: collab.StatusFailed, Error: "collaborator not configured"}, nil
}

func runAnalyze(configPath, signalsPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(signalsPath)
	if err != nil {
		return err
	}
	var signals []signal.Signal
	if err := json.Unmarshal(raw, &signals); err != nil {
		return fmt.Errorf("parse signals: %w", err)
	}

	eng, err := buildEngine(cfg, nil)
	if err != nil {
		return err
	}

	res := eng.Execute(context.Background(), engine.AnalyzeSentiment{Signals: signals})
	return printJSON(res)
}

func runBrief(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	eng, err := buildEngine(cfg, nil)
	if err != nil {
		return err
	}

	res := eng.Execute(context.Background(), engine.GenerateBrief{})
	return printJSON(res)
}

func runServe(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	m := metrics.NewRegistry()
	if _, err := buildEngine(cfg, m); err != nil {
		return err
	}

	srv := metrics.NewServer(cfg.MetricsAddr, m)
	return srv.Start()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
