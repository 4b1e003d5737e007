package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/doction/backend/internal/adapters/directory"
	"github.com/zatekoja/doction/backend/internal/application/services"
	"github.com/zatekoja/doction/backend/internal/evaluation"
	"github.com/zatekoja/doction/backend/internal/infrastructure/observability"
	"github.com/zatekoja/doction/backend/pkg/config"
)

func main() {
	var goldenPath string
	var minAccuracy float64
	flag.StringVar(&goldenPath, "golden", "internal/evaluation/testdata/golden_chats.json", "path to the golden chat set")
	flag.Float64Var(&minAccuracy, "min-accuracy", envFloat("EVAL_MIN_ACCURACY", 0), "fail when any field accuracy is below this (0-1)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	observability.InitLogger(cfg.OTEL.ServiceName+"-evaluate", cfg.Environment, cfg.LogLevel)

	if _, err := os.Stat(goldenPath); err != nil {
		if _, berr := os.Stat("backend/" + goldenPath); berr == nil {
			goldenPath = "backend/" + goldenPath
		}
	}

	chats, err := evaluation.LoadGoldenChats(goldenPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load golden chats")
	}
	if err := evaluation.ValidateGoldenChats(chats); err != nil {
		log.Fatal().Err(err).Msg("invalid golden chats")
	}

	// Offline pipeline: seed directory, no LLM, no web search, no default location
	chat := services.NewChatProcessingService(
		services.NewMessageAnalysisService(nil),
		directory.NewMemoryDirectory(nil),
		services.NewProviderRankingService(),
		services.NewReplyRenderer(cfg.Chat.MaxListedProviders),
		services.NewAuctionDraftBuilder(cfg.Chat.AuctionDeadlineHours),
		nil,
		nil,
	)

	ctx := log.Logger.WithContext(context.Background())
	summary, err := evaluation.NewRunner(chat).Run(ctx, chats)
	if err != nil {
		log.Fatal().Err(err).Msg("evaluation failed")
	}

	out, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Println(string(out))

	guardrails := evaluation.NewGuardrails(evaluation.GuardrailConfig{
		MinFieldAccuracy: minAccuracy,
		FieldMinimums:    map[evaluation.Field]float64{evaluation.FieldEmergency: 1},
	})
	if violations := guardrails.Violations(summary); len(violations) > 0 {
		log.Error().Strs("violations", violations).Msg("evaluation guardrails failed")
		os.Exit(1)
	}
}

func envFloat(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
