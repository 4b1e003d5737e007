package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/zatekoja/doction/backend/internal/application/extraction"
	"github.com/zatekoja/doction/backend/internal/domain/entities"
	"github.com/zatekoja/doction/backend/internal/domain/providers"
)

const (
	analysisCachePrefix     = "chat_signals:"
	defaultAnalysisCacheTTL = 600
)

var (
	redFlagCounterOnce sync.Once
	redFlagCounter     metric.Int64Counter
)

// MessageAnalysisService runs every extractor over one message
type MessageAnalysisService struct {
	defaultLocation providers.DefaultLocationProvider
	cache           providers.CacheProvider
	cacheTTL        int
}

// NewMessageAnalysisService creates the analyzer. defaultLocation may be nil.
func NewMessageAnalysisService(defaultLocation providers.DefaultLocationProvider) *MessageAnalysisService {
	return &MessageAnalysisService{
		defaultLocation: defaultLocation,
		cacheTTL:        defaultAnalysisCacheTTL,
	}
}

// SetCache sets the cache for text-derived signals
func (s *MessageAnalysisService) SetCache(cache providers.CacheProvider, ttlSeconds int) {
	s.cache = cache
	if ttlSeconds > 0 {
		s.cacheTTL = ttlSeconds
	}
}

// Analyze extracts all signals. Emergency and domain flags are always set; the
// default-location collaborator is consulted only if the text names no place.
func (s *MessageAnalysisService) Analyze(ctx context.Context, message, source string) *entities.ExtractedSignals {
	signals := s.textSignals(ctx, message, source)

	if signals.Location == nil && s.defaultLocation != nil {
		loc, err := extraction.ResolveLocation(ctx, "", s.defaultLocation)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("default location lookup failed")
		} else {
			signals.Location = loc
		}
	}

	if signals.EmergencyFlag {
		recordRedFlags(ctx, signals.SafetyFlags)
	}
	return signals
}

func (s *MessageAnalysisService) textSignals(ctx context.Context, message, source string) *entities.ExtractedSignals {
	key := analysisCacheKey(message, source)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil {
			var cached entities.ExtractedSignals
			if json.Unmarshal(data, &cached) == nil {
				return &cached
			}
		}
	}

	flags := extraction.DetectEmergency(message)
	signals := &entities.ExtractedSignals{
		EmergencyFlag: len(flags) > 0,
		SafetyFlags:   flags,
		DomainOK:      extraction.IsMedicalDomain(message),
		Specialty:     extraction.ClassifySpecialty(message),
		Location:      extraction.ParseLocation(message),
		PriceRange:    extraction.ParsePriceRange(message),
		Urgency:       extraction.ClassifyUrgency(message),
		Intent:        extraction.ClassifyIntent(message),
		Quote:         extraction.ParseQuote(message, source),
	}

	if s.cache != nil {
		if data, err := json.Marshal(signals); err == nil {
			_ = s.cache.Set(ctx, key, data, s.cacheTTL)
		}
	}
	return signals
}

func analysisCacheKey(message, source string) string {
	sum := sha256.Sum256([]byte(source + "\x00" + strings.TrimSpace(message)))
	return analysisCachePrefix + hex.EncodeToString(sum[:])
}

func initRedFlagCounter() {
	meter := otel.Meter(chatInstrumentation)
	counter, err := meter.Int64Counter(
		"chat.emergency",
		metric.WithDescription("Count of emergency red flags detected in chat messages"),
	)
	if err == nil {
		redFlagCounter = counter
	}
}

func recordRedFlags(ctx context.Context, flags []string) {
	redFlagCounterOnce.Do(initRedFlagCounter)
	if redFlagCounter == nil {
		return
	}
	for _, flag := range flags {
		redFlagCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("chat.red_flag", flag)))
	}
}
