package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
	"github.com/zatekoja/doction/backend/internal/domain/providers"
	"github.com/zatekoja/doction/backend/internal/domain/repositories"
	"github.com/zatekoja/doction/backend/internal/infrastructure/observability"
)

const (
	chatInstrumentation = "github.com/zatekoja/doction/backend/chat"
	defaultCitationK    = 3
)

const defaultSystemPrompt = `You are an assistant for Doction, a marketplace that connects patients with dental and orthodontic specialists.
Answer questions about procedures, recovery and costs in plain language. Do not diagnose. Encourage the patient to share their procedure, location and any quote they received so they can be matched with providers.`

// find/recommend/see a/specialist style phrasing that asks for a provider
var wantsProviderRe = regexp.MustCompile(`(?i)\b(?:find|recommend|see\s+an?|specialists?|provider|doctor)\b`)

var (
	chatTurnCounterOnce sync.Once
	chatTurnCounter     metric.Int64Counter
)

// ChatProcessingService sequences extraction, gating, matching and rendering for one chat turn
type ChatProcessingService struct {
	analyzer     *MessageAnalysisService
	directory    repositories.ProviderDirectory
	ranker       *ProviderRankingService
	renderer     *ReplyRenderer
	drafts       *AuctionDraftBuilder
	llm          providers.LLMProvider
	search       providers.WebSearchProvider
	citationK    int
	systemPrompt string
}

// NewChatProcessingService creates a chat processor. llm and search may be nil, in
// which case informational turns use canned answers.
func NewChatProcessingService(
	analyzer *MessageAnalysisService,
	directory repositories.ProviderDirectory,
	ranker *ProviderRankingService,
	renderer *ReplyRenderer,
	drafts *AuctionDraftBuilder,
	llm providers.LLMProvider,
	search providers.WebSearchProvider,
) *ChatProcessingService {
	if analyzer == nil {
		analyzer = NewMessageAnalysisService(nil)
	}
	if ranker == nil {
		ranker = NewProviderRankingService()
	}
	if renderer == nil {
		renderer = NewReplyRenderer(3)
	}
	if drafts == nil {
		drafts = NewAuctionDraftBuilder(DefaultAuctionDeadlineHours)
	}
	return &ChatProcessingService{
		analyzer:     analyzer,
		directory:    directory,
		ranker:       ranker,
		renderer:     renderer,
		drafts:       drafts,
		llm:          llm,
		search:       search,
		citationK:    defaultCitationK,
		systemPrompt: defaultSystemPrompt,
	}
}

// SetCitationCount sets how many web results back an informational answer
func (s *ChatProcessingService) SetCitationCount(k int) {
	if k > 0 {
		s.citationK = k
	}
}

// Process handles one chat turn. It always returns a result; collaborator
// failures are logged and degrade to canned text.
func (s *ChatProcessingService) Process(ctx context.Context, req entities.ChatRequest) *entities.ProcessedChatResult {
	ctx, span := otel.Tracer(chatInstrumentation).Start(ctx, "chat.process")
	defer span.End()

	logger := log.Ctx(ctx)
	logger.Debug().
		Int("message_length", len(req.Message)).
		Int("history_length", len(req.History)).
		Msg("processing chat message")

	signals := s.extract(ctx, req)
	result := &entities.ProcessedChatResult{
		Metadata: metadataFrom(signals),
	}

	switch {
	case signals.EmergencyFlag:
		s.finish(ctx, result, entities.ChatBranchEmergency, s.renderer.Emergency(), signals)
		return result
	case !signals.DomainOK:
		s.finish(ctx, result, entities.ChatBranchOffDomain, s.renderer.OffDomain(), signals)
		return result
	}

	var (
		reply  string
		branch entities.ChatBranch
	)
	if wantsProviderSearch(req.Message, signals) {
		matches := s.matchProviders(ctx, req.Message, signals)
		result.Metadata.MatchedProviders = matches
		result.ShouldCreateProviderMatches = len(matches) > 0
		if len(matches) > 0 {
			branch = entities.ChatBranchProviderMatch
			reply = s.renderer.ProviderMatch(signals.Specialty, matches, signals.Location, signals.PriceRange, signals.Urgency)
		} else {
			branch = entities.ChatBranchNoMatch
			reply = s.renderer.NoMatch(signals.Specialty, signals.Location, signals.PriceRange)
		}
	} else {
		branch = entities.ChatBranchInformational
		answer, citations := s.answer(ctx, req, signals)
		result.Metadata.Citations = citations
		reply = s.renderer.Informational(answer, citations)
	}

	if ShouldBuild(signals.Intent, signals.Quote) {
		result.AuctionDraft = s.drafts.Build(req.Message, signals, signals.Quote)
		result.ShouldCreateAuctionRequest = true
		reply += "\n\n" + s.renderer.AuctionCTA(result.AuctionDraft)
	}

	s.finish(ctx, result, branch, reply, signals)
	return result
}

func (s *ChatProcessingService) extract(ctx context.Context, req entities.ChatRequest) *entities.ExtractedSignals {
	ctx, span := otel.Tracer(chatInstrumentation).Start(ctx, "chat.extract")
	defer span.End()

	signals := s.analyzer.Analyze(ctx, req.Message, req.Source)

	event := log.Ctx(ctx).Info().
		Str("intent", string(signals.Intent)).
		Str("urgency", string(signals.Urgency)).
		Bool("emergency", signals.EmergencyFlag).
		Bool("domain_ok", signals.DomainOK).
		Bool("quote", signals.Quote != nil)
	if signals.Specialty != nil {
		event = event.Str("specialty", string(*signals.Specialty))
	}
	event.Msg("message analysis completed")
	return signals
}

// wantsProviderSearch picks the provider-search branch over the informational one
func wantsProviderSearch(message string, signals *entities.ExtractedSignals) bool {
	switch signals.Intent {
	case entities.IntentPricing, entities.IntentConsultation, entities.IntentScheduling:
		return true
	}
	if signals.Quote != nil {
		return true
	}
	return wantsProviderRe.MatchString(message)
}

// matchProviders ranks the candidate list first and filters second, so the
// filtered list keeps rank order.
func (s *ChatProcessingService) matchProviders(ctx context.Context, message string, signals *entities.ExtractedSignals) []entities.RankedProvider {
	if s.directory == nil {
		return nil
	}
	ctx, span := otel.Tracer(chatInstrumentation).Start(ctx, "chat.rank")
	defer span.End()

	logger := log.Ctx(ctx)

	var (
		candidates []entities.Provider
		err        error
	)
	if signals.Specialty != nil {
		candidates, err = s.directory.BySpecialty(ctx, string(*signals.Specialty))
	} else {
		candidates, err = s.directory.Search(ctx, message)
	}
	if err != nil {
		logger.Warn().Err(err).Msg("provider directory lookup failed")
		observability.RecordError(span, err)
		return nil
	}

	ranked := s.ranker.Rank(candidates, RankingSignalsFrom(signals))
	filtered := FilterByLocationAndPrice(ranked, signals.Location, signals.PriceRange)

	span.SetAttributes(
		attribute.Int("chat.candidates", len(candidates)),
		attribute.Int("chat.matches", len(filtered)),
	)
	logger.Info().
		Int("candidates", len(candidates)).
		Int("matches", len(filtered)).
		Msg("provider search completed")
	return filtered
}

// answer asks the LLM with web citations as context, falling back to canned text
func (s *ChatProcessingService) answer(ctx context.Context, req entities.ChatRequest, signals *entities.ExtractedSignals) (string, []entities.Citation) {
	logger := log.Ctx(ctx)

	var citations []entities.Citation
	if s.search != nil {
		found, err := s.search.Search(ctx, req.Message, s.citationK)
		if err != nil {
			logger.Warn().Err(err).Msg("web search failed")
		} else {
			citations = found
		}
	}

	if s.llm == nil {
		return s.renderer.GeneralFallback(signals.Intent), citations
	}

	answer, err := s.llm.Generate(ctx, s.promptMessages(req, citations))
	if err != nil {
		logger.Warn().Err(err).Msg("llm generation failed")
		return s.renderer.GeneralFallback(signals.Intent), citations
	}
	if strings.TrimSpace(answer) == "" {
		return s.renderer.GeneralFallback(signals.Intent), citations
	}
	return answer, citations
}

func (s *ChatProcessingService) promptMessages(req entities.ChatRequest, citations []entities.Citation) []entities.ChatMessage {
	system := s.systemPrompt
	if len(citations) > 0 {
		var b strings.Builder
		b.WriteString(system)
		b.WriteString("\n\nReference material:\n")
		for i, c := range citations {
			fmt.Fprintf(&b, "%d. %s (%s) %s\n", i+1, c.Title, c.URL, c.Snippet)
		}
		system = b.String()
	}

	messages := make([]entities.ChatMessage, 0, len(req.History)+2)
	messages = append(messages, entities.ChatMessage{Role: entities.ChatRoleSystem, Content: system})
	for _, m := range req.History {
		if m.Role == entities.ChatRoleSystem || strings.TrimSpace(m.Content) == "" {
			continue
		}
		messages = append(messages, m)
	}
	messages = append(messages, entities.ChatMessage{Role: entities.ChatRoleUser, Content: req.Message})
	return messages
}

func (s *ChatProcessingService) finish(ctx context.Context, result *entities.ProcessedChatResult, branch entities.ChatBranch, reply string, signals *entities.ExtractedSignals) {
	result.Reply = reply
	result.Metadata.Branch = branch
	result.SuggestedActions = s.renderer.SuggestedActions(branch, signals.Specialty)

	recordChatTurn(ctx, branch)
	log.Ctx(ctx).Info().
		Str("branch", string(branch)).
		Int("matched", len(result.Metadata.MatchedProviders)).
		Bool("auction_draft", result.AuctionDraft != nil).
		Msg("chat turn completed")
}

func metadataFrom(signals *entities.ExtractedSignals) entities.ChatMetadata {
	return entities.ChatMetadata{
		Specialty:     signals.Specialty,
		Location:      signals.Location,
		PriceRange:    signals.PriceRange,
		Urgency:       signals.Urgency,
		Intent:        signals.Intent,
		EmergencyFlag: signals.EmergencyFlag,
		DomainOK:      signals.DomainOK,
		SafetyFlags:   signals.SafetyFlags,
		Quote:         signals.Quote,
	}
}

func recordChatTurn(ctx context.Context, branch entities.ChatBranch) {
	chatTurnCounterOnce.Do(func() {
		counter, err := otel.Meter(chatInstrumentation).Int64Counter(
			"chat.turns",
			metric.WithDescription("Count of processed chat turns by branch"),
		)
		if err == nil {
			chatTurnCounter = counter
		}
	})
	if chatTurnCounter != nil {
		chatTurnCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("chat.branch", string(branch))))
	}
}
