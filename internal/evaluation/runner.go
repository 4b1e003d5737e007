package evaluation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
)

const rankCutoff = 3

// ChatProcessor is the pipeline under evaluation.
type ChatProcessor interface {
	Process(ctx context.Context, req entities.ChatRequest) *entities.ProcessedChatResult
}

// Runner scores a chat pipeline against golden chats.
type Runner struct {
	chat ChatProcessor
}

func NewRunner(chat ChatProcessor) *Runner {
	return &Runner{chat: chat}
}

func (r *Runner) Run(ctx context.Context, chats []GoldenChat) (*EvalSummary, error) {
	summary := &EvalSummary{
		TotalChats:   len(chats),
		ByField:      make(map[Field]*FieldSummary),
		ByDifficulty: make(map[string]*FieldSummary),
	}

	for _, gc := range chats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		result := r.chat.Process(ctx, entities.ChatRequest{Message: gc.Message, History: gc.History})
		duration := time.Since(start)
		if result == nil {
			return nil, fmt.Errorf("chat %q: pipeline returned no result", gc.ID)
		}

		res := Score(gc, result)
		res.Latency = duration
		r.updateSummary(summary, gc, res)

		log.Ctx(ctx).Debug().
			Str("chat_id", gc.ID).
			Str("branch", string(res.Branch)).
			Dur("latency", duration).
			Msg("golden chat scored")
	}

	r.finalizeSummary(summary)
	return summary, nil
}

// Score compares one pipeline result against its golden expectation.
func Score(gc GoldenChat, result *entities.ProcessedChatResult) EvalResult {
	meta := result.Metadata
	exp := gc.Expected
	checks := make(map[Field]bool)

	if exp.Specialty != nil {
		got := ""
		if meta.Specialty != nil {
			got = string(*meta.Specialty)
		}
		checks[FieldSpecialty] = got == *exp.Specialty
	}
	if exp.Intent != "" {
		checks[FieldIntent] = meta.Intent == exp.Intent
	}
	if exp.Urgency != "" {
		checks[FieldUrgency] = meta.Urgency == exp.Urgency
	}
	if exp.Emergency != nil {
		checks[FieldEmergency] = meta.EmergencyFlag == *exp.Emergency
	}
	if exp.DomainOK != nil {
		checks[FieldDomain] = meta.DomainOK == *exp.DomainOK
	}
	if exp.City != "" || exp.State != "" {
		checks[FieldLocation] = meta.Location != nil &&
			strings.EqualFold(meta.Location.City, exp.City) &&
			strings.EqualFold(meta.Location.State, exp.State)
	}
	if exp.PriceMin != nil && exp.PriceMax != nil {
		checks[FieldPrice] = meta.PriceRange != nil &&
			meta.PriceRange.Min == *exp.PriceMin &&
			meta.PriceRange.Max == *exp.PriceMax
	}
	if exp.Branch != "" {
		checks[FieldBranch] = meta.Branch == exp.Branch
	}

	matched := make([]string, 0, len(meta.MatchedProviders))
	for _, rp := range meta.MatchedProviders {
		matched = append(matched, rp.Provider.ID)
	}

	return EvalResult{
		ChatID:    gc.ID,
		Message:   gc.Message,
		Branch:    meta.Branch,
		Checks:    checks,
		RecallAt3: RecallAtK(exp.ProviderIDs, matched, rankCutoff),
		MRRAt3:    MRRAtK(exp.ProviderIDs, matched, rankCutoff),
		Matched:   matched,
	}
}

func (r *Runner) updateSummary(s *EvalSummary, gc GoldenChat, res EvalResult) {
	s.AvgLatency += res.Latency

	if len(gc.Expected.ProviderIDs) > 0 {
		s.RankedChats++
		s.AvgRecallAt3 += res.RecallAt3
		s.AvgMRRAt3 += res.MRRAt3
	}

	difficulty := s.ByDifficulty[gc.Difficulty]
	if difficulty == nil {
		difficulty = &FieldSummary{}
		s.ByDifficulty[gc.Difficulty] = difficulty
	}

	for _, field := range Fields() {
		ok, scored := res.Checks[field]
		if !scored {
			continue
		}
		fs := s.ByField[field]
		if fs == nil {
			fs = &FieldSummary{}
			s.ByField[field] = fs
		}
		fs.Scored++
		difficulty.Scored++
		if ok {
			fs.Correct++
			difficulty.Correct++
		} else {
			s.Failures = append(s.Failures, fmt.Sprintf("%s: %s", gc.ID, field))
		}
	}
}

func (r *Runner) finalizeSummary(s *EvalSummary) {
	if s.TotalChats > 0 {
		s.AvgLatency /= time.Duration(s.TotalChats)
	}
	if s.RankedChats > 0 {
		n := float64(s.RankedChats)
		s.AvgRecallAt3 /= n
		s.AvgMRRAt3 /= n
	}

	for _, fs := range s.ByField {
		fs.Accuracy = Accuracy(fs.Correct, fs.Scored)
	}
	for _, fs := range s.ByDifficulty {
		fs.Accuracy = Accuracy(fs.Correct, fs.Scored)
	}
}
