package evaluation

import "fmt"

// GuardrailConfig sets the accuracy floor a pipeline must hold on the golden set.
type GuardrailConfig struct {
	MinFieldAccuracy float64
	FieldMinimums    map[Field]float64
	MinRecallAt3     float64
}

type Guardrails struct {
	config GuardrailConfig
}

func NewGuardrails(config GuardrailConfig) *Guardrails {
	if config.MinFieldAccuracy < 0 {
		config.MinFieldAccuracy = 0
	}
	if config.MinFieldAccuracy > 1 {
		config.MinFieldAccuracy = 1
	}
	return &Guardrails{config: config}
}

func (g *Guardrails) threshold(field Field) float64 {
	if v, ok := g.config.FieldMinimums[field]; ok {
		return v
	}
	return g.config.MinFieldAccuracy
}

// Violations lists every field and ranking metric under its floor, in report order.
func (g *Guardrails) Violations(s *EvalSummary) []string {
	var out []string
	for _, field := range Fields() {
		fs, ok := s.ByField[field]
		if !ok || fs.Scored == 0 {
			continue
		}
		if floor := g.threshold(field); fs.Accuracy < floor {
			out = append(out, fmt.Sprintf("%s accuracy %.2f below %.2f", field, fs.Accuracy, floor))
		}
	}
	if s.RankedChats > 0 && s.AvgRecallAt3 < g.config.MinRecallAt3 {
		out = append(out, fmt.Sprintf("recall@3 %.2f below %.2f", s.AvgRecallAt3, g.config.MinRecallAt3))
	}
	return out
}

// Pass reports whether the summary clears every guardrail.
func (g *Guardrails) Pass(s *EvalSummary) bool {
	return len(g.Violations(s)) == 0
}
