// Package analysis turns raw model completions into validated BillAnalysis
// records. Model output is unreliable input; every failure path here degrades
// into a well-formed record instead of an error.
package analysis

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/wattlens/wattlens/internal/analysis/domain"
	"github.com/wattlens/wattlens/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	// Phrase the upstream model returns when it was handed an empty prompt.
	emptyInputSentinel = "It seems like your message was empty"

	errNoInsights = "model returned no insights"

	fallbackTextLimit = 500
)

// Best-effort extraction of the first brace-delimited span, not a parse
// guarantee. Greedy so the outermost braces win.
var jsonSpanPattern = regexp.MustCompile(`(?s)\{.*\}`)

var fallbackRecommendations = []string{
	"Review the detailed analysis provided",
	"Contact utility company for clarification if needed",
}

type Normalizer struct {
	clk clock.Clock
	log *zap.Logger
}

type NormalizerParams struct {
	fx.In

	Clock clock.Clock
	Log   *zap.Logger
}

func NewNormalizer(p NormalizerParams) *Normalizer {
	return &Normalizer{
		clk: p.Clock,
		log: p.Log.Named("analysis.normalizer"),
	}
}

// Normalize turns rawText into a BillAnalysis. It never fails: structurally
// broken input produces a fallback record, the empty-input sentinel produces
// a degraded record. The returned record always satisfies: Error set, or
// BillSummary present and Recommendations non-nil.
func (n *Normalizer) Normalize(rawText string) domain.BillAnalysis {
	now := n.clk.Now()

	if strings.Contains(rawText, emptyInputSentinel) {
		return domain.BillAnalysis{
			Error:        errNoInsights,
			RawAnalysis:  rawText,
			AnalysisDate: now,
		}
	}

	span := jsonSpanPattern.FindString(rawText)
	if span == "" {
		n.log.Debug("no structured span in model response")
		return n.fallback(rawText)
	}

	var parsed domain.BillAnalysis
	if err := json.Unmarshal([]byte(span), &parsed); err != nil {
		n.log.Debug("structured span did not parse", zap.Error(err))
		return n.fallback(rawText)
	}

	// Server-assigned fields are authoritative, whatever the model claimed.
	parsed.AnalysisDate = now
	parsed.RawAnalysis = rawText
	parsed.Error = ""

	if parsed.BillSummary == nil {
		parsed.BillSummary = &domain.BillSummary{}
	}
	if parsed.Recommendations == nil {
		parsed.Recommendations = []string{}
	}
	if parsed.Anomalies == nil {
		parsed.Anomalies = []string{}
	}

	return parsed
}

func (n *Normalizer) fallback(rawText string) domain.BillAnalysis {
	text := rawText
	// Counted in runes, not bytes; currency symbols are routine in this text.
	if utf8.RuneCountInString(text) > fallbackTextLimit {
		text = string([]rune(text)[:fallbackTextLimit]) + "..."
	}

	return domain.BillAnalysis{
		BillSummary:     &domain.BillSummary{AnalysisText: text},
		Recommendations: append([]string(nil), fallbackRecommendations...),
		Anomalies:       []string{},
		RawAnalysis:     rawText,
		AnalysisDate:    n.clk.Now(),
	}
}
