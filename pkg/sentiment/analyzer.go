// Package sentiment scores post text through an external language model.
// Analysis is best-effort: every failure mode degrades to a neutral result
// instead of propagating, so a flaky model never aborts a drain.
package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/bellatorhq/flowpulse/pkg/llm"
)

// Category is the sentiment classification of one post.
type Category string

const (
	Positive Category = "Positive"
	Neutral  Category = "Neutral"
	Negative Category = "Negative"
)

// Score bounds. Parsed scores outside the range are clamped, not rejected.
const (
	MinScore = -100
	MaxScore = 100
)

// DegradedReason names the failure kind behind a degraded Result, so
// callers can tell "neutral because the model said so" from "neutral
// because the call failed".
type DegradedReason string

const (
	ReasonModelError  DegradedReason = "model_error"
	ReasonNoJSON      DegradedReason = "no_json_in_response"
	ReasonInvalidJSON DegradedReason = "invalid_json"
)

// Result is the outcome of analyzing one post.
type Result struct {
	Score       int      `json:"score"`
	Sentiment   Category `json:"sentiment"`
	Explanation string   `json:"explanation"`

	// Degraded is true when the result is the neutral fallback rather
	// than a parsed model answer; Reason then names the failure kind.
	Degraded bool           `json:"-"`
	Reason   DegradedReason `json:"-"`
}

// Analyzer scores post text with a language model.
type Analyzer struct {
	llm    llm.LLM
	logger *logrus.Logger
}

// NewAnalyzer creates an Analyzer over the given completion model.
func NewAnalyzer(model llm.LLM, logger *logrus.Logger) (*Analyzer, error) {
	if model == nil {
		return nil, fmt.Errorf("sentiment: LLM is required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Analyzer{llm: model, logger: logger}, nil
}

// Analyze scores text. It never fails: transport errors, missing JSON and
// malformed fields all degrade to a neutral Result tagged with the reason.
func (a *Analyzer) Analyze(ctx context.Context, text string) Result {
	raw, err := a.llm.Generate(ctx, buildPrompt(text),
		llm.WithTemperature(0.3),
		llm.WithMaxTokens(200),
	)
	if err != nil {
		a.logger.WithError(err).Error("Sentiment completion failed")
		return degraded(ReasonModelError, fmt.Sprintf("analysis failed: %v", err))
	}

	jsonStr, ok := extractJSON(raw)
	if !ok {
		a.logger.WithField("response", raw).Warn("No JSON object in model response")
		return degraded(ReasonNoJSON, "analysis failed: no JSON object in model response")
	}

	var parsed struct {
		Score       *int   `json:"score"`
		Sentiment   string `json:"sentiment"`
		Explanation string `json:"explanation"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		a.logger.WithError(err).WithField("response", raw).Warn("Model response JSON did not parse")
		return degraded(ReasonInvalidJSON, fmt.Sprintf("analysis failed: %v", err))
	}

	result := Result{
		Score:       0,
		Sentiment:   Neutral,
		Explanation: "Analysis completed",
	}
	if parsed.Score != nil {
		result.Score = clampScore(*parsed.Score)
	}
	if s := Category(parsed.Sentiment); s == Positive || s == Neutral || s == Negative {
		result.Sentiment = s
	}
	if parsed.Explanation != "" {
		result.Explanation = parsed.Explanation
	}

	a.logger.WithFields(logrus.Fields{
		"score":     result.Score,
		"sentiment": result.Sentiment,
	}).Debug("Analyzed post text")

	return result
}

// extractJSON returns the substring between the first '{' and the last '}'
// of raw, tolerating commentary the model may emit around the object.
func extractJSON(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return raw[start : end+1], true
}

func clampScore(score int) int {
	if score > MaxScore {
		return MaxScore
	}
	if score < MinScore {
		return MinScore
	}
	return score
}

func degraded(reason DegradedReason, explanation string) Result {
	return Result{
		Score:       0,
		Sentiment:   Neutral,
		Explanation: explanation,
		Degraded:    true,
		Reason:      reason,
	}
}
