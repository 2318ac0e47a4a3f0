package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"RegimeAudit/internal/domain/models"
	domsvc "RegimeAudit/internal/domain/service"
	"RegimeAudit/pkg/breaker"
	"RegimeAudit/pkg/logger"
)

const chatCompletionsPath = "/v1/chat/completions"

var directional = regexp.MustCompile(`(?i)\b(buy|sell|long|short)\b`)

type LLMConfig struct {
	BaseURL   string
	APIKey    string
	Model     string
	Timeout   time.Duration
	MaxTokens int
}

// LLMExplainer asks an OpenAI-compatible chat endpoint for the narrative.
// Every failure is returned as a degraded result, never as an error.
type LLMExplainer struct {
	base      *httpServiceBase
	model     string
	maxTokens int
	log       *logger.Logger
}

func NewLLMExplainer(cfg LLMConfig, log *logger.Logger) *LLMExplainer {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 150
	}
	if log == nil {
		log = logger.Nop()
	}
	br := breaker.New(breaker.DefaultConfig("narrative-llm"))
	return &LLMExplainer{
		base:      newHTTPServiceBase(cfg.BaseURL, cfg.APIKey, cfg.Timeout, br),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		log:       log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	MaxTokens      int            `json:"max_tokens"`
	Stop           []string       `json:"stop"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (e *LLMExplainer) Generate(ctx context.Context, in models.NarrativeInput) models.NarrativeResult {
	req := chatRequest{
		Model: e.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPayload(in)},
		},
		Temperature:    0,
		MaxTokens:      e.maxTokens,
		Stop:           stopWords,
		ResponseFormat: responseFormat{Type: "json_object"},
	}

	var resp chatResponse
	if err := e.base.PostJSON(ctx, chatCompletionsPath, req, &resp); err != nil {
		e.log.Warn("narrative request failed", logger.String("asset", in.Asset), logger.Error(err))
		return models.NarrativeDegraded(reason(err))
	}
	if len(resp.Choices) == 0 {
		return models.NarrativeDegraded("empty completion")
	}

	n, err := parseNarrative(resp.Choices[0].Message.Content)
	if err != nil {
		e.log.Warn("narrative rejected", logger.String("asset", in.Asset), logger.Error(err))
		return models.NarrativeDegraded(err.Error())
	}
	return models.NarrativeOK(n, models.NarrativeSourceLLM)
}

// parseNarrative decodes the model content and applies the content guard.
func parseNarrative(content string) (models.Narrative, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var n models.Narrative
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &n); err != nil {
		return n, fmt.Errorf("malformed narrative: %w", err)
	}
	if !n.Complete() {
		return n, errors.New("narrative missing required fields")
	}
	for _, s := range []string{n.MarketContext, n.AlignmentVerdict, n.RiskNote} {
		if m := directional.FindString(s); m != "" {
			return n, fmt.Errorf("narrative contains directional language %q", m)
		}
	}
	return n, nil
}

func reason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, breaker.ErrOpen):
		return "circuit open"
	default:
		return err.Error()
	}
}

var _ domsvc.NarrativeGenerator = (*LLMExplainer)(nil)
