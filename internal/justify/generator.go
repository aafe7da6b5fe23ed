// Package justify writes the prose that explains a recommendation to the
// prospect. Generation never fails: when the model is unconfigured or
// unavailable, the text is synthesized from the catalog and the answers.
package justify

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/ctrm-fit/internal/model"
	"github.com/sells-group/ctrm-fit/internal/resilience"
	"github.com/sells-group/ctrm-fit/pkg/anthropic"
)

var errEmptyResponse = eris.New("justify: model returned no text")

// Generator writes recommendation text.
type Generator interface {
	// Compare explains an ideal fit against its strong alternative.
	Compare(ctx context.Context, answers model.UserAnswers, ideal, strong model.Product) string
	// Suggest writes a follow-up suggestion for a product the prospect agreed with.
	Suggest(ctx context.Context, answers model.UserAnswers, product model.Product) string
}

// Config configures an LLMGenerator.
type Config struct {
	Model       string
	MaxTokens   int64
	Temperature *float64
	// Timeout bounds a single generation call. Zero leaves the caller's
	// context in charge.
	Timeout time.Duration
	// Breaker, when set, skips the model after repeated failures.
	Breaker *resilience.CircuitBreaker
}

// LLMGenerator writes text with an Anthropic model and falls back to local
// templates on any failure.
type LLMGenerator struct {
	client   anthropic.Client
	cfg      Config
	fallback Fallback
}

// New returns an LLMGenerator, or the plain Fallback when client is nil.
func New(client anthropic.Client, cfg Config) Generator {
	if client == nil {
		return Fallback{}
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 512
	}
	return &LLMGenerator{client: client, cfg: cfg}
}

// Compare implements Generator.
func (g *LLMGenerator) Compare(ctx context.Context, a model.UserAnswers, ideal, strong model.Product) string {
	text, err := g.generate(ctx, "compare", buildComparePrompt(a, ideal, strong))
	if err != nil {
		zap.L().Warn("justify: comparison fell back to template",
			zap.String("ideal", string(ideal.ID)),
			zap.String("strong", string(strong.ID)),
			zap.Error(err),
		)
		return g.fallback.Compare(ctx, a, ideal, strong)
	}
	return text
}

// Suggest implements Generator.
func (g *LLMGenerator) Suggest(ctx context.Context, a model.UserAnswers, p model.Product) string {
	text, err := g.generate(ctx, "suggest", buildSuggestPrompt(a, p))
	if err != nil {
		zap.L().Warn("justify: suggestion fell back to template",
			zap.String("product", string(p.ID)),
			zap.Error(err),
		)
		return g.fallback.Suggest(ctx, a, p)
	}
	return text
}

func (g *LLMGenerator) generate(ctx context.Context, purpose, prompt string) (string, error) {
	call := func(ctx context.Context) (string, error) {
		if g.cfg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
			defer cancel()
		}

		resp, err := g.client.CreateMessage(ctx, anthropic.MessageRequest{
			Model:       g.cfg.Model,
			MaxTokens:   g.cfg.MaxTokens,
			System:      []anthropic.SystemBlock{{Text: systemPrompt}},
			Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
			Temperature: g.cfg.Temperature,
		})
		if err != nil {
			return "", err
		}
		resp.Usage.LogCost(g.cfg.Model, purpose)

		text := strings.TrimSpace(resp.Text())
		if text == "" {
			return "", errEmptyResponse
		}
		return text, nil
	}

	if g.cfg.Breaker == nil {
		return call(ctx)
	}
	return resilience.ExecuteVal(ctx, g.cfg.Breaker, call)
}
