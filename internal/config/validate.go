package config

import (
	"net/url"
	"slices"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/ctrm-fit/internal/sink"
)

// Validation modes.
const (
	ModeRecommend = "recommend"
	ModeFeedback  = "feedback"
	ModeHistory   = "history"
	ModeServe     = "serve"
)

// Validate checks the settings a command needs. Every problem is reported at
// once.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case ModeRecommend:
	case ModeFeedback:
		errs = append(errs, c.validateSinks()...)
		errs = append(errs, c.validateRetry()...)
	case ModeHistory:
		errs = append(errs, c.validateStore()...)
	case ModeServe:
		errs = append(errs, c.validateSinks()...)
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be between 1 and 65535")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Anthropic.Key != "" && c.Anthropic.MaxTokens <= 0 {
		errs = append(errs, "anthropic.max_tokens must be > 0")
	}
	if c.Justify.BreakerThreshold < 0 {
		errs = append(errs, "justify.breaker_threshold must be >= 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) validateSinks() []string {
	var errs []string
	if len(c.Sink.Kinds) == 0 {
		errs = append(errs, "sink.kinds must name at least one sink")
	}

	seen := make(map[string]bool, len(c.Sink.Kinds))
	for _, kind := range c.Sink.Kinds {
		if !slices.Contains(sink.Kinds, kind) {
			errs = append(errs, "sink.kinds: unknown sink "+kind)
			continue
		}
		if seen[kind] {
			errs = append(errs, "sink.kinds: duplicate sink "+kind)
			continue
		}
		seen[kind] = true

		switch kind {
		case sink.KindWebhook:
			if c.Webhook.URL == "" {
				errs = append(errs, "webhook.url is required")
			} else if u, err := url.Parse(c.Webhook.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				errs = append(errs, "webhook.url must be an http(s) URL")
			}
		case sink.KindXLSX:
			if c.XLSX.Path == "" {
				errs = append(errs, "xlsx.path is required")
			}
		case sink.KindSalesforce:
			if c.Salesforce.ClientID == "" {
				errs = append(errs, "salesforce.client_id is required")
			}
			if c.Salesforce.Username == "" {
				errs = append(errs, "salesforce.username is required")
			}
			if c.Salesforce.KeyPath == "" {
				errs = append(errs, "salesforce.key_path is required")
			}
		case sink.KindNotion:
			if c.Notion.Token == "" {
				errs = append(errs, "notion.token is required")
			}
			if c.Notion.FeedbackDB == "" {
				errs = append(errs, "notion.feedback_db is required")
			}
		case sink.KindStore:
			errs = append(errs, c.validateStore()...)
		}
	}
	return errs
}

func (c *Config) validateStore() []string {
	var errs []string
	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, "store.driver must be sqlite or postgres")
	}
	if c.Store.DatabaseURL == "" {
		errs = append(errs, "store.database_url is required")
	}
	if c.Store.MaxConns < 0 || c.Store.MinConns < 0 || (c.Store.MaxConns > 0 && c.Store.MinConns > c.Store.MaxConns) {
		errs = append(errs, "store.min_conns and store.max_conns must satisfy 0 <= min <= max")
	}
	return errs
}

func (c *Config) validateRetry() []string {
	var errs []string
	if c.Retry.MaxAttempts < 1 {
		errs = append(errs, "retry.max_attempts must be >= 1")
	}
	if c.Retry.InitialBackoffMS < 0 || c.Retry.MaxBackoffMS < 0 {
		errs = append(errs, "retry backoff values must be >= 0")
	}
	return errs
}
