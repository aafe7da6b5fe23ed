package main

import (
	"context"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/ctrm-fit/internal/advisor"
	"github.com/sells-group/ctrm-fit/internal/config"
	"github.com/sells-group/ctrm-fit/internal/db"
	"github.com/sells-group/ctrm-fit/internal/justify"
	"github.com/sells-group/ctrm-fit/internal/model"
	"github.com/sells-group/ctrm-fit/internal/resilience"
	"github.com/sells-group/ctrm-fit/internal/sink"
	"github.com/sells-group/ctrm-fit/internal/store"
	anthropicpkg "github.com/sells-group/ctrm-fit/pkg/anthropic"
	"github.com/sells-group/ctrm-fit/pkg/notion"
	sfpkg "github.com/sells-group/ctrm-fit/pkg/salesforce"
)

// advisorEnv holds the advisor and the resources behind its sink.
type advisorEnv struct {
	Advisor *advisor.Advisor
	Retry   resilience.RetryConfig

	closers []func()
}

// Close releases every resource opened for the environment.
func (e *advisorEnv) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

// initAdvisor validates cfg for mode and builds the advisor. Callers should
// defer env.Close().
func initAdvisor(ctx context.Context, c *config.Config, mode string) (*advisorEnv, error) {
	if err := c.Validate(mode); err != nil {
		return nil, err
	}

	env := &advisorEnv{Retry: retryConfig(c)}

	var s sink.Sink
	if mode != config.ModeRecommend {
		var (
			closers []func()
			err     error
		)
		s, closers, err = newSink(ctx, c)
		if err != nil {
			return nil, err
		}
		env.closers = closers
	}

	env.Advisor = advisor.New(model.Catalog(), newGenerator(c), s)
	return env, nil
}

// newGenerator returns the model-backed generator when an API key is set,
// and the template fallback otherwise.
func newGenerator(c *config.Config) justify.Generator {
	if c.Anthropic.Key == "" {
		zap.L().Debug("CTRMFIT_ANTHROPIC_KEY not set, justifications use templates")
		return justify.Fallback{}
	}

	var opts []anthropicpkg.Option
	if c.Anthropic.BaseURL != "" {
		opts = append(opts, anthropicpkg.WithBaseURL(c.Anthropic.BaseURL))
	}
	if c.Anthropic.TimeoutSecs > 0 {
		opts = append(opts, anthropicpkg.WithTimeout(c.Anthropic.Timeout()))
	}
	if c.Anthropic.MaxRetries >= 0 {
		opts = append(opts, anthropicpkg.WithMaxRetries(c.Anthropic.MaxRetries))
	}

	var breaker *resilience.CircuitBreaker
	if c.Justify.BreakerThreshold > 0 {
		breaker = resilience.NewCircuitBreaker(resilience.FromCircuitConfig(
			c.Justify.BreakerThreshold,
			time.Duration(c.Justify.BreakerResetSecs)*time.Second,
		))
	}

	return justify.New(anthropicpkg.NewClient(c.Anthropic.Key, opts...), justify.Config{
		Model:       c.Anthropic.Model,
		MaxTokens:   c.Anthropic.MaxTokens,
		Temperature: c.Anthropic.Temperature,
		Timeout:     c.Anthropic.Timeout(),
		Breaker:     breaker,
	})
}

// newSink builds every configured sink kind. More than one kind fans out
// through sink.Multi. The returned closers release opened stores.
func newSink(ctx context.Context, c *config.Config) (sink.Sink, []func(), error) {
	var (
		sinks   []sink.Sink
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	for _, kind := range c.Sink.Kinds {
		switch kind {
		case sink.KindLog:
			sinks = append(sinks, sink.NewLog(nil))

		case sink.KindWebhook:
			sinks = append(sinks, sink.NewWebhook(c.Webhook.URL, c.Webhook.Timeout()))

		case sink.KindXLSX:
			sinks = append(sinks, sink.NewXLSX(c.XLSX.Path))

		case sink.KindSalesforce:
			client, err := initSalesforce(c)
			if err != nil {
				closeAll()
				return nil, nil, err
			}
			sinks = append(sinks, sink.NewSalesforce(client, c.Salesforce.SObject))

		case sink.KindNotion:
			client := notion.NewClient(c.Notion.Token, notion.WithRateLimit(c.Notion.RateLimit))
			sinks = append(sinks, sink.NewNotion(client, c.Notion.FeedbackDB))

		case sink.KindStore:
			st, err := openStore(ctx, c)
			if err != nil {
				closeAll()
				return nil, nil, err
			}
			closers = append(closers, func() { _ = st.Close() })
			sinks = append(sinks, sink.NewStore(st))

		default:
			closeAll()
			return nil, nil, eris.Errorf("unsupported sink kind: %s", kind)
		}
	}

	if len(sinks) == 0 {
		return nil, nil, eris.New("no sink configured (CTRMFIT_SINK_KINDS)")
	}
	if len(sinks) == 1 {
		zap.L().Info("persisting feedback", zap.String("sink", sinks[0].Name()))
		return sinks[0], closers, nil
	}
	m := sink.NewMulti(sinks...)
	zap.L().Info("persisting feedback", zap.String("sink", m.Name()))
	return m, closers, nil
}

// openStore opens and migrates the configured feedback store.
func openStore(ctx context.Context, c *config.Config) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch c.Store.Driver {
	case "sqlite":
		dsn := c.Store.DatabaseURL
		if dsn == "" {
			dsn = "ctrm-fit.db"
		}
		st, err = store.NewSQLite(dsn)
	case "postgres":
		st, err = store.NewPostgres(ctx, c.Store.DatabaseURL, db.PoolConfig{
			MaxConns: c.Store.MaxConns,
			MinConns: c.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", c.Store.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

func initSalesforce(c *config.Config) (sfpkg.Client, error) {
	if c.Salesforce.ClientID == "" {
		return nil, eris.New("salesforce client ID is required (CTRMFIT_SALESFORCE_CLIENT_ID)")
	}

	pemData, err := os.ReadFile(c.Salesforce.KeyPath)
	if err != nil {
		return nil, eris.Wrap(err, "read salesforce JWT private key")
	}

	return sfpkg.Connect(sfpkg.Credentials{
		LoginURL:   c.Salesforce.LoginURL,
		Username:   c.Salesforce.Username,
		ClientID:   c.Salesforce.ClientID,
		PrivateKey: string(pemData),
	}, sfpkg.WithRateLimit(c.Salesforce.RateLimit))
}

func retryConfig(c *config.Config) resilience.RetryConfig {
	return resilience.FromRetryConfig(
		c.Retry.MaxAttempts,
		time.Duration(c.Retry.InitialBackoffMS)*time.Millisecond,
		time.Duration(c.Retry.MaxBackoffMS)*time.Millisecond,
	)
}

// persistWithRetry persists rec, retrying transient failures. The record id
// is fixed, so idempotent sinks never store it twice.
func persistWithRetry(ctx context.Context, adv *advisor.Advisor, retry resilience.RetryConfig, rec model.Record) error {
	retry.OnRetry = resilience.RetryLogger(adv.Sink().Name(), "persist")
	return resilience.Do(ctx, retry, func(ctx context.Context) error {
		return adv.Persist(ctx, rec)
	})
}
