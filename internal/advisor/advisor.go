// Package advisor runs the recommendation and feedback flows end to end:
// answers are validated and scored, the pick is justified, and feedback on it
// is reconciled into a record and handed to a sink.
package advisor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/ctrm-fit/internal/feedback"
	"github.com/sells-group/ctrm-fit/internal/justify"
	"github.com/sells-group/ctrm-fit/internal/model"
	"github.com/sells-group/ctrm-fit/internal/resilience"
	"github.com/sells-group/ctrm-fit/internal/scorer"
	"github.com/sells-group/ctrm-fit/internal/sink"
)

// AnswersError reports questionnaire answers that failed validation.
type AnswersError struct {
	Err error
}

func (e *AnswersError) Error() string { return e.Err.Error() }

func (e *AnswersError) Unwrap() error { return e.Err }

// PersistError reports a record that was built but not stored. The record
// is kept so the caller can resubmit it unchanged.
type PersistError struct {
	Record model.Record
	Err    error
}

func (e *PersistError) Error() string { return e.Err.Error() }

func (e *PersistError) Unwrap() error { return e.Err }

// Result is a scored and justified recommendation.
type Result struct {
	Ideal         model.Product         `json:"ideal"`
	Strong        model.Product         `json:"strong"`
	Justification string                `json:"justification"`
	Ranking       []scorer.Ranked       `json:"ranking"`
	Explanation   []scorer.Contribution `json:"explanation,omitempty"`
	Answers       model.UserAnswers     `json:"answers"`

	recommend scorer.Recommendation
}

// Recommendation returns the ideal / strong pair.
func (r Result) Recommendation() scorer.Recommendation { return r.recommend }

// Advisor holds the catalog and collaborators for both flows.
type Advisor struct {
	catalog   []model.Product
	generator justify.Generator
	sink      sink.Sink
	now       func() time.Time
	newID     func() string
}

// Option configures an Advisor.
type Option func(*Advisor)

// WithClock overrides the record timestamp source.
func WithClock(now func() time.Time) Option {
	return func(a *Advisor) { a.now = now }
}

// WithIDs overrides the record id source.
func WithIDs(newID func() string) Option {
	return func(a *Advisor) { a.newID = newID }
}

// New returns an Advisor. A nil generator uses the local fallback and a nil
// sink logs records. It panics if the catalog or rule table is inconsistent.
func New(catalog []model.Product, gen justify.Generator, s sink.Sink, opts ...Option) *Advisor {
	if err := scorer.ValidateRules(catalog); err != nil {
		panic(err)
	}
	if gen == nil {
		gen = justify.Fallback{}
	}
	if s == nil {
		s = sink.NewLog(nil)
	}
	a := &Advisor{
		catalog:   catalog,
		generator: gen,
		sink:      s,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Catalog returns the product catalog.
func (a *Advisor) Catalog() []model.Product { return a.catalog }

// Sink returns the configured sink.
func (a *Advisor) Sink() sink.Sink { return a.sink }

func (a *Advisor) prepareAnswers(answers model.UserAnswers) (model.UserAnswers, error) {
	if err := answers.Validate(); err != nil {
		return model.UserAnswers{}, &AnswersError{Err: err}
	}
	return answers.Normalize(), nil
}

// Score validates answers and returns the recommendation without text.
func (a *Advisor) Score(answers model.UserAnswers, explain bool) (Result, error) {
	answers, err := a.prepareAnswers(answers)
	if err != nil {
		return Result{}, err
	}
	rec, scores := scorer.Recommend(answers, a.catalog)
	res := Result{
		Ideal:     rec.Ideal,
		Strong:    rec.Strong,
		Ranking:   scorer.Rank(scores, a.catalog),
		Answers:   answers,
		recommend: rec,
	}
	if explain {
		res.Explanation = scorer.Explain(answers)
	}
	return res, nil
}

// Recommend scores answers and justifies the pick.
func (a *Advisor) Recommend(ctx context.Context, answers model.UserAnswers, explain bool) (Result, error) {
	res, err := a.Score(answers, explain)
	if err != nil {
		return Result{}, err
	}
	res.Justification = a.generator.Compare(ctx, res.Answers, res.Ideal, res.Strong)

	zap.L().Info("advisor: recommendation",
		zap.String("ideal", string(res.Ideal.ID)),
		zap.String("strong", string(res.Strong.ID)),
	)
	return res, nil
}

// Suggest writes a follow-up suggestion for a product the prospect agreed
// with. An empty id suggests for the ideal fit.
func (a *Advisor) Suggest(ctx context.Context, answers model.UserAnswers, id model.ProductID) (model.Product, string, error) {
	answers, err := a.prepareAnswers(answers)
	if err != nil {
		return model.Product{}, "", err
	}
	if id == "" {
		rec, _ := scorer.Recommend(answers, a.catalog)
		id = rec.Ideal.ID
	}
	p, ok := model.ProductByID(a.catalog, id)
	if !ok {
		return model.Product{}, "", &feedback.ValidationError{Reasons: []string{"product: unknown product " + string(id)}}
	}
	return p, a.generator.Suggest(ctx, answers, p), nil
}

// Prepare validates answers and feedback and flattens them into a record.
// The recommendation being rated is recomputed from the answers.
func (a *Advisor) Prepare(answers model.UserAnswers, in feedback.Input) (model.Record, error) {
	return a.prepare(answers, in, a.newID)
}

// PrepareAs is Prepare under a caller-chosen record id, used to resubmit a
// record that failed to persist. The id must be a UUID; it is stored in
// canonical form.
func (a *Advisor) PrepareAs(recordID string, answers model.UserAnswers, in feedback.Input) (model.Record, error) {
	id, err := uuid.Parse(recordID)
	if err != nil {
		return model.Record{}, &feedback.ValidationError{Reasons: []string{"recordId: must be a UUID"}}
	}
	return a.prepare(answers, in, id.String)
}

func (a *Advisor) prepare(answers model.UserAnswers, in feedback.Input, newID func() string) (model.Record, error) {
	res, err := a.Score(answers, false)
	if err != nil {
		return model.Record{}, err
	}
	fb, err := feedback.Reconcile(in, a.catalog)
	if err != nil {
		return model.Record{}, err
	}
	return feedback.BuildRecord(res.Answers, res.recommend, fb, a.now(), newID)
}

// Persist hands rec to the sink once. Failures come back as *PersistError.
func (a *Advisor) Persist(ctx context.Context, rec model.Record) error {
	if err := a.sink.Persist(ctx, rec); err != nil {
		zap.L().Error("advisor: persist failed",
			zap.String("record_id", rec.RecordID),
			zap.String("sink", a.sink.Name()),
			zap.String("class", resilience.Classify(err)),
			zap.Error(err),
		)
		return &PersistError{Record: rec, Err: eris.Wrapf(err, "advisor: persist record %s", rec.RecordID)}
	}
	zap.L().Info("advisor: record persisted",
		zap.String("record_id", rec.RecordID),
		zap.String("sink", a.sink.Name()),
		zap.String("rating", string(rec.FeedbackRating)),
	)
	return nil
}

// Submit prepares and persists feedback in one step.
func (a *Advisor) Submit(ctx context.Context, answers model.UserAnswers, in feedback.Input) (model.Record, error) {
	rec, err := a.Prepare(answers, in)
	if err != nil {
		return model.Record{}, err
	}
	return rec, a.Persist(ctx, rec)
}

// SubmitAs is Submit under the id of an earlier record that failed to
// persist. Sinks that already hold that id do not store it again.
func (a *Advisor) SubmitAs(ctx context.Context, recordID string, answers model.UserAnswers, in feedback.Input) (model.Record, error) {
	rec, err := a.PrepareAs(recordID, answers, in)
	if err != nil {
		return model.Record{}, err
	}
	return rec, a.Persist(ctx, rec)
}
