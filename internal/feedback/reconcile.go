// Package feedback validates a user's verdict on a recommendation and
// flattens it, with the answers it rates, into a persistable record.
package feedback

import (
	"fmt"
	"strings"

	"github.com/sells-group/ctrm-fit/internal/model"
)

// PlaceholderSuggestion stands in for the generated suggestion when the
// suggestion could not be produced.
const PlaceholderSuggestion = "No suggestion was generated for this recommendation."

// Input is a raw feedback submission. Weight values are taken as submitted
// (numbers or numeric strings) and clamped during reconciliation.
type Input struct {
	Rating              model.Rating   `json:"rating" yaml:"rating"`
	Comment             string         `json:"comment,omitempty" yaml:"comment"`
	UserCorrection      *Correction    `json:"userCorrection,omitempty" yaml:"userCorrection"`
	PriorityWeights     map[string]any `json:"priorityWeights,omitempty" yaml:"priorityWeights"`
	GeneratedSuggestion string         `json:"generatedSuggestion,omitempty" yaml:"generatedSuggestion"`
}

// ValidationError lists every reason a submission was rejected.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return "feedback: invalid submission: " + strings.Join(e.Reasons, "; ")
}

// Reconcile validates in against the catalog and returns the terminal
// feedback. Accurate feedback keeps only the suggestion; inaccurate feedback
// needs an ideal pick from the catalog, an optional distinct strong pick and
// weights totalling exactly 100.
func Reconcile(in Input, catalog []model.Product) (model.Feedback, error) {
	switch in.Rating {
	case model.RatingAccurate:
		suggestion := strings.TrimSpace(in.GeneratedSuggestion)
		if suggestion == "" {
			suggestion = PlaceholderSuggestion
		}
		return model.Feedback{Rating: model.RatingAccurate, GeneratedSuggestion: suggestion}, nil
	case model.RatingInaccurate:
		return reconcileInaccurate(in, catalog)
	default:
		return model.Feedback{}, &ValidationError{
			Reasons: []string{fmt.Sprintf("rating: must be %q or %q, got %q", model.RatingAccurate, model.RatingInaccurate, in.Rating)},
		}
	}
}

func reconcileInaccurate(in Input, catalog []model.Product) (model.Feedback, error) {
	var reasons []string

	var c Correction
	if in.UserCorrection != nil {
		c = *in.UserCorrection
	}
	switch {
	case c.Ideal == "":
		reasons = append(reasons, "userCorrection.ideal: select an ideal fit")
	case !inCatalog(catalog, c.Ideal):
		reasons = append(reasons, fmt.Sprintf("userCorrection.ideal: unknown product %q", c.Ideal))
	}
	if c.Strong != "" {
		switch {
		case !inCatalog(catalog, c.Strong):
			reasons = append(reasons, fmt.Sprintf("userCorrection.strong: unknown product %q", c.Strong))
		case c.Strong == c.Ideal:
			reasons = append(reasons, "userCorrection.strong: must differ from ideal")
		}
	}

	weights, weightReasons := checkWeights(in.PriorityWeights)
	reasons = append(reasons, weightReasons...)

	if len(reasons) > 0 {
		return model.Feedback{}, &ValidationError{Reasons: reasons}
	}
	return model.Feedback{
		Rating:          model.RatingInaccurate,
		Comment:         strings.TrimSpace(in.Comment),
		UserCorrection:  c.UserCorrection(),
		PriorityWeights: weights,
	}, nil
}

func inCatalog(catalog []model.Product, id model.ProductID) bool {
	_, ok := model.ProductByID(catalog, id)
	return ok
}
