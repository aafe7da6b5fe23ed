package justify

import (
	"context"
	"fmt"
	"strings"

	"github.com/sells-group/ctrm-fit/internal/model"
)

// Fallback writes justifications from local data only. It is used when no
// model is configured and whenever a model call fails.
type Fallback struct{}

var _ Generator = Fallback{}

// Compare implements Generator.
func (Fallback) Compare(_ context.Context, a model.UserAnswers, ideal, strong model.Product) string {
	return fmt.Sprintf(
		"Based on your focus on %s and %s, %s is an excellent choice. "+
			"Its core strengths in %s align with your stated requirements. "+
			"%s is a strong alternative, with strengths in %s.",
		focus(a), scale(a), ideal.Name, strengths(ideal), strong.Name, strengths(strong))
}

// Suggest implements Generator.
func (Fallback) Suggest(_ context.Context, a model.UserAnswers, p model.Product) string {
	s := fmt.Sprintf(
		"Start your %s rollout with the capabilities behind your focus on %s, drawing on its strengths in %s.",
		p.Name, focus(a), strengths(p))
	if b := formatBudget(a.ExpectedBudget); b != "" {
		s += fmt.Sprintf(" Phase the remaining scope to fit your budget of %s.", b)
	}
	return s
}

func focus(a model.UserAnswers) string {
	if len(a.Priorities) == 0 {
		return "your core business needs"
	}
	return strings.Join(a.PriorityNames(), ", ")
}

func scale(a model.UserAnswers) string {
	if a.OrgSize == "" {
		return "your organization's scale"
	}
	return fmt.Sprintf("your organization's scale of '%s'", a.OrgSize)
}

func strengths(p model.Product) string {
	return strings.Join(p.KeyStrengths, ", ")
}
