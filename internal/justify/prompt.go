package justify

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/ctrm-fit/internal/model"
)

const systemPrompt = `You are an expert solutions consultant for a vendor of commodity trading and risk management (CTRM) software.
You write short, persuasive, personalized explanations for prospects who have just completed a needs questionnaire.
Reference the prospect's specific answers. Write plain prose with no headings, lists or markdown.`

const comparePrompt = `Based on the prospect's answers we selected %q as the ideal fit and %q as a strong alternative.

Write 3-4 sentences explaining why the ideal fit suits them best, then one sentence on when the alternative would be the better choice.

**Prospect's answers:**
%s

**Ideal fit:**
%s

**Strong alternative:**
%s`

const suggestPrompt = `The prospect agreed that %q is the right CTRM platform for them.

Write 2-3 sentences suggesting a sensible first step for their rollout, grounded in their answers and the product's strengths. Do not repeat the product name.

**Prospect's answers:**
%s

**Product:**
%s`

var printer = message.NewPrinter(language.English)

// formatAmount renders an amount with thousands separators, e.g. 1,250,000.
func formatAmount(v int64) string {
	return printer.Sprintf("%d", v)
}

// formatBudget renders the budget range as the prospect entered it.
func formatBudget(b model.Budget) string {
	switch {
	case b.Min != nil && b.Max != nil:
		return fmt.Sprintf("$%s - $%s", formatAmount(*b.Min), formatAmount(*b.Max))
	case b.Min != nil:
		return fmt.Sprintf("from $%s", formatAmount(*b.Min))
	case b.Max != nil:
		return fmt.Sprintf("up to $%s", formatAmount(*b.Max))
	default:
		return ""
	}
}

func describeAnswers(a model.UserAnswers) string {
	var sb strings.Builder
	line := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&sb, "- %s: %s\n", label, value)
		}
	}
	line("Industry", string(a.Industry))
	line("Organization size", string(a.OrgSize))
	if a.Users > 0 {
		line("Number of users", formatAmount(int64(a.Users)))
	}
	line("Annual budget", formatBudget(a.ExpectedBudget))
	line("Go-live timeline", string(a.GoLiveTimeline))
	line("Trading type", string(a.TradingType))
	line("Current system", string(a.CurrentSystem))
	line("Key priorities", strings.Join(a.PriorityNames(), ", "))
	line("Primary region", string(a.Region))
	line("Integrations", strings.Join(a.IntegrationNames(), ", "))
	if sb.Len() == 0 {
		return "- (no answers given)"
	}
	return strings.TrimRight(sb.String(), "\n")
}

func describeProduct(p model.Product) string {
	return fmt.Sprintf("- Name: %s\n- Description: %s\n- Key strengths: %s",
		p.Name, p.Description, strings.Join(p.KeyStrengths, ", "))
}

func buildComparePrompt(a model.UserAnswers, ideal, strong model.Product) string {
	return fmt.Sprintf(comparePrompt, ideal.Name, strong.Name,
		describeAnswers(a), describeProduct(ideal), describeProduct(strong))
}

func buildSuggestPrompt(a model.UserAnswers, p model.Product) string {
	return fmt.Sprintf(suggestPrompt, p.Name, describeAnswers(a), describeProduct(p))
}
