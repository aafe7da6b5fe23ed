package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/ctrm-fit/internal/advisor"
	"github.com/sells-group/ctrm-fit/internal/config"
	"github.com/sells-group/ctrm-fit/internal/model"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend the ideal and strong CTRM product for a set of answers",
	Long:  "Reads questionnaire answers (YAML or JSON, \"-\" for stdin), scores every catalog product and prints the ideal fit, the strong alternative and a justification.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		answersPath, _ := cmd.Flags().GetString("answers")
		explain, _ := cmd.Flags().GetBool("explain")
		asJSON, _ := cmd.Flags().GetBool("json")

		answers, err := readAnswers(answersPath, cmd.InOrStdin())
		if err != nil {
			return err
		}

		env, err := initAdvisor(ctx, cfg, config.ModeRecommend)
		if err != nil {
			return err
		}
		defer env.Close()

		res, err := env.Advisor.Recommend(ctx, answers, explain)
		if err != nil {
			return err
		}

		if asJSON {
			return writeJSON(cmd.OutOrStdout(), res)
		}
		formatRecommendation(cmd.OutOrStdout(), res)
		return nil
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Write a follow-up suggestion for an agreed product",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		answersPath, _ := cmd.Flags().GetString("answers")
		product, _ := cmd.Flags().GetString("product")

		answers, err := readAnswers(answersPath, cmd.InOrStdin())
		if err != nil {
			return err
		}

		env, err := initAdvisor(ctx, cfg, config.ModeRecommend)
		if err != nil {
			return err
		}
		defer env.Close()

		p, text, err := env.Advisor.Suggest(ctx, answers, model.ProductID(product))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s\n", p.Name, text)
		return nil
	},
}

func formatRecommendation(w io.Writer, res advisor.Result) {
	fmt.Fprintf(w, "Ideal fit:          %s\n", res.Ideal.Name)
	fmt.Fprintf(w, "Strong alternative: %s\n\n", res.Strong.Name)
	fmt.Fprintf(w, "%s\n\n", res.Justification)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tPRODUCT\tSCORE")
	for i, r := range res.Ranking {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", i+1, r.Product.Name, r.Score)
	}
	_ = tw.Flush()

	if len(res.Explanation) == 0 {
		return
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := []string{"GROUP", "MATCH"}
	for _, r := range res.Ranking {
		header = append(header, strings.ToUpper(r.Product.Name))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, c := range res.Explanation {
		row := []string{c.Group, c.Match}
		for _, r := range res.Ranking {
			row = append(row, fmt.Sprintf("%+d", c.Delta[r.Product.ID]))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	recommendCmd.Flags().String("answers", "-", "answers file (YAML or JSON), - for stdin")
	recommendCmd.Flags().Bool("explain", false, "show the contribution of each rule group")
	recommendCmd.Flags().Bool("json", false, "print the result as JSON")

	suggestCmd.Flags().String("answers", "-", "answers file (YAML or JSON), - for stdin")
	suggestCmd.Flags().String("product", "", "product id (default: the ideal fit)")

	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(suggestCmd)
}
