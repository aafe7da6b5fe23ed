package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/ctrm-fit/internal/model"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the CTRM products that can be recommended",
	RunE: func(cmd *cobra.Command, _ []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			return writeJSON(cmd.OutOrStdout(), model.Catalog())
		}
		formatCatalog(cmd.OutOrStdout(), model.Catalog())
		return nil
	},
}

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "List the questionnaire and the accepted answer values",
	RunE: func(cmd *cobra.Command, _ []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			return writeJSON(cmd.OutOrStdout(), model.Questions())
		}
		formatQuestions(cmd.OutOrStdout(), model.Questions())
		return nil
	},
}

func formatCatalog(w io.Writer, products []model.Product) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tKEY STRENGTHS")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.Name, strings.Join(p.KeyStrengths, ", "))
	}
	_ = tw.Flush()
}

func formatQuestions(w io.Writer, questions []model.Question) {
	for i, q := range questions {
		fmt.Fprintf(w, "%d. %s [%s: %s]\n", i+1, q.Text, q.ID, q.Type)
		for _, opt := range q.Options {
			fmt.Fprintf(w, "   - %s\n", opt)
		}
	}
}

func init() {
	catalogCmd.Flags().Bool("json", false, "print as JSON")
	questionsCmd.Flags().Bool("json", false, "print as JSON")

	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(questionsCmd)
}
