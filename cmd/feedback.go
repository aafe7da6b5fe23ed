package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/ctrm-fit/internal/config"
	"github.com/sells-group/ctrm-fit/internal/model"
	"github.com/sells-group/ctrm-fit/internal/store"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Record and inspect feedback on recommendations",
}

// -- feedback submit --

var feedbackSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Validate feedback on a recommendation and persist it",
	Long:  "Recomputes the recommendation from the answers, reconciles the feedback against it and hands the record to the configured sinks. Transient sink failures are retried with the same record id.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		answersPath, _ := cmd.Flags().GetString("answers")
		feedbackPath, _ := cmd.Flags().GetString("feedback")
		retries, _ := cmd.Flags().GetInt("retries")
		recordID, _ := cmd.Flags().GetString("record-id")

		if answersPath == "-" && feedbackPath == "-" {
			return eris.New("only one of --answers and --feedback can read stdin")
		}
		answers, err := readAnswers(answersPath, cmd.InOrStdin())
		if err != nil {
			return err
		}
		in, err := readFeedback(feedbackPath, cmd.InOrStdin())
		if err != nil {
			return err
		}

		env, err := initAdvisor(ctx, cfg, config.ModeFeedback)
		if err != nil {
			return err
		}
		defer env.Close()

		var rec model.Record
		if recordID != "" {
			rec, err = env.Advisor.PrepareAs(recordID, answers, in)
		} else {
			rec, err = env.Advisor.Prepare(answers, in)
		}
		if err != nil {
			return err
		}

		retry := env.Retry
		if cmd.Flags().Changed("retries") {
			retry.MaxAttempts = retries + 1
		}
		if err := persistWithRetry(ctx, env.Advisor, retry, rec); err != nil {
			// The validated record is printed so it can be resubmitted.
			_ = writeJSON(cmd.ErrOrStderr(), rec)
			return err
		}

		return writeJSON(cmd.OutOrStdout(), rec)
	},
}

// -- feedback list --

var feedbackListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored feedback records",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate(config.ModeHistory); err != nil {
			return err
		}

		rating, _ := cmd.Flags().GetString("rating")
		since, _ := cmd.Flags().GetDuration("since")
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		filter := store.RecordFilter{
			Rating: model.Rating(rating),
			Limit:  limit,
		}
		if since > 0 {
			filter.Since = time.Now().Add(-since)
		}

		st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		records, err := st.ListRecords(ctx, filter)
		if err != nil {
			return eris.Wrap(err, "feedback list")
		}

		if asJSON {
			return writeJSON(cmd.OutOrStdout(), records)
		}
		if len(records) == 0 {
			fmt.Fprintln(os.Stderr, "No feedback records found.")
			return nil
		}
		formatRecordList(cmd.OutOrStdout(), records)
		return nil
	},
}

func formatRecordList(w io.Writer, records []model.Record) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RECORDED\tID\tRATING\tIDEAL\tSTRONG\tCORRECTED\tINDUSTRY")
	for _, r := range records {
		corrected := "-"
		if r.UserCorrectedIdeal != nil {
			corrected = *r.UserCorrectedIdeal
			if r.UserCorrectedStrong != nil {
				corrected += " / " + *r.UserCorrectedStrong
			}
		}
		industry := r.Industry
		if industry == "" {
			industry = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Timestamp.Local().Format("2006-01-02 15:04"),
			r.RecordID,
			r.FeedbackRating,
			r.OriginalIdealProduct,
			r.OriginalStrongProduct,
			corrected,
			industry,
		)
	}
	_ = tw.Flush()
}

func init() {
	feedbackSubmitCmd.Flags().String("answers", "", "answers file (YAML or JSON), - for stdin")
	feedbackSubmitCmd.Flags().String("feedback", "", "feedback file (YAML or JSON), - for stdin")
	feedbackSubmitCmd.Flags().Int("retries", 0, "retries for transient sink failures (default from config)")
	feedbackSubmitCmd.Flags().String("record-id", "", "record id of an earlier submission that failed to persist")

	feedbackListCmd.Flags().String("rating", "", "filter by rating (accurate, inaccurate)")
	feedbackListCmd.Flags().Duration("since", 0, "only records newer than this (e.g. 24h, 168h)")
	feedbackListCmd.Flags().Int("limit", 50, "max number of records to display")
	feedbackListCmd.Flags().Bool("json", false, "print records as JSON")

	feedbackCmd.AddCommand(feedbackSubmitCmd)
	feedbackCmd.AddCommand(feedbackListCmd)
	rootCmd.AddCommand(feedbackCmd)
}
