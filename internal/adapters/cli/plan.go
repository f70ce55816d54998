package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewPlanCommand creates the plan command with subcommands
func NewPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Review pending mission plans",
		Long: `Approve, reject or score mission plans waiting for settlement review.

A reviewer must live at the mission's settlement and cannot review their own plan.
Scores add to the plan's running total; once enough reviewers have scored it the
plan is approved when the total reaches the passing score.

Examples:
  marsmission plan approve 3 --reviewer "Mae Jemison"
  marsmission plan reject 3
  marsmission plan score 3 --score 75`,
	}

	cmd.AddCommand(newPlanDecisionCommand("approve", "Approve a pending plan", true))
	cmd.AddCommand(newPlanDecisionCommand("reject", "Reject a pending plan", false))
	cmd.AddCommand(newPlanScoreCommand())

	return cmd
}

func newPlanDecisionCommand(use, short string, approve bool) *cobra.Command {
	var reviewer string

	cmd := &cobra.Command{
		Use:   use + " <mission-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMissionID(args[0])
			if err != nil {
				return err
			}
			by, err := resolveReviewer(reviewer)
			if err != nil {
				return err
			}

			client, ctx, cancel, err := connect()
			if err != nil {
				return err
			}
			defer client.Close()
			defer cancel()

			result, err := client.ApprovePlan(ctx, id, by, approve)
			if err != nil {
				return fmt.Errorf("failed to %s plan: %w", use, err)
			}

			verb := "Plan approved"
			if !approve {
				verb = "Plan rejected"
			}
			writeMissionResult(os.Stdout, verb, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&reviewer, "reviewer", "r", "", "Name of the reviewer (default: user config)")

	return cmd
}

func newPlanScoreCommand() *cobra.Command {
	var (
		reviewer string
		score    float64
	)

	cmd := &cobra.Command{
		Use:   "score <mission-id>",
		Short: "Score a pending plan",
		Long: `Add a reviewer's score (0-100) to a pending plan. The score is weighted by
the reviewer's role before it counts toward the total.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMissionID(args[0])
			if err != nil {
				return err
			}
			if score < 0 || score > 100 {
				return fmt.Errorf("--score must be between 0 and 100")
			}
			by, err := resolveReviewer(reviewer)
			if err != nil {
				return err
			}

			client, ctx, cancel, err := connect()
			if err != nil {
				return err
			}
			defer client.Close()
			defer cancel()

			result, err := client.ScorePlan(ctx, id, by, score)
			if err != nil {
				return fmt.Errorf("failed to score plan: %w", err)
			}

			writeMissionResult(os.Stdout, fmt.Sprintf("Plan scored %.0f by %s", score, by), result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&reviewer, "reviewer", "r", "", "Name of the reviewer (default: user config)")
	cmd.Flags().Float64Var(&score, "score", 0, "Score between 0 and 100 (required)")
	cmd.MarkFlagRequired("score")

	return cmd
}
