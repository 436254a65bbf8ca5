package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nutrifit/nutrifit-backend/internal/session"
)

func newInsightsCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "insights",
		Aliases: []string{"insight"},
		Short:   "List, generate and dismiss AI insights",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List active insights",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if n, err := o.controller.FetchLatest(cmd.Context(), session.FetchOptions{}); err != nil {
					return report(cmd, n, err)
				}
				insights := o.controller.Insights()
				return o.render(cmd.OutOrStdout(), insights, func(w io.Writer) error { return writeInsights(w, insights) })
			},
		},
		&cobra.Command{
			Use:   "show <id>",
			Short: "Show one insight",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				details, err := o.api.GetInsightDetails(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("get insight %d: %w", id, err)
				}
				return o.render(cmd.OutOrStdout(), details, func(w io.Writer) error { return writeInsight(w, details.Insight) })
			},
		},
		&cobra.Command{
			Use:   "generate [analysis-type]",
			Short: "Generate a new insight (exercise, nutrition or overall)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				analysisType := ""
				if len(args) == 1 {
					analysisType = args[0]
				}
				n, err := o.controller.GenerateInsight(cmd.Context(), analysisType)
				if err := report(cmd, n, err); err != nil {
					return err
				}
				insights := o.controller.Insights()
				if len(insights) == 0 {
					return nil
				}
				return o.render(cmd.OutOrStdout(), insights[0], func(w io.Writer) error { return writeInsight(w, insights[0]) })
			},
		},
		&cobra.Command{
			Use:   "dismiss <id>",
			Short: "Dismiss an insight",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				n, err := o.controller.DismissInsight(cmd.Context(), id)
				return report(cmd, n, err)
			},
		},
	)
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
