package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/nutrifit/nutrifit-backend/internal/insights/dto"
	"github.com/nutrifit/nutrifit-backend/internal/session"
)

func newSuggestCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Request, show and clear AI suggestions",
	}
	cmd.AddCommand(
		newSuggestShowCmd(o),
		newSuggestQuickCmd(o),
		newSuggestCustomCmd(o),
		newSuggestClearCmd(o),
	)
	return cmd
}

func newSuggestShowCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the latest suggestion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := o.controller.FetchLatest(cmd.Context(), session.FetchOptions{})
			if err != nil {
				return report(cmd, n, err)
			}
			return o.showCurrent(cmd)
		},
	}
}

func newSuggestQuickCmd(o *options) *cobra.Command {
	var params dto.QuickSuggestionParams
	cmd := &cobra.Command{
		Use:   "quick",
		Short: "Request a suggestion with default preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := o.controller.QuickSuggestion(cmd.Context(), params)
			if err := report(cmd, n, err); err != nil {
				return err
			}
			return o.showActive(cmd)
		},
	}
	cmd.Flags().StringVarP(&params.Type, "type", "t", dto.SuggestionTypeExercise, "suggestion type: exercise or diet")
	cmd.Flags().StringVarP(&params.Goal, "goal", "g", "", "goal, e.g. weight_loss, muscle_gain, maintenance")
	cmd.Flags().StringVar(&params.TimeFrame, "time-frame", "", "time frame (default week)")
	return cmd
}

func newSuggestCustomCmd(o *options) *cobra.Command {
	var req dto.SuggestionRequest
	var focus, equipment, diet, times []string
	cmd := &cobra.Command{
		Use:   "custom",
		Short: "Request a suggestion with your own preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if n, err := o.controller.OpenEditor(); err != nil {
				return report(cmd, n, err)
			}
			req.FocusAreas = focus
			req.Equipment = equipment
			req.DietaryPreferences = diet
			req.PreferredTimes = times

			n, err := o.controller.CustomSuggestion(cmd.Context(), req)
			if err := report(cmd, n, err); err != nil {
				return err
			}
			return o.showActive(cmd)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&req.SuggestionType, "type", "t", dto.SuggestionTypeExercise, "suggestion type: exercise or diet")
	f.StringVarP(&req.UserGoal, "goal", "g", "", "goal, e.g. weight_loss, muscle_gain, maintenance")
	f.StringVar(&req.TimeFrame, "time-frame", "", "time frame (default week)")
	f.StringVar(&req.PreferredIntensity, "intensity", "", "preferred intensity")
	f.StringVar(&req.ExperienceLevel, "experience", "", "experience level")
	f.StringSliceVar(&focus, "focus", nil, "focus areas")
	f.StringSliceVar(&equipment, "equipment", nil, "available equipment")
	f.StringSliceVar(&diet, "diet", nil, "dietary preferences")
	f.StringVar(&req.WeeklySchedule, "schedule", "", "weekly schedule")
	f.StringSliceVar(&times, "times", nil, "preferred times")
	f.StringVar(&req.Notes, "notes", "", "additional notes")
	return cmd
}

func newSuggestClearCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the current suggestion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if n, err := o.controller.FetchLatest(cmd.Context(), session.FetchOptions{}); err != nil {
				return report(cmd, n, err)
			}
			n, err := o.controller.ClearActiveSuggestion(cmd.Context())
			o.controller.Wait()
			if err := report(cmd, n, err); err != nil {
				return err
			}
			if n.IsZero() {
				return report(cmd, session.Notice{Level: session.LevelInfo, Message: "Nothing to clear."}, nil)
			}
			return o.showCurrent(cmd)
		},
	}
}

// showActive prints the suggestion just generated, if any.
func (o *options) showActive(cmd *cobra.Command) error {
	state := o.controller.Active()
	if state == nil {
		return nil
	}
	return o.render(cmd.OutOrStdout(), state, func(w io.Writer) error { return writeSuggestion(w, state) })
}

func (o *options) showCurrent(cmd *cobra.Command) error {
	state := o.controller.Current()
	return o.render(cmd.OutOrStdout(), state, func(w io.Writer) error { return writeSuggestion(w, state) })
}
