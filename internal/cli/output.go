package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/nutrifit/nutrifit-backend/internal/insights/dto"
	"github.com/nutrifit/nutrifit-backend/internal/suggestion"
)

// render writes v as JSON or YAML, or calls text for the text format.
func (o *options) render(w io.Writer, v any, text func(io.Writer) error) error {
	switch o.output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		// go through JSON so field names and identifier forms match the API
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()
	default:
		return text(w)
	}
}

func writeSuggestion(w io.Writer, s *suggestion.DisplayState) error {
	if s == nil {
		_, err := fmt.Fprintln(w, "No suggestion yet.")
		return err
	}
	c := s.Content

	header := "Suggestion"
	if s.SuggestionID != "" {
		header += " #" + s.SuggestionID
	}
	header += " (" + string(s.Source)
	if s.Timestamp != "" {
		header += ", " + s.Timestamp
	}
	fmt.Fprintln(w, header+")")

	for _, line := range []struct{ label, value string }{
		{"Title", deref(c.Title)},
		{"Type", deref(c.SuggestionType)},
		{"Goal", deref(c.UserGoal)},
		{"Time frame", deref(c.TimeFrame)},
		{"Summary", deref(c.Summary)},
		{"Plan", deref(c.Plan)},
	} {
		if line.value != "" {
			fmt.Fprintf(w, "%s: %s\n", line.label, line.value)
		}
	}

	if len(c.Recommendations) > 0 {
		fmt.Fprintln(w, "Recommendations:")
		for i, rec := range c.Recommendations {
			fmt.Fprintf(w, "  %d. %s\n", i+1, rec)
		}
	}
	if len(c.SpecificMetrics) > 0 {
		fmt.Fprintln(w, "Metrics:")
		keys := make([]string, 0, len(c.SpecificMetrics))
		for k := range c.SpecificMetrics {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  %s: %s\n", k, c.SpecificMetrics[k])
		}
	}
	if r := deref(c.Rationale); r != "" {
		fmt.Fprintf(w, "Rationale: %s\n", r)
	}
	if c.ConfidenceScore != nil {
		fmt.Fprintf(w, "Confidence: %g\n", *c.ConfidenceScore)
	}
	return nil
}

func writeInsights(w io.Writer, insights []dto.Insight) error {
	if len(insights) == 0 {
		_, err := fmt.Fprintln(w, "No insights yet.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tCATEGORY\tPRIORITY\tCONTENT")
	for _, in := range insights {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", in.InsightID, in.Status, in.Category, in.Priority, firstLine(in.Content, 60))
	}
	return tw.Flush()
}

func writeInsight(w io.Writer, in dto.Insight) error {
	fmt.Fprintf(w, "Insight #%d [%s, %s, priority %d]\n", in.InsightID, in.Category, in.Status, in.Priority)
	if !in.ExpiresAt.IsZero() {
		fmt.Fprintf(w, "Expires: %s\n", in.ExpiresAt.Format("2006-01-02 15:04"))
	}
	fmt.Fprintln(w)
	_, err := fmt.Fprintln(w, strings.TrimSpace(in.Content))
	return err
}

func firstLine(s string, max int) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if r := []rune(s); len(r) > max {
		return string(r[:max-3]) + "..."
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
