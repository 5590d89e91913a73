package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/abhisek/monarch/internal/app"
	"github.com/abhisek/monarch/internal/progress"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show grace score, rank, streak and skills",
	RunE: func(cmd *cobra.Command, args []string) error {
		metrics, _ := cmd.Flags().GetBool("metrics")
		return runStats(cmd, metrics)
	},
}

func init() {
	statsCmd.Flags().Bool("metrics", false, "Also print prometheus metrics in text format")
}

func runStats(cmd *cobra.Command, withMetrics bool) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	printStats(out, a)

	if withMetrics {
		fmt.Fprintln(out)
		return writeMetrics(out, a)
	}
	return nil
}

func printStats(w io.Writer, a *app.App) {
	p := a.Progress
	score := p.GraceScore()
	rank := progress.Rank(score)

	if name := p.Profile().FullName; name != "" {
		fmt.Fprintf(w, "%s\n\n", name)
	}
	fmt.Fprintf(w, "Grace score   %d\n", score)
	fmt.Fprintf(w, "              %s\n", progress.ScoreSubtitle(score))
	fmt.Fprintf(w, "Rank          %s (level %d): %s\n", rank.Title, rank.Level, rank.Description)
	if rank.Level < len(progress.Ranks()) {
		fmt.Fprintf(w, "              %s %3.0f%% toward %s\n",
			bar(progress.RankProgress(score), 20), progress.RankProgress(score)*100, rank.NextTitle)
	}
	fmt.Fprintf(w, "Streak        %d %s\n", p.CurrentStreak(), plural(p.CurrentStreak(), "day", "days"))
	fmt.Fprintf(w, "Lessons       %d completed\n", p.CompletedLessonsCount())
	fmt.Fprintf(w, "This week     %d %s\n", p.SessionsThisWeek(), plural(p.SessionsThisWeek(), "session", "sessions"))

	fmt.Fprintln(w, "\nSkills")
	for _, mv := range p.OrderedMetrics() {
		fmt.Fprintf(w, "  %-12s %s %3.0f%%\n", mv.Skill, bar(mv.Value, 20), mv.Value*100)
	}

	fmt.Fprintln(w, "\nWeek")
	var labels, marks []string
	for _, d := range p.WeeklyActivity() {
		labels = append(labels, d.Label)
		mark := " · "
		if d.Active {
			mark = " ● "
		}
		marks = append(marks, mark)
	}
	fmt.Fprintf(w, "  %s\n  %s\n", strings.Join(labels, " "), strings.Join(marks, " "))
}

func writeMetrics(w io.Writer, a *app.App) error {
	families, err := a.Registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

// bar renders a fraction in [0, 1] as a fixed-width gauge.
func bar(frac float64, width int) string {
	filled := int(frac*float64(width) + 0.5)
	filled = max(0, min(width, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
