package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/monarch/internal/app"
	"github.com/abhisek/monarch/internal/practice"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Run an interactive quiz or scenario session",
	Long: `Answer a practice session in the terminal and record the result.

--category takes a category id or "mixed" to draw from every category.
--mode is quick (5 questions), deep (15 questions, drawn from every
category) or scenario (5 real-world situations).`,
	RunE: runPractice,
}

var practiceRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a session score computed elsewhere",
	RunE: func(cmd *cobra.Command, args []string) error {
		score, _ := cmd.Flags().GetFloat64("score")
		if score < 0 || score > 1 {
			return fmt.Errorf("score %v must be between 0 and 1", score)
		}
		a, composer, err := openComposer(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		warnPersist(cmd, composer.RecordResult(cmd.Context(), score))
		fmt.Fprintf(cmd.OutOrStdout(), "Recorded %.0f%%. Grace score %d, streak %d.\n",
			score*100, a.Progress.GraceScore(), a.Progress.CurrentStreak())
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{practiceCmd, practiceRecordCmd} {
		c.Flags().String("category", practice.MixedCategoryID, `Category id, or "mixed"`)
		c.Flags().String("mode", "quick", "Mode: quick, deep or scenario")
	}
	practiceRecordCmd.Flags().Float64("score", 0, "Fraction of correct answers, 0 to 1")
	_ = practiceRecordCmd.MarkFlagRequired("score")

	practiceCmd.AddCommand(practiceRecordCmd)
}

// openComposer opens the app and selects the flagged category and mode.
func openComposer(cmd *cobra.Command) (*app.App, *practice.Composer, error) {
	categoryID, _ := cmd.Flags().GetString("category")
	modeVal, _ := cmd.Flags().GetString("mode")

	mode, err := practice.ParseMode(modeVal)
	if err != nil {
		return nil, nil, err
	}

	a, err := openApp(cmd)
	if err != nil {
		return nil, nil, err
	}
	if categoryID != practice.MixedCategoryID {
		c, ok := a.Catalog.Category(categoryID)
		if !ok {
			a.Close()
			return nil, nil, fmt.Errorf("no category %q", categoryID)
		}
		if !a.Progress.IsCategoryUnlocked(c.ID) {
			a.Close()
			return nil, nil, fmt.Errorf("%s is locked; complete a lesson first", c.Title)
		}
	}

	composer := a.Composer(nil)
	composer.Select(categoryID, mode)
	return a, composer, nil
}

func runPractice(cmd *cobra.Command, args []string) error {
	a, composer, err := openComposer(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	session := composer.Start()
	if session.Total() == 0 {
		fmt.Fprintln(out, "Nothing to practice here yet. Try another category or --category mixed.")
		return nil
	}

	fmt.Fprintf(out, "%s · %s · %s\n\n", session.Mode, session.Mode.Subtitle(), session.Mode.Duration())
	askAll(out, bufio.NewScanner(cmd.InOrStdin()), session)

	recorded, err := composer.Finish(cmd.Context(), session)
	warnPersist(cmd, err)

	fmt.Fprintf(out, "── Summary: %d/%d correct ──\n", session.Correct(), session.Total())
	if recorded {
		fmt.Fprintf(out, "Grace score %d · streak %d\n", a.Progress.GraceScore(), a.Progress.CurrentStreak())
	}
	return nil
}

// askAll prompts for every item. Unanswered items count as wrong.
func askAll(out io.Writer, scanner *bufio.Scanner, s *practice.Session) {
	for i := 1; !s.Done(); i++ {
		item, _ := s.Current()
		fmt.Fprintf(out, "── %d/%d ──\n%s\n", i, s.Total(), item.Prompt)
		for j, opt := range item.Options {
			fmt.Fprintf(out, "  %d) %s\n", j+1, opt)
		}

		fmt.Fprint(out, "\nYour answer: ")
		choice := -1
		if scanner.Scan() {
			if n, err := strconv.Atoi(strings.TrimSpace(scanner.Text())); err == nil {
				choice = n - 1
			}
		}

		if s.Answer(choice) {
			fmt.Fprintln(out, "✓ Correct!")
		} else {
			fmt.Fprintf(out, "✗ Not quite. Answer: %s\n", item.Options[item.CorrectIndex])
		}
		if item.Explanation != "" {
			fmt.Fprintf(out, "%s\n", item.Explanation)
		}
		fmt.Fprintln(out)
	}
}
