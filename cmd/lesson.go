package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/monarch/internal/catalog"
)

var lessonCmd = &cobra.Command{
	Use:   "lesson",
	Short: "Browse and complete lessons",
}

var lessonListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories and their lessons (optionally one category)",
	RunE: func(cmd *cobra.Command, args []string) error {
		categoryID, _ := cmd.Flags().GetString("category")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		out := cmd.OutOrStdout()

		categories := a.Catalog.Categories()
		if categoryID != "" {
			c, ok := a.Catalog.Category(categoryID)
			if !ok {
				return fmt.Errorf("no category %q", categoryID)
			}
			categories = []catalog.Category{c}
		}
		if len(categories) == 0 {
			fmt.Fprintln(out, "No lessons available.")
			return nil
		}

		for _, c := range categories {
			status := fmt.Sprintf("%d/%d", a.Progress.CompletedCount(c), len(c.Lessons))
			if !a.Progress.IsCategoryUnlocked(c.ID) {
				status = "locked"
			}
			fmt.Fprintf(out, "%s (%s)  %s\n", c.Title, c.ID, status)
			fmt.Fprintln(out, strings.Repeat("─", 60))
			for _, l := range c.Lessons {
				mark := " "
				if a.Progress.IsLessonCompleted(l.ID) {
					mark = "x"
				}
				fmt.Fprintf(out, "  [%s] %-20s %s\n", mark, l.ID, l.Title)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

var lessonShowCmd = &cobra.Command{
	Use:   "show <lesson-id>",
	Short: "Print a lesson",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		l, c, ok := a.Catalog.Lesson(args[0])
		if !ok {
			return fmt.Errorf("no lesson %q", args[0])
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s · %s\n\n%s\n", c.Title, l.Title, l.Content)
		if len(l.KeyPoints) > 0 {
			fmt.Fprintln(out, "\nKey points")
			for _, kp := range l.KeyPoints {
				fmt.Fprintf(out, "  • %s\n", kp)
			}
		}
		return nil
	},
}

var lessonCompleteCmd = &cobra.Command{
	Use:   "complete <lesson-id>",
	Short: "Mark a lesson as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		id := args[0]
		_, c, ok := a.Catalog.Lesson(id)
		if !ok {
			return fmt.Errorf("no lesson %q", id)
		}
		if !a.Progress.IsCategoryUnlocked(c.ID) {
			return fmt.Errorf("%s is locked; complete a lesson in an open category first", c.Title)
		}

		already := a.Progress.IsLessonCompleted(id)
		warnPersist(cmd, a.Progress.MarkLessonCompleted(cmd.Context(), id))

		out := cmd.OutOrStdout()
		if already {
			fmt.Fprintf(out, "%s was already completed.\n", id)
		} else {
			fmt.Fprintf(out, "Completed %s.\n", id)
		}
		fmt.Fprintf(out, "Grace score %d · %d/%d lessons in %s\n",
			a.Progress.GraceScore(), a.Progress.CompletedCount(c), len(c.Lessons), c.Title)
		return nil
	},
}

func init() {
	lessonListCmd.Flags().String("category", "", "Only list this category id")

	lessonCmd.AddCommand(lessonListCmd)
	lessonCmd.AddCommand(lessonShowCmd)
	lessonCmd.AddCommand(lessonCompleteCmd)
}
