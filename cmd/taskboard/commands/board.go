package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"taskboard/cmd/taskboard/output"
	"taskboard/internal/application/dto"
	"taskboard/internal/application/view"
	"taskboard/internal/domain/valueobject"
)

type boardColumnResult struct {
	ID    string        `json:"id" yaml:"id"`
	Title string        `json:"title" yaml:"title"`
	Tasks []dto.TaskDTO `json:"tasks" yaml:"tasks"`
}

type calendarDayResult struct {
	Date     string        `json:"date" yaml:"date"`
	InMonth  bool          `json:"in_month" yaml:"in_month"`
	IsToday  bool          `json:"is_today,omitempty" yaml:"is_today,omitempty"`
	Tasks    []dto.TaskDTO `json:"tasks" yaml:"tasks"`
	Overflow int           `json:"overflow,omitempty" yaml:"overflow,omitempty"`
}

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show tasks as a kanban board",
	Long: `Show the signed-in user's tasks in To Do, In Progress and Done columns.

Examples:
  taskboard board
  taskboard board --search report
  taskboard board --output json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext()
		defer cancel()

		if err := signIn(ctx); err != nil {
			return err
		}

		query, _ := cmd.Flags().GetString("search")
		board := view.Kanban(container.TaskStore.Tasks(), query)

		if formatter.Structured() {
			result := make([]boardColumnResult, 0, len(board.Columns))
			for _, col := range board.Columns {
				result = append(result, boardColumnResult{
					ID:    col.ID,
					Title: col.Title,
					Tasks: dto.TasksToDTOs(col.Tasks),
				})
			}
			return formatter.Print(result)
		}

		printer.Block(output.RenderBoard(board))
		if !quiet {
			summary := view.Summarize(container.TaskStore.Tasks())
			printer.Subtle("%d of %d task(s) shown, %.0f%% done", board.Total(), summary.Total, summary.CompletionRate()*100)
		}
		return nil
	},
}

var calendarCmd = &cobra.Command{
	Use:   "calendar [YYYY-MM]",
	Short: "Show tasks on a month calendar",
	Long: `Show a six-week calendar starting on the Sunday on or before the 1st.

A task appears on its end date, or on its start date when it has no end
date. At most three tasks are listed per day.

Examples:
  taskboard calendar
  taskboard calendar 2025-03`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext()
		defer cancel()

		if err := signIn(ctx); err != nil {
			return err
		}

		today := valueobject.DateOf(time.Now())
		anchor := view.FirstOfMonth(today)
		if len(args) == 1 {
			month, err := parseMonth(args[0])
			if err != nil {
				return err
			}
			anchor = month
		}

		grid := view.Calendar(container.TaskStore.Tasks(), anchor, today)

		if formatter.Structured() {
			days := make([]calendarDayResult, 0, view.CalendarRows*view.DaysPerWeek)
			for _, week := range grid.Weeks {
				for _, d := range week {
					days = append(days, calendarDayResult{
						Date:     d.Date.String(),
						InMonth:  d.InMonth,
						IsToday:  d.IsToday,
						Tasks:    dto.TasksToDTOs(d.Tasks),
						Overflow: d.Overflow,
					})
				}
			}
			return formatter.Print(days)
		}

		printer.Block(output.RenderCalendar(grid))
		return nil
	},
}

func parseMonth(s string) (valueobject.Date, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return valueobject.Date{}, fmt.Errorf("invalid month %q: use YYYY-MM", s)
	}
	return valueobject.NewDate(t.Year(), t.Month(), 1), nil
}

func init() {
	boardCmd.Flags().String("search", "", "Only show tasks matching this text")

	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(calendarCmd)
}
