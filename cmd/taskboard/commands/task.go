package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"taskboard/cmd/taskboard/output"
	"taskboard/internal/application/dragdrop"
	"taskboard/internal/application/dto"
	"taskboard/internal/application/view"
	"taskboard/internal/domain/entity"
	"taskboard/internal/domain/valueobject"
)

// taskCmd represents the task command
var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
	Long: `Create, edit, move, delete and query the signed-in user's tasks.

Task IDs may be abbreviated to any unique prefix.

Examples:
  taskboard task create --title "Fix login bug" --priority high --category work
  taskboard task edit 3f2a --end 2025-03-15
  taskboard task move 3f2a in-progress
  taskboard task list --status todo --sort priority --order desc
  taskboard task delete 3f2a`,
}

var taskCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a task",
	Long: `Create a task for the signed-in user.

Dates use YYYY-MM-DD, times HH:MM. The status defaults to todo.

Examples:
  taskboard task create --title "Write report" --priority high --category work
  taskboard task create -t "Dentist" -p medium --category health --end 2025-04-02`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext()
		defer cancel()

		if err := signIn(ctx); err != nil {
			return err
		}

		req := dto.CreateTaskRequest{}
		req.Title, _ = cmd.Flags().GetString("title")
		req.Description, _ = cmd.Flags().GetString("description")
		req.Priority, _ = cmd.Flags().GetString("priority")
		req.Category, _ = cmd.Flags().GetString("category")
		req.Status, _ = cmd.Flags().GetString("status")
		req.StartDate, _ = cmd.Flags().GetString("start")
		req.EndDate, _ = cmd.Flags().GetString("end")
		req.StartTime, _ = cmd.Flags().GetString("start-time")
		req.EndTime, _ = cmd.Flags().GetString("end-time")

		task, err := container.Sync.CreateFromRequest(ctx, req)
		if err != nil {
			return err
		}

		if formatter.Structured() {
			return formatter.Print(dto.TaskToDTO(*task))
		}
		if quiet {
			printer.Println("%s", task.ID)
		}
		return nil
	},
}

var taskEditCmd = &cobra.Command{
	Use:   "edit <task-id>",
	Short: "Edit a task",
	Long: `Edit a task. Only the flags that are given are sent to the store.

Pass an empty date to clear it.

Examples:
  taskboard task edit 3f2a --title "New title"
  taskboard task edit 3f2a --priority low --end ""`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext()
		defer cancel()

		if err := signIn(ctx); err != nil {
			return err
		}

		taskID, err := resolveTaskID(args[0])
		if err != nil {
			return err
		}

		req := dto.UpdateTaskRequest{
			Title:       changedString(cmd, "title"),
			Description: changedString(cmd, "description"),
			Priority:    changedString(cmd, "priority"),
			Category:    changedString(cmd, "category"),
			Status:      changedString(cmd, "status"),
			StartDate:   changedString(cmd, "start"),
			EndDate:     changedString(cmd, "end"),
			StartTime:   changedString(cmd, "start-time"),
			EndTime:     changedString(cmd, "end-time"),
		}

		if err := container.Sync.EditFromRequest(ctx, taskID, req); err != nil {
			return err
		}
		return printTask(taskID)
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:     "delete <task-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext()
		defer cancel()

		if err := signIn(ctx); err != nil {
			return err
		}

		taskID, err := resolveTaskID(args[0])
		if err != nil {
			return err
		}
		return container.Sync.Delete(ctx, taskID)
	},
}

var taskMoveCmd = &cobra.Command{
	Use:   "move <task-id> <column-id|task-id>",
	Short: "Move a task to a column",
	Long: `Drop a task onto a column or onto another task's card.

Column IDs are the statuses: todo, in-progress, done. Dropping onto a task
moves the dragged task into that task's column. A drop that changes nothing
is ignored.

Examples:
  taskboard task move 3f2a done
  taskboard task move 3f2a 9c01`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext()
		defer cancel()

		if err := signIn(ctx); err != nil {
			return err
		}

		taskID, err := resolveTaskID(args[0])
		if err != nil {
			return err
		}
		target := args[1]
		if _, err := valueobject.ParseStatus(target); err != nil {
			if target, err = resolveTaskID(target); err != nil {
				return err
			}
		}

		moved, err := container.Sync.MoveFromRequest(ctx, dto.MoveTaskRequest{TaskID: taskID, TargetID: target})
		if err != nil {
			return err
		}
		if !moved && !quiet {
			printer.Info("Task already in that column")
		}
		return nil
	},
}

var taskAdvanceCmd = &cobra.Command{
	Use:   "advance <task-id>",
	Short: "Move a task to the next column",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext()
		defer cancel()

		if err := signIn(ctx); err != nil {
			return err
		}

		taskID, err := resolveTaskID(args[0])
		if err != nil {
			return err
		}
		task, _ := container.TaskStore.Get(taskID)

		next, ok := task.Status.Next()
		if !ok {
			if !quiet {
				printer.Info("Task is already in the last column")
			}
			return nil
		}

		_, err = container.Sync.Move(ctx, taskID, dragdrop.ColumnID(next))
		return err
	},
}

var taskShowCmd = &cobra.Command{
	Use:   "show <task-id>",
	Short: "Show a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext()
		defer cancel()

		if err := signIn(ctx); err != nil {
			return err
		}

		taskID, err := resolveTaskID(args[0])
		if err != nil {
			return err
		}
		return printTask(taskID)
	},
}

var taskListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "table"},
	Short:   "List tasks as a table",
	Long: `List tasks with optional search, filters and sorting.

Sort fields: title, priority, status, endDate, createdAt.

Examples:
  taskboard task list
  taskboard task list --search report
  taskboard task list --status in-progress --priority high
  taskboard task list --sort endDate --order asc --output json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext()
		defer cancel()

		if err := signIn(ctx); err != nil {
			return err
		}

		state, err := tableState(cmd)
		if err != nil {
			return err
		}

		tasks := view.Table(container.TaskStore.Tasks(), state)

		if formatter.Structured() {
			return formatter.Print(dto.TasksToDTOs(tasks))
		}

		if len(tasks) == 0 {
			printer.Subtle("No tasks found")
			return nil
		}
		headers, rows := output.TableRows(tasks)
		printer.Table(headers, rows)
		if !quiet {
			printer.Subtle("\n%d task(s)", len(tasks))
		}
		return nil
	},
}

func tableState(cmd *cobra.Command) (view.State, error) {
	state := view.DefaultState(valueobject.DateOf(time.Now()))

	state.Query, _ = cmd.Flags().GetString("search")

	status, _ := cmd.Flags().GetString("status")
	if status != "" && status != view.FilterAll {
		st, err := valueobject.ParseStatus(status)
		if err != nil {
			return state, err
		}
		state.StatusFilter = st.String()
	}

	priority, _ := cmd.Flags().GetString("priority")
	if priority != "" && priority != view.FilterAll {
		p, err := valueobject.ParsePriority(priority)
		if err != nil {
			return state, err
		}
		state.PriorityFilter = p.String()
	}

	if cmd.Flags().Changed("sort") {
		field, _ := cmd.Flags().GetString("sort")
		f, err := view.ParseSortField(field)
		if err != nil {
			return state, err
		}
		state.SortField = f
	}
	if cmd.Flags().Changed("order") {
		order, _ := cmd.Flags().GetString("order")
		o, err := view.ParseSortOrder(order)
		if err != nil {
			return state, err
		}
		state.SortOrder = o
	}

	return state, nil
}

// resolveTaskID accepts a full id or a unique prefix of one
func resolveTaskID(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", entity.ErrMissingIdentifier
	}

	var matches []string
	for _, t := range container.TaskStore.Tasks() {
		if t.ID == ref {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", entity.ErrTaskNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("task id %q is ambiguous (%d matches)", ref, len(matches))
	}
}

func printTask(taskID string) error {
	task, ok := container.TaskStore.Get(taskID)
	if !ok {
		return fmt.Errorf("%w: %s", entity.ErrTaskNotFound, taskID)
	}

	d := dto.TaskToDTO(task)
	if formatter.Structured() {
		return formatter.Print(d)
	}
	if quiet {
		return nil
	}

	printer.Header("%s", d.Title)
	printer.Println("ID:       %s", d.ID)
	printer.Println("Status:   %s", task.Status.Title())
	printer.Println("Priority: %s", task.Priority.Label())
	printer.Println("Category: %s", d.Category)
	if d.StartDate != "" || d.EndDate != "" {
		printer.Println("Dates:    %s → %s", dashIfEmpty(d.StartDate), dashIfEmpty(d.EndDate))
	}
	printer.Println("Time:     %s-%s", d.StartTime, d.EndTime)
	if d.Description != "" {
		printer.Println("")
		printer.Println("%s", d.Description)
	}
	return nil
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// changedString returns the flag value only when the user set it
func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func addTaskFieldFlags(cmd *cobra.Command, withDefaults bool) {
	priority, category := "", ""
	if withDefaults {
		priority, category = "medium", "other"
	}
	cmd.Flags().StringP("title", "t", "", "Task title")
	cmd.Flags().StringP("description", "d", "", "Task description")
	cmd.Flags().StringP("priority", "p", priority, "Priority: low, medium, high")
	cmd.Flags().String("category", category, "Category: work, personal, study, health, other")
	cmd.Flags().StringP("status", "s", "", "Status: todo, in-progress, done")
	cmd.Flags().String("start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().String("start-time", "", "Start time (HH:MM)")
	cmd.Flags().String("end-time", "", "End time (HH:MM)")
}

func init() {
	addTaskFieldFlags(taskCreateCmd, true)
	_ = taskCreateCmd.MarkFlagRequired("title")
	addTaskFieldFlags(taskEditCmd, false)

	taskListCmd.Flags().String("search", "", "Case-insensitive search over title and description")
	taskListCmd.Flags().String("status", view.FilterAll, "Status filter: all, todo, in-progress, done")
	taskListCmd.Flags().String("priority", view.FilterAll, "Priority filter: all, low, medium, high")
	taskListCmd.Flags().String("sort", string(view.SortCreatedAt), "Sort field")
	taskListCmd.Flags().String("order", string(view.Desc), "Sort order: asc, desc")

	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskEditCmd)
	taskCmd.AddCommand(taskDeleteCmd)
	taskCmd.AddCommand(taskMoveCmd)
	taskCmd.AddCommand(taskAdvanceCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskListCmd)
	rootCmd.AddCommand(taskCmd)
}
