package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/dash/internal/constants"
	"github.com/Paintersrp/dash/internal/editor"
	tasksvc "github.com/Paintersrp/dash/internal/services/tasks"
	"github.com/Paintersrp/dash/internal/state"
	tasktui "github.com/Paintersrp/dash/internal/tui/tasks"
	"github.com/Paintersrp/dash/pkg/cmd"
	"github.com/Paintersrp/dash/pkg/shared/arg"
	"github.com/Paintersrp/dash/pkg/shared/flags"
	"github.com/Paintersrp/dash/pkg/shared/output"
	"github.com/Paintersrp/dash/pkg/shared/prompt"
)

var (
	confirm  = prompt.Confirm
	now      = time.Now
	runBoard = tasktui.Run
)

func NewCmdTasks(s *state.State) *cobra.Command {
	list := newCmdList(s)

	c := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"t"},
		Short:   "Track tasks with a status, priority and deadline",
		Long: heredoc.Doc(`
			Tasks move through todo, in_progress and done. Tasks are referenced
			by position in the list, id, id prefix or title.
		`),
		RunE: list.RunE,
	}
	c.Flags().AddFlagSet(list.Flags())

	c.AddCommand(
		list,
		newCmdAdd(s),
		newCmdUpdate(s),
		newCmdStatus(s),
		newCmdDelete(s),
		newCmdBoard(s),
	)
	c.Annotations = map[string]string{constants.RouteAnnotation: constants.RouteTasks}
	for _, sub := range c.Commands() {
		sub.Annotations = c.Annotations
	}

	return c
}

func findTask(ctx context.Context, s *state.State, ref string) ([]tasksvc.Task, tasksvc.Task, error) {
	list, err := s.Tasks.List(ctx)
	if err != nil {
		return nil, tasksvc.Task{}, err
	}
	t, err := cmd.ResolveItemByRef(list, ref,
		func(t tasksvc.Task) string { return t.ID },
		func(t tasksvc.Task) string { return t.Title },
	)
	return list, t, err
}

func deadline(t tasksvc.Task) string {
	if t.Deadline == nil {
		return ""
	}
	d := t.Deadline.Local()
	label := d.Format("2006-01-02 15:04")
	if t.Status != tasksvc.StatusDone && d.Before(now()) {
		label += " (overdue)"
	}
	return label
}

func newCmdList(s *state.State) *cobra.Command {
	var status string

	c := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		RunE: func(c *cobra.Command, args []string) error {
			var filter tasksvc.Status
			if status != "" {
				var err error
				if filter, err = tasksvc.ParseStatus(status); err != nil {
					return err
				}
			}

			list, err := s.Tasks.List(c.Context())
			if err != nil {
				return err
			}

			var rows [][]string
			for i, t := range list {
				if filter != "" && t.Status != filter {
					continue
				}
				rows = append(rows, []string{
					fmt.Sprint(i + 1),
					output.ShortID(t.ID),
					output.Truncate(t.Title, 40),
					string(t.Status),
					string(t.Priority),
					deadline(t),
				})
			}
			if len(rows) == 0 {
				fmt.Fprintln(c.OutOrStdout(), "No tasks.")
				return nil
			}
			fmt.Fprintln(c.OutOrStdout(), output.Table([]string{"#", "ID", "Title", "Status", "Priority", "Deadline"}, rows))
			return nil
		},
	}

	c.Flags().StringVar(&status, "status", "", "Only list tasks with this status")
	return c
}

func newCmdAdd(s *state.State) *cobra.Command {
	var desc, status, priority, due string

	c := &cobra.Command{
		Use:   "add <title...>",
		Short: "Create a task",
		Example: heredoc.Doc(`
			dash tasks add Write the report --priority high --due tomorrow
			dash tasks add "Plan trip" --due 2024-06-01 --status in_progress
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			req := tasksvc.CreateRequest{
				Title:       strings.Join(args, " "),
				Description: desc,
			}
			var err error
			if status != "" {
				if req.Status, err = tasksvc.ParseStatus(status); err != nil {
					return err
				}
			}
			if priority != "" {
				if req.Priority, err = tasksvc.ParsePriority(priority); err != nil {
					return err
				}
			}
			if due != "" {
				d, err := arg.ParseDate(due, now())
				if err != nil {
					return err
				}
				req.Deadline = &d
			}

			t, err := s.Tasks.Create(c.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "Created task %q (%s).\n", t.Title, output.ShortID(t.ID))
			return nil
		},
	}

	c.Flags().StringVarP(&desc, "desc", "d", "", "Description")
	c.Flags().StringVar(&status, "status", "", "todo, in_progress or done")
	c.Flags().StringVarP(&priority, "priority", "p", "", "low, medium or high")
	c.Flags().StringVar(&due, "due", "", "Deadline, e.g. tomorrow, +3d or 2024-06-01")
	return c
}

// apply sends req for the task optimistically, printing the task as it
// will be once the server accepts it.
func apply(c *cobra.Command, s *state.State, ref string, req tasksvc.UpdateRequest) error {
	ctx := c.Context()
	list, t, err := findTask(ctx, s, ref)
	if err != nil {
		return err
	}

	tasks := editor.NewList(list, func(t tasksvc.Task) string { return t.ID },
		editor.WithNotifier(s.Notifier),
		editor.WithLogger(s.Log),
	)
	updated, err := tasks.Update(ctx, t.ID, req.Apply, func(ctx context.Context, _ tasksvc.Task) error {
		return s.Tasks.Update(ctx, t.ID, req)
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.OutOrStdout(), "%s: %s, %s priority", updated.Title, updated.Status, updated.Priority)
	if d := deadline(updated); d != "" {
		fmt.Fprintf(c.OutOrStdout(), ", due %s", d)
	}
	fmt.Fprintln(c.OutOrStdout())
	return nil
}

func newCmdUpdate(s *state.State) *cobra.Command {
	var title, desc, priority, due string

	c := &cobra.Command{
		Use:   "update <task>",
		Short: "Change a task's title, description, priority or deadline",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			var req tasksvc.UpdateRequest
			if c.Flags().Changed("title") {
				req.Title = &title
			}
			if c.Flags().Changed("desc") {
				req.Description = &desc
			}
			if priority != "" {
				p, err := tasksvc.ParsePriority(priority)
				if err != nil {
					return err
				}
				req.Priority = &p
			}
			if due != "" {
				d, err := arg.ParseDate(due, now())
				if err != nil {
					return err
				}
				req.Deadline = &d
			}
			if req == (tasksvc.UpdateRequest{}) {
				return errors.New("nothing to update: pass --title, --desc, --priority or --due")
			}
			return apply(c, s, args[0], req)
		},
	}

	c.Flags().StringVar(&title, "title", "", "New title")
	c.Flags().StringVarP(&desc, "desc", "d", "", "New description")
	c.Flags().StringVarP(&priority, "priority", "p", "", "low, medium or high")
	c.Flags().StringVar(&due, "due", "", "Deadline, e.g. tomorrow, +3d or 2024-06-01")
	return c
}

func newCmdStatus(s *state.State) *cobra.Command {
	c := &cobra.Command{
		Use:   "status <task> <todo|in_progress|done>",
		Short: "Move a task to another status",
		Example: heredoc.Doc(`
			dash tasks status 1 doing
			dash tasks status "Write the report" done
		`),
		Args: cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			st, err := tasksvc.ParseStatus(args[1])
			if err != nil {
				return err
			}
			return apply(c, s, args[0], tasksvc.UpdateRequest{Status: &st})
		},
	}

	return c
}

func newCmdDelete(s *state.State) *cobra.Command {
	c := &cobra.Command{
		Use:     "delete <task>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			list, t, err := findTask(ctx, s, args[0])
			if err != nil {
				return err
			}

			if !flags.HandleYes(c) {
				ok, err := confirm(fmt.Sprintf("Delete task %q?", t.Title))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(c.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			tasks := editor.NewList(list, func(t tasksvc.Task) string { return t.ID },
				editor.WithNotifier(s.Notifier),
				editor.WithLogger(s.Log),
			)
			if err := tasks.Remove(ctx, t.ID, func(ctx context.Context) error {
				return s.Tasks.Delete(ctx, t.ID)
			}); err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "Deleted task %q.\n", t.Title)
			return nil
		},
	}

	flags.AddYes(c)
	return c
}

func newCmdBoard(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Browse and update tasks interactively",
		Long: heredoc.Doc(`
			Open a task list in the terminal. Space advances the selected task's
			status, p cycles its priority and s filters by status. Changes show
			immediately and are undone if the server rejects them.
		`),
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runBoard(c.Context(), s.Tasks,
				editor.WithNotifier(s.Notifier),
				editor.WithLogger(s.Log),
			)
		},
	}
}
