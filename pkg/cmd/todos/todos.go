package todos

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
	todosvc "github.com/Paintersrp/dash/internal/services/todos"
	"github.com/Paintersrp/dash/internal/state"
	"github.com/Paintersrp/dash/pkg/cmd"
	"github.com/Paintersrp/dash/pkg/shared/arg"
	"github.com/Paintersrp/dash/pkg/shared/flags"
	"github.com/Paintersrp/dash/pkg/shared/output"
	"github.com/Paintersrp/dash/pkg/shared/prompt"
)

var (
	confirm = prompt.Confirm
	now     = time.Now
)

func NewCmdTodos(s *state.State) *cobra.Command {
	list := newCmdList(s)

	c := &cobra.Command{
		Use:     "todos",
		Aliases: []string{"todo", "td"},
		Short:   "Keep a quick checklist",
		Long: heredoc.Doc(`
			Todos are single items that are either done or not. They are
			referenced by position in the list, id, id prefix or title.
		`),
		RunE: list.RunE,
	}
	c.Flags().AddFlagSet(list.Flags())

	c.AddCommand(
		list,
		newCmdAdd(s),
		newCmdToggle(s),
		newCmdUpdate(s),
		newCmdDelete(s),
	)
	c.Annotations = map[string]string{constants.RouteAnnotation: constants.RouteTodos}
	for _, sub := range c.Commands() {
		sub.Annotations = c.Annotations
	}

	return c
}

func load(ctx context.Context, s *state.State, ref string) (*editor.List[todosvc.Todo], todosvc.Todo, error) {
	items, err := s.Todos.List(ctx)
	if err != nil {
		return nil, todosvc.Todo{}, err
	}
	t, err := cmd.ResolveItemByRef(items, ref,
		func(t todosvc.Todo) string { return t.ID },
		func(t todosvc.Todo) string { return t.Title },
	)
	if err != nil {
		return nil, todosvc.Todo{}, err
	}

	list := editor.NewList(items, func(t todosvc.Todo) string { return t.ID },
		editor.WithNotifier(s.Notifier),
		editor.WithLogger(s.Log),
	)
	return list, t, nil
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func newCmdList(s *state.State) *cobra.Command {
	var pending bool

	c := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List todos",
		RunE: func(c *cobra.Command, args []string) error {
			items, err := s.Todos.List(c.Context())
			if err != nil {
				return err
			}

			var rows [][]string
			for i, t := range items {
				if pending && t.Done {
					continue
				}
				due := ""
				if t.DueDate != nil {
					due = t.DueDate.Local().Format("2006-01-02")
				}
				rows = append(rows, []string{
					fmt.Sprint(i + 1),
					checkbox(t.Done),
					output.Truncate(t.Title, 50),
					string(t.Priority),
					due,
				})
			}
			if len(rows) == 0 {
				fmt.Fprintln(c.OutOrStdout(), "Nothing to do.")
				return nil
			}
			fmt.Fprintln(c.OutOrStdout(), output.Table([]string{"#", "", "Title", "Priority", "Due"}, rows))
			return nil
		},
	}

	c.Flags().BoolVar(&pending, "pending", false, "Hide completed todos")
	return c
}

func newCmdAdd(s *state.State) *cobra.Command {
	var desc, priority, due string

	c := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a todo",
		Example: heredoc.Doc(`
			dash todos add buy milk --due today
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			req := todosvc.CreateRequest{Title: strings.Join(args, " "), Description: desc}
			if priority != "" {
				p, err := tasksvc.ParsePriority(priority)
				if err != nil {
					return err
				}
				req.Priority = p
			}
			if due != "" {
				d, err := arg.ParseDate(due, now())
				if err != nil {
					return err
				}
				req.DueDate = &d
			}

			t, err := s.Todos.Create(c.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "Added %q.\n", t.Title)
			return nil
		},
	}

	c.Flags().StringVarP(&desc, "desc", "d", "", "Description")
	c.Flags().StringVarP(&priority, "priority", "p", "", "low, medium or high")
	c.Flags().StringVar(&due, "due", "", "Due date, e.g. today, +2d or 2024-06-01")
	return c
}

func newCmdToggle(s *state.State) *cobra.Command {
	c := &cobra.Command{
		Use:     "toggle <todo>",
		Aliases: []string{"done", "x"},
		Short:   "Mark a todo done or not done",
		Args:    cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			list, t, err := load(ctx, s, args[0])
			if err != nil {
				return err
			}

			updated, err := list.Update(ctx, t.ID,
				func(t todosvc.Todo) todosvc.Todo {
					t.Done = !t.Done
					return t
				},
				func(ctx context.Context, next todosvc.Todo) error {
					return s.Todos.Update(ctx, next.ID, todosvc.UpdateRequest{Done: &next.Done})
				},
			)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "%s %s\n", checkbox(updated.Done), updated.Title)
			return nil
		},
	}

	return c
}

func newCmdUpdate(s *state.State) *cobra.Command {
	var title, desc, priority, due string

	c := &cobra.Command{
		Use:   "update <todo>",
		Short: "Change a todo's title, description, priority or due date",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			var req todosvc.UpdateRequest
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
				req.DueDate = &d
			}
			if req == (todosvc.UpdateRequest{}) {
				return errors.New("nothing to update: pass --title, --desc, --priority or --due")
			}

			ctx := c.Context()
			list, t, err := load(ctx, s, args[0])
			if err != nil {
				return err
			}
			updated, err := list.Update(ctx, t.ID, req.Apply, func(ctx context.Context, _ todosvc.Todo) error {
				return s.Todos.Update(ctx, t.ID, req)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "Updated %q.\n", updated.Title)
			return nil
		},
	}

	c.Flags().StringVar(&title, "title", "", "New title")
	c.Flags().StringVarP(&desc, "desc", "d", "", "New description")
	c.Flags().StringVarP(&priority, "priority", "p", "", "low, medium or high")
	c.Flags().StringVar(&due, "due", "", "Due date, e.g. today, +2d or 2024-06-01")
	return c
}

func newCmdDelete(s *state.State) *cobra.Command {
	c := &cobra.Command{
		Use:     "delete <todo>",
		Aliases: []string{"rm"},
		Short:   "Delete a todo",
		Args:    cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			list, t, err := load(ctx, s, args[0])
			if err != nil {
				return err
			}

			if !flags.HandleYes(c) {
				ok, err := confirm(fmt.Sprintf("Delete %q?", t.Title))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(c.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			if err := list.Remove(ctx, t.ID, func(ctx context.Context) error {
				return s.Todos.Delete(ctx, t.ID)
			}); err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "Deleted %q.\n", t.Title)
			return nil
		},
	}

	flags.AddYes(c)
	return c
}
