package notes

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/dash/internal/blocks"
	"github.com/Paintersrp/dash/internal/format"
	"github.com/Paintersrp/dash/internal/markdown"
	"github.com/Paintersrp/dash/internal/state"
	"github.com/Paintersrp/dash/internal/tui/textarea"
	"github.com/Paintersrp/dash/pkg/cmd"
	"github.com/Paintersrp/dash/pkg/shared/flags"
	"github.com/Paintersrp/dash/pkg/shared/output"
)

var editContent = textarea.Edit

// blockContent reads content from the arguments, the clipboard, or the
// interactive editor with --edit. With --html the input is converted to
// markdown first.
func blockContent(c *cobra.Command, args []string, title, initial string) (string, error) {
	content, err := flags.Content(c, strings.Join(args, " "))
	if err != nil {
		return "", err
	}
	if edit, _ := c.Flags().GetBool("edit"); edit {
		if content == "" {
			content = initial
		}
		if content, err = editContent(title, content); err != nil {
			return "", err
		}
	}
	if isHTML, _ := c.Flags().GetBool("html"); isHTML {
		content = markdown.ToMarkdown(content)
	}
	return content, nil
}

func addContentFlags(c *cobra.Command) {
	flags.AddPaste(c)
	c.Flags().BoolP("edit", "e", false, "Write the content in an interactive editor")
	c.Flags().Bool("html", false, "Treat the content as HTML and convert it to markdown")
}

func newCmdAddBlock(s *state.State) *cobra.Command {
	c := &cobra.Command{
		Use:   "add-block <note> <paragraph|heading|todo> [content...]",
		Short: "Append a block to a note",
		Long: heredoc.Doc(`
			Append a block. Paragraph and heading blocks take markdown content.
			For todo blocks each remaining argument becomes an item.
		`),
		Example: heredoc.Doc(`
			dash notes add-block Reading paragraph "Some **bold** words"
			dash notes add-block Reading todo "buy milk" "call mom"
			dash notes add-block Reading paragraph --paste --html
		`),
		Args: cobra.MinimumNArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			kind, err := blocks.ParseType(args[1])
			if err != nil {
				return err
			}
			sess, err := openSession(ctx, s, args[0])
			if err != nil {
				return err
			}

			if kind == blocks.Todo {
				blk, err := sess.AddBlock(ctx, kind, "")
				if err != nil {
					return err
				}
				for _, text := range args[2:] {
					if err := sess.AddTodoItem(ctx, blk.ID, text); err != nil {
						return err
					}
				}
				fmt.Fprintf(c.OutOrStdout(), "Added todo block %s with %d items.\n", output.ShortID(blk.ID), len(args[2:]))
				return nil
			}

			content, err := blockContent(c, args[2:], fmt.Sprintf("New %s block", kind), "")
			if err != nil {
				return err
			}
			blk, err := sess.AddBlock(ctx, kind, content)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "Added %s block %s.\n", kind, output.ShortID(blk.ID))
			return nil
		},
	}

	addContentFlags(c)
	return c
}

func newCmdEditBlock(s *state.State) *cobra.Command {
	c := &cobra.Command{
		Use:   "edit-block <note> <block> [content...]",
		Short: "Replace a block's content",
		Long: heredoc.Doc(`
			Replace the markdown content of a paragraph or heading block. The
			block is referenced by its position (1-based) or id.
		`),
		Example: heredoc.Doc(`
			dash notes edit-block Reading 2 "New text"
			dash notes edit-block Reading 2 --paste --html
			dash notes edit-block Reading 2 --edit
		`),
		Args: cobra.MinimumNArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			sess, err := openSession(ctx, s, args[0])
			if err != nil {
				return err
			}
			blk, err := cmd.ResolveBlock(sess.Blocks(), args[1])
			if err != nil {
				return err
			}
			if blk.Type == blocks.Todo {
				return errors.New("todo blocks are edited with add-item and toggle-item")
			}

			title := fmt.Sprintf("Edit block %s", args[1])
			content, err := blockContent(c, args[2:], title, blk.Content)
			if err != nil {
				return err
			}
			if err := sess.UpdateBlock(ctx, blk.ID, &content, nil); err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "Updated block %s.\n", output.ShortID(blk.ID))
			return nil
		},
	}

	addContentFlags(c)
	return c
}

func newCmdFormat(s *state.State) *cobra.Command {
	c := &cobra.Command{
		Use:   "format <note> <block> <bold|italic|underline|strikethrough|code> <start> <end>",
		Short: "Toggle inline formatting on part of a block",
		Long: heredoc.Doc(`
			Wrap the characters between start and end (byte offsets into the
			block's markdown) in the chosen syntax. Running it again on the
			same selection removes the formatting.
		`),
		Example: heredoc.Doc(`
			dash notes format Reading 1 bold 0 5
		`),
		Args: cobra.ExactArgs(5),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			kind, err := format.ParseKind(args[2])
			if err != nil {
				return err
			}
			start, err := strconv.Atoi(args[3])
			if err != nil {
				return fmt.Errorf("invalid start %q: %w", args[3], err)
			}
			end, err := strconv.Atoi(args[4])
			if err != nil {
				return fmt.Errorf("invalid end %q: %w", args[4], err)
			}

			sess, err := openSession(ctx, s, args[0])
			if err != nil {
				return err
			}
			blk, err := cmd.ResolveBlock(sess.Blocks(), args[1])
			if err != nil {
				return err
			}
			if blk.Type == blocks.Todo {
				return errors.New("todo blocks have no markdown content to format")
			}

			res, err := format.Selection(blk.Content, start, end, kind)
			if err != nil {
				return err
			}
			if err := sess.UpdateBlock(ctx, blk.ID, &res.Content, nil); err != nil {
				return err
			}
			fmt.Fprintln(c.OutOrStdout(), res.Content)
			return nil
		},
	}

	return c
}

func newCmdMoveBlock(s *state.State) *cobra.Command {
	c := &cobra.Command{
		Use:   "move-block <note> <block> <target>",
		Short: "Move a block to where another block is",
		Long: heredoc.Doc(`
			Move a block into the position of the target block, shifting the
			blocks in between, the same way dragging one block onto another does.
		`),
		Example: heredoc.Doc(`
			dash notes move-block Reading 3 1
		`),
		Args: cobra.ExactArgs(3),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			sess, err := openSession(ctx, s, args[0])
			if err != nil {
				return err
			}
			list := sess.Blocks()
			active, err := cmd.ResolveBlock(list, args[1])
			if err != nil {
				return err
			}
			over, err := cmd.ResolveBlock(list, args[2])
			if err != nil {
				return err
			}

			moved, err := sess.MoveBlock(ctx, active.ID, over.ID)
			if err != nil {
				return err
			}
			if !moved {
				fmt.Fprintln(c.OutOrStdout(), "Block is already there.")
				return nil
			}
			fmt.Fprintln(c.OutOrStdout(), "Moved block.")
			return nil
		},
	}

	return c
}

func newCmdDeleteBlock(s *state.State) *cobra.Command {
	c := &cobra.Command{
		Use:   "delete-block <note> <block>",
		Short: "Delete a block",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			sess, err := openSession(ctx, s, args[0])
			if err != nil {
				return err
			}
			blk, err := cmd.ResolveBlock(sess.Blocks(), args[1])
			if err != nil {
				return err
			}

			if !flags.HandleYes(c) {
				ok, err := confirm(fmt.Sprintf("Delete %s block %s?", blk.Type, output.ShortID(blk.ID)))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(c.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			if err := sess.DeleteBlock(ctx, blk.ID); err != nil {
				return err
			}
			fmt.Fprintln(c.OutOrStdout(), "Deleted block.")
			return nil
		},
	}

	flags.AddYes(c)
	return c
}

func newCmdAddItem(s *state.State) *cobra.Command {
	c := &cobra.Command{
		Use:   "add-item <note> <block> <text...>",
		Short: "Add an item to a todo block",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			sess, err := openSession(ctx, s, args[0])
			if err != nil {
				return err
			}
			blk, err := cmd.ResolveBlock(sess.Blocks(), args[1])
			if err != nil {
				return err
			}

			if err := sess.AddTodoItem(ctx, blk.ID, strings.Join(args[2:], " ")); err != nil {
				return err
			}
			fmt.Fprintln(c.OutOrStdout(), "Added item.")
			return nil
		},
	}

	return c
}

func newCmdToggleItem(s *state.State) *cobra.Command {
	c := &cobra.Command{
		Use:     "toggle-item <note> <block> <item>",
		Aliases: []string{"toggle"},
		Short:   "Check or uncheck a todo item",
		Args:    cobra.ExactArgs(3),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			sess, err := openSession(ctx, s, args[0])
			if err != nil {
				return err
			}
			blk, err := cmd.ResolveBlock(sess.Blocks(), args[1])
			if err != nil {
				return err
			}
			item, err := cmd.ResolveItem(blk.Items, args[2])
			if err != nil {
				return err
			}

			if err := sess.ToggleTodo(ctx, blk.ID, item.ID); err != nil {
				return err
			}
			mark := "done"
			if item.Done {
				mark = "not done"
			}
			fmt.Fprintf(c.OutOrStdout(), "Marked %q %s.\n", item.Text, mark)
			return nil
		},
	}

	return c
}
