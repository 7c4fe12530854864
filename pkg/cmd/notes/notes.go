package notes

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/dash/internal/blocks"
	"github.com/Paintersrp/dash/internal/constants"
	"github.com/Paintersrp/dash/internal/editor"
	"github.com/Paintersrp/dash/internal/markdown"
	notesvc "github.com/Paintersrp/dash/internal/services/notes"
	"github.com/Paintersrp/dash/internal/state"
	"github.com/Paintersrp/dash/pkg/cmd"
	"github.com/Paintersrp/dash/pkg/shared/arg"
	"github.com/Paintersrp/dash/pkg/shared/flags"
	"github.com/Paintersrp/dash/pkg/shared/output"
	"github.com/Paintersrp/dash/pkg/shared/prompt"
)

// confirm asks before destructive changes. Tests replace it.
var confirm = prompt.Confirm

func NewCmdNotes(s *state.State) *cobra.Command {
	list := newCmdList(s)

	c := &cobra.Command{
		Use:     "notes",
		Aliases: []string{"n"},
		Short:   "Create, view and edit notes",
		Long: heredoc.Doc(`
			Notes are made of blocks: paragraphs, headings and todo lists.
			Notes can be referenced by id, id prefix or title; leaving the
			reference out opens a fuzzy finder.
		`),
		Annotations: map[string]string{constants.RouteAnnotation: constants.RouteNotes},
		RunE:        list.RunE,
	}
	c.Flags().AddFlagSet(list.Flags())

	c.AddCommand(
		list,
		newCmdNew(s),
		newCmdShow(s),
		newCmdExport(s),
		newCmdUpdate(s),
		newCmdDelete(s),
		newCmdAddBlock(s),
		newCmdEditBlock(s),
		newCmdFormat(s),
		newCmdMoveBlock(s),
		newCmdDeleteBlock(s),
		newCmdAddItem(s),
		newCmdToggleItem(s),
	)
	for _, sub := range c.Commands() {
		sub.Annotations = map[string]string{constants.RouteAnnotation: constants.RouteNotes}
	}

	return c
}

func openSession(ctx context.Context, s *state.State, ref string) (*editor.Session, error) {
	note, err := cmd.ResolveNote(ctx, s, ref)
	if err != nil {
		return nil, err
	}
	return editor.Open(ctx, s.Notes, note.ID,
		editor.WithNotifier(s.Notifier),
		editor.WithLogger(s.Log),
	)
}

func noteArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func newCmdList(s *state.State) *cobra.Command {
	var tag string
	var pinned bool

	c := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your notes, pinned first",
		RunE: func(c *cobra.Command, args []string) error {
			list, err := s.Notes.List(c.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(list))
			for _, n := range list {
				if pinned && !n.Pinned {
					continue
				}
				if tag != "" && !hasTag(n.Tags, tag) {
					continue
				}
				pin := ""
				if n.Pinned {
					pin = "*"
				}
				rows = append(rows, []string{
					output.ShortID(n.ID),
					pin,
					output.Truncate(n.Title, 40),
					strings.Join(n.Tags, " "),
					n.UpdatedAt.Local().Format("2006-01-02 15:04"),
				})
			}

			if len(rows) == 0 {
				fmt.Fprintln(c.OutOrStdout(), "No notes yet. Create one with `dash notes new <title>`.")
				return nil
			}
			fmt.Fprintln(c.OutOrStdout(), output.Table([]string{"ID", "", "Title", "Tags", "Updated"}, rows))
			return nil
		},
	}

	c.Flags().StringVarP(&tag, "tag", "t", "", "Only list notes with this tag")
	c.Flags().BoolVar(&pinned, "pinned", false, "Only list pinned notes")
	return c
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func newCmdNew(s *state.State) *cobra.Command {
	c := &cobra.Command{
		Use:   "new [title] [tags] [content...]",
		Short: "Create a note",
		Long: heredoc.Doc(`
			Create a note. Without a title the server names it "Untitled".
			Content after the tags becomes the first paragraph.
		`),
		Example: heredoc.Doc(`
			                [title]     [tags]          [content]
			dash notes new  "Reading"   "books ideas"   "Start with the classics"
			dash notes new  "Snippet"   ""              --paste
		`),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			title := ""
			if len(args) > 0 {
				title = strings.TrimSpace(args[0])
			}
			var tags []string
			if len(args) > 1 {
				var err error
				if tags, err = arg.ParseTags(args[1]); err != nil {
					return err
				}
			}
			content, err := flags.Content(c, arg.HandleContent(args))
			if err != nil {
				return err
			}

			note, err := s.Notes.Create(ctx, notesvc.CreateNoteRequest{Title: title, Tags: tags})
			if err != nil {
				return err
			}
			if flags.HandlePin(c) {
				pinned := true
				if err := s.Notes.Update(ctx, note.ID, notesvc.UpdateNoteRequest{Pinned: &pinned}); err != nil {
					return err
				}
			}
			if strings.TrimSpace(content) != "" {
				sess := editor.NewSession(s.Notes, note, editor.WithNotifier(s.Notifier), editor.WithLogger(s.Log))
				if _, err := sess.AddBlock(ctx, blocks.Paragraph, content); err != nil {
					return err
				}
			}

			fmt.Fprintf(c.OutOrStdout(), "Created note %q (%s).\n", note.Title, note.ID)
			return nil
		},
	}

	flags.AddPin(c)
	flags.AddPaste(c)
	return c
}

func newCmdShow(s *state.State) *cobra.Command {
	var raw bool
	var width int

	c := &cobra.Command{
		Use:     "show [note]",
		Aliases: []string{"view"},
		Short:   "Render a note in the terminal",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			ref, err := cmd.ResolveNote(ctx, s, noteArg(args))
			if err != nil {
				return err
			}
			note, err := s.Notes.Get(ctx, ref.ID)
			if err != nil {
				return err
			}

			md := blocks.Markdown(note)
			if copied, err := flags.HandleCopy(c, md); err != nil {
				return err
			} else if copied {
				fmt.Fprintln(c.ErrOrStderr(), "Copied markdown to the clipboard.")
			}

			if raw {
				fmt.Fprint(c.OutOrStdout(), md)
				return nil
			}
			rendered, err := markdown.RenderTerminal(md, width)
			if err != nil {
				return err
			}
			fmt.Fprint(c.OutOrStdout(), rendered)
			return nil
		},
	}

	c.Flags().BoolVar(&raw, "raw", false, "Print markdown instead of rendering it")
	c.Flags().IntVarP(&width, "width", "w", 100, "Word wrap width")
	flags.AddCopy(c)
	return c
}

func newCmdExport(s *state.State) *cobra.Command {
	var out, format string

	c := &cobra.Command{
		Use:   "export [note]",
		Short: "Export a note as HTML or markdown",
		Long: heredoc.Doc(`
			Export a note. The html format writes a standalone page with
			highlighted code blocks; md writes the note as markdown.
		`),
		Example: heredoc.Doc(`
			dash notes export Reading -o reading.html
			dash notes export Reading --format md
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			ref, err := cmd.ResolveNote(ctx, s, noteArg(args))
			if err != nil {
				return err
			}
			note, err := s.Notes.Get(ctx, ref.ID)
			if err != nil {
				return err
			}

			md := blocks.Markdown(note)
			var data []byte
			switch format {
			case "html":
				if data, err = markdown.NewRenderer().RenderPage(note.Title, []byte(md)); err != nil {
					return err
				}
			case "md", "markdown":
				data = []byte(md)
			default:
				return fmt.Errorf("unknown format %q: use html or md", format)
			}

			if out == "" || out == "-" {
				_, err = c.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(c.ErrOrStderr(), "Wrote %s.\n", out)
			return nil
		},
	}

	c.Flags().StringVarP(&out, "output", "o", "", "File to write, stdout when empty")
	c.Flags().StringVarP(&format, "format", "f", "html", "Output format: html or md")
	return c
}

func newCmdUpdate(s *state.State) *cobra.Command {
	var title, tags string
	var pin, unpin bool

	c := &cobra.Command{
		Use:   "update <note>",
		Short: "Rename, retag, pin or unpin a note",
		Example: heredoc.Doc(`
			dash notes update Reading --title "Reading list" --tags "books"
			dash notes update Reading --pin
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			if pin && unpin {
				return errors.New("--pin and --unpin are mutually exclusive")
			}
			note, err := cmd.ResolveNote(ctx, s, args[0])
			if err != nil {
				return err
			}

			var req notesvc.UpdateNoteRequest
			if c.Flags().Changed("title") {
				t := strings.TrimSpace(title)
				req.Title = &t
			}
			if c.Flags().Changed("tags") {
				if req.Tags, err = arg.ParseTags(tags); err != nil {
					return err
				}
			}
			if pin || unpin {
				req.Pinned = &pin
			}
			if req.Title == nil && req.Tags == nil && req.Pinned == nil {
				return errors.New("nothing to update: pass --title, --tags, --pin or --unpin")
			}

			if err := s.Notes.Update(ctx, note.ID, req); err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "Updated note %s.\n", output.ShortID(note.ID))
			return nil
		},
	}

	c.Flags().StringVar(&title, "title", "", "New title")
	c.Flags().StringVar(&tags, "tags", "", "Replace tags (space separated)")
	c.Flags().BoolVar(&pin, "pin", false, "Pin the note")
	c.Flags().BoolVar(&unpin, "unpin", false, "Unpin the note")
	return c
}

func newCmdDelete(s *state.State) *cobra.Command {
	c := &cobra.Command{
		Use:     "delete [note]",
		Aliases: []string{"rm"},
		Short:   "Delete a note",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			note, err := cmd.ResolveNote(ctx, s, noteArg(args))
			if err != nil {
				return err
			}

			if !flags.HandleYes(c) {
				ok, err := confirm(fmt.Sprintf("Delete note %q?", note.Title))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(c.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			if err := s.Notes.Delete(ctx, note.ID); err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "Deleted note %q.\n", note.Title)
			return nil
		},
	}

	flags.AddYes(c)
	return c
}
