// Package repl is the interactive editing shell: open a story file, pick a
// passage, set a selection or cursor, and run the writing actions against
// it.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"github.com/pennwright/inkwell/internal/assistant"
	"github.com/pennwright/inkwell/internal/logger"
	"github.com/pennwright/inkwell/internal/store"
	"github.com/pennwright/inkwell/internal/story"
	"github.com/pennwright/inkwell/internal/textpos"
)

type REPL struct {
	controller *assistant.Controller
	in         io.Reader
	out        io.Writer

	library   *store.Library
	storyID   string
	passageID string
	selection *assistant.Selection
	cursor    *textpos.Position
}

func New(controller *assistant.Controller, in io.Reader, out io.Writer) *REPL {
	return &REPL{controller: controller, in: in, out: out}
}

// RunWithFile opens a library first, then enters the command loop.
func (r *REPL) RunWithFile(ctx context.Context, path string) error {
	if err := r.cmdOpen([]string{path}); err != nil {
		return err
	}
	return r.Run(ctx)
}

// Run reads commands until EOF or exit. Command errors are printed and the
// loop continues.
func (r *REPL) Run(ctx context.Context) error {
	fmt.Fprintln(r.out, "inkwell - interactive fiction writing assistant")
	fmt.Fprintln(r.out, `Type "help" for commands.`)

	scanner := bufio.NewScanner(r.in)
	for ctx.Err() == nil {
		fmt.Fprint(r.out, "inkwell> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts, err := shlex.Split(line)
		if err != nil {
			parts = strings.Fields(line)
		}
		if len(parts) == 0 {
			continue
		}

		if parts[0] == "exit" || parts[0] == "quit" {
			break
		}

		if err := r.execute(ctx, parts[0], parts[1:]); err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
		}
	}

	if r.library != nil {
		return r.library.Close()
	}
	return scanner.Err()
}

func (r *REPL) execute(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		fmt.Fprint(r.out, helpText)
		return nil
	case "open":
		return r.cmdOpen(args)
	case "stories":
		return r.cmdStories()
	case "story":
		return r.cmdStory(args)
	case "passages":
		return r.cmdPassages()
	case "use":
		return r.cmdUse(args)
	case "show":
		return r.cmdShow(args)
	case "new":
		return r.cmdNew(args)
	case "select":
		return r.cmdSelect(args)
	case "cursor":
		return r.cmdCursor(args)
	case "rephrase":
		return r.cmdAction(ctx, assistant.ActionRephrase)
	case "replace":
		return r.cmdAction(ctx, assistant.ActionReplace)
	case "continue":
		return r.cmdAction(ctx, assistant.ActionContinue)
	case "draft":
		return r.cmdAction(ctx, assistant.ActionDraft)
	case "ask":
		return r.cmdAsk(ctx, args)
	case "undo":
		return r.cmdUndo()
	default:
		fmt.Fprintf(r.out, "Unknown command: %s\n", cmd)
		return nil
	}
}

const helpText = `Commands:
  open <file>            open a story library file
  stories                list stories in the library
  story <name|id>        select the current story
  passages               list passages in the current story
  use <passage>          select the current passage by name or id
  show [passage]         print a passage's text
  new <name>             create an empty passage in the current story
  select <from> <to>     set the selection, positions as line:col
  cursor <pos|off>       set or clear the cursor
  rephrase               rephrase the current selection
  replace                replace the current selection with new content
  continue               continue writing from the cursor
  draft                  draft the current blank passage
  ask <question>         let the model read and edit the story with tools
  undo                   revert the last action
  exit                   quit
`

func (r *REPL) cmdOpen(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: open <file>")
	}
	if r.library != nil {
		if err := r.library.Close(); err != nil {
			slog.Warn("Closing previous library failed", "error", err)
		}
	}

	lib, err := store.Open(args[0])
	if err != nil {
		return err
	}
	r.library = lib
	r.storyID = ""
	r.resetPosition()

	stories := lib.Stories()
	if len(stories) == 1 {
		r.storyID = stories[0].ID
		fmt.Fprintf(r.out, "Opened %s, using story %q\n", args[0], stories[0].Name)
	} else {
		fmt.Fprintf(r.out, "Opened %s (%d stories)\n", args[0], len(stories))
	}
	return nil
}

func (r *REPL) cmdStories() error {
	if r.library == nil {
		return fmt.Errorf("no library open")
	}
	fmt.Fprintln(r.out, storiesTable(r.library.Stories()))
	return nil
}

func (r *REPL) cmdStory(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: story <name|id>")
	}
	if r.library == nil {
		return fmt.Errorf("no library open")
	}

	for _, s := range r.library.Stories() {
		if s.ID == args[0] || s.Name == args[0] {
			r.storyID = s.ID
			r.resetPosition()
			fmt.Fprintf(r.out, "Using story %q\n", s.Name)
			return nil
		}
	}
	return fmt.Errorf("story %q not found", args[0])
}

func (r *REPL) cmdPassages() error {
	s, err := r.currentStory()
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, passagesTable(s))
	return nil
}

func (r *REPL) cmdUse(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: use <passage>")
	}
	s, err := r.currentStory()
	if err != nil {
		return err
	}

	p, ok := s.PassageWithID(args[0])
	if !ok {
		p, ok = s.PassageWithName(args[0])
	}
	if !ok {
		return fmt.Errorf("passage %q not found", args[0])
	}

	r.passageID = p.ID
	r.selection = nil
	r.cursor = nil
	fmt.Fprintf(r.out, "Using passage %q\n", p.Name)
	return nil
}

func (r *REPL) cmdShow(args []string) error {
	s, err := r.currentStory()
	if err != nil {
		return err
	}

	ref := r.passageID
	if len(args) == 1 {
		ref = args[0]
	}
	p, ok := s.PassageWithID(ref)
	if !ok {
		p, ok = s.PassageWithName(ref)
	}
	if !ok {
		return fmt.Errorf("passage %q not found", ref)
	}

	fmt.Fprintf(r.out, "-- %s --\n%s\n", p.Name, p.Text)
	return nil
}

func (r *REPL) cmdNew(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: new <name>")
	}
	s, err := r.currentStory()
	if err != nil {
		return err
	}
	if _, exists := s.PassageWithName(args[0]); exists {
		return fmt.Errorf("passage %q already exists", args[0])
	}

	id := story.NewID()
	err = r.library.Dispatch(story.Action{
		Type:      story.ActionCreatePassage,
		StoryID:   s.ID,
		PassageID: id,
		Props: story.PassageProps{
			Name: story.StrPtr(args[0]),
			Text: story.StrPtr(""),
		},
	})
	if err != nil {
		return err
	}

	r.passageID = id
	r.selection = nil
	r.cursor = nil
	fmt.Fprintf(r.out, "Created passage %q\n", args[0])
	return nil
}

func (r *REPL) cmdSelect(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: select <line:col> <line:col>")
	}
	p, err := r.currentPassage()
	if err != nil {
		return err
	}

	from, err := parsePosition(args[0])
	if err != nil {
		return err
	}
	to, err := parsePosition(args[1])
	if err != nil {
		return err
	}

	rng := textpos.Range{From: from, To: to}
	start, end := textpos.RangeOffsets(p.Text, rng)
	if start >= end {
		return fmt.Errorf("selection is empty")
	}
	r.selection = &assistant.Selection{Range: rng, Text: p.Text[start:end]}
	fmt.Fprintf(r.out, "Selected %d characters\n", end-start)
	return nil
}

func (r *REPL) cmdCursor(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: cursor <line:col|off>")
	}
	if args[0] == "off" {
		r.cursor = nil
		fmt.Fprintln(r.out, "Cursor cleared")
		return nil
	}

	pos, err := parsePosition(args[0])
	if err != nil {
		return err
	}
	r.cursor = &pos
	fmt.Fprintf(r.out, "Cursor at %d:%d\n", pos.Line, pos.Ch)
	return nil
}

func (r *REPL) cmdAction(ctx context.Context, action assistant.Action) error {
	cc, err := r.controlContext()
	if err != nil {
		return err
	}

	ctx = logger.WithTraceID(ctx, logger.NewTraceID())
	if err := r.controller.Execute(ctx, action, cc); err != nil {
		return err
	}

	r.selection = nil
	fmt.Fprintf(r.out, "%s done (undo available)\n", action)
	return r.cmdShow(nil)
}

func (r *REPL) cmdAsk(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: ask <question>")
	}
	cc, err := r.controlContext()
	if err != nil {
		return err
	}

	ctx = logger.WithTraceID(ctx, logger.NewTraceID())
	answer, err := r.controller.Ask(ctx, cc, strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, answer)
	return nil
}

func (r *REPL) cmdUndo() error {
	cc, err := r.controlContext()
	if err != nil {
		return err
	}
	if !r.controller.CanUndo() {
		fmt.Fprintln(r.out, "Nothing to undo")
		return nil
	}
	if err := r.controller.Undo(cc); err != nil {
		return err
	}
	fmt.Fprintln(r.out, "Undone")
	return nil
}

func (r *REPL) controlContext() (assistant.ControlContext, error) {
	if r.library == nil || r.storyID == "" {
		return assistant.ControlContext{}, fmt.Errorf("no story open")
	}
	return assistant.ControlContext{
		StoryID:   r.storyID,
		PassageID: r.passageID,
		Selection: r.selection,
		Cursor:    r.cursor,
		Stories:   r.library.Stories,
		Dispatch:  r.library.Dispatch,
	}, nil
}

func (r *REPL) currentStory() (*story.Story, error) {
	if r.library == nil {
		return nil, fmt.Errorf("no library open")
	}
	if r.storyID == "" {
		return nil, fmt.Errorf("no story selected")
	}
	s, ok := story.WithID(r.library.Stories(), r.storyID)
	if !ok {
		return nil, fmt.Errorf("story no longer exists")
	}
	return s, nil
}

func (r *REPL) currentPassage() (*story.Passage, error) {
	s, err := r.currentStory()
	if err != nil {
		return nil, err
	}
	if r.passageID == "" {
		return nil, fmt.Errorf("no passage selected")
	}
	p, ok := s.PassageWithID(r.passageID)
	if !ok {
		return nil, fmt.Errorf("passage no longer exists")
	}
	return p, nil
}

func (r *REPL) resetPosition() {
	r.passageID = ""
	r.selection = nil
	r.cursor = nil
}

// parsePosition reads "line:col", both zero-based.
func parsePosition(s string) (textpos.Position, error) {
	line, col, ok := strings.Cut(s, ":")
	if !ok {
		return textpos.Position{}, fmt.Errorf("position %q must be line:col", s)
	}
	l, err := strconv.Atoi(line)
	if err != nil {
		return textpos.Position{}, fmt.Errorf("bad line in %q", s)
	}
	c, err := strconv.Atoi(col)
	if err != nil {
		return textpos.Position{}, fmt.Errorf("bad column in %q", s)
	}
	return textpos.Position{Line: l, Ch: c}, nil
}
