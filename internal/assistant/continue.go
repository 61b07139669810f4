package assistant

import (
	"context"
	"fmt"
	"strings"

	inkwellErrors "github.com/pennwright/inkwell/internal/errors"
	"github.com/pennwright/inkwell/internal/model/contract"
	"github.com/pennwright/inkwell/internal/textpos"
)

// executeContinue generates a continuation at the cursor. The cursor marker
// goes into the prompt payload only; the persisted text never contains it.
func executeContinue(ctx context.Context, r *Runner, cc ControlContext, temperature float64) error {
	if cc.PassageID == "" {
		return inkwellErrors.Precondition("no passage active")
	}

	passage, ok := cc.passage()
	if !ok {
		return inkwellErrors.NotFound("passage not found")
	}

	cursorOffset := textpos.CursorOffset(passage.Text, cc.Cursor)
	textWithCursor := passage.Text[:cursorOffset] + cursorMarker + passage.Text[cursorOffset:]

	userPrompt := fmt.Sprintf(
		"Here is the passage with cursor position marked:\n\n%s\n\nGenerate text to insert at the %s position.",
		textWithCursor, cursorMarker,
	)
	messages := []contract.Message{
		{Role: "system", Content: continuePrompt},
		{Role: "user", Content: userPrompt},
	}

	result, err := r.Run(ctx, cc.toolContext(), messages, RunOptions{Temperature: &temperature})
	if err != nil {
		return err
	}

	continuation := strings.TrimSpace(result.Content)
	if continuation == "" {
		return inkwellErrors.EmptyResult("no continuation text returned")
	}

	var newText string
	if cc.Cursor != nil {
		newText = textpos.InsertAt(passage.Text, *cc.Cursor, continuation)
	} else {
		newText = passage.Text + continuation
	}
	return updatePassageText(cc, passage.ID, newText)
}
