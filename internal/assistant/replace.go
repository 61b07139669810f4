package assistant

import (
	"context"
	"fmt"
	"strings"

	inkwellErrors "github.com/pennwright/inkwell/internal/errors"
	"github.com/pennwright/inkwell/internal/model/contract"
	"github.com/pennwright/inkwell/internal/textpos"
)

// executeReplace swaps the current selection for different content, not a
// paraphrase. The model sees the whole passage so the replacement keeps
// narrative flow.
func executeReplace(ctx context.Context, r *Runner, cc ControlContext, temperature float64) error {
	if cc.Selection == nil || cc.Selection.Text == "" || cc.PassageID == "" {
		return inkwellErrors.Precondition("no text selected or no passage active")
	}

	passage, ok := cc.passage()
	if !ok {
		return inkwellErrors.NotFound("passage not found")
	}

	userPrompt := fmt.Sprintf(
		"Here is the full passage:\n\n%s\n\n---\n\nThe selected text to replace is:\n\n%s\n\nGenerate different content to replace this selection.",
		passage.Text, cc.Selection.Text,
	)
	messages := []contract.Message{
		{Role: "system", Content: replacePrompt},
		{Role: "user", Content: userPrompt},
	}

	result, err := r.Run(ctx, cc.toolContext(), messages, RunOptions{Temperature: &temperature})
	if err != nil {
		return err
	}

	replacement := strings.TrimSpace(result.Content)
	if replacement == "" {
		return inkwellErrors.EmptyResult("no replacement text returned")
	}

	newText := textpos.Splice(passage.Text, cc.Selection.Range, replacement)
	return updatePassageText(cc, passage.ID, newText)
}
