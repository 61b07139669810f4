package assistant

import (
	"context"
	"strings"

	inkwellErrors "github.com/pennwright/inkwell/internal/errors"
	"github.com/pennwright/inkwell/internal/model/contract"
	"github.com/pennwright/inkwell/internal/textpos"
)

// executeRephrase rewrites the current selection while preserving its
// meaning, then splices the result back over exactly the selected range.
func executeRephrase(ctx context.Context, r *Runner, cc ControlContext, temperature float64) error {
	if cc.Selection == nil || cc.Selection.Text == "" || cc.PassageID == "" {
		return inkwellErrors.Precondition("no text selected or no passage active")
	}

	passage, ok := cc.passage()
	if !ok {
		return inkwellErrors.NotFound("passage not found")
	}

	messages := []contract.Message{
		{Role: "system", Content: rephrasePrompt},
		{Role: "user", Content: cc.Selection.Text},
	}

	result, err := r.Run(ctx, cc.toolContext(), messages, RunOptions{Temperature: &temperature})
	if err != nil {
		return err
	}

	rephrased := strings.TrimSpace(result.Content)
	if rephrased == "" {
		return inkwellErrors.EmptyResult("no rephrased text returned")
	}

	newText := textpos.Splice(passage.Text, cc.Selection.Range, rephrased)
	return updatePassageText(cc, passage.ID, newText)
}
