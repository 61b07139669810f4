package assistant

import (
	"context"
	"fmt"
	"strings"

	inkwellErrors "github.com/pennwright/inkwell/internal/errors"
	"github.com/pennwright/inkwell/internal/model/contract"
	"github.com/pennwright/inkwell/internal/story"
)

// executeDraft writes an entire passage from scratch. It only runs against
// a blank passage, and it pulls in the passages linking here so the model
// can continue the narrative the reader arrived from.
func executeDraft(ctx context.Context, r *Runner, cc ControlContext, temperature float64) error {
	if cc.PassageID == "" {
		return inkwellErrors.Precondition("no passage active")
	}

	passage, ok := cc.passage()
	if !ok {
		return inkwellErrors.NotFound("passage not found")
	}
	if strings.TrimSpace(passage.Text) != "" {
		return inkwellErrors.Precondition("passage already has content")
	}

	var preceding []*story.Passage
	if s, ok := story.WithID(cc.Stories(), cc.StoryID); ok {
		preceding = s.IncomingPassages(passage.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Draft a complete passage for a blank passage named %q.", passage.Name)
	if len(preceding) > 0 {
		b.WriteString("\n\n--- PRECEDING PASSAGES (that link to this passage) ---\n")
		for _, p := range preceding {
			fmt.Fprintf(&b, "\n[%s]\n%s\n", p.Name, p.Text)
		}
		fmt.Fprintf(&b, "\n--- END PRECEDING PASSAGES ---\n\nContinue the story from the preceding context. The reader has just clicked a link to reach %q.", passage.Name)
	} else {
		b.WriteString(" The passage name may hint at what the content should be about, or you can interpret it creatively. Generate engaging interactive fiction content with choices/links.")
	}

	messages := []contract.Message{
		{Role: "system", Content: draftPrompt},
		{Role: "user", Content: b.String()},
	}

	result, err := r.Run(ctx, cc.toolContext(), messages, RunOptions{Temperature: &temperature})
	if err != nil {
		return err
	}

	draft := strings.TrimSpace(result.Content)
	if draft == "" {
		return inkwellErrors.EmptyResult("no draft text returned")
	}

	return updatePassageText(cc, passage.ID, draft)
}
