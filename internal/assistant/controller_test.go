package assistant

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennwright/inkwell/internal/config"
	inkwellErrors "github.com/pennwright/inkwell/internal/errors"
	"github.com/pennwright/inkwell/internal/model/contract"
	"github.com/pennwright/inkwell/internal/story"
	"github.com/pennwright/inkwell/internal/textpos"
	"github.com/pennwright/inkwell/internal/tool"
)

func testAssistantConfig() config.AssistantConfig {
	return config.AssistantConfig{
		MaxIterations:       10,
		MaxTokens:           256,
		RephraseTemperature: 0.7,
		ReplaceTemperature:  0.9,
		ContinueTemperature: 0.8,
		DraftTemperature:    1.0,
	}
}

func newTestController(provider *stubProvider) *Controller {
	c := NewController(config.ModelConfig{Provider: "gemini", Name: "stub-model"}, testAssistantConfig(), nil)
	c.runner = NewRunner(provider, tool.NewDispatcher(tool.NewRegistry()), "stub-model", 256, 10)
	return c
}

func controlContextFor(lib *memLibrary, selection *Selection, cursor *textpos.Position) ControlContext {
	return ControlContext{
		StoryID:   "s1",
		PassageID: "A",
		Selection: selection,
		Cursor:    cursor,
		Stories:   lib.Stories,
		Dispatch:  lib.Dispatch,
	}
}

func wholeSelection(text string) *Selection {
	return &Selection{
		Range: textpos.Range{
			From: textpos.Position{Line: 0, Ch: 0},
			To:   textpos.Position{Line: 0, Ch: len(text)},
		},
		Text: text,
	}
}

func TestExecute_RephraseWritesBack(t *testing.T) {
	lib := testLibrary()
	provider := &stubProvider{responses: []*contract.CompletionResponse{textResponse("ancient")}}
	c := newTestController(provider)

	err := c.Execute(context.Background(), ActionRephrase, controlContextFor(lib, wholeSelection("old"), nil))
	require.NoError(t, err)

	p, _ := lib.stories[0].PassageWithID("A")
	assert.Equal(t, "ancient", p.Text)
	assert.True(t, c.CanUndo())
}

func TestExecute_RephraseRequiresSelection(t *testing.T) {
	lib := testLibrary()
	provider := &stubProvider{responses: []*contract.CompletionResponse{textResponse("never sent")}}
	c := newTestController(provider)

	err := c.Execute(context.Background(), ActionRephrase, controlContextFor(lib, nil, nil))
	require.Error(t, err)
	assert.True(t, inkwellErrors.IsCategory(err, inkwellErrors.ErrPrecondition))
	assert.Zero(t, provider.calls)
	assert.False(t, c.CanUndo())
}

func TestExecute_RephraseRejectsEmptySelection(t *testing.T) {
	lib := testLibrary()
	provider := &stubProvider{responses: []*contract.CompletionResponse{textResponse("never sent")}}
	c := newTestController(provider)

	// A zero-width range selects no text; the action must fail before any
	// model call rather than splice a reply into the empty range.
	empty := &Selection{Range: textpos.Range{}, Text: ""}
	err := c.Execute(context.Background(), ActionRephrase, controlContextFor(lib, empty, nil))
	require.Error(t, err)
	assert.True(t, inkwellErrors.IsCategory(err, inkwellErrors.ErrPrecondition))
	assert.Zero(t, provider.calls)

	p, _ := lib.stories[0].PassageWithID("A")
	assert.Equal(t, "old", p.Text)
}

func TestExecute_ReplaceRejectsEmptySelection(t *testing.T) {
	lib := testLibrary()
	provider := &stubProvider{responses: []*contract.CompletionResponse{textResponse("never sent")}}
	c := newTestController(provider)

	empty := &Selection{Range: textpos.Range{}, Text: ""}
	err := c.Execute(context.Background(), ActionReplace, controlContextFor(lib, empty, nil))
	require.Error(t, err)
	assert.True(t, inkwellErrors.IsCategory(err, inkwellErrors.ErrPrecondition))
	assert.Zero(t, provider.calls)
}

func TestExecute_EmptyModelResponseFails(t *testing.T) {
	lib := testLibrary()
	provider := &stubProvider{responses: []*contract.CompletionResponse{textResponse("  \n ")}}
	c := newTestController(provider)

	err := c.Execute(context.Background(), ActionRephrase, controlContextFor(lib, wholeSelection("old"), nil))
	require.Error(t, err)
	assert.True(t, inkwellErrors.IsCategory(err, inkwellErrors.ErrEmptyResult))

	p, _ := lib.stories[0].PassageWithID("A")
	assert.Equal(t, "old", p.Text)
	assert.False(t, c.CanUndo())
}

func TestExecute_ContinueInsertsAtCursor(t *testing.T) {
	lib := testLibrary()
	provider := &stubProvider{responses: []*contract.CompletionResponse{textResponse(" and new")}}
	c := newTestController(provider)

	cursor := &textpos.Position{Line: 0, Ch: 3}
	err := c.Execute(context.Background(), ActionContinue, controlContextFor(lib, nil, cursor))
	require.NoError(t, err)

	p, _ := lib.stories[0].PassageWithID("A")
	assert.Equal(t, "oldand new", p.Text)

	// The prompt carried the marker; the stored text must not.
	require.NotEmpty(t, provider.requests)
	assert.Contains(t, provider.requests[0].Messages[1].Content, "[CURSOR]")
	assert.NotContains(t, p.Text, "[CURSOR]")
}

func TestExecute_ContinueAppendsWithoutCursor(t *testing.T) {
	lib := testLibrary()
	provider := &stubProvider{responses: []*contract.CompletionResponse{textResponse("more")}}
	c := newTestController(provider)

	err := c.Execute(context.Background(), ActionContinue, controlContextFor(lib, nil, nil))
	require.NoError(t, err)

	p, _ := lib.stories[0].PassageWithID("A")
	assert.Equal(t, "oldmore", p.Text)
}

func TestExecute_DraftRequiresBlankPassage(t *testing.T) {
	lib := testLibrary()
	provider := &stubProvider{responses: []*contract.CompletionResponse{textResponse("fresh")}}
	c := newTestController(provider)

	err := c.Execute(context.Background(), ActionDraft, controlContextFor(lib, nil, nil))
	require.Error(t, err)
	assert.True(t, inkwellErrors.IsCategory(err, inkwellErrors.ErrPrecondition))
	assert.Zero(t, provider.calls)
}

func TestExecute_DraftOnBlankPassage(t *testing.T) {
	lib := testLibrary()
	draft := "You wake up. Go [[Left]] or [[run->Right]]."
	provider := &stubProvider{responses: []*contract.CompletionResponse{textResponse(draft)}}
	c := newTestController(provider)

	cc := controlContextFor(lib, nil, nil)
	cc.PassageID = "C"
	lib.stories[0].Passages = append(lib.stories[0].Passages, &story.Passage{ID: "C", Name: "Blank", Text: "  \n"})

	err := c.Execute(context.Background(), ActionDraft, cc)
	require.NoError(t, err)

	p, _ := lib.stories[0].PassageWithID("C")
	assert.Equal(t, draft, p.Text)
	assert.NotEmpty(t, story.Links(p.Text))
}

func TestExecute_DraftIncludesIncomingContext(t *testing.T) {
	lib := testLibrary()
	provider := &stubProvider{responses: []*contract.CompletionResponse{textResponse("drafted [[Start]]")}}
	c := newTestController(provider)

	// "Other" links to "Start"; clearing Start's text makes it draftable.
	p, _ := lib.stories[0].PassageWithID("A")
	p.Text = ""

	err := c.Execute(context.Background(), ActionDraft, controlContextFor(lib, nil, nil))
	require.NoError(t, err)

	require.NotEmpty(t, provider.requests)
	prompt := provider.requests[0].Messages[1].Content
	assert.Contains(t, prompt, "PRECEDING PASSAGES")
	assert.Contains(t, prompt, "Other")
}

func TestUndo_DeletesCreatedAndRestoresText(t *testing.T) {
	lib := testLibrary()
	provider := &stubProvider{responses: []*contract.CompletionResponse{
		toolCallResponse("create_new_passage", `{"name":"Branch","text":"made mid-loop"}`),
		textResponse("new"),
	}}
	c := newTestController(provider)

	cc := controlContextFor(lib, wholeSelection("old"), nil)
	require.NoError(t, c.Execute(context.Background(), ActionRephrase, cc))

	// ids before = {A, B}; the action created Branch and rewrote A.
	p, _ := lib.stories[0].PassageWithID("A")
	require.Equal(t, "new", p.Text)
	_, created := lib.stories[0].PassageWithName("Branch")
	require.True(t, created)

	require.NoError(t, c.Undo(cc))

	p, _ = lib.stories[0].PassageWithID("A")
	assert.Equal(t, "old", p.Text)
	_, stillThere := lib.stories[0].PassageWithName("Branch")
	assert.False(t, stillThere)
	assert.Len(t, lib.stories[0].Passages, 2)
}

func TestUndo_SecondInvocationIsNoOp(t *testing.T) {
	lib := testLibrary()
	provider := &stubProvider{responses: []*contract.CompletionResponse{textResponse("new")}}
	c := newTestController(provider)

	cc := controlContextFor(lib, wholeSelection("old"), nil)
	require.NoError(t, c.Execute(context.Background(), ActionRephrase, cc))
	require.NoError(t, c.Undo(cc))

	// Mutate after the first undo; a second undo must not touch anything.
	p, _ := lib.stories[0].PassageWithID("A")
	p.Text = "manual edit"

	require.NoError(t, c.Undo(cc))
	p, _ = lib.stories[0].PassageWithID("A")
	assert.Equal(t, "manual edit", p.Text)
	assert.False(t, c.CanUndo())
}

func TestUndo_FailureKeepsSlotForRetry(t *testing.T) {
	lib := testLibrary()
	provider := &stubProvider{responses: []*contract.CompletionResponse{textResponse("new")}}
	c := newTestController(provider)

	cc := controlContextFor(lib, wholeSelection("old"), nil)
	require.NoError(t, c.Execute(context.Background(), ActionRephrase, cc))

	// First undo attempt hits a failing host; the slot must survive it.
	failures := 1
	flaky := cc
	flaky.Dispatch = func(a story.Action) error {
		if failures > 0 {
			failures--
			return assert.AnError
		}
		return lib.Dispatch(a)
	}

	err := c.Undo(flaky)
	require.Error(t, err)
	assert.True(t, c.CanUndo())
	p, _ := lib.stories[0].PassageWithID("A")
	assert.Equal(t, "new", p.Text)

	require.NoError(t, c.Undo(cc))
	assert.False(t, c.CanUndo())
	p, _ = lib.stories[0].PassageWithID("A")
	assert.Equal(t, "old", p.Text)
}

func TestExecute_NewActionReplacesUndoSlot(t *testing.T) {
	lib := testLibrary()
	provider := &stubProvider{responses: []*contract.CompletionResponse{textResponse("first"), textResponse("second")}}
	c := newTestController(provider)

	require.NoError(t, c.Execute(context.Background(), ActionRephrase, controlContextFor(lib, wholeSelection("old"), nil)))
	require.NoError(t, c.Execute(context.Background(), ActionContinue, controlContextFor(lib, nil, nil)))

	// Undo only reverts the second action, back to the first result.
	cc := controlContextFor(lib, nil, nil)
	require.NoError(t, c.Undo(cc))

	p, _ := lib.stories[0].PassageWithID("A")
	assert.Equal(t, "first", p.Text)
}

func TestExecute_BusyRejected(t *testing.T) {
	lib := testLibrary()
	provider := &stubProvider{responses: []*contract.CompletionResponse{textResponse("x")}}
	c := newTestController(provider)
	c.busy = true

	err := c.Execute(context.Background(), ActionRephrase, controlContextFor(lib, wholeSelection("old"), nil))
	require.Error(t, err)
	assert.True(t, inkwellErrors.IsCategory(err, inkwellErrors.ErrBusy))

	err = c.Undo(controlContextFor(lib, nil, nil))
	require.Error(t, err)
	assert.True(t, inkwellErrors.IsCategory(err, inkwellErrors.ErrBusy))
}

func TestExecute_UnknownAction(t *testing.T) {
	lib := testLibrary()
	c := newTestController(&stubProvider{responses: []*contract.CompletionResponse{textResponse("x")}})

	err := c.Execute(context.Background(), Action("explode"), controlContextFor(lib, nil, nil))
	require.Error(t, err)
	assert.True(t, inkwellErrors.IsCategory(err, inkwellErrors.ErrInvalidInput))
}

func TestExecute_MissingAPIKeyIsPrecondition(t *testing.T) {
	lib := testLibrary()
	c := NewController(config.ModelConfig{Provider: "gemini"}, testAssistantConfig(), nil)

	err := c.Execute(context.Background(), ActionRephrase, controlContextFor(lib, wholeSelection("old"), nil))
	require.Error(t, err)
	assert.True(t, inkwellErrors.IsCategory(err, inkwellErrors.ErrPrecondition))
}

func TestAsk_AdvertisesFullToolSurface(t *testing.T) {
	lib := testLibrary()
	provider := &stubProvider{responses: []*contract.CompletionResponse{textResponse("two passages")}}
	c := newTestController(provider)

	answer, err := c.Ask(context.Background(), controlContextFor(lib, nil, nil), "how many passages?")
	require.NoError(t, err)
	assert.Equal(t, "two passages", answer)

	require.NotEmpty(t, provider.requests)
	require.Len(t, provider.requests[0].Tools, 9)
	var names []string
	for _, def := range provider.requests[0].Tools {
		names = append(names, def.Name)
	}
	assert.True(t, strings.HasPrefix(names[0], "append_"))
}
