package assistant

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pennwright/inkwell/internal/config"
	inkwellErrors "github.com/pennwright/inkwell/internal/errors"
	"github.com/pennwright/inkwell/internal/model"
	"github.com/pennwright/inkwell/internal/model/contract"
	"github.com/pennwright/inkwell/internal/story"
	"github.com/pennwright/inkwell/internal/telemetry"
	"github.com/pennwright/inkwell/internal/tool"
	_ "github.com/pennwright/inkwell/internal/tool/builtin"
)

// Action names the four writing operations the controller exposes.
type Action string

const (
	ActionRephrase Action = "rephrase"
	ActionReplace  Action = "replace"
	ActionContinue Action = "continue"
	ActionDraft    Action = "draft"
)

// Snapshot captures what an action is about to change: the target
// passage's text plus the full passage-id set, so undo can also remove
// passages the action created mid-conversation.
type Snapshot struct {
	PassageID        string
	PriorText        string
	PassageIDsBefore map[string]struct{}
}

// Controller runs writing actions one at a time and holds the single undo
// slot. A new successful action replaces the slot; undo consumes it.
type Controller struct {
	modelCfg     config.ModelConfig
	assistantCfg config.AssistantConfig
	dispatcher   *tool.Dispatcher
	recorder     *telemetry.Recorder

	mu       sync.Mutex
	busy     bool
	runner   *Runner
	snapshot *Snapshot
	lastAct  Action
}

func NewController(modelCfg config.ModelConfig, assistantCfg config.AssistantConfig, recorder *telemetry.Recorder) *Controller {
	return &Controller{
		modelCfg:     modelCfg,
		assistantCfg: assistantCfg,
		dispatcher:   tool.NewDispatcher(tool.NewRegistry()),
		recorder:     recorder,
	}
}

// Execute runs one action against the given editing context. Only one
// action or undo is in flight at a time; concurrent triggers fail fast
// with a busy error before any snapshot or network work happens.
func (c *Controller) Execute(ctx context.Context, action Action, cc ControlContext) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	runner, err := c.ensureRunner()
	if err != nil {
		return err
	}

	snapshot := c.capture(cc)

	handler, temperature, err := c.resolve(action)
	if err != nil {
		return err
	}

	err = handler(ctx, runner, cc, temperature)
	c.record(telemetry.Action(action), err, "")
	if err != nil {
		return err
	}

	// Success replaces any earlier undo opportunity.
	c.mu.Lock()
	c.snapshot = snapshot
	c.lastAct = action
	c.mu.Unlock()
	return nil
}

// Ask runs a free-form question through the conversation loop with the
// full tool surface advertised, letting the model read and edit the story
// on its own. No snapshot is taken; Ask is not undoable.
func (c *Controller) Ask(ctx context.Context, cc ControlContext, question string) (string, error) {
	if err := c.begin(); err != nil {
		return "", err
	}
	defer c.end()

	runner, err := c.ensureRunner()
	if err != nil {
		return "", err
	}

	messages := []contract.Message{
		{Role: "system", Content: askPrompt},
		{Role: "user", Content: question},
	}
	result, err := runner.Run(ctx, cc.toolContext(), messages, RunOptions{
		Tools: c.dispatcher.Descriptors(),
	})
	if err != nil {
		return "", err
	}
	return result.Content, nil
}

// Undo reverses the most recent successful action: passages created by the
// action are deleted, then the target passage's prior text is restored.
// Restore is attempted regardless of per-passage delete outcomes. A failed
// undo keeps the slot so it can be retried. With no snapshot held, Undo is
// a no-op.
func (c *Controller) Undo(cc ControlContext) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	c.mu.Lock()
	snapshot := c.snapshot
	undone := c.lastAct
	c.mu.Unlock()

	if snapshot == nil {
		return nil
	}

	var firstErr error
	if s, ok := story.WithID(cc.Stories(), cc.StoryID); ok {
		for _, id := range s.PassageIDs() {
			if _, existed := snapshot.PassageIDsBefore[id]; existed {
				continue
			}
			err := cc.Dispatch(story.Action{
				Type:      story.ActionDeletePassage,
				StoryID:   cc.StoryID,
				PassageID: id,
			})
			if err != nil {
				slog.Warn("Undo delete failed", "passage_id", id, "error", err)
				if firstErr == nil {
					firstErr = err
				}
			}
		}
	}

	if snapshot.PassageID != "" {
		if err := updatePassageText(cc, snapshot.PassageID, snapshot.PriorText); err != nil {
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	c.record(telemetry.ActionUndo, firstErr, telemetry.Action(undone))
	if firstErr != nil {
		return inkwellErrors.Wrap(firstErr, "undo incomplete")
	}

	c.mu.Lock()
	c.snapshot = nil
	c.lastAct = ""
	c.mu.Unlock()
	return nil
}

// CanUndo reports whether an undo slot is held.
func (c *Controller) CanUndo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot != nil
}

// Busy reports whether an action or undo is currently in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

func (c *Controller) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return inkwellErrors.Busy("another action is already in progress")
	}
	c.busy = true
	return nil
}

func (c *Controller) end() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

// ensureRunner builds the provider on first use. Missing credentials fail
// here, before any snapshot is taken or network call attempted.
func (c *Controller) ensureRunner() (*Runner, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.runner != nil {
		return c.runner, nil
	}

	provider, err := model.New(c.modelCfg)
	if err != nil {
		return nil, err
	}
	c.runner = NewRunner(provider, c.dispatcher, c.modelCfg.Name, c.assistantCfg.MaxTokens, c.assistantCfg.MaxIterations)
	return c.runner, nil
}

// capture snapshots the target passage before the action runs. When the
// passage cannot be resolved the action proceeds without a snapshot.
func (c *Controller) capture(cc ControlContext) *Snapshot {
	passage, ok := cc.passage()
	if !ok {
		return nil
	}

	ids := make(map[string]struct{})
	if s, found := story.WithID(cc.Stories(), cc.StoryID); found {
		for _, id := range s.PassageIDs() {
			ids[id] = struct{}{}
		}
	}

	return &Snapshot{
		PassageID:        passage.ID,
		PriorText:        passage.Text,
		PassageIDsBefore: ids,
	}
}

type handlerFunc func(ctx context.Context, r *Runner, cc ControlContext, temperature float64) error

func (c *Controller) resolve(action Action) (handlerFunc, float64, error) {
	switch action {
	case ActionRephrase:
		return executeRephrase, c.assistantCfg.RephraseTemperature, nil
	case ActionReplace:
		return executeReplace, c.assistantCfg.ReplaceTemperature, nil
	case ActionContinue:
		return executeContinue, c.assistantCfg.ContinueTemperature, nil
	case ActionDraft:
		return executeDraft, c.assistantCfg.DraftTemperature, nil
	default:
		return nil, 0, inkwellErrors.InvalidInput("unknown action: " + string(action))
	}
}

func (c *Controller) record(action telemetry.Action, err error, undone telemetry.Action) {
	if c.recorder == nil {
		return
	}
	outcome := telemetry.OutcomeSuccess
	if err != nil {
		outcome = telemetry.OutcomeError
	}
	c.recorder.Record(action, outcome, undone)
}
