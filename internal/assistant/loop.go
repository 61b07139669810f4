package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	inkwellErrors "github.com/pennwright/inkwell/internal/errors"
	"github.com/pennwright/inkwell/internal/logger"
	"github.com/pennwright/inkwell/internal/model"
	"github.com/pennwright/inkwell/internal/model/contract"
	"github.com/pennwright/inkwell/internal/tool"
)

const DefaultMaxIterations = 10

type RunOptions struct {
	Tools         []contract.ToolDef
	Temperature   *float64
	MaxTokens     int
	MaxIterations int
}

// RunResult carries the final text plus every tool result accumulated
// across iterations. On failure it still carries the results gathered so
// far.
type RunResult struct {
	Content     string
	ToolResults []tool.Result
}

// Runner drives the bounded conversation loop: call the model, execute any
// requested tool calls through the dispatcher, feed the results back, and
// repeat until the model answers in plain text or the iteration cap is
// reached.
type Runner struct {
	provider   model.Provider
	dispatcher *tool.Dispatcher
	modelName  string

	// Defaults applied when RunOptions leaves them unset.
	maxTokens     int
	maxIterations int
}

func NewRunner(provider model.Provider, dispatcher *tool.Dispatcher, modelName string, maxTokens, maxIterations int) *Runner {
	return &Runner{
		provider:      provider,
		dispatcher:    dispatcher,
		modelName:     modelName,
		maxTokens:     maxTokens,
		maxIterations: maxIterations,
	}
}

// Run executes the loop against one tool context. The conversation slice is
// append-only; no message is reordered or mutated after insertion. Tool
// calls within one model turn run strictly sequentially, so a later call
// sees the side effects of an earlier one.
func (r *Runner) Run(ctx context.Context, tc tool.Context, messages []contract.Message, opts RunOptions) (*RunResult, error) {
	maxIterations := opts.MaxIterations
	if maxIterations <= 0 {
		maxIterations = r.maxIterations
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = r.maxTokens
	}

	conversation := append([]contract.Message(nil), messages...)
	var results []tool.Result
	traceID := logger.GetTraceID(ctx)

	for i := 0; i < maxIterations; i++ {
		req := contract.CompletionRequest{
			Model:       r.modelName,
			Messages:    conversation,
			Tools:       opts.Tools,
			Temperature: opts.Temperature,
			MaxTokens:   maxTokens,
		}

		resp, err := r.provider.Complete(ctx, req)
		if err != nil {
			// Provider failures abort immediately; no automatic retry.
			return &RunResult{ToolResults: results}, inkwellErrors.Wrap(err, "model call failed")
		}

		if len(resp.ToolCalls) == 0 {
			slog.Debug("Loop finished", "iterations", i+1, "finish_reason", resp.FinishReason, "trace_id", traceID)
			return &RunResult{Content: resp.Content, ToolResults: results}, nil
		}

		// Record the assistant turn, including its tool calls.
		conversation = append(conversation, contract.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		for _, call := range resp.ToolCalls {
			result := r.dispatcher.Dispatch(ctx, tc, call.Name, json.RawMessage(call.Input))
			results = append(results, result)

			payload, err := json.Marshal(result)
			if err != nil {
				payload = []byte(fmt.Sprintf(`{"success":false,"message":"unserializable tool result: %v"}`, err))
			}

			// The function name travels separately so backends that
			// correlate responses by name never see a call id there.
			id := call.ID
			if id == "" {
				id = call.Name
			}
			conversation = append(conversation, contract.Message{
				Role:       "tool",
				Content:    string(payload),
				ToolCallID: id,
				ToolName:   call.Name,
			})
		}
	}

	slog.Warn("Loop exhausted", "max_iterations", maxIterations, "trace_id", traceID)
	return &RunResult{ToolResults: results},
		inkwellErrors.Exhausted(fmt.Sprintf("max iterations (%d) reached without a final answer", maxIterations))
}
