package tool

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/pennwright/inkwell/internal/logger"
	"github.com/pennwright/inkwell/internal/model/contract"
)

// Dispatcher routes (name, arguments) pairs to registry entries. It always
// returns exactly one Result; an unrecognized name yields a failed result,
// never a fault — the model can hallucinate tool names.
type Dispatcher struct {
	registry *Registry
}

func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Descriptors exposes the registry's schema surface for advertising to the
// model.
func (d *Dispatcher) Descriptors() []contract.ToolDef {
	return d.registry.Descriptors()
}

// Dispatch executes one tool call against the supplied context.
func (d *Dispatcher) Dispatch(ctx context.Context, tc Context, name string, input json.RawMessage) Result {
	t, ok := d.registry.Get(name)
	if !ok {
		slog.Warn("Unknown tool requested", "tool", name, "trace_id", logger.GetTraceID(ctx))
		return Fail("Unknown tool: %s", name)
	}

	if err := ValidateInput(t.Parameters(), input); err != nil {
		slog.Warn("Tool input validation failed", "tool", name, "error", err)
		return Fail("Invalid arguments for %s: %v", name, err)
	}

	start := time.Now()
	traceID := logger.GetTraceID(ctx)
	slog.Info("Executing tool", "tool", name, "trace_id", traceID)

	result := t.Execute(ctx, tc, input)

	duration := time.Since(start)
	if !result.Success {
		slog.Warn("Tool reported failure", "tool", name, "message", result.Message, "duration", duration, "trace_id", traceID)
	} else {
		slog.Info("Tool execution success", "tool", name, "duration", duration, "trace_id", traceID)
	}
	return result
}
