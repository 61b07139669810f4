package tool

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/pennwright/inkwell/internal/model/contract"
)

// Tool represents one named capability offered to the model.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]interface{}
	Execute(ctx context.Context, tc Context, input json.RawMessage) Result
}

// Registry holds the fixed tool catalog. It is populated at startup from
// the builtin factories and never mutated afterwards.
type Registry struct {
	tools map[string]Tool
}

func NewRegistry() *Registry {
	r := &Registry{tools: make(map[string]Tool)}
	for _, factory := range builtins {
		r.register(factory())
	}
	return r
}

func (r *Registry) register(t Tool) {
	name := strings.TrimSpace(t.Name())
	if name == "" {
		panic("tool: empty tool name")
	}
	r.tools[name] = t
}

func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[strings.TrimSpace(name)]
	return t, ok
}

// Descriptors returns the tool schema surface advertised to the model,
// sorted by name.
func (r *Registry) Descriptors() []contract.ToolDef {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]contract.ToolDef, 0, len(names))
	for _, name := range names {
		t := r.tools[name]
		defs = append(defs, contract.ToolDef{
			Name:        name,
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return defs
}

var builtins []func() Tool

// RegisterBuiltin adds a tool factory to the static catalog. Called from
// init functions in the builtin package.
func RegisterBuiltin(factory func() Tool) {
	builtins = append(builtins, factory)
}
