package agent

import (
	"context"

	"questboard/pkg/ollama"
)

// Tool represents an agent tool that can be called by the LLM.
type Tool interface {
	// Name returns the tool name (used in function calling).
	Name() string

	// Description returns what the tool does (for the LLM).
	Description() string

	// Parameters returns the JSON schema for tool parameters.
	Parameters() map[string]any

	// Execute runs the tool with given parameters.
	Execute(ctx context.Context, params map[string]any) (any, error)
}

// Registry manages available tools.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool to the registry.
func (r *Registry) Register(tool Tool) {
	if _, ok := r.tools[tool.Name()]; !ok {
		r.order = append(r.order, tool.Name())
	}
	r.tools[tool.Name()] = tool
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// ToToolDefinitions converts registered tools to the LLM function-calling
// format, in registration order.
func (r *Registry) ToToolDefinitions() []ollama.Tool {
	defs := make([]ollama.Tool, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, ollama.Tool{
			Type: "function",
			Function: ollama.ToolFunction{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
	return defs
}
