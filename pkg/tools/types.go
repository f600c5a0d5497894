package tools

import "context"

// Property describes one JSON-schema-shaped input parameter, grounded on
// the shape pkg/coder/claude/mcpserver/server.go's convertProperty walks.
type Property struct {
	Type        string
	Description string
	Enum        []string
	Items       *Property
	Properties  map[string]*Property
	Required    []string
	MinItems    *int
	MaxItems    *int
}

// InputSchema is the top-level JSON-schema object describing a tool's
// arguments, grounded on convertInputSchema's walk of the same shape.
type InputSchema struct {
	Type       string
	Properties map[string]Property
	Required   []string
}

// ToolMeta is registration-time metadata used for MCP's tools/list surface.
type ToolMeta struct {
	Name        string
	Description string
	InputSchema InputSchema
	RequiresUI  bool
}

// Tool is one invocable MCP tool instance, bound to a BridgeContext.
type Tool interface {
	Meta() ToolMeta
	Exec(ctx context.Context, args map[string]any) (map[string]any, error)
}

// ToolFactory builds a Tool bound to bctx. Grounded on
// pkg/tools/registry.go's ToolFactory func(*AgentContext) (Tool, error),
// generalized from an agent/workdir context to a bridge-client context.
type ToolFactory func(bctx *BridgeContext) (Tool, error)
