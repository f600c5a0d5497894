// Package tools holds the global CAD tool registry and per-session
// provider, grounded on pkg/tools/registry.go's immutableRegistry +
// ToolFactory + ToolProvider pattern.
package tools

import (
	"fmt"
	"sync"
)

type toolDescriptor struct {
	meta    ToolMeta
	factory ToolFactory
}

// immutableRegistry is the global, read-only (once sealed) tool registry.
type immutableRegistry struct {
	mu     sync.RWMutex
	sealed bool
	tools  map[string]toolDescriptor
}

var globalRegistry = &immutableRegistry{
	tools: make(map[string]toolDescriptor),
}

// Register adds a tool factory to the global registry. Panics if called
// after the registry is sealed — registration only happens from package
// init() functions, all of which run before any ToolProvider exists.
func Register(meta ToolMeta, factory ToolFactory) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()

	if globalRegistry.sealed {
		panic(fmt.Sprintf("tool registry sealed - cannot register tool %q", meta.Name))
	}
	globalRegistry.tools[meta.Name] = toolDescriptor{meta: meta, factory: factory}
}

// Seal prevents further registrations. Called automatically by
// NewProvider on first use.
func Seal() {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.sealed = true
}

// ListTools returns metadata for every registered tool, sealed or not.
func ListTools() []ToolMeta {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	out := make([]ToolMeta, 0, len(globalRegistry.tools))
	for _, desc := range globalRegistry.tools {
		out = append(out, desc.meta)
	}
	return out
}

// ToolProvider creates and caches tool instances for one session, gated by
// an allow-list.
type ToolProvider struct {
	bctx     *BridgeContext
	tools    map[string]Tool
	allowSet map[string]struct{}
	mu       sync.Mutex
}

// NewProvider builds a ToolProvider over bctx, restricted to allowedTools
// (nil or empty means every registered tool is allowed). Seals the global
// registry as a side effect.
func NewProvider(bctx *BridgeContext, allowedTools []string) *ToolProvider {
	Seal()

	p := &ToolProvider{bctx: bctx, tools: make(map[string]Tool)}
	if len(allowedTools) == 0 {
		globalRegistry.mu.RLock()
		p.allowSet = make(map[string]struct{}, len(globalRegistry.tools))
		for name := range globalRegistry.tools {
			p.allowSet[name] = struct{}{}
		}
		globalRegistry.mu.RUnlock()
		return p
	}

	p.allowSet = make(map[string]struct{}, len(allowedTools))
	for _, name := range allowedTools {
		p.allowSet[name] = struct{}{}
	}
	return p
}

// Get retrieves a tool instance, constructing and caching it lazily.
func (p *ToolProvider) Get(name string) (Tool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.allowSet[name]; !ok {
		return nil, fmt.Errorf("tool %q not allowed in this session", name)
	}
	if tool, ok := p.tools[name]; ok {
		return tool, nil
	}

	globalRegistry.mu.RLock()
	desc, exists := globalRegistry.tools[name]
	globalRegistry.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("tool %q not registered", name)
	}

	tool, err := desc.factory(p.bctx)
	if err != nil {
		return nil, fmt.Errorf("construct tool %q: %w", name, err)
	}
	p.tools[name] = tool
	return tool, nil
}

// List returns metadata for every tool this provider allows.
func (p *ToolProvider) List() []ToolMeta {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	out := make([]ToolMeta, 0, len(p.allowSet))
	for name := range p.allowSet {
		if desc, ok := globalRegistry.tools[name]; ok {
			out = append(out, desc.meta)
		}
	}
	return out
}
