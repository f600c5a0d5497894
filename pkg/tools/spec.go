package tools

// toolSpec is the declarative shape every category file builds its table
// from: a name, description, schema, UI requirement, and a render
// function. register turns a table of these into global registrations —
// this is the "codegen" half of tool registry & codegen, generating a
// uniform Tool implementation from a template instead of hand-writing 70
// near-identical types.
type toolSpec struct {
	name        string
	description string
	schema      InputSchema
	requiresUI  bool
	render      render
}

func registerSpecs(specs []toolSpec) {
	for _, s := range specs {
		s := s
		meta := ToolMeta{
			Name:        s.name,
			Description: s.description,
			InputSchema: s.schema,
			RequiresUI:  s.requiresUI,
		}
		Register(meta, func(bctx *BridgeContext) (Tool, error) {
			return &scriptTool{meta: meta, bctx: bctx, render: s.render}, nil
		})
	}
}

func stringProp(desc string) Property   { return Property{Type: "string", Description: desc} }
func numberProp(desc string) Property   { return Property{Type: "number", Description: desc} }
func booleanProp(desc string) Property  { return Property{Type: "boolean", Description: desc} }
func arrayOfNum(desc string) Property {
	return Property{Type: "array", Description: desc, Items: &Property{Type: "number"}}
}
