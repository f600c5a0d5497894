package tools

import (
	"fmt"

	"cadbridge/pkg/tools/saferepr"
)

func init() {
	registerSpecs([]toolSpec{
		{
			name:        "introspect_version",
			description: "Return the host CAD application's version string.",
			schema:      InputSchema{Type: "object"},
			render: func(args map[string]any) string {
				return `
v = App.Version()
__result__ = {'success': True, 'version': '.'.join(str(p) for p in v[:3])}
`
			},
		},
		{
			name:        "introspect_capabilities",
			description: "Report which optional capabilities of the host (GUI, workbenches) are currently available.",
			schema:      InputSchema{Type: "object"},
			render: func(args map[string]any) string {
				return `
__result__ = {
    'success': True,
    'ui_available': ui_available(),
    'workbenches': list(Gui.listWorkbenches().keys()) if ui_available() else [],
}
`
			},
		},
		{
			name:        "introspect_object_properties",
			description: "List every property name, group, and current value of an object.",
			schema: InputSchema{
				Type:       "object",
				Properties: map[string]Property{"object": stringProp("Target object name")},
				Required:   []string{"object"},
			},
			render: func(args map[string]any) string {
				obj := args["object"].(string)
				return resolveDocument(nil) + fmt.Sprintf(`
target = doc.getObject(%s)
if target is None:
    __result__ = {'success': False, 'error': 'object not found: ' + %s}
    raise SystemExit
props = []
for name in target.PropertiesList:
    try:
        props.append({'name': name, 'group': target.getGroupOfProperty(name), 'value': repr(getattr(target, name))})
    except Exception:
        continue
__result__ = {'success': True, 'properties': props}
`, saferepr.Repr(obj), saferepr.Repr(obj))
			},
		},
		{
			name:        "introspect_object_type",
			description: "Return the internal type id and label of an object.",
			schema: InputSchema{
				Type:       "object",
				Properties: map[string]Property{"object": stringProp("Target object name")},
				Required:   []string{"object"},
			},
			render: func(args map[string]any) string {
				obj := args["object"].(string)
				return resolveDocument(nil) + fmt.Sprintf(`
target = doc.getObject(%s)
if target is None:
    __result__ = {'success': False, 'error': 'object not found: ' + %s}
    raise SystemExit
__result__ = {'success': True, 'name': target.Name, 'label': target.Label, 'type_id': target.TypeId}
`, saferepr.Repr(obj), saferepr.Repr(obj))
			},
		},
		{
			name:        "introspect_console_output",
			description: "Return the most recent lines written to the host's report/console view.",
			schema: InputSchema{
				Type:       "object",
				Properties: map[string]Property{"lines": numberProp("Maximum number of lines to return")},
			},
			render: func(args map[string]any) string {
				n := numOr(args["lines"], 200)
				return fmt.Sprintf(`
lines = App.Console.GetLogBuffer().splitlines()[-%v:] if hasattr(App.Console, 'GetLogBuffer') else []
__result__ = {'success': True, 'lines': lines}
`, n)
			},
		},
		{
			name:        "introspect_dependency_graph",
			description: "Return the recompute dependency graph of the active document as object-name edges.",
			schema:      InputSchema{Type: "object"},
			render: func(args map[string]any) string {
				return resolveDocument(nil) + `
edges = []
for o in doc.Objects:
    for dep in doc.getDependencyGroup(o) if hasattr(doc, 'getDependencyGroup') else []:
        edges.append({'from': o.Name, 'to': dep.Name})
__result__ = {'success': True, 'edges': edges}
`
			},
		},
		{
			name:        "introspect_errors",
			description: "Report objects in the active document currently in an error or touched state.",
			schema:      InputSchema{Type: "object"},
			render: func(args map[string]any) string {
				return resolveDocument(nil) + `
errored = [o.Name for o in doc.Objects if o.State and 'Invalid' in o.State]
touched = [o.Name for o in doc.Objects if o.touched()]
__result__ = {'success': True, 'errored': errored, 'touched': touched}
`
			},
		},
		{
			name:        "introspect_units",
			description: "Return the active document's unit system and number display preferences.",
			schema:      InputSchema{Type: "object"},
			render: func(args map[string]any) string {
				return resolveDocument(nil) + `
schema = App.ParamGet('User parameter:BaseApp/Preferences/Units').GetInt('UserSchema', 0)
__result__ = {'success': True, 'unit_schema': schema}
`
			},
		},
	})
}
