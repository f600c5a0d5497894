package tools

import (
	"fmt"

	"cadbridge/pkg/tools/saferepr"
)

func init() {
	registerSpecs([]toolSpec{
		{
			name:        "selection_get",
			description: "Return the current GUI selection as a list of object names with optional sub-element names.",
			schema:      InputSchema{Type: "object"},
			requiresUI:  true,
			render: func(args map[string]any) string {
				return guardUI() + `
sel = Gui.Selection.getSelectionEx()
items = [{'object': s.ObjectName, 'sub_elements': list(s.SubElementNames)} for s in sel]
__result__ = {'success': True, 'selection': items}
`
			},
		},
		{
			name:        "selection_clear",
			description: "Clear the current GUI selection.",
			schema:      InputSchema{Type: "object"},
			requiresUI:  true,
			render: func(args map[string]any) string {
				return guardUI() + `
Gui.Selection.clearSelection()
__result__ = {'success': True}
`
			},
		},
		{
			name:        "selection_add",
			description: "Add an object (and optional sub-element) to the current GUI selection.",
			schema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"object":      stringProp("Target object name"),
					"sub_element": stringProp("Sub-element name, e.g. Face1"),
				},
				Required: []string{"object"},
			},
			requiresUI: true,
			render: func(args map[string]any) string {
				obj := args["object"].(string)
				sub, _ := args["sub_element"].(string)
				return guardUI() + resolveDocument(nil) + fmt.Sprintf(`
target = doc.getObject(%s)
if target is None:
    __result__ = {'success': False, 'error': 'object not found: ' + %s}
    raise SystemExit
Gui.Selection.addSelection(doc.Name, target.Name, %s)
__result__ = {'success': True, 'name': target.Name}
`, saferepr.Repr(obj), saferepr.Repr(obj), saferepr.Repr(sub))
			},
		},
		{
			name:        "selection_remove",
			description: "Remove an object from the current GUI selection.",
			schema: InputSchema{
				Type:       "object",
				Properties: map[string]Property{"object": stringProp("Target object name")},
				Required:   []string{"object"},
			},
			requiresUI: true,
			render: func(args map[string]any) string {
				obj := args["object"].(string)
				return guardUI() + resolveDocument(nil) + fmt.Sprintf(`
Gui.Selection.removeSelection(doc.Name, %s)
__result__ = {'success': True, 'name': %s}
`, saferepr.Repr(obj), saferepr.Repr(obj))
			},
		},
		{
			name:        "selection_set",
			description: "Replace the current GUI selection with exactly one object.",
			schema: InputSchema{
				Type:       "object",
				Properties: map[string]Property{"object": stringProp("Target object name")},
				Required:   []string{"object"},
			},
			requiresUI: true,
			render: func(args map[string]any) string {
				obj := args["object"].(string)
				return guardUI() + resolveDocument(nil) + fmt.Sprintf(`
target = doc.getObject(%s)
if target is None:
    __result__ = {'success': False, 'error': 'object not found: ' + %s}
    raise SystemExit
Gui.Selection.clearSelection()
Gui.Selection.addSelection(doc.Name, target.Name)
__result__ = {'success': True, 'name': target.Name}
`, saferepr.Repr(obj), saferepr.Repr(obj))
			},
		},
	})
}
