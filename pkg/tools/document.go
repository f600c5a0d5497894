package tools

import (
	"fmt"

	"cadbridge/pkg/tools/saferepr"
	"cadbridge/pkg/utils"
)

func init() {
	registerSpecs([]toolSpec{
		{
			name:        "document_create",
			description: "Create a new, empty CAD document and make it active.",
			schema: InputSchema{
				Type:       "object",
				Properties: map[string]Property{"name": stringProp("Name for the new document")},
			},
			render: func(args map[string]any) string {
				name, _ := args["name"].(string)
				if name == "" {
					return `
doc = App.newDocument()
__result__ = {'success': True, 'name': doc.Name}
`
				}
				return fmt.Sprintf(`
doc = App.newDocument(%s)
__result__ = {'success': True, 'name': doc.Name}
`, saferepr.Repr(name))
			},
		},
		{
			name:        "document_open",
			description: "Open a CAD document from a file path.",
			schema: InputSchema{
				Type:       "object",
				Properties: map[string]Property{"path": stringProp("Filesystem path to the document")},
				Required:   []string{"path"},
			},
			render: func(args map[string]any) string {
				path := args["path"].(string)
				return fmt.Sprintf(`
doc = App.openDocument(%s)
__result__ = {'success': True, 'name': doc.Name}
`, saferepr.Repr(path))
			},
		},
		{
			name:        "document_save",
			description: "Save the active (or named) document to its current path.",
			schema: InputSchema{
				Type:       "object",
				Properties: map[string]Property{"name": stringProp("Document to save; defaults to the active document")},
			},
			render: func(args map[string]any) string {
				return resolveDocument(args["name"]) + `
doc.save()
__result__ = {'success': True, 'name': doc.Name}
`
			},
		},
		{
			name:        "document_save_as",
			description: "Save the active (or named) document to a new file path.",
			schema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"path": stringProp("Destination filesystem path"),
					"name": stringProp("Document to save; defaults to the active document"),
				},
				Required: []string{"path"},
			},
			render: func(args map[string]any) string {
				path := args["path"].(string)
				return resolveDocument(args["name"]) + fmt.Sprintf(`
doc.saveAs(%s)
__result__ = {'success': True, 'name': doc.Name}
`, saferepr.Repr(path))
			},
		},
		{
			name:        "document_close",
			description: "Close the active (or named) document without saving.",
			schema: InputSchema{
				Type:       "object",
				Properties: map[string]Property{"name": stringProp("Document to close; defaults to the active document")},
			},
			render: func(args map[string]any) string {
				return resolveDocument(args["name"]) + `
name = doc.Name
App.closeDocument(name)
__result__ = {'success': True, 'name': name}
`
			},
		},
		{
			name:        "document_list",
			description: "List every currently open document.",
			schema:      InputSchema{Type: "object"},
			render: func(args map[string]any) string {
				return `
__result__ = {'success': True, 'documents': [d.Name for d in App.listDocuments().values()]}
`
			},
		},
		{
			name:        "document_active_name",
			description: "Return the name of the active document, or None if none is open.",
			schema:      InputSchema{Type: "object"},
			render: func(args map[string]any) string {
				return `
active = App.ActiveDocument
__result__ = {'success': True, 'name': active.Name if active else None}
`
			},
		},
		{
			name:        "document_recompute",
			description: "Force a dependency recompute of the active (or named) document.",
			schema: InputSchema{
				Type:       "object",
				Properties: map[string]Property{"name": stringProp("Document to recompute; defaults to the active document")},
			},
			render: func(args map[string]any) string {
				return resolveDocument(args["name"]) + `
doc.recompute()
__result__ = {'success': True, 'name': doc.Name}
`
			},
		},
	})
}

// resolveDocument renders the document-lookup preamble every template with
// a "name" argument shares: resolve by name, or fall back to the active
// document, failing with a controlled script-level error if neither exists.
func resolveDocument(nameArg any) string {
	name, _ := utils.SafeAssert[string](nameArg)
	if name == "" {
		return `
doc = App.ActiveDocument
if doc is None:
    __result__ = {'success': False, 'error': 'no active document'}
    raise SystemExit
`
	}
	return fmt.Sprintf(`
doc = App.listDocuments().get(%s)
if doc is None:
    __result__ = {'success': False, 'error': 'document not found: ' + %s}
    raise SystemExit
`, saferepr.Repr(name), saferepr.Repr(name))
}
