package tools

import (
	"fmt"

	"cadbridge/pkg/tools/saferepr"
)

func init() {
	registerSpecs([]toolSpec{
		{
			name:        "export_step",
			description: "Export one or more objects to a STEP file.",
			schema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"objects": {Type: "array", Description: "Object names to export; empty means every object", Items: &Property{Type: "string"}},
					"path":    stringProp("Destination .step file path"),
				},
				Required: []string{"path"},
			},
			render: func(args map[string]any) string {
				path := args["path"].(string)
				names, _ := args["objects"].([]any)
				return resolveDocument(nil) + fmt.Sprintf(`
names = %s
targets = [doc.getObject(n) for n in names] if names else list(doc.Objects)
targets = [o for o in targets if o is not None]
Part.export(targets, %s)
__result__ = {'success': True, 'path': %s, 'count': len(targets)}
`, saferepr.Repr(names), saferepr.Repr(path), saferepr.Repr(path))
			},
		},
		{
			name:        "export_stl",
			description: "Export one or more solids to an STL mesh file.",
			schema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"objects": {Type: "array", Description: "Object names to export; empty means every object", Items: &Property{Type: "string"}},
					"path":    stringProp("Destination .stl file path"),
				},
				Required: []string{"path"},
			},
			render: func(args map[string]any) string {
				path := args["path"].(string)
				names, _ := args["objects"].([]any)
				return resolveDocument(nil) + fmt.Sprintf(`
names = %s
targets = [doc.getObject(n) for n in names] if names else list(doc.Objects)
targets = [o for o in targets if o is not None]
Mesh.export(targets, %s)
__result__ = {'success': True, 'path': %s, 'count': len(targets)}
`, saferepr.Repr(names), saferepr.Repr(path), saferepr.Repr(path))
			},
		},
		{
			name:        "import_step",
			description: "Import a STEP file's objects into the active (or named) document.",
			schema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"path": stringProp("Source .step file path"),
					"name": stringProp("Document to import into; defaults to the active document"),
				},
				Required: []string{"path"},
			},
			render: func(args map[string]any) string {
				path := args["path"].(string)
				return resolveDocument(args["name"]) + fmt.Sprintf(`
before = set(o.Name for o in doc.Objects)
Part.insert(%s, doc.Name)
doc.recompute()
added = [o.Name for o in doc.Objects if o.Name not in before]
__result__ = {'success': True, 'imported': added}
`, saferepr.Repr(path))
			},
		},
		{
			name:        "export_dxf",
			description: "Export a sketch's 2D geometry to a DXF file.",
			schema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"sketch": stringProp("Source sketch object name"),
					"path":   stringProp("Destination .dxf file path"),
				},
				Required: []string{"sketch", "path"},
			},
			render: func(args map[string]any) string {
				path := args["path"].(string)
				return resolveSketch(args["sketch"]) + fmt.Sprintf(`
importDXF.export([sketch], %s)
__result__ = {'success': True, 'path': %s}
`, saferepr.Repr(path), saferepr.Repr(path))
			},
		},
	})
}
