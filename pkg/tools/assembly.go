package tools

import (
	"fmt"

	"cadbridge/pkg/tools/saferepr"
)

func init() {
	registerSpecs([]toolSpec{
		{
			name:        "assembly_insert_part",
			description: "Insert a copy of one document's object tree as a linked part in another document.",
			schema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"source_doc": stringProp("Document supplying the part"),
					"source_obj": stringProp("Object to link in"),
					"name":       stringProp("Name for the inserted link"),
				},
				Required: []string{"source_doc", "source_obj"},
			},
			render: func(args map[string]any) string {
				srcDoc := args["source_doc"].(string)
				srcObj := args["source_obj"].(string)
				return resolveDocument(nil) + fmt.Sprintf(`
source = App.listDocuments().get(%s)
if source is None:
    __result__ = {'success': False, 'error': 'source document not found: ' + %s}
    raise SystemExit
target = source.getObject(%s)
if target is None:
    __result__ = {'success': False, 'error': 'source object not found: ' + %s}
    raise SystemExit
link = doc.addObject('App::Link', %s)
link.LinkedObject = target
doc.recompute()
__result__ = {'success': True, 'name': link.Name}
`, saferepr.Repr(srcDoc), saferepr.Repr(srcDoc), saferepr.Repr(srcObj), saferepr.Repr(srcObj), objNameOr(args["name"], "Link"))
			},
		},
		{
			name:        "assembly_add_constraint_coincident",
			description: "Add a coincident placement constraint between two assembly parts' attachment points.",
			schema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"part1": stringProp("First part object name"),
					"part2": stringProp("Second part object name"),
				},
				Required: []string{"part1", "part2"},
			},
			render: func(args map[string]any) string {
				p1 := args["part1"].(string)
				p2 := args["part2"].(string)
				return resolveDocument(nil) + fmt.Sprintf(`
a = doc.getObject(%s)
b = doc.getObject(%s)
if a is None or b is None:
    __result__ = {'success': False, 'error': 'one or both parts not found'}
    raise SystemExit
a.Placement = b.Placement
doc.recompute()
__result__ = {'success': True}
`, saferepr.Repr(p1), saferepr.Repr(p2))
			},
		},
		{
			name:        "assembly_list_parts",
			description: "List every App::Link object in the active document, the assembly's part instances.",
			schema:      InputSchema{Type: "object"},
			render: func(args map[string]any) string {
				return resolveDocument(nil) + `
links = [o for o in doc.Objects if o.TypeId == 'App::Link']
__result__ = {'success': True, 'parts': [{'name': l.Name, 'linked_to': l.LinkedObject.Name if l.LinkedObject else None} for l in links]}
`
			},
		},
		{
			name:        "assembly_remove_part",
			description: "Remove a linked part instance from the assembly.",
			schema: InputSchema{
				Type:       "object",
				Properties: map[string]Property{"part": stringProp("Linked part object name")},
				Required:   []string{"part"},
			},
			render: func(args map[string]any) string {
				part := args["part"].(string)
				return resolveDocument(nil) + fmt.Sprintf(`
doc.removeObject(%s)
doc.recompute()
__result__ = {'success': True, 'name': %s}
`, saferepr.Repr(part), saferepr.Repr(part))
			},
		},
		{
			name:        "assembly_explode",
			description: "Offset every linked part in the active document away from the assembly origin by a scale factor, for an exploded view.",
			schema: InputSchema{
				Type:       "object",
				Properties: map[string]Property{"factor": numberProp("Offset scale factor")},
				Required:   []string{"factor"},
			},
			render: func(args map[string]any) string {
				return resolveDocument(nil) + fmt.Sprintf(`
factor = %v
links = [o for o in doc.Objects if o.TypeId == 'App::Link']
for link in links:
    base = link.Placement.Base
    link.Placement.Base = base * (1 + factor)
doc.recompute()
__result__ = {'success': True, 'parts_moved': len(links)}
`, args["factor"])
			},
		},
		{
			name:        "assembly_bounding_box",
			description: "Compute the combined bounding box of every object in the active document.",
			schema:      InputSchema{Type: "object"},
			render: func(args map[string]any) string {
				return resolveDocument(nil) + `
bbox = None
for o in doc.Objects:
    if hasattr(o, 'Shape') and o.Shape is not None:
        bbox = o.Shape.BoundBox if bbox is None else bbox.add(o.Shape.BoundBox)
if bbox is None:
    __result__ = {'success': False, 'error': 'no shapes in document'}
else:
    __result__ = {'success': True, 'xmin': bbox.XMin, 'ymin': bbox.YMin, 'zmin': bbox.ZMin, 'xmax': bbox.XMax, 'ymax': bbox.YMax, 'zmax': bbox.ZMax}
`
			},
		},
		{
			name:        "assembly_mass_properties",
			description: "Compute the total volume across every shape in the active document.",
			schema:      InputSchema{Type: "object"},
			render: func(args map[string]any) string {
				return resolveDocument(nil) + `
volume = sum(o.Shape.Volume for o in doc.Objects if hasattr(o, 'Shape') and o.Shape is not None)
__result__ = {'success': True, 'total_volume': volume}
`
			},
		},
		{
			name:        "assembly_rename_part",
			description: "Relabel one linked part instance.",
			schema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"part":     stringProp("Linked part object name"),
					"new_name": stringProp("New label"),
				},
				Required: []string{"part", "new_name"},
			},
			render: func(args map[string]any) string {
				part := args["part"].(string)
				newName := args["new_name"].(string)
				return resolveDocument(nil) + fmt.Sprintf(`
target = doc.getObject(%s)
if target is None:
    __result__ = {'success': False, 'error': 'part not found: ' + %s}
    raise SystemExit
target.Label = %s
__result__ = {'success': True, 'name': target.Name, 'label': target.Label}
`, saferepr.Repr(part), saferepr.Repr(part), saferepr.Repr(newName))
			},
		},
	})
}
