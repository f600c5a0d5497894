package tools

import (
	"fmt"

	"cadbridge/pkg/tools/saferepr"
)

func init() {
	registerSpecs([]toolSpec{
		{
			name:        "sketch_create",
			description: "Create a new sketch on the given plane (XY, XZ, or YZ) in the active document.",
			schema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"plane": {Type: "string", Description: "Mounting plane", Enum: []string{"XY", "XZ", "YZ"}},
					"name":  stringProp("Sketch object name"),
				},
			},
			render: func(args map[string]any) string {
				plane, _ := args["plane"].(string)
				if plane == "" {
					plane = "XY"
				}
				name, _ := args["name"].(string)
				return resolveDocument(nil) + fmt.Sprintf(`
sketch = doc.addObject('Sketcher::SketchObject', %s)
sketch.AttachmentSupport = doc.getObject(%s)
doc.recompute()
__result__ = {'success': True, 'name': sketch.Name}
`, sketchNameOr(name), saferepr.Repr(plane))
			},
		},
		{
			name:        "sketch_add_line",
			description: "Add a line segment to an existing sketch.",
			schema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"sketch": stringProp("Target sketch object name"),
					"x1":     numberProp("Start X"),
					"y1":     numberProp("Start Y"),
					"x2":     numberProp("End X"),
					"y2":     numberProp("End Y"),
				},
				Required: []string{"sketch", "x1", "y1", "x2", "y2"},
			},
			render: func(args map[string]any) string {
				return resolveSketch(args["sketch"]) + fmt.Sprintf(`
sketch.addGeometry(Part.LineSegment(App.Vector(%v, %v, 0), App.Vector(%v, %v, 0)))
doc.recompute()
__result__ = {'success': True, 'geometry_count': sketch.GeometryCount}
`, args["x1"], args["y1"], args["x2"], args["y2"])
			},
		},
		{
			name:        "sketch_add_circle",
			description: "Add a circle to an existing sketch.",
			schema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"sketch": stringProp("Target sketch object name"),
					"cx":     numberProp("Center X"),
					"cy":     numberProp("Center Y"),
					"radius": numberProp("Radius"),
				},
				Required: []string{"sketch", "cx", "cy", "radius"},
			},
			render: func(args map[string]any) string {
				return resolveSketch(args["sketch"]) + fmt.Sprintf(`
sketch.addGeometry(Part.Circle(App.Vector(%v, %v, 0), App.Vector(0, 0, 1), %v))
doc.recompute()
__result__ = {'success': True, 'geometry_count': sketch.GeometryCount}
`, args["cx"], args["cy"], args["radius"])
			},
		},
		{
			name:        "sketch_add_rectangle",
			description: "Add an axis-aligned rectangle to an existing sketch from two corners.",
			schema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"sketch": stringProp("Target sketch object name"),
					"x1":     numberProp("Corner 1 X"),
					"y1":     numberProp("Corner 1 Y"),
					"x2":     numberProp("Corner 2 X"),
					"y2":     numberProp("Corner 2 Y"),
				},
				Required: []string{"sketch", "x1", "y1", "x2", "y2"},
			},
			render: func(args map[string]any) string {
				return resolveSketch(args["sketch"]) + fmt.Sprintf(`
x1, y1, x2, y2 = %v, %v, %v, %v
corners = [(x1, y1), (x2, y1), (x2, y2), (x1, y2)]
for i in range(4):
    a = App.Vector(corners[i][0], corners[i][1], 0)
    b = App.Vector(corners[(i + 1) %% 4][0], corners[(i + 1) %% 4][1], 0)
    sketch.addGeometry(Part.LineSegment(a, b))
doc.recompute()
__result__ = {'success': True, 'geometry_count': sketch.GeometryCount}
`, args["x1"], args["y1"], args["x2"], args["y2"])
			},
		},
		{
			name:        "sketch_add_constraint_distance",
			description: "Add a distance constraint between two points of a sketch geometry element.",
			schema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"sketch":   stringProp("Target sketch object name"),
					"geo_id":   numberProp("Geometry index"),
					"distance": numberProp("Constraint value"),
				},
				Required: []string{"sketch", "geo_id", "distance"},
			},
			render: func(args map[string]any) string {
				return resolveSketch(args["sketch"]) + fmt.Sprintf(`
sketch.addConstraint(Sketcher.Constraint('Distance', %v, %v))
doc.recompute()
__result__ = {'success': True, 'constraint_count': sketch.ConstraintCount}
`, args["geo_id"], args["distance"])
			},
		},
		{
			name:        "sketch_delete_geometry",
			description: "Delete one geometry element from a sketch by index.",
			schema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"sketch": stringProp("Target sketch object name"),
					"geo_id": numberProp("Geometry index to delete"),
				},
				Required: []string{"sketch", "geo_id"},
			},
			render: func(args map[string]any) string {
				return resolveSketch(args["sketch"]) + fmt.Sprintf(`
sketch.delGeometry(%v)
doc.recompute()
__result__ = {'success': True, 'geometry_count': sketch.GeometryCount}
`, args["geo_id"])
			},
		},
		{
			name:        "sketch_list_geometry",
			description: "List the geometry elements of a sketch with their index and type.",
			schema: InputSchema{
				Type:       "object",
				Properties: map[string]Property{"sketch": stringProp("Target sketch object name")},
				Required:   []string{"sketch"},
			},
			render: func(args map[string]any) string {
				return resolveSketch(args["sketch"]) + `
items = [{'index': i, 'type': type(g).__name__} for i, g in enumerate(sketch.Geometry)]
__result__ = {'success': True, 'geometry': items}
`
			},
		},
		{
			name:        "sketch_is_fully_constrained",
			description: "Report whether a sketch has zero degrees of freedom remaining.",
			schema: InputSchema{
				Type:       "object",
				Properties: map[string]Property{"sketch": stringProp("Target sketch object name")},
				Required:   []string{"sketch"},
			},
			render: func(args map[string]any) string {
				return resolveSketch(args["sketch"]) + `
dof = sketch.solve()
__result__ = {'success': True, 'fully_constrained': sketch.FullyConstrained, 'dof': dof}
`
			},
		},
		{
			name:        "sketch_rename",
			description: "Rename a sketch object.",
			schema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"sketch":   stringProp("Existing sketch object name"),
					"new_name": stringProp("New label for the sketch"),
				},
				Required: []string{"sketch", "new_name"},
			},
			render: func(args map[string]any) string {
				newName := args["new_name"].(string)
				return resolveSketch(args["sketch"]) + fmt.Sprintf(`
sketch.Label = %s
__result__ = {'success': True, 'name': sketch.Name, 'label': sketch.Label}
`, saferepr.Repr(newName))
			},
		},
		{
			name:        "sketch_delete",
			description: "Remove a sketch object from the document entirely.",
			schema: InputSchema{
				Type:       "object",
				Properties: map[string]Property{"sketch": stringProp("Target sketch object name")},
				Required:   []string{"sketch"},
			},
			render: func(args map[string]any) string {
				return resolveSketch(args["sketch"]) + `
name = sketch.Name
doc.removeObject(name)
doc.recompute()
__result__ = {'success': True, 'name': name}
`
			},
		},
	})
}

func sketchNameOr(name string) string {
	if name == "" {
		return "None"
	}
	return saferepr.Repr(name)
}

// resolveSketch renders the sketch-lookup preamble shared by every
// sketch_* template: resolve the active document, then look up the named
// sketch object inside it.
func resolveSketch(sketchArg any) string {
	name := sketchArg.(string)
	return resolveDocument(nil) + fmt.Sprintf(`
sketch = doc.getObject(%s)
if sketch is None:
    __result__ = {'success': False, 'error': 'sketch not found: ' + %s}
    raise SystemExit
`, saferepr.Repr(name), saferepr.Repr(name))
}
