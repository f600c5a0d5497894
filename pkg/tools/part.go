package tools

import (
	"fmt"

	"cadbridge/pkg/tools/saferepr"
	"cadbridge/pkg/utils"
)

func init() {
	registerSpecs([]toolSpec{
		{
			name:        "part_create_box",
			description: "Create a parametric box primitive.",
			schema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"length": numberProp("Length along X"),
					"width":  numberProp("Width along Y"),
					"height": numberProp("Height along Z"),
					"name":   stringProp("Object name"),
				},
				Required: []string{"length", "width", "height"},
			},
			render: func(args map[string]any) string {
				return resolveDocument(nil) + fmt.Sprintf(`
box = doc.addObject('Part::Box', %s)
box.Length, box.Width, box.Height = %v, %v, %v
doc.recompute()
__result__ = {'success': True, 'name': box.Name}
`, objNameOr(args["name"], "Box"), args["length"], args["width"], args["height"])
			},
		},
		{
			name:        "part_create_cylinder",
			description: "Create a parametric cylinder primitive.",
			schema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"radius": numberProp("Radius"),
					"height": numberProp("Height"),
					"name":   stringProp("Object name"),
				},
				Required: []string{"radius", "height"},
			},
			render: func(args map[string]any) string {
				return resolveDocument(nil) + fmt.Sprintf(`
cyl = doc.addObject('Part::Cylinder', %s)
cyl.Radius, cyl.Height = %v, %v
doc.recompute()
__result__ = {'success': True, 'name': cyl.Name}
`, objNameOr(args["name"], "Cylinder"), args["radius"], args["height"])
			},
		},
		{
			name:        "part_create_sphere",
			description: "Create a parametric sphere primitive.",
			schema: InputSchema{
				Type:       "object",
				Properties: map[string]Property{"radius": numberProp("Radius"), "name": stringProp("Object name")},
				Required:   []string{"radius"},
			},
			render: func(args map[string]any) string {
				return resolveDocument(nil) + fmt.Sprintf(`
sph = doc.addObject('Part::Sphere', %s)
sph.Radius = %v
doc.recompute()
__result__ = {'success': True, 'name': sph.Name}
`, objNameOr(args["name"], "Sphere"), args["radius"])
			},
		},
		{
			name:        "part_create_cone",
			description: "Create a parametric cone primitive.",
			schema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"radius1": numberProp("Base radius"),
					"radius2": numberProp("Top radius"),
					"height":  numberProp("Height"),
					"name":    stringProp("Object name"),
				},
				Required: []string{"radius1", "height"},
			},
			render: func(args map[string]any) string {
				r2 := args["radius2"]
				if r2 == nil {
					r2 = 0
				}
				return resolveDocument(nil) + fmt.Sprintf(`
cone = doc.addObject('Part::Cone', %s)
cone.Radius1, cone.Radius2, cone.Height = %v, %v, %v
doc.recompute()
__result__ = {'success': True, 'name': cone.Name}
`, objNameOr(args["name"], "Cone"), args["radius1"], r2, args["height"])
			},
		},
		{
			name:        "part_boolean_union",
			description: "Boolean-union two Part objects into a new Fusion object.",
			schema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"base": stringProp("Base object name"),
					"tool": stringProp("Tool object name"),
				},
				Required: []string{"base", "tool"},
			},
			render: func(args map[string]any) string { return booleanOp("Fuse", args) },
		},
		{
			name:        "part_boolean_cut",
			description: "Boolean-subtract a tool object from a base Part object.",
			schema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"base": stringProp("Base object name"),
					"tool": stringProp("Tool object name"),
				},
				Required: []string{"base", "tool"},
			},
			render: func(args map[string]any) string { return booleanOp("Cut", args) },
		},
		{
			name:        "part_boolean_intersect",
			description: "Boolean-intersect two Part objects into a new Common object.",
			schema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"base": stringProp("Base object name"),
					"tool": stringProp("Tool object name"),
				},
				Required: []string{"base", "tool"},
			},
			render: func(args map[string]any) string { return booleanOp("Common", args) },
		},
		{
			name:        "part_extrude",
			description: "Extrude a sketch into a solid along the sketch normal.",
			schema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"sketch": stringProp("Source sketch object name"),
					"length": numberProp("Extrusion length"),
					"name":   stringProp("Object name"),
				},
				Required: []string{"sketch", "length"},
			},
			render: func(args map[string]any) string {
				sketch := args["sketch"].(string)
				return resolveDocument(nil) + fmt.Sprintf(`
src = doc.getObject(%s)
if src is None:
    __result__ = {'success': False, 'error': 'sketch not found: ' + %s}
    raise SystemExit
pad = doc.addObject('Part::Extrusion', %s)
pad.Base = src
pad.DirMode = 'Normal'
pad.LengthFwd = %v
doc.recompute()
__result__ = {'success': True, 'name': pad.Name}
`, saferepr.Repr(sketch), saferepr.Repr(sketch), objNameOr(args["name"], "Extrude"), args["length"])
			},
		},
		{
			name:        "part_fillet",
			description: "Apply a constant-radius fillet to every edge of a solid.",
			schema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"object": stringProp("Source solid object name"),
					"radius": numberProp("Fillet radius"),
					"name":   stringProp("Object name"),
				},
				Required: []string{"object", "radius"},
			},
			render: func(args map[string]any) string {
				obj := args["object"].(string)
				return resolveDocument(nil) + fmt.Sprintf(`
src = doc.getObject(%s)
if src is None:
    __result__ = {'success': False, 'error': 'object not found: ' + %s}
    raise SystemExit
fillet = doc.addObject('Part::Fillet', %s)
fillet.Base = src
fillet.Edges = [(i + 1, %v, %v) for i in range(len(src.Shape.Edges))]
doc.recompute()
__result__ = {'success': True, 'name': fillet.Name}
`, saferepr.Repr(obj), saferepr.Repr(obj), objNameOr(args["name"], "Fillet"), args["radius"], args["radius"])
			},
		},
		{
			name:        "part_delete",
			description: "Delete a Part object from the document.",
			schema: InputSchema{
				Type:       "object",
				Properties: map[string]Property{"object": stringProp("Target object name")},
				Required:   []string{"object"},
			},
			render: func(args map[string]any) string {
				obj := args["object"].(string)
				return resolveDocument(nil) + fmt.Sprintf(`
doc.removeObject(%s)
doc.recompute()
__result__ = {'success': True, 'name': %s}
`, saferepr.Repr(obj), saferepr.Repr(obj))
			},
		},
		{
			name:        "part_set_placement",
			description: "Set an object's placement (position and axis/angle rotation).",
			schema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"object": stringProp("Target object name"),
					"x":      numberProp("Position X"),
					"y":      numberProp("Position Y"),
					"z":      numberProp("Position Z"),
					"angle":  numberProp("Rotation angle in degrees about Z"),
				},
				Required: []string{"object"},
			},
			render: func(args map[string]any) string {
				obj := args["object"].(string)
				x, y, z, angle := numOr(args["x"], 0), numOr(args["y"], 0), numOr(args["z"], 0), numOr(args["angle"], 0)
				return resolveDocument(nil) + fmt.Sprintf(`
target = doc.getObject(%s)
if target is None:
    __result__ = {'success': False, 'error': 'object not found: ' + %s}
    raise SystemExit
target.Placement = App.Placement(App.Vector(%v, %v, %v), App.Rotation(App.Vector(0, 0, 1), %v))
doc.recompute()
__result__ = {'success': True, 'name': target.Name}
`, saferepr.Repr(obj), saferepr.Repr(obj), x, y, z, angle)
			},
		},
		{
			name:        "part_list_objects",
			description: "List every object in the active document with its type.",
			schema:      InputSchema{Type: "object"},
			render: func(args map[string]any) string {
				return resolveDocument(nil) + `
__result__ = {'success': True, 'objects': [{'name': o.Name, 'type': o.TypeId} for o in doc.Objects]}
`
			},
		},
	})
}

func booleanOp(kind string, args map[string]any) string {
	base := args["base"].(string)
	tool := args["tool"].(string)
	return resolveDocument(nil) + fmt.Sprintf(`
base = doc.getObject(%s)
tool = doc.getObject(%s)
if base is None or tool is None:
    __result__ = {'success': False, 'error': 'base or tool object not found'}
    raise SystemExit
op = doc.addObject('Part::%s', %s)
op.Base = base
op.Tool = tool
doc.recompute()
__result__ = {'success': True, 'name': op.Name}
`, saferepr.Repr(base), saferepr.Repr(tool), kind, saferepr.Repr(kind))
}

func objNameOr(nameArg any, prefix string) string {
	if name, ok := utils.SafeAssert[string](nameArg); ok && name != "" {
		return saferepr.Repr(name)
	}
	return saferepr.Repr(prefix)
}

func numOr(v any, def float64) any {
	if v == nil {
		return def
	}
	return v
}
