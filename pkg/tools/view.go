package tools

import (
	"fmt"

	"cadbridge/pkg/tools/saferepr"
)

// guardUI renders the self-guarding preamble every view_* template starts
// with: view/UI tools require a running GUI, and must refuse at the script
// level (not only at dispatch) since the embedded client shares a process
// with FreeCAD itself and can be invoked headless.
func guardUI() string {
	return `
if not ui_available():
    __result__ = {'success': False, 'error': 'GUI not available', 'error_kind': 'UIUnavailable'}
    raise SystemExit
`
}

func init() {
	registerSpecs([]toolSpec{
		{
			name:        "view_fit_all",
			description: "Fit the active 3D view to show every visible object.",
			schema:      InputSchema{Type: "object"},
			requiresUI:  true,
			render: func(args map[string]any) string {
				return guardUI() + `
Gui.ActiveDocument.ActiveView.fitAll()
__result__ = {'success': True}
`
			},
		},
		{
			name:        "view_set_camera",
			description: "Set the active 3D view to a named standard orientation (e.g. Top, Front, Axonometric).",
			schema: InputSchema{
				Type:       "object",
				Properties: map[string]Property{"orientation": stringProp("Standard view orientation name")},
				Required:   []string{"orientation"},
			},
			requiresUI: true,
			render: func(args map[string]any) string {
				orientation := args["orientation"].(string)
				return guardUI() + fmt.Sprintf(`
Gui.activeDocument().activeView().viewDefaultOrientation(%s)
__result__ = {'success': True, 'orientation': %s}
`, saferepr.Repr(orientation), saferepr.Repr(orientation))
			},
		},
		{
			name:        "view_set_active_document",
			description: "Make the named document the active one in the GUI.",
			schema: InputSchema{
				Type:       "object",
				Properties: map[string]Property{"name": stringProp("Document to activate")},
				Required:   []string{"name"},
			},
			requiresUI: true,
			render: func(args map[string]any) string {
				name := args["name"].(string)
				return guardUI() + fmt.Sprintf(`
target = App.listDocuments().get(%s)
if target is None:
    __result__ = {'success': False, 'error': 'document not found: ' + %s}
    raise SystemExit
Gui.ActiveDocument = Gui.getDocument(target.Name)
__result__ = {'success': True, 'name': target.Name}
`, saferepr.Repr(name), saferepr.Repr(name))
			},
		},
		{
			name:        "view_hide_object",
			description: "Hide one object in the active 3D view.",
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
target.ViewObject.Visibility = False
__result__ = {'success': True, 'name': target.Name}
`, saferepr.Repr(obj), saferepr.Repr(obj))
			},
		},
		{
			name:        "view_show_object",
			description: "Show one object in the active 3D view.",
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
target.ViewObject.Visibility = True
__result__ = {'success': True, 'name': target.Name}
`, saferepr.Repr(obj), saferepr.Repr(obj))
			},
		},
		{
			name:        "view_set_color",
			description: "Set an object's shape color in the active view, as an [r, g, b] triple in 0..1.",
			schema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"object": stringProp("Target object name"),
					"rgb":    arrayOfNum("Color as [r, g, b] in 0..1"),
				},
				Required: []string{"object", "rgb"},
			},
			requiresUI: true,
			render: func(args map[string]any) string {
				obj := args["object"].(string)
				rgb := args["rgb"]
				return guardUI() + resolveDocument(nil) + fmt.Sprintf(`
target = doc.getObject(%s)
if target is None:
    __result__ = {'success': False, 'error': 'object not found: ' + %s}
    raise SystemExit
rgb = %s
target.ViewObject.ShapeColor = (float(rgb[0]), float(rgb[1]), float(rgb[2]))
__result__ = {'success': True, 'name': target.Name}
`, saferepr.Repr(obj), saferepr.Repr(obj), saferepr.Repr(rgb))
			},
		},
		{
			name:        "view_set_display_mode",
			description: "Set an object's display mode in the active view (e.g. Shaded, Wireframe, Flat Lines).",
			schema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"object": stringProp("Target object name"),
					"mode":   stringProp("Display mode name"),
				},
				Required: []string{"object", "mode"},
			},
			requiresUI: true,
			render: func(args map[string]any) string {
				obj := args["object"].(string)
				mode := args["mode"].(string)
				return guardUI() + resolveDocument(nil) + fmt.Sprintf(`
target = doc.getObject(%s)
if target is None:
    __result__ = {'success': False, 'error': 'object not found: ' + %s}
    raise SystemExit
target.ViewObject.DisplayMode = %s
__result__ = {'success': True, 'name': target.Name}
`, saferepr.Repr(obj), saferepr.Repr(obj), saferepr.Repr(mode))
			},
		},
		{
			name:        "view_screenshot",
			description: "Save a screenshot of the active 3D view to a file path.",
			schema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"path":   stringProp("Destination file path (.png)"),
					"width":  numberProp("Image width in pixels"),
					"height": numberProp("Image height in pixels"),
				},
				Required: []string{"path"},
			},
			requiresUI: true,
			render: func(args map[string]any) string {
				path := args["path"].(string)
				width := numOr(args["width"], 1024)
				height := numOr(args["height"], 768)
				return guardUI() + fmt.Sprintf(`
Gui.ActiveDocument.ActiveView.saveImage(%s, %v, %v)
__result__ = {'success': True, 'path': %s}
`, saferepr.Repr(path), width, height, saferepr.Repr(path))
			},
		},
		{
			name:        "view_zoom",
			description: "Zoom the active 3D view in or out by a factor.",
			schema: InputSchema{
				Type:       "object",
				Properties: map[string]Property{"factor": numberProp("Zoom factor, >1 zooms in")},
				Required:   []string{"factor"},
			},
			requiresUI: true,
			render: func(args map[string]any) string {
				return guardUI() + fmt.Sprintf(`
Gui.ActiveDocument.ActiveView.zoom(%v)
__result__ = {'success': True}
`, args["factor"])
			},
		},
		{
			name:        "view_is_available",
			description: "Report whether a GUI session is currently available, without requiring one.",
			schema:      InputSchema{Type: "object"},
			render: func(args map[string]any) string {
				return `
__result__ = {'success': True, 'ui_available': ui_available()}
`
			},
		},
	})
}
