package tools

import (
	"fmt"

	"cadbridge/pkg/tools/saferepr"
)

func init() {
	registerSpecs([]toolSpec{
		{
			name:        "macro_list",
			description: "List the macros available in the user's macro directory.",
			schema:      InputSchema{Type: "object"},
			render: func(args map[string]any) string {
				return `
macro_dir = App.getUserMacroDir(True)
names = [f for f in os.listdir(macro_dir) if f.endswith('.FCMacro')]
__result__ = {'success': True, 'macros': names}
`
			},
		},
		{
			name:        "macro_run",
			description: "Execute a macro by file name from the user's macro directory.",
			schema: InputSchema{
				Type:       "object",
				Properties: map[string]Property{"name": stringProp("Macro file name, e.g. MyMacro.FCMacro")},
				Required:   []string{"name"},
			},
			render: func(args map[string]any) string {
				name := args["name"].(string)
				return fmt.Sprintf(`
macro_dir = App.getUserMacroDir(True)
path = os.path.join(macro_dir, %s)
if not os.path.exists(path):
    __result__ = {'success': False, 'error': 'macro not found: ' + %s}
    raise SystemExit
App.runOpenMacro(path) if hasattr(App, 'runOpenMacro') else Gui.doCommand(open(path).read())
__result__ = {'success': True, 'name': %s}
`, saferepr.Repr(name), saferepr.Repr(name), saferepr.Repr(name))
			},
		},
		{
			name:        "macro_delete",
			description: "Delete a macro file from the user's macro directory.",
			schema: InputSchema{
				Type:       "object",
				Properties: map[string]Property{"name": stringProp("Macro file name to delete")},
				Required:   []string{"name"},
			},
			render: func(args map[string]any) string {
				name := args["name"].(string)
				return fmt.Sprintf(`
macro_dir = App.getUserMacroDir(True)
path = os.path.join(macro_dir, %s)
if not os.path.exists(path):
    __result__ = {'success': False, 'error': 'macro not found: ' + %s}
    raise SystemExit
os.remove(path)
__result__ = {'success': True, 'name': %s}
`, saferepr.Repr(name), saferepr.Repr(name), saferepr.Repr(name))
			},
		},
		{
			name:        "macro_record_start",
			description: "Start recording GUI actions into a new macro.",
			schema: InputSchema{
				Type:       "object",
				Properties: map[string]Property{"name": stringProp("Macro file name to record into")},
				Required:   []string{"name"},
			},
			requiresUI: true,
			render: func(args map[string]any) string {
				name := args["name"].(string)
				return guardUI() + fmt.Sprintf(`
macro_dir = App.getUserMacroDir(True)
path = os.path.join(macro_dir, %s)
Gui.Command.log_to = path
__result__ = {'success': True, 'name': %s}
`, saferepr.Repr(name), saferepr.Repr(name))
			},
		},
		{
			name:        "macro_record_stop",
			description: "Stop recording GUI actions into a macro.",
			schema:      InputSchema{Type: "object"},
			requiresUI:  true,
			render: func(args map[string]any) string {
				return guardUI() + `
Gui.Command.log_to = None
__result__ = {'success': True}
`
			},
		},
	})
}
