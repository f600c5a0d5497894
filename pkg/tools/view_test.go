package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewFitAllGuardsUI(t *testing.T) {
	r := findSpec(t, "view_fit_all")
	script := r(map[string]any{})
	assert.Contains(t, script, "ui_available()")
	assert.Contains(t, script, "UIUnavailable")
	assert.Contains(t, script, "fitAll()")
}

func TestSelectionAddGuardsUIAndEscapesSubElement(t *testing.T) {
	r := findSpec(t, "selection_add")
	script := r(map[string]any{"object": "Box", "sub_element": "Face1"})
	assert.Contains(t, script, "ui_available()")
	assert.Contains(t, script, "'Face1'")
}

func TestMacroRunRendersPath(t *testing.T) {
	r := findSpec(t, "macro_run")
	script := r(map[string]any{"name": "Demo.FCMacro"})
	assert.Contains(t, script, "'Demo.FCMacro'")
	assert.NotContains(t, script, "ui_available()")
}

func TestExportStepDefaultsToAllObjects(t *testing.T) {
	r := findSpec(t, "export_step")
	script := r(map[string]any{"path": "/tmp/out.step"})
	assert.Contains(t, script, "'/tmp/out.step'")
	assert.Contains(t, script, "list(doc.Objects)")
}

func TestAssemblyExplodeRendersFactor(t *testing.T) {
	r := findSpec(t, "assembly_explode")
	script := r(map[string]any{"factor": 0.5})
	assert.Contains(t, script, "factor = 0.5")
}

func TestIntrospectObjectTypeRendersName(t *testing.T) {
	r := findSpec(t, "introspect_object_type")
	script := r(map[string]any{"object": "Sketch"})
	assert.Contains(t, script, "'Sketch'")
	assert.Contains(t, script, "TypeId")
}
