package tools

import (
	"context"
	"fmt"

	"cadbridge/pkg/bridge"
)

// render builds the CAD script text for one invocation from validated
// arguments. Templates are pure functions from args to script string, per
// the tool-template contract: no side effects, no I/O, safe-repr for every
// caller-supplied value.
type render func(args map[string]any) string

// scriptTool is the generic Tool implementation every category file
// registers against. It owns validation, dispatch, and envelope unwrapping
// so individual templates only need to supply a render function and schema
// — the "codegen" half of tool registry & codegen.
type scriptTool struct {
	meta   ToolMeta
	bctx   *BridgeContext
	render render
}

func (t *scriptTool) Meta() ToolMeta { return t.meta }

func (t *scriptTool) Exec(ctx context.Context, args map[string]any) (map[string]any, error) {
	if err := validate(t.meta.InputSchema, args); err != nil {
		return map[string]any{"success": false, "error": err.Error()}, nil
	}

	script := t.render(args)

	if t.bctx.ToolTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.bctx.ToolTimeout)
		defer cancel()
	}

	result, err := t.bctx.Client.Call(ctx, script, args)
	if err != nil {
		return map[string]any{
			"success":    false,
			"error":      err.Error(),
			"error_kind": string(bridge.KindOf(err)),
		}, nil
	}

	if !result.Success {
		out := map[string]any{
			"success":    false,
			"error":      result.ErrorMessage,
			"error_kind": string(result.ErrorKind),
		}
		if result.ErrorTraceback != "" {
			out["traceback"] = result.ErrorTraceback
		}
		return out, nil
	}

	if dict, ok := result.Result.(map[string]any); ok {
		return dict, nil
	}
	return map[string]any{"success": false, "error": "tool produced no structured result"}, nil
}

// validate checks required parameters are present and, where declared,
// scalar-typed. It never calls the bridge — an invalid call must not
// execute any script, per the dispatch contract.
func validate(schema InputSchema, args map[string]any) error {
	for _, name := range schema.Required {
		if _, ok := args[name]; !ok {
			return fmt.Errorf("missing required parameter %q", name)
		}
	}
	for name, v := range args {
		prop, ok := schema.Properties[name]
		if !ok {
			continue
		}
		if err := checkType(name, prop.Type, v); err != nil {
			return err
		}
	}
	return nil
}

func checkType(name, want string, v any) error {
	switch want {
	case "string":
		if _, ok := v.(string); !ok {
			return fmt.Errorf("parameter %q must be a string", name)
		}
	case "number":
		switch v.(type) {
		case int, int64, float64:
		default:
			return fmt.Errorf("parameter %q must be a number", name)
		}
	case "boolean":
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("parameter %q must be a boolean", name)
		}
	case "array":
		if _, ok := v.([]any); !ok {
			return fmt.Errorf("parameter %q must be an array", name)
		}
	case "object":
		if _, ok := v.(map[string]any); !ok {
			return fmt.Errorf("parameter %q must be an object", name)
		}
	}
	return nil
}
