// Package mcpadapter implements the MCP JSON-RPC surface an AI client
// speaks against cmd/bridge-mcp: initialize, notifications/initialized,
// tools/list, tools/call, resources/list, resources/read. Grounded
// directly on mcpserver/server.go's handleRequest switch and response
// shapes, generalized from a TCP-framed connection to any line-oriented
// transport (stdio or HTTP).
package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"

	"cadbridge/pkg/logx"
	"cadbridge/pkg/resources"
	"cadbridge/pkg/tools"
)

const protocolVersion = "2024-11-05"

// Adapter handles one MCP session's requests against a tool provider and
// the shared resource registry.
type Adapter struct {
	provider *tools.ToolProvider
	logger   *logx.Logger
}

// New builds an Adapter over provider.
func New(provider *tools.ToolProvider, logger *logx.Logger) *Adapter {
	if logger == nil {
		logger = logx.NewLogger("mcpadapter")
	}
	return &Adapter{provider: provider, logger: logger}
}

// Handle dispatches one request and returns the response to send, or nil
// for notifications that expect no reply.
func (a *Adapter) Handle(ctx context.Context, req *Request) *Response {
	switch req.Method {
	case "initialize":
		return a.handleInitialize(req)
	case "notifications/initialized":
		return nil
	case "tools/list":
		return a.handleToolsList(req)
	case "tools/call":
		return a.handleToolsCall(ctx, req)
	case "resources/list":
		return a.handleResourcesList(req)
	case "resources/read":
		return a.handleResourcesRead(ctx, req)
	default:
		return errorResponse(req.ID, codeMethodNotFound, "Method not found", req.Method)
	}
}

func (a *Adapter) handleInitialize(req *Request) *Response {
	result := map[string]any{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]any{
			"tools":     map[string]any{},
			"resources": map[string]any{},
		},
		"serverInfo": map[string]any{
			"name":    "cadbridge-mcp",
			"version": "1.0.0",
		},
	}
	return resultResponse(req.ID, result)
}

func (a *Adapter) handleToolsList(req *Request) *Response {
	metas := a.provider.List()
	out := make([]map[string]any, 0, len(metas))
	for _, m := range metas {
		out = append(out, map[string]any{
			"name":        m.Name,
			"description": m.Description,
			"inputSchema": convertInputSchema(m.InputSchema),
		})
	}
	return resultResponse(req.ID, map[string]any{"tools": out})
}

func (a *Adapter) handleToolsCall(ctx context.Context, req *Request) *Response {
	var params struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	tool, err := a.provider.Get(params.Name)
	if err != nil {
		a.logger.Warn("tool not found: %s: %v", params.Name, err)
		return errorResponse(req.ID, codeInvalidParams, "Tool not found", err.Error())
	}

	result, err := tool.Exec(ctx, params.Arguments)
	if err != nil {
		a.logger.Warn("tool %s failed: %v", params.Name, err)
		return resultResponse(req.ID, toolErrorEnvelope(fmt.Sprintf("Error: %v", err)))
	}

	if success, ok := result["success"].(bool); ok && !success {
		text := fmt.Sprintf("%v", result["error"])
		if kind, ok := result["error_kind"]; ok {
			text = fmt.Sprintf("%s: %v", kind, result["error"])
		}
		a.logger.Info("tool %s returned a logical failure: %s", params.Name, text)
		return resultResponse(req.ID, toolErrorEnvelope(text))
	}

	body, err := json.Marshal(result)
	if err != nil {
		return resultResponse(req.ID, toolErrorEnvelope(fmt.Sprintf("Error: %v", err)))
	}
	return resultResponse(req.ID, map[string]any{
		"content": []map[string]any{{"type": "text", "text": string(body)}},
	})
}

func (a *Adapter) handleResourcesList(req *Request) *Response {
	descriptors := resources.List()
	out := make([]map[string]any, 0, len(descriptors))
	for _, d := range descriptors {
		entry := map[string]any{"uri": d.URI, "name": d.Name}
		if d.Description != "" {
			entry["description"] = d.Description
		}
		if d.MIMEType != "" {
			entry["mimeType"] = d.MIMEType
		}
		out = append(out, entry)
	}
	return resultResponse(req.ID, map[string]any{"resources": out})
}

func (a *Adapter) handleResourcesRead(ctx context.Context, req *Request) *Response {
	var params struct {
		URI string `json:"uri"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	contents, mimeType, err := resources.Read(ctx, params.URI)
	if err != nil {
		return errorResponse(req.ID, codeInvalidParams, "Resource not found", err.Error())
	}

	return resultResponse(req.ID, map[string]any{
		"contents": []map[string]any{
			{"uri": params.URI, "mimeType": mimeType, "text": contents},
		},
	})
}

// toolErrorEnvelope builds the MCP "successful call, logically failing
// tool" shape: isError:true inside a normal result, never a JSON-RPC
// protocol-level error.
func toolErrorEnvelope(text string) map[string]any {
	return map[string]any{
		"content": []map[string]any{{"type": "text", "text": text}},
		"isError": true,
	}
}

func resultResponse(id any, result any) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Result: result}
}

func errorResponse(id any, code int, message, data string) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Error: &Error{Code: code, Message: message, Data: data}}
}

// convertInputSchema mirrors mcpserver/server.go's convertInputSchema,
// walking pkg/tools.InputSchema into MCP's JSON-schema-shaped object.
func convertInputSchema(schema tools.InputSchema) map[string]any {
	result := map[string]any{"type": schema.Type}

	if len(schema.Properties) > 0 {
		props := make(map[string]any, len(schema.Properties))
		for name, prop := range schema.Properties {
			props[name] = convertProperty(prop)
		}
		result["properties"] = props
	}
	if len(schema.Required) > 0 {
		result["required"] = schema.Required
	}
	return result
}

// convertProperty mirrors mcpserver/server.go's convertProperty.
func convertProperty(prop tools.Property) map[string]any {
	result := map[string]any{"type": prop.Type}

	if prop.Description != "" {
		result["description"] = prop.Description
	}
	if len(prop.Enum) > 0 {
		result["enum"] = prop.Enum
	}
	if prop.Items != nil {
		result["items"] = convertProperty(*prop.Items)
	}
	if len(prop.Properties) > 0 {
		props := make(map[string]any, len(prop.Properties))
		for name, p := range prop.Properties {
			props[name] = convertProperty(*p)
		}
		result["properties"] = props
	}
	if len(prop.Required) > 0 {
		result["required"] = prop.Required
	}
	if prop.MinItems != nil {
		result["minItems"] = *prop.MinItems
	}
	if prop.MaxItems != nil {
		result["maxItems"] = *prop.MaxItems
	}
	return result
}
