package resources

import (
	"context"
	"encoding/json"

	"cadbridge/pkg/bridge"
	"cadbridge/pkg/tools"
)

// capabilitiesResource reports the live tool/resource inventory and the
// negotiated transport mode, so an AI client can introspect what a given
// bridge-mcp build actually supports without hardcoding assumptions.
type capabilitiesResource struct {
	mode func() string
}

// RegisterCapabilities registers the cad://capabilities resource. mode is
// called fresh on every read so it reflects the transport actually
// negotiated at startup (xmlrpc, socket, or embedded).
func RegisterCapabilities(mode func() string) {
	Register(&capabilitiesResource{mode: mode})
}

func (c *capabilitiesResource) Descriptor() bridge.ResourceDescriptor {
	return bridge.ResourceDescriptor{
		URI:         "cad://capabilities",
		Name:        "capabilities",
		Description: "Live inventory of registered tools, resources, and the active transport mode.",
		MIMEType:    "application/json",
	}
}

func (c *capabilitiesResource) Read(ctx context.Context, uri string) (string, string, error) {
	toolNames := make([]string, 0)
	for _, m := range tools.ListTools() {
		toolNames = append(toolNames, m.Name)
	}

	resourceURIs := make([]string, 0)
	for _, d := range List() {
		resourceURIs = append(resourceURIs, d.URI)
	}

	mode := ""
	if c.mode != nil {
		mode = c.mode()
	}

	body, err := json.Marshal(map[string]any{
		"mode":      mode,
		"tools":     toolNames,
		"resources": resourceURIs,
	})
	if err != nil {
		return "", "", err
	}
	return string(body), "application/json", nil
}
