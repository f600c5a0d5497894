package resources

import (
	"context"
	"encoding/json"
	"strings"

	"cadbridge/pkg/bridge"
	"cadbridge/pkg/bridgeclient"
)

// documentResource serves cad://document/{name}, a live snapshot of one
// open document's object list and active status, rendered through the same
// bridge client the tool registry uses.
type documentResource struct {
	client bridgeclient.Client
}

// RegisterDocument registers the cad://document/{name} resource against
// client.
func RegisterDocument(client bridgeclient.Client) {
	Register(&documentResource{client: client})
}

func (d *documentResource) Descriptor() bridge.ResourceDescriptor {
	return bridge.ResourceDescriptor{
		URI:         "cad://document/{name}",
		Name:        "document",
		Description: "Object inventory and active status of one open document, by name.",
		MIMEType:    "application/json",
	}
}

const documentIntrospectionScript = `
doc = App.listDocuments().get(name)
if doc is None:
    __result__ = {'success': False, 'error': 'document not found: ' + name}
else:
    __result__ = {
        'success': True,
        'name': doc.Name,
        'active': App.ActiveDocument is not None and App.ActiveDocument.Name == doc.Name,
        'objects': [{'name': o.Name, 'type': o.TypeId} for o in doc.Objects],
    }
`

func (d *documentResource) Read(ctx context.Context, uri string) (string, string, error) {
	name := strings.TrimPrefix(uri, "cad://document/")

	result, err := d.client.Call(ctx, documentIntrospectionScript, map[string]any{"name": name})
	if err != nil {
		return "", "", err
	}
	if !result.Success {
		body, marshalErr := json.Marshal(map[string]any{"success": false, "error": result.ErrorMessage})
		if marshalErr != nil {
			return "", "", marshalErr
		}
		return string(body), "application/json", nil
	}

	body, err := json.Marshal(result.Result)
	if err != nil {
		return "", "", err
	}
	return string(body), "application/json", nil
}
