package resources

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadbridge/pkg/bridge"
)

type fakeClient struct {
	result bridge.ExecutionResult
	err    error
	name   string
}

func (f *fakeClient) Call(ctx context.Context, script string, params map[string]any) (bridge.ExecutionResult, error) {
	f.name, _ = params["name"].(string)
	return f.result, f.err
}

func (f *fakeClient) State() bridge.ConnectionState { return bridge.Connected }
func (f *fakeClient) Close() error                  { return nil }

func TestMatchPatternSingleSegment(t *testing.T) {
	assert.True(t, matchPattern("cad://document/{name}", "cad://document/Box"))
	assert.False(t, matchPattern("cad://document/{name}", "cad://document/Box/extra"))
	assert.False(t, matchPattern("cad://document/{name}", "cad://document/"))
}

func TestReadRoutesTemplatedResource(t *testing.T) {
	client := &fakeClient{result: bridge.ExecutionResult{
		Success: true,
		Result:  map[string]any{"success": true, "name": "Box", "objects": []any{}},
	}}
	RegisterDocument(client)

	body, mime, err := Read(context.Background(), "cad://document/Box")
	require.NoError(t, err)
	assert.Equal(t, "application/json", mime)
	assert.Contains(t, body, "Box")
	assert.Equal(t, "Box", client.name)
}

func TestReadUnknownURIErrors(t *testing.T) {
	_, _, err := Read(context.Background(), "cad://nonexistent")
	assert.Error(t, err)
}

func TestCapabilitiesReportsModeAndInventory(t *testing.T) {
	RegisterCapabilities(func() string { return "socket" })

	body, mime, err := Read(context.Background(), "cad://capabilities")
	require.NoError(t, err)
	assert.Equal(t, "application/json", mime)
	assert.Contains(t, body, "socket")
	assert.Contains(t, body, "tools")
}

func TestListIsSortedByURI(t *testing.T) {
	descriptors := List()
	for i := 1; i < len(descriptors); i++ {
		assert.LessOrEqual(t, descriptors[i-1].URI, descriptors[i].URI)
	}
}
