package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylark-aero/skylark/pkg/sheets"
	"github.com/skylark-aero/skylark/pkg/tool/ops"
)

// echoTool is a minimal tool for registry behavior tests.
type echoTool struct {
	name    string
	execErr error
	result  *ops.Result
	schema  ops.ParameterSchema
}

func (t *echoTool) Name() string                { return t.name }
func (t *echoTool) Description() string         { return "test tool" }
func (t *echoTool) Parameters() ops.ParameterSchema { return t.schema }
func (t *echoTool) Execute(ctx context.Context, params map[string]any) (*ops.Result, error) {
	return t.result, t.execErr
}

func TestRegistryUnknownToolIsData(t *testing.T) {
	r := NewRegistry()

	res, err := r.Execute(context.Background(), "no_such_tool", nil)
	require.NoError(t, err, "unknown tool is not a Go error")
	assert.False(t, res.Success)
	assert.Equal(t, ops.CodeUnknownTool, res.Code)
	assert.Contains(t, res.Error, "no_such_tool")
}

func TestRegistryValidatesRequired(t *testing.T) {
	r := NewRegistry()
	r.Register(&echoTool{
		name:   "needs_id",
		result: ops.OK(nil),
		schema: ops.ParameterSchema{
			Type: "object",
			Properties: map[string]ops.PropertySchema{
				"pilot_id": {Type: "string"},
			},
			Required: []string{"pilot_id"},
		},
	})

	res, err := r.Execute(context.Background(), "needs_id", map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, ops.CodeInvalidArguments, res.Code)
	assert.Contains(t, res.Error, "pilot_id")

	res, err = r.Execute(context.Background(), "needs_id", map[string]any{"pilot_id": "  "})
	require.NoError(t, err)
	assert.Equal(t, ops.CodeInvalidArguments, res.Code)

	res, err = r.Execute(context.Background(), "needs_id", map[string]any{"pilot_id": "P001"})
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestRegistryValidatesTypes(t *testing.T) {
	r := NewRegistry()
	r.Register(&echoTool{
		name:   "typed",
		result: ops.OK(nil),
		schema: ops.ParameterSchema{
			Type: "object",
			Properties: map[string]ops.PropertySchema{
				"limit": {Type: "number"},
			},
		},
	})

	res, err := r.Execute(context.Background(), "typed", map[string]any{"limit": "ten"})
	require.NoError(t, err)
	assert.Equal(t, ops.CodeInvalidArguments, res.Code)

	// JSON numbers decode as float64.
	res, err = r.Execute(context.Background(), "typed", map[string]any{"limit": 10.0})
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestRegistryDemotesHandlerError(t *testing.T) {
	r := NewRegistry()
	r.Register(&echoTool{name: "broken", execErr: errors.New("boom")})

	res, err := r.Execute(context.Background(), "broken", nil)
	require.NoError(t, err, "handler errors become result data")
	assert.False(t, res.Success)
	assert.Equal(t, "boom", res.Error)
}

func TestRegistryCancelledContext(t *testing.T) {
	r := NewRegistry()
	r.Register(&echoTool{name: "slow", result: ops.OK(nil)})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Execute(ctx, "slow", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaultRegistryCatalog(t *testing.T) {
	r := NewDefaultRegistry(sheets.NewFacade(nil, nil, nil))

	assert.Equal(t, 14, r.Count())

	catalog := r.Catalog()
	require.Len(t, catalog, 14)
	for _, fn := range catalog {
		assert.Equal(t, "function", fn["type"])
		inner := fn["function"].(map[string]any)
		assert.NotEmpty(t, inner["name"])
		assert.NotEmpty(t, inner["description"])
	}

	// List is sorted so the exported catalog is stable.
	names := make([]string, 0, 14)
	for _, tl := range r.List() {
		names = append(names, tl.Name())
	}
	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i])
	}
}
