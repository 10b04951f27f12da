package transform

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tftdatascientist/drdoc/internal/models"
)

func TestRegistry_UnknownDestination(t *testing.T) {
	r := NewDefaultRegistry(DefaultConfig())
	doc := models.New(models.FormatText, models.KindText, "hello")

	res := r.Transform("bogus-destination", doc, Options{})
	assert.Equal(t, "bogus-destination", res.Destination)
	assert.Empty(t, res.Files)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "bogus-destination")
	assert.True(t, res.Failed())
}

func TestRegistry_Names(t *testing.T) {
	r := NewDefaultRegistry(DefaultConfig())
	assert.Equal(t, []string{DestinationGitHub, DestinationChatGPT}, r.Names())

	tr, ok := r.Get(DestinationChatGPT)
	require.True(t, ok)
	assert.True(t, tr.CanHandle(models.New(models.FormatText, models.KindText, "x")))
	assert.False(t, tr.CanHandle(models.New(models.FormatText, models.KindText, "")))
	assert.False(t, tr.CanHandle(nil))
}

func TestTextOrList_JSON(t *testing.T) {
	var opts AIContextOptions
	require.NoError(t, json.Unmarshal([]byte(`{"requirements": "plain", "steps": ["a", "b"]}`), &opts))
	assert.Equal(t, Text("plain"), opts.Requirements)
	assert.Equal(t, List("a", "b"), opts.Steps)
	assert.Equal(t, "1. a\n2. b", opts.Steps.Render())
	assert.Equal(t, "plain", opts.Requirements.Render())

	var v TextOrList
	require.NoError(t, json.Unmarshal([]byte(`null`), &v))
	assert.True(t, v.IsZero())
	assert.Error(t, json.Unmarshal([]byte(`5`), &v))

	out, err := json.Marshal(List("x"))
	require.NoError(t, err)
	assert.JSONEq(t, `["x"]`, string(out))
}

func TestOptions_JSONFlattens(t *testing.T) {
	var opts Options
	require.NoError(t, json.Unmarshal([]byte(`{"project_name": "p", "author": "a", "context_type": "debug", "error": "boom"}`), &opts))
	assert.Equal(t, "p", opts.ProjectName)
	assert.Equal(t, "a", opts.Author)
	assert.Equal(t, "debug", opts.ContextType)
	assert.Equal(t, "boom", opts.Error)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	cfg.AIContext.CodeBlockLimit = -1
	assert.Error(t, cfg.Validate())
}
