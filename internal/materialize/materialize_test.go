package materialize_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tftdatascientist/drdoc/internal/apperr"
	"github.com/tftdatascientist/drdoc/internal/models"
	"github.com/tftdatascientist/drdoc/internal/testutil"
)

func sampleResult() *models.Result {
	res := models.NewResult("github")
	res.AddFile("README.md", "# Demo\n")
	res.AddFile("docs/a.md", "alpha\n")
	res.AddFile("docs/b.md", "beta\n")
	res.Structure = map[string][]string{
		"root":      {"README.md"},
		"docs/":     {"a.md", "b.md"},
		"examples/": {},
	}
	res.Metadata["files_generated"] = 3
	return res
}

func TestGenerate_WritesFiles(t *testing.T) {
	root, m := testutil.Materializer(t)

	written, err := m.Generate(sampleResult(), "demo")
	require.NoError(t, err)
	require.Len(t, written, 3)

	want := filepath.Join(root, "demo", "docs", "a.md")
	assert.Equal(t, want, written["docs/a.md"])

	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Equal(t, "alpha\n", string(data))
}

func TestGenerate_DefaultProject(t *testing.T) {
	root, m := testutil.Materializer(t)

	_, err := m.Generate(sampleResult(), "")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, "github_output", "README.md"))
}

func TestGenerate_Idempotent(t *testing.T) {
	_, m := testutil.Materializer(t)
	res := sampleResult()

	_, err := m.Generate(res, "demo")
	require.NoError(t, err)
	first, err := m.Files("demo")
	require.NoError(t, err)

	_, err = m.Generate(res, "demo")
	require.NoError(t, err)
	second, err := m.Files("demo")
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Path, second[i].Path)
		assert.Equal(t, first[i].Checksum, second[i].Checksum)
	}
}

func TestGenerate_RefusesFailedResult(t *testing.T) {
	root, m := testutil.Materializer(t)
	res := models.NewResult("bogus")
	res.AddError("unknown destination: bogus")

	written, err := m.Generate(res, "demo")
	require.ErrorIs(t, err, apperr.ErrTransformFailed)
	assert.Nil(t, written)
	assert.NoDirExists(t, filepath.Join(root, "demo"))

	_, err = m.Generate(nil, "demo")
	assert.ErrorIs(t, err, apperr.ErrTransformFailed)
}

func TestGenerateStructure(t *testing.T) {
	root, m := testutil.Materializer(t)

	dirs, err := m.GenerateStructure(sampleResult(), "demo")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "demo"),
		filepath.Join(root, "demo", "docs"),
		filepath.Join(root, "demo", "examples"),
	}, dirs)
	assert.DirExists(t, filepath.Join(root, "demo", "examples"))
	assert.NoFileExists(t, filepath.Join(root, "demo", "README.md"))
}

func TestClean(t *testing.T) {
	root, m := testutil.Materializer(t)

	_, err := m.Generate(sampleResult(), "demo")
	require.NoError(t, err)
	require.NoError(t, m.Clean("demo"))
	assert.NoDirExists(t, filepath.Join(root, "demo"))

	assert.ErrorIs(t, m.Clean(""), apperr.ErrInvalidPath)
}

func TestClean_RemovesStaleFiles(t *testing.T) {
	root, m := testutil.Materializer(t)

	_, err := m.Generate(sampleResult(), "demo")
	require.NoError(t, err)

	smaller := models.NewResult("github")
	smaller.AddFile("README.md", "# Small\n")

	require.NoError(t, m.Clean("demo"))
	_, err = m.Generate(smaller, "demo")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(root, "demo", "docs", "a.md"))
}

func TestReadAndFiles(t *testing.T) {
	_, m := testutil.Materializer(t)

	_, err := m.Generate(sampleResult(), "demo")
	require.NoError(t, err)

	data, err := m.Read("demo", "docs/b.md")
	require.NoError(t, err)
	assert.Equal(t, "beta\n", string(data))

	_, err = m.Read("demo", "missing.md")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = m.Read("demo", "../../etc/passwd")
	assert.ErrorIs(t, err, apperr.ErrInvalidPath)

	files, err := m.Files("demo")
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "demo/README.md", files[0].Path)

	_, err = m.Files("nope")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRemove(t *testing.T) {
	root, m := testutil.Materializer(t)

	_, err := m.Generate(sampleResult(), "demo")
	require.NoError(t, err)

	require.NoError(t, m.Remove("demo", "docs/b.md"))
	assert.NoFileExists(t, filepath.Join(root, "demo", "docs", "b.md"))
	assert.FileExists(t, filepath.Join(root, "demo", "README.md"))

	assert.ErrorIs(t, m.Remove("demo", "docs/b.md"), apperr.ErrNotFound)
	assert.ErrorIs(t, m.Remove("demo", ""), apperr.ErrInvalidPath)
	assert.ErrorIs(t, m.Remove("demo", "../../outside.md"), apperr.ErrInvalidPath)
}
