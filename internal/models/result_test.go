package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResult_AddFileOverwrites(t *testing.T) {
	r := NewResult("github")
	r.AddFile("README.md", "one")
	r.AddFile("/README.md", "two")
	r.AddFile(`docs\usage.md`, "u")

	assert.Len(t, r.Files, 2)
	assert.Equal(t, "two", r.Files["README.md"])
	assert.Equal(t, "u", r.Files["docs/usage.md"])
	assert.False(t, r.Failed())
}

func TestResult_Paths(t *testing.T) {
	r := NewResult("github")
	r.AddFile("docs/b.md", "")
	r.AddFile("README.md", "")
	r.AddFile(".gitignore", "")
	assert.Equal(t, []string{".gitignore", "README.md", "docs/b.md"}, r.Paths())
}

func TestResult_Failed(t *testing.T) {
	r := NewResult("x")
	r.AddError("boom")
	assert.True(t, r.Failed())
}
