package materialize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tftdatascientist/drdoc/internal/models"
)

func TestTree(t *testing.T) {
	res := models.NewResult("github")
	res.AddFile("docs/b.md", "b")
	res.AddFile("README.md", "r")
	res.AddFile("docs/a.md", "a")
	res.Structure = map[string][]string{"src/": {"ignored.go"}}

	want := ".\n" +
		"├── README.md\n" +
		"└── docs/\n" +
		"    ├── a.md\n" +
		"    └── b.md\n"
	assert.Equal(t, want, Tree(res))
}

func TestTree_NestedContinuation(t *testing.T) {
	res := models.NewResult("github")
	res.AddFile("a/x/1.txt", "")
	res.AddFile("b.txt", "")

	want := ".\n" +
		"├── a/\n" +
		"│   └── x/\n" +
		"│       └── 1.txt\n" +
		"└── b.txt\n"
	assert.Equal(t, want, Tree(res))
}

func TestTree_Empty(t *testing.T) {
	assert.Equal(t, ".\n", Tree(models.NewResult("github")))
}

func TestPreview(t *testing.T) {
	res := models.NewResult("chatgpt")
	res.AddFile("context.md", "# Title\nbody\n")
	res.Metadata["token_estimate"] = 3
	res.Metadata["context_type"] = "general"

	out := Preview(res)
	assert.True(t, strings.HasPrefix(out, "Preview for destination: chatgpt\n"+strings.Repeat("=", 60)))
	assert.Contains(t, out, "  context.md\n    Size: 13 bytes, Lines: 3\n")
	assert.NotContains(t, out, "ERRORS:")

	ctx := strings.Index(out, "context_type: general")
	tok := strings.Index(out, "token_estimate: 3")
	assert.True(t, ctx > 0 && tok > ctx, "metadata must be sorted by key")
}

func TestPreview_Errors(t *testing.T) {
	res := models.NewResult("bogus")
	res.AddError("unknown destination: bogus")

	out := Preview(res)
	assert.Contains(t, out, "ERRORS:\n  - unknown destination: bogus\n")
}
