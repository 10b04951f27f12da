package materialize

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tftdatascientist/drdoc/internal/models"
)

const ruleWidth = 60

// Preview summarises res as text: errors, the sorted file list with byte
// and line counts, and the metadata sorted by key.
func Preview(res *models.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Preview for destination: %s\n", res.Destination)
	b.WriteString(strings.Repeat("=", ruleWidth) + "\n\n")

	if len(res.Errors) > 0 {
		b.WriteString("ERRORS:\n")
		for _, e := range res.Errors {
			b.WriteString("  - " + e + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("File Structure:\n")
	b.WriteString(strings.Repeat("-", ruleWidth) + "\n")
	for _, p := range res.Paths() {
		content := res.Files[p]
		fmt.Fprintf(&b, "  %s\n    Size: %d bytes, Lines: %d\n", p, len(content), strings.Count(content, "\n")+1)
	}

	b.WriteString("\nMetadata:\n")
	b.WriteString(strings.Repeat("-", ruleWidth) + "\n")
	keys := make([]string, 0, len(res.Metadata))
	for k := range res.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s: %v\n", k, res.Metadata[k])
	}
	return b.String()
}

type node struct {
	children map[string]*node // nil for files
}

// Tree renders the file keys of res as an ASCII tree. Entries are sorted
// by name at each level and directories carry a trailing slash. The
// advisory structure is not consulted.
func Tree(res *models.Result) string {
	root := &node{children: map[string]*node{}}
	for _, p := range res.Paths() {
		parts := strings.Split(p, "/")
		cur := root
		for _, dir := range parts[:len(parts)-1] {
			next, ok := cur.children[dir]
			if !ok || next.children == nil {
				next = &node{children: map[string]*node{}}
				cur.children[dir] = next
			}
			cur = next
		}
		leaf := parts[len(parts)-1]
		if _, ok := cur.children[leaf]; !ok {
			cur.children[leaf] = &node{}
		}
	}

	var b strings.Builder
	b.WriteString(".\n")
	renderTree(&b, root, "")
	return b.String()
}

func renderTree(b *strings.Builder, n *node, prefix string) {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		last := i == len(names)-1
		connector, extension := "├── ", "│   "
		if last {
			connector, extension = "└── ", "    "
		}
		child := n.children[name]
		b.WriteString(prefix + connector + name)
		if child.children == nil {
			b.WriteString("\n")
			continue
		}
		b.WriteString("/\n")
		renderTree(b, child, prefix+extension)
	}
}
