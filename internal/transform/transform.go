// Package transform renders a models.Document into the files expected by
// a destination.
package transform

import (
	"encoding/json"
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/tftdatascientist/drdoc/internal/models"
)

// Destination names.
const (
	DestinationGitHub  = "github"
	DestinationChatGPT = "chatgpt"
)

const (
	errNoDocument   = "no input document"
	errEmptyContent = "empty content"
)

// Transformer converts a Document into a Result for one destination.
type Transformer interface {
	Name() string
	// CanHandle reports whether doc carries enough input to transform.
	CanHandle(doc *models.Document) bool
	// Transform never fails; problems are recorded in Result.Errors.
	Transform(doc *models.Document, opts Options) *models.Result
}

// Registry is an insertion-ordered set of transformers.
type Registry struct {
	items *orderedmap.OrderedMap[string, Transformer]
}

// NewRegistry registers transformers in the given order.
func NewRegistry(transformers ...Transformer) *Registry {
	r := &Registry{items: orderedmap.New[string, Transformer]()}
	for _, t := range transformers {
		r.Register(t)
	}
	return r
}

// NewDefaultRegistry registers the repository and AI context transformers.
func NewDefaultRegistry(cfg Config) *Registry {
	return NewRegistry(
		NewRepository(cfg.Repository),
		NewAIContext(cfg.AIContext),
	)
}

// Register adds t, replacing a transformer of the same name in place.
func (r *Registry) Register(t Transformer) {
	r.items.Set(t.Name(), t)
}

// Get returns the transformer registered under destination.
func (r *Registry) Get(destination string) (Transformer, bool) {
	return r.items.Get(destination)
}

// Names returns the registered destinations in registration order.
func (r *Registry) Names() []string {
	out := make([]string, 0, r.items.Len())
	for pair := r.items.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Transform dispatches to the destination's transformer. An unregistered
// destination yields a Result carrying a single error.
func (r *Registry) Transform(destination string, doc *models.Document, opts Options) *models.Result {
	t, ok := r.items.Get(destination)
	if !ok {
		res := models.NewResult(destination)
		res.AddError(fmt.Sprintf("unknown destination: %s", destination))
		return res
	}
	return t.Transform(doc, opts)
}

// Options is the union of every transformer's named options. Zero values
// mean "not given".
type Options struct {
	RepositoryOptions
	AIContextOptions
}

// RepositoryOptions describe the scaffolded project.
type RepositoryOptions struct {
	ProjectName string `json:"project_name,omitempty"`
	Author      string `json:"author,omitempty"`
	Description string `json:"description,omitempty"`
	License     string `json:"license,omitempty"`
}

// AIContextOptions fill the optional sections of context.md.
type AIContextOptions struct {
	ContextType      string     `json:"context_type,omitempty"`
	Goal             string     `json:"goal,omitempty"`
	Problem          string     `json:"problem,omitempty"`
	Requirements     TextOrList `json:"requirements,omitzero"`
	ProjectType      string     `json:"project_type,omitempty"`
	Technologies     string     `json:"technologies,omitempty"`
	BusinessGoal     string     `json:"business_goal,omitempty"`
	TechRequirements string     `json:"tech_requirements,omitempty"`
	Constraints      string     `json:"constraints,omitempty"`
	Error            string     `json:"error,omitempty"`
	Environment      string     `json:"environment,omitempty"`
	Steps            TextOrList `json:"steps,omitzero"`
	Expected         string     `json:"expected,omitempty"`
	Actual           string     `json:"actual,omitempty"`
}

// TextOrList is an option given either as free text or as a sequence of
// items. Sequences render as numbered lists.
type TextOrList struct {
	Text  string
	Items []string
}

// Text wraps free text.
func Text(s string) TextOrList { return TextOrList{Text: s} }

// List wraps a sequence of items.
func List(items ...string) TextOrList { return TextOrList{Items: items} }

// IsZero reports whether neither form was given.
func (t TextOrList) IsZero() bool {
	return t.Text == "" && t.Items == nil
}

// IsList reports whether the option was given as a sequence.
func (t TextOrList) IsList() bool {
	return t.Items != nil
}

// Render returns a numbered list for sequences and the text otherwise.
func (t TextOrList) Render() string {
	if !t.IsList() {
		return t.Text
	}
	var b strings.Builder
	for i, item := range t.Items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (t TextOrList) MarshalJSON() ([]byte, error) {
	if t.IsList() {
		return json.Marshal(t.Items)
	}
	return json.Marshal(t.Text)
}

func (t *TextOrList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = TextOrList{}
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		if items == nil {
			items = []string{}
		}
		*t = TextOrList{Items: items}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected string or array of strings: %w", err)
	}
	*t = TextOrList{Text: s}
	return nil
}

// validate returns the failure reason for unusable input, or "".
func validate(doc *models.Document) string {
	switch {
	case doc == nil:
		return errNoDocument
	case strings.TrimSpace(doc.Content) == "":
		return errEmptyContent
	}
	return ""
}

func heading(level int, emoji, title string, emojis bool) string {
	prefix := strings.Repeat("#", level) + " "
	if emojis && emoji != "" {
		return prefix + emoji + " " + title
	}
	return prefix + title
}
