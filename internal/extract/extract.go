// Package extract turns raw text into a models.Document.
//
// Every extractor scores its own applicability to an input; the Registry
// picks the highest score when no format is forced.
package extract

import (
	"path/filepath"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/tftdatascientist/drdoc/internal/models"
)

const errEmptyContent = "empty content"

// Extractor scores and extracts one input format.
type Extractor interface {
	// Name is the format tag the extractor is registered under.
	Name() models.Format
	// Score returns how likely content is in this format, in [0,1].
	Score(content string) float64
	// Extract builds a Document. It never fails; problems are recorded in
	// Document.Errors.
	Extract(content string) *models.Document
}

// Registry is an insertion-ordered set of extractors. Registration order
// breaks detection ties, so callers register text, markdown, json.
type Registry struct {
	items *orderedmap.OrderedMap[models.Format, Extractor]
}

// NewRegistry registers extractors in the given order.
func NewRegistry(extractors ...Extractor) *Registry {
	r := &Registry{items: orderedmap.New[models.Format, Extractor]()}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

// NewDefaultRegistry registers the text, markdown and json extractors.
func NewDefaultRegistry(cfg Config, det DetectConfig) *Registry {
	return NewRegistry(
		NewText(cfg.Text),
		NewMarkdown(cfg.Markdown, det.MarkdownWeights),
		NewJSON(cfg.JSON, det.JSONScores),
	)
}

// Register adds e, replacing an extractor of the same name in place.
func (r *Registry) Register(e Extractor) {
	r.items.Set(e.Name(), e)
}

// Get returns the extractor registered under format.
func (r *Registry) Get(format models.Format) (Extractor, bool) {
	return r.items.Get(format)
}

// Names returns the registered formats in registration order.
func (r *Registry) Names() []models.Format {
	out := make([]models.Format, 0, r.items.Len())
	for pair := r.items.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Detect returns the format with the strictly highest score. Ties keep the
// earlier registration; when nothing scores above zero the result is
// ("text", 0).
func (r *Registry) Detect(content string) (models.Format, float64) {
	best, bestScore := models.FormatText, 0.0
	for pair := r.items.Oldest(); pair != nil; pair = pair.Next() {
		if score := pair.Value.Score(content); score > bestScore {
			best, bestScore = pair.Key, score
		}
	}
	return best, bestScore
}

// NormalizeHint maps a user supplied format hint to a format tag. The
// second result is false for empty, "auto" and unrecognised hints, which
// mean auto-detection.
func NormalizeHint(hint string) (models.Format, bool) {
	switch strings.ToLower(strings.TrimSpace(hint)) {
	case "txt", "text":
		return models.FormatText, true
	case "md", "markdown":
		return models.FormatMarkdown, true
	case "json":
		return models.FormatJSON, true
	default:
		return "", false
	}
}

// HintFromPath derives a format hint from a file extension.
func HintFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text":
		return "text"
	case ".md", ".markdown":
		return "markdown"
	case ".json":
		return "json"
	default:
		return ""
	}
}

// newDocument validates content and returns a document ready to be filled.
// ok is false when content is empty or blank; the returned document then carries the
// error and zero confidence.
func newDocument(format models.Format, kind models.Kind, content string) (*models.Document, bool) {
	doc := models.New(format, kind, content)
	if strings.TrimSpace(content) == "" {
		doc.AddError(errEmptyContent)
		doc.Confidence = 0
		return doc, false
	}
	doc.Stats = models.ComputeStats(content)
	return doc, true
}
