// Package pipeline ties the extractor and transformer registries together
// behind the three entry points used by every adapter: Detect, Parse and
// Transform.
package pipeline

import (
	"github.com/tftdatascientist/drdoc/internal/extract"
	"github.com/tftdatascientist/drdoc/internal/models"
	"github.com/tftdatascientist/drdoc/internal/transform"
)

const errNoExtractor = "no suitable extractor found"

// Pipeline is built once at start-up and only read afterwards, so it is
// safe for concurrent use.
type Pipeline struct {
	extractors   *extract.Registry
	transformers *transform.Registry
}

// New returns a pipeline over the given registries.
func New(extractors *extract.Registry, transformers *transform.Registry) *Pipeline {
	return &Pipeline{extractors: extractors, transformers: transformers}
}

// NewDefault builds the stock pipeline: text, markdown and json extractors
// plus the github and chatgpt transformers.
func NewDefault(ec extract.Config, dc extract.DetectConfig, tc transform.Config) *Pipeline {
	return New(extract.NewDefaultRegistry(ec, dc), transform.NewDefaultRegistry(tc))
}

// Detect returns the best matching format and its score.
func (p *Pipeline) Detect(content string) (models.Format, float64) {
	return p.extractors.Detect(content)
}

// Parse extracts content with the extractor named by hint. Without a
// usable hint the format is detected and the document confidence becomes
// the detector's score.
func (p *Pipeline) Parse(content, hint string) *models.Document {
	if format, ok := extract.NormalizeHint(hint); ok {
		if e, ok := p.extractors.Get(format); ok {
			return e.Extract(content)
		}
	}

	format, confidence := p.extractors.Detect(content)
	e, ok := p.extractors.Get(format)
	if !ok {
		return models.Unknown(content, errNoExtractor)
	}
	doc := e.Extract(content)
	if doc.Confidence > 0 {
		doc.Confidence = confidence
	}
	return doc
}

// Transform renders doc for destination.
func (p *Pipeline) Transform(destination string, doc *models.Document, opts transform.Options) *models.Result {
	return p.transformers.Transform(destination, doc, opts)
}

// Formats lists the registered input formats.
func (p *Pipeline) Formats() []models.Format {
	return p.extractors.Names()
}

// Destinations lists the registered destinations.
func (p *Pipeline) Destinations() []string {
	return p.transformers.Names()
}
