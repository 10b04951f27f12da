// Package models defines the document and transform result types shared by
// every stage of the Dr.Doc pipeline.
package models

import (
	"strings"
	"unicode/utf8"
)

// Format tags the extractor that produced a Document.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatUnknown  Format = "unknown"
)

// Kind is the coarse classification of a Document.
type Kind string

const (
	KindText       Kind = "text"
	KindCode       Kind = "code"
	KindStructured Kind = "structured"
	KindMixed      Kind = "mixed"
	KindUnknown    Kind = "unknown"
)

// ListType distinguishes bullet from numbered lists.
type ListType string

const (
	ListBullet  ListType = "bullet"
	ListNumeric ListType = "numeric"
	ListUnknown ListType = "unknown"
)

// Section is a titled slice of the document. Level 0 means the whole
// document with no headers found; Title is empty in that case.
type Section struct {
	Title   string `json:"title,omitempty"`
	Level   int    `json:"level"`
	Content string `json:"content"`
}

// Header is a detected heading. Markdown headers carry a byte Position,
// text headers a 1-based Line.
type Header struct {
	Text     string `json:"text"`
	Level    int    `json:"level"`
	Position int    `json:"position,omitempty"`
	Line     int    `json:"line,omitempty"`
	Style    string `json:"style"`
}

// List is one contiguous run of list items.
type List struct {
	Type  ListType `json:"type"`
	Items []string `json:"items"`
}

// CodeBlock is a fenced code region.
type CodeBlock struct {
	Language string `json:"language"`
	Code     string `json:"code"`
	Position int    `json:"position"`
}

// Table is a pipe table with its header row split out.
type Table struct {
	Headers  []string   `json:"headers"`
	Rows     [][]string `json:"rows"`
	Position int        `json:"position"`
}

// Link is an inline [text](url) link.
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

// Image is an inline ![alt](url) image.
type Image struct {
	Alt string `json:"alt"`
	URL string `json:"url"`
}

// Stats holds simple size counters for the raw input.
type Stats struct {
	Lines              int `json:"lines"`
	NonEmptyLines      int `json:"non_empty_lines"`
	Words              int `json:"words"`
	Characters         int `json:"characters"`
	CharactersNoSpaces int `json:"characters_no_spaces"`
}

// Document is the unified structural representation produced by every
// extractor and consumed by every transformer.
//
// Sequence fields are never nil; New initialises all of them.
type Document struct {
	Format       Format         `json:"format"`
	Kind         Kind           `json:"kind"`
	Content      string         `json:"content"`
	Title        string         `json:"title,omitempty"`
	Sections     []Section      `json:"sections"`
	Headers      []Header       `json:"headers"`
	Paragraphs   []string       `json:"paragraphs"`
	Lists        []List         `json:"lists"`
	CodeBlocks   []CodeBlock    `json:"code_blocks"`
	Tables       []Table        `json:"tables"`
	Links        []Link         `json:"links"`
	Images       []Image        `json:"images"`
	Metadata     map[string]any `json:"metadata"`
	Stats        Stats          `json:"stats"`
	RawStructure any            `json:"raw_structure,omitempty"`
	Confidence   float64        `json:"confidence"`
	Errors       []string       `json:"errors"`
}

// New returns an empty Document with every collection initialised.
func New(format Format, kind Kind, content string) *Document {
	return &Document{
		Format:     format,
		Kind:       kind,
		Content:    content,
		Sections:   []Section{},
		Headers:    []Header{},
		Paragraphs: []string{},
		Lists:      []List{},
		CodeBlocks: []CodeBlock{},
		Tables:     []Table{},
		Links:      []Link{},
		Images:     []Image{},
		Metadata:   map[string]any{},
		Errors:     []string{},
		Confidence: 1.0,
	}
}

// Unknown returns the Document used when no extractor could be selected.
func Unknown(content, reason string) *Document {
	doc := New(FormatUnknown, KindUnknown, content)
	doc.Confidence = 0
	doc.Errors = append(doc.Errors, reason)
	return doc
}

// AddError records a non-fatal warning or error.
func (d *Document) AddError(msg string) {
	d.Errors = append(d.Errors, msg)
}

// HasErrors reports whether any warning or error was recorded.
func (d *Document) HasErrors() bool {
	return len(d.Errors) > 0
}

// Languages returns the distinct, lower-cased code block languages in
// order of first appearance.
func (d *Document) Languages() []string {
	seen := make(map[string]struct{}, len(d.CodeBlocks))
	out := []string{}
	for _, b := range d.CodeBlocks {
		lang := strings.ToLower(strings.TrimSpace(b.Language))
		if lang == "" {
			continue
		}
		if _, ok := seen[lang]; ok {
			continue
		}
		seen[lang] = struct{}{}
		out = append(out, lang)
	}
	return out
}

// ComputeStats counts lines, words and characters of content. Characters
// are counted as runes.
func ComputeStats(content string) Stats {
	lines := strings.Split(content, "\n")
	nonEmpty := 0
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			nonEmpty++
		}
	}
	noSpaces := strings.NewReplacer(" ", "", "\n", "").Replace(content)
	return Stats{
		Lines:              len(lines),
		NonEmptyLines:      nonEmpty,
		Words:              len(strings.Fields(content)),
		Characters:         utf8.RuneCountInString(content),
		CharactersNoSpaces: utf8.RuneCountInString(noSpaces),
	}
}
