package extract

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config holds per-extractor settings.
type Config struct {
	Text     TextConfig     `yaml:"text"`
	Markdown MarkdownConfig `yaml:"markdown"`
	JSON     JSONConfig     `yaml:"json"`
}

// Validate validates all extractor settings.
func (c *Config) Validate() error {
	return c.JSON.Validate()
}

// TextConfig controls the plain-text extractor.
type TextConfig struct {
	FirstLineAsTitle bool `yaml:"first_line_as_title"`
	DetectHeaders    bool `yaml:"detect_headers"`
}

// MarkdownConfig controls the Markdown extractor.
type MarkdownConfig struct {
	ParseFrontMatter bool `yaml:"parse_frontmatter"`
}

// JSONConfig controls the JSON extractor.
type JSONConfig struct {
	AllowComments bool `yaml:"allow_comments"`
	MaxDepth      int  `yaml:"max_depth"`
}

// Validate validates the JSON extractor settings.
func (c *JSONConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MaxDepth, validation.Required, validation.Min(1)),
	)
}

// DetectConfig holds the heuristic constants used for format scoring.
type DetectConfig struct {
	MarkdownWeights MarkdownWeights `yaml:"markdown_weights"`
	JSONScores      JSONScores      `yaml:"json_scores"`
}

// Validate checks every weight and score lies in [0,1].
func (c *DetectConfig) Validate() error {
	if err := c.MarkdownWeights.Validate(); err != nil {
		return err
	}
	return c.JSONScores.Validate()
}

// MarkdownWeights are added up, capped at 1, for each Markdown signal found.
type MarkdownWeights struct {
	Header     float64 `yaml:"header"`
	Emphasis   float64 `yaml:"emphasis"`
	Bullet     float64 `yaml:"bullet"`
	Fence      float64 `yaml:"fence"`
	Link       float64 `yaml:"link"`
	Blockquote float64 `yaml:"blockquote"`
}

// Validate validates the weights.
func (w *MarkdownWeights) Validate() error {
	return validation.ValidateStruct(w,
		validation.Field(&w.Header, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&w.Emphasis, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&w.Bullet, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&w.Fence, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&w.Link, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&w.Blockquote, validation.Min(0.0), validation.Max(1.0)),
	)
}

// JSONScores are the JSON detector's confidence levels.
type JSONScores struct {
	Strict    float64 `yaml:"strict"`
	Commented float64 `yaml:"commented"`
	Suspect   float64 `yaml:"suspect"`
}

// Validate validates the scores.
func (s *JSONScores) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Strict, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&s.Commented, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&s.Suspect, validation.Min(0.0), validation.Max(1.0)),
	)
}

// DefaultConfig returns the extractor defaults.
func DefaultConfig() Config {
	return Config{
		Text:     TextConfig{DetectHeaders: true},
		Markdown: MarkdownConfig{ParseFrontMatter: true},
		JSON:     JSONConfig{MaxDepth: 100},
	}
}

// DefaultDetectConfig returns the stock scoring constants.
func DefaultDetectConfig() DetectConfig {
	return DetectConfig{
		MarkdownWeights: MarkdownWeights{
			Header:     0.4,
			Emphasis:   0.2,
			Bullet:     0.15,
			Fence:      0.2,
			Link:       0.15,
			Blockquote: 0.1,
		},
		JSONScores: JSONScores{
			Strict:    1.0,
			Commented: 0.9,
			Suspect:   0.5,
		},
	}
}
