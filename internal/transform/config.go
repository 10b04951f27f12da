package transform

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config holds per-transformer settings.
type Config struct {
	Repository RepositoryConfig `yaml:"repository"`
	AIContext  AIContextConfig  `yaml:"ai_context"`
}

// Validate validates all transformer settings.
func (c *Config) Validate() error {
	return c.AIContext.Validate()
}

// RepositoryConfig toggles the optional files of the repository scaffold.
type RepositoryConfig struct {
	IncludeLicense      bool `yaml:"include_license"`
	IncludeContributing bool `yaml:"include_contributing"`
	SplitDocs           bool `yaml:"split_docs"`
	ExtractCodeBlocks   bool `yaml:"extract_code_blocks"`
	AddEmojis           bool `yaml:"add_emojis"`
}

// AIContextConfig controls context.md rendering.
type AIContextConfig struct {
	MaxTokens             int  `yaml:"max_tokens"`
	OptimizeTokens        bool `yaml:"optimize_tokens"`
	IncludeExamples       bool `yaml:"include_examples"`
	CodeBlockLimit        int  `yaml:"code_block_limit"`
	SummarizeLongSections bool `yaml:"summarize_long_sections"`
	SectionLimit          int  `yaml:"section_limit"`
	AddEmojis             bool `yaml:"add_emojis"`
}

// Validate validates the AI context settings.
func (c *AIContextConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MaxTokens, validation.Required, validation.Min(1)),
		validation.Field(&c.CodeBlockLimit, validation.Required, validation.Min(1)),
		validation.Field(&c.SectionLimit, validation.Required, validation.Min(1)),
	)
}

// DefaultConfig returns the transformer defaults.
func DefaultConfig() Config {
	return Config{
		Repository: RepositoryConfig{
			IncludeLicense:      true,
			IncludeContributing: true,
			SplitDocs:           true,
			ExtractCodeBlocks:   true,
			AddEmojis:           true,
		},
		AIContext: AIContextConfig{
			MaxTokens:             4000,
			OptimizeTokens:        true,
			IncludeExamples:       true,
			CodeBlockLimit:        50,
			SummarizeLongSections: true,
			SectionLimit:          500,
		},
	}
}
