package transform

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tftdatascientist/drdoc/internal/models"
)

// Context types.
const (
	ContextGeneral      = "general"
	ContextCode         = "code"
	ContextProjectBrief = "project_brief"
	ContextDebug        = "debug"
)

// ContextFile is the only file an AI context result contains.
const ContextFile = "context.md"

const (
	maxGeneralParagraphs = 5
	maxGeneralCodeBlocks = 3
	sectionTruncated     = "\n\n[...content truncated...]"
	codeTruncated        = "\n// ..."
)

// ContextTypes lists the supported context types.
var ContextTypes = []string{ContextGeneral, ContextCode, ContextProjectBrief, ContextDebug}

// AIContext condenses a document into a single context.md suited for
// pasting into an AI assistant.
type AIContext struct {
	cfg AIContextConfig
}

// NewAIContext returns the AI context transformer.
func NewAIContext(cfg AIContextConfig) *AIContext {
	return &AIContext{cfg: cfg}
}

func (a *AIContext) Name() string { return DestinationChatGPT }

func (a *AIContext) CanHandle(doc *models.Document) bool { return validate(doc) == "" }

func (a *AIContext) Transform(doc *models.Document, opts Options) *models.Result {
	res := models.NewResult(DestinationChatGPT)
	if reason := validate(doc); reason != "" {
		res.AddError(reason)
		return res
	}

	o := opts.AIContextOptions
	contextType := NormalizeContextType(o.ContextType)

	var body string
	switch contextType {
	case ContextCode:
		body = a.code(doc, o)
	case ContextProjectBrief:
		body = a.projectBrief(doc, opts)
	case ContextDebug:
		body = a.debug(doc, o)
	default:
		body = a.general(doc, o)
	}

	// token_estimate and over_budget describe the rendered body before
	// any trimming.
	tokens := EstimateTokens(body)
	overBudget := tokens > a.cfg.MaxTokens
	trimmed := a.cfg.OptimizeTokens && overBudget
	if trimmed {
		body = TrimToTokens(body, a.cfg.MaxTokens)
	}
	res.AddFile(ContextFile, body)

	res.Structure = map[string][]string{"root": {ContextFile}}
	res.Metadata = map[string]any{
		"context_type":   contextType,
		"token_estimate": tokens,
		"optimized":      a.cfg.OptimizeTokens,
		"max_tokens":     a.cfg.MaxTokens,
		"over_budget":    overBudget,
		"trimmed":        trimmed,
	}
	return res
}

// NormalizeContextType maps empty and unknown values to general.
func NormalizeContextType(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range ContextTypes {
		if s == t {
			return t
		}
	}
	return ContextGeneral
}

func (a *AIContext) h2(emoji, title string) string {
	return heading(2, emoji, title, a.cfg.AddEmojis) + "\n\n"
}

func (a *AIContext) general(doc *models.Document, o AIContextOptions) string {
	var b strings.Builder
	b.WriteString(heading(1, "", firstNonEmpty(doc.Title, "Context"), false) + "\n\n")

	if o.Goal != "" {
		b.WriteString(a.h2("🎯", "Goal") + o.Goal + "\n\n")
	}

	b.WriteString(a.h2("📊", "Data"))
	if len(doc.Sections) > 0 {
		for _, s := range doc.Sections {
			if s.Title != "" {
				b.WriteString("### " + s.Title + "\n\n")
			}
			content := s.Content
			if a.cfg.SummarizeLongSections && utf8.RuneCountInString(content) > a.cfg.SectionLimit {
				content = truncateRunes(content, a.cfg.SectionLimit) + sectionTruncated
			}
			b.WriteString(content + "\n\n")
		}
	} else {
		paras := doc.Paragraphs
		for _, p := range paras[:min(len(paras), maxGeneralParagraphs)] {
			b.WriteString(p + "\n\n")
		}
	}

	if a.cfg.IncludeExamples && len(doc.CodeBlocks) > 0 {
		b.WriteString(a.h2("💻", "Code"))
		limit := a.cfg.CodeBlockLimit * 10
		blocks := doc.CodeBlocks
		for _, cb := range blocks[:min(len(blocks), maxGeneralCodeBlocks)] {
			code := cb.Code
			if utf8.RuneCountInString(code) > limit {
				code = truncateRunes(code, limit) + codeTruncated
			}
			b.WriteString(fence(cb.Language, code))
		}
	}

	if !o.Requirements.IsZero() {
		b.WriteString(a.h2("🔧", "Requirements") + o.Requirements.Render() + "\n\n")
	}

	b.WriteString("\n---\n\n")
	fmt.Fprintf(&b, "**Meta**: Format: %s, Type: %s\n", doc.Format, doc.Kind)
	return b.String()
}

func (a *AIContext) code(doc *models.Document, o AIContextOptions) string {
	var b strings.Builder
	b.WriteString("# CODE CONTEXT\n\n")
	if o.Goal != "" {
		b.WriteString(a.h2("🎯", "Goal") + o.Goal + "\n\n")
	}
	if len(doc.CodeBlocks) > 0 {
		b.WriteString(a.h2("💻", "Current implementation"))
		for _, cb := range doc.CodeBlocks {
			b.WriteString(fence(cb.Language, cb.Code))
		}
	}
	if o.Problem != "" {
		b.WriteString(a.h2("❓", "Problem") + o.Problem + "\n\n")
	}
	if !o.Requirements.IsZero() {
		b.WriteString(a.h2("🔧", "Requirements") + o.Requirements.Render() + "\n\n")
	}
	return b.String()
}

func (a *AIContext) projectBrief(doc *models.Document, opts Options) string {
	o := opts.AIContextOptions
	var b strings.Builder
	name := firstNonEmpty(opts.ProjectName, doc.Title, "Project")
	b.WriteString("# PROJECT: " + name + "\n\n")

	if o.ProjectType != "" {
		b.WriteString("**Type**: " + o.ProjectType + "\n\n")
	}
	if o.Technologies != "" {
		b.WriteString("**Technologies**: " + o.Technologies + "\n\n")
	}
	if o.BusinessGoal != "" {
		b.WriteString(a.h2("🎯", "Business goal") + o.BusinessGoal + "\n\n")
	}
	if len(doc.Lists) > 0 {
		b.WriteString(a.h2("✨", "Main features"))
		for _, item := range doc.Lists[0].Items {
			b.WriteString("- " + item + "\n")
		}
		b.WriteString("\n")
	}
	if o.TechRequirements != "" {
		b.WriteString(a.h2("🔧", "Technical requirements") + o.TechRequirements + "\n\n")
	}
	if o.Constraints != "" {
		b.WriteString(a.h2("⚠️", "Constraints") + o.Constraints + "\n\n")
	}
	return b.String()
}

func (a *AIContext) debug(doc *models.Document, o AIContextOptions) string {
	var b strings.Builder
	b.WriteString("# DEBUG CONTEXT\n\n")
	if o.Error != "" {
		b.WriteString(a.h2("🐛", "Error") + fence("", o.Error))
	}
	if len(doc.CodeBlocks) > 0 {
		b.WriteString(a.h2("💻", "Code"))
		for _, cb := range doc.CodeBlocks {
			b.WriteString(fence(cb.Language, cb.Code))
		}
	}
	if o.Environment != "" {
		b.WriteString(a.h2("🖥️", "Environment") + o.Environment + "\n\n")
	}
	if !o.Steps.IsZero() {
		b.WriteString(a.h2("🔁", "Steps to reproduce") + o.Steps.Render() + "\n\n")
	}
	if o.Expected != "" {
		b.WriteString(a.h2("✅", "Expected behavior") + o.Expected + "\n\n")
	}
	if o.Actual != "" {
		b.WriteString(a.h2("❌", "Actual behavior") + o.Actual + "\n\n")
	}
	return b.String()
}

func fence(lang, code string) string {
	return "```" + lang + "\n" + code + "\n```\n\n"
}
