package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/tftdatascientist/drdoc/internal/models"
)

var (
	reMDHeaderSignal = regexp.MustCompile(`(?m)^#{1,6}\s+.+`)
	reMDEmphasis     = regexp.MustCompile(`\*\*[^*]+\*\*|\*[^*]+\*`)
	reMDBulletSignal = regexp.MustCompile(`(?m)^[-*+]\s+`)
	reMDFence        = regexp.MustCompile("```[\\s\\S]+?```")
	reMDLinkSignal   = regexp.MustCompile(`\[.+?\]\(.+?\)`)
	reMDQuote        = regexp.MustCompile(`(?m)^>\s+`)

	reMDFrontMatter = regexp.MustCompile(`(?s)\A---[ \t]*\n(.*?)\n---[ \t]*(?:\n|\z)`)
	reMDHeader      = regexp.MustCompile(`(?m)^(#{1,6})[ \t]+(.+?)(?:[ \t]+#*)?[ \t]*$`)
	reMDHeaderLine  = regexp.MustCompile(`(?m)^#{1,6}[ \t]+.+$`)
	reMDBulletLine  = regexp.MustCompile(`(?m)^[-*+][ \t]+.+$`)
	reMDNumberLine  = regexp.MustCompile(`(?m)^\d+\.[ \t]+.+$`)
	reMDBlankRun    = regexp.MustCompile(`\n\s*\n`)
	reMDBulletItem  = regexp.MustCompile(`^[-*+]\s+(.+)$`)
	reMDNumberItem  = regexp.MustCompile(`^\d+\.\s+(.+)$`)
	reMDCodeBlock   = regexp.MustCompile("```(\\w*)\\n([\\s\\S]+?)```")
	reMDTable       = regexp.MustCompile(`(\|.+\|\n\|[-:\s|]+\|\n(?:\|.+\|\n?)+)`)
	reMDLinkOrImage = regexp.MustCompile(`(!?)\[([^\]]*)\]\(([^)]+)\)`)
)

// Markdown extracts ATX headers, sections, paragraphs, lists, fenced code,
// pipe tables, links and images. Flat front matter is merged into metadata.
type Markdown struct {
	cfg     MarkdownConfig
	weights MarkdownWeights
}

// NewMarkdown returns a Markdown extractor scoring with weights.
func NewMarkdown(cfg MarkdownConfig, weights MarkdownWeights) *Markdown {
	return &Markdown{cfg: cfg, weights: weights}
}

func (m *Markdown) Name() models.Format { return models.FormatMarkdown }

// Score sums the weight of every Markdown signal present, capped at 1.
func (m *Markdown) Score(content string) float64 {
	if strings.TrimSpace(content) == "" {
		return 0
	}
	w := m.weights
	score := 0.0
	for _, sig := range []struct {
		re     *regexp.Regexp
		weight float64
	}{
		{reMDHeaderSignal, w.Header},
		{reMDEmphasis, w.Emphasis},
		{reMDBulletSignal, w.Bullet},
		{reMDFence, w.Fence},
		{reMDLinkSignal, w.Link},
		{reMDQuote, w.Blockquote},
	} {
		if sig.re.MatchString(content) {
			score += sig.weight
		}
	}
	return min(score, 1.0)
}

func (m *Markdown) Extract(content string) *models.Document {
	doc, ok := newDocument(models.FormatMarkdown, models.KindText, content)
	if !ok {
		return doc
	}

	body := content
	if m.cfg.ParseFrontMatter {
		var front map[string]string
		body, front = splitFrontMatter(content)
		for k, v := range front {
			doc.Metadata[k] = v
		}
	}

	doc.Headers = mdHeaders(body)
	if len(doc.Headers) > 0 {
		doc.Title = doc.Headers[0].Text
	}
	doc.Sections = mdSections(body, doc.Headers)
	doc.Paragraphs = mdParagraphs(body)
	doc.Lists = mdLists(body)
	doc.CodeBlocks = mdCodeBlocks(body)
	doc.Tables = mdTables(body)
	doc.Links, doc.Images = mdLinksAndImages(body)

	doc.Metadata["header_count"] = len(doc.Headers)
	doc.Metadata["code_block_count"] = len(doc.CodeBlocks)
	doc.Metadata["table_count"] = len(doc.Tables)
	doc.Metadata["link_count"] = len(doc.Links)
	doc.Metadata["image_count"] = len(doc.Images)
	return doc
}

// splitFrontMatter removes a leading "---" delimited block and parses it
// as flat "key: value" lines. Nested YAML is not interpreted.
func splitFrontMatter(content string) (string, map[string]string) {
	if !strings.HasPrefix(content, "---") {
		return content, nil
	}
	loc := reMDFrontMatter.FindStringSubmatchIndex(content)
	if loc == nil {
		return content, nil
	}
	front := map[string]string{}
	for _, line := range strings.Split(content[loc[2]:loc[3]], "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		front[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return content[loc[1]:], front
}

func mdHeaders(body string) []models.Header {
	headers := []models.Header{}
	for _, loc := range reMDHeader.FindAllStringSubmatchIndex(body, -1) {
		headers = append(headers, models.Header{
			Text:     strings.TrimSpace(body[loc[4]:loc[5]]),
			Level:    loc[3] - loc[2],
			Position: loc[0],
			Style:    "atx",
		})
	}
	return headers
}

// mdSections slices body between header positions and drops each
// section's own header line.
func mdSections(body string, headers []models.Header) []models.Section {
	if len(headers) == 0 {
		return []models.Section{{Level: 0, Content: body}}
	}
	sections := make([]models.Section, 0, len(headers))
	for i, h := range headers {
		end := len(body)
		if i+1 < len(headers) {
			end = headers[i+1].Position
		}
		chunk := strings.TrimSpace(body[h.Position:end])
		_, rest, _ := strings.Cut(chunk, "\n")
		sections = append(sections, models.Section{
			Title:   h.Text,
			Level:   h.Level,
			Content: strings.TrimSpace(rest),
		})
	}
	return sections
}

func mdParagraphs(body string) []string {
	cleaned := reMDFence.ReplaceAllString(body, "")
	cleaned = reMDHeaderLine.ReplaceAllString(cleaned, "")
	cleaned = reMDBulletLine.ReplaceAllString(cleaned, "")
	cleaned = reMDNumberLine.ReplaceAllString(cleaned, "")

	paragraphs := []string{}
	for _, block := range reMDBlankRun.Split(cleaned, -1) {
		block = strings.TrimSpace(block)
		if utf8.RuneCountInString(block) > minParagraphRunes {
			paragraphs = append(paragraphs, block)
		}
	}
	return paragraphs
}

// mdLists collects bullet runs first, then numbered runs. The two passes
// are independent, so a numbered line ends a bullet run and vice versa.
func mdLists(body string) []models.List {
	lines := strings.Split(body, "\n")
	lists := collectRuns(lines, reMDBulletItem, models.ListBullet)
	return append(lists, collectRuns(lines, reMDNumberItem, models.ListNumeric)...)
}

func collectRuns(lines []string, re *regexp.Regexp, typ models.ListType) []models.List {
	lists := []models.List{}
	var items []string
	for _, l := range lines {
		if m := re.FindStringSubmatch(strings.TrimSpace(l)); m != nil {
			items = append(items, m[1])
			continue
		}
		if len(items) > 0 {
			lists = append(lists, models.List{Type: typ, Items: items})
			items = nil
		}
	}
	if len(items) > 0 {
		lists = append(lists, models.List{Type: typ, Items: items})
	}
	return lists
}

func mdCodeBlocks(body string) []models.CodeBlock {
	blocks := []models.CodeBlock{}
	for _, loc := range reMDCodeBlock.FindAllStringSubmatchIndex(body, -1) {
		lang := body[loc[2]:loc[3]]
		if lang == "" {
			lang = "text"
		}
		blocks = append(blocks, models.CodeBlock{
			Language: lang,
			Code:     strings.TrimSpace(body[loc[4]:loc[5]]),
			Position: loc[0],
		})
	}
	return blocks
}

func mdTables(body string) []models.Table {
	tables := []models.Table{}
	for _, loc := range reMDTable.FindAllStringIndex(body, -1) {
		var lines []string
		for _, l := range strings.Split(body[loc[0]:loc[1]], "\n") {
			if l = strings.TrimSpace(l); l != "" {
				lines = append(lines, l)
			}
		}
		if len(lines) < 2 {
			continue
		}
		rows := [][]string{}
		for _, l := range lines[2:] {
			if cells := splitRow(l); len(cells) > 0 {
				rows = append(rows, cells)
			}
		}
		tables = append(tables, models.Table{
			Headers:  splitRow(lines[0]),
			Rows:     rows,
			Position: loc[0],
		})
	}
	return tables
}

// splitRow splits a pipe table row and drops the empty cells produced by
// the boundary pipes.
func splitRow(line string) []string {
	parts := strings.Split(line, "|")
	if len(parts) < 2 {
		return []string{}
	}
	cells := make([]string, 0, len(parts)-2)
	for _, p := range parts[1 : len(parts)-1] {
		cells = append(cells, strings.TrimSpace(p))
	}
	return cells
}

// mdLinksAndImages scans inline links and images in one pass so that image
// syntax never also produces a link.
func mdLinksAndImages(body string) ([]models.Link, []models.Image) {
	links, images := []models.Link{}, []models.Image{}
	for _, m := range reMDLinkOrImage.FindAllStringSubmatch(body, -1) {
		if m[1] == "!" {
			images = append(images, models.Image{Alt: m[2], URL: m[3]})
			continue
		}
		if m[2] == "" {
			continue
		}
		links = append(links, models.Link{Text: m[2], URL: m[3], Type: "inline"})
	}
	return links, images
}
