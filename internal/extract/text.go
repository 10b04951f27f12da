package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tftdatascientist/drdoc/internal/models"
)

const (
	textScorePlain    = 0.6
	textScoreFallback = 0.3
	maxHeaderRunes    = 100
	minParagraphRunes = 10
)

var (
	reTextMarkdownHeader = regexp.MustCompile(`(?m)^#{1,6}\s`)
	reTextTag            = regexp.MustCompile(`<[^>]+>`)
	reTextCode           = regexp.MustCompile(`(function|class|def|import|const|var)\s+\w+`)
	reNumericMarker      = regexp.MustCompile(`^\d+[.)]\s`)
	reNumericItem        = regexp.MustCompile(`^\d+[.)]\s+(.+)$`)
)

var bulletGlyphs = []rune{'-', '*', '•', '◦', '▪', '▫'}

// Text extracts structure from plain text: capitalised or colon-terminated
// headers, blank-line separated paragraphs and marker lists.
type Text struct {
	cfg TextConfig
}

// NewText returns a plain-text extractor.
func NewText(cfg TextConfig) *Text {
	return &Text{cfg: cfg}
}

func (t *Text) Name() models.Format { return models.FormatText }

// Score always accepts content, preferring it when no markup is visible.
func (t *Text) Score(content string) float64 {
	if strings.TrimSpace(content) == "" {
		return 0
	}
	trimmed := strings.TrimSpace(content)
	marked := reTextMarkdownHeader.MatchString(content) ||
		strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") ||
		reTextTag.MatchString(content) ||
		reTextCode.MatchString(content)
	if marked {
		return textScoreFallback
	}
	return textScorePlain
}

func (t *Text) Extract(content string) *models.Document {
	doc, ok := newDocument(models.FormatText, models.KindText, content)
	if !ok {
		return doc
	}

	lines := strings.Split(content, "\n")
	doc.Title = t.title(lines)
	if t.cfg.DetectHeaders {
		doc.Headers = textHeaders(lines)
	}
	doc.Paragraphs = textParagraphs(lines)
	doc.Lists = textLists(lines)
	doc.Sections = textSections(content, lines, doc.Headers)

	doc.Metadata["has_headers"] = len(doc.Headers) > 0
	doc.Metadata["has_lists"] = len(doc.Lists) > 0
	doc.Metadata["paragraph_count"] = len(doc.Paragraphs)
	return doc
}

func (t *Text) title(lines []string) string {
	var first string
	for _, l := range lines {
		if s := strings.TrimSpace(l); s != "" {
			first = s
			break
		}
	}
	if first == "" {
		return ""
	}
	if t.cfg.FirstLineAsTitle {
		return first
	}
	short := utf8.RuneCountInString(first) < maxHeaderRunes
	switch {
	case isUpper(first) && short:
		return first
	case strings.HasSuffix(first, ":") && short:
		return strings.TrimRight(first, ":")
	}
	return ""
}

func textHeaders(lines []string) []models.Header {
	headers := []models.Header{}
	for i, l := range lines {
		s := strings.TrimSpace(l)
		if s == "" {
			continue
		}
		switch {
		case isUpper(s) && utf8.RuneCountInString(s) < maxHeaderRunes && len(strings.Fields(s)) > 1:
			headers = append(headers, models.Header{Text: s, Level: 1, Line: i + 1, Style: "uppercase"})
		case strings.HasSuffix(s, ":") && !strings.HasSuffix(s, "::"):
			headers = append(headers, models.Header{Text: strings.TrimSuffix(s, ":"), Level: 2, Line: i + 1, Style: "colon"})
		}
	}
	return headers
}

func textParagraphs(lines []string) []string {
	paragraphs := []string{}
	var current []string
	flush := func() {
		if len(current) == 0 {
			return
		}
		p := strings.Join(current, " ")
		if utf8.RuneCountInString(p) >= minParagraphRunes {
			paragraphs = append(paragraphs, p)
		}
		current = nil
	}
	for _, l := range lines {
		s := strings.TrimSpace(l)
		if s == "" {
			flush()
			continue
		}
		if isHeaderLike(s) || isListItem(s) {
			continue
		}
		current = append(current, s)
	}
	flush()
	return paragraphs
}

func textLists(lines []string) []models.List {
	lists := []models.List{}
	var (
		items    []string
		listType models.ListType
	)
	flush := func() {
		if len(items) > 0 {
			lists = append(lists, models.List{Type: listType, Items: items})
		}
		items, listType = nil, ""
	}
	for _, l := range lines {
		s := strings.TrimSpace(l)
		if !isListItem(s) {
			flush()
			continue
		}
		typ, text := parseListItem(s)
		if listType != "" && listType != typ {
			flush()
		}
		listType = typ
		items = append(items, text)
	}
	flush()
	return lists
}

// textSections carves the text between consecutive header lines. The
// header line itself is not part of the section body.
func textSections(content string, lines []string, headers []models.Header) []models.Section {
	if len(headers) == 0 {
		return []models.Section{{Level: 0, Content: content}}
	}
	sections := make([]models.Section, 0, len(headers))
	for i, h := range headers {
		start := h.Line
		end := len(lines)
		if i+1 < len(headers) {
			end = headers[i+1].Line - 1
		}
		body := ""
		if start < end {
			body = strings.TrimSpace(strings.Join(lines[start:end], "\n"))
		}
		sections = append(sections, models.Section{Title: h.Text, Level: h.Level, Content: body})
	}
	return sections
}

func isHeaderLike(s string) bool {
	return (isUpper(s) || strings.HasSuffix(s, ":")) && utf8.RuneCountInString(s) < maxHeaderRunes
}

func isListItem(s string) bool {
	if s == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(s)
	if isBulletGlyph(first) {
		return true
	}
	return reNumericMarker.MatchString(s)
}

func parseListItem(s string) (models.ListType, string) {
	first, size := utf8.DecodeRuneInString(s)
	if isBulletGlyph(first) {
		return models.ListBullet, strings.TrimSpace(s[size:])
	}
	if m := reNumericItem.FindStringSubmatch(s); m != nil {
		return models.ListNumeric, m[1]
	}
	return models.ListUnknown, s
}

func isBulletGlyph(r rune) bool {
	for _, g := range bulletGlyphs {
		if r == g {
			return true
		}
	}
	return false
}

// isUpper reports whether s has at least one cased letter and no lower or
// title case letters.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsLower(r), unicode.IsTitle(r):
			return false
		case unicode.IsUpper(r):
			cased = true
		}
	}
	return cased
}
