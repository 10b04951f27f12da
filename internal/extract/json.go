package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/buger/jsonparser"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/tftdatascientist/drdoc/internal/models"
)

// Object is a decoded JSON object with its key order preserved.
type Object = orderedmap.OrderedMap[string, any]

const maxScalarRunes = 100

var (
	titleFields = []string{"title", "name", "label", "id"}
)

// JSON extracts a structure summary and one section per top-level key or
// array element. Decoded values are *Object, []any, string, json.Number,
// bool or nil.
type JSON struct {
	cfg    JSONConfig
	scores JSONScores
}

// NewJSON returns a JSON extractor scoring with scores.
func NewJSON(cfg JSONConfig, scores JSONScores) *JSON {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultConfig().JSON.MaxDepth
	}
	return &JSON{cfg: cfg, scores: scores}
}

func (j *JSON) Name() models.Format { return models.FormatJSON }

func (j *JSON) Score(content string) float64 {
	if strings.TrimSpace(content) == "" {
		return 0
	}
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return 0
	}
	if json.Valid([]byte(trimmed)) {
		return j.scores.Strict
	}
	if j.cfg.AllowComments && json.Valid([]byte(StripComments(trimmed))) {
		return j.scores.Commented
	}
	if strings.Contains(trimmed, `"`) && strings.Contains(trimmed, ":") && strings.ContainsAny(trimmed, "{[") {
		return j.scores.Suspect
	}
	return 0
}

func (j *JSON) Extract(content string) *models.Document {
	doc, ok := newDocument(models.FormatJSON, models.KindStructured, content)
	if !ok {
		return doc
	}

	src := content
	if j.cfg.AllowComments {
		src = StripComments(content)
	}
	root, err := Decode([]byte(src))
	if err != nil {
		doc.AddError("JSON parsing error: " + err.Error())
		doc.Confidence = 0
		return doc
	}
	doc.RawStructure = root

	for k, v := range j.summarize(root, 0) {
		doc.Metadata[k] = v
	}

	switch v := root.(type) {
	case *Object:
		doc.Title = objectTitle(v)
		if meta, ok := lookupKey(v, "metadata").(*Object); ok {
			for pair := meta.Oldest(); pair != nil; pair = pair.Next() {
				doc.Metadata[pair.Key] = pair.Value
			}
		}
		for pair := v.Oldest(); pair != nil; pair = pair.Next() {
			doc.Sections = append(doc.Sections, models.Section{
				Title:   pair.Key,
				Level:   1,
				Content: Pretty(pair.Value),
			})
		}
	case []any:
		for i, item := range v {
			title := fmt.Sprintf("Item %d", i+1)
			if obj, ok := item.(*Object); ok {
				if name, present := obj.Get("name"); present {
					title = Stringify(name)
				}
			}
			doc.Sections = append(doc.Sections, models.Section{
				Title:   title,
				Level:   1,
				Content: Pretty(item),
			})
		}
	}
	if len(doc.Sections) == 0 {
		doc.Sections = append(doc.Sections, models.Section{Level: 0, Content: Pretty(root)})
	}
	return doc
}

// summarize describes v recursively, stopping with an error marker once
// depth exceeds the configured maximum.
func (j *JSON) summarize(v any, depth int) map[string]any {
	if depth > j.cfg.MaxDepth {
		return map[string]any{"error": "max depth exceeded"}
	}
	out := map[string]any{
		"type":  TypeName(v),
		"depth": depth,
	}
	switch t := v.(type) {
	case *Object:
		keys := make([]string, 0, t.Len())
		nested := map[string]any{}
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			keys = append(keys, pair.Key)
			if isContainer(pair.Value) {
				nested[pair.Key] = j.summarize(pair.Value, depth+1)
			}
		}
		out["keys"] = keys
		out["key_count"] = len(keys)
		out["nested_structures"] = nested
	case []any:
		out["length"] = len(t)
		if len(t) > 0 {
			seen := map[string]struct{}{}
			types := []string{}
			for _, item := range t {
				name := TypeName(item)
				if _, ok := seen[name]; !ok {
					seen[name] = struct{}{}
					types = append(types, name)
				}
			}
			sort.Strings(types)
			out["item_types"] = types
			if isContainer(t[0]) {
				out["item_structure"] = j.summarize(t[0], depth+1)
			}
		}
	case string:
		if utf8.RuneCountInString(t) > maxScalarRunes {
			t = string([]rune(t)[:maxScalarRunes]) + "..."
		}
		out["value"] = t
	default:
		out["value"] = t
	}
	return out
}

// StripComments removes // line comments and /* */ block comments outside
// string literals, so "http://host" survives. Line comments keep their
// newline; an unterminated block comment runs to the end of input.
func StripComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		if c == '/' && i+1 < len(s) {
			switch s[i+1] {
			case '/':
				end := strings.IndexByte(s[i:], '\n')
				if end < 0 {
					return b.String()
				}
				i += end - 1
				continue
			case '*':
				end := strings.Index(s[i+2:], "*/")
				if end < 0 {
					return b.String()
				}
				i += end + 3
				continue
			}
		}
		if c == '"' {
			inString = true
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Decode parses strict JSON into an order-preserving tree. Syntax errors
// carry the standard decoder's diagnostic.
func Decode(data []byte) (any, error) {
	if err := json.Unmarshal(data, new(json.RawMessage)); err != nil {
		return nil, err
	}
	value, typ, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, err
	}
	return decodeValue(value, typ)
}

func decodeValue(value []byte, typ jsonparser.ValueType) (any, error) {
	switch typ {
	case jsonparser.Object:
		obj := orderedmap.New[string, any]()
		err := jsonparser.ObjectEach(value, func(key, v []byte, t jsonparser.ValueType, _ int) error {
			decoded, err := decodeValue(v, t)
			if err != nil {
				return err
			}
			obj.Set(string(key), decoded)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return obj, nil
	case jsonparser.Array:
		arr := []any{}
		var inner error
		_, err := jsonparser.ArrayEach(value, func(v []byte, t jsonparser.ValueType, _ int, _ error) {
			if inner != nil {
				return
			}
			decoded, err := decodeValue(v, t)
			if err != nil {
				inner = err
				return
			}
			arr = append(arr, decoded)
		})
		if err != nil {
			return nil, err
		}
		if inner != nil {
			return nil, inner
		}
		return arr, nil
	case jsonparser.String:
		return jsonparser.ParseString(value)
	case jsonparser.Number:
		return json.Number(string(value)), nil
	case jsonparser.Boolean:
		return jsonparser.ParseBoolean(value)
	case jsonparser.Null:
		return nil, nil
	default:
		return nil, fmt.Errorf("unexpected value %q", value)
	}
}

// TypeName returns the JSON type name of a decoded value.
func TypeName(v any) string {
	switch v.(type) {
	case *Object:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Stringify renders a scalar as plain text and containers as compact JSON.
func Stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		var buf bytes.Buffer
		writeJSON(&buf, v, "", "")
		return buf.String()
	}
}

// Pretty renders a decoded value as JSON indented by two spaces, keeping
// object key order and leaving non-ASCII text unescaped.
func Pretty(v any) string {
	var buf bytes.Buffer
	writeJSON(&buf, v, "", "  ")
	return buf.String()
}

func writeJSON(buf *bytes.Buffer, v any, prefix, indent string) {
	newline := func(p string) {
		if indent != "" {
			buf.WriteByte('\n')
			buf.WriteString(p)
		}
	}
	sep := ":"
	if indent != "" {
		sep = ": "
	}
	switch t := v.(type) {
	case *Object:
		if t.Len() == 0 {
			buf.WriteString("{}")
			return
		}
		buf.WriteByte('{')
		inner := prefix + indent
		first := true
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			newline(inner)
			writeString(buf, pair.Key)
			buf.WriteString(sep)
			writeJSON(buf, pair.Value, inner, indent)
		}
		newline(prefix)
		buf.WriteByte('}')
	case []any:
		if len(t) == 0 {
			buf.WriteString("[]")
			return
		}
		buf.WriteByte('[')
		inner := prefix + indent
		for i, item := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(inner)
			writeJSON(buf, item, inner, indent)
		}
		newline(prefix)
		buf.WriteByte(']')
	case string:
		writeString(buf, t)
	case json.Number:
		buf.WriteString(t.String())
	case bool:
		buf.WriteString(strconv.FormatBool(t))
	case nil:
		buf.WriteString("null")
	default:
		b, err := json.Marshal(t)
		if err != nil {
			buf.WriteString("null")
			return
		}
		buf.Write(b)
	}
}

func writeString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	// Encode terminates with a newline.
	buf.Truncate(buf.Len() - 1)
}

func objectTitle(obj *Object) string {
	for _, field := range titleFields {
		if v, ok := obj.Get(field); ok && v != nil {
			return Stringify(v)
		}
	}
	return ""
}

func lookupKey(obj *Object, key string) any {
	v, _ := obj.Get(key)
	return v
}

func isContainer(v any) bool {
	switch v.(type) {
	case *Object, []any:
		return true
	}
	return false
}
