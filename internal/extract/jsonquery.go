package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/tftdatascientist/drdoc/internal/models"
)

// LookupPath resolves a dot/bracket path such as "data.users[0].name"
// against the document's decoded JSON. It returns nil for a missing key,
// a type mismatch or an out-of-range index.
func LookupPath(doc *models.Document, path string) any {
	if doc == nil || doc.RawStructure == nil {
		return nil
	}
	cur := doc.RawStructure
	path = strings.ReplaceAll(path, "[", ".")
	path = strings.ReplaceAll(path, "]", "")
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			continue
		}
		switch node := cur.(type) {
		case *Object:
			v, ok := node.Get(part)
			if !ok {
				return nil
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil
			}
			cur = node[i]
		default:
			return nil
		}
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Flatten joins nested keys with sep and array indexes with brackets,
// mapping every leaf to its scalar value. Empty containers produce no
// entries.
func Flatten(doc *models.Document, sep string) *orderedmap.OrderedMap[string, any] {
	out := orderedmap.New[string, any]()
	if doc == nil || doc.RawStructure == nil {
		return out
	}
	flattenInto(out, doc.RawStructure, "", sep)
	return out
}

func flattenInto(out *orderedmap.OrderedMap[string, any], v any, parent, sep string) {
	switch node := v.(type) {
	case *Object:
		for pair := node.Oldest(); pair != nil; pair = pair.Next() {
			key := pair.Key
			if parent != "" {
				key = parent + sep + pair.Key
			}
			if isContainer(pair.Value) {
				flattenInto(out, pair.Value, key, sep)
				continue
			}
			out.Set(key, pair.Value)
		}
	case []any:
		for i, item := range node {
			key := fmt.Sprintf("%s[%d]", parent, i)
			if isContainer(item) {
				flattenInto(out, item, key, sep)
				continue
			}
			out.Set(key, item)
		}
	}
}

// ToCSV renders an array of objects as a table whose columns are the first
// object's keys, or a single object as a flattened Key/Value table. Other
// shapes render as the empty string. Elements that are not objects are
// skipped and keys missing from the first object are ignored.
func ToCSV(doc *models.Document) (string, error) {
	if doc == nil || doc.RawStructure == nil {
		return "", nil
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	switch root := doc.RawStructure.(type) {
	case []any:
		if len(root) == 0 {
			return "", nil
		}
		first, ok := root[0].(*Object)
		if !ok {
			return "", nil
		}
		columns := make([]string, 0, first.Len())
		for pair := first.Oldest(); pair != nil; pair = pair.Next() {
			columns = append(columns, pair.Key)
		}
		if err := w.Write(columns); err != nil {
			return "", err
		}
		for _, item := range root {
			obj, ok := item.(*Object)
			if !ok {
				continue
			}
			row := make([]string, len(columns))
			for i, col := range columns {
				v, _ := obj.Get(col)
				row[i] = Stringify(v)
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	case *Object:
		if root.Len() == 0 {
			return "", nil
		}
		if err := w.Write([]string{"Key", "Value"}); err != nil {
			return "", err
		}
		flat := Flatten(doc, ".")
		for pair := flat.Oldest(); pair != nil; pair = pair.Next() {
			if err := w.Write([]string{pair.Key, Stringify(pair.Value)}); err != nil {
				return "", err
			}
		}
	default:
		return "", nil
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("csv: %w", err)
	}
	return buf.String(), nil
}
