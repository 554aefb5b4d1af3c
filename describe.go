package devinfo

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// PathDescriptor names one leaf of a JSON encoded value and the type it
// decodes to. Paths are the dotted form accepted by ResolveWithTrace.
type PathDescriptor struct {
	Path string `json:"path" yaml:"path"`
	Type string `json:"type" yaml:"type"`
}

// DescribePaths lists the leaves of value after a JSON round trip, sorted
// by path. Empty maps are reported as a single map leaf.
func DescribePaths(value any) ([]PathDescriptor, error) {
	doc, err := jsonDocument(value)
	if err != nil {
		return nil, err
	}
	paths := describe(doc, "")
	if paths == nil {
		paths = []PathDescriptor{}
	}
	return paths, nil
}

// Paths lists the dotted paths present in the merged value.
func (l *Layered[T]) Paths() ([]PathDescriptor, error) {
	if l == nil {
		return nil, ErrEmptyStack
	}
	return DescribePaths(l.Value)
}

func jsonDocument(value any) (any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("devinfo: encode document: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("devinfo: decode document: %w", err)
	}
	return doc, nil
}

func describe(value any, prefix string) []PathDescriptor {
	switch typed := value.(type) {
	case nil:
		return nil
	case map[string]any:
		if len(typed) == 0 {
			if prefix == "" {
				return nil
			}
			return []PathDescriptor{{Path: prefix, Type: "map"}}
		}
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		var out []PathDescriptor
		for _, key := range keys {
			out = append(out, describe(typed[key], joinPath(prefix, key))...)
		}
		return out
	case []any:
		element := "any"
		if len(typed) > 0 {
			element = jsonTypeName(typed[0])
		}
		return []PathDescriptor{{Path: prefix, Type: "[]" + element}}
	default:
		if prefix == "" {
			return nil
		}
		return []PathDescriptor{{Path: prefix, Type: jsonTypeName(typed)}}
	}
}

func jsonTypeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "bool"
	case map[string]any:
		return "map"
	case []any:
		return "list"
	}
	return fmt.Sprintf("%T", value)
}

func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return strings.Join([]string{prefix, segment}, ".")
}
