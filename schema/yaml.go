package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/reoring/schemamodel/internal/jsonptr"
)

// ParseYAML decodes a YAML schema document and resolves it like Parse.
func ParseYAML(data []byte) (*Schema, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &SyntaxError{Format: "yaml", Cause: err}
	}
	norm, err := normalizeYAML(doc, jsonptr.Root())
	if err != nil {
		return nil, err
	}
	return FromValue(norm)
}

// normalizeYAML converts YAML-decoded values (which may contain map[any]any)
// into JSON-like values recursively. Scalar keys such as 200 or true become
// their string form, the way the same key reads in JSON; collection keys are
// rejected.
func normalizeYAML(v any, at jsonptr.Pointer) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			nv, err := normalizeYAML(vv, at.Field(k))
			if err != nil {
				return nil, err
			}
			out[k] = nv
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, err := yamlKey(k, at)
			if err != nil {
				return nil, err
			}
			if _, dup := out[ks]; dup {
				return nil, errorf(at.Field(ks), "duplicate key %q after converting to string", ks)
			}
			nv, err := normalizeYAML(vv, at.Field(ks))
			if err != nil {
				return nil, err
			}
			out[ks] = nv
		}
		return out, nil
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			nv, err := normalizeYAML(t[i], at.Index(i))
			if err != nil {
				return nil, err
			}
			arr[i] = nv
		}
		return arr, nil
	default:
		return v, nil
	}
}

func yamlKey(k any, at jsonptr.Pointer) (string, error) {
	switch t := k.(type) {
	case string:
		return t, nil
	case nil:
		return "null", nil
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(t), nil
	}
	return "", errorf(at, "object key must be a scalar, got %s", describe(k))
}
