package metadata

import "strconv"

// sourceKeys are the metadata keys consulted for a record's source, in
// precedence order. The first present key wins.
var sourceKeys = []string{"source", "file", "path", "filename"}

// SourceFromMap extracts a record source from loosely-typed metadata.
func SourceFromMap(m map[string]any) string {
	for _, k := range sourceKeys {
		if v, ok := m[k]; ok {
			return stringify(v)
		}
	}
	return ""
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return ""
	default:
		return ""
	}
}
