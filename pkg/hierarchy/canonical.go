package hierarchy

import "fmt"

// Stringify converts a rendered value into plain data built only from
// strings, []any and map[string]any, replacing every *Node (as a key or a
// leaf) with its name. It is applied recursively and is the single point
// where node identity is traded for the stable string key.
func Stringify(v any) any {
	switch v := v.(type) {
	case string:
		return v
	case *Node:
		return v.name
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Stringify(item)
		}
		return out
	case []*Node:
		out := make([]any, len(v))
		for i, n := range v {
			out[i] = n.name
		}
		return out
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	case map[*Node][]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k.name] = Stringify(val)
		}
		return out
	case map[string][]string:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = Stringify(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = Stringify(val)
		}
		return out
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
