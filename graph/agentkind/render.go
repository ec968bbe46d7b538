// Package agentkind implements the six built-in agent kinds — llm,
// deterministic, reflection, tool_using, supervisor, utcp_agent — against
// the graph.Agent interface.
package agentkind

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/flowgraph/flowgraph/graph"
)

// render substitutes bracketed placeholders in template: {context[key]},
// {artifacts[key]}, {quality[key]}, with nested access by repeating the
// bracketed segment ({artifacts[outline][title]}). A placeholder whose
// path does not resolve — unknown root, missing key, or a non-map
// intermediate — substitutes the empty string rather than failing, so
// templates stay robust to artifacts that haven't been produced yet.
func render(template string, state graph.GlobalState) string {
	var out strings.Builder
	i := 0
	for i < len(template) {
		start := strings.IndexByte(template[i:], '{')
		if start < 0 {
			out.WriteString(template[i:])
			break
		}
		start += i
		out.WriteString(template[i:start])

		end := matchingBrace(template, start)
		if end < 0 {
			out.WriteString(template[start:])
			break
		}

		out.WriteString(resolvePlaceholder(template[start+1:end], state))
		i = end + 1
	}
	return out.String()
}

// matchingBrace finds the index of the first '}' after the '{' at open,
// which closes the placeholder; braces are not nested.
func matchingBrace(s string, open int) int {
	for i := open + 1; i < len(s); i++ {
		switch s[i] {
		case '}':
			return i
		}
	}
	return -1
}

// resolvePlaceholder evaluates a placeholder body such as
// `artifacts[outline][title]` against state, returning "" if any segment
// of the path is missing.
func resolvePlaceholder(body string, state graph.GlobalState) string {
	root, keys := splitPath(body)

	var section map[string]any
	switch root {
	case "context":
		section = state.Context
	case "artifacts":
		section = state.Artifacts
	case "quality":
		section = state.Quality
	default:
		return ""
	}

	if len(keys) == 0 {
		return ""
	}

	var cur any = section
	for _, key := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		v, ok := m[key]
		if !ok {
			return ""
		}
		cur = v
	}
	return stringify(cur)
}

// splitPath parses `root[key1][key2]` into its root identifier and the
// ordered list of bracketed keys.
func splitPath(body string) (root string, keys []string) {
	bracket := strings.IndexByte(body, '[')
	if bracket < 0 {
		return body, nil
	}
	root = body[:bracket]
	rest := body[bracket:]
	for len(rest) > 0 {
		if rest[0] != '[' {
			break
		}
		closeIdx := strings.IndexByte(rest, ']')
		if closeIdx < 0 {
			break
		}
		keys = append(keys, rest[1:closeIdx])
		rest = rest[closeIdx+1:]
	}
	return root, keys
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}
