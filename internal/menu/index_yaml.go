package menu

import (
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// parseYAML reads a list of maps with keys path, name, directory, hidden and
// index. Values are coerced loosely: "true", "1" and 1 are all true, and a
// list given for path or name contributes its first element.
func parseYAML(data []byte) ([]Node, int, error) {
	var raw []map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, 0, err
	}

	nodes := make([]Node, 0, len(raw))
	skipped := 0
	for _, entry := range raw {
		p, okPath := scalarString(entry["path"])
		n, okName := scalarString(entry["name"])
		if !okPath || !okName {
			skipped++
			continue
		}
		nodes = append(nodes, Node{
			Path:         p,
			Name:         n,
			IsDirectory:  cast.ToBool(entry["directory"]),
			Hidden:       cast.ToBool(entry["hidden"]),
			IsIndexEntry: cast.ToBool(entry["index"]),
		})
	}
	return nodes, skipped, nil
}

func scalarString(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	if list, ok := v.([]any); ok {
		if len(list) == 0 || list[0] == nil {
			return "", false
		}
		v = list[0]
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", false
	}
	return s, true
}
