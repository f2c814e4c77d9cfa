package convert

import (
	"github.com/junjidragonfox/soxkit/internal/jsontree"
)

// PersonaDescription is the entry filed under a persona's avatar key in a
// TavernAI backup.
type PersonaDescription struct {
	Description string `json:"description"`
	Position    int    `json:"position"`
}

// PersonaAdd returns a copy of backup with one persona added under its
// derived avatar key. An existing entry under the same key is overwritten;
// nothing is merged. The input documents are left untouched.
func PersonaAdd(backup, persona any) map[string]any {
	name := jsontree.StringOr("", persona, "name")
	prompt := jsontree.StringOr("", persona, "prompt")
	key := PersonaKey(name)

	src, _ := backup.(map[string]any)
	out := make(map[string]any, len(src)+2)
	for k, v := range src {
		out[k] = v
	}

	personas := copyObject(src["personas"])
	personas[key] = name
	out["personas"] = personas

	descriptions := copyObject(src["persona_descriptions"])
	descriptions[key] = PersonaDescription{Description: prompt}
	out["persona_descriptions"] = descriptions

	return out
}

// copyObject shallow-copies v when it is an object, and replaces it with a
// fresh one otherwise, matching how the upstream tool repaired malformed
// backups.
func copyObject(v any) map[string]any {
	src, ok := v.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	out := make(map[string]any, len(src)+1)
	for k, val := range src {
		out[k] = val
	}
	return out
}
