package convert

import (
	"github.com/junjidragonfox/soxkit/internal/jsontree"
)

// Valid reports whether doc has the minimum structure the given conversion
// needs. It never panics; any structural mismatch simply yields false.
// Persona-add takes two documents and has its own pair of predicates.
func Valid(kind Kind, doc any) bool {
	switch kind {
	case KindCharacter:
		return ValidCharacter(doc)
	case KindCharacterBatch:
		return ValidCharacterBatch(doc)
	case KindScenario:
		return ValidScenario(doc)
	case KindScenarioExtract:
		return ValidScenarioExtract(doc)
	case KindLorebook:
		return ValidLorebook(doc)
	case KindChatSingle, KindChatMulti:
		return ValidChat(doc)
	}
	return false
}

// ValidCharacter requires an object with a name key.
func ValidCharacter(doc any) bool {
	_, isMap := doc.(map[string]any)
	return isMap && jsontree.Has(doc, "name")
}

// ValidCharacterBatch requires conversation.xouls to be an array.
func ValidCharacterBatch(doc any) bool {
	_, ok := jsontree.Slice(doc, "conversation", "xouls")
	return ok
}

// ValidPersonaBackup requires the personas and persona_descriptions objects
// of a TavernAI persona backup.
func ValidPersonaBackup(doc any) bool {
	if _, ok := jsontree.Map(doc, "personas"); !ok {
		return false
	}
	_, ok := jsontree.Map(doc, "persona_descriptions")
	return ok
}

// ValidPersonaSource requires a persona export with a non-empty name and a
// prompt string.
func ValidPersonaSource(doc any) bool {
	name, ok := jsontree.String(doc, "name")
	if !ok || name == "" {
		return false
	}
	_, ok = jsontree.String(doc, "prompt")
	return ok
}

// ValidScenario requires an object with either a name or a prompt key.
func ValidScenario(doc any) bool {
	_, isMap := doc.(map[string]any)
	return isMap && (jsontree.Has(doc, "name") || jsontree.Has(doc, "prompt"))
}

// ValidScenarioExtract requires conversation.scenario.prompt to be an array.
// An empty array or a non-string first element is tolerated; the extracted
// text is then treated as empty.
func ValidScenarioExtract(doc any) bool {
	_, ok := jsontree.Slice(doc, "conversation", "scenario", "prompt")
	return ok
}

// ValidLorebook requires embedded.sections to be an array.
func ValidLorebook(doc any) bool {
	_, ok := jsontree.Slice(doc, "embedded", "sections")
	return ok
}

// ValidChat requires a messages array (top level or under conversation) and
// the conversation personas/xouls arrays.
func ValidChat(doc any) bool {
	if _, ok := jsontree.Slice(doc, "messages"); !ok {
		if _, ok := jsontree.Slice(doc, "conversation", "messages"); !ok {
			return false
		}
	}
	if _, ok := jsontree.Slice(doc, "conversation", "personas"); !ok {
		return false
	}
	_, ok := jsontree.Slice(doc, "conversation", "xouls")
	return ok
}
