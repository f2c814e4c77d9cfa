package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonaAdd(t *testing.T) {
	backup := map[string]any{
		"personas":             map[string]any{},
		"persona_descriptions": map[string]any{},
		"unrelated":            "kept",
	}
	persona := map[string]any{"name": "Aria", "prompt": "A friendly guide."}

	out := PersonaAdd(backup, persona)

	personas := out["personas"].(map[string]any)
	assert.Equal(t, "Aria", personas["Aria.png"])

	descs := out["persona_descriptions"].(map[string]any)
	require.Contains(t, descs, "Aria.png")
	assert.Equal(t, PersonaDescription{Description: "A friendly guide."}, descs["Aria.png"])

	assert.Equal(t, "kept", out["unrelated"])
}

func TestPersonaAdd_DoesNotMutateInput(t *testing.T) {
	backup := map[string]any{
		"personas":             map[string]any{"Old.png": "Old"},
		"persona_descriptions": map[string]any{},
	}

	PersonaAdd(backup, map[string]any{"name": "New", "prompt": "p"})

	assert.Len(t, backup["personas"], 1)
	assert.Empty(t, backup["persona_descriptions"])
}

func TestPersonaAdd_OverwritesExistingKey(t *testing.T) {
	backup := map[string]any{
		"personas":             map[string]any{"Aria.png": "Old Aria"},
		"persona_descriptions": map[string]any{"Aria.png": "stale"},
	}

	out := PersonaAdd(backup, map[string]any{"name": "Aria", "prompt": "fresh"})

	assert.Equal(t, "Aria", out["personas"].(map[string]any)["Aria.png"])
	assert.Equal(t, PersonaDescription{Description: "fresh"},
		out["persona_descriptions"].(map[string]any)["Aria.png"])
}

func TestPersonaAdd_RepairsMissingMaps(t *testing.T) {
	out := PersonaAdd(map[string]any{"personas": "broken"}, map[string]any{"name": "Aria", "prompt": "p"})

	assert.Contains(t, out["personas"].(map[string]any), "Aria.png")
	assert.Contains(t, out["persona_descriptions"].(map[string]any), "Aria.png")
}

func TestPersonaKey(t *testing.T) {
	a := assert.New(t)

	a.Equal("Aria.png", PersonaKey("Aria"))
	a.Equal("My_Persona.png", PersonaKey("My Persona"))

	// each unsafe character is masked individually, not collapsed
	a.Equal("___.png", PersonaKey("???"))
	a.Equal("a_b.png", PersonaKey("a/b"))

	// empty and dotfile names fall back to a digest key
	a.Regexp(`^persona_[0-9a-f]{8}\.png$`, PersonaKey(""))
	a.Regexp(`^persona_[0-9a-f]{8}\.png$`, PersonaKey(".hidden"))
}
