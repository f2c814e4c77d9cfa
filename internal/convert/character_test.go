package convert

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func xoulExport() map[string]any {
	return map[string]any{
		"name":             "Aria",
		"backstory":        "A wandering bard.",
		"definition":       "Cheerful, curious.",
		"default_scenario": "A tavern at dusk.",
		"greeting":         "Well met!",
		"samples":          "<START>...",
		"bio":              "Made with love.",
		"social_tags":      []any{"fantasy", "bard"},
		"slug":             "aria-bard",
		"talkativeness":    0.7,
	}
}

func TestMapCharacter_FullMapping(t *testing.T) {
	a := assert.New(t)

	card := MapCharacter(xoulExport())
	a.Equal("Aria", card.Name)
	a.Equal("A wandering bard.", card.Description)
	a.Equal("Cheerful, curious.", card.Personality)
	a.Equal("A tavern at dusk.", card.Scenario)
	a.Equal("Well met!", card.FirstMes)
	a.Equal("<START>...", card.MesExample)
	a.Equal("Made with love.", card.CreatorNotes)
	a.Equal([]any{"fantasy", "bard"}, card.Tags)
	a.Equal("aria-bard", card.Creator)
	a.Equal("imported", card.CharacterVersion)
	a.Equal("0.7", card.Extensions.Talkativeness)
	a.False(card.Extensions.Fav)
	a.Equal(DepthPrompt{Prompt: "", Depth: 4, Role: "system"}, card.Extensions.DepthPrompt)
}

func TestMapCharacter_EmptyInputStillCompleteCard(t *testing.T) {
	card := MapCharacter(map[string]any{"name": "X"})

	data, err := json.Marshal(card)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	for _, key := range []string{
		"name", "description", "personality", "scenario", "first_mes",
		"mes_example", "creator_notes", "system_prompt", "post_history_instructions",
		"tags", "creator", "character_version", "alternate_greetings",
		"extensions", "group_only_greetings",
	} {
		assert.Contains(t, out, key)
	}
	assert.Equal(t, []any{}, out["tags"])
	assert.Equal(t, "0.5", out["extensions"].(map[string]any)["talkativeness"])
}

func TestMapCharacter_Deterministic(t *testing.T) {
	doc := xoulExport()
	first, err := json.Marshal(MapCharacter(doc))
	require.NoError(t, err)
	second, err := json.Marshal(MapCharacter(doc))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMapCharacterBatch_AccountsForEveryItem(t *testing.T) {
	a := assert.New(t)

	doc := map[string]any{
		"conversation": map[string]any{
			"xouls": []any{
				map[string]any{"name": "Aria", "backstory": "bard"},
				"not a character",
				map[string]any{"slug": "rin-sorc"},
				map[string]any{},
			},
		},
	}

	res := MapCharacterBatch(doc)
	a.Len(res.Items, 3)
	a.Equal(1, res.Failed)
	a.Equal(4, len(res.Items)+res.Failed)

	a.Equal("Aria.json", res.Items[0].FileName)
	a.Equal("rin-sorc.json", res.Items[1].FileName)
	a.Equal("unknown_character_3.json", res.Items[2].FileName)

	// the reduced mapping leaves these always empty
	a.Empty(res.Items[0].Card.Personality)
	a.Empty(res.Items[0].Card.Scenario)
	a.Empty(res.Items[0].Card.FirstMes)
	a.Equal([]any{}, res.Items[0].Card.Tags)
}

func TestWriteBatch(t *testing.T) {
	dir := t.TempDir()

	res := MapCharacterBatch(map[string]any{
		"conversation": map[string]any{
			"xouls": []any{
				map[string]any{"name": "Aria"},
				map[string]any{"name": "Rin"},
			},
		},
	})

	written := WriteBatch(res, dir)
	require.Len(t, written.Items, 2)
	assert.Zero(t, written.Failed)

	data, err := os.ReadFile(filepath.Join(dir, "Aria.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"character_version": "imported"`)
}

func TestWriteBatch_DuplicateNamesNeverOverwrite(t *testing.T) {
	a := assert.New(t)
	dir := t.TempDir()

	res := MapCharacterBatch(map[string]any{
		"conversation": map[string]any{
			"xouls": []any{
				map[string]any{"name": "Aria", "backstory": "first"},
				map[string]any{"name": "Aria", "backstory": "second"},
				map[string]any{"name": "Aria", "backstory": "third"},
			},
		},
	})

	written := WriteBatch(res, dir)
	require.Len(t, written.Items, 3)
	a.Zero(written.Failed)
	a.Equal("Aria.json", written.Items[0].FileName)
	a.Equal("Aria_1.json", written.Items[1].FileName)
	a.Equal("Aria_2.json", written.Items[2].FileName)

	for i, backstory := range []string{"first", "second", "third"} {
		data, err := os.ReadFile(filepath.Join(dir, written.Items[i].FileName))
		require.NoError(t, err)
		assert.Contains(t, string(data), backstory)
	}
}

func TestWriteBatch_ExistingFileGetsSuffix(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Aria.json"), []byte("{}"), 0o644))

	res := MapCharacterBatch(map[string]any{
		"conversation": map[string]any{
			"xouls": []any{map[string]any{"name": "Aria"}},
		},
	})

	written := WriteBatch(res, dir)
	require.Len(t, written.Items, 1)
	assert.Equal(t, "Aria_1.json", written.Items[0].FileName)

	data, err := os.ReadFile(filepath.Join(dir, "Aria.json"))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestTalkativeness(t *testing.T) {
	tests := []struct {
		name string
		doc  map[string]any
		want string
	}{
		{"missing", map[string]any{}, "0.5"},
		{"null", map[string]any{"talkativeness": nil}, "0.5"},
		{"number", map[string]any{"talkativeness": 0.25}, "0.25"},
		{"string", map[string]any{"talkativeness": "0.9"}, "0.9"},
		{"integer-valued", map[string]any{"talkativeness": 1.0}, "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, talkativeness(tt.doc))
		})
	}
}
