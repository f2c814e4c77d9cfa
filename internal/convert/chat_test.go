package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleChatDoc() map[string]any {
	return map[string]any{
		"messages": []any{
			map[string]any{"role": "user", "content": "hi", "timestamp": "2025-04-01T18:30:00Z"},
			map[string]any{"role": "assistant", "content": "hello there"},
			map[string]any{"role": "system", "content": "scene change"},
			map[string]any{"role": "narrator", "content": "skipped"},
			"not an object",
		},
		"conversation": map[string]any{
			"personas": []any{map[string]any{"name": "Junji"}},
			"xouls":    []any{map[string]any{"name": "Aria"}},
		},
	}
}

func TestMapChatSingle(t *testing.T) {
	a := assert.New(t)

	res := MapChatSingle(singleChatDoc(), LocAuto)
	a.Len(res.Messages, 3)
	a.Equal(2, res.Failed)
	a.Equal(5, len(res.Messages)+res.Failed)

	user := res.Messages[0]
	a.Equal("Junji", user.Name)
	a.True(user.IsUser)
	a.False(user.IsSystem)
	a.Equal("hi", user.Mes)
	a.NotEmpty(user.SendDate)

	char := res.Messages[1]
	a.Equal("Aria", char.Name)
	a.False(char.IsUser)
	a.Empty(char.SendDate) // no timestamp on the source message

	sys := res.Messages[2]
	a.Equal("System", sys.Name)
	a.True(sys.IsSystem)
	a.False(sys.IsUser)
}

func TestMapChatSingle_DefaultNames(t *testing.T) {
	doc := map[string]any{
		"messages": []any{
			map[string]any{"role": "user", "content": "a"},
			map[string]any{"role": "assistant", "content": "b"},
		},
		"conversation": map[string]any{"personas": []any{}, "xouls": []any{}},
	}

	res := MapChatSingle(doc, LocAuto)
	require.Len(t, res.Messages, 2)
	assert.Equal(t, "User", res.Messages[0].Name)
	assert.Equal(t, "Character", res.Messages[1].Name)
}

func TestMapChatSingle_NestedMessages(t *testing.T) {
	doc := map[string]any{
		"conversation": map[string]any{
			"messages": []any{map[string]any{"role": "user", "content": "nested"}},
			"personas": []any{map[string]any{"name": "P"}},
			"xouls":    []any{map[string]any{"name": "X"}},
		},
	}

	// auto falls back to conversation.messages
	res := MapChatSingle(doc, LocAuto)
	require.Len(t, res.Messages, 1)
	assert.Equal(t, "nested", res.Messages[0].Mes)

	// forcing top level finds nothing
	assert.Empty(t, MapChatSingle(doc, LocTop).Messages)

	// forcing conversation works too
	assert.Len(t, MapChatSingle(doc, LocConversation).Messages, 1)
}

func multiChatDoc() map[string]any {
	return map[string]any{
		"messages": []any{
			map[string]any{
				"author_name": "Junji", "author_type": "user",
				"timestamp": "2025-04-01T18:30:00+00:00", "content": "hi all",
			},
			map[string]any{
				"author_name": "Aria", "author_type": "llm",
				"timestamp": "2025-04-01T18:31:00+00:00", "content": "greetings",
			},
			map[string]any{
				"author_name": "Ghost", "author_type": "llm",
				"timestamp": "2025-04-01T18:32:00+00:00", "content": "boo",
			},
			map[string]any{"author_name": "NoType", "timestamp": "x", "content": "dropped"},
			map[string]any{"author_name": "NoContent", "author_type": "user", "timestamp": "x"},
		},
		"conversation": map[string]any{
			"personas": []any{
				map[string]any{"name": "Junji", "icon_url": "https://cdn.test/junji.png"},
			},
			"xouls": []any{
				map[string]any{"name": "Aria", "icon_url": "https://cdn.test/aria.png"},
			},
		},
	}
}

func TestMapChatMulti(t *testing.T) {
	a := assert.New(t)

	res := MapChatMulti(multiChatDoc(), LocAuto)
	a.Len(res.Messages, 3)
	a.Equal(2, res.Failed)
	a.Equal(5, len(res.Messages)+res.Failed)

	user := res.Messages[0]
	a.Equal("Junji", user.Name)
	a.True(user.IsUser)
	require.NotNil(t, user.ForceAvatar)
	a.Equal("https://cdn.test/junji.png", *user.ForceAvatar)

	llm := res.Messages[1]
	a.Equal("Aria", llm.Name)
	a.False(llm.IsUser)
	require.NotNil(t, llm.ForceAvatar)
	a.Equal("https://cdn.test/aria.png", *llm.ForceAvatar)

	// author not present in the xouls list gets a null avatar
	a.Nil(res.Messages[2].ForceAvatar)
}

func TestMapChatMulti_EmptyContentKept(t *testing.T) {
	doc := map[string]any{
		"messages": []any{
			map[string]any{"author_name": "A", "author_type": "user", "timestamp": 1700000000.0, "content": ""},
		},
		"conversation": map[string]any{"personas": []any{}, "xouls": []any{}},
	}

	res := MapChatMulti(doc, LocAuto)
	require.Len(t, res.Messages, 1)
	assert.Zero(t, res.Failed)
	assert.Empty(t, res.Messages[0].Mes)
}
