package convert

import (
	"fmt"

	"github.com/junjidragonfox/soxkit/internal/jsontree"
)

// ChatResult is the converted transcript plus the per-message failure tally.
// Converted+Failed always equals the number of source messages.
type ChatResult struct {
	Messages []ChatMessage
	Failed   int
	Errors   []string
}

// GroupChatResult is the multi-character equivalent of ChatResult.
type GroupChatResult struct {
	Messages []GroupChatMessage
	Failed   int
	Errors   []string
}

// MapChatSingle converts a one-on-one chat backup into transcript lines.
// The speaker names come from the first persona and first xoul; messages
// with an unknown role are skipped and counted as failures rather than
// silently attributed to someone.
func MapChatSingle(doc any, loc MessageLocation) ChatResult {
	username := firstName(doc, "personas", "User")
	characterName := firstName(doc, "xouls", "Character")

	var res ChatResult
	for i, raw := range messagesOf(doc, loc) {
		msg, ok := raw.(map[string]any)
		if !ok {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("message %d: not an object", i))
			continue
		}

		var name string
		var isUser, isSystem bool
		switch role := jsontree.StringOr("", msg, "role"); role {
		case "user":
			name, isUser = username, true
		case "assistant":
			name = characterName
		case "system":
			name, isSystem = "System", true
		default:
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("message %d: unexpected role %q", i, role))
			continue
		}

		res.Messages = append(res.Messages, ChatMessage{
			Name:     name,
			IsUser:   isUser,
			IsSystem: isSystem,
			SendDate: NormalizeTimestamp(msg["timestamp"]),
			Mes:      jsontree.StringOr("", msg, "content"),
		})
	}
	return res
}

// MapChatMulti converts a group chat backup. Author identity comes from each
// message itself; the avatar URL is resolved against the conversation's
// personas (user authors) or xouls (llm authors).
func MapChatMulti(doc any, loc MessageLocation) GroupChatResult {
	personas := jsontree.SliceOr(doc, "conversation", "personas")
	xouls := jsontree.SliceOr(doc, "conversation", "xouls")

	var res GroupChatResult
	for i, raw := range messagesOf(doc, loc) {
		msg, ok := raw.(map[string]any)
		if !ok {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("message %d: not an object", i))
			continue
		}

		authorName := jsontree.StringOr("", msg, "author_name")
		authorType := jsontree.StringOr("", msg, "author_type")
		timestamp, hasTimestamp := jsontree.Lookup(msg, "timestamp")
		content, hasContent := jsontree.String(msg, "content")

		if authorName == "" || authorType == "" || !hasTimestamp || timestamp == nil || !hasContent {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("message %d: missing author, timestamp or content", i))
			continue
		}

		var avatar *string
		switch authorType {
		case "user":
			avatar = findIconURL(personas, authorName)
		case "llm":
			avatar = findIconURL(xouls, authorName)
		}

		res.Messages = append(res.Messages, GroupChatMessage{
			Name:        authorName,
			IsUser:      authorType == "user",
			IsSystem:    authorType == "system",
			SendDate:    NormalizeTimestamp(timestamp),
			Mes:         content,
			ForceAvatar: avatar,
		})
	}
	return res
}

// messagesOf resolves the messages array per the configured location. Auto
// tries the top level first and falls back to conversation.messages.
func messagesOf(doc any, loc MessageLocation) []any {
	switch loc {
	case LocTop:
		return jsontree.SliceOr(doc, "messages")
	case LocConversation:
		return jsontree.SliceOr(doc, "conversation", "messages")
	default:
		if msgs, ok := jsontree.Slice(doc, "messages"); ok {
			return msgs
		}
		return jsontree.SliceOr(doc, "conversation", "messages")
	}
}

// firstName reads the name of the first entry of a conversation list,
// tolerating empty lists and non-object entries.
func firstName(doc any, listKey, def string) string {
	entries := jsontree.SliceOr(doc, "conversation", listKey)
	if len(entries) == 0 {
		return def
	}
	return jsontree.StringOr(def, entries[0], "name")
}

// findIconURL scans a persona/xoul list for the entry with the given name
// and returns its icon URL, or nil when no entry matches.
func findIconURL(entries []any, name string) *string {
	for _, raw := range entries {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if jsontree.StringOr("", entry, "name") != name {
			continue
		}
		if icon, ok := jsontree.String(entry, "icon_url"); ok {
			return &icon
		}
		return nil
	}
	return nil
}
