// Package convert maps XoulAI export documents onto TavernAI-shaped output
// documents. Every mapper is a pure function over an untyped JSON tree;
// missing or mistyped source fields fall back to defaults and never abort a
// conversion.
package convert

import "github.com/pkg/errors"

// Kind identifies one conversion.
type Kind string

const (
	KindCharacter       Kind = "character"
	KindCharacterBatch  Kind = "character-batch"
	KindPersonaAdd      Kind = "persona-add"
	KindScenario        Kind = "scenario"
	KindScenarioExtract Kind = "scenario-extract"
	KindLorebook        Kind = "lorebook"
	KindChatSingle      Kind = "chat-single"
	KindChatMulti       Kind = "chat-multi"
)

// MessageLocation says where a chat export keeps its messages array. The
// upstream exporter produced both shapes depending on tool version, so this
// is configuration rather than a guess.
type MessageLocation string

const (
	// LocAuto tries the document top level first, then conversation.messages.
	LocAuto         MessageLocation = "auto"
	LocTop          MessageLocation = "top"
	LocConversation MessageLocation = "conversation"
)

// ParseMessageLocation validates a configured location string.
func ParseMessageLocation(s string) (MessageLocation, error) {
	switch MessageLocation(s) {
	case LocAuto, LocTop, LocConversation:
		return MessageLocation(s), nil
	}
	return "", errors.Errorf("invalid message location %q: must be auto, top or conversation", s)
}
