package convert

// CharacterCard is the TavernAI character card schema. Field order matches
// the card format so saved files diff cleanly against cards from other tools.
type CharacterCard struct {
	Name                    string         `json:"name"`
	Description             string         `json:"description"`
	Personality             string         `json:"personality"`
	Scenario                string         `json:"scenario"`
	FirstMes                string         `json:"first_mes"`
	MesExample              string         `json:"mes_example"`
	CreatorNotes            string         `json:"creator_notes"`
	SystemPrompt            string         `json:"system_prompt"`
	PostHistoryInstructions string         `json:"post_history_instructions"`
	Tags                    []any          `json:"tags"`
	Creator                 string         `json:"creator"`
	CharacterVersion        string         `json:"character_version"`
	AlternateGreetings      []string       `json:"alternate_greetings"`
	Extensions              CardExtensions `json:"extensions"`
	GroupOnlyGreetings      []string       `json:"group_only_greetings"`
}

// CardExtensions holds the extension block every card carries.
type CardExtensions struct {
	Talkativeness string      `json:"talkativeness"`
	Fav           bool        `json:"fav"`
	World         string      `json:"world"`
	DepthPrompt   DepthPrompt `json:"depth_prompt"`
}

// DepthPrompt is always emitted with these defaults; no source field maps
// onto it.
type DepthPrompt struct {
	Prompt string `json:"prompt"`
	Depth  int    `json:"depth"`
	Role   string `json:"role"`
}

// WorldBook wraps world/lorebook entries keyed by their string index.
type WorldBook struct {
	Entries map[string]WorldEntry `json:"entries"`
}

// WorldEntry is the TavernAI world-info entry schema. Most fields are fixed
// feature flags the converters never vary; only uid, key, comment, content,
// constant and displayIndex differ between conversions.
type WorldEntry struct {
	UID                 int    `json:"uid"`
	Key                 []any  `json:"key"`
	KeySecondary        []any  `json:"keysecondary"`
	Comment             string `json:"comment"`
	Content             string `json:"content"`
	Constant            bool   `json:"constant"`
	Vectorized          bool   `json:"vectorized"`
	Selective           bool   `json:"selective"`
	SelectiveLogic      int    `json:"selectiveLogic"`
	AddMemo             bool   `json:"addMemo"`
	Order               int    `json:"order"`
	Position            int    `json:"position"`
	Disable             bool   `json:"disable"`
	ExcludeRecursion    bool   `json:"excludeRecursion"`
	PreventRecursion    bool   `json:"preventRecursion"`
	DelayUntilRecursion bool   `json:"delayUntilRecursion"`
	Probability         int    `json:"probability"`
	UseProbability      bool   `json:"useProbability"`
	Depth               int    `json:"depth"`
	Group               string `json:"group"`
	GroupOverride       bool   `json:"groupOverride"`
	GroupWeight         int    `json:"groupWeight"`
	ScanDepth           any    `json:"scanDepth"`
	CaseSensitive       any    `json:"caseSensitive"`
	MatchWholeWords     any    `json:"matchWholeWords"`
	UseGroupScoring     any    `json:"useGroupScoring"`
	AutomationID        string `json:"automationId"`
	Role                any    `json:"role"`
	Sticky              int    `json:"sticky"`
	Cooldown            int    `json:"cooldown"`
	Delay               int    `json:"delay"`
	DisplayIndex        int    `json:"displayIndex"`
}

// ChatMessage is one line of a TavernAI chat transcript.
type ChatMessage struct {
	Name     string `json:"name"`
	IsUser   bool   `json:"is_user"`
	IsSystem bool   `json:"is_system"`
	SendDate string `json:"send_date"`
	Mes      string `json:"mes"`
}

// GroupChatMessage is a transcript line from a multi-character chat. The
// avatar URL is null when the author could not be matched to a persona or
// xoul entry.
type GroupChatMessage struct {
	Name        string  `json:"name"`
	IsUser      bool    `json:"is_user"`
	IsSystem    bool    `json:"is_system"`
	SendDate    string  `json:"send_date"`
	Mes         string  `json:"mes"`
	ForceAvatar *string `json:"force_avatar"`
}
