package convert

import (
	"crypto/md5"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/junjidragonfox/soxkit/internal/jsontree"
)

// Characters allowed in a filename derived from user-controlled text. Word
// characters, hyphen, dot and space survive; spaces then become underscores.
var unsafeNameChars = regexp.MustCompile(`[^\w\-. ]`)

// SanitizeBase strips name down to a safe filename base. When nothing
// survives sanitization the fallback is returned instead, so the result is
// never empty.
func SanitizeBase(name, fallback string) string {
	base := unsafeNameChars.ReplaceAllString(name, "")
	base = strings.ReplaceAll(base, " ", "_")
	if base == "" {
		return fallback
	}
	return base
}

// PersonaKey derives the avatar-image key a persona is filed under in a
// TavernAI backup. Unsafe characters are masked with underscores; if the
// result is empty or would be a dotfile, the key falls back to a digest of
// the original name.
func PersonaKey(name string) string {
	base := unsafeNameChars.ReplaceAllString(name, "_")
	base = strings.ReplaceAll(base, " ", "_")
	if base == "" || strings.HasPrefix(base, ".") {
		sum := md5.Sum([]byte(name))
		base = fmt.Sprintf("persona_%x", sum[:4])
	}
	return base + ".png"
}

// DefaultOutputName suggests an output filename for a conversion, mirroring
// the names the upstream tools proposed in their save dialogs.
func DefaultOutputName(kind Kind, doc any, inputPath string) string {
	inputBase := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	switch kind {
	case KindCharacter:
		name := jsontree.StringOr("", doc, "name")
		if name == "" {
			name = jsontree.StringOr("", doc, "slug")
		}
		if name == "" {
			name = "transformed_character"
		}
		return SanitizeBase(name, "transformed_character") + ".json"
	case KindScenario:
		return SanitizeBase(jsontree.StringOr("", doc, "name"), "converted_scenario") + ".json"
	case KindScenarioExtract:
		return SanitizeBase(scenarioExtractComment(doc), "extracted_scenario") + ".json"
	case KindLorebook:
		if inputBase == "" {
			return "converted_lorebook.json"
		}
		return inputBase + "_world.json"
	case KindChatSingle:
		if inputBase == "" {
			return "converted_chat.jsonl"
		}
		return inputBase + ".jsonl"
	case KindChatMulti:
		name := SanitizeBase(jsontree.StringOr("group_chat", doc, "conversation", "name"), "")
		if name == "" {
			return "converted_group_chat.jsonl"
		}
		return name + "_converted.jsonl"
	case KindPersonaAdd:
		if inputBase == "" {
			return "modified_persona_backup.json"
		}
		return inputBase + "_modified.json"
	}
	return inputBase + "_converted.json"
}

// FormatDetails joins failure messages for display, capping the list at
// limit entries and noting the truncation.
func FormatDetails(msgs []string, limit int) string {
	if len(msgs) == 0 {
		return ""
	}
	shown := msgs
	truncated := false
	if limit > 0 && len(msgs) > limit {
		shown = msgs[:limit]
		truncated = true
	}
	out := strings.Join(shown, "\n")
	if truncated {
		out += "\n..."
	}
	return out
}
