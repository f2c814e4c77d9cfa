package convert

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/junjidragonfox/soxkit/internal/jsontree"
)

// newWorldEntry returns an entry with the fixed flag set shared by the
// scenario and lorebook conversions.
func newWorldEntry(uid int, comment, content string, constant bool) WorldEntry {
	return WorldEntry{
		UID:            uid,
		Key:            []any{},
		KeySecondary:   []any{},
		Comment:        comment,
		Content:        content,
		Constant:       constant,
		Selective:      true,
		AddMemo:        true,
		Order:          100,
		Probability:    100,
		UseProbability: true,
		Depth:          4,
		GroupWeight:    100,
		DisplayIndex:   uid,
	}
}

// MapScenario converts a standalone scenario export into a single constant
// world entry.
func MapScenario(doc any) WorldBook {
	name := jsontree.StringOr("", doc, "name")
	prompt := jsontree.StringOr("", doc, "prompt")
	familiarity := jsontree.StringOr("", doc, "prompt_spec", "familiarity")
	location := jsontree.StringOr("", doc, "prompt_spec", "location")

	entry := newWorldEntry(0, name, assembleScenarioContent(prompt, familiarity, location), true)
	return WorldBook{Entries: map[string]WorldEntry{"0": entry}}
}

// MapScenarioExtract pulls the scenario out of a chat backup. Familiarity
// and location lines embedded in the prompt text are lifted into the same
// structured block the standalone conversion produces.
func MapScenarioExtract(doc any) WorldBook {
	prompt := ""
	if items, ok := jsontree.Slice(doc, "conversation", "scenario", "prompt"); ok && len(items) > 0 {
		if s, ok := items[0].(string); ok {
			prompt = s
		}
	}

	core, familiarity, location := splitScenarioPrompt(prompt)
	content := strings.TrimSpace(assembleScenarioContent(core, familiarity, location))

	entry := newWorldEntry(0, scenarioExtractComment(doc), content, true)
	return WorldBook{Entries: map[string]WorldEntry{"0": entry}}
}

// LorebookResult collects the converted sections plus the per-section
// failure tally.
type LorebookResult struct {
	Book   WorldBook
	Failed int
	Errors []string
}

// MapLorebook converts each embedded.sections element into a non-constant
// world entry keyed by its string index. Non-object sections are counted as
// failures and skipped.
func MapLorebook(doc any) LorebookResult {
	sections := jsontree.SliceOr(doc, "embedded", "sections")

	res := LorebookResult{Book: WorldBook{Entries: map[string]WorldEntry{}}}
	for i, raw := range sections {
		section, ok := raw.(map[string]any)
		if !ok {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("section %d: not an object", i))
			continue
		}

		entry := newWorldEntry(i,
			jsontree.StringOr("", section, "name"),
			jsontree.StringOr("", section, "text"),
			false)
		entry.Key = jsontree.SliceOr(section, "keywords")
		res.Book.Entries[strconv.Itoa(i)] = entry
	}
	return res
}

// assembleScenarioContent appends the familiarity/location block to the
// prompt. A blank prompt yields just the block; no block yields just the
// prompt.
func assembleScenarioContent(prompt, familiarity, location string) string {
	var lines []string
	if familiarity != "" {
		lines = append(lines, "{{char}} are: "+familiarity)
	}
	if location != "" {
		lines = append(lines, "location: "+location)
	}
	if len(lines) == 0 {
		return prompt
	}
	block := strings.Join(lines, "\n")
	if strings.TrimSpace(prompt) == "" {
		return block
	}
	return prompt + "\n\n" + block
}

// splitScenarioPrompt separates familiarity/location lines from the core
// prompt text. Matching is case-insensitive on the trimmed line prefix.
func splitScenarioPrompt(full string) (core, familiarity, location string) {
	var coreLines []string
	for _, line := range strings.Split(full, "\n") {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)
		switch {
		case strings.HasPrefix(lower, "familiarity:"):
			familiarity = strings.TrimSpace(trimmed[len("familiarity:"):])
		case strings.HasPrefix(lower, "location:"):
			location = strings.TrimSpace(trimmed[len("location:"):])
		default:
			coreLines = append(coreLines, line)
		}
	}
	return strings.Join(coreLines, "\n"), familiarity, location
}

// scenarioExtractComment picks the entry title: the scenario's own name when
// present and non-null, else the conversation name.
func scenarioExtractComment(doc any) string {
	if v, ok := jsontree.Lookup(doc, "conversation", "scenario", "name"); ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return jsontree.StringOr("Unnamed Conversation", doc, "conversation", "name")
}
