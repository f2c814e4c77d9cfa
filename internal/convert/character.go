package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/junjidragonfox/soxkit/internal/jsonio"
	"github.com/junjidragonfox/soxkit/internal/jsontree"
)

// MapCharacter converts a single Xoul export into a full character card.
// Every card field is present in the output even when the source field is
// absent.
func MapCharacter(doc any) CharacterCard {
	return CharacterCard{
		Name:               jsontree.StringOr("", doc, "name"),
		Description:        jsontree.StringOr("", doc, "backstory"),
		Personality:        jsontree.StringOr("", doc, "definition"),
		Scenario:           jsontree.StringOr("", doc, "default_scenario"),
		FirstMes:           jsontree.StringOr("", doc, "greeting"),
		MesExample:         jsontree.StringOr("", doc, "samples"),
		CreatorNotes:       jsontree.StringOr("", doc, "bio"),
		Tags:               jsontree.SliceOr(doc, "social_tags"),
		Creator:            jsontree.StringOr("", doc, "slug"),
		CharacterVersion:   "imported",
		AlternateGreetings: []string{},
		Extensions:         defaultExtensions(doc),
		GroupOnlyGreetings: []string{},
	}
}

// BatchItem is one successfully mapped character from a chat backup plus the
// filename it should be written under.
type BatchItem struct {
	Card     CharacterCard
	FileName string
}

// BatchResult accounts for every element of the source list: each one is
// either an item or a counted failure.
type BatchResult struct {
	Items  []BatchItem
	Failed int
	Errors []string
}

// MapCharacterBatch converts each entry of conversation.xouls into a reduced
// character card. Non-object entries are skipped and counted as failures.
func MapCharacterBatch(doc any) BatchResult {
	xouls := jsontree.SliceOr(doc, "conversation", "xouls")

	var res BatchResult
	for i, raw := range xouls {
		char, ok := raw.(map[string]any)
		if !ok {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("item %d: not an object", i))
			continue
		}

		card := CharacterCard{
			Name:               jsontree.StringOr("", char, "name"),
			Description:        jsontree.StringOr("", char, "backstory"),
			MesExample:         jsontree.StringOr("", char, "samples"),
			CreatorNotes:       jsontree.StringOr("", char, "bio"),
			Tags:               []any{},
			Creator:            jsontree.StringOr("", char, "slug"),
			CharacterVersion:   "imported",
			AlternateGreetings: []string{},
			Extensions:         defaultExtensions(char),
			GroupOnlyGreetings: []string{},
		}

		res.Items = append(res.Items, BatchItem{
			Card:     card,
			FileName: batchFileName(char, i),
		})
	}
	return res
}

// WriteBatch saves every mapped card into dir. Write failures are folded
// into the result so saved+failed still accounts for the whole input list.
// Duplicate names within the batch and existing files in dir get an
// incrementing suffix; nothing is ever overwritten. Each returned item
// carries the filename actually written.
func WriteBatch(res BatchResult, dir string) BatchResult {
	out := BatchResult{Failed: res.Failed, Errors: append([]string(nil), res.Errors...)}
	for _, item := range res.Items {
		path, err := collisionFreePath(dir, item.FileName)
		if err == nil {
			err = jsonio.Save(item.Card, path, true)
		}
		if err != nil {
			out.Failed++
			out.Errors = append(out.Errors, fmt.Sprintf("%s: %v", item.FileName, err))
			continue
		}
		item.FileName = filepath.Base(path)
		out.Items = append(out.Items, item)
	}
	return out
}

// collisionFreePath appends _1, _2, ... before the extension until the
// name is free in dir.
func collisionFreePath(dir, fileName string) (string, error) {
	path := filepath.Join(dir, fileName)
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		} else if err != nil {
			return "", err
		}
		path = fmt.Sprintf("%s_%d%s", base, counter, ext)
	}
}

func batchFileName(char map[string]any, index int) string {
	name := jsontree.StringOr("", char, "name")
	if name == "" {
		name = jsontree.StringOr("", char, "slug")
	}
	if name == "" {
		name = fmt.Sprintf("unknown_character_%d", index)
	}
	return SanitizeBase(name, fmt.Sprintf("character_%d", index)) + ".json"
}

func defaultExtensions(doc any) CardExtensions {
	return CardExtensions{
		Talkativeness: talkativeness(doc),
		DepthPrompt:   DepthPrompt{Depth: 4, Role: "system"},
	}
}

// talkativeness stringifies whatever the export holds, defaulting to "0.5".
func talkativeness(doc any) string {
	v, ok := jsontree.Lookup(doc, "talkativeness")
	if !ok || v == nil {
		return "0.5"
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}
