package main

import (
	"fmt"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/junjidragonfox/soxkit/internal/convert"
	"github.com/junjidragonfox/soxkit/internal/jsonio"
)

var (
	outPath      string
	outDir       string
	messagesFlag string
)

func init() {
	for _, cmd := range []*cobra.Command{
		characterCmd, personaCmd, scenarioCmd, scenarioExtractCmd,
		lorebookCmd, chatCmd, chatMultiCmd,
	} {
		cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default derived from the input)")
		rootCmd.AddCommand(cmd)
	}
	charactersCmd.Flags().StringVarP(&outDir, "out-dir", "d", ".", "directory for the converted cards")
	rootCmd.AddCommand(charactersCmd)

	for _, cmd := range []*cobra.Command{chatCmd, chatMultiCmd} {
		cmd.Flags().StringVar(&messagesFlag, "messages", "", "where the export keeps messages: auto, top or conversation")
	}
}

// loadInput reads one export document and checks it has the shape the
// conversion expects before any mapping runs.
func loadInput(path string, kind convert.Kind) (any, error) {
	doc, err := jsonio.Load(path)
	if err != nil {
		return nil, err
	}
	if !convert.Valid(kind, doc) {
		return nil, errors.Errorf("%s does not look like a %s export", path, kind)
	}
	return doc, nil
}

func outputPath(kind convert.Kind, doc any, inputPath string) string {
	if outPath != "" {
		return outPath
	}
	return convert.DefaultOutputName(kind, doc, inputPath)
}

func messageLocation() (convert.MessageLocation, error) {
	if messagesFlag != "" {
		return convert.ParseMessageLocation(messagesFlag)
	}
	return cfg.Location()
}

// reportSkips prints the skipped-item summary shared by the lossy
// conversions. A clean run prints nothing.
func reportSkips(failed int, msgs []string) {
	if failed == 0 {
		return
	}
	fmt.Printf("skipped %d item(s):\n%s\n", failed, convert.FormatDetails(msgs, cfg.ErrorDetailLimit))
}

var characterCmd = &cobra.Command{
	Use:   "character <export.json>",
	Short: "Convert a single character export into a TavernAI card",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadInput(args[0], convert.KindCharacter)
		if err != nil {
			return err
		}
		card := convert.MapCharacter(doc)
		dest := outputPath(convert.KindCharacter, doc, args[0])
		if err := jsonio.Save(card, dest, true); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", dest)
		return nil
	},
}

var charactersCmd = &cobra.Command{
	Use:   "characters <backup.json>",
	Short: "Convert every character in a chat backup into its own card",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadInput(args[0], convert.KindCharacterBatch)
		if err != nil {
			return err
		}
		res := convert.WriteBatch(convert.MapCharacterBatch(doc), outDir)
		fmt.Printf("converted %d character(s) into %s\n", len(res.Items), outDir)
		reportSkips(res.Failed, res.Errors)
		return nil
	},
}

var personaCmd = &cobra.Command{
	Use:   "persona <backup.json> <persona.json>",
	Short: "Add a persona export into a persona backup",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		backup, err := jsonio.Load(args[0])
		if err != nil {
			return err
		}
		if !convert.ValidPersonaBackup(backup) {
			return errors.Errorf("%s does not look like a persona backup", args[0])
		}
		persona, err := jsonio.Load(args[1])
		if err != nil {
			return err
		}
		if !convert.ValidPersonaSource(persona) {
			return errors.Errorf("%s does not look like a persona export", args[1])
		}
		merged := convert.PersonaAdd(backup, persona)
		dest := outputPath(convert.KindPersonaAdd, backup, args[0])
		if err := jsonio.Save(merged, dest, true); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", dest)
		return nil
	},
}

var scenarioCmd = &cobra.Command{
	Use:   "scenario <export.json>",
	Short: "Convert a scenario export into a world info book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadInput(args[0], convert.KindScenario)
		if err != nil {
			return err
		}
		book := convert.MapScenario(doc)
		dest := outputPath(convert.KindScenario, doc, args[0])
		if err := jsonio.Save(book, dest, true); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", dest)
		return nil
	},
}

var scenarioExtractCmd = &cobra.Command{
	Use:   "scenario-extract <backup.json>",
	Short: "Extract the embedded scenario from a chat backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadInput(args[0], convert.KindScenarioExtract)
		if err != nil {
			return err
		}
		book := convert.MapScenarioExtract(doc)
		dest := outputPath(convert.KindScenarioExtract, doc, args[0])
		if err := jsonio.Save(book, dest, true); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", dest)
		return nil
	},
}

var lorebookCmd = &cobra.Command{
	Use:   "lorebook <export.json>",
	Short: "Convert a lorebook export into a world info book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadInput(args[0], convert.KindLorebook)
		if err != nil {
			return err
		}
		res := convert.MapLorebook(doc)
		dest := outputPath(convert.KindLorebook, doc, args[0])
		if err := jsonio.Save(res.Book, dest, true); err != nil {
			return err
		}
		fmt.Printf("wrote %s with %d entries\n", dest, len(res.Book.Entries))
		reportSkips(res.Failed, res.Errors)
		return nil
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat <backup.json>",
	Short: "Convert a one-on-one chat backup into a SillyTavern transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadInput(args[0], convert.KindChatSingle)
		if err != nil {
			return err
		}
		loc, err := messageLocation()
		if err != nil {
			return err
		}
		res := convert.MapChatSingle(doc, loc)
		dest := outputPath(convert.KindChatSingle, doc, args[0])
		lines := make([]any, len(res.Messages))
		for i, m := range res.Messages {
			lines[i] = m
		}
		if err := jsonio.SaveLines(lines, dest); err != nil {
			return err
		}
		slog.Debug("chat converted", "messages", len(res.Messages), "skipped", res.Failed)
		fmt.Printf("wrote %s with %d message(s)\n", dest, len(res.Messages))
		reportSkips(res.Failed, res.Errors)
		return nil
	},
}

var chatMultiCmd = &cobra.Command{
	Use:   "chat-multi <backup.json>",
	Short: "Convert a group chat backup into a SillyTavern group transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadInput(args[0], convert.KindChatMulti)
		if err != nil {
			return err
		}
		loc, err := messageLocation()
		if err != nil {
			return err
		}
		res := convert.MapChatMulti(doc, loc)
		dest := outputPath(convert.KindChatMulti, doc, args[0])
		lines := make([]any, len(res.Messages))
		for i, m := range res.Messages {
			lines[i] = m
		}
		if err := jsonio.SaveLines(lines, dest); err != nil {
			return err
		}
		fmt.Printf("wrote %s with %d message(s)\n", dest, len(res.Messages))
		reportSkips(res.Failed, res.Errors)
		return nil
	},
}
