package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hyperjump/findword/internal/ingest"
	"github.com/hyperjump/findword/pkg/utils"
)

func newClassifyCommand() *cobra.Command {
	var inputDir, outputPath string
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Scan raw word lists and write the classified words CSV",
		Long: `Scan a directory of "pos=...,lang=...,length=....txt" word lists, keep
English nouns and verbs, and write one row per distinct word with its
unioned POS flags.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logger, err := utils.NewLogger(cfg.Debug || debugMode)
			if err != nil {
				return err
			}
			defer logger.Sync()

			in := inputDir
			if in == "" {
				in = cfg.Ingest.RawWordsDir
			}
			out := outputPath
			if out == "" {
				out = cfg.Ingest.ClassifiedCSV
			}

			classifier := ingest.NewClassifier(logger)
			records, stats, err := classifier.Classify(in)
			if err != nil {
				return fmt.Errorf("classification failed: %w", err)
			}
			if err := ingest.WriteClassifiedCSV(out, records); err != nil {
				return fmt.Errorf("failed to write classified words: %w", err)
			}
			WriteClassifyStats(os.Stdout, stats)
			fmt.Printf("\nWrote %d words to %s\n", len(records), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&inputDir, "input", "", "raw word list directory (default from config)")
	cmd.Flags().StringVar(&outputPath, "output", "", "classified words CSV path (default from config)")
	return cmd
}
