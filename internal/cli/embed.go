package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hyperjump/findword/internal/embedding"
	"github.com/hyperjump/findword/internal/ingest"
	"github.com/hyperjump/findword/pkg/utils"
)

func newEmbedCommand() *cobra.Command {
	var inputPath, modelPath, outputPath string
	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Attach pretrained vectors to classified words",
		Long: `Read the classified words CSV, look each word up in the pretrained
.vec model, and write the embedded words CSV. Out-of-vocabulary words
are dropped and reported.`,
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

			in := inputPath
			if in == "" {
				in = cfg.Ingest.ClassifiedCSV
			}
			model := modelPath
			if model == "" {
				model = cfg.Model.Path
			}
			out := outputPath
			if out == "" {
				out = cfg.Ingest.WordsCSV
			}

			records, err := ingest.ReadClassifiedCSV(in)
			if err != nil {
				return fmt.Errorf("failed to read classified words: %w", err)
			}
			if len(records) == 0 {
				return fmt.Errorf("no words found in %s", in)
			}

			// Only the classified vocabulary is kept in memory; the full
			// model is far larger than the corpus.
			wanted := make(map[string]struct{}, len(records))
			for _, r := range records {
				wanted[r.Word] = struct{}{}
			}
			fmt.Printf("Loading model %s...\n", model)
			vecModel, err := embedding.LoadVecFile(model, wanted, logger)
			if err != nil {
				return fmt.Errorf("failed to load model: %w", err)
			}

			bar := newProgressBar(len(records), "Embedding")
			attacher := ingest.NewAttacher(vecModel, logger)
			embedded, stats := attacher.Attach(records, func(done, total int) {
				_ = bar.Set(done)
			})
			_ = bar.Finish()

			if len(embedded) == 0 {
				return fmt.Errorf("no words from %s were found in the model", in)
			}
			if err := ingest.WriteEmbeddedCSV(out, embedded); err != nil {
				return fmt.Errorf("failed to write embedded words: %w", err)
			}
			WriteAttachStats(os.Stdout, stats)
			fmt.Printf("\nWrote %d embedded words to %s\n", len(embedded), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&inputPath, "input", "", "classified words CSV path (default from config)")
	cmd.Flags().StringVar(&modelPath, "model", "", "pretrained .vec model path (default from config)")
	cmd.Flags().StringVar(&outputPath, "output", "", "embedded words CSV path (default from config)")
	return cmd
}
