package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/hyperjump/findword/internal/ingest"
	"github.com/hyperjump/findword/internal/models"
	"github.com/hyperjump/findword/pkg/utils"
)

func newLoadCommand() *cobra.Command {
	var (
		dryRun    bool
		clearAll  bool
		yes       bool
		limit     int
		chunkSize int
	)
	cmd := &cobra.Command{
		Use:   "load [FILE]",
		Short: "Load the embedded words CSV into storage",
		Long: `Read the embedded words CSV and upsert every valid record into the
store and the keyword index. Bad rows are counted and logged without
aborting the run. FILE defaults to the configured words CSV.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, _, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logger, err := utils.NewLogger(cfg.Debug || debugMode)
			if err != nil {
				return err
			}
			defer logger.Sync()

			path := cfg.Ingest.WordsCSV
			if len(args) > 0 {
				path = args[0]
			}
			if clearAll && dryRun {
				return fmt.Errorf("--clear cannot be combined with --dry-run")
			}

			comp, err := initComponents(cfg, logger)
			if err != nil {
				return err
			}
			defer comp.Close()

			if clearAll {
				if !yes {
					fmt.Print("This will delete all stored words. Type \"yes\" to confirm: ")
					line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
					if strings.TrimSpace(line) != "yes" {
						fmt.Println("Operation cancelled.")
						return nil
					}
				}
				removed, err := comp.Loader.Clear(ctx)
				if err != nil {
					return fmt.Errorf("failed to clear storage: %w", err)
				}
				fmt.Printf("Cleared %d words\n", removed)
			}

			loaderOpts := []ingest.LoaderOption{
				ingest.WithIndex(comp.Index),
				ingest.WithLogger(logger),
			}
			if cfg.Ingest.ErrorLog != "" {
				errLogger, err := utils.NewFileLogger(cfg.Ingest.ErrorLog)
				if err != nil {
					return fmt.Errorf("failed to open error log: %w", err)
				}
				defer errLogger.Sync()
				loaderOpts = append(loaderOpts, ingest.WithErrorLog(errLogger))
			}
			loader := ingest.NewLoader(comp.Store, loaderOpts...)

			mode := models.LoadApply
			if dryRun {
				mode = models.LoadDryRun
			}
			chunk := chunkSize
			if chunk == 0 {
				chunk = cfg.Ingest.ChunkSize
			}

			// Total is only known once the CSV is parsed, so the bar is
			// created on the first progress call.
			var bar *progressbar.ProgressBar
			progress := func(done, total int) {
				if bar == nil {
					bar = newProgressBar(total, "Loading")
				}
				_ = bar.Set(done)
			}

			report, err := loader.LoadFile(ctx, path, ingest.LoadOptions{
				Mode:      mode,
				Limit:     limit,
				ChunkSize: chunk,
				Progress:  progress,
			})
			if bar != nil {
				_ = bar.Finish()
			}
			if report != nil {
				// A canceled run still prints its partial counts.
				WriteLoadReport(os.Stdout, report)
			}
			if err != nil {
				return fmt.Errorf("load failed: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview changes without writing to storage")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "delete all stored words before loading")
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the --clear confirmation prompt")
	cmd.Flags().IntVar(&limit, "limit", 0, "load at most N valid records (0 = all)")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "keyword index batch size (default from config)")
	return cmd
}
