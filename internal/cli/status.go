package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hyperjump/findword/internal/store"
)

func newStatusCommand() *cobra.Command {
	var serverURL, output string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show corpus and storage status",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(output)
			if err != nil {
				return err
			}
			if serverURL != "" {
				resp, err := statusViaHTTP(serverURL)
				if err != nil {
					return err
				}
				return WriteStatus(os.Stdout, resp, format)
			}
			ctx := cmd.Context()
			comp, cfg, logger, err := openDirect()
			if err != nil {
				return err
			}
			defer comp.Close()
			defer logger.Sync()

			stats, err := comp.Engine.Stats(ctx)
			if err != nil {
				return fmt.Errorf("failed to read store stats: %w", err)
			}
			resp := &StatusResponse{
				Words: stats.Total,
				Nouns: stats.NounCount,
				Verbs: stats.VerbCount,
				Both:  stats.BothCount,
			}
			if entries, err := comp.Engine.List(ctx, 0, 1); err == nil && len(entries) == 1 {
				resp.Dimension = len(entries[0].Embedding)
			}
			if n, err := comp.Index.DocCount(); err == nil {
				resp.IndexDocs = &n
			}
			if usage, err := store.DiskUsageBytes(cfg.Storage.DatabasePath, cfg.Storage.IndexPath); err == nil {
				resp.DiskUsageBytes = &usage
			}
			resp.Config = &StatusConfig{
				Backend:      cfg.Storage.Backend,
				DatabasePath: cfg.Storage.DatabasePath,
				IndexPath:    cfg.Storage.IndexPath,
				ModelPath:    cfg.Model.Path,
				WordsCSV:     cfg.Ingest.WordsCSV,
				WatchEnabled: cfg.Watch.EnabledOrDefault(),
			}
			return WriteStatus(os.Stdout, resp, format)
		},
	}
	addQueryFlags(cmd, &serverURL, &output)
	return cmd
}
