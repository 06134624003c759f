package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hyperjump/findword/internal/models"
)

// addQueryFlags registers the flags shared by every query command.
func addQueryFlags(cmd *cobra.Command, serverURL, output *string) {
	cmd.Flags().StringVar(serverURL, "server", defaultServerURL,
		"server URL (empty = use direct storage when no server is running)")
	cmd.Flags().StringVar(output, "output", "text", "output format: text or json")
}

func newLookupCommand() *cobra.Command {
	var serverURL, output string
	cmd := &cobra.Command{
		Use:   "lookup WORD",
		Short: "Show a stored word's part-of-speech entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(output)
			if err != nil {
				return err
			}
			if serverURL != "" {
				info, err := lookupViaHTTP(serverURL, args[0])
				if err != nil {
					return err
				}
				return WriteWordInfo(os.Stdout, *info, format)
			}
			comp, _, logger, err := openDirect()
			if err != nil {
				return err
			}
			defer comp.Close()
			defer logger.Sync()
			entry, err := comp.Engine.Lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return WriteWordInfo(os.Stdout, NewWordInfo(entry), format)
		},
	}
	addQueryFlags(cmd, &serverURL, &output)
	return cmd
}

func newSimilarCommand() *cobra.Command {
	var (
		serverURL string
		output    string
		pos       string
		limit     int
		minSim    float64
	)
	cmd := &cobra.Command{
		Use:   "similar WORD...",
		Short: "Rank corpus words by cosine similarity",
		Long: `Rank stored words by cosine similarity to each given word, most
similar first. With more than one word a ranking is computed per word;
a word that cannot be ranked gets an empty list instead of failing the
whole batch.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(output)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return runSimilarOne(cmd.Context(), serverURL, args[0], pos, limit, minSim, format)
			}
			return runSimilarBatch(cmd.Context(), serverURL, args, pos, limit, minSim, format)
		},
	}
	addQueryFlags(cmd, &serverURL, &output)
	cmd.Flags().StringVar(&pos, "pos", "", "restrict results to a part of speech (noun or verb)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results per word (default from config)")
	cmd.Flags().Float64Var(&minSim, "min-similarity", 0, "drop results below this cosine similarity")
	return cmd
}

func runSimilarOne(ctx context.Context, serverURL, word, pos string, limit int, minSim float64, format OutputFormat) error {
	if serverURL != "" {
		resp, err := similarViaHTTP(serverURL, word, pos, limit, minSim)
		if err != nil {
			return err
		}
		return WriteSimilarResults(os.Stdout, resp, format)
	}
	comp, cfg, logger, err := openDirect()
	if err != nil {
		return err
	}
	defer comp.Close()
	defer logger.Sync()
	query := &models.SimilarityQuery{
		Word:          word,
		POS:           models.POS(pos),
		Limit:         limit,
		MinSimilarity: minSim,
	}
	if query.Limit == 0 && cfg.Search.DefaultLimit > 0 {
		query.Limit = cfg.Search.DefaultLimit
	}
	if err := query.Validate(); err != nil {
		return err
	}
	results, err := comp.Engine.FindSimilar(ctx, query)
	if err != nil {
		return err
	}
	resp := &SimilarResponse{Word: query.Word, Results: results, Count: len(results)}
	return WriteSimilarResults(os.Stdout, resp, format)
}

func runSimilarBatch(ctx context.Context, serverURL string, words []string, pos string, limit int, minSim float64, format OutputFormat) error {
	if serverURL != "" {
		resp, err := batchSimilarViaHTTP(serverURL, words, pos, limit, minSim)
		if err != nil {
			return err
		}
		return WriteBatchSimilarResults(os.Stdout, resp, format)
	}
	comp, cfg, logger, err := openDirect()
	if err != nil {
		return err
	}
	defer comp.Close()
	defer logger.Sync()
	posVal, err := models.ParsePOS(pos)
	if err != nil {
		return err
	}
	if limit == 0 && cfg.Search.DefaultLimit > 0 {
		limit = cfg.Search.DefaultLimit
	}
	if limit < 1 || limit > models.MaxLimit {
		return fmt.Errorf("limit must be between 1 and %d", models.MaxLimit)
	}
	if minSim < 0 || minSim > 1 {
		return fmt.Errorf("min-similarity must be between 0 and 1")
	}
	results, err := comp.Engine.BatchFindSimilar(ctx, words, posVal, limit, minSim)
	if err != nil {
		return err
	}
	resp := &BatchSimilarResponse{Results: results, Count: len(results)}
	return WriteBatchSimilarResults(os.Stdout, resp, format)
}

func newCompareCommand() *cobra.Command {
	var serverURL, output string
	cmd := &cobra.Command{
		Use:   "compare WORD1 WORD2",
		Short: "Compute cosine similarity between two stored words",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(output)
			if err != nil {
				return err
			}
			if serverURL != "" {
				resp, err := compareViaHTTP(serverURL, args[0], args[1])
				if err != nil {
					return err
				}
				return WriteCompareResult(os.Stdout, resp, format)
			}
			comp, _, logger, err := openDirect()
			if err != nil {
				return err
			}
			defer comp.Close()
			defer logger.Sync()
			word1 := models.NormalizeWord(args[0])
			word2 := models.NormalizeWord(args[1])
			sim, err := comp.Engine.Compare(cmd.Context(), word1, word2)
			if err != nil {
				return err
			}
			resp := &CompareResponse{Word1: word1, Word2: word2, Similarity: sim}
			return WriteCompareResult(os.Stdout, resp, format)
		},
	}
	addQueryFlags(cmd, &serverURL, &output)
	return cmd
}

func newSearchCommand() *cobra.Command {
	var (
		serverURL string
		output    string
		pos       string
		exact     bool
		limit     int
	)
	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Find stored words by prefix or exact text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(output)
			if err != nil {
				return err
			}
			if serverURL != "" {
				resp, err := searchViaHTTP(serverURL, args[0], pos, exact, limit)
				if err != nil {
					return err
				}
				return WriteSearchResults(os.Stdout, resp, format)
			}
			comp, cfg, logger, err := openDirect()
			if err != nil {
				return err
			}
			defer comp.Close()
			defer logger.Sync()
			query := &models.SearchQuery{
				Query: args[0],
				POS:   models.POS(pos),
				Exact: exact,
				Limit: limit,
			}
			if query.Limit == 0 && cfg.Search.DefaultLimit > 0 {
				query.Limit = cfg.Search.DefaultLimit
			}
			if err := query.Validate(); err != nil {
				return err
			}
			entries, err := comp.Engine.Search(cmd.Context(), query)
			if err != nil {
				return err
			}
			results := make([]WordInfo, 0, len(entries))
			for _, e := range entries {
				results = append(results, NewWordInfo(e))
			}
			resp := &SearchResponse{Query: query.Query, Results: results, Count: len(results)}
			return WriteSearchResults(os.Stdout, resp, format)
		},
	}
	addQueryFlags(cmd, &serverURL, &output)
	cmd.Flags().StringVar(&pos, "pos", "", "restrict results to a part of speech (noun or verb)")
	cmd.Flags().BoolVar(&exact, "exact", false, "match the whole word instead of a prefix")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results (default from config)")
	return cmd
}
