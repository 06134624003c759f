// Package cli implements the findword command tree and its output helpers.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/hyperjump/findword/internal/models"
	"github.com/hyperjump/findword/pkg/utils"
)

// OutputFormat is the format for query command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat validates an --output flag value. The empty string
// means text.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case OutputText, "":
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	default:
		return OutputText, fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

// WordInfo is one word entry as the API returns it. Embeddings stay
// server-side; callers see the word, its POS flags, and derived labels.
type WordInfo struct {
	Word          string   `json:"word"`
	IsNoun        bool     `json:"is_noun"`
	IsVerb        bool     `json:"is_verb"`
	PartsOfSpeech []string `json:"parts_of_speech"`
}

// NewWordInfo builds the CLI view of a stored entry.
func NewWordInfo(entry *models.WordEntry) WordInfo {
	return WordInfo{
		Word:          entry.Word,
		IsNoun:        entry.IsNoun,
		IsVerb:        entry.IsVerb,
		PartsOfSpeech: entry.PartsOfSpeech(),
	}
}

// SimilarResponse is the result of a single-word similarity query.
type SimilarResponse struct {
	Word    string                `json:"word"`
	Results []*models.SimilarWord `json:"results"`
	Count   int                   `json:"count"`
}

// BatchSimilarResponse is the result of a multi-word similarity query,
// keyed by normalized input word.
type BatchSimilarResponse struct {
	Results map[string][]*models.SimilarWord `json:"results"`
	Count   int                              `json:"count"`
}

// CompareResponse is the result of a pairwise comparison.
type CompareResponse struct {
	Word1      string  `json:"word1"`
	Word2      string  `json:"word2"`
	Similarity float64 `json:"similarity"`
}

// SearchResponse is the result of a word text search.
type SearchResponse struct {
	Query   string     `json:"query"`
	Results []WordInfo `json:"results"`
	Count   int        `json:"count"`
}

// StatusConfig is the configuration block of a status response.
type StatusConfig struct {
	Backend      string `json:"backend"`
	DatabasePath string `json:"database_path"`
	IndexPath    string `json:"index_path"`
	ModelPath    string `json:"model_path"`
	WordsCSV     string `json:"words_csv"`
	WatchEnabled bool   `json:"watch_enabled"`
}

// StatusResponse summarizes the corpus and, when configuration is known,
// the storage layout behind it.
type StatusResponse struct {
	Words          int           `json:"words"`
	Nouns          int           `json:"nouns"`
	Verbs          int           `json:"verbs"`
	Both           int           `json:"both"`
	Dimension      int           `json:"dimension"`
	IndexDocs      *uint64       `json:"index_docs,omitempty"`
	DiskUsageBytes *int64        `json:"disk_usage_bytes,omitempty"`
	Config         *StatusConfig `json:"config,omitempty"`
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// posLabel renders POS flags as a compact label.
func posLabel(isNoun, isVerb bool) string {
	switch {
	case isNoun && isVerb:
		return "noun,verb"
	case isNoun:
		return "noun"
	case isVerb:
		return "verb"
	default:
		return "unknown"
	}
}

// WriteWordInfo writes one word entry to w in the given format.
func WriteWordInfo(w io.Writer, info WordInfo, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, info)
	}
	fmt.Fprintf(w, "word:   %s\n", info.Word)
	fmt.Fprintf(w, "noun:   %t\n", info.IsNoun)
	fmt.Fprintf(w, "verb:   %t\n", info.IsVerb)
	fmt.Fprintf(w, "pos:    %s\n", strings.Join(info.PartsOfSpeech, ","))
	return nil
}

// WriteSimilarResults writes a similarity ranking to w in the given format.
func WriteSimilarResults(w io.Writer, resp *SimilarResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, resp)
	}
	writeSimilarText(w, resp.Word, resp.Results)
	return nil
}

func writeSimilarText(w io.Writer, word string, results []*models.SimilarWord) {
	if len(results) == 0 {
		fmt.Fprintf(w, "No similar words found for %q\n", word)
		return
	}
	fmt.Fprintf(w, "Similar to %q (%d results):\n", word, len(results))
	for i, r := range results {
		fmt.Fprintf(w, "%4d. %-20s  %.4f  %s\n", i+1, r.Word, r.Similarity, posLabel(r.IsNoun, r.IsVerb))
	}
}

// WriteBatchSimilarResults writes per-word similarity rankings to w in the
// given format. Text output is sorted by input word for stable display.
func WriteBatchSimilarResults(w io.Writer, resp *BatchSimilarResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, resp)
	}
	words := make([]string, 0, len(resp.Results))
	for word := range resp.Results {
		words = append(words, word)
	}
	sort.Strings(words)
	for i, word := range words {
		if i > 0 {
			fmt.Fprintln(w)
		}
		writeSimilarText(w, word, resp.Results[word])
	}
	return nil
}

// WriteCompareResult writes a pairwise similarity to w in the given format.
func WriteCompareResult(w io.Writer, resp *CompareResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, resp)
	}
	fmt.Fprintf(w, "similarity(%s, %s) = %.4f\n", resp.Word1, resp.Word2, resp.Similarity)
	return nil
}

// WriteSearchResults writes word search matches to w in the given format.
func WriteSearchResults(w io.Writer, resp *SearchResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, resp)
	}
	if resp.Count == 0 {
		fmt.Fprintf(w, "No words found matching %q\n", resp.Query)
		return nil
	}
	fmt.Fprintf(w, "Found %d words matching %q:\n", resp.Count, resp.Query)
	for _, info := range resp.Results {
		fmt.Fprintf(w, "  %-20s  %s\n", info.Word, strings.Join(info.PartsOfSpeech, ","))
	}
	return nil
}

// WriteStatus writes corpus status to w in the given format.
func WriteStatus(w io.Writer, resp *StatusResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, resp)
	}
	fmt.Fprintf(w, "words:              %d   # distinct corpus words\n", resp.Words)
	fmt.Fprintf(w, "nouns:              %d\n", resp.Nouns)
	fmt.Fprintf(w, "verbs:              %d\n", resp.Verbs)
	fmt.Fprintf(w, "both:               %d   # counted in nouns and verbs as well\n", resp.Both)
	fmt.Fprintf(w, "dimension:          %d   # embedding vector width\n", resp.Dimension)
	if resp.IndexDocs != nil {
		fmt.Fprintf(w, "index_docs:         %d   # keyword index documents\n", *resp.IndexDocs)
	}
	if resp.DiskUsageBytes != nil {
		fmt.Fprintf(w, "disk_usage_bytes:   %d\n", *resp.DiskUsageBytes)
	}
	if resp.Config != nil {
		fmt.Fprintf(w, "\n# configuration\n")
		fmt.Fprintf(w, "backend:            %s\n", resp.Config.Backend)
		fmt.Fprintf(w, "database_path:      %s\n", resp.Config.DatabasePath)
		fmt.Fprintf(w, "index_path:         %s\n", resp.Config.IndexPath)
		fmt.Fprintf(w, "model_path:         %s\n", resp.Config.ModelPath)
		fmt.Fprintf(w, "words_csv:          %s\n", resp.Config.WordsCSV)
		fmt.Fprintf(w, "watch_enabled:      %t\n", resp.Config.WatchEnabled)
	}
	return nil
}

// WriteLoadReport writes a loader run summary to w.
func WriteLoadReport(w io.Writer, report *models.LoadReport) {
	fmt.Fprintf(w, "\nProcessing complete (run %s):\n", report.RunID)
	if report.Mode == models.LoadDryRun {
		fmt.Fprintln(w, "  (dry-run, no changes made)")
	}
	fmt.Fprintf(w, "  Created: %d\n", report.Created)
	fmt.Fprintf(w, "  Updated: %d\n", report.Updated)
	fmt.Fprintf(w, "  Skipped: %d\n", report.Skipped)
	fmt.Fprintf(w, "  Errors:  %d\n", report.Errors)
	fmt.Fprintf(w, "  Total:   %d\n", report.Total)
	if len(report.ErrorSample) > 0 {
		fmt.Fprintf(w, "\nFirst %d errors:\n", len(report.ErrorSample))
		for _, re := range report.ErrorSample {
			fmt.Fprintf(w, "  %s\n", formatRecordError(re))
		}
	}
	if report.Stats != nil {
		fmt.Fprintln(w, "\nDatabase statistics:")
		fmt.Fprintf(w, "  Total words: %d\n", report.Stats.Total)
		fmt.Fprintf(w, "  Nouns: %d\n", report.Stats.NounCount)
		fmt.Fprintf(w, "  Verbs: %d\n", report.Stats.VerbCount)
		fmt.Fprintf(w, "  Both:  %d\n", report.Stats.BothCount)
	}
}

func formatRecordError(re models.RecordError) string {
	var b strings.Builder
	if re.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", re.Line)
	}
	if re.Word != "" {
		fmt.Fprintf(&b, "%s: ", re.Word)
	}
	b.WriteString(utils.Truncate(re.Reason, 160))
	return b.String()
}

// WriteAttachStats writes an embedding attachment summary to w.
func WriteAttachStats(w io.Writer, stats *models.AttachStats) {
	fmt.Fprintln(w, "\nEmbedding complete:")
	fmt.Fprintf(w, "  Total words: %d\n", stats.Total)
	fmt.Fprintf(w, "  Embedded:    %d (%.1f%%)\n", stats.Embedded, stats.SuccessRate())
	fmt.Fprintf(w, "  Skipped:     %d\n", stats.Skipped)
	fmt.Fprintf(w, "  Dimension:   %d\n", stats.Dimension)
	if len(stats.SkippedSample) > 0 {
		fmt.Fprintf(w, "  Skipped sample: %s\n", strings.Join(stats.SkippedSample, ", "))
	}
}

// WriteClassifyStats writes a classification run summary to w.
func WriteClassifyStats(w io.Writer, stats *models.ClassifyStats) {
	fmt.Fprintln(w, "\nClassification complete:")
	fmt.Fprintf(w, "  Files read:   %d (%d skipped)\n", stats.FilesRead, stats.FilesSkipped)
	fmt.Fprintf(w, "  Words:        %d\n", stats.Words)
	fmt.Fprintf(w, "  Noun only:    %d\n", stats.NounOnly)
	fmt.Fprintf(w, "  Verb only:    %d\n", stats.VerbOnly)
	fmt.Fprintf(w, "  Both:         %d\n", stats.Both)
}

// newProgressBar builds the shared progress bar style for pipeline
// commands.
func newProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}
