// Package ingest builds the word corpus. Raw word-list files are
// classified into noun/verb records, pretrained embeddings are attached,
// and the result is loaded into the store and keyword index.
package ingest

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/findword/internal/models"
)

// Raw word-list files are named pos=<part>,lang=<lang>,length=<n>.txt.
var filenameRe = regexp.MustCompile(`^pos=(\w+),lang=(\w+),length=(\d+)\.txt$`)

// FileMeta is the metadata encoded in a raw word-list filename.
type FileMeta struct {
	POS    string
	Lang   string
	Length int
}

// ParseFilename extracts part of speech, language, and word length from a
// raw word-list filename. Returns ErrFormat when the name does not match.
func ParseFilename(name string) (*FileMeta, error) {
	m := filenameRe.FindStringSubmatch(name)
	if m == nil {
		return nil, fmt.Errorf("%w: %s", models.ErrFormat, name)
	}
	length, err := strconv.Atoi(m[3])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrFormat, name)
	}
	return &FileMeta{POS: m[1], Lang: m[2], Length: length}, nil
}

// ExtractWord pulls the word out of a "word: definition" line. Lines
// without a colon carry no word. The word is trimmed and lowercased.
func ExtractWord(line string) string {
	before, _, found := strings.Cut(line, ":")
	if !found {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(before))
}

type posFlags struct {
	noun bool
	verb bool
}

// Classifier merges raw word-list files into per-word part-of-speech
// records.
type Classifier struct {
	logger *zap.Logger
}

// NewClassifier creates a classifier. logger may be nil.
func NewClassifier(logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{logger: logger}
}

// Classify reads every .txt file in dir (by name order, not recursive)
// and returns one record per unique word, sorted alphabetically. Only
// English noun and verb lists contribute; empty files and files for
// other languages or parts of speech are skipped, and files whose names
// do not parse are skipped with a warning. A missing directory, a
// directory without .txt files, or a run that extracts no words at all
// is an error.
func (c *Classifier) Classify(dir string) ([]*models.ClassifiedRecord, *models.ClassifyStats, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read word list directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		files = append(files, e.Name())
	}
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("no .txt word lists found in %s", dir)
	}

	stats := &models.ClassifyStats{}
	byWord := make(map[string]*posFlags)

	for _, name := range files {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if info.Size() == 0 {
			stats.FilesSkipped++
			continue
		}

		meta, err := ParseFilename(name)
		if err != nil {
			c.logger.Warn("skipping word list with unrecognized name", zap.String("file", name))
			stats.FilesSkipped++
			continue
		}
		if meta.Lang != "en" || (meta.POS != "noun" && meta.POS != "verb") {
			stats.FilesSkipped++
			continue
		}

		n, err := c.readWords(path, meta.POS, byWord)
		if err != nil {
			return nil, nil, err
		}
		stats.FilesRead++
		c.logger.Debug("read word list",
			zap.String("file", name),
			zap.String("pos", meta.POS),
			zap.Int("words", n))
	}

	if len(byWord) == 0 {
		return nil, nil, fmt.Errorf("no words extracted from %s", dir)
	}

	words := make([]string, 0, len(byWord))
	for w := range byWord {
		words = append(words, w)
	}
	sort.Strings(words)

	records := make([]*models.ClassifiedRecord, 0, len(words))
	for _, w := range words {
		flags := byWord[w]
		records = append(records, &models.ClassifiedRecord{
			Word:   w,
			IsNoun: flags.noun,
			IsVerb: flags.verb,
		})
		switch {
		case flags.noun && flags.verb:
			stats.Both++
		case flags.noun:
			stats.NounOnly++
		default:
			stats.VerbOnly++
		}
	}
	stats.Words = len(records)

	c.logger.Info("classified words",
		zap.Int("files", stats.FilesRead),
		zap.Int("words", stats.Words),
		zap.Int("both", stats.Both))
	return records, stats, nil
}

func (c *Classifier) readWords(path, pos string, byWord map[string]*posFlags) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	n := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := ExtractWord(scanner.Text())
		if word == "" {
			continue
		}
		flags := byWord[word]
		if flags == nil {
			flags = &posFlags{}
			byWord[word] = flags
		}
		if pos == "noun" {
			flags.noun = true
		} else {
			flags.verb = true
		}
		n++
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return n, nil
}
