package ingest

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/findword/internal/models"
)

var (
	classifiedHeader = []string{"word", "noun", "verb"}
	embeddedHeader   = []string{"word", "noun", "verb", "embd"}
)

func yn(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}

// cleanWord trims whitespace and the stray quoting some CSV exports
// leave around words.
func cleanWord(s string) string {
	return strings.Trim(strings.TrimSpace(s), `'"`)
}

// WriteClassifiedCSV writes records as word,noun,verb rows with Y/N
// flags. The parent directory is created if missing.
func WriteClassifiedCSV(path string, records []*models.ClassifiedRecord) (err error) {
	f, err := createCSV(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(classifiedHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, rec := range records {
		if err := w.Write([]string{rec.Word, yn(rec.IsNoun), yn(rec.IsVerb)}); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// WriteEmbeddedCSV writes records as word,noun,verb,embd rows, the
// embedding serialized as a JSON array.
func WriteEmbeddedCSV(path string, records []*models.EmbeddedRecord) (err error) {
	f, err := createCSV(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(embeddedHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, rec := range records {
		embd, err := json.Marshal(rec.Embedding)
		if err != nil {
			return fmt.Errorf("failed to encode embedding for %q: %w", rec.Word, err)
		}
		if err := w.Write([]string{rec.Word, yn(rec.IsNoun), yn(rec.IsVerb), string(embd)}); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// ReadClassifiedCSV reads a word,noun,verb file produced by a classify
// run. Column positions come from the header; extra columns are
// ignored. A flag counts as set when it reads Y, case-insensitively.
func ReadClassifiedCSV(path string) ([]*models.ClassifiedRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	cols, err := readHeader(r, classifiedHeader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var records []*models.ClassifiedRecord
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		word := cleanWord(col(row, cols["word"]))
		if word == "" {
			continue
		}
		records = append(records, &models.ClassifiedRecord{
			Word:   word,
			IsNoun: strings.EqualFold(strings.TrimSpace(col(row, cols["noun"])), "y"),
			IsVerb: strings.EqualFold(strings.TrimSpace(col(row, cols["verb"])), "y"),
		})
	}
	return records, nil
}

// ReadEmbeddedCSV reads a word,noun,verb,embd file. Rows that fail to
// parse are returned as RecordErrors with their row numbers rather than
// aborting the read. When limit is positive, reading stops after limit
// valid records; bad rows do not count against the limit.
func ReadEmbeddedCSV(path string, limit int) ([]*models.EmbeddedRecord, []models.RecordError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	cols, err := readHeader(r, embeddedHeader)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	var (
		records []*models.EmbeddedRecord
		badRows []models.RecordError
	)
	line := 1
	for {
		if limit > 0 && len(records) >= limit {
			break
		}
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				badRows = append(badRows, models.RecordError{Line: line, Reason: err.Error()})
				continue
			}
			return records, badRows, fmt.Errorf("failed to read %s: %w", path, err)
		}

		rec, perr := parseEmbeddedRow(row, cols)
		if perr != nil {
			badRows = append(badRows, models.RecordError{
				Word:   cleanWord(col(row, cols["word"])),
				Line:   line,
				Reason: perr.Error(),
			})
			continue
		}
		records = append(records, rec)
	}
	return records, badRows, nil
}

func parseEmbeddedRow(row []string, cols map[string]int) (*models.EmbeddedRecord, error) {
	word := cleanWord(col(row, cols["word"]))
	if word == "" {
		return nil, errors.New("empty word")
	}

	noun := strings.ToUpper(strings.TrimSpace(col(row, cols["noun"])))
	if noun != "Y" && noun != "N" {
		return nil, fmt.Errorf("invalid noun value: %q", noun)
	}
	verb := strings.ToUpper(strings.TrimSpace(col(row, cols["verb"])))
	if verb != "Y" && verb != "N" {
		return nil, fmt.Errorf("invalid verb value: %q", verb)
	}

	var vec []float32
	if err := json.Unmarshal([]byte(strings.TrimSpace(col(row, cols["embd"]))), &vec); err != nil {
		return nil, fmt.Errorf("invalid embedding JSON: %v", err)
	}
	if len(vec) == 0 {
		return nil, errors.New("embedding cannot be empty")
	}

	return &models.EmbeddedRecord{
		Word:      word,
		IsNoun:    noun == "Y",
		IsVerb:    verb == "Y",
		Embedding: vec,
	}, nil
}

// readHeader maps required column names to their positions.
func readHeader(r *csv.Reader, required []string) (map[string]int, error) {
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("csv missing required column %q", name)
		}
	}
	return cols, nil
}

func col(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func createCSV(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, nil
}
