package embedding

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// maxLineBytes bounds a single .vec line. 300-dimension float vectors
// stay well under this.
const maxLineBytes = 1 << 20

// VecModel holds word vectors loaded from a word2vec text format file.
// Words are keyed exactly as they appear in the file.
type VecModel struct {
	vectors   map[string][]float32
	dimension int
}

// LoadVecFile reads a word2vec text format (.vec) file. A leading
// "count dimension" header line is detected and skipped. When wanted is
// non-nil, only vectors for those words are kept, so memory tracks the
// classified vocabulary rather than the full model. Malformed lines are
// logged and skipped. A missing or empty file is an error.
func LoadVecFile(path string, wanted map[string]struct{}, logger *zap.Logger) (*VecModel, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model file: %w", err)
	}
	defer f.Close()

	m := &VecModel{vectors: make(map[string][]float32)}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	lineNo := 0
	parsed := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if lineNo == 1 && len(fields) == 2 {
			if dim, ok := parseHeader(fields); ok {
				m.dimension = dim
				continue
			}
		}
		if len(fields) < 2 {
			logger.Warn("skipping malformed vector line",
				zap.String("path", path),
				zap.Int("line", lineNo))
			continue
		}

		word := fields[0]
		if wanted != nil {
			if _, ok := wanted[word]; !ok {
				parsed++
				continue
			}
		}

		vec, err := parseVector(fields[1:])
		if err != nil {
			logger.Warn("skipping malformed vector line",
				zap.String("path", path),
				zap.Int("line", lineNo),
				zap.String("word", word),
				zap.Error(err))
			continue
		}
		if m.dimension == 0 {
			m.dimension = len(vec)
		} else if len(vec) != m.dimension {
			logger.Warn("skipping vector with unexpected dimension",
				zap.String("word", word),
				zap.Int("dimension", len(vec)),
				zap.Int("expected", m.dimension))
			continue
		}

		parsed++
		m.vectors[word] = vec
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}
	if parsed == 0 {
		return nil, fmt.Errorf("no word vectors found in %s", path)
	}

	logger.Info("loaded word vector model",
		zap.String("path", path),
		zap.Int("words", len(m.vectors)),
		zap.Int("dimension", m.dimension))
	return m, nil
}

// parseHeader recognizes the optional "vocab_size dimension" first line
// written by fastText and word2vec.
func parseHeader(fields []string) (int, bool) {
	if _, err := strconv.Atoi(fields[0]); err != nil {
		return 0, false
	}
	dim, err := strconv.Atoi(fields[1])
	if err != nil || dim <= 0 {
		return 0, false
	}
	return dim, true
}

func parseVector(fields []string) ([]float32, error) {
	vec := make([]float32, len(fields))
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid component %d: %w", i, err)
		}
		vec[i] = float32(v)
	}
	return vec, nil
}

// Lookup returns the vector for word and whether it is in vocabulary.
func (m *VecModel) Lookup(word string) ([]float32, bool) {
	vec, ok := m.vectors[word]
	return vec, ok
}

// Dimension returns the vector dimension.
func (m *VecModel) Dimension() int {
	return m.dimension
}

// Size returns the number of vectors held.
func (m *VecModel) Size() int {
	return len(m.vectors)
}
