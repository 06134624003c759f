// Fixture writers that lay the corpus down on disk the way the real
// inputs arrive: raw word-list files and a word2vec text model.
package e2e

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// WriteRawWordFiles writes the corpus as raw word-list files in dir, one
// file per part of speech and word length, plus the clutter a real scrape
// directory carries: another language, an unhandled part of speech, an
// unparseable name, and an empty list. The classifier must skip all four.
func WriteRawWordFiles(dir string, corpus *Corpus) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	buckets := make(map[string][]string)
	add := func(pos, word string) {
		name := fmt.Sprintf("pos=%s,lang=en,length=%d.txt", pos, len(word))
		buckets[name] = append(buckets[name], fmt.Sprintf("%s: a word used in tests", word))
	}
	for _, w := range corpus.Words {
		if w.IsNoun {
			add("noun", w.Word)
		}
		if w.IsVerb {
			add("verb", w.Word)
		}
	}

	names := make([]string, 0, len(buckets))
	for name := range buckets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		content := strings.Join(buckets[name], "\n") + "\n"
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			return err
		}
	}

	decoys := map[string]string{
		"pos=noun,lang=de,length=4.txt":      "hund: ein tier\n",
		"pos=adjective,lang=en,length=4.txt": "blue: a color\n",
		"wordlist-notes.txt":                 "junk: not a real list\n",
		"pos=verb,lang=en,length=9.txt":      "",
	}
	for name, content := range decoys {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}

// DecoyFileCount is how many files WriteRawWordFiles writes that the
// classifier must skip.
const DecoyFileCount = 4

// WriteVecModel writes the corpus vectors in word2vec text format with a
// "count dimension" header. The OOV word is left out so attachment has to
// drop it, and one out-of-corpus vector checks that vocabulary filtering
// works.
func WriteVecModel(path string, corpus *Corpus) error {
	stored := corpus.StoredWords()

	var b strings.Builder
	fmt.Fprintf(&b, "%d %d\n", len(stored)+1, Dimension)
	writeVector := func(word string, vec []float32) {
		b.WriteString(word)
		for _, v := range vec {
			fmt.Fprintf(&b, " %g", v)
		}
		b.WriteByte('\n')
	}
	for _, w := range stored {
		writeVector(w.Word, w.Embedding)
	}
	writeVector("zzyzx", clusterVector(0, 9))

	return os.WriteFile(path, []byte(b.String()), 0644)
}
