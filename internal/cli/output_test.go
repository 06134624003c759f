package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hyperjump/findword/internal/models"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"text", "text", OutputText, false},
		{"json", "json", OutputJSON, false},
		{"empty defaults to text", "", OutputText, false},
		{"case insensitive", "JSON", OutputJSON, false},
		{"padded", " text ", OutputText, false},
		{"unknown", "yaml", OutputText, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOutputFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOutputFormat(%q) error = %v, wantErr %t", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseOutputFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWriteWordInfo_text(t *testing.T) {
	info := NewWordInfo(&models.WordEntry{Word: "dog", IsNoun: true})
	var buf bytes.Buffer
	if err := WriteWordInfo(&buf, info, OutputText); err != nil {
		t.Fatalf("WriteWordInfo(text): %v", err)
	}
	out := buf.String()
	for _, sub := range []string{"word:   dog", "noun:   true", "verb:   false", "pos:    noun"} {
		if !strings.Contains(out, sub) {
			t.Errorf("text output missing %q:\n%s", sub, out)
		}
	}
}

func TestWriteWordInfo_JSON(t *testing.T) {
	info := NewWordInfo(&models.WordEntry{Word: "run", IsNoun: true, IsVerb: true})
	var buf bytes.Buffer
	if err := WriteWordInfo(&buf, info, OutputJSON); err != nil {
		t.Fatalf("WriteWordInfo(json): %v", err)
	}
	var decoded WordInfo
	if err := json.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Word != "run" || !decoded.IsNoun || !decoded.IsVerb {
		t.Errorf("decoded = %+v, want run with both flags", decoded)
	}
	if len(decoded.PartsOfSpeech) != 2 {
		t.Errorf("parts_of_speech = %v, want [noun verb]", decoded.PartsOfSpeech)
	}
}

func TestWriteSimilarResults_text(t *testing.T) {
	resp := &SimilarResponse{
		Word: "dog",
		Results: []*models.SimilarWord{
			{Word: "cat", IsNoun: true, Similarity: 0.9984},
			{Word: "run", IsVerb: true, Similarity: 0.8022},
		},
		Count: 2,
	}
	var buf bytes.Buffer
	if err := WriteSimilarResults(&buf, resp, OutputText); err != nil {
		t.Fatalf("WriteSimilarResults(text): %v", err)
	}
	out := buf.String()
	for _, sub := range []string{`Similar to "dog" (2 results)`, "1. cat", "0.9984", "2. run", "0.8022", "verb"} {
		if !strings.Contains(out, sub) {
			t.Errorf("text output missing %q:\n%s", sub, out)
		}
	}
}

func TestWriteSimilarResults_textEmpty(t *testing.T) {
	resp := &SimilarResponse{Word: "dog", Results: nil, Count: 0}
	var buf bytes.Buffer
	if err := WriteSimilarResults(&buf, resp, OutputText); err != nil {
		t.Fatalf("WriteSimilarResults(text): %v", err)
	}
	if !strings.Contains(buf.String(), "No similar words found") {
		t.Errorf("empty ranking should say so; got %q", buf.String())
	}
}

func TestWriteSimilarResults_JSON(t *testing.T) {
	resp := &SimilarResponse{
		Word:    "dog",
		Results: []*models.SimilarWord{{Word: "cat", IsNoun: true, Similarity: 0.99}},
		Count:   1,
	}
	var buf bytes.Buffer
	if err := WriteSimilarResults(&buf, resp, OutputJSON); err != nil {
		t.Fatalf("WriteSimilarResults(json): %v", err)
	}
	var decoded SimilarResponse
	if err := json.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Word != "dog" || decoded.Count != 1 || len(decoded.Results) != 1 {
		t.Errorf("decoded = %+v, want one result for dog", decoded)
	}
	if decoded.Results[0].Word != "cat" {
		t.Errorf("results[0].word = %q, want cat", decoded.Results[0].Word)
	}
}

func TestWriteBatchSimilarResults_textSorted(t *testing.T) {
	resp := &BatchSimilarResponse{
		Results: map[string][]*models.SimilarWord{
			"zebra": {{Word: "horse", IsNoun: true, Similarity: 0.9}},
			"ant":   nil,
		},
		Count: 2,
	}
	var buf bytes.Buffer
	if err := WriteBatchSimilarResults(&buf, resp, OutputText); err != nil {
		t.Fatalf("WriteBatchSimilarResults(text): %v", err)
	}
	out := buf.String()
	antAt := strings.Index(out, `"ant"`)
	zebraAt := strings.Index(out, `"zebra"`)
	if antAt < 0 || zebraAt < 0 {
		t.Fatalf("expected both words in output:\n%s", out)
	}
	if antAt > zebraAt {
		t.Errorf("words should print in sorted order:\n%s", out)
	}
	if !strings.Contains(out, "No similar words found") {
		t.Errorf("empty ranking block missing:\n%s", out)
	}
}

func TestWriteCompareResult(t *testing.T) {
	resp := &CompareResponse{Word1: "dog", Word2: "cat", Similarity: 0.9984}
	var buf bytes.Buffer
	if err := WriteCompareResult(&buf, resp, OutputText); err != nil {
		t.Fatalf("WriteCompareResult(text): %v", err)
	}
	if got := buf.String(); !strings.Contains(got, "similarity(dog, cat) = 0.9984") {
		t.Errorf("text output = %q", got)
	}
	buf.Reset()
	if err := WriteCompareResult(&buf, resp, OutputJSON); err != nil {
		t.Fatalf("WriteCompareResult(json): %v", err)
	}
	var decoded CompareResponse
	if err := json.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Similarity != 0.9984 {
		t.Errorf("decoded similarity = %g, want 0.9984", decoded.Similarity)
	}
}

func TestWriteSearchResults_text(t *testing.T) {
	resp := &SearchResponse{
		Query: "ca",
		Results: []WordInfo{
			{Word: "cat", IsNoun: true, PartsOfSpeech: []string{"noun"}},
			{Word: "catch", IsVerb: true, PartsOfSpeech: []string{"verb"}},
		},
		Count: 2,
	}
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, resp, OutputText); err != nil {
		t.Fatalf("WriteSearchResults(text): %v", err)
	}
	out := buf.String()
	for _, sub := range []string{`Found 2 words matching "ca"`, "cat", "catch", "verb"} {
		if !strings.Contains(out, sub) {
			t.Errorf("text output missing %q:\n%s", sub, out)
		}
	}
}

func TestWriteSearchResults_textEmpty(t *testing.T) {
	resp := &SearchResponse{Query: "zz", Count: 0}
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, resp, OutputText); err != nil {
		t.Fatalf("WriteSearchResults(text): %v", err)
	}
	if !strings.Contains(buf.String(), `No words found matching "zz"`) {
		t.Errorf("empty search should say so; got %q", buf.String())
	}
}

func TestWriteStatus_text(t *testing.T) {
	docs := uint64(3)
	disk := int64(4096)
	resp := &StatusResponse{
		Words:          3,
		Nouns:          2,
		Verbs:          1,
		Both:           0,
		Dimension:      5,
		IndexDocs:      &docs,
		DiskUsageBytes: &disk,
		Config: &StatusConfig{
			Backend:      "sqlite",
			DatabasePath: "/var/lib/findword/words.db",
			WatchEnabled: true,
		},
	}
	var buf bytes.Buffer
	if err := WriteStatus(&buf, resp, OutputText); err != nil {
		t.Fatalf("WriteStatus(text): %v", err)
	}
	out := buf.String()
	for _, sub := range []string{"words:", "dimension:", "index_docs:", "disk_usage_bytes:", "# configuration", "sqlite", "watch_enabled:      true"} {
		if !strings.Contains(out, sub) {
			t.Errorf("text output missing %q:\n%s", sub, out)
		}
	}
}

func TestWriteStatus_JSONOmitsEmpty(t *testing.T) {
	resp := &StatusResponse{Words: 1, Dimension: 5}
	var buf bytes.Buffer
	if err := WriteStatus(&buf, resp, OutputJSON); err != nil {
		t.Fatalf("WriteStatus(json): %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "index_docs") || strings.Contains(out, "config") {
		t.Errorf("optional fields should be omitted when unset:\n%s", out)
	}
}

func TestWriteLoadReport(t *testing.T) {
	report := &models.LoadReport{
		RunID:   "run-1",
		Mode:    models.LoadDryRun,
		Created: 10,
		Updated: 2,
		Skipped: 1,
		Errors:  2,
		Total:   15,
		ErrorSample: []models.RecordError{
			{Line: 4, Word: "cat", Reason: "invalid noun flag"},
			{Reason: "empty word"},
		},
		Stats: &models.StoreStats{Total: 12, NounCount: 8, VerbCount: 5, BothCount: 1},
	}
	var buf bytes.Buffer
	WriteLoadReport(&buf, report)
	out := buf.String()
	for _, sub := range []string{
		"Processing complete (run run-1)",
		"(dry-run, no changes made)",
		"Created: 10",
		"Updated: 2",
		"Skipped: 1",
		"Errors:  2",
		"Total:   15",
		"First 2 errors:",
		"line 4: cat: invalid noun flag",
		"empty word",
		"Total words: 12",
	} {
		if !strings.Contains(out, sub) {
			t.Errorf("report output missing %q:\n%s", sub, out)
		}
	}
}

func TestWriteLoadReport_applyModeHasNoDryRunNote(t *testing.T) {
	report := &models.LoadReport{RunID: "run-2", Mode: models.LoadApply, Created: 1, Total: 1}
	var buf bytes.Buffer
	WriteLoadReport(&buf, report)
	if strings.Contains(buf.String(), "dry-run") {
		t.Errorf("apply mode should not mention dry-run:\n%s", buf.String())
	}
}

func TestWriteAttachStats(t *testing.T) {
	stats := &models.AttachStats{
		Total:         200,
		Embedded:      150,
		Skipped:       50,
		Dimension:     300,
		SkippedSample: []string{"aardwolf", "abaft"},
	}
	var buf bytes.Buffer
	WriteAttachStats(&buf, stats)
	out := buf.String()
	for _, sub := range []string{"Embedding complete:", "Total words: 200", "150 (75.0%)", "Skipped:     50", "Dimension:   300", "aardwolf, abaft"} {
		if !strings.Contains(out, sub) {
			t.Errorf("stats output missing %q:\n%s", sub, out)
		}
	}
}

func TestWriteClassifyStats(t *testing.T) {
	stats := &models.ClassifyStats{
		FilesRead:    4,
		FilesSkipped: 1,
		Words:        100,
		NounOnly:     60,
		VerbOnly:     30,
		Both:         10,
	}
	var buf bytes.Buffer
	WriteClassifyStats(&buf, stats)
	out := buf.String()
	for _, sub := range []string{"Classification complete:", "Files read:   4 (1 skipped)", "Words:        100", "Noun only:    60", "Both:         10"} {
		if !strings.Contains(out, sub) {
			t.Errorf("stats output missing %q:\n%s", sub, out)
		}
	}
}

func TestFormatRecordError(t *testing.T) {
	tests := []struct {
		name string
		re   models.RecordError
		want string
	}{
		{"line and word", models.RecordError{Line: 3, Word: "dog", Reason: "bad value"}, "line 3: dog: bad value"},
		{"reason only", models.RecordError{Reason: "empty word"}, "empty word"},
		{"word only", models.RecordError{Word: "cat", Reason: "duplicate"}, "cat: duplicate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatRecordError(tt.re); got != tt.want {
				t.Errorf("formatRecordError(%+v) = %q, want %q", tt.re, got, tt.want)
			}
		})
	}
}
