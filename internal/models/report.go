package models

// LoadMode selects whether a load run mutates the store.
type LoadMode string

const (
	// LoadApply upserts every valid record.
	LoadApply LoadMode = "apply"
	// LoadDryRun validates and checks existence but never writes.
	LoadDryRun LoadMode = "dry_run"
)

// RecordError describes one isolated per-record ingestion failure.
// Line is the CSV line number when the failure came from parsing, zero
// otherwise.
type RecordError struct {
	Word   string `json:"word,omitempty"`
	Line   int    `json:"line,omitempty"`
	Reason string `json:"reason"`
}

// LoadReport summarizes one loader run. In dry-run mode Created and Updated
// count what would happen. Skipped counts duplicate words within the run;
// Errors counts records that failed validation. Total is the number of
// records processed.
type LoadReport struct {
	RunID       string        `json:"run_id"`
	Mode        LoadMode      `json:"mode"`
	Created     int           `json:"created"`
	Updated     int           `json:"updated"`
	Skipped     int           `json:"skipped"`
	Errors      int           `json:"errors"`
	Total       int           `json:"total"`
	ErrorSample []RecordError `json:"error_sample,omitempty"`
	Stats       *StoreStats   `json:"stats,omitempty"`
}

// StoreStats are aggregate corpus counts. BothCount entries are included in
// NounCount and VerbCount as well.
type StoreStats struct {
	Total     int `json:"total"`
	NounCount int `json:"noun_count"`
	VerbCount int `json:"verb_count"`
	BothCount int `json:"both_count"`
}

// AttachStats summarizes one embedding-attachment run.
// Embedded + Skipped always equals Total.
type AttachStats struct {
	Total         int      `json:"total"`
	Embedded      int      `json:"embedded"`
	Skipped       int      `json:"skipped"`
	Dimension     int      `json:"dimension"`
	SkippedSample []string `json:"skipped_sample,omitempty"`
}

// SuccessRate returns Embedded/Total as a percentage, 0 for an empty run.
func (s *AttachStats) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Embedded) / float64(s.Total) * 100
}

// ClassifyStats summarizes one classification run over a raw word-list
// directory.
type ClassifyStats struct {
	FilesRead    int `json:"files_read"`
	FilesSkipped int `json:"files_skipped"`
	Words        int `json:"words"`
	NounOnly     int `json:"noun_only"`
	VerbOnly     int `json:"verb_only"`
	Both         int `json:"both"`
}
