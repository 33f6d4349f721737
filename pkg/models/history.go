package models

// AnalysisHistoryVersion is the current schema version of the analysis
// history document.
const AnalysisHistoryVersion = 1

type AnalysisHistoryDocument struct {
	Version int             `json:"version"`
	Entries []AnalysisEntry `json:"entries"`
}

type AnalysisEntry struct {
	ID        string `json:"id"`
	Summary   string `json:"summary,omitempty"`
	Undertone string `json:"undertone,omitempty"`
	Season    string `json:"season,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

// EmptyAnalysisHistory returns a structurally valid default history document.
func EmptyAnalysisHistory() AnalysisHistoryDocument {
	return AnalysisHistoryDocument{Version: AnalysisHistoryVersion, Entries: []AnalysisEntry{}}
}
