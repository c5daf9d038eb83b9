package minutes

import "github.com/johnquangdev/meeting-ai/internal/domain/entities"

// CleanResponse carries the cleaned transcript text.
type CleanResponse struct {
	CleanedText string `json:"cleaned_text"`
}

// DiarizeResponse carries ordered speaker segments.
type DiarizeResponse struct {
	Segments []entities.Segment `json:"segments"`
}

// SummarizeResponse carries the structured summary.
type SummarizeResponse struct {
	Summary *entities.StructuredSummary `json:"summary"`
}

// ExtractResponse carries action items and decisions.
type ExtractResponse struct {
	ActionItems []entities.ActionItem `json:"action_items"`
	Decisions   []entities.Decision   `json:"decisions"`
}

// TranscribeResponse carries the speech-to-text result.
type TranscribeResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}
