package entities

// MeetingMinutes is the full result of the processing pipeline for one request.
// All fields are values created fresh per request; nothing persists.
type MeetingMinutes struct {
	Transcript        string             `json:"transcript"`
	StructuredSummary *StructuredSummary `json:"structured_summary"`
	ActionItems       []ActionItem       `json:"action_items"`
	Decisions         []Decision         `json:"decisions"`
	Diarization       []Segment          `json:"diarization"`
}

// NewMeetingMinutes creates an empty result with no nil collections.
func NewMeetingMinutes(transcript string) *MeetingMinutes {
	return &MeetingMinutes{
		Transcript:        transcript,
		StructuredSummary: NewStructuredSummary(),
		ActionItems:       []ActionItem{},
		Decisions:         []Decision{},
		Diarization:       []Segment{},
	}
}
