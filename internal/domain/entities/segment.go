package entities

// Speaker sentinels used when no speaker pattern matched.
const (
	SpeakerUnknown    = "Unknown"
	SpeakerTranscript = "Meeting Transcript"
)

// Segment is a contiguous span of transcript text attributed to one inferred
// speaker. Segments are ordered; their order mirrors transcript order.
type Segment struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}
