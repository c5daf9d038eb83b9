package rules

import (
	"regexp"
	"strings"

	"github.com/johnquangdev/meeting-ai/internal/domain/entities"
)

// Diarizer segments transcript text by speaker using an ordered table of
// indicator patterns. It is text-only: no audio-level speaker recognition.
type Diarizer struct{}

// NewDiarizer creates a new Diarizer.
func NewDiarizer() *Diarizer {
	return &Diarizer{}
}

// speakerPattern is one entry of the ordered indicator table. First match
// wins; ordering is part of the contract, so new locales or label styles are
// added to the table instead of new control flow.
type speakerPattern struct {
	name string
	re   *regexp.Regexp
}

var speakerPatterns = []speakerPattern{
	{"speaker-label", regexp.MustCompile(`(?i)Speaker\s*\d+`)},
	{"speaker-label-vi", regexp.MustCompile(`(?i)Người\s+nói\s*\d+`)},
	{"person-label", regexp.MustCompile(`(?i)Person\s*\d+`)},
	{"short-label-p", regexp.MustCompile(`\bP\d+\b`)},
	{"short-label-s", regexp.MustCompile(`\bS\d+\b`)},
	{"titled-name", regexp.MustCompile(`\b(?:Mr|Ms|Mrs|Dr)\.?\s+[A-ZĐ]\p{L}+`)},
	{"titled-name-vi", regexp.MustCompile(`\b(?:Anh|Chị|Ông|Bà)\s+[A-ZĐ]\p{L}+`)},
	// Department/role tokens only count as a speaker when used as a line
	// label with a colon, never mid-sentence.
	{"role-label", regexp.MustCompile(`(?i)^(?:HR|Finance|Marketing|Engineering|Sales|Support|Legal|IT|Operations|Product|Design)\s*:`)},
}

// Diarize splits text into ordered speaker segments. If no line ever matches
// a speaker pattern, the entire original text is returned as one segment
// under the transcript sentinel rather than fabricating boundaries.
func (d *Diarizer) Diarize(text string) []entities.Segment {
	if strings.TrimSpace(text) == "" {
		return []entities.Segment{}
	}

	var segments []entities.Segment
	currentSpeaker := entities.SpeakerUnknown
	var current strings.Builder
	matched := false

	flush := func() {
		if t := strings.TrimSpace(current.String()); t != "" {
			segments = append(segments, entities.Segment{Speaker: currentSpeaker, Text: t})
		}
		current.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		speaker := matchSpeaker(line)
		if speaker != "" {
			matched = true
			flush()
			currentSpeaker = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(speaker), ":"))
			current.WriteString(stripSpeakerLabel(line, speaker))
			continue
		}

		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(line)
	}
	flush()

	// Single-speaker fallback: preserve the full context for downstream
	// extraction instead of returning one anonymous segment.
	if !matched || len(segments) == 0 ||
		(len(segments) == 1 && segments[0].Speaker == entities.SpeakerUnknown) {
		return []entities.Segment{{Speaker: entities.SpeakerTranscript, Text: strings.TrimSpace(text)}}
	}

	return segments
}

// matchSpeaker returns the matched indicator text, or "" when no pattern in
// the table matches the line.
func matchSpeaker(line string) string {
	for _, p := range speakerPatterns {
		if m := p.re.FindString(line); m != "" {
			return m
		}
	}
	return ""
}

// stripSpeakerLabel removes the label (and an optional following colon) from
// the start of the line before the text is accumulated.
func stripSpeakerLabel(line, label string) string {
	rest := line
	if idx := strings.Index(line, label); idx >= 0 {
		rest = line[:idx] + line[idx+len(label):]
	}
	rest = strings.TrimSpace(rest)
	rest = strings.TrimPrefix(rest, ":")
	return strings.TrimSpace(rest)
}
