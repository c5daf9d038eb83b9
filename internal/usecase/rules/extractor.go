package rules

import (
	"regexp"
	"strings"

	"github.com/johnquangdev/meeting-ai/internal/domain/entities"
)

// Extractor finds action items and decisions in sentence-split text using
// ordered regex families. It never fails: empty input yields empty results.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Items with text below these lengths are noise. The generative coercion
// applies the same floors.
const (
	MinActionLen   = 5
	MinDecisionLen = 10
)

const (
	maxExtractedItems = 15
	maxDescriptionLen = 200
	maxDecisionLen    = 250
	// decisionDedupPrefix is the normalized-prefix length used to collapse
	// near-duplicate decisions.
	decisionDedupPrefix = 40
	// assignedSectionSpan bounds how many sentences after an "action items
	// were assigned" marker are treated as the announced section.
	assignedSectionSpan = 6
)

// dateExpr matches the date expressions owners actually say in meetings:
// relative ("next Monday"), month-name ("October 15, 2025"), numeric
// ("15/10"), weekday names and end-of-period shorthands.
const dateExpr = `(?:(?:next|this|coming)\s+(?:week|month|quarter|year|Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday)` +
	`|(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s*\d{4})?` +
	`|\d{1,2}[/-]\d{1,2}(?:[/-]\d{2,4})?` +
	`|(?:Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday)` +
	`|tomorrow|today|tonight|end\s+of\s+(?:day|week|month|quarter)|EOD|EOW)`

// subjectExpr matches a capitalized name or role token, up to three words
// ("John", "HR", "John van Smith").
const subjectExpr = `[A-ZĐ][\w-]*(?:\s+[A-ZĐ][\w-]*){0,2}`

var (
	actionRe = regexp.MustCompile(`\b(` + subjectExpr + `)\s+(?:will|must|should|shall|needs?\s+to|has\s+to|have\s+to|is\s+going\s+to|are\s+going\s+to)\s+(.+)`)
	dueRe    = regexp.MustCompile(`(?i)\s+(?:by|before|on|until|starting|no\s+later\s+than)\s+(` + dateExpr + `)`)

	assignedSectionRe = regexp.MustCompile(`(?i)action\s+items?\s+(?:were|was|are)?\s*(?:assigned|agreed|identified|listed|discussed)`)

	// decisionRe matches a fixed list of decision-indicator phrases; the
	// decision text is everything after the indicator up to the next clause
	// boundary. New phrases are added to the alternation, not the code.
	decisionRe = regexp.MustCompile(`(?i)\b(?:(?:it\s+was\s+)?(?:decided|agreed|resolved|concluded)\s+(?:to|that|on)` +
		`|decision\s+was\s+made\s+to|made\s+the\s+decision\s+to` +
		`|(?:the\s+)?proposal\s+is\s+to|proposed\s+to` +
		`|(?:the\s+)?consensus\s+was(?:\s+(?:to|that))?` +
		`|(?:the\s+)?policy\s+will)\s+(.+)`)

	clauseBoundaryRe = regexp.MustCompile(`[,;:]`)
	priorityHintRe   = regexp.MustCompile(`(?i)\b(urgent|asap|critical|top\s+priority|high\s+priority)\b`)

	decisionOwnerRe = regexp.MustCompile(`(` + subjectExpr + `)\s+(?:decided|agreed|resolved|proposed|concluded)`)
)

// skipSubjects are capitalized tokens that look like subjects but are
// determiners or sentence-initial noise; matches on them are discarded.
var skipSubjects = map[string]bool{
	"The": true, "A": true, "An": true, "This": true, "That": true,
	"There": true, "It": true, "These": true, "Those": true,
}

// pronounSubjects are accepted as actions but carry no owner.
var pronounSubjects = map[string]bool{
	"We": true, "They": true, "I": true, "You": true, "He": true,
	"She": true, "Everyone": true, "Everybody": true, "Someone": true,
}

// Extract runs the action-item and decision passes over sentence-split text.
// Segments, when provided, supply fallback owners for sentences spoken inside
// a named speaker's segment. Results are deduplicated and truncated to a
// fixed maximum.
func (e *Extractor) Extract(sentences []string, segments []entities.Segment) ([]entities.ActionItem, []entities.Decision) {
	actions := []entities.ActionItem{}
	decisions := []entities.Decision{}
	seenActions := map[string]bool{}
	seenDecisions := map[string]bool{}

	// Priority pass: a bounded, explicitly announced action-item section.
	// Items found here land first, and the dedup set keeps the generic pass
	// from re-matching the same sentences.
	for i, s := range sentences {
		if !assignedSectionRe.MatchString(s) {
			continue
		}
		end := min(i+assignedSectionSpan, len(sentences))
		for _, sec := range sentences[i:end] {
			if item, ok := e.matchAction(sec); ok {
				addAction(&actions, seenActions, item)
			}
		}
		break
	}

	for _, s := range sentences {
		if item, ok := e.matchAction(s); ok {
			addAction(&actions, seenActions, item)
		}
	}

	for _, s := range sentences {
		if d, ok := e.matchDecision(s); ok {
			addDecision(&decisions, seenDecisions, d)
		}
	}

	backfillOwners(actions, segments)

	if len(actions) > maxExtractedItems {
		actions = actions[:maxExtractedItems]
	}
	if len(decisions) > maxExtractedItems {
		decisions = decisions[:maxExtractedItems]
	}
	return actions, decisions
}

// ExtractFromText is a convenience wrapper that sentence-splits raw text the
// same way the pipeline does before extraction.
func (e *Extractor) ExtractFromText(text string, segments []entities.Segment) ([]entities.ActionItem, []entities.Decision) {
	return e.Extract(SplitSentences(text), segments)
}

// SplitSentences flattens newlines and splits on sentence-terminal periods,
// dropping empty fragments.
func SplitSentences(text string) []string {
	flat := strings.ReplaceAll(text, "\n", " ")
	parts := regexp.MustCompile(`[.!?]+`).Split(flat, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

func (e *Extractor) matchAction(sentence string) (entities.ActionItem, bool) {
	m := actionRe.FindStringSubmatch(sentence)
	if m == nil {
		return entities.ActionItem{}, false
	}

	subject := strings.TrimSpace(m[1])
	firstWord := strings.Fields(subject)[0]
	if skipSubjects[firstWord] {
		return entities.ActionItem{}, false
	}

	tail := strings.TrimSpace(m[2])
	var due *string
	if loc := dueRe.FindStringSubmatchIndex(tail); loc != nil {
		d := tail[loc[2]:loc[3]]
		due = &d
		tail = strings.TrimSpace(tail[:loc[0]])
	}

	description := truncate(strings.Trim(tail, " .,"), maxDescriptionLen)
	if len(description) < MinActionLen {
		return entities.ActionItem{}, false
	}

	var owner *string
	if !pronounSubjects[firstWord] {
		owner = &subject
	}

	var priority *string
	if priorityHintRe.MatchString(sentence) {
		p := entities.ActionItemPriorityHigh
		priority = &p
	}

	return entities.ActionItem{
		Description: description,
		Owner:       owner,
		DueDate:     due,
		Priority:    priority,
	}, true
}

func (e *Extractor) matchDecision(sentence string) (entities.Decision, bool) {
	m := decisionRe.FindStringSubmatch(sentence)
	if m == nil {
		return entities.Decision{}, false
	}

	text := strings.TrimSpace(m[1])
	// Cut at the first clause boundary so trailing subordinate clauses do
	// not leak into the decision text.
	if loc := clauseBoundaryRe.FindStringIndex(text); loc != nil {
		text = strings.TrimSpace(text[:loc[0]])
	}
	text = truncate(strings.Trim(text, " ."), maxDecisionLen)
	if len(text) < MinDecisionLen {
		return entities.Decision{}, false
	}

	var owner *string
	if om := decisionOwnerRe.FindStringSubmatch(sentence); om != nil {
		subject := strings.TrimSpace(om[1])
		first := strings.Fields(subject)[0]
		if !skipSubjects[first] && !pronounSubjects[first] {
			owner = &subject
		}
	}

	return entities.Decision{Text: text, Owner: owner}, true
}

// addAction keeps the first occurrence by case-insensitive exact description.
func addAction(actions *[]entities.ActionItem, seen map[string]bool, item entities.ActionItem) {
	key := strings.ToLower(item.Description)
	if seen[key] {
		return
	}
	seen[key] = true
	*actions = append(*actions, item)
}

// addDecision keeps the first occurrence by normalized text prefix.
func addDecision(decisions *[]entities.Decision, seen map[string]bool, d entities.Decision) {
	key := strings.ToLower(d.Text)
	if len(key) > decisionDedupPrefix {
		key = key[:decisionDedupPrefix]
	}
	if seen[key] {
		return
	}
	seen[key] = true
	*decisions = append(*decisions, d)
}

// backfillOwners assigns a segment's speaker to ownerless actions whose
// description appears inside that named speaker's segment.
func backfillOwners(actions []entities.ActionItem, segments []entities.Segment) {
	if len(segments) == 0 {
		return
	}
	for i := range actions {
		if actions[i].Owner != nil {
			continue
		}
		for _, seg := range segments {
			if seg.Speaker == entities.SpeakerUnknown || seg.Speaker == entities.SpeakerTranscript {
				continue
			}
			if strings.Contains(strings.ToLower(seg.Text), strings.ToLower(actions[i].Description)) {
				speaker := seg.Speaker
				actions[i].Owner = &speaker
				break
			}
		}
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.TrimSpace(s[:max])
}
