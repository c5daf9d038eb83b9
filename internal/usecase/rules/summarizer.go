package rules

import (
	"regexp"
	"strings"

	"github.com/johnquangdev/meeting-ai/internal/domain/entities"
)

// Summarizer builds a structured meeting summary from transcript text with
// heuristics only. Every field of the result is populated; fields the text
// never states fall back to the documented defaults.
type Summarizer struct{}

// NewSummarizer creates a new Summarizer.
func NewSummarizer() *Summarizer {
	return &Summarizer{}
}

const mainContentWords = 100

// titleKeywords maps a keyword found in the first sentence to a meeting title.
var titleKeywords = []struct {
	keyword string
	title   string
}{
	{"kickoff", "Project Kickoff Meeting"},
	{"kick-off", "Project Kickoff Meeting"},
	{"standup", "Team Standup"},
	{"stand-up", "Team Standup"},
	{"retrospective", "Sprint Retrospective"},
	{"sprint", "Sprint Planning Meeting"},
	{"budget", "Budget Planning Meeting"},
	{"planning", "Planning Meeting"},
	{"review", "Review Meeting"},
	{"interview", "Interview Session"},
	{"training", "Training Session"},
	{"sync", "Team Sync"},
}

// topicKeywords drives the table-of-content scan over the whole text.
var topicKeywords = []struct {
	keyword string
	topic   string
}{
	{"budget", "Budget Discussion"},
	{"timeline", "Timeline & Milestones"},
	{"deadline", "Timeline & Milestones"},
	{"schedule", "Timeline & Milestones"},
	{"hiring", "Hiring & Staffing"},
	{"recruit", "Hiring & Staffing"},
	{"marketing", "Marketing"},
	{"sales", "Sales Performance"},
	{"revenue", "Sales Performance"},
	{"risk", "Risks & Mitigations"},
	{"customer", "Customer Matters"},
	{"client", "Customer Matters"},
	{"product", "Product Updates"},
	{"feature", "Product Updates"},
	{"policy", "Policies & Process"},
	{"process", "Policies & Process"},
	{"decision", "Key Decisions"},
	{"action item", "Action Items"},
	{"next step", "Next Steps"},
}

// defaultOutline is used when no topic keyword matches at all.
var defaultOutline = []string{"Meeting Overview", "Discussion", "Next Steps"}

var (
	purposeRe = regexp.MustCompile(`(?i)purpose\s+(?:of\s+(?:this|the)\s+meeting\s+)?is\s+to\s+([^.,;]+)`)

	numericDateRe   = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`)
	monthNameDateRe = regexp.MustCompile(`\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s*\d{4})?\b`)
	clockTimeRe     = regexp.MustCompile(`\b\d{1,2}:\d{2}\s*(?:[AaPp][Mm])?\b|\b\d{1,2}\s*[AaPp][Mm]\b`)

	honorificNameRe = regexp.MustCompile(`\b(?:Mr|Ms|Mrs|Dr)\.?\s+([A-ZĐ]\p{L}+)`)
	verbContextRe   = regexp.MustCompile(`\b([A-ZĐ]\p{L}+)\s+(?:said|mentioned|asked|suggested|reported|presented|noted|added|explained|joined|attended|confirmed)\b`)

	// Project/customer names are taken only from explicit naming phrases,
	// never inferred from topic.
	projectRe = []*regexp.Regexp{
		regexp.MustCompile(`(?i:project\s+(?:called|named)\s+"?)([A-Z][\w -]{2,40})"?`),
		regexp.MustCompile(`\bthe\s+([A-Z][\w-]+(?:\s+[A-Z][\w-]+){0,2})\s+project\b`),
	}
	customerRe = []*regexp.Regexp{
		regexp.MustCompile(`(?i:(?:customer|client)\s+(?:called|named)\s+"?)([A-Z][\w -]{2,40})"?`),
		regexp.MustCompile(`(?i:(?:our|the)\s+(?:customer|client)\s+)([A-Z][\w-]+(?:\s+[A-Z][\w-]+){0,2})`),
		regexp.MustCompile(`\bfor\s+(?:customer|client)\s+([A-Z][\w-]+(?:\s+[A-Z][\w-]+){0,2})`),
	}

	keyDecisionSpanRe = regexp.MustCompile(`(?i)key\s+decisions?[^.]*\.`)
	actionItemSpanRe  = regexp.MustCompile(`(?i)action\s+items?[^.]*\.`)
)

// attendantStoplist filters capitalized false positives out of attendant
// detection.
var attendantStoplist = map[string]bool{
	"The": true, "This": true, "That": true, "We": true, "They": true,
	"Meeting": true, "Team": true, "Everyone": true, "Someone": true,
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
	"January": true, "February": true, "March": true, "April": true,
	"May": true, "June": true, "July": true, "August": true,
	"September": true, "October": true, "November": true, "December": true,
}

// Summarize extracts a structured summary from transcript text. It never
// fails; for empty input it returns the all-defaults summary.
func (s *Summarizer) Summarize(text string) *entities.StructuredSummary {
	summary := &entities.StructuredSummary{}
	text = strings.TrimSpace(text)
	if text == "" {
		summary.ApplyDefaults()
		summary.TableOfContent = append([]string{}, defaultOutline...)
		return summary
	}

	sentences := SplitSentences(text)

	summary.Title = s.detectTitle(sentences)
	summary.Date = firstMatch(text, numericDateRe, monthNameDateRe)
	summary.Time = firstMatch(text, clockTimeRe)
	summary.Attendants = s.detectAttendants(text)
	summary.ProjectName = firstGroupMatch(text, projectRe)
	summary.Customer = firstGroupMatch(text, customerRe)
	summary.TableOfContent = s.buildOutline(text)
	summary.MainContent = s.buildMainContent(text)

	summary.ApplyDefaults()
	return summary
}

// detectTitle derives a title from the first sentence: keyword mapping, then
// a "purpose is to ..." clause, then the generic fallback.
func (s *Summarizer) detectTitle(sentences []string) string {
	if len(sentences) == 0 {
		return ""
	}
	first := strings.ToLower(sentences[0])

	for _, tk := range titleKeywords {
		if strings.Contains(first, tk.keyword) {
			return tk.title
		}
	}

	if m := purposeRe.FindStringSubmatch(sentences[0]); m != nil {
		purpose := strings.TrimSpace(m[1])
		if purpose != "" {
			return "Meeting: " + capitalizeFirst(purpose)
		}
	}

	return ""
}

func (s *Summarizer) detectAttendants(text string) []string {
	found := []string{}
	seen := map[string]bool{}

	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" || attendantStoplist[name] {
			return
		}
		key := strings.ToLower(name)
		if seen[key] {
			return
		}
		seen[key] = true
		found = append(found, name)
	}

	for _, m := range honorificNameRe.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range verbContextRe.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	return found
}

func (s *Summarizer) buildOutline(text string) []string {
	lower := strings.ToLower(text)
	outline := []string{}
	seen := map[string]bool{}
	for _, tk := range topicKeywords {
		if strings.Contains(lower, tk.keyword) && !seen[tk.topic] {
			seen[tk.topic] = true
			outline = append(outline, tk.topic)
		}
	}
	if len(outline) == 0 {
		return append([]string{}, defaultOutline...)
	}
	return outline
}

// buildMainContent assembles the opening of the transcript plus any matched
// key-decision and action-item spans.
func (s *Summarizer) buildMainContent(text string) string {
	words := strings.Fields(text)
	n := min(len(words), mainContentWords)
	var sb strings.Builder
	sb.WriteString(strings.Join(words[:n], " "))

	if span := keyDecisionSpanRe.FindString(text); span != "" && !strings.Contains(sb.String(), span) {
		sb.WriteString(" ")
		sb.WriteString(strings.TrimSpace(span))
	}
	if span := actionItemSpanRe.FindString(text); span != "" && !strings.Contains(sb.String(), span) {
		sb.WriteString(" ")
		sb.WriteString(strings.TrimSpace(span))
	}
	return strings.TrimSpace(sb.String())
}

func firstMatch(text string, patterns ...*regexp.Regexp) string {
	for _, re := range patterns {
		if m := re.FindString(text); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

func firstGroupMatch(text string, patterns []*regexp.Regexp) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.Trim(strings.TrimSpace(m[1]), `"`)
		}
	}
	return ""
}
