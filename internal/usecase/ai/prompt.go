package ai

import (
	"fmt"
	"strings"
)

// Per-task completion budgets. Cleaning and diarization echo most of the
// input back; summaries and extractions are strictly smaller.
const (
	maxTokensClean     = 2048
	maxTokensDiarize   = 2048
	maxTokensSummarize = 1536
	maxTokensExtract   = 1024
)

func languageName(code string) string {
	switch strings.ToLower(code) {
	case "vi":
		return "Vietnamese"
	case "en":
		return "English"
	default:
		return "the same language as the input"
	}
}

// CleanPrompt asks for cleaned plain text, not JSON.
func CleanPrompt(text, language string) string {
	return fmt.Sprintf(`You are a transcript editor. Clean the following meeting transcript:
- remove filler words and hesitations
- fix punctuation and capitalization
- keep every statement and its meaning, do not summarize
- respond in %s
Return ONLY the cleaned text, no commentary.

Transcript:
%s`, languageName(language), text)
}

// DiarizePrompt asks for a JSON array of speaker segments.
func DiarizePrompt(text, language string) string {
	return fmt.Sprintf(`Segment the following meeting transcript by speaker.
Return ONLY a JSON array, no markdown, in this exact shape:
[{"speaker": "Speaker 1", "text": "..."}]
Use speaker names from the transcript when present. Respond in %s.

Transcript:
%s`, languageName(language), text)
}

// SummarizePrompt asks for the structured summary object.
func SummarizePrompt(text, language string) string {
	return fmt.Sprintf(`Summarize the following meeting transcript.
Return ONLY a JSON object, no markdown, in this exact shape:
{"title": "...", "date": "...", "time": "...", "attendants": ["..."], "project_name": "...", "customer": "...", "table_of_content": ["..."], "main_content": "..."}
Use "To be determined" for anything the transcript does not state. Respond in %s.

Transcript:
%s`, languageName(language), text)
}

// ExtractPrompt asks for action items and decisions.
func ExtractPrompt(text, language string) string {
	return fmt.Sprintf(`Extract action items and decisions from the following meeting transcript.
Return ONLY a JSON object, no markdown, in this exact shape:
{"action_items": [{"description": "...", "owner": null, "due_date": null, "priority": null}], "decisions": [{"text": "...", "owner": null}]}
Only include items actually stated in the transcript. Respond in %s.

Transcript:
%s`, languageName(language), text)
}

// CorrectivePrompt re-asks after a malformed response, quoting a snippet of
// the bad output so the model can see what to avoid.
func CorrectivePrompt(original, badOutput string) string {
	return fmt.Sprintf(`Your previous response was not valid JSON and could not be parsed.
Previous response started with: %s
Respond again with ONLY valid JSON, no markdown fences, no commentary.

%s`, snippet(badOutput, 200), original)
}
