package ai

import (
	"encoding/json"
	"strings"

	"github.com/johnquangdev/meeting-ai/internal/domain/entities"
	"github.com/johnquangdev/meeting-ai/internal/usecase/rules"
)

// The parsers in this file coerce loose model JSON into domain types. They
// are deliberately forgiving: a missing field gets its default, a
// wrong-typed field is dropped, and only a document with no usable content
// at all counts as a parse failure.

// ParseSegments accepts either a bare array of segments or an object with a
// "segments" key. Entries without usable text are dropped.
func ParseSegments(data []byte) ([]entities.Segment, bool) {
	var arr []map[string]interface{}
	if err := json.Unmarshal(data, &arr); err != nil {
		var wrapper map[string]interface{}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, false
		}
		raw, ok := wrapper["segments"].([]interface{})
		if !ok {
			return nil, false
		}
		for _, item := range raw {
			if m, ok := item.(map[string]interface{}); ok {
				arr = append(arr, m)
			}
		}
	}

	segments := []entities.Segment{}
	for _, m := range arr {
		text := strings.TrimSpace(asString(m["text"]))
		if text == "" {
			continue
		}
		speaker := strings.TrimSpace(asString(m["speaker"]))
		if speaker == "" {
			speaker = entities.SpeakerUnknown
		}
		segments = append(segments, entities.Segment{Speaker: speaker, Text: text})
	}
	return segments, len(segments) > 0
}

// ParseSummary coerces a summary object. It never fails structurally as long
// as the document is a JSON object; defaults fill everything else.
func ParseSummary(data []byte) (*entities.StructuredSummary, bool) {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, false
	}

	s := &entities.StructuredSummary{
		Title:          strings.TrimSpace(asString(m["title"])),
		Date:           strings.TrimSpace(asString(m["date"])),
		Time:           strings.TrimSpace(asString(m["time"])),
		Attendants:     asStringSlice(m["attendants"]),
		ProjectName:    strings.TrimSpace(asString(m["project_name"])),
		Customer:       strings.TrimSpace(asString(m["customer"])),
		TableOfContent: asStringSlice(m["table_of_content"]),
		MainContent:    strings.TrimSpace(asString(m["main_content"])),
	}
	s.ApplyDefaults()
	return s, true
}

// ParseExtraction coerces {"action_items": [...], "decisions": [...]}.
// Decisions may be plain strings or {text, owner} objects. Items below the
// rule extractor's minimum lengths are dropped as noise.
func ParseExtraction(data []byte) ([]entities.ActionItem, []entities.Decision, bool) {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, nil, false
	}

	actions := []entities.ActionItem{}
	if raw, ok := m["action_items"].([]interface{}); ok {
		for _, item := range raw {
			obj, ok := item.(map[string]interface{})
			if !ok {
				// A bare string still counts as an ownerless action.
				if s := strings.TrimSpace(asString(item)); len(s) >= rules.MinActionLen {
					actions = append(actions, entities.ActionItem{Description: s})
				}
				continue
			}
			desc := strings.TrimSpace(asString(obj["description"]))
			if len(desc) < rules.MinActionLen {
				continue
			}
			actions = append(actions, entities.ActionItem{
				Description: desc,
				Owner:       asOptString(obj["owner"]),
				DueDate:     asOptString(obj["due_date"]),
				Priority:    asOptString(obj["priority"]),
			})
		}
	}

	decisions := []entities.Decision{}
	if raw, ok := m["decisions"].([]interface{}); ok {
		for _, item := range raw {
			if obj, ok := item.(map[string]interface{}); ok {
				text := strings.TrimSpace(asString(obj["text"]))
				if len(text) < rules.MinDecisionLen {
					continue
				}
				decisions = append(decisions, entities.Decision{Text: text, Owner: asOptString(obj["owner"])})
				continue
			}
			if s := strings.TrimSpace(asString(item)); len(s) >= rules.MinDecisionLen {
				decisions = append(decisions, entities.Decision{Text: s})
			}
		}
	}

	return actions, decisions, true
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// asOptString returns nil for missing, null, wrong-typed or placeholder-ish
// empty values.
func asOptString(v interface{}) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "none") {
		return nil
	}
	return &s
}

func asStringSlice(v interface{}) []string {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := []string{}
	for _, item := range raw {
		if s := strings.TrimSpace(asString(item)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
