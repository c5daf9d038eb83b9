package rules

import (
	"fmt"
	"strings"
	"testing"

	"github.com/johnquangdev/meeting-ai/internal/domain/entities"
)

func TestExtract_ActionWithOwnerAndDue(t *testing.T) {
	e := NewExtractor()
	actions, decisions := e.ExtractFromText("John will prepare the presentation slides by next Monday.", nil)
	if len(actions) != 1 {
		t.Fatalf("expected 1 action, got %d: %v", len(actions), actions)
	}
	a := actions[0]
	if a.Description != "prepare the presentation slides" {
		t.Fatalf("unexpected description %q", a.Description)
	}
	if a.Owner == nil || *a.Owner != "John" {
		t.Fatalf("unexpected owner %v", a.Owner)
	}
	if a.DueDate == nil || *a.DueDate != "next Monday" {
		t.Fatalf("unexpected due date %v", a.DueDate)
	}
	if len(decisions) != 0 {
		t.Fatalf("expected no decisions, got %v", decisions)
	}
}

func TestExtract_PronounSubjectHasNoOwner(t *testing.T) {
	e := NewExtractor()
	actions, _ := e.ExtractFromText("We need to update the onboarding documentation.", nil)
	if len(actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(actions))
	}
	if actions[0].Owner != nil {
		t.Fatalf("pronoun subject should carry no owner, got %q", *actions[0].Owner)
	}
}

func TestExtract_Decision(t *testing.T) {
	e := NewExtractor()
	actions, decisions := e.ExtractFromText("We decided to implement a 3-day remote work policy.", nil)
	if len(decisions) != 1 {
		t.Fatalf("expected 1 decision, got %d: %v", len(decisions), decisions)
	}
	if decisions[0].Text != "implement a 3-day remote work policy" {
		t.Fatalf("unexpected decision %q", decisions[0].Text)
	}
	if decisions[0].Owner != nil {
		t.Fatalf("pronoun decision should carry no owner")
	}
	if len(actions) != 0 {
		t.Fatalf("expected no actions, got %v", actions)
	}
}

func TestExtract_DecisionCutAtClauseBoundary(t *testing.T) {
	e := NewExtractor()
	_, decisions := e.ExtractFromText("It was decided that the launch moves to March, pending final approval.", nil)
	if len(decisions) != 1 {
		t.Fatalf("expected 1 decision, got %v", decisions)
	}
	if decisions[0].Text != "the launch moves to March" {
		t.Fatalf("clause boundary not applied: %q", decisions[0].Text)
	}
}

func TestExtract_DeduplicatesRepeats(t *testing.T) {
	e := NewExtractor()
	text := "Alice will send the weekly report. Alice will send the weekly report. " +
		"We agreed to adopt the new deployment process. We agreed to adopt the new deployment process."
	actions, decisions := e.ExtractFromText(text, nil)
	if len(actions) != 1 {
		t.Fatalf("duplicate actions not collapsed: %v", actions)
	}
	if len(decisions) != 1 {
		t.Fatalf("duplicate decisions not collapsed: %v", decisions)
	}
}

func TestExtract_CapsResults(t *testing.T) {
	e := NewExtractor()
	var sb strings.Builder
	for i := 0; i < 25; i++ {
		fmt.Fprintf(&sb, "Alice will review document number %d today. ", i)
	}
	actions, _ := e.ExtractFromText(sb.String(), nil)
	if len(actions) != maxExtractedItems {
		t.Fatalf("expected cap of %d, got %d", maxExtractedItems, len(actions))
	}
}

func TestExtract_PriorityHint(t *testing.T) {
	e := NewExtractor()
	actions, _ := e.ExtractFromText("This is urgent so Sarah must update the security patch today.", nil)
	if len(actions) != 1 {
		t.Fatalf("expected 1 action, got %v", actions)
	}
	if actions[0].Priority == nil || *actions[0].Priority != entities.ActionItemPriorityHigh {
		t.Fatalf("expected high priority, got %v", actions[0].Priority)
	}
}

func TestExtract_BackfillsOwnerFromSegments(t *testing.T) {
	e := NewExtractor()
	segments := []entities.Segment{
		{Speaker: "Speaker 2", Text: "We will finalize the budget by tomorrow"},
	}
	actions, _ := e.ExtractFromText("We will finalize the budget by tomorrow.", segments)
	if len(actions) != 1 {
		t.Fatalf("expected 1 action, got %v", actions)
	}
	if actions[0].Owner == nil || *actions[0].Owner != "Speaker 2" {
		t.Fatalf("owner not backfilled from segment: %v", actions[0].Owner)
	}
}

func TestExtract_AssignedSectionComesFirst(t *testing.T) {
	e := NewExtractor()
	text := "Bob will fix the login bug by Friday. " +
		"The following action items were assigned during the meeting. " +
		"Carol will write the release notes by Thursday."
	actions, _ := e.ExtractFromText(text, nil)
	if len(actions) != 2 {
		t.Fatalf("expected 2 actions, got %v", actions)
	}
	if actions[0].Owner == nil || *actions[0].Owner != "Carol" {
		t.Fatalf("announced section items should come first, got %+v", actions[0])
	}
}

func TestExtract_NoFalsePositives(t *testing.T) {
	e := NewExtractor()
	actions, decisions := e.ExtractFromText(
		"The weather was nice. Everyone enjoyed the lunch break. It rained later.", nil)
	if len(actions) != 0 || len(decisions) != 0 {
		t.Fatalf("expected nothing, got actions=%v decisions=%v", actions, decisions)
	}
}
