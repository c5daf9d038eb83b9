package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	apperrors "github.com/johnquangdev/meeting-ai/errors"
	"github.com/johnquangdev/meeting-ai/internal/domain/entities"
	pkgai "github.com/johnquangdev/meeting-ai/pkg/ai"
	"github.com/johnquangdev/meeting-ai/pkg/config"
)

// fakeGateway replays scripted responses in order.
type fakeGateway struct {
	responses []string
	err       error
	prompts   []string
}

func (f *fakeGateway) Available() bool { return true }

func (f *fakeGateway) Generate(_ context.Context, prompt string, _ int) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	idx := len(f.prompts) - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	return f.responses[idx], nil
}

func testPipelineCfg() config.PipelineConfig {
	return config.PipelineConfig{
		DefaultLanguage: "en",
		MaxParseRetries: 1,
		MaxActionItems:  15,
		MaxDecisions:    15,
		MinActions:      3,
		MinDecisions:    2,
	}
}

func TestClean_GenerativeResult(t *testing.T) {
	gw := &fakeGateway{responses: []string{"This is the cleaned transcript."}}
	o := NewOrchestrator(gw, nil, testPipelineCfg(), nil)

	out, err := o.Clean(context.Background(), "uh this is um the transcript", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "This is the cleaned transcript." {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestClean_FallsBackOnGatewayFailure(t *testing.T) {
	gw := &fakeGateway{err: errors.New("all generative providers failed")}
	o := NewOrchestrator(gw, nil, testPipelineCfg(), nil)

	out, err := o.Clean(context.Background(), "um the plan is ready", "en")
	if err != nil {
		t.Fatalf("fallback must not fail: %v", err)
	}
	if out != "The plan is ready." {
		t.Fatalf("unexpected fallback output %q", out)
	}
}

func TestClean_EmptyInputIsError(t *testing.T) {
	o := NewOrchestrator(nil, nil, testPipelineCfg(), nil)
	if _, err := o.Clean(context.Background(), "   ", "en"); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestDiarize_CorrectiveReprompt(t *testing.T) {
	gw := &fakeGateway{responses: []string{
		"sorry, I cannot do that",
		`[{"speaker": "Speaker 1", "text": "hello"}]`,
	}}
	o := NewOrchestrator(gw, nil, testPipelineCfg(), nil)

	segments, err := o.Diarize(context.Background(), "Speaker 1: hello", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gw.prompts) != 2 {
		t.Fatalf("expected one corrective re-ask, got %d calls", len(gw.prompts))
	}
	if !strings.Contains(gw.prompts[1], "not valid JSON") {
		t.Fatalf("second prompt is not corrective: %q", gw.prompts[1])
	}
	if len(segments) != 1 || segments[0].Speaker != "Speaker 1" {
		t.Fatalf("unexpected segments %v", segments)
	}
}

func TestDiarize_FallsBackAfterRetriesExhausted(t *testing.T) {
	gw := &fakeGateway{responses: []string{"still not json", "nope"}}
	o := NewOrchestrator(gw, nil, testPipelineCfg(), nil)

	segments, err := o.Diarize(context.Background(), "Speaker 1: hello\nSpeaker 2: hi", "en")
	if err != nil {
		t.Fatalf("fallback must not fail: %v", err)
	}
	if len(gw.prompts) != 2 {
		t.Fatalf("expected initial ask plus one retry, got %d", len(gw.prompts))
	}
	if len(segments) != 2 {
		t.Fatalf("expected rule-based segments, got %v", segments)
	}
}

func TestSummarize_FallsBackOnGatewayFailure(t *testing.T) {
	gw := &fakeGateway{err: errors.New("rate limited everywhere")}
	o := NewOrchestrator(gw, nil, testPipelineCfg(), nil)

	summary, err := o.Summarize(context.Background(), "We discussed the budget for next quarter.", "en")
	if err != nil {
		t.Fatalf("fallback must not fail: %v", err)
	}
	if summary.Title == "" || summary.Date == "" {
		t.Fatalf("summary fields not populated: %+v", summary)
	}
}

func TestExtract_AugmentsLowGenerativeCounts(t *testing.T) {
	gw := &fakeGateway{responses: []string{
		`{"action_items": [{"description": "review the roadmap", "owner": "Ana", "due_date": null, "priority": null}], "decisions": []}`,
	}}
	o := NewOrchestrator(gw, nil, testPipelineCfg(), nil)

	text := "Ana will review the roadmap. John will prepare the slides by Friday. We decided to hire two engineers."
	actions, decisions, err := o.Extract(context.Background(), text, nil, "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(actions) < 2 {
		t.Fatalf("rule-based augmentation missing: %v", actions)
	}
	if actions[0].Description != "review the roadmap" {
		t.Fatalf("generative items must come first: %v", actions)
	}
	if len(decisions) != 1 {
		t.Fatalf("expected augmented decision, got %v", decisions)
	}
}

func TestExtract_DropsSubMinimumGenerativeItems(t *testing.T) {
	gw := &fakeGateway{responses: []string{
		`{"action_items": ["ok", {"description": "a"}, {"description": "Review the quarterly roadmap with the platform team"}],` +
			` "decisions": [{"text": "no"}, "Adopt the release checklist for all services"]}`,
	}}
	o := NewOrchestrator(gw, nil, testPipelineCfg(), nil)

	text := "The group talked through the quarter at length without assigning anything."
	actions, decisions, err := o.Extract(context.Background(), text, nil, "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(actions) != 1 || actions[0].Description != "Review the quarterly roadmap with the platform team" {
		t.Fatalf("sub-minimum actions must be dropped: %v", actions)
	}
	if len(decisions) != 1 || decisions[0].Text != "Adopt the release checklist for all services" {
		t.Fatalf("sub-minimum decisions must be dropped: %v", decisions)
	}
}

func TestExtract_FallsBackEntirely(t *testing.T) {
	gw := &fakeGateway{err: errors.New("providers down")}
	o := NewOrchestrator(gw, nil, testPipelineCfg(), nil)

	actions, _, err := o.Extract(context.Background(), "John will prepare the slides by Friday.", nil, "en")
	if err != nil {
		t.Fatalf("fallback must not fail: %v", err)
	}
	if len(actions) != 1 || actions[0].Owner == nil || *actions[0].Owner != "John" {
		t.Fatalf("unexpected fallback actions %v", actions)
	}
}

func TestExtract_NoGatewayUsesRules(t *testing.T) {
	o := NewOrchestrator(nil, nil, testPipelineCfg(), nil)

	segments := []entities.Segment{{Speaker: "Speaker 1", Text: "We will finalize the budget by tomorrow"}}
	actions, _, err := o.Extract(context.Background(), "We will finalize the budget by tomorrow.", segments, "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(actions) != 1 || actions[0].Owner == nil || *actions[0].Owner != "Speaker 1" {
		t.Fatalf("unexpected actions %v", actions)
	}
}

func TestGenerateJSON_MapsExhaustedGateway(t *testing.T) {
	gw := &fakeGateway{err: fmt.Errorf("%w: quota exceeded", pkgai.ErrAllProvidersFailed)}
	o := NewOrchestrator(gw, nil, testPipelineCfg(), nil).(*orchestrator)

	_, err := o.generateJSON(context.Background(), "prompt", 64)
	var appErr apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != apperrors.ErrorCode_ALL_PROVIDERS_FAILED {
		t.Fatalf("unexpected code %v", appErr.Code)
	}
}

func TestTranscribe_NotConfigured(t *testing.T) {
	o := NewOrchestrator(nil, nil, testPipelineCfg(), nil)
	if _, err := o.Transcribe(context.Background(), strings.NewReader("audio"), "en"); err == nil {
		t.Fatal("expected error when speech-to-text is not configured")
	}
}
