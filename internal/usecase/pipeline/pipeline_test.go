package pipeline

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	apperrors "github.com/johnquangdev/meeting-ai/errors"
	"github.com/johnquangdev/meeting-ai/internal/domain/entities"
	aiuc "github.com/johnquangdev/meeting-ai/internal/usecase/ai"
	"github.com/johnquangdev/meeting-ai/pkg/config"
)

func testCfg() config.PipelineConfig {
	return config.PipelineConfig{
		DefaultLanguage: "en",
		MaxParseRetries: 2,
		MaxActionItems:  15,
		MaxDecisions:    15,
		MinActions:      3,
		MinDecisions:    2,
	}
}

func TestProcess_EmptyInputIsTerminal(t *testing.T) {
	p := New(aiuc.NewOrchestrator(nil, nil, testCfg(), nil), testCfg(), nil)
	if _, err := p.Process(context.Background(), "  \n ", ""); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestProcess_EndToEndWithoutBackends(t *testing.T) {
	p := New(aiuc.NewOrchestrator(nil, nil, testCfg(), nil), testCfg(), nil)

	text := "HR will draft the remote work policy by October 15. " +
		"Finance needs to finalize the Q4 budget by October 20."
	minutes, err := p.Process(context.Background(), text, "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if minutes.Transcript == "" {
		t.Fatal("cleaned transcript missing")
	}
	if len(minutes.ActionItems) != 2 {
		t.Fatalf("expected 2 action items, got %v", minutes.ActionItems)
	}
	first, second := minutes.ActionItems[0], minutes.ActionItems[1]
	if first.Owner == nil || *first.Owner != "HR" {
		t.Fatalf("unexpected first owner %v", first.Owner)
	}
	if first.DueDate == nil || *first.DueDate != "October 15" {
		t.Fatalf("unexpected first due date %v", first.DueDate)
	}
	if second.Owner == nil || *second.Owner != "Finance" {
		t.Fatalf("unexpected second owner %v", second.Owner)
	}
	if second.DueDate == nil || *second.DueDate != "October 20" {
		t.Fatalf("unexpected second due date %v", second.DueDate)
	}
	if len(minutes.Decisions) != 0 {
		t.Fatalf("expected no decisions, got %v", minutes.Decisions)
	}
	if len(minutes.Diarization) != 1 || minutes.Diarization[0].Speaker != entities.SpeakerTranscript {
		t.Fatalf("expected single transcript segment, got %v", minutes.Diarization)
	}
	if minutes.StructuredSummary == nil || minutes.StructuredSummary.Title == "" {
		t.Fatal("summary not populated")
	}
}

// blockingOrch parks Summarize and Diarize until released, so the test can
// observe that both stages were dispatched before either finished.
type blockingOrch struct {
	entered chan string
	release chan struct{}
}

func (b *blockingOrch) Clean(_ context.Context, text, _ string) (string, error) {
	return text, nil
}

func (b *blockingOrch) Summarize(_ context.Context, _, _ string) (*entities.StructuredSummary, error) {
	b.entered <- "summarize"
	<-b.release
	return entities.NewStructuredSummary(), nil
}

func (b *blockingOrch) Diarize(_ context.Context, text, _ string) ([]entities.Segment, error) {
	b.entered <- "diarize"
	<-b.release
	return []entities.Segment{{Speaker: "Speaker 1", Text: text}}, nil
}

func (b *blockingOrch) Extract(_ context.Context, _ string, _ []entities.Segment, _ string) ([]entities.ActionItem, []entities.Decision, error) {
	return []entities.ActionItem{}, []entities.Decision{}, nil
}

func (b *blockingOrch) Transcribe(_ context.Context, _ io.Reader, _ string) (string, error) {
	return "", errors.New("not configured")
}

func TestProcess_SummarizeAndDiarizeRunConcurrently(t *testing.T) {
	orch := &blockingOrch{
		entered: make(chan string, 2),
		release: make(chan struct{}),
	}
	p := New(orch, testCfg(), nil)

	done := make(chan error, 1)
	go func() {
		_, err := p.Process(context.Background(), "some transcript text", "en")
		done <- err
	}()

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case stage := <-orch.entered:
			seen[stage] = true
		case <-time.After(2 * time.Second):
			t.Fatalf("stages not dispatched concurrently, saw %v", seen)
		}
	}
	if !seen["summarize"] || !seen["diarize"] {
		t.Fatalf("expected both stages in flight, saw %v", seen)
	}

	close(orch.release)
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// cleanFailOrch fails the clean stage with an error outside the pipeline
// taxonomy.
type cleanFailOrch struct {
	blockingOrch
}

func (c *cleanFailOrch) Clean(_ context.Context, _, _ string) (string, error) {
	return "", errors.New("backend blew up")
}

func TestProcess_WrapsUnexpectedCleanError(t *testing.T) {
	p := New(&cleanFailOrch{}, testCfg(), nil)

	_, err := p.Process(context.Background(), "some transcript text", "en")
	var appErr apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != apperrors.ErrorCode_PROCESSING_FAILED {
		t.Fatalf("unexpected code %v", appErr.Code)
	}
}

// failingOrch fails the summarize stage only.
type failingOrch struct {
	blockingOrch
}

func (f *failingOrch) Summarize(_ context.Context, _, _ string) (*entities.StructuredSummary, error) {
	return nil, errors.New("summarize exploded")
}

func (f *failingOrch) Diarize(_ context.Context, text, _ string) ([]entities.Segment, error) {
	return []entities.Segment{{Speaker: "Speaker 1", Text: text}}, nil
}

func TestProcess_SummarizeFailureDoesNotDropDiarization(t *testing.T) {
	p := New(&failingOrch{}, testCfg(), nil)

	minutes, err := p.Process(context.Background(), "some transcript text", "en")
	if err != nil {
		t.Fatalf("sibling failure must not be terminal: %v", err)
	}
	if len(minutes.Diarization) != 1 || minutes.Diarization[0].Speaker != "Speaker 1" {
		t.Fatalf("diarization lost: %v", minutes.Diarization)
	}
	if minutes.StructuredSummary == nil || minutes.StructuredSummary.Title != "Meeting Minutes" {
		t.Fatalf("expected default summary, got %+v", minutes.StructuredSummary)
	}
}

func TestLanguage_DefaultsFromConfig(t *testing.T) {
	cfg := testCfg()
	cfg.DefaultLanguage = "vi"
	p := New(nil, cfg, nil)

	if got := p.Language(""); got != "vi" {
		t.Fatalf("expected configured default, got %q", got)
	}
	if got := p.Language("en"); got != "en" {
		t.Fatalf("expected request hint to win, got %q", got)
	}
}
