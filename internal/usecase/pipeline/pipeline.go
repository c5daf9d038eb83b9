package pipeline

import (
	"context"
	stderrors "errors"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-ai/errors"
	"github.com/johnquangdev/meeting-ai/internal/domain/entities"
	aiuc "github.com/johnquangdev/meeting-ai/internal/usecase/ai"
	"github.com/johnquangdev/meeting-ai/pkg/config"
)

// Pipeline runs the full meeting-minutes flow: clean, then summarize and
// diarize concurrently, then extract action items and decisions from the
// cleaned text and the segments. A failed summarize or diarize stage is
// replaced with its default result instead of failing the run; only empty
// input and transcription failures are terminal.
type Pipeline struct {
	orch   aiuc.Orchestrator
	cfg    config.PipelineConfig
	logger *zap.Logger
}

// New creates a Pipeline over the given orchestrator.
func New(orch aiuc.Orchestrator, cfg config.PipelineConfig, logger *zap.Logger) *Pipeline {
	return &Pipeline{orch: orch, cfg: cfg, logger: logger}
}

// Language resolves the request language hint against the configured default.
func (p *Pipeline) Language(hint string) string {
	if strings.TrimSpace(hint) != "" {
		return hint
	}
	return p.cfg.DefaultLanguage
}

// Process turns raw transcript text into complete meeting minutes.
func (p *Pipeline) Process(ctx context.Context, text, language string) (*entities.MeetingMinutes, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.ErrNoInput()
	}
	language = p.Language(language)

	cleaned, err := p.orch.Clean(ctx, text, language)
	if err != nil {
		var appErr apperrors.AppError
		if stderrors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperrors.ErrProcessingFailed(err)
	}

	if p.logger != nil {
		p.logger.Info("🧹 Transcript cleaned",
			zap.Int("raw_chars", len(text)),
			zap.Int("cleaned_chars", len(cleaned)),
		)
	}

	var (
		wg       sync.WaitGroup
		summary  *entities.StructuredSummary
		segments []entities.Segment
		sumErr   error
		diaErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		summary, sumErr = p.orch.Summarize(ctx, cleaned, language)
	}()
	go func() {
		defer wg.Done()
		segments, diaErr = p.orch.Diarize(ctx, cleaned, language)
	}()
	wg.Wait()

	// Sibling isolation: one stage failing never drops the other's result.
	if sumErr != nil || summary == nil {
		if p.logger != nil && sumErr != nil {
			p.logger.Warn("⚠️ Summarize stage failed, using defaults", zap.Error(sumErr))
		}
		summary = entities.NewStructuredSummary()
	}
	if diaErr != nil || len(segments) == 0 {
		if p.logger != nil && diaErr != nil {
			p.logger.Warn("⚠️ Diarize stage failed, using single segment", zap.Error(diaErr))
		}
		segments = []entities.Segment{{Speaker: entities.SpeakerTranscript, Text: cleaned}}
	}

	actions, decisions, err := p.orch.Extract(ctx, cleaned, segments, language)
	if err != nil {
		if p.logger != nil {
			p.logger.Warn("⚠️ Extract stage failed, continuing without items", zap.Error(err))
		}
		actions, decisions = []entities.ActionItem{}, []entities.Decision{}
	}

	minutes := entities.NewMeetingMinutes(cleaned)
	minutes.StructuredSummary = summary
	minutes.Diarization = segments
	minutes.ActionItems = actions
	minutes.Decisions = decisions

	if p.logger != nil {
		p.logger.Info("✅ Meeting minutes assembled",
			zap.Int("segments", len(segments)),
			zap.Int("action_items", len(actions)),
			zap.Int("decisions", len(decisions)),
		)
	}
	return minutes, nil
}

// ProcessAudio transcribes the audio stream and then runs Process on the
// resulting text.
func (p *Pipeline) ProcessAudio(ctx context.Context, audio io.Reader, language string) (*entities.MeetingMinutes, error) {
	language = p.Language(language)
	text, err := p.orch.Transcribe(ctx, audio, language)
	if err != nil {
		return nil, err
	}
	return p.Process(ctx, text, language)
}
