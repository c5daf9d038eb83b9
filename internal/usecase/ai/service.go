package ai

import (
	"context"
	stderrors "errors"
	"io"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-ai/errors"
	"github.com/johnquangdev/meeting-ai/internal/domain/entities"
	"github.com/johnquangdev/meeting-ai/internal/usecase/rules"
	pkgai "github.com/johnquangdev/meeting-ai/pkg/ai"
	"github.com/johnquangdev/meeting-ai/pkg/config"
)

// TextGenerator is the generative gateway surface the orchestrator needs.
type TextGenerator interface {
	Available() bool
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// SpeechToText is the transcription surface the orchestrator needs.
type SpeechToText interface {
	Available() bool
	Transcribe(ctx context.Context, audio io.Reader, language string) (string, error)
}

// Orchestrator runs each extraction task generative-first with a
// deterministic fallback. Its operations only fail on empty input or a
// transcription failure; a dead generative backend degrades the result, it
// never breaks the pipeline.
type Orchestrator interface {
	Clean(ctx context.Context, text, language string) (string, error)
	Diarize(ctx context.Context, text, language string) ([]entities.Segment, error)
	Summarize(ctx context.Context, text, language string) (*entities.StructuredSummary, error)
	Extract(ctx context.Context, text string, segments []entities.Segment, language string) ([]entities.ActionItem, []entities.Decision, error)
	Transcribe(ctx context.Context, audio io.Reader, language string) (string, error)
}

type orchestrator struct {
	gateway     TextGenerator
	stt         SpeechToText
	normalizer  *rules.Normalizer
	diarizer    *rules.Diarizer
	summarizer  *rules.Summarizer
	extractor   *rules.Extractor
	pipelineCfg config.PipelineConfig
	logger      *zap.Logger
}

// NewOrchestrator wires the generative gateway, the speech-to-text client and
// the rule engines together.
func NewOrchestrator(gateway TextGenerator, stt SpeechToText, pipelineCfg config.PipelineConfig, logger *zap.Logger) Orchestrator {
	return &orchestrator{
		gateway:     gateway,
		stt:         stt,
		normalizer:  rules.NewNormalizer(),
		diarizer:    rules.NewDiarizer(),
		summarizer:  rules.NewSummarizer(),
		extractor:   rules.NewExtractor(),
		pipelineCfg: pipelineCfg,
		logger:      logger,
	}
}

// Clean returns cleaned transcript text. The generative path returns plain
// text, so there is no JSON round-trip here.
func (o *orchestrator) Clean(ctx context.Context, text, language string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", apperrors.ErrEmptyContent()
	}

	if o.generativeReady() {
		out, err := o.gateway.Generate(ctx, CleanPrompt(text, language), maxTokensClean)
		if err == nil {
			if cleaned := strings.TrimSpace(extractJSON(out)); cleaned != "" {
				return cleaned, nil
			}
		} else {
			o.logFallback("clean", err)
		}
	}

	return o.normalizer.Normalize(text), nil
}

// Diarize returns speaker segments, generative-first.
func (o *orchestrator) Diarize(ctx context.Context, text, language string) ([]entities.Segment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.ErrEmptyContent()
	}

	if o.generativeReady() {
		data, err := o.generateJSON(ctx, DiarizePrompt(text, language), maxTokensDiarize)
		if err == nil {
			if segments, ok := ParseSegments(data); ok {
				return segments, nil
			}
			err = apperrors.ErrMalformedOutput(nil)
		}
		o.logFallback("diarize", err)
	}

	return o.diarizer.Diarize(text), nil
}

// Summarize returns the structured summary, generative-first. All fields of
// the result are populated either way.
func (o *orchestrator) Summarize(ctx context.Context, text, language string) (*entities.StructuredSummary, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.ErrEmptyContent()
	}

	if o.generativeReady() {
		data, err := o.generateJSON(ctx, SummarizePrompt(text, language), maxTokensSummarize)
		if err == nil {
			if summary, ok := ParseSummary(data); ok {
				return summary, nil
			}
			err = apperrors.ErrMalformedOutput(nil)
		}
		o.logFallback("summarize", err)
	}

	return o.summarizer.Summarize(text), nil
}

// Extract returns action items and decisions. A generative result below the
// configured minimum counts is augmented with rule-based results before the
// caps are applied.
func (o *orchestrator) Extract(ctx context.Context, text string, segments []entities.Segment, language string) ([]entities.ActionItem, []entities.Decision, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil, apperrors.ErrEmptyContent()
	}

	var actions []entities.ActionItem
	var decisions []entities.Decision
	generative := false

	if o.generativeReady() {
		data, err := o.generateJSON(ctx, ExtractPrompt(text, language), maxTokensExtract)
		if err == nil {
			if a, d, ok := ParseExtraction(data); ok {
				actions, decisions = a, d
				generative = true
			} else {
				err = apperrors.ErrMalformedOutput(nil)
			}
		}
		if !generative {
			o.logFallback("extract", err)
		}
	}

	if !generative {
		actions, decisions = o.extractor.ExtractFromText(text, segments)
	} else if len(actions) < o.pipelineCfg.MinActions || len(decisions) < o.pipelineCfg.MinDecisions {
		ruleActions, ruleDecisions := o.extractor.ExtractFromText(text, segments)
		actions = mergeActions(actions, ruleActions)
		decisions = mergeDecisions(decisions, ruleDecisions)
	}

	if len(actions) > o.pipelineCfg.MaxActionItems {
		actions = actions[:o.pipelineCfg.MaxActionItems]
	}
	if len(decisions) > o.pipelineCfg.MaxDecisions {
		decisions = decisions[:o.pipelineCfg.MaxDecisions]
	}
	return actions, decisions, nil
}

// Transcribe converts audio to text. Unlike the text tasks there is no
// deterministic fallback for speech.
func (o *orchestrator) Transcribe(ctx context.Context, audio io.Reader, language string) (string, error) {
	if o.stt == nil || !o.stt.Available() {
		return "", apperrors.ErrTranscriptionFailed(nil).WithDetail("reason", "speech-to-text not configured")
	}
	text, err := o.stt.Transcribe(ctx, audio, language)
	if err != nil {
		return "", apperrors.ErrTranscriptionFailed(err)
	}
	return text, nil
}

// generateJSON runs the prompt and repairs the response, re-asking with a
// corrective prompt a bounded number of times when the output stays
// unparseable.
func (o *orchestrator) generateJSON(ctx context.Context, prompt string, maxTokens int) ([]byte, error) {
	ask := prompt
	var lastErr error
	for attempt := 0; attempt <= o.pipelineCfg.MaxParseRetries; attempt++ {
		out, err := o.gateway.Generate(ctx, ask, maxTokens)
		if err != nil {
			if stderrors.Is(err, pkgai.ErrAllProvidersFailed) {
				return nil, apperrors.ErrAllProvidersFailed(err)
			}
			return nil, err
		}
		data, err := RepairJSON(out)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if o.logger != nil {
			o.logger.Warn("⚠️ Malformed model output, re-asking",
				zap.Int("attempt", attempt+1),
			)
		}
		ask = CorrectivePrompt(prompt, out)
	}
	return nil, lastErr
}

func (o *orchestrator) generativeReady() bool {
	return o.gateway != nil && o.gateway.Available()
}

func (o *orchestrator) logFallback(task string, err error) {
	if o.logger != nil {
		o.logger.Warn("⚠️ Generative path failed, using rule-based fallback",
			zap.String("task", task),
			zap.Error(err),
		)
	}
}

// mergeActions appends rule results the generative set does not already
// contain, keyed by case-insensitive description.
func mergeActions(primary, extra []entities.ActionItem) []entities.ActionItem {
	seen := make(map[string]bool, len(primary))
	for _, a := range primary {
		seen[strings.ToLower(a.Description)] = true
	}
	for _, a := range extra {
		key := strings.ToLower(a.Description)
		if seen[key] {
			continue
		}
		seen[key] = true
		primary = append(primary, a)
	}
	return primary
}

// mergeDecisions appends rule results keyed by normalized text prefix, same
// as the extractor's own dedup.
func mergeDecisions(primary, extra []entities.Decision) []entities.Decision {
	const prefix = 40
	key := func(d entities.Decision) string {
		k := strings.ToLower(d.Text)
		if len(k) > prefix {
			k = k[:prefix]
		}
		return k
	}
	seen := make(map[string]bool, len(primary))
	for _, d := range primary {
		seen[key(d)] = true
	}
	for _, d := range extra {
		if k := key(d); !seen[k] {
			seen[k] = true
			primary = append(primary, d)
		}
	}
	return primary
}
