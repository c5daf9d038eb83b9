package handler

import (
	"io"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-ai/errors"
	dto "github.com/johnquangdev/meeting-ai/internal/adapter/dto/minutes"
	aiuc "github.com/johnquangdev/meeting-ai/internal/usecase/ai"
	"github.com/johnquangdev/meeting-ai/internal/usecase/pipeline"
)

// Minutes handles the transcript-processing endpoints
type Minutes struct {
	pipe   *pipeline.Pipeline
	orch   aiuc.Orchestrator
	logger *zap.Logger
}

// NewMinutes creates a new minutes handler
func NewMinutes(pipe *pipeline.Pipeline, orch aiuc.Orchestrator, logger *zap.Logger) *Minutes {
	return &Minutes{pipe: pipe, orch: orch, logger: logger}
}

func (h *Minutes) bindTextRequest(c echo.Context, req *dto.ProcessTextRequest) error {
	if err := c.Bind(req); err != nil {
		return errors.ErrInvalidPayload()
	}
	if err := c.Validate(req); err != nil {
		return errors.ErrInvalidArgument(err.Error())
	}
	if strings.TrimSpace(req.Text) == "" {
		return errors.ErrNoInput()
	}
	return nil
}

// Clean normalizes a raw transcript
// @Summary      Clean transcript text
// @Description  Removes filler words and normalizes punctuation and capitalization, generative-first with a rule-based fallback
// @Tags         Minutes
// @Accept       json
// @Produce      json
// @Param        request  body      dto.ProcessTextRequest  true  "Raw transcript text"
// @Success      200      {object}  map[string]interface{}  "Cleaned text"
// @Failure      400      {object}  map[string]interface{}  "Missing or empty text"
// @Router       /clean [post]
func (h *Minutes) Clean(c echo.Context) error {
	var req dto.ProcessTextRequest
	if err := h.bindTextRequest(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	cleaned, err := h.orch.Clean(c.Request().Context(), req.Text, h.pipe.Language(req.Language))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, dto.CleanResponse{CleanedText: cleaned})
}

// Diarize segments a transcript by speaker
// @Summary      Diarize transcript text
// @Description  Splits the transcript into ordered speaker segments
// @Tags         Minutes
// @Accept       json
// @Produce      json
// @Param        request  body      dto.ProcessTextRequest  true  "Transcript text"
// @Success      200      {object}  map[string]interface{}  "Speaker segments"
// @Failure      400      {object}  map[string]interface{}  "Missing or empty text"
// @Router       /diarize [post]
func (h *Minutes) Diarize(c echo.Context) error {
	var req dto.ProcessTextRequest
	if err := h.bindTextRequest(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	segments, err := h.orch.Diarize(c.Request().Context(), req.Text, h.pipe.Language(req.Language))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, dto.DiarizeResponse{Segments: segments})
}

// Summarize builds a structured summary of a transcript
// @Summary      Summarize transcript text
// @Description  Produces the structured meeting summary with every field populated
// @Tags         Minutes
// @Accept       json
// @Produce      json
// @Param        request  body      dto.ProcessTextRequest  true  "Transcript text"
// @Success      200      {object}  map[string]interface{}  "Structured summary"
// @Failure      400      {object}  map[string]interface{}  "Missing or empty text"
// @Router       /summarize [post]
func (h *Minutes) Summarize(c echo.Context) error {
	var req dto.ProcessTextRequest
	if err := h.bindTextRequest(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	summary, err := h.orch.Summarize(c.Request().Context(), req.Text, h.pipe.Language(req.Language))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, dto.SummarizeResponse{Summary: summary})
}

// Extract finds action items and decisions in a transcript
// @Summary      Extract action items and decisions
// @Description  Cleans and diarizes the transcript first so segment speakers can supply missing owners, then extracts action items and decisions
// @Tags         Minutes
// @Accept       json
// @Produce      json
// @Param        request  body      dto.ProcessTextRequest  true  "Transcript text"
// @Success      200      {object}  map[string]interface{}  "Action items and decisions"
// @Failure      400      {object}  map[string]interface{}  "Missing or empty text"
// @Router       /extract [post]
func (h *Minutes) Extract(c echo.Context) error {
	var req dto.ProcessTextRequest
	if err := h.bindTextRequest(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	ctx := c.Request().Context()
	language := h.pipe.Language(req.Language)

	cleaned, err := h.orch.Clean(ctx, req.Text, language)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	segments, err := h.orch.Diarize(ctx, cleaned, language)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	actions, decisions, err := h.orch.Extract(ctx, cleaned, segments, language)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, dto.ExtractResponse{ActionItems: actions, Decisions: decisions})
}

// SpeechToText transcribes an uploaded audio file
// @Summary      Transcribe audio
// @Description  Converts an uploaded audio file to transcript text
// @Tags         Minutes
// @Accept       multipart/form-data
// @Produce      json
// @Param        audio     formData  file    true   "Audio file"
// @Param        language  formData  string  false  "Two-letter language hint"
// @Success      200       {object}  map[string]interface{}  "Transcript text"
// @Failure      400       {object}  map[string]interface{}  "Missing audio file"
// @Failure      500       {object}  map[string]interface{}  "Transcription failed"
// @Router       /speech-to-text [post]
func (h *Minutes) SpeechToText(c echo.Context) error {
	fh, err := c.FormFile("audio")
	if err != nil {
		return HandleError(h.logger, c, errors.ErrNoInput())
	}
	audio, err := fh.Open()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	defer audio.Close()

	language := h.pipe.Language(c.FormValue("language"))
	text, err := h.orch.Transcribe(c.Request().Context(), audio, language)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, dto.TranscribeResponse{Text: text, Language: language})
}

// ProcessFull runs the whole pipeline on text or audio
// @Summary      Full meeting-minutes pipeline
// @Description  Accepts transcript text (JSON) or an audio file (multipart) and returns complete meeting minutes
// @Tags         Minutes
// @Accept       json
// @Accept       multipart/form-data
// @Produce      json
// @Param        request  body      dto.ProcessTextRequest  false  "Transcript text"
// @Success      200      {object}  map[string]interface{}  "Meeting minutes"
// @Failure      400      {object}  map[string]interface{}  "Missing input"
// @Failure      500      {object}  map[string]interface{}  "Processing failed"
// @Router       /process-full [post]
func (h *Minutes) ProcessFull(c echo.Context) error {
	ctx := c.Request().Context()

	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		language := c.FormValue("language")

		// A transcript file skips the speech-to-text stage.
		if fh, err := c.FormFile("transcript"); err == nil {
			f, err := fh.Open()
			if err != nil {
				return HandleError(h.logger, c, errors.ErrInvalidPayload())
			}
			defer f.Close()
			raw, err := io.ReadAll(f)
			if err != nil {
				return HandleError(h.logger, c, errors.ErrInvalidPayload())
			}
			result, err := h.pipe.Process(ctx, string(raw), language)
			if err != nil {
				return HandleError(h.logger, c, err)
			}
			return HandleSuccess(h.logger, c, result)
		}

		fh, err := c.FormFile("audio")
		if err != nil {
			return HandleError(h.logger, c, errors.ErrNoInput())
		}
		audio, err := fh.Open()
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidPayload())
		}
		defer audio.Close()

		result, err := h.pipe.ProcessAudio(ctx, audio, language)
		if err != nil {
			return HandleError(h.logger, c, err)
		}
		return HandleSuccess(h.logger, c, result)
	}

	var req dto.ProcessTextRequest
	if err := h.bindTextRequest(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	result, err := h.pipe.Process(ctx, req.Text, req.Language)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, result)
}
