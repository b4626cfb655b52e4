package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"ndisfraud/internal/domain"
	"ndisfraud/internal/ingest"
	"ndisfraud/internal/service"
)

// multipartOverhead is the slack allowed on top of the file size for
// boundaries, headers, and the agent field.
const multipartOverhead = 64 * 1024

// AnalysisHandler handles invoice analysis endpoints.
type AnalysisHandler struct {
	analysisService service.AnalysisService
	errors          *ErrorHandler
	maxUploadBytes  int64
}

// NewAnalysisHandler creates a new AnalysisHandler. Uploads larger than
// maxUploadBytes are rejected before the file is read.
func NewAnalysisHandler(analysisService service.AnalysisService, errors *ErrorHandler, maxUploadBytes int64) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService, errors: errors, maxUploadBytes: maxUploadBytes}
}

// AnalyzeTextRequest is the JSON body for POST /api/v1/analyses/text.
type AnalyzeTextRequest struct {
	Content string `json:"content" binding:"required"`
	Agent   string `json:"agent"`
}

// ListAgents handles GET /api/v1/agents
// @Summary List agents
// @Description List the available fraud detection agents in display order
// @Tags agents
// @Produce json
// @Success 200 {object} Response{data=[]agent.Descriptor} "Agent catalogue"
// @Router /api/v1/agents [get]
func (h *AnalysisHandler) ListAgents(c *gin.Context) {
	RespondOK(c, h.analysisService.Agents())
}

// Upload handles POST /api/v1/analyses
// @Summary Analyse an invoice file
// @Description Upload an invoice (csv, xls, xlsx, json, pdf, txt, log) and run it through an agent
// @Tags analyses
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Invoice file"
// @Param agent formData string false "Agent: line_verifier, pricing_verifier, basic"
// @Success 200 {object} Response{data=domain.Analysis} "Verdict with tool-call trail"
// @Failure 400 {object} ErrorResponseBody "Missing file, unsupported type, empty document or unknown agent"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 422 {object} ErrorResponseBody "Unreadable document"
// @Failure 429 {object} ErrorResponseBody "Language model rate limited"
// @Failure 502 {object} ErrorResponseBody "Invalid verdict"
// @Failure 503 {object} ErrorResponseBody "Language model unavailable"
// @Router /api/v1/analyses [post]
func (h *AnalysisHandler) Upload(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		limit := h.maxUploadBytes + multipartOverhead
		if c.Request.ContentLength > limit {
			h.errors.Handle(c, domain.ErrFileTooLarge)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.errors.Handle(c, domain.ErrFileTooLarge)
			return
		}
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	if ingest.DetectType(header.Filename) == domain.DocumentTypeUnknown {
		h.errors.Handle(c, domain.ErrUnsupportedFileType)
		return
	}
	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		h.errors.Handle(c, domain.ErrFileTooLarge)
		return
	}

	var src io.Reader = file
	if h.maxUploadBytes > 0 {
		src = io.LimitReader(file, h.maxUploadBytes+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FILE", "failed to read uploaded file")
		return
	}

	analysis, err := h.analysisService.Analyze(c.Request.Context(), service.AnalyzeInput{
		Filename: header.Filename,
		Data:     data,
		Agent:    domain.AgentKind(c.PostForm("agent")),
	})
	if err != nil {
		h.errors.Handle(c, err)
		return
	}
	RespondOK(c, analysis)
}

// AnalyzeText handles POST /api/v1/analyses/text
// @Summary Analyse invoice text
// @Description Run pasted invoice text through an agent
// @Tags analyses
// @Accept json
// @Produce json
// @Param body body AnalyzeTextRequest true "Invoice text and optional agent"
// @Success 200 {object} Response{data=domain.Analysis} "Verdict with tool-call trail"
// @Failure 400 {object} ErrorResponseBody "Missing content or unknown agent"
// @Failure 413 {object} ErrorResponseBody "Content too large"
// @Failure 503 {object} ErrorResponseBody "Language model unavailable"
// @Router /api/v1/analyses/text [post]
func (h *AnalysisHandler) AnalyzeText(c *gin.Context) {
	var req AnalyzeTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	analysis, err := h.analysisService.AnalyzeText(c.Request.Context(), req.Content, domain.AgentKind(req.Agent))
	if err != nil {
		h.errors.Handle(c, err)
		return
	}
	RespondOK(c, analysis)
}
