package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ndisfraud/internal/domain"
	"ndisfraud/internal/llm"
	"ndisfraud/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	var rateErr *llm.RateLimitError
	switch {
	case errors.As(err, &rateErr):
		return http.StatusTooManyRequests, "RATE_LIMITED", "language model provider is rate limiting requests; retry later"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: csv, xls, xlsx, json, pdf, txt, log"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrEmptyDocument):
		return http.StatusBadRequest, "EMPTY_DOCUMENT", "document has no content"
	case errors.Is(err, domain.ErrUnreadableDocument):
		return http.StatusUnprocessableEntity, "UNREADABLE_DOCUMENT", "document could not be read"
	case errors.Is(err, domain.ErrUnknownAgent):
		return http.StatusBadRequest, "UNKNOWN_AGENT", "unknown agent; allowed: line_verifier, pricing_verifier, basic"
	case errors.Is(err, domain.ErrInvalidPrice):
		return http.StatusBadRequest, "INVALID_PRICE", "price must be a decimal number"
	case errors.Is(err, domain.ErrInvalidVerdict):
		return http.StatusBadGateway, "INVALID_VERDICT", "language model returned an invalid verdict"
	case errors.Is(err, llm.ErrMaxToolRounds):
		return http.StatusBadGateway, "TOOL_LOOP_EXHAUSTED", "language model did not reach a verdict"
	case errors.Is(err, domain.ErrLLMUnavailable):
		return http.StatusServiceUnavailable, "LLM_UNAVAILABLE", "language model backend unavailable"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// ErrorHandler maps errors to responses and logs server-side failures.
type ErrorHandler struct {
	logger *zap.Logger
}

// NewErrorHandler creates a new ErrorHandler.
func NewErrorHandler(logger *zap.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle maps a domain error and sends the appropriate error response.
func (h *ErrorHandler) Handle(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		h.logger.Error("request failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("code", code),
			zap.Error(err))
	}
	var rateErr *llm.RateLimitError
	if errors.As(err, &rateErr) {
		c.Header("Retry-After", strconv.Itoa(int(rateErr.RetryAfter.Seconds())))
	}
	RespondError(c, status, code, msg)
}
