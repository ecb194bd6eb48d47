package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"

	domain "usercodec/internal/domain/user"
	"usercodec/internal/usecase/user"
	pkgerrors "usercodec/pkg/errors"
	"usercodec/pkg/logger"
)

// UserHandler handles HTTP requests for user record conversion
type UserHandler struct {
	uc           user.Usecase
	log          *zap.Logger
	maxBodyBytes int64
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, maxBodyBytes int64, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:           uc,
		log:          log,
		maxBodyBytes: maxBodyBytes,
	}
}

// DecodeResponse represents the HTTP response for a decoded user
type DecodeResponse struct {
	User                   json.RawMessage `json:"user"`
	CreatedAtOffsetMinutes int             `json:"createdAtOffsetMinutes"`
}

// BatchItem represents the outcome of one batch entry
type BatchItem struct {
	Index int             `json:"index"`
	User  json.RawMessage `json:"user,omitempty"`
	Error *ErrorResponse  `json:"error,omitempty"`
}

// BatchResponse represents the HTTP response for a batch decode
type BatchResponse struct {
	Results []BatchItem `json:"results"`
	Failed  int         `json:"failed"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error    string `json:"error"`
	Reason   string `json:"reason,omitempty"`
	Field    string `json:"field,omitempty"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Decode handles POST /v1/users/decode
func (h *UserHandler) Decode(c *gin.Context) {
	body, ok := h.readBody(c)
	if !ok {
		return
	}

	resp, err := h.uc.Decode(c.Request.Context(), user.DecodeRequest{
		Payload: body,
		Strict:  strictParam(c),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, DecodeResponse{
		User:                   domain.Encode(resp.User),
		CreatedAtOffsetMinutes: resp.User.CreatedAt.OffsetMinutes(),
	})
}

// DecodeBatch handles POST /v1/users/decode/batch
func (h *UserHandler) DecodeBatch(c *gin.Context) {
	body, ok := h.readBody(c)
	if !ok {
		return
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		logger.WithContext(c.Request.Context(), h.log).Warn("Invalid batch body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "request body must be a JSON array of user objects",
		})
		return
	}

	payloads := make([][]byte, len(items))
	for i, item := range items {
		payloads[i] = item
	}

	resp, err := h.uc.DecodeBatch(c.Request.Context(), user.DecodeBatchRequest{
		Payloads: payloads,
		Strict:   strictParam(c),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	out := BatchResponse{
		Results: make([]BatchItem, len(resp.Results)),
		Failed:  resp.Failed,
	}
	for i, r := range resp.Results {
		out.Results[i].Index = r.Index
		if r.Err != nil {
			out.Results[i].Error = errorBody(r.Err)
			continue
		}
		out.Results[i].User = domain.Encode(*r.User)
	}

	c.JSON(http.StatusOK, out)
}

func (h *UserHandler) readBody(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
				Error:   "payload_too_large",
				Message: "request body exceeds " + strconv.FormatInt(h.maxBodyBytes, 10) + " bytes",
			})
			return nil, false
		}
		logger.WithContext(c.Request.Context(), h.log).Warn("Failed to read request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_body",
			Message: err.Error(),
		})
		return nil, false
	}
	return body, true
}

func strictParam(c *gin.Context) bool {
	strict, _ := strconv.ParseBool(c.DefaultQuery("strict", "false"))
	return strict
}

// handleError converts usecase errors to appropriate HTTP responses
func (h *UserHandler) handleError(c *gin.Context, err error) {
	status := httpStatus(pkgerrors.Code(err))
	if status >= http.StatusInternalServerError {
		logger.WithContext(c.Request.Context(), h.log).Error("request failed", zap.Error(err))
	}
	c.JSON(status, errorBody(err))
}

func errorBody(err error) *ErrorResponse {
	var decErr *pkgerrors.DecodeError
	if errors.As(err, &decErr) {
		return &ErrorResponse{
			Error:    "decode_error",
			Reason:   string(decErr.Reason),
			Field:    decErr.Field,
			Expected: decErr.Expected,
			Actual:   decErr.Actual,
			Message:  decErr.Error(),
		}
	}

	var valErr *pkgerrors.ValidationError
	if errors.As(err, &valErr) {
		return &ErrorResponse{
			Error:   "validation_error",
			Field:   valErr.Field,
			Message: valErr.Error(),
		}
	}

	return &ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	}
}

func httpStatus(code codes.Code) int {
	switch code {
	case codes.OK:
		return http.StatusOK
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.Canceled, codes.DeadlineExceeded:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
