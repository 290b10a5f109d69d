package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// DumpResponse is the success envelope returned by POST /dump.
type DumpResponse struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// ErrorResponse is the failure envelope shared by all endpoints.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// handlerError carries the HTTP status a request failure maps to.
type handlerError struct {
	statusCode int
	message    string
	outcome    string
}

func (e *handlerError) Error() string {
	return e.message
}

// Outcome labels for the dump metrics counter.
const (
	outcomeCommitted       = "committed"
	outcomeInvalidRequest  = "invalid_request"
	outcomeMalformedJSON   = "malformed_json"
	outcomePayloadTooLarge = "payload_too_large"
	outcomeStorageError    = "storage_error"
)

// handleDump receives a JSON payload and persists it as a uniquely named
// artifact. The pipeline is strictly linear: content-type check, size
// enforcement, syntactic validation, atomic write.
func (s *Server) handleDump(c *gin.Context) {
	body, herr := s.readValidatedBody(c)
	if herr != nil {
		s.collector.RecordDump(herr.outcome, 0)
		c.JSON(herr.statusCode, ErrorResponse{Success: false, Error: herr.message})
		return
	}

	artifact, err := s.store.Put(body)
	if err != nil {
		s.logger.Error("failed to write artifact", "error", err)
		s.collector.RecordDump(outcomeStorageError, 0)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Success: false,
			Error:   "Failed to write file",
		})
		return
	}

	s.collector.RecordDump(outcomeCommitted, artifact.Size)
	c.JSON(http.StatusCreated, DumpResponse{
		Success:  true,
		Filename: artifact.Name,
		Size:     artifact.Size,
	})
}

// readValidatedBody enforces the content-type, size, and well-formedness
// preconditions and returns the raw payload bytes to store.
func (s *Server) readValidatedBody(c *gin.Context) ([]byte, *handlerError) {
	if !isJSONContentType(c.ContentType()) {
		return nil, &handlerError{
			statusCode: http.StatusBadRequest,
			message:    "Content-Type must be application/json",
			outcome:    outcomeInvalidRequest,
		}
	}

	maxSize := s.cfg.MaxPayloadSize
	if c.Request.ContentLength > maxSize {
		return nil, s.payloadTooLargeError()
	}

	// MaxBytesReader enforces the limit while streaming, so an oversized
	// body without a Content-Length header cannot buffer unbounded memory.
	reader := http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
	body, err := io.ReadAll(reader)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, s.payloadTooLargeError()
		}
		return nil, &handlerError{
			statusCode: http.StatusBadRequest,
			message:    "Failed to read request body",
			outcome:    outcomeInvalidRequest,
		}
	}

	// Any JSON type is acceptable; only syntax is checked. The original
	// bytes are stored untouched.
	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &handlerError{
			statusCode: http.StatusBadRequest,
			message:    fmt.Sprintf("Invalid JSON: %v", err),
			outcome:    outcomeMalformedJSON,
		}
	}

	return body, nil
}

func (s *Server) payloadTooLargeError() *handlerError {
	return &handlerError{
		statusCode: http.StatusRequestEntityTooLarge,
		message:    fmt.Sprintf("Payload too large. Maximum size is %d bytes", s.cfg.MaxPayloadSize),
		outcome:    outcomePayloadTooLarge,
	}
}

// handleHealth reports process liveness. It has no dependency on storage:
// if the process can run this handler it answers healthy.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// isJSONContentType accepts application/json and the +json structured
// syntax suffix (e.g. application/problem+json).
func isJSONContentType(contentType string) bool {
	return contentType == "application/json" || strings.HasSuffix(contentType, "+json")
}
