package server

import (
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/talent-profiler/internal/talent"
)

const (
	statusSuccess = "success"
	statusError   = "error"

	messageProfileCreated = "Profile 생성 완료"
	messageErrorPrefix    = "에러 발생: "

	// maxProfilingBody caps the talent JSON accepted by POST /profilling.
	maxProfilingBody = 4 << 20
)

// ProfilingResponse is the envelope returned by POST /profilling.
type ProfilingResponse struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Output  any    `json:"output"`
}

// handleProfiling extracts the candidate from the talent body, runs the
// profiling workflow and wraps the merged profile in the response envelope.
// Malformed optional fields are dropped, so only a body that is not a JSON
// object, or one over the size limits, is a 400.
func (s *Server) handleProfiling(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxProfilingBody))
	if err != nil {
		s.envelopeError(w, r, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}
	req, err := talent.ParseRequest(body)
	if err != nil {
		s.envelopeError(w, r, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		s.envelopeError(w, r, validationError(err))
		return
	}

	candidate := talent.Extract(req)
	s.logger.Debug("candidate extracted",
		zap.String("college", candidate.College),
		zap.Int("skills", len(candidate.Skills)),
		zap.Int("companies", len(candidate.Companies)))

	profile, err := s.profiler.Profile(r.Context(), candidate)
	if err != nil {
		s.envelopeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ProfilingResponse{
		Status:  statusSuccess,
		Code:    http.StatusOK,
		Message: messageProfileCreated,
		Output:  profile,
	})
}

// envelopeError writes a failure envelope with an empty output object.
func (s *Server) envelopeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("profiling failed",
			zap.String("request_id", w.Header().Get("X-Request-ID")),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	s.jsonResponse(w, status, ProfilingResponse{
		Status:  statusError,
		Code:    status,
		Message: messageErrorPrefix + err.Error(),
		Output:  struct{}{},
	})
}
