package api

import (
	"encoding/json/v2"
	"net/http"
	"time"

	domainerrors "github.com/leituraapp/leitura-server/internal/errors"
)

// maxImportSize caps Goodreads CSV uploads. Even a decade of heavy reading
// exports to well under a megabyte.
const maxImportSize = 10 << 20

func (s *Server) registerImportRoutes() {
	// Upload endpoint uses chi directly for multipart form handling
	// Wrapped with extended timeout to handle slow uploads
	s.router.Post("/api/v1/import/goodreads", withExtendedTimeout(s.handleImportGoodreads, 2*time.Minute))
}

// withExtendedTimeout wraps a handler to extend read/write timeouts for uploads.
// This MUST be called before any body reading occurs.
func withExtendedTimeout(next http.HandlerFunc, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc := http.NewResponseController(w)
		if err := rc.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			_ = err
		}
		if err := rc.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
			_ = err
		}
		next(w, r)
	}
}

// handleImportGoodreads handles multipart CSV uploads of Goodreads exports.
// This is a chi handler (not Huma) because Huma doesn't easily support
// multipart forms.
func (s *Server) handleImportGoodreads(w http.ResponseWriter, r *http.Request) {
	// Authentication comes from the context, set by the auth middleware.
	userID, err := GetUserID(r.Context())
	if err != nil {
		writeRawError(w, http.StatusUnauthorized, string(domainerrors.CodeUnauthorized), "Authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		s.logger.Error("failed to get form file", "error", err)
		writeRawError(w, http.StatusBadRequest, string(domainerrors.CodeValidation), "failed to get form file: "+err.Error())
		return
	}
	defer file.Close()

	result, err := s.services.Import.ImportGoodreads(r.Context(), userID, file)
	if err != nil {
		var domainErr *domainerrors.Error
		if domainerrors.As(err, &domainErr) {
			writeRawError(w, domainErr.HTTPStatus(), string(domainErr.Code), domainErr.Message)
			return
		}
		s.logger.Error("goodreads import failed", "error", err, "filename", header.Filename)
		writeRawError(w, http.StatusInternalServerError, string(domainerrors.CodeInternal), "import failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.MarshalWrite(w, &Envelope{V: envelopeVersion, Success: true, Data: result})
}

// writeRawError writes an error envelope without going through Huma.
func writeRawError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.MarshalWrite(w, &Envelope{V: envelopeVersion, Success: false, Error: &APIError{
		Code:    code,
		Message: message,
	}})
}
