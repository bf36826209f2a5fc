package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/wanderkart/backend/internal/domain"
	"github.com/pkordes/wanderkart/backend/internal/middleware"
)

// envelope is the shape of every response body: success plus either a
// message or one named payload.
type envelope map[string]any

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeOK writes {"success": true, key: payload}.
func writeOK(w http.ResponseWriter, status int, key string, payload any) {
	writeJSON(w, status, envelope{"success": true, key: payload})
}

// writeMessage writes {"success": false, "message": message}.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{"success": false, "message": message})
}

// fail maps a service error onto a status and the error envelope.
// resource names what was being looked up, for the 404 message.
// Unrecognised errors are logged and answered with a generic 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, resource string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeMessage(w, http.StatusUnprocessableEntity, unwrapMessage(err))
	case errors.Is(err, domain.ErrNotFound):
		writeMessage(w, http.StatusNotFound, resource+" not found")
	case errors.Is(err, domain.ErrUnauthorized):
		writeMessage(w, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
	case errors.Is(err, domain.ErrConflict):
		writeMessage(w, http.StatusConflict, conflictMessage(resource))
	case errors.As(err, &tooLarge):
		writeMessage(w, http.StatusRequestEntityTooLarge, "request body too large")
	default:
		s.log.ErrorContext(r.Context(), "request failed",
			"error", err,
			"path", r.URL.Path,
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

func conflictMessage(resource string) string {
	switch resource {
	case "user":
		return "email already registered"
	case "cart":
		return "cart changed, please review it and try again"
	}
	return resource + " conflicts with existing data"
}

// badRequest answers a request rejected before reaching the service layer
// (malformed body or parameter). It is reported like a validation failure.
func badRequest(w http.ResponseWriter, message string) {
	writeMessage(w, http.StatusUnprocessableEntity, message)
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.X.Y: validation error: guests must be ..." → "guests must be ..."
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	const marker = "validation error: "
	if i := strings.LastIndex(msg, marker); i >= 0 && i+len(marker) < len(msg) {
		return msg[i+len(marker):]
	}
	return msg
}

// decodeBody decodes the JSON request body into dst. An over-limit body
// surfaces as *http.MaxBytesError for fail to map onto 413.
func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return errors.New("request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// decodeOrReject decodes the body, answering 413 or 422 itself on failure.
func (s *Server) decodeOrReject(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeBody(r, dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(w, r, err, "")
			return false
		}
		badRequest(w, err.Error())
		return false
	}
	return true
}

// pathUUID binds the named path parameter the way generated OpenAPI
// routers do, answering 422 itself on failure.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		badRequest(w, fmt.Sprintf("invalid %s: must be a UUID", name))
		return uuid.Nil, false
	}
	return id, true
}

// pageParams binds ?page= and ?limit= into domain pagination defaults.
func pageParams(w http.ResponseWriter, r *http.Request) (domain.PaginationParams, bool) {
	var page, limit *int
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "page", q, &page); err != nil {
		badRequest(w, "invalid page: must be an integer")
		return domain.PaginationParams{}, false
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &limit); err != nil {
		badRequest(w, "invalid limit: must be an integer")
		return domain.PaginationParams{}, false
	}
	return domain.NewPaginationParams(page, limit), true
}

// pagination is the JSON metadata attached to paged lists.
type pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// currentUser returns the user RequireUser placed in the context.
func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
	}
	return id, ok
}
