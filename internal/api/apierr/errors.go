package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mhalloran/golfsync/internal/model"
	"github.com/mhalloran/golfsync/internal/path"
)

// APIError is the error payload of an API error response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Stable machine-checkable error codes.
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidPath        = "INVALID_PATH"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeRoundNotFound      = "ROUND_NOT_FOUND"
	CodeRoundCodeInUse     = "ROUND_CODE_IN_USE"
	CodeInvalidRoundCode   = "INVALID_ROUND_CODE"
	CodeRoundNotActive     = "ROUND_NOT_ACTIVE"
	CodeRoundCorrupted     = "ROUND_CORRUPTED"
	CodePlayerFinished     = "PLAYER_FINISHED"
	CodeNotCreator         = "NOT_CREATOR"
	CodeNoActiveRound      = "NO_ACTIVE_ROUND"
	CodeInvalidHole        = "INVALID_HOLE"
	CodeInvalidTrackType   = "INVALID_TRACK_TYPE"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUsernameTaken      = "USERNAME_TAKEN"
	CodeInvalidUsername    = "INVALID_USERNAME"
	CodeNotFound           = "NOT_FOUND"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError pairs an HTTP status with an APIError.
type httpError struct {
	status   int
	apiError APIError
}

func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes the JSON error response for err.
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrRoundNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRoundNotFound, "Round not found"}}
	case errors.Is(err, model.ErrCodeInUse):
		return &httpError{http.StatusConflict, APIError{CodeRoundCodeInUse, "Round code already in use"}}
	case errors.Is(err, model.ErrInvalidRoundCode):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRoundCode, "Round code must be 6 characters from the join code alphabet"}}
	case errors.Is(err, model.ErrRoundNotActive):
		return &httpError{http.StatusConflict, APIError{CodeRoundNotActive, "Round has already finished"}}
	case errors.Is(err, model.ErrRoundCorrupted):
		return &httpError{http.StatusConflict, APIError{CodeRoundCorrupted, "Round data is corrupted, create a new round"}}
	case errors.Is(err, model.ErrPlayerFinished):
		return &httpError{http.StatusConflict, APIError{CodePlayerFinished, "Player already finished this round"}}
	case errors.Is(err, model.ErrNotCreator):
		return &httpError{http.StatusForbidden, APIError{CodeNotCreator, "Only the round creator can perform this action"}}
	case errors.Is(err, model.ErrNoActiveRound):
		return &httpError{http.StatusNotFound, APIError{CodeNoActiveRound, "No active round"}}
	case errors.Is(err, model.ErrInvalidHole):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidHole, "Hole index out of range"}}
	case errors.Is(err, model.ErrInvalidTrackType):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidTrackType, "Unknown tracking type"}}

	case errors.Is(err, model.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, model.ErrUsernameTaken):
		return &httpError{http.StatusConflict, APIError{CodeUsernameTaken, "Username already taken"}}
	case errors.Is(err, model.ErrInvalidUsername):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidUsername, "Username must be 2-20 letters, numbers or underscores"}}
	case errors.Is(err, model.ErrNotSignedIn):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}

	case errors.Is(err, path.ErrInvalidPath):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPath, "Malformed path"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error.
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewNotFoundError creates a not found error.
func NewNotFoundError(message string) error {
	return &httpError{http.StatusNotFound, APIError{CodeNotFound, message}}
}

// NewUnauthorizedError creates an unauthorized error.
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error.
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
