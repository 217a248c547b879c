package handler

import (
	"github.com/mhalloran/golfsync/internal/api/apierr"
)

// Error helpers re-exported so handlers read cleanly.
var (
	WriteError             = apierr.WriteError
	NewInvalidRequestError = apierr.NewInvalidRequestError
	NewNotFoundError       = apierr.NewNotFoundError
	NewInternalError       = apierr.NewInternalError
)
