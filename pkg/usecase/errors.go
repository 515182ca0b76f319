package usecase

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
)

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrSessionNotFound = goerr.Wrap(model.ErrNotFound, "session not found")
	ErrNoEvents        = goerr.Wrap(model.ErrNotFound, "no events have been generated in the session")

	// Lifecycle errors
	ErrSessionLimit = goerr.Wrap(model.ErrLimitExceeded, "too many open sessions")
)

// Context keys for error values
const (
	SessionIDKey = "session_id"
	UnitNameKey  = "unit_name"
)
