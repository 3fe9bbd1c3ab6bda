package engine

import (
	"fmt"

	"github.com/fentz26/critterfocus/internal/models"
)

// Sentinel errors for engine operations. Each wraps a models sentinel so
// callers can match either.
var (
	ErrNoActiveSession = fmt.Errorf("no active focus session: %w", models.ErrNotFound)
	ErrFocusTooLong    = fmt.Errorf("focus session too long: %w", models.ErrInvalidArgument)
)
