package tasks

import (
	"fmt"

	"github.com/fentz26/critterfocus/internal/models"
)

// ErrInsufficientFunds is returned when a redemption costs more than the balance.
var ErrInsufficientFunds = fmt.Errorf("insufficient funds: %w", models.ErrConflict)

func taskNotFound(id string) error {
	return fmt.Errorf("task %s: %w", id, models.ErrNotFound)
}

func sessionNotFound(id string) error {
	return fmt.Errorf("focus session %s: %w", id, models.ErrNotFound)
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), models.ErrInvalidArgument)
}
