package postgres

import (
	"fmt"

	boterrors "github.com/twexity/relaybots/internal/domain/bot/errors"
)

// persistenceErr tags a driver error as a persistence failure
func persistenceErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", boterrors.ErrPersistence, op, err)
}
