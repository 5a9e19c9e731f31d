package services

import (
	"chat-presence/errors"
	"fmt"
)

// storageFailure tags a collaborator failure, keeping the driver message for logs only.
func storageFailure(err error) error {
	return fmt.Errorf("%w: %v", errors.ErrStorage, err)
}
