package util

import (
	"errors"
	"fmt"
)

// InterfaceToError coerces the value returned by recover() into an error.
func InterfaceToError(errorInterface interface{}) error {
	if err, ok := errorInterface.(error); ok {
		return fmt.Errorf("recovered from panic: %w", err)
	}

	if stringifiedErr, ok := errorInterface.(string); ok {
		return errors.New("recovered from panic: " + stringifiedErr)
	}

	return fmt.Errorf("recovered from a panic that was neither a string nor an error: %v", errorInterface)
}
