package migrate

import (
	"errors"
	"fmt"
)

// StorageUnavailableError reports a failed connectivity probe.
type StorageUnavailableError struct {
	Err error
}

func (e *StorageUnavailableError) Error() string {
	return fmt.Sprintf("storage unavailable: %v", e.Err)
}

func (e *StorageUnavailableError) Unwrap() error {
	return e.Err
}

// MigrationError reports a schema change that could not be applied.
// Version is zero when the failure happened before any migration ran,
// e.g. while preparing the tracking table.
type MigrationError struct {
	Version int64
	Name    string
	Err     error
}

func (e *MigrationError) Error() string {
	if e.Version == 0 {
		return fmt.Sprintf("migration failed: %v", e.Err)
	}
	return fmt.Sprintf("migration %06d_%s failed: %v", e.Version, e.Name, e.Err)
}

func (e *MigrationError) Unwrap() error {
	return e.Err
}

var errAlreadyRun = errors.New("migrator already ran")
