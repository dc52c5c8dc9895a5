package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/aidanlsb/magpie/internal/fingerprint"
	"github.com/aidanlsb/magpie/internal/ordinal"
	"github.com/aidanlsb/magpie/internal/renametx"
	"github.com/aidanlsb/magpie/internal/ui"
)

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Workspace errors
	ErrWorkspaceNotFound     = "WORKSPACE_NOT_FOUND"
	ErrWorkspaceNotSpecified = "WORKSPACE_NOT_SPECIFIED"
	ErrConfigInvalid         = "CONFIG_INVALID"

	// Ordinal errors
	ErrDirectoryUnreadable = "DIRECTORY_UNREADABLE"
	ErrDuplicateSuffix     = "DUPLICATE_SUFFIX"
	ErrItemNotFound        = "ITEM_NOT_FOUND"

	// Transaction errors
	ErrRenameFailed       = "RENAME_FAILED"
	ErrRollbackIncomplete = "ROLLBACK_INCOMPLETE"

	// Attachment / identifier errors
	ErrHashFailed     = "HASH_COMPUTATION_FAILED"
	ErrTargetNotFound = "TARGET_NOT_FOUND"

	// File errors
	ErrFileNotFound = "FILE_NOT_FOUND"
	ErrFileExists   = "FILE_EXISTS"

	// Input errors
	ErrInvalidInput = "INVALID_INPUT"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)

// errReported marks errors already surfaced to the user, so Execute only
// sets the exit status without printing twice.
var errReported = errors.New("error already reported")

// fail reports an error with a stable code and returns the sentinel.
func fail(code, message, suggestion string) error {
	if isJSONOutput() {
		outputError(code, message, nil, suggestion)
	} else {
		fmt.Fprintln(os.Stderr, ui.Errorf("%s", message))
		if suggestion != "" {
			fmt.Fprintln(os.Stderr, "  "+ui.Hint(suggestion))
		}
	}
	return errReported
}

// failErr reports a Go error, deriving the code from its type.
func failErr(err error, suggestion string) error {
	return fail(codeFor(err), err.Error(), suggestion)
}

// codeFor maps core error types to stable codes.
func codeFor(err error) string {
	var dup *ordinal.DuplicateSuffixError
	var rollback *renametx.RollbackIncompleteError
	var hash *fingerprint.HashError
	switch {
	case errors.Is(err, ordinal.ErrDirectoryUnreadable):
		return ErrDirectoryUnreadable
	case errors.As(err, &dup):
		return ErrDuplicateSuffix
	case errors.As(err, &rollback):
		return ErrRollbackIncomplete
	case errors.As(err, &hash):
		return ErrHashFailed
	case errors.Is(err, os.ErrNotExist):
		return ErrFileNotFound
	default:
		return ErrInternal
	}
}
