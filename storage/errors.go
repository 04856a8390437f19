package storage

import "errors"

var (
	// ErrNotFound: no conversion was recorded for the path, or the object is absent.
	ErrNotFound = errors.New("archive: not found")

	// ErrCorrupt: an object or index entry on disk no longer matches what was recorded.
	ErrCorrupt = errors.New("archive: corrupt")

	// ErrConflict: an object already exists under the CID with different bytes.
	ErrConflict = errors.New("archive: object exists with different bytes")

	// ErrInvalidEntry: the conversion handed to Record is not a qbl/xml pair.
	ErrInvalidEntry = errors.New("archive: invalid conversion")
)

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
