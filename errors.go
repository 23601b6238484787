package lui

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error taxonomy. Every error returned by this package wraps one of these,
// so callers can match with errors.Is.
var (
	ErrAtlasFileNotFound = errors.New("lui: atlas file not found") // missing or unreadable
	ErrAtlasParse        = errors.New("lui: malformed atlas descriptor")
	ErrAtlasNotFound     = errors.New("lui: atlas not found")
	ErrRegionNotFound    = errors.New("lui: atlas region not found")
	ErrTextureLoadFailed = errors.New("lui: texture load failed")
	ErrIndexOutOfRange   = errors.New("lui: index out of range")
	ErrDuplicateAtlas    = errors.New("lui: duplicate atlas name")
	ErrInvalidConfig     = errors.New("lui: invalid config")
)

// withCause wraps kind and keeps cause in the chain too, so both
// errors.Is(err, kind) and errors.Is(err, fs.ErrNotExist) hold.
func withCause(kind, cause error, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %w", kind, fmt.Sprintf(format, args...), cause)
}

// indexPanic panics with an error wrapping ErrIndexOutOfRange. Bad indices are
// logic bugs, not runtime conditions.
func indexPanic(what string, index, count int) {
	panic(errors.Wrapf(ErrIndexOutOfRange, "%s index %d (count %d)", what, index, count))
}
