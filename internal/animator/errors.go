package animator

import (
	"errors"
	"fmt"
)

// Domain errors for animation runs.
var (
	// ErrInvalidAxis indicates a slice axis outside the volume, or a slice
	// index outside the chosen axis.
	ErrInvalidAxis = errors.New("animator: invalid slice axis")

	// ErrConfiguration matches every *ConfigurationError.
	ErrConfiguration = errors.New("animator: invalid configuration")

	// ErrNoDestination indicates neither an output file nor a display.
	ErrNoDestination = errors.New("animator: no output file and no display available")

	// ErrRender matches every *RenderError.
	ErrRender = errors.New("animator: frame rendering failed")

	// ErrExport matches every *ExportError.
	ErrExport = errors.New("animator: export failed")
)

// ConfigurationError reports an unusable option. It is always returned
// before any frame is rendered.
type ConfigurationError struct {
	Option  string
	Wrapped error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("animator: invalid %s: %v", e.Option, e.Wrapped)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

func (e *ConfigurationError) Unwrap() error { return e.Wrapped }

// RenderError wraps a failure to draw one frame.
type RenderError struct {
	Frame   int
	Slice   int
	Wrapped error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("animator: render frame %d (slice %d): %v", e.Frame, e.Slice, e.Wrapped)
}

func (e *RenderError) Is(target error) bool { return target == ErrRender }

func (e *RenderError) Unwrap() error { return e.Wrapped }

// ExportError wraps a failure to encode or write the output.
type ExportError struct {
	Path    string
	Wrapped error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("animator: export %s: %v", e.Path, e.Wrapped)
}

func (e *ExportError) Is(target error) bool { return target == ErrExport }

func (e *ExportError) Unwrap() error { return e.Wrapped }

func configErr(option string, err error) error {
	return &ConfigurationError{Option: option, Wrapped: err}
}
