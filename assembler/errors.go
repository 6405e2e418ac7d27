package assembler

import (
	"errors"
	"fmt"
)

var (
	// ErrNoImages means the staging directory held no image files.
	ErrNoImages = errors.New("no staged images to assemble")

	// ErrNoPages means every staged image was undecodable.
	ErrNoPages = errors.New("no pages could be produced")
)

// AssemblyError wraps a failure while writing the output document.
type AssemblyError struct {
	Path string
	Err  error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("failed to write document %s: %v", e.Path, e.Err)
}

func (e *AssemblyError) Unwrap() error { return e.Err }

// SkippedImage records a staged image that could not be used.
type SkippedImage struct {
	Path string
	Err  error
}
