package vision

import "fmt"

// ImageNotFoundError reports that no probed path for a file id exists
type ImageNotFoundError struct {
	FileID string
	Dir    string
}

func (e *ImageNotFoundError) Error() string {
	return fmt.Sprintf("image not found: %s in %s", e.FileID, e.Dir)
}

// AnnotateError represents a failure to decode, render or save an image
type AnnotateError struct {
	Message string
	Cause   error
}

func (e *AnnotateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("annotate error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("annotate error: %s", e.Message)
}

func (e *AnnotateError) Unwrap() error {
	return e.Cause
}
