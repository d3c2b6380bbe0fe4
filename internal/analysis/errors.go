// Package analysis uses an LLM to summarize simulations into a call reason,
// resolution steps and a category, and to generate steps for new requests
// from analyzed examples.
package analysis

import "fmt"

// ParseError reports an LLM response that did not contain the expected JSON.
// Raw holds the full response for inspection.
type ParseError struct {
	Message string
	Raw     string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
