package profiling

import "fmt"

// APICallError represents a failed LLM or storage call made by a node
type APICallError struct {
	Node    string
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: API call failed: %s: %v", e.Node, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: API call failed: %s", e.Node, e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ParseError represents an LLM answer that could not be decoded or did not
// match its schema
type ParseError struct {
	Node    string
	Message string
	Content string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: parse error: %s: %v", e.Node, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: parse error: %s", e.Node, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
