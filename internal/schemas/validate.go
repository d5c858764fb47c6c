// Package schemas validates structured LLM answers against JSON Schemas.
package schemas

import (
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	schemafiles "github.com/jonathan/talent-profiler/schemas"
)

// FieldError is one violation at a JSON path.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists the violations of a document against a schema.
type ValidationError struct {
	Schema string
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return fmt.Sprintf("document does not match %s: %s", e.Schema, strings.Join(parts, "; "))
}

// LoadError reports a schema that is missing or does not compile.
type LoadError struct {
	Schema string
	Cause  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load schema %s: %v", e.Schema, e.Cause)
}

func (e *LoadError) Unwrap() error { return e.Cause }

// Validator compiles schemas from a file system on first use and keeps them.
type Validator struct {
	fsys     fs.FS
	mu       sync.Mutex
	compiled map[string]*gojsonschema.Schema
}

// NewValidator reads schemas from fsys.
func NewValidator(fsys fs.FS) *Validator {
	return &Validator{fsys: fsys, compiled: make(map[string]*gojsonschema.Schema)}
}

var embedded = NewValidator(schemafiles.FS)

// Validate checks doc against the embedded schema called name.
func Validate(name, doc string) error {
	return embedded.Validate(name, doc)
}

// Compile loads the named embedded schemas so a broken one fails at start-up.
func Compile(names ...string) error {
	for _, name := range names {
		if _, err := embedded.schema(name); err != nil {
			return err
		}
	}
	return nil
}

// Validate returns a *ValidationError when doc violates the schema, a
// *LoadError when the schema is unusable, and a plain error when doc is not JSON.
func (v *Validator) Validate(name, doc string) error {
	s, err := v.schema(name)
	if err != nil {
		return err
	}
	result, err := s.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return fmt.Errorf("failed to read document for %s: %w", name, err)
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{Schema: name}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		verr.Errors = append(verr.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return verr
}

func (v *Validator) schema(name string) (*gojsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if s, ok := v.compiled[name]; ok {
		return s, nil
	}
	data, err := fs.ReadFile(v.fsys, name)
	if err != nil {
		return nil, &LoadError{Schema: name, Cause: err}
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &LoadError{Schema: name, Cause: err}
	}
	v.compiled[name] = s
	return s, nil
}
