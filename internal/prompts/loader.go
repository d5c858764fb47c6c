// Package prompts holds the classification prompt templates, embedded from
// versioned YAML files.
package prompts

import (
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed *.yaml
var embedded embed.FS

// Set is one parsed prompt file.
type Set struct {
	Version string            `yaml:"version"`
	Prompts map[string]string `yaml:"prompts"`
}

var placeholderRE = regexp.MustCompile(`\{\{\.(\w+)\}\}`)

// Parse decodes a prompt file. A file without prompts is an error.
func Parse(data []byte) (*Set, error) {
	var s Set
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if len(s.Prompts) == 0 {
		return nil, fmt.Errorf("no prompts defined")
	}
	return &s, nil
}

// Get returns the template stored under key.
func (s *Set) Get(key string) (string, error) {
	t, ok := s.Prompts[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found", key)
	}
	return t, nil
}

// Keys returns the prompt keys, sorted.
func (s *Set) Keys() []string {
	keys := make([]string, 0, len(s.Prompts))
	for k := range s.Prompts {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Loader parses prompt files from a file system once and keeps them.
type Loader struct {
	fsys fs.FS
	mu   sync.Mutex
	sets map[string]*Set
}

// NewLoader reads prompt files from fsys.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys, sets: make(map[string]*Set)}
}

// Load returns the parsed file called filename.
func (l *Loader) Load(filename string) (*Set, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if s, ok := l.sets[filename]; ok {
		return s, nil
	}
	data, err := fs.ReadFile(l.fsys, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}
	l.sets[filename] = s
	return s, nil
}

var defaultLoader = NewLoader(embedded)

// Get returns an embedded prompt by file name (for example "profiling.yaml") and key.
func Get(filename, key string) (string, error) {
	s, err := defaultLoader.Load(filename)
	if err != nil {
		return "", err
	}
	t, err := s.Get(key)
	if err != nil {
		return "", fmt.Errorf("%s: %w", filename, err)
	}
	return t, nil
}

// Version returns the version declared by an embedded prompt file.
func Version(filename string) (string, error) {
	s, err := defaultLoader.Load(filename)
	if err != nil {
		return "", err
	}
	return s.Version, nil
}

// Format substitutes {{.Name}} placeholders from data. Placeholders without a
// value are left in place.
func Format(template string, data map[string]string) string {
	return placeholderRE.ReplaceAllStringFunc(template, func(m string) string {
		if v, ok := data[m[3:len(m)-2]]; ok {
			return v
		}
		return m
	})
}

// Placeholders lists the distinct placeholder names of template in order of appearance.
func Placeholders(template string) []string {
	var names []string
	for _, m := range placeholderRE.FindAllStringSubmatch(template, -1) {
		if !slices.Contains(names, m[1]) {
			names = append(names, m[1])
		}
	}
	return names
}

// Missing reports placeholders in template that data does not fill.
func Missing(template string, data map[string]string) []string {
	var missing []string
	for _, name := range Placeholders(template) {
		if _, ok := data[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
