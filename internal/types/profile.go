package types

import (
	"bytes"
	"encoding/json"
)

// Profile is an insertion-ordered mapping from classification label to either a
// string or a list of strings. The zero value is an empty profile.
type Profile struct {
	keys   []string
	values map[string]any
}

// NewProfile returns an empty profile.
func NewProfile() Profile {
	return Profile{values: make(map[string]any)}
}

// SetString stores a single string value, overwriting any previous value for key.
func (p *Profile) SetString(key, value string) {
	p.set(key, value)
}

// SetList stores a list value, overwriting any previous value for key.
func (p *Profile) SetList(key string, values []string) {
	list := make([]string, len(values))
	copy(list, values)
	p.set(key, list)
}

// AppendList appends values to the list stored at key. A missing key or a key
// holding a string is replaced by a new list.
func (p *Profile) AppendList(key string, values []string) {
	if existing, ok := p.values[key].([]string); ok {
		p.values[key] = append(existing, values...)
		return
	}
	p.SetList(key, values)
}

func (p *Profile) set(key string, value any) {
	if p.values == nil {
		p.values = make(map[string]any)
	}
	if _, exists := p.values[key]; !exists {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Get returns the value stored at key.
func (p Profile) Get(key string) (any, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Keys returns the labels in insertion order.
func (p Profile) Keys() []string {
	return append([]string(nil), p.keys...)
}

// Len returns the number of labels.
func (p Profile) Len() int {
	return len(p.keys)
}

// MarshalJSON encodes the profile as a JSON object preserving insertion order.
func (p Profile) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshalNoEscape(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := marshalNoEscape(p.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the key order of the document.
func (p *Profile) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return err
	}
	*p = NewProfile()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil {
			p.SetList(key, list)
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		p.SetString(key, s)
	}
	_, err := dec.Token()
	return err
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
