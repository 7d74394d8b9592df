package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Kind tags the representation of a stored Value.
type Kind int

const (
	// KindText is a plain string value served as text/plain.
	KindText Kind = iota + 1
	// KindJSON is a JSON object value served as application/json.
	KindJSON
)

const (
	ContentTypeText = "text/plain"
	ContentTypeJSON = "application/json"
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindJSON:
		return "json"
	default:
		return "unknown"
	}
}

// Value is a property value: either Text or a JSON object.
// The zero Value is not valid; use Text, NewJSON or ParseBody.
type Value struct {
	kind Kind
	data []byte
}

// Text builds a plain string value. The string is kept byte-for-byte.
func Text(s string) Value {
	return Value{kind: KindText, data: []byte(s)}
}

// NewJSON builds a JSON value from raw, which must be a single JSON object.
// The stored form is compacted; key order and number literals are kept.
func NewJSON(raw []byte) (Value, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Value{}, fmt.Errorf("%w: not a JSON object", ErrInvalidJSON)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return Value{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return Value{kind: KindJSON, data: buf.Bytes()}, nil
}

// ParseBody turns a raw request body into a Value. A body whose trimmed form
// starts with '{' must be a valid JSON object; any other body, including the
// empty one, is stored as Text exactly as received (untrimmed).
func ParseBody(body string) (Value, error) {
	if !strings.HasPrefix(strings.TrimSpace(body), "{") {
		return Text(body), nil
	}
	return NewJSON([]byte(body))
}

// Kind returns the value's tag.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether v was built by one of the constructors.
func (v Value) IsValid() bool { return v.kind == KindText || v.kind == KindJSON }

// ContentType is the media type the value is served with.
func (v Value) ContentType() string {
	if v.kind == KindJSON {
		return ContentTypeJSON
	}
	return ContentTypeText
}

// Bytes returns the response body for the value: the string itself for
// Text, the compact serialization for JSON.
func (v Value) Bytes() []byte { return v.data }

// String returns Bytes as a string.
func (v Value) String() string { return string(v.data) }

// persisted is the stored form of a Value. Text is kept as bytes so values
// that are not valid UTF-8 survive a round trip unchanged.
type persisted struct {
	Kind string          `json:"kind"`
	Text []byte          `json:"text,omitempty"`
	JSON json.RawMessage `json:"json,omitempty"`
}

// MarshalJSON encodes the value for persistence.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindText:
		return json.Marshal(persisted{Kind: KindText.String(), Text: v.data})
	case KindJSON:
		return json.Marshal(persisted{Kind: KindJSON.String(), JSON: v.data})
	default:
		return nil, fmt.Errorf("cannot encode value of kind %s", v.kind)
	}
}

// UnmarshalJSON decodes the persisted form written by MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	decoded, ok, err := decodeValue(data)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: null value", ErrCorrupt)
	}
	*v = decoded
	return nil
}

// decodeValue reads a persisted value. JSON null, or an empty input,
// decodes to absent.
func decodeValue(data []byte) (Value, bool, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Value{}, false, nil
	}

	var p persisted
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return Value{}, false, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	switch p.Kind {
	case KindText.String():
		return Value{kind: KindText, data: p.Text}, true, nil
	case KindJSON.String():
		v, err := NewJSON(p.JSON)
		if err != nil {
			return Value{}, false, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		return v, true, nil
	default:
		return Value{}, false, fmt.Errorf("%w: unknown kind %q", ErrCorrupt, p.Kind)
	}
}
