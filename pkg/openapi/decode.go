package openapi

import (
	"bytes"
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Attributes holds the raw members of a JSON object in document order.
type Attributes = orderedmap.OrderedMap[string, json.RawMessage]

// NewAttributes creates an empty attribute bag.
func NewAttributes() *Attributes {
	return orderedmap.New[string, json.RawMessage]()
}

// decodeAttributes splits a JSON object into its raw members.
// Anything that is not an object yields an error.
func decodeAttributes(data []byte) (*Attributes, error) {
	attrs := NewAttributes()
	if err := json.Unmarshal(data, attrs); err != nil {
		return nil, err
	}
	return attrs, nil
}

// field decodes attrs[key] into dst and reports whether it did.
// A member of the wrong JSON type is treated as absent so a single malformed
// field does not poison the whole document.
func field(attrs *Attributes, key string, dst any) bool {
	raw, ok := attrs.Get(key)
	if !ok || isNull(raw) {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

// rawField returns attrs[key] verbatim, including a literal null.
func rawField(attrs *Attributes, key string) json.RawMessage {
	raw, ok := attrs.Get(key)
	if !ok {
		return nil
	}
	return raw
}

// Truthy reports whether a raw JSON value counts as set: anything but
// null, false, the empty string or a number equal to zero.
func Truthy(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}
	switch trimmed[0] {
	case 'n':
		return !bytes.Equal(trimmed, []byte("null"))
	case 'f':
		return !bytes.Equal(trimmed, []byte("false"))
	case '"':
		return !bytes.Equal(trimmed, []byte(`""`))
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n float64
		if err := json.Unmarshal(trimmed, &n); err != nil {
			// out of float64 range, so not zero
			return true
		}
		return n != 0
	}
	return true
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// isObject reports whether raw holds a JSON object.
func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
