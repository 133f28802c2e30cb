package jsonutil

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Unmarshal decodes JSON with tolerance for hand-edited documents:
// it first tries a direct decode, and on failure retries after unwrapping
// a document that was double-encoded as a JSON string (a common artifact
// of likec4 exports pasted through web forms).
func Unmarshal(data []byte, v any) error {
	directErr := json.Unmarshal(data, v)
	if directErr == nil {
		return nil
	}
	var wrapped string
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return directErr
	}
	return json.Unmarshal([]byte(wrapped), v)
}

// MarshalNoEscape encodes v without escaping <, > and & to < etc.,
// keeping stored URLs readable.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnescapeUnicodeString resolves unicode escapes left behind in string
// values by HTML-escaping encoders. Sequences that are not a valid
// 4-digit escape pass through untouched.
func UnescapeUnicodeString(s string) (string, error) {
	if !strings.Contains(s, escPrefix) {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if strings.HasPrefix(s[i:], escPrefix) && i+6 <= len(s) {
			if code, err := strconv.ParseUint(s[i+2:i+6], 16, 32); err == nil {
				b.WriteRune(rune(code))
				i += 6
				continue
			}
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String(), nil
}

const escPrefix = "\\u"
