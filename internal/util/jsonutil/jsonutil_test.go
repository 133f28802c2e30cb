package jsonutil

import (
	"strings"
	"testing"
)

func TestUnmarshal_Direct(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	if err := Unmarshal([]byte(`{"name":"svc-a"}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.Name != "svc-a" {
		t.Fatalf("got %q", v.Name)
	}
}

func TestUnmarshal_DoubleEncoded(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	if err := Unmarshal([]byte(`"{\"name\":\"svc-a\"}"`), &v); err != nil {
		t.Fatalf("unmarshal double-encoded: %v", err)
	}
	if v.Name != "svc-a" {
		t.Fatalf("got %q", v.Name)
	}
}

func TestMarshalNoEscape(t *testing.T) {
	out, err := MarshalNoEscape(map[string]string{"url": "https://x.test/?a=1&b=2"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(out), `\u0026`) {
		t.Fatalf("ampersand escaped: %s", out)
	}
	if !strings.Contains(string(out), "a=1&b=2") {
		t.Fatalf("url mangled: %s", out)
	}
	if strings.HasSuffix(string(out), "\n") {
		t.Fatalf("trailing newline kept: %q", out)
	}
}

func TestUnescapeUnicodeString(t *testing.T) {
	got, err := UnescapeUnicodeString(`a \u003e b`)
	if err != nil {
		t.Fatalf("unescape: %v", err)
	}
	if got != "a > b" {
		t.Fatalf("got %q", got)
	}

	// Strings without escapes pass through untouched.
	if got, _ := UnescapeUnicodeString("plain"); got != "plain" {
		t.Fatalf("got %q", got)
	}
}
