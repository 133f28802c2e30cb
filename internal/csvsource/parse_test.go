package csvsource

import (
	"strings"
	"testing"
)

func TestParse_HeaderCaseInsensitive(t *testing.T) {
	csv := "Name,URL,Team\nsvc-a,gitlab.com/sympla/svc-a,payments\n"
	res, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(res.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(res.Entries))
	}
	e := res.Entries[0]
	if e.Name != "svc-a" || e.URL != "gitlab.com/sympla/svc-a" || e.Team != "payments" {
		t.Fatalf("unexpected entry: %+v", e)
	}
}

func TestParse_MissingURLColumnIsFatal(t *testing.T) {
	if _, err := Parse(strings.NewReader("name,team\na,b\n")); err == nil {
		t.Fatalf("expected an error when the url column is absent")
	}
}

func TestParse_RowsWithoutURLAreKept(t *testing.T) {
	csv := "url,name\n,orphan\ngitlab.com/sympla/svc-a,svc-a\n"
	res, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(res.Entries) != 2 {
		t.Fatalf("url-less rows must be retained for display, got %d entries", len(res.Entries))
	}
	if res.MissingURL != 1 {
		t.Fatalf("expected 1 row counted as missing url, got %d", res.MissingURL)
	}
}

func TestParse_ShortRowsTolerated(t *testing.T) {
	csv := "url,name,team\ngitlab.com/sympla/svc-a\n"
	res, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(res.Entries) != 1 || res.Entries[0].URL != "gitlab.com/sympla/svc-a" {
		t.Fatalf("short row should still yield its url, got %+v", res.Entries)
	}
	if res.Entries[0].Name != "" {
		t.Fatalf("missing columns should stay empty, got %+v", res.Entries[0])
	}
}

func TestParse_Empty(t *testing.T) {
	if _, err := Parse(strings.NewReader("")); err == nil {
		t.Fatalf("expected an error for an empty upload")
	}
}
