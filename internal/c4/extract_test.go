package c4

import "testing"

const sampleDoc = `{
  "elements": {
    "svc-a": {
      "kind": "service",
      "title": "Service A",
      "technology": "Go",
      "links": [
        {"title": "repository", "url": "https://gitlab.com/sympla/svc-a.git"},
        {"title": "logs", "url": "https://logs.example.com/svc-a"},
        {"title": "monitoring", "url": "https://grafana.example.com/svc-a"},
        {"title": "wiki", "url": "https://wiki.example.com/svc-a"}
      ]
    },
    "actor-user": {
      "kind": "person",
      "title": "End User"
    },
    "db-main": {
      "kind": "database",
      "title": "Main DB"
    }
  }
}`

func TestExtract_FiltersAndTypes(t *testing.T) {
	res, err := Extract([]byte(sampleDoc), nil)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(res.Elements) != 2 {
		t.Fatalf("expected 2 recognized elements, got %d", len(res.Elements))
	}
	if res.DroppedKinds != 1 {
		t.Fatalf("the person element should be dropped, got %d drops", res.DroppedKinds)
	}

	var svc Element
	for _, el := range res.Elements {
		if el.ID == "svc-a" {
			svc = el
		}
	}
	if svc.Kind != KindService || svc.Name != "Service A" {
		t.Fatalf("unexpected element: %+v", svc)
	}
	if svc.RepositoryURL != "https://gitlab.com/sympla/svc-a.git" {
		t.Fatalf("repository url not extracted: %+v", svc)
	}
	if !svc.HasLink(CategoryMonitor) {
		t.Fatalf(`"monitoring" should fold into monitor: %+v`, svc.Links)
	}
	if _, ok := svc.Links["wiki"]; ok {
		t.Fatalf("unknown link titles must be ignored: %+v", svc.Links)
	}
}

func TestExtract_KindFilter(t *testing.T) {
	res, err := Extract([]byte(sampleDoc), []Kind{KindDatabase})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(res.Elements) != 1 || res.Elements[0].ID != "db-main" {
		t.Fatalf("expected only db-main, got %+v", res.Elements)
	}
}

func TestExtract_SpecificationNesting(t *testing.T) {
	doc := `{"specification": {"elements": {"app-x": {"kind": "webapp", "title": "X"}}}}`
	res, err := Extract([]byte(doc), nil)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(res.Elements) != 1 || res.Elements[0].Kind != KindWebapp {
		t.Fatalf("expected the nested element, got %+v", res.Elements)
	}
}

func TestExtract_DecodesEscapedLinkURLs(t *testing.T) {
	doc := `{"elements": {"svc": {"kind": "service", "title": "S", "links": [
		{"title": "logs", "url": "https://logs.example.com/x?a=1\\u0026b=2"}
	]}}}`
	res, err := Extract([]byte(doc), nil)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got := res.Elements[0].Link(CategoryLogs); got != "https://logs.example.com/x?a=1&b=2" {
		t.Fatalf("escaped ampersand not decoded: %q", got)
	}
}

func TestExtract_NoElementsSection(t *testing.T) {
	if _, err := Extract([]byte(`{"views": {}}`), nil); err == nil {
		t.Fatalf("expected an error for a document without elements")
	}
}

func TestParseCategory_Vocabulary(t *testing.T) {
	cases := map[string]Category{
		"repository": CategoryRepository,
		"APM":        CategoryAPM,
		"openAPI":    CategoryOpenAPI,
		"monitoring": CategoryMonitor,
		"backstage":  CategoryBackstage,
	}
	for raw, want := range cases {
		got, ok := ParseCategory(raw)
		if !ok || got != want {
			t.Fatalf("ParseCategory(%q) = %q, %v; want %q", raw, got, ok, want)
		}
	}
	if _, ok := ParseCategory("jira"); ok {
		t.Fatalf("unknown category accepted")
	}
}
