package c4

import "strings"

// Kind classifies an architecture element. The vocabulary is closed:
// documents may contain other kinds, but they never reach the core.
type Kind string

const (
	KindContainer   Kind = "container"
	KindApplication Kind = "application"
	KindService     Kind = "service"
	KindWebapp      Kind = "webapp"
	KindMobile      Kind = "mobile"
	KindDatabase    Kind = "database"
	KindQueue       Kind = "queue"
)

// Kinds lists every recognized element kind, in display order.
var Kinds = []Kind{
	KindContainer,
	KindApplication,
	KindService,
	KindWebapp,
	KindMobile,
	KindDatabase,
	KindQueue,
}

// ParseKind maps a raw kind string onto the closed vocabulary.
func ParseKind(raw string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Kinds {
		if k == known {
			return k, true
		}
	}
	return "", false
}

// Category is one of the tracked documentation link types.
type Category string

const (
	CategoryRepository Category = "repository"
	CategoryLogs       Category = "logs"
	CategoryAPM        Category = "apm"
	CategoryOpenAPI    Category = "openapi"
	CategoryMonitor    Category = "monitor"
	CategoryDashboard  Category = "dashboard"
	CategoryBackstage  Category = "backstage"
)

// Categories lists the documentation categories an element is scored on.
var Categories = []Category{
	CategoryRepository,
	CategoryLogs,
	CategoryAPM,
	CategoryOpenAPI,
	CategoryMonitor,
	CategoryDashboard,
	CategoryBackstage,
}

// NumCategories is the scoring denominator.
const NumCategories = 7

// categoryAliases folds legacy link titles onto the canonical vocabulary.
// Older documents use "monitoring" where newer ones use "monitor".
var categoryAliases = map[string]Category{
	"monitoring": CategoryMonitor,
}

// ParseCategory maps a raw link title onto the closed vocabulary.
// Titles are matched case-insensitively ("APM", "openAPI" appear in
// documents with mixed casing).
func ParseCategory(raw string) (Category, bool) {
	title := strings.ToLower(strings.TrimSpace(raw))
	if alias, ok := categoryAliases[title]; ok {
		return alias, true
	}
	c := Category(title)
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// Element is one documented architectural unit, built once per source load
// and immutable afterwards.
type Element struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Kind          Kind              `json:"kind"`
	Technology    string            `json:"technology,omitempty"`
	Description   string            `json:"description,omitempty"`
	RepositoryURL string            `json:"repository_url,omitempty"`
	Links         map[Category]string `json:"links,omitempty"`
}

// Link returns the URL recorded for a documentation category, or "".
func (e Element) Link(c Category) string {
	return e.Links[c]
}

// HasLink reports whether a category is satisfied: present with a
// non-blank value.
func (e Element) HasLink(c Category) bool {
	return strings.TrimSpace(e.Link(c)) != ""
}
