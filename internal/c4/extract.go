package c4

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"c4analytics/internal/util/jsonutil"
)

// rawDocument covers both published document shapes: elements at the top
// level, or nested under "specification".
type rawDocument struct {
	Elements      map[string]rawElement `json:"elements"`
	Specification *struct {
		Elements map[string]rawElement `json:"elements"`
	} `json:"specification"`
}

type rawElement struct {
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Technology  string    `json:"technology"`
	Description string    `json:"description"`
	Links       []rawLink `json:"links"`
}

type rawLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ExtractResult carries the typed elements plus boundary-validation counts.
type ExtractResult struct {
	Elements     []Element
	DroppedKinds int
}

// Extract validates a LikeC4 JSON document and converts its element map
// into typed Elements. Records with an unrecognized kind are dropped and
// counted; unknown link titles are ignored. Only the listed kinds are kept;
// a nil or empty kinds slice keeps all recognized kinds.
func Extract(doc []byte, kinds []Kind) (ExtractResult, error) {
	var raw rawDocument
	if err := jsonutil.Unmarshal(doc, &raw); err != nil {
		return ExtractResult{}, fmt.Errorf("parse likec4 document: %w", err)
	}

	source := raw.Elements
	if len(source) == 0 && raw.Specification != nil {
		source = raw.Specification.Elements
	}
	if source == nil {
		return ExtractResult{}, fmt.Errorf("likec4 document has no elements section")
	}

	keep := map[Kind]bool{}
	for _, k := range kinds {
		keep[k] = true
	}

	res := ExtractResult{}
	for id, re := range source {
		kind, ok := ParseKind(re.Kind)
		if !ok {
			res.DroppedKinds++
			continue
		}
		if len(keep) > 0 && !keep[kind] {
			continue
		}
		res.Elements = append(res.Elements, newElement(id, kind, re))
	}

	// Map iteration order is random; keep output stable for display.
	sort.Slice(res.Elements, func(i, j int) bool {
		return res.Elements[i].ID < res.Elements[j].ID
	})

	if res.DroppedKinds > 0 {
		log.Printf("c4 extract: dropped %d element(s) with unrecognized kind", res.DroppedKinds)
	}
	return res, nil
}

func newElement(id string, kind Kind, re rawElement) Element {
	el := Element{
		ID:          id,
		Name:        strings.TrimSpace(re.Title),
		Kind:        kind,
		Technology:  strings.TrimSpace(re.Technology),
		Description: strings.TrimSpace(re.Description),
	}
	if el.Name == "" {
		el.Name = id
	}
	for _, link := range re.Links {
		cat, ok := ParseCategory(link.Title)
		if !ok {
			continue
		}
		url := strings.TrimSpace(link.URL)
		if url == "" {
			continue
		}
		// Some exports leave HTML-escaping artifacts in URL values.
		if decoded, err := jsonutil.UnescapeUnicodeString(url); err == nil {
			url = decoded
		}
		if el.Links == nil {
			el.Links = make(map[Category]string, len(re.Links))
		}
		// First occurrence wins when a category repeats.
		if _, exists := el.Links[cat]; !exists {
			el.Links[cat] = url
		}
	}
	el.RepositoryURL = el.Link(CategoryRepository)
	return el
}
