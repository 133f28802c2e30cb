package csvsource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
)

// Entry is one row of the uploaded critical-repositories CSV.
// Rows are replaced wholesale on re-upload and never mutated in place.
type Entry struct {
	Name string `json:"name,omitempty"`
	URL  string `json:"url"`
	Team string `json:"team,omitempty"`
}

// ParseResult carries the parsed rows plus counts the presentation layer
// reports instead of failing on dirty data.
type ParseResult struct {
	Entries     []Entry
	MissingURL  int // rows kept for display but excluded from matching
	SkippedRows int // rows that could not be parsed at all
}

// Parse reads a critical-repositories CSV. The only required column is
// "url", matched case-insensitively; "name" and "team" are optional.
// Rows with a blank url are retained with URL=="" so they can still be
// listed as unmatched. Short or broken rows are skipped and counted.
func Parse(r io.Reader) (ParseResult, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return ParseResult{}, errors.New("csv is empty")
	}
	if err != nil {
		return ParseResult{}, fmt.Errorf("read csv header: %w", err)
	}

	urlCol, nameCol, teamCol := -1, -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "url":
			urlCol = i
		case "name":
			nameCol = i
		case "team":
			teamCol = i
		}
	}
	if urlCol < 0 {
		return ParseResult{}, errors.New(`csv has no "url" column`)
	}

	res := ParseResult{}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.SkippedRows++
			continue
		}
		entry := Entry{
			URL:  field(record, urlCol),
			Name: field(record, nameCol),
			Team: field(record, teamCol),
		}
		if entry.URL == "" {
			res.MissingURL++
		}
		res.Entries = append(res.Entries, entry)
	}

	if res.SkippedRows > 0 {
		log.Printf("csv parse: skipped %d malformed row(s)", res.SkippedRows)
	}
	return res, nil
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
