package portfolio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Entry is one row of the portfolio dataset.
type Entry struct {
	Skill string
	Link  string
	Extra map[string]string
}

var (
	skillHeaders = []string{"techstack", "tech_stack", "skills", "skill"}
	linkHeaders  = []string{"links", "link", "url"}
)

// ReadCSV parses a portfolio table. The skill and link columns are found by
// header name (Techstack/Links, case-insensitive) or default to the first two
// columns. Rows with an empty skill or link are skipped.
func ReadCSV(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("portfolio needs at least two columns, got %d", len(header))
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	skillCol := findColumn(header, skillHeaders, 0)
	linkCol := findColumn(header, linkHeaders, 1)
	if skillCol == linkCol {
		linkCol = 1 - skillCol
	}

	var out []Entry
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		skill := field(rec, skillCol)
		link := field(rec, linkCol)
		if skill == "" || link == "" {
			continue
		}

		e := Entry{Skill: skill, Link: link}
		for i, h := range header {
			if i == skillCol || i == linkCol {
				continue
			}
			if v := field(rec, i); v != "" {
				if e.Extra == nil {
					e.Extra = make(map[string]string)
				}
				e.Extra[strings.TrimSpace(h)] = v
			}
		}
		out = append(out, e)
	}
	return out, nil
}

// Tags splits a skill text on commas.
func Tags(skill string) []string {
	out := []string{}
	for _, p := range strings.Split(skill, ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func findColumn(header, names []string, def int) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, n := range names {
			if h == n {
				return i
			}
		}
	}
	return def
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
