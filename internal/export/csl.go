// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export converts classification results into bibliographic
// formats. The only format today is CSL-YAML, which Pandoc and most
// reference managers consume directly.
package export

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/footnote-engine/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names and structure follow the CSL-JSON/CSL-YAML schema.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title,omitempty"`
	Author         []CSLName `yaml:"author,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Publisher      string    `yaml:"publisher,omitempty"`
	PublisherPlace string    `yaml:"publisher-place,omitempty"`
	Volume         string    `yaml:"volume,omitempty"`
	Page           string    `yaml:"page,omitempty"`
	URL            string    `yaml:"URL,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	Accessed       *CSLDate  `yaml:"accessed,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// FormatCSL writes the matched entries among results as a CSL-YAML list
// to w. Unmatched footnotes and special classics carry no structured
// fields and are skipped.
func FormatCSL(results []types.MatchResult, w io.Writer) error {
	var items []CSLItem
	for i, r := range results {
		if !r.Matched() || r.MatchedType == types.SpecialClassicType {
			continue
		}
		items = append(items, toCSLItem(i+1, r))
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// toCSLItem maps one match's extracted fields onto the CSL schema.
// Unknown reference types fall back to the generic "document".
func toCSLItem(n int, r types.MatchResult) CSLItem {
	item := CSLItem{
		ID:             fmt.Sprintf("ref%d", n),
		Type:           cslType(r.MatchedType),
		Title:          r.Fields["Title"],
		ContainerTitle: containerTitle(r.Fields),
		Publisher:      r.Fields["Publisher"],
		PublisherPlace: r.Fields["Place"],
		Volume:         r.Fields["Volume"],
		Page:           r.Fields["Pages"],
		URL:            r.Fields["URL"],
	}

	if author := r.Fields["Author"]; author != "" {
		item.Author = append(item.Author, parseAuthorName(author))
	}

	if year := extractYear(r.Fields["Date"]); year != 0 {
		item.Issued = &CSLDate{DateParts: [][]int{{year}}}
	}
	if year := extractYear(r.Fields["AccessDate"]); year != 0 {
		item.Accessed = &CSLDate{DateParts: [][]int{{year}}}
	}

	return item
}

// containerTitle picks the containing work's name: the journal for
// articles, the site for web pages.
func containerTitle(fields map[string]string) string {
	if name := fields["JournalName"]; name != "" {
		return name
	}
	return fields["WebsiteName"]
}

// cslType maps a rule name to the closest CSL item type.
func cslType(name string) string {
	switch {
	case strings.Contains(name, "journal"):
		return "article-journal"
	case strings.Contains(name, "web"):
		return "webpage"
	case strings.Contains(name, "book"):
		return "book"
	default:
		return "document"
	}
}

var yearRe = regexp.MustCompile(`\d{4}`)

// extractYear pulls a four-digit year from a free-form date string.
// Returns 0 when none is present.
func extractYear(date string) int {
	m := yearRe.FindString(date)
	if m == "" {
		return 0
	}
	year, _ := strconv.Atoi(m)
	return year
}

// parseAuthorName splits a name into CSL family/given parts. Footnote
// citations put the family name first ("Doe, John"), so the split is on
// the first comma. Names without a comma use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	family, given, ok := strings.Cut(name, ",")
	if !ok {
		return CSLName{Literal: name}
	}
	return CSLName{
		Family: strings.TrimSpace(family),
		Given:  strings.TrimSpace(given),
	}
}
