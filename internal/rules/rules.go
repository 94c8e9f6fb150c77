// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rules loads the YAML rule configuration and compiles it into the
// pattern set the classifier runs against. Entry order in the YAML document
// is preserved: it is the rule priority order. Compilation validates every
// field pattern up front; a malformed pattern degrades that field, never
// the whole run.
package rules

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pdiddy/footnote-engine/pkg/types"
)

// Field is a compiled extraction pattern. The pattern carries a named
// capture group matching Name.
type Field struct {
	Name string
	re   *regexp.Regexp
	// group is the submatch index of the named capture group.
	group int
}

// Extract applies the field pattern anywhere in text and returns the
// trimmed captured value, or "" when the pattern does not match or the
// group did not participate.
func (f Field) Extract(text string) string {
	m := f.re.FindStringSubmatch(text)
	if m == nil || f.group >= len(m) {
		return ""
	}
	return strings.TrimSpace(m[f.group])
}

// ReferenceRule is one compiled reference type.
type ReferenceRule struct {
	Name     string
	Template string
	Fields   []Field
	Required []string

	// FieldNames lists every defined field, including ones whose pattern
	// failed to compile. The formatter blanks these out of the template.
	FieldNames []string
}

// IsRequired reports whether name is in the rule's required set.
func (r ReferenceRule) IsRequired(name string) bool {
	for _, req := range r.Required {
		if req == name {
			return true
		}
	}
	return false
}

// OptionalCount returns the number of defined fields that are not required.
func (r ReferenceRule) OptionalCount() int {
	n := 0
	for _, name := range r.FieldNames {
		if !r.IsRequired(name) {
			n++
		}
	}
	return n
}

// SpecialRule is one compiled special-classic abbreviation.
type SpecialRule struct {
	Abbreviation string
	Citation     string
	re           *regexp.Regexp
}

// Matches reports whether text starts with the abbreviation followed by a
// non-word character or end-of-string, case-insensitively.
func (s SpecialRule) Matches(text string) bool {
	return s.re.MatchString(text)
}

// Set is the compiled rule configuration shared read-only across footnote
// classifications.
type Set struct {
	Specials []SpecialRule
	Types    []ReferenceRule
}

// Lookup returns the reference rule with the given name, or nil.
func (s *Set) Lookup(name string) *ReferenceRule {
	for i := range s.Types {
		if s.Types[i].Name == name {
			return &s.Types[i]
		}
	}
	return nil
}

// Warning records a configuration defect found during compilation. Warnings
// degrade matching quality but do not abort loading.
type Warning struct {
	Rule    string
	Field   string
	Message string
}

func (w Warning) String() string {
	if w.Field == "" {
		return fmt.Sprintf("rule %q: %s", w.Rule, w.Message)
	}
	return fmt.Sprintf("rule %q field %q: %s", w.Rule, w.Field, w.Message)
}

// Load reads, decodes, and compiles the rule configuration at path.
func Load(path string) (*Set, []Warning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading rules: %w", err)
	}
	rs, err := Decode(data)
	if err != nil {
		return nil, nil, err
	}
	set, warnings := Compile(rs)
	return set, warnings, nil
}

// Compile validates a declarative rule set and builds the compiled form.
// Defects are reported as warnings: a malformed or group-less field pattern
// drops that field, a reference type with no usable fields at all is
// rejected, and a required field without a usable pattern is flagged (the
// type can then never match).
func Compile(rs types.RuleSet) (*Set, []Warning) {
	var warnings []Warning
	set := &Set{}

	for _, sc := range rs.SpecialClassics {
		if sc.Abbreviation == "" {
			warnings = append(warnings, Warning{Rule: "special_classics", Message: "empty abbreviation"})
			continue
		}
		re := regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(sc.Abbreviation) + `(\W|$)`)
		set.Specials = append(set.Specials, SpecialRule{
			Abbreviation: sc.Abbreviation,
			Citation:     sc.Citation,
			re:           re,
		})
	}

	for _, rt := range rs.ReferenceTypes {
		rule := ReferenceRule{
			Name:     rt.Name,
			Template: rt.Template,
			Required: rt.Required,
		}

		for _, fp := range rt.Fields {
			rule.FieldNames = append(rule.FieldNames, fp.Name)
			if fp.Pattern == "" {
				warnings = append(warnings, Warning{Rule: rt.Name, Field: fp.Name, Message: "empty pattern"})
				continue
			}
			re, err := regexp.Compile(fp.Pattern)
			if err != nil {
				warnings = append(warnings, Warning{Rule: rt.Name, Field: fp.Name, Message: fmt.Sprintf("invalid pattern: %v", err)})
				continue
			}
			group := namedGroupIndex(re, fp.Name)
			if group < 0 {
				warnings = append(warnings, Warning{Rule: rt.Name, Field: fp.Name, Message: "pattern has no capture group named after the field"})
				continue
			}
			rule.Fields = append(rule.Fields, Field{Name: fp.Name, re: re, group: group})
		}

		if len(rule.Fields) == 0 {
			warnings = append(warnings, Warning{Rule: rt.Name, Message: "no usable field patterns; rule rejected"})
			continue
		}
		for _, req := range rule.Required {
			if !hasField(rule.Fields, req) {
				warnings = append(warnings, Warning{Rule: rt.Name, Field: req, Message: "required field has no usable pattern; rule can never match"})
			}
		}
		if rule.Template == "" {
			warnings = append(warnings, Warning{Rule: rt.Name, Message: "missing template; matches will format as empty"})
		}

		set.Types = append(set.Types, rule)
	}

	return set, warnings
}

func hasField(fields []Field, name string) bool {
	for _, f := range fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

func namedGroupIndex(re *regexp.Regexp, name string) int {
	for i, n := range re.SubexpNames() {
		if i > 0 && n == name {
			return i
		}
	}
	return -1
}
