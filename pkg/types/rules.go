// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SpecialClassic maps a literal abbreviation to a fully authored citation.
// The citation is a tagged string (it may carry <i>/<b>/<u> markers) and is
// emitted verbatim when the abbreviation is recognized at the start of a
// footnote.
type SpecialClassic struct {
	// Abbreviation is the token recognized at the start of the footnote
	// text (case-insensitive, followed by a non-word character or
	// end-of-string).
	Abbreviation string `json:"abbreviation" yaml:"abbreviation"`

	// Citation is the replacement text, itself a tagged string.
	Citation string `json:"citation" yaml:"citation"`
}

// FieldPattern pairs a field name with the regular expression that extracts
// it. The pattern must contain a named capture group of the same name.
type FieldPattern struct {
	Name    string `json:"name" yaml:"name"`
	Pattern string `json:"pattern" yaml:"pattern"`
}

// ReferenceType is one configurable citation pattern: a display template
// with field-name placeholders, the field extraction patterns, and the
// subset of fields that must resolve for the type to match.
type ReferenceType struct {
	Name string `json:"name" yaml:"name"`

	// Template is a tagged string containing field-name placeholders,
	// either delimited ("{{Title}}") or bare ("Title").
	Template string `json:"template" yaml:"template"`

	// Fields lists the extraction patterns in configured order.
	Fields []FieldPattern `json:"fields" yaml:"fields"`

	// Required names the fields that must extract a non-empty value.
	// Fields defined but not required are optional and feed confidence
	// scoring.
	Required []string `json:"required_fields" yaml:"required_fields"`
}

// RuleSet is the declarative rule configuration. Both slices are ordered:
// iteration order is a deliberate priority list, and the first acceptable
// entry wins.
type RuleSet struct {
	SpecialClassics []SpecialClassic `json:"special_classics" yaml:"special_classics"`
	ReferenceTypes  []ReferenceType  `json:"reference_types" yaml:"reference_types"`
}
