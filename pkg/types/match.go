// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Confidence labels the quality of a footnote match.
type Confidence string

const (
	// ConfidenceGreen: all required fields resolved and more than half of
	// the optional fields resolved (or there were no optional fields).
	// Special-classic matches are always green.
	ConfidenceGreen Confidence = "green"

	// ConfidenceYellow: all required fields resolved but half or fewer of
	// the optional fields resolved.
	ConfidenceYellow Confidence = "yellow"

	// ConfidenceRed: no rule matched. The footnote passes through
	// unchanged and is visually flagged in the output.
	ConfidenceRed Confidence = "red"
)

// SpecialClassicType is the MatchedType value for special-classic matches,
// which are recognized by abbreviation rather than by a reference type.
const SpecialClassicType = "special_classic"

// Well-known field keys in MatchResult.Fields.
const (
	// FieldAbbreviation and FieldFullCitation are set for special-classic
	// matches.
	FieldAbbreviation = "abbreviation"
	FieldFullCitation = "full_citation"

	// FieldPreprocessedText is the only field set for unmatched footnotes;
	// it carries the tagged text so formatting can reproduce the original.
	FieldPreprocessedText = "preprocessed_text"
)

// MatchResult is the outcome of classifying one footnote.
type MatchResult struct {
	// MatchedType is the name of the accepted reference type,
	// SpecialClassicType for an abbreviation match, or empty when no
	// rule matched.
	MatchedType string `json:"matched_type" yaml:"matched_type"`

	// Fields holds the extracted field values. For an unmatched footnote
	// it contains exactly FieldPreprocessedText.
	Fields map[string]string `json:"parsed_fields" yaml:"parsed_fields"`

	// PreprocessedText is the flattened, tag-encoded footnote text the
	// rules were matched against.
	PreprocessedText string `json:"preprocessed_text" yaml:"preprocessed_text"`

	Confidence Confidence `json:"confidence" yaml:"confidence"`
}

// Matched reports whether any rule accepted the footnote.
func (r MatchResult) Matched() bool {
	return r.MatchedType != ""
}
