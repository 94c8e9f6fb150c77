// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rules

import (
	"fmt"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/footnote-engine/pkg/types"
)

// Decode parses the YAML rule configuration. It decodes through yaml.Node
// rather than into Go maps so that the document's entry order survives:
// rule priority is whatever order the configuration author wrote.
//
// The expected shape mirrors the classic settings file:
//
//	special_classics:
//	  STh: "Thomas Aquinas, <i>Summa Theologiae</i>"
//	reference_types:
//	  book:
//	    template: "Author, <i>Title</i> (Place: Publisher, Date)."
//	    fields:
//	      Author: '^(?P<Author>[A-Za-z\s,.]+?),'
//	    required_fields: [Author]
func Decode(data []byte) (types.RuleSet, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return types.RuleSet{}, fmt.Errorf("parsing rules YAML: %w", err)
	}

	var rs types.RuleSet
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return rs, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return rs, fmt.Errorf("rules YAML: top level must be a mapping, got %s", kindName(root.Kind))
	}

	for key, value := range mappingPairs(root) {
		switch key.Value {
		case "special_classics":
			specials, err := decodeSpecials(value)
			if err != nil {
				return rs, err
			}
			rs.SpecialClassics = specials
		case "reference_types":
			refTypes, err := decodeReferenceTypes(value)
			if err != nil {
				return rs, err
			}
			rs.ReferenceTypes = refTypes
		}
	}
	return rs, nil
}

func decodeSpecials(node *yaml.Node) ([]types.SpecialClassic, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("special_classics: expected mapping, got %s", kindName(node.Kind))
	}
	var specials []types.SpecialClassic
	for key, value := range mappingPairs(node) {
		specials = append(specials, types.SpecialClassic{
			Abbreviation: key.Value,
			Citation:     value.Value,
		})
	}
	return specials, nil
}

func decodeReferenceTypes(node *yaml.Node) ([]types.ReferenceType, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("reference_types: expected mapping, got %s", kindName(node.Kind))
	}
	var refTypes []types.ReferenceType
	for key, value := range mappingPairs(node) {
		rt, err := decodeReferenceType(key.Value, value)
		if err != nil {
			return nil, err
		}
		refTypes = append(refTypes, rt)
	}
	return refTypes, nil
}

func decodeReferenceType(name string, node *yaml.Node) (types.ReferenceType, error) {
	rt := types.ReferenceType{Name: name}
	if node.Kind != yaml.MappingNode {
		return rt, fmt.Errorf("reference_types.%s: expected mapping, got %s", name, kindName(node.Kind))
	}
	for key, value := range mappingPairs(node) {
		switch key.Value {
		case "template":
			rt.Template = value.Value
		case "fields":
			if value.Kind != yaml.MappingNode {
				return rt, fmt.Errorf("reference_types.%s.fields: expected mapping, got %s", name, kindName(value.Kind))
			}
			for fieldKey, fieldValue := range mappingPairs(value) {
				rt.Fields = append(rt.Fields, types.FieldPattern{
					Name:    fieldKey.Value,
					Pattern: fieldValue.Value,
				})
			}
		case "required_fields":
			if err := value.Decode(&rt.Required); err != nil {
				return rt, fmt.Errorf("reference_types.%s.required_fields: %w", name, err)
			}
		}
	}
	return rt, nil
}

// mappingPairs iterates a mapping node's key/value pairs in document order.
func mappingPairs(node *yaml.Node) func(yield func(*yaml.Node, *yaml.Node) bool) {
	return func(yield func(*yaml.Node, *yaml.Node) bool) {
		for i := 0; i+1 < len(node.Content); i += 2 {
			if !yield(node.Content[i], node.Content[i+1]) {
				return
			}
		}
	}
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown"
}
