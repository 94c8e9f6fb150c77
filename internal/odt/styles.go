// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package odt

import (
	"strings"

	"github.com/pdiddy/footnote-engine/pkg/types"
)

// styleRegistry assigns stable automatic-style names to the style-flag
// combinations used in an output document. Names read like
// "ft_bold_italic_cAA0000"; the zero combination maps to no style at all
// (the span inherits the paragraph default).
type styleRegistry struct {
	// order keeps styles in first-use order for deterministic output.
	order []string
	flags map[string]types.StyleFlags
}

func newStyleRegistry() *styleRegistry {
	return &styleRegistry{flags: map[string]types.StyleFlags{}}
}

// Name registers the combination and returns its style name, or "" for the
// default style.
func (r *styleRegistry) Name(style types.StyleFlags) string {
	name := styleName(style)
	if name == "" {
		return ""
	}
	if _, ok := r.flags[name]; !ok {
		r.order = append(r.order, name)
		r.flags[name] = style
	}
	return name
}

func styleName(style types.StyleFlags) string {
	var parts []string
	if style.Bold {
		parts = append(parts, "bold")
	}
	if style.Italic {
		parts = append(parts, "italic")
	}
	if style.Underline {
		parts = append(parts, "underline")
	}
	if style.Color != "" {
		parts = append(parts, "c"+strings.TrimPrefix(style.Color, "#"))
	}
	if len(parts) == 0 {
		return ""
	}
	return "ft_" + strings.Join(parts, "_")
}
