// Package outline extracts structure from generated Markdown, currently just
// the leading heading used to title index entries.
package outline

import (
	"strings"

	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
)

// FirstHeading returns the text of the first heading in content, with
// whitespace normalized, or an empty string when there is none.
func FirstHeading(content []byte) string {
	mdParser := parser.NewWithExtensions(parser.CommonExtensions)
	doc := mdParser.Parse(content)

	var found string
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering || found != "" {
			return ast.GoToNext
		}

		if heading, isHeading := node.(*ast.Heading); isHeading {
			if text := extractText(heading); text != "" {
				found = text
				return ast.Terminate
			}
		}

		return ast.GoToNext
	})

	return found
}

func extractText(node ast.Node) string {
	var buf strings.Builder
	ast.WalkFunc(node, func(n ast.Node, entering bool) ast.WalkStatus {
		if entering {
			if text, ok := n.(*ast.Text); ok {
				buf.Write(text.Literal)
			}
		}
		return ast.GoToNext
	})

	return strings.Join(strings.Fields(buf.String()), " ")
}
