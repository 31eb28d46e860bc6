// Package render walks a parsed Doxygen tree and emits Markdown/MDX text.
// Rendering is total over tag names: every element either has a dedicated
// handler or falls back to a generically classed wrapper block, so the
// renderer never rejects a document the parser accepted.
package render

import (
	"strings"

	"github.com/g5becks/doxmd/internal/doxml"
	"github.com/samber/oops"
)

const (
	// ClassPrefix is prepended to a tag name to form the wrapper class of
	// any element without a Markdown equivalent. The stylesheet generator
	// relies on this rule to predict every possible class name.
	ClassPrefix = "doxygen-"

	// TableClass is the fixed class carried by rendered tables.
	TableClass = ClassPrefix + "table"

	// CodeDepthExceeded is returned when document nesting exceeds the
	// render depth budget. This is resource exhaustion, not a logic error;
	// rendering itself cannot fail.
	CodeDepthExceeded = "RENDER_DEPTH_EXCEEDED"

	listingLanguage = "cpp"

	defaultCompoundName = "Unknown"
	defaultCompoundKind = "compound"
	defaultSectionTitle = "Members"
	defaultMemberName   = "member"

	memberHeadingLevel = 3

	minHeadingLevel = 1
	maxHeadingLevel = 6

	maxRenderDepth = 10000
)

// WrapperClass returns the deterministic wrapper class for a tag name.
func WrapperClass(tag string) string {
	return ClassPrefix + tag
}

// Options configures a render pass. It is passed by value and never mutated.
type Options struct {
	// HeadingOffset shifts every emitted heading level; it may be negative.
	// Effective levels are clamped to [1, 6].
	HeadingOffset int
}

// Render walks root and returns the rendered text. The tree is only read,
// never modified, and rendering the same tree twice yields byte-identical
// output. The only failure mode is exceeding the nesting depth budget.
func Render(root *doxml.Node, opts Options) (string, error) {
	r := &renderer{opts: opts}
	out := r.document(root)
	if r.exhausted {
		return "", oops.
			Code(CodeDepthExceeded).
			With("max_depth", maxRenderDepth).
			Errorf("document nesting exceeds the render depth budget")
	}
	return out, nil
}

type renderer struct {
	opts      Options
	depth     int
	exhausted bool
}

// inlineFunc renders one element in inline position.
type inlineFunc func(r *renderer, n *doxml.Node) string

// inlineFuncs is the tag-name-keyed dispatch table. Lookups that miss fall
// back to wrapUnknown, which keeps rendering total. Populated in init so the
// handlers can refer back to renderer methods.
var inlineFuncs map[string]inlineFunc

func init() {
	inlineFuncs = map[string]inlineFunc{
		doxml.TextName: func(_ *renderer, n *doxml.Node) string {
			return n.Text
		},
		"bold": func(_ *renderer, n *doxml.Node) string {
			return "**" + n.PlainText() + "**"
		},
		"emphasis": func(_ *renderer, n *doxml.Node) string {
			return "*" + n.PlainText() + "*"
		},
		"computeroutput": func(_ *renderer, n *doxml.Node) string {
			return "`" + n.PlainText() + "`"
		},
		"ref": func(_ *renderer, n *doxml.Node) string {
			label := n.PlainText()
			anchor := label
			if id, ok := n.Attr("refid"); ok {
				anchor = id
			}
			return "[" + label + "](#" + anchor + ")"
		},
		"itemizedlist": func(r *renderer, n *doxml.Node) string {
			return "\n" + r.list(n, "-") + "\n"
		},
		"orderedlist": func(r *renderer, n *doxml.Node) string {
			// The literal "1." marker on every item is intentional; the
			// downstream Markdown renderer auto-numbers the list.
			return "\n" + r.list(n, "1.") + "\n"
		},
		"table": func(r *renderer, n *doxml.Node) string {
			return "\n" + r.table(n) + "\n"
		},
		"programlisting": func(r *renderer, n *doxml.Node) string {
			return "\n" + r.code(n) + "\n"
		},
		"para": func(r *renderer, n *doxml.Node) string {
			return r.para(n)
		},
	}
}

func (r *renderer) document(root *doxml.Node) string {
	if root.Name == "doxygen" {
		var out strings.Builder
		for _, compound := range root.ChildrenNamed("compounddef") {
			out.WriteString(r.compound(compound))
			out.WriteString("\n")
		}
		return out.String()
	}

	if root.Name == "compounddef" {
		return r.compound(root)
	}

	return r.wrapUnknown(root)
}

func (r *renderer) compound(compound *doxml.Node) string {
	name := defaultCompoundName
	if c := compound.Child("compoundname"); c != nil {
		name = c.PlainText()
	}
	kind := defaultCompoundKind
	if k, ok := compound.Attr("kind"); ok {
		kind = k
	}

	var out strings.Builder
	out.WriteString(r.heading(1) + " " + name + " (" + kind + ")\n\n")

	if brief := compound.Child("briefdescription"); brief != nil {
		out.WriteString(r.description(brief))
	}
	if detail := compound.Child("detaileddescription"); detail != nil {
		out.WriteString(r.description(detail))
	}

	for _, section := range compound.ChildrenNamed("sectiondef") {
		title := defaultSectionTitle
		if k, ok := section.Attr("kind"); ok {
			title = k
		}
		out.WriteString("\n" + r.heading(2) + " " + title + "\n\n")
		for _, member := range section.Children {
			if member.Name == "memberdef" {
				out.WriteString(r.member(member, memberHeadingLevel))
			}
		}
	}

	return out.String()
}

func (r *renderer) member(member *doxml.Node, level int) string {
	name := defaultMemberName
	if c := member.Child("name"); c != nil {
		name = c.PlainText()
	}
	var definition, args string
	if c := member.Child("definition"); c != nil {
		definition = c.PlainText()
	}
	if c := member.Child("argsstring"); c != nil {
		args = c.PlainText()
	}

	signature := definition + args
	if definition == "" {
		signature = name
	}

	var out strings.Builder
	out.WriteString(r.heading(level) + " " + signature + "\n\n")

	if brief := member.Child("briefdescription"); brief != nil {
		out.WriteString(r.description(brief))
	}
	if detail := member.Child("detaileddescription"); detail != nil {
		out.WriteString(r.description(detail))
	}

	return out.String()
}

func (r *renderer) description(desc *doxml.Node) string {
	var out strings.Builder
	for _, child := range desc.Children {
		switch {
		case child.Name == "para":
			out.WriteString(r.para(child) + "\n\n")
		case child.IsText():
			if child.Text != "" {
				out.WriteString(child.Text + "\n\n")
			}
		default:
			out.WriteString(r.wrapUnknown(child) + "\n\n")
		}
	}
	return out.String()
}

func (r *renderer) para(n *doxml.Node) string {
	var out strings.Builder
	for _, child := range n.Children {
		out.WriteString(r.inline(child))
	}
	return out.String()
}

// inline is the recursive dispatcher. Call depth is proportional to document
// nesting, so it carries the depth guard for the whole render pass.
func (r *renderer) inline(n *doxml.Node) string {
	r.depth++
	defer func() { r.depth-- }()
	if r.depth > maxRenderDepth {
		r.exhausted = true
		return ""
	}

	if fn, ok := inlineFuncs[n.Name]; ok {
		return fn(r, n)
	}
	return r.wrapUnknown(n)
}

func (r *renderer) list(n *doxml.Node, bullet string) string {
	var out strings.Builder
	for _, item := range n.Children {
		if item.Name != "listitem" {
			continue
		}
		out.WriteString(bullet + " ")
		for _, child := range item.Children {
			if child.Name == "para" {
				out.WriteString(r.para(child))
			} else {
				out.WriteString(r.inline(child))
			}
		}
		out.WriteString("\n")
	}
	return out.String()
}

func (r *renderer) table(n *doxml.Node) string {
	var rows [][]string
	for _, row := range n.ChildrenNamed("row") {
		var cells []string
		for _, entry := range row.ChildrenNamed("entry") {
			var cell strings.Builder
			for _, child := range entry.Children {
				cell.WriteString(r.inline(child))
			}
			cells = append(cells, cell.String())
		}
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	if len(rows) == 0 {
		return ""
	}

	var out strings.Builder
	out.WriteString("<table class=\"" + TableClass + "\">\n")
	for i, cells := range rows {
		out.WriteString("<tr>")
		openTag, closeTag := "<td>", "</td>"
		if i == 0 {
			openTag, closeTag = "<th>", "</th>"
		}
		for _, cell := range cells {
			out.WriteString(openTag + cell + closeTag)
		}
		out.WriteString("</tr>\n")
	}
	out.WriteString("</table>\n")
	return out.String()
}

func (r *renderer) code(n *doxml.Node) string {
	var out strings.Builder
	out.WriteString("```" + listingLanguage + "\n")
	for _, line := range n.ChildrenNamed("codeline") {
		for _, child := range line.Children {
			out.WriteString(r.inline(child))
		}
		out.WriteString("\n")
	}
	out.WriteString("```\n")
	return out.String()
}

// wrapUnknown is the fallback for every tag without a dedicated handler: a
// block container whose class is derived from the tag name, with the children
// rendered inline inside it.
func (r *renderer) wrapUnknown(n *doxml.Node) string {
	var out strings.Builder
	out.WriteString("<div class=\"" + WrapperClass(n.Name) + "\">")
	for _, child := range n.Children {
		out.WriteString(r.inline(child))
	}
	out.WriteString("</div>")
	return out.String()
}

func (r *renderer) heading(level int) string {
	effective := level + r.opts.HeadingOffset
	if effective < minHeadingLevel {
		effective = minHeadingLevel
	}
	if effective > maxHeadingLevel {
		effective = maxHeadingLevel
	}
	return strings.Repeat("#", effective)
}
