package doxml

import "strings"

// TextName is the reserved element name carried by text nodes.
const TextName = "#text"

// Attr is a single attribute. Attribute order is preserved and duplicate
// names are permitted; lookups return the first match.
type Attr struct {
	Name  string
	Value string
}

// Node is one node of a parsed document tree. A text node has Name == TextName
// and carries decoded character data in Text; an element node carries a tag
// name, attributes, and children in document order. Trees are built once by
// Parse and never mutated afterwards.
type Node struct {
	Name     string
	Text     string
	Attrs    []Attr
	Children []*Node
}

// IsText reports whether the node is a text node.
func (n *Node) IsText() bool {
	return n.Name == TextName
}

// Attr returns the value of the first attribute with the given name.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Child returns the first child element with the given name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns all direct children with the given name in
// document order.
func (n *Node) ChildrenNamed(name string) []*Node {
	var result []*Node
	for _, c := range n.Children {
		if c.Name == name {
			result = append(result, c)
		}
	}
	return result
}

// PlainText concatenates the text of the node and all of its descendants in
// document order, with no markup of any kind.
func (n *Node) PlainText() string {
	if n.IsText() {
		return n.Text
	}

	var buf strings.Builder
	n.appendText(&buf)
	return buf.String()
}

func (n *Node) appendText(buf *strings.Builder) {
	if n.IsText() {
		buf.WriteString(n.Text)
		return
	}
	for _, c := range n.Children {
		c.appendText(buf)
	}
}
