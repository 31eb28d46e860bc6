package doxml

import (
	"strings"

	"github.com/samber/oops"
)

// CodeMalformed is the error code carried by every parse failure. Parse
// errors are always fatal to the document being parsed; no partial tree is
// ever returned.
const CodeMalformed = "MALFORMED_DOCUMENT"

// Parse consumes a raw document and returns its root node. An optional
// declaration prologue (<?...?>) and an optional doctype are skipped, comments
// are stripped wherever they occur, and the five standard named entities are
// decoded in character data and attribute values. Any syntactic failure
// returns a MALFORMED_DOCUMENT error and a nil tree.
func Parse(input []byte) (*Node, error) {
	p := &parser{data: string(input)}
	return p.parse()
}

// IsMalformed reports whether err is a parse failure produced by Parse.
func IsMalformed(err error) bool {
	if o, ok := oops.AsOops(err); ok {
		return o.Code() == CodeMalformed
	}
	return false
}

// parser scans the input in a single strictly forward-advancing pass; pos
// only ever grows.
type parser struct {
	data string
	pos  int
}

func (p *parser) parse() (*Node, error) {
	p.skipWhitespace()

	if p.startsWith("<?") {
		if _, err := p.until("?>"); err != nil {
			return nil, err
		}
		p.pos += 2
		p.skipWhitespace()
	}

	if p.startsWith("<!DOCTYPE") {
		if _, err := p.until(">"); err != nil {
			return nil, err
		}
		p.pos++
		p.skipWhitespace()
	}

	return p.parseNode()
}

func (p *parser) parseNode() (*Node, error) {
	if !p.startsWith("<") {
		return nil, p.malformed("expected '<'")
	}
	p.pos++

	if p.startsWith("!--") {
		p.pos += 3
		if _, err := p.until("-->"); err != nil {
			return nil, err
		}
		p.pos += 3
		p.skipWhitespace()
		return p.parseNode()
	}

	if p.startsWith("![CDATA[") {
		p.pos += 8
		text, err := p.until("]]>")
		if err != nil {
			return nil, err
		}
		p.pos += 3
		return &Node{Name: TextName, Text: text}, nil
	}

	name := p.parseName()
	node := &Node{Name: name}

	p.skipWhitespace()
	for !p.eof() && !p.startsWith(">") && !p.startsWith("/>") {
		attr, err := p.parseAttr()
		if err != nil {
			return nil, err
		}
		node.Attrs = append(node.Attrs, attr)
		p.skipWhitespace()
	}

	if p.startsWith("/>") {
		p.pos += 2
		return node, nil
	}

	if p.get() != '>' {
		return nil, p.malformed("expected '>' to close tag %q", name)
	}

	return p.parseContent(node)
}

// parseContent consumes the children of node up to its closing tag. Adjacent
// character data is coalesced into a single text child; a CDATA section or a
// comment boundary flushes any pending text first, so CDATA content is never
// merged into a surrounding text node.
func (p *parser) parseContent(node *Node) (*Node, error) {
	var pending strings.Builder
	flush := func() {
		if pending.Len() > 0 {
			node.Children = append(node.Children, &Node{
				Name: TextName,
				Text: decodeEntities(pending.String()),
			})
			pending.Reset()
		}
	}

	for !p.eof() {
		switch {
		case p.startsWith("</"):
			p.pos += 2
			endName := p.parseName()
			if endName != node.Name {
				return nil, p.malformed("mismatched closing tag %q for %q", endName, node.Name)
			}
			p.skipWhitespace()
			if p.get() != '>' {
				return nil, p.malformed("expected '>' after closing tag %q", endName)
			}
			flush()
			return node, nil

		case p.startsWith("<![CDATA["):
			flush()
			p.pos += 9
			cdata, err := p.until("]]>")
			if err != nil {
				return nil, err
			}
			p.pos += 3
			node.Children = append(node.Children, &Node{Name: TextName, Text: cdata})

		case p.startsWith("<!--"):
			flush()
			p.pos += 4
			if _, err := p.until("-->"); err != nil {
				return nil, err
			}
			p.pos += 3

		case p.startsWith("<"):
			flush()
			child, err := p.parseNode()
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)

		default:
			pending.WriteByte(p.get())
		}
	}

	flush()
	return node, nil
}

func (p *parser) parseAttr() (Attr, error) {
	name := p.parseName()
	p.skipWhitespace()

	if p.get() != '=' {
		return Attr{}, p.malformed("expected '=' after attribute name %q", name)
	}
	p.skipWhitespace()

	quote := p.get()
	if quote != '"' && quote != '\'' {
		return Attr{}, p.malformed("expected quote to open value of attribute %q", name)
	}

	start := p.pos
	for !p.eof() && p.data[p.pos] != quote {
		p.pos++
	}
	value := p.data[start:p.pos]
	if p.get() != quote {
		return Attr{}, p.malformed("unterminated value of attribute %q", name)
	}

	return Attr{Name: name, Value: decodeEntities(value)}, nil
}

// parseName consumes a tag or attribute name: letters, digits, '_', '-', ':'.
func (p *parser) parseName() string {
	start := p.pos
	for !p.eof() {
		c := p.data[p.pos]
		if isNameChar(c) {
			p.pos++
			continue
		}
		break
	}
	return p.data[start:p.pos]
}

// until returns the text up to the next occurrence of marker, leaving pos at
// the marker. Running out of input here is the unexpected-end-of-input
// failure condition.
func (p *parser) until(marker string) (string, error) {
	idx := strings.Index(p.data[p.pos:], marker)
	if idx < 0 {
		return "", p.malformed("unexpected end of input while scanning for %q", marker)
	}
	out := p.data[p.pos : p.pos+idx]
	p.pos += idx
	return out, nil
}

func (p *parser) skipWhitespace() {
	for !p.eof() && isSpace(p.data[p.pos]) {
		p.pos++
	}
}

func (p *parser) startsWith(s string) bool {
	return strings.HasPrefix(p.data[p.pos:], s)
}

func (p *parser) eof() bool {
	return p.pos >= len(p.data)
}

// get returns the next byte and advances, or 0 at end of input.
func (p *parser) get() byte {
	if p.eof() {
		return 0
	}
	c := p.data[p.pos]
	p.pos++
	return c
}

func (p *parser) malformed(format string, args ...any) error {
	return oops.
		Code(CodeMalformed).
		With("offset", p.pos).
		Errorf(format, args...)
}

// decodeEntities decodes the five standard named entities. Any other "&...;"
// sequence passes through literally; this is deliberately best-effort rather
// than spec-correct entity handling.
func decodeEntities(text string) string {
	if !strings.ContainsRune(text, '&') {
		return text
	}

	var out strings.Builder
	out.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if text[i] != '&' {
			out.WriteByte(text[i])
			continue
		}
		rest := text[i:]
		switch {
		case strings.HasPrefix(rest, "&lt;"):
			out.WriteByte('<')
			i += 3
		case strings.HasPrefix(rest, "&gt;"):
			out.WriteByte('>')
			i += 3
		case strings.HasPrefix(rest, "&amp;"):
			out.WriteByte('&')
			i += 4
		case strings.HasPrefix(rest, "&quot;"):
			out.WriteByte('"')
			i += 5
		case strings.HasPrefix(rest, "&apos;"):
			out.WriteByte('\'')
			i += 5
		default:
			out.WriteByte('&')
		}
	}
	return out.String()
}

func isNameChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' || c == '_' || c == '-' || c == ':'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
