package memdom

import (
	"io"
	"sort"
	"strings"

	"github.com/lumen-ui/lumen/pkg/dom"
)

// voidElements are HTML elements that never carry children and close
// themselves.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// HTML serializes a node and its subtree to an HTML string.
// Attributes are emitted in sorted order so output is deterministic.
func (d *Document) HTML(n dom.Node) string {
	var b strings.Builder
	d.writeHTML(&b, asNode(n))
	return b.String()
}

// WriteHTML streams the serialized subtree to w.
func (d *Document) WriteHTML(w io.Writer, n dom.Node) error {
	var b strings.Builder
	d.writeHTML(&b, asNode(n))
	_, err := io.WriteString(w, b.String())
	return err
}

func (d *Document) writeHTML(b *strings.Builder, n *Node) {
	if n == nil {
		return
	}
	if n.text {
		b.WriteString(escapeHTML(n.textData))
		return
	}

	b.WriteByte('<')
	b.WriteString(n.tag)

	keys := make([]string, 0, len(n.attrs)+1)
	for k := range n.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteString(`="`)
		b.WriteString(escapeAttr(n.attrs[k]))
		b.WriteByte('"')
	}
	if len(n.handlers) > 0 {
		// Addressable from outside the process, see Document.NodeByID.
		b.WriteString(` data-node="`)
		b.WriteString(n.id)
		b.WriteByte('"')
	}

	if voidElements[n.tag] {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
	for _, c := range n.children {
		d.writeHTML(b, c)
	}
	b.WriteString("</")
	b.WriteString(n.tag)
	b.WriteByte('>')
}

// escapeHTML escapes text for safe inclusion in HTML content.
func escapeHTML(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

// escapeAttr escapes text for attribute values. Beyond the content
// entities it also escapes whitespace that could break attribute parsing.
func escapeAttr(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		case '\n':
			buf.WriteString("&#10;")
		case '\r':
			buf.WriteString("&#13;")
		case '\t':
			buf.WriteString("&#9;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
