// Package document models the tree-shaped files xmlmerge merges: an XML
// document whose root holds flat, named, leaf-valued entries.
package document

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"golang.org/x/net/html/charset"
)

// NameAttr is the attribute that identifies an entry.
const NameAttr = "name"

var (
	ErrMalformed = errors.New("malformed document")
	ErrNotFound  = errors.New("entry not found")
)

// Node is the read-only view of a tree node the merge logic works against.
type Node interface {
	Children() []Node
	Attribute(name string) (string, bool)
	Text() string
}

// Entry is a named child of the document root.
type Entry struct {
	Name  string
	Path  string
	Value string
}

type Document struct {
	doc *etree.Document
}

type element struct {
	el *etree.Element
}

func (e element) Children() []Node {
	children := e.el.ChildElements()
	nodes := make([]Node, 0, len(children))
	for _, child := range children {
		nodes = append(nodes, element{el: child})
	}
	return nodes
}

func (e element) Attribute(name string) (string, bool) {
	attr := e.el.SelectAttr(name)
	if attr == nil {
		return "", false
	}
	return attr.Value, true
}

// Text renders the content of the node. Leaf nodes yield their character
// data; nested markup is rendered canonically so structural differences
// are never hidden.
func (e element) Text() string {
	var b strings.Builder
	writeContent(&b, e.el)
	return b.String()
}

// Parse reads data as a document with exactly one root element.
func Parse(data []byte) (*Document, error) {
	entities, err := wellFormed(data)
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}

	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	doc.ReadSettings.Entity = entities
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}

	roots := 0
	for _, token := range doc.Child {
		switch t := token.(type) {
		case *etree.Element:
			roots++
		case *etree.CharData:
			if !t.IsWhitespace() {
				return nil, errors.Wrap(ErrMalformed, "text outside of the root element")
			}
		}
	}
	if roots != 1 {
		return nil, errors.Wrapf(ErrMalformed, "expected one root element, found %d", roots)
	}

	return &Document{doc: doc}, nil
}

func (d *Document) Root() Node {
	return element{el: d.doc.Root()}
}

// Entries returns the named children of the root in document order.
func (d *Document) Entries() []Entry {
	var entries []Entry
	for i, child := range d.Root().Children() {
		name, ok := child.Attribute(NameAttr)
		if !ok {
			continue
		}
		entries = append(entries, Entry{
			Name:  name,
			Path:  locator(i),
			Value: child.Text(),
		})
	}
	return entries
}

// Clone returns a deep copy that can be extended without touching d.
func (d *Document) Clone() *Document {
	return &Document{doc: d.doc.Copy()}
}

// AppendFrom copies the entry e, located in src by its path, to the end of
// d's root.
func (d *Document) AppendFrom(src *Document, e Entry) error {
	found := src.doc.FindElement(e.Path)
	if found == nil {
		return errors.Wrapf(ErrNotFound, "%s at %s", e.Name, e.Path)
	}
	if name := found.SelectAttrValue(NameAttr, ""); name != e.Name {
		return errors.Wrapf(ErrNotFound, "%s at %s resolved to %q", e.Name, e.Path, name)
	}

	root := d.doc.Root()
	indent, tail := layout(root)

	at := len(root.Child)
	if tail != nil {
		at = tail.Index()
	}
	copied := found.Copy()
	root.InsertChildAt(at, etree.NewText(indent))
	root.InsertChildAt(at+1, copied)
	declarePrefixes(root, src.doc.Root(), copied)

	if tail == nil {
		root.AddChild(etree.NewText("\n"))
	}
	return nil
}

func (d *Document) Bytes() ([]byte, error) {
	out, err := d.doc.WriteToBytes()
	if err != nil {
		return nil, errors.Wrap(err, "serializing document")
	}
	return out, nil
}

// entityDecl matches a general entity with a literal value in an internal
// DTD subset. Parameter and external entities are not expanded.
var entityDecl = regexp.MustCompile(`<!ENTITY\s+([^\s%"'<>]+)\s+(?:"([^"]*)"|'([^']*)')\s*>`)

// wellFormed checks tag balance, which etree's raw token reader does not,
// and returns the entities declared in the document type.
func wellFormed(data []byte) (map[string]string, error) {
	entities := map[string]string{}
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel
	dec.Entity = entities
	for {
		token, err := dec.Token()
		if err == io.EOF {
			return entities, nil
		}
		if err != nil {
			return nil, err
		}
		if d, ok := token.(xml.Directive); ok && bytes.HasPrefix(d, []byte("DOCTYPE")) {
			for _, m := range entityDecl.FindAllSubmatch(d, -1) {
				value := m[2]
				if value == nil {
					value = m[3]
				}
				entities[string(m[1])] = string(value)
			}
		}
	}
}

// locator addresses the i-th child element of the root.
func locator(i int) string {
	return fmt.Sprintf("/*/*[%d]", i+1)
}

// layout finds the whitespace that precedes root children and the trailing
// whitespace before the closing tag, if any.
func layout(root *etree.Element) (string, *etree.CharData) {
	indent := "\n    "
	for i, token := range root.Child {
		if _, ok := token.(*etree.Element); !ok {
			continue
		}
		if i > 0 {
			if cd, ok := root.Child[i-1].(*etree.CharData); ok && cd.IsWhitespace() && cd.Data != "" {
				indent = cd.Data
			}
		}
		break
	}

	if n := len(root.Child); n > 0 {
		if cd, ok := root.Child[n-1].(*etree.CharData); ok && cd.IsWhitespace() {
			return indent, cd
		}
	}
	return indent, nil
}

// declarePrefixes copies onto root the xmlns declarations of src that el
// relies on and neither root nor el itself provides.
func declarePrefixes(root, src, el *etree.Element) {
	for _, prefix := range usedPrefixes(el) {
		key := "xmlns:" + prefix
		if root.SelectAttr(key) != nil {
			continue
		}
		if decl := src.SelectAttr(key); decl != nil {
			root.CreateAttr(key, decl.Value)
		}
	}
}

// usedPrefixes lists the namespace prefixes of el and its descendants that
// are not declared inside el.
func usedPrefixes(el *etree.Element) []string {
	var prefixes []string
	seen := map[string]bool{"xml": true, "xmlns": true}
	var walk func(e *etree.Element, declared map[string]bool)
	walk = func(e *etree.Element, declared map[string]bool) {
		scope := declared
		copied := false
		for _, attr := range e.Attr {
			if attr.Space != "xmlns" {
				continue
			}
			if !copied {
				scope, copied = lo.Assign(declared), true
			}
			scope[attr.Key] = true
		}
		use := func(prefix string) {
			if prefix == "" || seen[prefix] || scope[prefix] {
				return
			}
			seen[prefix] = true
			prefixes = append(prefixes, prefix)
		}
		use(e.Space)
		for _, attr := range e.Attr {
			if attr.Space != "xmlns" {
				use(attr.Space)
			}
		}
		for _, child := range e.ChildElements() {
			walk(child, scope)
		}
	}
	walk(el, nil)
	return prefixes
}

func writeContent(b *strings.Builder, el *etree.Element) {
	for _, token := range el.Child {
		switch t := token.(type) {
		case *etree.CharData:
			if t.IsWhitespace() && hasChildElements(el) {
				continue
			}
			b.WriteString(t.Data)
		case *etree.Element:
			b.WriteString("<")
			b.WriteString(t.FullTag())
			for _, attr := range t.Attr {
				fmt.Fprintf(b, " %s=%q", attr.FullKey(), attr.Value)
			}
			b.WriteString(">")
			writeContent(b, t)
			b.WriteString("</")
			b.WriteString(t.FullTag())
			b.WriteString(">")
		}
	}
}

func hasChildElements(el *etree.Element) bool {
	for _, token := range el.Child {
		if _, ok := token.(*etree.Element); ok {
			return true
		}
	}
	return false
}
