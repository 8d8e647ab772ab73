package ofx

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/SscSPs/statement_import/internal/apperrors"
)

// Node is one element of the parsed markup. Names are upper-cased so lookups do not depend on
// how the issuer spelled them.
type Node struct {
	Name     string
	Text     string
	Children []*Node
}

// ParseTree decodes well-formed markup into a Node tree rooted at the first element.
func ParseTree(markup string) (*Node, error) {
	dec := xml.NewDecoder(strings.NewReader(markup))
	dec.Strict = true
	dec.Entity = xml.HTMLEntity

	var (
		root  *Node
		stack []*Node
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedDocument, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: strings.ToUpper(t.Name.Local)}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("%w: more than one root element", apperrors.ErrMalformedDocument)
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("%w: no root element", apperrors.ErrMalformedDocument)
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("%w: unclosed element %s", apperrors.ErrMalformedDocument, stack[len(stack)-1].Name)
	}
	return root, nil
}

// Child returns the first direct child called name.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	name = strings.ToUpper(name)
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns every direct child called name, in document order.
func (n *Node) ChildrenNamed(name string) []*Node {
	if n == nil {
		return nil
	}
	name = strings.ToUpper(name)
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Path follows a slash separated chain of first children, e.g. "SONRS/FI/ORG".
func (n *Node) Path(path string) *Node {
	cur := n
	for _, part := range strings.Split(path, "/") {
		cur = cur.Child(part)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Value returns the trimmed text at path, or "" when any step is missing.
func (n *Node) Value(path string) string {
	if v := n.Path(path); v != nil {
		return strings.TrimSpace(v.Text)
	}
	return ""
}
