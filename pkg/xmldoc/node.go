package xmldoc

import "strings"

type NodeType int

const (
	DocumentNode NodeType = iota
	ElementNode
	TextNode
	CommentNode
)

type Attr struct {
	Name  string
	Value string
}

// Node is a single node of a loaded XML document. Element names carry no
// namespace prefix - the profile XPaths are written against the default
// namespace only.
type Node struct {
	Type NodeType

	// Name is the local element name, Data the character data for text and
	// comment nodes.
	Name string
	Data string

	Attrs []Attr

	Parent      *Node
	FirstChild  *Node
	LastChild   *Node
	PrevSibling *Node
	NextSibling *Node

	// Line is the 1-based line number of the node in the source document.
	Line int
}

func (n *Node) appendChild(child *Node) {
	child.Parent = n

	if n.FirstChild == nil {
		n.FirstChild = child
	} else {
		child.PrevSibling = n.LastChild
		n.LastChild.NextSibling = child
	}

	n.LastChild = child
}

// InnerText returns the concatenated character data of the node and all of
// its descendants, in document order.
func (n *Node) InnerText() string {
	var builder strings.Builder
	n.writeText(&builder)

	return builder.String()
}

func (n *Node) writeText(builder *strings.Builder) {
	if n.Type == TextNode {
		builder.WriteString(n.Data)
		return
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == CommentNode {
			continue
		}

		child.writeText(builder)
	}
}

// Attr returns the named attribute value or the fallback when absent.
func (n *Node) Attr(name string, fallback string) string {
	for _, attr := range n.Attrs {
		if attr.Name == name {
			return attr.Value
		}
	}

	return fallback
}

// Children returns the element children of the node.
func (n *Node) Children() []*Node {
	var children []*Node

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == ElementNode {
			children = append(children, child)
		}
	}

	return children
}

// Document is a loaded XML document plus the filename it came from.
type Document struct {
	Filename string

	// Root is the document node, Element the top level element.
	Root    *Node
	Element *Node
}
