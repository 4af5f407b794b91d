package xmldoc

import "github.com/antchfx/xpath"

// Navigator adapts a Node tree to the antchfx xpath NodeNavigator
// interface so compiled XPath expressions can run over it.
type Navigator struct {
	root      *Node
	current   *Node
	attrIndex int
}

func NewNavigator(node *Node) *Navigator {
	// Absolute paths always evaluate from the true document root, whatever
	// the context node.
	root := node
	for root.Parent != nil {
		root = root.Parent
	}

	return &Navigator{root: root, current: node, attrIndex: -1}
}

// Node returns the node the navigator currently points at.
func (nav *Navigator) Node() *Node {
	return nav.current
}

func (nav *Navigator) NodeType() xpath.NodeType {
	if nav.attrIndex >= 0 {
		return xpath.AttributeNode
	}

	switch nav.current.Type {
	case DocumentNode:
		return xpath.RootNode
	case TextNode:
		return xpath.TextNode
	case CommentNode:
		return xpath.CommentNode
	default:
		return xpath.ElementNode
	}
}

func (nav *Navigator) LocalName() string {
	if nav.attrIndex >= 0 {
		return nav.current.Attrs[nav.attrIndex].Name
	}

	return nav.current.Name
}

func (nav *Navigator) Prefix() string {
	return ""
}

func (nav *Navigator) Value() string {
	if nav.attrIndex >= 0 {
		return nav.current.Attrs[nav.attrIndex].Value
	}

	switch nav.current.Type {
	case TextNode, CommentNode:
		return nav.current.Data
	default:
		return nav.current.InnerText()
	}
}

func (nav *Navigator) Copy() xpath.NodeNavigator {
	copied := *nav
	return &copied
}

func (nav *Navigator) MoveToRoot() {
	nav.current = nav.root
	nav.attrIndex = -1
}

func (nav *Navigator) MoveToParent() bool {
	if nav.attrIndex >= 0 {
		nav.attrIndex = -1
		return true
	}

	if nav.current.Parent == nil {
		return false
	}

	nav.current = nav.current.Parent

	return true
}

func (nav *Navigator) MoveToNextAttribute() bool {
	if nav.attrIndex >= len(nav.current.Attrs)-1 {
		return false
	}

	nav.attrIndex += 1

	return true
}

func (nav *Navigator) MoveToChild() bool {
	if nav.attrIndex >= 0 || nav.current.FirstChild == nil {
		return false
	}

	nav.current = nav.current.FirstChild

	return true
}

func (nav *Navigator) MoveToFirst() bool {
	if nav.attrIndex >= 0 {
		return false
	}

	for nav.current.PrevSibling != nil {
		nav.current = nav.current.PrevSibling
	}

	return true
}

func (nav *Navigator) MoveToNext() bool {
	if nav.attrIndex >= 0 || nav.current.NextSibling == nil {
		return false
	}

	nav.current = nav.current.NextSibling

	return true
}

func (nav *Navigator) MoveToPrevious() bool {
	if nav.attrIndex >= 0 || nav.current.PrevSibling == nil {
		return false
	}

	nav.current = nav.current.PrevSibling

	return true
}

func (nav *Navigator) MoveTo(other xpath.NodeNavigator) bool {
	otherNav, ok := other.(*Navigator)
	if !ok || otherNav.root != nav.root {
		return false
	}

	nav.current = otherNav.current
	nav.attrIndex = otherNav.attrIndex

	return true
}
