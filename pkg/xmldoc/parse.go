package xmldoc

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"

	"golang.org/x/net/html/charset"
)

// ErrMalformed marks documents that cannot be loaded at all.
var ErrMalformed = errors.New("malformed xml document")

// Parse loads an XML document into a namespace stripped node tree with
// source line tracking.
func Parse(data []byte, filename string) (*Document, error) {
	root := &Node{Type: DocumentNode, Line: 1}

	lines := newLineIndex(data)

	d := xml.NewDecoder(bytes.NewReader(data))
	d.CharsetReader = charset.NewReaderLabel

	current := root

	for {
		offset := d.InputOffset()

		tok, err := d.Token()
		if tok == nil || err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMalformed, err)
		}

		switch ty := tok.(type) {
		case xml.StartElement:
			node := &Node{
				Type: ElementNode,
				Name: ty.Name.Local,
				Line: lines.lineAt(offset),
			}

			for _, attr := range ty.Attr {
				// xmlns declarations disappear along with the prefixes
				if attr.Name.Space == "xmlns" || attr.Name.Local == "xmlns" {
					continue
				}

				node.Attrs = append(node.Attrs, Attr{Name: attr.Name.Local, Value: attr.Value})
			}

			current.appendChild(node)
			current = node
		case xml.EndElement:
			if current.Parent == nil {
				return nil, fmt.Errorf("%w: unbalanced end element %s", ErrMalformed, ty.Name.Local)
			}

			current = current.Parent
		case xml.CharData:
			if len(bytes.TrimSpace(ty)) == 0 {
				continue
			}

			current.appendChild(&Node{
				Type: TextNode,
				Data: string(ty),
				Line: lines.lineAt(offset),
			})
		case xml.Comment:
			current.appendChild(&Node{
				Type: CommentNode,
				Data: string(ty),
				Line: lines.lineAt(offset),
			})
		}
	}

	if current != root {
		return nil, fmt.Errorf("%w: unexpected end of document inside %s", ErrMalformed, current.Name)
	}

	document := &Document{
		Filename: filename,
		Root:     root,
	}

	for child := root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == ElementNode {
			document.Element = child
			break
		}
	}

	if document.Element == nil {
		return nil, fmt.Errorf("%w: document has no root element", ErrMalformed)
	}

	return document, nil
}

// lineIndex maps decoder byte offsets back to source lines.
type lineIndex struct {
	newlines []int64
}

func newLineIndex(data []byte) *lineIndex {
	index := &lineIndex{}

	for i, b := range data {
		if b == '\n' {
			index.newlines = append(index.newlines, int64(i))
		}
	}

	return index
}

func (l *lineIndex) lineAt(offset int64) int {
	return 1 + sort.Search(len(l.newlines), func(i int) bool {
		return l.newlines[i] >= offset
	})
}
