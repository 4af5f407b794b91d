package xmldoc

import (
	"strconv"
	"strings"
	"time"
)

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// GetText returns the trimmed inner text of the first node matching the
// path, or the empty string.
func GetText(contextNode *Node, path string) string {
	node, err := Find(contextNode, path)
	if err != nil || node == nil {
		return ""
	}

	return strings.TrimSpace(node.InnerText())
}

func GetInt(contextNode *Node, path string) (int, bool) {
	text := GetText(contextNode, path)
	if text == "" {
		return 0, false
	}

	value, err := strconv.Atoi(text)
	if err != nil {
		return 0, false
	}

	return value, true
}

func GetBool(contextNode *Node, path string, fallback bool) bool {
	text := GetText(contextNode, path)
	if text == "" {
		return fallback
	}

	value, err := strconv.ParseBool(text)
	if err != nil {
		return fallback
	}

	return value
}

func GetDateTime(contextNode *Node, path string) (time.Time, bool) {
	return ParseDateTime(GetText(contextNode, path))
}

// ParseDateTime parses the timestamp formats TransXChange documents use.
func ParseDateTime(text string) (time.Time, bool) {
	if text == "" {
		return time.Time{}, false
	}

	for _, layout := range dateTimeLayouts {
		if value, err := time.Parse(layout, text); err == nil {
			return value, true
		}
	}

	return time.Time{}, false
}

// SourceLine returns the line the node appeared on in the original XML.
func SourceLine(node *Node) int {
	if node == nil {
		return 0
	}

	return node.Line
}
