package weave

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// rawTextTags hold content whose whitespace is significant and must not be
// collapsed.
var rawTextTags = map[string]bool{
	"pre":      true,
	"script":   true,
	"style":    true,
	"textarea": true,
}

// Normalize removes comment nodes and collapses whitespace in text nodes
// across the subtree. Leading and trailing whitespace of a text node is
// trimmed unless the text borders a sibling node, in which case exactly one
// boundary space is kept so adjacent words are not glued together. A text
// node that is entirely whitespace is removed. Runs once, after expansion
// is fully done; it is order-insensitive with respect to substitution.
func Normalize(n *html.Node) {
	if n.Type == html.ElementNode && rawTextTags[n.Data] {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch c.Type {
		case html.CommentNode:
			n.RemoveChild(c)
		case html.TextNode:
			normalizeText(c)
		default:
			Normalize(c)
		}
		c = next
	}
}

func normalizeText(t *html.Node) {
	collapsed := whitespaceRun.ReplaceAllString(t.Data, " ")
	trimmed := strings.TrimSpace(collapsed)
	if trimmed == "" {
		t.Parent.RemoveChild(t)
		return
	}
	if strings.HasPrefix(collapsed, " ") && t.PrevSibling != nil {
		trimmed = " " + trimmed
	}
	if strings.HasSuffix(collapsed, " ") && t.NextSibling != nil {
		trimmed += " "
	}
	t.Data = trimmed
}
