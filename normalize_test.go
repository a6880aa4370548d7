package weave

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func normalizePage(t *testing.T, page string) string {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		t.Fatalf("Failed to parse page: %v", err)
	}
	Normalize(doc)
	out, err := renderChildren(findElement(doc, "body"))
	if err != nil {
		t.Fatalf("Failed to render: %v", err)
	}
	return out
}

func TestNormalize_RemovesComments(t *testing.T) {
	out := normalizePage(t, `<div><!-- gone --><p>keep</p></div>`)
	if out != `<div><p>keep</p></div>` {
		t.Errorf("Normalized = %q", out)
	}
}

func TestNormalize_CollapsesWhitespaceRuns(t *testing.T) {
	out := normalizePage(t, "<p>a    b\n\tc</p>")
	if out != `<p>a b c</p>` {
		t.Errorf("Normalized = %q", out)
	}
}

func TestNormalize_RemovesWhitespaceOnlyText(t *testing.T) {
	out := normalizePage(t, "<div>\n  <p>x</p>\n  <p>y</p>\n</div>")
	if out != `<div><p>x</p><p>y</p></div>` {
		t.Errorf("Normalized = %q", out)
	}
}

func TestNormalize_KeepsBoundarySpaceBetweenInlineNodes(t *testing.T) {
	// The spaces around "and" border sibling elements; collapsing them away
	// would glue the words together.
	out := normalizePage(t, `<p><b>bold</b>   and   <i>italic</i></p>`)
	if out != `<p><b>bold</b> and <i>italic</i></p>` {
		t.Errorf("Normalized = %q", out)
	}
}

func TestNormalize_TrimsEdgeText(t *testing.T) {
	out := normalizePage(t, "<p>   lead and trail   </p>")
	if out != `<p>lead and trail</p>` {
		t.Errorf("Normalized = %q", out)
	}
}

func TestNormalize_LeavesRawTextAlone(t *testing.T) {
	src := "<pre>  indented\n    code</pre>"
	out := normalizePage(t, src)
	if out != src {
		t.Errorf("Normalized = %q, want %q unchanged", out, src)
	}
}
