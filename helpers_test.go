package weave

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

// mustLibrary builds a library directly from component sources keyed by tag
// name, bypassing the filesystem loader.
func mustLibrary(t *testing.T, defs map[string]string) *Library {
	t.Helper()
	lib := &Library{components: make(map[string]*ComponentDefinition)}
	for tag, src := range defs {
		def, err := parseComponent(tag, src)
		if err != nil {
			t.Fatalf("Failed to parse component %q: %v", tag, err)
		}
		lib.components[tag] = def
	}
	return lib
}

func emptyLibrary() *Library {
	return &Library{components: make(map[string]*ComponentDefinition)}
}

// expandPage parses a page, expands it to a fixed point and returns the
// serialized body content plus the collected warnings.
func expandPage(t *testing.T, lib *Library, page string) (string, *CollectingReporter) {
	t.Helper()
	out, rep, err := tryExpandPage(lib, page)
	if err != nil {
		t.Fatalf("Failed to expand page: %v", err)
	}
	return out, rep
}

// tryExpandPage is expandPage without the fatal error handling, for tests
// that assert on expansion errors.
func tryExpandPage(lib *Library, page string) (string, *CollectingReporter, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", nil, err
	}
	rep := &CollectingReporter{}
	eng := NewEngine(lib)
	ec := &ExpansionContext{FilePath: "/index.html", Reporter: rep}
	if err := eng.ExpandDocument(doc, ec); err != nil {
		return "", rep, err
	}
	body := findElement(doc, "body")
	out, err := renderChildren(body)
	if err != nil {
		return "", rep, err
	}
	return out, rep, nil
}

// invocation builds a bare element node carrying the given attributes, in
// the order listed.
func invocation(attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: "foo"}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func hasWarning(rep *CollectingReporter, kind WarningKind) bool {
	for _, w := range rep.Warnings {
		if w.Kind == kind {
			return true
		}
	}
	return false
}
