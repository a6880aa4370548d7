package weave

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// ComponentDefinition is one named component: a tag name and a parsed body.
// The body is a synthetic wrapper element whose children are the top-level
// nodes of the component file, which lets a component expand to several
// conceptual roots.
type ComponentDefinition struct {
	Tag  string
	body *html.Node
}

// instantiate returns a fresh deep clone of the body wrapper. The stored
// body is never handed out directly.
func (d *ComponentDefinition) instantiate() *html.Node {
	return cloneNode(d.body)
}

// Library maps tag names to component definitions. It is built once per run
// and read-only afterwards.
type Library struct {
	components map[string]*ComponentDefinition
}

// LoadLibrary scans one directory (non-recursive) for .html files and
// parses each into a component definition keyed by the lowercased file
// stem. Two files normalizing to the same tag name fail the load.
func LoadLibrary(folder string) (*Library, error) {
	info, err := os.Stat(folder)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, ErrPathKind{Path: folder, Want: "directory"}
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, err
	}

	lib := &Library{components: make(map[string]*ComponentDefinition)}
	paths := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}
		path := filepath.Join(folder, entry.Name())
		// The HTML parser lowercases element names, so tag names normalize
		// the same way.
		tag := strings.ToLower(strings.TrimSuffix(entry.Name(), ".html"))
		if prev, exists := paths[tag]; exists {
			return nil, ErrDuplicateComponent{Tag: tag, Path: path, Existing: prev}
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		def, err := parseComponent(tag, string(data))
		if err != nil {
			var empty ErrEmptyComponent
			if errors.As(err, &empty) {
				return nil, ErrEmptyComponent{Path: path}
			}
			return nil, ErrComponentParse{Path: path, Err: err}
		}
		lib.components[tag] = def
		paths[tag] = path
	}
	return lib, nil
}

// Get returns the definition for a tag name, if any. This is the only read
// operation the substitution engine uses.
func (l *Library) Get(tag string) (*ComponentDefinition, bool) {
	def, ok := l.components[tag]
	return def, ok
}

// Len returns the number of loaded components.
func (l *Library) Len() int {
	return len(l.components)
}

// parseComponent parses a component source as a body-context fragment and
// hangs its nodes under the implicit wrapper element. A file with no
// element node at all has no expandable structure and is rejected.
func parseComponent(tag, src string) (*ComponentDefinition, error) {
	nodes, err := parseFragment(src)
	if err != nil {
		return nil, err
	}

	wrapper := &html.Node{Type: html.ElementNode, Data: "component"}
	hasElement := false
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			hasElement = true
		}
		wrapper.AppendChild(n)
	}
	if !hasElement {
		return nil, ErrEmptyComponent{Path: tag + ".html"}
	}
	return &ComponentDefinition{Tag: tag, body: wrapper}, nil
}
