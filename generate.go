package weave

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// Generator drives the generation of a whole site: it walks the source
// tree depth-first, expands template files through the substitution engine
// and copies everything else byte-for-byte, mirroring the directory
// structure into the destination.
type Generator struct {
	Library  *Library
	Reporter Reporter

	// Extensions lists the file suffixes treated as templates to expand.
	Extensions []string
	// Minify compacts the serialized output of each template.
	Minify bool
	// MaxPasses bounds the fixed-point loop per document; zero means the
	// default ceiling.
	MaxPasses int
}

// NewGenerator returns a generator with default options: .html templates,
// minified output.
func NewGenerator(lib *Library, r Reporter) *Generator {
	return &Generator{
		Library:    lib,
		Reporter:   r,
		Extensions: []string{".html"},
		Minify:     true,
	}
}

// Run generates the destination tree from the source tree. The destination
// is created if absent and cleared of non-hidden entries first. This
// preparation is not transactional: a mid-run failure can leave a partially
// generated tree.
func (g *Generator) Run(sourceDir, destDir string) error {
	info, err := os.Stat(sourceDir)
	if err != nil {
		return fmt.Errorf("reading source: %w", err)
	}
	if !info.IsDir() {
		return ErrPathKind{Path: sourceDir, Want: "directory"}
	}
	if err := prepareDest(destDir); err != nil {
		return err
	}
	return g.generateFolder(sourceDir, destDir, "/")
}

// prepareDest creates the destination directory and removes its non-hidden
// entries.
func prepareDest(destDir string) error {
	if info, err := os.Stat(destDir); err == nil && !info.IsDir() {
		return ErrPathKind{Path: destDir, Want: "directory"}
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}
	entries, err := os.ReadDir(destDir)
	if err != nil {
		return fmt.Errorf("reading destination: %w", err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if err := os.RemoveAll(filepath.Join(destDir, entry.Name())); err != nil {
			return fmt.Errorf("clearing destination: %w", err)
		}
	}
	return nil
}

func (g *Generator) generateFolder(src, dst, sitePrefix string) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		switch {
		case entry.IsDir():
			if err := g.generateFolder(srcPath, dstPath, sitePrefix+entry.Name()+"/"); err != nil {
				return err
			}
		case entry.Type().IsRegular():
			if g.isTemplate(entry.Name()) {
				if err := g.GenerateFile(srcPath, dstPath, sitePrefix+entry.Name()); err != nil {
					return err
				}
			} else {
				if err := copyFile(srcPath, dstPath); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// GenerateFile expands a single template: parse, expand to fixed point,
// normalize, serialize, optionally minify, write. sitePath is the logical
// site-relative path exposed to the document as self.filepath.
func (g *Generator) GenerateFile(srcPath, dstPath, sitePath string) error {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", srcPath, err)
	}
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", srcPath, err)
	}

	eng := &Engine{Library: g.Library, MaxPasses: g.MaxPasses}
	ec := &ExpansionContext{FilePath: sitePath, Reporter: g.Reporter}
	if err := eng.ExpandDocument(doc, ec); err != nil {
		return fmt.Errorf("expanding %s: %w", srcPath, err)
	}

	Normalize(doc)
	out, err := renderNode(doc)
	if err != nil {
		return fmt.Errorf("serializing %s: %w", srcPath, err)
	}
	if g.Minify {
		out = minifyHTML(out)
	}
	if err := os.WriteFile(dstPath, []byte(out), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dstPath, err)
	}
	return nil
}

func (g *Generator) isTemplate(name string) bool {
	for _, ext := range g.Extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return out.Close()
}
