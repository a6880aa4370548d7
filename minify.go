package weave

import (
	"sync"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
)

var (
	minifier *minify.M
	once     sync.Once
)

// getMinifier returns a configured HTML minifier (singleton)
func getMinifier() *minify.M {
	once.Do(func() {
		minifier = minify.New()
		minifier.AddFunc("text/html", html.Minify)
	})
	return minifier
}

// minifyHTML compacts serialized HTML output. The tree-level Normalize pass
// already handled comments and whitespace; this pass shortens the byte-level
// representation (quotes, optional end tags). If minification fails, the
// input is returned unchanged rather than failing the build.
func minifyHTML(htmlContent string) string {
	minified, err := getMinifier().String("text/html", htmlContent)
	if err != nil {
		return htmlContent
	}
	return minified
}
