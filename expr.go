package weave

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// ExpansionContext carries the per-file state of one document generation:
// the site-relative path exposed as self.filepath and the reporter that
// collects advisory diagnostics.
type ExpansionContext struct {
	// FilePath is the logical path of the document being generated,
	// relative to the site root, with a leading "/".
	FilePath string
	Reporter Reporter
}

func (ec *ExpansionContext) warn(kind WarningKind, subject, detail string) {
	if ec.Reporter == nil {
		return
	}
	ec.Reporter.Warn(Warning{Kind: kind, Subject: subject, Detail: detail, File: ec.FilePath})
}

const selfPrefix = "self."

var (
	// placeholderPattern matches one ${...} occurrence in a string.
	placeholderPattern = regexp.MustCompile(`\$\{([^{}]*)\}`)
	// defaultExprPattern matches the two-operand default form a||b. Both
	// operands are restricted to a narrow charset so that regex and markup
	// metacharacters never sneak into an expression.
	defaultExprPattern = regexp.MustCompile(`^([A-Za-z0-9_.-]+)\|\|([A-Za-z0-9_.-]+)$`)
)

// evaluate resolves a single expression against the invocation context.
// In precedence order: self.filepath, the a||b default form, then
// self.<attr> lookup. Anything else yields the empty string with a warning;
// evaluation never aborts the run.
func evaluate(expr string, inv *html.Node, ec *ExpansionContext) string {
	if expr == "self.filepath" {
		return ec.FilePath
	}
	if m := defaultExprPattern.FindStringSubmatch(expr); m != nil {
		if v := evaluate(m[1], inv, ec); v != "" {
			return v
		}
		return evaluate(m[2], inv, ec)
	}
	if name, ok := strings.CutPrefix(expr, selfPrefix); ok && name != "" {
		if v, ok := getAttr(inv, name); ok {
			return v
		}
		ec.warn(WarnMissingAttribute, expr, availableAttrs(inv))
		return ""
	}
	ec.warn(WarnUnresolvedExpression, expr, "")
	return ""
}

// expandString rewrites every ${expr} occurrence in s. Expansion is a
// single pass: expanded values are not re-scanned, so attribute values can
// never trigger further expansion.
func expandString(s string, inv *html.Node, ec *ExpansionContext) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return placeholderPattern.ReplaceAllStringFunc(s, func(m string) string {
		return evaluate(m[2:len(m)-1], inv, ec)
	})
}

// matchesPattern evaluates expr, expands pattern, and tests an anchored
// full-string regex match. An invalid pattern is a configuration error and
// is surfaced immediately.
func matchesPattern(expr, pattern string, inv *html.Node, ec *ExpansionContext) (bool, error) {
	val := evaluate(expr, inv, ec)
	pat := expandString(pattern, inv, ec)
	re, err := regexp.Compile(`^(?:` + pat + `)$`)
	if err != nil {
		return false, ErrInvalidPattern{Pattern: pat, Err: err}
	}
	return re.MatchString(val), nil
}

// availableAttrs describes the attributes present on the invocation, to
// make missing-attribute warnings actionable.
func availableAttrs(inv *html.Node) string {
	names := attrNames(inv)
	if len(names) == 0 {
		return "no attributes available"
	}
	return "available attributes: " + strings.Join(names, ", ")
}
