package weave

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
)

const foreachPrefix = "foreachchild."

// DefaultMaxPasses bounds the fixed-point loop per document. A library
// whose components recurse without a terminating condition would otherwise
// hang the build; hitting the ceiling is reported as a fatal error instead.
const DefaultMaxPasses = 1000

// Engine is the fixed-point tree rewriter. It borrows the library and
// never mutates it; all rewriting happens on the document tree and on
// clones of component bodies.
type Engine struct {
	Library   *Library
	MaxPasses int
}

// NewEngine returns an engine over lib with the default pass ceiling.
func NewEngine(lib *Library) *Engine {
	return &Engine{Library: lib, MaxPasses: DefaultMaxPasses}
}

// ExpandDocument rewrites the whole tree under root until a full pass
// produces no change. Arbitrarily deep component nesting resolves fully;
// the number of passes is bounded by nesting depth, not document size.
func (e *Engine) ExpandDocument(root *html.Node, ec *ExpansionContext) error {
	maxPasses := e.MaxPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}
	for pass := 0; pass < maxPasses; pass++ {
		changed, err := e.substituteChildren(root, ec)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
	}
	return ErrNoFixedPoint{
		File:       ec.FilePath,
		Passes:     maxPasses,
		Unresolved: e.unresolvedTags(root),
	}
}

// substitute runs one descend-and-match step on n: children first, then n
// itself if its tag names a component. Content spliced in place of n is
// picked up by the next pass of the outer fixed-point loop.
func (e *Engine) substitute(n *html.Node, ec *ExpansionContext) (bool, error) {
	if n.Type != html.ElementNode {
		return false, nil
	}

	changed, err := e.substituteChildren(n, ec)
	if err != nil {
		return changed, err
	}

	def, ok := e.Library.Get(n.Data)
	if !ok {
		return changed, nil
	}

	// n is the invocation context: its attributes and children are the only
	// external inputs visible to the component body.
	inst := def.instantiate()
	if err := e.applyInvocation(inst, n, ec); err != nil {
		return changed, err
	}
	spliceChildrenBefore(n, inst)
	detach(n)
	return true, nil
}

func (e *Engine) substituteChildren(n *html.Node, ec *ExpansionContext) (bool, error) {
	changed := false
	for c := n.FirstChild; c != nil; {
		// c may be detached or replaced below; capture the successor first.
		next := c.NextSibling
		ch, err := e.substitute(c, ec)
		changed = changed || ch
		if err != nil {
			return changed, err
		}
		c = next
	}
	return changed, nil
}

// applyInvocation performs structural substitution inside one instantiated
// body: first a full-tree pass expanding ${...} in attribute values and
// text, then the construct rewrite (foreachchild, if, self.inner, self.*).
func (e *Engine) applyInvocation(body, inv *html.Node, ec *ExpansionContext) error {
	expandTree(body, inv, ec)
	for c := body.FirstChild; c != nil; {
		next := c.NextSibling
		if err := e.rewriteConstructs(c, inv, ec); err != nil {
			return err
		}
		c = next
	}
	return nil
}

// expandTree expression-expands every attribute value and text node in the
// subtree against the invocation context, so ${self.x} works inside
// ordinary attributes and text, not only inside dedicated self.* tags.
func expandTree(n *html.Node, inv *html.Node, ec *ExpansionContext) {
	switch n.Type {
	case html.ElementNode:
		for i := range n.Attr {
			n.Attr[i].Val = expandString(n.Attr[i].Val, inv, ec)
		}
	case html.TextNode:
		n.Data = expandString(n.Data, inv, ec)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		expandTree(c, inv, ec)
	}
}

// rewriteConstructs walks the instantiated body innermost-first and
// rewrites the four structural constructs. foreachchild is handled before
// its children are visited because the loop body may only be interpreted
// per iteration, with the loop variable bound.
func (e *Engine) rewriteConstructs(n *html.Node, inv *html.Node, ec *ExpansionContext) error {
	if n.Type != html.ElementNode {
		return nil
	}

	if strings.HasPrefix(n.Data, foreachPrefix) {
		return e.rewriteForeach(n, inv, ec)
	}

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if err := e.rewriteConstructs(c, inv, ec); err != nil {
			return err
		}
		c = next
	}

	switch {
	case n.Data == "if":
		return e.rewriteIf(n, inv, ec)
	case n.Data == selfPrefix+"inner":
		for c := inv.FirstChild; c != nil; c = c.NextSibling {
			insertBefore(n, cloneNode(c))
		}
		detach(n)
	case strings.HasPrefix(n.Data, selfPrefix):
		e.rewriteSelfAttr(n, inv, ec)
	}
	return nil
}

// rewriteForeach expands <foreachchild.VAR> by cloning its single loop-body
// template once per element child of the invocation context. Inside each
// clone, occurrences of the loop variable (written <self.VAR> or bare
// <VAR>) are replaced by a deep clone of the iteration's invocation child,
// with the occurrence's own attributes propagated onto the substituted
// node. Zero element children is valid and yields empty output.
func (e *Engine) rewriteForeach(n *html.Node, inv *html.Node, ec *ExpansionContext) error {
	loopVar := strings.TrimPrefix(n.Data, foreachPrefix)
	elements := countElementChildren(n)
	if loopVar == "" || elements != 1 {
		return ErrMalformedForeach{Var: loopVar, Elements: elements}
	}

	var tmpl *html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			tmpl = c
			break
		}
	}

	for invChild := inv.FirstChild; invChild != nil; invChild = invChild.NextSibling {
		// Only markup children drive iteration.
		if invChild.Type != html.ElementNode {
			continue
		}
		iter := cloneNode(tmpl)
		insertBefore(n, iter)
		substituteLoopVar(iter, loopVar, invChild, inv, ec)
		// iter itself may have been the loop-var occurrence and is then
		// already replaced by verbatim caller content.
		if iter.Parent != nil {
			if err := e.rewriteConstructs(iter, inv, ec); err != nil {
				return err
			}
		}
	}
	detach(n)
	return nil
}

// substituteLoopVar replaces occurrences of the loop variable tag in one
// iteration clone. Replacement does not recurse into the substituted
// subtree: the invocation child is spliced in verbatim.
func substituteLoopVar(n *html.Node, loopVar string, repl, inv *html.Node, ec *ExpansionContext) {
	if n.Type != html.ElementNode {
		return
	}
	if n.Data == loopVar || n.Data == selfPrefix+loopVar {
		sub := cloneNode(repl)
		for _, a := range n.Attr {
			setAttr(sub, a.Key, expandString(a.Val, inv, ec))
		}
		insertBefore(n, sub)
		detach(n)
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		substituteLoopVar(c, loopVar, repl, inv, ec)
		c = next
	}
}

// rewriteIf evaluates the single condition attribute of an <if> element as
// an anchored pattern match and splices the children of the taken branch in
// its place. A missing branch for the taken path is an empty expansion;
// missing both branches is reported but not fatal.
func (e *Engine) rewriteIf(n *html.Node, inv *html.Node, ec *ExpansionContext) error {
	if len(n.Attr) != 1 {
		return ErrMalformedIf{Attrs: len(n.Attr)}
	}
	cond := n.Attr[0]
	matched, err := matchesPattern(cond.Key, cond.Val, inv, ec)
	if err != nil {
		return err
	}

	thenBranch := findChildElement(n, "then")
	elseBranch := findChildElement(n, "else")
	if thenBranch == nil && elseBranch == nil {
		ec.warn(WarnEmptyIf, "<if "+cond.Key+"="+cond.Val+">", "neither <then> nor <else> present")
	}

	branch := elseBranch
	if matched {
		branch = thenBranch
	}
	if branch != nil {
		spliceChildrenBefore(n, branch)
	}
	detach(n)
	return nil
}

// rewriteSelfAttr replaces <self.ATTR> with a text node holding the
// expanded attribute value, or removes it when the attribute is absent or
// empty. Absence is advisory only; the warning lists the attributes that
// were available.
func (e *Engine) rewriteSelfAttr(n *html.Node, inv *html.Node, ec *ExpansionContext) {
	name := strings.TrimPrefix(n.Data, selfPrefix)
	val, ok := getAttr(inv, name)
	if !ok {
		ec.warn(WarnMissingAttribute, n.Data, availableAttrs(inv))
	} else if val != "" {
		insertBefore(n, &html.Node{Type: html.TextNode, Data: expandString(val, inv, ec)})
	}
	detach(n)
}

// unresolvedTags lists the distinct component tags still present in the
// subtree, for the non-convergence error message.
func (e *Engine) unresolvedTags(root *html.Node) []string {
	seen := make(map[string]bool)
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, ok := e.Library.Get(n.Data); ok {
				seen[n.Data] = true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
