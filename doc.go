// Package weave expands HTML pages by substituting custom element tags with
// reusable component definitions at build time.
//
// A component is a markup fragment stored as one file in a flat components
// folder; the file stem becomes the tag name. The substitution engine
// rewrites every occurrence of a component tag into an instantiation of its
// definition, resolving a small expression language (${self.attr},
// ${a||b}, ${self.filepath}) and the structural constructs foreachchild.*,
// if/then/else, self.inner and self.* against the calling tag's attributes
// and children. Rewriting iterates to a fixed point so components may invoke
// each other at arbitrary depth.
//
// The result is plain, self-contained HTML: no runtime framework, no
// client-side resolution.
package weave
